// Package connector holds the pieces shared by the third-party source
// clients in its subpackages.
package connector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/oranjParker/Sintillio/internal/core"
)

const maxErrorBody = 64 * 1024

// UpstreamError turns a non-2xx response into a ConnectorError. The body is
// kept as the detail when it is JSON, otherwise the status line is used.
func UpstreamError(connector, message string, resp *http.Response) *core.ConnectorError {
	detail := fmt.Sprintf("Status %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && len(body) > 0 && json.Valid(body) {
		detail = string(body)
	}

	return &core.ConnectorError{
		Connector:  connector,
		Message:    message,
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Details:    detail,
	}
}
