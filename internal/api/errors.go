package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/oranjParker/Sintillio/internal/connector/timeline"
	"github.com/oranjParker/Sintillio/internal/core"
)

const unexpectedError = "An unexpected error occurred"

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError is the single place a pipeline or gate error becomes an HTTP
// answer.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ce *core.ConnectorError
	if errors.As(err, &ce) {
		if ce.Connector == timeline.Name {
			writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "error": ce.Message})
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":      ce.Message,
			"status":     ce.Status,
			"statusText": ce.StatusText,
			"details":    ce.Details,
		})
		return
	}

	status := statusFor(err)
	body := map[string]any{"error": unexpectedError}

	var de *core.DetailedError
	if errors.As(err, &de) {
		body["error"] = de.Message
		if de.Message == "" {
			body["error"] = de.Kind.Error()
		}
		if de.Details != "" {
			body["details"] = detailValue(de)
		}
	} else if status == http.StatusInternalServerError {
		body["details"] = err.Error()
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, core.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrEmbeddingInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// detailValue passes a rejected upstream body through as JSON.
func detailValue(de *core.DetailedError) any {
	if errors.Is(de.Kind, core.ErrUpstreamRejected) && json.Valid([]byte(de.Details)) {
		return json.RawMessage(de.Details)
	}
	return de.Details
}
