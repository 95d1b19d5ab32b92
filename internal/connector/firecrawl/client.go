package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/oranjParker/Sintillio/internal/config"
	"github.com/oranjParker/Sintillio/internal/connector"
	"github.com/oranjParker/Sintillio/internal/core"
)

const Name = core.SourceFirecrawl

// Request is the search body accepted from callers and forwarded upstream.
type Request struct {
	Query         string             `json:"query"`
	Limit         int                `json:"limit,omitempty"`
	Lang          string             `json:"lang,omitempty"`
	Country       string             `json:"country,omitempty"`
	TBS           string             `json:"tbs"`
	ScrapeOptions core.ScrapeOptions `json:"scrapeOptions"`
}

func (r *Request) ApplyDefaults() {
	if r.Limit <= 0 {
		r.Limit = 10
	}
	if r.Lang == "" {
		r.Lang = "en"
	}
	if r.Country == "" {
		r.Country = "us"
	}
	if len(r.ScrapeOptions.Formats) == 0 {
		r.ScrapeOptions.Formats = []string{"markdown"}
	}
}

func (r Request) Snapshot() core.SearchSnapshot {
	return core.SearchSnapshot{
		Source:        Name,
		Limit:         r.Limit,
		Lang:          r.Lang,
		Country:       r.Country,
		TBS:           r.TBS,
		ScrapeOptions: r.ScrapeOptions,
	}
}

type Result struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	Markdown    string         `json:"markdown,omitempty"`
	HTML        string         `json:"html,omitempty"`
	Links       []string       `json:"links,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Candidate maps a search hit to the row written for it.
func (r Result) Candidate() core.Candidate {
	links := r.Links
	if links == nil {
		links = []string{}
	}
	orig := r.Metadata
	if orig == nil {
		orig = map[string]any{}
	}
	return core.Candidate{
		Title:       r.Title,
		Description: r.Description,
		URL:         r.URL,
		Content:     r.Markdown,
		ContentType: core.ContentTypeMarkdown,
		Source:      Name,
		Metadata: map[string]any{
			"links":            links,
			"originalMetadata": orig,
		},
	}
}

type searchResponse struct {
	Success bool     `json:"success"`
	Data    []Result `json:"data"`
	Error   string   `json:"error,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.FirecrawlConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
	}
}

// Search runs req against the search API. A 2xx answer that reports failure
// or carries no data comes back as ErrUpstreamRejected with the raw body as
// detail.
func (c *Client) Search(ctx context.Context, apiKey string, req Request) ([]Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/search", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &core.ConnectorError{
			Connector:  Name,
			Message:    "Firecrawl API request failed",
			Status:     http.StatusBadGateway,
			StatusText: http.StatusText(http.StatusBadGateway),
			Details:    err.Error(),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, connector.UpstreamError(Name, "Firecrawl API request failed", resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil || !parsed.Success || parsed.Data == nil {
		return nil, core.Describe(core.ErrUpstreamRejected, "Firecrawl API returned an error", string(body))
	}

	if len(parsed.Data) > req.Limit && req.Limit > 0 {
		parsed.Data = parsed.Data[:req.Limit]
	}
	return parsed.Data, nil
}
