// Package api exposes the pipeline over JSON HTTP. Every route authenticates
// through the gate first; the acquisition and admin routes also require a
// privilege policy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/oranjParker/Sintillio/internal/connector/cryptopanic"
	"github.com/oranjParker/Sintillio/internal/connector/firecrawl"
	"github.com/oranjParker/Sintillio/internal/connector/timeline"
	"github.com/oranjParker/Sintillio/internal/core"
	"github.com/oranjParker/Sintillio/internal/embedding"
	"github.com/oranjParker/Sintillio/internal/identity"
	"github.com/oranjParker/Sintillio/internal/service"
	"github.com/oranjParker/Sintillio/internal/storage/postgres"
	"github.com/oranjParker/Sintillio/internal/utils"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const maxBodyBytes = 1 << 20

type Gate interface {
	Authenticate(ctx context.Context, authHeader string) (core.Caller, error)
	Admit(ctx context.Context, authHeader string, policy identity.Policy) (identity.Grant, error)
}

type Pipeline interface {
	Search(ctx context.Context, caller core.Caller, req firecrawl.Request) (*service.SearchOutcome, error)
	CryptoNews(ctx context.Context, caller core.Caller, params cryptopanic.Params) (*service.CryptoOutcome, error)
	Embed(ctx context.Context, queryID string) (embedding.Stats, error)
	Timeline(ctx context.Context, listID string, limit int) ([]timeline.Tweet, error)
	Feed(ctx context.Context, q postgres.FeedQuery) ([]core.ContentResult, error)
	VerifyAdmins(ctx context.Context) (*identity.RepairReport, error)
	TrustedDomain() string
}

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error

type Server struct {
	gate     Gate
	pipeline Pipeline
	health   HealthCheck
	md       goldmark.Markdown
	logger   *slog.Logger
}

func NewServer(gate Gate, pipeline Pipeline, health HealthCheck, logger *slog.Logger) *Server {
	return &Server{
		gate:     gate,
		pipeline: pipeline,
		health:   health,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:   logger.With("component", "api"),
	}
}

// Handler registers every route and wraps the mux with CORS handling.
func (s *Server) Handler() (http.Handler, error) {
	mux := runtime.NewServeMux()

	routes := []struct {
		method  string
		pattern string
		fn      runtime.HandlerFunc
	}{
		{http.MethodPost, "/search", s.handleSearch},
		{http.MethodGet, "/crypto-news", s.handleCryptoNews},
		{http.MethodPost, "/embeddings", s.handleEmbeddings},
		{http.MethodGet, "/twitter-feed", s.handleTimeline},
		{http.MethodGet, "/feed", s.handleFeed},
		{http.MethodPost, "/verify-admin-roles", s.handleVerifyAdmins},
		{http.MethodGet, "/healthz", s.handleHealth},
	}
	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.pattern, r.fn); err != nil {
			return nil, fmt.Errorf("register %s %s: %w", r.method, r.pattern, err)
		}
	}

	return utils.AllowCORS(mux), nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	grant, err := s.gate.Admit(r.Context(), r.Header.Get("Authorization"), identity.PolicySearch)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	var req firecrawl.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, s.logger, core.Describe(core.ErrInvalidRequest, "Invalid request body", err.Error()))
		return
	}

	out, err := s.pipeline.Search(r.Context(), grant.Caller, req)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	results := out.Results
	if results == nil {
		results = []firecrawl.Result{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  service.MessageSearchCompleted,
		"query_id": out.QueryID,
		"results":  results,
	})
}

func (s *Server) handleCryptoNews(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	grant, err := s.gate.Admit(r.Context(), r.Header.Get("Authorization"), identity.PolicyAdmin)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	q := r.URL.Query()
	params := cryptopanic.Params{
		Currencies: q.Get("currencies"),
		Filter:     q.Get("filter"),
		Kind:       q.Get("kind"),
		Regions:    q.Get("regions"),
		Limit:      intParam(q.Get("limit")),
	}

	out, err := s.pipeline.CryptoNews(r.Context(), grant.Caller, params)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	body := map[string]any{
		"success":  true,
		"message":  out.Message,
		"query_id": out.QueryID,
	}
	if out.Message != service.MessageNoResults {
		body["processed_posts"] = out.Processed
	}
	writeJSON(w, http.StatusOK, body)
}

type embedRequest struct {
	QueryID string `json:"queryId"`
}

func (s *Server) handleEmbeddings(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if _, err := s.gate.Admit(r.Context(), r.Header.Get("Authorization"), identity.PolicyAdmin); err != nil {
		writeError(w, s.logger, err)
		return
	}

	var req embedRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, s.logger, core.Describe(core.ErrInvalidRequest, "Invalid request body", err.Error()))
		return
	}

	stats, err := s.pipeline.Embed(r.Context(), req.QueryID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	body := map[string]any{
		"success":   true,
		"message":   stats.Message,
		"processed": stats.Processed,
	}
	if stats.Message != embedding.MessageNoRows {
		body["total"] = stats.Total
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if _, err := s.gate.Authenticate(r.Context(), r.Header.Get("Authorization")); err != nil {
		writeError(w, s.logger, err)
		return
	}

	q := r.URL.Query()
	tweets, err := s.pipeline.Timeline(r.Context(), q.Get("listId"), intParam(q.Get("limit")))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if tweets == nil {
		tweets = []timeline.Tweet{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tweets": tweets})
}

type feedItem struct {
	core.ContentResult
	ContentHTML string `json:"content_html,omitempty"`
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if _, err := s.gate.Authenticate(r.Context(), r.Header.Get("Authorization")); err != nil {
		writeError(w, s.logger, err)
		return
	}

	q := r.URL.Query()
	query := postgres.FeedQuery{
		Limit:  intParam(q.Get("limit")),
		Offset: intParam(q.Get("offset")),
		Source: q.Get("source"),
	}
	rows, err := s.pipeline.Feed(r.Context(), query)
	if err != nil {
		writeError(w, s.logger, core.Describe(core.ErrPersistence, "Failed to load feed", err.Error()))
		return
	}

	asHTML := strings.EqualFold(q.Get("format"), "html")
	items := make([]feedItem, 0, len(rows))
	for _, row := range rows {
		item := feedItem{ContentResult: row}
		if asHTML {
			item.ContentHTML = s.renderMarkdown(row.Content)
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "results": items})
}

func (s *Server) renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(src), &buf); err != nil {
		s.logger.Warn("markdown render failed", "error", err)
		return ""
	}
	return buf.String()
}

func (s *Server) handleVerifyAdmins(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if _, err := s.gate.Admit(r.Context(), r.Header.Get("Authorization"), identity.PolicyAdmin); err != nil {
		writeError(w, s.logger, err)
		return
	}

	report, err := s.pipeline.VerifyAdmins(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	domain := s.pipeline.TrustedDomain()
	if len(report.Users) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": fmt.Sprintf("No users with %s email found", domain),
			"users":   []identity.AdminVerification{},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Verified %d users with %s emails", len(report.Users), domain),
		"users":   report.Users,
		"fixed":   report.Fixed,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// intParam parses a numeric query parameter. Anything unparsable reads as
// zero so the pipeline default applies.
func intParam(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}
