package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/oranjParker/Sintillio/internal/config"
	"github.com/oranjParker/Sintillio/internal/core"
	"github.com/oranjParker/Sintillio/internal/utils"
	"github.com/redis/go-redis/v9"
)

// sparseThreshold is the text length under which a page is assumed to need
// client-side rendering.
const sparseThreshold = 200

type Page struct {
	URL      string
	Title    string
	Text     string
	Rendered bool
}

type Scraper struct {
	client   *http.Client
	robots   *RobotsGate
	renderer Renderer
	cfg      config.ScraperConfig
	logger   *slog.Logger
}

// New builds a scraper from cfg. rdb and renderer are optional: without rdb
// robots.txt is fetched on every call, without renderer sparse pages are
// returned as-is.
func New(cfg config.ScraperConfig, rdb *redis.Client, renderer Renderer, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	client := utils.NewSafeHTTPClient(utils.ClientConfig{
		Timeout:       cfg.Timeout,
		AllowInternal: cfg.AllowInternal,
	})

	s := &Scraper{
		client:   client,
		renderer: renderer,
		cfg:      cfg,
		logger:   logger.With("component", "scraper"),
	}
	if cfg.RespectRobots {
		s.robots = NewRobotsGate(rdb, client, cfg.UserAgent)
	}
	return s
}

func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: unsupported url %q", core.ErrInvalidRequest, rawURL)
	}

	if s.robots != nil {
		ok, err := s.robots.Allowed(ctx, u)
		if err != nil {
			s.logger.Warn("robots.txt unavailable", "host", u.Host, "error", err)
		}
		if !ok {
			return nil, core.ErrRobotsDisallowed
		}
	}

	body, err := s.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	title, text := Extract(body, u)
	page := &Page{URL: rawURL, Title: title, Text: text}

	if len(text) < sparseThreshold && s.cfg.RenderSparse && s.renderer != nil {
		s.logger.Debug("content sparse, rendering", "url", rawURL, "chars", len(text))
		html, err := s.renderer.Render(ctx, rawURL)
		if err != nil {
			s.logger.Warn("render failed", "url", rawURL, "error", err)
		} else if rTitle, rText := Extract([]byte(html), u); len(rText) > len(text) {
			page.Text = rText
			page.Rendered = true
			if page.Title == "" {
				page.Title = rTitle
			}
		}
	}

	if page.Text == "" {
		return nil, fmt.Errorf("%w: %s", core.ErrEmptyContent, rawURL)
	}
	page.Text = utils.SanitizeUTF8(page.Text)
	return page, nil
}

func (s *Scraper) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	limit := s.cfg.MaxBodyBytes
	if limit <= 0 {
		limit = 5 * 1024 * 1024
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}
