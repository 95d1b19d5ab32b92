package cryptopanic

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oranjParker/Sintillio/internal/config"
	"github.com/oranjParker/Sintillio/internal/connector"
	"github.com/oranjParker/Sintillio/internal/core"
	"github.com/oranjParker/Sintillio/internal/utils"
)

const Name = core.SourceCryptoPanic

type Params struct {
	Currencies string
	Filter     string
	Kind       string
	Regions    string
	Limit      int
}

func (p *Params) ApplyDefaults() {
	if p.Currencies == "" {
		p.Currencies = "BTC,ETH"
	}
	if p.Filter == "" {
		p.Filter = "hot"
	}
	if p.Kind == "" {
		p.Kind = "news"
	}
	if p.Regions == "" {
		p.Regions = "en"
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
}

// QueryText is the human-readable ledger entry for p.
func (p Params) QueryText() string {
	return fmt.Sprintf("CryptoPanic: %s (%s)", p.Currencies, p.Filter)
}

func (p Params) Snapshot() core.CryptoSnapshot {
	return core.CryptoSnapshot{
		Source: Name,
		Filters: core.CryptoFilters{
			Currencies: p.Currencies,
			Filter:     p.Filter,
			Kind:       p.Kind,
			Regions:    p.Regions,
		},
		Limit: p.Limit,
	}
}

type Currency struct {
	Code  string `json:"code"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	URL   string `json:"url"`
}

type PostSource struct {
	Title  string `json:"title"`
	Region string `json:"region"`
	Domain string `json:"domain"`
	URL    string `json:"url,omitempty"`
}

type PostMetadata struct {
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

type Post struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	PublishedAt string        `json:"published_at"`
	URL         string        `json:"url"`
	Domain      string        `json:"domain"`
	Currencies  []Currency    `json:"currencies"`
	Source      *PostSource   `json:"source,omitempty"`
	Metadata    *PostMetadata `json:"metadata,omitempty"`
	Kind        string        `json:"kind,omitempty"`
	CreatedAt   string        `json:"created_at"`
	PanicScore  *float64      `json:"panic_score,omitempty"`
}

func (p Post) Description() string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata.Description
}

// ScrapeURL is the page fetched for the full article, or "" when the post
// does not expose one.
func (p Post) ScrapeURL() string {
	if p.URL == "" || p.Source == nil {
		return ""
	}
	return p.Source.URL
}

// SourceDomain is the publisher domain shown with the headline. When the
// aggregator leaves it blank it is derived from the article link.
func (p Post) SourceDomain() string {
	if p.Domain != "" {
		return p.Domain
	}
	if p.Source != nil {
		if p.Source.Domain != "" {
			return p.Source.Domain
		}
		if d := utils.BaseDomain(p.Source.URL); d != "" {
			return d
		}
	}
	return utils.BaseDomain(p.URL)
}

func (p Post) Published() *time.Time {
	if p.PublishedAt == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, p.PublishedAt)
	if err != nil {
		return nil
	}
	return &t
}

type postsResponse struct {
	Count   int    `json:"count"`
	Results []Post `json:"results"`
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

func NewClient(cfg config.CryptoNewsConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      httpClient,
		logger:    logger.With("component", "cryptopanic"),
	}
}

func (c *Client) postsURL(apiKey string, p Params) string {
	q := url.Values{}
	q.Set("auth_token", apiKey)
	q.Set("public", "true")
	q.Set("currencies", p.Currencies)
	q.Set("filter", p.Filter)
	q.Set("kind", p.Kind)
	q.Set("regions", p.Regions)
	q.Set("metadata", "true")
	return c.baseURL + "/posts/?" + q.Encode()
}

// Posts returns at most p.Limit headlines matching p.
func (c *Client) Posts(ctx context.Context, apiKey string, p Params) ([]Post, error) {
	endpoint := c.postsURL(apiKey, p)
	c.logger.Info("calling aggregator", "url", utils.RedactQuery(endpoint, "auth_token"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build posts request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &core.ConnectorError{
			Connector:  Name,
			Message:    "CryptoPanic API request failed",
			Status:     http.StatusBadGateway,
			StatusText: http.StatusText(http.StatusBadGateway),
			Details:    utils.RedactQuery(endpoint, "auth_token") + ": request failed",
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, connector.UpstreamError(Name, "CryptoPanic API request failed", resp)
	}

	var parsed postsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := parsed.Results
	if p.Limit > 0 && len(posts) > p.Limit {
		posts = posts[:p.Limit]
	}
	return posts, nil
}
