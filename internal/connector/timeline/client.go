package timeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oranjParker/Sintillio/internal/config"
	"github.com/oranjParker/Sintillio/internal/connector"
	"github.com/oranjParker/Sintillio/internal/core"
	"github.com/redis/go-redis/v9"
)

const (
	Name          = "timeline"
	DefaultListID = "78468360"
	DefaultLimit  = 5

	cachePrefix = "sintillio:timeline:"
)

type User struct {
	Name            string `json:"name"`
	ScreenName      string `json:"screen_name"`
	ProfileImageURL string `json:"profile_image_url_https"`
	Verified        bool   `json:"verified"`
}

type Metrics struct {
	RetweetCount  int `json:"retweet_count"`
	FavoriteCount int `json:"favorite_count"`
	ReplyCount    int `json:"reply_count"`
}

type Tweet struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	CreatedAt string          `json:"created_at"`
	User      User            `json:"user"`
	Metrics   Metrics         `json:"metrics"`
	Entities  json.RawMessage `json:"entities,omitempty"`
}

type upstreamTweet struct {
	IDStr         string          `json:"id_str"`
	FullText      string          `json:"full_text"`
	Text          string          `json:"text"`
	CreatedAt     string          `json:"created_at"`
	User          User            `json:"user"`
	RetweetCount  int             `json:"retweet_count"`
	FavoriteCount int             `json:"favorite_count"`
	ReplyCount    int             `json:"reply_count"`
	Entities      json.RawMessage `json:"entities"`
}

func (u upstreamTweet) normalize() Tweet {
	text := u.FullText
	if text == "" {
		text = u.Text
	}
	created := u.CreatedAt
	if t, err := time.Parse(time.RubyDate, u.CreatedAt); err == nil {
		created = t.UTC().Format("2006-01-02T15:04:05.000Z")
	}
	return Tweet{
		ID:        u.IDStr,
		Text:      text,
		CreatedAt: created,
		User:      u.User,
		Metrics: Metrics{
			RetweetCount:  u.RetweetCount,
			FavoriteCount: u.FavoriteCount,
			ReplyCount:    u.ReplyCount,
		},
		Entities: u.Entities,
	}
}

type timelineResponse struct {
	Data []upstreamTweet `json:"data"`
}

// Client reads list timelines through RapidAPI. Responses are cached per
// list for CacheTTL so bursts of feed views cost one upstream call.
type Client struct {
	baseURL string
	host    string
	ttl     time.Duration
	http    *http.Client
	rdb     *redis.Client
	logger  *slog.Logger
}

func NewClient(cfg config.TimelineConfig, httpClient *http.Client, rdb *redis.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		host:    cfg.Host,
		ttl:     cfg.CacheTTL,
		http:    httpClient,
		rdb:     rdb,
		logger:  logger.With("component", "timeline"),
	}
}

func (c *Client) List(ctx context.Context, apiKey, listID string, limit int) ([]Tweet, error) {
	if listID == "" {
		listID = DefaultListID
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	tweets, ok := c.cached(ctx, listID)
	if !ok {
		var err error
		tweets, err = c.fetch(ctx, apiKey, listID)
		if err != nil {
			return nil, err
		}
		c.store(ctx, listID, tweets)
	}

	if len(tweets) > limit {
		tweets = tweets[:limit]
	}
	return tweets, nil
}

func (c *Client) fetch(ctx context.Context, apiKey, listID string) ([]Tweet, error) {
	endpoint := c.baseURL + "/list-timeline?listId=" + url.QueryEscape(listID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build timeline request: %w", err)
	}
	req.Header.Set("x-rapidapi-host", c.host)
	req.Header.Set("x-rapidapi-key", apiKey)

	c.logger.Info("fetching list timeline", "list_id", listID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &core.ConnectorError{
			Connector:  Name,
			Message:    "Twitter API request failed: " + err.Error(),
			Status:     http.StatusBadGateway,
			StatusText: http.StatusText(http.StatusBadGateway),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ce := connector.UpstreamError(Name, "", resp)
		ce.Message = fmt.Sprintf("Twitter API request failed: %v", ce.Details)
		return nil, ce
	}

	var parsed timelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}

	tweets := make([]Tweet, 0, len(parsed.Data))
	for _, t := range parsed.Data {
		tweets = append(tweets, t.normalize())
	}
	return tweets, nil
}

func (c *Client) cached(ctx context.Context, listID string) ([]Tweet, bool) {
	if c.rdb == nil || c.ttl <= 0 {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, cachePrefix+listID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("timeline cache read failed", "error", err)
		}
		return nil, false
	}
	var tweets []Tweet
	if err := json.Unmarshal(data, &tweets); err != nil {
		return nil, false
	}
	return tweets, true
}

func (c *Client) store(ctx context.Context, listID string, tweets []Tweet) {
	if c.rdb == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(tweets)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cachePrefix+listID, data, c.ttl).Err(); err != nil {
		c.logger.Warn("timeline cache write failed", "error", err)
	}
}
