package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jimsmart/grobotstxt"
	"github.com/redis/go-redis/v9"
)

const (
	RobotsTTL    = 24 * time.Hour
	robotsPrefix = "sintillio:robots:"
)

// RobotsGate answers robots.txt questions for scraped hosts, caching each
// host's file in Redis.
type RobotsGate struct {
	rdb       *redis.Client
	client    *http.Client
	userAgent string
}

func NewRobotsGate(rdb *redis.Client, client *http.Client, userAgent string) *RobotsGate {
	return &RobotsGate{rdb: rdb, client: client, userAgent: userAgent}
}

// Allowed reports whether the user agent may fetch u. A host whose
// robots.txt cannot be read is treated as allowing everything.
func (g *RobotsGate) Allowed(ctx context.Context, u *url.URL) (bool, error) {
	data, err := g.robotsData(ctx, u)
	if err != nil {
		return true, err
	}
	if data == "" {
		return true, nil
	}
	return grobotstxt.AgentAllowed(data, g.userAgent, u.String()), nil
}

func (g *RobotsGate) robotsData(ctx context.Context, u *url.URL) (string, error) {
	key := robotsPrefix + u.Host

	if g.rdb != nil {
		data, err := g.rdb.Get(ctx, key).Result()
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, redis.Nil) {
			return "", err
		}
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var content string
	if resp.StatusCode == http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if err != nil {
			return "", err
		}
		content = string(body)
	}

	if g.rdb != nil {
		g.rdb.Set(ctx, key, content, RobotsTTL)
	}
	return content, nil
}
