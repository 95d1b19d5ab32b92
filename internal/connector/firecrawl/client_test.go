package firecrawl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/oranjParker/Sintillio/internal/config"
	"github.com/oranjParker/Sintillio/internal/core"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.FirecrawlConfig{BaseURL: srv.URL + "/", Timeout: time.Second}, srv.Client())
}

func TestRequest_ApplyDefaults(t *testing.T) {
	r := Request{Query: "bitcoin"}
	r.ApplyDefaults()
	if r.Limit != 10 || r.Lang != "en" || r.Country != "us" || r.TBS != "" {
		t.Errorf("unexpected defaults %+v", r)
	}
	if len(r.ScrapeOptions.Formats) != 1 || r.ScrapeOptions.Formats[0] != "markdown" {
		t.Errorf("expected markdown-only formats, got %v", r.ScrapeOptions.Formats)
	}

	snap := r.Snapshot()
	if snap.Source != Name || snap.Limit != 10 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestRequest_ForwardsScrapeOptions(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"success":true,"data":[]}`))
	})

	var req Request
	body := `{"query":"defi hacks","scrapeOptions":{"formats":["markdown","links"],"onlyMainContent":true,"waitFor":500}}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	req.ApplyDefaults()

	if _, err := c.Search(context.Background(), "fc-key", req); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	opts, ok := got["scrapeOptions"].(map[string]any)
	if !ok {
		t.Fatalf("scrapeOptions missing upstream: %v", got)
	}
	if opts["onlyMainContent"] != true || opts["waitFor"] != float64(500) {
		t.Errorf("extra scrape options dropped: %v", opts)
	}
	if formats, _ := opts["formats"].([]any); len(formats) != 2 {
		t.Errorf("unexpected formats %v", opts["formats"])
	}

	snap, err := json.Marshal(req.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(snap), `"onlyMainContent":true`) {
		t.Errorf("snapshot should record every scrape option: %s", snap)
	}
}

func TestClient_Search(t *testing.T) {
	t.Run("Markdown Only", func(t *testing.T) {
		var got Request
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/search" || r.Method != http.MethodPost {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			if r.Header.Get("Authorization") != "Bearer fc-key" {
				t.Errorf("missing bearer key")
			}
			json.NewDecoder(r.Body).Decode(&got)
			w.Write([]byte(`{"success":true,"data":[
				{"title":"Rules","description":"d","url":"https://a.example","markdown":"# Rules"},
				{"title":"More","description":"d","url":"https://b.example","markdown":"# More"}
			]}`))
		})

		req := Request{Query: "blockchain regulation", Limit: 5}
		req.ApplyDefaults()
		results, err := c.Search(context.Background(), "fc-key", req)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if got.Query != "blockchain regulation" || got.Limit != 5 {
			t.Errorf("upstream saw %+v", got)
		}
		if len(results) > 5 {
			t.Errorf("limit not honoured: %d", len(results))
		}
		for _, r := range results {
			if r.Title == "" || r.URL == "" || r.Markdown == "" {
				t.Errorf("incomplete result %+v", r)
			}
			if r.Links != nil {
				t.Errorf("links were not requested: %+v", r.Links)
			}
		}

		raw, _ := json.Marshal(results[0])
		if strings.Contains(string(raw), `"links"`) {
			t.Errorf("absent links must not serialize: %s", raw)
		}
	})

	t.Run("Markdown And Links Round Trip To Candidate", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"data":[{"title":"T","description":"D","url":"https://x.example","markdown":"# T","links":["https://y.example"],"metadata":{"statusCode":200}}]}`))
		})

		results, err := c.Search(context.Background(), "k", Request{Query: "q", Limit: 1})
		if err != nil {
			t.Fatal(err)
		}
		cand := results[0].Candidate()
		if cand.Content != "# T" || cand.Source != Name {
			t.Errorf("unexpected candidate %+v", cand)
		}
		links, ok := cand.Metadata["links"].([]string)
		if !ok || len(links) != 1 || links[0] != "https://y.example" {
			t.Errorf("links lost: %v", cand.Metadata["links"])
		}
	})

	t.Run("Upstream Non 2xx", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			w.Write([]byte(`{"error":"Insufficient credits"}`))
		})

		_, err := c.Search(context.Background(), "k", Request{Query: "q"})
		var ce *core.ConnectorError
		if !errors.As(err, &ce) {
			t.Fatalf("expected ConnectorError, got %v", err)
		}
		if ce.Status != http.StatusPaymentRequired || ce.StatusText != "Payment Required" {
			t.Errorf("unexpected status %d %q", ce.Status, ce.StatusText)
		}
		if ce.Details != `{"error":"Insufficient credits"}` {
			t.Errorf("unexpected details %v", ce.Details)
		}
	})

	t.Run("Success False", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"error":"bad query"}`))
		})

		_, err := c.Search(context.Background(), "k", Request{Query: "q"})
		if !errors.Is(err, core.ErrUpstreamRejected) {
			t.Fatalf("expected upstream rejection, got %v", err)
		}
		var de *core.DetailedError
		if !errors.As(err, &de) || de.Message != "Firecrawl API returned an error" {
			t.Errorf("unexpected error %+v", de)
		}
	})

	t.Run("Missing Data", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true}`))
		})
		if _, err := c.Search(context.Background(), "k", Request{Query: "q"}); !errors.Is(err, core.ErrUpstreamRejected) {
			t.Errorf("expected upstream rejection, got %v", err)
		}
	})
}
