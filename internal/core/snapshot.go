package core

import (
	"encoding/json"
	"fmt"
)

// ScrapeOptions is the scrape block forwarded to the search provider. Keys
// other than formats are kept in Extra and sent back out unchanged.
type ScrapeOptions struct {
	Formats []string
	Extra   map[string]any
}

func (o ScrapeOptions) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(o.Extra)+1)
	for k, v := range o.Extra {
		out[k] = v
	}
	out["formats"] = o.Formats
	return json.Marshal(out)
}

func (o *ScrapeOptions) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	o.Formats, o.Extra = nil, nil
	if f, ok := raw["formats"]; ok {
		if err := json.Unmarshal(f, &o.Formats); err != nil {
			return fmt.Errorf("scrapeOptions.formats: %w", err)
		}
		delete(raw, "formats")
	}
	if len(raw) == 0 {
		return nil
	}

	o.Extra = make(map[string]any, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("scrapeOptions.%s: %w", k, err)
		}
		o.Extra[k] = val
	}
	return nil
}

// SearchSnapshot is the ledger configuration for a web search acquisition.
type SearchSnapshot struct {
	Source        string        `json:"source"`
	Limit         int           `json:"limit"`
	Lang          string        `json:"lang"`
	Country       string        `json:"country"`
	TBS           string        `json:"tbs"`
	ScrapeOptions ScrapeOptions `json:"scrapeOptions"`
}

type CryptoFilters struct {
	Currencies string `json:"currencies"`
	Filter     string `json:"filter"`
	Kind       string `json:"kind"`
	Regions    string `json:"regions"`
}

// CryptoSnapshot is the ledger configuration for a crypto news acquisition.
type CryptoSnapshot struct {
	Source  string        `json:"source"`
	Filters CryptoFilters `json:"filters"`
	Limit   int           `json:"limit"`
}

// LedgerPatch is merged into a ledger row's configuration when it closes.
// Zero-valued fields are omitted so they never overwrite earlier keys.
type LedgerPatch struct {
	Error     any    `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
	Results   *int   `json:"results_count,omitempty"`
	Processed *int   `json:"processed,omitempty"`
	Total     *int   `json:"total,omitempty"`
	Embedded  *int   `json:"embedded,omitempty"`

	// UpstreamResponse keeps a 2xx search answer that reported failure.
	UpstreamResponse any `json:"firecrawlResponse,omitempty"`
}

func IntPtr(v int) *int { return &v }
