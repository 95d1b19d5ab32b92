package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oranjParker/Sintillio/internal/connector/cryptopanic"
	"github.com/oranjParker/Sintillio/internal/connector/firecrawl"
	"github.com/oranjParker/Sintillio/internal/connector/timeline"
	"github.com/oranjParker/Sintillio/internal/core"
	"github.com/oranjParker/Sintillio/internal/embedding"
	"github.com/oranjParker/Sintillio/internal/identity"
	"github.com/oranjParker/Sintillio/internal/storage/postgres"
)

const (
	MessageSearchCompleted = "Search completed successfully"
	MessageNoResults       = "No results found"
)

type Deps struct {
	Ledger   LedgerStore
	Results  ResultStore
	Feed     FeedStore
	Roles    AdminRoleStore
	Keys     *KeyResolver
	Search   SearchConnector
	News     NewsConnector
	Timeline TimelineConnector
	Scraper  PageScraper
	Vectors  VectorProvider
	Mirror   VectorMirror
	Embedder EmbeddingRunner
	Events   Publisher

	// Collection names the mirror collection for inline-embedded rows.
	Collection    string
	TrustedDomain string
}

// Pipeline runs the acquisition, embedding and read operations behind the
// HTTP API. Callers are authenticated and authorized before they reach it.
type Pipeline struct {
	deps   Deps
	logger *slog.Logger
}

func NewPipeline(deps Deps, logger *slog.Logger) *Pipeline {
	return &Pipeline{deps: deps, logger: logger.With("component", "pipeline")}
}

type SearchOutcome struct {
	QueryID string
	Results []firecrawl.Result
}

// Search runs a web search, records it in the ledger and stores every result
// in one batch.
func (p *Pipeline) Search(ctx context.Context, caller core.Caller, req firecrawl.Request) (*SearchOutcome, error) {
	apiKey, err := p.deps.Keys.Resolve(ctx, SecretFirecrawl)
	if err != nil {
		return nil, err
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return nil, core.Describe(core.ErrInvalidRequest, "Query is required", "")
	}
	req.ApplyDefaults()

	queryID, err := p.deps.Ledger.Open(ctx, caller.ID, req.Query, req.Snapshot())
	if err != nil {
		return nil, err
	}
	log := p.logger.With("query_id", queryID, "source", firecrawl.Name)

	results, err := p.deps.Search.Search(ctx, apiKey, req)
	if err != nil {
		p.closeLedger(ctx, queryID, core.StatusFailed, failurePatch(err))
		log.Error("search request failed", "error", err)
		return nil, err
	}

	candidates := make([]core.Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, r.Candidate())
	}

	ids, err := p.deps.Results.WriteBatch(ctx, queryID, candidates)
	if err != nil {
		p.closeLedger(ctx, queryID, core.StatusPartial, core.LedgerPatch{Error: err.Error()})
		log.Error("storing search results failed", "error", err)
		return nil, core.Describe(core.ErrPersistence, "Failed to store search results", err.Error())
	}

	p.closeLedger(ctx, queryID, core.StatusCompleted, core.LedgerPatch{Results: core.IntPtr(len(ids))})
	p.announce(ctx, queryID, firecrawl.Name, len(ids))

	log.Info("search completed", "results", len(ids))
	return &SearchOutcome{QueryID: queryID, Results: results}, nil
}

type ProcessedPost struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type CryptoOutcome struct {
	QueryID   string
	Message   string
	Processed []ProcessedPost
	Total     int
}

// CryptoNews pulls headlines, scrapes each source article in turn and stores
// one row per headline. A failing headline never affects the others.
func (p *Pipeline) CryptoNews(ctx context.Context, caller core.Caller, params cryptopanic.Params) (*CryptoOutcome, error) {
	apiKey, err := p.deps.Keys.Resolve(ctx, SecretCryptoPanic)
	if err != nil {
		return nil, err
	}
	params.ApplyDefaults()

	queryID, err := p.deps.Ledger.Open(ctx, caller.ID, params.QueryText(), params.Snapshot())
	if err != nil {
		return nil, err
	}
	log := p.logger.With("query_id", queryID, "source", cryptopanic.Name)

	posts, err := p.deps.News.Posts(ctx, apiKey, params)
	if err != nil {
		p.closeLedger(ctx, queryID, core.StatusFailed, failurePatch(err))
		log.Error("news request failed", "error", err)
		return nil, err
	}

	if len(posts) == 0 {
		p.closeLedger(ctx, queryID, core.StatusCompleted, core.LedgerPatch{Message: MessageNoResults})
		return &CryptoOutcome{QueryID: queryID, Message: MessageNoResults}, nil
	}

	processed := make([]ProcessedPost, 0, len(posts))
	pending, embedded := 0, 0
	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			p.closeLedger(ctx, queryID, core.StatusPartial, core.LedgerPatch{
				Error:     err.Error(),
				Processed: core.IntPtr(len(processed)),
				Total:     core.IntPtr(len(posts)),
			})
			return nil, err
		}

		id, inline, err := p.storePost(ctx, queryID, post)
		if err != nil {
			log.Error("storing headline failed", "title", post.Title, "error", err)
			continue
		}
		if inline {
			embedded++
		} else {
			pending++
		}
		processed = append(processed, ProcessedPost{ID: id, Title: post.Title})
	}

	p.closeLedger(ctx, queryID, core.StatusCompleted, core.LedgerPatch{
		Processed: core.IntPtr(len(processed)),
		Total:     core.IntPtr(len(posts)),
	})
	p.announce(ctx, queryID, cryptopanic.Name, pending)
	if embedded > 0 {
		p.publish(ctx, core.Event{
			Type:      core.EventContentEmbedded,
			QueryID:   queryID,
			Source:    cryptopanic.Name,
			Processed: embedded,
			Total:     len(posts),
			Timestamp: time.Now().UTC(),
		})
	}

	msg := fmt.Sprintf("Successfully processed %d out of %d posts", len(processed), len(posts))
	log.Info("crypto news processed", "processed", len(processed), "total", len(posts), "pending_embedding", pending)
	return &CryptoOutcome{QueryID: queryID, Message: msg, Processed: processed, Total: len(posts)}, nil
}

// storePost builds and inserts the row for one headline. The row is stored
// published only when its inline embedding succeeded.
func (p *Pipeline) storePost(ctx context.Context, queryID string, post cryptopanic.Post) (string, bool, error) {
	var scraped string
	if target := post.ScrapeURL(); target != "" && p.deps.Scraper != nil {
		page, err := p.deps.Scraper.Scrape(ctx, target)
		if err != nil {
			p.logger.Warn("article scrape failed", "url", target, "error", err)
		} else {
			scraped = page.Text
		}
	}

	fullText, markdown := cryptopanic.Compose(post, scraped)
	cand := cryptopanic.Candidate(post, markdown)

	if p.deps.Vectors != nil {
		if text := cryptopanic.EmbeddingText(post, fullText); text != "" {
			vector, err := p.deps.Vectors.Embed(ctx, text)
			if err != nil {
				p.logger.Warn("inline embedding failed, leaving row unpublished", "title", post.Title, "error", err)
			} else {
				cand.Embedding = vector
			}
		}
	}

	id, err := p.deps.Results.WriteOne(ctx, queryID, cand)
	if err != nil {
		return "", false, err
	}
	if len(cand.Embedding) == 0 {
		return id, false, nil
	}

	if p.deps.Mirror != nil {
		payload := embedding.MirrorPayload(queryID, cand.Title, cand.URL, cand.Source)
		if err := p.deps.Mirror.Upsert(ctx, p.deps.Collection, id, cand.Embedding, payload); err != nil {
			p.logger.Warn("vector mirror upsert failed", "result_id", id, "error", err)
		}
	}
	return id, true, nil
}

// Embed runs the embedding generator for one ledger entry.
func (p *Pipeline) Embed(ctx context.Context, queryID string) (embedding.Stats, error) {
	queryID = strings.TrimSpace(queryID)
	if queryID == "" {
		return embedding.Stats{}, core.Describe(core.ErrInvalidRequest, "Query ID is required", "")
	}
	return p.deps.Embedder.Embed(ctx, queryID)
}

// Timeline reads a tweet list. Nothing is written to the ledger or the
// result store.
func (p *Pipeline) Timeline(ctx context.Context, listID string, limit int) ([]timeline.Tweet, error) {
	apiKey, err := p.deps.Keys.Resolve(ctx, SecretRapidAPI)
	if err != nil {
		return nil, err
	}
	if listID == "" {
		listID = timeline.DefaultListID
	}
	if limit <= 0 {
		limit = timeline.DefaultLimit
	}
	return p.deps.Timeline.List(ctx, apiKey, listID, limit)
}

func (p *Pipeline) Feed(ctx context.Context, q postgres.FeedQuery) ([]core.ContentResult, error) {
	return p.deps.Feed.ListPublished(ctx, q)
}

// VerifyAdmins repairs the admin markers of every trusted-domain user.
func (p *Pipeline) VerifyAdmins(ctx context.Context) (*identity.RepairReport, error) {
	report, err := identity.RepairAdmins(ctx, p.deps.Roles, p.deps.TrustedDomain, p.logger)
	if err != nil {
		return nil, core.Describe(core.ErrPersistence, "Failed to verify admin roles", err.Error())
	}
	return report, nil
}

func (p *Pipeline) TrustedDomain() string {
	return p.deps.TrustedDomain
}

// closeLedger finalizes a ledger row even when the request context is gone.
// A failed close is logged; the caller's outcome stands.
func (p *Pipeline) closeLedger(ctx context.Context, id string, status core.Status, patch core.LedgerPatch) {
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.deps.Ledger.Close(closeCtx, id, status, patch); err != nil {
		p.logger.Error("closing ledger failed", "query_id", id, "status", status, "error", err)
	}
}

// announce tells the embed worker a query has rows waiting for vectors.
func (p *Pipeline) announce(ctx context.Context, queryID, source string, pending int) {
	p.publish(ctx, core.Event{
		Type:      core.EventAcquisitionCompleted,
		QueryID:   queryID,
		Source:    source,
		Total:     pending,
		Timestamp: time.Now().UTC(),
	})
}

func (p *Pipeline) publish(ctx context.Context, evt core.Event) {
	if p.deps.Events == nil {
		return
	}
	if err := p.deps.Events.Publish(ctx, evt); err != nil {
		p.logger.Warn("publishing pipeline event failed", "type", evt.Type, "query_id", evt.QueryID, "error", err)
	}
}

// failurePatch records a connector failure in the ledger snapshot.
func failurePatch(err error) core.LedgerPatch {
	var ce *core.ConnectorError
	if errors.As(err, &ce) {
		return core.LedgerPatch{Error: ce.Details}
	}

	var de *core.DetailedError
	if errors.As(err, &de) && errors.Is(err, core.ErrUpstreamRejected) {
		var raw any = de.Details
		if json.Valid([]byte(de.Details)) {
			raw = json.RawMessage(de.Details)
		}
		return core.LedgerPatch{UpstreamResponse: raw}
	}

	return core.LedgerPatch{Error: err.Error()}
}
