package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/oranjParker/Sintillio/internal/connector/cryptopanic"
	"github.com/oranjParker/Sintillio/internal/connector/firecrawl"
	"github.com/oranjParker/Sintillio/internal/connector/timeline"
	"github.com/oranjParker/Sintillio/internal/core"
	"github.com/oranjParker/Sintillio/internal/embedding"
	"github.com/oranjParker/Sintillio/internal/scraper"
	"github.com/oranjParker/Sintillio/internal/service/mocks"
	"github.com/oranjParker/Sintillio/internal/storage/postgres"
)

type PipelineTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	ledger   *mocks.MockLedgerStore
	results  *mocks.MockResultStore
	feed     *mocks.MockFeedStore
	roles    *mocks.MockAdminRoleStore
	keyStore *mocks.MockKeyStore
	search   *mocks.MockSearchConnector
	news     *mocks.MockNewsConnector
	tweets   *mocks.MockTimelineConnector
	scraper  *mocks.MockPageScraper
	vectors  *mocks.MockVectorProvider
	mirror   *mocks.MockVectorMirror
	embedder *mocks.MockEmbeddingRunner
	events   *mocks.MockPublisher

	caller core.Caller
	logger *slog.Logger
}

func (s *PipelineTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.ledger = mocks.NewMockLedgerStore(s.ctrl)
	s.results = mocks.NewMockResultStore(s.ctrl)
	s.feed = mocks.NewMockFeedStore(s.ctrl)
	s.roles = mocks.NewMockAdminRoleStore(s.ctrl)
	s.keyStore = mocks.NewMockKeyStore(s.ctrl)
	s.search = mocks.NewMockSearchConnector(s.ctrl)
	s.news = mocks.NewMockNewsConnector(s.ctrl)
	s.tweets = mocks.NewMockTimelineConnector(s.ctrl)
	s.scraper = mocks.NewMockPageScraper(s.ctrl)
	s.vectors = mocks.NewMockVectorProvider(s.ctrl)
	s.mirror = mocks.NewMockVectorMirror(s.ctrl)
	s.embedder = mocks.NewMockEmbeddingRunner(s.ctrl)
	s.events = mocks.NewMockPublisher(s.ctrl)

	s.caller = core.Caller{ID: "user-1", Email: "ops@blindvibe.com"}
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func (s *PipelineTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestPipelineTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func (s *PipelineTestSuite) pipeline(keys map[string]string) *Pipeline {
	return NewPipeline(Deps{
		Ledger:        s.ledger,
		Results:       s.results,
		Feed:          s.feed,
		Roles:         s.roles,
		Keys:          NewKeyResolver(keys, s.keyStore, s.logger),
		Search:        s.search,
		News:          s.news,
		Timeline:      s.tweets,
		Scraper:       s.scraper,
		Vectors:       s.vectors,
		Mirror:        s.mirror,
		Embedder:      s.embedder,
		Events:        s.events,
		Collection:    "search_results",
		TrustedDomain: "@blindvibe.com",
	}, s.logger)
}

func allKeys() map[string]string {
	return map[string]string{"firecrawl": "fc-key", "cryptopanic": "cp-key", "rapidapi": "ra-key"}
}

func (s *PipelineTestSuite) TestSearch_MarkdownOnly() {
	ctx := context.Background()
	p := s.pipeline(allKeys())

	want := firecrawl.Request{Query: "solana etf", Limit: 5, Lang: "en", Country: "us", ScrapeOptions: core.ScrapeOptions{Formats: []string{"markdown"}}}
	results := []firecrawl.Result{
		{Title: "A", URL: "https://a.example", Markdown: "# A"},
		{Title: "B", URL: "https://b.example", Markdown: "# B"},
	}

	gomock.InOrder(
		s.ledger.EXPECT().Open(ctx, "user-1", "solana etf", want.Snapshot()).Return("q-1", nil),
		s.search.EXPECT().Search(ctx, "fc-key", want).Return(results, nil),
		s.results.EXPECT().WriteBatch(ctx, "q-1", gomock.Len(2)).DoAndReturn(
			func(_ context.Context, _ string, docs []core.Candidate) ([]string, error) {
				s.Equal("# A", docs[0].Content)
				s.Equal(core.SourceFirecrawl, docs[0].Source)
				s.Empty(docs[0].Embedding, "search rows are stored unembedded")
				return []string{"r-1", "r-2"}, nil
			}),
		s.ledger.EXPECT().Close(gomock.Any(), "q-1", core.StatusCompleted, core.LedgerPatch{Results: core.IntPtr(2)}).Return(nil),
		s.events.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, evt core.Event) error {
			s.Equal(core.EventAcquisitionCompleted, evt.Type)
			s.Equal("q-1", evt.QueryID)
			s.Equal(2, evt.Total)
			return nil
		}),
	)

	out, err := p.Search(ctx, s.caller, firecrawl.Request{Query: "  solana etf ", Limit: 5})
	s.Require().NoError(err)
	s.Equal("q-1", out.QueryID)
	s.Len(out.Results, 2)
}

func (s *PipelineTestSuite) TestSearch_MissingKeyBeforeAnyCall() {
	ctx := context.Background()
	p := s.pipeline(map[string]string{})

	s.keyStore.EXPECT().Lookup(ctx, "firecrawl").Return("", nil)

	_, err := p.Search(ctx, s.caller, firecrawl.Request{Query: "btc"})
	s.ErrorIs(err, core.ErrConfiguration)
	s.Contains(err.Error(), "Firecrawl API key not configured")
}

func (s *PipelineTestSuite) TestSearch_KeyFromTable() {
	ctx := context.Background()
	p := s.pipeline(map[string]string{})

	s.keyStore.EXPECT().Lookup(ctx, "firecrawl").Return("stored-key", nil)
	s.ledger.EXPECT().Open(ctx, "user-1", "btc", gomock.Any()).Return("q-2", nil)
	s.search.EXPECT().Search(ctx, "stored-key", gomock.Any()).Return(nil, nil)
	s.results.EXPECT().WriteBatch(ctx, "q-2", gomock.Len(0)).Return(nil, nil)
	s.ledger.EXPECT().Close(gomock.Any(), "q-2", core.StatusCompleted, gomock.Any()).Return(nil)
	s.events.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	_, err := p.Search(ctx, s.caller, firecrawl.Request{Query: "btc"})
	s.NoError(err)
}

func (s *PipelineTestSuite) TestSearch_EmptyQuery() {
	_, err := s.pipeline(allKeys()).Search(context.Background(), s.caller, firecrawl.Request{Query: "   "})
	s.ErrorIs(err, core.ErrInvalidRequest)
}

func (s *PipelineTestSuite) TestSearch_UpstreamFailureClosesLedger() {
	ctx := context.Background()
	p := s.pipeline(allKeys())
	upstream := &core.ConnectorError{Connector: "firecrawl", Status: 429, StatusText: "Too Many Requests", Details: `{"error":"rate limited"}`}

	s.ledger.EXPECT().Open(ctx, "user-1", "btc", gomock.Any()).Return("q-3", nil)
	s.search.EXPECT().Search(ctx, "fc-key", gomock.Any()).Return(nil, upstream)
	s.ledger.EXPECT().Close(gomock.Any(), "q-3", core.StatusFailed, core.LedgerPatch{Error: `{"error":"rate limited"}`}).Return(nil)

	_, err := p.Search(ctx, s.caller, firecrawl.Request{Query: "btc"})
	var ce *core.ConnectorError
	s.Require().ErrorAs(err, &ce)
	s.Equal(429, ce.Status)
}

func (s *PipelineTestSuite) TestSearch_RejectedResponseIsRecorded() {
	ctx := context.Background()
	p := s.pipeline(allKeys())
	rejected := core.Describe(core.ErrUpstreamRejected, "Firecrawl API returned an error", `{"success":false}`)

	s.ledger.EXPECT().Open(ctx, "user-1", "btc", gomock.Any()).Return("q-4", nil)
	s.search.EXPECT().Search(ctx, "fc-key", gomock.Any()).Return(nil, rejected)
	s.ledger.EXPECT().Close(gomock.Any(), "q-4", core.StatusFailed, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ core.Status, patch core.LedgerPatch) error {
			raw, ok := patch.UpstreamResponse.(json.RawMessage)
			s.Require().True(ok)
			s.JSONEq(`{"success":false}`, string(raw))
			return nil
		})

	_, err := p.Search(ctx, s.caller, firecrawl.Request{Query: "btc"})
	s.ErrorIs(err, core.ErrUpstreamRejected)
}

func (s *PipelineTestSuite) TestSearch_BatchFailureIsPartial() {
	ctx := context.Background()
	p := s.pipeline(allKeys())
	insertErr := errors.New("persistence error: row 1: value too long")

	s.ledger.EXPECT().Open(ctx, "user-1", "btc", gomock.Any()).Return("q-5", nil)
	s.search.EXPECT().Search(ctx, "fc-key", gomock.Any()).Return([]firecrawl.Result{{Title: "x"}, {Title: "y"}}, nil)
	s.results.EXPECT().WriteBatch(ctx, "q-5", gomock.Len(2)).Return(nil, insertErr)
	s.ledger.EXPECT().Close(gomock.Any(), "q-5", core.StatusPartial, core.LedgerPatch{Error: insertErr.Error()}).Return(nil)

	_, err := p.Search(ctx, s.caller, firecrawl.Request{Query: "btc"})
	s.ErrorIs(err, core.ErrPersistence)
	s.Contains(err.Error(), "Failed to store search results")
}

func (s *PipelineTestSuite) TestCryptoNews_NoResults() {
	ctx := context.Background()
	p := s.pipeline(allKeys())

	s.ledger.EXPECT().Open(ctx, "user-1", gomock.Any(), gomock.Any()).Return("q-6", nil)
	s.news.EXPECT().Posts(ctx, "cp-key", gomock.Any()).Return([]cryptopanic.Post{}, nil)
	s.ledger.EXPECT().Close(gomock.Any(), "q-6", core.StatusCompleted, core.LedgerPatch{Message: MessageNoResults}).Return(nil)

	out, err := p.CryptoNews(ctx, s.caller, cryptopanic.Params{})
	s.Require().NoError(err)
	s.Equal(MessageNoResults, out.Message)
	s.Equal("q-6", out.QueryID)
	s.Empty(out.Processed)
}

func (s *PipelineTestSuite) TestCryptoNews_MissingKey() {
	ctx := context.Background()
	p := s.pipeline(map[string]string{})

	s.keyStore.EXPECT().Lookup(ctx, "cryptopanic").Return("", errors.New("relation api_keys does not exist"))

	_, err := p.CryptoNews(ctx, s.caller, cryptopanic.Params{})
	s.ErrorIs(err, core.ErrConfiguration)
}

func (s *PipelineTestSuite) TestCryptoNews_PerHeadlineIsolation() {
	ctx := context.Background()
	p := s.pipeline(allKeys())

	posts := []cryptopanic.Post{
		{ID: 1, Title: "ETF inflows", URL: "https://cryptopanic.com/news/1", Domain: "coindesk.com", Source: &cryptopanic.PostSource{URL: "https://www.coindesk.com/a"}},
		{ID: 2, Title: "Broken headline", URL: "https://cryptopanic.com/news/2", Domain: "decrypt.co"},
		{ID: 3, Title: "Miners sell", URL: "https://cryptopanic.com/news/3", Domain: "theblock.co", Metadata: &cryptopanic.PostMetadata{Description: "Hash price drops"}},
	}

	s.ledger.EXPECT().Open(ctx, "user-1", "CryptoPanic: BTC,ETH (hot)", gomock.Any()).Return("q-7", nil)
	s.news.EXPECT().Posts(ctx, "cp-key", gomock.Any()).Return(posts, nil)

	s.scraper.EXPECT().Scrape(ctx, "https://www.coindesk.com/a").Return(nil, core.ErrRobotsDisallowed)

	s.vectors.EXPECT().Embed(ctx, "ETF inflows  ETF inflows").Return([]float32{1, 0}, nil)
	s.vectors.EXPECT().Embed(ctx, "Broken headline  Broken headline").Return([]float32{0, 1}, nil)
	s.vectors.EXPECT().Embed(ctx, "Miners sell Hash price drops Hash price drops").Return(nil, errors.New("model offline"))

	s.results.EXPECT().WriteOne(ctx, "q-7", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, c core.Candidate) (string, error) {
		s.Equal("ETF inflows", c.Title)
		s.NotEmpty(c.Embedding)
		return "r-1", nil
	})
	s.mirror.EXPECT().Upsert(ctx, "search_results", "r-1", []float32{1, 0}, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _ string, _ []float32, payload map[string]any) error {
			s.Equal("q-7", payload["query_id"])
			s.Equal("ETF inflows", payload["title"])
			s.Equal(core.SourceCryptoPanic, payload["source"])
			return nil
		})
	s.results.EXPECT().WriteOne(ctx, "q-7", gomock.Any()).Return("", errors.New("malformed row"))
	s.results.EXPECT().WriteOne(ctx, "q-7", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, c core.Candidate) (string, error) {
		s.Empty(c.Embedding, "a failed inline embedding leaves the row for the generator")
		return "r-3", nil
	})

	s.ledger.EXPECT().Close(gomock.Any(), "q-7", core.StatusCompleted, core.LedgerPatch{
		Processed: core.IntPtr(2),
		Total:     core.IntPtr(3),
	}).Return(nil)
	gomock.InOrder(
		s.events.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, evt core.Event) error {
			s.Equal(core.EventAcquisitionCompleted, evt.Type)
			s.Equal(1, evt.Total, "only the unembedded row is pending")
			s.Equal(core.SourceCryptoPanic, evt.Source)
			return nil
		}),
		s.events.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, evt core.Event) error {
			s.Equal(core.EventContentEmbedded, evt.Type)
			s.Equal("q-7", evt.QueryID)
			s.Equal(1, evt.Processed, "the inline-embedded row is reported as embedded")
			return nil
		}),
	)

	out, err := p.CryptoNews(ctx, s.caller, cryptopanic.Params{})
	s.Require().NoError(err)
	s.Equal("Successfully processed 2 out of 3 posts", out.Message)
	s.Equal([]ProcessedPost{{ID: "r-1", Title: "ETF inflows"}, {ID: "r-3", Title: "Miners sell"}}, out.Processed)
}

func (s *PipelineTestSuite) TestCryptoNews_ScrapedArticleBody() {
	ctx := context.Background()
	p := s.pipeline(allKeys())
	p.deps.Vectors = nil

	post := cryptopanic.Post{ID: 9, Title: "Halving", URL: "https://cryptopanic.com/news/9", Domain: "coindesk.com", Source: &cryptopanic.PostSource{URL: "https://www.coindesk.com/h"}}

	s.ledger.EXPECT().Open(ctx, "user-1", gomock.Any(), gomock.Any()).Return("q-8", nil)
	s.news.EXPECT().Posts(ctx, "cp-key", gomock.Any()).Return([]cryptopanic.Post{post}, nil)
	s.scraper.EXPECT().Scrape(ctx, "https://www.coindesk.com/h").Return(&scraper.Page{Text: "The block reward halved today."}, nil)
	s.results.EXPECT().WriteOne(ctx, "q-8", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, c core.Candidate) (string, error) {
		s.Contains(c.Content, "## Article Content\n\nThe block reward halved today.")
		return "r-9", nil
	})
	s.ledger.EXPECT().Close(gomock.Any(), "q-8", core.StatusCompleted, gomock.Any()).Return(nil)
	s.events.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	_, err := p.CryptoNews(ctx, s.caller, cryptopanic.Params{})
	s.NoError(err)
}

func (s *PipelineTestSuite) TestCryptoNews_UpstreamFailure() {
	ctx := context.Background()
	p := s.pipeline(allKeys())
	upstream := &core.ConnectorError{Connector: "cryptopanic", Status: 403, StatusText: "Forbidden", Details: "Status 403: Forbidden"}

	s.ledger.EXPECT().Open(ctx, "user-1", gomock.Any(), gomock.Any()).Return("q-9", nil)
	s.news.EXPECT().Posts(ctx, "cp-key", gomock.Any()).Return(nil, upstream)
	s.ledger.EXPECT().Close(gomock.Any(), "q-9", core.StatusFailed, core.LedgerPatch{Error: "Status 403: Forbidden"}).Return(nil)

	_, err := p.CryptoNews(ctx, s.caller, cryptopanic.Params{})
	s.ErrorAs(err, new(*core.ConnectorError))
}

func (s *PipelineTestSuite) TestEmbed() {
	ctx := context.Background()
	p := s.pipeline(allKeys())

	_, err := p.Embed(ctx, " ")
	s.ErrorIs(err, core.ErrInvalidRequest)

	s.embedder.EXPECT().Embed(ctx, "q-1").Return(embedding.Stats{Processed: 8, Total: 10, Message: embedding.MessageGenerated}, nil)
	stats, err := p.Embed(ctx, "q-1")
	s.Require().NoError(err)
	s.Equal(8, stats.Processed)
	s.Equal(10, stats.Total)
}

func (s *PipelineTestSuite) TestTimeline() {
	ctx := context.Background()
	p := s.pipeline(allKeys())

	s.tweets.EXPECT().List(ctx, "ra-key", timeline.DefaultListID, timeline.DefaultLimit).Return([]timeline.Tweet{{ID: "1"}}, nil)
	tweets, err := p.Timeline(ctx, "", 0)
	s.Require().NoError(err)
	s.Len(tweets, 1)

	s.keyStore.EXPECT().Lookup(ctx, "rapidapi").Return("", nil)
	_, err = s.pipeline(map[string]string{}).Timeline(ctx, "", 0)
	s.ErrorIs(err, core.ErrConfiguration)
	s.Contains(err.Error(), "RapidAPI key not configured")
}

func (s *PipelineTestSuite) TestFeed() {
	ctx := context.Background()
	q := postgres.FeedQuery{Limit: 10, Offset: 20}
	s.feed.EXPECT().ListPublished(ctx, q).Return([]core.ContentResult{{ID: "r-1", IsPublished: true}}, nil)

	rows, err := s.pipeline(allKeys()).Feed(ctx, q)
	s.Require().NoError(err)
	s.Len(rows, 1)
}

func (s *PipelineTestSuite) TestVerifyAdmins() {
	ctx := context.Background()

	s.roles.EXPECT().ListByEmailSuffix(ctx, "@blindvibe.com").Return([]postgres.AdminStatus{
		{UserID: "u-1", Email: "a@blindvibe.com", HasAdminRole: true, IsAdminFlag: true},
		{UserID: "u-2", Email: "b@blindvibe.com", HasAdminRole: false, IsAdminFlag: true},
	}, nil)
	s.roles.EXPECT().GrantRole(ctx, "u-2", postgres.RoleAdmin).Return(nil)

	report, err := s.pipeline(allKeys()).VerifyAdmins(ctx)
	s.Require().NoError(err)
	s.Equal(1, report.Fixed)
	s.True(report.Users[1].HasAdminRole)

	s.roles.EXPECT().ListByEmailSuffix(ctx, "@blindvibe.com").Return(nil, errors.New("timeout"))
	_, err = s.pipeline(allKeys()).VerifyAdmins(ctx)
	s.ErrorIs(err, core.ErrPersistence)
}
