package cryptopanic

import (
	"fmt"
	"strings"

	"github.com/oranjParker/Sintillio/internal/core"
)

// Compose builds the stored body for a headline. scraped is the article text
// pulled from the source page and may be empty, in which case the
// aggregator's description is used, and failing that the title.
func Compose(p Post, scraped string) (fullText, markdown string) {
	var b strings.Builder
	desc := p.Description()
	domain := p.SourceDomain()

	switch {
	case scraped != "":
		fullText = scraped
		fmt.Fprintf(&b, "# %s\n\n", p.Title)
		if desc != "" {
			fmt.Fprintf(&b, "%s\n\n", desc)
		}
		fmt.Fprintf(&b, "## Article Content\n\n%s\n\n", scraped)
		fmt.Fprintf(&b, "Source: [%s](%s)\n", domain, p.ScrapeURL())
		writeCurrencies(&b, p.Currencies)
	case desc != "":
		fullText = desc
		fmt.Fprintf(&b, "# %s\n\n%s\n\n", p.Title, desc)
		fmt.Fprintf(&b, "Source: [%s](%s)\n", domain, p.URL)
		writeCurrencies(&b, p.Currencies)
	default:
		fullText = p.Title
		fmt.Fprintf(&b, "# %s\n\n", p.Title)
		fmt.Fprintf(&b, "Source: [%s](%s)\n", domain, p.URL)
	}

	return fullText, b.String()
}

func writeCurrencies(b *strings.Builder, currencies []Currency) {
	if len(currencies) == 0 {
		return
	}
	b.WriteString("\n## Related Cryptocurrencies\n\n")
	for _, c := range currencies {
		fmt.Fprintf(b, "- %s (%s)\n", c.Title, c.Code)
	}
}

// Candidate builds the row for p around the composed markdown body.
func Candidate(p Post, markdown string) core.Candidate {
	var image any
	if p.Metadata != nil && p.Metadata.Image != "" {
		image = p.Metadata.Image
	}
	var score any
	if p.PanicScore != nil {
		score = *p.PanicScore
	}

	return core.Candidate{
		Title:       p.Title,
		Description: p.Description(),
		URL:         p.URL,
		Content:     markdown,
		ContentType: core.ContentTypeMarkdown,
		Source:      Name,
		PublishedAt: p.Published(),
		Metadata: map[string]any{
			"source": Name,
			"sourceMetadata": map[string]any{
				"domain":     p.SourceDomain(),
				"source":     p.Source,
				"currencies": p.Currencies,
				"kind":       p.Kind,
				"originalId": p.ID,
			},
			"image":       image,
			"panic_score": score,
		},
	}
}

// EmbeddingText is what the inline embedding is computed from. It uses the
// plain article text, not the markdown wrapper.
func EmbeddingText(p Post, fullText string) string {
	return core.JoinEmbeddingText(p.Title, p.Description(), fullText)
}
