package scraper

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	stripSelector     = "script, style, nav, footer, header, aside"
	containerSelector = "article, .article, .post, .content, main"
	minParagraphLen   = 100
)

// Extract pulls the readable article text out of an HTML page. Semantic
// containers win; otherwise substantial paragraphs are joined; readability
// is the last resort for pages with neither.
func Extract(body []byte, pageURL *url.URL) (title, text string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", ""
	}
	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find(stripSelector).Remove()

	if text = containerText(doc); text != "" {
		return title, text
	}
	if text = paragraphText(doc); text != "" {
		return title, text
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && len(strings.TrimSpace(article.TextContent)) > minParagraphLen {
		if title == "" {
			title = article.Title
		}
		return title, collapse(article.TextContent)
	}

	return title, ""
}

func containerText(doc *goquery.Document) string {
	var (
		blocks []string
		seen   = map[string]bool{}
	)
	doc.Find(containerSelector).Each(func(_ int, s *goquery.Selection) {
		t := collapse(s.Text())
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		blocks = append(blocks, t)
	})
	return strings.Join(blocks, "\n\n")
}

func paragraphText(doc *goquery.Document) string {
	var blocks []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := collapse(s.Text()); len(t) > minParagraphLen {
			blocks = append(blocks, t)
		}
	})
	return strings.Join(blocks, "\n\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
