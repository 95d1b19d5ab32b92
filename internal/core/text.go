package core

import "strings"

// JoinEmbeddingText concatenates title, description and content with single
// spaces and trims the result. A blank result means there is nothing to embed.
func JoinEmbeddingText(title, description, content string) string {
	return strings.TrimSpace(title + " " + description + " " + content)
}
