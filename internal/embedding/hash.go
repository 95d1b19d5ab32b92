package embedding

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// HashProvider is a deterministic bag-of-words embedder using the hashing
// trick. It needs no model server and is meant for local runs and tests.
type HashProvider struct {
	dims int
}

func NewHashProvider(dims int) *HashProvider {
	if dims <= 0 {
		dims = 768
	}
	return &HashProvider{dims: dims}
}

func (h *HashProvider) Dimensions() int { return h.dims }

func (h *HashProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no tokens to embed")
	}

	v := make([]float32, h.dims)
	for _, tok := range tokens {
		sum := xxhash.Sum64String(tok)
		idx := int(sum % uint64(h.dims))
		if sum&(1<<63) != 0 {
			v[idx]--
		} else {
			v[idx]++
		}
	}
	return finish(v, h.dims)
}
