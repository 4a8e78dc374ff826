package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

const defaultHashingDims = 256

var tokenSplit = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// HashingAdapter is an offline bag-of-words embedder. Each token is hashed
// into one of a fixed number of buckets, so the dimension never depends on
// the vocabulary seen so far. Useful when no model server is reachable.
type HashingAdapter struct {
	dims int
}

// NewHashingAdapter creates a hashing embedder with the given dimension.
func NewHashingAdapter(dims int) *HashingAdapter {
	if dims <= 0 {
		dims = defaultHashingDims
	}
	return &HashingAdapter{dims: dims}
}

// Embed returns the term-frequency vector of text in hashed buckets.
// Text without tokens hashes as a single token so the vector is never zero.
func (a *HashingAdapter) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, a.dims)
	toks := tokenize(text)
	if len(toks) == 0 {
		toks = []string{strings.ToLower(text)}
	}
	for _, tok := range toks {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%uint32(a.dims)]++
	}
	return vec, nil
}

// Name returns the adapter name, including the dimension since it shapes
// the vectors.
func (a *HashingAdapter) Name() string {
	return fmt.Sprintf("hashing:%d", a.dims)
}

func tokenize(s string) []string {
	parts := tokenSplit.Split(strings.ToLower(s), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) > 1 {
			out = append(out, p)
		}
	}
	return out
}
