// Package selection holds the verse-selection policies: corpus construction,
// the random fallback deck, query context, cosine ranking and the recency guard.
// Everything here is pure and free of I/O; usecases wires it to the ports.
package selection

import (
	"regexp"
	"strings"
)

// DefaultVerse is served when the verse source is unavailable or empty.
const DefaultVerse = "Sarai come ossigeno."

var lineBreak = regexp.MustCompile(`\r?\n`)

// Corpus is the ordered, deduplicated verse list of one session.
// Indices are stable identifiers and the slice is never mutated.
type Corpus struct {
	verses []string
}

// NewCorpus deduplicates lines and falls back to DefaultVerse when none remain.
func NewCorpus(lines []string) Corpus {
	unique := Dedupe(lines)
	if len(unique) == 0 {
		unique = []string{DefaultVerse}
	}
	return Corpus{verses: unique}
}

// DefaultCorpus returns the built-in single-verse corpus.
func DefaultCorpus() Corpus {
	return Corpus{verses: []string{DefaultVerse}}
}

// Len returns the number of verses. Always at least 1 for a constructed Corpus.
func (c Corpus) Len() int { return len(c.verses) }

// At returns the verse at index i.
func (c Corpus) At(i int) string { return c.verses[i] }

// Verses returns a copy of the verses in index order.
func (c Corpus) Verses() []string {
	out := make([]string, len(c.verses))
	copy(out, c.verses)
	return out
}

// IsDefault reports whether the corpus is the built-in fallback.
func (c Corpus) IsDefault() bool {
	return len(c.verses) == 1 && c.verses[0] == DefaultVerse
}

// ParseCorpus splits a raw LF or CRLF file into trimmed, non-empty lines.
func ParseCorpus(raw string) []string {
	var out []string
	for _, line := range lineBreak.Split(raw, -1) {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Dedupe drops blank entries and later duplicates, comparing trimmed values.
// The first occurrence is kept verbatim.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.TrimSpace(item)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
