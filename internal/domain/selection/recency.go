package selection

import "github.com/0xcro3dile/versebot/internal/domain/entities"

// DefaultRecencyLimit is how many recent semantic picks are avoided.
const DefaultRecencyLimit = 3

// RecencyGuard keeps the semantic path from repeating its latest picks.
// It never sees fallback draws; the Deck has its own repetition policy.
//
// RecencyGuard is not safe for concurrent use.
type RecencyGuard struct {
	limit  int
	window []int
}

// NewRecencyGuard creates a guard remembering the last limit picks.
// A limit below 1 uses DefaultRecencyLimit.
func NewRecencyGuard(limit int) *RecencyGuard {
	if limit < 1 {
		limit = DefaultRecencyLimit
	}
	return &RecencyGuard{limit: limit, window: make([]int, 0, limit+1)}
}

// Select returns the best-ranked index not in the window, or the top-ranked
// index when all candidates are recent. The choice is pushed into the window.
// It returns false only for an empty ranking.
func (g *RecencyGuard) Select(ranked []entities.Ranked) (int, bool) {
	if len(ranked) == 0 {
		return 0, false
	}
	chosen := ranked[0].Index
	for _, candidate := range ranked {
		if !g.contains(candidate.Index) {
			chosen = candidate.Index
			break
		}
	}
	g.push(chosen)
	return chosen, true
}

// Window returns the remembered indices, oldest first.
func (g *RecencyGuard) Window() []int {
	out := make([]int, len(g.window))
	copy(out, g.window)
	return out
}

func (g *RecencyGuard) contains(index int) bool {
	for _, i := range g.window {
		if i == index {
			return true
		}
	}
	return false
}

// push appends without deduplication, then evicts the oldest past the limit.
func (g *RecencyGuard) push(index int) {
	g.window = append(g.window, index)
	if len(g.window) > g.limit {
		g.window = append(g.window[:0], g.window[1:]...)
	}
}
