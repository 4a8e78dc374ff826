package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/versebot/internal/domain/entities"
)

func ranking(order ...int) []entities.Ranked {
	out := make([]entities.Ranked, len(order))
	for i, idx := range order {
		out[i] = entities.Ranked{Index: idx, Score: float32(len(order) - i)}
	}
	return out
}

func guardWith(window ...int) *RecencyGuard {
	g := NewRecencyGuard(3)
	g.window = append(g.window, window...)
	return g
}

func TestRecencyGuard_SkipsRecentPicks(t *testing.T) {
	g := guardWith(2, 0, 1)

	got, ok := g.Select(ranking(2, 0, 3, 1))
	require.True(t, ok)
	assert.Equal(t, 3, got)
	assert.Equal(t, []int{0, 1, 3}, g.Window())
}

func TestRecencyGuard_AllRecentReturnsTop(t *testing.T) {
	g := guardWith(0, 1)

	got, ok := g.Select(ranking(1, 0))
	require.True(t, ok)
	assert.Equal(t, 1, got)
	// duplicates are kept on push
	assert.Equal(t, []int{0, 1, 1}, g.Window())
}

func TestRecencyGuard_WindowIsBounded(t *testing.T) {
	g := NewRecencyGuard(3)
	order := ranking(0, 1, 2, 3, 4)
	for i := 0; i < 5; i++ {
		g.Select(order)
	}
	assert.Equal(t, []int{2, 3, 0}, g.Window())
}

func TestRecencyGuard_EmptyRanking(t *testing.T) {
	g := NewRecencyGuard(3)
	_, ok := g.Select(nil)
	assert.False(t, ok)
	assert.Empty(t, g.Window())
}

func TestNewRecencyGuard_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultRecencyLimit, NewRecencyGuard(0).limit)
}
