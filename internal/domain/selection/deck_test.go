package selection

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffle_PreservesMultiset(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cases := [][]int{
		nil,
		{},
		{42},
		{1, 2, 3, 4, 5, 6, 7, 8},
		{3, 3, 1, 1, 2},
	}
	for _, in := range cases {
		out := Shuffle(rng, in)
		require.Len(t, out, len(in))
		assert.ElementsMatch(t, in, out)
	}
}

func TestShuffle_DoesNotModifyInput(t *testing.T) {
	in := []int{1, 2, 3, 4}
	Shuffle(rand.New(rand.NewSource(1)), in)
	assert.Equal(t, []int{1, 2, 3, 4}, in)
}

func TestDeck_EveryBlockIsAPermutation(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 17} {
		deck := NewDeck(n, rand.New(rand.NewSource(int64(n))))
		for block := 0; block < 4; block++ {
			drawn := make([]int, n)
			for i := range drawn {
				drawn[i] = deck.Draw()
			}
			sort.Ints(drawn)
			for i, v := range drawn {
				require.Equalf(t, i, v, "n=%d block=%d drew %v", n, block, drawn)
			}
		}
	}
}

func TestDeck_RemainingAndReset(t *testing.T) {
	deck := NewDeck(4, rand.New(rand.NewSource(3)))
	assert.Equal(t, 4, deck.Remaining())
	deck.Draw()
	deck.Draw()
	assert.Equal(t, 2, deck.Remaining())

	deck.Reset()
	assert.Equal(t, 4, deck.Remaining())
}

func TestDeck_RefillsWhenEmpty(t *testing.T) {
	deck := NewDeck(2, rand.New(rand.NewSource(9)))
	deck.Draw()
	deck.Draw()
	require.Equal(t, 0, deck.Remaining())

	deck.Draw()
	assert.Equal(t, 1, deck.Remaining())
}
