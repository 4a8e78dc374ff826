package selection

import "math/rand"

// Shuffle returns a Fisher-Yates permutation of xs. The input is not modified.
func Shuffle[T any](rng *rand.Rand, xs []T) []T {
	out := make([]T, len(xs))
	copy(out, xs)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Deck draws corpus indices at random without repeating any index until
// every index has been drawn once.
//
// Deck is not safe for concurrent use; the owning session serializes access.
type Deck struct {
	size  int
	rng   *rand.Rand
	cards []int
}

// NewDeck creates a deck over indices 0..size-1 and shuffles it.
// size must be at least 1.
func NewDeck(size int, rng *rand.Rand) *Deck {
	d := &Deck{size: size, rng: rng}
	d.Reset()
	return d
}

// Reset replaces the remaining cards with a fresh permutation of all indices.
func (d *Deck) Reset() {
	ordered := make([]int, d.size)
	for i := range ordered {
		ordered[i] = i
	}
	d.cards = Shuffle(d.rng, ordered)
}

// Draw removes and returns one index, reshuffling first when the deck is empty.
func (d *Deck) Draw() int {
	if len(d.cards) == 0 {
		d.Reset()
	}
	last := len(d.cards) - 1
	card := d.cards[last]
	d.cards = d.cards[:last]
	return card
}

// Remaining returns how many draws are left before the next reshuffle.
func (d *Deck) Remaining() int { return len(d.cards) }
