package selection

import (
	"fmt"
	"sort"

	"github.com/0xcro3dile/versebot/internal/domain/entities"
)

// Rank scores every indexed verse against the query and sorts best first.
// Both operands are unit vectors, so the dot product is the cosine similarity.
// Equal scores keep corpus order: the lower index ranks first.
func Rank(query UnitVector, index EmbeddingIndex) ([]entities.Ranked, error) {
	if index.Len() > 0 && len(query) != index.Dim() {
		return nil, fmt.Errorf("%w: query has %d dims, index has %d",
			entities.ErrDimensionMismatch, len(query), index.Dim())
	}

	ranked := make([]entities.Ranked, index.Len())
	for i, v := range index.vectors {
		ranked[i] = entities.Ranked{Index: i, Score: dot(query, v)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}
