package search

import (
	"context"

	"github.com/pders01/mymeals/internal/mealdb"
)

// Searcher performs a remote meal search. Implementations must honour ctx
// cancellation; *mealdb.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]mealdb.Meal, error)
}

// Filter narrows an already loaded list of meals without touching the network.
type Filter interface {
	// Reset replaces the filtered corpus.
	Reset(meals []mealdb.Meal) error
	// Match returns the corpus positions of the meals matching query, in
	// ascending order. A query with no usable terms matches everything.
	Match(query string) ([]int, error)
	Close() error
}

// Filters are safe for concurrent use: list filtering runs off the update
// goroutine.

func all(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// DebugStatser reports how many meals a filter currently holds.
type DebugStatser interface {
	DocCount() (int, error)
}

var (
	_ DebugStatser = (*BleveFilter)(nil)
	_ DebugStatser = (*TokenFilter)(nil)
)
