// Package loader fetches the default meal list and single meal details for
// the UI. Loaders are driven from the Bubble Tea update goroutine: they hand
// out commands that do the network work and apply the resulting messages.
// A result only lands if its request is still the loader's current one.
package loader

import (
	"context"

	"github.com/pders01/mymeals/internal/mealdb"
)

// User-visible failure messages.
const (
	ListErrorMessage   = "Failed to fetch meals"
	DetailErrorMessage = "Failed to fetch meal details"
	NotFoundMessage    = "No meal details found."
)

// ListSource browses meals by first letter.
type ListSource interface {
	ListByFirstLetter(ctx context.Context, letter string) ([]mealdb.Meal, error)
}

// DetailSource fetches one meal by id; (nil, nil) means not found.
type DetailSource interface {
	Lookup(ctx context.Context, id string) (*mealdb.Meal, error)
}

// request is an owned cancellation token for one fetch.
type request struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newRequest() *request {
	ctx, cancel := context.WithCancel(context.Background())
	return &request{ctx: ctx, cancel: cancel}
}

// cancelledByUs reports whether err is the result of cancelling req itself,
// as opposed to a source that failed with a cancellation error of its own.
func (r *request) cancelledByUs(err error) bool {
	return mealdb.IsCancelled(err) && r.ctx.Err() != nil
}

// replace cancels cur (if any) and returns a fresh request.
func replace(cur *request) *request {
	if cur != nil {
		cur.cancel()
	}
	return newRequest()
}
