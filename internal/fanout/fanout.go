// Package fanout runs one operation concurrently across the repos of a
// session and aggregates per-repo outcomes.
//
// Workers share no mutable state: each owns its repo path and a result
// slot. A failing repo never suppresses the outcomes of its siblings; its
// error travels in the Outcome instead of aborting the group. Results are
// sorted by repo path before being returned; execution order between
// repos is unspecified.
package fanout

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit bounds concurrent workers when the caller passes 0 through
// from an unset config.
const DefaultLimit = 8

// Op is a per-repo operation producing a value of type T.
type Op[T any] func(ctx context.Context, path string) (T, error)

// Outcome is the result of running an Op against one repo.
// Outcomes are never merged across repos.
type Outcome[T any] struct {
	Path  string
	Value T
	Err   error
}

// Failed reports whether the operation failed for this repo.
func (o Outcome[T]) Failed() bool {
	return o.Err != nil
}

// Run executes op once per path with at most limit concurrent workers
// (limit <= 0 means DefaultLimit). It always waits for every worker and
// returns one Outcome per path, sorted by path.
func Run[T any](ctx context.Context, paths []string, limit int, op Op[T]) []Outcome[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}

	// Per-path result slots; no worker touches another's slot.
	outcomes := make([]Outcome[T], len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			value, err := op(ctx, path)
			outcomes[i] = Outcome[T]{Path: path, Value: value, Err: err}
			return nil // Errors live in the outcome; siblings keep running.
		})
	}

	_ = g.Wait() // Always nil, workers never fail the group.

	slices.SortFunc(outcomes, func(a, b Outcome[T]) int {
		return strings.Compare(a.Path, b.Path)
	})

	return outcomes
}

// AnyFailed reports whether any outcome carries an error.
func AnyFailed[T any](outcomes []Outcome[T]) bool {
	for _, o := range outcomes {
		if o.Failed() {
			return true
		}
	}
	return false
}
