package agent

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Comparison is the outcome of one labelled run in Compare.
type Comparison struct {
	Label    string
	Result   *Result
	Duration time.Duration
	Err      error
}

// Compare runs the same task on several agents concurrently, each with its
// own loop state, and returns the outcomes keyed by label.
//
// A failing run does not cancel the others; its error is recorded in the
// Comparison. The returned error is ctx.Err(), set when ctx ended while
// runs were in flight.
func Compare(ctx context.Context, task string, agents map[string]*Agent, opts ...Option) (map[string]Comparison, error) {
	results := make([]Comparison, 0, len(agents))
	for label := range agents {
		results = append(results, Comparison{Label: label})
	}

	var g errgroup.Group
	for i := range results {
		a := agents[results[i].Label]
		g.Go(func() error {
			start := time.Now()
			result, err := a.Run(ctx, task, opts...)
			results[i].Result = result
			results[i].Duration = time.Since(start)
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait() // per-run errors live in the Comparison

	out := make(map[string]Comparison, len(results))
	for _, c := range results {
		out[c.Label] = c
	}
	return out, ctx.Err()
}
