package optimizer

import (
	"context"
	"log/slog"
	"time"

	"mealopt"
)

// seedStride separates the derived seeds of restart runs.
const seedStride = 0x9e3779b9

// RunBest runs n independent searches from the same starting composition,
// each with its own derived seed and random stream, and returns the result
// with the lowest fitness. This is the prescribed way to escape a poor local
// optimum; the single-run state machine itself never restarts.
//
// The runs execute concurrently. Per-iteration logging is routed to a no-op
// sink for the fan-out so the shared logger is never written from multiple
// goroutines.
func (s *Search) RunBest(ctx context.Context, initial Composition, n int) (SearchResult, error) {
	if n <= 1 {
		return s.Run(ctx, initial)
	}

	base := s.cfg.Seed
	if base == 0 {
		base = time.Now().UnixNano()
	}

	type outcome struct {
		result SearchResult
		err    error
	}
	outcomes := make(chan outcome, n)

	for i := 0; i < n; i++ {
		cfg := s.cfg
		cfg.Seed = base + int64(i)*seedStride
		run := NewSearch(s.catalog, s.constraints, cfg, mealopt.NewNoOpSearchLogger())
		go func() {
			result, err := run.Run(ctx, initial)
			outcomes <- outcome{result: result, err: err}
		}()
	}

	var best SearchResult
	var firstErr error
	found := false
	for i := 0; i < n; i++ {
		o := <-outcomes
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
			}
			continue
		}
		if !found || o.result.Fitness < best.Fitness {
			best = o.result
			found = true
		}
	}
	if !found {
		return SearchResult{}, firstErr
	}

	slog.Info("SEARCH: Best-of restarts selected", "restarts", n, "run_id", best.RunID, "fitness", best.Fitness)
	return best, nil
}
