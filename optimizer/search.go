package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"mealopt"
)

// Config bundles the tunables of one search. The zero value is not useful;
// start from DefaultConfig.
type Config struct {
	MaxIterations int
	Patience      int   // non-improving iterations tolerated before stopping; 0 disables
	Seed          int64 // 0 draws a fresh seed, reported on the result
	Weights       Weights
	Neighbor      NeighborConfig
}

func DefaultConfig() Config {
	return Config{
		MaxIterations: 100,
		Patience:      25,
		Weights:       DefaultWeights(),
		Neighbor:      DefaultNeighborConfig(),
	}
}

// Search is a single-threaded hill-climbing driver over meal compositions.
// The catalog and constraints are read-only for the duration of a run, so
// independent Search values may run concurrently without synchronization.
type Search struct {
	catalog     Catalog
	constraints ConstraintSet
	cfg         Config
	logger      mealopt.SearchLogger
}

// NewSearch initializes a new search driver.
func NewSearch(cat Catalog, cs ConstraintSet, cfg Config, logger mealopt.SearchLogger) *Search {
	if logger == nil {
		logger = mealopt.NewNoOpSearchLogger()
	}
	return &Search{
		catalog:     cat,
		constraints: cs,
		cfg:         cfg,
		logger:      logger,
	}
}

// Run executes one hill-climbing run from the given starting composition.
//
// Acceptance is first-improvement: a neighbor replaces the current state only
// when its fitness is strictly lower, so the sequence of accepted fitness
// values is non-increasing. The run stops when the iteration cap is reached,
// fitness hits 0, the patience limit trips, or no edit is feasible. Invalid
// constraints and unknown foods in the starting composition fail before any
// iteration; candidates that go invalid mid-search are discarded instead.
func (s *Search) Run(ctx context.Context, initial Composition) (SearchResult, error) {
	if err := s.constraints.Validate(); err != nil {
		return SearchResult{}, err
	}

	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	runID := uuid.NewString()

	current := initial.Clone()
	vec, err := Aggregate(current, s.catalog, s.constraints)
	if err != nil {
		return SearchResult{}, fmt.Errorf("invalid initial composition: %w", err)
	}
	fitness := Evaluate(vec, s.constraints, s.cfg.Weights)
	initialVec := vec
	initialFitness := fitness

	slog.Info("SEARCH: Starting run",
		"run_id", runID,
		"seed", seed,
		"foods", len(current),
		"nutrients", len(s.constraints),
		"initial_fitness", initialFitness,
	)

	sinceImprove := 0
	iterations := 0

	for iter := 0; iter < s.cfg.MaxIterations; iter++ {
		if fitness == 0 {
			break
		}
		if s.cfg.Patience > 0 && sinceImprove >= s.cfg.Patience {
			slog.Info("SEARCH: Patience exhausted", "run_id", runID, "iteration", iter)
			break
		}

		iterations = iter + 1
		iterLog := mealopt.IterationLog{
			Iteration:      iterations,
			Timestamp:      time.Now(),
			CurrentFitness: fitness,
		}

		candidate, kind, ok := Neighbor(rng, current, s.catalog, s.cfg.Neighbor)
		if !ok {
			iterLog.Rejected = "no feasible edit"
			s.logIteration(iterLog)
			break
		}
		iterLog.Edit = string(kind)

		candidateVec, err := Aggregate(candidate, s.catalog, s.constraints)
		if err != nil {
			// A candidate referencing an unknown food is non-viable, not an
			// error: discard it and keep searching.
			iterLog.Rejected = err.Error()
			s.logIteration(iterLog)
			sinceImprove++
			continue
		}
		candidateFitness := Evaluate(candidateVec, s.constraints, s.cfg.Weights)
		iterLog.CandidateFitness = candidateFitness

		if candidateFitness < fitness {
			current = candidate
			vec = candidateVec
			fitness = candidateFitness
			sinceImprove = 0
			iterLog.Accepted = true
		} else {
			sinceImprove++
		}
		s.logIteration(iterLog)
	}

	slog.Info("SEARCH: Run finished",
		"run_id", runID,
		"iterations", iterations,
		"fitness", fitness,
		"improvement", initialFitness-fitness,
	)

	return SearchResult{
		RunID:            runID,
		Seed:             seed,
		Composition:      current,
		Nutrients:        vec,
		Fitness:          fitness,
		InitialNutrients: initialVec,
		InitialFitness:   initialFitness,
		Changes:          Diff(initial, current, s.catalog),
		Iterations:       iterations,
	}, nil
}

func (s *Search) logIteration(iterLog mealopt.IterationLog) {
	if err := s.logger.LogIteration(iterLog); err != nil {
		slog.Error("SEARCH: Failed to log iteration", "error", err)
	}
}
