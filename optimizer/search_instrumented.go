package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"mealopt"
)

// InstrumentedSearch is a Search variant with comprehensive observability
// metrics. Semantics are identical to Search.Run.
type InstrumentedSearch struct {
	catalog     Catalog
	constraints ConstraintSet
	cfg         Config
	logger      mealopt.SearchLogger
	tracer      trace.Tracer
	meter       metric.Meter
}

// NewInstrumentedSearch initializes a new instrumented search driver.
func NewInstrumentedSearch(cat Catalog, cs ConstraintSet, cfg Config, logger mealopt.SearchLogger, tracer trace.Tracer, meter metric.Meter) *InstrumentedSearch {
	if logger == nil {
		logger = mealopt.NewNoOpSearchLogger()
	}
	return &InstrumentedSearch{
		catalog:     cat,
		constraints: cs,
		cfg:         cfg,
		logger:      logger,
		tracer:      tracer,
		meter:       meter,
	}
}

// Run executes one hill-climbing run with full instrumentation.
func (s *InstrumentedSearch) Run(ctx context.Context, initial Composition) (SearchResult, error) {
	ctx, span := s.tracer.Start(ctx, "InstrumentedSearch.Run")
	defer span.End()

	runsCounter, _ := s.meter.Int64Counter("search_runs_total",
		metric.WithDescription("Total number of search runs started"))
	runsCompletedCounter, _ := s.meter.Int64Counter("search_runs_completed_total",
		metric.WithDescription("Total number of search runs completed successfully"))
	runsFailedCounter, _ := s.meter.Int64Counter("search_runs_failed_total",
		metric.WithDescription("Total number of search runs rejected at entry"))
	iterationCounter, _ := s.meter.Int64Counter("search_iterations_total",
		metric.WithDescription("Total number of search iterations"))
	acceptedCounter, _ := s.meter.Int64Counter("candidates_accepted_total",
		metric.WithDescription("Total number of candidates accepted as improvements"))
	rejectedCounter, _ := s.meter.Int64Counter("candidates_rejected_total",
		metric.WithDescription("Total number of candidates rejected as non-improving"))
	invalidCounter, _ := s.meter.Int64Counter("candidates_invalid_total",
		metric.WithDescription("Total number of candidates discarded as non-viable"))

	fitnessGauge, _ := s.meter.Float64Gauge("current_fitness",
		metric.WithDescription("Fitness of the current accepted composition"))
	compositionSizeGauge, _ := s.meter.Int64Gauge("composition_size",
		metric.WithDescription("Number of foods in the current accepted composition"))
	catalogSizeGauge, _ := s.meter.Int64Gauge("catalog_size",
		metric.WithDescription("Number of foods available in the catalog"))

	runDurationHist, _ := s.meter.Float64Histogram("search_duration_seconds",
		metric.WithDescription("Total duration of a search run in seconds"))
	iterationDurationHist, _ := s.meter.Float64Histogram("search_iteration_duration_seconds",
		metric.WithDescription("Duration of individual search iterations in seconds"))

	runsCounter.Add(ctx, 1)
	catalogSizeGauge.Record(ctx, int64(len(s.catalog)))

	if err := s.constraints.Validate(); err != nil {
		runsFailedCounter.Add(ctx, 1)
		span.SetStatus(codes.Error, "Invalid constraint set")
		span.RecordError(err)
		return SearchResult{}, err
	}

	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	runID := uuid.NewString()
	span.SetAttributes(
		attribute.String("search.run_id", runID),
		attribute.Int64("search.seed", seed),
		attribute.Int("search.max_iterations", s.cfg.MaxIterations),
		attribute.Int("search.patience", s.cfg.Patience),
	)

	current := initial.Clone()
	vec, err := Aggregate(current, s.catalog, s.constraints)
	if err != nil {
		runsFailedCounter.Add(ctx, 1)
		span.SetStatus(codes.Error, "Invalid initial composition")
		span.RecordError(err)
		return SearchResult{}, fmt.Errorf("invalid initial composition: %w", err)
	}
	fitness := Evaluate(vec, s.constraints, s.cfg.Weights)
	initialVec := vec
	initialFitness := fitness

	fitnessGauge.Record(ctx, fitness)
	compositionSizeGauge.Record(ctx, int64(len(current)))

	slog.Info("SEARCH: Starting instrumented run", "run_id", runID, "seed", seed, "initial_fitness", initialFitness)

	runStart := time.Now()
	sinceImprove := 0
	iterations := 0

	for iter := 0; iter < s.cfg.MaxIterations; iter++ {
		if fitness == 0 {
			break
		}
		if s.cfg.Patience > 0 && sinceImprove >= s.cfg.Patience {
			break
		}

		iterations = iter + 1
		iterStart := time.Now()
		iterationCounter.Add(ctx, 1)
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
			invalidCounter.Add(ctx, 1)
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
			acceptedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("edit", string(kind))))
			fitnessGauge.Record(ctx, fitness)
			compositionSizeGauge.Record(ctx, int64(len(current)))
		} else {
			sinceImprove++
			rejectedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("edit", string(kind))))
		}
		s.logIteration(iterLog)
		iterationDurationHist.Record(ctx, time.Since(iterStart).Seconds())
	}

	runDurationHist.Record(ctx, time.Since(runStart).Seconds())
	runsCompletedCounter.Add(ctx, 1)
	span.SetAttributes(
		attribute.Int("search.iterations", iterations),
		attribute.Float64("search.final_fitness", fitness),
	)

	slog.Info("SEARCH: Instrumented run finished", "run_id", runID, "iterations", iterations, "fitness", fitness)

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

func (s *InstrumentedSearch) logIteration(iterLog mealopt.IterationLog) {
	if err := s.logger.LogIteration(iterLog); err != nil {
		slog.Error("SEARCH: Failed to log iteration", "error", err)
	}
}
