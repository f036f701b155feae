package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"mealopt"
)

// DayPlan maps meal slot names ("breakfast", "lunch", ...) to compositions.
// Whole-day optimization treats the day's aggregate nutrients as one vector
// against the same constraint set used for single meals.
type DayPlan map[string]Composition

// Clone returns an independent copy of the plan.
func (p DayPlan) Clone() DayPlan {
	out := make(DayPlan, len(p))
	for slot, comp := range p {
		out[slot] = comp.Clone()
	}
	return out
}

// Slots returns the slot names in sorted order.
func (p DayPlan) Slots() []string {
	slots := make([]string, 0, len(p))
	for slot := range p {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}

// AggregateDay sums nutrients across every slot of the plan.
func AggregateDay(plan DayPlan, cat Catalog, cs ConstraintSet) (NutrientVector, error) {
	total := make(NutrientVector, len(cs))
	for name := range cs {
		total[name] = 0
	}
	for _, slot := range plan.Slots() {
		vec, err := Aggregate(plan[slot], cat, cs)
		if err != nil {
			return nil, fmt.Errorf("slot %q: %w", slot, err)
		}
		for name, v := range vec {
			total[name] += v
		}
	}
	return total, nil
}

// DayResult is the outcome of one whole-day optimization run.
type DayResult struct {
	RunID          string              `json:"run_id"`
	Seed           int64               `json:"seed"`
	Plan           DayPlan             `json:"plan"`
	Nutrients      NutrientVector      `json:"nutrients"`
	Fitness        float64             `json:"fitness"`
	InitialFitness float64             `json:"initial_fitness"`
	Changes        map[string][]Change `json:"changes"`
	Iterations     int                 `json:"iterations"`
}

// RunDay optimizes a whole day. Each iteration picks one slot at random and
// applies a single atomic edit to that slot's composition; acceptance and
// termination follow the same first-improvement rules as Run.
func (s *Search) RunDay(ctx context.Context, initial DayPlan) (DayResult, error) {
	if err := s.constraints.Validate(); err != nil {
		return DayResult{}, err
	}

	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	runID := uuid.NewString()

	current := initial.Clone()
	vec, err := AggregateDay(current, s.catalog, s.constraints)
	if err != nil {
		return DayResult{}, fmt.Errorf("invalid initial plan: %w", err)
	}
	fitness := Evaluate(vec, s.constraints, s.cfg.Weights)
	initialFitness := fitness

	slog.Info("SEARCH: Starting day run", "run_id", runID, "seed", seed, "slots", len(current), "initial_fitness", initialFitness)

	slots := current.Slots()
	sinceImprove := 0
	iterations := 0

	for iter := 0; iter < s.cfg.MaxIterations; iter++ {
		if fitness == 0 || len(slots) == 0 {
			break
		}
		if s.cfg.Patience > 0 && sinceImprove >= s.cfg.Patience {
			break
		}

		iterations = iter + 1
		iterLog := mealopt.IterationLog{
			Iteration:      iterations,
			Timestamp:      time.Now(),
			CurrentFitness: fitness,
		}

		slot := slots[rng.Intn(len(slots))]
		candidateComp, kind, ok := Neighbor(rng, current[slot], s.catalog, s.cfg.Neighbor)
		if !ok {
			iterLog.Rejected = "no feasible edit"
			s.logIteration(iterLog)
			sinceImprove++
			continue
		}
		iterLog.Edit = fmt.Sprintf("%s:%s", slot, kind)

		candidate := current.Clone()
		candidate[slot] = candidateComp
		candidateVec, err := AggregateDay(candidate, s.catalog, s.constraints)
		if err != nil {
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

	changes := make(map[string][]Change, len(slots))
	for _, slot := range initial.Slots() {
		if diff := Diff(initial[slot], current[slot], s.catalog); len(diff) > 0 {
			changes[slot] = diff
		}
	}

	slog.Info("SEARCH: Day run finished", "run_id", runID, "iterations", iterations, "fitness", fitness)

	return DayResult{
		RunID:          runID,
		Seed:           seed,
		Plan:           current,
		Nutrients:      vec,
		Fitness:        fitness,
		InitialFitness: initialFitness,
		Changes:        changes,
		Iterations:     iterations,
	}, nil
}
