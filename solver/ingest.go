package solver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/annealworks/qknap/knapsack"
	"github.com/annealworks/qknap/solver/telemetry"
)

// Ingestor is the HTTP front door: it accepts knapsack problems as JSON
// and answers with the decoded selection.
type Ingestor struct {
	solve   func(context.Context, knapsack.Problem) (knapsack.Selection, error)
	timeout time.Duration
}

func NewIngestor(solve func(context.Context, knapsack.Problem) (knapsack.Selection, error)) *Ingestor {
	return &Ingestor{solve: solve}
}

// WithTimeout bounds each solve request; zero means no deadline beyond the
// client's own.
func (i *Ingestor) WithTimeout(d time.Duration) *Ingestor {
	i.timeout = d
	return i
}

// ServeHTTP handles POST /solve with a JSON Problem and returns a Selection.
func (i *Ingestor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var p knapsack.Problem
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	sel, err := i.solve(ctx, p)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, knapsack.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sel)
}

// InstrumentedSolver wraps a Solver with per-solve telemetry.
type InstrumentedSolver struct {
	solver    *Solver
	telemetry *telemetry.Telemetry
}

func NewInstrumentedSolver(s *Solver) *InstrumentedSolver {
	return &InstrumentedSolver{solver: s, telemetry: telemetry.NewTelemetry()}
}

// GetTelemetry returns the telemetry instance
func (is *InstrumentedSolver) GetTelemetry() *telemetry.Telemetry {
	return is.telemetry
}

// Solve runs the underlying solver and records the outcome.
func (is *InstrumentedSolver) Solve(ctx context.Context, p knapsack.Problem) (knapsack.Selection, error) {
	is.telemetry.LogSolveStart(ctx, p)

	start := time.Now()
	sel, err := is.solver.Solve(ctx, p)
	is.telemetry.LogSolveEnd(ctx, p, sel, time.Since(start), err)

	return sel, err
}
