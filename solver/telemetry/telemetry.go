package telemetry

import (
	"context"
	"expvar"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/annealworks/qknap/knapsack"
)

// expvar names are process-global and Publish panics on reuse, so the
// counters are registered once and shared by every Telemetry instance.
var (
	varsOnce sync.Once

	solvesTotal    *expvar.Int
	solvesOK       *expvar.Int
	solvesFailed   *expvar.Int
	infeasibleBest *expvar.Int
	avgSolveTime   *expvar.Float

	mu             sync.Mutex
	totalSolveTime time.Duration
)

func publishVars() {
	varsOnce.Do(func() {
		solvesTotal = expvar.NewInt("solves_total")
		solvesOK = expvar.NewInt("solves_ok")
		solvesFailed = expvar.NewInt("solves_failed")
		infeasibleBest = expvar.NewInt("infeasible_best_total")
		avgSolveTime = expvar.NewFloat("avg_solve_time_ms")
	})
}

// Telemetry collects basic metrics and provides structured logging
type Telemetry struct {
	SolvesTotal    *expvar.Int
	SolvesOK       *expvar.Int
	SolvesFailed   *expvar.Int
	InfeasibleBest *expvar.Int
	AvgSolveTime   *expvar.Float

	logger *slog.Logger
}

// NewTelemetry creates a new telemetry instance
func NewTelemetry() *Telemetry {
	publishVars()
	return &Telemetry{
		SolvesTotal:    solvesTotal,
		SolvesOK:       solvesOK,
		SolvesFailed:   solvesFailed,
		InfeasibleBest: infeasibleBest,
		AvgSolveTime:   avgSolveTime,
		logger:         slog.Default(),
	}
}

// LogSolveStart logs the start of a solve
func (t *Telemetry) LogSolveStart(ctx context.Context, p knapsack.Problem) {
	t.logger.InfoContext(ctx, "solve_started",
		"items", len(p.Costs),
		"capacity", p.Capacity,
	)
}

// LogSolveEnd logs the end of a solve with its outcome
func (t *Telemetry) LogSolveEnd(ctx context.Context, p knapsack.Problem, sel knapsack.Selection, duration time.Duration, err error) {
	mu.Lock()
	defer mu.Unlock()

	t.SolvesTotal.Add(1)
	totalSolveTime += duration

	if err != nil {
		t.SolvesFailed.Add(1)
		t.logger.WarnContext(ctx, "solve_failed",
			"items", len(p.Costs),
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
	} else {
		t.SolvesOK.Add(1)
		if !sel.Feasible(p) {
			t.InfeasibleBest.Add(1)
		}
		t.logger.InfoContext(ctx, "solve_finished",
			"items_selected", len(sel.Items),
			"total_cost", sel.TotalCost,
			"total_weight", sel.TotalWeight,
			"energy", sel.Energy,
			"duration_ms", duration.Milliseconds(),
		)
	}

	if t.SolvesTotal.Value() > 0 {
		t.AvgSolveTime.Set(float64(totalSolveTime.Milliseconds()) / float64(t.SolvesTotal.Value()))
	}
}

// HealthHandler returns a simple health check
func (t *Telemetry) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","service":"knapsackd"}`))
}

// VarsHandler returns counters in expvar format
func (t *Telemetry) VarsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	expvar.Handler().ServeHTTP(w, r)
}
