// Package solver orchestrates the knapsack pipeline: validate, build the
// quadratic model, submit it to a sampler, and decode the best-ranked
// assignment into a selection.
package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/annealworks/qknap/core"
	"github.com/annealworks/qknap/knapsack"
	"github.com/annealworks/qknap/pkg/cache"
	"github.com/annealworks/qknap/pkg/metrics"
	"github.com/annealworks/qknap/pkg/tracing"
	"go.opentelemetry.io/otel/trace"
)

// ErrNoSamples is returned when the sampler responds without any sample;
// the oracle contract guarantees at least one ranked assignment.
var ErrNoSamples = errors.New("solver: sampler returned no samples")

// Solver wires the model builder to a sampler with caching, metrics and
// tracing around the submission. The zero value is unusable; Sampler is
// required, everything else is optional.
type Solver struct {
	Sampler core.Sampler
	Cache   *cache.LRUCache
	Dedup   *cache.Deduplicator
	Metrics *metrics.PrometheusMetrics
	Tracer  *tracing.Tracer

	// Label tags submissions on the remote side.
	Label string
	// NumReads is the number of ranked samples requested per submission.
	NumReads int
	// Lagrange overrides the max(costs) penalty default when positive.
	Lagrange float64
	// RequireFeasible scans the ranked samples for the first feasible
	// selection instead of decoding the best-ranked one blindly. The
	// best-ranked sample still wins when nothing in the set is feasible.
	RequireFeasible bool
}

// Solve runs the full pipeline for one problem instance.
func (s *Solver) Solve(ctx context.Context, p knapsack.Problem) (knapsack.Selection, error) {
	slog.InfoContext(ctx, "solving knapsack", "items", len(p.Costs), "capacity", p.Capacity)

	if s.Tracer != nil {
		var span trace.Span
		ctx, span = s.Tracer.StartSolveSpan(ctx, len(p.Costs), p.Capacity)
		defer span.End()
	}

	model, err := s.buildModel(p)
	if err != nil {
		return knapsack.Selection{}, err
	}
	if s.Metrics != nil {
		s.Metrics.RecordModelSize(model.NumVariables(), model.NumInteractions())
	}

	set, err := s.sample(ctx, model)
	if err != nil {
		slog.ErrorContext(ctx, "sampling failed", "sampler", s.Sampler.Name(), "error", err)
		return knapsack.Selection{}, err
	}

	best, ok := set.Best()
	if !ok {
		return knapsack.Selection{}, ErrNoSamples
	}

	sel, err := knapsack.DecodeSelection(p, best)
	if err != nil {
		return knapsack.Selection{}, err
	}

	if s.RequireFeasible && !sel.Feasible(p) {
		if s.Metrics != nil {
			s.Metrics.RecordInfeasibleBest()
		}
		slog.WarnContext(ctx, "best-ranked sample infeasible, scanning ranked set",
			"weight", sel.TotalWeight, "capacity", p.Capacity)
		if feasible, found, ferr := s.firstFeasible(p, set); ferr != nil {
			return knapsack.Selection{}, ferr
		} else if found {
			sel = feasible
		}
	}

	if s.Metrics != nil {
		s.Metrics.RecordEnergy(sel.Energy)
	}
	slog.InfoContext(ctx, "knapsack solved",
		"items", sel.Items, "total_cost", sel.TotalCost, "total_weight", sel.TotalWeight, "energy", sel.Energy)
	return sel, nil
}

func (s *Solver) buildModel(p knapsack.Problem) (*core.Model, error) {
	var opts []knapsack.Option
	if s.Lagrange > 0 {
		opts = append(opts, knapsack.WithLagrange(s.Lagrange))
	}
	return knapsack.BuildModel(p, opts...)
}

// sample submits the model, going through the cache and the in-flight
// deduplicator when configured. Oracle errors pass through unchanged.
func (s *Solver) sample(ctx context.Context, model *core.Model) (core.SampleSet, error) {
	params := core.SampleParams{Label: s.Label, NumReads: s.NumReads}
	key := cache.KeyForModel(model)

	if s.Cache != nil {
		if entry, ok := s.Cache.Get(key); ok {
			if s.Metrics != nil {
				s.Metrics.RecordCacheHit()
			}
			slog.DebugContext(ctx, "sample cache hit", "model", string(key)[:12])
			return entry.Samples, nil
		}
		if s.Metrics != nil {
			s.Metrics.RecordCacheMiss()
		}
	}

	submit := func() (core.SampleSet, error) {
		start := time.Now()

		sctx := ctx
		if s.Tracer != nil {
			var span trace.Span
			sctx, span = s.Tracer.StartSampleSpan(ctx, s.Sampler.Name(), params.Label, model.NumVariables(), params.NumReads)
			defer span.End()
		}

		set, err := s.Sampler.Sample(sctx, model, params)

		if s.Metrics != nil {
			status := "ok"
			if err != nil {
				status = "error"
			}
			s.Metrics.RecordSubmission(s.Sampler.Name(), status)
			s.Metrics.RecordLatency(s.Sampler.Name(), time.Since(start))
		}
		if err != nil {
			return nil, fmt.Errorf("sampler %s: %w", s.Sampler.Name(), err)
		}
		return set, nil
	}

	if s.Dedup != nil {
		return s.Dedup.ExecuteWithCache(ctx, key, s.Cache, 0, submit)
	}

	set, err := submit()
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		s.Cache.Set(key, set, 0)
	}
	return set, nil
}

// firstFeasible returns the lowest-energy feasible selection in the
// ranked set.
func (s *Solver) firstFeasible(p knapsack.Problem, set core.SampleSet) (knapsack.Selection, bool, error) {
	for _, sample := range set {
		sel, err := knapsack.DecodeSelection(p, sample)
		if err != nil {
			return knapsack.Selection{}, false, err
		}
		if sel.Feasible(p) {
			return sel, true, nil
		}
	}
	return knapsack.Selection{}, false, nil
}
