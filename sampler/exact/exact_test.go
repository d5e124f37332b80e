package exact

import (
	"context"
	"testing"

	"github.com/annealworks/qknap/core"
	"github.com/annealworks/qknap/knapsack"
	"github.com/annealworks/qknap/testkit"
	"github.com/stretchr/testify/require"
)

func TestSampleReferenceInstance(t *testing.T) {
	// costs [1,2,3], weights [2,4,5], capacity 8: the optimum selects
	// items 0 and 2 (weight 7, cost 4) at energy -4 under this encoding.
	p := knapsack.Problem{Costs: []float64{1, 2, 3}, Weights: []int{2, 4, 5}, Capacity: 8}
	m, err := knapsack.BuildModel(p)
	require.NoError(t, err)

	set, err := New().Sample(context.Background(), m, core.SampleParams{NumReads: 5})
	require.NoError(t, err)
	require.Len(t, set, 5)

	best, ok := set.Best()
	require.True(t, ok)
	require.InDelta(t, -4.0, best.Energy, 1e-9)

	items, err := knapsack.Decode(best)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, items)

	// Ranked ascending.
	for i := 1; i < len(set); i++ {
		require.LessOrEqual(t, set[i-1].Energy, set[i].Energy)
	}
}

func TestSampleNothingFits(t *testing.T) {
	// Capacity below every weight: the optimum is the empty selection at
	// energy 0 (only penalty terms are active elsewhere).
	p := knapsack.Problem{Costs: []float64{5, 6}, Weights: []int{10, 20}, Capacity: 1}
	m, err := knapsack.BuildModel(p)
	require.NoError(t, err)

	set, err := New().Sample(context.Background(), m, core.SampleParams{NumReads: 1})
	require.NoError(t, err)

	best, ok := set.Best()
	require.True(t, ok)
	require.InDelta(t, 0.0, best.Energy, 1e-9)

	items, err := knapsack.Decode(best)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestSampleAgreesWithBruteForce(t *testing.T) {
	problems := []knapsack.Problem{
		{Costs: []float64{6, 10, 12}, Weights: []int{1, 2, 3}, Capacity: 5},
		{Costs: []float64{10, 40, 30, 50}, Weights: []int{5, 4, 6, 3}, Capacity: 10},
		{Costs: []float64{1, 1, 1, 1, 1}, Weights: []int{1, 1, 1, 1, 1}, Capacity: 3},
		{Costs: []float64{7, 2}, Weights: []int{3, 3}, Capacity: 4},
	}

	for _, p := range problems {
		m, err := knapsack.BuildModel(p)
		require.NoError(t, err)

		set, err := New().Sample(context.Background(), m, core.SampleParams{NumReads: 1})
		require.NoError(t, err)

		best, ok := set.Best()
		require.True(t, ok)
		sel, err := knapsack.DecodeSelection(p, best)
		require.NoError(t, err)

		_, wantCost := testkit.BruteForce(p)
		require.True(t, sel.Feasible(p), "problem %+v", p)
		require.InDelta(t, wantCost, sel.TotalCost, 1e-9, "problem %+v", p)
	}
}

func TestSampleTooManyVariables(t *testing.T) {
	m := core.NewModel()
	for i := 0; i < 30; i++ {
		m.SetLinear(core.Item(i), 1)
	}

	_, err := New().Sample(context.Background(), m, core.SampleParams{})
	require.ErrorIs(t, err, ErrTooManyVariables)
}

func TestSampleContextCancelled(t *testing.T) {
	p := knapsack.Problem{Costs: []float64{1, 2, 3}, Weights: []int{2, 4, 5}, Capacity: 8}
	m, err := knapsack.BuildModel(p)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = New().Sample(ctx, m, core.SampleParams{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSampleDefaultReads(t *testing.T) {
	p := knapsack.Problem{Costs: []float64{1, 2}, Weights: []int{1, 2}, Capacity: 2}
	m, err := knapsack.BuildModel(p)
	require.NoError(t, err)

	set, err := New().Sample(context.Background(), m, core.SampleParams{})
	require.NoError(t, err)
	require.Len(t, set, DefaultNumReads)
}
