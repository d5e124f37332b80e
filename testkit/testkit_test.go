package testkit

import (
	"testing"

	"github.com/annealworks/qknap/knapsack"
	"github.com/stretchr/testify/require"
)

func TestBruteForce(t *testing.T) {
	p := knapsack.Problem{Costs: []float64{1, 2, 3}, Weights: []int{2, 4, 5}, Capacity: 8}

	items, cost := BruteForce(p)
	require.Equal(t, []int{0, 2}, items)
	require.Equal(t, 4.0, cost)
	require.True(t, Feasible(p, items))
	require.Equal(t, 4.0, TotalCost(p, items))
}

func TestBruteForceNothingFits(t *testing.T) {
	p := knapsack.Problem{Costs: []float64{5, 6}, Weights: []int{10, 20}, Capacity: 1}

	items, cost := BruteForce(p)
	require.Empty(t, items)
	require.Equal(t, 0.0, cost)
}

func TestFeasible(t *testing.T) {
	p := knapsack.Problem{Costs: []float64{1, 1}, Weights: []int{3, 4}, Capacity: 5}
	require.True(t, Feasible(p, []int{0}))
	require.True(t, Feasible(p, nil))
	require.False(t, Feasible(p, []int{0, 1}))
}
