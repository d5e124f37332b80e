package knapsack

import (
	"testing"

	"github.com/annealworks/qknap/core"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := Problem{Costs: []float64{1, 2}, Weights: []int{3, 4}, Capacity: 5}
	require.NoError(t, valid.Validate())

	cases := map[string]Problem{
		"empty":           {Capacity: 5},
		"length mismatch": {Costs: []float64{1, 2}, Weights: []int{3}, Capacity: 5},
		"negative cost":   {Costs: []float64{-1}, Weights: []int{1}, Capacity: 5},
		"negative weight": {Costs: []float64{1}, Weights: []int{-1}, Capacity: 5},
		"zero capacity":   {Costs: []float64{1}, Weights: []int{1}, Capacity: 0},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, p.Validate(), ErrInvalidInput)

			m, err := BuildModel(p)
			require.ErrorIs(t, err, ErrInvalidInput)
			require.Nil(t, m, "no partial model on invalid input")
		})
	}
}

func TestSlackWeights(t *testing.T) {
	for _, capacity := range []int{1, 2, 3, 7, 8, 9, 100, 1023, 1024} {
		ws := SlackWeights(capacity)

		sum := 0
		for _, w := range ws {
			sum += w
		}
		require.Equal(t, capacity, sum, "capacity %d: slack weights must sum to the capacity", capacity)

		for k := 0; k < len(ws)-1; k++ {
			require.Equal(t, 1<<k, ws[k], "capacity %d: bit %d", capacity, k)
		}
	}
}

func TestSlackWeightsBoundary(t *testing.T) {
	// capacity=1: M=0, a single slack bit worth 1+1-1 = 1.
	require.Equal(t, []int{1}, SlackWeights(1))
	require.Equal(t, []int{1, 2, 4, 1}, SlackWeights(8))
}

func TestBuildModelCoefficients(t *testing.T) {
	p := Problem{Costs: []float64{1, 2, 3}, Weights: []int{2, 4, 5}, Capacity: 8}
	m, err := BuildModel(p)
	require.NoError(t, err)

	lagrange := 3.0 // max cost
	slack := SlackWeights(8)
	require.Len(t, slack, 4)

	// Every item and slack variable carries a linear term.
	require.Equal(t, 3+4, m.NumVariables())
	for i := range p.Costs {
		require.True(t, m.HasVariable(core.Item(i)))
	}
	for k := range slack {
		require.True(t, m.HasVariable(core.Slack(k)))
	}

	// Linear terms: lagrange*w^2 - cost for items, lagrange*y^2 for slack.
	for i, w := range p.Weights {
		want := lagrange*float64(w*w) - p.Costs[i]
		require.Equal(t, want, m.Linear(core.Item(i)), "item %d", i)
	}
	for k, y := range slack {
		require.Equal(t, lagrange*float64(y*y), m.Linear(core.Slack(k)), "slack %d", k)
	}

	// Quadratic terms, readable in either order.
	require.Equal(t, 2*lagrange*2*4, m.Quadratic(core.Item(0), core.Item(1)))
	require.Equal(t, 2*lagrange*2*4, m.Quadratic(core.Item(1), core.Item(0)))
	require.Equal(t, 2*lagrange*1*2, m.Quadratic(core.Slack(0), core.Slack(1)))
	require.Equal(t, -2*lagrange*2*1, m.Quadratic(core.Item(0), core.Slack(0)))
	require.Equal(t, -2*lagrange*5*4, m.Quadratic(core.Item(2), core.Slack(2)))

	// Complete pairwise structure: C(7,2) interactions, no self-pairs.
	require.Equal(t, 21, m.NumInteractions())
}

func TestBuildModelFeasibleEnergyIsNegatedCost(t *testing.T) {
	// Items {0,2}: weight 7, slack register set to 7 zeroes the penalty,
	// leaving energy = -(1+3) = -4.
	p := Problem{Costs: []float64{1, 2, 3}, Weights: []int{2, 4, 5}, Capacity: 8}
	m, err := BuildModel(p)
	require.NoError(t, err)

	asg := map[core.Variable]int8{
		core.Item(0): 1, core.Item(1): 0, core.Item(2): 1,
		// slack weights [1,2,4,1]: 1+2+4 = 7
		core.Slack(0): 1, core.Slack(1): 1, core.Slack(2): 1, core.Slack(3): 0,
	}
	e, err := m.Energy(asg)
	require.NoError(t, err)
	require.InDelta(t, -4.0, e, 1e-9)

	// An overweight selection pays the quadratic penalty.
	over := map[core.Variable]int8{
		core.Item(0): 1, core.Item(1): 1, core.Item(2): 1,
		core.Slack(0): 0, core.Slack(1): 0, core.Slack(2): 1, core.Slack(3): 1,
	}
	// weight 11 vs register 5: penalty 3*(11-5)^2 = 108, costs -6.
	e, err = m.Energy(over)
	require.NoError(t, err)
	require.InDelta(t, 102.0, e, 1e-9)
}

func TestBuildModelTinyCapacity(t *testing.T) {
	// Capacity below every item weight must still produce a well-formed
	// model; the empty selection is the feasible answer.
	p := Problem{Costs: []float64{5, 6}, Weights: []int{10, 20}, Capacity: 1}
	m, err := BuildModel(p)
	require.NoError(t, err)
	require.Equal(t, 3, m.NumVariables()) // 2 items + 1 slack bit

	empty := map[core.Variable]int8{
		core.Item(0): 0, core.Item(1): 0, core.Slack(0): 0,
	}
	e, err := m.Energy(empty)
	require.NoError(t, err)
	require.Equal(t, 0.0, e)
}

func TestWithLagrange(t *testing.T) {
	p := Problem{Costs: []float64{1}, Weights: []int{2}, Capacity: 4}

	m, err := BuildModel(p, WithLagrange(10))
	require.NoError(t, err)
	require.Equal(t, 10.0*4-1, m.Linear(core.Item(0)))

	_, err = BuildModel(p, WithLagrange(0))
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = BuildModel(p, WithLagrange(-3))
	require.ErrorIs(t, err, ErrInvalidInput)
}
