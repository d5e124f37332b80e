package knapsack

import (
	"testing"

	"github.com/annealworks/qknap/core"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	s := core.Sample{
		Assignment: map[core.Variable]int8{
			core.Item(0): 0, core.Item(2): 1, core.Item(5): 1, core.Item(7): 0,
			core.Slack(0): 1, core.Slack(1): 0,
		},
		Energy: -4,
	}

	items, err := Decode(s)
	require.NoError(t, err)
	require.Equal(t, []int{2, 5}, items, "selected indices, ascending, slack ignored")
}

func TestDecodeEmptySelection(t *testing.T) {
	s := core.Sample{Assignment: map[core.Variable]int8{
		core.Item(0): 0, core.Slack(0): 1,
	}}
	items, err := Decode(s)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestDecodeNonBinaryValue(t *testing.T) {
	s := core.Sample{Assignment: map[core.Variable]int8{core.Item(0): 2}}
	_, err := Decode(s)
	require.ErrorIs(t, err, core.ErrMalformedSolution)
}

func TestDecodeSelection(t *testing.T) {
	p := Problem{Costs: []float64{1, 2, 3}, Weights: []int{2, 4, 5}, Capacity: 8}
	s := core.Sample{
		Assignment: map[core.Variable]int8{
			core.Item(0): 1, core.Item(1): 0, core.Item(2): 1,
			core.Slack(0): 1, core.Slack(1): 1, core.Slack(2): 1, core.Slack(3): 0,
		},
		Energy: -4,
	}

	sel, err := DecodeSelection(p, s)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, sel.Items)
	require.Equal(t, -4.0, sel.Energy)
	require.Equal(t, 4.0, sel.TotalCost)
	require.Equal(t, 7, sel.TotalWeight)
	require.True(t, sel.Feasible(p))

	heavy := Selection{TotalWeight: 9}
	require.False(t, heavy.Feasible(p))
}

func TestDecodeSelectionIndexOutOfRange(t *testing.T) {
	p := Problem{Costs: []float64{1}, Weights: []int{1}, Capacity: 1}
	s := core.Sample{Assignment: map[core.Variable]int8{core.Item(4): 1}}
	_, err := DecodeSelection(p, s)
	require.ErrorIs(t, err, core.ErrMalformedSolution)
}
