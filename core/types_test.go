package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVariableString(t *testing.T) {
	require.Equal(t, "x0", Item(0).String())
	require.Equal(t, "x12", Item(12).String())
	require.Equal(t, "y3", Slack(3).String())
}

func TestParseVariableRoundTrip(t *testing.T) {
	for _, v := range []Variable{Item(0), Item(7), Slack(0), Slack(11)} {
		got, err := ParseVariable(v.String())
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestParseVariableMalformed(t *testing.T) {
	for _, name := range []string{"", "x", "z3", "x3a", "xx", "y-1", "3x"} {
		_, err := ParseVariable(name)
		require.ErrorIs(t, err, ErrMalformedSolution, "name %q", name)
	}
}

func TestVariableOrdering(t *testing.T) {
	require.True(t, Item(5).Less(Slack(0)), "items sort before slack bits")
	require.True(t, Item(1).Less(Item(2)))
	require.True(t, Slack(0).Less(Slack(1)))
	require.False(t, Slack(0).Less(Item(99)))
}

func TestSampleSetSortAndBest(t *testing.T) {
	ss := SampleSet{
		{Assignment: map[Variable]int8{Item(0): 1}, Energy: 2.5},
		{Assignment: map[Variable]int8{Item(0): 0}, Energy: -4.0},
		{Assignment: map[Variable]int8{Item(1): 1}, Energy: 0},
	}
	ss.Sort()

	best, ok := ss.Best()
	require.True(t, ok)
	require.Equal(t, -4.0, best.Energy)
	require.Equal(t, []float64{-4.0, 0, 2.5}, []float64{ss[0].Energy, ss[1].Energy, ss[2].Energy})

	_, ok = SampleSet{}.Best()
	require.False(t, ok)
}

func TestSampleValue(t *testing.T) {
	s := Sample{Assignment: map[Variable]int8{Item(2): 1, Slack(0): 0}}

	v, ok := s.Value(Item(2))
	require.True(t, ok)
	require.Equal(t, int8(1), v)

	_, ok = s.Value(Item(3))
	require.False(t, ok)
}
