package core

import (
	"fmt"
	"sort"
	"strconv"
)

// VarKind discriminates the two variable families of a knapsack model.
type VarKind uint8

const (
	// ItemVar is a decision variable: value 1 selects the item.
	ItemVar VarKind = iota
	// SlackVar is an auxiliary bit encoding unused capacity.
	SlackVar
)

// Variable identifies a binary variable in a model. The zero value is
// item variable 0.
type Variable struct {
	Kind  VarKind
	Index int
}

// Item returns the decision variable for item i.
func Item(i int) Variable { return Variable{Kind: ItemVar, Index: i} }

// Slack returns the k-th slack variable.
func Slack(k int) Variable { return Variable{Kind: SlackVar, Index: k} }

// String renders the wire name of the variable: "x3" for items, "y1" for
// slack bits. Remote samplers identify variables by these names.
func (v Variable) String() string {
	if v.Kind == SlackVar {
		return "y" + strconv.Itoa(v.Index)
	}
	return "x" + strconv.Itoa(v.Index)
}

// Less defines the total order used for canonical iteration: items before
// slack bits, then by index.
func (v Variable) Less(o Variable) bool {
	if v.Kind != o.Kind {
		return v.Kind < o.Kind
	}
	return v.Index < o.Index
}

// ParseVariable converts a wire name back into a Variable. Names outside
// the x<i>/y<k> scheme violate the sampler contract and are reported as
// ErrMalformedSolution.
func ParseVariable(name string) (Variable, error) {
	if len(name) < 2 {
		return Variable{}, fmt.Errorf("%w: variable name %q", ErrMalformedSolution, name)
	}
	var kind VarKind
	switch name[0] {
	case 'x':
		kind = ItemVar
	case 'y':
		kind = SlackVar
	default:
		return Variable{}, fmt.Errorf("%w: variable name %q has unknown prefix", ErrMalformedSolution, name)
	}
	idx, err := strconv.Atoi(name[1:])
	if err != nil || idx < 0 {
		return Variable{}, fmt.Errorf("%w: variable name %q has non-integer suffix", ErrMalformedSolution, name)
	}
	return Variable{Kind: kind, Index: idx}, nil
}

// Sample is one assignment produced by a sampler together with its energy.
// Samples are immutable after receipt.
type Sample struct {
	Assignment map[Variable]int8
	Energy     float64
}

// Value returns the binary value assigned to v and whether v is present.
func (s Sample) Value(v Variable) (int8, bool) {
	val, ok := s.Assignment[v]
	return val, ok
}

// SampleSet is a collection of samples ranked by energy, lowest first.
type SampleSet []Sample

// Sort orders the set by ascending energy. The sort is stable so samplers
// that return ties keep their original ranking.
func (ss SampleSet) Sort() {
	sort.SliceStable(ss, func(i, j int) bool { return ss[i].Energy < ss[j].Energy })
}

// Best returns the lowest-energy sample, assuming the set is sorted.
func (ss SampleSet) Best() (Sample, bool) {
	if len(ss) == 0 {
		return Sample{}, false
	}
	return ss[0], true
}
