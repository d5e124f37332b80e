package knapsack

import (
	"fmt"
	"sort"

	"github.com/annealworks/qknap/core"
)

// Selection is the decoded outcome of a sampled assignment: the chosen
// item indices in ascending order, the sampler's energy verbatim, and the
// selection totals.
type Selection struct {
	Items       []int   `json:"items"`
	Energy      float64 `json:"energy"`
	TotalCost   float64 `json:"total_cost"`
	TotalWeight int     `json:"total_weight"`
}

// Feasible reports whether the selection fits within the problem's
// capacity.
func (s Selection) Feasible(p Problem) bool {
	return s.TotalWeight <= p.Capacity
}

// Decode extracts the selected item indices from a sampled assignment:
// every item variable with value 1, sorted ascending. Slack variables are
// ignored. A value outside {0, 1} violates the sampler contract and is
// reported as core.ErrMalformedSolution.
func Decode(s core.Sample) ([]int, error) {
	items := make([]int, 0, len(s.Assignment))
	for v, val := range s.Assignment {
		if val != 0 && val != 1 {
			return nil, fmt.Errorf("%w: variable %s has non-binary value %d", core.ErrMalformedSolution, v, val)
		}
		if v.Kind == core.ItemVar && val == 1 {
			items = append(items, v.Index)
		}
	}
	sort.Ints(items)
	return items, nil
}

// DecodeSelection decodes a sample against its problem, computing the
// selection totals. Item indices beyond the problem size violate the
// model contract.
func DecodeSelection(p Problem, s core.Sample) (Selection, error) {
	items, err := Decode(s)
	if err != nil {
		return Selection{}, err
	}
	sel := Selection{Items: items, Energy: s.Energy}
	for _, i := range items {
		if i >= len(p.Costs) {
			return Selection{}, fmt.Errorf("%w: item index %d out of range for %d items", core.ErrMalformedSolution, i, len(p.Costs))
		}
		sel.TotalCost += p.Costs[i]
		sel.TotalWeight += p.Weights[i]
	}
	return sel, nil
}
