// Package testkit provides a classical reference solver and feasibility
// checks used to validate sampler output in tests.
package testkit

import "github.com/annealworks/qknap/knapsack"

// Feasible reports whether the given items fit within the problem's
// capacity.
func Feasible(p knapsack.Problem, items []int) bool {
	total := 0
	for _, i := range items {
		total += p.Weights[i]
	}
	return total <= p.Capacity
}

// TotalCost sums the cost of the given items.
func TotalCost(p knapsack.Problem, items []int) float64 {
	var total float64
	for _, i := range items {
		total += p.Costs[i]
	}
	return total
}

// BruteForce returns an optimal feasible selection by enumerating item
// subsets directly, without going through the quadratic encoding. It is
// the ground truth the samplers are measured against; keep instances
// small.
func BruteForce(p knapsack.Problem) (items []int, cost float64) {
	n := len(p.Costs)
	bestMask := 0
	bestCost := 0.0

	for mask := 0; mask < 1<<n; mask++ {
		weight := 0
		value := 0.0
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				weight += p.Weights[i]
				value += p.Costs[i]
			}
		}
		if weight <= p.Capacity && value > bestCost {
			bestMask, bestCost = mask, value
		}
	}

	items = make([]int, 0, n)
	for i := 0; i < n; i++ {
		if bestMask&(1<<i) != 0 {
			items = append(items, i)
		}
	}
	return items, bestCost
}
