package fairness

import "github.com/xtding233/fairdice/internal/dice"

// Deviation measures how far the observed cumulative face counts stray
// from those of a perfectly uniform die: the largest absolute difference,
// over every face boundary, between the rolls still to be accounted for
// and the number a uniform die would leave. It depends on face order, not
// just on the multiset of counts.
func Deviation(h *dice.Histogram) int {
	return deviation(h.Counts(), h.Total())
}

func deviation(counts []int, n int) int {
	step := n / len(counts)
	remaining, ideal := n, n
	maxDist := 0
	for _, c := range counts {
		remaining -= c
		ideal -= step
		if d := absDiff(remaining, ideal); d > maxDist {
			maxDist = d
		}
	}
	return maxDist
}

func absDiff(a, b int) int {
	if a >= b {
		return a - b
	}
	return b - a
}
