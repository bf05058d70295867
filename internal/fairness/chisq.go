package fairness

import (
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/xtding233/fairdice/internal/dice"
)

// ChiSquaredResult is Pearson's goodness-of-fit test against a uniform die.
type ChiSquaredResult struct {
	Statistic        float64
	DegreesOfFreedom int
	P                float64
}

// ChiSquared compares h with the uniform expectation n/sides per face.
// h must satisfy ValidateSample.
func ChiSquared(h *dice.Histogram) ChiSquaredResult {
	sides := h.Sides()
	ideal := float64(h.Total() / sides)

	obs := make([]float64, sides)
	exp := make([]float64, sides)
	for i, c := range h.Counts() {
		obs[i] = float64(c)
		exp[i] = ideal
	}
	x := stat.ChiSquare(obs, exp)
	df := sides - 1
	return ChiSquaredResult{
		Statistic:        x,
		DegreesOfFreedom: df,
		// regularised upper incomplete gamma Q(df/2, x/2)
		P: distuv.ChiSquared{K: float64(df)}.Survival(x),
	}
}
