package fairness

import (
	"math"

	"github.com/xtding233/fairdice/internal/dice"
)

// DefaultZ is the two-sided 99% normal quantile.
const DefaultZ = 2.575

// Flag places the ideal probability relative to a face's interval.
type Flag int

const (
	Within Flag = iota
	// Below: the face came up less often than a fair die allows.
	Below
	// Above: the face came up more often than a fair die allows.
	Above
)

func (f Flag) String() string {
	switch f {
	case Below:
		return "below"
	case Above:
		return "above"
	default:
		return "within"
	}
}

// ConfidenceResult holds one flag per face, index i for face i+1.
type ConfidenceResult struct {
	Z     float64
	Flags []Flag
}

// Anomaly is a face whose interval excludes the uniform probability.
type Anomaly struct {
	Face int
	Flag Flag
}

// OK reports whether every face is consistent with a fair die.
func (r ConfidenceResult) OK() bool {
	return len(r.Anomalies()) == 0
}

func (r ConfidenceResult) Anomalies() []Anomaly {
	var out []Anomaly
	for i, f := range r.Flags {
		if f != Within {
			out = append(out, Anomaly{Face: i + 1, Flag: f})
		}
	}
	return out
}

// Confidence builds a Wald interval f ± z·sqrt(f(1-f)/n) around each
// face's observed frequency, without continuity correction, and flags
// faces whose interval excludes 1/sides.
func Confidence(h *dice.Histogram, z float64) ConfidenceResult {
	n := float64(h.Total())
	ideal := 1 / float64(h.Sides())

	flags := make([]Flag, h.Sides())
	for i, c := range h.Counts() {
		f := float64(c) / n
		margin := z * math.Sqrt(f*(1-f)/n)
		switch {
		case ideal > f+margin:
			flags[i] = Below
		case ideal < f-margin:
			flags[i] = Above
		}
	}
	return ConfidenceResult{Z: z, Flags: flags}
}
