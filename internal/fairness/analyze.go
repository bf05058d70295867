package fairness

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/xtding233/fairdice/internal/dice"
)

// Analyzer runs the three fairness tests on one histogram.
type Analyzer struct {
	Trials    int     // Monte Carlo trials; <=0 means DefaultTrials
	Workers   int     // <=0 means runtime.NumCPU()
	Z         float64 // <=0 means DefaultZ
	NewSource SourceFactory
	Logger    log.Logger
}

// Report is the outcome of every test for one histogram.
type Report struct {
	Sides      int
	SampleSize int

	Deviation int
	ECDF      Probability
	Table     ReferenceTable

	ChiSquared ChiSquaredResult
	Confidence ConfidenceResult
}

// Analyze validates h and evaluates it. Only invalid input or a failing
// random source is an error; an unfair die is reported, not rejected.
func (a Analyzer) Analyze(ctx context.Context, h *dice.Histogram) (Report, error) {
	if err := ValidateSample(h); err != nil {
		return Report{}, err
	}
	logger := a.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	trials := a.Trials
	if trials <= 0 {
		trials = DefaultTrials
	}
	z := a.Z
	if z <= 0 {
		z = DefaultZ
	}

	start := time.Now()
	table, err := Calibrator{
		Sides:      h.Sides(),
		SampleSize: h.Total(),
		Trials:     trials,
		Workers:    a.Workers,
		NewSource:  a.NewSource,
	}.Build(ctx)
	if err != nil {
		return Report{}, err
	}
	level.Debug(logger).Log("msg", "reference table built", "trials", trials, "sides", h.Sides(), "n", h.Total(), "took", time.Since(start))

	dev := Deviation(h)
	return Report{
		Sides:      h.Sides(),
		SampleSize: h.Total(),
		Deviation:  dev,
		ECDF:       table.PValue(dev),
		Table:      table,
		ChiSquared: ChiSquared(h),
		Confidence: Confidence(h, z),
	}, nil
}
