package fairness

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/fairdice/internal/dice"
)

// DefaultTrials gives roughly four decimal places of p-value resolution.
const DefaultTrials = 1 << 15

// SourceFactory returns the random source owned by one worker. Each call
// must return an independent source.
type SourceFactory func(worker int) dice.Source

// Calibrator simulates a fair die to build the null distribution of the
// deviation statistic for one sample size.
type Calibrator struct {
	Sides      int
	SampleSize int
	Trials     int
	Workers    int // <=0 means runtime.NumCPU()
	NewSource  SourceFactory
}

// ReferenceTable is the sorted deviation of every simulated trial.
type ReferenceTable struct {
	values []int
}

// NewReferenceTable sorts a copy of values.
func NewReferenceTable(values []int) ReferenceTable {
	cp := append([]int(nil), values...)
	slices.Sort(cp)
	return ReferenceTable{values: cp}
}

func (t ReferenceTable) Len() int { return len(t.values) }

// At returns the i-th smallest simulated deviation.
func (t ReferenceTable) At(i int) int { return t.values[i] }

func (c Calibrator) workers() int {
	w := c.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if w > c.Trials {
		w = c.Trials
	}
	return w
}

// Build runs every trial and returns the sorted table. Trials are split
// into contiguous partitions, one per worker, each with its own source.
func (c Calibrator) Build(ctx context.Context) (ReferenceTable, error) {
	if err := ValidateSides(c.Sides); err != nil {
		return ReferenceTable{}, err
	}
	if c.Trials <= 0 {
		return ReferenceTable{}, ErrNoTrials
	}
	if c.SampleSize <= 0 {
		return ReferenceTable{}, ErrEmptySample
	}
	newSource := c.NewSource
	if newSource == nil {
		newSource = func(int) dice.Source { return dice.DefaultSource() }
	}

	values := make([]int, c.Trials)
	workers := c.workers()
	per := (c.Trials + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * per
		hi := min(lo+per, c.Trials)
		if lo >= hi {
			break
		}
		src := newSource(w)
		part := values[lo:hi]
		g.Go(func() error {
			h := dice.NewHistogram(c.Sides)
			for i := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := dice.Simulate(h, c.SampleSize, src); err != nil {
					return fmt.Errorf("trial %d: %w", lo+i, err)
				}
				part[i] = Deviation(h)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ReferenceTable{}, err
	}

	slices.Sort(values)
	return ReferenceTable{values: values}, nil
}

// Summary describes the simulated null distribution.
type Summary struct {
	Mean   float64
	StdDev float64
	P95    float64 // deviation exceeded by ~5% of fair dice
	P99    float64
}

// Summary computes mean, spread and upper critical values of the table.
func (t ReferenceTable) Summary() (Summary, error) {
	if len(t.values) == 0 {
		return Summary{}, ErrNoTrials
	}
	data := stats.LoadRawData(t.values)
	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, err
	}
	sd, err := stats.StandardDeviation(data)
	if err != nil {
		return Summary{}, err
	}
	p95, err := stats.Percentile(data, 95)
	if err != nil {
		return Summary{}, err
	}
	p99, err := stats.Percentile(data, 99)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Mean: mean, StdDev: sd, P95: p95, P99: p99}, nil
}
