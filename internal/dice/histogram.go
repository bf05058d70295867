package dice

import (
	"errors"
	"fmt"
)

var ErrFaceOutOfRange = errors.New("face out of range")

// Histogram holds per-face roll counts. Index i counts face i+1.
type Histogram struct {
	counts []int
	total  int
}

// NewHistogram returns an empty histogram for a die with the given sides.
func NewHistogram(sides int) *Histogram {
	return &Histogram{counts: make([]int, sides)}
}

// FromCounts builds a histogram from existing per-face counts.
func FromCounts(counts []int) (*Histogram, error) {
	h := &Histogram{counts: append([]int(nil), counts...)}
	for i, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("face %d: negative count %d", i+1, c)
		}
		h.total += c
	}
	return h, nil
}

// Add counts one roll of face (1-indexed).
func (h *Histogram) Add(face int) error {
	if face < 1 || face > len(h.counts) {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrFaceOutOfRange, face, len(h.counts))
	}
	h.counts[face-1]++
	h.total++
	return nil
}

// Count returns the number of rolls of face (1-indexed).
func (h *Histogram) Count(face int) int { return h.counts[face-1] }

// Counts returns a copy of the per-face counts.
func (h *Histogram) Counts() []int { return append([]int(nil), h.counts...) }

func (h *Histogram) Sides() int { return len(h.counts) }

// Total is the sample size n.
func (h *Histogram) Total() int { return h.total }

// reset zeroes the counts so the histogram can be reused between trials.
func (h *Histogram) reset() {
	clear(h.counts)
	h.total = 0
}

// Aggregate tallies faces into a new histogram.
func Aggregate(sides int, faces []int) (*Histogram, error) {
	h := NewHistogram(sides)
	for _, f := range faces {
		if err := h.Add(f); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Simulate fills h with n fair rolls drawn from src, replacing its contents.
func Simulate(h *Histogram, n int, src Source) error {
	h.reset()
	sides := len(h.counts)
	for i := 0; i < n; i++ {
		face, err := Roll(src, sides)
		if err != nil {
			return err
		}
		h.counts[face-1]++
	}
	h.total = n
	return nil
}
