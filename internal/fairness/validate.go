package fairness

import (
	"errors"
	"fmt"

	"github.com/xtding233/fairdice/internal/dice"
)

var (
	ErrTooFewSides       = errors.New("must have at least 2 sides")
	ErrEmptySample       = errors.New("no valid rolls")
	ErrSampleNotMultiple = errors.New("sample size not a multiple of sides")
	ErrNoTrials          = errors.New("trial count must be positive")
)

// ValidateSides rejects dice that cannot be tested.
func ValidateSides(sides int) error {
	if sides < 2 {
		return fmt.Errorf("%w, got %d", ErrTooFewSides, sides)
	}
	return nil
}

// ValidateSample checks that h can be compared against a uniform die:
// at least two sides, and n a positive multiple of sides so every face
// has an integral expected count.
func ValidateSample(h *dice.Histogram) error {
	if err := ValidateSides(h.Sides()); err != nil {
		return err
	}
	n := h.Total()
	if n == 0 {
		return ErrEmptySample
	}
	if n%h.Sides() != 0 {
		return fmt.Errorf("%w: sample size (%d), sides (%d)", ErrSampleNotMultiple, n, h.Sides())
	}
	return nil
}
