package dice

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
)

var ErrEntropyUnavailable = errors.New("entropy source unavailable")

// Source draws uniform integers.
type Source interface {
	Intn(n int) (int, error) // [0, n)
}

// words per entropy read
const poolWords = 64

// entropySource draws from an OS entropy reader in batches.
type entropySource struct {
	r    io.Reader
	buf  [poolWords * 8]byte
	next int // index of the next unread word; poolWords means empty
}

// NewEntropySource returns a Source backed by r, normally crypto/rand.Reader.
// A failed read is reported as ErrEntropyUnavailable; there is no fallback.
func NewEntropySource(r io.Reader) Source {
	return &entropySource{r: r, next: poolWords}
}

// DefaultSource reads from the operating system's entropy device.
func DefaultSource() Source { return NewEntropySource(cryptoRand.Reader) }

func (s *entropySource) uint64() (uint64, error) {
	if s.next == poolWords {
		if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
		}
		s.next = 0
	}
	v := binary.LittleEndian.Uint64(s.buf[s.next*8:])
	s.next++
	return v, nil
}

func (s *entropySource) Intn(n int) (int, error) {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	bound := uint64(n)
	// reject the low 2^64 mod n values so every residue is equally likely
	threshold := -bound % bound
	for {
		v, err := s.uint64()
		if err != nil {
			return 0, err
		}
		if v >= threshold {
			return int(v % bound), nil
		}
	}
}

// Replicable source for tests and seeded runs. Not suitable when the
// calibration must not be predictable.
type seededSource struct{ r *rand.Rand }

// NewSeededSource returns a PCG-backed Source. Distinct streams with the
// same seed are independent.
func NewSeededSource(seed, stream uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, stream))}
}

func (s *seededSource) Intn(n int) (int, error) { return s.r.IntN(n), nil }

// Roll returns a face in [1, sides].
func Roll(src Source, sides int) (int, error) {
	v, err := src.Intn(sides)
	if err != nil {
		return 0, err
	}
	return v + 1, nil
}
