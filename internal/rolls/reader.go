// Package rolls reads recorded die rolls, one face value per line.
package rolls

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/xtding233/fairdice/internal/dice"
)

// invalidRoll is what an unparseable line reads as; it is never a face.
const invalidRoll = 0

// maxLine bounds the bytes kept per line. Longer lines are drained and
// rejected.
const maxLine = 1024

// Stats counts what happened to each line.
type Stats struct {
	Accepted int
	Rejected int
	Blank    int
}

// Reader tallies rolls of a die with Sides faces.
type Reader struct {
	Sides  int
	Logger log.Logger
}

// Read consumes r until EOF. Empty lines are skipped; lines that do not
// hold a face in [1, Sides] are logged and skipped without counting
// toward the sample size. Only I/O failures are returned as errors.
func (rd Reader) Read(r io.Reader) (*dice.Histogram, Stats, error) {
	logger := rd.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	h := dice.NewHistogram(rd.Sides)
	var st Stats

	br := bufio.NewReader(r)
	for line := 1; ; line++ {
		raw, tooLong, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, st, fmt.Errorf("read rolls: line %d: %w", line, err)
		}
		if tooLong {
			level.Warn(logger).Log("msg", "ignoring roll", "line", line, "value", invalidRoll, "err", "line too long")
			st.Rejected++
			continue
		}
		if raw == "" {
			st.Blank++
			continue
		}
		text := strings.TrimSpace(raw)
		v, err := strconv.Atoi(text)
		if err != nil {
			v = invalidRoll
		}
		if err := h.Add(v); err != nil {
			level.Warn(logger).Log("msg", "ignoring roll", "line", line, "value", v, "input", text)
			st.Rejected++
			continue
		}
		st.Accepted++
	}
	return h, st, nil
}

// readLine returns the next line without its terminator. A line longer
// than maxLine is consumed in full and reported with tooLong set. io.EOF
// is returned only when no line remains.
func readLine(br *bufio.Reader) (string, bool, error) {
	var b []byte
	tooLong, started := false, false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && started {
				return string(b), tooLong, nil
			}
			return "", false, err
		}
		started = true
		if !tooLong {
			if len(b)+len(chunk) > maxLine {
				tooLong, b = true, nil
			} else {
				b = append(b, chunk...)
			}
		}
		if !isPrefix {
			return string(b), tooLong, nil
		}
	}
}
