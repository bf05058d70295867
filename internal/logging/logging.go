// Package logging builds the structured diagnostic logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const (
	FormatLogfmt = "logfmt"
	FormatJSON   = "json"
)

// Levels lists the accepted level names, most verbose first.
var Levels = []string{"debug", "info", "warn", "error"}

// New returns a logger writing to w in the given format, dropping entries
// below lvl. Every entry carries a timestamp and the caller.
func New(w io.Writer, lvl, format string) (log.Logger, error) {
	var logger log.Logger
	sw := log.NewSyncWriter(w)
	switch strings.ToLower(format) {
	case "", FormatLogfmt:
		logger = log.NewLogfmtLogger(sw)
	case FormatJSON:
		logger = log.NewJSONLogger(sw)
	default:
		return nil, fmt.Errorf("logging: invalid log format: '%s'", format)
	}

	opt, err := levelOption(lvl)
	if err != nil {
		return nil, err
	}
	logger = level.NewFilter(logger, opt)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller), nil
}

func levelOption(lvl string) (level.Option, error) {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, fmt.Errorf("logging: invalid log level: '%s'", lvl)
	}
}
