package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/xtding233/fairdice/internal/logging"
)

var ErrInvalid = errors.New("config validation failed")

// ValidateRaw checks semantic constraints of a merged RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// analysis
	if cfg.Analysis.Trials == nil || *cfg.Analysis.Trials <= 0 {
		errs = append(errs, "analysis.trials must be >= 1")
	}
	if cfg.Analysis.Workers != nil && *cfg.Analysis.Workers < 0 {
		errs = append(errs, "analysis.workers must be >= 0 (0 means one per CPU)")
	}
	if z := cfg.Analysis.Z; z == nil || math.IsNaN(*z) || math.IsInf(*z, 0) || *z <= 0 {
		errs = append(errs, "analysis.z must be a positive number")
	}

	// rng
	switch cfg.RNG.Kind {
	case RNGEntropy, RNGPCG:
	default:
		errs = append(errs, fmt.Sprintf("rng.kind must be one of: %s, %s (got %q)", RNGEntropy, RNGPCG, cfg.RNG.Kind))
	}
	if cfg.RNG.Kind == RNGEntropy && cfg.RNG.Seed != nil {
		errs = append(errs, "rng.seed is only meaningful with rng.kind=pcg")
	}

	// log
	if !slices.Contains(logging.Levels, strings.ToLower(cfg.Log.Level)) {
		errs = append(errs, "log.level must be one of: "+strings.Join(logging.Levels, ", "))
	}
	switch strings.ToLower(cfg.Log.Format) {
	case logging.FormatLogfmt, logging.FormatJSON:
	default:
		errs = append(errs, "log.format must be one of: logfmt, json")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}
