// resolve.go
package config

import "strings"

// Overrides carries command-line values; nil means the flag was not given.
type Overrides struct {
	Trials    *int
	Workers   *int
	Z         *float64
	RNG       *string
	Seed      *uint64
	LogLevel  *string
	LogFormat *string
}

// apply layers o over cfg. A seed given without an explicit generator
// selects the seeded one.
func (o Overrides) apply(cfg RawConfig) RawConfig {
	layer := RawConfig{
		Analysis: AnalysisConfig{Trials: o.Trials, Workers: o.Workers, Z: o.Z},
		RNG:      RNGConfig{Seed: o.Seed},
	}
	if o.RNG != nil {
		layer.RNG.Kind = *o.RNG
	} else if o.Seed != nil {
		layer.RNG.Kind = RNGPCG
	}
	if o.LogLevel != nil {
		layer.Log.Level = *o.LogLevel
	}
	if o.LogFormat != nil {
		layer.Log.Format = *o.LogFormat
	}
	return mergeRaw(cfg, layer)
}

// Resolve loads every layer, applies o, validates, and normalizes.
func (l Loader) Resolve(o Overrides) (Settings, error) {
	raw, path, err := l.Load()
	if err != nil {
		return Settings{}, err
	}
	raw = o.apply(raw)
	if err := ValidateRaw(raw); err != nil {
		return Settings{}, err
	}

	s := Settings{
		Trials:    *raw.Analysis.Trials,
		Z:         *raw.Analysis.Z,
		RNG:       raw.RNG.Kind,
		LogLevel:  strings.ToLower(raw.Log.Level),
		LogFormat: strings.ToLower(raw.Log.Format),
		Source:    path,
	}
	if raw.Analysis.Workers != nil {
		s.Workers = *raw.Analysis.Workers
	}
	if raw.RNG.Seed != nil {
		s.Seed, s.SeedSet = *raw.RNG.Seed, true
	}
	return s, nil
}
