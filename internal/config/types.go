// types.go
package config

// RawConfig mirrors the YAML schema. Pointer fields distinguish "unset"
// from zero so layers can be merged.
type RawConfig struct {
	Version  string         `yaml:"version"`
	Analysis AnalysisConfig `yaml:"analysis"`
	RNG      RNGConfig      `yaml:"rng"`
	Log      LogConfig      `yaml:"log"`
	Notes    string         `yaml:"notes,omitempty"`
}

type AnalysisConfig struct {
	Trials  *int     `yaml:"trials"`
	Workers *int     `yaml:"workers"` // 0 = one per CPU
	Z       *float64 `yaml:"z"`
}

type RNGConfig struct {
	Kind string  `yaml:"kind"` // "entropy" | "pcg"
	Seed *uint64 `yaml:"seed,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

const (
	RNGEntropy = "entropy"
	RNGPCG     = "pcg"
)

// Settings are the normalized values used by the analysis.
type Settings struct {
	Trials    int
	Workers   int
	Z         float64
	RNG       string
	Seed      uint64
	SeedSet   bool
	LogLevel  string
	LogFormat string
	Source    string // config file in effect, empty if none
}
