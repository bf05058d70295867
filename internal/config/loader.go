package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no file is named and FAIRDICE_CONFIG is unset.
const DefaultPath = "fairdice.yaml"

// Defaults returns the built-in configuration layer.
func Defaults() RawConfig {
	trials, workers, z := 1<<15, 0, 2.575
	return RawConfig{
		Version:  "1",
		Analysis: AnalysisConfig{Trials: &trials, Workers: &workers, Z: &z},
		RNG:      RNGConfig{Kind: RNGEntropy},
		Log:      LogConfig{Level: "info", Format: "logfmt"},
	}
}

// Loader merges defaults -> YAML file -> environment. Values from the
// optional .env file fill in variables Getenv leaves empty.
type Loader struct {
	Path    string // explicit config file; must exist when set
	EnvFile string // optional .env file
	Getenv  func(string) string
}

// Load returns the merged RawConfig (without normalization) and the path
// of the config file that contributed to it, if any.
func (l Loader) Load() (RawConfig, string, error) {
	envFile := l.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return RawConfig{}, "", fmt.Errorf("load %s: %w", envFile, err)
	}
	lookup := l.Getenv
	if lookup == nil {
		lookup = os.Getenv
	}
	// existing variables win over the .env file
	getenv := func(key string) string {
		if v := lookup(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	path, required := l.Path, true
	if path == "" {
		path = getenv("FAIRDICE_CONFIG")
	}
	if path == "" {
		path, required = DefaultPath, false
	}
	fileCfg, found, err := readYAML(path)
	if err != nil {
		return RawConfig{}, "", fmt.Errorf("read config %s: %w", path, err)
	}
	if !found {
		if required {
			return RawConfig{}, "", fmt.Errorf("read config %s: %w", path, os.ErrNotExist)
		}
		path = ""
	}

	envCfg, err := fromEnv(getenv)
	if err != nil {
		return RawConfig{}, "", err
	}

	merged := Defaults()
	merged = mergeRaw(merged, fileCfg)
	merged = mergeRaw(merged, envCfg)
	// a seed with no generator named in any layer selects pcg
	if fileCfg.RNG.Kind == "" && envCfg.RNG.Kind == "" && merged.RNG.Seed != nil {
		merged.RNG.Kind = RNGPCG
	}
	return merged, path, nil
}

// readYAML loads a YAML file into RawConfig. A missing file is not an error.
func readYAML(path string) (RawConfig, bool, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, false, nil
		}
		return RawConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, false, err
	}
	return cfg, true, nil
}

// fromEnv reads FAIRDICE_* variables into a config layer.
func fromEnv(getenv func(string) string) (RawConfig, error) {
	var cfg RawConfig
	var errs []string

	if s := getenv("FAIRDICE_TRIALS"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			cfg.Analysis.Trials = &v
		} else {
			errs = append(errs, "FAIRDICE_TRIALS must be an integer")
		}
	}
	if s := getenv("FAIRDICE_WORKERS"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			cfg.Analysis.Workers = &v
		} else {
			errs = append(errs, "FAIRDICE_WORKERS must be an integer")
		}
	}
	if s := getenv("FAIRDICE_Z"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			cfg.Analysis.Z = &v
		} else {
			errs = append(errs, "FAIRDICE_Z must be a number")
		}
	}
	if s := getenv("FAIRDICE_SEED"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			cfg.RNG.Seed = &v
		} else {
			errs = append(errs, "FAIRDICE_SEED must be an unsigned integer")
		}
	}
	cfg.RNG.Kind = getenv("FAIRDICE_RNG")
	cfg.Log.Level = getenv("FAIRDICE_LOG_LEVEL")
	cfg.Log.Format = getenv("FAIRDICE_LOG_FORMAT")

	if len(errs) > 0 {
		return RawConfig{}, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return cfg, nil
}

// mergeRaw returns a with every field set in b overriding it.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// analysis
	if b.Analysis.Trials != nil {
		out.Analysis.Trials = b.Analysis.Trials
	}
	if b.Analysis.Workers != nil {
		out.Analysis.Workers = b.Analysis.Workers
	}
	if b.Analysis.Z != nil {
		out.Analysis.Z = b.Analysis.Z
	}

	// rng
	if b.RNG.Kind != "" {
		out.RNG.Kind = b.RNG.Kind
	}
	if b.RNG.Seed != nil {
		out.RNG.Seed = b.RNG.Seed
	}

	// log
	if b.Log.Level != "" {
		out.Log.Level = b.Log.Level
	}
	if b.Log.Format != "" {
		out.Log.Format = b.Log.Format
	}

	return out
}
