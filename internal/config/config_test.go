package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func noDotenv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestResolveDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	s, err := Loader{EnvFile: noDotenv(t), Getenv: env(nil)}.Resolve(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, Settings{
		Trials:    32768,
		Workers:   0,
		Z:         2.575,
		RNG:       RNGEntropy,
		LogLevel:  "info",
		LogFormat: "logfmt",
	}, s)
}

func TestResolveLayers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fd.yaml", `
version: "2"
analysis:
  trials: 4096
  workers: 2
rng:
  kind: pcg
  seed: 7
log:
  level: debug
`)
	vars := map[string]string{
		"FAIRDICE_WORKERS":    "3",
		"FAIRDICE_LOG_FORMAT": "json",
	}
	trials := 128
	s, err := Loader{Path: path, EnvFile: noDotenv(t), Getenv: env(vars)}.Resolve(Overrides{Trials: &trials})
	require.NoError(t, err)

	assert.Equal(t, 128, s.Trials, "flag wins over file")
	assert.Equal(t, 3, s.Workers, "env wins over file")
	assert.Equal(t, 2.575, s.Z, "default kept")
	assert.Equal(t, RNGPCG, s.RNG)
	assert.Equal(t, uint64(7), s.Seed)
	assert.True(t, s.SeedSet)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "json", s.LogFormat)
	assert.Equal(t, path, s.Source)
}

func TestResolveConfigFromEnvPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yaml", "analysis:\n  z: 1.96\n")
	s, err := Loader{EnvFile: noDotenv(t), Getenv: env(map[string]string{"FAIRDICE_CONFIG": path})}.Resolve(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 1.96, s.Z)
}

func TestResolveDefaultPathInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, DefaultPath, "analysis:\n  trials: 10\n")
	t.Chdir(dir)
	s, err := Loader{EnvFile: noDotenv(t), Getenv: env(nil)}.Resolve(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 10, s.Trials)
	assert.Equal(t, DefaultPath, s.Source)
}

func TestResolveMissingExplicitFile(t *testing.T) {
	_, err := Loader{Path: filepath.Join(t.TempDir(), "nope.yaml"), EnvFile: noDotenv(t), Getenv: env(nil)}.Resolve(Overrides{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveBadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "analysis: [\n")
	_, err := Loader{Path: path, EnvFile: noDotenv(t), Getenv: env(nil)}.Resolve(Overrides{})
	require.Error(t, err)
}

func TestSeedFlagSelectsPCG(t *testing.T) {
	t.Chdir(t.TempDir())
	seed := uint64(99)
	s, err := Loader{EnvFile: noDotenv(t), Getenv: env(nil)}.Resolve(Overrides{Seed: &seed})
	require.NoError(t, err)
	assert.Equal(t, RNGPCG, s.RNG)
	assert.Equal(t, uint64(99), s.Seed)

	entropy := RNGEntropy
	_, err = Loader{EnvFile: noDotenv(t), Getenv: env(nil)}.Resolve(Overrides{Seed: &seed, RNG: &entropy})
	require.ErrorIs(t, err, ErrInvalid)
}

func TestEnvParseErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	vars := map[string]string{"FAIRDICE_TRIALS": "many", "FAIRDICE_Z": "wide"}
	_, err := Loader{EnvFile: noDotenv(t), Getenv: env(vars)}.Resolve(Overrides{})
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "FAIRDICE_TRIALS must be an integer; FAIRDICE_Z must be a number")
}

func TestDotenvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	envFile := writeFile(t, t.TempDir(), ".env", "FAIRDICE_TRIALS=64\nFAIRDICE_WORKERS=2\n")
	vars := map[string]string{"FAIRDICE_TRIALS": "128"}
	s, err := Loader{EnvFile: envFile, Getenv: env(vars)}.Resolve(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 128, s.Trials, "environment wins over .env")
	assert.Equal(t, 2, s.Workers, ".env fills the gaps")
	_, set := os.LookupEnv("FAIRDICE_WORKERS")
	assert.False(t, set, ".env must not leak into the process environment")
}

func TestDotenvDefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "FAIRDICE_Z=1.96\n")
	t.Chdir(dir)
	s, err := Loader{Getenv: env(nil)}.Resolve(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 1.96, s.Z)
}

func TestSeedFromAnyLayerSelectsPCG(t *testing.T) {
	t.Chdir(t.TempDir())

	path := writeFile(t, t.TempDir(), "fd.yaml", "rng:\n  seed: 5\n")
	s, err := Loader{Path: path, EnvFile: noDotenv(t), Getenv: env(nil)}.Resolve(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, RNGPCG, s.RNG)
	assert.Equal(t, uint64(5), s.Seed)

	s, err = Loader{EnvFile: noDotenv(t), Getenv: env(map[string]string{"FAIRDICE_SEED": "6"})}.Resolve(Overrides{})
	require.NoError(t, err)
	assert.Equal(t, RNGPCG, s.RNG)
	assert.Equal(t, uint64(6), s.Seed)
	assert.True(t, s.SeedSet)

	vars := map[string]string{"FAIRDICE_SEED": "6", "FAIRDICE_RNG": RNGEntropy}
	_, err = Loader{EnvFile: noDotenv(t), Getenv: env(vars)}.Resolve(Overrides{})
	require.ErrorIs(t, err, ErrInvalid)
}

func TestValidateRawCollectsErrors(t *testing.T) {
	cfg := Defaults()
	zero, neg, badZ := 0, -1, -2.0
	cfg.Analysis.Trials = &zero
	cfg.Analysis.Workers = &neg
	cfg.Analysis.Z = &badZ
	cfg.RNG.Kind = "lava"
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	err := ValidateRaw(cfg)
	require.ErrorIs(t, err, ErrInvalid)
	for _, want := range []string{
		"analysis.trials must be >= 1",
		"analysis.workers must be >= 0",
		"analysis.z must be a positive number",
		`rng.kind must be one of: entropy, pcg (got "lava")`,
		"log.level must be one of: debug, info, warn, error",
		"log.format must be one of: logfmt, json",
	} {
		assert.Contains(t, err.Error(), want)
	}
	require.NoError(t, ValidateRaw(Defaults()))
}
