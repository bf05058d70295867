package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/xtding233/fairdice/internal/config"
	"github.com/xtding233/fairdice/internal/dice"
	"github.com/xtding233/fairdice/internal/fairness"
	"github.com/xtding233/fairdice/internal/logging"
	"github.com/xtding233/fairdice/internal/rolls"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

// usageError marks a malformed command line.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	logger         log.Logger
	getenv         func(string) string

	configPath string
	inputPath  string
	verbose    bool
	trials     int
	workers    int
	z          float64
	rng        string
	seed       uint64
	logLevel   string
	logFormat  string
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	// constant level and format; New only fails on unknown ones
	logger, _ := logging.New(stderr, "info", logging.FormatLogfmt)
	return &app{stdin: stdin, stdout: stdout, stderr: stderr, logger: logger}
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fairdice [flags] <sides> < rolls.txt",
		Short: "Test recorded die rolls for fairness",
		Long: `Reads one roll per line (faces 1..sides) and runs three tests against a fair die:

  ECDF       cumulative deviation, calibrated by Monte Carlo simulation
  ChiSq      Pearson chi-squared goodness of fit
  ConfInt99  per-face 99% Wald confidence intervals

The number of valid rolls must be a multiple of sides.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError{fmt.Errorf("expected exactly one argument <sides>, got %d", len(args))}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0])
		},
	}
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		if n, ok := negativeSides(err); ok {
			return fairness.ValidateSides(n)
		}
		return usageError{err}
	})

	f := cmd.Flags()
	f.StringVar(&a.configPath, "config", "", "YAML config file (default $FAIRDICE_CONFIG or ./"+config.DefaultPath+")")
	f.StringVarP(&a.inputPath, "input", "i", "", "read rolls from file instead of stdin")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "print the statistics behind each p-value")
	f.IntVar(&a.trials, "trials", fairness.DefaultTrials, "Monte Carlo trials for the ECDF test")
	f.IntVar(&a.workers, "workers", 0, "simulation workers (0 = one per CPU)")
	f.Float64Var(&a.z, "z", fairness.DefaultZ, "z-score for the confidence interval test")
	f.StringVar(&a.rng, "rng", config.RNGEntropy, "random source: entropy or pcg")
	f.Uint64Var(&a.seed, "seed", 0, "seed for the pcg source (implies --rng pcg)")
	f.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.StringVar(&a.logFormat, "log-format", logging.FormatLogfmt, "log format: logfmt or json")
	return cmd
}

// negativeSides recognises a negative <sides> argument, which the flag
// parser sees as an unknown shorthand such as "-3".
func negativeSides(err error) (int, bool) {
	msg := err.Error()
	i := strings.LastIndex(msg, " in -")
	if !strings.HasPrefix(msg, "unknown shorthand flag") || i < 0 {
		return 0, false
	}
	n, convErr := strconv.Atoi(msg[i+len(" in "):])
	return n, convErr == nil
}

// overrides collects the flags the user actually set.
func (a *app) overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	f := cmd.Flags()
	if f.Changed("trials") {
		o.Trials = &a.trials
	}
	if f.Changed("workers") {
		o.Workers = &a.workers
	}
	if f.Changed("z") {
		o.Z = &a.z
	}
	if f.Changed("rng") {
		o.RNG = &a.rng
	}
	if f.Changed("seed") {
		o.Seed = &a.seed
	}
	if f.Changed("log-level") {
		o.LogLevel = &a.logLevel
	}
	if f.Changed("log-format") {
		o.LogFormat = &a.logFormat
	}
	return o
}

func sourceFactory(s config.Settings) fairness.SourceFactory {
	if s.RNG != config.RNGPCG {
		return func(int) dice.Source { return dice.DefaultSource() }
	}
	seed := s.Seed
	if !s.SeedSet {
		seed = rand.Uint64()
	}
	return func(worker int) dice.Source { return dice.NewSeededSource(seed, uint64(worker)) }
}

func (a *app) run(cmd *cobra.Command, sidesArg string) error {
	sides, err := strconv.Atoi(sidesArg)
	if err != nil {
		return fmt.Errorf("invalid number of sides %q", sidesArg)
	}
	if err := fairness.ValidateSides(sides); err != nil {
		return err
	}

	settings, err := config.Loader{Path: a.configPath, Getenv: a.getenv}.Resolve(a.overrides(cmd))
	if err != nil {
		return err
	}
	logger, err := logging.New(a.stderr, settings.LogLevel, settings.LogFormat)
	if err != nil {
		return err
	}
	a.logger = log.With(logger, "run", uuid.NewString())
	level.Debug(a.logger).Log("msg", "settings", "config", settings.Source, "trials", settings.Trials,
		"workers", settings.Workers, "z", settings.Z, "rng", settings.RNG)

	in := a.stdin
	if a.inputPath != "" {
		file, err := os.Open(a.inputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}
	h, st, err := rolls.Reader{Sides: sides, Logger: a.logger}.Read(in)
	if err != nil {
		return err
	}
	level.Debug(a.logger).Log("msg", "rolls read", "accepted", st.Accepted, "rejected", st.Rejected, "blank", st.Blank)

	report, err := fairness.Analyzer{
		Trials:    settings.Trials,
		Workers:   settings.Workers,
		Z:         settings.Z,
		NewSource: sourceFactory(settings),
		Logger:    a.logger,
	}.Analyze(cmd.Context(), h)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if _, err := report.WriteTo(out); err != nil {
		return err
	}
	if a.verbose {
		return report.WriteDetails(out)
	}
	return nil
}

// execute runs the command line and returns the process exit status.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	a := newApp(stdin, stdout, stderr)
	a.getenv = getenv
	cmd := a.command()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "Error: %v\nUsage: %s\n", err, cmd.UseLine())
		return exitUsage
	}
	level.Error(a.logger).Log("msg", "fatal", "err", err)
	return exitFatal
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, nil)
	stop()
	os.Exit(code)
}
