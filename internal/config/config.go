// Package config defines the application configuration and its resolution
// from command-line flags, CPUUTIL_* environment variables, an optional YAML
// file and built-in defaults, in that order of priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/cpuutil/internal/errors"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "CPUUTIL_"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Log formats. An empty LogFormat follows Format: JSON logs with JSON output,
// console logs otherwise.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
	LogFormatPlain   = "plain"
)

// Themes lists the accepted --theme names.
var Themes = []string{"dark", "light", "orange", "none"}

// Defaults.
const (
	DefaultInterval          = 250 * time.Millisecond
	DefaultPrecision         = 2
	DefaultMaxInvalidStreak  = 3
	DefaultMaxSourceFailures = 5
	DefaultSource            = "auto"
	DefaultProcRoot          = "/proc"
	DefaultLogLevel          = "info"
	DefaultTheme             = "dark"
	MaxPrecision             = 6
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Interval is the time between two counter readings.
	Interval time.Duration
	// Count stops the run after this many presented samples (0 = unbounded).
	Count int
	// Duration stops the run after this wall time (0 = unbounded).
	Duration time.Duration
	// Source selects the counter source (auto, gopsutil, procfs, windows).
	Source string
	// ProcRoot is the procfs mount point used by the procfs source.
	ProcRoot string
	// Format selects text or JSON line output.
	Format string
	// Precision is the number of decimals printed for percentages.
	Precision int
	// Timestamps prefixes each text line with an RFC 3339 timestamp.
	Timestamps bool
	// Quiet suppresses the header, spinner and summary.
	Quiet bool
	// NoColor disables colored output.
	NoColor bool
	// Theme selects the color theme (dark, light, orange, none).
	Theme string
	// SkipDegenerate drops zero-length intervals instead of printing zeros.
	SkipDegenerate bool
	// MaxInvalidStreak is the number of consecutive invalid samples after
	// which the baseline is re-established.
	MaxInvalidStreak int
	// MaxSourceFailures aborts the run after this many consecutive counter
	// source failures (0 = never abort).
	MaxSourceFailures int
	// MetricsAddr enables the Prometheus endpoint on this address when set.
	MetricsAddr string
	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string
	// LogFormat selects console, json or plain log lines; empty follows Format.
	LogFormat string
	// ConfigFile is the optional YAML configuration file.
	ConfigFile string
	// Completion prints a shell completion script for this shell and exits.
	Completion string
}

// Default returns the built-in configuration.
func Default() AppConfig {
	return AppConfig{
		Interval:          DefaultInterval,
		Source:            DefaultSource,
		ProcRoot:          DefaultProcRoot,
		Format:            FormatText,
		Precision:         DefaultPrecision,
		Theme:             DefaultTheme,
		MaxInvalidStreak:  DefaultMaxInvalidStreak,
		MaxSourceFailures: DefaultMaxSourceFailures,
		LogLevel:          DefaultLogLevel,
	}
}

// ParseConfig parses args into an AppConfig, then layers the YAML file and
// environment overrides beneath any explicitly set flags, and validates the
// result.
//
// Parameters:
//   - programName: The name used in usage output.
//   - args: The command-line arguments, without the program name.
//   - errWriter: Destination for usage and flag errors.
//   - sources: The counter source names accepted by --source.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp when help was requested, or a ConfigError.
func ParseConfig(programName string, args []string, errWriter io.Writer, sources []string) (AppConfig, error) {
	cfg := Default()
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "Time between two counter readings.")
	fs.DurationVar(&cfg.Interval, "i", cfg.Interval, "Shorthand for --interval.")
	fs.IntVar(&cfg.Count, "count", cfg.Count, "Stop after this many samples (0 = run until interrupted).")
	fs.IntVar(&cfg.Count, "n", cfg.Count, "Shorthand for --count.")
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "Stop after this much time (0 = run until interrupted).")
	fs.StringVar(&cfg.Source, "source", cfg.Source, fmt.Sprintf("Counter source (%s).", strings.Join(sources, ", ")))
	fs.StringVar(&cfg.ProcRoot, "proc-root", cfg.ProcRoot, "procfs mount point for the procfs source.")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format: text or json.")
	fs.IntVar(&cfg.Precision, "precision", cfg.Precision, "Decimals printed for percentages.")
	fs.BoolVar(&cfg.Timestamps, "timestamps", cfg.Timestamps, "Prefix each line with a timestamp.")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Print sample lines only.")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output.")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Color theme: dark, light, orange or none.")
	fs.BoolVar(&cfg.SkipDegenerate, "skip-degenerate", cfg.SkipDegenerate, "Do not print zero-length intervals.")
	fs.IntVar(&cfg.MaxInvalidStreak, "max-invalid-streak", cfg.MaxInvalidStreak, "Re-baseline after this many consecutive invalid samples.")
	fs.IntVar(&cfg.MaxSourceFailures, "max-source-failures", cfg.MaxSourceFailures, "Abort after this many consecutive source failures (0 = never).")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address (e.g. :9100).")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error.")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: console, json or plain (default follows --format).")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Optional YAML configuration file.")
	fs.StringVar(&cfg.Completion, "completion", cfg.Completion, "Print a completion script for bash, zsh, fish or powershell and exit.")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags]\n\n", programName)
		fmt.Fprintf(errWriter, "Samples system CPU time counters and prints user, kernel and idle utilization.\n\n")
		fs.PrintDefaults()
		fmt.Fprintf(errWriter, "\nEnvironment variables %s<FLAG> (e.g. %sINTERVAL) override unset flags.\n", EnvPrefix, EnvPrefix)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if !isFlagSet(fs, "config") {
		cfg.ConfigFile = getEnvString("CONFIG", cfg.ConfigFile)
	}
	if cfg.ConfigFile != "" {
		if err := applyFile(&cfg, cfg.ConfigFile, fs); err != nil {
			return AppConfig{}, err
		}
	}
	applyEnvOverrides(&cfg, fs)

	cfg.Source = strings.ToLower(cfg.Source)
	cfg.Format = strings.ToLower(cfg.Format)
	cfg.Theme = strings.ToLower(cfg.Theme)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if err := cfg.Validate(sources); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
//
// Parameters:
//   - sources: The accepted counter source names; nil skips the check.
//
// Returns:
//   - error: A ConfigError describing the first invalid value, or nil.
func (c AppConfig) Validate(sources []string) error {
	switch {
	case c.Interval <= 0:
		return apperrors.NewConfigError("--interval must be positive, got %s", c.Interval)
	case c.Count < 0:
		return apperrors.NewConfigError("--count must not be negative, got %d", c.Count)
	case c.Duration < 0:
		return apperrors.NewConfigError("--duration must not be negative, got %s", c.Duration)
	case c.Precision < 0 || c.Precision > MaxPrecision:
		return apperrors.NewConfigError("--precision must be between 0 and %d, got %d", MaxPrecision, c.Precision)
	case c.Format != FormatText && c.Format != FormatJSON:
		return apperrors.NewConfigError("--format must be %q or %q, got %q", FormatText, FormatJSON, c.Format)
	case c.MaxInvalidStreak < 1:
		return apperrors.NewConfigError("--max-invalid-streak must be at least 1, got %d", c.MaxInvalidStreak)
	case c.MaxSourceFailures < 0:
		return apperrors.NewConfigError("--max-source-failures must not be negative, got %d", c.MaxSourceFailures)
	}
	if sources != nil && !contains(sources, c.Source) {
		return apperrors.NewConfigError("--source %q is not available (available: %s)", c.Source, strings.Join(sources, ", "))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.NewConfigError("--log-level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if !contains(Themes, c.Theme) {
		return apperrors.NewConfigError("--theme must be dark, light, orange or none, got %q", c.Theme)
	}
	switch c.LogFormat {
	case "", LogFormatConsole, LogFormatJSON, LogFormatPlain:
	default:
		return apperrors.NewConfigError("--log-format must be console, json or plain, got %q", c.LogFormat)
	}
	switch c.Completion {
	case "", "bash", "zsh", "fish", "powershell", "ps":
	default:
		return apperrors.NewConfigError("--completion must be bash, zsh, fish or powershell, got %q", c.Completion)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
