// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// getEnvString returns the value of the environment variable with the given key
// (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the CPUUTIL_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// Numeric overrides
	{"COUNT", []string{"count", "n"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Count = parsed
		}
	}},
	{"PRECISION", []string{"precision"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Precision = parsed
		}
	}},
	{"MAX_INVALID_STREAK", []string{"max-invalid-streak"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.MaxInvalidStreak = parsed
		}
	}},
	{"MAX_SOURCE_FAILURES", []string{"max-source-failures"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.MaxSourceFailures = parsed
		}
	}},

	// Duration overrides
	{"INTERVAL", []string{"interval", "i"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Interval = parsed
		}
	}},
	{"DURATION", []string{"duration"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Duration = parsed
		}
	}},

	// String overrides
	{"SOURCE", []string{"source"}, func(c *AppConfig, v string) {
		c.Source = v
	}},
	{"PROC_ROOT", []string{"proc-root"}, func(c *AppConfig, v string) {
		c.ProcRoot = v
	}},
	{"FORMAT", []string{"format"}, func(c *AppConfig, v string) {
		c.Format = v
	}},
	{"THEME", []string{"theme"}, func(c *AppConfig, v string) {
		c.Theme = v
	}},
	{"METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig, v string) {
		c.MetricsAddr = v
	}},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) {
		c.LogLevel = v
	}},
	{"LOG_FORMAT", []string{"log-format"}, func(c *AppConfig, v string) {
		c.LogFormat = v
	}},

	// Boolean overrides
	{"TIMESTAMPS", []string{"timestamps"}, func(c *AppConfig, v string) {
		c.Timestamps = parseBoolEnv(v, c.Timestamps)
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) {
		c.Quiet = parseBoolEnv(v, c.Quiet)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
	{"SKIP_DEGENERATE", []string{"skip-degenerate"}, func(c *AppConfig, v string) {
		c.SkipDegenerate = parseBoolEnv(v, c.SkipDegenerate)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > File > Defaults.
//
// Supported environment variables (all prefixed with CPUUTIL_):
//   - INTERVAL, COUNT, DURATION, SOURCE, PROC_ROOT, FORMAT, PRECISION,
//     TIMESTAMPS, QUIET, NO_COLOR, THEME, SKIP_DEGENERATE, MAX_INVALID_STREAK,
//     MAX_SOURCE_FAILURES, METRICS_ADDR, LOG_LEVEL,
//     LOG_FORMAT, CONFIG
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
