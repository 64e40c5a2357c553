package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/cpuutil/internal/errors"
)

// fileConfig mirrors AppConfig for YAML files. Pointer fields distinguish
// "absent" from zero values.
type fileConfig struct {
	Interval          *string `yaml:"interval"`
	Count             *int    `yaml:"count"`
	Duration          *string `yaml:"duration"`
	Source            *string `yaml:"source"`
	ProcRoot          *string `yaml:"proc_root"`
	Format            *string `yaml:"format"`
	Precision         *int    `yaml:"precision"`
	Timestamps        *bool   `yaml:"timestamps"`
	Quiet             *bool   `yaml:"quiet"`
	NoColor           *bool   `yaml:"no_color"`
	Theme             *string `yaml:"theme"`
	SkipDegenerate    *bool   `yaml:"skip_degenerate"`
	MaxInvalidStreak  *int    `yaml:"max_invalid_streak"`
	MaxSourceFailures *int    `yaml:"max_source_failures"`
	MetricsAddr       *string `yaml:"metrics_addr"`
	LogLevel          *string `yaml:"log_level"`
	LogFormat         *string `yaml:"log_format"`
}

// LoadFile reads a YAML configuration file on top of base. Unknown keys are
// rejected.
func LoadFile(path string, base AppConfig) (AppConfig, error) {
	cfg := base
	if err := applyFile(&cfg, path, nil); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// applyFile decodes path and copies every present key into cfg unless the
// matching flag was set explicitly on fs (nil fs means no flags were set).
func applyFile(cfg *AppConfig, path string, fs *flag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfigError("reading config file: %v", err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.NewConfigError("parsing config file %s: %v", path, err)
	}

	unset := func(names ...string) bool {
		return fs == nil || !isFlagSetAny(fs, names...)
	}

	if fc.Interval != nil && unset("interval", "i") {
		d, err := time.ParseDuration(*fc.Interval)
		if err != nil {
			return apperrors.NewConfigError("config file %s: interval: %v", path, err)
		}
		cfg.Interval = d
	}
	if fc.Duration != nil && unset("duration") {
		d, err := time.ParseDuration(*fc.Duration)
		if err != nil {
			return apperrors.NewConfigError("config file %s: duration: %v", path, err)
		}
		cfg.Duration = d
	}
	setInt(&cfg.Count, fc.Count, unset("count", "n"))
	setInt(&cfg.Precision, fc.Precision, unset("precision"))
	setInt(&cfg.MaxInvalidStreak, fc.MaxInvalidStreak, unset("max-invalid-streak"))
	setInt(&cfg.MaxSourceFailures, fc.MaxSourceFailures, unset("max-source-failures"))
	setString(&cfg.Source, fc.Source, unset("source"))
	setString(&cfg.ProcRoot, fc.ProcRoot, unset("proc-root"))
	setString(&cfg.Format, fc.Format, unset("format"))
	setString(&cfg.Theme, fc.Theme, unset("theme"))
	setString(&cfg.MetricsAddr, fc.MetricsAddr, unset("metrics-addr"))
	setString(&cfg.LogLevel, fc.LogLevel, unset("log-level"))
	setString(&cfg.LogFormat, fc.LogFormat, unset("log-format"))
	setBool(&cfg.Timestamps, fc.Timestamps, unset("timestamps"))
	setBool(&cfg.Quiet, fc.Quiet, unset("quiet", "q"))
	setBool(&cfg.NoColor, fc.NoColor, unset("no-color"))
	setBool(&cfg.SkipDegenerate, fc.SkipDegenerate, unset("skip-degenerate"))
	return nil
}

func setInt(dst *int, v *int, ok bool) {
	if v != nil && ok {
		*dst = *v
	}
}

func setString(dst *string, v *string, ok bool) {
	if v != nil && ok {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool, ok bool) {
	if v != nil && ok {
		*dst = *v
	}
}
