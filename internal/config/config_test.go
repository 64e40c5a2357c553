package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/agbru/cpuutil/internal/errors"
)

var testSources = []string{"auto", "gopsutil", "procfs"}

func parse(t *testing.T, args ...string) (AppConfig, error) {
	t.Helper()
	return ParseConfig("cpuutil", args, io.Discard, testSources)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cpuutil.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("ParseConfig() = %+v, want defaults %+v", cfg, Default())
	}
}

func TestParseConfig_Flags(t *testing.T) {
	cfg, err := parse(t, "-i", "1s", "-n", "10", "--source", "PROCFS", "--format", "json",
		"--precision", "3", "--timestamps", "-q", "--metrics-addr", ":9100", "--skip-degenerate")
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Interval != time.Second {
		t.Errorf("Interval = %s, want 1s", cfg.Interval)
	}
	if cfg.Count != 10 {
		t.Errorf("Count = %d, want 10", cfg.Count)
	}
	if cfg.Source != "procfs" {
		t.Errorf("Source = %q, want procfs", cfg.Source)
	}
	if cfg.Format != FormatJSON || cfg.Precision != 3 || !cfg.Timestamps || !cfg.Quiet || !cfg.SkipDegenerate {
		t.Errorf("unexpected output options: %+v", cfg)
	}
	if cfg.MetricsAddr != ":9100" {
		t.Errorf("MetricsAddr = %q, want :9100", cfg.MetricsAddr)
	}
}

func TestParseConfig_ThemeAndLogFormat(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		env           map[string]string
		wantTheme     string
		wantLogFormat string
	}{
		{"defaults", nil, nil, DefaultTheme, ""},
		{"flags are lowercased", []string{"--theme", "Orange", "--log-format", "PLAIN"}, nil, "orange", LogFormatPlain},
		{"env", nil, map[string]string{"CPUUTIL_THEME": "none", "CPUUTIL_LOG_FORMAT": "json"}, "none", LogFormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := parse(t, tt.args...)
			if err != nil {
				t.Fatalf("ParseConfig() error = %v", err)
			}
			if cfg.Theme != tt.wantTheme {
				t.Errorf("Theme = %q, want %q", cfg.Theme, tt.wantTheme)
			}
			if cfg.LogFormat != tt.wantLogFormat {
				t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, tt.wantLogFormat)
			}
		})
	}
}

func TestParseConfig_FileThemeRejected(t *testing.T) {
	path := writeFile(t, "theme: neon\nlog_format: console\n")
	_, err := parse(t, "--config", path)
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("ParseConfig() error = %v, want ConfigError", err)
	}
	if want := `--theme must be dark, light, orange or none, got "neon"`; cfgErr.Error() != want {
		t.Errorf("error = %q, want %q", cfgErr.Error(), want)
	}
}

func TestParseConfig_Help(t *testing.T) {
	_, err := parse(t, "--help")
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("ParseConfig(--help) error = %v, want flag.ErrHelp", err)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero interval", []string{"--interval", "0s"}},
		{"negative count", []string{"--count", "-1"}},
		{"negative duration", []string{"--duration", "-1s"}},
		{"precision too high", []string{"--precision", "9"}},
		{"unknown format", []string{"--format", "xml"}},
		{"unknown source", []string{"--source", "wmi"}},
		{"streak below one", []string{"--max-invalid-streak", "0"}},
		{"negative failures", []string{"--max-source-failures", "-2"}},
		{"bad log level", []string{"--log-level", "trace"}},
		{"positional argument", []string{"extra"}},
		{"unknown completion shell", []string{"--completion", "tcsh"}},
		{"unknown flag", []string{"--algo", "fast"}},
		{"malformed duration", []string{"--interval", "soon"}},
		{"unknown theme", []string{"--theme", "solarized"}},
		{"unknown log format", []string{"--log-format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.args...)
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("ParseConfig(%v) error = %v, want ConfigError", tt.args, err)
			}
		})
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CPUUTIL_INTERVAL", "2s")
	t.Setenv("CPUUTIL_COUNT", "4")
	t.Setenv("CPUUTIL_QUIET", "yes")
	t.Setenv("CPUUTIL_FORMAT", "json")

	cfg, err := parse(t, "--count", "7")
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Interval != 2*time.Second {
		t.Errorf("Interval = %s, want 2s from env", cfg.Interval)
	}
	if cfg.Count != 7 {
		t.Errorf("Count = %d, want 7 (flag beats env)", cfg.Count)
	}
	if !cfg.Quiet || cfg.Format != FormatJSON {
		t.Errorf("env booleans/strings not applied: %+v", cfg)
	}
}

func TestParseConfig_InvalidEnvIgnored(t *testing.T) {
	t.Setenv("CPUUTIL_PRECISION", "many")
	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Precision != DefaultPrecision {
		t.Errorf("Precision = %d, want default %d", cfg.Precision, DefaultPrecision)
	}
}

func TestParseConfig_FilePrecedence(t *testing.T) {
	path := writeFile(t, "interval: 500ms\ncount: 3\nformat: json\nprecision: 1\ntimestamps: true\n")
	t.Setenv("CPUUTIL_PRECISION", "4")

	cfg, err := parse(t, "--config", path, "--count", "9")
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Interval != 500*time.Millisecond {
		t.Errorf("Interval = %s, want 500ms from file", cfg.Interval)
	}
	if cfg.Count != 9 {
		t.Errorf("Count = %d, want 9 (flag beats file)", cfg.Count)
	}
	if cfg.Precision != 4 {
		t.Errorf("Precision = %d, want 4 (env beats file)", cfg.Precision)
	}
	if cfg.Format != FormatJSON || !cfg.Timestamps {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestParseConfig_FileFromEnv(t *testing.T) {
	path := writeFile(t, "source: gopsutil\n")
	t.Setenv("CPUUTIL_CONFIG", path)

	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Source != "gopsutil" || cfg.ConfigFile != path {
		t.Errorf("config file from env not applied: %+v", cfg)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "intervall: 1s\n"},
		{"bad duration", "interval: soon\n"},
		{"bad type", "count: lots\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.content), Default())
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("LoadFile() error = %v, want ConfigError", err)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), Default())
		if err == nil {
			t.Error("LoadFile() on a missing file should fail")
		}
	})

	t.Run("empty file keeps base", func(t *testing.T) {
		cfg, err := LoadFile(writeFile(t, ""), Default())
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if cfg != Default() {
			t.Errorf("LoadFile(empty) = %+v, want defaults", cfg)
		}
	})
}
