package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/agbru/cpuutil/internal/orchestration"
	"github.com/agbru/cpuutil/internal/sampler"
	"github.com/agbru/cpuutil/internal/ui"
)

var (
	plain = ui.StylesFor(ui.NoColorTheme)
	mixed = sampler.UtilizationResult{UserPercent: 24.2424, KernelPercent: 15.1515, IdlePercent: 30.3030, TotalUsedPercent: 39.3939, KernelInclusivePercent: 45.4545}
	stamp = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
)

func TestFormatTextLine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		ts        time.Time
		r         sampler.UtilizationResult
		precision int
		want      string
	}{
		{
			name:      "mixed interval",
			r:         mixed,
			precision: 2,
			want:      "User: 24.24% Kernel: 15.15% Idle: 30.30% Used: 39.39%",
		},
		{
			name:      "timestamp prefix",
			ts:        stamp,
			r:         mixed,
			precision: 1,
			want:      "2026-10-15T09:30:00Z User: 24.2% Kernel: 15.2% Idle: 30.3% Used: 39.4%",
		},
		{
			name:      "degenerate",
			r:         sampler.UtilizationResult{Degenerate: true},
			precision: 0,
			want:      "User: 0% Kernel: 0% Idle: 0% Used: 0% (no ticks elapsed)",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatTextLine(tt.ts, tt.r, tt.precision, plain); got != tt.want {
				t.Errorf("FormatTextLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatJSONLine(t *testing.T) {
	t.Parallel()
	line, err := FormatJSONLine(stamp, mixed)
	if err != nil {
		t.Fatalf("FormatJSONLine() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("line is not valid JSON: %v (%s)", err, line)
	}
	for _, key := range []string{"timestamp", "cpuUserPercent", "cpuKernelPercent", "cpuIdlePercent", "cpuPercent"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q in %s", key, line)
		}
	}
	if _, ok := got["degenerate"]; ok {
		t.Errorf("degenerate key should be omitted for a normal sample: %s", line)
	}
	if got["timestamp"] != "2026-10-15T09:30:00Z" {
		t.Errorf("timestamp = %v", got["timestamp"])
	}
	if strings.Contains(line, "\n") {
		t.Error("JSON line must not contain a newline")
	}
}

func TestDisplaySample(t *testing.T) {
	t.Parallel()
	s := orchestration.Sample{Seq: 1, Time: stamp, Result: mixed}

	t.Run("text without timestamps", func(t *testing.T) {
		var buf bytes.Buffer
		if err := DisplaySample(&buf, s, OutputConfig{Precision: 2}, plain); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "User: 24.24% Kernel: 15.15% Idle: 30.30% Used: 39.39%\n" {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := DisplaySample(&buf, s, OutputConfig{JSON: true}, plain); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(buf.String(), `{"timestamp":"2026-10-15T09:30:00Z"`) || !strings.HasSuffix(buf.String(), "}\n") {
			t.Errorf("output = %q", buf.String())
		}
	})
}

func TestDisplaySummary(t *testing.T) {
	defer ui.SetCurrentTheme(ui.GetCurrentTheme())
	ui.SetCurrentTheme(ui.NoColorTheme)

	var buf bytes.Buffer
	DisplaySummary(&buf, orchestration.Summary{
		Samples:        4,
		Measured:       3,
		Invalid:        1,
		Degenerate:     1,
		SourceFailures: 2,
		Elapsed:        1500 * time.Millisecond,
		MeanUser:       24.2424,
		MeanKernel:     15.1515,
		MeanIdle:       30.3030,
		MeanUsed:       39.3939,
	}, 2)

	out := buf.String()
	for _, want := range []string{
		"--- Summary ---",
		"Samples:          4",
		"Elapsed:          1.5s",
		"Invalid samples:  1",
		"Degenerate:       1",
		"Source failures:  2",
		"Mean:             User: 24.24% Kernel: 15.15% Idle: 30.30% Used: 39.39%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestDisplaySummary_ThemeEscapes(t *testing.T) {
	defer ui.SetCurrentTheme(ui.GetCurrentTheme())
	th := ui.DarkTheme
	ui.SetCurrentTheme(th)

	var buf bytes.Buffer
	DisplaySummary(&buf, orchestration.Summary{Samples: 2, Invalid: 1, SourceFailures: 1}, 2)

	out := buf.String()
	for _, want := range []string{
		th.Bold + "--- Summary ---" + th.Reset,
		th.Warning + "Invalid samples:  1",
		th.Error + "Source failures:  1" + th.Reset,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%q", want, out)
		}
	}
}

func TestDisplaySummary_NoMeasuredSamples(t *testing.T) {
	defer ui.SetCurrentTheme(ui.GetCurrentTheme())
	ui.SetCurrentTheme(ui.NoColorTheme)

	var buf bytes.Buffer
	DisplaySummary(&buf, orchestration.Summary{}, 2)
	if strings.Contains(buf.String(), "Mean:") {
		t.Errorf("mean line printed without samples:\n%s", buf.String())
	}
}
