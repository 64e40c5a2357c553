// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplaySample], [DisplaySummary].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatTextLine], [FormatJSONLine].

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/cpuutil/internal/format"
	"github.com/agbru/cpuutil/internal/orchestration"
	"github.com/agbru/cpuutil/internal/sampler"
	"github.com/agbru/cpuutil/internal/ui"
)

// HeaderLine is printed once before the first sample in text mode.
const HeaderLine = "| User | Kernel | Idle |"

// OutputConfig holds configuration for sample output.
type OutputConfig struct {
	// JSON selects JSON lines instead of text.
	JSON bool
	// Precision is the number of decimals for percentages.
	Precision int
	// Timestamps prefixes text lines with an RFC 3339 timestamp.
	Timestamps bool
	// Quiet suppresses the header and the summary.
	Quiet bool
}

// JSONLine is the JSON representation of one sample.
type JSONLine struct {
	Timestamp     time.Time `json:"timestamp"`
	UserPercent   float64   `json:"cpuUserPercent"`
	KernelPercent float64   `json:"cpuKernelPercent"`
	IdlePercent   float64   `json:"cpuIdlePercent"`
	UsedPercent   float64   `json:"cpuPercent"`
	Degenerate    bool      `json:"degenerate,omitempty"`
}

// NewJSONLine converts a result into its JSON representation.
func NewJSONLine(ts time.Time, r sampler.UtilizationResult) JSONLine {
	return JSONLine{
		Timestamp:     ts.UTC(),
		UserPercent:   r.UserPercent,
		KernelPercent: r.KernelPercent,
		IdlePercent:   r.IdlePercent,
		UsedPercent:   r.TotalUsedPercent,
		Degenerate:    r.Degenerate,
	}
}

// FormatJSONLine encodes one sample as a single JSON object without a
// trailing newline.
func FormatJSONLine(ts time.Time, r sampler.UtilizationResult) (string, error) {
	b, err := json.Marshal(NewJSONLine(ts, r))
	if err != nil {
		return "", fmt.Errorf("encoding sample: %w", err)
	}
	return string(b), nil
}

// FormatTextLine renders one sample as
// "User: 24.24% Kernel: 15.15% Idle: 30.30% Used: 39.39%", styled with s.
// A zero ts omits the timestamp prefix.
//
// Parameters:
//   - ts: The sample time, or the zero time for no prefix.
//   - r: The utilization result.
//   - precision: Decimals per percentage.
//   - s: The styles to apply; ui.StylesFor(ui.NoColorTheme) yields plain text.
//
// Returns:
//   - string: The formatted line without a trailing newline.
func FormatTextLine(ts time.Time, r sampler.UtilizationResult, precision int, s ui.Styles) string {
	var b strings.Builder
	if !ts.IsZero() {
		b.WriteString(ts.Format(time.RFC3339))
		b.WriteByte(' ')
	}
	field := func(label string, v float64, style func(...string) string) {
		b.WriteString(s.Label.Render(label + ":"))
		b.WriteByte(' ')
		b.WriteString(style(format.FormatPercent(v, precision)))
	}
	field("User", r.UserPercent, s.User.Render)
	b.WriteByte(' ')
	field("Kernel", r.KernelPercent, s.Kernel.Render)
	b.WriteByte(' ')
	field("Idle", r.IdlePercent, s.Idle.Render)
	b.WriteByte(' ')
	field("Used", r.TotalUsedPercent, s.Used.Render)
	if r.Degenerate {
		b.WriteString(" (no ticks elapsed)")
	}
	return b.String()
}

// DisplaySample writes one sample line to out according to cfg.
func DisplaySample(out io.Writer, smp orchestration.Sample, cfg OutputConfig, s ui.Styles) error {
	if cfg.JSON {
		line, err := FormatJSONLine(smp.Time, smp.Result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, line)
		return err
	}
	var ts time.Time
	if cfg.Timestamps {
		ts = smp.Time
	}
	_, err := fmt.Fprintln(out, FormatTextLine(ts, smp.Result, cfg.Precision, s))
	return err
}

// DisplaySummary writes the end-of-run block.
func DisplaySummary(out io.Writer, sum orchestration.Summary, precision int) {
	th := ui.GetCurrentTheme()
	fmt.Fprintf(out, "\n%s--- Summary ---%s\n", th.Bold, th.Reset)
	fmt.Fprintf(out, "Samples:          %d\n", sum.Samples)
	fmt.Fprintf(out, "Elapsed:          %s\n", format.FormatExecutionDuration(sum.Elapsed))
	if sum.Invalid > 0 || sum.Rebaselines > 0 {
		fmt.Fprintf(out, "%sInvalid samples:  %d (re-baselined %d times)%s\n", th.Warning, sum.Invalid, sum.Rebaselines, th.Reset)
	}
	if sum.Degenerate > 0 {
		fmt.Fprintf(out, "Degenerate:       %d\n", sum.Degenerate)
	}
	if sum.SourceFailures > 0 {
		fmt.Fprintf(out, "%sSource failures:  %d%s\n", th.Error, sum.SourceFailures, th.Reset)
	}
	if sum.Measured > 0 {
		mean := sampler.UtilizationResult{
			UserPercent:      sum.MeanUser,
			KernelPercent:    sum.MeanKernel,
			IdlePercent:      sum.MeanIdle,
			TotalUsedPercent: sum.MeanUsed,
		}
		fmt.Fprintf(out, "Mean:             %s\n", FormatTextLine(time.Time{}, mean, precision, ui.StylesFor(ui.NoColorTheme)))
	}
}
