package cli

import (
	"fmt"
	"io"

	"github.com/agbru/cpuutil/internal/logging"
	"github.com/agbru/cpuutil/internal/orchestration"
	"github.com/agbru/cpuutil/internal/ui"
)

// CLIPresenter implements orchestration.SamplePresenter for console output.
// Text mode prints a header, one styled line per sample and a summary block;
// JSON mode prints one object per sample and nothing else.
type CLIPresenter struct {
	Config OutputConfig
	// Logger receives write failures on out. Nil discards them.
	Logger logging.Logger
}

// Verify interface compliance.
var _ orchestration.SamplePresenter = (*CLIPresenter)(nil)

// NewCLIPresenter creates a presenter for cfg.
func NewCLIPresenter(cfg OutputConfig, logger logging.Logger) *CLIPresenter {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &CLIPresenter{Config: cfg, Logger: logger}
}

// PresentHeader prints the column header in text mode.
func (p *CLIPresenter) PresentHeader(out io.Writer) {
	if p.Config.JSON || p.Config.Quiet {
		return
	}
	fmt.Fprintln(out, ui.CurrentStyles().Header.Render(HeaderLine))
}

// PresentSample prints one sample line.
func (p *CLIPresenter) PresentSample(out io.Writer, s orchestration.Sample) {
	if err := DisplaySample(out, s, p.Config, ui.CurrentStyles()); err != nil {
		p.logger().Error("writing sample failed", err, logging.Int("seq", s.Seq))
	}
}

// PresentSummary prints the end-of-run block in text mode.
func (p *CLIPresenter) PresentSummary(out io.Writer, sum orchestration.Summary) {
	if p.Config.JSON || p.Config.Quiet {
		return
	}
	DisplaySummary(out, sum, p.Config.Precision)
}

func (p *CLIPresenter) logger() logging.Logger {
	if p.Logger == nil {
		return logging.Nop{}
	}
	return p.Logger
}
