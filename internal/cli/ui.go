//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/cpuutil/internal/orchestration"
)

// SpinnerRefreshRate defines the refresh frequency of the baseline spinner.
const SpinnerRefreshRate = 100 * time.Millisecond

// baselineSuffix is shown next to the spinner while the first interval runs.
const baselineSuffix = " establishing baseline..."

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This decouples the baseline indicator from a specific spinner
// implementation, facilitating easier testing and maintenance.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
//
// Parameters:
//   - suffix: The string to display.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, options...)
	return &realSpinner{s}
}

// BaselineSpinner shows a spinner while the sampler waits for its first
// interval. It implements orchestration.BaselineIndicator. The spinner
// library draws nothing when w is not a terminal.
type BaselineSpinner struct {
	spinner Spinner
}

var _ orchestration.BaselineIndicator = (*BaselineSpinner)(nil)

// NewBaselineSpinner creates a spinner drawing on w.
func NewBaselineSpinner(w io.Writer) *BaselineSpinner {
	sp := newSpinner(spinner.WithWriter(w), spinner.WithHiddenCursor(true))
	sp.UpdateSuffix(baselineSuffix)
	return &BaselineSpinner{spinner: sp}
}

// Start begins the animation.
func (b *BaselineSpinner) Start() { b.spinner.Start() }

// Stop clears the animation.
func (b *BaselineSpinner) Stop() { b.spinner.Stop() }
