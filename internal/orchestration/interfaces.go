package orchestration

import (
	"context"
	"io"
	"time"

	"github.com/agbru/cpuutil/internal/sampler"
)

// Sample is one presented utilization reading.
type Sample struct {
	// Seq is the 1-based index of the sample within the run.
	Seq int
	// Time is when the counters were read.
	Time time.Time
	// Result holds the derived percentages.
	Result sampler.UtilizationResult
}

// Summary aggregates the outcome of a run.
type Summary struct {
	// Ticks is the number of ticks processed after the baseline.
	Ticks int
	// Samples is the number of samples handed to the presenter.
	Samples int
	// Measured is the number of non-degenerate samples behind the means.
	Measured int
	// Invalid counts ticks rejected because a counter went backwards.
	Invalid int
	// Degenerate counts zero-length intervals.
	Degenerate int
	// SourceFailures counts failed counter reads.
	SourceFailures int
	// Rebaselines counts baseline resets after an invalid streak.
	Rebaselines int
	// Elapsed is the wall time of the run.
	Elapsed time.Duration

	// Mean percentages over non-degenerate samples.
	MeanUser   float64
	MeanKernel float64
	MeanIdle   float64
	MeanUsed   float64
}

// SamplePresenter defines the interface for presenting samples.
// This interface decouples the driving loop from presentation concerns,
// allowing different output formats (text, JSON) without modifying the loop.
type SamplePresenter interface {
	// PresentHeader is called once before the baseline is taken.
	PresentHeader(out io.Writer)
	// PresentSample is called for every sample that passes the error policy.
	PresentSample(out io.Writer, s Sample)
	// PresentSummary is called once when the run ends, successfully or not.
	PresentSummary(out io.Writer, sum Summary)
}

// MetricsRecorder receives per-tick outcomes for export.
// Implementations must be safe for concurrent use with their own readers.
type MetricsRecorder interface {
	ObserveSample(r sampler.UtilizationResult)
	ObserveInvalid()
	ObserveDegenerate()
	ObserveSourceFailure()
}

// BaselineIndicator signals to the user that the first interval is pending.
type BaselineIndicator interface {
	Start()
	Stop()
}

// Service is a long-running component started next to the loop, such as the
// metrics server. Run must return nil when ctx is cancelled.
type Service interface {
	Run(ctx context.Context) error
}

// NullPresenter is a no-op implementation of SamplePresenter.
type NullPresenter struct{}

// PresentHeader does nothing.
func (NullPresenter) PresentHeader(io.Writer) {}

// PresentSample does nothing.
func (NullPresenter) PresentSample(io.Writer, Sample) {}

// PresentSummary does nothing.
func (NullPresenter) PresentSummary(io.Writer, Summary) {}

// NullRecorder is a no-op implementation of MetricsRecorder.
type NullRecorder struct{}

func (NullRecorder) ObserveSample(sampler.UtilizationResult) {}
func (NullRecorder) ObserveInvalid()                         {}
func (NullRecorder) ObserveDegenerate()                      {}
func (NullRecorder) ObserveSourceFailure()                   {}

type nullIndicator struct{}

func (nullIndicator) Start() {}
func (nullIndicator) Stop()  {}
