// Package orchestration drives periodic CPU counter sampling. It reads the
// counter source on a ticker, feeds the sampler, applies the per-tick error
// policy and hands results to presentation and metrics via the
// SamplePresenter and MetricsRecorder interfaces.
package orchestration
