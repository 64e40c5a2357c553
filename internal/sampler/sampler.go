// Package sampler derives CPU utilization percentages from successive
// readings of the system-wide cumulative time counters.
//
// The counters follow the Windows GetSystemTimes convention: kernel time
// includes idle time. A Sampler keeps exactly one previous reading and turns
// each new reading into a UtilizationResult.
package sampler

import (
	apperrors "github.com/agbru/cpuutil/internal/errors"
)

// CounterSample is one reading of the cumulative system time counters, in
// source-defined ticks since an arbitrary epoch. Kernel includes Idle.
type CounterSample struct {
	Idle   uint64 `json:"idleTime"`
	Kernel uint64 `json:"kernelTime"`
	User   uint64 `json:"userTime"`
}

// UtilizationResult holds the percentages derived from one interval.
type UtilizationResult struct {
	// UserPercent is user time over the interval total.
	UserPercent float64 `json:"cpuUserPercent"`
	// KernelPercent is kernel time excluding idle over the interval total.
	KernelPercent float64 `json:"cpuKernelPercent"`
	// IdlePercent is idle time over the interval total.
	IdlePercent float64 `json:"cpuIdlePercent"`
	// TotalUsedPercent is user plus kernel-excluding-idle over the interval total.
	TotalUsedPercent float64 `json:"cpuPercent"`
	// KernelInclusivePercent is kernel time including idle over the interval
	// total. Idle + KernelInclusive + User sums to 100.
	KernelInclusivePercent float64 `json:"cpuKernelInclusivePercent"`
	// Degenerate is set when no ticks elapsed and every percentage is zero.
	Degenerate bool `json:"degenerate,omitempty"`
}

// Deltas are the per-counter differences between two readings.
type Deltas struct {
	Idle   uint64
	Kernel uint64
	User   uint64
}

// Total is the interval denominator. Idle is counted twice, once on its own
// and once inside Kernel, matching the kernel-includes-idle convention. The
// sum is float64 so that deltas near 2^63 cannot overflow it.
func (d Deltas) Total() float64 { return float64(d.Idle) + float64(d.Kernel) + float64(d.User) }

// KernelOnly is kernel time with idle removed.
func (d Deltas) KernelOnly() uint64 { return d.Kernel - d.Idle }

// Busy is user time plus kernel time excluding idle, in float64 like Total.
func (d Deltas) Busy() float64 { return float64(d.User) + float64(d.KernelOnly()) }

// Diff validates monotonicity between prev and current and returns the deltas.
//
// Returns:
//   - Deltas: The per-counter differences.
//   - error: An apperrors.InvalidSampleError if any counter went backwards or
//     idle advanced further than kernel.
func Diff(prev, current CounterSample) (Deltas, error) {
	switch {
	case current.Idle < prev.Idle:
		return Deltas{}, apperrors.InvalidSampleError{Field: "idle", Previous: prev.Idle, Current: current.Idle}
	case current.Kernel < prev.Kernel:
		return Deltas{}, apperrors.InvalidSampleError{Field: "kernel", Previous: prev.Kernel, Current: current.Kernel}
	case current.User < prev.User:
		return Deltas{}, apperrors.InvalidSampleError{Field: "user", Previous: prev.User, Current: current.User}
	}
	d := Deltas{
		Idle:   current.Idle - prev.Idle,
		Kernel: current.Kernel - prev.Kernel,
		User:   current.User - prev.User,
	}
	// Idle is a subset of kernel time, so it cannot advance faster.
	if d.Kernel < d.Idle {
		return Deltas{}, apperrors.InvalidSampleError{Field: "kernel", Previous: d.Idle, Current: d.Kernel, IdleExceedsKernel: true}
	}
	return d, nil
}

// Percentages converts deltas into a UtilizationResult. It is a pure
// function of d. Zero deltas yield a degenerate all-zero result.
func Percentages(d Deltas) UtilizationResult {
	if d == (Deltas{}) {
		return UtilizationResult{Degenerate: true}
	}
	t := d.Total()
	return UtilizationResult{
		UserPercent:            100 * float64(d.User) / t,
		KernelPercent:          100 * float64(d.KernelOnly()) / t,
		IdlePercent:            100 * float64(d.Idle) / t,
		TotalUsedPercent:       100 * d.Busy() / t,
		KernelInclusivePercent: 100 * float64(d.Kernel) / t,
	}
}

// Compute derives the utilization between two readings without touching any
// sampler state.
//
// Returns:
//   - UtilizationResult: The derived percentages (all zero when degenerate).
//   - error: apperrors.InvalidSampleError on a counter rollback,
//     apperrors.DegenerateIntervalError when no ticks elapsed.
func Compute(prev, current CounterSample) (UtilizationResult, error) {
	d, err := Diff(prev, current)
	if err != nil {
		return UtilizationResult{}, err
	}
	res := Percentages(d)
	if res.Degenerate {
		return res, apperrors.DegenerateIntervalError{}
	}
	return res, nil
}

// Sampler holds the previous reading between calls to Sample. It is not safe
// for concurrent use; the driving loop owns it.
type Sampler struct {
	previous    CounterSample
	initialized bool
}

// New returns an uninitialized Sampler. The first call to Sample establishes
// the baseline unless Initialize is called first.
func New() *Sampler {
	return &Sampler{}
}

// Initialize stores first as the baseline reading.
func (s *Sampler) Initialize(first CounterSample) {
	s.previous = first
	s.initialized = true
}

// Initialized reports whether a baseline is stored.
func (s *Sampler) Initialized() bool { return s.initialized }

// Previous returns the stored baseline and whether one exists.
func (s *Sampler) Previous() (CounterSample, bool) {
	return s.previous, s.initialized
}

// Reset drops the baseline.
func (s *Sampler) Reset() {
	s.previous = CounterSample{}
	s.initialized = false
}

// Sample derives utilization since the previous reading and stores current
// as the new baseline.
//
// On an uninitialized sampler, current becomes the baseline and a degenerate
// result is returned with a DegenerateIntervalError{Baseline: true}. On an
// InvalidSampleError the baseline is left untouched.
func (s *Sampler) Sample(current CounterSample) (UtilizationResult, error) {
	if !s.initialized {
		s.Initialize(current)
		return UtilizationResult{Degenerate: true}, apperrors.DegenerateIntervalError{Baseline: true}
	}
	res, err := Compute(s.previous, current)
	if err != nil && !res.Degenerate {
		return UtilizationResult{}, err
	}
	s.previous = current
	return res, err
}
