//go:generate mockgen -source=sysmon.go -destination=mocks/mock_sysmon.go -package=mocks

// Package sysmon reads the system-wide cumulative CPU time counters the
// sampler consumes. Every source reports idle, kernel and user time with
// kernel time including idle time, in 100ns ticks.
package sysmon

import (
	"context"
	"math"
	"runtime"
	"strings"

	apperrors "github.com/agbru/cpuutil/internal/errors"
	"github.com/agbru/cpuutil/internal/sampler"
)

// Source names accepted by NewSource.
const (
	SourceAuto     = "auto"
	SourceGopsutil = "gopsutil"
	SourceProcfs   = "procfs"
	SourceWindows  = "windows"
)

// DefaultProcRoot is the procfs mount point used when none is configured.
const DefaultProcRoot = "/proc"

// ticksPerSecond converts counter seconds into FILETIME units (100ns).
const ticksPerSecond = 1e7

// CounterSource provides the current cumulative system time counters.
type CounterSource interface {
	// ReadCounters returns a fresh reading. Failures are reported as
	// apperrors.CounterSourceUnavailableError, never as a zero sample.
	ReadCounters(ctx context.Context) (sampler.CounterSample, error)
	// Name identifies the source in logs and errors.
	Name() string
}

// Options configures source construction.
type Options struct {
	// ProcRoot is the procfs mount point read by the procfs source.
	ProcRoot string
}

// SourceFunc adapts a function to the CounterSource interface.
type SourceFunc func(ctx context.Context) (sampler.CounterSample, error)

// ReadCounters calls f.
func (f SourceFunc) ReadCounters(ctx context.Context) (sampler.CounterSample, error) {
	return f(ctx)
}

// Name returns "func".
func (f SourceFunc) Name() string { return "func" }

// Available lists the source names usable on the running platform.
func Available() []string {
	names := []string{SourceAuto, SourceGopsutil}
	if runtime.GOOS == "linux" {
		names = append(names, SourceProcfs)
	}
	if runtime.GOOS == "windows" {
		names = append(names, SourceWindows)
	}
	return names
}

// NewSource builds the named counter source.
//
// Parameters:
//   - name: One of the Source* constants (case-insensitive); empty means auto.
//   - opts: Source options.
//
// Returns:
//   - CounterSource: The source.
//   - error: An apperrors.ConfigError for unknown or unsupported names.
func NewSource(name string, opts Options) (CounterSource, error) {
	if opts.ProcRoot == "" {
		opts.ProcRoot = DefaultProcRoot
	}
	switch strings.ToLower(name) {
	case "", SourceAuto:
		if runtime.GOOS == "windows" {
			return newWindowsSource()
		}
		return NewGopsutilSource(), nil
	case SourceGopsutil:
		return NewGopsutilSource(), nil
	case SourceProcfs:
		return newProcfsSource(opts.ProcRoot)
	case SourceWindows:
		return newWindowsSource()
	default:
		return nil, apperrors.NewConfigError("unknown counter source %q (available: %s)", name, strings.Join(Available(), ", "))
	}
}

// fromSeconds folds Linux-style CPU time categories, in seconds, into the
// kernel-includes-idle layout. Iowait counts as idle; irq, softirq and
// steal count as kernel; nice counts as user.
func fromSeconds(user, nice, system, idle, iowait, irq, softirq, steal float64) sampler.CounterSample {
	idleTicks := toTicks(idle) + toTicks(iowait)
	kernelTicks := toTicks(system) + toTicks(irq) + toTicks(softirq) + toTicks(steal)
	return sampler.CounterSample{
		Idle:   idleTicks,
		Kernel: kernelTicks + idleTicks,
		User:   toTicks(user) + toTicks(nice),
	}
}

func toTicks(seconds float64) uint64 {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return uint64(math.Round(seconds * ticksPerSecond))
}
