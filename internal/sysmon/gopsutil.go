package sysmon

import (
	"context"
	"errors"

	"github.com/shirou/gopsutil/v3/cpu"

	apperrors "github.com/agbru/cpuutil/internal/errors"
	"github.com/agbru/cpuutil/internal/sampler"
)

// GopsutilSource reads aggregate CPU times through gopsutil.
type GopsutilSource struct {
	times func(ctx context.Context, percpu bool) ([]cpu.TimesStat, error)
}

// NewGopsutilSource returns a source backed by cpu.TimesWithContext.
func NewGopsutilSource() *GopsutilSource {
	return &GopsutilSource{times: cpu.TimesWithContext}
}

// Name returns SourceGopsutil.
func (s *GopsutilSource) Name() string { return SourceGopsutil }

// ReadCounters returns the aggregate counters for all CPUs.
func (s *GopsutilSource) ReadCounters(ctx context.Context) (sampler.CounterSample, error) {
	stats, err := s.times(ctx, false)
	if err != nil {
		return sampler.CounterSample{}, apperrors.NewSourceUnavailable(s.Name(), err)
	}
	// Some container runtimes report no CPUs at all.
	if len(stats) == 0 {
		return sampler.CounterSample{}, apperrors.NewSourceUnavailable(s.Name(), errors.New("no aggregate cpu times reported"))
	}
	t := stats[0]
	return fromSeconds(t.User, t.Nice, t.System, t.Idle, t.Iowait, t.Irq, t.Softirq, t.Steal), nil
}
