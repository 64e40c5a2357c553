//go:build linux

package sysmon

import (
	"context"

	"github.com/prometheus/procfs"

	apperrors "github.com/agbru/cpuutil/internal/errors"
	"github.com/agbru/cpuutil/internal/sampler"
)

// ProcfsSource reads the aggregate "cpu" line of <root>/stat.
type ProcfsSource struct {
	root string
	fs   procfs.FS
}

func newProcfsSource(root string) (CounterSource, error) {
	fs, err := procfs.NewFS(root)
	if err != nil {
		return nil, apperrors.NewConfigError("procfs source: %v", err)
	}
	return &ProcfsSource{root: root, fs: fs}, nil
}

// Name returns SourceProcfs.
func (s *ProcfsSource) Name() string { return SourceProcfs }

// ReadCounters parses <root>/stat on every call.
func (s *ProcfsSource) ReadCounters(ctx context.Context) (sampler.CounterSample, error) {
	if err := ctx.Err(); err != nil {
		return sampler.CounterSample{}, err
	}
	stat, err := s.fs.Stat()
	if err != nil {
		return sampler.CounterSample{}, apperrors.NewSourceUnavailable(s.Name(), err)
	}
	c := stat.CPUTotal
	return fromSeconds(c.User, c.Nice, c.System, c.Idle, c.Iowait, c.IRQ, c.SoftIRQ, c.Steal), nil
}
