//go:build !linux

package sysmon

import (
	"runtime"

	apperrors "github.com/agbru/cpuutil/internal/errors"
)

func newProcfsSource(string) (CounterSource, error) {
	return nil, apperrors.NewConfigError("procfs source is not supported on %s", runtime.GOOS)
}
