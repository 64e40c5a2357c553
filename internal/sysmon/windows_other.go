//go:build !windows

package sysmon

import (
	"runtime"

	apperrors "github.com/agbru/cpuutil/internal/errors"
)

func newWindowsSource() (CounterSource, error) {
	return nil, apperrors.NewConfigError("windows source is not supported on %s", runtime.GOOS)
}
