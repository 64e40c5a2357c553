//go:build windows

package sysmon

import (
	"context"
	"unsafe"

	"golang.org/x/sys/windows"

	apperrors "github.com/agbru/cpuutil/internal/errors"
	"github.com/agbru/cpuutil/internal/sampler"
)

var procGetSystemTimes = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetSystemTimes")

// WindowsSource reads GetSystemTimes. Its kernel time already includes idle.
type WindowsSource struct{}

func newWindowsSource() (CounterSource, error) {
	if err := procGetSystemTimes.Find(); err != nil {
		return nil, apperrors.NewSourceUnavailable(SourceWindows, err)
	}
	return WindowsSource{}, nil
}

// Name returns SourceWindows.
func (WindowsSource) Name() string { return SourceWindows }

// ReadCounters calls GetSystemTimes and returns the raw FILETIME counters.
func (s WindowsSource) ReadCounters(ctx context.Context) (sampler.CounterSample, error) {
	if err := ctx.Err(); err != nil {
		return sampler.CounterSample{}, err
	}
	var idle, kernel, user windows.Filetime
	ok, _, callErr := procGetSystemTimes.Call(
		uintptr(unsafe.Pointer(&idle)),
		uintptr(unsafe.Pointer(&kernel)),
		uintptr(unsafe.Pointer(&user)),
	)
	if ok == 0 {
		return sampler.CounterSample{}, apperrors.NewSourceUnavailable(s.Name(), callErr)
	}
	return sampler.CounterSample{
		Idle:   filetimeTicks(idle),
		Kernel: filetimeTicks(kernel),
		User:   filetimeTicks(user),
	}, nil
}

func filetimeTicks(ft windows.Filetime) uint64 {
	return uint64(ft.HighDateTime)<<32 | uint64(ft.LowDateTime)
}
