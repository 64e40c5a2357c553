// Package ui provides theme and color support for the application's user interface.
// It defines color schemes, exposes ANSI escape codes for plain messages and
// builds lipgloss styles for the per-category sample line.
//
// This package is a shared dependency for packages that need color output,
// reducing coupling between sampling logic and presentation.
package ui
