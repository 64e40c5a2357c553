package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess                = 0   // Indicates successful execution.
	ExitErrorGeneric           = 1   // Indicates a generic error.
	ExitErrorConfig            = 4   // Indicates a configuration error.
	ExitErrorSourceUnavailable = 5   // Indicates the counter source kept failing.
	ExitErrorCanceled          = 130 // Indicates the run was canceled (e.g., SIGINT).
)

// Sentinel errors matched by errors.Is against the structured types below.
var (
	// ErrInvalidSample matches any InvalidSampleError.
	ErrInvalidSample = errors.New("invalid counter sample")
	// ErrDegenerateInterval matches any DegenerateIntervalError.
	ErrDegenerateInterval = errors.New("degenerate sampling interval")
	// ErrSourceUnavailable matches any CounterSourceUnavailableError.
	ErrSourceUnavailable = errors.New("counter source unavailable")
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
//
// Returns:
//   - string: The error message string.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// InvalidSampleError reports a reading that cannot follow the previous one:
// a counter went backwards (rollback or wraparound of the source), or idle
// advanced further than kernel over the interval. The sampler keeps its
// previous baseline when this error is returned.
type InvalidSampleError struct {
	// Field names the offending counter ("idle", "kernel" or "user").
	Field string
	// Previous is the stored reading for Field. When IdleExceedsKernel is
	// set it is the idle delta instead.
	Previous uint64
	// Current is the offending reading for Field. When IdleExceedsKernel is
	// set it is the kernel delta instead.
	Current uint64
	// IdleExceedsKernel marks an interval whose idle delta is larger than
	// its kernel delta, although both counters moved forward.
	IdleExceedsKernel bool
}

// Error returns a formatted message naming the offending counter.
func (e InvalidSampleError) Error() string {
	if e.IdleExceedsKernel {
		return fmt.Sprintf("invalid sample: idle advanced %d ticks but kernel only %d", e.Previous, e.Current)
	}
	return fmt.Sprintf("invalid sample: %s counter went from %d to %d", e.Field, e.Previous, e.Current)
}

// Is reports whether target is ErrInvalidSample.
func (e InvalidSampleError) Is(target error) bool { return target == ErrInvalidSample }

// DegenerateIntervalError reports that no ticks elapsed between two readings,
// so no percentage can be derived. It is benign: the accompanying result is
// all zeros.
type DegenerateIntervalError struct {
	// Baseline is true when the interval was degenerate because the sampler
	// had no previous reading yet.
	Baseline bool
}

// Error returns a short description of the degenerate interval.
func (e DegenerateIntervalError) Error() string {
	if e.Baseline {
		return "degenerate interval: baseline established, no previous sample"
	}
	return "degenerate interval: zero ticks elapsed between samples"
}

// Is reports whether target is ErrDegenerateInterval.
func (e DegenerateIntervalError) Is(target error) bool { return target == ErrDegenerateInterval }

// CounterSourceUnavailableError encapsulates a failure of the OS counter
// source while preserving the original cause.
type CounterSourceUnavailableError struct {
	// Source is the name of the counter source that failed.
	Source string
	// Cause is the underlying error reported by the source.
	Cause error
}

// Error returns the source name and the underlying cause.
func (e CounterSourceUnavailableError) Error() string {
	return fmt.Sprintf("counter source %q unavailable: %v", e.Source, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e CounterSourceUnavailableError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrSourceUnavailable.
func (e CounterSourceUnavailableError) Is(target error) bool { return target == ErrSourceUnavailable }

// NewSourceUnavailable wraps cause as a CounterSourceUnavailableError.
// Returns nil if cause is nil.
func NewSourceUnavailable(source string, cause error) error {
	if cause == nil {
		return nil
	}
	return CounterSourceUnavailableError{Source: source, Cause: cause}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error returned by a run to the process exit status.
//
// Parameters:
//   - err: The error to classify; nil means success.
//
// Returns:
//   - int: One of the Exit* constants.
func ExitCode(err error) int {
	var cfgErr ConfigError
	var valErr ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		return ExitErrorConfig
	case errors.Is(err, ErrSourceUnavailable):
		return ExitErrorSourceUnavailable
	case IsContextError(err):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}
