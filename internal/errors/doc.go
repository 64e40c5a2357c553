// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// counter source, sample validity) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Error types that carry a cause implement Unwrap(), and the sample errors
// implement Is() so callers can match them with the package sentinels.
package apperrors
