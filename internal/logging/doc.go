// Package logging provides the structured logging interface used by cpuutil.
// Entries go through zerolog, either as console lines or as JSON lines, and
// always to stderr so that sample output on stdout stays parseable.
package logging
