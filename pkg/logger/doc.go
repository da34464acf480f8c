// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package, emitting JSON in production and
// human-readable text elsewhere, with the environment attached to every
// record.
package logger
