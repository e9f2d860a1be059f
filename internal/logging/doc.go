// Package logging builds the slog loggers used across carousel.
//
// It supports two output formats: a human-oriented console format for
// interactive terminals and JSON for log files and non-TTY output. Writers
// can fan out to stdout/stderr and one or more files in a single logger.
// Component loggers are derived with NewComponentLogger, and per-item
// request context (item id, stage, request id) is attached via WithContext
// so every stage log line can be correlated with the queue item it served.
package logging
