// Package logger builds configured log/slog loggers: JSON for
// production, text for development, with level and static service
// attributes driven by options or environment configuration.
package logger
