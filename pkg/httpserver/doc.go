// Package httpserver runs an http.Server with environment-driven
// timeouts and graceful shutdown on context cancellation or
// SIGINT/SIGTERM.
package httpserver
