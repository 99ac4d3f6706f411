package kv

import "errors"

var (
	// ErrNotFound indicates the key does not exist.
	ErrNotFound = errors.New("key not found")

	// ErrVersionMismatch indicates a conditional put lost to a concurrent
	// writer; the caller should re-read and retry.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrNotReady indicates the backend did not become reachable within
	// the configured connection attempts.
	ErrNotReady = errors.New("kv backend not ready")

	// ErrInvalidConfig indicates an unparseable backend configuration.
	ErrInvalidConfig = errors.New("invalid kv configuration")
)
