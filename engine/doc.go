// Package engine implements deterministic feature flag evaluation.
//
// A flag is decided for one request context in a fixed order: a disabled
// flag short-circuits to its default; otherwise the flag's segments are
// tried in declared order and the first match wins; otherwise the
// tenant-wide rollout assigns an outcome by stable bucketing; otherwise
// the default applies.
//
// Bucketing hashes (flag id, subject id) with FNV-1a onto [0, TotalWeight)
// and selects the outcome whose cumulative weight range, built over
// lexicographically ordered outcome keys, contains the position. For a
// fixed document and a fixed (flag, subject) pair the result is identical
// across calls and process restarts: evaluation uses no randomness, no
// clock, and no map iteration order. The single documented exception is
// the AnonymousRandom policy, which deliberately buckets subjects that
// have no id with a fresh random id per evaluation.
//
// Evaluation is total. Malformed configuration degrades to defined
// fallbacks (missing segment references are logged and skipped) instead
// of producing per-request errors.
package engine
