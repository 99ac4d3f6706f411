// Package store owns tenant configuration: one versioned document per
// (app, env) pair holding all flags and segments, persisted whole under
// the key "v1:<app>:<env>".
//
// Mutations are read-modify-write cycles with two guarantees. First,
// referential integrity is enforced at write time: a flag may only
// reference segments that exist, and deleting a segment cascades its
// removal from every flag's list within the same write. Second, writes
// are conditional on the document version read at the start of the
// cycle; a mutation that loses to a concurrent writer is retried from a
// fresh snapshot a bounded number of times before failing with
// ErrConflict.
//
// Errors distinguish caller mistakes (not found, invalid input; the
// document is untouched) from storage failures, which are tagged with
// the failing operation and keep the underlying cause.
package store
