// Package kv provides the persistence layer behind the tenant store: a
// versioned key-value contract with interchangeable backends.
//
// Every value carries a version; Put is conditional on the version the
// caller read, turning the store's read-modify-write cycles into
// optimistic transactions. Backends: in-process memory (tests and
// single-node deployments), Redis, PostgreSQL, and MongoDB, selected by
// service configuration.
package kv
