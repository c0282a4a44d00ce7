// Package storage defines the persistence contracts for users and
// resource records, the sentinel errors stores report, and the
// storage-facing kind descriptor that lets one generic store
// implementation serve all six resource kinds.
//
// Two implementations exist: memory (tests and lightweight deployments)
// and postgres (pgx connection pool with embedded migrations). Both must
// be safe for concurrent use by simultaneous requests and must apply each
// write atomically: a failed create or update leaves no partial state.
package storage
