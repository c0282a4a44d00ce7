// Package resource implements the generic CRUD engine shared by all six
// resource kinds (course, event, journal, conference, book, patent).
//
// Each kind is described declaratively by a Kind descriptor: an ordered
// field schema with required flags, format checks, and per-rule messages,
// plus the unique-within-kind constraints. One engine evaluates every
// schema, so the six kinds cannot drift apart in validation or
// authorization behavior.
//
// The engine enforces the request gate order: the caller must already be
// authenticated for writes; the engine then applies the ownership guard
// (update/delete only), validates the payload collecting the complete
// violation list, and finally performs the store write. Reads are public
// and skip the first two gates.
package resource
