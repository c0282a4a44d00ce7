// Package api defines the domain types and the error taxonomy shared by
// every layer of the acadia service: users, resource records, and the
// tagged Error type that classifies every failure a request can produce.
//
// The five error kinds map one-to-one onto HTTP statuses at the transport
// boundary (401, 403, 404, 400, 500). Services never return raw store or
// driver errors to callers; anything unrecognized is wrapped as an
// internal error with the detail logged server-side only.
package api
