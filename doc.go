// Package kvsession replaces client-side session payloads with server-side
// storage: session data lives in a pluggable key-value backend and the client
// only ever holds an opaque, HMAC-signed token of the form
// <random-hex>_<expiry-hex>_<mac-hex>.
//
// The package is designed for concurrent server workloads: Manager methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. Individual [Session] values are not synchronized — each one
// is owned by a single request's processing context.
//
// # Architecture boundaries
//
// kvsession is the public surface. It exposes [Manager], [Builder], [Config],
// [Session], and value types (MetricsSnapshot, AuditEvent). Key minting, token
// signing, and payload encoding live under internal/ and are never exported.
// Store backends implement [kv.Store]; a Redis implementation ships in
// kv/redisstore.
//
// # What this package must NOT do
//
//   - Expose store clients or encoding details in its public API.
//   - Perform I/O outside of Manager methods (construction via Builder is
//     allocation-only until Build).
//   - Raise errors for invalid, forged, or expired tokens: those degrade to a
//     fresh, empty session. Session absence is indistinguishable from session
//     invalidity from the client's perspective.
//
// # Consistency contract
//
// Put/Get/Delete against the backing store are relied upon to be atomic per
// key; kvsession adds no locking of its own. Two requests committing "the
// same" session race at the store level and the last write wins. Expired
// entries remain in the store until the cleanup sweep removes them; the Load
// path treats them as invalid regardless.
package kvsession
