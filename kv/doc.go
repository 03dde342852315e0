// Package kv defines the key-value store capability that session payloads are
// persisted through, plus an in-memory reference implementation. Backends must
// provide per-key atomicity for Put/Get/Delete; kvsession layers no locking on
// top.
package kv
