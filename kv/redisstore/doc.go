// Package redisstore provides a Redis-backed implementation of [kv.Store].
//
// All keys are scoped under a configurable prefix so session payloads can
// share a Redis database with unrelated data. Enumeration uses SCAN and never
// blocks the server the way KEYS would.
package redisstore
