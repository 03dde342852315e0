// Package payload encodes session mappings into the byte form stored in the
// key-value backend. The encoding is backend-agnostic and versioned: one
// format byte followed by a gob stream, so arbitrary registered value types
// round-trip losslessly.
package payload
