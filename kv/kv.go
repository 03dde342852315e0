package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no payload exists under the given key.
// It is the only store error the session layer absorbs; everything else
// propagates to the caller unmodified.
var ErrNotFound = errors.New("key not found")

// Store is the backend contract for session payload storage.
//
// Put returns the key the payload was actually stored under, which is normally
// the input key. Delete must tolerate a missing key without returning a hard
// error. Keys enumerates every stored key; it may return a snapshot or reflect
// concurrent writes, and the cleanup sweep tolerates either.
type Store interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
