package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mwalds/kvsession/kv"
)

// ErrRedisUnavailable wraps connectivity and backend faults so callers can
// distinguish them from a plain missing key.
var ErrRedisUnavailable = errors.New("redis unavailable")

const scanBatchSize = 256

// Store is a Redis-backed [kv.Store].
//
// When nativeExpiry is enabled, Put also sets a Redis TTL derived from the
// expiry embedded in the session key, letting Redis reclaim entries on its
// own ahead of the cleanup sweep. The sweep remains correct either way.
type Store struct {
	redis        redis.UniversalClient
	prefix       string
	nativeExpiry bool
}

// New creates a Redis-backed store. An empty prefix defaults to "kvs".
func New(client redis.UniversalClient, prefix string, nativeExpiry bool) *Store {
	if prefix == "" {
		prefix = "kvs"
	}
	return &Store{
		redis:        client,
		prefix:       prefix,
		nativeExpiry: nativeExpiry,
	}
}

var _ kv.Store = (*Store)(nil)

func (s *Store) key(k string) string {
	return s.prefix + ":" + k
}

// Put stores data under key.
//
//	Performance: 1 Redis SET.
func (s *Store) Put(ctx context.Context, key string, data []byte) (string, error) {
	var ttl time.Duration
	if s.nativeExpiry {
		ttl = s.ttlFor(key)
	}

	if err := s.redis.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return key, nil
}

// Get retrieves the payload stored under key. A missing key maps to
// [kv.ErrNotFound].
//
//	Performance: 1 Redis GET.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.redis.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return data, nil
}

// Delete removes the payload stored under key. Deleting a missing key is a
// no-op.
//
//	Performance: 1 Redis DEL.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Keys enumerates every key under the store prefix, with the prefix stripped.
// The result reflects concurrent writes the way SCAN does: entries created or
// deleted mid-scan may or may not appear.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var (
		out    []string
		cursor uint64
	)
	match := s.prefix + ":*"
	strip := s.prefix + ":"

	for {
		batch, next, err := s.redis.Scan(ctx, cursor, match, scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		for _, k := range batch {
			out = append(out, strings.TrimPrefix(k, strip))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return out, nil
}

// ttlFor derives a Redis TTL from the expiry component of a session key.
// Keys without the <hex>_<hex> shape or with a zero expiry get no TTL.
func (s *Store) ttlFor(key string) time.Duration {
	i := strings.LastIndexByte(key, '_')
	if i < 0 {
		return 0
	}

	var exp int64
	if _, err := fmt.Sscanf(key[i+1:], "%x", &exp); err != nil || exp <= 0 {
		return 0
	}

	ttl := time.Until(time.Unix(exp, 0))
	if ttl <= 0 {
		// Already expired; keep it reachable just long enough for the
		// sweep or a concurrent Load to observe it consistently.
		return time.Second
	}
	return ttl
}
