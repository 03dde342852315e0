package kvsession

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mwalds/kvsession/kv"
)

func TestBuildRequiresSecret(t *testing.T) {
	_, err := New().WithStore(kv.NewMemoryStore()).Build()
	if !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}
}

func TestBuildRequiresStore(t *testing.T) {
	_, err := New().WithSecret([]byte("secret")).Build()
	if !errors.Is(err, ErrStoreMissing) {
		t.Fatalf("expected ErrStoreMissing, got %v", err)
	}
}

func TestBuildRejectsBadKeyBits(t *testing.T) {
	for _, bits := range []int{minKeyBits - 1, maxKeyBits + 1, -8} {
		cfg := DefaultConfig()
		cfg.Signing.Secret = []byte("secret")
		cfg.Keys.Bits = bits

		_, err := New().WithConfig(cfg).WithStore(kv.NewMemoryStore()).Build()
		if !errors.Is(err, ErrKeyBitsInvalid) {
			t.Fatalf("bits=%d: expected ErrKeyBitsInvalid, got %v", bits, err)
		}
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithSecret([]byte("secret")).WithStore(kv.NewMemoryStore())

	mgr, err := b.Build()
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	defer mgr.Close()

	if _, err := b.Build(); !errors.Is(err, ErrBuilderReused) {
		t.Fatalf("expected ErrBuilderReused, got %v", err)
	}
}

func TestBuilderWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	mgr, err := New().WithSecret([]byte("secret")).WithRedis(client).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer mgr.Close()
	ctx := context.Background()

	s := mgr.NewSession()
	s.Set("user", "alice")
	tok, err := mgr.Commit(ctx, s, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	loaded, err := mgr.Load(ctx, tok)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if v, _ := loaded.Get("user"); v != "alice" {
		t.Fatalf("expected alice, got %v", v)
	}
}

func TestBuilderWithStoreTakesPrecedenceOverRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := kv.NewMemoryStore()
	mgr, err := New().
		WithSecret([]byte("secret")).
		WithRedis(client).
		WithStore(store).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer mgr.Close()

	if _, err := mgr.Commit(context.Background(), mgr.NewSession(), time.Time{}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected commit to hit the explicit store, got %d entries", store.Len())
	}
	if got := len(mr.Keys()); got != 0 {
		t.Fatalf("expected redis untouched, got %d keys", got)
	}
}

func TestBuilderConfigIsolation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Signing.Secret = []byte("original")

	b := New().WithConfig(cfg).WithStore(kv.NewMemoryStore())

	// Mutating the caller's copy after ingest must not leak into the manager.
	cfg.Signing.Secret[0] = 'X'

	mgr, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer mgr.Close()

	if string(mgr.config.Signing.Secret) != "original" {
		t.Fatalf("config mutation leaked: %q", mgr.config.Signing.Secret)
	}
}
