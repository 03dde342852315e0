//go:build integration
// +build integration

package test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	kvsession "github.com/mwalds/kvsession"
	"github.com/mwalds/kvsession/kv/redisstore"
)

func newIntegrationManager(t *testing.T, nativeExpiry bool) (*kvsession.Manager, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := redisstore.New(rdb, "kvs", nativeExpiry)

	mgr, err := kvsession.New().
		WithSecret([]byte("integration-secret")).
		WithStore(store).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("manager build failed: %v", err)
	}

	t.Cleanup(func() {
		mgr.Close()
		_ = rdb.Close()
		mr.Close()
	})

	return mgr, mr
}
