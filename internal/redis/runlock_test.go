package redis

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"offerlens/internal/config"
)

func newTestClient(t *testing.T) (*Client, func()) {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis-backed lock tests")
	}
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split host port: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("atoi port: %v", err)
	}
	db := 0
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			db = parsed
		}
	}
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Host: host,
			Port: port,
			DB:   db,
		},
	}
	client, err := NewRedisClient(cfg)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	if raw := client.Raw(); raw != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := raw.FlushDB(ctx).Err(); err != nil {
			t.Fatalf("flush db: %v", err)
		}
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup
}

func TestRunLockIsExclusivePerUser(t *testing.T) {
	client, cleanup := newTestClient(t)
	defer cleanup()
	ctx := context.Background()

	ok, err := client.AcquireRunLock(ctx, 77)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if !ok {
		t.Fatalf("expected first acquire to succeed")
	}

	ok, err = client.AcquireRunLock(ctx, 77)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Fatalf("expected second acquire to fail while lock held")
	}

	// a different user is unaffected
	ok, err = client.AcquireRunLock(ctx, 78)
	if err != nil {
		t.Fatalf("other user acquire: %v", err)
	}
	if !ok {
		t.Fatalf("lock must be scoped per user")
	}

	if err := client.ReleaseRunLock(ctx, 77); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = client.AcquireRunLock(ctx, 77)
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	if !ok {
		t.Fatalf("expected acquire to succeed after release")
	}
}
