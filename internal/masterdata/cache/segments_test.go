package cache

import (
	"context"
	"testing"
	"time"

	"campaign_portal_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingSource struct {
	names []string
	calls int
}

func (s *countingSource) ListActiveSegmentNames(ctx context.Context) ([]string, error) {
	s.calls++
	return s.names, nil
}

func TestSegmentCacheReadThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	source := &countingSource{names: []string{"Corporate", "General"}}
	c := NewSegmentCache(source, rdb, time.Minute, logger.New("test"))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		names, err := c.ListActiveSegmentNames(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(names) != 2 || names[0] != "Corporate" {
			t.Fatalf("unexpected names: %v", names)
		}
	}

	if source.calls != 1 {
		t.Fatalf("expected one source read, got %d", source.calls)
	}
}

func TestSegmentCacheExpiryRefetches(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	source := &countingSource{names: []string{"General"}}
	c := NewSegmentCache(source, rdb, time.Minute, logger.New("test"))

	ctx := context.Background()
	if _, err := c.ListActiveSegmentNames(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := c.ListActiveSegmentNames(ctx); err != nil {
		t.Fatalf("list after expiry: %v", err)
	}

	if source.calls != 2 {
		t.Fatalf("expected two source reads, got %d", source.calls)
	}
}

func TestSegmentCacheInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	source := &countingSource{names: []string{"General"}}
	c := NewSegmentCache(source, rdb, time.Minute, logger.New("test"))

	ctx := context.Background()
	if _, err := c.ListActiveSegmentNames(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	c.Invalidate(ctx)
	if _, err := c.ListActiveSegmentNames(ctx); err != nil {
		t.Fatalf("list after invalidate: %v", err)
	}

	if source.calls != 2 {
		t.Fatalf("expected two source reads, got %d", source.calls)
	}
}

func TestSegmentCacheNilClientBypasses(t *testing.T) {
	source := &countingSource{names: []string{"General"}}
	c := NewSegmentCache(source, nil, time.Minute, logger.New("test"))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := c.ListActiveSegmentNames(ctx); err != nil {
			t.Fatalf("list: %v", err)
		}
	}

	if source.calls != 2 {
		t.Fatalf("expected every read to hit the source, got %d", source.calls)
	}
}
