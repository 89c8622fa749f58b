package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "storelens/internal/adapters/redis"
	"storelens/internal/domain"
)

func newTestCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0), mr
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := domain.CachedReviews{
		Reviews:  []domain.Review{{Author: "A", Rating: 5, Text: "good", Time: 1700000000}},
		CachedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	if err := c.Set(ctx, "reviews:p1", in, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out domain.CachedReviews
	hit, err := c.Get(ctx, "reviews:p1", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !hit {
		t.Fatal("expected a hit")
	}
	if len(out.Reviews) != 1 || out.Reviews[0].Author != "A" || !out.CachedAt.Equal(in.CachedAt) {
		t.Fatalf("round trip mangled value: %+v", out)
	}
}

func TestCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var out domain.CachedReviews
	hit, err := c.Get(context.Background(), "reviews:absent", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit {
		t.Fatal("expected a miss")
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", domain.CachedReviews{}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	var out domain.CachedReviews
	hit, err := c.Get(ctx, "k", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit {
		t.Fatal("entry should have expired")
	}
}

func TestCacheDel(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", domain.CachedReviews{}, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	var out domain.CachedReviews
	if hit, _ := c.Get(ctx, "k", &out); hit {
		t.Fatal("deleted key still readable")
	}
}
