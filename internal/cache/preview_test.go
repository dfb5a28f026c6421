package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testPreviewCache(t *testing.T, ttl time.Duration) (*PreviewCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewPreviewCache(client, ttl), mr
}

func TestPreviewCacheRoundtrip(t *testing.T) {
	pc, _ := testPreviewCache(t, time.Minute)
	ctx := context.Background()

	if _, ok := pc.Get(ctx, "img-1"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	want := []byte("png-bytes")
	pc.Set(ctx, "img-1", want)

	got, ok := pc.Get(ctx, "img-1")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPreviewCacheExpiry(t *testing.T) {
	pc, mr := testPreviewCache(t, time.Minute)
	ctx := context.Background()

	pc.Set(ctx, "img-1", []byte("png"))
	mr.FastForward(2 * time.Minute)

	if _, ok := pc.Get(ctx, "img-1"); ok {
		t.Error("entry survived its TTL")
	}
}

func TestPreviewCacheInvalidate(t *testing.T) {
	pc, _ := testPreviewCache(t, time.Minute)
	ctx := context.Background()

	pc.Set(ctx, "img-1", []byte("a"))
	pc.Set(ctx, "img-2", []byte("b"))
	pc.Set(ctx, "img-3", []byte("c"))

	pc.Invalidate(ctx, "img-1", "img-2")

	if _, ok := pc.Get(ctx, "img-1"); ok {
		t.Error("img-1 not invalidated")
	}
	if _, ok := pc.Get(ctx, "img-2"); ok {
		t.Error("img-2 not invalidated")
	}
	if _, ok := pc.Get(ctx, "img-3"); !ok {
		t.Error("img-3 should survive")
	}

	// Invalidating nothing is a no-op.
	pc.Invalidate(ctx)
}

func TestNewPreviewCacheDefaultTTL(t *testing.T) {
	pc, _ := testPreviewCache(t, 0)
	if pc.ttl != DefaultPreviewTTL {
		t.Errorf("ttl: got %v, want %v", pc.ttl, DefaultPreviewTTL)
	}
}
