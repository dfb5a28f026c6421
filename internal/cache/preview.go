// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// preview.go provides a Valkey-backed cache for downscaled history previews.
// Rendering a preview decodes and rescales the full image, so the result is
// kept in Valkey and served directly on subsequent history-strip loads.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// previewKeyPrefix is the Valkey key prefix for cached previews.
	previewKeyPrefix = "preview:"

	// DefaultPreviewTTL matches the session lifetime: previews are useless
	// once the session-scoped history that references them is gone.
	DefaultPreviewTTL = 24 * time.Hour
)

// PreviewCache manages downscaled preview images in Valkey, keyed by the
// source image ID. Images are immutable, so entries never need refreshing.
type PreviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPreviewCache creates a new preview cache backed by the given Valkey client.
func NewPreviewCache(client *redis.Client, ttl time.Duration) *PreviewCache {
	if ttl == 0 {
		ttl = DefaultPreviewTTL
	}
	return &PreviewCache{client: client, ttl: ttl}
}

// Get retrieves a cached preview for an image ID. Returns false on miss.
func (pc *PreviewCache) Get(ctx context.Context, imageID string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, previewKeyPrefix+imageID).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("preview cache get error", "image_id", imageID, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a rendered preview with the configured TTL.
func (pc *PreviewCache) Set(ctx context.Context, imageID string, png []byte) {
	if err := pc.client.Set(ctx, previewKeyPrefix+imageID, png, pc.ttl).Err(); err != nil {
		slog.Warn("preview cache set error", "image_id", imageID, "error", err)
	}
}

// Invalidate removes the previews for the given image IDs. Called when a
// session's history is cleared.
func (pc *PreviewCache) Invalidate(ctx context.Context, imageIDs ...string) {
	if len(imageIDs) == 0 {
		return
	}
	keys := make([]string, len(imageIDs))
	for i, id := range imageIDs {
		keys[i] = previewKeyPrefix + id
	}
	if err := pc.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("preview cache invalidate error", "error", err)
	}
}
