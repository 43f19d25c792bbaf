// Package cache provides a Redis-backed cache for report pages.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"

	"psi/internal/domain/reports"
)

// DefaultReportTTL is used when no TTL is configured.
const DefaultReportTTL = 5 * time.Minute

// kv is the part of redis.Cmdable the cache needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// ReportCache stores report pages in Redis as zstd-compressed JSON.
type ReportCache struct {
	client  kv
	ttl     time.Duration
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

var _ reports.Cache = (*ReportCache)(nil)

// NewReportCache creates a report cache. A non-positive ttl selects DefaultReportTTL.
func NewReportCache(client redis.Cmdable, ttl time.Duration) (*ReportCache, error) {
	return newReportCache(client, ttl)
}

func newReportCache(client kv, ttl time.Duration) (*ReportCache, error) {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &ReportCache{client: client, ttl: ttl, encoder: encoder, decoder: decoder}, nil
}

func (c *ReportCache) encode(page *reports.Page) ([]byte, error) {
	raw, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("marshal page: %w", err)
	}
	return c.encoder.EncodeAll(raw, nil), nil
}

func (c *ReportCache) decode(data []byte) (*reports.Page, error) {
	raw, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress page: %w", err)
	}
	var page reports.Page
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("unmarshal page: %w", err)
	}
	return &page, nil
}

// GetPage implements reports.Cache.
func (c *ReportCache) GetPage(ctx context.Context, key string) (*reports.Page, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return c.decode(data)
}

// SetPage implements reports.Cache.
func (c *ReportCache) SetPage(ctx context.Context, key string, page *reports.Page) error {
	data, err := c.encode(page)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
