package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/woozymasta/geokit/internal/processor"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultPreviewTTL is used when a shared cache is configured without a TTL.
const DefaultPreviewTTL = time.Hour

// OpenRedis returns a client for addr, or nil when addr is empty.
func OpenRedis(addr, pass string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

func previewKey(name string, size int) string {
	return fmt.Sprintf("geokit:preview:%s:%d", name, size)
}

// preview renders a fence preview once and caches it in memory. When Redis
// is configured, renders are shared between instances through it; Redis
// failures only cost a re-render.
func (s *ServerContext) preview(ctx context.Context, name string) ([]byte, error) {
	s.previewMu.Lock()
	defer s.previewMu.Unlock()

	if data, ok := s.previews[name]; ok {
		return data, nil
	}

	fence, ok := s.fence(name)
	if !ok {
		return nil, fmt.Errorf("fence %q not found", name)
	}

	key := previewKey(fence.Name, s.PreviewSize)
	if s.Redis != nil {
		data, err := s.Redis.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			PreviewCacheTotal.WithLabelValues("hit").Inc()
			s.previews[name] = data
			return data, nil
		case errors.Is(err, redis.Nil):
			PreviewCacheTotal.WithLabelValues("miss").Inc()
		default:
			PreviewCacheTotal.WithLabelValues("error").Inc()
			log.Warn().Err(err).Str("key", key).Msg("Preview cache lookup failed")
		}
	}

	data, err := processor.PreviewBytes(fence.Coordinates, s.PreviewSize, s.PreviewConcurrency)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("fence", name).Int("bytes", len(data)).Msg("Preview rendered")
	s.previews[name] = data

	if s.Redis != nil {
		ttl := s.PreviewTTL
		if ttl <= 0 {
			ttl = DefaultPreviewTTL
		}
		if err := s.Redis.Set(ctx, key, data, ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Preview cache store failed")
		}
	}

	return data, nil
}
