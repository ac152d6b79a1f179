package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/marquee/internal/domain"
)

// DefaultCacheTTL is the default TTL for cached movie details (1 hour)
const DefaultCacheTTL = time.Hour

// SetMovie stores a movie detail in cache
func (s *Store) SetMovie(ctx context.Context, m domain.Movie, ttl time.Duration) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal movie: %w", err)
	}
	if err := s.client.Set(ctx, MovieKey(m.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache movie: %w", err)
	}
	return nil
}

// GetMovie retrieves a cached movie detail. A miss returns ok=false.
func (s *Store) GetMovie(ctx context.Context, id int64) (domain.Movie, bool, error) {
	data, err := s.client.Get(ctx, MovieKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Movie{}, false, nil // Cache miss
		}
		return domain.Movie{}, false, fmt.Errorf("failed to get cached movie: %w", err)
	}

	var m domain.Movie
	if err := json.Unmarshal(data, &m); err != nil {
		return domain.Movie{}, false, fmt.Errorf("failed to unmarshal movie: %w", err)
	}
	return m, true, nil
}

// InvalidateMovie removes a cached movie detail
func (s *Store) InvalidateMovie(ctx context.Context, id int64) error {
	if err := s.client.Del(ctx, MovieKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

// FlushCache removes all cached movie details and returns how many were removed
func (s *Store) FlushCache(ctx context.Context) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixMovie+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("failed to delete cache key: %w", err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to flush cache: %w", err)
	}
	return removed, nil
}
