package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Service defines the cache operations the application depends on.
// Entries are only ever replaced wholesale, never partially mutated.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
	Close() error
}

// GenerateKey creates a cache key with prefix and ID.
func GenerateKey(prefix string, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}

// GetTyped retrieves a key and returns it as T. A miss is reported as
// (zero, false, nil); backend failures surface as errors.
func GetTyped[T any](ctx context.Context, c Service, key string) (T, bool, error) {
	var v T
	err := c.Get(ctx, key, &v)
	if err == nil {
		return v, true, nil
	}
	if errors.Is(err, ErrCacheMiss) {
		return v, false, nil
	}
	return v, false, err
}
