package common

import (
	"encoding/json"
	"time"
)

// CacheInterface defines the contract for cache implementations.
// Values are opaque bytes so the in-memory and Redis backends behave the same.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value []byte, duration time.Duration)

	// Get retrieves a value from cache by key
	Get(key string) ([]byte, bool)

	// Delete removes a value from cache by key
	Delete(key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// GetOrLoadJSON returns the cached value for key, or calls loader and caches
// its JSON encoding. hit reports whether the cache answered.
func GetOrLoadJSON[T any](c CacheInterface, key string, duration time.Duration, loader func() (T, error)) (value T, hit bool, err error) {
	if raw, found := c.Get(key); found {
		if err := json.Unmarshal(raw, &value); err == nil {
			return value, true, nil
		}
		// corrupt entry, fall through and reload
		c.Delete(key)
	}

	value, err = loader()
	if err != nil {
		return value, false, err
	}

	if raw, mErr := json.Marshal(value); mErr == nil {
		c.Set(key, raw, duration)
	}
	return value, false, nil
}
