package config

import "time"

// CacheConfig defines settings for the Redis user cache. When Enabled is
// false or no Redis client is configured, lookups go straight to the store.
// TTL bounds how long a cached record may lag behind a write made by
// another instance; Prefix namespaces the keys.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads USER_CACHE_* variables. Defaults are used when
// variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("USER_CACHE_ENABLED", true),
		TTL:     envDur("USER_CACHE_TTL", 60*time.Second),
		Prefix:  getenv("USER_CACHE_PREFIX", "accounts"),
	}
}
