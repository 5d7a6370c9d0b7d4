package redis

import "time"

// Config holds Redis connection and publishing settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// Channel suffix notifications are published on
	Channel string

	// Recent feed settings; a zero limit disables the feed
	RecentLimit int
	RecentTTL   time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     4,
		MinIdleConns: 1,
		Channel:      "notifications",
		RecentLimit:  50,
		RecentTTL:    24 * time.Hour,
	}
}
