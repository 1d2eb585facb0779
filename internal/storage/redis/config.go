package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings; zero keeps the key forever
	ArrangementTTL time.Duration
	AttendeesTTL   time.Duration
	ViewStateTTL   time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       10,
		MinIdleConns:   2,
		ArrangementTTL: 0,
		AttendeesTTL:   0,
		ViewStateTTL:   30 * 24 * time.Hour,
	}
}
