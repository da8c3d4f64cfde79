package database

import (
	"log"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns nil when no REDIS_URL is configured; callers treat a
// nil client as "caching disabled".
func ConnectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("invalid REDIS_URL, running without redis: %v", err)
		return nil
	}

	return redis.NewClient(opts)
}
