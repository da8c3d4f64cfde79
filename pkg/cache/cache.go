// Package cache is a small two-tier cache: redis when configured, transient
// files under the cache directory otherwise. The admin "clear cache" action
// wipes both.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "smcache:"

type Cache struct {
	rdb *redis.Client
	dir string
}

func New(rdb *redis.Client, dir string) *Cache {
	return &Cache{rdb: rdb, dir: dir}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.rdb != nil {
		val, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
		if err == nil {
			return val, true
		}
		return nil, false
	}

	data, err := os.ReadFile(c.filePath(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.rdb != nil {
		return c.rdb.Set(ctx, keyPrefix+key, value, ttl).Err()
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	// File entries carry no TTL; they only live until the next cache clear.
	return os.WriteFile(c.filePath(key), value, 0o644)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if c.rdb != nil {
		return c.rdb.Del(ctx, keyPrefix+key).Err()
	}
	err := os.Remove(c.filePath(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes every cache file and every redis key under the cache prefix.
// Redis keys are collected with cursor SCAN so large keyspaces are not blocked.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	removed := 0

	entries, err := os.ReadDir(c.dir)
	if err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err == nil {
			removed++
		}
	}

	if c.rdb == nil {
		return removed, nil
	}

	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return removed, err
			}
			removed += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return removed, nil
}

func (c *Cache) filePath(key string) string {
	sum := sha1.Sum([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".cache")
}
