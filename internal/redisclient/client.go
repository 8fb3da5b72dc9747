package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func hashKey(hash string) string {
	return fmt.Sprintf("obs-hash:%s", hash)
}

// ClaimHash atomically claims an observation hash for the given TTL.
// Returns true when the hash was unseen, false when another writer already
// holds it. Best-effort only: the storage layer's unique index is the final
// word under concurrent imports.
func (c *Client) ClaimHash(ctx context.Context, hash string, observationID int64, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, hashKey(hash), observationID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim hash failed: %w", err)
	}
	return ok, nil
}

// SeenHash reports whether a hash is in the cache, and the observation id it
// maps to when known
func (c *Client) SeenHash(ctx context.Context, hash string) (bool, int64, error) {
	val, err := c.rdb.Get(ctx, hashKey(hash)).Result()
	if err == redis.Nil {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	id, _ := strconv.ParseInt(val, 10, 64)
	return true, id, nil
}

// MarkHash records a hash -> observation id mapping with a TTL, overwriting
// any existing claim
func (c *Client) MarkHash(ctx context.Context, hash string, observationID int64, ttl time.Duration) error {
	return c.rdb.Set(ctx, hashKey(hash), observationID, ttl).Err()
}

// ForgetHash drops a cached hash, used when an observation is archived or
// an insert fails after a claim
func (c *Client) ForgetHash(ctx context.Context, hash string) error {
	return c.rdb.Del(ctx, hashKey(hash)).Err()
}

// CachePackSize stores a SKU's units-per-pack for catalog read-through
func (c *Client) CachePackSize(ctx context.Context, skuID int64, unitsPerPack int, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("sku-pack:%d", skuID), unitsPerPack, ttl).Err()
}

// GetPackSize retrieves a cached units-per-pack; found is false on a miss
func (c *Client) GetPackSize(ctx context.Context, skuID int64) (int, bool, error) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf("sku-pack:%d", skuID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	size, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, nil
	}
	return size, true, nil
}
