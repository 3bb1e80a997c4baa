package redis

import (
	"context"
	"errors"
	"time"

	"github.com/Drashti7312/FinancialChatBot/internal/config"

	redis "github.com/redis/go-redis/v9"
)

const dialTimeout = 3 * time.Second

// ErrCacheMiss mirrors redis.Nil for callers.
var ErrCacheMiss = redis.Nil

var errNotConnected = errors.New("redis client not initialized")

// Client is a small wrapper around go-redis. A nil Client is usable and
// reports errNotConnected from every call, so the language cache degrades
// to misses when redis is not deployed.
type Client struct {
	rc *redis.Client
}

// NewRedisClient dials redis using the app config and verifies the
// connection with a ping before returning.
func NewRedisClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	addr := cfg.Redis.Addr
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	rc := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		rc.Close()
		return nil, err
	}
	return &Client{rc: rc}, nil
}

func (c *Client) conn() (*redis.Client, error) {
	if c == nil || c.rc == nil {
		return nil, errNotConnected
	}
	return c.rc, nil
}

// Get fetches the key as a string. Missing keys return ErrCacheMiss.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	rc, err := c.conn()
	if err != nil {
		return "", err
	}
	return rc.Get(ctx, key).Result()
}

// Set stores a key. A zero ttl means no expiry.
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	rc, err := c.conn()
	if err != nil {
		return err
	}
	return rc.Set(ctx, key, value, ttl).Err()
}

// Del removes the given keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	rc, err := c.conn()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return rc.Del(ctx, keys...).Err()
}

func (c *Client) Close() error {
	rc, err := c.conn()
	if err != nil {
		return nil
	}
	return rc.Close()
}
