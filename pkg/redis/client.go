package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ecofinds/ecofinds-backend/pkg/config"
	apperrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
)

// keyNamespace prefixes every key the service writes.
const keyNamespace = "ecofinds"

// Client wraps the go-redis client with the key conventions the service uses.
type Client struct {
	rdb *goredis.Client
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	opts, err := buildOptions(cfg)
	if err != nil {
		return nil, err
	}

	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "redis ping failed")
	}
	return &Client{rdb: rdb}, nil
}

func buildOptions(cfg config.RedisConfig) (*goredis.Options, error) {
	if cfg.URL != "" {
		opts, err := goredis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		return opts, nil
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("either redis url or address is required")
	}
	return &goredis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "redis ping failed")
	}
	return nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Get returns the value and true, or "" and false when the key is absent.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperrors.Wrap(apperrors.CodeDependency, err, "redis get failed")
	}
	return val, true, nil
}

func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "redis set failed")
	}
	return nil
}

// SetNX stores the value only when the key is absent and reports whether it won.
func (c *Client) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, apperrors.Wrap(apperrors.CodeDependency, err, "redis setnx failed")
	}
	return ok, nil
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "redis del failed")
	}
	return nil
}

// FixedWindowAllow counts a hit against the key and reports whether the count
// stays within limit for the window. The window TTL is set on the first hit.
func (c *Client) FixedWindowAllow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, apperrors.Wrap(apperrors.CodeDependency, err, "redis rate limit check failed")
	}
	return incr.Val() <= int64(limit), nil
}

// RateLimitKey builds the counter key for a rate-limited scope and subject.
func RateLimitKey(scope string, parts ...string) string {
	return buildKey(append([]string{"ratelimit", scope}, parts...)...)
}

// IdempotencyKey builds the reservation key for a checkout idempotency token.
func IdempotencyKey(userID, token string) string {
	return buildKey("idempotency", "checkout", userID, token)
}

func buildKey(parts ...string) string {
	cleaned := make([]string, 0, len(parts)+1)
	cleaned = append(cleaned, keyNamespace)
	for _, part := range parts {
		cleaned = append(cleaned, strings.ToLower(strings.TrimSpace(part)))
	}
	return strings.Join(cleaned, ":")
}
