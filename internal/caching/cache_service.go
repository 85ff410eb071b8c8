package caching

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"invoicedash/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "invoicedash:"

type CacheService interface {
	// View caching, keyed by route path and a variant (query string, page, id)
	GetView(ctx context.Context, path, variant string, dst any) (bool, error)
	SetView(ctx context.Context, path, variant string, value any, ttl time.Duration) error
	// RevalidatePath drops every cached variant under path so the next read recomputes it
	RevalidatePath(ctx context.Context, path string) error

	// Generic JSON values
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error

	// Sessions
	RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, tokenID string) (bool, error)

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	ResetRateLimit(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisClient builds a client, accepting either host:port or a redis:// URL
func NewRedisClient(addr, password string, db int) *redis.Client {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if opts, err := redis.ParseURL(addr); err == nil {
			if password != "" {
				opts.Password = password
			}
			return redis.NewClient(opts)
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		config.GetLogger().WithFields(logrus.Fields{"module": "caching", "addr": addr}).
			Warnf("redis ping failed on initialization: %v", pingErr)
	}
	return client
}

func NewRedisCacheService(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func viewKey(path, variant string) string {
	return keyPrefix + "view:" + path + "|" + variant
}

func (r *redisCacheService) GetView(ctx context.Context, path, variant string, dst any) (bool, error) {
	return r.GetJSON(ctx, viewKey(path, variant), dst)
}

func (r *redisCacheService) SetView(ctx context.Context, path, variant string, value any, ttl time.Duration) error {
	return r.SetJSON(ctx, viewKey(path, variant), value, ttl)
}

func (r *redisCacheService) RevalidatePath(ctx context.Context, path string) error {
	pattern := escapeGlob(keyPrefix+"view:"+path) + "*"
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return r.client.Set(ctx, keyPrefix+"revoked:"+tokenID, "1", ttl).Err()
}

func (r *redisCacheService) IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+"revoked:"+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := keyPrefix + "ratelimit:" + key
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) ResetRateLimit(ctx context.Context, key string) error {
	return r.client.Del(ctx, keyPrefix+"ratelimit:"+key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// escapeGlob quotes the characters SCAN MATCH treats as wildcards
func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
