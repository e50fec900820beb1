package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var RedisClient *redis.Client
var redisEnabled bool

// InitRedis connects to Redis. An unreachable server is not fatal: the caller
// gets a nil client and games are kept in memory only.
func InitRedis(ctx context.Context, url, password string) *redis.Client {
	opts, err := parseOptions(url, password)
	if err != nil {
		log.Warn().Err(err).Msg("[REDIS] Invalid REDIS_URL, snapshots stay in memory")
		return nil
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Msg("[REDIS] Could not connect, snapshots stay in memory")
		client.Close()
		redisEnabled = false
		return nil
	}

	RedisClient = client
	redisEnabled = true
	log.Info().Str("addr", opts.Addr).Msg("[REDIS] Connected successfully")
	return client
}

// parseOptions accepts both redis:// URLs and bare host:port addresses.
func parseOptions(url, password string) (*redis.Options, error) {
	if strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://") {
		opts, err := redis.ParseURL(url)
		if err != nil {
			return nil, err
		}
		if password != "" {
			opts.Password = password
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     url,
		Password: password,
		DB:       0,
	}, nil
}

func IsRedisEnabled() bool {
	return redisEnabled
}

func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// RedisCache acts as a wrapper around redis.Client to implement CacheRepository interface
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}
