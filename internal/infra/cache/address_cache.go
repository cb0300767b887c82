package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
	"go.uber.org/zap"
)

const defaultKeyPrefix = "cep:"

// AddressCache is a read-through cache in front of an AddressLookup. Redis failures never
// fail a lookup; they only skip the cache.
type AddressCache struct {
	client    redis.Cmdable
	next      usecase.AddressLookup
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient opens and pings a Redis connection.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewAddressCache(client redis.Cmdable, next usecase.AddressLookup, ttl time.Duration, logger *zap.Logger) *AddressCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressCache{
		client:    client,
		next:      next,
		ttl:       ttl,
		keyPrefix: defaultKeyPrefix,
		logger:    logger,
	}
}

func (c *AddressCache) Lookup(ctx context.Context, postalCode string) (*entity.Address, error) {
	key := c.keyPrefix + postalCode

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var addr entity.Address
		if jsonErr := json.Unmarshal(raw, &addr); jsonErr == nil {
			return &addr, nil
		}
		c.logger.Warn("discarding corrupt address cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("address cache read failed", zap.String("key", key), zap.Error(err))
	}

	addr, err := c.next.Lookup(ctx, postalCode)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(addr); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("address cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return addr, nil
}
