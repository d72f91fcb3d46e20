package rediscache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Xausdorf/pix-pay-hub/internal/domain/entity"
)

const keyPrefix = "pix:charge-status:"

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, id string) (entity.ChargeStatus, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entity.ChargeStatus(val), true, nil
}

func (c *Cache) Set(ctx context.Context, id string, status entity.ChargeStatus, ttl time.Duration) error {
	return c.client.Set(ctx, keyPrefix+id, string(status), ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, keyPrefix+id).Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
