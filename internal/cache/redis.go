package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bsavchuk/aeroreserve/config"
	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

// AcquireSeatLock is the fast-path guard ahead of the database claim: a
// SetNX keyed by seat id rejects the obvious loser of a race before it
// reaches the seats table. The ledger claim remains authoritative.
func (c *RedisCache) AcquireSeatLock(ctx context.Context, seatID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatLockKey(seatID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseSeatLock(ctx context.Context, seatID int64) error {
	return c.client.Del(ctx, seatLockKey(seatID)).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func seatLockKey(seatID int64) string {
	return fmt.Sprintf("lock:seat:%d", seatID)
}
