package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	currency "github.com/malusev998/currency-converter"
)

const DefaultRedisKey = "currency-converter:snapshot"

type redisStorage struct {
	client *redis.Client
	key    string
}

func NewRedisStorage(config RedisConfig) (currency.Storage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if _, err := client.Ping(contextOrBackground(config.Ctx)).Result(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisStorageFromClient(client, config.Key), nil
}

func newRedisStorageFromClient(client *redis.Client, key string) currency.Storage {
	if key == "" {
		key = DefaultRedisKey
	}

	return redisStorage{client: client, key: key}
}

func (r redisStorage) Save(ctx context.Context, table currency.RateTable) error {
	data, err := encodeSnapshot(table)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}

	return nil
}

func (r redisStorage) Load(ctx context.Context) (currency.RateTable, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()

	if errors.Is(err, redis.Nil) {
		return currency.RateTable{}, fmt.Errorf("redis key %s: %w", r.key, currency.ErrSnapshotNotFound)
	}

	if err != nil {
		return currency.RateTable{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	return decodeSnapshot(data)
}

func (r redisStorage) GetStorageProviderName() string {
	return "redis"
}

func (r redisStorage) Close() error {
	return r.client.Close()
}
