package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	currency "github.com/malusev998/currency-converter"
)

type (
	Provider   string
	BaseConfig struct {
		Ctx     context.Context
		Migrate bool
	}
	FileConfig struct {
		Path string
	}
	BoltConfig struct {
		Path string
	}
	RedisConfig struct {
		BaseConfig
		Addr     string
		Password string
		DB       int
		Key      string
	}
	MySQLConfig struct {
		BaseConfig
		ConnectionString string
		TableName        string
	}
	MongoDBConfig struct {
		BaseConfig
		ConnectionString string
		Database         string
		Collection       string
	}
)

const (
	File    Provider = "file"
	Bolt    Provider = "bolt"
	Redis   Provider = "redis"
	MySQL   Provider = "mysql"
	MongoDB Provider = "mongodb"
)

var (
	ErrStorageNotFound = errors.New("storage is not found")
	ErrInvalidConfig   = errors.New("invalid storage config")
)

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "file", "":
		return File, nil
	case "bolt", "bbolt":
		return Bolt, nil
	case "redis":
		return Redis, nil
	case "mysql":
		return MySQL, nil
	case "mongodb", "mongo":
		return MongoDB, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}

func NewStorage(provider Provider, config interface{}) (currency.Storage, error) {
	switch provider {
	case File:
		c, ok := config.(FileConfig)
		if !ok {
			return nil, fmt.Errorf("%w: %T for %s", ErrInvalidConfig, config, provider)
		}

		return NewFileStorage(c.Path), nil
	case Bolt:
		c, ok := config.(BoltConfig)
		if !ok {
			return nil, fmt.Errorf("%w: %T for %s", ErrInvalidConfig, config, provider)
		}

		return NewBoltStorage(c.Path)
	case Redis:
		c, ok := config.(RedisConfig)
		if !ok {
			return nil, fmt.Errorf("%w: %T for %s", ErrInvalidConfig, config, provider)
		}

		return NewRedisStorage(c)
	case MySQL:
		c, ok := config.(MySQLConfig)
		if !ok {
			return nil, fmt.Errorf("%w: %T for %s", ErrInvalidConfig, config, provider)
		}

		return NewMySQLStorage(c)
	case MongoDB:
		c, ok := config.(MongoDBConfig)
		if !ok {
			return nil, fmt.Errorf("%w: %T for %s", ErrInvalidConfig, config, provider)
		}

		return NewMongoStorage(c)
	}

	return nil, ErrStorageNotFound
}

func encodeSnapshot(table currency.RateTable) ([]byte, error) {
	return json.Marshal(table)
}

// decodeSnapshot parses a stored table and normalizes it the same way a fetched one is.
func decodeSnapshot(data []byte) (currency.RateTable, error) {
	var table currency.RateTable

	if err := json.Unmarshal(data, &table); err != nil {
		return currency.RateTable{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	if table.Rates == nil {
		return currency.RateTable{}, errors.New("failed to parse snapshot: rates are missing")
	}

	return currency.NewRateTable(table.Base, table.Rates, table.FetchedAt), nil
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}

	return ctx
}
