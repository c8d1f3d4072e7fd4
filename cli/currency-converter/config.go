package main

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/fetchers"
	"github.com/malusev998/currency-converter/services"
	"github.com/malusev998/currency-converter/storage"
)

type (
	providerSettings struct {
		Fetcher currency.Provider `mapstructure:"fetcher"`
		Storage struct {
			Provider storage.Provider `mapstructure:"provider"`
		} `mapstructure:"storage"`
	}

	Config struct {
		Fetcher         currency.Provider
		FetcherConfig   interface{}
		Storage         storage.Provider
		StorageConfig   interface{}
		Attempts        uint
		Backoff         time.Duration
		DisableFallback bool
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("fetcher", string(currency.ExchangeRateAPIProvider))
	v.SetDefault("api.url", fetchers.ExchangeRateAPIURL)
	v.SetDefault("api.timeout", fetchers.DefaultTimeout)
	v.SetDefault("api.attempts", 1)
	v.SetDefault("api.backoff", services.DefaultBackoff)
	v.SetDefault("fallback", true)
	v.SetDefault("migrate", true)

	v.SetDefault("storage.provider", string(storage.File))
	v.SetDefault("storage.file.path", storage.DefaultSnapshotFile)
	v.SetDefault("storage.bolt.path", storage.DefaultBoltFile)
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.key", storage.DefaultRedisKey)
	v.SetDefault("storage.mysql.addr", "localhost:3306")
	v.SetDefault("storage.mysql.table", storage.DefaultMySQLTable)
	v.SetDefault("storage.mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("storage.mongodb.database", storage.DefaultMongoDatabase)
	v.SetDefault("storage.mongodb.collection", storage.DefaultMongoCollection)
}

// providerDecodeHook parses provider names while viper decodes the settings,
// so a misspelled provider fails before anything is built.
func providerDecodeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}

	switch to {
	case reflect.TypeOf(currency.EmptyProvider):
		return currency.ConvertToProviderFromString(reflect.ValueOf(data).String())
	case reflect.TypeOf(storage.File):
		return storage.ConvertToProviderFromString(reflect.ValueOf(data).String())
	}

	return data, nil
}

func getProviders(v *viper.Viper) (providerSettings, error) {
	var settings providerSettings

	if err := v.Unmarshal(&settings, viper.DecodeHook(providerDecodeHook)); err != nil {
		return providerSettings{}, fmt.Errorf("error while parsing providers: %w", err)
	}

	return settings, nil
}

func getFetcherConfig(v *viper.Viper, provider currency.Provider) (interface{}, error) {
	switch provider {
	case currency.ExchangeRateAPIProvider:
		return fetchers.ExchangeRateAPIConfig{
			BaseConfig: fetchers.BaseConfig{
				URL:     v.GetString("api.url"),
				Timeout: v.GetDuration("api.timeout"),
			},
		}, nil
	case currency.FixedProvider:
		rates := make(map[string]float64)
		if err := v.UnmarshalKey("fixed.rates", &rates); err != nil {
			return nil, fmt.Errorf("error while parsing fixed.rates: %w", err)
		}

		// viper lower-cases map keys
		normalized := make(map[string]float64, len(rates))
		for code, rate := range rates {
			normalized[currency.NormalizeCode(code)] = rate
		}

		return fetchers.FixedConfig{Rates: normalized}, nil
	}

	return nil, fmt.Errorf("fetcher %s does not exist", provider)
}

func getStorageConfig(ctx context.Context, v *viper.Viper, provider storage.Provider) (interface{}, error) {
	base := storage.BaseConfig{
		Ctx:     ctx,
		Migrate: v.GetBool("migrate"),
	}

	switch provider {
	case storage.File:
		return storage.FileConfig{Path: v.GetString("storage.file.path")}, nil
	case storage.Bolt:
		return storage.BoltConfig{Path: v.GetString("storage.bolt.path")}, nil
	case storage.Redis:
		return storage.RedisConfig{
			BaseConfig: base,
			Addr:       v.GetString("storage.redis.addr"),
			Password:   v.GetString("storage.redis.password"),
			DB:         v.GetInt("storage.redis.db"),
			Key:        v.GetString("storage.redis.key"),
		}, nil
	case storage.MySQL:
		return storage.MySQLConfig{
			BaseConfig: base,
			ConnectionString: storage.MySQLDSN(storage.MySQLDSNConfig{
				User:     v.GetString("storage.mysql.user"),
				Password: v.GetString("storage.mysql.password"),
				Addr:     v.GetString("storage.mysql.addr"),
				DBName:   v.GetString("storage.mysql.db"),
			}),
			TableName: v.GetString("storage.mysql.table"),
		}, nil
	case storage.MongoDB:
		return storage.MongoDBConfig{
			BaseConfig:       base,
			ConnectionString: v.GetString("storage.mongodb.uri"),
			Database:         v.GetString("storage.mongodb.database"),
			Collection:       v.GetString("storage.mongodb.collection"),
		}, nil
	}

	return nil, storage.ErrStorageNotFound
}

func getConfig(ctx context.Context, v *viper.Viper) (*Config, error) {
	setDefaults(v)

	providers, err := getProviders(v)
	if err != nil {
		return nil, err
	}

	fetcher, storageProvider := providers.Fetcher, providers.Storage.Provider

	fetcherConfig, err := getFetcherConfig(v, fetcher)
	if err != nil {
		return nil, err
	}

	storageConfig, err := getStorageConfig(ctx, v, storageProvider)
	if err != nil {
		return nil, err
	}

	attempts := v.GetInt("api.attempts")
	if attempts < 1 {
		return nil, fmt.Errorf("api.attempts must be at least 1, got %d", attempts)
	}

	return &Config{
		Fetcher:         fetcher,
		FetcherConfig:   fetcherConfig,
		Storage:         storageProvider,
		StorageConfig:   storageConfig,
		Attempts:        uint(attempts),
		Backoff:         v.GetDuration("api.backoff"),
		DisableFallback: !v.GetBool("fallback"),
	}, nil
}
