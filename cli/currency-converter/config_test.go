package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/fetchers"
	"github.com/malusev998/currency-converter/services"
	"github.com/malusev998/currency-converter/storage"
)

func TestGetConfig_Defaults(t *testing.T) {
	asserts := require.New(t)

	config, err := getConfig(context.Background(), viper.New())

	asserts.Nil(err)
	asserts.Equal(currency.ExchangeRateAPIProvider, config.Fetcher)
	asserts.Equal(fetchers.ExchangeRateAPIConfig{
		BaseConfig: fetchers.BaseConfig{URL: fetchers.ExchangeRateAPIURL, Timeout: fetchers.DefaultTimeout},
	}, config.FetcherConfig)
	asserts.Equal(storage.File, config.Storage)
	asserts.Equal(storage.FileConfig{Path: storage.DefaultSnapshotFile}, config.StorageConfig)
	asserts.Equal(uint(1), config.Attempts)
	asserts.Equal(services.DefaultBackoff, config.Backoff)
	asserts.False(config.DisableFallback)
}

func TestGetConfig(t *testing.T) {
	t.Parallel()

	t.Run("FixedFetcher", func(t *testing.T) {
		asserts := require.New(t)
		v := viper.New()
		v.Set("fetcher", "fixed")
		v.Set("fixed.rates", map[string]interface{}{"EUR": 0.9, "GBP": "0.78"})
		v.Set("fallback", false)
		v.Set("api.attempts", 3)
		v.Set("api.backoff", "1s")

		config, err := getConfig(context.Background(), v)

		asserts.Nil(err)
		asserts.Equal(currency.FixedProvider, config.Fetcher)
		asserts.Equal(fetchers.FixedConfig{Rates: map[string]float64{"EUR": 0.9, "GBP": 0.78}}, config.FetcherConfig)
		asserts.True(config.DisableFallback)
		asserts.Equal(uint(3), config.Attempts)
		asserts.Equal(time.Second, config.Backoff)
	})

	t.Run("MySQLStorage", func(t *testing.T) {
		asserts := require.New(t)
		v := viper.New()
		v.Set("storage.provider", "mysql")
		v.Set("storage.mysql.user", "root")
		v.Set("storage.mysql.password", "secret")
		v.Set("storage.mysql.db", "currency")

		config, err := getConfig(context.Background(), v)

		asserts.Nil(err)
		asserts.Equal(storage.MySQL, config.Storage)

		mysqlConfig, ok := config.StorageConfig.(storage.MySQLConfig)
		asserts.True(ok)
		asserts.Equal("root:secret@tcp(localhost:3306)/currency", mysqlConfig.ConnectionString)
		asserts.Equal(storage.DefaultMySQLTable, mysqlConfig.TableName)
		asserts.True(mysqlConfig.Migrate)
	})

	t.Run("RedisStorage", func(t *testing.T) {
		asserts := require.New(t)
		v := viper.New()
		v.Set("storage.provider", "redis")
		v.Set("storage.redis.addr", "cache:6379")
		v.Set("storage.redis.db", 2)

		config, err := getConfig(context.Background(), v)

		asserts.Nil(err)

		redisConfig, ok := config.StorageConfig.(storage.RedisConfig)
		asserts.True(ok)
		asserts.Equal("cache:6379", redisConfig.Addr)
		asserts.Equal(2, redisConfig.DB)
		asserts.Equal(storage.DefaultRedisKey, redisConfig.Key)
	})

	t.Run("InvalidFetcher", func(t *testing.T) {
		asserts := require.New(t)
		v := viper.New()
		v.Set("fetcher", "freecurrconv")

		_, err := getConfig(context.Background(), v)

		asserts.Error(err)
		asserts.Contains(err.Error(), "value freecurrconv is not valid Provider")
	})

	t.Run("ParsesProviderNames", func(t *testing.T) {
		asserts := require.New(t)
		v := viper.New()
		v.Set("fetcher", " Fixed ")
		v.Set("storage.provider", "BBOLT")
		v.Set("storage.bolt.path", filepath.Join(t.TempDir(), storage.DefaultBoltFile))

		config, err := getConfig(context.Background(), v)

		asserts.Nil(err)
		asserts.Equal(currency.FixedProvider, config.Fetcher)
		asserts.Equal(storage.Bolt, config.Storage)
	})

	t.Run("InvalidStorage", func(t *testing.T) {
		asserts := require.New(t)
		v := viper.New()
		v.Set("storage.provider", "postgres")

		_, err := getConfig(context.Background(), v)

		asserts.Error(err)
	})

	t.Run("InvalidAttempts", func(t *testing.T) {
		asserts := require.New(t)
		v := viper.New()
		v.Set("api.attempts", 0)

		_, err := getConfig(context.Background(), v)

		asserts.Error(err)
	})
}

func TestBuild(t *testing.T) {
	asserts := require.New(t)
	v := viper.New()
	v.Set("fetcher", "fixed")
	v.Set("fixed.rates", map[string]interface{}{"EUR": 0.5})
	v.Set("storage.file.path", filepath.Join(t.TempDir(), storage.DefaultSnapshotFile))

	built, err := build(context.Background(), v, hclog.NewNullLogger())
	asserts.Nil(err)

	defer func() {
		asserts.Nil(built.Close())
	}()

	result, err := built.Conversion.Convert(context.Background(), 10, "USD", "EUR")
	asserts.Nil(err)
	asserts.InEpsilon(5.0, result, 1e-9)

	table, err := built.Refresher.Refresh(context.Background(), "USD")
	asserts.Nil(err)
	asserts.Equal("USD", table.Base)
	asserts.Equal(0.5, table.Rates["EUR"])
}
