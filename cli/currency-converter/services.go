package main

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/cli/cmd"
	"github.com/malusev998/currency-converter/fetchers"
	"github.com/malusev998/currency-converter/services"
	"github.com/malusev998/currency-converter/storage"
)

func createStorage(config *Config) (currency.Storage, error) {
	return storage.NewStorage(config.Storage, config.StorageConfig)
}

func createFetcher(config *Config) (currency.Fetcher, error) {
	return fetchers.NewCurrencyFetcher(config.Fetcher, config.FetcherConfig)
}

func build(ctx context.Context, v *viper.Viper, logger hclog.Logger) (*cmd.Services, error) {
	config, err := getConfig(ctx, v)
	if err != nil {
		return nil, err
	}

	fetcher, err := createFetcher(config)
	if err != nil {
		return nil, err
	}

	st, err := createStorage(config)
	if err != nil {
		return nil, err
	}

	logger.Debug("services configured",
		"fetcher", config.Fetcher,
		"storage", st.GetStorageProviderName(),
		"attempts", config.Attempts,
		"fallback", !config.DisableFallback,
	)

	rates := &services.RateService{
		Fetcher:         fetcher,
		Storage:         st,
		Attempts:        config.Attempts,
		Backoff:         config.Backoff,
		DisableFallback: config.DisableFallback,
		Logger:          logger.Named("rates"),
	}

	return &cmd.Services{
		Conversion: services.ConversionService{Provider: rates},
		Refresher:  rates,
		Close:      st.Close,
	}, nil
}
