package fetchers

import (
	"fmt"
	"time"

	currency "github.com/malusev998/currency-converter"
)

type (
	BaseConfig struct {
		URL     string
		Timeout time.Duration
	}
	ExchangeRateAPIConfig struct {
		BaseConfig
	}
	FixedConfig struct {
		Rates map[string]float64
	}
)

func NewCurrencyFetcher(provider currency.Provider, config interface{}) (currency.Fetcher, error) {
	switch provider {
	case currency.ExchangeRateAPIProvider:
		c, ok := config.(ExchangeRateAPIConfig)
		if !ok {
			return nil, fmt.Errorf("invalid config %T for fetcher %s", config, provider)
		}

		return NewExchangeRateAPIFetcher(c.URL, c.Timeout), nil
	case currency.FixedProvider:
		c, ok := config.(FixedConfig)
		if !ok {
			return nil, fmt.Errorf("invalid config %T for fetcher %s", config, provider)
		}

		return FixedFetcher{Rates: c.Rates}, nil
	}

	return nil, fmt.Errorf("fetcher %s does not exist", provider)
}
