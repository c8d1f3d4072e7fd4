package fetchers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	currency "github.com/malusev998/currency-converter"
)

const DefaultTimeout = 10 * time.Second

type (
	// ExchangeRateAPIFetcher reads rate tables from an exchangerate-api compatible service.
	// It owns one http.Client for its whole lifetime.
	ExchangeRateAPIFetcher struct {
		url    string
		client *http.Client
		now    func() time.Time
	}
)

var _ currency.Fetcher = (*ExchangeRateAPIFetcher)(nil)

func NewExchangeRateAPIFetcher(url string, timeout time.Duration) *ExchangeRateAPIFetcher {
	if url == "" {
		url = ExchangeRateAPIURL
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &ExchangeRateAPIFetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// Fetch performs a single GET for base. Only transport errors wrap
// currency.ErrUnreachable; any response from the server, whatever its status,
// is a plain request error.
func (e *ExchangeRateAPIFetcher) Fetch(ctx context.Context, base string) (currency.RateTable, error) {
	base = currency.NormalizeCode(base)

	if base == "" {
		return currency.RateTable{}, currency.NewRequestError(ErrEmptyBase)
	}

	req, err := getData(ctx, e.url, base)

	if err != nil {
		return currency.RateTable{}, currency.NewRequestError(err)
	}

	res, err := e.client.Do(req)

	if err != nil {
		return currency.RateTable{}, currency.NewRequestError(transportError(err))
	}

	defer res.Body.Close()

	if err := handleHTTPStatusCodeError(res); err != nil {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, res.Body)

		return currency.RateTable{}, currency.NewRequestError(err)
	}

	var data exchangeRateAPIResponse

	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return currency.RateTable{}, currency.NewRequestError(fmt.Errorf("failed to decode response: %w", err))
	}

	if data.Rates == nil {
		return currency.RateTable{}, currency.NewRequestError(ErrEmptyResult)
	}

	return currency.NewRateTable(base, data.Rates, e.now()), nil
}
