package currency

import "context"

type (
	// Fetcher retrieves the full rate table for a base currency from a remote source.
	// Implementations make exactly one attempt per call.
	Fetcher interface {
		Fetch(ctx context.Context, base string) (RateTable, error)
	}

	// RateProvider resolves the rate between two currency codes.
	RateProvider interface {
		GetExchangeRate(ctx context.Context, from, to string) (float64, error)
	}
)
