package currency

import "context"

type (
	// Conversion converts amount of from into to.
	Conversion interface {
		Convert(ctx context.Context, amount float64, from, to string) (float64, error)
	}

	// Refresher fetches the rates for base and replaces the stored snapshot with them.
	Refresher interface {
		Refresh(ctx context.Context, base string) (RateTable, error)
	}
)
