package services

import (
	"context"
	"errors"
	"fmt"
	"math"


	currency "github.com/malusev998/currency-converter"
)

var (
	ErrNoRateProvider = errors.New("no rate provider")
	ErrInvalidAmount  = errors.New("amount is not a finite number")
)

type ConversionService struct {
	Provider currency.RateProvider
}

var _ currency.Conversion = ConversionService{}

// Convert returns amount * rate for the rate between from and to. Rounding is
// left to the caller. Provider errors are wrapped, never interpreted.
func (c ConversionService) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	if c.Provider == nil {
		return 0, ErrNoRateProvider
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}

	rate, err := c.Provider.GetExchangeRate(ctx, currency.NormalizeCode(from), currency.NormalizeCode(to))

	if err != nil {
		return 0, fmt.Errorf("error getting exchange rate: %w", err)
	}

	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, fmt.Errorf("error getting exchange rate: invalid rate %v from %s to %s", rate, from, to)
	}

	return amount * rate, nil
}
