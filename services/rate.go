package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/sethvargo/go-retry"

	currency "github.com/malusev998/currency-converter"
)

const DefaultBackoff = 500 * time.Millisecond

var (
	ErrNoStorageProvided = errors.New("no storage provided")
	ErrEmptyRateTable    = errors.New("rate table holds no usable rates")
)

type (
	// RateService resolves rates from Fetcher and keeps Storage up to date with
	// every table it receives. When every attempt fails to reach the source,
	// the rate is answered from the stored snapshot instead.
	RateService struct {
		Fetcher currency.Fetcher
		Storage currency.Storage
		// Attempts is the number of fetches tried before giving up; zero means one.
		Attempts uint
		// Backoff is the first wait between attempts, doubled after each one.
		Backoff         time.Duration
		DisableFallback bool
		Logger          hclog.Logger
	}

	fetchResult struct {
		table    currency.RateTable
		attempts uint
		lastErr  error
		err      error
	}
)

var (
	_ currency.RateProvider = (*RateService)(nil)
	_ currency.Refresher    = (*RateService)(nil)
)

func (s *RateService) logger() hclog.Logger {
	if s.Logger == nil {
		return hclog.NewNullLogger()
	}

	return s.Logger
}

func (s *RateService) attempts() uint {
	if s.Attempts == 0 {
		return 1
	}

	return s.Attempts
}

func (s *RateService) backoff() retry.Backoff {
	base := s.Backoff
	if base <= 0 {
		base = DefaultBackoff
	}

	return retry.WithMaxRetries(uint64(s.attempts()-1), retry.NewExponential(base))
}

func (s *RateService) fetch(ctx context.Context, base string) fetchResult {
	var result fetchResult

	result.err = retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		result.attempts++

		table, err := s.Fetcher.Fetch(ctx, base)
		if err == nil {
			result.table = table

			return nil
		}

		result.lastErr = err

		if errors.Is(err, currency.ErrUnreachable) {
			s.logger().Debug("rate source unreachable", "base", base, "attempt", result.attempts, "err", err)

			return retry.RetryableError(err)
		}

		return err
	})

	return result
}

// exhausted reports whether every attempt failed to reach the source.
func (r fetchResult) exhausted(attempts uint) bool {
	return r.attempts == attempts && errors.Is(r.err, currency.ErrUnreachable)
}

func (s *RateService) GetExchangeRate(ctx context.Context, from, to string) (float64, error) {
	from, to = currency.NormalizeCode(from), currency.NormalizeCode(to)

	result := s.fetch(ctx, from)

	if result.err == nil {
		if err := s.save(ctx, result.table); err != nil {
			return 0, err
		}

		return lookup(result.table, from, to)
	}

	if result.lastErr != nil && !errors.Is(result.lastErr, currency.ErrUnreachable) {
		return 0, asRequestError(result.lastErr)
	}

	if !result.exhausted(s.attempts()) || s.DisableFallback {
		s.logger().Warn("giving up on rate source", "base", from, "attempts", result.attempts, "err", result.err)

		return 0, currency.NewNetworkExhaustedError(result.err)
	}

	return s.fromSnapshot(ctx, from, to)
}

// Refresh fetches the table for base and stores it without looking anything up.
func (s *RateService) Refresh(ctx context.Context, base string) (currency.RateTable, error) {
	base = currency.NormalizeCode(base)

	result := s.fetch(ctx, base)

	if result.err != nil {
		if result.lastErr != nil && !errors.Is(result.lastErr, currency.ErrUnreachable) {
			return currency.RateTable{}, asRequestError(result.lastErr)
		}

		return currency.RateTable{}, currency.NewNetworkExhaustedError(result.err)
	}

	if err := s.save(ctx, result.table); err != nil {
		return currency.RateTable{}, err
	}

	return result.table, nil
}

// save replaces the snapshot with table. A table without rates is rejected so it
// never overwrites a usable snapshot.
func (s *RateService) save(ctx context.Context, table currency.RateTable) error {
	if table.IsEmpty() {
		s.logger().Warn("fetched table is empty, keeping the stored snapshot", "base", table.Base)

		return currency.NewRequestError(ErrEmptyRateTable)
	}

	if s.Storage == nil {
		return currency.NewIOError(ErrNoStorageProvided)
	}

	if err := s.Storage.Save(ctx, table); err != nil {
		s.logger().Error("failed to save snapshot", "storage", s.Storage.GetStorageProviderName(), "err", err)

		return currency.NewIOError(err)
	}

	s.logger().Debug("snapshot saved", "storage", s.Storage.GetStorageProviderName(), "base", table.Base, "rates", len(table.Rates))

	return nil
}

func (s *RateService) fromSnapshot(ctx context.Context, from, to string) (float64, error) {
	if s.Storage == nil {
		return 0, currency.NewIOError(ErrNoStorageProvided)
	}

	s.logger().Info("rate source unreachable, using stored snapshot", "storage", s.Storage.GetStorageProviderName())

	table, err := s.Storage.Load(ctx)
	if err != nil {
		return 0, currency.NewIOError(err)
	}

	switch {
	case table.Base == "":
		s.logger().Warn("snapshot has no base currency, assuming it matches", "requested", from)
	case table.Base != from:
		return 0, currency.NewRateNotFoundError(from, to,
			fmt.Errorf("%w: snapshot holds %s", currency.ErrSnapshotBaseMismatch, table.Base))
	}

	return lookup(table, from, to)
}

func lookup(table currency.RateTable, from, to string) (float64, error) {
	rate, ok := table.Rate(to)
	if !ok {
		return 0, currency.NewRateNotFoundError(from, to, nil)
	}

	return rate, nil
}

func asRequestError(err error) error {
	if _, ok := currency.KindOf(err); ok {
		return err
	}

	return currency.NewRequestError(err)
}
