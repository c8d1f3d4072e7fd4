package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
)

type (
	mockConversion struct {
		mock.Mock
	}

	mockRefresher struct {
		mock.Mock
	}
)

func (m *mockConversion) Convert(_ context.Context, amount float64, from, to string) (float64, error) {
	args := m.Called(amount, from, to)

	return args.Get(0).(float64), args.Error(1)
}

func (m *mockRefresher) Refresh(_ context.Context, base string) (currency.RateTable, error) {
	args := m.Called(base)

	return args.Get(0).(currency.RateTable), args.Error(1)
}

func run(config *Config, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer

	rootCmd := NewRootCommand(config)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func TestParseConversionArgs(t *testing.T) {
	asserts := require.New(t)

	values := []struct {
		args     []string
		expected conversionRequest
		ok       bool
	}{
		{[]string{"100", "usd", "to", "eur"}, conversionRequest{100, "USD", "EUR"}, true},
		{[]string{"0.5", "USD", "TO", "GBP"}, conversionRequest{0.5, "USD", "GBP"}, true},
		{[]string{"100", "USD", "EUR"}, conversionRequest{}, false},
		{[]string{"100", "USD", "in", "EUR"}, conversionRequest{}, false},
		{[]string{"abc", "USD", "to", "EUR"}, conversionRequest{}, false},
		{[]string{"NaN", "USD", "to", "EUR"}, conversionRequest{}, false},
		{[]string{"Inf", "USD", "to", "EUR"}, conversionRequest{}, false},
		{[]string{"1", " ", "to", "EUR"}, conversionRequest{}, false},
		{[]string{"1", "USD", "to", "EUR", "extra"}, conversionRequest{}, false},
	}

	for _, value := range values {
		request, ok := parseConversionArgs(value.args)
		asserts.Equal(value.ok, ok, value.args)
		asserts.Equal(value.expected, request)
	}
}

func TestPositionalNumbers(t *testing.T) {
	asserts := require.New(t)

	values := []struct {
		args     []string
		expected []string
	}{
		{[]string{"-5", "USD", "to", "EUR"}, []string{"--", "-5", "USD", "to", "EUR"}},
		{[]string{"--debug", "-0.5", "USD", "to", "EUR"}, []string{"--debug", "--", "-0.5", "USD", "to", "EUR"}},
		{[]string{"5", "USD", "to", "EUR"}, []string{"5", "USD", "to", "EUR"}},
		{[]string{"--", "-5", "USD", "to", "EUR"}, []string{"--", "-5", "USD", "to", "EUR"}},
		{[]string{"fetch", "USD", "--after", "5m"}, []string{"fetch", "USD", "--after", "5m"}},
		{[]string{"-d"}, []string{"-d"}},
	}

	for _, value := range values {
		asserts.Equal(value.expected, positionalNumbers(value.args))
	}
}

func TestConvertCommand(t *testing.T) {
	t.Parallel()

	t.Run("Usage", func(t *testing.T) {
		asserts := require.New(t)
		built := false
		config := &Config{Build: func(context.Context, *viper.Viper, hclog.Logger) (*Services, error) {
			built = true
			return &Services{}, nil
		}}

		stdout, _, err := run(config, "100", "USD", "EUR")

		asserts.Nil(err)
		asserts.Contains(stdout, usage)
		asserts.False(built)
	})

	t.Run("Converts", func(t *testing.T) {
		asserts := require.New(t)
		conversion := &mockConversion{}
		conversion.On("Convert", 100.0, "USD", "EUR").Return(91.005, nil)
		closed := false

		config := &Config{Build: func(context.Context, *viper.Viper, hclog.Logger) (*Services, error) {
			return &Services{Conversion: conversion, Close: func() error {
				closed = true
				return nil
			}}, nil
		}}

		stdout, _, err := run(config, "100", "usd", "to", "eur")

		asserts.Nil(err)
		asserts.Equal("Converted amount: 91.01 EUR\n", stdout)
		asserts.True(closed)
		conversion.AssertExpectations(t)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		asserts := require.New(t)
		conversion := &mockConversion{}
		conversion.On("Convert", -5.0, "USD", "EUR").Return(-4.5, nil)

		var stdout, stderr bytes.Buffer
		rootCmd := NewRootCommand(&Config{
			Args: []string{"-5", "USD", "to", "EUR"},
			Build: func(context.Context, *viper.Viper, hclog.Logger) (*Services, error) {
				return &Services{Conversion: conversion}, nil
			},
		})
		rootCmd.SetOut(&stdout)
		rootCmd.SetErr(&stderr)

		err := rootCmd.ExecuteContext(context.Background())

		asserts.Nil(err)
		asserts.Equal("Converted amount: -4.50 EUR\n", stdout.String())
		asserts.Empty(stderr.String())
		conversion.AssertExpectations(t)
	})

	t.Run("ReportsFailure", func(t *testing.T) {
		asserts := require.New(t)
		conversion := &mockConversion{}
		conversion.On("Convert", 1.0, "USD", "ZZZ").
			Return(0.0, errors.New("error getting exchange rate: exchange rate from USD to ZZZ not found"))

		config := &Config{Build: func(context.Context, *viper.Viper, hclog.Logger) (*Services, error) {
			return &Services{Conversion: conversion}, nil
		}}

		stdout, stderr, err := run(config, "1", "USD", "to", "ZZZ")

		asserts.True(errors.Is(err, ErrConversionFailed))
		asserts.Empty(stdout)
		asserts.Contains(stderr, "Error: error getting exchange rate: exchange rate from USD to ZZZ not found")
	})

	t.Run("BuildFailure", func(t *testing.T) {
		asserts := require.New(t)
		config := &Config{Build: func(context.Context, *viper.Viper, hclog.Logger) (*Services, error) {
			return nil, errors.New("cannot connect")
		}}

		_, _, err := run(config, "1", "USD", "to", "EUR")

		asserts.EqualError(err, "cannot connect")
	})

	t.Run("ReadsConfigFile", func(t *testing.T) {
		asserts := require.New(t)
		path := filepath.Join(t.TempDir(), "config.yml")
		asserts.Nil(os.WriteFile(path, []byte("api:\n  attempts: 3\n"), 0o600))

		conversion := &mockConversion{}
		conversion.On("Convert", 2.0, "USD", "EUR").Return(1.8, nil)

		var attempts int
		config := &Config{Build: func(_ context.Context, v *viper.Viper, logger hclog.Logger) (*Services, error) {
			attempts = v.GetInt("api.attempts")
			asserts.True(logger.IsDebug())

			return &Services{Conversion: conversion}, nil
		}}

		stdout, _, err := run(config, "--config", path, "--debug", "2", "USD", "to", "EUR")

		asserts.Nil(err)
		asserts.Equal(3, attempts)
		asserts.Equal("Converted amount: 1.80 EUR\n", stdout)
	})

	t.Run("MissingConfigFile", func(t *testing.T) {
		asserts := require.New(t)
		config := &Config{Build: func(context.Context, *viper.Viper, hclog.Logger) (*Services, error) {
			return &Services{}, nil
		}}

		_, _, err := run(config, "--config", filepath.Join(t.TempDir(), "missing.yml"), "1", "USD", "to", "EUR")

		asserts.Error(err)
	})
}

func TestFetchCommand(t *testing.T) {
	t.Parallel()

	t.Run("RefreshesSnapshot", func(t *testing.T) {
		asserts := require.New(t)
		refresher := &mockRefresher{}
		refresher.On("Refresh", "usd").
			Return(currency.NewRateTable("USD", map[string]float64{"EUR": 0.9}, time.Now()), nil)

		config := &Config{Build: func(context.Context, *viper.Viper, hclog.Logger) (*Services, error) {
			return &Services{Refresher: refresher}, nil
		}}

		_, _, err := run(config, "fetch", "usd")

		asserts.Nil(err)
		refresher.AssertExpectations(t)
	})

	t.Run("RefreshFailure", func(t *testing.T) {
		asserts := require.New(t)
		refresher := &mockRefresher{}
		refresher.On("Refresh", "USD").Return(currency.RateTable{}, currency.NewNetworkExhaustedError(nil))

		config := &Config{Build: func(context.Context, *viper.Viper, hclog.Logger) (*Services, error) {
			return &Services{Refresher: refresher}, nil
		}}

		_, _, err := run(config, "fetch", "USD")

		asserts.True(errors.Is(err, currency.ErrNetworkExhausted))
	})

	t.Run("StandaloneStopsWithContext", func(t *testing.T) {
		asserts := require.New(t)
		refresher := &mockRefresher{}
		refresher.On("Refresh", "USD").
			Return(currency.NewRateTable("USD", map[string]float64{"EUR": 0.9}, time.Now()), nil)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		config := &Config{Build: func(context.Context, *viper.Viper, hclog.Logger) (*Services, error) {
			return &Services{Refresher: refresher}, nil
		}}

		rootCmd := NewRootCommand(config)
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"fetch", "USD", "--standalone", "--after", "10ms"})

		asserts.Nil(rootCmd.ExecuteContext(ctx))

		calls := len(refresher.Calls)
		asserts.GreaterOrEqual(calls, 2)
	})

	t.Run("RejectsNonPositiveIntervalBeforeFetching", func(t *testing.T) {
		asserts := require.New(t)
		refresher := &mockRefresher{}
		built := false

		config := &Config{Build: func(context.Context, *viper.Viper, hclog.Logger) (*Services, error) {
			built = true
			return &Services{Refresher: refresher}, nil
		}}

		_, _, err := run(config, "fetch", "USD", "--standalone", "--after", "0s")

		asserts.EqualError(err, "--after must be positive")
		asserts.False(built)
		refresher.AssertNotCalled(t, "Refresh", mock.Anything)
	})

	t.Run("RequiresBase", func(t *testing.T) {
		asserts := require.New(t)
		config := &Config{}

		_, _, err := run(config, "fetch")

		asserts.Error(err)
	})
}
