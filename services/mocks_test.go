package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	currency "github.com/malusev998/currency-converter"
)

type (
	MockFetcher struct {
		mock.Mock
	}

	MockStorage struct {
		mock.Mock
	}

	MockRateProvider struct {
		mock.Mock
	}
)

func (m *MockFetcher) Fetch(_ context.Context, base string) (currency.RateTable, error) {
	args := m.Called(base)

	return args.Get(0).(currency.RateTable), args.Error(1)
}

func (m *MockStorage) Save(_ context.Context, table currency.RateTable) error {
	args := m.Called(table)

	return args.Error(0)
}

func (m *MockStorage) Load(_ context.Context) (currency.RateTable, error) {
	args := m.Called()

	return args.Get(0).(currency.RateTable), args.Error(1)
}

func (m *MockStorage) GetStorageProviderName() string {
	return "MockStorage"
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockRateProvider) GetExchangeRate(_ context.Context, from, to string) (float64, error) {
	args := m.Called(from, to)

	return args.Get(0).(float64), args.Error(1)
}
