package fetchers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	currency "github.com/malusev998/currency-converter"
)

const (
	ExchangeRateAPIURL = "https://api.exchangerate-api.com/v4"
)

type (
	exchangeRateAPIResponse struct {
		Base  string             `json:"base,omitempty"`
		Rates map[string]float64 `json:"rates"`
		Date  string             `json:"date,omitempty"`
	}
)

var (
	ErrClient      = errors.New("client error")
	ErrServer      = errors.New("server error")
	ErrUnknown     = errors.New("unknown error")
	ErrEmptyBase   = errors.New("base currency is empty")
	ErrEmptyResult = errors.New("response contains no rates")
)

func getData(ctx context.Context, baseURL, base string) (*http.Request, error) {
	url := fmt.Sprintf("%s/latest/%s", strings.TrimRight(baseURL, "/"), base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", "application/json")

	return req, nil
}

func handleHTTPStatusCodeError(res *http.Response) error {
	if res.StatusCode >= http.StatusOK && res.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	switch {
	case res.StatusCode >= http.StatusBadRequest && res.StatusCode < http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrClient, res.StatusCode)
	case res.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrServer, res.StatusCode)
	default:
		return fmt.Errorf("%w: status %d", ErrUnknown, res.StatusCode)
	}
}

func transportError(err error) error {
	return fmt.Errorf("%w: %w", currency.ErrUnreachable, err)
}
