package currency

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	RequestFailed ErrorKind = iota + 1
	IOFailed
	RateNotFound
	NetworkExhausted
)

func (k ErrorKind) String() string {
	switch k {
	case RequestFailed:
		return "RequestFailed"
	case IOFailed:
		return "IOFailed"
	case RateNotFound:
		return "RateNotFound"
	case NetworkExhausted:
		return "NetworkExhausted"
	default:
		return "Unknown"
	}
}

// ExchangeRateError is returned by every RateProvider in this module.
// From and To are set for RateNotFound, Err carries the underlying cause.
type ExchangeRateError struct {
	Kind ErrorKind
	From string
	To   string
	Err  error
}

var (
	ErrRequestFailed    = &ExchangeRateError{Kind: RequestFailed}
	ErrIOFailed         = &ExchangeRateError{Kind: IOFailed}
	ErrRateNotFound     = &ExchangeRateError{Kind: RateNotFound}
	ErrNetworkExhausted = &ExchangeRateError{Kind: NetworkExhausted}

	// ErrUnreachable marks fetch failures where no usable response reached the client.
	// Only these are retried and answered from the stored snapshot.
	ErrUnreachable = errors.New("rate source unreachable")

	ErrSnapshotNotFound     = errors.New("snapshot does not exist")
	ErrSnapshotBaseMismatch = errors.New("snapshot base currency does not match")
)

func NewRequestError(err error) *ExchangeRateError {
	return &ExchangeRateError{Kind: RequestFailed, Err: err}
}

func NewIOError(err error) *ExchangeRateError {
	return &ExchangeRateError{Kind: IOFailed, Err: err}
}

func NewRateNotFoundError(from, to string, cause error) *ExchangeRateError {
	return &ExchangeRateError{Kind: RateNotFound, From: from, To: to, Err: cause}
}

func NewNetworkExhaustedError(err error) *ExchangeRateError {
	return &ExchangeRateError{Kind: NetworkExhausted, Err: err}
}

func (e *ExchangeRateError) Error() string {
	switch e.Kind {
	case RequestFailed:
		return fmt.Sprintf("request error: %v", e.Err)
	case IOFailed:
		return fmt.Sprintf("io error: %v", e.Err)
	case RateNotFound:
		if e.Err != nil {
			return fmt.Sprintf("exchange rate from %s to %s not found: %v", e.From, e.To, e.Err)
		}

		return fmt.Sprintf("exchange rate from %s to %s not found", e.From, e.To)
	case NetworkExhausted:
		if e.Err != nil {
			return fmt.Sprintf("network error: exceeded maximum retries: %v", e.Err)
		}

		return "network error: exceeded maximum retries"
	}

	return fmt.Sprintf("exchange rate error: %v", e.Err)
}

func (e *ExchangeRateError) Unwrap() error {
	return e.Err
}

// Is matches any ExchangeRateError of the same kind, so the package
// sentinels can be used with errors.Is.
func (e *ExchangeRateError) Is(target error) bool {
	t, ok := target.(*ExchangeRateError)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

// KindOf returns the kind of the first ExchangeRateError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var rateErr *ExchangeRateError
	if errors.As(err, &rateErr) {
		return rateErr.Kind, true
	}

	return 0, false
}
