package currency

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ExchangeRateAPIProvider Provider = "ExchangeRateAPI"
	FixedProvider           Provider = "Fixed"
	EmptyProvider           Provider = ""
)

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "exchangerateapi", "exchangerate-api":
		return ExchangeRateAPIProvider, nil
	case "fixed":
		return FixedProvider, nil
	}

	return EmptyProvider, fmt.Errorf("value %s is not valid Provider", str)
}
