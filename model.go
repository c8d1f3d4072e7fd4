package currency

import (
	"math"
	"sort"
	"strings"
	"time"
)

// RateTable holds the rates of every known currency relative to Base,
// where 1 unit of Base equals Rates[code] units of code.
type RateTable struct {
	Base      string             `json:"base,omitempty"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetchedAt,omitempty"`
}

// NewRateTable copies rates into a new table with upper-cased codes.
// Rates that are not positive finite numbers are dropped.
func NewRateTable(base string, rates map[string]float64, fetchedAt time.Time) RateTable {
	normalized := make(map[string]float64, len(rates))

	for code, rate := range rates {
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			continue
		}

		normalized[NormalizeCode(code)] = rate
	}

	return RateTable{
		Base:      NormalizeCode(base),
		Rates:     normalized,
		FetchedAt: fetchedAt,
	}
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (t RateTable) Rate(code string) (float64, bool) {
	rate, ok := t.Rates[NormalizeCode(code)]

	return rate, ok
}

// Codes returns the currency codes in the table in ascending order.
func (t RateTable) Codes() []string {
	codes := make([]string, 0, len(t.Rates))

	for code := range t.Rates {
		codes = append(codes, code)
	}

	sort.Strings(codes)

	return codes
}

func (t RateTable) IsEmpty() bool {
	return len(t.Rates) == 0
}
