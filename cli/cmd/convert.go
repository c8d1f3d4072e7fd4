package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	currency "github.com/malusev998/currency-converter"
)

const usage = "Usage: currency-converter <amount> <from_currency> to <to_currency>"

type conversionRequest struct {
	amount float64
	from   string
	to     string
}

func parseConversionArgs(args []string) (conversionRequest, bool) {
	if len(args) != 4 || !strings.EqualFold(args[2], "to") {
		return conversionRequest{}, false
	}

	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return conversionRequest{}, false
	}

	request := conversionRequest{
		amount: amount,
		from:   currency.NormalizeCode(args[1]),
		to:     currency.NormalizeCode(args[3]),
	}

	if request.from == "" || request.to == "" {
		return conversionRequest{}, false
	}

	return request, true
}

func convert(config *Config) *cobra.Command {
	return &cobra.Command{
		Use:     "currency-converter <amount> <from> to <to>",
		Short:   "Convert an amount between two currencies",
		Example: "currency-converter 100 USD to EUR",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			request, ok := parseConversionArgs(args)
			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), usage)

				return nil
			}

			services, err := config.load(cmd)
			if err != nil {
				return err
			}

			result, err := services.Conversion.Convert(cmd.Context(), request.amount, request.from, request.to)
			if err != nil {
				cmd.PrintErrln("Error:", err.Error())

				return ErrConversionFailed
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Converted amount: %s %s\n", decimal.NewFromFloat(result).StringFixed(2), request.to)

			return nil
		},
	}
}
