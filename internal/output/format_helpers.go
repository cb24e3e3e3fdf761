package output

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as USD with thousands separators and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", amount.Round(2).InexactFloat64())
}

// FormatDollars formats a decimal as whole USD with thousands separators.
func FormatDollars(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	return sign + "$" + humanize.Comma(amount.Round(0).IntPart())
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }
