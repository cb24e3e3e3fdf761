package decimal

import (
	"github.com/shopspring/decimal"
)

var (
	// Hundred is used to convert between percentages and fractions
	Hundred = decimal.NewFromInt(100)
	// Thousand is the granularity bucket sizes are rounded to
	Thousand = decimal.NewFromInt(1000)
	// Twelve converts monthly amounts to annual
	Twelve = decimal.NewFromInt(12)

	one = decimal.NewFromInt(1)
)

// Cents rounds a monetary amount to two decimal places
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundTo rounds d to the nearest multiple of step. A zero step returns d unchanged.
func RoundTo(d, step decimal.Decimal) decimal.Decimal {
	if step.IsZero() {
		return d
	}
	return d.Div(step).Round(0).Mul(step)
}

// RoundThousand rounds d to the nearest 1,000
func RoundThousand(d decimal.Decimal) decimal.Decimal {
	return RoundTo(d, Thousand)
}

// NonNegative floors d at zero
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Annual converts a monthly amount to annual
func Annual(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(Twelve)
}

// FromPercent converts a percentage (5.5) to a fraction (0.055)
func FromPercent(rate decimal.Decimal) decimal.Decimal {
	return rate.Div(Hundred)
}

// GrowthFactor returns (1 + rate/100)^years for a percentage rate.
// Negative years are treated as zero.
func GrowthFactor(rate decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return one
	}
	return one.Add(FromPercent(rate)).Pow(decimal.NewFromInt(int64(years)))
}

// Percent returns part/whole*100, or zero when whole is zero
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(Hundred)
}

// Share returns total*pct/100
func Share(total, pct decimal.Decimal) decimal.Decimal {
	return total.Mul(pct).Div(Hundred)
}

// Sum adds all values
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Min returns the smaller of two amounts
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of two amounts
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Format formats the amount as whole dollars with a currency sign
func Format(d decimal.Decimal) string {
	return "$" + d.StringFixed(0)
}
