package calculation

import (
	"github.com/shopspring/decimal"
)

// Claiming-age bounds and full retirement age used by the model.
const (
	EarliestClaimAge  = 62
	FullRetirementAge = 67
	LatestClaimAge    = 70
)

var (
	earlyReductionFirst = decimal.NewFromFloat(0.0667) // per year, first three years early
	earlyReductionExtra = decimal.NewFromFloat(0.05)   // per year beyond three
	delayedCredit       = decimal.NewFromFloat(0.08)   // per year past FRA
)

// SocialSecurityCalculator handles Social Security benefit calculations
type SocialSecurityCalculator struct {
	FullRetirementAge int
	BenefitAtFRA      decimal.Decimal
}

// NewSocialSecurityCalculator creates a new Social Security calculator for a monthly PIA.
func NewSocialSecurityCalculator(benefitAtFRA decimal.Decimal) *SocialSecurityCalculator {
	return &SocialSecurityCalculator{
		FullRetirementAge: FullRetirementAge,
		BenefitAtFRA:      benefitAtFRA,
	}
}

// CalculateBenefitAtAge returns the monthly benefit when claiming at claimingAge.
// Ages outside 62..70 are clamped.
func (ssc *SocialSecurityCalculator) CalculateBenefitAtAge(claimingAge int) decimal.Decimal {
	age := clampInt(claimingAge, EarliestClaimAge, LatestClaimAge)

	if age < ssc.FullRetirementAge {
		yearsEarly := ssc.FullRetirementAge - age
		first := yearsEarly
		if first > 3 {
			first = 3
		}
		reduction := earlyReductionFirst.Mul(decimal.NewFromInt(int64(first))).
			Add(earlyReductionExtra.Mul(decimal.NewFromInt(int64(yearsEarly - first))))
		return ssc.BenefitAtFRA.Mul(decimal.NewFromInt(1).Sub(reduction))
	}

	if age > ssc.FullRetirementAge {
		credit := delayedCredit.Mul(decimal.NewFromInt(int64(age - ssc.FullRetirementAge)))
		return ssc.BenefitAtFRA.Mul(decimal.NewFromInt(1).Add(credit))
	}

	return ssc.BenefitAtFRA
}

// AdjustedSS returns the monthly benefit for pia claimed at startAge.
func AdjustedSS(pia decimal.Decimal, startAge int) decimal.Decimal {
	return NewSocialSecurityCalculator(pia).CalculateBenefitAtAge(startAge)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
