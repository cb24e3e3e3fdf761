package calculation

import (
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	money "github.com/RoddroMiller/SanDiegoRetire.com-sub000/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Funding windows, in simulation years, for the present-value buckets.
var bucketWindows = [3][2]int{
	{1, 3},
	{4, 6},
	{7, 14},
}

// fixedSleevePct is the share of the portfolio held in bucket 4.
var fixedSleevePct = decimal.NewFromInt(10)

// BucketPlan is the initial five-bucket allocation plus the cash-flow model it was sized from.
type BucketPlan struct {
	Buckets   domain.BucketValues `json:"buckets"`
	IsDeficit bool                `json:"is_deficit"`
	CashFlow  *CashFlowModel      `json:"-"`
}

// BucketNeed is the present value of the funding gap for years start..end inclusive.
func BucketNeed(m *CashFlowModel, start, end int, rate decimal.Decimal) decimal.Decimal {
	return BucketNeedFrom(m, 0, start, end, rate)
}

// BucketNeedFrom is BucketNeed discounted to reference year ref: the gap of
// year y is computed at index y-1 and discounted by (1+rate/100)^(y-1-ref).
func BucketNeedFrom(m *CashFlowModel, ref, start, end int, rate decimal.Decimal) decimal.Decimal {
	return presentValue(m.AnnualGap, ref, start, end, rate)
}

func presentValue(gapAt func(int) decimal.Decimal, ref, start, end int, rate decimal.Decimal) decimal.Decimal {
	pv := decimal.Zero
	for year := start; year <= end; year++ {
		gap := gapAt(year - 1)
		if gap.IsZero() {
			continue
		}
		pv = pv.Add(gap.Div(money.GrowthFactor(rate, year-1-ref)))
	}
	return pv
}

// CalculateBasePlan sizes the five buckets for a household.
// Buckets 1-3 hold the present value of their funding windows rounded to the
// nearest 1,000, bucket 4 is a fixed 10% sleeve and bucket 5 takes the
// remainder, which is negative for a deficit plan.
func CalculateBasePlan(inputs domain.PlanInputs, assumptions domain.ReturnAssumptions, client domain.ClientProfile) *BucketPlan {
	model := NewCashFlowModel(client, inputs)
	rates := assumptions.Array()

	var b [domain.NumBuckets]decimal.Decimal
	for k, w := range bucketWindows {
		b[k] = money.RoundThousand(BucketNeed(model, w[0], w[1], rates[k].ExpectedReturn))
	}
	b[3] = money.RoundThousand(money.Share(inputs.TotalPortfolio, fixedSleevePct))
	b[4] = inputs.TotalPortfolio.Sub(b[0]).Sub(b[1]).Sub(b[2]).Sub(b[3])

	return &BucketPlan{
		Buckets:   domain.BucketValuesFromArray(b),
		IsDeficit: b[4].IsNegative(),
		CashFlow:  model,
	}
}
