package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NumBuckets is the fixed number of portfolio segments.
const NumBuckets = 5

// Income event owners.
const (
	OwnerClient  = "client"
	OwnerPartner = "partner"
)

// ClientProfile holds the household's ages and accumulation-phase figures.
// Ages derived from BirthDate are filled in by the config loader when the age is zero.
type ClientProfile struct {
	Name                 string          `yaml:"name,omitempty" json:"name,omitempty"`
	CurrentAge           int             `yaml:"current_age" json:"current_age"`
	RetirementAge        int             `yaml:"retirement_age" json:"retirement_age"`
	BirthDate            *time.Time      `yaml:"birth_date,omitempty" json:"birth_date,omitempty"`
	IsMarried            bool            `yaml:"is_married" json:"is_married"`
	PartnerCurrentAge    int             `yaml:"partner_current_age,omitempty" json:"partner_current_age,omitempty"`
	PartnerRetirementAge int             `yaml:"partner_retirement_age,omitempty" json:"partner_retirement_age,omitempty"`
	PartnerBirthDate     *time.Time      `yaml:"partner_birth_date,omitempty" json:"partner_birth_date,omitempty"`
	CurrentPortfolio     decimal.Decimal `yaml:"current_portfolio" json:"current_portfolio"`
	AnnualSavings        decimal.Decimal `yaml:"annual_savings" json:"annual_savings"`
	ExpectedReturn       decimal.Decimal `yaml:"expected_return" json:"expected_return"`
}

// IncomeEvent is a recurring monthly income stream or a one-time lump sum.
// A recurring event needs both ages; a one-time event needs StartAge. Events
// missing the ages they need are inactive.
type IncomeEvent struct {
	ID                string          `yaml:"id" json:"id"`
	Name              string          `yaml:"name" json:"name"`
	Amount            decimal.Decimal `yaml:"amount" json:"amount"`
	StartAge          *int            `yaml:"start_age,omitempty" json:"start_age,omitempty"`
	EndAge            *int            `yaml:"end_age,omitempty" json:"end_age,omitempty"`
	IsOneTime         bool            `yaml:"is_one_time" json:"is_one_time"`
	InflationAdjusted bool            `yaml:"inflation_adjusted" json:"inflation_adjusted"`
	Owner             string          `yaml:"owner,omitempty" json:"owner,omitempty"`
}

// ActiveAt reports whether a recurring event pays at the given age.
func (e IncomeEvent) ActiveAt(age int) bool {
	if e.IsOneTime || e.StartAge == nil || e.EndAge == nil {
		return false
	}
	return age >= *e.StartAge && age <= *e.EndAge
}

// FiresAt reports whether a one-time event lands at the given age.
func (e IncomeEvent) FiresAt(age int) bool {
	return e.IsOneTime && e.StartAge != nil && *e.StartAge == age
}

// PlanInputs are the distribution-phase inputs. Rates are percentages.
type PlanInputs struct {
	TotalPortfolio        decimal.Decimal `yaml:"total_portfolio" json:"total_portfolio"`
	MonthlySpending       decimal.Decimal `yaml:"monthly_spending" json:"monthly_spending"`
	SSPIA                 decimal.Decimal `yaml:"ss_pia" json:"ss_pia"`
	SSStartAge            int             `yaml:"ss_start_age" json:"ss_start_age"`
	PartnerSSPIA          decimal.Decimal `yaml:"partner_ss_pia,omitempty" json:"partner_ss_pia,omitempty"`
	PartnerSSStartAge     int             `yaml:"partner_ss_start_age,omitempty" json:"partner_ss_start_age,omitempty"`
	MonthlyPension        decimal.Decimal `yaml:"monthly_pension,omitempty" json:"monthly_pension,omitempty"`
	PensionStartAge       int             `yaml:"pension_start_age,omitempty" json:"pension_start_age,omitempty"`
	PensionCOLA           bool            `yaml:"pension_cola" json:"pension_cola"`
	InflationRate         decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	PersonalInflationRate decimal.Decimal `yaml:"personal_inflation_rate" json:"personal_inflation_rate"`
	AdditionalIncomes     []IncomeEvent   `yaml:"additional_incomes,omitempty" json:"additional_incomes,omitempty"`
}

// ReturnAssumption describes one bucket's return distribution in percent.
type ReturnAssumption struct {
	Name              string          `yaml:"name" json:"name"`
	ExpectedReturn    decimal.Decimal `yaml:"expected_return" json:"expected_return"`
	StdDev            decimal.Decimal `yaml:"std_dev" json:"std_dev"`
	HistoricalAverage decimal.Decimal `yaml:"historical_average,omitempty" json:"historical_average,omitempty"`
}

// ReturnAssumptions holds one assumption per bucket.
type ReturnAssumptions struct {
	B1 ReturnAssumption `yaml:"b1" json:"b1"`
	B2 ReturnAssumption `yaml:"b2" json:"b2"`
	B3 ReturnAssumption `yaml:"b3" json:"b3"`
	B4 ReturnAssumption `yaml:"b4" json:"b4"`
	B5 ReturnAssumption `yaml:"b5" json:"b5"`
}

// Array returns the assumptions in bucket order.
func (ra ReturnAssumptions) Array() [NumBuckets]ReturnAssumption {
	return [NumBuckets]ReturnAssumption{ra.B1, ra.B2, ra.B3, ra.B4, ra.B5}
}

// IsZero reports whether no assumption has been set.
func (ra ReturnAssumptions) IsZero() bool {
	for _, a := range ra.Array() {
		if a.Name != "" || !a.ExpectedReturn.IsZero() || !a.StdDev.IsZero() {
			return false
		}
	}
	return true
}

// DefaultReturnAssumptions returns the house capital market assumptions.
func DefaultReturnAssumptions() ReturnAssumptions {
	mk := func(name string, ret, sd, hist float64) ReturnAssumption {
		return ReturnAssumption{
			Name:              name,
			ExpectedReturn:    decimal.NewFromFloat(ret),
			StdDev:            decimal.NewFromFloat(sd),
			HistoricalAverage: decimal.NewFromFloat(hist),
		}
	}
	return ReturnAssumptions{
		B1: mk("Short Term", 2, 2, 2.5),
		B2: mk("Mid Term", 4, 5, 4.5),
		B3: mk("Balanced 60/40", 5.5, 8, 6),
		B4: mk("Income & Growth", 6, 12, 7),
		B5: mk("Long Term Growth", 8, 18, 10),
	}
}

// BucketValues is one amount per bucket.
type BucketValues struct {
	B1 decimal.Decimal `yaml:"b1" json:"b1"`
	B2 decimal.Decimal `yaml:"b2" json:"b2"`
	B3 decimal.Decimal `yaml:"b3" json:"b3"`
	B4 decimal.Decimal `yaml:"b4" json:"b4"`
	B5 decimal.Decimal `yaml:"b5" json:"b5"`
}

// Total sums all five buckets.
func (bv BucketValues) Total() decimal.Decimal {
	return bv.B1.Add(bv.B2).Add(bv.B3).Add(bv.B4).Add(bv.B5)
}

// Array returns the values in bucket order.
func (bv BucketValues) Array() [NumBuckets]decimal.Decimal {
	return [NumBuckets]decimal.Decimal{bv.B1, bv.B2, bv.B3, bv.B4, bv.B5}
}

// BucketValuesFromArray is the inverse of Array.
func BucketValuesFromArray(a [NumBuckets]decimal.Decimal) BucketValues {
	return BucketValues{B1: a[0], B2: a[1], B3: a[2], B4: a[3], B5: a[4]}
}

// Plan is the root of a plan file.
type Plan struct {
	Name                  string            `yaml:"name,omitempty" json:"name,omitempty"`
	Client                ClientProfile     `yaml:"client" json:"client"`
	Inputs                PlanInputs        `yaml:"inputs" json:"inputs"`
	Assumptions           ReturnAssumptions `yaml:"assumptions" json:"assumptions"`
	RebalanceFrequency    int               `yaml:"rebalance_frequency" json:"rebalance_frequency"`
	RebalancePolicy       string            `yaml:"rebalance_policy,omitempty" json:"rebalance_policy,omitempty"`
	TargetMaxPortfolioAge int               `yaml:"target_max_portfolio_age,omitempty" json:"target_max_portfolio_age,omitempty"`
}
