package domain

import "github.com/shopspring/decimal"

// AnnualDetail is the cash-flow picture for one simulation year.
type AnnualDetail struct {
	YearIndex             int             `json:"year_index"`
	SimAge                int             `json:"sim_age"`
	PartnerAge            int             `json:"partner_age"`
	Expenses              decimal.Decimal `json:"expenses"`
	Income                decimal.Decimal `json:"income"`
	SocialSecurity        decimal.Decimal `json:"social_security"`
	PartnerSocialSecurity decimal.Decimal `json:"partner_social_security"`
	Pension               decimal.Decimal `json:"pension"`
	AdditionalIncome      decimal.Decimal `json:"additional_income"`
	OneTimeContribution   decimal.Decimal `json:"one_time_contribution"`
	Gap                   decimal.Decimal `json:"gap"`
}

// SimulationYearRecord is one year of a distribution projection.
type SimulationYearRecord struct {
	Year                int             `json:"year"`
	Age                 int             `json:"age"`
	PartnerAge          int             `json:"partner_age"`
	StartBalance        decimal.Decimal `json:"start_balance"`
	Growth              decimal.Decimal `json:"growth"`
	SSIncome            decimal.Decimal `json:"ss_income"`
	OneTimeContribution decimal.Decimal `json:"one_time_contribution"`
	Expenses            decimal.Decimal `json:"expenses"`
	TotalWithdrawal     decimal.Decimal `json:"total_withdrawal"`
	EndTotal            decimal.Decimal `json:"end_total"`
	BenchmarkBalance    decimal.Decimal `json:"benchmark_balance"`
	DistributionRate    decimal.Decimal `json:"distribution_rate"`
	Balances            BucketValues    `json:"balances"`
	Withdrawals         BucketValues    `json:"withdrawals"`
	Rebalanced          bool            `json:"rebalanced"`
}

// MonteCarloResult holds per-year percentile bands of the portfolio total.
type MonteCarloResult struct {
	Years       []int             `json:"years"`
	P10         []decimal.Decimal `json:"p10"`
	Median      []decimal.Decimal `json:"median"`
	P90         []decimal.Decimal `json:"p90"`
	SuccessRate decimal.Decimal   `json:"success_rate"`
	Iterations  int               `json:"iterations"`
	FailedCount int               `json:"failed_count"`
}

// AllocationStrategy is a named five-bucket split of the portfolio.
type AllocationStrategy struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Buckets     BucketValues `json:"buckets"`
}

// OptimizedStrategyResult is the Monte Carlo outcome for one allocation.
type OptimizedStrategyResult struct {
	SuccessRate  decimal.Decimal    `json:"success_rate"`
	MedianLegacy decimal.Decimal    `json:"median_legacy"`
	Allocation   AllocationStrategy `json:"allocation"`
}

// SSOutcome is the projected balance at the target age for one claim age.
type SSOutcome struct {
	Age              int             `json:"age"`
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
}

// BreakevenPoint holds cumulative reinvested benefits at one age.
type BreakevenPoint struct {
	Age       int             `json:"age"`
	ClaimAt62 decimal.Decimal `json:"claim_at_62"`
	ClaimAt67 decimal.Decimal `json:"claim_at_67"`
	ClaimAt70 decimal.Decimal `json:"claim_at_70"`
}

// SSAnalysisResult is the claim-age comparison for one person.
type SSAnalysisResult struct {
	Winner        SSOutcome        `json:"winner"`
	Outcomes      []SSOutcome      `json:"outcomes"`
	BreakevenData []BreakevenPoint `json:"breakeven_data"`
}
