package calculation

import (
	"sort"

	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	money "github.com/RoddroMiller/SanDiegoRetire.com-sub000/pkg/decimal"
	"github.com/shopspring/decimal"
)

// DefaultTargetMaxPortfolioAge is used when a request leaves the target age unset.
const DefaultTargetMaxPortfolioAge = 95

// blendWeights are the fixed bucket weights, in percent, of the blended return.
var blendWeights = [domain.NumBuckets]int64{10, 20, 30, 10, 30}

// SSAnalysisRequest carries everything the claim optimizer needs.
// A nil ReinvestRate compounds breakeven curves at the blended return.
type SSAnalysisRequest struct {
	Inputs                domain.PlanInputs
	Client                domain.ClientProfile
	Assumptions           domain.ReturnAssumptions
	TargetMaxPortfolioAge int
	ReinvestRate          *decimal.Decimal
}

// WeightedReturn blends the bucket expected returns with fixed 10/20/30/10/30 weights.
func WeightedReturn(assumptions domain.ReturnAssumptions) decimal.Decimal {
	w := decimal.Zero
	for k, a := range assumptions.Array() {
		w = w.Add(money.Share(a.ExpectedReturn, decimal.NewFromInt(blendWeights[k])))
	}
	return w
}

// CalculateSSAnalysis compares client claim ages by the balance each leaves at the target age.
func CalculateSSAnalysis(req SSAnalysisRequest) *domain.SSAnalysisResult {
	base := NewCashFlowModel(req.Client, req.Inputs)
	candidates := claimCandidates(req.Client.RetirementAge)
	return analyzeClaims(req, candidates, req.Inputs.SSPIA, func(age int) *CashFlowModel {
		return base.WithClientClaimAge(age)
	})
}

// CalculateSSPartnerAnalysis holds the client at clientClaimAge and compares
// partner claim ages, paying partner benefits only once the partner is retired.
// It returns nil for an unmarried client.
func CalculateSSPartnerAnalysis(req SSAnalysisRequest, clientClaimAge int) *domain.SSAnalysisResult {
	if !req.Client.IsMarried {
		return nil
	}
	base := NewCashFlowModel(req.Client, req.Inputs).WithClientClaimAge(clientClaimAge).RequirePartnerRetired()
	candidates := claimCandidates(req.Client.PartnerRetirementAge)
	return analyzeClaims(req, candidates, req.Inputs.PartnerSSPIA, func(age int) *CashFlowModel {
		return base.WithPartnerClaimAge(age)
	})
}

func analyzeClaims(req SSAnalysisRequest, candidates []int, pia decimal.Decimal, modelFor func(age int) *CashFlowModel) *domain.SSAnalysisResult {
	rate := WeightedReturn(req.Assumptions)
	target := req.TargetMaxPortfolioAge
	if target <= 0 {
		target = DefaultTargetMaxPortfolioAge
	}

	res := &domain.SSAnalysisResult{Outcomes: make([]domain.SSOutcome, 0, len(candidates))}
	for i, age := range candidates {
		outcome := domain.SSOutcome{
			Age:              age,
			ProjectedBalance: projectBlendedBalance(modelFor(age), req.Inputs.TotalPortfolio, rate, target),
		}
		res.Outcomes = append(res.Outcomes, outcome)
		if i == 0 || outcome.ProjectedBalance.GreaterThan(res.Winner.ProjectedBalance) {
			res.Winner = outcome
		}
	}

	reinvest := rate
	if req.ReinvestRate != nil {
		reinvest = *req.ReinvestRate
	}
	res.BreakevenData = BreakevenData(pia, reinvest)
	return res
}

// projectBlendedBalance grows the balance at one blended rate from the
// simulation start age up to targetAge, netting one-time inflows and the gap
// each year. The balance is not floored so depleting paths still rank.
func projectBlendedBalance(m *CashFlowModel, start, rate decimal.Decimal, targetAge int) decimal.Decimal {
	growth := decimal.NewFromInt(1).Add(money.FromPercent(rate))
	balance := start
	for i := 0; m.SimulationStartAge()+i < targetAge; i++ {
		d := m.AnnualDetail(i)
		balance = money.Cents(balance.Mul(growth)).Add(d.OneTimeContribution).Sub(d.Gap)
	}
	return balance
}

// claimCandidates returns 62, 67, 70 and retirementAge when it falls strictly between 62 and 67.
func claimCandidates(retirementAge int) []int {
	ages := []int{EarliestClaimAge, FullRetirementAge, LatestClaimAge}
	if retirementAge > EarliestClaimAge && retirementAge < FullRetirementAge {
		ages = append(ages, retirementAge)
	}
	sort.Ints(ages)
	return ages
}
