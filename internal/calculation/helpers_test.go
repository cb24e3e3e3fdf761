package calculation

import (
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(v int) *int { return &v }

// scenarioHousehold is a single 65-year-old retiring now with $1M, spending
// $4,000 a month and claiming a $2,500 PIA at 67. Inflation is zero so the
// amounts can be checked by hand.
func scenarioHousehold() (domain.PlanInputs, domain.ClientProfile) {
	inputs := domain.PlanInputs{
		TotalPortfolio:  d("1000000"),
		MonthlySpending: d("4000"),
		SSPIA:           d("2500"),
		SSStartAge:      67,
	}
	client := domain.ClientProfile{
		CurrentAge:    65,
		RetirementAge: 65,
	}
	return inputs, client
}

// bridgeHousehold is a married couple with every bucket earning 8% and no
// inflation: client 62, PIA 2,500; partner 60, PIA 1,500 claimed at 67.
func bridgeHousehold(monthlySpending string, bridge bool) SSAnalysisRequest {
	inputs := domain.PlanInputs{
		TotalPortfolio:    d("1000000"),
		MonthlySpending:   d(monthlySpending),
		SSPIA:             d("2500"),
		SSStartAge:        67,
		PartnerSSPIA:      d("1500"),
		PartnerSSStartAge: 67,
	}
	if bridge {
		inputs.AdditionalIncomes = []domain.IncomeEvent{{
			ID:       "bridge",
			Name:     "Consulting",
			Amount:   d("8000"),
			StartAge: intPtr(62),
			EndAge:   intPtr(69),
			Owner:    domain.OwnerClient,
		}}
	}
	flat := domain.ReturnAssumption{ExpectedReturn: d("8"), StdDev: d("10")}
	return SSAnalysisRequest{
		Inputs: inputs,
		Client: domain.ClientProfile{
			CurrentAge:           62,
			RetirementAge:        62,
			IsMarried:            true,
			PartnerCurrentAge:    60,
			PartnerRetirementAge: 60,
		},
		Assumptions:           domain.ReturnAssumptions{B1: flat, B2: flat, B3: flat, B4: flat, B5: flat},
		TargetMaxPortfolioAge: 90,
	}
}

// stubSource replays a fixed cycle of uniform draws.
type stubSource struct {
	values []float64
	i      int
}

func (s *stubSource) Float64() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}
