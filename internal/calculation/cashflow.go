package calculation

import (
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	money "github.com/RoddroMiller/SanDiegoRetire.com-sub000/pkg/decimal"
	"github.com/shopspring/decimal"
)

// CashFlowModel computes expenses, income and the funding gap for each
// simulation year. It is immutable; the With* methods return modified copies.
type CashFlowModel struct {
	client domain.ClientProfile
	inputs domain.PlanInputs

	clientClaimAge        int
	partnerClaimAge       int
	requirePartnerRetired bool
}

// NewCashFlowModel binds a cash-flow model to a household and its plan inputs.
func NewCashFlowModel(client domain.ClientProfile, inputs domain.PlanInputs) *CashFlowModel {
	return &CashFlowModel{
		client:          client,
		inputs:          inputs,
		clientClaimAge:  inputs.SSStartAge,
		partnerClaimAge: inputs.PartnerSSStartAge,
	}
}

// WithClientClaimAge returns a copy that starts the client's Social Security at age.
func (m *CashFlowModel) WithClientClaimAge(age int) *CashFlowModel {
	c := *m
	c.clientClaimAge = age
	return &c
}

// WithPartnerClaimAge returns a copy that starts the partner's Social Security at age.
func (m *CashFlowModel) WithPartnerClaimAge(age int) *CashFlowModel {
	c := *m
	c.partnerClaimAge = age
	return &c
}

// RequirePartnerRetired returns a copy in which partner Social Security is
// paid only once the partner has reached their retirement age.
func (m *CashFlowModel) RequirePartnerRetired() *CashFlowModel {
	c := *m
	c.requirePartnerRetired = true
	return &c
}

// Client returns the bound client profile.
func (m *CashFlowModel) Client() domain.ClientProfile { return m.client }

// Inputs returns the bound plan inputs.
func (m *CashFlowModel) Inputs() domain.PlanInputs { return m.inputs }

// SimulationStartAge is the later of the current and retirement ages.
func (m *CashFlowModel) SimulationStartAge() int {
	if m.client.CurrentAge > m.client.RetirementAge {
		return m.client.CurrentAge
	}
	return m.client.RetirementAge
}

// PartnerAgeAt returns the partner's age when the client is simAge, or 0 when unmarried.
func (m *CashFlowModel) PartnerAgeAt(simAge int) int {
	if !m.client.IsMarried {
		return 0
	}
	return m.client.PartnerCurrentAge + simAge - m.client.CurrentAge
}

// AnnualGap returns only the funding gap for yearIndex.
func (m *CashFlowModel) AnnualGap(yearIndex int) decimal.Decimal {
	return m.AnnualDetail(yearIndex).Gap
}

// AnnualDetail computes the cash-flow picture for a zero-based simulation year.
func (m *CashFlowModel) AnnualDetail(yearIndex int) domain.AnnualDetail {
	in := m.inputs
	simAge := m.SimulationStartAge() + yearIndex
	partnerAge := m.PartnerAgeAt(simAge)
	incomeFactor := money.GrowthFactor(in.InflationRate, yearIndex)

	d := domain.AnnualDetail{
		YearIndex:  yearIndex,
		SimAge:     simAge,
		PartnerAge: partnerAge,
		Expenses:   money.Cents(money.Annual(in.MonthlySpending).Mul(money.GrowthFactor(in.PersonalInflationRate, yearIndex))),
	}

	if m.client.CurrentAge >= FullRetirementAge || simAge >= m.clientClaimAge {
		d.SocialSecurity = money.Cents(money.Annual(AdjustedSS(in.SSPIA, m.clientClaimAge)).Mul(incomeFactor))
	}

	if m.partnerEligible(partnerAge) {
		d.PartnerSocialSecurity = money.Cents(money.Annual(AdjustedSS(in.PartnerSSPIA, m.partnerClaimAge)).Mul(incomeFactor))
	}

	if in.MonthlyPension.IsPositive() && simAge >= in.PensionStartAge {
		pension := money.Annual(in.MonthlyPension)
		if in.PensionCOLA {
			pension = pension.Mul(incomeFactor)
		}
		d.Pension = money.Cents(pension)
	}

	for _, ev := range in.AdditionalIncomes {
		switch {
		case ev.FiresAt(simAge):
			amt := ev.Amount
			if ev.InflationAdjusted {
				amt = amt.Mul(incomeFactor)
			}
			d.OneTimeContribution = d.OneTimeContribution.Add(money.Cents(amt))
		case ev.ActiveAt(simAge):
			amt := money.Annual(ev.Amount)
			if ev.InflationAdjusted {
				amt = amt.Mul(incomeFactor)
			}
			d.AdditionalIncome = d.AdditionalIncome.Add(money.Cents(amt))
		}
	}

	d.Income = money.Sum(d.SocialSecurity, d.PartnerSocialSecurity, d.Pension, d.AdditionalIncome)
	d.Gap = money.NonNegative(d.Expenses.Sub(d.Income))
	return d
}

func (m *CashFlowModel) partnerEligible(partnerAge int) bool {
	if !m.client.IsMarried || !m.inputs.PartnerSSPIA.IsPositive() {
		return false
	}
	if m.requirePartnerRetired && partnerAge < m.client.PartnerRetirementAge {
		return false
	}
	return m.client.PartnerCurrentAge >= FullRetirementAge || partnerAge >= m.partnerClaimAge
}
