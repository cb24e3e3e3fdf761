package calculation

import (
	"testing"

	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedReturn(t *testing.T) {
	got := WeightedReturn(domain.DefaultReturnAssumptions())
	assert.True(t, d("5.65").Equal(got), "got %s", got)
}

func TestClaimCandidates(t *testing.T) {
	tests := []struct {
		retirementAge int
		want          []int
	}{
		{55, []int{62, 67, 70}},
		{62, []int{62, 67, 70}},
		{64, []int{62, 64, 67, 70}},
		{67, []int{62, 67, 70}},
		{68, []int{62, 67, 70}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, claimCandidates(tt.retirementAge), "retirement age %d", tt.retirementAge)
	}
}

func TestSSAnalysisBridgeIncome(t *testing.T) {
	tests := []struct {
		name            string
		monthlySpending string
		bridge          bool
		winner          int
	}{
		// Bridge income covers spending through 69, so early benefits are wasted.
		{"Ample bridge income delays the claim", "6000", true, 70},
		// Every year is a withdrawal year and the portfolio earns 8%, so early dollars win.
		{"Severe bridge cost claims early", "8000", false, 62},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := bridgeHousehold(tt.monthlySpending, tt.bridge)
			res := CalculateSSAnalysis(req)
			require.NotNil(t, res)

			ages := make([]int, 0, len(res.Outcomes))
			for _, o := range res.Outcomes {
				ages = append(ages, o.Age)
				assert.True(t, res.Winner.ProjectedBalance.GreaterThanOrEqual(o.ProjectedBalance))
			}
			assert.Equal(t, []int{62, 67, 70}, ages)
			assert.Equal(t, tt.winner, res.Winner.Age)
			assert.Len(t, res.BreakevenData, BreakevenEndAge-BreakevenStartAge+1)
		})
	}
}

func TestSSAnalysisReinvestRate(t *testing.T) {
	req := bridgeHousehold("6000", true)
	zero := d("0")
	req.ReinvestRate = &zero
	res := CalculateSSAnalysis(req)

	age, ok := BreakevenAge(res.BreakevenData)
	require.True(t, ok)
	assert.Equal(t, 80, age)
}

func TestSSAnalysisTargetAtStartKeepsPortfolio(t *testing.T) {
	req := bridgeHousehold("6000", false)
	req.TargetMaxPortfolioAge = 62
	res := CalculateSSAnalysis(req)
	for _, o := range res.Outcomes {
		assert.True(t, req.Inputs.TotalPortfolio.Equal(o.ProjectedBalance))
	}
	assert.Equal(t, 62, res.Winner.Age, "ties go to the first candidate")
}

func TestSSPartnerAnalysis(t *testing.T) {
	req := bridgeHousehold("8000", false)
	req.Client.PartnerRetirementAge = 64

	res := CalculateSSPartnerAnalysis(req, 62)
	require.NotNil(t, res)
	ages := make([]int, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		ages = append(ages, o.Age)
	}
	assert.Equal(t, []int{62, 64, 67, 70}, ages)
	assert.Contains(t, ages, res.Winner.Age)

	// Partner breakeven uses the partner PIA: 1,500 * 0.6999 * 12 at 62.
	assert.True(t, d("12598.2").Equal(res.BreakevenData[2].ClaimAt62), "got %s", res.BreakevenData[2].ClaimAt62)
}

func TestSSPartnerAnalysisUnmarried(t *testing.T) {
	req := bridgeHousehold("6000", false)
	req.Client.IsMarried = false
	assert.Nil(t, CalculateSSPartnerAnalysis(req, 67))
}
