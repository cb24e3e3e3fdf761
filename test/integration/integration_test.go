package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/calculation"
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/config"
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/output"
)

func loadPlan(t *testing.T) *domain.Plan {
	t.Helper()
	config.SetNowFunc(func() time.Time { return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) })
	t.Cleanup(func() { config.SetNowFunc(time.Now) })

	plan, err := config.NewInputParser().LoadFromFile("../testdata/married_plan.yaml")
	require.NoError(t, err)
	return plan
}

func newEngine() *calculation.Engine {
	return calculation.NewEngine(
		calculation.WithIterations(200),
		calculation.WithSeed(42),
	)
}

func TestPlanLoading(t *testing.T) {
	plan := loadPlan(t)
	assert.Equal(t, 64, plan.Client.CurrentAge)
	assert.Equal(t, 61, plan.Client.PartnerCurrentAge)
	assert.Equal(t, domain.DefaultReturnAssumptions(), plan.Assumptions)
	require.Len(t, plan.Inputs.AdditionalIncomes, 2)
	assert.True(t, plan.Inputs.AdditionalIncomes[1].FiresAt(72))
}

func TestEndToEndProjection(t *testing.T) {
	plan := loadPlan(t)
	engine := newEngine()

	bp := engine.CalculateBasePlan(plan.Inputs, plan.Assumptions, plan.Client)
	require.False(t, bp.IsDeficit)
	assert.True(t, bp.Buckets.Total().Equal(plan.Inputs.TotalPortfolio), "buckets must sum to the portfolio")

	res, err := engine.RunSimulation(context.Background(), bp, plan.Assumptions, plan.Inputs, plan.RebalanceFrequency, false)
	require.NoError(t, err)
	require.Len(t, res.Projection, calculation.DefaultHorizon)

	first := res.Projection[0]
	assert.Equal(t, 64, first.Age)
	assert.Equal(t, 61, first.PartnerAge)
	assert.True(t, first.StartBalance.Equal(plan.Inputs.TotalPortfolio))

	// cabin sale lands in the year the client turns 72
	sale := res.Projection[72-64]
	assert.True(t, sale.OneTimeContribution.Equal(decimal.NewFromInt(200000)))

	for _, y := range res.Projection {
		assert.False(t, y.EndTotal.IsNegative(), "year %d", y.Year)
		if y.Year%plan.RebalanceFrequency != 0 {
			assert.False(t, y.Rebalanced, "year %d", y.Year)
		}
	}

	again, err := engine.RunSimulation(context.Background(), bp, plan.Assumptions, plan.Inputs, plan.RebalanceFrequency, false)
	require.NoError(t, err)
	want, err := json.Marshal(res.Projection)
	require.NoError(t, err)
	got, err := json.Marshal(again.Projection)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestEndToEndMonteCarloAndStrategies(t *testing.T) {
	plan := loadPlan(t)
	engine := newEngine()
	ctx := context.Background()

	bp := engine.CalculateBasePlan(plan.Inputs, plan.Assumptions, plan.Client)
	res, err := engine.RunSimulation(ctx, bp, plan.Assumptions, plan.Inputs, plan.RebalanceFrequency, true)
	require.NoError(t, err)
	mc := res.MonteCarlo
	require.NotNil(t, mc)
	assert.Equal(t, 200, mc.Iterations)
	for i := range mc.Years {
		assert.True(t, mc.P10[i].LessThanOrEqual(mc.Median[i]))
		assert.True(t, mc.Median[i].LessThanOrEqual(mc.P90[i]))
	}

	strategies := engine.CalculateAlternativeAllocations(plan.Inputs, bp)
	require.Len(t, strategies, 5)
	for name, s := range strategies {
		assert.True(t, s.Buckets.Total().Equal(plan.Inputs.TotalPortfolio), name)
	}
	ranked, err := engine.CompareStrategies(ctx, strategies, plan.Assumptions, plan.Inputs, plan.Client, plan.RebalanceFrequency)
	require.NoError(t, err)
	require.Len(t, ranked, 5)
	for i := 1; i < len(ranked); i++ {
		assert.True(t, ranked[i-1].Result.SuccessRate.GreaterThanOrEqual(ranked[i].Result.SuccessRate))
	}
}

func TestEndToEndSocialSecurity(t *testing.T) {
	plan := loadPlan(t)
	engine := newEngine()
	req := calculation.SSAnalysisRequest{
		Inputs:                plan.Inputs,
		Client:                plan.Client,
		Assumptions:           plan.Assumptions,
		TargetMaxPortfolioAge: plan.TargetMaxPortfolioAge,
	}

	client := engine.CalculateSSAnalysis(req)
	require.NotNil(t, client)
	ages := make([]int, 0, len(client.Outcomes))
	for _, o := range client.Outcomes {
		ages = append(ages, o.Age)
		assert.True(t, client.Winner.ProjectedBalance.GreaterThanOrEqual(o.ProjectedBalance))
	}
	assert.Equal(t, []int{62, 64, 67, 70}, ages)
	assert.Len(t, client.BreakevenData, calculation.BreakevenEndAge-calculation.BreakevenStartAge+1)

	partner := engine.CalculateSSPartnerAnalysis(req, client.Winner.Age)
	require.NotNil(t, partner)
	assert.Contains(t, []int{62, 64, 67, 70}, partner.Winner.Age)
}

func TestEveryFormatterRendersEngineOutput(t *testing.T) {
	plan := loadPlan(t)
	engine := newEngine()
	ctx := context.Background()

	bp := engine.CalculateBasePlan(plan.Inputs, plan.Assumptions, plan.Client)
	proj, err := engine.RunSimulation(ctx, bp, plan.Assumptions, plan.Inputs, plan.RebalanceFrequency, false)
	require.NoError(t, err)
	mc, err := engine.RunSimulation(ctx, bp, plan.Assumptions, plan.Inputs, plan.RebalanceFrequency, true)
	require.NoError(t, err)

	report := &output.Report{
		Plan:        plan,
		BasePlan:    bp,
		Projection:  proj.Projection,
		MonteCarlo:  mc.MonteCarlo,
		GeneratedAt: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
	}
	dir := t.TempDir()
	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			path, err := output.GenerateReport(report, name, dir)
			require.NoError(t, err)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
			assert.Equal(t, dir, filepath.Dir(path))
			switch name {
			case "chart":
				assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
			case "console":
				assert.Contains(t, string(data), "Plan: Integration couple")
			case "csv":
				assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), calculation.DefaultHorizon+1)
			}
		})
	}
}
