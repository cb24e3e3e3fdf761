package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/calculation"
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func buckets(b1, b2, b3, b4, b5 float64) domain.BucketValues {
	return domain.BucketValues{B1: d(b1), B2: d(b2), B3: d(b3), B4: d(b4), B5: d(b5)}
}

func buildTestReport() *Report {
	birth := time.Date(1960, 3, 15, 0, 0, 0, 0, time.UTC)
	return &Report{
		Plan: &domain.Plan{
			Name: "Test Household",
			Client: domain.ClientProfile{
				CurrentAge: 65, RetirementAge: 65, BirthDate: &birth,
			},
			Inputs: domain.PlanInputs{TotalPortfolio: d(1000000), MonthlySpending: d(4000)},
		},
		BasePlan: &calculation.BucketPlan{Buckets: buckets(112000, 46000, 87000, 100000, 655000)},
		Projection: []domain.SimulationYearRecord{
			{Year: 1, Age: 65, StartBalance: d(1000000), TotalWithdrawal: d(48000), EndTotal: d(1012000), BenchmarkBalance: d(1007000), DistributionRate: d(4.8), Balances: buckets(66240, 48000, 90000, 106000, 701760)},
			{Year: 2, Age: 66, StartBalance: d(1012000), TotalWithdrawal: d(48000), EndTotal: d(1025000), BenchmarkBalance: d(1014000), DistributionRate: d(4.74), Balances: buckets(20000, 50000, 95000, 110000, 750000)},
			{Year: 3, Age: 67, StartBalance: d(1025000), TotalWithdrawal: d(18000), EndTotal: d(1060000), BenchmarkBalance: d(1040000), DistributionRate: d(1.76), Balances: buckets(106000, 49000, 88000, 106000, 711000), Rebalanced: true},
		},
		MonteCarlo: &domain.MonteCarloResult{
			Years:       []int{1, 2},
			P10:         []decimal.Decimal{d(950000), d(900000)},
			Median:      []decimal.Decimal{d(1010000), d(1020000)},
			P90:         []decimal.Decimal{d(1080000), d(1150000)},
			SuccessRate: d(96.5),
			Iterations:  1000,
			FailedCount: 35,
		},
		Strategies: []calculation.StrategyComparison{
			{Name: "Barbell", Result: &domain.OptimizedStrategyResult{SuccessRate: d(98), MedianLegacy: d(2100000), Allocation: domain.AllocationStrategy{Name: "Barbell", Buckets: buckets(144000, 0, 0, 0, 856000)}}},
			{Name: "Current Model", Result: &domain.OptimizedStrategyResult{SuccessRate: d(97), MedianLegacy: d(1900000), Allocation: domain.AllocationStrategy{Name: "Current Model", Buckets: buckets(112000, 46000, 87000, 100000, 655000)}}},
		},
		SSClient: &domain.SSAnalysisResult{
			Winner:        domain.SSOutcome{Age: 70, ProjectedBalance: d(2500000)},
			Outcomes:      []domain.SSOutcome{{Age: 62, ProjectedBalance: d(2300000)}, {Age: 67, ProjectedBalance: d(2400000)}, {Age: 70, ProjectedBalance: d(2500000)}},
			BreakevenData: calculation.BreakevenData(d(2500), decimal.Zero),
		},
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"chart", "console", "csv", "json"}, AvailableFormatterNames())
	for _, alias := range AvailableFormatAliases() {
		require.NotNil(t, GetFormatterByName(alias), "alias %q should resolve", alias)
	}
	assert.Equal(t, "chart", GetFormatterByName(" PNG ").Name())
	assert.Nil(t, GetFormatterByName("html"))
}

func TestFormatterFunc(t *testing.T) {
	f := FormatterFunc{ID: "kind", F: func(r *Report) ([]byte, error) { return []byte(r.Kind()), nil }}
	out, err := f.Format(&Report{MonteCarlo: &domain.MonteCarloResult{}})
	require.NoError(t, err)
	assert.Equal(t, "kind", f.Name())
	assert.Equal(t, "montecarlo", string(out))
}

func TestReportKind(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   string
	}{
		{"empty", Report{}, "report"},
		{"plan only", Report{BasePlan: &calculation.BucketPlan{}}, "plan"},
		{"ss", Report{SSClient: &domain.SSAnalysisResult{}}, "ss"},
		{"strategies", Report{Strategies: []calculation.StrategyComparison{{Name: "x"}}}, "strategies"},
		{"projection wins", *buildTestReport(), "projection"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.Kind())
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport())
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &decoded))
	for _, key := range []string{"plan", "base_plan", "projection", "monte_carlo", "strategies", "ss_client", "generated_at"} {
		assert.Contains(t, decoded, key)
	}
	assert.NotContains(t, decoded, "ss_partner")
}

func TestCSVFormatterProjection(t *testing.T) {
	out, err := CSVFormatter{}.Format(buildTestReport())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (header+3 rows), got %d", len(lines))
	}
	assert.True(t, strings.HasPrefix(lines[0], "Year,Age,PartnerAge,StartBalance"))
	assert.True(t, strings.HasPrefix(lines[1], "1,65,0,1000000.00"))
	assert.True(t, strings.HasSuffix(lines[3], ",true"))
}

func TestCSVFormatterFallbacks(t *testing.T) {
	full := buildTestReport()

	mc := &Report{MonteCarlo: full.MonteCarlo}
	out, err := CSVFormatter{}.Format(mc)
	require.NoError(t, err)
	assert.Equal(t, "Year,P10,Median,P90\n1,950000.00,1010000.00,1080000.00\n2,900000.00,1020000.00,1150000.00\n", string(out))

	st := &Report{Strategies: full.Strategies}
	out, err = CSVFormatter{}.Format(st)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Barbell,98.00,2100000.00,144000.00,0.00,0.00,0.00,856000.00", lines[1])

	ss := &Report{SSClient: full.SSClient}
	out, err = CSVFormatter{}.Format(ss)
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "client,70,2500000.00,true", lines[3])

	_, err = CSVFormatter{}.Format(&Report{})
	assert.True(t, errors.Is(err, ErrEmptyReport))
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport())
	require.NoError(t, err)
	content := string(out)
	for _, want := range []string{
		"BUCKET DISTRIBUTION PLAN",
		"Plan: Test Household",
		"$1,000,000",
		"B5       $655,000",
		"Success rate: 96.50% (35 failed)",
		"Monte Carlo (1,000 iterations)",
		"Recommended: Barbell",
		"claim at 70: $2,500,000  <- best",
		"Breakeven 70 vs 62: age 80 (2040)",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in console output, got:\n%s", want, content)
		}
	}
	assert.NotContains(t, content, "WARNING")
}

func TestConsoleFormatterDeficitWarning(t *testing.T) {
	r := &Report{BasePlan: &calculation.BucketPlan{Buckets: buckets(300000, 0, 0, 0, 0), IsDeficit: true}}
	out, err := ConsoleFormatter{}.Format(r)
	require.NoError(t, err)
	assert.Contains(t, string(out), "WARNING: near-term needs exceed the portfolio")
}

func TestChartFormatter(t *testing.T) {
	full := buildTestReport()
	for name, r := range map[string]*Report{
		"montecarlo": {MonteCarlo: full.MonteCarlo},
		"projection": {Projection: full.Projection},
	} {
		t.Run(name, func(t *testing.T) {
			out, err := ChartFormatter{}.Format(r)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("\x89PNG")), "expected PNG output")
		})
	}

	_, err := ChartFormatter{}.Format(&Report{SSClient: full.SSClient})
	assert.True(t, errors.Is(err, ErrEmptyReport))
}

func TestValueRange(t *testing.T) {
	lo, hi := valueRange([][]float64{{100, 200}, {150}})
	assert.InDelta(t, 95, lo, 1e-9)
	assert.InDelta(t, 205, hi, 1e-9)

	lo, hi = valueRange([][]float64{{0, 0}})
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}
