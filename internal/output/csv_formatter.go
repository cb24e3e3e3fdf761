package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVFormatter writes the report's primary table: projection rows first, then
// Monte Carlo bands, strategy comparisons, or claim-age outcomes.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	var rows [][]string
	switch {
	case len(report.Projection) > 0:
		rows = projectionRows(report)
	case report.MonteCarlo != nil:
		rows = monteCarloRows(report)
	case len(report.Strategies) > 0:
		rows = strategyRows(report)
	case report.SSClient != nil:
		rows = claimRows(report)
	default:
		return nil, ErrEmptyReport
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func projectionRows(report *Report) [][]string {
	rows := [][]string{{
		"Year", "Age", "PartnerAge", "StartBalance", "Growth", "Income", "OneTimeContribution",
		"Expenses", "TotalWithdrawal", "EndTotal", "Benchmark", "DistributionRate",
		"B1", "B2", "B3", "B4", "B5", "Rebalanced",
	}}
	for _, y := range report.Projection {
		row := []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.Age),
			strconv.Itoa(y.PartnerAge),
			y.StartBalance.StringFixed(2),
			y.Growth.StringFixed(2),
			y.SSIncome.StringFixed(2),
			y.OneTimeContribution.StringFixed(2),
			y.Expenses.StringFixed(2),
			y.TotalWithdrawal.StringFixed(2),
			y.EndTotal.StringFixed(2),
			y.BenchmarkBalance.StringFixed(2),
			y.DistributionRate.StringFixed(2),
		}
		row = append(row, fixed(y.Balances.Array())...)
		row = append(row, strconv.FormatBool(y.Rebalanced))
		rows = append(rows, row)
	}
	return rows
}

func monteCarloRows(report *Report) [][]string {
	mc := report.MonteCarlo
	rows := [][]string{{"Year", "P10", "Median", "P90"}}
	for i, year := range mc.Years {
		rows = append(rows, []string{
			strconv.Itoa(year),
			mc.P10[i].StringFixed(2),
			mc.Median[i].StringFixed(2),
			mc.P90[i].StringFixed(2),
		})
	}
	return rows
}

func strategyRows(report *Report) [][]string {
	rows := [][]string{{"Strategy", "SuccessRate", "MedianLegacy", "B1", "B2", "B3", "B4", "B5"}}
	for _, s := range report.Strategies {
		row := []string{s.Name, s.Result.SuccessRate.StringFixed(2), s.Result.MedianLegacy.StringFixed(2)}
		row = append(row, fixed(s.Result.Allocation.Buckets.Array())...)
		rows = append(rows, row)
	}
	return rows
}

func claimRows(report *Report) [][]string {
	rows := [][]string{{"Person", "ClaimAge", "ProjectedBalance", "Winner"}}
	add := func(person string, res *domain.SSAnalysisResult) {
		for _, o := range res.Outcomes {
			rows = append(rows, []string{person, strconv.Itoa(o.Age), o.ProjectedBalance.StringFixed(2), strconv.FormatBool(o.Age == res.Winner.Age)})
		}
	}
	add("client", report.SSClient)
	if report.SSPartner != nil {
		add("partner", report.SSPartner)
	}
	return rows
}

func fixed(values [5]decimal.Decimal) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.StringFixed(2)
	}
	return out
}
