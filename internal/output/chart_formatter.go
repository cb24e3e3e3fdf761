package output

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	charts "github.com/vicanso/go-charts/v2"
)

// ChartFormatter renders a PNG line chart: percentile bands for Monte Carlo
// results, or portfolio total against the benchmark for a projection.
type ChartFormatter struct{}

func (c ChartFormatter) Name() string { return "chart" }

func (c ChartFormatter) Format(report *Report) ([]byte, error) {
	var (
		title  string
		labels []string
		names  []string
		series [][]float64
	)
	switch {
	case report.MonteCarlo != nil && len(report.MonteCarlo.Years) > 0:
		mc := report.MonteCarlo
		title = fmt.Sprintf("Monte Carlo • %s success", FormatPercentage(mc.SuccessRate))
		for _, y := range mc.Years {
			labels = append(labels, strconv.Itoa(y))
		}
		names = []string{"P10", "Median", "P90"}
		series = [][]float64{floats(mc.P10), floats(mc.Median), floats(mc.P90)}
	case len(report.Projection) > 0:
		title = "Projection • portfolio vs benchmark"
		totals := make([]decimal.Decimal, len(report.Projection))
		bench := make([]decimal.Decimal, len(report.Projection))
		for i, y := range report.Projection {
			labels = append(labels, strconv.Itoa(y.Age))
			totals[i] = y.EndTotal
			bench[i] = y.BenchmarkBalance
		}
		names = []string{"Portfolio", "Benchmark"}
		series = [][]float64{floats(totals), floats(bench)}
	default:
		return nil, ErrEmptyReport
	}

	yMin, yMax := valueRange(series)
	split := len(labels) / 3
	if split < 3 {
		split = 3
	}
	painter, err := charts.LineRender(
		series,
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: split,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: names,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	buf, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

func floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}

// valueRange pads the data range by 5% so lines do not sit on the frame.
func valueRange(series [][]float64) (float64, float64) {
	first := true
	var lo, hi float64
	for _, s := range series {
		for _, v := range s {
			if first {
				lo, hi, first = v, v, false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	padding := (hi - lo) * 0.05
	if padding == 0 {
		padding = hi * 0.05
	}
	if padding == 0 {
		padding = 1
	}
	lo -= padding
	if lo < 0 {
		lo = 0
	}
	return lo, hi + padding
}
