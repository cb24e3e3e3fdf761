package output

import (
	"bytes"
	"fmt"
	"time"

	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/calculation"
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/pkg/dateutil"
	"github.com/dustin/go-humanize"
)

var bucketLabels = [domain.NumBuckets]string{"B1", "B2", "B3", "B4", "B5"}

// ConsoleFormatter renders a human readable summary of every section the report carries.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "BUCKET DISTRIBUTION PLAN")
	fmt.Fprintln(&buf, "================================")
	if p := report.Plan; p != nil {
		if p.Name != "" {
			fmt.Fprintf(&buf, "Plan: %s\n", p.Name)
		}
		fmt.Fprintf(&buf, "Portfolio: %s  Spending: %s/mo  Client age: %d\n",
			FormatDollars(p.Inputs.TotalPortfolio), FormatDollars(p.Inputs.MonthlySpending), p.Client.CurrentAge)
		if p.Client.IsMarried {
			fmt.Fprintf(&buf, "Partner age: %d\n", p.Client.PartnerCurrentAge)
		}
	}
	if bp := report.BasePlan; bp != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "Base allocation")
		writeBuckets(&buf, bp.Buckets)
		if bp.IsDeficit {
			fmt.Fprintln(&buf, "  WARNING: near-term needs exceed the portfolio")
		}
	}
	if len(report.Projection) > 0 {
		writeProjection(&buf, report)
	}
	if mc := report.MonteCarlo; mc != nil {
		writeMonteCarlo(&buf, mc)
	}
	if len(report.Strategies) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "Strategy comparison")
		for _, s := range report.Strategies {
			fmt.Fprintf(&buf, "  %-26s success %8s  median legacy %s\n",
				s.Name, FormatPercentage(s.Result.SuccessRate), FormatDollars(s.Result.MedianLegacy))
		}
		fmt.Fprintf(&buf, "Recommended: %s\n", report.Strategies[0].Name)
	}
	if report.SSClient != nil {
		writeClaims(&buf, "Social Security (client)", report.SSClient, report.birthDate(false))
	}
	if report.SSPartner != nil {
		writeClaims(&buf, "Social Security (partner)", report.SSPartner, report.birthDate(true))
	}
	return buf.Bytes(), nil
}

func writeBuckets(buf *bytes.Buffer, b domain.BucketValues) {
	for i, v := range b.Array() {
		fmt.Fprintf(buf, "  %s %14s\n", bucketLabels[i], FormatDollars(v))
	}
	fmt.Fprintf(buf, "  Total %11s\n", FormatDollars(b.Total()))
}

func writeProjection(buf *bytes.Buffer, report *Report) {
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "Projection")
	fmt.Fprintf(buf, "  %4s %4s %14s %12s %14s %14s %6s\n", "Year", "Age", "Start", "Withdrawal", "End", "Benchmark", "Rate")
	for _, y := range report.Projection {
		marker := ""
		if y.Rebalanced {
			marker = " *"
		}
		fmt.Fprintf(buf, "  %4d %4d %14s %12s %14s %14s %6s%s\n",
			y.Year, y.Age, FormatDollars(y.StartBalance), FormatDollars(y.TotalWithdrawal),
			FormatDollars(y.EndTotal), FormatDollars(y.BenchmarkBalance), y.DistributionRate.StringFixed(2), marker)
	}
	last := report.Projection[len(report.Projection)-1]
	fmt.Fprintf(buf, "Ending balance: %s (%s)\n", FormatDollars(last.EndTotal), humanize.Ordinal(last.Year)+" year")
}

func writeMonteCarlo(buf *bytes.Buffer, mc *domain.MonteCarloResult) {
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Monte Carlo (%s iterations)\n", humanize.Comma(int64(mc.Iterations)))
	fmt.Fprintf(buf, "  Success rate: %s (%d failed)\n", FormatPercentage(mc.SuccessRate), mc.FailedCount)
	if n := len(mc.Years); n > 0 {
		fmt.Fprintf(buf, "  Year %d  p10 %s  median %s  p90 %s\n",
			mc.Years[n-1], FormatDollars(mc.P10[n-1]), FormatDollars(mc.Median[n-1]), FormatDollars(mc.P90[n-1]))
	}
}

func writeClaims(buf *bytes.Buffer, title string, res *domain.SSAnalysisResult, birth *time.Time) {
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, title)
	for _, o := range res.Outcomes {
		marker := ""
		if o.Age == res.Winner.Age {
			marker = "  <- best"
		}
		fmt.Fprintf(buf, "  claim at %d: %s%s\n", o.Age, FormatDollars(o.ProjectedBalance), marker)
	}
	if age, ok := calculation.BreakevenAge(res.BreakevenData); ok {
		if birth != nil {
			fmt.Fprintf(buf, "  Breakeven 70 vs 62: age %d (%d)\n", age, dateutil.CalendarYearAtAge(*birth, age))
		} else {
			fmt.Fprintf(buf, "  Breakeven 70 vs 62: age %d\n", age)
		}
	}
}

func (r *Report) birthDate(partner bool) *time.Time {
	if r.Plan == nil {
		return nil
	}
	if partner {
		return r.Plan.Client.PartnerBirthDate
	}
	return r.Plan.Client.BirthDate
}
