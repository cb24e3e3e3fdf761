package calculation

import (
	"context"
	"fmt"
	"sort"

	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// Percentile points reported per year, in percent.
const (
	lowPercentile    = 10
	medianPercentile = 50
	highPercentile   = 90
)

// pathSet is the outcome of a batch of Monte Carlo paths.
type pathSet struct {
	horizon int
	totals  [][]decimal.Decimal // [iteration][year]
	failed  []bool
}

// runPaths runs s.Iterations randomized paths over one source.
// Cancellation is checked between iterations.
func (s *Simulator) runPaths(ctx context.Context, ps *pathSetup, src RandomSource) (*pathSet, error) {
	sampler := NewNormalSampler(src)
	set := &pathSet{
		horizon: ps.horizon,
		totals:  make([][]decimal.Decimal, s.Iterations),
		failed:  make([]bool, s.Iterations),
	}
	for it := 0; it < s.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("monte carlo stopped after %d of %d iterations: %w", it, s.Iterations, err)
		}
		res := ps.run(sampler, false)
		set.totals[it] = res.totals
		set.failed[it] = res.failed
	}
	return set, nil
}

func (set *pathSet) failedCount() int {
	n := 0
	for _, f := range set.failed {
		if f {
			n++
		}
	}
	return n
}

// successRate is the share of paths that never depleted, in percent.
func (set *pathSet) successRate() decimal.Decimal {
	n := len(set.failed)
	if n == 0 {
		return decimal.Zero
	}
	ok := int64(n - set.failedCount())
	return decimal.NewFromInt(ok * 100).Div(decimal.NewFromInt(int64(n))).Round(2)
}

// bands sorts each year's totals and picks p10/median/p90 by index floor(n*p).
func (set *pathSet) bands() *domain.MonteCarloResult {
	n := len(set.totals)
	res := &domain.MonteCarloResult{
		Years:       make([]int, set.horizon),
		P10:         make([]decimal.Decimal, set.horizon),
		Median:      make([]decimal.Decimal, set.horizon),
		P90:         make([]decimal.Decimal, set.horizon),
		SuccessRate: set.successRate(),
		Iterations:  n,
		FailedCount: set.failedCount(),
	}
	column := make([]decimal.Decimal, n)
	for year := 0; year < set.horizon; year++ {
		res.Years[year] = year + 1
		if n == 0 {
			continue
		}
		for it := range set.totals {
			column[it] = set.totals[it][year]
		}
		sortDecimals(column)
		res.P10[year] = column[percentileIndex(n, lowPercentile)]
		res.Median[year] = column[percentileIndex(n, medianPercentile)]
		res.P90[year] = column[percentileIndex(n, highPercentile)]
	}
	return res
}

// medianLegacy is the median final-year total among paths that never depleted.
func (set *pathSet) medianLegacy() decimal.Decimal {
	finals := make([]decimal.Decimal, 0, len(set.totals))
	for it, totals := range set.totals {
		if set.failed[it] || len(totals) == 0 {
			continue
		}
		finals = append(finals, totals[len(totals)-1])
	}
	if len(finals) == 0 {
		return decimal.Zero
	}
	sortDecimals(finals)
	return finals[percentileIndex(len(finals), medianPercentile)]
}

func percentileIndex(n, pct int) int {
	idx := n * pct / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}

func sortDecimals(v []decimal.Decimal) {
	sort.Slice(v, func(i, j int) bool { return v[i].LessThan(v[j]) })
}
