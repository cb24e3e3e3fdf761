package calculation

import (
	"context"

	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	money "github.com/RoddroMiller/SanDiegoRetire.com-sub000/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Simulation defaults.
const (
	DefaultIterations = 500
	DefaultHorizon    = 30
)

// SimulatorConfig configures a Simulator. Zero values select the defaults.
// A zero Seed draws a fresh seed on every Monte Carlo call.
type SimulatorConfig struct {
	Iterations int
	Horizon    int
	Seed       int64
	Policy     RebalancePolicy
	Logger     Logger
}

// Simulator time-steps five buckets over a fixed horizon.
type Simulator struct {
	Iterations int
	Horizon    int
	Seed       int64
	Policy     RebalancePolicy
	Logger     Logger
}

// SimulationOutput holds whichever of the two simulation modes was run.
type SimulationOutput struct {
	Projection []domain.SimulationYearRecord `json:"projection,omitempty"`
	MonteCarlo *domain.MonteCarloResult      `json:"monte_carlo,omitempty"`
}

// NewSimulator creates a simulator from cfg.
func NewSimulator(cfg SimulatorConfig) *Simulator {
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultIterations
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = DefaultHorizon
	}
	if cfg.Logger == nil {
		cfg.Logger = NopLogger{}
	}
	return &Simulator{
		Iterations: cfg.Iterations,
		Horizon:    cfg.Horizon,
		Seed:       cfg.Seed,
		Policy:     cfg.Policy,
		Logger:     cfg.Logger,
	}
}

// Run executes a deterministic projection or a Monte Carlo run.
func (s *Simulator) Run(ctx context.Context, plan *BucketPlan, assumptions domain.ReturnAssumptions, inputs domain.PlanInputs, rebalanceFreq int, isMonteCarlo bool) (*SimulationOutput, error) {
	if !isMonteCarlo {
		return &SimulationOutput{Projection: s.RunProjection(plan, assumptions, inputs, rebalanceFreq)}, nil
	}
	mc, err := s.RunMonteCarlo(ctx, plan, assumptions, inputs, rebalanceFreq)
	if err != nil {
		return nil, err
	}
	return &SimulationOutput{MonteCarlo: mc}, nil
}

// RunProjection runs one path at expected returns and returns a record per year.
func (s *Simulator) RunProjection(plan *BucketPlan, assumptions domain.ReturnAssumptions, inputs domain.PlanInputs, rebalanceFreq int) []domain.SimulationYearRecord {
	ps := s.prepare(plan.Buckets, plan.model(inputs), assumptions, inputs, rebalanceFreq)
	return ps.run(nil, true).records
}

// RunMonteCarlo runs Iterations randomized paths and aggregates percentile bands.
func (s *Simulator) RunMonteCarlo(ctx context.Context, plan *BucketPlan, assumptions domain.ReturnAssumptions, inputs domain.PlanInputs, rebalanceFreq int) (*domain.MonteCarloResult, error) {
	ps := s.prepare(plan.Buckets, plan.model(inputs), assumptions, inputs, rebalanceFreq)
	set, err := s.runPaths(ctx, ps, NewRandomSource(s.Seed))
	if err != nil {
		return nil, err
	}
	res := set.bands()
	s.Logger.Debugf("monte carlo: %d iterations, %d depleted, success %s%%", res.Iterations, res.FailedCount, res.SuccessRate.StringFixed(1))
	return res, nil
}

func (p *BucketPlan) model(inputs domain.PlanInputs) *CashFlowModel {
	if p.CashFlow != nil {
		return p.CashFlow
	}
	return NewCashFlowModel(domain.ClientProfile{}, inputs)
}

// pathSetup is everything a single path needs that does not depend on the draws.
type pathSetup struct {
	horizon   int
	freq      int
	policy    RebalancePolicy
	start     [5]decimal.Decimal
	benchmark decimal.Decimal
	details   []domain.AnnualDetail
	targets   []bucketTargets // indexed by simulation year; set on rebalance years only
	means     [5]decimal.Decimal
	sds       [5]decimal.Decimal
	benchMean decimal.Decimal
	benchSD   decimal.Decimal
}

func (s *Simulator) prepare(start domain.BucketValues, model *CashFlowModel, assumptions domain.ReturnAssumptions, inputs domain.PlanInputs, rebalanceFreq int) *pathSetup {
	ra := assumptions.Array()
	ps := &pathSetup{
		horizon:   s.Horizon,
		freq:      rebalanceFreq,
		policy:    s.Policy,
		start:     clipToPortfolio(start, inputs.TotalPortfolio),
		benchmark: inputs.TotalPortfolio,
		details:   make([]domain.AnnualDetail, s.Horizon),
		benchMean: ra[2].ExpectedReturn,
		benchSD:   ra[2].StdDev,
	}
	for k, a := range ra {
		ps.means[k] = a.ExpectedReturn
		ps.sds[k] = a.StdDev
	}

	lastWindowYear := bucketWindows[len(bucketWindows)-1][1]
	gaps := make([]decimal.Decimal, s.Horizon+lastWindowYear)
	for idx := range gaps {
		if idx < s.Horizon {
			ps.details[idx] = model.AnnualDetail(idx)
			gaps[idx] = ps.details[idx].Gap
			continue
		}
		gaps[idx] = model.AnnualGap(idx)
	}
	gapAt := func(idx int) decimal.Decimal { return gaps[idx] }

	if rebalanceFreq > 0 {
		ps.targets = make([]bucketTargets, s.Horizon+1)
		for i := rebalanceFreq; i <= s.Horizon; i += rebalanceFreq {
			for k, w := range bucketWindows {
				ps.targets[i][k] = money.Cents(presentValue(gapAt, i, i+w[0], i+w[1], ps.means[k]))
			}
		}
	}
	return ps
}

// clipToPortfolio fills buckets in priority order without exceeding total;
// anything left over lands in bucket 5.
func clipToPortfolio(plan domain.BucketValues, total decimal.Decimal) [5]decimal.Decimal {
	avail := money.NonNegative(total)
	var out [5]decimal.Decimal
	for k, v := range plan.Array() {
		take := money.Min(money.NonNegative(v), avail)
		out[k] = take
		avail = avail.Sub(take)
	}
	out[4] = out[4].Add(avail)
	return out
}

type pathResult struct {
	records []domain.SimulationYearRecord
	totals  []decimal.Decimal
	failed  bool
}

// run steps one path. A nil sampler uses expected returns.
func (ps *pathSetup) run(sampler *NormalSampler, record bool) pathResult {
	b := ps.start
	bench := ps.benchmark
	depleted := false

	res := pathResult{totals: make([]decimal.Decimal, ps.horizon)}
	if record {
		res.records = make([]domain.SimulationYearRecord, 0, ps.horizon)
	}

	for i := 1; i <= ps.horizon; i++ {
		d := ps.details[i-1]
		startTotal := sumBuckets(b)

		for k := range b {
			f := growthFactor(ps.means[k], ps.sds[k], sampler)
			if !depleted {
				b[k] = money.Cents(money.NonNegative(b[k].Mul(f)))
			}
		}
		growth := sumBuckets(b).Sub(startTotal)
		if !depleted {
			b[4] = b[4].Add(d.OneTimeContribution)
		}

		bf := growthFactor(ps.benchMean, ps.benchSD, sampler)
		bench = money.NonNegative(money.Cents(bench.Mul(bf)).Add(d.OneTimeContribution).Sub(d.Gap))

		var w [5]decimal.Decimal
		withdrawn := decimal.Zero
		if !depleted {
			w, withdrawn = withdraw(&b, d.Gap)
		}

		rebalanced := false
		if !depleted && ps.freq > 0 && i%ps.freq == 0 {
			ps.policy.apply(&b, ps.targets[i])
			rebalanced = true
		}

		total := sumBuckets(b)
		if !total.IsPositive() {
			depleted = true
			res.failed = true
			b = [5]decimal.Decimal{}
			total = decimal.Zero
		}
		res.totals[i-1] = total

		if record {
			res.records = append(res.records, domain.SimulationYearRecord{
				Year:                i,
				Age:                 d.SimAge,
				PartnerAge:          d.PartnerAge,
				StartBalance:        startTotal,
				Growth:              growth,
				SSIncome:            d.Income,
				OneTimeContribution: d.OneTimeContribution,
				Expenses:            d.Expenses,
				TotalWithdrawal:     withdrawn,
				EndTotal:            total,
				BenchmarkBalance:    bench,
				DistributionRate:    money.Percent(withdrawn, startTotal).Round(2),
				Balances:            domain.BucketValuesFromArray(b),
				Withdrawals:         domain.BucketValuesFromArray(w),
				Rebalanced:          rebalanced,
			})
		}
	}
	return res
}

// growthFactor returns 1 + (mean + sd*Z)/100, with Z = 0 when no sampler is given.
func growthFactor(mean, sd decimal.Decimal, sampler *NormalSampler) decimal.Decimal {
	rate := mean
	if sampler != nil {
		rate = mean.Add(sd.Mul(decimal.NewFromFloat(sampler.Next())))
	}
	return decimal.NewFromInt(1).Add(money.FromPercent(rate))
}

// withdraw drains gap from the buckets in order b1..b5 and returns the
// per-bucket amounts and their total.
func withdraw(b *[5]decimal.Decimal, gap decimal.Decimal) ([5]decimal.Decimal, decimal.Decimal) {
	var w [5]decimal.Decimal
	remaining := gap
	for k := range b {
		if !remaining.IsPositive() {
			break
		}
		take := money.Min(b[k], remaining)
		b[k] = b[k].Sub(take)
		w[k] = take
		remaining = remaining.Sub(take)
	}
	return w, gap.Sub(remaining)
}
