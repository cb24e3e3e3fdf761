package calculation

import (
	"context"
	"sort"

	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	money "github.com/RoddroMiller/SanDiegoRetire.com-sub000/pkg/decimal"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Strategy names produced by AlternativeAllocations.
const (
	StrategyCurrentModel     = "Current Model"
	StrategyConservativeTilt = "Conservative Equity Tilt"
	StrategyBarbell          = "Barbell"
	StrategyBalancedBlend    = "Balanced Blend"
	StrategyIncomeLadder     = "Income Ladder"
)

// barbellYears is how many years of distributions the barbell keeps in bucket 1.
const barbellYears = 3

// StrategyComparison pairs a strategy name with its Monte Carlo outcome.
type StrategyComparison struct {
	Name   string                          `json:"name"`
	Result *domain.OptimizedStrategyResult `json:"result"`
}

// AlternativeAllocations returns named five-bucket splits of TotalPortfolio.
// Every allocation sums exactly to TotalPortfolio; percentage splits put the
// rounding remainder in bucket 5.
func AlternativeAllocations(inputs domain.PlanInputs, plan *BucketPlan) map[string]domain.AllocationStrategy {
	total := inputs.TotalPortfolio
	annualDistribution := plan.model(inputs).AnnualGap(0)

	barbell := money.Min(annualDistribution.Mul(decimal.NewFromInt(barbellYears)), total)

	return map[string]domain.AllocationStrategy{
		StrategyCurrentModel: {
			Name:        StrategyCurrentModel,
			Description: "Present-value bucket sizing from the base plan",
			Buckets:     plan.Buckets,
		},
		StrategyConservativeTilt: {
			Name:        StrategyConservativeTilt,
			Description: "10/10/30/0/50 split weighted toward long-term growth",
			Buckets:     percentSplit(total, 10, 10, 30, 0),
		},
		StrategyBarbell: {
			Name:        StrategyBarbell,
			Description: "Three years of distributions in cash, everything else in growth",
			Buckets:     withRemainder(total, barbell, decimal.Zero, decimal.Zero, decimal.Zero),
		},
		StrategyBalancedBlend: {
			Name:        StrategyBalancedBlend,
			Description: "10/20/30/10/30 blended split",
			Buckets:     percentSplit(total, 10, 20, 30, 10),
		},
		StrategyIncomeLadder: {
			Name:        StrategyIncomeLadder,
			Description: "Present-value ladder for buckets 1-3 with no income sleeve",
			Buckets:     ladder(total, plan.Buckets),
		},
	}
}

// percentSplit assigns the given percentages to buckets 1-4 and the remainder to bucket 5.
func percentSplit(total decimal.Decimal, p1, p2, p3, p4 int64) domain.BucketValues {
	share := func(p int64) decimal.Decimal {
		return money.Cents(money.Share(total, decimal.NewFromInt(p)))
	}
	return withRemainder(total, share(p1), share(p2), share(p3), share(p4))
}

func withRemainder(total, b1, b2, b3, b4 decimal.Decimal) domain.BucketValues {
	return domain.BucketValues{
		B1: b1, B2: b2, B3: b3, B4: b4,
		B5: total.Sub(b1).Sub(b2).Sub(b3).Sub(b4),
	}
}

func ladder(total decimal.Decimal, base domain.BucketValues) domain.BucketValues {
	avail := money.NonNegative(total)
	var rungs [3]decimal.Decimal
	for k, v := range [3]decimal.Decimal{base.B1, base.B2, base.B3} {
		rungs[k] = money.Min(money.NonNegative(v), avail)
		avail = avail.Sub(rungs[k])
	}
	return withRemainder(total, rungs[0], rungs[1], rungs[2], decimal.Zero)
}

// RunOptimizedSimulation runs a Monte Carlo batch starting from allocation.
// Rebalancing follows the simulator's policy at rebalanceFreq.
func (s *Simulator) RunOptimizedSimulation(ctx context.Context, allocation domain.AllocationStrategy, assumptions domain.ReturnAssumptions, inputs domain.PlanInputs, client domain.ClientProfile, rebalanceFreq int) (*domain.OptimizedStrategyResult, error) {
	return s.runOptimized(ctx, allocation, assumptions, inputs, client, rebalanceFreq, NewRandomSource(s.Seed))
}

func (s *Simulator) runOptimized(ctx context.Context, allocation domain.AllocationStrategy, assumptions domain.ReturnAssumptions, inputs domain.PlanInputs, client domain.ClientProfile, rebalanceFreq int, src RandomSource) (*domain.OptimizedStrategyResult, error) {
	model := NewCashFlowModel(client, inputs)
	ps := s.prepare(allocation.Buckets, model, assumptions, inputs, rebalanceFreq)
	set, err := s.runPaths(ctx, ps, src)
	if err != nil {
		return nil, err
	}
	return &domain.OptimizedStrategyResult{
		SuccessRate:  set.successRate(),
		MedianLegacy: set.medianLegacy(),
		Allocation:   allocation,
	}, nil
}

// CompareStrategies runs every strategy concurrently, each over its own
// random source, and orders the results by success rate then median legacy.
// With a fixed Seed the outcome is reproducible.
func (s *Simulator) CompareStrategies(ctx context.Context, strategies map[string]domain.AllocationStrategy, assumptions domain.ReturnAssumptions, inputs domain.PlanInputs, client domain.ClientProfile, rebalanceFreq int) ([]StrategyComparison, error) {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	base := s.Seed
	if base == 0 {
		base = seedFunc()
	}

	out := make([]StrategyComparison, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		src := NewRandomSource(base + int64(i) + 1)
		g.Go(func() error {
			res, err := s.runOptimized(gctx, strategies[name], assumptions, inputs, client, rebalanceFreq, src)
			if err != nil {
				return err
			}
			out[i] = StrategyComparison{Name: name, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Result, out[j].Result
		if !a.SuccessRate.Equal(b.SuccessRate) {
			return a.SuccessRate.GreaterThan(b.SuccessRate)
		}
		return a.MedianLegacy.GreaterThan(b.MedianLegacy)
	})
	s.Logger.Infof("compared %d strategies, best %q at %s%% success", len(out), bestName(out), bestRate(out))
	return out, nil
}

func bestName(out []StrategyComparison) string {
	if len(out) == 0 {
		return ""
	}
	return out[0].Name
}

func bestRate(out []StrategyComparison) string {
	if len(out) == 0 {
		return "0"
	}
	return out[0].Result.SuccessRate.StringFixed(1)
}
