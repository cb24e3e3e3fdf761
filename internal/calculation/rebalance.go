package calculation

import (
	"fmt"
	"strings"

	money "github.com/RoddroMiller/SanDiegoRetire.com-sub000/pkg/decimal"
	"github.com/shopspring/decimal"
)

// RebalancePolicy selects how buckets are re-targeted on rebalance years.
type RebalancePolicy int

const (
	// RebalanceRollingPV re-slices the whole portfolio into rolling present-value targets.
	RebalanceRollingPV RebalancePolicy = iota
	// RebalanceGreedyRefill tops bucket 1 up to its rolling target by draining b5, b4 then b3.
	RebalanceGreedyRefill
)

func (p RebalancePolicy) String() string {
	switch p {
	case RebalanceRollingPV:
		return "rolling_pv"
	case RebalanceGreedyRefill:
		return "greedy_refill"
	default:
		return fmt.Sprintf("RebalancePolicy(%d)", int(p))
	}
}

// ParseRebalancePolicy maps a plan-file or flag value to a policy. Empty selects rolling PV.
func ParseRebalancePolicy(s string) (RebalancePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rolling_pv", "rolling", "pv":
		return RebalanceRollingPV, nil
	case "greedy_refill", "greedy", "refill":
		return RebalanceGreedyRefill, nil
	default:
		return RebalanceRollingPV, fmt.Errorf("unknown rebalance policy %q", s)
	}
}

// bucketTargets are the present-value targets for buckets 1-3 at one reference year.
type bucketTargets [3]decimal.Decimal

func (p RebalancePolicy) apply(b *[5]decimal.Decimal, t bucketTargets) {
	switch p {
	case RebalanceGreedyRefill:
		refillGreedy(b, t)
	default:
		retargetRolling(b, t)
	}
}

// retargetRolling re-slices the current total in priority order; each bucket
// takes its target clipped to what is left and bucket 5 keeps the remainder.
func retargetRolling(b *[5]decimal.Decimal, t bucketTargets) {
	total := sumBuckets(*b)
	want := [4]decimal.Decimal{t[0], t[1], t[2], money.Cents(money.Share(total, fixedSleevePct))}

	avail := total
	for k, target := range want {
		take := money.Min(money.NonNegative(target), avail)
		b[k] = take
		avail = avail.Sub(take)
	}
	b[4] = avail
}

func refillGreedy(b *[5]decimal.Decimal, t bucketTargets) {
	need := t[0].Sub(b[0])
	for _, k := range [3]int{4, 3, 2} {
		if !need.IsPositive() {
			return
		}
		take := money.Min(b[k], need)
		b[k] = b[k].Sub(take)
		b[0] = b[0].Add(take)
		need = need.Sub(take)
	}
}

func sumBuckets(b [5]decimal.Decimal) decimal.Decimal {
	return b[0].Add(b[1]).Add(b[2]).Add(b[3]).Add(b[4])
}
