package calculation

import (
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	money "github.com/RoddroMiller/SanDiegoRetire.com-sub000/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Age range covered by breakeven curves.
const (
	BreakevenStartAge = 60
	BreakevenEndAge   = 95
)

// BreakevenData accumulates reinvested benefits for claims at 62, 67 and 70.
// Each accumulator compounds at reinvestRate percent and adds the annual
// benefit once its claiming age is reached.
func BreakevenData(pia, reinvestRate decimal.Decimal) []domain.BreakevenPoint {
	claimAges := [3]int{EarliestClaimAge, FullRetirementAge, LatestClaimAge}
	var annual [3]decimal.Decimal
	for k, age := range claimAges {
		annual[k] = money.Annual(AdjustedSS(pia, age))
	}
	growth := decimal.NewFromInt(1).Add(money.FromPercent(reinvestRate))

	var acc [3]decimal.Decimal
	points := make([]domain.BreakevenPoint, 0, BreakevenEndAge-BreakevenStartAge+1)
	for age := BreakevenStartAge; age <= BreakevenEndAge; age++ {
		for k := range acc {
			acc[k] = money.Cents(acc[k].Mul(growth))
			if age >= claimAges[k] {
				acc[k] = money.Cents(acc[k].Add(annual[k]))
			}
		}
		points = append(points, domain.BreakevenPoint{
			Age:       age,
			ClaimAt62: acc[0],
			ClaimAt67: acc[1],
			ClaimAt70: acc[2],
		})
	}
	return points
}

// BreakevenAge returns the first age at which claiming at 70 has out-accumulated
// claiming at 62, or false when it never does within the curve.
func BreakevenAge(points []domain.BreakevenPoint) (int, bool) {
	for _, p := range points {
		if p.Age >= LatestClaimAge && p.ClaimAt70.GreaterThan(p.ClaimAt62) {
			return p.Age, true
		}
	}
	return 0, false
}
