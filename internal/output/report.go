package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/calculation"
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
)

// Report bundles whichever engine results a command produced. Nil or empty
// sections are skipped by every formatter.
type Report struct {
	Plan        *domain.Plan                     `json:"plan,omitempty"`
	BasePlan    *calculation.BucketPlan          `json:"base_plan,omitempty"`
	Projection  []domain.SimulationYearRecord    `json:"projection,omitempty"`
	MonteCarlo  *domain.MonteCarloResult         `json:"monte_carlo,omitempty"`
	Strategies  []calculation.StrategyComparison `json:"strategies,omitempty"`
	SSClient    *domain.SSAnalysisResult         `json:"ss_client,omitempty"`
	SSPartner   *domain.SSAnalysisResult         `json:"ss_partner,omitempty"`
	GeneratedAt time.Time                        `json:"generated_at"`
}

// Kind names the primary result the report carries, used in file names.
func (r *Report) Kind() string {
	switch {
	case len(r.Projection) > 0:
		return "projection"
	case r.MonteCarlo != nil:
		return "montecarlo"
	case len(r.Strategies) > 0:
		return "strategies"
	case r.SSClient != nil:
		return "ss"
	case r.BasePlan != nil:
		return "plan"
	default:
		return "report"
	}
}

// GenerateReport renders the report with the named formatter and writes it under dir.
func GenerateReport(report *Report, format, dir string) (string, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return "", fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	return WriteFormatted(f, report, dir, extensions[f.Name()])
}
