package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/calculation"
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPlan is wrapped by every validation failure.
var ErrInvalidPlan = errors.New("invalid plan")

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

var (
	maxRate   = decimal.NewFromInt(50)
	minRate   = decimal.NewFromInt(-50)
	maxInfl   = decimal.NewFromInt(20)
	minInfl   = decimal.NewFromInt(-10)
	maxStdDev = decimal.NewFromInt(100)
)

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes a YAML plan, fills defaults and validates it
func (ip *InputParser) Parse(data []byte) (*domain.Plan, error) {
	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.ApplyDefaults(&plan)

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &plan, nil
}

// ApplyDefaults fills optional fields: ages from birth dates, claim ages,
// pension start, return assumptions and the target portfolio age.
func (ip *InputParser) ApplyDefaults(plan *domain.Plan) {
	c := &plan.Client
	now := nowFunc()
	if c.CurrentAge == 0 && c.BirthDate != nil {
		c.CurrentAge = dateutil.Age(*c.BirthDate, now)
	}
	if c.PartnerCurrentAge == 0 && c.PartnerBirthDate != nil {
		c.PartnerCurrentAge = dateutil.Age(*c.PartnerBirthDate, now)
	}
	if c.RetirementAge == 0 {
		c.RetirementAge = c.CurrentAge
	}
	if c.IsMarried && c.PartnerRetirementAge == 0 {
		c.PartnerRetirementAge = c.PartnerCurrentAge
	}

	in := &plan.Inputs
	if in.SSStartAge == 0 {
		in.SSStartAge = calculation.FullRetirementAge
	}
	if c.IsMarried && in.PartnerSSStartAge == 0 {
		in.PartnerSSStartAge = calculation.FullRetirementAge
	}
	if in.PensionStartAge == 0 && in.MonthlyPension.IsPositive() {
		in.PensionStartAge = c.RetirementAge
	}

	if plan.Assumptions.IsZero() {
		plan.Assumptions = domain.DefaultReturnAssumptions()
	}
	if plan.TargetMaxPortfolioAge == 0 {
		plan.TargetMaxPortfolioAge = calculation.DefaultTargetMaxPortfolioAge
	}
}

// ValidatePlan validates a plan; every error wraps ErrInvalidPlan
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if err := ip.validateClient(&plan.Client); err != nil {
		return fmt.Errorf("%w: client: %w", ErrInvalidPlan, err)
	}
	if err := ip.validateInputs(&plan.Inputs, &plan.Client); err != nil {
		return fmt.Errorf("%w: inputs: %w", ErrInvalidPlan, err)
	}
	if err := ip.validateAssumptions(&plan.Assumptions); err != nil {
		return fmt.Errorf("%w: assumptions: %w", ErrInvalidPlan, err)
	}
	if plan.RebalanceFrequency < 0 {
		return fmt.Errorf("%w: rebalance frequency cannot be negative", ErrInvalidPlan)
	}
	if _, err := calculation.ParseRebalancePolicy(plan.RebalancePolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	if plan.TargetMaxPortfolioAge != 0 && plan.TargetMaxPortfolioAge <= plan.Client.CurrentAge {
		return fmt.Errorf("%w: target portfolio age %d must be after current age %d", ErrInvalidPlan, plan.TargetMaxPortfolioAge, plan.Client.CurrentAge)
	}
	return nil
}

func (ip *InputParser) validateClient(c *domain.ClientProfile) error {
	if c.CurrentAge <= 0 || c.CurrentAge > 120 {
		return fmt.Errorf("current age must be between 1 and 120, got %d", c.CurrentAge)
	}
	if c.RetirementAge <= 0 || c.RetirementAge > 120 {
		return fmt.Errorf("retirement age must be between 1 and 120, got %d", c.RetirementAge)
	}
	if c.CurrentPortfolio.IsNegative() {
		return fmt.Errorf("current portfolio cannot be negative")
	}
	if c.AnnualSavings.IsNegative() {
		return fmt.Errorf("annual savings cannot be negative")
	}
	if c.IsMarried {
		if c.PartnerCurrentAge <= 0 || c.PartnerCurrentAge > 120 {
			return fmt.Errorf("partner current age must be between 1 and 120, got %d", c.PartnerCurrentAge)
		}
		if c.PartnerRetirementAge < 0 || c.PartnerRetirementAge > 120 {
			return fmt.Errorf("partner retirement age must be between 0 and 120, got %d", c.PartnerRetirementAge)
		}
	}
	return nil
}

func (ip *InputParser) validateInputs(in *domain.PlanInputs, c *domain.ClientProfile) error {
	if in.TotalPortfolio.IsNegative() {
		return fmt.Errorf("total portfolio cannot be negative")
	}
	if in.MonthlySpending.IsNegative() {
		return fmt.Errorf("monthly spending cannot be negative")
	}
	if in.SSPIA.IsNegative() || in.PartnerSSPIA.IsNegative() {
		return fmt.Errorf("social security PIA cannot be negative")
	}
	if in.SSStartAge < calculation.EarliestClaimAge || in.SSStartAge > calculation.LatestClaimAge {
		return fmt.Errorf("SS start age must be between %d and %d, got %d", calculation.EarliestClaimAge, calculation.LatestClaimAge, in.SSStartAge)
	}
	if c.IsMarried && (in.PartnerSSStartAge < calculation.EarliestClaimAge || in.PartnerSSStartAge > calculation.LatestClaimAge) {
		return fmt.Errorf("partner SS start age must be between %d and %d, got %d", calculation.EarliestClaimAge, calculation.LatestClaimAge, in.PartnerSSStartAge)
	}
	if in.MonthlyPension.IsNegative() {
		return fmt.Errorf("monthly pension cannot be negative")
	}
	if in.InflationRate.LessThan(minInfl) || in.InflationRate.GreaterThan(maxInfl) {
		return fmt.Errorf("inflation rate must be between %s%% and %s%%", minInfl, maxInfl)
	}
	if in.PersonalInflationRate.LessThan(minInfl) || in.PersonalInflationRate.GreaterThan(maxInfl) {
		return fmt.Errorf("personal inflation rate must be between %s%% and %s%%", minInfl, maxInfl)
	}

	seen := make(map[string]bool, len(in.AdditionalIncomes))
	for i, ev := range in.AdditionalIncomes {
		if err := ip.validateIncomeEvent(&ev); err != nil {
			return fmt.Errorf("additional income %d (%s): %w", i, ev.Name, err)
		}
		if ev.ID != "" {
			if seen[ev.ID] {
				return fmt.Errorf("duplicate additional income id %q", ev.ID)
			}
			seen[ev.ID] = true
		}
	}
	return nil
}

// validateIncomeEvent rejects contradictory events. Missing ages are allowed;
// such events are inactive.
func (ip *InputParser) validateIncomeEvent(ev *domain.IncomeEvent) error {
	if ev.Amount.IsNegative() {
		return fmt.Errorf("amount cannot be negative")
	}
	if ev.StartAge != nil && ev.EndAge != nil && *ev.EndAge < *ev.StartAge {
		return fmt.Errorf("end age %d is before start age %d", *ev.EndAge, *ev.StartAge)
	}
	switch ev.Owner {
	case "", domain.OwnerClient, domain.OwnerPartner:
	default:
		return fmt.Errorf("unknown owner %q", ev.Owner)
	}
	return nil
}

func (ip *InputParser) validateAssumptions(ra *domain.ReturnAssumptions) error {
	for i, a := range ra.Array() {
		if a.ExpectedReturn.LessThan(minRate) || a.ExpectedReturn.GreaterThan(maxRate) {
			return fmt.Errorf("bucket %d expected return must be between %s%% and %s%%", i+1, minRate, maxRate)
		}
		if a.StdDev.IsNegative() || a.StdDev.GreaterThan(maxStdDev) {
			return fmt.Errorf("bucket %d std dev must be between 0%% and %s%%", i+1, maxStdDev)
		}
	}
	return nil
}

// CreateExamplePlan creates an example plan for testing and documentation
func (ip *InputParser) CreateExamplePlan() *domain.Plan {
	consultingStart, consultingEnd := 63, 66
	inheritanceAge := 70

	return &domain.Plan{
		Name: "Example household",
		Client: domain.ClientProfile{
			Name:                 "Alex",
			CurrentAge:           63,
			RetirementAge:        63,
			IsMarried:            true,
			PartnerCurrentAge:    61,
			PartnerRetirementAge: 63,
			CurrentPortfolio:     decimal.NewFromInt(1250000),
			ExpectedReturn:       decimal.NewFromInt(6),
		},
		Inputs: domain.PlanInputs{
			TotalPortfolio:        decimal.NewFromInt(1250000),
			MonthlySpending:       decimal.NewFromInt(8500),
			SSPIA:                 decimal.NewFromInt(2800),
			SSStartAge:            67,
			PartnerSSPIA:          decimal.NewFromInt(1600),
			PartnerSSStartAge:     67,
			MonthlyPension:        decimal.NewFromInt(900),
			PensionStartAge:       65,
			InflationRate:         decimal.NewFromFloat(2.5),
			PersonalInflationRate: decimal.NewFromInt(3),
			AdditionalIncomes: []domain.IncomeEvent{
				{
					ID:                "consulting",
					Name:              "Part-time consulting",
					Amount:            decimal.NewFromInt(2500),
					StartAge:          &consultingStart,
					EndAge:            &consultingEnd,
					InflationAdjusted: true,
					Owner:             domain.OwnerClient,
				},
				{
					ID:        "inheritance",
					Name:      "Inheritance",
					Amount:    decimal.NewFromInt(150000),
					StartAge:  &inheritanceAge,
					IsOneTime: true,
					Owner:     domain.OwnerPartner,
				},
			},
		},
		Assumptions:           domain.DefaultReturnAssumptions(),
		RebalanceFrequency:    3,
		RebalancePolicy:       calculation.RebalanceRollingPV.String(),
		TargetMaxPortfolioAge: 95,
	}
}
