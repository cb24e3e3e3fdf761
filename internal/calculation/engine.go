package calculation

import (
	"context"

	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	"github.com/shopspring/decimal"
)

// Engine bundles the simulator settings and exposes the planning operations.
type Engine struct {
	Simulator *Simulator
	Logger    Logger
}

// Option configures an Engine.
type Option func(*SimulatorConfig)

// WithLogger sets the engine logger.
func WithLogger(l Logger) Option { return func(c *SimulatorConfig) { c.Logger = l } }

// WithIterations sets the Monte Carlo iteration count.
func WithIterations(n int) Option { return func(c *SimulatorConfig) { c.Iterations = n } }

// WithHorizon sets the number of simulated years.
func WithHorizon(years int) Option { return func(c *SimulatorConfig) { c.Horizon = years } }

// WithSeed fixes the Monte Carlo seed; zero keeps runs non-reproducible.
func WithSeed(seed int64) Option { return func(c *SimulatorConfig) { c.Seed = seed } }

// WithRebalancePolicy selects the rebalancing policy.
func WithRebalancePolicy(p RebalancePolicy) Option { return func(c *SimulatorConfig) { c.Policy = p } }

// NewEngine creates an engine with the default 500 x 30 simulator.
func NewEngine(opts ...Option) *Engine {
	var cfg SimulatorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	sim := NewSimulator(cfg)
	return &Engine{Simulator: sim, Logger: sim.Logger}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
	e.Simulator.Logger = l
}

// CalculateBasePlan sizes the five buckets.
func (e *Engine) CalculateBasePlan(inputs domain.PlanInputs, assumptions domain.ReturnAssumptions, client domain.ClientProfile) *BucketPlan {
	plan := CalculateBasePlan(inputs, assumptions, client)
	if plan.IsDeficit {
		e.Logger.Warnf("bucket plan is in deficit: long-term bucket %s", plan.Buckets.B5.StringFixed(0))
	}
	return plan
}

// RunSimulation runs the deterministic projection or the Monte Carlo harness.
func (e *Engine) RunSimulation(ctx context.Context, plan *BucketPlan, assumptions domain.ReturnAssumptions, inputs domain.PlanInputs, rebalanceFreq int, isMonteCarlo bool) (*SimulationOutput, error) {
	return e.Simulator.Run(ctx, plan, assumptions, inputs, rebalanceFreq, isMonteCarlo)
}

// CalculateAlternativeAllocations returns the named strategies for comparison.
func (e *Engine) CalculateAlternativeAllocations(inputs domain.PlanInputs, plan *BucketPlan) map[string]domain.AllocationStrategy {
	return AlternativeAllocations(inputs, plan)
}

// RunOptimizedSimulation runs Monte Carlo for one allocation.
func (e *Engine) RunOptimizedSimulation(ctx context.Context, allocation domain.AllocationStrategy, assumptions domain.ReturnAssumptions, inputs domain.PlanInputs, client domain.ClientProfile, rebalanceFreq int) (*domain.OptimizedStrategyResult, error) {
	return e.Simulator.RunOptimizedSimulation(ctx, allocation, assumptions, inputs, client, rebalanceFreq)
}

// CompareStrategies runs every allocation and ranks the results.
func (e *Engine) CompareStrategies(ctx context.Context, strategies map[string]domain.AllocationStrategy, assumptions domain.ReturnAssumptions, inputs domain.PlanInputs, client domain.ClientProfile, rebalanceFreq int) ([]StrategyComparison, error) {
	return e.Simulator.CompareStrategies(ctx, strategies, assumptions, inputs, client, rebalanceFreq)
}

// CalculateSSAnalysis picks the client's claim age.
func (e *Engine) CalculateSSAnalysis(req SSAnalysisRequest) *domain.SSAnalysisResult {
	res := CalculateSSAnalysis(req)
	e.Logger.Debugf("ss analysis: %d candidates, winner %d", len(res.Outcomes), res.Winner.Age)
	return res
}

// CalculateSSPartnerAnalysis picks the partner's claim age given the client's.
func (e *Engine) CalculateSSPartnerAnalysis(req SSAnalysisRequest, clientClaimAge int) *domain.SSAnalysisResult {
	return CalculateSSPartnerAnalysis(req, clientClaimAge)
}

// GetAdjustedSS returns the monthly benefit for pia claimed at startAge.
func (e *Engine) GetAdjustedSS(pia decimal.Decimal, startAge int) decimal.Decimal {
	return AdjustedSS(pia, startAge)
}
