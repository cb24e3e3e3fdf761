package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/calculation"
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/config"
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/domain"
	"github.com/RoddroMiller/SanDiegoRetire.com-sub000/internal/output"
)

// cliFlags holds the persistent flags shared by every subcommand.
type cliFlags struct {
	planPath  string
	format    string
	rebalance string
	seed      int64
	outDir    string
}

func newRootCmd() *cobra.Command {
	f := &cliFlags{}
	root := &cobra.Command{
		Use:           "bucketplan",
		Short:         "Bucket retirement distribution planner",
		Long:          "Simulate, stress test and optimize a five-bucket retirement distribution plan.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&f.planPath, "plan", "p", "", "path to a YAML plan file")
	pf.StringVarP(&f.format, "format", "f", "console", "output format: "+fmt.Sprint(output.AvailableFormatterNames()))
	pf.StringVar(&f.rebalance, "rebalance", "", "rebalance policy override (rolling_pv or greedy_refill)")
	pf.Int64Var(&f.seed, "seed", 0, "random seed for Monte Carlo runs (0 uses BUCKETPLAN_SEED or a time seed)")
	pf.StringVarP(&f.outDir, "out", "o", "", "directory for report files (console prints to stdout when unset)")

	root.AddCommand(
		newSimulateCmd(f),
		newMonteCarloCmd(f),
		newOptimizeCmd(f),
		newSSCmd(f),
		newExampleCmd(),
	)
	return root
}

// session is the loaded plan plus an engine configured from flags and environment.
type session struct {
	plan     *domain.Plan
	engine   *calculation.Engine
	settings config.Settings
	flags    *cliFlags
}

func newSession(cmd *cobra.Command, f *cliFlags) (*session, error) {
	if f.planPath == "" {
		return nil, errors.New("--plan is required")
	}
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	plan, err := config.NewInputParser().LoadFromFile(f.planPath)
	if err != nil {
		return nil, err
	}
	policyName := plan.RebalancePolicy
	if f.rebalance != "" {
		policyName = f.rebalance
	}
	policy, err := calculation.ParseRebalancePolicy(policyName)
	if err != nil {
		return nil, err
	}
	seed := settings.Seed
	if cmd.Flags().Changed("seed") {
		seed = f.seed
	}

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: settings.SlogLevel()})
	logger := slog.New(handler)
	logger.Debug("loaded plan", "path", f.planPath, "policy", policy.String(), "iterations", settings.Iterations, "horizon", settings.Horizon)

	engine := calculation.NewEngine(
		calculation.WithLogger(calculation.NewSlogLogger(logger)),
		calculation.WithIterations(settings.Iterations),
		calculation.WithHorizon(settings.Horizon),
		calculation.WithSeed(seed),
		calculation.WithRebalancePolicy(policy),
	)
	return &session{plan: plan, engine: engine, settings: settings, flags: f}, nil
}

func (s *session) basePlan() *calculation.BucketPlan {
	return s.engine.CalculateBasePlan(s.plan.Inputs, s.plan.Assumptions, s.plan.Client)
}

// emit renders the report to stdout for console output without --out, and to a file otherwise.
func (s *session) emit(cmd *cobra.Command, report *output.Report) error {
	report.Plan = s.plan
	name := output.NormalizeFormatName(s.flags.format)
	dir := s.flags.outDir
	if dir == "" && name == "console" {
		f := output.GetFormatterByName(name)
		data, err := f.Format(report)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if dir == "" {
		dir = s.settings.OutputDir
	}
	path, err := output.GenerateReport(report, name, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func newSimulateCmd(f *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Run the deterministic year-by-year projection",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, f)
			if err != nil {
				return err
			}
			bp := s.basePlan()
			res, err := s.engine.RunSimulation(cmd.Context(), bp, s.plan.Assumptions, s.plan.Inputs, s.plan.RebalanceFrequency, false)
			if err != nil {
				return err
			}
			return s.emit(cmd, &output.Report{BasePlan: bp, Projection: res.Projection})
		},
	}
}

func newMonteCarloCmd(f *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "montecarlo",
		Aliases: []string{"mc"},
		Short:   "Run the Monte Carlo stress test of the base plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, f)
			if err != nil {
				return err
			}
			bp := s.basePlan()
			res, err := s.engine.RunSimulation(cmd.Context(), bp, s.plan.Assumptions, s.plan.Inputs, s.plan.RebalanceFrequency, true)
			if err != nil {
				return err
			}
			return s.emit(cmd, &output.Report{BasePlan: bp, MonteCarlo: res.MonteCarlo})
		},
	}
}

func newOptimizeCmd(f *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Compare alternative allocation strategies by Monte Carlo success rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, f)
			if err != nil {
				return err
			}
			bp := s.basePlan()
			strategies := s.engine.CalculateAlternativeAllocations(s.plan.Inputs, bp)
			ranked, err := s.engine.CompareStrategies(cmd.Context(), strategies, s.plan.Assumptions, s.plan.Inputs, s.plan.Client, s.plan.RebalanceFrequency)
			if err != nil {
				return err
			}
			return s.emit(cmd, &output.Report{BasePlan: bp, Strategies: ranked})
		},
	}
}

func newSSCmd(f *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ss",
		Short: "Find the Social Security claim ages that leave the largest balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, f)
			if err != nil {
				return err
			}
			req := calculation.SSAnalysisRequest{
				Inputs:                s.plan.Inputs,
				Client:                s.plan.Client,
				Assumptions:           s.plan.Assumptions,
				TargetMaxPortfolioAge: s.plan.TargetMaxPortfolioAge,
			}
			client := s.engine.CalculateSSAnalysis(req)
			partner := s.engine.CalculateSSPartnerAnalysis(req, client.Winner.Age)
			return s.emit(cmd, &output.Report{SSClient: client, SSPartner: partner})
		},
	}
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print an example plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(config.NewInputParser().CreateExamplePlan())
			if err != nil {
				return fmt.Errorf("marshal example plan: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
