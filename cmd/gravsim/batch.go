package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/logging"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/spf13/cobra"
)

func runBatch(cmd *cobra.Command, args []string) error {
	plan, err := automation.LoadPlan(args[0])
	if err != nil {
		return err
	}

	base := config.DefaultConfig()
	if logLevel != "" {
		base.Logging.Level = logLevel
	}
	if logFormat != "" {
		base.Logging.Format = logFormat
	}
	logger, err := logging.New(base.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running plan %s (%d runs)\n", plan.Name, len(plan.Runs))
	results, runErr := automation.RunPlan(ctx, plan, base, experiment.NewRegistry(), storage.New(dataDir), logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tRUN ID\tSCENARIO\tINTEGRATOR\tBODIES\tSTEPS\tDRIFT%\tTIME")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.3e\t%v\n",
			r.Name,
			r.RunID,
			r.Config.Scenario,
			r.Config.Integrator,
			len(r.Result.Bodies),
			r.Result.StepsTaken,
			metrics.DriftPercent(r.Result.Initial, r.Result.Final),
			r.Result.Elapsed.Round(time.Millisecond),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("bodies") && cfg.Scenario == "solar" {
		cfg.Bodies = 50
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	points, err := automation.RunSweep(ctx, &automation.Sweep{
		Base:        cfg,
		Integrators: sweepInteg,
		Dts:         sweepDts,
	}, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over %.2f days\n\n", cfg.Scenario, float64(cfg.Steps)*cfg.Dt/86400)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tDT\tSTEPS\tDRIFT%\tMAX DRIFT%\tREL STDDEV\tTIME")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%gs\t%d\t%.3e\t%.3e\t%.3e\t%.3fs\n",
			p.Integrator, p.Dt, p.Steps, p.DriftPct, p.MaxDriftPct, p.RelStdDev, p.Elapsed)
	}
	return w.Flush()
}
