package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/compute"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/logging"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("steps") {
		cfg.Steps = 10
	}

	registry := experiment.NewRegistry()
	build, err := registry.GetScenario(cfg.Scenario)
	if err != nil {
		return err
	}
	if _, err := registry.GetIntegrator(cfg.Integrator, nil); err != nil {
		return err
	}

	fmt.Printf("benchmarking %s (%d steps, %s)\n\n", cfg.Scenario, cfg.Steps, cfg.Integrator)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tBACKEND\tPAIRS\tTIME\tSTEPS/SEC\tGFLOPS\tDRIFT%")

	for _, n := range benchSizes {
		bodies := build(n, cfg.Seed)
		simCfg := cfg.SimConfig()
		grav := physics.NewGravity(simCfg.Params).WithBackend(compute.NewCPUBackend(simCfg.Workers))
		integ, _ := registry.GetIntegrator(cfg.Integrator, grav)

		s := sim.New(grav, integ)
		if err := s.Load(bodies, simCfg); err != nil {
			return err
		}
		result, err := s.Run(context.Background())
		if err != nil {
			return err
		}

		b := storage.NewBenchmark(result, cfg.Steps, grav.Backend().Workers(), 0)
		fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.2f\t%.3f\t%.2e\n",
			len(bodies),
			grav.Backend().Name(),
			compute.PairCount(len(bodies)),
			result.Elapsed.Round(time.Millisecond),
			b.StepsPerSec,
			b.Flops/1e9,
			b.EnergyErrorPercent,
		)
	}

	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[:1])
	if err != nil {
		return err
	}
	names := args[1:]
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	registry := experiment.NewRegistry()
	build, err := registry.GetScenario(cfg.Scenario)
	if err != nil {
		return err
	}
	bodies := build(cfg.Bodies, cfg.Seed)
	simCfg := cfg.SimConfig()

	jobs := make([]sim.Job, 0, len(names))
	for _, name := range names {
		grav := physics.NewGravity(simCfg.Params).WithBackend(compute.NewCPUBackend(simCfg.Workers))
		integ, err := registry.GetIntegrator(name, grav)
		if err != nil {
			return err
		}
		jobs = append(jobs, sim.Job{
			Name:       name,
			Forces:     grav,
			Integrator: integ,
			Bodies:     bodies,
			Config:     simCfg,
		})
	}

	logger.Info("comparing integrators",
		zap.String("scenario", cfg.Scenario),
		zap.Int("bodies", len(bodies)),
		zap.Strings("integrators", names),
	)

	results, err := sim.NewEnsemble(jobs, sim.WithLogger(logger)).Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s (%d bodies, %d steps, dt=%gs)\n\n", cfg.Scenario, len(bodies), cfg.Steps, cfg.Dt)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tDRIFT%\tMAX DRIFT%\tREL STDDEV\tDIVERGENCE (AU)\tTIME")

	for i, res := range results {
		stats := analysis.EnergyStats(res.Checkpoints)
		div, err := analysis.Divergence(results[0].Bodies, res.Bodies)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%.3e\t%.3e\t%v\n",
			jobs[i].Name,
			metrics.DriftPercent(res.Initial, res.Final),
			stats.MaxDriftPct,
			stats.RelStdDev,
			div/scenario.AU,
			res.Elapsed.Round(time.Microsecond),
		)
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("bodies") && cfg.Scenario == "solar" {
		cfg.Bodies = 200
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	build, err := registry.GetScenario(cfg.Scenario)
	if err != nil {
		return err
	}
	simCfg := cfg.SimConfig()
	grav := physics.NewGravity(simCfg.Params).WithBackend(compute.NewCPUBackend(simCfg.Workers))
	integ, err := registry.GetIntegrator(cfg.Integrator, grav)
	if err != nil {
		return err
	}
	bodies := build(cfg.Bodies, cfg.Seed)

	return viz.Run(viz.NewModel(cfg.Scenario, grav, integ, bodies, simCfg.Dt))
}
