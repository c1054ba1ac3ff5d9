package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/logging"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resolveConfig layers defaults, preset, config file and explicit flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Scenario = args[0]
		}
	}

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		cfg.Bodies = numBodies
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("softening") && softening > 0 {
		cfg.Softening = softening
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("checkpoint-every") {
		cfg.CheckpointEvery = checkpointEvery
	}
	if flags.Changed("snapshot-every") {
		cfg.SnapshotEvery = snapshotEvery
	}
	if flags.Changed("progress-every") {
		cfg.ProgressEvery = progressEvery
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	var initial dynamo.Bodies
	if resumeID != "" && len(args) == 0 {
		meta, err := storage.New(dataDir).Load(resumeID)
		if err != nil {
			return fmt.Errorf("resume %s: %w", resumeID, err)
		}
		args = []string{meta.Scenario}
	}

	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if resumeID != "" {
		initial, err = st.LoadBodies(resumeID)
		if err != nil {
			return fmt.Errorf("resume %s: %w", resumeID, err)
		}
		logger.Info("resuming run", zap.String("run_id", resumeID), zap.Int("bodies", len(initial)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	initStart := time.Now()
	exp := experiment.New(cfg, experiment.NewRegistry(), logger)
	if err := exp.Setup(initial); err != nil {
		return err
	}
	initTime := time.Since(initStart)

	if cfg.ProgressEvery > 0 {
		exp.AddObserver(sim.NewProgress(logger, cfg.ProgressEvery, cfg.Steps))
	}
	var rec *storage.Recorder
	if cfg.SnapshotEvery > 0 {
		rec = storage.NewRecorder(cfg.SnapshotEvery, storage.DefaultSnapshotBodies)
		rec.Record(0, 0, exp.InitialBodies())
		exp.AddObserver(rec)
	}

	fmt.Printf("running %s simulation: %d bodies, %d steps, dt=%gs, backend %s\n",
		cfg.Scenario, cfg.Bodies, cfg.Steps, cfg.Dt, exp.Gravity().Backend().Name())

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	var simErr *dynamo.SimulationError
	if runErr != nil && !errors.As(runErr, &simErr) {
		return runErr
	}

	meta := storage.RunMetadata{
		Scenario:       cfg.Scenario,
		Seed:           cfg.Seed,
		Steps:          cfg.Steps,
		Dt:             cfg.Dt,
		Softening:      cfg.Softening,
		Integrator:     cfg.Integrator,
		Backend:        exp.Gravity().Backend().Name(),
		ResumedFrom:    resumeID,
		EnergyDriftPct: metrics.DriftPercent(result.Initial, result.Final),
	}
	runID, err := st.Save(meta, result, rec)
	if err != nil {
		return err
	}

	printSummary(result, initTime)
	fmt.Printf("\nrun id: %s\n", runID)

	if benchPath != "" {
		b := storage.NewBenchmark(result, cfg.Steps, exp.Gravity().Backend().Workers(), initTime)
		if err := storage.SaveBenchmark(benchPath, b); err != nil {
			return err
		}
		fmt.Printf("benchmark saved to %s\n", benchPath)
	}

	return runErr
}

func printSummary(result *dynamo.Result, initTime time.Duration) {
	secs := result.Elapsed.Seconds()

	fmt.Println("\nsummary:")
	fmt.Printf("  bodies:          %d\n", len(result.Bodies))
	fmt.Printf("  steps:           %d\n", result.StepsTaken)
	fmt.Printf("  simulated:       %.2f days\n", result.SimTime/86400)
	fmt.Printf("  init time:       %.3fs\n", initTime.Seconds())
	fmt.Printf("  sim time:        %.3fs\n", secs)
	if secs > 0 {
		fmt.Printf("  steps/sec:       %.2f\n", float64(result.StepsTaken)/secs)
		flops := float64(2*result.PairEvaluations*storage.FlopsPerPair) / secs
		fmt.Printf("  est. GFLOPS:     %.3f\n", flops/1e9)
	}
	fmt.Printf("  energy initial:  %.6e J\n", result.Initial.Total)
	fmt.Printf("  energy final:    %.6e J\n", result.Final.Total)
	fmt.Printf("  energy error:    %.6f%%\n", metrics.DriftPercent(result.Initial, result.Final))

	if len(result.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for _, name := range sortedNames(result.Metrics) {
			fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
		}
	}
}
