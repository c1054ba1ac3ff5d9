package main

import (
	"fmt"
	"os"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/spf13/cobra"
)

var (
	dataDir         string
	configFile      string
	preset          string
	numBodies       int
	steps           int
	dt              float64
	seed            int64
	integrator      string
	softening       float64
	workers         int
	checkpointEvery int
	snapshotEvery   int
	progressEvery   int
	logLevel        string
	logFormat       string
	resumeID        string
	benchPath       string
	outPath         string
	plotWidth       int
	plotHeight      int
	benchSizes      []int
	svgPath         string
	sweepDts        []float64
	sweepInteg      []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gravsim",
		Short:        "gravitational n-body simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&resumeID, "resume", "", "continue from the final bodies of a stored run")
	runCmd.Flags().StringVar(&benchPath, "save", "", "write benchmark results as json")
	runCmd.Flags().IntVar(&snapshotEvery, "snapshot-every", 0, "record positions every k steps (0 disables)")
	runCmd.Flags().IntVar(&progressEvery, "progress-every", config.DefaultProgressEvery, "log progress every k steps (0 disables)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 70, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")

	orbitCmd := &cobra.Command{
		Use:   "orbit [run_id]",
		Short: "draw recorded trajectories",
		Args:  cobra.ExactArgs(1),
		RunE:  orbitRun,
	}
	orbitCmd.Flags().IntVar(&plotWidth, "width", 60, "width in characters")
	orbitCmd.Flags().IntVar(&plotHeight, "height", 30, "height in characters")
	orbitCmd.Flags().StringVar(&svgPath, "svg", "", "write the trajectories as svg instead")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark the force pass across system sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{100, 500, 1000}, "body counts to benchmark")

	compareCmd := &cobra.Command{
		Use:   "compare [scenario] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same initial bodies",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addSimFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [plan]",
		Short: "run and store every step of a yaml plan",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "energy drift across timesteps and integrators over a fixed span",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepDts, "dts", []float64{86400, 43200, 21600}, "timesteps in seconds")
	sweepCmd.Flags().StringSliceVar(&sweepInteg, "integrators", []string{"euler", "symplectic", "verlet"}, "integrators")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list scenarios or the presets of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Println("scenarios:")
				for _, s := range experiment.NewRegistry().ListScenarios() {
					fmt.Printf("  %s %v\n", s, config.ListPresets(s))
				}
				return nil
			}
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration to a yaml or toml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(cfg.Scenario, preset); cfg == nil {
					return fmt.Errorf("unknown preset: %s", preset)
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a solar preset")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, orbitCmd, exportCmd, benchCmd, compareCmd, sweepCmd, batchCmd, liveCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies (solar)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().Float64Var(&softening, "softening", 0, "minimum pair separation in meters (0 keeps default)")
	cmd.Flags().IntVar(&workers, "workers", 0, "force pass workers (0 uses all cpus)")
	cmd.Flags().IntVar(&checkpointEvery, "checkpoint-every", 0, "energy checkpoint every k steps")
}
