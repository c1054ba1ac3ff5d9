package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tSTEPS\tDT\tINTEG\tDRIFT%\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d/%d\t%gs\t%s\t%.2e\t%.2fs\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.StepsTaken,
			run.Steps,
			run.Dt,
			run.Integrator,
			run.EnergyDriftPct,
			run.ElapsedSeconds,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	checkpoints, err := st.LoadEnergy(runID)
	if err != nil {
		return err
	}
	if len(checkpoints) < 2 {
		return fmt.Errorf("need at least 2 energy checkpoints to plot, got %d (use --checkpoint-every)", len(checkpoints))
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("checkpoints: %d\n\n", len(checkpoints))

	fmt.Println(asciigraph.Plot(analysis.Totals(checkpoints),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("total energy (J)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(analysis.DriftSeries(checkpoints),
		asciigraph.Height(plotHeight/2),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("energy drift (%)"),
	))
	fmt.Println()

	stats := analysis.EnergyStats(checkpoints)
	fmt.Printf("mean:      %.6e J\n", stats.Mean)
	fmt.Printf("stddev:    %.6e J (%.3e relative)\n", stats.StdDev, stats.RelStdDev)
	fmt.Printf("range:     [%.6e, %.6e] J\n", stats.Min, stats.Max)
	fmt.Printf("max drift: %.6f%%\n", stats.MaxDriftPct)
	return nil
}

func orbitRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snapshots, err := st.LoadTrajectory(args[0])
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("run %s has no trajectory (use --snapshot-every)", args[0])
		}
		return err
	}

	frames := make([]dynamo.Bodies, len(snapshots))
	for i, snap := range snapshots {
		frames[i] = snap.Bodies
	}

	if svgPath != "" {
		svg := export.TrajectoriesToSVG(frames, plotWidth*10, plotHeight*20)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("svg saved to %s\n", svgPath)
	} else {
		fmt.Print(viz.Orbit(frames, plotWidth, plotHeight))
	}
	if len(snapshots) > 0 {
		last := snapshots[len(snapshots)-1]
		fmt.Printf("%d snapshots, %d bodies, t=%.2f days\n", len(snapshots), len(last.Bodies), last.Time/86400)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	return storage.New(dataDir).Export(w, args[0])
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
