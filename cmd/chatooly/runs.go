package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/chatooly/internal/analysis"
	"github.com/san-kum/chatooly/internal/automation"
	"github.com/san-kum/chatooly/internal/export"
	"github.com/san-kum/chatooly/internal/field"
	"github.com/san-kum/chatooly/internal/host"
	"github.com/san-kum/chatooly/internal/metrics"
	"github.com/san-kum/chatooly/internal/render"
	"github.com/san-kum/chatooly/internal/sim"
	"github.com/san-kum/chatooly/internal/storage"
)

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("frames")

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	rec := sim.NewRecorder(sampleN, metrics.Defaults()...)
	s.AddObserver(rec)

	registry := host.NewRegistry(logger, &host.Headless{FPS: cfg.Sim.FPS, Frames: n})
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d frames on a %dx%d grid...\n", n, s.Pair().Cols(), s.Pair().Rows())
	start := time.Now()
	if err := host.Attach(ctx, registry, "headless", s); err != nil {
		return err
	}
	elapsed := time.Since(start)

	m := s.Model()
	name := preset
	if name == "" {
		name = "default"
	}
	meta := &storage.RunMetadata{
		Preset:    name,
		Timestamp: time.Now(),
		Seed:      s.Seed(),
		Frames:    n,
		FPS:       cfg.Sim.FPS,
		Width:     cfg.Sim.Width,
		Height:    cfg.Sim.Height,
		CellSize:  cfg.Sim.CellSize,
		Params:    storage.ModelParams{DA: m.DA, DB: m.DB, Feed: m.Feed, Kill: m.Kill},
		Palette:   s.PaletteIndex(),
		Dissolves: s.Dissolves(),
		Metrics:   rec.Summary(),
	}
	runID, err := st.Save(meta, rec.Series())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d, dissolves: %d\n", rec.Series().Len(), s.Dissolves())
	fmt.Println("\nmetrics:")
	for _, name := range rec.Series().Metrics {
		fmt.Printf("  %s: %.6f\n", name, meta.Metrics[name])
	}
	return nil
}

func renderFrames(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("frames")
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(output))
	var gif *export.GIFRecorder
	var painter sim.Painter
	if ext == ".gif" {
		every := max(n/60, 1)
		gif = export.NewGIFRecorder(s.Renderer(), max(100*every/max(cfg.Sim.FPS, 1), 1))
		painter = sim.PainterFunc(func(p *field.Pair, r *render.Renderer) {
			if s.Frame()%int64(every) == 0 {
				gif.Add(p.A, r)
			}
		})
	}

	dt := time.Second / time.Duration(max(cfg.Sim.FPS, 1))
	if _, err := sim.RunFrames(context.Background(), s, n, time.Now(), dt, painter); err != nil {
		return err
	}

	switch ext {
	case ".gif":
		err = gif.Save(output)
	case ".png", ".svg":
		err = writeFile(output, func(f *os.File) error {
			if ext == ".svg" {
				return export.FieldSVG(f, s.Pair().A, s.Renderer())
			}
			return export.PNG(f, s.Pair().A, s.Renderer())
		})
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tGRID\tFEED\tKILL\tDISSOLVES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%dx%d\t%.4f\t%.4f\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Width/run.CellSize, run.Height/run.CellSize,
			run.Params.Feed,
			run.Params.Kill,
			run.Dissolves,
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
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", series.Len())

	for _, name := range series.Metrics {
		graph := asciigraph.Plot(series.Values[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs frame"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	data := series.Values["coverage"]
	if len(data) < 4 {
		return fmt.Errorf("not enough samples for analysis")
	}

	fmt.Printf("run: %s\n\n", meta.ID)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMIN\tMAX\tMEAN\tSTD\tFINAL")
	for _, name := range series.Metrics {
		sum := analysis.Summarize(series.Values[name])
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n", name, sum.Min, sum.Max, sum.Mean, sum.Std, sum.Final)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	sampleDT := 1.0 / float64(max(meta.FPS, 1))
	if len(series.Times) > 1 {
		sampleDT = series.Times[1] - series.Times[0]
	}
	if period, err := analysis.DominantPeriod(data, sampleDT); err == nil {
		fmt.Printf("\ndominant period: %.2fs\n", period)
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[1:min(len(ps), 100)]
	for i, v := range plotData {
		plotData[i] = math.Log10(v + 1e-9)
	}
	if len(plotData) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (coverage, log10)"),
		))
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func benchSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("frames")
	seeds := make([]int64, max(benchRuns, 1))
	for i := range seeds {
		seeds[i] = cfg.Sim.Seed + int64(i) + 1
	}
	p := sim.ParamsFromConfig(cfg)
	dt := time.Second / time.Duration(max(cfg.Sim.FPS, 1))

	fmt.Printf("benchmarking %d sessions x %d frames...\n", len(seeds), n)
	start := time.Now()
	results, err := sim.NewBatch(p, cfg.Sim.Width, cfg.Sim.Height, n, dt).Run(context.Background(), seeds)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tELAPSED\tFRAMES/S\tCOVERAGE\tDISSOLVES")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%v\t%.0f\t%.4f\t%d\n", r.Seed, r.Elapsed.Round(time.Millisecond),
			float64(r.Frames)/r.Elapsed.Seconds(), r.Metrics["coverage"], r.Dissolve)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	total := float64(n * len(seeds))
	fmt.Printf("\ntotal: %v, %.0f frames/s\n", elapsed, total/elapsed.Seconds())
	return nil
}

func sweepParams(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("frames")
	points, err := analysis.Sweep(context.Background(), analysis.SweepConfig{
		Base:   sim.ParamsFromConfig(cfg),
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
		Frames: n,
		Width:  cfg.Sim.Width,
		Height: cfg.Sim.Height,
		DT:     time.Second / time.Duration(max(cfg.Sim.FPS, 1)),
	})
	if err != nil {
		return err
	}

	coverage := make([]float64, len(points))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOVERAGE\tMEAN_A\tMEAN_B\n", strings.ToUpper(sweepParam))
	for i, pt := range points {
		coverage[i] = pt.Metrics["coverage"]
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\n", pt.Param, pt.Metrics["coverage"], pt.Metrics["mean_a"], pt.Metrics["mean_b"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(coverage,
		asciigraph.Height(10),
		asciigraph.Caption("coverage vs "+sweepParam),
	))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runner := &automation.Runner{
		Base:   sim.ParamsFromConfig(cfg),
		Width:  cfg.Sim.Width,
		Height: cfg.Sim.Height,
		Store:  st,
		Log:    logger,
	}

	ctx, cancel := signalContext()
	defer cancel()
	results, err := runner.Run(ctx, sc)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	type row struct {
		Preset    string             `json:"preset"`
		RunID     string             `json:"runId,omitempty"`
		Frames    int                `json:"frames"`
		Dissolves int                `json:"dissolves"`
		Metrics   map[string]float64 `json:"metrics"`
	}
	rows := make([]row, len(results))
	for i, r := range results {
		rows[i] = row{r.Preset, r.RunID, r.Frames, r.Dissolves, r.Metrics}
	}
	return enc.Encode(rows)
}
