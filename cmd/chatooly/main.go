package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/chatooly/internal/config"
	"github.com/san-kum/chatooly/internal/gui"
	"github.com/san-kum/chatooly/internal/host"
	"github.com/san-kum/chatooly/internal/logging"
	"github.com/san-kum/chatooly/internal/sim"
	"github.com/san-kum/chatooly/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string

	preset    string
	seed      int64
	width     int
	height    int
	cellSize  int
	fps       int
	workers   int
	palette   int
	colormap  string
	dissolve  string
	theme     string
	mask      bool
	output    string
	sampleN   int
	benchRuns int

	addr      string
	publicDir string
	toolsDir  string
	baseURL   string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "chatooly",
		Short:        "reaction-diffusion background and tool hub",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return attach(cmd, "terminal")
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chatooly", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	simFlags(rootCmd)
	rootCmd.Flags().StringVar(&theme, "theme", "pastel", "terminal theme")
	rootCmd.Flags().BoolVar(&mask, "mask", false, "start in braille mask view")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return attach(cmd, "terminal")
		},
	}
	simFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "pastel", "terminal theme")
	liveCmd.Flags().BoolVar(&mask, "mask", false, "start in braille mask view")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return attach(cmd, "window")
		},
	}
	simFlags(guiCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and store the metric series",
		RunE:  runHeadless,
	}
	simFlags(runCmd)
	runCmd.Flags().Int("frames", 900, "frames to simulate")
	runCmd.Flags().IntVar(&sampleN, "every", 1, "sample metrics every n frames")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "simulate headless and write a png, gif or svg",
		RunE:  renderFrames,
	}
	simFlags(renderCmd)
	renderCmd.Flags().Int("frames", 300, "frames to simulate")
	renderCmd.Flags().StringVarP(&output, "output", "o", "frame.png", "output file (.png, .gif, .svg)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of coverage",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run concurrent headless sessions and report throughput",
		RunE:  benchSessions,
	}
	simFlags(benchCmd)
	benchCmd.Flags().Int("frames", 300, "frames per session")
	benchCmd.Flags().IntVar(&benchRuns, "sessions", 4, "concurrent sessions")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one reaction parameter",
		RunE:  sweepParams,
	}
	simFlags(sweepCmd)
	sweepCmd.Flags().Int("frames", 300, "frames per point")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "feed", "parameter (dA, dB, feed, kill)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.02, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.08, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of values")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	simFlags(scenarioCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list reaction presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s feed=%.4f kill=%.4f  %s\n", name, p.Feed, p.Kill, p.Description)
			}
			return nil
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the tool hub",
		RunE:  serveHub,
	}
	hubFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().StringVar(&publicDir, "public", "public", "static site directory")

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "print the tool catalog",
		RunE:  printCatalog,
	}
	hubFlags(catalogCmd)

	publishCmd := &cobra.Command{
		Use:   "publish [dir] [name]",
		Short: "publish a local tool directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  publishDir,
	}
	hubFlags(publishCmd)

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, renderCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd,
		benchCmd, sweepCmd, scenarioCmd, presetsCmd, serveCmd, catalogCmd, publishCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func simFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "reaction preset")
	f.Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	f.IntVar(&width, "width", config.DefaultWidth, "viewport width in pixels")
	f.IntVar(&height, "height", config.DefaultHeight, "viewport height in pixels")
	f.IntVar(&cellSize, "cell", config.DefaultCellSize, "cell size in pixels")
	f.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	f.IntVar(&workers, "workers", 1, "stepper workers")
	f.IntVar(&palette, "palette", -1, "pastel index, -1 for random")
	f.StringVar(&colormap, "colormap", "", "named colormap instead of the pastel")
	f.StringVar(&dissolve, "dissolve", "", "dissolve interval (e.g. 15s, 0 disables)")
}

func hubFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&toolsDir, "tools", "public/tools", "tools directory")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "public base url for published tools")
}

// loadConfig reads --config if given and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	f := cmd.Flags()
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if f.Changed("seed") {
		cfg.Sim.Seed = seed
	}
	if f.Changed("width") {
		cfg.Sim.Width = width
	}
	if f.Changed("height") {
		cfg.Sim.Height = height
	}
	if f.Changed("cell") {
		cfg.Sim.CellSize = cellSize
	}
	if f.Changed("fps") {
		cfg.Sim.FPS = fps
	}
	if f.Changed("workers") {
		cfg.Sim.Workers = workers
	}
	if f.Changed("palette") {
		cfg.Render.Palette = palette
	}
	if f.Changed("colormap") {
		cfg.Render.Colormap = colormap
	}
	if f.Changed("dissolve") {
		d, err := time.ParseDuration(dissolve)
		if err != nil {
			return nil, err
		}
		cfg.Sim.DissolveInterval = d
	}
	if f.Changed("tools") {
		cfg.Hub.ToolsDir = toolsDir
	}
	if f.Changed("base-url") {
		cfg.Hub.BaseURL = baseURL
	}
	if f.Changed("addr") {
		cfg.Hub.Addr = addr
	}
	if f.Changed("public") {
		cfg.Hub.PublicDir = publicDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) (*log.Logger, error) {
	return logging.New(os.Stderr, cfg.Log.Level, "chatooly")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// attach builds a session from the merged config and hands it to a named
// surface.
func attach(cmd *cobra.Command, surface string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	registry := host.NewRegistry(logger,
		&viz.Terminal{Options: viz.Options{FPS: cfg.Sim.FPS, Theme: theme, Mask: mask}},
		&gui.Window{Title: cfg.Hub.Brand, FPS: cfg.Sim.FPS, Log: logger},
		&host.Headless{FPS: cfg.Sim.FPS},
	)

	ctx, cancel := signalContext()
	defer cancel()
	return host.Attach(ctx, registry, surface, s)
}

func newSession(cfg *config.Config) (*sim.Session, error) {
	return sim.New(sim.ParamsFromConfig(cfg), cfg.Sim.Width, cfg.Sim.Height, time.Now())
}
