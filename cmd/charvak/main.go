package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/charvak/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	configFile  string
	preset      string
	verbose     bool
	numParticle int
	seed        int64
	dt          float32
	steps       int
	integrator  string
	backend     string
	workers     int
	strength    float32
	epsilon     float32
	centerX     float32
	centerY     float32
	pointSize   float32
	realtime    bool
	sampleEvery int
	numRuns     int
	metricName  string
	outFile     string
	seriesOut   bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "charvak",
})

// main wires the cobra command tree. With no subcommand it opens the
// simulation window.
func main() {
	rootCmd := &cobra.Command{
		Use:           "charvak",
		Short:         "real-time particle attraction simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		RunE: runWindow,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".charvak", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	addSimFlags(rootCmd)
	rootCmd.Flags().BoolVar(&realtime, "realtime", false, "step by measured frame time instead of fixed dt")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "open the simulation window",
		Args:  cobra.NoArgs,
		RunE:  runWindow,
	}
	addSimFlags(windowCmd)
	windowCmd.Flags().BoolVar(&realtime, "realtime", false, "step by measured frame time instead of fixed dt")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and store the result",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of ticks")
	runCmd.Flags().IntVar(&sampleEvery, "sample", 1, "record metrics every n ticks")
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "number of runs with consecutive seeds")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metricName, "metric", "", "plot only this metric")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&metricName, "metric", "mean_distance", "metric to analyze")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the final frame (or a series) as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().BoolVar(&seriesOut, "series", false, "plot --metric over time instead of the frame")
	exportSVGCmd.Flags().StringVar(&metricName, "metric", "mean_distance", "metric for --series")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure cpu step throughput",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&steps, "steps", 200, "ticks per measurement")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search field parameters for the lowest metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&steps, "steps", 300, "ticks per point")
	sweepCmd.Flags().IntVar(&sampleEvery, "sample", 10, "record metrics every n ticks")
	sweepCmd.Flags().StringArray("range", nil, "parameter grid as name=lo:hi:n (repeatable)")
	sweepCmd.Flags().String("metric", "escaped", "metric to minimize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run and store every run of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().IntVar(&sampleEvery, "sample", 1, "record metrics every n ticks")

	rootCmd.AddCommand(windowCmd, runCmd, liveCmd, listCmd, showCmd, plotCmd, analyzeCmd, exportSVGCmd, deleteCmd, presetsCmd, benchCmd, sweepCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a named preset")
	f.IntVarP(&numParticle, "particles", "n", 0, "number of particles")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.Float32Var(&dt, "dt", config.DefaultDt, "timestep")
	f.StringVar(&integrator, "integrator", config.DefaultIntegrator, "integration scheme")
	f.StringVar(&backend, "backend", config.DefaultBackend, "compute backend (cpu, gl, auto)")
	f.IntVar(&workers, "workers", 0, "cpu workers (0 = all cores)")
	f.Float32Var(&strength, "strength", 0, "attraction strength")
	f.Float32Var(&epsilon, "epsilon", 0, "distance softening")
	f.Float32Var(&centerX, "cx", 0, "attraction center x")
	f.Float32Var(&centerY, "cy", 0, "attraction center y")
	f.Float32Var(&pointSize, "point-size", 0, "point size in pixels")
}

// resolveConfig layers defaults, preset, config file and changed flags,
// in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.Particles = numParticle
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("strength") {
		cfg.Field.Strength = strength
	}
	if flags.Changed("epsilon") {
		cfg.Field.Epsilon = epsilon
	}
	if flags.Changed("cx") {
		cfg.Field.Center[0] = centerX
	}
	if flags.Changed("cy") {
		cfg.Field.Center[1] = centerY
	}
	if flags.Changed("point-size") {
		cfg.Render.PointSize = pointSize
	}
	if flags.Lookup("realtime") != nil && flags.Changed("realtime") {
		cfg.Window.Realtime = realtime
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("config resolved", "particles", cfg.Particles, "dt", cfg.Dt, "backend", cfg.Backend, "integrator", cfg.Integrator, "seed", cfg.Seed)
	return cfg, nil
}
