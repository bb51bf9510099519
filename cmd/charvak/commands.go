package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/charvak/internal/analysis"
	"github.com/san-kum/charvak/internal/config"
	"github.com/san-kum/charvak/internal/export"
	"github.com/san-kum/charvak/internal/gui"
	"github.com/san-kum/charvak/internal/metrics"
	"github.com/san-kum/charvak/internal/scene"
	"github.com/san-kum/charvak/internal/sim"
	"github.com/san-kum/charvak/internal/storage"
	"github.com/san-kum/charvak/internal/tui"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cfg, logger)
}

func runMeta(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Seed:       cfg.Seed,
		Particles:  cfg.Particles,
		Dt:         cfg.Dt,
		Steps:      cfg.Steps,
		Backend:    cfg.Backend,
		Integrator: cfg.Integrator,
		Field: storage.FieldInfo{
			Center:   cfg.Field.Center,
			Strength: cfg.Field.Strength,
			Epsilon:  cfg.Field.Epsilon,
		},
	}
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: run needs at least one step", config.ErrInvalidConfig)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	every, _ := cmd.Flags().GetInt("sample")
	simCfg := sim.Config{
		Dt:            cfg.Dt,
		Steps:         cfg.Steps,
		SampleEvery:   every,
		ValidateState: true,
	}

	if numRuns > 1 {
		return runEnsemble(ctx, cfg, simCfg, st)
	}

	logger.Info("running", "particles", cfg.Particles, "steps", cfg.Steps, "integrator", cfg.Integrator)
	start := time.Now()
	result, runErr := sim.RunConfig(ctx, cfg, every, logger)
	elapsed := time.Since(start)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run stopped early, storing partial result", "err", runErr, "steps", result.StepsTaken)
	}

	runID, err := st.Save(runMeta(cfg), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n\n", result.StepsTaken)
	printMetrics(result.Metrics)
	return runErr
}

func runEnsemble(ctx context.Context, cfg *config.Config, simCfg sim.Config, st *storage.Store) error {
	build := func(s int64) (*scene.Scene, []metrics.Metric, error) {
		c := cfg.Clone()
		c.Seed = s
		// Runs already execute in parallel.
		c.Workers = 1
		sc, _, err := scene.NewHost(c)
		if err != nil {
			return nil, nil, err
		}
		return sc, metrics.Default(c.ParticleField().Center), nil
	}

	logger.Info("running ensemble", "runs", numRuns, "seed", cfg.Seed)
	results, err := sim.NewEnsemble(build, numRuns, cfg.Seed, logger).Run(ctx, simCfg)
	if err != nil {
		return err
	}

	t := newTable("SEED", "RUN ID", "MEAN DIST", "ESCAPED")
	for i, result := range results {
		meta := runMeta(cfg)
		meta.Seed = cfg.Seed + int64(i)
		runID, err := st.Save(meta, result)
		if err != nil {
			return err
		}
		t.Row(
			strconv.FormatInt(meta.Seed, 10),
			runID,
			fmt.Sprintf("%.4f", result.Metrics["mean_distance"]),
			fmt.Sprintf("%.4f", result.Metrics["escaped"]),
		)
	}
	fmt.Println(t)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println(headerStyle.Render("metrics"))
	for _, name := range names {
		fmt.Println(labelStyle.Render(name) + fmt.Sprintf("%.6f", m[name]))
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sc, set, err := scene.NewHost(cfg)
	if err != nil {
		return err
	}
	defer sc.Renderer().Release()

	m := tui.NewModel(sc, set, cfg.Seed, cfg.Dt, cfg.Window.Title)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(tui.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	t := newTable("ID", "TIME", "PARTICLES", "STEPS", "DT", "SCHEME", "BACKEND")
	for _, run := range runs {
		t.Row(
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			strconv.Itoa(run.Particles),
			strconv.Itoa(run.Steps),
			fmt.Sprintf("%.4f", run.Dt),
			run.Integrator,
			run.Backend,
		)
	}
	fmt.Println(t)
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	only, _ := cmd.Flags().GetString("metric")

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d over %.2fs\n\n", len(times), times[len(times)-1])

	names := make([]string, 0, len(series))
	for name := range series {
		if only == "" || name == only {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no metric %q in run %s", only, runID)
	}
	sort.Strings(names)

	for _, name := range names {
		data := series[name]
		if len(data) < 2 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	name, _ := cmd.Flags().GetString("metric")

	times, series, err := storage.New(dataDir).LoadSeries(runID)
	if err != nil {
		return err
	}
	data, ok := series[name]
	if !ok || len(times) < 2 {
		return fmt.Errorf("no %s series in run %s", name, runID)
	}

	sampleDt := times[1] - times[0]
	ps := analysis.PowerSpectrum(data)
	if len(ps) > 2 {
		graph := asciigraph.Plot(ps[1:],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	summary := analysis.Summarize(data)
	fmt.Println(labelStyle.Render("mean") + fmt.Sprintf("%.6f", summary.Mean))
	fmt.Println(labelStyle.Render("std") + fmt.Sprintf("%.6f", summary.Std))
	fmt.Println(labelStyle.Render("range") + fmt.Sprintf("%.6f .. %.6f", summary.Min, summary.Max))

	freq, err := analysis.DominantFrequency(data, sampleDt)
	if err != nil {
		if errors.Is(err, analysis.ErrShortSeries) {
			fmt.Println("series too short for a frequency estimate")
			return nil
		}
		return err
	}
	fmt.Println(labelStyle.Render("dominant freq") + fmt.Sprintf("%.4f hz", freq))
	if freq > 0 {
		fmt.Println(labelStyle.Render("period") + fmt.Sprintf("%.4f s", 1/freq))
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	path := outFile
	if path == "" {
		path = runID + ".svg"
	}

	st := storage.New(dataDir)
	var svg string
	if seriesOut {
		name, _ := cmd.Flags().GetString("metric")
		times, series, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		svg = export.SeriesToSVG(times, series[name], 800, 300, "#ff991a")
		if svg == "" {
			return fmt.Errorf("not enough %s samples in run %s", name, runID)
		}
	} else {
		pos, err := st.LoadFrame(runID)
		if err != nil {
			return err
		}
		svg = export.FrameToSVG(pos, config.DefaultWidth, config.DefaultConfig().Style())
	}

	if err := export.WriteFile(path, svg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func deleteRun(cmd *cobra.Command, args []string) error {
	if err := storage.New(dataDir).Delete(args[0]); err != nil {
		return err
	}
	logger.Info("deleted", "run", args[0])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	t := newTable("PRESET", "PARTICLES", "DT", "STRENGTH", "CENTER", "SCHEME", "BACKEND")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		t.Row(
			name,
			strconv.Itoa(p.Particles),
			fmt.Sprintf("%.3f", p.Dt),
			fmt.Sprintf("%.2f", p.Field.Strength),
			fmt.Sprintf("(%.2f, %.2f)", p.Field.Center[0], p.Field.Center[1]),
			p.Integrator,
			p.Backend,
		)
	}
	fmt.Println(t)
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("steps")
	counts := []int{1024, 4096, 16384, 65536}
	workerCounts := []int{1, runtime.NumCPU()}

	fmt.Printf("benchmarking %d steps per case\n\n", n)
	t := newTable("PARTICLES", "WORKERS", "TIME", "STEPS/SEC", "NS/PARTICLE")
	for _, count := range counts {
		for _, w := range workerCounts {
			cfg := config.DefaultConfig()
			cfg.Particles = count
			cfg.Workers = w

			sc, _, err := scene.NewHost(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < n; i++ {
				if err := sc.Update(cfg.Dt); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)
			sc.Renderer().Release()

			perStep := elapsed.Seconds() / float64(n)
			t.Row(
				strconv.Itoa(count),
				strconv.Itoa(w),
				elapsed.Round(time.Microsecond).String(),
				fmt.Sprintf("%.0f", 1/perStep),
				fmt.Sprintf("%.1f", perStep*1e9/float64(count)),
			)
		}
	}
	fmt.Println(t)
	return nil
}
