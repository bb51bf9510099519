package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/san-kum/charvak/internal/automation"
	"github.com/san-kum/charvak/internal/config"
	"github.com/san-kum/charvak/internal/optim"
	"github.com/san-kum/charvak/internal/sim"
	"github.com/san-kum/charvak/internal/storage"
	"github.com/spf13/cobra"
)

// parseRange reads "name=lo:hi:n" into a parameter name and its grid.
func parseRange(spec string) (string, []float64, error) {
	name, rest, ok := strings.Cut(spec, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("bad range %q, want name=lo:hi:n", spec)
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("bad range %q, want name=lo:hi:n", spec)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad range %q: %w", spec, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad range %q: %w", spec, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n <= 0 {
		return "", nil, fmt.Errorf("bad range %q: count must be a positive integer", spec)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("steps") && configFile == "" {
		base.Steps, _ = cmd.Flags().GetInt("steps")
	}
	every, _ := cmd.Flags().GetInt("sample")
	specs, _ := cmd.Flags().GetStringArray("range")
	target, _ := cmd.Flags().GetString("metric")
	if len(specs) == 0 {
		return fmt.Errorf("at least one --range is required (parameters: %v)", config.ParamNames())
	}

	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, values, err := parseRange(spec)
		if err != nil {
			return err
		}
		if err := base.Clone().Set(name, 0); err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	quiet := logger.WithPrefix("sweep")
	quiet.SetLevel(log.WarnLevel)
	logger.Info("sweeping", "points", grid.Size(), "metric", target, "steps", base.Steps)
	eval := func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := cfg.Set(name, v); err != nil {
				return 0, err
			}
		}
		result, err := sim.RunConfig(ctx, cfg, every, quiet)
		if err != nil {
			logger.Debug("point failed", "params", params, "err", err)
			return 0, err
		}
		v, ok := result.Metrics[target]
		if !ok {
			return 0, fmt.Errorf("no metric %q", target)
		}
		return v, nil
	}

	best, points, err := grid.Search(ctx, eval)
	if err != nil {
		return err
	}

	headers := append([]string{"RANK"}, names...)
	headers = append(headers, strings.ToUpper(target))
	t := newTable(headers...)
	for i, p := range optim.Ranked(points) {
		if i == 10 {
			break
		}
		row := []string{strconv.Itoa(i + 1)}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(p.Params[name], 'g', 4, 64))
		}
		row = append(row, fmt.Sprintf("%.6f", p.Value))
		t.Row(row...)
	}
	fmt.Println(t)

	failed := len(points) - len(optim.Ranked(points))
	if failed > 0 {
		fmt.Printf("%d of %d points failed\n", failed, len(points))
	}

	keys := make([]string, 0, len(best.Params))
	for k := range best.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, best.Params[k]))
	}
	fmt.Printf("best: %s (%s %.6f)\n", strings.Join(parts, " "), target, best.Value)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	every, _ := cmd.Flags().GetInt("sample")
	logger.Info("scenario", "name", scenario.Name, "runs", len(scenario.Runs))
	return scenario.Run(ctx, func(ctx context.Context, name string, cfg *config.Config) error {
		result, err := sim.RunConfig(ctx, cfg, every, logger)
		if err != nil {
			return err
		}
		meta := runMeta(cfg)
		meta.ID = name
		runID, err := st.Save(meta, result)
		if err != nil {
			return err
		}
		logger.Info("stored", "run", runID, "mean_distance", result.Metrics["mean_distance"], "escaped", result.Metrics["escaped"])
		return nil
	})
}
