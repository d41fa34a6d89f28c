package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ecogear/internal/config"
	"github.com/san-kum/ecogear/internal/controller"
	"github.com/san-kum/ecogear/internal/export"
	"github.com/san-kum/ecogear/internal/metrics"
	"github.com/san-kum/ecogear/internal/optim"
	"github.com/san-kum/ecogear/internal/sim"
	"github.com/san-kum/ecogear/internal/storage"
	"github.com/san-kum/ecogear/internal/telemetry"
	"github.com/san-kum/ecogear/internal/tui"
)

var (
	dataDir    string
	configFile string
	dt         float64
	strategy   string
	gear       float64
	script     string
	timeoutMs  int
	frameRate  int
	outFile    string
	verbose    bool
	sweepMin   float64
	sweepMax   float64
	sweepStep  float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ecogear",
		Short: "gear-shifting strategy lab for a single-vehicle track challenge",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the interactive dashboard when no command given.
			return runDashboard(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ecogear", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose logging")

	runCmd := &cobra.Command{
		Use:   "run [track]",
		Short: "run a challenge headlessly and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runChallenge,
	}
	addSimFlags(runCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui [track]",
		Short: "interactive dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDashboard,
	}
	addSimFlags(tuiCmd)

	liveCmd := &cobra.Command{
		Use:   "live [track]",
		Short: "headless run with a live progress view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and telemetry to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run telemetry to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&outFile, "out", "", "output file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available track presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [track]",
		Short: "benchmark the engine across timesteps",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchEngine,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [track]",
		Short: "grid-search a constant gear ratio for the best score",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepGear,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "lowest gear candidate")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 5.0, "highest gear candidate")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 0.25, "candidate spacing")
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run traces to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outFile, "out", "", "output file prefix (default run id)")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "ecogear.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, tuiCmd, liveCmd, listCmd, plotCmd, exportCmd,
		exportJSONCmd, exportCSVCmd, exportSVGCmd, presetsCmd, benchCmd,
		sweepCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().StringVar(&strategy, "controller", config.DefaultStrategy, "strategy (coast, constant, eco, script)")
	cmd.Flags().Float64Var(&gear, "gear", config.DefaultGear, "gear ratio for the constant strategy")
	cmd.Flags().StringVar(&script, "script", "", "strategy script path")
	cmd.Flags().IntVar(&timeoutMs, "timeout", config.DefaultTimeoutMs, "strategy invocation budget in ms")
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if !verbose {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// resolveConfig layers config file, preset argument, and flags into one
// effective configuration. Explicit flags win over the config file.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		tc, ok := config.GetPreset(args[0])
		if !ok {
			return nil, fmt.Errorf("unknown track: %s (available: %v)", args[0], config.ListPresets())
		}
		cfg.Track = tc
	}

	if cmd.Flags().Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if cmd.Flags().Changed("controller") {
		cfg.Controller.Strategy = strategy
	}
	if cmd.Flags().Changed("gear") {
		cfg.Controller.Gear = gear
	}
	if cmd.Flags().Changed("script") {
		cfg.Controller.Script = script
		cfg.Controller.Strategy = "script"
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Controller.TimeoutMs = timeoutMs
	}

	return cfg, nil
}

func buildEngine(cfg *config.Config, logger *log.Logger) (*sim.Engine, string, error) {
	tr, err := cfg.BuildTrack()
	if err != nil {
		return nil, "", err
	}

	host := controller.NewHost(nil, logger)
	if cfg.Controller.TimeoutMs > 0 {
		host.SetTimeout(time.Duration(cfg.Controller.TimeoutMs) * time.Millisecond)
	}

	if cfg.Controller.Strategy == "script" {
		if cfg.Controller.Script == "" {
			return nil, "", fmt.Errorf("script strategy requires a script path")
		}
		if err := host.Load(cfg.Controller.Script); err != nil {
			return nil, "", err
		}
	} else {
		s, err := controller.ForName(cfg.Controller.Strategy, cfg.Controller.Gear)
		if err != nil {
			return nil, "", err
		}
		host.Swap(s)
	}

	eng := sim.NewEngine(tr, host, logger)
	eng.AddMetric(metrics.NewScore(tr.Length()))
	eng.AddMetric(metrics.NewAverageSpeed())
	eng.AddMetric(metrics.NewPeakPower())

	return eng, host.ActiveName(), nil
}

func runChallenge(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := newLogger()
	eng, ctrlName, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s with %s...\n", cfg.Track.Name, ctrlName)
	start := time.Now()

	result, err := eng.Run(context.Background(), sim.Config{Dt: cfg.Sim.Dt})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Track.Name, ctrlName, cfg.Sim.Dt, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	printResult(result)
	return nil
}

func printResult(result *sim.Result) {
	fmt.Printf("outcome: %s\n", result.Outcome.Phase)
	fmt.Printf("time: %.2fs  distance: %.1fm  energy: %.1fJ\n",
		result.Outcome.Time, result.Summary.Distance, result.Outcome.Energy)
	if result.Faults > 0 {
		fmt.Printf("controller faults: %d\n", result.Faults)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.2f\n", name, val)
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := log.New(io.Discard)
	eng, ctrlName, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	eng.Start()

	return tui.Run(tui.Options{
		Engine:         eng,
		Dt:             cfg.Sim.Dt,
		TrackName:      cfg.Track.Name,
		ControllerName: ctrlName,
	})
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := newLogger()
	eng, _, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	tr := eng.Track()
	renderer := tui.NewLiveRenderer(tr.Length(), tr.TimeLimit(), frameRate)
	eng.AddObserver(renderer)

	renderer.Start()
	defer renderer.Stop()

	// Pace ticks against wall time so the live view is watchable.
	eng.Start()
	ticker := time.NewTicker(time.Duration(cfg.Sim.Dt * float64(time.Second)))
	defer ticker.Stop()
	for eng.Phase() == sim.Running {
		<-ticker.C
		eng.Tick(cfg.Sim.Dt)
	}

	fmt.Println()
	out := eng.Outcome()
	fmt.Printf("outcome: %s  time: %.2fs  energy: %.1fJ\n", out.Phase, out.Time, out.Energy)
	return nil
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
	fmt.Fprintln(w, "ID\tTRACK\tCTRL\tWHEN\tOUTCOME\tTIME\tENERGY\tFAULTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2fs\t%.1fJ\t%d\n",
			run.ID,
			run.Track,
			run.Controller,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Outcome,
			run.Time,
			run.Energy,
			run.Faults,
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

	rows, err := st.LoadRows(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("track: %s  controller: %s  outcome: %s\n\n", meta.Track, meta.Controller, meta.Outcome)

	series := []struct {
		caption string
		pick    func(telemetry.Row) float64
	}{
		{"velocity (m/s)", func(r telemetry.Row) float64 { return r.Velocity }},
		{"gear ratio", func(r telemetry.Row) float64 { return r.Gear }},
		{"power (W)", func(r telemetry.Row) float64 { return r.Power }},
		{"energy (J)", func(r telemetry.Row) float64 { return r.Energy }},
	}

	for _, s := range series {
		data := make([]float64, len(rows))
		for i, row := range rows {
			data[i] = s.pick(row)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return printJSON(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile == "" {
		return st.ExportJSONStdout(args[0])
	}
	if err := st.ExportJSON(args[0], outFile); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	if outFile == "" {
		outFile = args[0] + ".csv"
	}
	st := storage.New(dataDir)
	if err := st.ExportCSV(args[0], outFile); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLENGTH\tLIMIT\tSEGMENTS")
	for _, name := range config.ListPresets() {
		tc, _ := config.GetPreset(name)
		length := tc.Segments[len(tc.Segments)-1].End
		fmt.Fprintf(w, "%s\t%.0fm\t%.0fs\t%d\n", name, length, tc.TimeLimit, len(tc.Segments))
	}
	return w.Flush()
}

func benchEngine(cmd *cobra.Command, args []string) error {
	trackName := "practice"
	if len(args) > 0 {
		trackName = args[0]
	}
	tc, ok := config.GetPreset(trackName)
	if !ok {
		return fmt.Errorf("unknown track: %s", trackName)
	}

	logger := log.New(io.Discard)

	fmt.Printf("benchmarking %s\n\n", trackName)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tTICKS\tTIME\tTICKS/SEC")

	for _, d := range []float64{0.001, 0.01, 0.1} {
		cfg := config.DefaultConfig()
		cfg.Track = tc

		eng, _, err := buildEngine(cfg, logger)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := eng.Run(context.Background(), sim.Config{Dt: d})
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		ticks := result.Summary.Ticks
		fmt.Fprintf(w, "%.4fs\t%d\t%v\t%.0f\n",
			d, ticks, elapsed, float64(ticks)/elapsed.Seconds())
	}

	return w.Flush()
}

func sweepGear(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := log.New(io.Discard)
	gears := optim.Range(sweepMin, sweepMax, sweepStep)
	if len(gears) == 0 {
		return fmt.Errorf("empty gear range [%.2f, %.2f] step %.2f", sweepMin, sweepMax, sweepStep)
	}

	build := func(gear float64) (*sim.Engine, error) {
		c := *cfg
		c.Controller.Strategy = "constant"
		c.Controller.Gear = gear
		eng, _, err := buildEngine(&c, logger)
		return eng, err
	}

	fmt.Printf("sweeping %d gear candidates on %s...\n", len(gears), cfg.Track.Name)
	sweep := optim.NewGearSweep(gears)
	bestGear, bestScore, err := sweep.Search(context.Background(), build, cfg.Sim.Dt, "score")
	if err != nil {
		return err
	}

	fmt.Printf("best gear: %.2f  score: %.1f\n", bestGear, bestScore)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	rows, err := st.LoadRows(runID)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("not enough data to export")
	}

	prefix := outFile
	if prefix == "" {
		prefix = runID
	}

	files := map[string]string{
		prefix + "_velocity.svg": export.VelocitySVG(rows, 800, 400, "#00ff00"),
		prefix + "_energy.svg":   export.EnergySVG(rows, 800, 400, "#ffcc00"),
	}
	if meta, err := st.Load(runID); err == nil {
		if tc, ok := config.GetPreset(meta.Track); ok {
			cfg := config.DefaultConfig()
			cfg.Track = tc
			if tr, err := cfg.BuildTrack(); err == nil {
				files[prefix+"_profile.svg"] = export.ProfileSVG(tr.ElevationProfile(1.0), 800, 400, "#00ccff")
			}
		}
	}
	for path, svg := range files {
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
