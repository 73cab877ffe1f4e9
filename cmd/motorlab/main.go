package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/Panzon1496/405Labs/internal/closedloop"
	"github.com/Panzon1496/405Labs/internal/config"
	"github.com/Panzon1496/405Labs/internal/integrators"
	"github.com/Panzon1496/405Labs/internal/loop"
	"github.com/Panzon1496/405Labs/internal/metrics"
	"github.com/Panzon1496/405Labs/internal/plant"
	"github.com/Panzon1496/405Labs/internal/store"
	"github.com/Panzon1496/405Labs/internal/trace"
	"github.com/Panzon1496/405Labs/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	integrator string
	kp         float64
	ki         float64
	kd         float64
	setpoint   float64
	limitLow   float64
	limitHigh  float64
	record     bool
	motorGain  float64
	motorTau   float64
	configFile string
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "motorlab",
		Short: "closed-loop motor control lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".motorlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [plant]",
		Short: "run a closed-loop step response",
		Args:  cobra.ExactArgs(1),
		RunE:  runLoop,
	}
	addLoopFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [plant]",
		Short: "run with live terminal visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addLoopFlags(liveCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	captureCmd := &cobra.Command{
		Use:   "capture [file]",
		Short: "decode a recorded trace stream and plot it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  captureTrace,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [plant]",
		Short: "list available presets for a plant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for plant: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, plotCmd, listCmd, captureCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLoopFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "control timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "proportional gain")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "integral gain")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "derivative gain")
	cmd.Flags().Float64Var(&setpoint, "setpoint", 100, "target value")
	cmd.Flags().Float64Var(&limitLow, "low", config.DefaultLow, "duty saturation low bound")
	cmd.Flags().Float64Var(&limitHigh, "high", config.DefaultHigh, "duty saturation high bound")
	cmd.Flags().BoolVar(&record, "record", false, "arm the trace recorder; trace goes to stdout")
	cmd.Flags().Float64Var(&motorGain, "gain", plant.DefaultGain, "motor gain (rad/s per %duty)")
	cmd.Flags().Float64Var(&motorTau, "tau", plant.DefaultTau, "motor time constant (s)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig merges preset, config file and explicit flags into one
// run configuration. Flags win over the file, the file wins over the
// preset.
func resolveConfig(cmd *cobra.Command, plantName string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Plant = plantName

	if preset != "" {
		p := config.GetPreset(plantName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(plantName))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		*cfg = *loaded
		cfg.Plant = plantName
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("kp") {
		cfg.Gains.Kp = kp
	}
	if cmd.Flags().Changed("ki") {
		cfg.Gains.Ki = ki
	}
	if cmd.Flags().Changed("kd") {
		cfg.Gains.Kd = kd
	}
	if cmd.Flags().Changed("setpoint") || (preset == "" && configFile == "") {
		cfg.Setpoint = setpoint
	}
	if cmd.Flags().Changed("low") {
		cfg.Limits.Low = limitLow
	}
	if cmd.Flags().Changed("high") {
		cfg.Limits.High = limitHigh
	}
	if cmd.Flags().Changed("record") {
		cfg.Record = record
	}
	if cmd.Flags().Changed("gain") {
		cfg.Motor.Gain = motorGain
	}
	if cmd.Flags().Changed("tau") {
		cfg.Motor.Tau = motorTau
	}

	return cfg, nil
}

func buildPlant(cfg *config.Config) (loop.Plant, error) {
	var m *plant.Motor
	switch cfg.Plant {
	case "motor":
		m = plant.NewMotor()
	case "servo":
		s := plant.NewServo()
		applyMotorConfig(&s.Motor, cfg)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown plant: %s", cfg.Plant)
	}
	applyMotorConfig(m, cfg)
	return m, nil
}

func applyMotorConfig(m *plant.Motor, cfg *config.Config) {
	if cfg.Motor.Gain != 0 {
		m.Gain = cfg.Motor.Gain
	}
	if cfg.Motor.Tau != 0 {
		m.Tau = cfg.Motor.Tau
	}
}

func buildIntegrator(name string) (loop.Integrator, error) {
	switch name {
	case "euler":
		return integrators.NewEuler(), nil
	case "rk4":
		return integrators.NewRK4(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

func buildController(cfg *config.Config) (*closedloop.Controller, error) {
	return closedloop.New(closedloop.Config{
		Kp:       cfg.Gains.Kp,
		Ki:       cfg.Gains.Ki,
		Kd:       cfg.Gains.Kd,
		Setpoint: cfg.Setpoint,
		Limits:   &closedloop.Limits{Low: cfg.Limits.Low, High: cfg.Limits.High},
		Sink:     trace.Sink(os.Stdout),
	})
}

func runLoop(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	p, err := buildPlant(cfg)
	if err != nil {
		return err
	}
	integ, err := buildIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	ctrl, err := buildController(cfg)
	if err != nil {
		return err
	}
	if cfg.Record {
		ctrl.Record()
	}

	runner := loop.New(p, integ, ctrl)
	runner.AddMetric(metrics.NewControlEffort())
	runner.AddMetric(metrics.NewTrackingError(cfg.Setpoint))
	runner.AddMetric(metrics.NewOvershoot(cfg.Setpoint))
	runner.AddMetric(metrics.NewSettlingTime(cfg.Setpoint, settleTolerance(cfg.Setpoint)))

	fmt.Printf("running %s closed loop...\n", cfg.Plant)
	start := time.Now()

	x0 := make(loop.State, p.StateDim())
	result, err := runner.Run(context.Background(), x0, loop.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(store.RunMetadata{
		Plant:      cfg.Plant,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Setpoint:   cfg.Setpoint,
		Kp:         cfg.Gains.Kp,
		Ki:         cfg.Gains.Ki,
		Kd:         cfg.Gains.Kd,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(result.Times))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func settleTolerance(setpoint float64) float64 {
	tol := math.Abs(setpoint) * 0.02
	if tol == 0 {
		tol = 0.02
	}
	return tol
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	p, err := buildPlant(cfg)
	if err != nil {
		return err
	}
	integ, err := buildIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	ctrl, err := buildController(cfg)
	if err != nil {
		return err
	}
	if cfg.Record {
		ctrl.Record()
	}

	x0 := make(loop.State, p.StateDim())
	m := viz.NewModel(p, integ, ctrl, x0, cfg.Dt, cfg.Plant)

	prog := tea.NewProgram(m)
	if _, err := prog.Run(); err != nil {
		return err
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	times, measurements, duties, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("plant: %s  setpoint: %.3f  kp=%.3g ki=%.3g kd=%.3g\n", meta.Plant, meta.Setpoint, meta.Kp, meta.Ki, meta.Kd)
	fmt.Printf("samples: %d\n\n", len(times))

	graph := asciigraph.Plot(measurements,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("measurement vs time"),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(duties,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("duty vs time"),
	)
	fmt.Println(graph)

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLANT\tTIME\tDURATION\tDT\tINTEG\tSETPOINT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%.3f\n",
			run.ID,
			run.Plant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Setpoint,
		)
	}

	return w.Flush()
}

func captureTrace(cmd *cobra.Command, args []string) error {
	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	samples, err := trace.Read(in)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		fmt.Println("empty trace")
		return nil
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}

	span := samples[len(samples)-1].ElapsedMS - samples[0].ElapsedMS
	fmt.Printf("samples: %d  span: %dms\n\n", len(samples), span)

	graph := asciigraph.Plot(values,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("captured trace"),
	)
	fmt.Println(graph)

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	times, measurements, duties, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "measurement", "duty"}); err != nil {
		return err
	}
	for i := range times {
		row := []string{
			strconv.FormatFloat(times[i], 'f', 6, 64),
			strconv.FormatFloat(measurements[i], 'f', 6, 64),
			strconv.FormatFloat(duties[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, measurements, duties, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	return store.ExportJSON(os.Stdout, meta, times, measurements, duties)
}
