package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/san-kum/forcebubble/internal/bubble"
	"github.com/san-kum/forcebubble/internal/config"
	"github.com/san-kum/forcebubble/internal/export"
	"github.com/san-kum/forcebubble/internal/metrics"
	"github.com/san-kum/forcebubble/internal/session"
	"github.com/san-kum/forcebubble/internal/storage"
	"github.com/san-kum/forcebubble/internal/store"
	"github.com/san-kum/forcebubble/internal/viz"
)

var (
	configFile  string
	preset      string
	startYear   int
	endYear     int
	width       float64
	height      float64
	strength    float64
	scale       float64
	constrained bool
	seed        int64
	lowTag      string
	highTag     string
	verbose     bool

	// layout
	year      int
	maxFrames int
	step      time.Duration
	top       int
	svgPath   string
	pngPath   string
	pngScale  float64
	jsonPath  string
	recordDir string
	promPath  string
	every     int

	// ensemble
	runs     int
	parallel int

	// tune
	tuneParams []string
	tuneMetric string

	// config
	format string

	// live
	theme string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "forcebubble",
		Short:         "force-directed bubble chart of a yearly dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.IntVar(&startYear, "start", 0, "first year of the dataset")
	pf.IntVar(&endYear, "end", 0, "last year of the dataset")
	pf.Float64Var(&width, "width", config.DefaultWidth, "layout width")
	pf.Float64Var(&height, "height", config.DefaultHeight, "layout height")
	pf.Float64Var(&strength, "strength", config.DefaultStrength, "centering force strength")
	pf.Float64Var(&scale, "scale", config.DefaultScale, "radius scale k in sqrt(value)*k")
	pf.BoolVar(&constrained, "constrained", false, "drop entities below the small-device threshold")
	pf.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	pf.StringVar(&lowTag, "low", "", "legend label for small values")
	pf.StringVar(&highTag, "high", "", "legend label for large values")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	liveCmd := &cobra.Command{
		Use:   "live [data.csv]",
		Short: "animate the chart in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", viz.CurrentTheme.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))

	layoutCmd := &cobra.Command{
		Use:   "layout [data.csv]",
		Short: "run the layout headless until it settles",
		Args:  cobra.ExactArgs(1),
		RunE:  runLayout,
	}
	layoutCmd.Flags().IntVar(&year, "year", 0, "year to select after the entrance settles")
	layoutCmd.Flags().IntVar(&maxFrames, "frames", 5000, "maximum frames per phase")
	layoutCmd.Flags().DurationVar(&step, "step", time.Second/60, "virtual time per frame")
	layoutCmd.Flags().IntVar(&top, "top", 20, "rows to print, 0 for all")
	layoutCmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG snapshot")
	layoutCmd.Flags().StringVar(&pngPath, "png", "", "write a PNG snapshot")
	layoutCmd.Flags().Float64Var(&pngScale, "png-scale", 1, "PNG pixels per layout unit")
	layoutCmd.Flags().StringVar(&jsonPath, "json", "", "write positions and radii as JSON")
	layoutCmd.Flags().StringVar(&recordDir, "record", "", "archive the run under this directory")
	layoutCmd.Flags().IntVar(&every, "every", 10, "record every n-th frame")
	layoutCmd.Flags().StringVar(&promPath, "prom", "", "write final metrics as a Prometheus textfile")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [data.csv]",
		Short: "settle the layout under several seeds in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")
	ensembleCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs, 0 for unbounded")
	ensembleCmd.Flags().IntVar(&maxFrames, "frames", 5000, "maximum frames per run")
	ensembleCmd.Flags().DurationVar(&step, "step", time.Second/60, "virtual time per frame")

	tuneCmd := &cobra.Command{
		Use:   "tune [data.csv]",
		Short: "grid search layout parameters for the lowest metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", []string{"strength=0.05,0.1,0.2,0.4"}, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "settle_time", "metric to minimize")
	tuneCmd.Flags().IntVar(&maxFrames, "frames", 5000, "maximum frames per run")
	tuneCmd.Flags().DurationVar(&step, "step", time.Second/60, "virtual time per frame")

	runsCmd := &cobra.Command{
		Use:   "runs [dir]",
		Short: "list archived runs",
		Args:  cobra.ExactArgs(1),
		RunE:  listRuns,
	}

	seriesCmd := &cobra.Command{
		Use:   "series [data.csv] [code]",
		Short: "plot one entity's series",
		Args:  cobra.ExactArgs(2),
		RunE:  plotSeries,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}
	configCmd.Flags().StringVar(&format, "format", "yaml", "stdout format: yaml or toml")

	rootCmd.AddCommand(liveCmd, layoutCmd, ensembleCmd, tuneCmd, runsCmd, seriesCmd, presetsCmd, configCmd)
	return rootCmd
}

// resolveConfig merges defaults, preset, config file and changed flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("start") || flags.Changed("end") {
		s, e := startYear, endYear
		if !flags.Changed("start") && cfg.StartYear != nil {
			s = *cfg.StartYear
		}
		if !flags.Changed("end") && cfg.EndYear != nil {
			e = *cfg.EndYear
		}
		cfg.SetYearRange(s, e)
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("strength") {
		cfg.Strength = strength
	}
	if flags.Changed("scale") {
		cfg.Scale = scale
	}
	if flags.Changed("constrained") {
		cfg.Constrained = constrained
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("low") || flags.Changed("high") {
		cfg.SetLegendTags(lowTag, highTag)
	}
	return cfg, nil
}

func openSession(cmd *cobra.Command, path string) (*session.Session, error) {
	logger := loggerFromContext(cmd.Context())
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	yr, err := cfg.YearRange()
	if errors.Is(err, bubble.ErrNotConfigured) {
		return nil, fmt.Errorf("%w: pass --start and --end or set them in --config", err)
	}
	if err != nil {
		return nil, err
	}

	rows, err := store.LoadCSV(path, yr)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("rows loaded", "path", path, "rows", len(rows))
	return session.New(cfg, rows, session.Options{Logger: logger})
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	viz.SetTheme(theme)
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}

	p := tea.NewProgram(viz.NewModel(s), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runLayout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}
	var rec *storage.Recorder
	if recordDir != "" {
		rec = storage.NewRecorder(every)
		s.AddObserver(rec)
	}

	prog := newProgress(logger)
	frames, err := s.Run(ctx, step, maxFrames)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("year") {
		if !s.SelectYear(year, s.Now()) {
			logger.Warn("year out of range, keeping current year", "year", year, "current", s.Year())
		} else {
			n, err := s.Run(ctx, step, maxFrames)
			if err != nil {
				return err
			}
			frames += n
		}
	}
	if !s.Settled() {
		logger.Warn("layout did not settle", "frames", frames, "alpha", s.Alpha())
	}
	prog.done(fmt.Sprintf("laid out %d entities in %d frames", len(s.Entities()), frames))

	if err := printLayout(s); err != nil {
		return err
	}

	scene := export.FromSession(s)
	if svgPath != "" {
		if err := export.WriteSVG(svgPath, scene); err != nil {
			return err
		}
		logger.Info("wrote svg", "path", svgPath)
	}
	if pngPath != "" {
		if err := export.WritePNG(pngPath, scene, pngScale); err != nil {
			return err
		}
		logger.Info("wrote png", "path", pngPath)
	}
	if jsonPath != "" {
		if err := export.WriteJSON(jsonPath, export.Layout(s)); err != nil {
			return err
		}
		logger.Info("wrote json", "path", jsonPath)
	}
	if promPath != "" {
		exp := metrics.NewExporter()
		exp.Record(strconv.Itoa(s.Year()), frames, len(s.Entities()), s.Settled(), s.Metrics())
		if err := exp.WriteTextfile(promPath); err != nil {
			return err
		}
		logger.Info("wrote metrics", "path", promPath)
	}
	if rec != nil {
		st := storage.New(recordDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(storage.RunMetadata{
			Source:   args[0],
			Seed:     s.Config().Seed,
			Year:     s.Year(),
			Frames:   frames,
			Settled:  s.Settled(),
			Entities: len(s.Entities()),
			Metrics:  s.Metrics(),
		}, rec)
		if err != nil {
			return fmt.Errorf("record: %w", err)
		}
		logger.Info("recorded run", "id", id, "samples", len(rec.Samples()))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(args[0]).List()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tYEAR\tENTITIES\tFRAMES\tSETTLED\tOVERLAP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%v\t%.4f\n",
			r.ID, humanize.Time(r.Timestamp), r.Year, r.Entities, r.Frames, r.Settled, r.Metrics["overlap"])
	}
	return w.Flush()
}

func printLayout(s *session.Session) error {
	entities := append([]*bubble.Entity(nil), s.Entities()...)
	sort.SliceStable(entities, func(i, j int) bool { return entities[i].Radius > entities[j].Radius })
	shown := entities
	if top > 0 && len(shown) > top {
		shown = shown[:top]
	}

	fmt.Printf("year: %d\n\n", s.Year())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tVALUE\tRADIUS\tX\tY")
	for _, e := range shown {
		v, _ := e.Series.At(s.YearRange(), s.Year())
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.1f\t%.1f\n", e.ID, e.Name, humanize.Comma(int64(v)), e.Radius, e.X, e.Y)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	radii := make([]float64, len(entities))
	for i, e := range entities {
		radii[i] = e.Radius
	}
	median, _ := stats.Median(radii)
	p90, _ := stats.Percentile(radii, 90)
	maxR, _ := stats.Max(radii)

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "entities\t%d\n", len(entities))
	fmt.Fprintf(w, "radius median\t%.2f\n", median)
	fmt.Fprintf(w, "radius p90\t%.2f\n", p90)
	fmt.Fprintf(w, "radius max\t%.2f\n", maxR)
	m := s.Metrics()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.4f\n", name, m[name])
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	yr, err := cfg.YearRange()
	if err != nil {
		return err
	}
	rows, err := store.LoadCSV(args[0], yr)
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}

	e := session.NewEnsemble(cfg, rows, runs, cfg.Seed, session.Options{Logger: logger})
	e.Metrics = metrics.Defaults
	e.Parallel = parallel

	prog := newProgress(logger)
	results, err := e.Run(ctx, step, maxFrames)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("settled %d runs", len(results)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tSETTLED\tOVERLAP\tKINETIC\tSETTLE")
	frames := make([]float64, len(results))
	for i, r := range results {
		frames[i] = float64(r.Frames)
		fmt.Fprintf(w, "%d\t%d\t%v\t%.4f\t%.4f\t%.2fs\n",
			r.Seed, r.Frames, r.Settled, r.Metrics["overlap"], r.Metrics["kinetic"], r.Metrics["settle_time"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	mean, _ := stats.Mean(frames)
	sd, _ := stats.StandardDeviation(frames)
	fmt.Printf("\nframes: mean %.1f, stddev %.1f\n", mean, sd)
	return nil
}

func plotSeries(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	yr, err := cfg.YearRange()
	if err != nil {
		return err
	}
	rows, err := store.LoadCSV(args[0], yr)
	if err != nil {
		return err
	}

	for _, e := range store.Build(rows, yr, store.Options{}) {
		if e.ID != args[1] {
			continue
		}
		fmt.Printf("%s (%s), %d-%d\n", e.Name, e.ID, yr.Start, yr.End)
		fmt.Printf("first: %s  last: %s\n\n", humanize.Comma(int64(e.Series.First())), humanize.Comma(int64(e.Series.Last())))
		if len(e.Series) < 2 {
			return nil
		}
		graph := asciigraph.Plot(e.Series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("value vs year"),
		)
		fmt.Println(graph)
		return nil
	}
	return fmt.Errorf("%s: %w", args[1], bubble.ErrUnknownEntity)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tSTRENGTH\tPADDING\tCONSTRAINED")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%gx%g\t%g\t%g\t%v\n", name, cfg.Width, cfg.Height, cfg.Strength, cfg.Padding, cfg.Constrained)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return config.Encode(os.Stdout, cfg, format)
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	loggerFromContext(cmd.Context()).Info("wrote config", "path", args[0])
	return nil
}
