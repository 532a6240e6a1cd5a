package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/forcebubble/internal/optim"
	"github.com/san-kum/forcebubble/internal/store"
)

// parseGrid turns "name=v1,v2" flags into parallel name and value slices.
func parseGrid(flags []string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, f := range flags {
		name, list, ok := strings.Cut(f, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("param %q: want name=v1,v2,...", f)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("param %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
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

	names, ranges, err := parseGrid(tuneParams)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	g.Step = step
	g.MaxFrames = maxFrames

	prog := newProgress(logger)
	best, trials, err := g.Search(ctx, cfg, rows, tuneMetric)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("ran %d trials", len(trials)))

	sort.SliceStable(trials, func(i, j int) bool { return trials[i].Value < trials[j].Value })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tFRAMES\tSETTLED\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(tuneMetric))
	for _, t := range trials {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", t.Params[n])
		}
		fmt.Fprintf(w, "%.4f\t%d\t%v\n", t.Value, t.Frames, t.Settled)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%g", n, best.Params[n])
	}
	fmt.Printf("\nbest: %s (%s %.4f)\n", strings.Join(parts, " "), tuneMetric, best.Value)
	return nil
}
