// Package optim searches layout parameters for the best value of a frame
// metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/san-kum/forcebubble/internal/config"
	"github.com/san-kum/forcebubble/internal/metrics"
	"github.com/san-kum/forcebubble/internal/session"
	"github.com/san-kum/forcebubble/internal/store"
)

// Setters are the configuration fields a search can vary.
var Setters = map[string]func(*config.Config, float64){
	"strength":     func(c *config.Config, v float64) { c.Strength = v },
	"padding":      func(c *config.Config, v float64) { c.Padding = v },
	"pack_padding": func(c *config.Config, v float64) { c.PackPadding = v },
	"magnify":      func(c *config.Config, v float64) { c.Magnify = v },
	"iterations":   func(c *config.Config, v float64) { c.Iterations = int(v) },
}

func SetterNames() []string {
	names := make([]string, 0, len(Setters))
	for name := range Setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Trial struct {
	Params  map[string]float64
	Value   float64
	Frames  int
	Settled bool
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	Step      time.Duration
	MaxFrames int
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d params but %d ranges", len(params), len(ranges))
	}
	for _, p := range params {
		if _, ok := Setters[p]; !ok {
			return nil, fmt.Errorf("unknown param %q (available: %v)", p, SetterNames())
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, Step: time.Second / 60, MaxFrames: 5000}, nil
}

// Search settles one session per grid point and returns the trial with the
// lowest metricName together with every trial run. A metric that is NaN,
// such as the settle time of a run that never settled, ranks last.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, rows []store.Row, metricName string) (Trial, []Trial, error) {
	var trials []Trial
	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		cfg := *base
		for name, v := range params {
			Setters[name](&cfg, v)
		}
		s, err := session.New(&cfg, rows, session.Options{})
		if err != nil {
			return err
		}
		for _, m := range metrics.Defaults() {
			s.AddMetric(m)
		}
		frames, err := s.Run(ctx, g.Step, g.MaxFrames)
		if err != nil {
			return err
		}

		val, ok := s.Metrics()[metricName]
		if !ok {
			return fmt.Errorf("unknown metric %q", metricName)
		}
		if math.IsNaN(val) {
			val = math.Inf(1)
		}
		trials = append(trials, Trial{Params: params, Value: val, Frames: frames, Settled: s.Settled()})
		return nil
	})
	if err != nil {
		return Trial{}, nil, err
	}

	best := Trial{Value: math.Inf(1)}
	for _, t := range trials {
		if t.Value < best.Value || best.Params == nil {
			best = t
		}
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, run func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return run(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, run); err != nil {
			return err
		}
	}
	return nil
}
