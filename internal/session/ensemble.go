package session

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/forcebubble/internal/bubble"
	"github.com/san-kum/forcebubble/internal/config"
	"github.com/san-kum/forcebubble/internal/store"
)

// Ensemble runs independent sessions over the same rows, one per seed.
type Ensemble struct {
	cfg       config.Config
	rows      []store.Row
	opts      Options
	numRuns   int
	seedStart int64

	// Metrics returns fresh metrics for each run.
	Metrics func() []bubble.Metric
	// Parallel bounds concurrent runs; zero or less means no bound.
	Parallel int
}

type Result struct {
	Seed    int64
	Frames  int
	Settled bool
	Metrics map[string]float64
}

func NewEnsemble(cfg *config.Config, rows []store.Row, numRuns int, seedStart int64, opts Options) *Ensemble {
	return &Ensemble{cfg: *cfg, rows: rows, opts: opts, numRuns: numRuns, seedStart: seedStart}
}

// Run settles every session and returns results in seed order. The first
// error cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, step time.Duration, maxFrames int) ([]Result, error) {
	results := make([]Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.Parallel > 0 {
		g.SetLimit(e.Parallel)
	}
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfg := e.cfg
			cfg.Seed = e.seedStart + int64(i)

			s, err := New(&cfg, e.rows, e.opts)
			if err != nil {
				return fmt.Errorf("seed %d: %w", cfg.Seed, err)
			}
			if e.Metrics != nil {
				for _, m := range e.Metrics() {
					s.AddMetric(m)
				}
			}

			frames, err := s.Run(ctx, step, maxFrames)
			if err != nil {
				return fmt.Errorf("seed %d: %w", cfg.Seed, err)
			}
			results[i] = Result{Seed: cfg.Seed, Frames: frames, Settled: s.Settled(), Metrics: s.Metrics()}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
