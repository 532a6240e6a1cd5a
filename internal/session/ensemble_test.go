package session

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/forcebubble/internal/bubble"
	"github.com/san-kum/forcebubble/internal/config"
	"github.com/san-kum/forcebubble/internal/metrics"
	"github.com/san-kum/forcebubble/internal/store"
)

func TestEnsembleRun(t *testing.T) {
	rows := []store.Row{
		row("USA", 2000, 400, 900),
		row("CAN", 2000, 100, 100),
		row("MEX", 2000, 225, 300),
	}
	e := NewEnsemble(testConfig(2000, 2001), rows, 4, 10, Options{})
	e.Metrics = metrics.Defaults
	e.Parallel = 2

	results, err := e.Run(context.Background(), frameStep, 5000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}
	for i, r := range results {
		if r.Seed != int64(10+i) {
			t.Errorf("result %d seed = %d", i, r.Seed)
		}
		if !r.Settled || r.Frames == 0 {
			t.Errorf("seed %d: settled=%v frames=%d", r.Seed, r.Settled, r.Frames)
		}
		if _, ok := r.Metrics["overlap"]; !ok {
			t.Errorf("seed %d: metrics = %v", r.Seed, r.Metrics)
		}
	}
}

func TestEnsembleRun_Error(t *testing.T) {
	e := NewEnsemble(config.DefaultConfig(), []store.Row{row("USA", 2000, 1)}, 3, 1, Options{})
	if _, err := e.Run(context.Background(), frameStep, 10); !errors.Is(err, bubble.ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}
