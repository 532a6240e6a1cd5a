package optim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/forcebubble/internal/config"
	"github.com/san-kum/forcebubble/internal/store"
)

func testRows() []store.Row {
	return []store.Row{
		{Code: "USA", Cells: map[int]string{2000: "400"}},
		{Code: "CAN", Cells: map[int]string{2000: "100"}},
		{Code: "MEX", Cells: map[int]string{2000: "225"}},
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.SetYearRange(2000, 2000)
	cfg.Scale = 1
	return cfg
}

func TestNewGridSearch_Validation(t *testing.T) {
	if _, err := NewGridSearch([]string{"strength"}, nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}
	if _, err := NewGridSearch([]string{"gravity"}, [][]float64{{1}}); err == nil {
		t.Error("expected error for unknown param")
	}
}

func TestSearch(t *testing.T) {
	g, err := NewGridSearch([]string{"strength", "padding"}, [][]float64{{0.1, 0.2}, {1, 2}})
	if err != nil {
		t.Fatalf("NewGridSearch: %v", err)
	}
	best, trials, err := g.Search(context.Background(), testConfig(), testRows(), "overlap")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(trials) != 4 {
		t.Fatalf("got %d trials, want 4", len(trials))
	}
	for _, tr := range trials {
		if tr.Value < best.Value {
			t.Errorf("trial %v beats best %v", tr, best)
		}
		if len(tr.Params) != 2 {
			t.Errorf("trial params = %v", tr.Params)
		}
	}
	if best.Params == nil || math.IsInf(best.Value, 1) {
		t.Errorf("best = %+v", best)
	}
}

func TestSearch_UnknownMetric(t *testing.T) {
	g, _ := NewGridSearch([]string{"strength"}, [][]float64{{0.2}})
	if _, _, err := g.Search(context.Background(), testConfig(), testRows(), "nope"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestSearch_Cancelled(t *testing.T) {
	g, _ := NewGridSearch([]string{"strength"}, [][]float64{{0.1, 0.2}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, testConfig(), testRows(), "overlap"); err == nil {
		t.Error("expected context error")
	}
}
