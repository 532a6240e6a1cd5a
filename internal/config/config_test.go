package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/forcebubble/internal/bubble"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Strength != 0.2 {
		t.Errorf("expected strength 0.2, got %f", cfg.Strength)
	}
	if cfg.Scale != 0.005 {
		t.Errorf("expected scale 0.005, got %f", cfg.Scale)
	}
	if cfg.Legend.Low != "less" || cfg.Legend.High != "more" {
		t.Errorf("legend = %+v", cfg.Legend)
	}
	if cfg.Duration() != 2*time.Second {
		t.Errorf("duration = %v", cfg.Duration())
	}
}

func TestYearRange_NotConfigured(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := cfg.YearRange(); !errors.Is(err, bubble.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
	if err := cfg.Validate(); !errors.Is(err, bubble.ErrNotConfigured) {
		t.Errorf("Validate() = %v", err)
	}

	cfg.SetYearRange(2010, 2000)
	if _, err := cfg.YearRange(); !errors.Is(err, bubble.ErrInvalidRange) {
		t.Errorf("err = %v, want ErrInvalidRange", err)
	}

	cfg.SetYearRange(1960, 2016)
	yr, err := cfg.YearRange()
	if err != nil || yr.Start != 1960 || yr.End != 2016 {
		t.Errorf("YearRange() = %+v, %v", yr, err)
	}
}

func TestSetLegendTags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetLegendTags("fewer people", "")
	if cfg.Legend.Low != "fewer people" || cfg.Legend.High != "more" {
		t.Errorf("legend = %+v", cfg.Legend)
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"vis.yaml", "vis.toml"} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.SetYearRange(1960, 2016)
			cfg.Strength = 0.1
			cfg.Resources = map[string]string{"ZZZ": "ZZ"}

			path := filepath.Join(dir, name)
			if err := Save(path, cfg); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if *got.StartYear != 1960 || *got.EndYear != 2016 || got.Strength != 0.1 {
				t.Errorf("round trip lost values: %+v", got)
			}
			if got.Resources["ZZZ"] != "ZZ" {
				t.Errorf("resources = %v", got.Resources)
			}
		})
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("start_year: 2000\nend_year: 2002\nlegend:\n  low: small\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != DefaultWidth || cfg.Scale != DefaultScale {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Legend.Low != "small" || cfg.Legend.High != DefaultHighTag {
		t.Errorf("legend = %+v", cfg.Legend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadInto_OverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.toml")
	if err := os.WriteFile(path, []byte("strength = 0.3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := GetPreset("mobile")
	if err := LoadInto(path, cfg); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	if cfg.Strength != 0.3 {
		t.Errorf("strength = %v, want 0.3 from file", cfg.Strength)
	}
	if !cfg.Constrained || cfg.Width != 375 {
		t.Errorf("preset lost: constrained %v width %v", cfg.Constrained, cfg.Width)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("mobile")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if !cfg.Constrained {
		t.Error("mobile preset should be constrained")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if len(ListPresets()) != len(Presets) {
		t.Error("ListPresets should list every preset")
	}
}

func TestEncode(t *testing.T) {
	cfg := DefaultConfig()
	var buf bytes.Buffer
	if err := Encode(&buf, cfg, "yaml"); err != nil {
		t.Fatalf("Encode yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "collide_iterations: 4") {
		t.Errorf("yaml output:\n%s", buf.String())
	}

	buf.Reset()
	if err := Encode(&buf, cfg, "toml"); err != nil {
		t.Fatalf("Encode toml: %v", err)
	}
	if !strings.Contains(buf.String(), "collide_iterations = 4") {
		t.Errorf("toml output:\n%s", buf.String())
	}

	if err := Encode(&buf, cfg, "ini"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestValidate_Padding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetYearRange(2000, 2001)
	cfg.Padding = 0.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for padding below MinPadding")
	}
	for _, name := range ListPresets() {
		p := GetPreset(name)
		p.SetYearRange(2000, 2001)
		if err := p.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestValidate_Iterations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetYearRange(2000, 2001)
	cfg.Iterations = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero collide iterations")
	}
}
