package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/forcebubble/internal/bubble"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder(10)
	e := &bubble.Entity{ID: "USA", X: 1, Y: 2, Radius: 3}
	for i := 1; i <= 25; i++ {
		r.OnFrame(bubble.Frame{Index: i, Time: time.Duration(i) * 16 * time.Millisecond, Entities: []*bubble.Entity{e}})
	}
	r.OnFrame(bubble.Frame{Index: 26, Settled: true, Entities: []*bubble.Entity{e}})

	got := r.Samples()
	if len(got) != 3 {
		t.Fatalf("got %d samples, want 3", len(got))
	}
	if got[0].Frame != 10 || got[0].TimeMs != 160 || got[2].Frame != 26 {
		t.Errorf("samples = %+v", got)
	}
}

func TestSaveLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "runs"))
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	rec := NewRecorder(1)
	rec.OnFrame(bubble.Frame{Index: 1, Entities: []*bubble.Entity{{ID: "USA", X: 10.5, Y: -2, Radius: 20}, {ID: "CAN", X: 0, Y: 0, Radius: 10}}})

	id, err := s.Save(RunMetadata{Source: "data/pop.csv", Year: 2002, Frames: 1, Metrics: map[string]float64{"overlap": -1}}, rec)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.ID != id || meta.Year != 2002 || meta.Metrics["overlap"] != -1 {
		t.Errorf("meta = %+v", meta)
	}

	track, err := s.LoadTrack(id)
	if err != nil {
		t.Fatalf("LoadTrack: %v", err)
	}
	if len(track) != 2 || track[0].ID != "USA" || track[0].X != 10.5 || track[1].Radius != 10 {
		t.Errorf("track = %+v", track)
	}

	runs, err := s.List()
	if err != nil || len(runs) != 1 {
		t.Fatalf("List = %v, %v", runs, err)
	}
}

func TestList_Missing(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "none")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("List = %v, %v", runs, err)
	}
}

func TestLoadTrack_SkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	run := filepath.Join(dir, "r1")
	if err := os.MkdirAll(run, 0755); err != nil {
		t.Fatal(err)
	}
	data := "frame,time_ms,id,x,y,radius\n1,0,USA,1,2,3\nx,0,CAN,1,2,3\n2,0,MEX,1,2\n"
	if err := os.WriteFile(filepath.Join(run, "frames.csv"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	track, err := s.LoadTrack("r1")
	if err != nil {
		t.Fatal(err)
	}
	if len(track) != 1 || track[0].ID != "USA" {
		t.Errorf("track = %+v", track)
	}
}
