// Package storage archives settled layouts: one directory per run holding
// metadata.json and a frames.csv track of every recorded entity position.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/forcebubble/internal/bubble"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Source    string             `json:"source"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Year      int                `json:"year"`
	Frames    int                `json:"frames"`
	Settled   bool               `json:"settled"`
	Entities  int                `json:"entities"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Sample is one entity's state at one recorded frame.
type Sample struct {
	Frame  int
	TimeMs float64
	ID     string
	X      float64
	Y      float64
	Radius float64
}

// Recorder is a frame observer that keeps every Every-th frame.
type Recorder struct {
	Every   int
	samples []Sample
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every}
}

func (r *Recorder) OnFrame(f bubble.Frame) {
	if f.Index%r.Every != 0 && !f.Settled {
		return
	}
	ms := float64(f.Time) / float64(time.Millisecond)
	for _, e := range f.Entities {
		r.samples = append(r.samples, Sample{Frame: f.Index, TimeMs: ms, ID: e.ID, X: e.X, Y: e.Y, Radius: e.Radius})
	}
}

func (r *Recorder) Samples() []Sample { return r.samples }

var header = []string{"frame", "time_ms", "id", "x", "y", "radius"}

// Save writes meta and the recorded track under a new run directory and
// returns the run ID. A nil recorder writes a header-only track.
func (s *Store) Save(meta RunMetadata, rec *Recorder) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	name := filepath.Base(meta.Source)
	if name == "." || name == "" {
		name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(header); err != nil {
		return "", err
	}
	if rec != nil {
		for _, sm := range rec.samples {
			row := []string{
				strconv.Itoa(sm.Frame),
				strconv.FormatFloat(sm.TimeMs, 'f', 3, 64),
				sm.ID,
				strconv.FormatFloat(sm.X, 'f', 6, 64),
				strconv.FormatFloat(sm.Y, 'f', 6, 64),
				strconv.FormatFloat(sm.Radius, 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrack reads a run's recorded samples. Malformed rows are skipped.
func (s *Store) LoadTrack(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, len(records))
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if len(rec) != len(header) {
			continue
		}
		frame, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		var vals [4]float64
		ok := true
		for j, k := range []int{1, 3, 4, 5} {
			if vals[j], err = strconv.ParseFloat(rec[k], 64); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		samples = append(samples, Sample{Frame: frame, TimeMs: vals[0], ID: rec[2], X: vals[1], Y: vals[2], Radius: vals[3]})
	}
	return samples, nil
}
