package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/forcebubble/internal/session"
)

type LayoutData struct {
	Year     int                `json:"year"`
	Frames   int                `json:"frames"`
	TimeMs   int64              `json:"time_ms"`
	Alpha    float64            `json:"alpha"`
	Settled  bool               `json:"settled"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
	Entities []EntityData       `json:"entities"`
}

type EntityData struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Target   float64 `json:"target"`
	Resource string  `json:"resource,omitempty"`
}

// Layout captures the positions and radii of every entity in s.
func Layout(s *session.Session) LayoutData {
	f := s.Snapshot()
	data := LayoutData{
		Year:     f.Year,
		Frames:   f.Index,
		TimeMs:   f.Time.Milliseconds(),
		Alpha:    f.Alpha,
		Settled:  f.Settled,
		Metrics:  s.Metrics(),
		Entities: make([]EntityData, len(f.Entities)),
	}
	for i, e := range f.Entities {
		key, _ := s.ResourceKey(e.ID)
		data.Entities[i] = EntityData{
			ID:       e.ID,
			Name:     e.Name,
			X:        e.X,
			Y:        e.Y,
			Radius:   e.Radius,
			Target:   e.Target,
			Resource: key,
		}
	}
	return data
}

func EncodeJSON(w io.Writer, data LayoutData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func WriteJSON(path string, data LayoutData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return EncodeJSON(file, data)
}
