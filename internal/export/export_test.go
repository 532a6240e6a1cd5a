package export

import (
	"bytes"
	"encoding/json"
	"image/png"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/forcebubble/internal/config"
	"github.com/san-kum/forcebubble/internal/session"
	"github.com/san-kum/forcebubble/internal/store"
)

func testScene() Scene {
	return Scene{
		Width:  200,
		Height: 100,
		Year:   1990,
		Low:    "fewer",
		High:   "more",
		Bubbles: []Bubble{
			{ID: "USA", Name: "United States", X: 50, Y: 50, R: 30, Flag: 42, Href: "img/us.svg", Color: Palette[0]},
			{ID: "XXX", Name: "A & B", X: 150, Y: 50, R: 10, Flag: 14, Color: Palette[1]},
		},
	}
}

func TestSVG(t *testing.T) {
	svg := SVG(testScene())

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`transform="translate(50.00,50.00)"`,
		`<circle id="USA" r="30.00" fill="#1f77b4"`,
		`xlink:href="img/us.svg" x="-21.00" y="-21.00" width="42.00" height="42.00"`,
		`clip-path="url(#clip-USA)"`,
		`>fewer</text>`,
		`>more</text>`,
		`>1990</text>`,
		`A &amp; B`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if n := strings.Count(svg, "<image"); n != 1 {
		t.Errorf("got %d flag images, want 1", n)
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("svg not closed")
	}
}

func TestRaster(t *testing.T) {
	img := Raster(testScene(), 2)
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("bounds = %v, want 400x200", b)
	}
	// Inside USA but clear of its label.
	r, g, b, _ := img.At(100, 140).RGBA()
	if r>>8 != 0x1f || g>>8 != 0x77 || b>>8 != 0xb4 {
		t.Errorf("fill = #%02x%02x%02x, want #1f77b4", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(2, 2).RGBA()
	if r>>8 != 0xee || g>>8 != 0xee || b>>8 != 0xee {
		t.Errorf("background = #%02x%02x%02x, want #eeeeee", r>>8, g>>8, b>>8)
	}
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, testScene(), 1); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("bounds = %v", b)
	}
}

func TestFromSession(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SetYearRange(2000, 2001)
	cfg.Scale = 1
	rows := []store.Row{
		{Code: "USA", Name: "United States", Cells: map[int]string{2000: "400", 2001: "900"}},
		{Code: "ZZZ", Name: "Nowhere", Cells: map[int]string{2000: "100", 2001: "100"}},
	}
	s, err := session.New(cfg, rows, session.Options{})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	sc := FromSession(s)

	if sc.Width != 960 || sc.Height != 600 || sc.Year != 2000 {
		t.Errorf("scene = %vx%v year %d", sc.Width, sc.Height, sc.Year)
	}
	if len(sc.Bubbles) != 2 {
		t.Fatalf("got %d bubbles", len(sc.Bubbles))
	}
	usa := sc.Bubbles[0]
	if usa.Href != "img/us.svg" || usa.Flag != 28 || usa.Color != Palette[0] {
		t.Errorf("USA = %+v", usa)
	}
	if sc.Bubbles[1].Href != "" {
		t.Errorf("unmapped code has href %q", sc.Bubbles[1].Href)
	}

	path := filepath.Join(t.TempDir(), "frame.svg")
	if err := WriteSVG(path, sc); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	if err := WritePNG(filepath.Join(t.TempDir(), "frame.png"), sc, 1); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
}

func TestLayoutJSON(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SetYearRange(2000, 2000)
	rows := []store.Row{{Code: "USA", Name: "United States", Cells: map[int]string{2000: "400"}}}
	cfg.Scale = 1
	s, err := session.New(cfg, rows, session.Options{})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	s.Frame(16 * time.Millisecond)

	data := Layout(s)
	if data.Frames != 1 || data.TimeMs != 16 || len(data.Entities) != 1 {
		t.Fatalf("layout = %+v", data)
	}
	if e := data.Entities[0]; e.ID != "USA" || e.Resource != "US" || e.Target != 20 {
		t.Errorf("entity = %+v", e)
	}

	var buf bytes.Buffer
	if err := EncodeJSON(&buf, data); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	var back LayoutData
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Entities[0].ID != "USA" {
		t.Errorf("decoded %+v", back)
	}
}
