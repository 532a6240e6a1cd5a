package export

import (
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/forcebubble/internal/session"
)

// Palette is the 20-color category scheme bubbles are filled from.
var Palette = [20]string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

const (
	// FlagScale is the flag image half-size relative to the bubble radius.
	FlagScale  = 0.7
	background = "#eeeeee"
)

// Legend circle radii and position.
var (
	legendRadii  = [2]float64{5, 10}
	legendX      = 150.0
	legendY      = 25.0
	legendMargin = 10.0
)

// Bubble is one entity as drawn.
type Bubble struct {
	ID, Name string
	X, Y, R  float64
	// Flag is the side of the flag image box.
	Flag  float64
	Href  string
	Color string
}

// Scene is a renderer-independent snapshot of a session.
type Scene struct {
	Width, Height float64
	Year          int
	Low, High     string
	Bubbles       []Bubble
}

// FromSession captures the current frame of s.
func FromSession(s *session.Session) Scene {
	cfg := s.Config()
	low, high := s.Legend()
	sc := Scene{
		Width:  cfg.Width,
		Height: cfg.Height,
		Year:   s.Year(),
		Low:    low,
		High:   high,
	}
	for i, e := range s.Entities() {
		sc.Bubbles = append(sc.Bubbles, Bubble{
			ID:    e.ID,
			Name:  e.Name,
			X:     e.X,
			Y:     e.Y,
			R:     e.Radius,
			Flag:  2 * FlagScale * e.Target,
			Href:  s.ResourcePath(e.ID),
			Color: Palette[i%len(Palette)],
		})
	}
	return sc
}

// stroke darkens a fill color for the circle outline.
func stroke(fill string) string {
	c, err := colorful.Hex(fill)
	if err != nil {
		return "#333333"
	}
	return c.BlendLab(colorful.Color{}, 0.3).Clamped().Hex()
}

// SVG renders the scene: one clipped circle and flag per bubble, the size
// legend and the year label.
func SVG(sc Scene) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, sc.Width, sc.Height, sc.Width, sc.Height, background))

	for _, b := range sc.Bubbles {
		id := html.EscapeString(b.ID)
		sb.WriteString(fmt.Sprintf(`<g class="node" transform="translate(%.2f,%.2f)">
<title>%s</title>
<clipPath id="clip-%s"><circle r="%.2f"/></clipPath>
<circle id="%s" r="%.2f" fill="%s" stroke="%s"/>
`, b.X, b.Y, html.EscapeString(b.Name), id, b.R, id, b.R, b.Color, stroke(b.Color)))
		if b.Href != "" {
			half := b.Flag / 2
			sb.WriteString(fmt.Sprintf(`<image class="node-icon" clip-path="url(#clip-%s)" xlink:href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>
`, id, html.EscapeString(b.Href), -half, -half, b.Flag, b.Flag))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString(fmt.Sprintf(`<g class="legend-size" text-anchor="start" transform="translate(%.0f, %.0f)" font-size="12px">
`, legendX, legendY))
	y := 0.0
	for i, label := range [2]string{sc.Low, sc.High} {
		r := legendRadii[i]
		y += r
		sb.WriteString(fmt.Sprintf(`<circle cx="%.0f" cy="%.0f" r="%.0f" fill="none" stroke="#333333"/><text x="%.0f" y="%.0f" dominant-baseline="middle">%s</text>
`, legendRadii[1], y, r, 2*legendRadii[1]+legendMargin, y, html.EscapeString(label)))
		y += r + legendMargin
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf(`<text class="year" x="%.0f" y="%.0f" font-size="32px" font-weight="bold">%d</text>
`, legendMargin, sc.Height-legendMargin, sc.Year))
	sb.WriteString("</svg>")
	return sb.String()
}

func WriteSVG(path string, sc Scene) error {
	return os.WriteFile(path, []byte(SVG(sc)), 0o644)
}
