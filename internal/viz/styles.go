package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	GlassPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(1, 2)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusSettled = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#888899"))

	StatusDragging = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	YearStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(12)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// GradientText colors text with a gradient blended in Lab space.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	from, err := colorful.Hex(string(start))
	if err != nil {
		return text
	}
	to, err := colorful.Hex(string(end))
	if err != nil {
		return text
	}

	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := lipgloss.Color(from.BlendLab(to, t).Clamped().Hex())
		b.WriteString(lipgloss.NewStyle().Foreground(c).Bold(true).Render(string(r)))
	}
	return b.String()
}

func AnimatedSpinner(frame int) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%len(spinners)]
}

// Slider renders a track of width cells with a knob at pos in [0, 1].
func Slider(pos float64, width int) string {
	if width < 1 {
		return ""
	}
	at := int(pos*float64(width-1) + 0.5)
	if at < 0 {
		at = 0
	}
	if at > width-1 {
		at = width - 1
	}
	return Subtle.Render(strings.Repeat("─", at)) +
		MetricValue.Render("●") +
		Subtle.Render(strings.Repeat("─", width-at-1))
}

// SparklineChart renders the last width values as a sparkline scaled to
// [0, max].
func SparklineChart(values []float64, max float64, width int) string {
	if len(values) == 0 || max <= 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	var b strings.Builder
	for _, v := range values {
		norm := v / max
		idx := int(norm * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}
		c := string(chars[idx])
		switch {
		case norm > 0.7:
			b.WriteString(SparkLow.Render(c))
		case norm > 0.3:
			b.WriteString(SparkMid.Render(c))
		default:
			b.WriteString(SparkHigh.Render(c))
		}
	}
	return b.String()
}
