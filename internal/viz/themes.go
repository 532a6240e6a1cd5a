package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme of the live view.
type Theme struct {
	Name     string
	Primary  lipgloss.Color
	Accent   lipgloss.Color
	Bubble   lipgloss.Color
	Selected lipgloss.Color
	Pinned   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
}

// Canvas inks.
const (
	inkNone = iota
	inkBubble
	inkSelected
	inkPinned
	inkLabel
)

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Primary:  lipgloss.Color("#ff00ff"),
		Accent:   lipgloss.Color("#00ffff"),
		Bubble:   lipgloss.Color("#00ccff"),
		Selected: lipgloss.Color("#ffff00"),
		Pinned:   lipgloss.Color("#ff4444"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Primary:  lipgloss.Color("#ffffff"),
		Accent:   lipgloss.Color("#0088ff"),
		Bubble:   lipgloss.Color("#cccccc"),
		Selected: lipgloss.Color("#0088ff"),
		Pinned:   lipgloss.Color("#ffaa00"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
	}

	// Category is the blue/orange pair that leads the category20 palette.
	ThemeCategory = Theme{
		Name:     "category",
		Primary:  lipgloss.Color("#1f77b4"),
		Accent:   lipgloss.Color("#ff7f0e"),
		Bubble:   lipgloss.Color("#aec7e8"),
		Selected: lipgloss.Color("#ff7f0e"),
		Pinned:   lipgloss.Color("#d62728"),
		Text:     lipgloss.Color("#f0f0f0"),
		Muted:    lipgloss.Color("#7f7f7f"),
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeMinimal,
		ThemeCategory,
	}
)

// GetTheme returns a theme by name, or the default theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}

// palette returns the canvas styles of t, indexed by ink.
func (t Theme) palette() []lipgloss.Style {
	return []lipgloss.Style{
		inkNone:     lipgloss.NewStyle(),
		inkBubble:   lipgloss.NewStyle().Foreground(t.Bubble),
		inkSelected: lipgloss.NewStyle().Foreground(t.Selected).Bold(true),
		inkPinned:   lipgloss.NewStyle().Foreground(t.Pinned).Bold(true),
		inkLabel:    lipgloss.NewStyle().Foreground(t.Text),
	}
}
