package config

import "sort"

// Preset adjusts a default configuration.
type Preset func(*Config)

var Presets = map[string]Preset{
	"world": func(c *Config) {},
	"mobile": func(c *Config) {
		c.Constrained = true
		c.Width, c.Height = 375, 600
	},
	"loose": func(c *Config) {
		c.Strength = 0.05
		c.Padding = 3
	},
	"tight": func(c *Config) {
		c.Strength = 0.4
		c.Padding = MinPadding
	},
}

// GetPreset returns the default configuration with the named preset
// applied, or nil if there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
