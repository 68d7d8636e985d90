package config

import "sort"

var Presets = map[string]*Config{
	"plain": {
		Origin: "top", Style: StylePlain,
	},
	"framed": {
		Origin: "top", Style: StyleFramed,
	},
	// Cartesian layout: y grows upward, so the largest y prints first.
	"original": {
		Origin: "bottom", Style: StylePlain,
	},
}

// GetPreset returns a full configuration with the preset's fields applied
// over the defaults, or nil for an unknown name.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Origin = p.Origin
	cfg.Style = p.Style
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
