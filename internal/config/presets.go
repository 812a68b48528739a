package config

import "sort"

// Preset is a named Gray-Scott regime.
type Preset struct {
	DA, DB, Feed, Kill float64
	Description        string
}

var Presets = map[string]Preset{
	"default":  {DA: 1.0, DB: 0.5, Feed: 0.055, Kill: 0.062, Description: "coral-like branching growth"},
	"coral":    {DA: 1.0, DB: 0.5, Feed: 0.0545, Kill: 0.062, Description: "dense coral fronts"},
	"mitosis":  {DA: 1.0, DB: 0.5, Feed: 0.0367, Kill: 0.0649, Description: "spots that divide"},
	"solitons": {DA: 1.0, DB: 0.5, Feed: 0.03, Kill: 0.062, Description: "stable isolated spots"},
	"worms":    {DA: 1.0, DB: 0.5, Feed: 0.078, Kill: 0.061, Description: "long wandering stripes"},
	"maze":     {DA: 1.0, DB: 0.5, Feed: 0.029, Kill: 0.057, Description: "labyrinth stripes"},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
