package render

import (
	"fmt"
	"sort"

	"github.com/mazznoer/colorgrad"
)

var colormaps = map[string]func() colorgrad.Gradient{
	"viridis": colorgrad.Viridis,
	"plasma":  colorgrad.Plasma,
	"magma":   colorgrad.Magma,
	"inferno": colorgrad.Inferno,
	"warm":    colorgrad.Warm,
	"cool":    colorgrad.Cool,
}

// ColormapNames lists the named colormaps accepted by WithColormap.
func ColormapNames() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lut samples a gradient into 256 entries so per-cell shading is a lookup.
func lut(name string) (*[256]RGB, error) {
	mk, ok := colormaps[name]
	if !ok {
		return nil, fmt.Errorf("render: unknown colormap %q (available: %v)", name, ColormapNames())
	}
	grad := mk()
	var table [256]RGB
	for i := range table {
		r, g, b, _ := grad.At(float64(i) / 255).RGBA()
		table[i] = RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
	}
	return &table, nil
}
