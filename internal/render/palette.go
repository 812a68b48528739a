package render

import (
	"fmt"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

type RGB struct {
	R, G, B uint8
}

// Pastels is the fixed session palette. One entry is chosen per session.
var Pastels = [12]RGB{
	{255, 182, 193}, // light pink
	{230, 230, 250}, // lavender
	{176, 224, 230}, // powder blue
	{255, 218, 185}, // peach
	{152, 251, 152}, // pale green
	{255, 253, 208}, // lemon chiffon
	{221, 160, 221}, // plum
	{255, 192, 203}, // pink
	{177, 156, 217}, // light purple
	{174, 198, 207}, // light blue gray
	{255, 229, 180}, // light apricot
	{198, 255, 221}, // mint
}

// PickPastel returns a uniformly random palette entry and its index.
func PickPastel(rng *rand.Rand) (RGB, int) {
	i := rng.Intn(len(Pastels))
	return Pastels[i], i
}

func (c RGB) Hex() string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// ParseHex accepts "#rrggbb" or "#rgb".
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("render: invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{r, g, b}, nil
}
