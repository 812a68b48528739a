package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the sidebar chrome; the field itself keeps the session
// palette.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
}

var (
	ThemePastel = Theme{
		Name:      "pastel",
		Primary:   lipgloss.Color("#ff9fd2"),
		Secondary: lipgloss.Color("#a8d8ff"),
		Accent:    lipgloss.Color("#fff3a0"),
		Text:      lipgloss.Color("#f5f5f5"),
		Muted:     lipgloss.Color("#8a8a9a"),
		Success:   lipgloss.Color("#a8f0c6"),
		Warning:   lipgloss.Color("#ffc9a0"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#999999"),
		Text:      lipgloss.Color("#eeeeee"),
		Muted:     lipgloss.Color("#666666"),
		Success:   lipgloss.Color("#dddddd"),
		Warning:   lipgloss.Color("#aaaaaa"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffcc00"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Success:   lipgloss.Color("#5fd068"),
		Warning:   lipgloss.Color("#ffc048"),
	}

	Themes = []Theme{ThemePastel, ThemeMono, ThemeOcean, ThemeSunset}
)

// GetTheme returns the named theme, or pastel.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemePastel
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, x := range Themes {
		if x.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
