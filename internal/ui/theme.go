package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	Background string // Outermost background
	Surface    string // Header, command bar and toasts
	SurfaceAlt string // Screen bodies
	FocusBg    string // Focused boxes and tabs

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Badge colors keyed by refill selector, schedule state and connection state
	StatusColors map[string]string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	statusColors map[string]string
	background   string
	muted        string
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header:   fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:     fg(t.Info).Bold(true),
		Selected: fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),

		statusColors: t.StatusColors,
		background:   t.Background,
		muted:        t.Muted,
	}
}

// StatusStyle returns a badge style for the given key. Unknown keys use the muted color.
func (s Styles) StatusStyle(key string) lipgloss.Style {
	color, ok := s.statusColors[key]
	if !ok || color == "" {
		color = s.muted
	}
	return fg(s.background).Background(lipgloss.Color(color)).Padding(0, 1)
}

// WithBackground returns a copy of Styles whose text styles paint bgColor
// behind their glyphs instead of inheriting the terminal background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Logo,
	} {
		*st = st.Background(bg)
	}
	return out
}

// DefaultThemeName is used when neither config nor prefs name a theme.
const DefaultThemeName = "Nightfox"

var themeOrder = []string{"Nightfox", "Kanagawa", "Lagoa"}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Lagoa":    lagoaTheme(),
}

// GetTheme returns a theme by name, falling back to the default theme.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[DefaultThemeName]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns the theme names in cycle order.
func ThemeNames() []string {
	return themeOrder
}

// badges builds the badge map; scheduled feedings share the left refill hue.
func badges(good, bad, wait, idle, left, right, both, manual string) map[string]string {
	return map[string]string{
		"online":   good,
		"offline":  bad,
		"waiting":  wait,
		"active":   good,
		"inactive": idle,
		"refill1":  left,
		"refill2":  right,
		"ambos":    both,
		"manual":   manual,
		"agendado": left,
	}
}

// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
func nightfoxTheme() Theme {
	return Theme{
		Name:          "Nightfox",
		Background:    "#131a24",
		Surface:       "#192330",
		SurfaceAlt:    "#212e3f",
		FocusBg:       "#29394f",
		SelectionBg:   "#2b3b51",
		SelectionText: "#cdcecf",
		Border:        "#39506d",
		BorderFocus:   "#719cd6",
		Text:          "#cdcecf",
		Muted:         "#738091",
		Faint:         "#71839b",
		Accent:        "#719cd6",
		Success:       "#81b29a",
		Warning:       "#dbc074",
		Danger:        "#c94f6d",
		Info:          "#63cdcf",
		StatusColors:  badges("#81b29a", "#c94f6d", "#dbc074", "#738091", "#719cd6", "#9d79d6", "#63cdcf", "#f4a261"),
	}
}

// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
func kanagawaTheme() Theme {
	return Theme{
		Name:          "Kanagawa",
		Background:    "#16161D",
		Surface:       "#1F1F28",
		SurfaceAlt:    "#2A2A37",
		FocusBg:       "#363646",
		SelectionBg:   "#2D4F67",
		SelectionText: "#DCD7BA",
		Border:        "#54546D",
		BorderFocus:   "#7E9CD8",
		Text:          "#DCD7BA",
		Muted:         "#C8C093",
		Faint:         "#727169",
		Accent:        "#7E9CD8",
		Success:       "#98BB6C",
		Warning:       "#E6C384",
		Danger:        "#E46876",
		Info:          "#7FB4CA",
		StatusColors:  badges("#98BB6C", "#E46876", "#E6C384", "#727169", "#7E9CD8", "#957FB8", "#7FB4CA", "#FFA066"),
	}
}

// Lagoa is a deep pond green with koi orange accents.
func lagoaTheme() Theme {
	return Theme{
		Name:          "Lagoa",
		Background:    "#0b1614",
		Surface:       "#10211e",
		SurfaceAlt:    "#162c28",
		FocusBg:       "#1e3a35",
		SelectionBg:   "#e8702a",
		SelectionText: "#0b1614",
		Border:        "#2f524a",
		BorderFocus:   "#f08a4b",
		Text:          "#e4efe9",
		Muted:         "#8fb3a8",
		Faint:         "#5d7d74",
		Accent:        "#f08a4b",
		Success:       "#5cc98b",
		Warning:       "#f2c14e",
		Danger:        "#e5534b",
		Info:          "#4fc1c9",
		StatusColors:  badges("#5cc98b", "#e5534b", "#f2c14e", "#5d7d74", "#4fc1c9", "#f08a4b", "#7bd3b0", "#f2c14e"),
	}
}
