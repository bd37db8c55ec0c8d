package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Nightfox", "Kanagawa", "Lagoa"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"Nightfox", "Kanagawa"},
		{"Kanagawa", "Lagoa"},
		{"Lagoa", "Nightfox"},
		{"Unknown", "Nightfox"},
	}
	for _, tt := range tests {
		if got := NextTheme(tt.current); got != tt.want {
			t.Fatalf("NextTheme(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q, want %q", name, got, name)
		}
	}
	if got := GetTheme("Unknown").Name; got != DefaultThemeName {
		t.Fatalf("GetTheme(Unknown).Name = %q, want %q", got, DefaultThemeName)
	}
}

func TestThemesCoverBadgeKeys(t *testing.T) {
	keys := []string{"online", "offline", "waiting", "active", "inactive", "refill1", "refill2", "ambos", "manual", "agendado"}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, k := range keys {
			if th.StatusColors[k] == "" {
				t.Fatalf("theme %s has no color for %q", name, k)
			}
		}
	}
}

func TestStatusStyleFallsBackToMuted(t *testing.T) {
	th := GetTheme(DefaultThemeName)
	styles := th.Styles()
	got := styles.StatusStyle("unknown").GetBackground()
	want := styles.StatusStyle("").GetBackground()
	if got != want {
		t.Fatalf("StatusStyle(unknown) background = %v, want %v", got, want)
	}
	if styles.WithBackground(th.Surface).muted != th.Muted {
		t.Fatalf("WithBackground dropped the muted color")
	}
}
