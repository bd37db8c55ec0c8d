// Package prefs remembers UI choices between runs: the theme, the last
// screen and the refill last fed by hand. They live in
// ~/.config/koi/prefs.toml, apart from the device configuration store, and
// a missing or broken file only means defaults.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultPath  = "~/.config/koi/prefs.toml"
	defaultTheme = "Nightfox"
)

// Prefs holds the remembered UI choices. Empty Screen and Refill mean the
// UI picks its own defaults.
type Prefs struct {
	Theme  string `toml:"theme"`
	Screen string `toml:"screen,omitempty"`
	Refill string `toml:"refill,omitempty"`
}

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	p.Screen = strings.ToLower(strings.TrimSpace(p.Screen))
	p.Refill = strings.TrimSpace(p.Refill)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	return p
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPath
}

// Load reads the preferences at path ("" for the default location).
func Load(path string) Prefs {
	p, _ := read(path)
	return p
}

// Save replaces the preferences at path.
func Save(path string, p Prefs) error {
	resolved, err := resolve(path)
	if err != nil {
		return err
	}
	return write(resolved, p.normalized())
}

// Update applies edit to the stored preferences and writes the result, so
// callers change one choice without dropping the others.
func Update(path string, edit func(*Prefs)) error {
	p, _ := read(path)
	edit(&p)
	return Save(path, p)
}

// read returns defaults together with the reason when the file cannot be used.
func read(path string) (Prefs, error) {
	defaults := Prefs{}.normalized()
	resolved, err := resolve(path)
	if err != nil {
		return defaults, err
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return defaults, err
	}
	var p Prefs
	if err := toml.Unmarshal(raw, &p); err != nil {
		return defaults, fmt.Errorf("parse prefs: %w", err)
	}
	return p.normalized(), nil
}

func write(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	raw, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultPath
	}
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, rest)
	}
	return filepath.Abs(path)
}
