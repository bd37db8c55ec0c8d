package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the client settings.
type Config struct {
	APURL        string
	DeviceURL    string
	Timeout      time.Duration
	PollInterval time.Duration
	StoreBackend string
	StorePath    string // empty selects the backend default
	LogPath      string
	Theme        string // empty falls back to the remembered theme
}

const (
	defaultConfigPath   = "~/.config/koi/config.toml"
	defaultAPURL        = "http://192.168.4.1"
	defaultDeviceURL    = "http://alimentador.local"
	defaultTimeout      = 10 * time.Second
	defaultPollInterval = 5 * time.Second
	defaultStoreBackend = "file"
	defaultLogPath      = "~/.local/state/koi/koi.log"
)

// Environment variables that override the file.
const (
	EnvAPURL        = "KOI_AP_URL"
	EnvDeviceURL    = "KOI_DEVICE_URL"
	EnvTimeout      = "KOI_TIMEOUT_SECONDS"
	EnvPoll         = "KOI_POLL_SECONDS"
	EnvStoreBackend = "KOI_STORE_BACKEND"
	EnvStorePath    = "KOI_STORE_PATH"
	EnvLogPath      = "KOI_LOG_PATH"
	EnvTheme        = "KOI_THEME"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APURL:        defaultAPURL,
		DeviceURL:    defaultDeviceURL,
		Timeout:      defaultTimeout,
		PollInterval: defaultPollInterval,
		StoreBackend: defaultStoreBackend,
		LogPath:      mustExpand(defaultLogPath),
	}
}

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the config file at path (the default location when empty),
// falling back to defaults when it is missing, then applies environment
// overrides.
func Load(path string) (Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APURL          string `toml:"ap_url"`
		DeviceURL      string `toml:"device_url"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		PollSeconds    int    `toml:"poll_seconds"`
		StoreBackend   string `toml:"store_backend"`
		StorePath      string `toml:"store_path"`
		LogPath        string `toml:"log_path"`
		Theme          string `toml:"theme"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APURL); v != "" {
		cfg.APURL = v
	}
	if v := strings.TrimSpace(raw.DeviceURL); v != "" {
		cfg.DeviceURL = v
	}
	if raw.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.StoreBackend); v != "" {
		cfg.StoreBackend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.StorePath); v != "" {
		cfg.StorePath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	cfg.Theme = strings.TrimSpace(raw.Theme)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get(EnvAPURL); ok {
		c.APURL = v
	}
	if v, ok := get(EnvDeviceURL); ok {
		c.DeviceURL = v
	}
	if v, ok := get(EnvTimeout); ok {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return fmt.Errorf("%s: invalid seconds %q", EnvTimeout, v)
		}
		c.Timeout = time.Duration(secs) * time.Second
	}
	if v, ok := get(EnvPoll); ok {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return fmt.Errorf("%s: invalid seconds %q", EnvPoll, v)
		}
		c.PollInterval = time.Duration(secs) * time.Second
	}
	if v, ok := get(EnvStoreBackend); ok {
		c.StoreBackend = strings.ToLower(v)
	}
	if v, ok := get(EnvStorePath); ok {
		c.StorePath = mustExpand(v)
	}
	if v, ok := get(EnvLogPath); ok {
		c.LogPath = mustExpand(v)
	}
	if v, ok := get(EnvTheme); ok {
		c.Theme = v
	}
	return c.validate()
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case "file", "sqlite":
		return nil
	default:
		return fmt.Errorf("store_backend %q: want file or sqlite", c.StoreBackend)
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
