package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backend is a durable string key-value store. Keys are independent: there is
// no ordering guarantee across keys and no transaction.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
	Close() error
}

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

const (
	defaultFilePath   = "~/.config/koi/state.toml"
	defaultSQLitePath = "~/.local/share/koi/state.db"
)

// Open builds the backend named by kind. An empty path selects the kind's
// default location.
func Open(kind, path string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindFile:
		resolved, err := resolvePath(path, defaultFilePath)
		if err != nil {
			return nil, err
		}
		return NewFileBackend(resolved), nil
	case KindSQLite:
		resolved, err := resolvePath(path, defaultSQLitePath)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		return OpenSQLBackend(resolved)
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
}

func resolvePath(path, fallback string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(fallback)
	}
	return expandPath(path)
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
