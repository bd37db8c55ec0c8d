package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLBackend(t *testing.T) *SQLBackend {
	t.Helper()
	b, err := OpenSQLBackend(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestSQLBackend_UpsertAndRemove(t *testing.T) {
	b := newSQLBackend(t)
	ctx := context.Background()

	_, ok, err := b.Get(ctx, KeyDeviceIP)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, KeyDeviceIP, "10.0.0.1"))
	require.NoError(t, b.Set(ctx, KeyDeviceIP, "10.0.0.2"))

	value, ok, err := b.Get(ctx, KeyDeviceIP)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.2", value)

	require.NoError(t, b.Set(ctx, KeyConfigured, "true"))
	require.NoError(t, b.Remove(ctx, KeyDeviceIP, KeyConfigured))

	_, ok, err = b.Get(ctx, KeyConfigured)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, b.Remove(ctx))
}

func TestSQLBackend_StoreRoundTrip(t *testing.T) {
	s := NewStore(newSQLBackend(t))
	ctx := context.Background()

	require.NoError(t, s.SetConfigured(ctx, true))
	require.NoError(t, s.SetFood(ctx, Slot1, testFood("sera-vipan")))

	cfg := s.Load(ctx)
	assert.True(t, cfg.Configured)
	require.NotNil(t, cfg.Refill1Food)
	assert.Equal(t, "sera-vipan", cfg.Refill1Food.ID)
	assert.Nil(t, cfg.Refill2Food)

	require.NoError(t, s.ResetAll(ctx))
	assert.Equal(t, AppConfig{}, s.Load(ctx))
}

func TestOpen_SQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "state.db")
	backend, err := Open(KindSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	require.NoError(t, backend.Set(context.Background(), KeyDeviceIP, "x"))
	assert.FileExists(t, path)
}
