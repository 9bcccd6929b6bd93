package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spark.yaml")
	require.NoError(t, os.WriteFile(path, []byte("voice:\n  confidence_threshold: 0.7\n"), 0o644))

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("voice:\n  confidence_threshold: 0.9\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 0.9, cfg.Voice.ConfidenceThreshold)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload never fired")
	}
}

func TestWatcherKeepsPreviousConfigOnBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spark.yaml")
	require.NoError(t, os.WriteFile(path, []byte("voice:\n  confidence_threshold: 0.7\n"), 0o644))

	calls := make(chan struct{}, 4)
	w, err := NewWatcher(path, func(cfg *Config) { calls <- struct{}{} })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("voice: [broken"), 0o644))

	select {
	case <-calls:
		t.Fatal("callback fired for an unparseable config")
	case <-time.After(time.Second):
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spark.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
}
