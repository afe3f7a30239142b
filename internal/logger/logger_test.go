package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "production")
	log.Info().Msg("hidden")
	log.Warn().Str("component", "test").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "picks-site-backend", entry["service"])
}

func TestDailyFileRotatesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"app-2025-01-01.log", "app-2025-01-09.log", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	now := time.Date(2025, 1, 10, 23, 59, 0, 0, time.UTC)
	d := &DailyFile{Dir: dir, RetentionDays: 3, Now: func() time.Time { return now }}
	defer d.Close()

	_, err := d.Write([]byte("first\n"))
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = d.Write([]byte("second\n"))
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(dir, "app-2025-01-10.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(first))
	second, err := os.ReadFile(filepath.Join(dir, "app-2025-01-11.log"))
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(second))

	assert.NoFileExists(t, filepath.Join(dir, "app-2025-01-01.log"))
	assert.FileExists(t, filepath.Join(dir, "app-2025-01-09.log"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}
