package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Principal.ID)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("principal:\n  id: user-42\ncalendar:\n  calendar_id: work\nlog:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, data, 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "user-42", cfg.Principal.ID)
	assert.Equal(t, "work", cfg.Calendar.CalendarID)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("principal:\n  id: from-file\n"), 0600))

	t.Setenv("DAYBOARD_PRINCIPAL_ID", "from-env")
	t.Setenv("DAYBOARD_STORE_PATH", "/tmp/db.sqlite")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Principal.ID)
	assert.Equal(t, "/tmp/db.sqlite", cfg.Store.Path)
}
