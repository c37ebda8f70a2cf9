package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_File(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("APP_ENV", "")
	path := filepath.Join(t.TempDir(), "airlift.log")
	closer, err := Setup(Config{Level: "warn", File: path, MaxSizeMB: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = Setup(Config{}) })

	l := New("history")
	l.Infof("dropped")
	l.Warnf("kept %d", 1)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"kept 1"`)
	assert.Contains(t, string(data), `"component":"history"`)
	assert.NotContains(t, string(data), "dropped")
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, Config{Level: "INFO", Format: "console"}.Validate())
	assert.Error(t, Config{Format: "xml"}.Validate())
	assert.Error(t, Config{Level: "loud"}.Validate())
}
