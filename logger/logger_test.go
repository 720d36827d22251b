package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cnosuke/tag-audit/config"
)

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	cleanup, err := Init(config.LogConfig{Path: path})
	require.NoError(t, err)

	zap.S().Infow("analysis finished", "url", "https://example.com", "resources", 12)
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "analysis finished")
	assert.Contains(t, string(data), `"resources":12`)
}

func TestInit_DebugLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	cleanup, err := Init(config.LogConfig{Debug: true, Path: path})
	require.NoError(t, err)
	defer cleanup()

	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))
}

func TestInit_ProductionSkipsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.log")

	cleanup, err := Init(config.LogConfig{Path: path})
	require.NoError(t, err)
	defer cleanup()

	assert.False(t, zap.L().Core().Enabled(zap.DebugLevel))
}
