package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, "genetic_optimizer_*.txt", cfg.LogGlob)
	assert.Equal(t, "simulation_results", cfg.ResultsDir)
	assert.Equal(t, 5, cfg.SmoothingWindow)
	assert.Len(t, cfg.Parameters, 17)

	interval, err := cfg.Interval()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, interval)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
log_dir          = "/var/log/optimizer"
refresh_interval = "500ms"
smoothing_window = 3
parameters       = ["Alpha", "Beta"]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/log/optimizer", cfg.LogDir)
	assert.Equal(t, []string{"Alpha", "Beta"}, cfg.Parameters)
	assert.Equal(t, 3, cfg.SmoothingWindow)
	// Untouched fields keep their defaults.
	assert.Equal(t, "charts", cfg.ChartDir)

	interval, err := cfg.Interval()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, interval)
}

func TestLoadRejectsBadInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`refresh_interval = "soon"`+"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`log_dir = `), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
