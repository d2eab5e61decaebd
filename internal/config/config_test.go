package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaultsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.toml")
	contents := `
pixelCount = 128
framesPerSecond = 60

[output.preview]
enabled = false
gammaCorrection = 2
brightness = 0.8

[output.network]
enabled = true
addr = ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 128, cfg.PixelCount)
	assert.Equal(t, 60.0, cfg.FramesPerSecond)
	assert.False(t, cfg.Output.Preview.Enabled)
	assert.Equal(t, 2, cfg.Output.Preview.GammaCorrection)
	assert.True(t, cfg.Output.Network.Enabled)
	assert.Equal(t, ":9090", cfg.Output.Network.Addr)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDefaultIsAlwaysValid(t *testing.T) {
	cfg := Default()
	assert.Greater(t, cfg.PixelCount, 0)
	assert.Greater(t, cfg.FramesPerSecond, 0.0)
}
