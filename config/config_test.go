package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.World.Width)
	assert.Equal(t, 256, cfg.World.Height)
	assert.Equal(t, 256*256/2, cfg.Derived.MaxEntities)
	assert.InDelta(t, 1.1, cfg.Connection.RestLength, 1e-9)
	assert.Greater(t, cfg.Derived.Workers, 0)
	assert.Greater(t, cfg.Derived.StatsTicks, 0)
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("world:\n  width: 32\nconnection:\n  spring: 5\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.World.Width)
	assert.Equal(t, 256, cfg.World.Height, "fields absent from the file keep their defaults")
	assert.InDelta(t, 5.0, cfg.Connection.Spring, 1e-9)
	assert.Equal(t, 32*256/2, cfg.Derived.MaxEntities)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.World.Width = 0 }},
		{"negative capacity", func(c *Config) { c.World.MaxEntities = -1 }},
		{"zero dt", func(c *Config) { c.Physics.DT = 0 }},
		{"max dt below dt", func(c *Config) { c.Physics.MaxDT = c.Physics.DT / 2 }},
		{"energy bands inverted", func(c *Config) { c.Fat.EnergyReleaseThreshold = c.Fat.EnergyStoreThreshold }},
		{"material bands inverted", func(c *Config) { c.Fat.MaterialReleaseThreshold = c.Fat.MaterialStoreThreshold + 1 }},
		{"food size range", func(c *Config) { c.Food.MaxSize = c.Food.MinSize / 2 }},
		{"negative workers", func(c *Config) { c.Parallel.Workers = -2 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.World.Width = 48
	require.NoError(t, cfg.Refresh())

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 48, loaded.World.Width)
	assert.Equal(t, cfg.Fat, loaded.Fat)
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() { global = saved }()

	assert.Panics(t, func() { Cfg() })
	MustInit("")
	assert.NotNil(t, Cfg())
}
