// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "index", cfg.Match)
	assert.Equal(t, TakeFromFile, cfg.TakeName)
	assert.Equal(t, 30.0, cfg.FrameRate)
	assert.GreaterOrEqual(t, cfg.Jobs, 1)
	assert.False(t, cfg.KeepGoing)
}

func TestYAML(t *testing.T) {
	p := writeFile(t, "animcombine.yaml", `
frame_rate: 30
snap: true
match: name
take_name: source
jobs: 2
keep_going: true
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		FrameRate: 30,
		Snap:      true,
		Match:     "name",
		TakeName:  TakeFromSource,
		Jobs:      2,
		KeepGoing: true,
	}, cfg)
}

func TestTOML(t *testing.T) {
	p := writeFile(t, "animcombine.toml", `
frame_rate = 24.0
embed = true
verbose = true
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, 24.0, cfg.FrameRate)
	assert.True(t, cfg.Embed)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "index", cfg.Match)
}

func TestPrecedence(t *testing.T) {
	t.Setenv("ANIMCOMBINE_FPS", "60")
	t.Setenv("ANIMCOMBINE_JOBS", "3")
	t.Setenv("ANIMCOMBINE_MATCH", "name")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.FrameRate)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, "name", cfg.Match)

	// The file wins over the environment.
	p := writeFile(t, "c.yml", "jobs: 5\n")
	cfg, err = LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Jobs)
	assert.Equal(t, 60.0, cfg.FrameRate)
}

func TestInvalid(t *testing.T) {
	t.Run("env", func(t *testing.T) {
		t.Setenv("ANIMCOMBINE_SNAP", "maybe")
		_, err := LoadConfig("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ANIMCOMBINE_SNAP")
	})
	t.Run("ext", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, "c.json", "{}"))
		require.Error(t, err)
	})
	t.Run("missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
		require.Error(t, err)
	})
	t.Run("values", func(t *testing.T) {
		_, err := LoadConfig(writeFile(t, "c.yaml", "match: fuzzy\njobs: 0\nsnap: true\nframe_rate: 0\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fuzzy")
		assert.Contains(t, err.Error(), "jobs")
		assert.Contains(t, err.Error(), "snap")
	})
}
