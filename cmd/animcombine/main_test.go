// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/animcombine/anim"
	"github.com/gviegas/animcombine/node"
	"github.com/gviegas/animcombine/scene"
	"github.com/gviegas/animcombine/sceneio"
)

func TestRoot(t *testing.T) {
	ctx := context.Background()
	in := t.TempDir()
	p := sceneio.New(sceneio.Config{})
	for _, name := range []string{"idle.glb", "wave.glb"} {
		s := scene.New("Root")
		bone := s.Graph.Insert(node.NewData("Bone"), s.Root)
		c := s.CreateTake("Take").CreateLayer(sceneio.DefaultLayer).Curve(bone, anim.Rotation, anim.Z, true)
		c.SetValue(c.Add(anim.Seconds(0.5)), 45)
		require.NoError(t, p.Save(ctx, s, filepath.Join(in, name)))
	}

	cfg := filepath.Join(t.TempDir(), "animcombine.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("embed: false\njobs: 1\n"), 0o644))

	out := filepath.Join(t.TempDir(), "out.gltf")
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{in, out, "--config", cfg, "--embed", "--take-name", "source"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stdout.String(), "2 takes")

	// --embed overrides the config file.
	_, err := os.Stat(filepath.Join(filepath.Dir(out), "out.bin"))
	assert.True(t, os.IsNotExist(err))

	s, err := p.Load(ctx, out)
	require.NoError(t, err)
	require.Equal(t, 2, s.TakeCount())
	assert.Equal(t, "Take", s.Take(0).Name)
	assert.Equal(t, "Take", s.Take(1).Name)
}
