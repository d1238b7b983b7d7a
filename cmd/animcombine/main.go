// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Command animcombine merges the animation of every glTF
// scene in a directory into a single file.
//
// The first file (in name order) provides the node
// hierarchy and its own animation; each further file
// contributes its first animation as a new take, matched
// onto the hierarchy node by node.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gviegas/animcombine/internal/config"
	"github.com/gviegas/animcombine/internal/pipeline"
	"github.com/gviegas/animcombine/sceneio"
)

var (
	rootCmd = &cobra.Command{
		Use:   "animcombine <input_dir> <output_file>",
		Short: "Merge the animations of a directory of glTF scenes",
		Long: `animcombine loads every .gltf and .glb file in input_dir, in name order.
The first file becomes the output scene; the first animation of each other
file is added to it as a new take. Sources whose node hierarchy does not
match the first file's are skipped.

The output format follows the extension of output_file (.gltf or .glb).`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cfgPath string
	flags   config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "animcombine:", err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&cfgPath, "config", "c", "", "Path to a YAML or TOML config file")
	f.Float64Var(&flags.FrameRate, "fps", 30, "Frame rate of key times")
	f.BoolVar(&flags.Snap, "snap", false, "Round key times to whole frames")
	f.BoolVar(&flags.Embed, "embed", false, "Embed the binary buffer in .gltf output")
	f.StringVar(&flags.Match, "match", "index", "Hierarchy matching: index or name")
	f.StringVar(&flags.TakeName, "take-name", config.TakeFromFile, "Take naming: file or source")
	f.IntVarP(&flags.Jobs, "jobs", "j", runtime.NumCPU(), "Number of files loaded concurrently")
	f.BoolVar(&flags.KeepGoing, "keep-going", false, "Skip source files that fail to load")
	f.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
}

// loadConfig loads the config file and environment, then
// applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	set := cmd.Flags().Changed
	if set("fps") {
		cfg.FrameRate = flags.FrameRate
	}
	if set("snap") {
		cfg.Snap = flags.Snap
	}
	if set("embed") {
		cfg.Embed = flags.Embed
	}
	if set("match") {
		cfg.Match = flags.Match
	}
	if set("take-name") {
		cfg.TakeName = flags.TakeName
	}
	if set("jobs") {
		cfg.Jobs = flags.Jobs
	}
	if set("keep-going") {
		cfg.KeepGoing = flags.KeepGoing
	}
	if set("verbose") {
		cfg.Verbose = flags.Verbose
	}
	return cfg, cfg.Validate()
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg.Verbose)
	slog.SetDefault(log)

	opts, err := pipeline.FromConfig(cfg, log)
	if err != nil {
		return err
	}
	io := sceneio.New(sceneio.Config{
		FrameRate: cfg.FrameRate,
		Snap:      cfg.Snap,
		Embed:     cfg.Embed,
		Logger:    log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rep, err := pipeline.Run(ctx, io, args[0], args[1], opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Writing: %s (%d takes, %d skipped)\n",
		rep.Output, len(rep.Takes), len(rep.Skipped))
	return nil
}
