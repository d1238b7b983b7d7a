// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package pipeline implements the batch run: every scene
// file of a directory is loaded, the first one becomes the
// destination and the animation of each of the others is
// merged into it as a new take.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/gviegas/animcombine/internal/config"
	"github.com/gviegas/animcombine/merge"
	"github.com/gviegas/animcombine/scene"
	"github.com/gviegas/animcombine/sceneio"
)

// SceneIO is the scene storage that a run reads from and
// writes to.
// *sceneio.Provider implements it.
type SceneIO interface {
	List(ctx context.Context, dir string) ([]string, error)
	Load(ctx context.Context, location string) (*scene.Scene, error)
	Save(ctx context.Context, s *scene.Scene, location string) error
}

// Options configures a run.
type Options struct {
	// Match is the hierarchy matching mode.
	Match merge.Match
	// TakeName is config.TakeFromFile or
	// config.TakeFromSource.
	TakeName string
	// Jobs bounds concurrent loads. Values below 1
	// mean one load at a time.
	Jobs int
	// KeepGoing skips sources that fail to load
	// (other than the first) instead of aborting.
	KeepGoing bool
	// Logger receives progress and diagnostics.
	// Default is slog.Default().
	Logger *slog.Logger
}

// FromConfig converts cfg into Options.
func FromConfig(cfg *config.Config, log *slog.Logger) (Options, error) {
	m, err := merge.ParseMatch(cfg.Match)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Match:     m,
		TakeName:  cfg.TakeName,
		Jobs:      cfg.Jobs,
		KeepGoing: cfg.KeepGoing,
		Logger:    log,
	}, nil
}

// ErrNoInput is returned when the input directory holds
// no scene files.
var ErrNoInput = errors.New("pipeline: no scene files in input directory")

// Skipped describes a source that was not merged.
type Skipped struct {
	Path string
	Err  error
}

// Report summarizes a successful run.
type Report struct {
	// Output is the location written.
	Output string
	// Takes lists the take names of the output scene,
	// in order.
	Takes []string
	// Skipped lists the sources that contributed no take.
	Skipped []Skipped
}

type loaded struct {
	scene *scene.Scene
	err   error
}

// Run merges the scene files in input and saves the
// result to output.
// Files are loaded concurrently but merged one at a time,
// in the order that io.List returns them.
func Run(ctx context.Context, io SceneIO, input, output string, opts Options) (*Report, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	files, err := io.List(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoInput
	}

	res, err := loadStage(ctx, io, files, opts, log)
	if err != nil {
		return nil, err
	}
	dst, rep := mergeStage(files, res, opts, log)

	if err := io.Save(ctx, dst, output); err != nil {
		return nil, err
	}
	rep.Output = output
	for _, t := range dst.Takes() {
		rep.Takes = append(rep.Takes, t.Name)
	}
	log.Info("done", "output", output, "takes", len(rep.Takes), "skipped", len(rep.Skipped))
	return rep, nil
}

// loadStage loads every file.
// A failure aborts the stage if it happens on the first
// file or if KeepGoing is not set; otherwise it is
// recorded in the result.
func loadStage(ctx context.Context, io SceneIO, files []string, opts Options, log *slog.Logger) ([]loaded, error) {
	res := make([]loaded, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Jobs, 1))
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			log.Info("processing", "path", f)
			s, err := io.Load(ctx, f)
			if err != nil && (i == 0 || !opts.KeepGoing) {
				return err
			}
			res[i] = loaded{s, err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// mergeStage seeds the destination with the first scene
// and merges the rest into it.
func mergeStage(files []string, res []loaded, opts Options, log *slog.Logger) (*scene.Scene, *Report) {
	rep := new(Report)
	dst := res[0].scene
	if t := dst.Take(0); t != nil {
		t.Name = takeName(files[0], dst, opts.TakeName)
	} else {
		log.Warn("destination scene has no animation", "path", files[0])
	}
	mopts := []merge.Option{merge.WithMatch(opts.Match), merge.WithLogger(log)}
	for i := 1; i < len(files); i++ {
		f := files[i]
		src, err := res[i].scene, res[i].err
		res[i] = loaded{}
		if err == nil {
			_, err = merge.MergeTake(dst, src, takeName(f, src, opts.TakeName), mopts...)
		}
		if err != nil {
			log.Warn("skipping source", "path", f, "err", err)
			rep.Skipped = append(rep.Skipped, Skipped{f, err})
			continue
		}
		log.Debug("merged source", "path", f)
	}
	return dst, rep
}

// takeName names the take that s contributes.
func takeName(file string, s *scene.Scene, policy string) string {
	if policy == config.TakeFromSource {
		if t := s.Take(0); t != nil && t.Name != "" {
			return t.Name
		}
	}
	return sceneio.Stem(file)
}

// String implements fmt.Stringer.
func (s Skipped) String() string { return fmt.Sprintf("%s: %v", s.Path, s.Err) }
