// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package merge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gviegas/animcombine/anim"
	"github.com/gviegas/animcombine/scene"
)

var (
	// ErrNoTake means that the source scene has no take.
	ErrNoTake = errors.New("merge: source scene has no take")

	// ErrNoLayer means that the source take has no layer.
	ErrNoLayer = errors.New("merge: source take has no layer")
)

// TakeError is returned by MergeTake when the hierarchy
// of the source scene cannot be merged.
type TakeError struct {
	Take  string // Name of the take being created.
	Scene string // Name of the source scene.
	Err   error
}

func (e *TakeError) Error() string {
	return fmt.Sprintf("merge: take %q from %q: %s",
		e.Take, e.Scene, strings.TrimPrefix(e.Err.Error(), "merge: "))
}

func (e *TakeError) Unwrap() error { return e.Err }

// MergeTake creates a new take named name in dst holding
// the animation of src's first take.
//
// Only the first layer of the first take of src is
// merged; additional takes or layers are reported in the
// log and otherwise ignored. The new take gets a single
// layer named after the source layer, and the source
// take's stop time.
// On failure dst is not modified.
func MergeTake(dst, src *scene.Scene, name string, opts ...Option) (*anim.Take, error) {
	o := newOptions(opts)
	st := src.Take(0)
	if st == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoTake, src.Name)
	}
	if n := src.TakeCount(); n > 1 {
		o.logger.Warn("source has more than one take, only the first is merged",
			"scene", src.Name, "takes", n, "merged", st.Name)
	}
	sl := st.Layer(0)
	if sl == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoLayer, st.Name)
	}
	if n := st.LayerCount(); n > 1 {
		o.logger.Warn("source take has more than one layer, only the first is merged",
			"scene", src.Name, "take", st.Name, "layers", n, "merged", sl.Name)
	}
	for _, t := range dst.Takes() {
		if t.Name == name {
			o.logger.Warn("destination already has a take with this name", "take", name)
			break
		}
	}

	take := anim.NewTake(name)
	layer := take.CreateLayer(sl.Name)
	n, err := MergeHierarchy(layer, &dst.Graph, dst.Root, sl, &src.Graph, src.Root, opts...)
	if err != nil {
		return nil, &TakeError{Take: name, Scene: src.Name, Err: err}
	}
	take.Stop = st.Stop
	dst.AddTake(take)
	o.logger.Debug("merged take", "take", name, "scene", src.Name,
		"pairs", n, "curves", layer.Len(), "stop", take.Stop)
	return take, nil
}
