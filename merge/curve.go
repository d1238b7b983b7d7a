// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package merge

import (
	"github.com/gviegas/animcombine/anim"
	"github.com/gviegas/animcombine/node"
)

// CopyKeys appends a copy of every key of src to dst, in
// source order.
// Times, values, interpolation modes and tangents are
// reproduced exactly. Keys already in dst are kept.
// All insertions happen within a single bulk edit of dst.
func CopyKeys(dst, src *anim.Curve) {
	if dst == nil || src == nil {
		panic("merge: CopyKeys with nil curve")
	}
	dst.BeginEdit()
	defer dst.EndEdit()
	for i := 0; i < src.Len(); i++ {
		k := src.Key(i)
		j := dst.Add(k.Time)
		dst.SetInterp(j, k.Interp)
		dst.SetValue(j, k.Value)
		dst.SetTangents(j, k.InTangent, k.OutTangent)
	}
}

// Property identifies a transform property of a node.
type Property struct {
	Node node.Node
	Prop anim.Prop
}

// MergeProperty copies the X, Y and Z curves of src under
// srcLayer into the curves of dst under dstLayer.
// The source X curve decides whether the property is
// animated: if it does not exist, nothing is created and
// MergeProperty returns false.
// Otherwise the three destination curves are created as
// needed and filled, in X, Y, Z order; a missing source
// Y or Z curve contributes no keys.
func MergeProperty(dst Property, dstLayer *anim.Layer, src Property, srcLayer *anim.Layer) bool {
	var sc [len(anim.Axes)]*anim.Curve
	for i, a := range anim.Axes {
		sc[i] = srcLayer.Curve(src.Node, src.Prop, a, false)
	}
	if sc[anim.X] == nil {
		return false
	}
	for i, a := range anim.Axes {
		dc := dstLayer.Curve(dst.Node, dst.Prop, a, true)
		if sc[i] != nil {
			CopyKeys(dc, sc[i])
		}
	}
	return true
}
