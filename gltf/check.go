// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"errors"
	"strconv"
)

func newErr(reason string) error {
	return errors.New("gltf: " + reason)
}

func indexErr(what string, i int) error {
	return newErr("invalid " + what + " index (element " + strconv.Itoa(i) + ")")
}

func inRange(idx int64, n int) bool { return idx >= 0 && idx < int64(n) }

// Check checks that f is valid glTF, as far as the
// structures this package interprets are concerned.
func (f *GLTF) Check() error {
	if f.Asset.Version == "" {
		return newErr("missing Asset.Version")
	}
	if s := f.Scene; s != nil && !inRange(*s, len(f.Scenes)) {
		return newErr("invalid GLTF.Scene index")
	}
	for i := range f.Buffers {
		if f.Buffers[i].ByteLength < 1 {
			return newErr("invalid Buffer.ByteLength value (element " + strconv.Itoa(i) + ")")
		}
	}
	for i := range f.BufferViews {
		if err := f.BufferViews[i].Check(f); err != nil {
			return err
		}
	}
	for i := range f.Accessors {
		if err := f.Accessors[i].Check(f); err != nil {
			return err
		}
	}
	if err := f.checkNodes(); err != nil {
		return err
	}
	for i := range f.Scenes {
		for _, n := range f.Scenes[i].Nodes {
			if !inRange(n, len(f.Nodes)) {
				return indexErr("Scene.Nodes", i)
			}
		}
	}
	for i := range f.Animations {
		if err := f.Animations[i].Check(f); err != nil {
			return err
		}
	}
	return nil
}

// checkNodes checks that the nodes form a forest.
func (f *GLTF) checkNodes() error {
	parent := make([]int64, len(f.Nodes))
	for i := range parent {
		parent[i] = -1
	}
	for i := range f.Nodes {
		n := &f.Nodes[i]
		for _, c := range n.Children {
			switch {
			case !inRange(c, len(f.Nodes)):
				return indexErr("Node.Children", i)
			case c == int64(i):
				return newErr("Node.Children refers to itself (element " + strconv.Itoa(i) + ")")
			case parent[c] != -1:
				return newErr("node has more than one parent (element " + strconv.FormatInt(c, 10) + ")")
			}
			parent[c] = int64(i)
		}
		if n.Mesh != nil && !inRange(*n.Mesh, len(f.Meshes)) {
			return indexErr("Node.Mesh", i)
		}
		if n.Skin != nil && !inRange(*n.Skin, len(f.Skins)) {
			return indexErr("Node.Skin", i)
		}
		if n.Camera != nil && !inRange(*n.Camera, len(f.Cameras)) {
			return indexErr("Node.Camera", i)
		}
	}
	// Following parents from any node must end at a root.
	for i := range f.Nodes {
		p := parent[i]
		for steps := 0; p != -1; steps++ {
			if steps > len(f.Nodes) {
				return newErr("node hierarchy has a cycle")
			}
			p = parent[p]
		}
	}
	return nil
}

// Check checks that v is valid glTF.bufferViews' element.
func (v *BufferView) Check(gltf *GLTF) error {
	if !inRange(v.Buffer, len(gltf.Buffers)) {
		return newErr("invalid BufferView.Buffer index")
	}
	if v.ByteOffset < 0 || v.ByteLength < 1 ||
		v.ByteOffset+v.ByteLength > gltf.Buffers[v.Buffer].ByteLength {
		return newErr("BufferView range out of Buffer bounds")
	}
	if v.ByteStride != 0 && (v.ByteStride < 4 || v.ByteStride > 252 || v.ByteStride%4 != 0) {
		return newErr("invalid BufferView.ByteStride value")
	}
	return nil
}

// Check checks that a is valid glTF.accessors' element.
func (a *Accessor) Check(gltf *GLTF) error {
	if a.BufferView != nil && !inRange(*a.BufferView, len(gltf.BufferViews)) {
		return newErr("invalid Accessor.BufferView index")
	}
	if a.ByteOffset < 0 {
		return newErr("invalid Accessor.ByteOffset value")
	}
	if componentSize(a.ComponentType) == 0 {
		return newErr("invalid Accessor.ComponentType value")
	}
	if a.Count < 1 {
		return newErr("invalid Accessor.Count value")
	}
	if componentCount(a.Type) == 0 {
		return newErr("invalid Accessor.Type value")
	}
	return nil
}

// Check checks that a is valid glTF.animations' element.
func (a *Animation) Check(gltf *GLTF) error {
	if len(a.Channels) == 0 || len(a.Samplers) == 0 {
		return newErr("Animation has no channels or samplers")
	}
	for i := range a.Channels {
		c := &a.Channels[i]
		if !inRange(c.Sampler, len(a.Samplers)) {
			return indexErr("AChannel.Sampler", i)
		}
		if n := c.Target.Node; n != nil && !inRange(*n, len(gltf.Nodes)) {
			return indexErr("ATarget.Node", i)
		}
		switch c.Target.Path {
		case Ptranslation, Protation, Pscale, Pweights:
		default:
			return newErr("invalid ATarget.Path value: " + strconv.Quote(c.Target.Path))
		}
	}
	for i := range a.Samplers {
		s := &a.Samplers[i]
		if !inRange(s.Input, len(gltf.Accessors)) {
			return indexErr("ASampler.Input", i)
		}
		if !inRange(s.Output, len(gltf.Accessors)) {
			return indexErr("ASampler.Output", i)
		}
		switch s.Interpolation {
		case "", ILINEAR, STEP, CUBICSPLINE:
		default:
			return newErr("invalid ASampler.Interpolation value: " + strconv.Quote(s.Interpolation))
		}
	}
	return nil
}
