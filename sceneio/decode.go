// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package sceneio

import (
	"context"
	"errors"
	"fmt"
	"math"
	neturl "net/url"
	"strconv"
	"time"

	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/gviegas/animcombine/anim"
	"github.com/gviegas/animcombine/gltf"
	"github.com/gviegas/animcombine/linear"
	"github.com/gviegas/animcombine/node"
	"github.com/gviegas/animcombine/scene"
)

// DefaultLayer is the name given to layers of animations
// that do not record one.
const DefaultLayer = "Base Layer"

// Keys of the animation.extras object.
const (
	extraStop      = "stopTime"
	extraLayer     = "layer"
	extraFrameRate = "frameRate"
)

// consolidate resolves every buffer of doc and
// concatenates them into a single blob.
// Buffer views are rewritten to refer to buffer 0 of
// the blob, so doc ends up with at most one buffer.
func (p *Provider) consolidate(ctx context.Context, location string, doc *gltf.GLTF, glb []byte) ([]byte, error) {
	if len(doc.Buffers) == 0 {
		return nil, nil
	}
	parent, _ := url.Split(location, file.Scheme)
	offs := make([]int64, len(doc.Buffers))
	var blob []byte
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]
		var data []byte
		switch {
		case buf.URI == "":
			if i != 0 || glb == nil {
				return nil, fmt.Errorf("buffer %d has no data", i)
			}
			data = glb
		default:
			b, ok, err := gltf.DecodeDataURI(buf.URI)
			switch {
			case err != nil:
				return nil, fmt.Errorf("buffer %d: %w", i, err)
			case ok:
				data = b
			default:
				rel, err := neturl.PathUnescape(buf.URI)
				if err != nil {
					return nil, fmt.Errorf("buffer %d: %w", i, err)
				}
				data, err = p.fs.DownloadWithURL(ctx, url.Join(parent, rel))
				if err != nil {
					return nil, fmt.Errorf("buffer %d: %w", i, err)
				}
			}
		}
		if int64(len(data)) < buf.ByteLength {
			return nil, fmt.Errorf("buffer %d: have %d bytes, want %d", i, len(data), buf.ByteLength)
		}
		for len(blob)%4 != 0 {
			blob = append(blob, 0)
		}
		offs[i] = int64(len(blob))
		blob = append(blob, data[:buf.ByteLength]...)
	}
	for i := range doc.BufferViews {
		v := &doc.BufferViews[i]
		v.ByteOffset += offs[v.Buffer]
		v.Buffer = 0
	}
	doc.Buffers = []gltf.Buffer{{ByteLength: int64(len(blob))}}
	return blob, nil
}

// sceneRoots returns the name and root nodes of the
// scene that is to be loaded from doc.
// Documents without scenes yield every parentless node.
func sceneRoots(doc *gltf.GLTF) (string, []int64) {
	switch {
	case doc.Scene != nil:
		s := &doc.Scenes[*doc.Scene]
		return s.Name, s.Nodes
	case len(doc.Scenes) > 0:
		return doc.Scenes[0].Name, doc.Scenes[0].Nodes
	}
	child := make([]bool, len(doc.Nodes))
	for i := range doc.Nodes {
		for _, c := range doc.Nodes[i].Children {
			child[c] = true
		}
	}
	var roots []int64
	for i, c := range child {
		if !c {
			roots = append(roots, int64(i))
		}
	}
	return "", roots
}

// nodeData converts the glTF node at index i.
func nodeData(doc *gltf.GLTF, i int64) node.Data {
	n := &doc.Nodes[i]
	d := node.NewData(n.Name)
	d.Index = int(i)
	if n.Matrix != nil {
		var m linear.M4
		for c := range m {
			copy(m[c][:], n.Matrix[c*4:c*4+4])
		}
		d.Translation, d.Rotation, d.Scale = m.Decompose()
		return d
	}
	if n.Translation != nil {
		d.Translation = *n.Translation
	}
	if n.Rotation != nil {
		d.Rotation = linear.Q{V: linear.V3{n.Rotation[0], n.Rotation[1], n.Rotation[2]}, R: n.Rotation[3]}
	}
	if n.Scale != nil {
		d.Scale = *n.Scale
	}
	return d
}

// decode converts doc into a new scene.
// bin must be the consolidated buffer of doc.
func (p *Provider) decode(doc *gltf.GLTF, bin []byte, stem string) (*scene.Scene, error) {
	name, roots := sceneRoots(doc)
	if name == "" {
		name = stem
	}
	s := scene.New(name)
	s.Doc = doc
	s.Bin = bin

	handles := make([]node.Node, len(doc.Nodes))
	type item struct {
		index  int64
		parent node.Node
	}
	stk := make([]item, 0, len(doc.Nodes))
	for i := len(roots) - 1; i >= 0; i-- {
		stk = append(stk, item{roots[i], s.Root})
	}
	for len(stk) > 0 {
		it := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if handles[it.index] != node.Nil {
			return nil, errors.New("node " + strconv.FormatInt(it.index, 10) + " is reachable twice from the scene")
		}
		n := s.Graph.Insert(nodeData(doc, it.index), it.parent)
		handles[it.index] = n
		sub := doc.Nodes[it.index].Children
		for i := len(sub) - 1; i >= 0; i-- {
			stk = append(stk, item{sub[i], n})
		}
	}

	for i := range doc.Animations {
		take, err := p.decodeAnimation(doc, bin, i, handles)
		if err != nil {
			return nil, err
		}
		s.AddTake(take)
	}
	return s, nil
}

func parseInterp(s string) (anim.Interp, error) {
	switch s {
	case "", gltf.ILINEAR:
		return anim.Linear, nil
	case gltf.STEP:
		return anim.Constant, nil
	case gltf.CUBICSPLINE:
		return anim.Cubic, nil
	}
	return 0, errors.New("unknown interpolation " + strconv.Quote(s))
}

func parseProp(path string) (anim.Prop, bool) {
	switch path {
	case gltf.Ptranslation:
		return anim.Translation, true
	case gltf.Protation:
		return anim.Rotation, true
	case gltf.Pscale:
		return anim.Scale, true
	}
	return 0, false
}

// keyTime converts a time in seconds, snapping it to the
// frame grid if so configured.
func (p *Provider) keyTime(sec float32) time.Duration {
	s := float64(sec)
	if p.cfg.Snap && p.cfg.FrameRate > 0 {
		s = math.Round(s*p.cfg.FrameRate) / p.cfg.FrameRate
	}
	return anim.Seconds(s)
}

// decodeAnimation converts the i-th animation of doc into
// a take with a single layer.
func (p *Provider) decodeAnimation(doc *gltf.GLTF, bin []byte, i int, handles []node.Node) (*anim.Take, error) {
	a := &doc.Animations[i]
	name := a.Name
	if name == "" {
		name = "Take " + strconv.Itoa(i+1)
	}
	extras := gltf.Extras(a.Extras)
	lname := DefaultLayer
	if s, ok := extras[extraLayer].(string); ok && s != "" {
		lname = s
	}
	take := anim.NewTake(name)
	layer := take.CreateLayer(lname)

	for j := range a.Channels {
		ch := &a.Channels[j]
		if ch.Target.Node == nil {
			continue
		}
		n := handles[*ch.Target.Node]
		if n == node.Nil {
			p.log.Debug("skipping channel of node outside the scene", "take", name, "node", *ch.Target.Node)
			continue
		}
		prop, ok := parseProp(ch.Target.Path)
		if !ok {
			p.log.Warn("skipping unsupported animation channel", "take", name, "path", ch.Target.Path)
			continue
		}
		smp := &a.Samplers[ch.Sampler]
		interp, err := parseInterp(smp.Interpolation)
		if err != nil {
			return nil, fmt.Errorf("animation %d sampler %d: %w", i, ch.Sampler, err)
		}
		times, err := doc.ReadFloats(smp.Input, bin)
		if err != nil {
			return nil, fmt.Errorf("animation %d sampler %d input: %w", i, ch.Sampler, err)
		}
		values, err := doc.ReadFloats(smp.Output, bin)
		if err != nil {
			return nil, fmt.Errorf("animation %d sampler %d output: %w", i, ch.Sampler, err)
		}
		nc := 3
		if prop == anim.Rotation {
			nc = 4
		}
		per := nc
		if interp == anim.Cubic {
			per *= 3
		}
		if len(values) != len(times)*per {
			return nil, fmt.Errorf("animation %d sampler %d: have %d output values, want %d",
				i, ch.Sampler, len(values), len(times)*per)
		}
		if prop == anim.Rotation {
			if interp == anim.Cubic {
				p.log.Warn("importing cubic rotation as linear", "take", name, "node", nodeLabel(doc, *ch.Target.Node))
			}
			p.rotationKeys(layer, n, times, values, interp)
		} else {
			p.vectorKeys(layer, n, prop, times, values, interp)
		}
	}

	if f, ok := extras[extraStop].(float64); ok && f >= 0 {
		take.Stop = anim.Seconds(f)
	} else if _, last, ok := layer.Span(); ok {
		take.Stop = last
	}
	return take, nil
}

func nodeLabel(doc *gltf.GLTF, i int64) string {
	if name := doc.Nodes[i].Name; name != "" {
		return name
	}
	return "#" + strconv.FormatInt(i, 10)
}

// vectorKeys adds translation or scale keys to layer.
func (p *Provider) vectorKeys(layer *anim.Layer, n node.Node, prop anim.Prop, times, values []float32, interp anim.Interp) {
	for _, ax := range anim.Axes {
		c := layer.Curve(n, prop, ax, true)
		c.BeginEdit()
		for k, t := range times {
			i := c.Add(p.keyTime(t))
			c.SetInterp(i, interp)
			if interp == anim.Cubic {
				// in-tangent, value, out-tangent.
				base := k * 9
				c.SetValue(i, values[base+3+int(ax)])
				c.SetTangents(i, values[base+int(ax)], values[base+6+int(ax)])
			} else {
				c.SetValue(i, values[k*3+int(ax)])
			}
		}
		c.EndEdit()
	}
}

// rotationKeys adds rotation keys to layer, converting
// quaternions into continuous XYZ Euler angles.
func (p *Provider) rotationKeys(layer *anim.Layer, n node.Node, times, values []float32, interp anim.Interp) {
	off, per := 0, 4
	if interp == anim.Cubic {
		off, per = 4, 12
		interp = anim.Linear
	}
	var curves [3]*anim.Curve
	for _, ax := range anim.Axes {
		curves[ax] = layer.Curve(n, anim.Rotation, ax, true)
		curves[ax].BeginEdit()
	}
	var prev linear.V3
	for k, t := range times {
		v := values[k*per+off:]
		q := linear.Q{V: linear.V3{v[0], v[1], v[2]}, R: v[3]}
		e := q.Angles()
		if k > 0 {
			for j := range e {
				e[j] = linear.Unwrap(prev[j], e[j])
			}
		}
		prev = e
		kt := p.keyTime(t)
		for _, ax := range anim.Axes {
			i := curves[ax].Add(kt)
			curves[ax].SetValue(i, e[ax])
			curves[ax].SetInterp(i, interp)
		}
	}
	for _, c := range curves {
		c.EndEdit()
	}
}
