// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package sceneio

import (
	"slices"
	"time"

	"github.com/gviegas/animcombine/anim"
	"github.com/gviegas/animcombine/gltf"
	"github.com/gviegas/animcombine/linear"
	"github.com/gviegas/animcombine/node"
	"github.com/gviegas/animcombine/scene"
)

// encode converts s into a glTF document and the content
// of its single buffer.
// If s was decoded from a document, that document is used
// as template and only its animations are replaced.
// s is not modified.
func (p *Provider) encode(s *scene.Scene) (*gltf.GLTF, []byte, error) {
	var doc gltf.GLTF
	var bin []byte
	var index func(node.Node) int64
	if s.Doc != nil {
		doc = *s.Doc
		doc.Accessors = slices.Clone(doc.Accessors)
		doc.BufferViews = slices.Clone(doc.BufferViews)
		bin = slices.Clone(s.Bin)
		index = func(n node.Node) int64 { return int64(s.Graph.Data(n).Index) }
	} else {
		m := generateNodes(&doc, s)
		index = func(n node.Node) int64 {
			if i, ok := m[n]; ok {
				return i
			}
			return -1
		}
	}
	if doc.Asset.Version == "" {
		doc.Asset.Version = "2.0"
	}
	doc.Asset.Generator = Generator

	doc.Animations = nil
	for _, take := range s.Takes() {
		if a := p.encodeTake(&doc, &bin, s, take, index); a != nil {
			doc.Animations = append(doc.Animations, *a)
		}
	}
	if len(bin) > 0 {
		doc.Buffers = []gltf.Buffer{{ByteLength: int64(len(bin))}}
	} else {
		doc.Buffers = nil
	}
	return &doc, bin, nil
}

// generateNodes fills doc's node list and default scene
// from the graph of s.
// The root of s is the glTF scene itself, so it is not
// emitted as a node.
func generateNodes(doc *gltf.GLTF, s *scene.Scene) map[node.Node]int64 {
	m := make(map[node.Node]int64)
	s.Graph.Walk(s.Root, func(n node.Node) bool {
		if n != s.Root {
			m[n] = int64(len(doc.Nodes))
			doc.Nodes = append(doc.Nodes, encodeNode(s.Graph.Data(n)))
		}
		return true
	})
	var sub []node.Node
	for n, i := range m {
		sub = s.Graph.Children(n, sub[:0])
		for _, c := range sub {
			doc.Nodes[i].Children = append(doc.Nodes[i].Children, m[c])
		}
	}
	sc := gltf.Scene{Name: s.Name}
	for _, c := range s.Graph.Children(s.Root, nil) {
		sc.Nodes = append(sc.Nodes, m[c])
	}
	doc.Scenes = []gltf.Scene{sc}
	doc.Scene = new(int64)
	return m
}

func encodeNode(d *node.Data) gltf.Node {
	n := gltf.Node{Name: d.Name}
	if d.Translation != (linear.V3{}) {
		t := [3]float32(d.Translation)
		n.Translation = &t
	}
	if d.Rotation != (linear.Q{R: 1}) {
		n.Rotation = &[4]float32{d.Rotation.V[0], d.Rotation.V[1], d.Rotation.V[2], d.Rotation.R}
	}
	if d.Scale != (linear.V3{1, 1, 1}) {
		s := [3]float32(d.Scale)
		n.Scale = &s
	}
	return n
}

var propPaths = [...]string{
	anim.Translation: gltf.Ptranslation,
	anim.Rotation:    gltf.Protation,
	anim.Scale:       gltf.Pscale,
}

var interpNames = [...]string{
	anim.Constant: gltf.STEP,
	anim.Linear:   gltf.ILINEAR,
	anim.Cubic:    gltf.CUBICSPLINE,
}

// encodeTake appends the accessors of take's first layer
// to doc/bin and returns the animation that refers to
// them, or nil if the take has nothing to write.
func (p *Provider) encodeTake(doc *gltf.GLTF, bin *[]byte, s *scene.Scene, take *anim.Take, index func(node.Node) int64) *gltf.Animation {
	if take.LayerCount() > 1 {
		p.log.Warn("only the first layer of a take is written", "take", take.Name, "layers", take.LayerCount())
	}
	layer := take.Layer(0)
	if layer == nil || layer.Len() == 0 {
		p.log.Warn("take has no animated channels, not written", "take", take.Name)
		return nil
	}
	a := gltf.Animation{Name: take.Name}
	chans := layer.Channels()
	for i := 0; i < len(chans); {
		ch := chans[i]
		for i++; i < len(chans) && chans[i].Node == ch.Node && chans[i].Prop == ch.Prop; i++ {
		}
		gi := index(ch.Node)
		if gi < 0 {
			p.log.Warn("skipping channel of node with no glTF counterpart",
				"take", take.Name, "node", s.Graph.Path(ch.Node), "prop", ch.Prop)
			continue
		}
		var curves [3]*anim.Curve
		for _, ax := range anim.Axes {
			curves[ax] = layer.Curve(ch.Node, ch.Prop, ax, false)
		}
		smp, ok := sample(s.Graph.Data(ch.Node), ch.Prop, curves)
		if !ok {
			continue
		}
		if smp.resampled {
			p.log.Debug("resampled channel", "take", take.Name, "node", s.Graph.Path(ch.Node),
				"prop", ch.Prop, "keys", len(smp.times), "interp", smp.interp)
		}
		typ := gltf.VEC3
		if ch.Prop == anim.Rotation {
			typ = gltf.VEC4
		}
		var in, out int64
		*bin, in = doc.AppendFloats(*bin, smp.times, gltf.SCALAR, true)
		*bin, out = doc.AppendFloats(*bin, smp.values, typ, false)
		a.Samplers = append(a.Samplers, gltf.ASampler{
			Input:         in,
			Interpolation: interpNames[smp.interp],
			Output:        out,
		})
		a.Channels = append(a.Channels, gltf.AChannel{
			Sampler: int64(len(a.Samplers) - 1),
			Target:  gltf.ATarget{Node: &gi, Path: propPaths[ch.Prop]},
		})
	}
	if len(a.Channels) == 0 {
		p.log.Warn("take has no exportable channels, not written", "take", take.Name)
		return nil
	}
	extras := map[string]any{
		extraStop:  take.Stop.Seconds(),
		extraLayer: layer.Name,
	}
	if p.cfg.FrameRate > 0 {
		extras[extraFrameRate] = p.cfg.FrameRate
	}
	a.Extras = gltf.SetExtras(extras)
	return &a
}

// sampled is the glTF form of a property's X/Y/Z curves.
type sampled struct {
	times     []float32
	values    []float32
	interp    anim.Interp
	resampled bool
}

// aligned reports whether the three curves have the same
// key times and interpolations, with strictly increasing
// times and a single interpolation mode.
func aligned(curves [3]*anim.Curve) bool {
	x := curves[0]
	if x == nil || x.Len() == 0 {
		return false
	}
	for _, c := range curves[1:] {
		if c == nil || c.Len() != x.Len() {
			return false
		}
	}
	m := x.Interp(0)
	for i := 0; i < x.Len(); i++ {
		if i > 0 && x.Time(i) <= x.Time(i-1) {
			return false
		}
		for _, c := range curves {
			if c.Time(i) != x.Time(i) || c.Interp(i) != m {
				return false
			}
		}
	}
	return true
}

// sample converts the curves of a property to glTF form.
// Missing axes hold the node's static value.
// It returns false if none of the curves has keys.
func sample(d *node.Data, prop anim.Prop, curves [3]*anim.Curve) (sampled, bool) {
	var static linear.V3
	switch prop {
	case anim.Translation:
		static = d.Translation
	case anim.Rotation:
		static = d.Rotation.Angles()
	case anim.Scale:
		static = d.Scale
	}

	var smp sampled
	// Rows of X, Y, Z values, and of tangents for cubic.
	var rows, ins, outs []linear.V3
	if aligned(curves) {
		x := curves[0]
		smp.interp = x.Interp(0)
		if prop == anim.Rotation && smp.interp == anim.Cubic {
			smp.interp = anim.Linear
		}
		for i := 0; i < x.Len(); i++ {
			smp.times = append(smp.times, seconds(x.Time(i)))
			var v, in, out linear.V3
			for ax, c := range curves {
				k := c.Key(i)
				v[ax], in[ax], out[ax] = k.Value, k.InTangent, k.OutTangent
			}
			rows = append(rows, v)
			ins = append(ins, in)
			outs = append(outs, out)
		}
	} else {
		var ts []time.Duration
		smp.interp = anim.Constant
		for _, c := range curves {
			if c == nil {
				continue
			}
			for i := 0; i < c.Len(); i++ {
				ts = append(ts, c.Time(i))
				if c.Interp(i) != anim.Constant {
					smp.interp = anim.Linear
				}
			}
		}
		if len(ts) == 0 {
			return sampled{}, false
		}
		slices.Sort(ts)
		ts = slices.Compact(ts)
		smp.resampled = true
		for _, t := range ts {
			smp.times = append(smp.times, seconds(t))
			v := static
			for ax, c := range curves {
				if c != nil && c.Len() > 0 {
					v[ax] = c.Eval(t)
				}
			}
			rows = append(rows, v)
		}
	}

	for i, v := range rows {
		switch {
		case prop == anim.Rotation:
			var q linear.Q
			q.Euler(&v)
			smp.values = append(smp.values, q.V[0], q.V[1], q.V[2], q.R)
		case smp.interp == anim.Cubic:
			smp.values = append(smp.values, ins[i][:]...)
			smp.values = append(smp.values, v[:]...)
			smp.values = append(smp.values, outs[i][:]...)
		default:
			smp.values = append(smp.values, v[:]...)
		}
	}
	return smp, true
}

func seconds(t time.Duration) float32 { return float32(t.Seconds()) }
