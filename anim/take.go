// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package anim

import (
	"sort"
	"strconv"
	"time"

	"github.com/gviegas/animcombine/node"
)

// Prop identifies an animatable transform property.
type Prop int

// Transform properties.
const (
	Translation Prop = iota
	Rotation
	Scale
)

// Props lists the transform properties in merge order.
var Props = [...]Prop{Translation, Rotation, Scale}

// String implements fmt.Stringer.
func (p Prop) String() string {
	switch p {
	case Translation:
		return "translation"
	case Rotation:
		return "rotation"
	case Scale:
		return "scale"
	}
	return "Prop(" + strconv.Itoa(int(p)) + ")"
}

// Axis identifies a component of a Prop.
type Axis int

// Axes.
const (
	X Axis = iota
	Y
	Z
)

// Axes lists the axes in merge order.
var Axes = [...]Axis{X, Y, Z}

// String implements fmt.Stringer.
func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	}
	return "Axis(" + strconv.Itoa(int(a)) + ")"
}

// Channel addresses a Curve within a Layer.
type Channel struct {
	Node node.Node
	Prop Prop
	Axis Axis
}

// Layer is a single animation track of a Take.
// It is the addressing context for curves.
type Layer struct {
	Name   string
	curves map[Channel]*Curve
}

// NewLayer creates an empty layer.
func NewLayer(name string) *Layer {
	return &Layer{Name: name, curves: make(map[Channel]*Curve)}
}

// Curve returns the curve of n's p property along axis a.
// If no such curve exists, it returns nil, unless create
// is set, in which case an empty curve is created and
// returned.
func (l *Layer) Curve(n node.Node, p Prop, a Axis, create bool) *Curve {
	ch := Channel{n, p, a}
	c := l.curves[ch]
	if c == nil && create {
		if l.curves == nil {
			l.curves = make(map[Channel]*Curve)
		}
		c = new(Curve)
		l.curves[ch] = c
	}
	return c
}

// Len returns the number of curves in l.
func (l *Layer) Len() int { return len(l.curves) }

// Channels returns the channels of l's curves, ordered
// by node, then property, then axis.
func (l *Layer) Channels() []Channel {
	s := make([]Channel, 0, len(l.curves))
	for ch := range l.curves {
		s = append(s, ch)
	}
	sort.Slice(s, func(i, j int) bool {
		switch {
		case s[i].Node != s[j].Node:
			return s[i].Node < s[j].Node
		case s[i].Prop != s[j].Prop:
			return s[i].Prop < s[j].Prop
		}
		return s[i].Axis < s[j].Axis
	})
	return s
}

// Span returns the earliest and latest key times of
// all curves in l. ok is false if l has no keys.
func (l *Layer) Span() (first, last time.Duration, ok bool) {
	for _, c := range l.curves {
		f, e, k := c.Span()
		if !k {
			continue
		}
		if !ok || f < first {
			first = f
		}
		if !ok || e > last {
			last = e
		}
		ok = true
	}
	return
}

// Take is a named animation clip.
type Take struct {
	Name string

	// Stop is the declared end of the take.
	Stop time.Duration

	layers []*Layer
}

// NewTake creates a take with no layers.
func NewTake(name string) *Take { return &Take{Name: name} }

// AddLayer appends l to t's layers.
func (t *Take) AddLayer(l *Layer) { t.layers = append(t.layers, l) }

// CreateLayer creates a new layer named name and
// appends it to t's layers.
func (t *Take) CreateLayer(name string) *Layer {
	l := NewLayer(name)
	t.AddLayer(l)
	return l
}

// LayerCount returns the number of layers in t.
func (t *Take) LayerCount() int { return len(t.layers) }

// Layer returns the i-th layer of t, or nil if there
// is no such layer.
func (t *Take) Layer(i int) *Layer {
	if i < 0 || i >= len(t.layers) {
		return nil
	}
	return t.layers[i]
}
