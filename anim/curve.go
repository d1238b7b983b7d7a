// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package anim

import (
	"sort"
	"time"
)

// Curve is a sequence of keys for a single scalar
// channel.
// Keys are kept in non-decreasing time order; keys
// with equal times are kept in insertion order.
// The zero value is an empty curve ready for use.
type Curve struct {
	keys  []Key
	edit  int
	dirty bool
}

// NewCurve creates a curve holding a copy of keys.
// keys need not be sorted.
func NewCurve(keys ...Key) *Curve {
	c := &Curve{keys: append([]Key(nil), keys...)}
	c.sort()
	return c
}

// Len returns the number of keys in c.
func (c *Curve) Len() int { return len(c.keys) }

// Key returns the i-th key of c.
func (c *Curve) Key(i int) Key { return c.keys[i] }

// Time returns the time of the i-th key of c.
func (c *Curve) Time(i int) time.Duration { return c.keys[i].Time }

// Value returns the value of the i-th key of c.
func (c *Curve) Value(i int) float32 { return c.keys[i].Value }

// Interp returns the interpolation of the i-th key of c.
func (c *Curve) Interp(i int) Interp { return c.keys[i].Interp }

// Keys returns a copy of the keys of c.
func (c *Curve) Keys() []Key { return append([]Key(nil), c.keys...) }

// Add adds a new Linear key of value 0 at time t and
// returns its index.
// Outside of an edit, the key is placed after any key
// whose time is not greater than t.
// Inside of an edit, the key is appended and the index
// is only valid until the edit ends.
func (c *Curve) Add(t time.Duration) int {
	k := Key{Time: t, Interp: Linear}
	if c.edit > 0 {
		if n := len(c.keys); n > 0 && c.keys[n-1].Time > t {
			c.dirty = true
		}
		c.keys = append(c.keys, k)
		return len(c.keys) - 1
	}
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].Time > t })
	c.keys = append(c.keys, Key{})
	copy(c.keys[i+1:], c.keys[i:])
	c.keys[i] = k
	return i
}

// SetValue sets the value of the i-th key of c.
func (c *Curve) SetValue(i int, v float32) { c.keys[i].Value = v }

// SetInterp sets the interpolation of the i-th key of c.
func (c *Curve) SetInterp(i int, m Interp) { c.keys[i].Interp = m }

// SetTangents sets the tangents of the i-th key of c.
func (c *Curve) SetTangents(i int, in, out float32) {
	c.keys[i].InTangent = in
	c.keys[i].OutTangent = out
}

// BeginEdit starts a bulk edit of c.
// Keys added during the edit are ordered once, when
// the outermost EndEdit is called.
// Edits can be nested.
func (c *Curve) BeginEdit() { c.edit++ }

// EndEdit ends a bulk edit of c.
// It panics if c is not being edited.
func (c *Curve) EndEdit() {
	if c.edit == 0 {
		panic("anim: Curve.EndEdit without BeginEdit")
	}
	c.edit--
	if c.edit == 0 && c.dirty {
		c.sort()
	}
}

// Editing returns whether c is being edited.
func (c *Curve) Editing() bool { return c.edit > 0 }

func (c *Curve) sort() {
	sort.SliceStable(c.keys, func(i, j int) bool { return c.keys[i].Time < c.keys[j].Time })
	c.dirty = false
}

// Eval evaluates c at time t.
// Times outside of the key range evaluate to the value
// of the nearest key. An empty curve evaluates to 0.
// It panics if c is being edited.
func (c *Curve) Eval(t time.Duration) float32 {
	if c.edit > 0 {
		panic("anim: Curve.Eval during edit")
	}
	n := len(c.keys)
	switch {
	case n == 0:
		return 0
	case t <= c.keys[0].Time:
		return c.keys[0].Value
	case t >= c.keys[n-1].Time:
		return c.keys[n-1].Value
	}
	i := sort.Search(n, func(i int) bool { return c.keys[i].Time > t }) - 1
	k0, k1 := &c.keys[i], &c.keys[i+1]
	dt := (k1.Time - k0.Time).Seconds()
	s := float32((t - k0.Time).Seconds() / dt)
	switch k0.Interp {
	case Constant:
		return k0.Value
	case Cubic:
		s2 := s * s
		s3 := s2 * s
		d := float32(dt)
		return (2*s3-3*s2+1)*k0.Value +
			(s3-2*s2+s)*d*k0.OutTangent +
			(-2*s3+3*s2)*k1.Value +
			(s3-s2)*d*k1.InTangent
	default:
		return k0.Value + s*(k1.Value-k0.Value)
	}
}

// Span returns the times of the first and last keys
// of c. ok is false if c has no keys.
func (c *Curve) Span() (first, last time.Duration, ok bool) {
	if len(c.keys) == 0 {
		return
	}
	return c.keys[0].Time, c.keys[len(c.keys)-1].Time, true
}
