// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package anim defines animation takes, layers, curves
// and keyframes.
package anim

import (
	"math"
	"strconv"
	"time"
)

// Interp is the interpolation mode of a key.
// It determines how values between the key and the
// next one are computed.
type Interp int

// Interpolation modes.
const (
	Constant Interp = iota
	Linear
	Cubic
)

// String implements fmt.Stringer.
func (m Interp) String() string {
	switch m {
	case Constant:
		return "constant"
	case Linear:
		return "linear"
	case Cubic:
		return "cubic"
	}
	return "Interp(" + strconv.Itoa(int(m)) + ")"
}

// Key is a single keyframe of a Curve.
type Key struct {
	Time   time.Duration
	Value  float32
	Interp Interp

	// Hermite tangents, in value units per second.
	// Only meaningful for Cubic keys.
	InTangent  float32
	OutTangent float32
}

// Seconds converts a time in seconds to a Duration,
// rounding to the nearest nanosecond.
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
