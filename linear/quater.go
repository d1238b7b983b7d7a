// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
)

// Q is a quaternion of float32.
type Q struct {
	V V3
	R float32
}

// I makes q an identity quaternion.
func (q *Q) I() { *q = Q{R: 1} }

// Mul sets q to contain l ⋅ r.
func (q *Q) Mul(l, r *Q) {
	var v, w V3
	v.Scale(r.R, &l.V)
	w.Scale(l.R, &r.V)
	v.Add(&v, &w)
	w.Cross(&l.V, &r.V)
	d := l.V.Dot(&r.V)
	q.V.Add(&v, &w)
	q.R = l.R*r.R - d
}

// Dot returns q ⋅ p.
func (q *Q) Dot(p *Q) float32 { return q.V.Dot(&p.V) + q.R*p.R }

// Norm sets q to contain p normalized.
// A zero p yields the identity.
func (q *Q) Norm(p *Q) {
	n := float32(math.Sqrt(float64(p.Dot(p))))
	if n == 0 {
		q.I()
		return
	}
	q.V.Scale(1/n, &p.V)
	q.R = p.R / n
}

// Rotate sets q to contain a rotation of angle radians
// about axis.
// axis must be a unit vector.
func (q *Q) Rotate(angle float32, axis *V3) {
	s, c := math.Sincos(float64(angle) / 2)
	q.V.Scale(float32(s), axis)
	q.R = float32(c)
}

// Euler sets q to contain the rotation described by the
// XYZ Euler angles e, in degrees.
// The X rotation is applied first and the Z rotation last
// (i.e., q = qz ⋅ qy ⋅ qx).
func (q *Q) Euler(e *V3) {
	sx, cx := math.Sincos(Rad(float64(e[0])) / 2)
	sy, cy := math.Sincos(Rad(float64(e[1])) / 2)
	sz, cz := math.Sincos(Rad(float64(e[2])) / 2)
	q.V[0] = float32(sx*cy*cz - cx*sy*sz)
	q.V[1] = float32(cx*sy*cz + sx*cy*sz)
	q.V[2] = float32(cx*cy*sz - sx*sy*cz)
	q.R = float32(cx*cy*cz + sx*sy*sz)
}

// Angles returns the XYZ Euler angles of q, in degrees.
// It is the inverse of Q.Euler for Y in (-90, 90).
// q need not be normalized.
func (q *Q) Angles() V3 {
	var n Q
	n.Norm(q)
	x, y, z, w := float64(n.V[0]), float64(n.V[1]), float64(n.V[2]), float64(n.R)
	ax := math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	sy := 2 * (w*y - z*x)
	switch {
	case sy > 1:
		sy = 1
	case sy < -1:
		sy = -1
	}
	ay := math.Asin(sy)
	az := math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	return V3{float32(Deg(ax)), float32(Deg(ay)), float32(Deg(az))}
}

// FromM3 sets q to contain the rotation described by
// the orthonormal matrix m.
func (q *Q) FromM3(m *M3) {
	// m is column-major: m[col][row].
	tr := m[0][0] + m[1][1] + m[2][2]
	switch {
	case tr > 0:
		s := float32(math.Sqrt(float64(tr)+1)) * 2
		q.R = s / 4
		q.V = V3{(m[1][2] - m[2][1]) / s, (m[2][0] - m[0][2]) / s, (m[0][1] - m[1][0]) / s}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := float32(math.Sqrt(float64(1+m[0][0]-m[1][1]-m[2][2]))) * 2
		q.R = (m[1][2] - m[2][1]) / s
		q.V = V3{s / 4, (m[1][0] + m[0][1]) / s, (m[2][0] + m[0][2]) / s}
	case m[1][1] > m[2][2]:
		s := float32(math.Sqrt(float64(1+m[1][1]-m[0][0]-m[2][2]))) * 2
		q.R = (m[2][0] - m[0][2]) / s
		q.V = V3{(m[1][0] + m[0][1]) / s, s / 4, (m[2][1] + m[1][2]) / s}
	default:
		s := float32(math.Sqrt(float64(1+m[2][2]-m[0][0]-m[1][1]))) * 2
		q.R = (m[0][1] - m[1][0]) / s
		q.V = V3{(m[2][0] + m[0][2]) / s, (m[2][1] + m[1][2]) / s, s / 4}
	}
}

// Unwrap returns the angle in degrees equivalent to deg
// that is closest to prev.
// It is used to keep consecutive Euler keys continuous.
func Unwrap(prev, deg float32) float32 {
	d := math.Remainder(float64(deg-prev), 360)
	return prev + float32(d)
}
