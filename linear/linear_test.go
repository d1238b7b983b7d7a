// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
	"testing"
)

func near(a, b, eps float32) bool { return float32(math.Abs(float64(a-b))) <= eps }

func nearV3(a, b V3, eps float32) bool {
	for i := range a {
		if !near(a[i], b[i], eps) {
			return false
		}
	}
	return true
}

func TestV(t *testing.T) {
	var u V3
	v := V3{1, 2, 4}
	w := V3{0, -1, 2}

	if u.Add(&v, &w); u != (V3{1, 1, 6}) {
		t.Fatalf("V3.Add\nhave %v\nwant [1 1 6]", u)
	}
	if u.Sub(&v, &w); u != (V3{1, 3, 2}) {
		t.Fatalf("V3.Sub\nhave %v\nwant [1 3 2]", u)
	}
	if u.Scale(-1, &v); u != (V3{-1, -2, -4}) {
		t.Fatalf("V3.Scale\nhave %v\nwant [-1 -2 -4]", u)
	}
	if d := v.Dot(&w); d != 6 {
		t.Fatalf("V3.Dot\nhave %v\nwant 6\n", d)
	}
	if l := v.Len(); l != float32(math.Sqrt(21)) {
		t.Fatalf("V3.Len\nhave %v\nwant %v\n", l, math.Sqrt(21))
	}

	v = V3{0, 0, -2}
	w = V3{0, 4, 0}

	if v.Norm(&v); v != (V3{0, 0, -1}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 0 -1]", v)
	}
	if w.Norm(&w); w != (V3{0, 1, 0}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 1 0]", w)
	}
	if u.Cross(&v, &w); u != (V3{1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [1 0 0]", u)
	}
	if u.Cross(&w, &v); u != (V3{-1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [-1 0 0]", u)
	}
}

func TestQ(t *testing.T) {
	var r Q
	q := Q{V: V3{1, 0, 0}, R: 3}
	p := Q{V: V3{0, 1, 0}, R: 3}

	if r.Mul(&q, &p); r.V != (V3{3, 3, 1}) || r.R != 9 {
		t.Fatalf("Q.Mul\nhave %v\nwant {[3 3 1] 9}", r)
	}
	if r.Mul(&p, &q); r.V != (V3{3, 3, -1}) || r.R != 9 {
		t.Fatalf("Q.Mul\nhave %v\nwant {[3 3 -1] 9}", r)
	}
	if r.Norm(&Q{}); r != (Q{R: 1}) {
		t.Fatalf("Q.Norm\nhave %v\nwant identity", r)
	}
}

func TestEuler(t *testing.T) {
	for _, e := range [...]V3{
		{},
		{90, 0, 0},
		{0, 45, 0},
		{0, 0, -120},
		{30, 60, 10},
		{-170, 20, 175},
		{12.5, -89, 3},
	} {
		var q Q
		q.Euler(&e)
		if x := q.Dot(&q); !near(x, 1, 1e-5) {
			t.Fatalf("Q.Euler(%v): |q|²\nhave %v\nwant 1", e, x)
		}
		if a := q.Angles(); !nearV3(a, e, 1e-2) {
			t.Fatalf("Q.Angles\nhave %v\nwant %v", a, e)
		}
	}

	// A single-axis rotation must match Q.Rotate.
	var q, p Q
	q.Euler(&V3{0, 0, 90})
	p.Rotate(math.Pi/2, &V3{0, 0, 1})
	if !nearV3(q.V, p.V, 1e-6) || !near(q.R, p.R, 1e-6) {
		t.Fatalf("Q.Euler\nhave %v\nwant %v", q, p)
	}

	// Composition order is X, then Y, then Z.
	var qx, qy, qz, c Q
	qx.Rotate(float32(Rad(30)), &V3{1})
	qy.Rotate(float32(Rad(60)), &V3{0, 1})
	qz.Rotate(float32(Rad(10)), &V3{0, 0, 1})
	c.Mul(&qz, &qy)
	c.Mul(&c, &qx)
	q.Euler(&V3{30, 60, 10})
	if !nearV3(q.V, c.V, 1e-6) || !near(q.R, c.R, 1e-6) {
		t.Fatalf("Q.Euler\nhave %v\nwant %v", q, c)
	}
}

func TestUnwrap(t *testing.T) {
	for _, x := range [...][3]float32{
		{0, 10, 10},
		{170, -170, 190},
		{-170, 170, -190},
		{350, 5, 365},
		{0, 180, 180},
	} {
		if u := Unwrap(x[0], x[1]); !near(u, x[2], 1e-4) {
			t.Fatalf("Unwrap(%v, %v)\nhave %v\nwant %v", x[0], x[1], u, x[2])
		}
	}
}

func TestDecompose(t *testing.T) {
	var q Q
	q.Euler(&V3{0, 90, 0})
	// Column-major rotation of 90° about Y, scaled by 2, moved by (1, 2, 3).
	m := M4{
		{0, 0, -2, 0},
		{0, 2, 0, 0},
		{2, 0, 0, 0},
		{1, 2, 3, 1},
	}
	tr, r, s := m.Decompose()
	if tr != (V3{1, 2, 3}) {
		t.Fatalf("M4.Decompose: translation\nhave %v\nwant [1 2 3]", tr)
	}
	if s != (V3{2, 2, 2}) {
		t.Fatalf("M4.Decompose: scale\nhave %v\nwant [2 2 2]", s)
	}
	if d := r.Dot(&q); !near(float32(math.Abs(float64(d))), 1, 1e-5) {
		t.Fatalf("M4.Decompose: rotation\nhave %v\nwant %v", r, q)
	}

	m.I()
	if tr, r, s = m.Decompose(); tr != (V3{}) || r != (Q{R: 1}) || s != (V3{1, 1, 1}) {
		t.Fatalf("M4.Decompose: identity\nhave %v %v %v", tr, r, s)
	}
}
