// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// M3 is a column-major 3x3 matrix of float32.
type M3 [3]V3

// M4 is a column-major 4x4 matrix of float32.
type M4 [4]V4

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// Decompose splits the affine transform m into translation,
// rotation and scale.
// Shear and projection are discarded.
func (m *M4) Decompose() (t V3, r Q, s V3) {
	t = V3{m[3][0], m[3][1], m[3][2]}
	var rot M3
	for i := range rot {
		c := V3{m[i][0], m[i][1], m[i][2]}
		s[i] = c.Len()
		if s[i] != 0 {
			rot[i].Scale(1/s[i], &c)
		}
	}
	// A negative determinant means a mirrored basis.
	var x V3
	x.Cross(&rot[0], &rot[1])
	if x.Dot(&rot[2]) < 0 {
		s[0] = -s[0]
		rot[0].Scale(-1, &rot[0])
	}
	r.FromM3(&rot)
	r.Norm(&r)
	return
}
