// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"encoding/binary"
	"math"
)

// componentSize returns the size in bytes of a component
// of type ct, or 0 if ct is not valid.
func componentSize(ct int64) int {
	switch ct {
	case BYTE, UNSIGNED_BYTE:
		return 1
	case SHORT, UNSIGNED_SHORT:
		return 2
	case UNSIGNED_INT, FLOAT:
		return 4
	}
	return 0
}

// componentCount returns the number of components of an
// accessor.type value, or 0 if typ is not valid.
func componentCount(typ string) int {
	switch typ {
	case SCALAR:
		return 1
	case VEC2:
		return 2
	case VEC3:
		return 3
	case VEC4, MAT2:
		return 4
	case MAT3:
		return 9
	case MAT4:
		return 16
	}
	return 0
}

// ComponentCount returns the number of components in
// each element of accessor a.
func (a *Accessor) ComponentCount() int { return componentCount(a.Type) }

// maxZeroCount bounds the element count of accessors
// that have no buffer view (and thus read as zeros).
const maxZeroCount = 1 << 24

// ReadFloats reads the elements of accessor idx as
// float32 values, flattened.
// bin is the content of the (single) buffer that the
// accessor's buffer view refers to.
// Normalized integer components are converted as
// mandated by the glTF specification.
func (f *GLTF) ReadFloats(idx int64, bin []byte) ([]float32, error) {
	if !inRange(idx, len(f.Accessors)) {
		return nil, newErr("invalid accessor index")
	}
	a := &f.Accessors[idx]
	if len(a.Sparse) > 0 {
		return nil, newErr("sparse accessors are not supported")
	}
	nc := componentCount(a.Type)
	cs := componentSize(a.ComponentType)
	if nc == 0 || cs == 0 {
		return nil, newErr("invalid accessor type")
	}
	if a.Count < 1 {
		return nil, newErr("invalid Accessor.Count value")
	}
	elem := int64(nc * cs)
	if a.BufferView == nil {
		if a.Count > maxZeroCount {
			return nil, newErr("accessor without buffer view is too large")
		}
		return make([]float32, int(a.Count)*nc), nil
	}
	if !inRange(*a.BufferView, len(f.BufferViews)) {
		return nil, newErr("invalid Accessor.BufferView index")
	}
	v := &f.BufferViews[*a.BufferView]
	stride := v.ByteStride
	if stride == 0 {
		stride = elem
	} else if stride < elem {
		return nil, newErr("BufferView.ByteStride is smaller than accessor element")
	}
	// Count is untrusted: check it in int64 before
	// allocating.
	start := v.ByteOffset + a.ByteOffset
	limit := min(v.ByteOffset+v.ByteLength, int64(len(bin)))
	if start < 0 || limit-start < elem || a.Count-1 > (limit-start-elem)/stride {
		return nil, newErr("accessor data out of bounds")
	}
	out := make([]float32, int(a.Count)*nc)
	off, step := int(start), int(stride)
	for i := 0; i < int(a.Count); i++ {
		b := bin[off+i*step:]
		for j := 0; j < nc; j++ {
			out[i*nc+j] = component(b[j*cs:], a.ComponentType, a.Normalized)
		}
	}
	return out, nil
}

func component(b []byte, ct int64, norm bool) float32 {
	var x, unit float32
	switch ct {
	case FLOAT:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case BYTE:
		x, unit = float32(int8(b[0])), 127
	case UNSIGNED_BYTE:
		x, unit = float32(b[0]), 255
	case SHORT:
		x, unit = float32(int16(binary.LittleEndian.Uint16(b))), 32767
	case UNSIGNED_SHORT:
		x, unit = float32(binary.LittleEndian.Uint16(b)), 65535
	case UNSIGNED_INT:
		x, unit = float32(binary.LittleEndian.Uint32(b)), 4294967295
	}
	if !norm {
		return x
	}
	if x /= unit; x < -1 {
		x = -1
	}
	return x
}

// AppendFloats appends data to bin as a tightly packed
// FLOAT accessor of type typ, creating the buffer view
// and accessor in f.
// The buffer view refers to buffer 0. Min/max bounds are
// computed when bounds is set.
// It returns the updated bin and the accessor index.
func (f *GLTF) AppendFloats(bin []byte, data []float32, typ string, bounds bool) ([]byte, int64) {
	nc := componentCount(typ)
	if nc == 0 || len(data)%nc != 0 || len(data) == 0 {
		panic("gltf: invalid data for AppendFloats")
	}
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}
	off := len(bin)
	for _, x := range data {
		bin = binary.LittleEndian.AppendUint32(bin, math.Float32bits(x))
	}
	view := int64(len(f.BufferViews))
	f.BufferViews = append(f.BufferViews, BufferView{
		Buffer:     0,
		ByteOffset: int64(off),
		ByteLength: int64(len(data) * 4),
	})
	a := Accessor{
		BufferView:    &view,
		ComponentType: FLOAT,
		Count:         int64(len(data) / nc),
		Type:          typ,
	}
	if bounds {
		a.Min = append([]float32(nil), data[:nc]...)
		a.Max = append([]float32(nil), data[:nc]...)
		for i := nc; i < len(data); i++ {
			j := i % nc
			a.Min[j] = float32(math.Min(float64(a.Min[j]), float64(data[i])))
			a.Max[j] = float32(math.Max(float64(a.Max[j]), float64(data[i])))
		}
	}
	f.Accessors = append(f.Accessors, a)
	return bin, int64(len(f.Accessors) - 1)
}
