// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/binary"
	"io"
)

// GLB header.
type glbHeader [3]uint32

// Indices in glbHeader.
const (
	headerMagic   = 0
	headerVersion = 1
	headerLength  = 2
)

// GLB chunk.
type glbChunk [2]uint32

// Indices in glbChunk.
const (
	chunkLength = 0
	chunkType   = 1
	// Then payload.
)

const (
	// glbHeader[headerMagic].
	magic = 0x46546c67

	// glbChunk[chunkType].
	typeJSON = 0x4e4f534a
	typeBIN  = 0x004e4942

	headerSize = 12
	chunkSize  = 8
)

// IsGLB returns whether b starts with a binary glTF
// (version 2) header.
func IsGLB(b []byte) bool {
	if len(b) < headerSize {
		return false
	}
	return binary.LittleEndian.Uint32(b) == magic &&
		binary.LittleEndian.Uint32(b[4:]) == 2
}

// ReadGLB decodes the GLB blob b.
// It returns the document and the payload of the BIN
// chunk, which is nil if the blob has none.
// The BIN payload aliases b.
func ReadGLB(b []byte) (*GLTF, []byte, error) {
	if !IsGLB(b) {
		return nil, nil, newErr("not a GLB blob")
	}
	var h glbHeader
	for i := range h {
		h[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	if int64(h[headerLength]) > int64(len(b)) {
		return nil, nil, newErr("truncated GLB blob")
	}
	b = b[:h[headerLength]]
	off := headerSize
	var gltf *GLTF
	var bin []byte
	for i := 0; off+chunkSize <= len(b); i++ {
		var c glbChunk
		c[chunkLength] = binary.LittleEndian.Uint32(b[off:])
		c[chunkType] = binary.LittleEndian.Uint32(b[off+4:])
		off += chunkSize
		end := off + int(c[chunkLength])
		if end > len(b) || end < off {
			return nil, nil, newErr("invalid GLB chunk length")
		}
		data := b[off:end]
		off = end
		switch {
		case i == 0 && c[chunkType] == typeJSON:
			var err error
			if gltf, err = Decode(bytes.NewReader(data)); err != nil {
				return nil, nil, err
			}
		case i == 0:
			return nil, nil, newErr("first GLB chunk is not JSON")
		case i == 1 && c[chunkType] == typeBIN:
			bin = data
		default:
			// Unknown chunks must be ignored.
		}
	}
	if gltf == nil {
		return nil, nil, newErr("GLB blob has no JSON chunk")
	}
	return gltf, bin, nil
}

// WriteGLB encodes gltf and bin as a GLB blob into w.
// bin may be nil, in which case no BIN chunk is written.
func WriteGLB(w io.Writer, gltf *GLTF, bin []byte) error {
	var js bytes.Buffer
	if err := Encode(&js, gltf); err != nil {
		return err
	}
	for js.Len()%4 != 0 {
		js.WriteByte(' ')
	}
	pad := (4 - len(bin)%4) % 4
	n := headerSize + chunkSize + js.Len()
	if bin != nil {
		n += chunkSize + len(bin) + pad
	}

	var out bytes.Buffer
	out.Grow(n)
	binary.Write(&out, binary.LittleEndian, glbHeader{magic, 2, uint32(n)})
	binary.Write(&out, binary.LittleEndian, glbChunk{uint32(js.Len()), typeJSON})
	out.Write(js.Bytes())
	if bin != nil {
		binary.Write(&out, binary.LittleEndian, glbChunk{uint32(len(bin) + pad), typeBIN})
		out.Write(bin)
		out.Write(make([]byte, pad))
	}
	_, err := w.Write(out.Bytes())
	return err
}
