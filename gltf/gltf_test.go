// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"strings"
	"testing"
)

func i64(x int64) *int64 { return &x }

// animDoc creates a document with a two-node hierarchy
// and a single translation animation.
func animDoc(t *testing.T) (*GLTF, []byte) {
	f := &GLTF{}
	f.Asset.Version = "2.0"
	f.Nodes = []Node{{Name: "Root", Children: []int64{1}}, {Name: "Bone"}}
	f.Scenes = []Scene{{Nodes: []int64{0}}}
	f.Scene = i64(0)
	f.Meshes = []json.RawMessage{json.RawMessage(`{"primitives":[{"attributes":{"POSITION":0}}]}`)}
	var bin []byte
	bin, in := f.AppendFloats(bin, []float32{0, 1}, SCALAR, true)
	bin, out := f.AppendFloats(bin, []float32{0, 0, 0, 5, 0, 0}, VEC3, false)
	f.Buffers = []Buffer{{ByteLength: int64(len(bin))}}
	f.Animations = []Animation{{
		Name:     "Walk",
		Channels: []AChannel{{Sampler: 0, Target: ATarget{Node: i64(1), Path: Ptranslation}}},
		Samplers: []ASampler{{Input: in, Output: out, Interpolation: ILINEAR}},
		Extras:   SetExtras(map[string]any{"stopTime": 2.5}),
	}}
	if err := f.Check(); err != nil {
		t.Fatalf("animDoc: Check\nhave %v\nwant nil", err)
	}
	return f, bin
}

func TestGLTF(t *testing.T) {
	f, _ := animDoc(t)
	var buf bytes.Buffer
	if err := Encode(&buf, f); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	g, err := Decode(strings.NewReader(s))
	if err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := Encode(&buf, g); err != nil {
		t.Fatal(err)
	}
	if x := buf.String(); x != s {
		t.Fatalf("Encode(Decode(Encode(f)))\nhave %s\nwant %s", x, s)
	}
	if x := string(g.Meshes[0]); x != string(f.Meshes[0]) {
		t.Fatalf("Decode: raw mesh\nhave %s\nwant %s", x, f.Meshes[0])
	}
	if x := Extras(g.Animations[0].Extras)["stopTime"]; x != 2.5 {
		t.Fatalf("Extras: stopTime\nhave %v\nwant 2.5", x)
	}
	if _, err := Decode(strings.NewReader(`{"asset":`)); err == nil {
		t.Fatal("Decode: truncated JSON\nhave nil\nwant error")
	}
}

func TestGLB(t *testing.T) {
	f, bin := animDoc(t)
	var buf bytes.Buffer
	if err := WriteGLB(&buf, f, bin); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	if len(b)%4 != 0 {
		t.Fatalf("WriteGLB: length\nhave %d\nwant multiple of 4", len(b))
	}
	if !IsGLB(b) {
		t.Fatal("IsGLB(b):\nwant true\nhave false")
	}
	if IsGLB([]byte(`{"asset":{"version":"2.0"}}`)) {
		t.Fatal("IsGLB(json):\nwant false\nhave true")
	}
	if x := binary.LittleEndian.Uint32(b[8:]); int(x) != len(b) {
		t.Fatalf("WriteGLB: header length\nhave %d\nwant %d", x, len(b))
	}
	g, gbin, err := ReadGLB(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(gbin[:len(bin)], bin) {
		t.Fatal("ReadGLB: BIN chunk differs")
	}
	if g.Animations[0].Name != "Walk" || len(g.Nodes) != 2 {
		t.Fatalf("ReadGLB: document\nhave %+v", g)
	}

	if _, _, err := ReadGLB(b[:len(b)-4]); err == nil {
		t.Fatal("ReadGLB: truncated\nhave nil\nwant error")
	}

	buf.Reset()
	if err := WriteGLB(&buf, f, nil); err != nil {
		t.Fatal(err)
	}
	if _, gbin, err = ReadGLB(buf.Bytes()); err != nil || gbin != nil {
		t.Fatalf("ReadGLB: no BIN\nhave %v, %v\nwant nil, nil", gbin, err)
	}
}

func TestReadFloats(t *testing.T) {
	f, bin := animDoc(t)
	x, err := f.ReadFloats(0, bin)
	if err != nil || len(x) != 2 || x[0] != 0 || x[1] != 1 {
		t.Fatalf("ReadFloats(input)\nhave %v, %v\nwant [0 1], nil", x, err)
	}
	if a := f.Accessors[0]; a.Min[0] != 0 || a.Max[0] != 1 {
		t.Fatalf("AppendFloats: bounds\nhave %v %v\nwant [0] [1]", a.Min, a.Max)
	}
	x, err = f.ReadFloats(1, bin)
	if err != nil || len(x) != 6 || x[3] != 5 {
		t.Fatalf("ReadFloats(output)\nhave %v, %v\nwant [0 0 0 5 0 0], nil", x, err)
	}
	if _, err := f.ReadFloats(9, bin); err == nil {
		t.Fatal("ReadFloats: bad index\nhave nil\nwant error")
	}
	if _, err := f.ReadFloats(1, bin[:10]); err == nil {
		t.Fatal("ReadFloats: short buffer\nhave nil\nwant error")
	}

	// Normalized shorts, interleaved with a stride of 8.
	g := &GLTF{}
	g.Asset.Version = "2.0"
	sb := make([]byte, 16)
	binary.LittleEndian.PutUint16(sb[0:], uint16(32767))
	binary.LittleEndian.PutUint16(sb[2:], uint16(0x8000))
	binary.LittleEndian.PutUint16(sb[8:], 0)
	binary.LittleEndian.PutUint16(sb[10:], uint16(0xc001)) // -16383
	g.Buffers = []Buffer{{ByteLength: 16}}
	g.BufferViews = []BufferView{{ByteLength: 16, ByteStride: 8}}
	g.Accessors = []Accessor{{BufferView: i64(0), ComponentType: SHORT, Normalized: true, Count: 2, Type: VEC2}}
	if err := g.Check(); err != nil {
		t.Fatal(err)
	}
	x, err = g.ReadFloats(0, sb)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{1, -1, 0, -16383.0 / 32767}
	for i := range want {
		if x[i] != want[i] {
			t.Fatalf("ReadFloats(normalized)\nhave %v\nwant %v", x, want)
		}
	}

	// Huge counts fail without allocating.
	g.Accessors[0].Count = 1 << 61
	g.Accessors[0].Type = VEC4
	if err := g.Check(); err != nil {
		t.Fatal(err)
	}
	if x, err = g.ReadFloats(0, sb); err == nil {
		t.Fatalf("ReadFloats(huge count)\nhave %d values, nil\nwant error", len(x))
	}
	g.Accessors[0].Count = 3
	if _, err = g.ReadFloats(0, sb); err == nil {
		t.Fatal("ReadFloats(count past view)\nhave nil\nwant error")
	}
	g.Accessors[0].Count = 2
	g.Accessors[0].Type = VEC2

	// No buffer view means zeros.
	g.Accessors = append(g.Accessors, Accessor{ComponentType: FLOAT, Count: 3, Type: SCALAR})
	if x, err = g.ReadFloats(1, nil); err != nil || len(x) != 3 || x[0] != 0 {
		t.Fatalf("ReadFloats(no view)\nhave %v, %v\nwant [0 0 0], nil", x, err)
	}
	g.Accessors[1].Count = 1 << 61
	if _, err = g.ReadFloats(1, nil); err == nil {
		t.Fatal("ReadFloats(no view, huge count)\nhave nil\nwant error")
	}
}

func TestCheck(t *testing.T) {
	for _, x := range [...]struct {
		name string
		mod  func(*GLTF)
	}{
		{"version", func(f *GLTF) { f.Asset.Version = "" }},
		{"scene", func(f *GLTF) { f.Scene = i64(1) }},
		{"child", func(f *GLTF) { f.Nodes[1].Children = []int64{7} }},
		{"self", func(f *GLTF) { f.Nodes[1].Children = []int64{1} }},
		{"two parents", func(f *GLTF) {
			f.Nodes = append(f.Nodes, Node{Children: []int64{1}})
		}},
		{"cycle", func(f *GLTF) { f.Nodes[1].Children = []int64{0} }},
		{"mesh", func(f *GLTF) { f.Nodes[0].Mesh = i64(1) }},
		{"path", func(f *GLTF) { f.Animations[0].Channels[0].Target.Path = "color" }},
		{"sampler", func(f *GLTF) { f.Animations[0].Channels[0].Sampler = 1 }},
		{"interp", func(f *GLTF) { f.Animations[0].Samplers[0].Interpolation = "SMOOTH" }},
		{"input", func(f *GLTF) { f.Animations[0].Samplers[0].Input = 5 }},
		{"view", func(f *GLTF) { f.BufferViews[1].ByteLength = 1 << 20 }},
		{"stride", func(f *GLTF) { f.BufferViews[0].ByteStride = 2 }},
		{"component", func(f *GLTF) { f.Accessors[0].ComponentType = 1 }},
		{"type", func(f *GLTF) { f.Accessors[0].Type = "VEC5" }},
		{"count", func(f *GLTF) { f.Accessors[0].Count = 0 }},
	} {
		f, _ := animDoc(t)
		x.mod(f)
		if err := f.Check(); err == nil {
			t.Fatalf("Check(%s)\nhave nil\nwant error", x.name)
		} else if !strings.HasPrefix(err.Error(), "gltf: ") {
			t.Fatalf("Check(%s): prefix\nhave %q\nwant \"gltf: ...\"", x.name, err)
		}
	}
}

func TestDataURI(t *testing.T) {
	b := []byte{0, 1, 2, 250, 251}
	uri := EncodeDataURI(b)
	if !strings.HasPrefix(uri, "data:application/octet-stream;base64,") {
		t.Fatalf("EncodeDataURI\nhave %q", uri)
	}
	x, ok, err := DecodeDataURI(uri)
	if !ok || err != nil || !bytes.Equal(x, b) {
		t.Fatalf("DecodeDataURI\nhave %v, %t, %v\nwant %v, true, nil", x, ok, err, b)
	}
	if _, ok, err = DecodeDataURI("anim.bin"); ok || err != nil {
		t.Fatalf("DecodeDataURI(relative)\nhave %t, %v\nwant false, nil", ok, err)
	}
	if _, ok, err = DecodeDataURI("data:text/plain,hello"); !ok || err == nil {
		t.Fatalf("DecodeDataURI(plain)\nhave %t, %v\nwant true, error", ok, err)
	}
	x, ok, err = DecodeDataURI("data:application/gltf-buffer;base64,AAEC")
	if !ok || err != nil || !bytes.Equal(x, []byte{0, 1, 2}) {
		t.Fatalf("DecodeDataURI(gltf-buffer)\nhave %v, %t, %v", x, ok, err)
	}
}
