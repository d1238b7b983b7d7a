// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package gltf implements glTF 2.0 serialization.
//
// Only the parts of a document that animation tooling
// needs to inspect are typed. Everything else is kept
// as raw JSON so that a decoded document can be encoded
// again without loss.
package gltf

import (
	"encoding/json"
	"io"
)

// Root glTF object.
type GLTF struct {
	ExtensionsUsed     []string          `json:"extensionsUsed,omitempty"`
	ExtensionsRequired []string          `json:"extensionsRequired,omitempty"`
	Accessors          []Accessor        `json:"accessors,omitempty"`
	Animations         []Animation       `json:"animations,omitempty"`
	Asset              Asset             `json:"asset"`
	Buffers            []Buffer          `json:"buffers,omitempty"`
	BufferViews        []BufferView      `json:"bufferViews,omitempty"`
	Cameras            []json.RawMessage `json:"cameras,omitempty"`
	Images             []json.RawMessage `json:"images,omitempty"`
	Materials          []json.RawMessage `json:"materials,omitempty"`
	Meshes             []json.RawMessage `json:"meshes,omitempty"`
	Nodes              []Node            `json:"nodes,omitempty"`
	Samplers           []json.RawMessage `json:"samplers,omitempty"`
	Scene              *int64            `json:"scene,omitempty"`
	Scenes             []Scene           `json:"scenes,omitempty"`
	Skins              []json.RawMessage `json:"skins,omitempty"`
	Textures           []json.RawMessage `json:"textures,omitempty"`
	Extensions         json.RawMessage   `json:"extensions,omitempty"`
	Extras             json.RawMessage   `json:"extras,omitempty"`
}

// glTF.asset.
type Asset struct {
	Copyright  string          `json:"copyright,omitempty"`
	Generator  string          `json:"generator,omitempty"`
	Version    string          `json:"version"`
	MinVersion string          `json:"minVersion,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// glTF.accessors' element.
type Accessor struct {
	BufferView    *int64          `json:"bufferView,omitempty"`
	ByteOffset    int64           `json:"byteOffset,omitempty"` // Default is 0.
	ComponentType int64           `json:"componentType"`
	Normalized    bool            `json:"normalized,omitempty"`
	Count         int64           `json:"count"`
	Type          string          `json:"type"`
	Max           []float32       `json:"max,omitempty"`
	Min           []float32       `json:"min,omitempty"`
	Sparse        json.RawMessage `json:"sparse,omitempty"`
	Name          string          `json:"name,omitempty"`
	Extensions    json.RawMessage `json:"extensions,omitempty"`
	Extras        json.RawMessage `json:"extras,omitempty"`
}

// accessor.*.componentType values.
const (
	BYTE           = 5120
	UNSIGNED_BYTE  = 5121
	SHORT          = 5122
	UNSIGNED_SHORT = 5123
	UNSIGNED_INT   = 5125
	FLOAT          = 5126
)

// accessor.type values.
const (
	SCALAR = "SCALAR"
	VEC2   = "VEC2"
	VEC3   = "VEC3"
	VEC4   = "VEC4"
	MAT2   = "MAT2"
	MAT3   = "MAT3"
	MAT4   = "MAT4"
)

// glTF.animations' element.
type Animation struct {
	Channels   []AChannel      `json:"channels"`
	Samplers   []ASampler      `json:"samplers"`
	Name       string          `json:"name,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// animation.channels' element.
type AChannel struct {
	Sampler    int64           `json:"sampler"`
	Target     ATarget         `json:"target"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// animation.channel.target.
type ATarget struct {
	Node       *int64          `json:"node,omitempty"`
	Path       string          `json:"path"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// animation.samplers' element.
type ASampler struct {
	Input         int64           `json:"input"`
	Interpolation string          `json:"interpolation,omitempty"` // Default is "LINEAR".
	Output        int64           `json:"output"`
	Extensions    json.RawMessage `json:"extensions,omitempty"`
	Extras        json.RawMessage `json:"extras,omitempty"`
}

// animation.channel.target.path values.
const (
	Ptranslation = "translation"
	Protation    = "rotation"
	Pscale       = "scale"
	Pweights     = "weights"
)

// animation.sampler.interpolation values.
const (
	ILINEAR     = "LINEAR"
	STEP        = "STEP"
	CUBICSPLINE = "CUBICSPLINE"
)

// glTF.buffers' element.
type Buffer struct {
	URI        string          `json:"uri,omitempty"`
	ByteLength int64           `json:"byteLength"`
	Name       string          `json:"name,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// glTF.bufferViews' element.
type BufferView struct {
	Buffer     int64           `json:"buffer"`
	ByteOffset int64           `json:"byteOffset,omitempty"` // Default is 0.
	ByteLength int64           `json:"byteLength"`
	ByteStride int64           `json:"byteStride,omitempty"` // 0 for tightly packed.
	Target     int64           `json:"target,omitempty"`     // 0 for no hint.
	Name       string          `json:"name,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// glTF.nodes' element.
type Node struct {
	Camera      *int64          `json:"camera,omitempty"`
	Children    []int64         `json:"children,omitempty"`
	Skin        *int64          `json:"skin,omitempty"`
	Matrix      *[16]float32    `json:"matrix,omitempty"` // Default is identity.
	Mesh        *int64          `json:"mesh,omitempty"`
	Rotation    *[4]float32     `json:"rotation,omitempty"`    // Default is [0, 0, 0, 1].
	Scale       *[3]float32     `json:"scale,omitempty"`       // Default is [1, 1, 1].
	Translation *[3]float32     `json:"translation,omitempty"` // Default is [0, 0, 0].
	Weights     []float32       `json:"weights,omitempty"`
	Name        string          `json:"name,omitempty"`
	Extensions  json.RawMessage `json:"extensions,omitempty"`
	Extras      json.RawMessage `json:"extras,omitempty"`
}

// glTF.scenes' element.
type Scene struct {
	Nodes      []int64         `json:"nodes,omitempty"`
	Name       string          `json:"name,omitempty"`
	Extensions json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage `json:"extras,omitempty"`
}

// Encode encodes gltf into w.
func Encode(w io.Writer, gltf *GLTF) error {
	enc := json.NewEncoder(w)
	return enc.Encode(gltf)
}

// Decode decodes r into a new GLTF instance.
func Decode(r io.Reader) (*GLTF, error) {
	var gltf GLTF
	dec := json.NewDecoder(r)
	err := dec.Decode(&gltf)
	if err != nil {
		return nil, newErr("decode: " + err.Error())
	}
	return &gltf, nil
}

// Extras reads the JSON object in raw into a map.
// It returns an empty map if raw is not an object.
func Extras(raw json.RawMessage) map[string]any {
	m := make(map[string]any)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return make(map[string]any)
		}
	}
	return m
}

// SetExtras encodes m as a JSON object.
// It returns nil if m is empty.
func SetExtras(m map[string]any) json.RawMessage {
	if len(m) == 0 {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return b
}
