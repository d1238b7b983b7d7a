// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package scene provides the scene container that
// animation takes are merged into.
package scene

import (
	"github.com/gviegas/animcombine/anim"
	"github.com/gviegas/animcombine/gltf"
	"github.com/gviegas/animcombine/node"
)

// Scene defines a scene graph and its animations.
type Scene struct {
	// Name of the scene.
	Name string

	// Graph holds the scene's nodes.
	Graph node.Graph

	// Root is the single root of the scene's nodes.
	Root node.Node

	// Doc and Bin are the document the scene was decoded
	// from and the content of its (consolidated) buffer.
	// They are used as a template when the scene is
	// encoded; Doc is nil for scenes created with New.
	Doc *gltf.GLTF
	Bin []byte

	takes []*anim.Take
}

// New creates an empty scene whose root node is
// named name.
func New(name string) *Scene { return new(Scene).Init(name) }

// Init initializes a scene.
func (s *Scene) Init(name string) *Scene {
	*s = Scene{Name: name}
	s.Root = s.Graph.Insert(node.NewData(name), node.Nil)
	return s
}

// TakeCount returns the number of takes in s.
func (s *Scene) TakeCount() int { return len(s.takes) }

// Take returns the i-th take of s, or nil if there is
// no such take.
func (s *Scene) Take(i int) *anim.Take {
	if i < 0 || i >= len(s.takes) {
		return nil
	}
	return s.takes[i]
}

// Takes returns the takes of s.
// The slice must not be modified by the caller.
func (s *Scene) Takes() []*anim.Take { return s.takes }

// AddTake appends t to s's takes.
func (s *Scene) AddTake(t *anim.Take) { s.takes = append(s.takes, t) }

// CreateTake creates a new take named name and appends
// it to s's takes.
func (s *Scene) CreateTake(name string) *anim.Take {
	t := anim.NewTake(name)
	s.AddTake(t)
	return t
}
