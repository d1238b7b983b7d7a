// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"testing"

	"github.com/gviegas/animcombine/anim"
	"github.com/gviegas/animcombine/node"
)

func TestNew(t *testing.T) {
	s := New("Master")
	if s.Graph.Len() != 1 {
		t.Fatalf("New().Graph.Len\nhave %d\nwant 1", s.Graph.Len())
	}
	if s.Root == node.Nil || s.Graph.Name(s.Root) != "Master" {
		t.Fatalf("New().Root\nhave %d (%q)\nwant valid node named \"Master\"", s.Root, s.Graph.Name(s.Root))
	}
	if s.TakeCount() != 0 || s.Take(0) != nil || s.Doc != nil {
		t.Fatal("New: scene should have no takes and no document")
	}
}

func TestTakes(t *testing.T) {
	s := New("")
	walk := s.CreateTake("Walk")
	run := anim.NewTake("Run")
	s.AddTake(run)
	if n := s.TakeCount(); n != 2 {
		t.Fatalf("Scene.TakeCount\nhave %d\nwant 2", n)
	}
	if s.Take(0) != walk || s.Take(1) != run || s.Take(2) != nil || s.Take(-1) != nil {
		t.Fatal("Scene.Take: unexpected take")
	}
	if x := s.Takes(); len(x) != 2 || x[1].Name != "Run" {
		t.Fatalf("Scene.Takes\nhave %v", x)
	}
}
