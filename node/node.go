// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package node implements the scene's graph.
//
// Nodes are stored in an arena and referred to by index,
// so graphs can be walked without recursion and compared
// by position.
package node

import (
	"strconv"
	"strings"

	"github.com/gviegas/animcombine/linear"
)

// Node identifies a node in a Graph.
type Node int

// Nil represents an invalid Node.
const Nil Node = 0

// Data is the payload of a node.
type Data struct {
	// Name for the node.
	// It need not be unique.
	Name string

	// Local transform.
	Translation linear.V3
	Rotation    linear.Q
	Scale       linear.V3

	// Index of the node in the document it was
	// decoded from, or -1 if it has none.
	Index int
}

// NewData returns a Data with an identity transform
// and no document index.
func NewData(name string) Data {
	return Data{
		Name:     name,
		Rotation: linear.Q{R: 1},
		Scale:    linear.V3{1, 1, 1},
		Index:    -1,
	}
}

type node struct {
	// Immediate ancestor.
	parent Node
	// First and last immediate descendants.
	sub  Node
	last Node
	// Next sibling.
	next Node
	nsub int
	data Data
}

// Graph is a node graph.
// The zero value is an empty graph ready for use.
// Graphs only grow: nodes are never removed.
type Graph struct {
	nodes []node
}

// get returns the internal node identified by n.
// It panics if n is not in g.
func (g *Graph) get(n Node) *node {
	if n <= Nil || int(n) > len(g.nodes) {
		panic("node: Node not in Graph")
	}
	return &g.nodes[n-1]
}

// Insert inserts a new node as the last immediate
// descendant of prev.
// If prev is Nil, the new node has no ancestor.
func (g *Graph) Insert(data Data, prev Node) Node {
	g.nodes = append(g.nodes, node{parent: prev, data: data})
	n := Node(len(g.nodes))
	if prev != Nil {
		p := g.get(prev)
		if p.last != Nil {
			g.get(p.last).next = n
		} else {
			p.sub = n
		}
		p.last = n
		p.nsub++
	}
	return n
}

// Len returns the number of nodes in g.
func (g *Graph) Len() int { return len(g.nodes) }

// Data returns a pointer to the data of n.
func (g *Graph) Data(n Node) *Data { return &g.get(n).data }

// Name returns the name of n.
func (g *Graph) Name(n Node) string { return g.get(n).data.Name }

// Parent returns the immediate ancestor of n, or Nil.
func (g *Graph) Parent(n Node) Node { return g.get(n).parent }

// ChildCount returns the number of immediate
// descendants of n.
func (g *Graph) ChildCount(n Node) int { return g.get(n).nsub }

// Children appends the immediate descendants of n to
// dst, in insertion order, and returns the result.
func (g *Graph) Children(n Node, dst []Node) []Node {
	for x := g.get(n).sub; x != Nil; x = g.nodes[x-1].next {
		dst = append(dst, x)
	}
	return dst
}

// Child returns the i-th immediate descendant of n,
// or Nil if there is no such descendant.
func (g *Graph) Child(n Node, i int) Node {
	if i < 0 {
		return Nil
	}
	x := g.get(n).sub
	for ; x != Nil && i > 0; i-- {
		x = g.nodes[x-1].next
	}
	return x
}

// Path returns the names of n and its ancestors
// joined by '/', root first.
// Unnamed nodes are shown as their index among
// their siblings.
func (g *Graph) Path(n Node) string {
	var s []string
	for ; n != Nil; n = g.get(n).parent {
		nm := g.get(n).data.Name
		if nm == "" {
			nm = "#" + strconv.Itoa(g.index(n))
		}
		s = append(s, nm)
	}
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return strings.Join(s, "/")
}

// index returns the position of n among its siblings.
func (g *Graph) index(n Node) int {
	p := g.get(n).parent
	if p == Nil {
		return 0
	}
	i := 0
	for x := g.get(p).sub; x != n; x = g.nodes[x-1].next {
		i++
	}
	return i
}

// Walk calls f for n and every descendant of n, in
// depth-first pre-order.
// If f returns false, the descendants of that node
// are skipped.
func (g *Graph) Walk(n Node, f func(Node) bool) {
	stack := []Node{n}
	var sub []Node
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !f(x) {
			continue
		}
		sub = g.Children(x, sub[:0])
		for i := len(sub) - 1; i >= 0; i-- {
			stack = append(stack, sub[i])
		}
	}
}

// Find returns the first node named name in the
// subgraph rooted at n, in pre-order, or Nil.
func (g *Graph) Find(n Node, name string) Node {
	found := Nil
	g.Walk(n, func(x Node) bool {
		if found != Nil {
			return false
		}
		if g.get(x).data.Name == name {
			found = x
			return false
		}
		return true
	})
	return found
}
