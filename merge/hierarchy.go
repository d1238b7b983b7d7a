// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package merge

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/RoaringBitmap/roaring"

	"github.com/gviegas/animcombine/anim"
	"github.com/gviegas/animcombine/node"
)

var (
	// ErrShapeMismatch is matched by every *ShapeError.
	ErrShapeMismatch = errors.New("merge: node hierarchies differ in shape")

	// ErrRevisit means that two source nodes were paired
	// with the same destination node.
	ErrRevisit = errors.New("merge: destination node paired more than once")
)

// ShapeError describes a pair of nodes whose children
// cannot be paired.
type ShapeError struct {
	// Paths of the offending nodes.
	Dst, Src string
	// Number of immediate descendants of each.
	DstChildren, SrcChildren int
	// Optional detail.
	Reason string
}

func (e *ShapeError) Error() string {
	s := fmt.Sprintf("%v: %q has %d children, %q has %d",
		ErrShapeMismatch, e.Dst, e.DstChildren, e.Src, e.SrcChildren)
	if e.Reason != "" {
		s += " (" + e.Reason + ")"
	}
	return s
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// Match selects how children of paired nodes are paired.
type Match int

const (
	// MatchIndex pairs the i-th child of the destination
	// node with the i-th child of the source node.
	// Both nodes must have the same number of children.
	MatchIndex Match = iota

	// MatchName pairs each source child with the
	// destination sibling of the same name.
	// Every source child must have exactly one such
	// sibling; unmatched destination children are left
	// alone.
	MatchName
)

// String implements fmt.Stringer.
func (m Match) String() string {
	if m == MatchName {
		return "name"
	}
	return "index"
}

// ParseMatch parses "index" or "name".
func ParseMatch(s string) (Match, error) {
	switch s {
	case "index", "":
		return MatchIndex, nil
	case "name":
		return MatchName, nil
	}
	return 0, fmt.Errorf("merge: unknown match mode %q", s)
}

type options struct {
	match  Match
	logger *slog.Logger
}

// Option configures a merge.
type Option func(*options)

// WithMatch sets the child pairing mode.
// The default is MatchIndex.
func WithMatch(m Match) Option { return func(o *options) { o.match = m } }

// WithLogger sets the logger for diagnostics.
// The default is slog.Default().
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

func newOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, f := range opts {
		f(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// pair is a destination/source node pair.
type pair struct {
	dst node.Node
	src node.Node
}

// walker pairs the nodes of two graphs.
type walker struct {
	dg, sg *node.Graph
	match  Match
	dsub   []node.Node
	ssub   []node.Node
}

// children appends the pairs of children of p to out,
// in child order.
func (w *walker) children(p pair, out []pair) ([]pair, error) {
	w.dsub = w.dg.Children(p.dst, w.dsub[:0])
	w.ssub = w.sg.Children(p.src, w.ssub[:0])
	shapeErr := func(reason string) error {
		return &ShapeError{
			Dst:         w.dg.Path(p.dst),
			Src:         w.sg.Path(p.src),
			DstChildren: len(w.dsub),
			SrcChildren: len(w.ssub),
			Reason:      reason,
		}
	}
	switch w.match {
	case MatchName:
		for _, s := range w.ssub {
			name := w.sg.Name(s)
			d, n := node.Nil, 0
			for _, x := range w.dsub {
				if w.dg.Name(x) == name {
					d = x
					n++
				}
			}
			switch n {
			case 0:
				return nil, shapeErr(fmt.Sprintf("no destination child named %q", name))
			case 1:
				out = append(out, pair{d, s})
			default:
				return nil, shapeErr(fmt.Sprintf("%d destination children named %q", n, name))
			}
		}
	default:
		if len(w.dsub) != len(w.ssub) {
			return nil, shapeErr("")
		}
		for i := range w.ssub {
			out = append(out, pair{w.dsub[i], w.ssub[i]})
		}
	}
	return out, nil
}

// pairs returns every node pair reachable from root, in
// depth-first pre-order.
// It fails without side effects if the hierarchies
// cannot be paired.
func (w *walker) pairs(root pair) ([]pair, error) {
	visited := roaring.New()
	var list []pair
	var sub []pair
	stack := []pair{root}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visited.CheckedAdd(uint32(p.dst)) {
			return nil, fmt.Errorf("%w: %q", ErrRevisit, w.dg.Path(p.dst))
		}
		list = append(list, p)
		var err error
		if sub, err = w.children(p, sub[:0]); err != nil {
			return nil, err
		}
		for i := len(sub) - 1; i >= 0; i-- {
			stack = append(stack, sub[i])
		}
	}
	return list, nil
}

// MergeHierarchy merges the translation, rotation and
// scale curves of srcNode and all of its descendants,
// under srcLayer, into the corresponding nodes of the
// destination hierarchy, under dstLayer.
//
// Nodes are paired before anything is copied, so a
// hierarchy mismatch (reported as a *ShapeError) leaves
// dstLayer untouched.
// It returns the number of node pairs visited.
func MergeHierarchy(dstLayer *anim.Layer, dstGraph *node.Graph, dstNode node.Node,
	srcLayer *anim.Layer, srcGraph *node.Graph, srcNode node.Node, opts ...Option) (int, error) {

	o := newOptions(opts)
	w := walker{dg: dstGraph, sg: srcGraph, match: o.match}
	list, err := w.pairs(pair{dstNode, srcNode})
	if err != nil {
		return 0, err
	}
	for _, p := range list {
		for _, prop := range anim.Props {
			MergeProperty(Property{p.dst, prop}, dstLayer, Property{p.src, prop}, srcLayer)
		}
	}
	return len(list), nil
}
