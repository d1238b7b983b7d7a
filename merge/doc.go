// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package merge copies animation takes between scenes
// that share a node hierarchy.
//
// A merge walks the destination and source hierarchies
// in lockstep, pairing nodes by child position (or, when
// requested, by name), and copies the keys of every
// animated translation, rotation and scale curve of the
// source into a new take of the destination.
package merge
