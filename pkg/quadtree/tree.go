// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package quadtree implements a dynamic region quadtree over moving line
// segments: a root rectangle, a PackedVector of nodes, and an IndexPool of
// per-leaf element links (see pkg/arena). It is the broad-phase spatial
// index described by this repository's core spec — single-threaded,
// synchronous, and rebuilt once per simulation step rather than mutated
// incrementally (Insert has no matching Remove; the intended usage is
// Insert every line, Query every line, Clear, repeat).
//
// Coordinates inside the tree are window coordinates (+y grows downward).
// The host's physics layer may store lines in a different coordinate
// system (box coordinates); a geom.Transform is injected at construction
// time to convert between the two, and the tree has no opinion on units or
// the transform's concrete definition.
package quadtree

import (
	"fmt"

	"github.com/linequad/linequad/pkg/arena"
	"github.com/linequad/linequad/pkg/geom"
)

// Tree is the quadtree itself. The zero value is not usable; construct one
// with NewTree.
type Tree struct {
	lines []geom.Line // external, read-only for the lifetime of any operation

	nodes    *arena.PackedVector[Node]
	elements *arena.IndexPool[ElementLink]

	root        Rect
	maxDepth    int
	maxElements int
	transform   geom.Transform
}

// NewTree installs the root rectangle as [0,width]x[0,height] (halved via
// integer right-shift, per spec §4.C.1) and a single empty leaf. lines is
// held by reference, never copied and never mutated by the tree; the
// caller must not resize or replace its backing array while the tree holds
// it mid-operation. width and height must be positive; maxDepth may be
// zero (every line piles into the root leaf); maxElements should be
// positive but is not otherwise validated.
func NewTree(lines []geom.Line, width, height, maxDepth, maxElements int, transform geom.Transform) *Tree {
	if width <= 0 || height <= 0 {
		panic("quadtree: width and height must be positive")
	}
	t := &Tree{
		lines:       lines,
		maxDepth:    maxDepth,
		maxElements: maxElements,
		transform:   transform,
	}
	t.root = Rect{MidX: width >> 1, MidY: height >> 1, SizeX: width >> 1, SizeY: height >> 1}
	t.nodes = arena.NewPackedVector[Node]()
	t.elements = arena.NewIndexPool[ElementLink]()
	t.nodes.PushBack(Node{FirstChild: -1, Count: 0})
	return t
}

// SetLines replaces the external line array the tree reads from. Call this
// before Insert/Query when the host has rebuilt its line array for a new
// step but wants to keep the tree's arenas (call Clear first in that case,
// since old indices reference the old line positions only by convention of
// the caller, not by any stored copy).
func (t *Tree) SetLines(lines []geom.Line) {
	t.lines = lines
}

// Clear empties the tree back to a single empty root leaf, preserving
// arena capacity so the next build-up allocates nothing beyond the high
// water mark already reached.
func (t *Tree) Clear() {
	t.nodes.Clear()
	t.elements.Clear()
	t.nodes.PushBack(Node{FirstChild: -1, Count: 0})
}

// Free releases the tree's arenas and drops the external line handle. The
// Tree is not usable afterward.
func (t *Tree) Free() {
	t.nodes.Free()
	t.elements.Free()
	t.lines = nil
}

// NumNodes returns the number of node-arena slots in use (branches and
// leaves combined).
func (t *Tree) NumNodes() int {
	return t.nodes.Len()
}

// NumElements returns the number of live element links across all leaves.
func (t *Tree) NumElements() int {
	return t.elements.NumLive()
}

// DebugString summarizes the tree's size and split policy as one line.
func (t *Tree) DebugString() string {
	return fmt.Sprintf("quadtree{nodes=%d elements=%d root=%+v max_depth=%d max_elements=%d}",
		t.NumNodes(), t.NumElements(), t.root, t.maxDepth, t.maxElements)
}

func (t *Tree) rootCursor() Cursor {
	return Cursor{Rect: t.root, Index: 0, Depth: 0}
}

// Insert places line lineID's swept parallelogram (over dt) into every
// leaf its footprint touches, splitting any leaf that overflows
// maxElements before max_depth is reached.
func (t *Tree) Insert(lineID uint32, dt float64) {
	t.checkLineID(lineID)
	if dt < 0 {
		panic("quadtree: dt must be >= 0")
	}
	t.insertFromCursor(t.rootCursor(), lineID, dt)
}

func (t *Tree) insertFromCursor(cursor Cursor, lineID uint32, dt float64) {
	leaves := t.findLeaves(cursor, lineID, dt)
	for _, leaf := range leaves {
		t.insertIntoLeaf(leaf, lineID, dt)
	}
}

// findLeaves performs an iterative, explicit-stack traversal (spec
// §4.C.4) rather than recursing, since the number of leaves a single
// moving segment can touch is unbounded by depth alone (it can straddle
// many quadrants at the same level).
func (t *Tree) findLeaves(start Cursor, lineID uint32, dt float64) []Cursor {
	var leaves []Cursor
	stack := []Cursor{start}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := t.nodes.GetCopy(cur.Index)
		if !node.isBranch() {
			leaves = append(leaves, cur)
			continue
		}

		line := t.lines[lineID]
		flags := PlaceLineInBranches(line, cur.Rect, dt, t.transform)
		childRects := cur.Rect.childRects()

		if flags.TL {
			stack = append(stack, Cursor{Rect: childRects[0], Index: node.FirstChild + 0, Depth: cur.Depth + 1})
		}
		if flags.BL {
			stack = append(stack, Cursor{Rect: childRects[1], Index: node.FirstChild + 1, Depth: cur.Depth + 1})
		}
		if flags.BR {
			stack = append(stack, Cursor{Rect: childRects[2], Index: node.FirstChild + 2, Depth: cur.Depth + 1})
		}
		if flags.TR {
			stack = append(stack, Cursor{Rect: childRects[3], Index: node.FirstChild + 3, Depth: cur.Depth + 1})
		}
	}
	return leaves
}

func (t *Tree) insertIntoLeaf(leaf Cursor, lineID uint32, dt float64) {
	node := t.nodes.GetCopy(leaf.Index)
	node.FirstChild = t.elements.Insert(ElementLink{Next: node.FirstChild, LineID: lineID})
	node.Count++
	t.nodes.Set(leaf.Index, node)

	if node.Count > t.maxElements && leaf.Depth < t.maxDepth {
		t.split(leaf, dt)
	}
}

// split drains leaf's intrusive element list, turns it into a branch with
// four fresh empty-leaf children appended contiguously to the node arena,
// then re-inserts every drained element starting from this (now-branch)
// cursor. A single element may land in more than one grandchild — that is
// correct, since a moving segment can straddle quadrants.
//
// The node handle is never held across the reentrant insert below: nodes
// is mutated (four PushBacks) between draining and re-insertion, which can
// relocate its backing array, so every access goes back through
// GetCopy/Set by index rather than a retained pointer.
func (t *Tree) split(leaf Cursor, dt float64) {
	node := t.nodes.GetCopy(leaf.Index)

	var drained []uint32
	idx := node.FirstChild
	for idx != -1 {
		link := t.elements.GetCopy(idx)
		next := link.Next
		drained = append(drained, link.LineID)
		t.elements.Erase(idx)
		idx = next
	}

	node.Count = -1
	node.FirstChild = t.nodes.Len()
	t.nodes.Set(leaf.Index, node)

	for i := 0; i < 4; i++ {
		t.nodes.PushBack(Node{FirstChild: -1, Count: 0})
	}

	for _, id := range drained {
		t.insertFromCursor(leaf, id, dt)
	}
}

// Query returns the deduplicated set of line IDs (excluding lineID itself)
// that share at least one leaf with lineID's swept parallelogram over dt.
// The result is a candidate set for an exact intersection test the tree
// itself does not perform.
func (t *Tree) Query(lineID uint32, dt float64) []uint32 {
	t.checkLineID(lineID)
	if dt < 0 {
		panic("quadtree: dt must be >= 0")
	}

	leaves := t.findLeaves(t.rootCursor(), lineID, dt)
	var out []uint32
	for _, leaf := range leaves {
		node := t.nodes.GetCopy(leaf.Index)
		idx := node.FirstChild
		for idx != -1 {
			link := t.elements.GetCopy(idx)
			if link.LineID != lineID && !containsID(out, link.LineID) {
				out = append(out, link.LineID)
			}
			idx = link.Next
		}
	}
	return out
}

func containsID(ids []uint32, id uint32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (t *Tree) checkLineID(lineID uint32) {
	if int(lineID) >= len(t.lines) {
		panic("quadtree: line id out of range")
	}
}

// GetRectLineSegments returns the four perimeter segments of the root
// rectangle followed by the two interior cross-hair segments (vertical and
// horizontal midlines) of every branch node reachable from the root, in
// window coordinates. This is a visualization extract only — it is not on
// any hot path and allocates freely; it never touches element links or
// line data.
func (t *Tree) GetRectLineSegments() []geom.Line {
	var out []geom.Line
	out = append(out, perimeterSegments(t.root)...)

	stack := []Cursor{t.rootCursor()}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := t.nodes.GetCopy(cur.Index)
		if !node.isBranch() {
			continue
		}

		out = append(out, crossHairSegments(cur.Rect)...)

		childRects := cur.Rect.childRects()
		for i, r := range childRects {
			stack = append(stack, Cursor{Rect: r, Index: node.FirstChild + i, Depth: cur.Depth + 1})
		}
	}
	return out
}

func perimeterSegments(r Rect) []geom.Line {
	left := float64(r.MidX - r.SizeX)
	right := float64(r.MidX + r.SizeX)
	top := float64(r.MidY - r.SizeY)
	bottom := float64(r.MidY + r.SizeY)

	return []geom.Line{
		{P1: geom.Vec2{X: left, Y: top}, P2: geom.Vec2{X: left, Y: bottom}},
		{P1: geom.Vec2{X: left, Y: bottom}, P2: geom.Vec2{X: right, Y: bottom}},
		{P1: geom.Vec2{X: right, Y: top}, P2: geom.Vec2{X: right, Y: bottom}},
		{P1: geom.Vec2{X: left, Y: top}, P2: geom.Vec2{X: right, Y: top}},
	}
}

func crossHairSegments(r Rect) []geom.Line {
	midX := float64(r.MidX)
	midY := float64(r.MidY)
	top := float64(r.MidY - r.SizeY)
	bottom := float64(r.MidY + r.SizeY)
	left := float64(r.MidX - r.SizeX)
	right := float64(r.MidX + r.SizeX)

	return []geom.Line{
		{P1: geom.Vec2{X: midX, Y: top}, P2: geom.Vec2{X: midX, Y: bottom}},
		{P1: geom.Vec2{X: left, Y: midY}, P2: geom.Vec2{X: right, Y: midY}},
	}
}
