// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quadtree

// Node is one entry of the tree's node arena. It is tag-encoded rather than
// a sum type: Count == -1 marks a branch, overloading the population
// counter as the leaf/branch discriminator (spec's resolution of the two
// divergent node layouts found in the original source).
//
//   - Leaf (Count >= 0): FirstChild is -1 (empty) or the index of the head
//     of an intrusive singly-linked list of ElementLink records.
//   - Branch (Count == -1): FirstChild is the index of the first of four
//     contiguous child nodes, in {TL, BL, BR, TR} order.
type Node struct {
	FirstChild int
	Count      int
}

func (n Node) isBranch() bool { return n.Count == -1 }

// ElementLink is one entry in a leaf's intrusive linked list, naming the
// line it belongs to. Next == -1 terminates the list.
type ElementLink struct {
	Next   int
	LineID uint32
}

// Cursor is a transient (rect, index, depth) triple threaded through
// traversal: index addresses the node arena, rect is that node's
// rectangle (derived on the fly from the root by repeated halving, never
// stored on Node itself), and depth is compared against the split's depth
// cap.
type Cursor struct {
	Rect  Rect
	Index int
	Depth int
}

// BranchFlags marks which of a rectangle's four children a segment
// touches. Child layout is {TL, BL, BR, TR}.
type BranchFlags struct {
	TL, BL, BR, TR bool
}

func (f BranchFlags) or(other BranchFlags) BranchFlags {
	return BranchFlags{
		TL: f.TL || other.TL,
		BL: f.BL || other.BL,
		BR: f.BR || other.BR,
		TR: f.TR || other.TR,
	}
}
