// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quadtree

// Rect is an axis-aligned, integer-valued rectangle stored as a center
// point and half-extents: the rectangle spans
// [MidX-SizeX, MidX+SizeX] x [MidY-SizeY, MidY+SizeY].
type Rect struct {
	MidX, MidY   int
	SizeX, SizeY int
}

// childRects returns the four child rectangles of r in {TL, BL, BR, TR}
// order. Window coordinates grow +y downward, so TL is the minus-x/minus-y
// quadrant — this ordering is a hard contract shared with traversal and
// visualization.
func (r Rect) childRects() [4]Rect {
	childX := r.SizeX >> 1
	childY := r.SizeY >> 1
	return [4]Rect{
		{MidX: r.MidX - childX, MidY: r.MidY - childY, SizeX: childX, SizeY: childY}, // TL
		{MidX: r.MidX - childX, MidY: r.MidY + childY, SizeX: childX, SizeY: childY}, // BL
		{MidX: r.MidX + childX, MidY: r.MidY + childY, SizeX: childX, SizeY: childY}, // BR
		{MidX: r.MidX + childX, MidY: r.MidY - childY, SizeX: childX, SizeY: childY}, // TR
	}
}
