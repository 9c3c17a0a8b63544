// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package quadtree

import "github.com/linequad/linequad/pkg/geom"

// PlaceLineInBranches computes which of rect's four children the moving
// segment line touches over dt, per spec §4.C.2/§4.C.3.
//
// A moving segment sweeps a parallelogram with corners P1, P2,
// P1+V*dt, P2+V*dt. That parallelogram is treated as four boundary
// segments — the two endpoint trajectories and the two endpoint-pair
// segments at t=0 and t=dt — and a child receives the line iff any one of
// the four overlaps the child's interior or boundary. Segments are
// converted from box to window coordinates via tr before the geometric
// test, since the tree reasons entirely in window coordinates.
func PlaceLineInBranches(line geom.Line, rect Rect, dt float64, tr geom.Transform) BranchFlags {
	p1Start, p2Start := line.P1, line.P2
	p1End, p2End := line.EndpointsAt(dt)

	segments := [4][2]geom.Vec2{
		{p1Start, p2Start},
		{p1End, p2End},
		{p1Start, p1End},
		{p2Start, p2End},
	}

	var flags BranchFlags
	for _, seg := range segments {
		a := tr.ToWindow(seg[0])
		b := tr.ToWindow(seg[1])
		flags = flags.or(placeSegment(a, b, rect))
	}
	return flags
}

func placeSegment(p1, p2 geom.Vec2, rect Rect) BranchFlags {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y

	midX := float64(rect.MidX)
	midY := float64(rect.MidY)

	switch {
	case dx == 0:
		return BranchFlags{
			TL: p1.X <= midX && (p1.Y <= midY || p2.Y <= midY),
			BL: p1.X <= midX && (p1.Y >= midY || p2.Y >= midY),
			BR: p1.X >= midX && (p1.Y >= midY || p2.Y >= midY),
			TR: p1.X >= midX && (p1.Y <= midY || p2.Y <= midY),
		}
	case dy == 0:
		return BranchFlags{
			TL: p1.Y <= midY && (p1.X <= midX || p2.X <= midX),
			TR: p1.Y <= midY && (p1.X >= midX || p2.X >= midX),
			BL: p1.Y >= midY && (p1.X <= midX || p2.X <= midX),
			BR: p1.Y >= midY && (p1.X >= midX || p2.X >= midX),
		}
	default:
		return placeObliqueSegment(p1, p2, rect, dx, dy)
	}
}

// placeObliqueSegment handles the dx != 0 && dy != 0 case: evaluate the
// line at the left, middle and right x of rect to get three y values, then
// pick one of two symmetric rule sets by the sign of the slope.
func placeObliqueSegment(p1, p2 geom.Vec2, rect Rect, dx, dy float64) BranchFlags {
	slope := dy / dx

	leftX := float64(rect.MidX - rect.SizeX)
	midX := float64(rect.MidX)
	rightX := float64(rect.MidX + rect.SizeX)

	leftY := slope*(leftX-p1.X) + p1.Y
	midY := slope*(midX-p1.X) + p1.Y
	rightY := slope*(rightX-p1.X) + p1.Y

	topRect := float64(rect.MidY - rect.SizeY)
	midRect := float64(rect.MidY)
	botRect := float64(rect.MidY + rect.SizeY)

	leftOfMid := p1.X <= midX || p2.X <= midX
	rightOfMid := p1.X >= midX || p2.X >= midX
	aboveMid := p1.Y <= midRect || p2.Y <= midRect
	belowMid := p1.Y >= midRect || p2.Y >= midRect

	if slope > 0 {
		return BranchFlags{
			TL: leftY <= midRect && midY >= topRect && leftOfMid && aboveMid,
			BL: midY >= midRect && leftOfMid && belowMid,
			BR: midY <= botRect && rightY >= midRect && rightOfMid && belowMid,
			TR: midY <= midRect && rightOfMid && aboveMid,
		}
	}
	return BranchFlags{
		TL: midY <= midRect && leftOfMid && aboveMid,
		BL: leftY >= midRect && midY <= botRect && leftOfMid && belowMid,
		BR: midY >= midRect && rightOfMid && belowMid,
		TR: midY >= topRect && rightY <= midRect && rightOfMid && aboveMid,
	}
}
