// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package quadtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linequad/linequad/pkg/geom"
)

func staticLine(id uint32, x1, y1, x2, y2 float64) geom.Line {
	return geom.Line{
		ID: id,
		P1: geom.Vec2{X: x1, Y: y1},
		P2: geom.Vec2{X: x2, Y: y2},
	}
}

func TestNewTreeEmptyRootLeaf(t *testing.T) {
	lines := []geom.Line{staticLine(0, 10, 10, 20, 20)}
	tr := NewTree(lines, 100, 100, 4, 4, geom.Identity)

	require.Equal(t, 1, tr.NumNodes())
	require.Equal(t, 0, tr.NumElements())

	root := tr.nodes.GetCopy(0)
	assert.Equal(t, -1, root.FirstChild)
	assert.Equal(t, 0, root.Count)
}

// Scenario 1: empty tree, single insert.
func TestInsertSingleLineIntoRootLeaf(t *testing.T) {
	lines := []geom.Line{staticLine(0, 10, 10, 20, 20)}
	tr := NewTree(lines, 100, 100, 4, 4, geom.Identity)

	tr.Insert(0, 1)

	root := tr.nodes.GetCopy(0)
	require.False(t, root.isBranch())
	require.Equal(t, 1, root.Count)

	link := tr.elements.GetCopy(root.FirstChild)
	assert.Equal(t, uint32(0), link.LineID)
	assert.Equal(t, -1, link.Next)
}

// Scenario 2: forced split — five colinear static segments inside the TL
// quadrant with K=2 should force root to branch.
func TestForcedSplit(t *testing.T) {
	lines := make([]geom.Line, 5)
	for i := range lines {
		x := float64(5 + i)
		lines[i] = staticLine(uint32(i), x, x, x+1, x+1)
	}
	tr := NewTree(lines, 100, 100, 4, 2, geom.Identity)

	for i := range lines {
		tr.Insert(uint32(i), 0)
	}

	root := tr.nodes.GetCopy(0)
	require.True(t, root.isBranch(), "root should have split")

	tlChild := tr.nodes.GetCopy(root.FirstChild + 0)
	if tlChild.isBranch() {
		// further split is fine; just confirm no elements escaped to siblings
	} else {
		assert.LessOrEqual(t, tlChild.Count, 2)
	}
	for _, siblingOffset := range []int{1, 2, 3} {
		sibling := tr.nodes.GetCopy(root.FirstChild + siblingOffset)
		if !sibling.isBranch() {
			assert.Equal(t, 0, sibling.Count, "non-TL child should hold no links")
		}
	}
}

// Scenario 3: a long diagonal segment should appear in all four top-level
// children once a second point-segment forces a split.
func TestMultiQuadrantSegmentSpansAllChildren(t *testing.T) {
	lines := []geom.Line{
		staticLine(0, 10, 10, 90, 90),
		staticLine(1, 10, 10, 10, 10),
	}
	// max_depth=1 so the point segment sharing the TL child with the
	// diagonal cannot force a second cascading split there.
	tr := NewTree(lines, 100, 100, 1, 1, geom.Identity)

	tr.Insert(0, 0)
	tr.Insert(1, 0)

	root := tr.nodes.GetCopy(0)
	require.True(t, root.isBranch())

	for i := 0; i < 4; i++ {
		child := tr.nodes.GetCopy(root.FirstChild + i)
		require.False(t, child.isBranch(), "depth cap should prevent any second-level split")
		found := false
		idx := child.FirstChild
		for idx != -1 {
			link := tr.elements.GetCopy(idx)
			if link.LineID == 0 {
				found = true
			}
			idx = link.Next
		}
		assert.True(t, found, "long diagonal segment should touch child %d", i)
	}
}

// Scenario 4: query self-exclusion between two overlapping segments.
func TestQuerySelfExclusion(t *testing.T) {
	lines := []geom.Line{
		staticLine(0, 10, 10, 20, 20),
		staticLine(1, 10, 10, 20, 20),
	}
	tr := NewTree(lines, 100, 100, 4, 4, geom.Identity)
	tr.Insert(0, 0)
	tr.Insert(1, 0)

	q0 := tr.Query(0, 0)
	q1 := tr.Query(1, 0)

	assert.Equal(t, []uint32{1}, q0)
	assert.Equal(t, []uint32{0}, q1)
}

func TestQueryNeverContainsDuplicates(t *testing.T) {
	lines := []geom.Line{
		staticLine(0, 10, 10, 90, 90),
		staticLine(1, 10, 10, 90, 90),
	}
	tr := NewTree(lines, 100, 100, 4, 1, geom.Identity)
	tr.Insert(0, 0)
	tr.Insert(1, 0)

	result := tr.Query(0, 0)
	require.Len(t, result, 1)
	assert.Equal(t, uint32(1), result[0])
}

// Scenario 5: Clear + replay yields the same query outputs.
func TestClearThenReplayMatchesOriginal(t *testing.T) {
	lines := make([]geom.Line, 10)
	for i := range lines {
		x := float64(i)
		lines[i] = staticLine(uint32(i), x, x, x+1, x+1)
	}
	tr := NewTree(lines, 100, 100, 4, 4, geom.Identity)
	for i := range lines {
		tr.Insert(uint32(i), 0)
	}
	before := tr.Query(0, 0)

	tr.Clear()
	for i := range lines {
		tr.Insert(uint32(i), 0)
	}
	after := tr.Query(0, 0)

	assert.ElementsMatch(t, before, after)
}

// Scenario 6: depth cap wins over max_elements.
func TestDepthCapOverridesMaxElements(t *testing.T) {
	lines := make([]geom.Line, 10)
	for i := range lines {
		lines[i] = staticLine(uint32(i), 10, 10, 10, 10)
	}
	tr := NewTree(lines, 100, 100, 1, 1, geom.Identity)
	for i := range lines {
		tr.Insert(uint32(i), 0)
	}

	root := tr.nodes.GetCopy(0)
	require.True(t, root.isBranch(), "root should split exactly once")

	child := tr.nodes.GetCopy(root.FirstChild + 0)
	require.False(t, child.isBranch(), "depth cap should prevent a second split")
	assert.Equal(t, 10, child.Count, "all ten colocated segments land in the same depth-1 leaf")
}

func TestQueryPanicsOnOutOfRangeLineID(t *testing.T) {
	lines := []geom.Line{staticLine(0, 1, 1, 2, 2)}
	tr := NewTree(lines, 100, 100, 4, 4, geom.Identity)
	assert.Panics(t, func() { tr.Query(5, 0) })
}

func TestInsertPanicsOnNegativeDt(t *testing.T) {
	lines := []geom.Line{staticLine(0, 1, 1, 2, 2)}
	tr := NewTree(lines, 100, 100, 4, 4, geom.Identity)
	assert.Panics(t, func() { tr.Insert(0, -1) })
}

func TestGetRectLineSegmentsReturnsPerimeterForUnsplitRoot(t *testing.T) {
	lines := []geom.Line{staticLine(0, 1, 1, 2, 2)}
	tr := NewTree(lines, 100, 100, 4, 4, geom.Identity)

	segs := tr.GetRectLineSegments()
	assert.Len(t, segs, 4, "unsplit root contributes only its perimeter")
}

func TestGetRectLineSegmentsIncludesCrossHairPerBranch(t *testing.T) {
	lines := make([]geom.Line, 5)
	for i := range lines {
		lines[i] = staticLine(uint32(i), 10, 10, 10, 10)
	}
	tr := NewTree(lines, 100, 100, 4, 2, geom.Identity)
	for i := range lines {
		tr.Insert(uint32(i), 0)
	}

	segs := tr.GetRectLineSegments()
	assert.Greater(t, len(segs), 4, "a split tree should add cross-hair segments beyond the root perimeter")
}

func TestFreeDropsLineHandle(t *testing.T) {
	lines := []geom.Line{staticLine(0, 1, 1, 2, 2)}
	tr := NewTree(lines, 100, 100, 4, 4, geom.Identity)
	tr.Free()
	assert.Nil(t, tr.lines)
}
