// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package geom holds the small value types the quadtree operates on — a 2D
// point/vector, a moving line segment, and the box/window coordinate
// transform the quadtree consumes as an injected boundary (see
// pkg/quadtree's package doc for the box-vs-window distinction). None of
// these types carry behavior beyond arithmetic; the physics/windowing layer
// that owns their real definitions lives outside this module.
package geom

// Vec2 is a 2D point or vector, matching the original source's Vec2.
type Vec2 struct {
	X, Y float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Scale returns v scaled by s (the original's Vec_multiply by a scalar).
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Line is a moving line segment: two endpoints plus a constant velocity,
// tagged with the external line ID and an opaque color. The quadtree never
// mutates a Line; ID and Color exist only so the host can round-trip
// identity through Insert/Query.
type Line struct {
	P1, P2   Vec2
	Velocity Vec2
	ID       uint32
	Color    uint32
}

// EndpointsAt returns the line's two endpoints advanced by dt along
// Velocity — the two trajectory corners of the swept parallelogram.
func (l Line) EndpointsAt(dt float64) (p1, p2 Vec2) {
	delta := l.Velocity.Scale(dt)
	return l.P1.Add(delta), l.P2.Add(delta)
}

// Transform is the pair of pure coordinate-conversion functions the
// quadtree consumes from the physics layer (spec §6): BoxToWindow maps the
// physics layer's storage coordinates into the window coordinates the tree
// reasons in, and WindowToBox is its inverse. The quadtree has no opinion
// on units or the concrete definition; it only ever calls BoxToWindow
// before placement.
type Transform struct {
	BoxToWindow func(x, y float64) (wx, wy float64)
	WindowToBox func(x, y float64) (bx, by float64)
}

// Identity is the no-op transform: box and window coordinates coincide.
// Useful for tests and for hosts that never distinguish the two spaces.
var Identity = Transform{
	BoxToWindow: func(x, y float64) (float64, float64) { return x, y },
	WindowToBox: func(x, y float64) (float64, float64) { return x, y },
}

// ToWindow converts p from box to window coordinates via t.
func (t Transform) ToWindow(p Vec2) Vec2 {
	wx, wy := t.BoxToWindow(p.X, p.Y)
	return Vec2{X: wx, Y: wy}
}
