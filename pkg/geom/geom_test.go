// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2AddAndScale(t *testing.T) {
	v := Vec2{X: 1, Y: 2}
	w := Vec2{X: 3, Y: -1}

	assert.Equal(t, Vec2{X: 4, Y: 1}, v.Add(w))
	assert.Equal(t, Vec2{X: 2, Y: 4}, v.Scale(2))
}

func TestLineEndpointsAtZeroVelocityIsStatic(t *testing.T) {
	l := Line{P1: Vec2{X: 0, Y: 0}, P2: Vec2{X: 10, Y: 10}}
	p1, p2 := l.EndpointsAt(1)
	assert.Equal(t, l.P1, p1)
	assert.Equal(t, l.P2, p2)
}

func TestLineEndpointsAtAdvancesByVelocityTimesDt(t *testing.T) {
	l := Line{
		P1:       Vec2{X: 0, Y: 0},
		P2:       Vec2{X: 10, Y: 0},
		Velocity: Vec2{X: 2, Y: 3},
	}
	p1, p2 := l.EndpointsAt(2)
	assert.Equal(t, Vec2{X: 4, Y: 6}, p1)
	assert.Equal(t, Vec2{X: 14, Y: 6}, p2)
}

func TestIdentityTransformRoundTrips(t *testing.T) {
	p := Vec2{X: 5, Y: -3}
	w := Identity.ToWindow(p)
	assert.Equal(t, p, w)

	bx, by := Identity.WindowToBox(w.X, w.Y)
	assert.Equal(t, p, Vec2{X: bx, Y: by})
}

func TestCustomTransformIsApplied(t *testing.T) {
	tr := Transform{
		BoxToWindow: func(x, y float64) (float64, float64) { return x + 1, y + 2 },
		WindowToBox: func(x, y float64) (float64, float64) { return x - 1, y - 2 },
	}
	w := tr.ToWindow(Vec2{X: 0, Y: 0})
	assert.Equal(t, Vec2{X: 1, Y: 2}, w)
}
