// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package seed

import (
	"math/rand"

	"github.com/linequad/linequad/pkg/geom"
)

// maxSpeed bounds the per-axis velocity of a generated line, in box units
// per second — fast enough to visibly sweep the tree within a handful of
// steps, slow enough that most lines stay inside the root rectangle for a
// full checkpoint interval.
const maxSpeed = 20.0

// Generate builds n line segments scattered uniformly across
// [0,width]x[0,height] with a random velocity, for demos and tests when no
// seed file is given. Deterministic for a fixed rngSeed, so runs are
// reproducible without needing a seed file on disk.
func Generate(n int, width, height float64, rngSeed int64) []geom.Line {
	r := rand.New(rand.NewSource(rngSeed))

	lines := make([]geom.Line, n)
	for i := 0; i < n; i++ {
		lines[i] = geom.Line{
			ID: uint32(i),
			P1: geom.Vec2{X: r.Float64() * width, Y: r.Float64() * height},
			P2: geom.Vec2{X: r.Float64() * width, Y: r.Float64() * height},
			Velocity: geom.Vec2{
				X: (r.Float64()*2 - 1) * maxSpeed,
				Y: (r.Float64()*2 - 1) * maxSpeed,
			},
			Color: uint32(r.Intn(2)),
		}
	}
	return lines
}
