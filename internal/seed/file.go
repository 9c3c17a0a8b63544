// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package seed builds the initial line set a run starts from: either read
// from a seed file in the original driver's textual format, or generated
// deterministically for demos and tests.
package seed

import (
	"bufio"
	"fmt"
	"os"

	"github.com/linequad/linequad/pkg/geom"
)

// LoadFile reads a seed file in the original quad_tree driver's format: a
// line count, then one line per segment as
// "(p1x, p1y), (p2x, p2y), vx, vy, color". Box and window coordinates are
// treated as identical (see geom.Identity) since the driver's
// windowToBox/velocityWindowToBox conversion belongs to the physics layer
// this module does not implement.
func LoadFile(path string) ([]geom.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("seed: %s: missing line count", path)
	}
	var numLines int
	if _, err := fmt.Sscanf(scanner.Text(), "%d", &numLines); err != nil {
		return nil, fmt.Errorf("seed: %s: invalid line count: %w", path, err)
	}

	lines := make([]geom.Line, 0, numLines)
	for id := 0; scanner.Scan(); id++ {
		text := scanner.Text()
		if text == "" {
			continue
		}

		var p1x, p1y, p2x, p2y, vx, vy float64
		var color int
		if _, err := fmt.Sscanf(text, "(%f, %f), (%f, %f), %f, %f, %d", &p1x, &p1y, &p2x, &p2y, &vx, &vy, &color); err != nil {
			return nil, fmt.Errorf("seed: %s: line %d: %w", path, id, err)
		}

		lines = append(lines, geom.Line{
			ID:       uint32(id),
			P1:       geom.Vec2{X: p1x, Y: p1y},
			P2:       geom.Vec2{X: p2x, Y: p2y},
			Velocity: geom.Vec2{X: vx, Y: vy},
			Color:    uint32(color),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("seed: %s: %w", path, err)
	}

	return lines, nil
}
