// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministicForSameSeed(t *testing.T) {
	a := Generate(50, 1024, 1024, 42)
	b := Generate(50, 1024, 1024, 42)

	require.Len(t, a, 50)
	assert.Equal(t, a, b)
}

func TestGenerateDiffersAcrossSeeds(t *testing.T) {
	a := Generate(50, 1024, 1024, 1)
	b := Generate(50, 1024, 1024, 2)

	assert.NotEqual(t, a, b)
}

func TestGenerateStaysWithinBounds(t *testing.T) {
	lines := Generate(200, 500, 300, 7)

	for _, l := range lines {
		assert.GreaterOrEqual(t, l.P1.X, 0.0)
		assert.LessOrEqual(t, l.P1.X, 500.0)
		assert.GreaterOrEqual(t, l.P1.Y, 0.0)
		assert.LessOrEqual(t, l.P1.Y, 300.0)
	}
}

func TestGenerateAssignsSequentialIDs(t *testing.T) {
	lines := Generate(10, 100, 100, 3)
	for i, l := range lines {
		assert.EqualValues(t, i, l.ID)
	}
}
