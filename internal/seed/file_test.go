// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileParsesOriginalDriverFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.in")
	content := "2\n" +
		"(1.0, 2.0), (3.0, 4.0), 0.5, -0.5, 0\n" +
		"(10.0, 20.0), (30.0, 40.0), 0.0, 0.0, 1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lines, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, uint32(0), lines[0].ID)
	assert.Equal(t, 1.0, lines[0].P1.X)
	assert.Equal(t, 2.0, lines[0].P1.Y)
	assert.Equal(t, 3.0, lines[0].P2.X)
	assert.Equal(t, 0.5, lines[0].Velocity.X)
	assert.Equal(t, uint32(0), lines[0].Color)

	assert.Equal(t, uint32(1), lines[1].ID)
	assert.Equal(t, uint32(1), lines[1].Color)
}

func TestLoadFileRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.in")
	require.NoError(t, os.WriteFile(path, []byte("1\nnot a line\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileMissingReturnsError(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.in"))
	assert.Error(t, err)
}
