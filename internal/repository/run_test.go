// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package repository

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linequad/linequad/pkg/log"
)

var runSetupOnce sync.Once

// setupRunRepository mirrors the teacher's setup helper, but Connect is
// sync.Once-guarded process-wide, so every test in this package shares one
// migrated database under a single temp directory.
func setupRunRepository(tb testing.TB) *RunRepository {
	tb.Helper()
	runSetupOnce.Do(func() {
		log.SetLogLevel("warn")
		dbfile := filepath.Join(tb.TempDir(), "runs.db")
		require.NoError(tb, MigrateDB("sqlite3", dbfile))
		Connect("sqlite3", dbfile)
	})
	return GetRunRepository()
}

func TestStartAndFindRun(t *testing.T) {
	r := setupRunRepository(t)

	id, err := r.StartRun("run-start-find", 1000, 3, 1024, 1024)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	run, err := r.Find("run-start-find")
	require.NoError(t, err)
	assert.Equal(t, "run-start-find", run.RunID)
	assert.Equal(t, int64(1000), run.StartedAt)
	assert.Equal(t, 3, run.NumLines)
	assert.Equal(t, 1024.0, run.TreeWidth)
	assert.Nil(t, run.FinishedAt)
	assert.Equal(t, int64(0), run.StepsRun)
}

func TestFinishRunSetsCounters(t *testing.T) {
	r := setupRunRepository(t)

	_, err := r.StartRun("run-finish", 2000, 5, 512, 512)
	require.NoError(t, err)

	require.NoError(t, r.FinishRun("run-finish", 2100, 42, 17, 3.5))

	run, err := r.Find("run-finish")
	require.NoError(t, err)
	require.NotNil(t, run.FinishedAt)
	assert.Equal(t, int64(2100), *run.FinishedAt)
	assert.Equal(t, int64(42), run.StepsRun)
	assert.Equal(t, int64(17), run.TotalCandidates)
	assert.Equal(t, 3.5, run.AvgLeavesPerLine)
}

func TestUpdateProgress(t *testing.T) {
	r := setupRunRepository(t)

	_, err := r.StartRun("run-progress", 3000, 1, 256, 256)
	require.NoError(t, err)

	require.NoError(t, r.UpdateProgress("run-progress", 10, 4, 1.0))

	run, err := r.Find("run-progress")
	require.NoError(t, err)
	assert.Equal(t, int64(10), run.StepsRun)
	assert.Equal(t, int64(4), run.TotalCandidates)
}

func TestFindUnknownRunReturnsNotFound(t *testing.T) {
	r := setupRunRepository(t)

	_, err := r.Find("does-not-exist")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestListRunsOrdersNewestFirst(t *testing.T) {
	r := setupRunRepository(t)

	_, err := r.StartRun("run-list-a", 10000, 1, 100, 100)
	require.NoError(t, err)
	_, err = r.StartRun("run-list-b", 10001, 1, 100, 100)
	require.NoError(t, err)

	runs, err := r.ListRuns(0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(runs), 2)
	assert.GreaterOrEqual(t, runs[0].StartedAt, runs[1].StartedAt)
}
