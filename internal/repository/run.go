// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package repository

import (
	"database/sql"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/linequad/linequad/pkg/log"
)

var (
	runRepoOnce     sync.Once
	runRepoInstance *RunRepository
)

// Run is one row of run-history: a single simulation's lifetime summary.
type Run struct {
	ID               int64   `db:"id"`
	RunID            string  `db:"run_id"`
	StartedAt        int64   `db:"started_at"`
	FinishedAt       *int64  `db:"finished_at"`
	NumLines         int     `db:"num_lines"`
	TreeWidth        float64 `db:"tree_width"`
	TreeHeight       float64 `db:"tree_height"`
	StepsRun         int64   `db:"steps_run"`
	TotalCandidates  int64   `db:"total_candidates"`
	AvgLeavesPerLine float64 `db:"avg_leaves_per_line"`
}

// RunRepository records and queries run-history rows.
type RunRepository struct {
	DB        *sqlx.DB
	stmtCache *sq.StmtCache
}

// GetRunRepository returns the process-wide RunRepository, built lazily on
// top of the shared database connection.
func GetRunRepository() *RunRepository {
	runRepoOnce.Do(func() {
		db := GetConnection()
		runRepoInstance = &RunRepository{
			DB:        db.DB,
			stmtCache: sq.NewStmtCache(db.DB),
		}
	})

	return runRepoInstance
}

var runColumns = []string{
	"id", "run_id", "started_at", "finished_at", "num_lines",
	"tree_width", "tree_height", "steps_run", "total_candidates", "avg_leaves_per_line",
}

func scanRun(row interface{ Scan(...interface{}) error }) (*Run, error) {
	run := &Run{}
	if err := row.Scan(
		&run.ID, &run.RunID, &run.StartedAt, &run.FinishedAt, &run.NumLines,
		&run.TreeWidth, &run.TreeHeight, &run.StepsRun, &run.TotalCandidates, &run.AvgLeavesPerLine,
	); err != nil {
		return nil, err
	}
	return run, nil
}

// StartRun inserts a new run row, returning its database id. startedAt is a
// unix timestamp in seconds, supplied by the caller rather than computed
// here so the repository stays free of wall-clock reads.
func (r *RunRepository) StartRun(runID string, startedAt int64, numLines int, treeWidth, treeHeight float64) (int64, error) {
	res, err := sq.Insert("run").
		Columns("run_id", "started_at", "num_lines", "tree_width", "tree_height").
		Values(runID, startedAt, numLines, treeWidth, treeHeight).
		RunWith(r.DB).
		Exec()
	if err != nil {
		log.Errorf("repository: start run %q: %v", runID, err)
		return 0, err
	}

	return res.LastInsertId()
}

// FinishRun stamps a run as complete with its final counters.
func (r *RunRepository) FinishRun(runID string, finishedAt int64, stepsRun, totalCandidates int64, avgLeavesPerLine float64) error {
	_, err := sq.Update("run").
		Set("finished_at", finishedAt).
		Set("steps_run", stepsRun).
		Set("total_candidates", totalCandidates).
		Set("avg_leaves_per_line", avgLeavesPerLine).
		Where("run_id = ?", runID).
		RunWith(r.DB).
		Exec()
	if err != nil {
		log.Errorf("repository: finish run %q: %v", runID, err)
	}
	return err
}

// UpdateProgress overwrites an in-flight run's counters so that
// ListRuns/Find can reflect an approximate live state, not just the final
// one. cmd/linequad does not call it; its runs get their counters from
// FinishRun only.
func (r *RunRepository) UpdateProgress(runID string, stepsRun, totalCandidates int64, avgLeavesPerLine float64) error {
	_, err := sq.Update("run").
		Set("steps_run", stepsRun).
		Set("total_candidates", totalCandidates).
		Set("avg_leaves_per_line", avgLeavesPerLine).
		Where("run_id = ?", runID).
		RunWith(r.stmtCache).
		Exec()
	if err != nil {
		log.Errorf("repository: update progress for run %q: %v", runID, err)
	}
	return err
}

// Find looks up one run by its string ID. Callers should test
// err == sql.ErrNoRows for "not found".
func (r *RunRepository) Find(runID string) (*Run, error) {
	q := sq.Select(runColumns...).From("run").Where("run_id = ?", runID)
	return scanRun(q.RunWith(r.stmtCache).QueryRow())
}

// ListRuns returns the most recent runs, newest first.
func (r *RunRepository) ListRuns(limit uint64) ([]*Run, error) {
	q := sq.Select(runColumns...).From("run").OrderBy("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	rows, err := q.RunWith(r.stmtCache).Query()
	if err != nil {
		log.Errorf("repository: list runs: %v", err)
		return nil, err
	}
	defer rows.Close()

	runs := make([]*Run, 0, 16)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// IsNotFound is a small helper so callers can write
// `if repository.IsNotFound(err) { ... }` instead of importing database/sql
// just for sql.ErrNoRows.
func IsNotFound(err error) bool {
	return err == sql.ErrNoRows
}
