// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package broadphase wires pkg/quadtree into a long-running service: a
// singleton Engine drives the insert/query/clear step loop, publishes
// candidate pairs over NATS, checkpoints a visualization extract to Avro,
// archives rotated checkpoints, and exposes a read-only HTTP stats API.
// None of this touches quadtree semantics; it is the ambient program
// around the tree, modeled on the teacher's MemoryStore/GetMemoryStore
// singleton (internal/metricstore/metricstore.go).
package broadphase

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/linequad/linequad/internal/config"
	"github.com/linequad/linequad/pkg/broadnats"
	"github.com/linequad/linequad/pkg/geom"
	"github.com/linequad/linequad/pkg/log"
	"github.com/linequad/linequad/pkg/quadtree"
)

var (
	engineOnce     sync.Once
	engineInstance *Engine
)

// CandidatePair is one deduplicated, unordered broad-phase result — two
// line IDs whose moving footprints shared at least one quadrant this step.
type CandidatePair struct {
	A uint32 `json:"a"`
	B uint32 `json:"b"`
}

// StepResult is what Step returns and what gets published over NATS.
type StepResult struct {
	Run        string          `json:"run"`
	Step       int64           `json:"step"`
	Candidates []CandidatePair `json:"candidates"`
}

// Engine owns the line set and the one quadtree.Tree built over it, plus
// the counters the HTTP stats API and Prometheus exporter read. Safe for
// concurrent use: Step, SetLines and Upsert take the write lock, everything
// else a read lock.
type Engine struct {
	mu       sync.RWMutex
	lines    []geom.Line
	tree     *quadtree.Tree
	stepNum  int64
	runID    string
	lastStep StepResult
}

// Init builds the singleton Engine from the global config and lines, the
// way metricstore.InitMetrics builds the singleton MemoryStore. Safe to
// call more than once; only the first call has any effect.
func Init(lines []geom.Line, runID string) {
	engineOnce.Do(func() {
		t := config.Keys.Tree
		tree := quadtree.NewTree(lines, t.Width, t.Height, t.MaxDepth, t.MaxElementsPerLeaf, geom.Identity)
		engineInstance = &Engine{
			lines: lines,
			tree:  tree,
			runID: runID,
		}
		log.Infof("broadphase: engine initialized with %d lines, root %dx%d", len(lines), t.Width, t.Height)
	})
}

// GetEngine returns the singleton Engine. Exits the process via log.Fatal
// if Init was never called — every caller in this program runs after cmd/linequad has wired one up.
func GetEngine() *Engine {
	if engineInstance == nil {
		log.Fatal("broadphase: engine not initialized")
	}
	return engineInstance
}

// SetLines replaces the line set the next Step will operate on.
func (e *Engine) SetLines(lines []geom.Line) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = lines
	e.tree.SetLines(lines)
}

// NumLines reports how many lines the engine is currently tracking.
func (e *Engine) NumLines() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.lines)
}

// NumNodes reports the tree's current node count.
func (e *Engine) NumNodes() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.NumNodes()
}

// NumElements reports the tree's current element-link count.
func (e *Engine) NumElements() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.NumElements()
}

// Overlay returns the tree's current visualization extract.
func (e *Engine) Overlay() []geom.Line {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.GetRectLineSegments()
}

// Candidates runs a one-shot query for a single line without advancing the
// step loop, for the HTTP /candidates/{lineID} endpoint.
func (e *Engine) Candidates(lineID uint32, dt float64) []uint32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tree.Query(lineID, dt)
}

// LastStep returns the most recently published StepResult.
func (e *Engine) LastStep() StepResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastStep
}

// Step advances the simulation by dt: insert every line's swept footprint,
// query every line against the others, deduplicate the resulting pairs,
// move every line by its velocity over dt, clear the tree for the next
// step, then publish the pairs over NATS. Mirrors
// the original driver's per-frame insert/query/clear loop.
func (e *Engine) Step(dt float64) StepResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, line := range e.lines {
		e.tree.Insert(line.ID, dt)
	}

	seen := make(map[uint64]struct{})
	var pairs []CandidatePair
	for _, line := range e.lines {
		for _, otherID := range e.tree.Query(line.ID, dt) {
			a, b := line.ID, otherID
			if a > b {
				a, b = b, a
			}
			key := uint64(a)<<32 | uint64(b)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, CandidatePair{A: a, B: b})
		}
	}

	e.stepNum++
	result := StepResult{Run: e.runID, Step: e.stepNum, Candidates: pairs}
	e.lastStep = result

	for i := range e.lines {
		p1, p2 := e.lines[i].EndpointsAt(dt)
		e.lines[i].P1, e.lines[i].P2 = p1, p2
	}

	e.tree.Clear()

	publishCandidates(result)

	return result
}

func publishCandidates(result StepResult) {
	if config.Keys.Nats.CandidatesSubject == "" {
		return
	}
	client := broadnats.GetClient()
	if client == nil || !client.IsConnected() {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		log.Errorf("broadphase: marshal step result: %v", err)
		return
	}
	if err := client.Publish(config.Keys.Nats.CandidatesSubject, data); err != nil {
		log.Warnf("broadphase: publish candidates: %v", err)
	}
}

// RunSteps calls Step n times back to back with dt, reporting each
// StepResult through onStep (if non-nil). It does not wait between steps
// and cannot be stopped early. Used by cmd/linequad for the -steps driven
// run.
func (e *Engine) RunSteps(n int, dt time.Duration, onStep func(StepResult)) {
	for i := 0; i < n; i++ {
		result := e.Step(dt.Seconds())
		if onStep != nil {
			onStep(result)
		}
	}
}
