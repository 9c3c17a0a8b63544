// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/version"
)

func init() {
	prometheus.MustRegister(version.NewCollector("linequad"))
}

// Prometheus gauges/histograms exported on /metrics. The teacher imports
// client_golang to query an external Prometheus (internal/metricdata);
// here it plays its more common role, as an exporter.
var (
	nodeCountGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "linequad",
		Name:      "tree_nodes",
		Help:      "Current number of quadtree nodes.",
	})
	elementCountGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "linequad",
		Name:      "tree_elements",
		Help:      "Current number of element links held by leaves.",
	})
	stepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "linequad",
		Name:      "step_duration_seconds",
		Help:      "Time spent in one Engine.Step call.",
		Buckets:   prometheus.DefBuckets,
	})
	candidatesPerStep = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "linequad",
		Name:      "candidates_per_step",
		Help:      "Number of deduplicated candidate pairs produced per Step.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})
)

// observeStep records one Step's timing and output size. Called by
// StepInstrumented rather than inside Step itself, so the quadtree/engine
// core stays free of metrics concerns.
func observeStep(e *Engine, elapsed time.Duration, numCandidates int) {
	nodeCountGauge.Set(float64(e.NumNodes()))
	elementCountGauge.Set(float64(e.NumElements()))
	stepDuration.Observe(elapsed.Seconds())
	candidatesPerStep.Observe(float64(numCandidates))
}

// StepInstrumented wraps Step with Prometheus observations.
func (e *Engine) StepInstrumented(dt float64) StepResult {
	start := time.Now()
	result := e.Step(dt)
	observeStep(e, time.Since(start), len(result.Candidates))
	return result
}
