// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package broadphase

import (
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/linequad/linequad/internal/config"
	"github.com/linequad/linequad/pkg/log"
)

var scheduler gocron.Scheduler

// StartScheduler registers the periodic checkpoint/archive jobs and starts
// the scheduler, the way taskManager.Start registers its own periodic
// services on a single gocron.Scheduler.
func StartScheduler(e *Engine) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("broadphase: could not create scheduler: %s", err.Error())
	}
	scheduler = s

	registerCheckpointJob(e)
	registerArchiveJob()

	scheduler.Start()
	return nil
}

// StopScheduler shuts the scheduler down, flushing any job in progress.
func StopScheduler() {
	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			log.Warnf("broadphase: scheduler shutdown: %v", err)
		}
	}
}

func registerCheckpointJob(e *Engine) {
	interval, err := time.ParseDuration(config.Keys.Checkpoint.Interval)
	if err != nil || interval <= 0 {
		log.Warnf("broadphase: invalid checkpoint interval %q, checkpointing disabled", config.Keys.Checkpoint.Interval)
		return
	}

	log.Info("broadphase: registering checkpoint job")
	_, err = scheduler.NewJob(gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if _, err := e.WriteCheckpoint(config.Keys.Checkpoint.Directory); err != nil {
				log.Errorf("broadphase: checkpoint failed: %v", err)
			}
		}))
	if err != nil {
		log.Errorf("broadphase: could not register checkpoint job: %v", err)
	}
}

func registerArchiveJob() {
	interval, err := time.ParseDuration(config.Keys.Checkpoint.Interval)
	if err != nil || interval <= 0 {
		return
	}

	log.Info("broadphase: registering archive job")
	_, err = scheduler.NewJob(gocron.DurationJob(interval*4),
		gocron.NewTask(func() {
			target, err := NewArchiveTarget()
			if err != nil {
				log.Errorf("broadphase: could not build archive target: %v", err)
				return
			}
			rotateCheckpoints(target)
		}))
	if err != nil {
		log.Errorf("broadphase: could not register archive job: %v", err)
	}
}
