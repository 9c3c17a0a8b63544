// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/gops/agent"
	"github.com/joho/godotenv"
	promversion "github.com/prometheus/common/version"

	"github.com/linequad/linequad/internal/broadphase"
	"github.com/linequad/linequad/internal/config"
	"github.com/linequad/linequad/internal/repository"
	"github.com/linequad/linequad/internal/seed"
	"github.com/linequad/linequad/pkg/broadnats"
	"github.com/linequad/linequad/pkg/geom"
	"github.com/linequad/linequad/pkg/log"
)

// version, commit and date are set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cliInit()

	if flagVersion {
		fmt.Printf("linequad %s (%s, built %s)\n", version, commit, date)
		return
	}

	log.SetLogLevel(flagLogLevel)
	log.SetLogDateTime(flagLogDateTime)

	promversion.Version = version
	promversion.Revision = commit
	promversion.BuildDate = date

	// See https://github.com/google/gops (runtime overhead is almost zero)
	if flagGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Fatalf("gops/agent.Listen failed: %s", err.Error())
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("loading .env failed: %s", err.Error())
	}

	config.Init(flagConfigFile)

	if flagMigrateDB {
		if err := repository.MigrateDB(config.Keys.Repository.DBDriver, config.Keys.Repository.DB); err != nil {
			log.Fatal(err)
		}
		return
	}

	repository.Connect(config.Keys.Repository.DBDriver, config.Keys.Repository.DB)

	if flagListRuns {
		printRuns()
		return
	}

	natsRaw, err := json.Marshal(config.Keys.Nats)
	if err != nil {
		log.Fatal(err)
	}
	if err := broadnats.Init(natsRaw); err != nil {
		log.Fatal(err)
	}
	broadnats.Connect()

	lines, err := loadLines()
	if err != nil {
		log.Fatal(err)
	}

	runID := fmt.Sprintf("run-%d", time.Now().UnixNano())
	broadphase.Init(lines, runID)
	engine := broadphase.GetEngine()

	runRepo := repository.GetRunRepository()
	t := config.Keys.Tree
	if _, err := runRepo.StartRun(runID, time.Now().Unix(), len(lines), float64(t.Width), float64(t.Height)); err != nil {
		log.Warnf("could not record run start: %v", err)
	}

	if err := broadphase.SubscribeLines(config.Keys.Nats.LinesSubject); err != nil {
		log.Warnf("line ingestion not active: %v", err)
	}

	if err := broadphase.StartScheduler(engine); err != nil {
		log.Fatal(err)
	}

	statsAPI, err := broadphase.NewStatsAPI(engine)
	if err != nil {
		log.Fatal(err)
	}
	statsServer := &http.Server{
		Addr:         config.Keys.Stats.Addr,
		Handler:      statsAPI.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Infof("stats API listening at %s", config.Keys.Stats.Addr)
		if err := statsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	dt, err := time.ParseDuration(flagDT)
	if err != nil {
		log.Fatalf("invalid -dt: %s", err.Error())
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	stop := make(chan struct{})
	loopDone := make(chan struct{})

	var totalCandidates int64
	go func() {
		defer close(loopDone)
		runLoop(engine, dt, stop, &totalCandidates)
	}()

	// A bounded run (-steps > 0) drives RunSteps to completion and cannot
	// be preempted mid-batch; an unbounded run stops as soon as a signal
	// arrives.
	select {
	case <-sigs:
		close(stop)
	case <-loopDone:
	}
	<-loopDone

	finishRun(runRepo, runID, engine, atomic.LoadInt64(&totalCandidates))
	broadphase.StopScheduler()
	if client := broadnats.GetClient(); client != nil {
		client.Close()
	}
	if err := statsServer.Shutdown(context.Background()); err != nil {
		log.Warnf("stats API shutdown: %v", err)
	}

	wg.Wait()
	log.Print("graceful shutdown completed")
}

// runLoop drives the step loop: a fixed count if flagSteps > 0, otherwise
// a ticker running until the caller closes stop. totalCandidates
// accumulates every step's candidate count for the final run-history row.
func runLoop(e *broadphase.Engine, dt time.Duration, stop chan struct{}, totalCandidates *int64) {
	onStep := func(result broadphase.StepResult) {
		atomic.AddInt64(totalCandidates, int64(len(result.Candidates)))
		log.Debugf("step %d: %d candidates", result.Step, len(result.Candidates))
	}

	if flagSteps > 0 {
		e.RunSteps(flagSteps, dt, onStep)
		return
	}

	ticker := time.NewTicker(dt)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			onStep(e.StepInstrumented(dt.Seconds()))
		}
	}
}

func loadLines() ([]geom.Line, error) {
	if flagLinesFile != "" {
		return seed.LoadFile(flagLinesFile)
	}
	log.Infof("no -lines file given, generating %d lines (seed %d)", flagGenerateLines, flagGenerateSeed)
	t := config.Keys.Tree
	return seed.Generate(flagGenerateLines, float64(t.Width), float64(t.Height), flagGenerateSeed), nil
}

func finishRun(runRepo *repository.RunRepository, runID string, e *broadphase.Engine, totalCandidates int64) {
	last := e.LastStep()
	numLines := e.NumLines()
	avgLeaves := 0.0
	if numLines > 0 {
		avgLeaves = float64(e.NumElements()) / float64(numLines)
	}
	if err := runRepo.FinishRun(runID, time.Now().Unix(), last.Step, totalCandidates, avgLeaves); err != nil {
		log.Warnf("could not record run finish: %v", err)
	}
}

func printRuns() {
	runs, err := repository.GetRunRepository().ListRuns(50)
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range runs {
		fmt.Printf("%-24s started=%d steps=%d candidates=%d lines=%d\n",
			r.RunID, r.StartedAt, r.StepsRun, r.TotalCandidates, r.NumLines)
	}
}
