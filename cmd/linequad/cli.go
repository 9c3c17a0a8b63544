// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import "flag"

var (
	flagGops, flagVersion, flagMigrateDB, flagListRuns, flagLogDateTime bool
	flagConfigFile, flagLinesFile, flagDT, flagLogLevel                 string
	flagSteps, flagGenerateLines                                       int
	flagGenerateSeed                                                   int64
)

func cliInit() {
	flag.StringVar(&flagConfigFile, "config", "./config.json", "Specify alternative path to `config.json`")
	flag.StringVar(&flagLinesFile, "lines", "", "Path to a seed file of line segments, in the original driver's textual format")
	flag.IntVar(&flagGenerateLines, "n", 64, "Number of lines to generate when -lines is not given")
	flag.Int64Var(&flagGenerateSeed, "seed", 1, "RNG seed for the deterministic line generator")
	flag.IntVar(&flagSteps, "steps", 0, "Number of simulation steps to run, then exit; 0 runs until interrupted")
	flag.StringVar(&flagDT, "dt", "500ms", "Simulation time step duration per Step call")
	flag.BoolVar(&flagGops, "gops", false, "Listen via github.com/google/gops/agent (for debugging)")
	flag.BoolVar(&flagVersion, "version", false, "Show version information and exit")
	flag.BoolVar(&flagMigrateDB, "migrate-db", false, "Migrate the run-history database to the supported version and exit")
	flag.BoolVar(&flagListRuns, "list-runs", false, "Print recorded run-history rows and exit")
	flag.BoolVar(&flagLogDateTime, "logdate", false, "Set this flag to add date and time to log messages")
	flag.StringVar(&flagLogLevel, "loglevel", "info", "Sets the logging level: `[debug, info, warn, err, crit]`")
	flag.Parse()
}
