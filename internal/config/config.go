// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/linequad/linequad/pkg/log"
)

// TreeConfig sizes the root rectangle and split policy every
// broadphase.Engine builds its quadtree.Tree from.
type TreeConfig struct {
	Width              int `json:"width"`
	Height             int `json:"height"`
	MaxDepth           int `json:"max-depth"`
	MaxElementsPerLeaf int `json:"max-elements-per-leaf"`
}

// CheckpointConfig controls the periodic Avro snapshot of the tree's
// visualization extract (never the tree itself — see quadtree's Non-goals).
type CheckpointConfig struct {
	Interval  string `json:"interval"`
	Directory string `json:"directory"`
}

// ArchiveConfig controls where rotated checkpoint files end up once
// superseded by a newer checkpoint.
type ArchiveConfig struct {
	S3Bucket string `json:"s3-bucket"`
	Region   string `json:"region"`
}

// NatsConfig configures the candidate-pair publisher and, optionally, the
// line-ingestion subscriber.
type NatsConfig struct {
	Address           string `json:"address"`
	Username          string `json:"username"`
	Password          string `json:"password"`
	CredsFilePath     string `json:"creds-file-path"`
	CandidatesSubject string `json:"candidates-subject"`
	LinesSubject      string `json:"lines-subject"`
}

// StatsConfig configures the read-only HTTP status API.
type StatsConfig struct {
	Addr string `json:"addr"`
}

// RepositoryConfig configures the run-history SQL store.
type RepositoryConfig struct {
	DBDriver string `json:"db-driver"`
	DB       string `json:"db"`
}

// ProgramConfig is the top-level application config, decoded from the file
// passed to Init.
type ProgramConfig struct {
	Tree       TreeConfig       `json:"tree"`
	Checkpoint CheckpointConfig `json:"checkpoint"`
	Archive    ArchiveConfig    `json:"archive"`
	Nats       NatsConfig       `json:"nats"`
	Stats      StatsConfig      `json:"stats"`
	Repository RepositoryConfig `json:"repository"`
}

// Keys holds the global application configuration, pre-populated with
// defaults suitable for a standalone run against the seeded line generator.
var Keys ProgramConfig = ProgramConfig{
	Tree: TreeConfig{
		Width:              1024,
		Height:             1024,
		MaxDepth:           8,
		MaxElementsPerLeaf: 8,
	},
	Checkpoint: CheckpointConfig{
		Interval:  "30s",
		Directory: "./var/checkpoints",
	},
	Stats: StatsConfig{
		Addr: ":8080",
	},
	Repository: RepositoryConfig{
		DBDriver: "sqlite3",
		DB:       "./var/runs.db",
	},
}

// Init reads flagConfigFile, validates it against configSchema and decodes
// it over Keys. A missing file is not an error — Keys already holds
// defaults runnable out of the box; a present-but-invalid file is fatal,
// the same way the teacher treats its own config file.
func Init(flagConfigFile string) {
	raw, err := os.ReadFile(flagConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatal(err.Error())
		}
		return
	}

	Validate(configSchema, raw)

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&Keys); err != nil {
		log.Fatal(err.Error())
	}

	if Keys.Tree.Width < 1 || Keys.Tree.Height < 1 {
		log.Fatal("config: tree.width and tree.height must be positive")
	}
}
