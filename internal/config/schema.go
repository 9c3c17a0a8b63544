// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

// configSchema validates the top-level application config file, the way
// internal/metricstore's msConfigSchema validates the metric store section
// of the teacher's config.
var configSchema = `
	{
  "type": "object",
  "properties": {
    "tree": {
      "description": "Root rectangle and split policy for the quadtree.",
      "type": "object",
      "properties": {
        "width":                 { "type": "integer", "minimum": 1 },
        "height":                { "type": "integer", "minimum": 1 },
        "max-depth":             { "type": "integer", "minimum": 0 },
        "max-elements-per-leaf": { "type": "integer", "minimum": 1 }
      },
      "required": ["width", "height", "max-depth", "max-elements-per-leaf"]
    },
    "checkpoint": {
      "description": "Periodic Avro snapshot of the tree's visualization extract.",
      "type": "object",
      "properties": {
        "interval": {
          "description": "Checkpoint period, parsable by time.ParseDuration (e.g. '30s').",
          "type": "string"
        },
        "directory": {
          "description": "Directory checkpoint files are written to.",
          "type": "string"
        }
      }
    },
    "archive": {
      "description": "Where rotated checkpoint files are shipped once superseded.",
      "type": "object",
      "properties": {
        "s3-bucket": {
          "description": "If set, rotated checkpoints are uploaded to this S3 bucket instead of kept on disk.",
          "type": "string"
        },
        "region": { "type": "string" }
      }
    },
    "nats": {
      "description": "Candidate-pair publishing and line ingestion transport.",
      "type": "object",
      "properties": {
        "address":            { "type": "string" },
        "username":           { "type": "string" },
        "password":           { "type": "string" },
        "creds-file-path":    { "type": "string" },
        "candidates-subject": { "type": "string" },
        "lines-subject":      { "type": "string" }
      }
    },
    "stats": {
      "description": "Read-only HTTP status API.",
      "type": "object",
      "properties": {
        "addr": { "type": "string" }
      }
    },
    "repository": {
      "description": "Run-history SQL store.",
      "type": "object",
      "properties": {
        "db-driver": { "type": "string" },
        "db":        { "type": "string" }
      }
    }
  },
  "required": ["tree"]
	}`
