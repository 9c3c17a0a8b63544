// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package broadnats

import (
	"bytes"
	"encoding/json"

	"github.com/linequad/linequad/pkg/log"
)

// Config holds the configuration for connecting to a NATS server.
type Config struct {
	Address           string `json:"address"` // e.g. "nats://localhost:4222"
	Username          string `json:"username"`
	Password          string `json:"password"`
	CredsFilePath     string `json:"creds-file-path"`
	CandidatesSubject string `json:"candidates-subject"` // e.g. "broadphase.candidates.<run>"
	LinesSubject      string `json:"lines-subject"`      // e.g. "broadphase.lines.<run>"
}

// Keys holds the global NATS configuration loaded via Init.
var Keys Config

// ConfigSchema validates the "nats" section of the application config.
const ConfigSchema = `{
    "type": "object",
    "description": "Configuration for the broad-phase engine's NATS messaging client.",
    "properties": {
        "address": {
            "description": "Address of the NATS server (e.g., 'nats://localhost:4222').",
            "type": "string"
        },
        "username": { "type": "string" },
        "password": { "type": "string" },
        "creds-file-path": { "type": "string" },
        "candidates-subject": {
            "description": "Subject candidate pairs are published on, one message per Step.",
            "type": "string"
        },
        "lines-subject": {
            "description": "Subject line spawn/update events are ingested from (line-protocol encoded).",
            "type": "string"
        }
    },
    "required": ["address"]
}`

// Init decodes rawConfig into the global Keys.
func Init(rawConfig json.RawMessage) error {
	if rawConfig == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(rawConfig))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&Keys); err != nil {
		log.Errorf("broadnats: error decoding config: %s", err.Error())
		return err
	}
	return nil
}
