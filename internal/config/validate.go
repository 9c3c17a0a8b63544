// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/linequad/linequad/pkg/log"
)

// Validate compiles schema and checks instance against it, aborting the
// process on either a malformed schema or a failed validation — config
// errors are always fatal at startup, never recoverable.
func Validate(schema string, instance json.RawMessage) {
	sch, err := jsonschema.CompileString("schema.json", schema)
	if err != nil {
		log.Fatalf("%#v", err)
	}

	var v any
	if err := json.Unmarshal(instance, &v); err != nil {
		log.Fatal(err.Error())
	}

	if err = sch.Validate(v); err != nil {
		log.Fatalf("%#v", err)
	}
}
