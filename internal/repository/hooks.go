// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package repository

import (
	"context"
	"time"

	"github.com/linequad/linequad/pkg/log"
)

type hookTimingKey struct{}

// Hooks satisfies the sqlhooks.Hooks interface.
type Hooks struct{}

// Before logs the query with its args and stashes the start time.
func (h *Hooks) Before(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	log.Debugf("SQL query %s %q", query, args)
	return context.WithValue(ctx, hookTimingKey{}, time.Now()), nil
}

// After logs the elapsed time since the matching Before call.
func (h *Hooks) After(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	begin := ctx.Value(hookTimingKey{}).(time.Time)
	log.Debugf("took: %s", time.Since(begin))
	return ctx, nil
}
