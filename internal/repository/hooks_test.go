// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooksBeforeStoresStartTime(t *testing.T) {
	h := &Hooks{}

	ctx, err := h.Before(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)

	begin, ok := ctx.Value(hookTimingKey{}).(time.Time)
	require.True(t, ok, "Before should stash a time.Time under hookTimingKey")
	assert.WithinDuration(t, time.Now(), begin, time.Second)
}

func TestHooksAfterReadsStartTime(t *testing.T) {
	h := &Hooks{}

	ctx, err := h.Before(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	ctxAfter, err := h.After(ctx, "SELECT 1", nil)
	require.NoError(t, err)
	assert.NotNil(t, ctxAfter)
}
