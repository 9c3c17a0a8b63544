// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record20 struct {
	a, b, c int64
	d       int32
}

func TestPackedVectorPushBackAndGet(t *testing.T) {
	pv := NewPackedVector[int]()
	require.Equal(t, 0, pv.Len())
	require.Greater(t, pv.Cap(), 0, "fresh vector should be pre-sized inline")

	for i := 0; i < 10; i++ {
		pv.PushBack(i)
	}
	require.Equal(t, 10, pv.Len())
	for i := 0; i < 10; i++ {
		assert.Equal(t, i, pv.GetCopy(i))
	}
}

func TestPackedVectorGrowsPastInlineCapacity(t *testing.T) {
	pv := NewPackedVector[record20]()
	initialCap := pv.Cap()

	n := initialCap * 3
	for i := 0; i < n; i++ {
		pv.PushBack(record20{a: int64(i)})
	}
	require.Equal(t, n, pv.Len())
	require.GreaterOrEqual(t, pv.Cap(), n)
	for i := 0; i < n; i++ {
		assert.Equal(t, int64(i), pv.GetCopy(i).a)
	}
}

func TestPackedVectorSetOverwritesInPlace(t *testing.T) {
	pv := NewPackedVector[string]()
	pv.PushBack("a")
	pv.PushBack("b")
	pv.Set(1, "z")
	assert.Equal(t, "z", pv.GetCopy(1))
}

func TestPackedVectorPopBackCopy(t *testing.T) {
	pv := NewPackedVector[int]()
	pv.PushBack(1)
	pv.PushBack(2)
	pv.PushBack(3)

	v := pv.PopBackCopy()
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, pv.Len())
}

func TestPackedVectorPopBackCopyPanicsWhenEmpty(t *testing.T) {
	pv := NewPackedVector[int]()
	assert.Panics(t, func() { pv.PopBackCopy() })
}

func TestPackedVectorGetRefReflectsMutation(t *testing.T) {
	pv := NewPackedVector[int]()
	pv.PushBack(1)
	ref := pv.GetRef(0)
	*ref = 42
	assert.Equal(t, 42, pv.GetCopy(0))
}

func TestPackedVectorClearPreservesCapacity(t *testing.T) {
	pv := NewPackedVector[int]()
	cap0 := pv.Cap()
	for i := 0; i < cap0+5; i++ {
		pv.PushBack(i)
	}
	grownCap := pv.Cap()
	pv.Clear()
	assert.Equal(t, 0, pv.Len())
	assert.Equal(t, grownCap, pv.Cap(), "Clear must not shrink capacity")
}

func TestPackedVectorFreeResetsToInlineCapacity(t *testing.T) {
	pv := NewPackedVector[int]()
	inlineCap := pv.Cap()
	for i := 0; i < inlineCap*4; i++ {
		pv.PushBack(i)
	}
	require.Greater(t, pv.Cap(), inlineCap)

	pv.Free()
	assert.Equal(t, 0, pv.Len())
	assert.Equal(t, inlineCap, pv.Cap())
}

func TestPackedVectorResizeIsNoOpWhenShrinking(t *testing.T) {
	pv := NewPackedVector[int]()
	pv.PushBack(1)
	before := pv.Cap()
	pv.Resize(1)
	assert.Equal(t, before, pv.Cap())
}
