// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package ipq

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// factories covers the behavior every Queue implementation must share,
// regardless of whether ordering comes from the heap or from recency.
var factories = map[string]func() Queue[int]{
	"heap": func() Queue[int] { return NewHeapQueue[int]() },
	"lru":  func() Queue[int] { return NewLRUQueue[int]() },
}

func TestQueueEmptyBehavior(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			q := factory()
			assert.Equal(t, 0, q.Len())
			assert.False(t, q.Contains(42))
			_, ok := q.Get(42)
			assert.False(t, ok)
			_, _, err := q.PeekMin()
			assert.ErrorIs(t, err, ErrEmpty)
			_, _, err = q.PopMin()
			assert.ErrorIs(t, err, ErrEmpty)
		})
	}
}

func TestQueueSetInsertAndUpdate(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			q := factory()
			q.Set(1, 10)
			q.Set(2, 20)
			assert.Equal(t, 2, q.Len())
			assert.True(t, q.Contains(1))
			score, ok := q.Get(2)
			require.True(t, ok)
			assert.Equal(t, 20.0, score)

			q.Set(1, 99)
			assert.Equal(t, 2, q.Len(), "updating an existing key must not grow the queue")
			score, ok = q.Get(1)
			require.True(t, ok)
			assert.Equal(t, 99.0, score)
		})
	}
}

func TestQueueDeleteMissingPanics(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			q := factory()
			assert.Panics(t, func() { q.Delete(1) })
		})
	}
}

func TestQueueSetNaNPanics(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			q := factory()
			nan := math.NaN()
			assert.Panics(t, func() { q.Set(1, nan) })
		})
	}
}

func TestQueueKeysLen(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			q := factory()
			for i := 0; i < 5; i++ {
				q.Set(i, float64(i))
			}
			assert.Equal(t, 5, q.Len())
			assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, q.Keys())
		})
	}
}

func TestHeapQueueOrdering(t *testing.T) {
	q := NewHeapQueue[int]()
	q.Set(1, 5)
	q.Set(2, 1)
	q.Set(3, 3)
	k, s, err := q.PeekMin()
	require.NoError(t, err)
	assert.Equal(t, 2, k)
	assert.Equal(t, 1.0, s)

	k, s, err = q.PopMin()
	require.NoError(t, err)
	assert.Equal(t, 2, k)
	assert.Equal(t, 1.0, s)
	assert.Equal(t, 2, q.Len())

	k, s, err = q.PopMin()
	require.NoError(t, err)
	assert.Equal(t, 3, k)
	assert.Equal(t, 3.0, s)
}

func TestHeapQueueTieBreakByKey(t *testing.T) {
	q := NewHeapQueue[int]()
	q.Set(5, 1)
	q.Set(3, 1)
	q.Set(4, 1)
	k, _, err := q.PeekMin()
	require.NoError(t, err)
	assert.Equal(t, 3, k, "equal scores must break ties by key for determinism")
}

func TestHeapQueueSwapMin(t *testing.T) {
	q := NewHeapQueue[int]()
	q.Set(1, 1)
	q.Set(2, 5)
	q.Set(3, 9)
	oldKey, oldScore, err := q.SwapMin(4, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, oldKey)
	assert.Equal(t, 1.0, oldScore)
	assert.Equal(t, 3, q.Len())
	assert.False(t, q.Contains(1))
	assert.True(t, q.Contains(4))
	k, s, err := q.PeekMin()
	require.NoError(t, err)
	assert.Equal(t, 2, k)
	assert.Equal(t, 5.0, s)
	checkHeapInvariant(t, q)
}

func TestHeapQueueSwapKey(t *testing.T) {
	q := NewHeapQueue[int]()
	q.Set(1, 1)
	q.Set(2, 5)
	q.Set(3, 9)
	oldScore := q.SwapKey(4, 100, 2)
	assert.Equal(t, 5.0, oldScore)
	assert.False(t, q.Contains(2))
	assert.True(t, q.Contains(4))
	checkHeapInvariant(t, q)
}

func TestHeapQueueScale(t *testing.T) {
	q := NewHeapQueue[int]()
	q.Set(1, 2)
	q.Set(2, 4)
	q.Scale(0.5)
	s1, _ := q.Get(1)
	s2, _ := q.Get(2)
	assert.Equal(t, 1.0, s1)
	assert.Equal(t, 2.0, s2)
	checkHeapInvariant(t, q)
}

func TestLRUQueueOrdersByTouch(t *testing.T) {
	q := NewLRUQueue[int]()
	q.Set(1, 0)
	q.Set(2, 0)
	q.Set(3, 0)
	k, _, err := q.PeekMin()
	require.NoError(t, err)
	assert.Equal(t, 1, k)

	q.Set(1, 0) // touch 1, moving it to newest
	k, _, err = q.PeekMin()
	require.NoError(t, err)
	assert.Equal(t, 2, k, "touching the oldest entry should move it out of the min position")
}

func TestLRUQueueScaleIsNoop(t *testing.T) {
	q := NewLRUQueue[int]()
	q.Set(1, 5)
	q.Scale(1000)
	s, _ := q.Get(1)
	assert.Equal(t, 5.0, s, "LRUQueue ignores score for ordering, so Scale must be a no-op")
}

func TestLRUQueueSwapMinInsertsAsNewest(t *testing.T) {
	q := NewLRUQueue[int]()
	q.Set(1, 0)
	q.Set(2, 0)
	oldKey, _, err := q.SwapMin(3, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, oldKey)
	k, _, err := q.PeekMin()
	require.NoError(t, err)
	assert.Equal(t, 2, k)
}

// checkHeapInvariant walks the heap array and asserts the heap property
// and index consistency hold.
func checkHeapInvariant(t *testing.T, q *HeapQueue[int]) {
	t.Helper()
	for i, e := range q.heap {
		require.Equal(t, i, e.index, "entry.index must match its slot")
		if i > 0 {
			parent := q.heap[(i-1)/2]
			require.True(t, !e.less(parent), "heap property violated at index %d", i)
		}
	}
	require.Equal(t, len(q.heap), len(q.index))
	for k, e := range q.index {
		require.Equal(t, k, e.key)
	}
}

func FuzzHeapQueue(f *testing.F) {
	f.Add([]byte{0, 1, 5, 2, 9, 3, 1, 7})
	f.Fuzz(func(t *testing.T, ops []byte) {
		q := NewHeapQueue[int]()
		present := map[int]bool{}
		for i, b := range ops {
			op := b % 4
			key := int(b) % 8
			switch op {
			case 0:
				score := float64(int(b)%101) - 50
				q.Set(key, score)
				present[key] = true
			case 1:
				if present[key] {
					q.Delete(key)
					delete(present, key)
				}
			case 2:
				if q.Len() > 0 {
					k, _, err := q.PopMin()
					require.NoError(t, err)
					delete(present, k)
				}
			case 3:
				q.Scale(1.0 + float64(i%3))
			}
			checkHeapInvariant(t, q)
			require.Equal(t, len(present), q.Len())
		}
	})
}

func TestErrEmptyIsSentinel(t *testing.T) {
	assert.True(t, errors.Is(ErrEmpty, ErrEmpty))
}
