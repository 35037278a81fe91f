// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package llist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oldestToNewest[T any](l *List[T]) []T {
	var out []T
	l.Range(func(e *Entry[T]) bool {
		out = append(out, e.Value)
		return true
	})
	return out
}

func TestListStoreOrder(t *testing.T) {
	var l List[string]
	require.True(t, l.IsEmpty())
	a := l.Store("a")
	_ = l.Store("b")
	c := l.Store("c")
	assert.Equal(t, 3, l.Len)
	assert.Equal(t, []string{"a", "b", "c"}, oldestToNewest(&l))
	assert.Same(t, a, l.Oldest())
	assert.Same(t, c, l.Newest())
}

func TestListDeleteMiddle(t *testing.T) {
	var l List[int]
	a := l.Store(1)
	b := l.Store(2)
	c := l.Store(3)
	l.Delete(b)
	assert.Equal(t, 2, l.Len)
	assert.Equal(t, []int{1, 3}, oldestToNewest(&l))
	assert.Same(t, a, l.Oldest())
	assert.Same(t, c, l.Newest())
}

func TestListDeleteEnds(t *testing.T) {
	var l List[int]
	a := l.Store(1)
	b := l.Store(2)
	c := l.Store(3)
	l.Delete(a)
	assert.Same(t, b, l.Oldest())
	l.Delete(c)
	assert.Same(t, b, l.Newest())
	assert.Equal(t, []int{2}, oldestToNewest(&l))
}

func TestListMoveToNewest(t *testing.T) {
	var l List[int]
	a := l.Store(1)
	l.Store(2)
	l.Store(3)
	l.MoveToNewest(a)
	assert.Equal(t, []int{2, 3, 1}, oldestToNewest(&l))
	assert.Same(t, a, l.Newest())
	assert.Equal(t, 2, l.Oldest().Value)
	// Already newest: no-op.
	l.MoveToNewest(a)
	assert.Equal(t, []int{2, 3, 1}, oldestToNewest(&l))
}

func TestListEmptyOldestNewestAreNil(t *testing.T) {
	var l List[int]
	assert.Nil(t, l.Oldest())
	assert.Nil(t, l.Newest())
	e := l.Store(1)
	l.Delete(e)
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.Oldest())
	assert.Nil(t, l.Newest())
}

func TestListRangeEarlyExit(t *testing.T) {
	var l List[int]
	l.Store(1)
	l.Store(2)
	l.Store(3)
	var seen []int
	l.Range(func(e *Entry[int]) bool {
		seen = append(seen, e.Value)
		return e.Value != 2
	})
	assert.Equal(t, []int{1, 2}, seen)
}
