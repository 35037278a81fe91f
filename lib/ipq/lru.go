// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package ipq

import (
	"fmt"

	"git.lukeshu.com/dlfu-cache/lib/llist"
)

// lruVal is the payload of an LRUQueue entry: the key (so Keys()/eviction
// can report it) and the last score it was Set with (so Get() still
// reflects the caller's bookkeeping, even though it plays no part in
// ordering).
type lruVal[K comparable] struct {
	key   K
	score float64
}

// LRUQueue is a Queue that ignores score for ordering and instead orders
// purely by recency of Set/SwapMin/SwapKey, as a doubly-linked list.
// PeekMin/PopMin return the oldest-touched entry; Scale is a no-op.
//
// This lets the DLFU engine degenerate to plain LRU by swapping in this
// queue implementation without changing any of its own logic.
type LRUQueue[K comparable] struct {
	list  llist.List[lruVal[K]]
	index map[K]*llist.Entry[lruVal[K]]
}

var _ Queue[int] = (*LRUQueue[int])(nil)

// NewLRUQueue returns an empty LRUQueue.
func NewLRUQueue[K comparable]() *LRUQueue[K] {
	return &LRUQueue[K]{
		index: make(map[K]*llist.Entry[lruVal[K]]),
	}
}

func (q *LRUQueue[K]) Len() int { return q.list.Len }

func (q *LRUQueue[K]) Contains(k K) bool {
	_, ok := q.index[k]
	return ok
}

func (q *LRUQueue[K]) Get(k K) (float64, bool) {
	e, ok := q.index[k]
	if !ok {
		return 0, false
	}
	return e.Value.score, true
}

func (q *LRUQueue[K]) Keys() []K {
	keys := make([]K, 0, q.list.Len)
	q.list.Range(func(e *llist.Entry[lruVal[K]]) bool {
		keys = append(keys, e.Value.key)
		return true
	})
	return keys
}

func (q *LRUQueue[K]) Set(k K, score float64) {
	checkScore(score)
	if e, ok := q.index[k]; ok {
		e.Value.score = score
		q.list.MoveToNewest(e)
		return
	}
	q.index[k] = q.list.Store(lruVal[K]{key: k, score: score})
}

func (q *LRUQueue[K]) Delete(k K) float64 {
	e, ok := q.index[k]
	if !ok {
		panic(fmt.Errorf("ipq.LRUQueue.Delete: key %v not present", k))
	}
	score := e.Value.score
	q.list.Delete(e)
	delete(q.index, k)
	return score
}

func (q *LRUQueue[K]) PeekMin() (K, float64, error) {
	e := q.list.Oldest()
	if e == nil {
		var zero K
		return zero, 0, ErrEmpty
	}
	return e.Value.key, e.Value.score, nil
}

func (q *LRUQueue[K]) PopMin() (K, float64, error) {
	e := q.list.Oldest()
	if e == nil {
		var zero K
		return zero, 0, ErrEmpty
	}
	key, score := e.Value.key, e.Value.score
	q.list.Delete(e)
	delete(q.index, key)
	return key, score, nil
}

func (q *LRUQueue[K]) SwapMin(k K, score float64) (K, float64, error) {
	checkScore(score)
	oldKey, oldScore, err := q.PopMin()
	if err != nil {
		return oldKey, oldScore, err
	}
	q.index[k] = q.list.Store(lruVal[K]{key: k, score: score})
	return oldKey, oldScore, nil
}

func (q *LRUQueue[K]) SwapKey(k K, score float64, oldKey K) float64 {
	checkScore(score)
	e, ok := q.index[oldKey]
	if !ok {
		panic(fmt.Errorf("ipq.LRUQueue.SwapKey: key %v not present", oldKey))
	}
	oldScore := e.Value.score
	q.list.Delete(e)
	delete(q.index, oldKey)
	q.index[k] = q.list.Store(lruVal[K]{key: k, score: score})
	return oldScore
}

// Scale is a no-op: LRUQueue doesn't order by score, so there is nothing
// to rescale.
func (q *LRUQueue[K]) Scale(float64) {}
