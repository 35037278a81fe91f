// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package ipq

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// heapEntry is a single slot of a HeapQueue's backing array. It carries its
// own index so that an arbitrary-key operation (found via the index map)
// can sift directly from its current position, rather than needing to
// search the heap for it.
type heapEntry[K constraints.Ordered] struct {
	key   K
	score float64
	index int
}

// less reports whether a sorts before b: by score, breaking ties by key so
// that the ordering is total and eviction order is reproducible.
func (a *heapEntry[K]) less(b *heapEntry[K]) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.key < b.key
}

// HeapQueue is a Queue implemented as a binary min-heap over (score, key)
// pairs, with a K->entry index so any keyed operation is O(log n) via
// sift-up/sift-down from the entry's known position, rather than O(n).
type HeapQueue[K constraints.Ordered] struct {
	heap  []*heapEntry[K]
	index map[K]*heapEntry[K]
}

var _ Queue[int] = (*HeapQueue[int])(nil)

// NewHeapQueue returns an empty HeapQueue.
func NewHeapQueue[K constraints.Ordered]() *HeapQueue[K] {
	return &HeapQueue[K]{
		index: make(map[K]*heapEntry[K]),
	}
}

func (q *HeapQueue[K]) Len() int { return len(q.heap) }

func (q *HeapQueue[K]) Contains(k K) bool {
	_, ok := q.index[k]
	return ok
}

func (q *HeapQueue[K]) Get(k K) (float64, bool) {
	e, ok := q.index[k]
	if !ok {
		return 0, false
	}
	return e.score, true
}

func (q *HeapQueue[K]) Keys() []K {
	keys := make([]K, 0, len(q.heap))
	for _, e := range q.heap {
		keys = append(keys, e.key)
	}
	return keys
}

func (q *HeapQueue[K]) Set(k K, score float64) {
	checkScore(score)
	if e, ok := q.index[k]; ok {
		old := e.score
		e.score = score
		q.fix(e, old)
		return
	}
	e := &heapEntry[K]{key: k, score: score, index: len(q.heap)}
	q.heap = append(q.heap, e)
	q.index[k] = e
	q.siftUp(e)
}

func (q *HeapQueue[K]) Delete(k K) float64 {
	e, ok := q.index[k]
	if !ok {
		panic(fmt.Errorf("ipq.HeapQueue.Delete: key %v not present", k))
	}
	score := e.score
	q.remove(e)
	return score
}

func (q *HeapQueue[K]) PeekMin() (K, float64, error) {
	if len(q.heap) == 0 {
		var zero K
		return zero, 0, ErrEmpty
	}
	root := q.heap[0]
	return root.key, root.score, nil
}

func (q *HeapQueue[K]) PopMin() (K, float64, error) {
	if len(q.heap) == 0 {
		var zero K
		return zero, 0, ErrEmpty
	}
	root := q.heap[0]
	key, score := root.key, root.score
	q.remove(root)
	return key, score, nil
}

func (q *HeapQueue[K]) SwapMin(k K, score float64) (K, float64, error) {
	checkScore(score)
	if len(q.heap) == 0 {
		var zero K
		return zero, 0, ErrEmpty
	}
	root := q.heap[0]
	oldKey, oldScore := root.key, root.score
	delete(q.index, oldKey)
	root.key, root.score = k, score
	q.index[k] = root
	q.siftDown(root)
	return oldKey, oldScore, nil
}

func (q *HeapQueue[K]) SwapKey(k K, score float64, oldKey K) float64 {
	checkScore(score)
	e, ok := q.index[oldKey]
	if !ok {
		panic(fmt.Errorf("ipq.HeapQueue.SwapKey: key %v not present", oldKey))
	}
	oldScore := e.score
	delete(q.index, oldKey)
	e.key, e.score = k, score
	q.index[k] = e
	q.fix(e, oldScore)
	return oldScore
}

func (q *HeapQueue[K]) Scale(factor float64) {
	for _, e := range q.heap {
		e.score *= factor
	}
}

// remove deletes an entry from an arbitrary position: the standard
// "swap-with-last, then sift" trick.
func (q *HeapQueue[K]) remove(e *heapEntry[K]) {
	delete(q.index, e.key)
	last := len(q.heap) - 1
	pos := e.index
	lastEntry := q.heap[last]
	q.heap = q.heap[:last]
	if lastEntry != e {
		q.heap[pos] = lastEntry
		lastEntry.index = pos
		q.fix(lastEntry, e.score)
	}
}

// fix restores heap order for an entry whose score just changed from
// oldScore, sifting in whichever direction is needed. Ordering is by
// (score, key), so when the score did not grow the entry may still need to
// move up on its key; sifting up and then down covers that case.
func (q *HeapQueue[K]) fix(e *heapEntry[K], oldScore float64) {
	if e.score > oldScore {
		q.siftDown(e)
		return
	}
	q.siftUp(e)
	q.siftDown(e)
}

func (q *HeapQueue[K]) siftUp(e *heapEntry[K]) {
	pos := e.index
	for pos > 0 {
		parentPos := (pos - 1) / 2
		parent := q.heap[parentPos]
		if !e.less(parent) {
			break
		}
		parent.index = pos
		q.heap[pos] = parent
		pos = parentPos
	}
	e.index = pos
	q.heap[pos] = e
}

func (q *HeapQueue[K]) siftDown(e *heapEntry[K]) {
	pos := e.index
	n := len(q.heap)
	for {
		childPos := 2*pos + 1
		if childPos >= n {
			break
		}
		if right := childPos + 1; right < n && q.heap[right].less(q.heap[childPos]) {
			childPos = right
		}
		child := q.heap[childPos]
		if !child.less(e) {
			break
		}
		child.index = pos
		q.heap[pos] = child
		pos = childPos
	}
	e.index = pos
	q.heap[pos] = e
}
