// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package ipq implements an indexed priority queue: a mapping from a key to
// a float64 score that supports O(log n) arbitrary-key update/delete and
// O(1) peek-at-minimum, plus a degenerate variant that ignores score and
// orders purely by recency (for LRU).
package ipq

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned by PeekMin/PopMin when the queue has no entries.
var ErrEmpty = errors.New("ipq: queue is empty")

// Queue is a mapping from K to a float64 score, ordered by score (ties
// broken by key, for determinism) with efficient arbitrary-key and
// minimum-key operations.
//
// A Queue is not safe for concurrent use.
type Queue[K comparable] interface {
	// Get returns the current score for k, and whether k is present.
	Get(k K) (float64, bool)
	// Len returns the number of entries.
	Len() int
	// Contains returns whether k is present.
	Contains(k K) bool
	// Keys returns all present keys, in no particular order.
	Keys() []K
	// Set inserts k with score, or updates k's score if already present.
	// It is invalid (runtime-panic) to pass a NaN score.
	Set(k K, score float64)
	// Delete removes k, returning its former score.
	// It is invalid (runtime-panic) to call Delete for a key not present.
	Delete(k K) float64
	// PeekMin returns the minimum-score entry without removing it.
	// Fails with ErrEmpty if the queue is empty.
	PeekMin() (K, float64, error)
	// PopMin removes and returns the minimum-score entry.
	// Fails with ErrEmpty if the queue is empty.
	PopMin() (K, float64, error)
	// SwapMin atomically replaces the current minimum-score entry with a
	// new entry (k, score), returning the former minimum.
	// Fails with ErrEmpty if the queue is empty.
	SwapMin(k K, score float64) (oldKey K, oldScore float64, err error)
	// SwapKey is like SwapMin, but replaces a specified key rather than
	// the minimum.
	// It is invalid (runtime-panic) to call SwapKey for an oldKey not
	// present.
	SwapKey(k K, score float64, oldKey K) (oldScore float64)
	// Scale multiplies every stored score by factor. O(n).
	Scale(factor float64)
}

func checkScore(score float64) {
	if score != score { //nolint:staticcheck // deliberate NaN check
		panic(fmt.Errorf("ipq: refusing to store a NaN score"))
	}
}
