// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package cache is the uniform look-aside cache facade over the three
// engines in this module (lib/dlfu's DLFU/ADLFU, lib/arc's ARC): a common
// Cache[K,V] capability (get/set/delete/contains/len/iterate) and a
// separate read-only Stats capability.
//
// This is the only package callers need to import.
package cache

import (
	"fmt"

	"git.lukeshu.com/dlfu-cache/lib/dlfu"
	"git.lukeshu.com/dlfu-cache/lib/ipq"
)

// ErrMiss is returned by Get/Delete for a key with no stored value.
var ErrMiss = dlfu.ErrMiss

// ErrEmpty is returned internally by IPQ peek/pop on an empty queue; it is
// re-exported here so callers checking errors from this package never need
// to import lib/ipq.
var ErrEmpty = ipq.ErrEmpty

// ErrInvalidConfig is returned by the constructors for a non-positive
// size, negative msize, or NaN T.
var ErrInvalidConfig = dlfu.ErrInvalidConfig

// Cache is the common contract implemented by DLFUCache, ADLFUCache, and
// ARCCache: an independent, non-blocking keyed mapping with hit/miss
// accounting.
type Cache[K comparable, V any] interface {
	// Get returns the stored value for k, or fails with ErrMiss.
	Get(k K) (V, error)
	// Set stores v for k.
	Set(k K, v V)
	// Delete removes k's stored value, or fails with ErrMiss.
	Delete(k K) error
	// Contains reports whether k has a stored value, without counting
	// as a get.
	Contains(k K) bool
	// Len returns the number of entries with stored values.
	Len() int
	// Keys returns the keys with stored values, in no particular
	// order.
	Keys() []K
	// Clear empties the cache without resetting statistics.
	Clear()
	// ResetStats zeroes the statistics counters without affecting
	// cache contents.
	ResetStats()
}

// Stats is the read-only statistics capability shared by every Cache
// implementation in this module.
type Stats interface {
	GetCount() uint64
	SetCount() uint64
	DelCount() uint64
	HitCount() uint64
	MHitCount() uint64
	HitRate() float64
	MHitRate() float64
	fmt.Stringer
}
