// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package arc implements the Adaptive Replacement Cache: four recency/
// frequency-ordered key lists (T1, T2 live; B1, B2 ghost) with a
// self-tuning target p for T1's size.
//
// This is the ARC reference algorithm modified to be a look-aside cache
// with independent get/set/delete operations, which weakens some of the
// classic length invariants on T1/T2/B1/B2 since entries can be deleted
// out of a full cache. Each of the four lists gets its own K->entry index
// (t1i/t2i/b1i/b2i), so which list holds a key is answered by which map
// holds it.
package arc

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"git.lukeshu.com/dlfu-cache/lib/dlfu"
	"git.lukeshu.com/dlfu-cache/lib/llist"
)

// ErrMiss is returned by Get/Delete for a key with no stored value. It
// re-exports lib/dlfu's sentinel (rather than declaring a distinct one) so
// that callers going through the cache facade can check errors.Is(err,
// cache.ErrMiss) regardless of which engine backs the Cache they're using.
var ErrMiss = dlfu.ErrMiss

// ErrInvalidConfig is returned by New for a non-positive size. It
// re-exports lib/dlfu's sentinel, for the same reason as ErrMiss.
var ErrInvalidConfig = dlfu.ErrInvalidConfig

// ARC is an Adaptive Replacement Cache engine over keys K with values V.
//
// An ARC is not safe for concurrent use.
type ARC[K comparable, V any] struct {
	size int
	p    int

	t1, t2, b1, b2     llist.List[K]
	t1i, t2i, b1i, b2i map[K]*llist.Entry[K]
	values             map[K]V

	getCount, setCount, delCount uint64
	hitCount, mhitCount          uint64

	logger *logrus.Logger
}

// New constructs an ARC cache with the given primary capacity.
func New[K comparable, V any](size int, opts ...Option) (*ARC[K, V], error) {
	if size <= 0 {
		return nil, fmt.Errorf("arc.New(size=%d): %w", size, ErrInvalidConfig)
	}
	cfg := buildConfig(opts)
	c := &ARC[K, V]{
		size:   size,
		values: make(map[K]V, size),
		logger: cfg.logger,
	}
	c.resetIndices()
	return c, nil
}

func (c *ARC[K, V]) resetIndices() {
	c.t1i = make(map[K]*llist.Entry[K])
	c.t2i = make(map[K]*llist.Entry[K])
	c.b1i = make(map[K]*llist.Entry[K])
	c.b2i = make(map[K]*llist.Entry[K])
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (c *ARC[K, V]) logP(oldP int) {
	if c.logger != nil && c.p != oldP {
		c.logger.WithFields(logrus.Fields{"old_p": oldP, "new_p": c.p}).Debug("arc: adjusted target p")
	}
}

// Get returns the stored value for k, incrementing get_count. A hit in T1
// is moved to the newest end of T2 (first touch promotes recency-only
// entries to the frequency list); a hit in T2 refreshes its position. A
// ghost hit (B1/B2) and a true miss both fail with ErrMiss: the ghost
// lists are consulted only by Set.
func (c *ARC[K, V]) Get(k K) (V, error) {
	c.getCount++
	if e, ok := c.t1i[k]; ok {
		c.hitCount++
		c.t1.Delete(e)
		delete(c.t1i, k)
		c.t2i[k] = c.t2.Store(k)
		return c.values[k], nil
	}
	if e, ok := c.t2i[k]; ok {
		c.hitCount++
		c.t2.MoveToNewest(e)
		return c.values[k], nil
	}
	var zero V
	return zero, ErrMiss
}

// Set stores v for k, incrementing set_count.
func (c *ARC[K, V]) Set(k K, v V) {
	c.setCount++

	if e, ok := c.t1i[k]; ok {
		c.t1.Delete(e)
		delete(c.t1i, k)
		c.t2i[k] = c.t2.Store(k)
		c.values[k] = v
		return
	}
	if e, ok := c.t2i[k]; ok {
		c.t2.MoveToNewest(e)
		c.values[k] = v
		return
	}
	if e, ok := c.b1i[k]; ok {
		c.mhitCount++
		oldP := c.p
		c.p = minInt(c.size, c.p+maxInt(c.b2.Len/c.b1.Len, 1))
		c.logP(oldP)
		c.replace(false)
		c.b1.Delete(e)
		delete(c.b1i, k)
		c.t2i[k] = c.t2.Store(k)
		c.values[k] = v
		return
	}
	if e, ok := c.b2i[k]; ok {
		c.mhitCount++
		oldP := c.p
		c.p = maxInt(0, c.p-maxInt(c.b1.Len/c.b2.Len, 1))
		c.logP(oldP)
		c.replace(true)
		c.b2.Delete(e)
		delete(c.b2i, k)
		c.t2i[k] = c.t2.Store(k)
		c.values[k] = v
		return
	}

	// Cold miss. Trim the ghost directory before replace runs, so the
	// ghost that replace is about to create survives: trimming after
	// would pop the entry whose history the next re-set needs. The
	// recency side is trimmed first; when it has no ghost to give up
	// and the directory is at capacity, the frequency side pays
	// instead (falling back to B1 if B2 is also empty).
	trimmed := false
	if c.t1.Len+c.b1.Len == c.size {
		trimmed = c.popOldest(&c.b1, c.b1i)
	}
	if !trimmed && c.directoryLen() >= 2*c.size {
		if !c.popOldest(&c.b2, c.b2i) {
			c.popOldest(&c.b1, c.b1i)
		}
	}
	c.replace(false)
	c.t1i[k] = c.t1.Store(k)
	c.values[k] = v
}

func (c *ARC[K, V]) directoryLen() int {
	return c.t1.Len + c.t2.Len + c.b1.Len + c.b2.Len
}

// popOldest drops a ghost list's oldest entry, reporting whether there was
// one to drop.
func (c *ARC[K, V]) popOldest(l *llist.List[K], index map[K]*llist.Entry[K]) bool {
	e := l.Oldest()
	if e == nil {
		return false
	}
	l.Delete(e)
	delete(index, e.Value)
	return true
}

// replace evicts one live entry into its ghost list to make room for the
// key about to be inserted/promoted into T2 or T1. keyInB2 is whether the
// triggering key is currently in B2 (only ever true from the Set-hit-in-B2
// path); it breaks the tie toward evicting from T1 when |T1| == p.
func (c *ARC[K, V]) replace(keyInB2 bool) {
	if c.t1.Len+c.t2.Len < c.size {
		return
	}
	if c.t1.Len > c.p || (c.t1.Len == c.p && c.p > 0 && keyInB2) || c.t2.Len == 0 {
		e := c.t1.Oldest()
		if e == nil {
			return
		}
		k := e.Value
		c.t1.Delete(e)
		delete(c.t1i, k)
		delete(c.values, k)
		c.b1i[k] = c.b1.Store(k)
	} else {
		e := c.t2.Oldest()
		if e == nil {
			return
		}
		k := e.Value
		c.t2.Delete(e)
		delete(c.t2i, k)
		delete(c.values, k)
		c.b2i[k] = c.b2.Store(k)
	}
}

// Delete removes k's stored value, moving it from its live list to the
// corresponding ghost list. It fails with ErrMiss if k has no stored
// value.
func (c *ARC[K, V]) Delete(k K) error {
	c.delCount++
	if e, ok := c.t1i[k]; ok {
		c.t1.Delete(e)
		delete(c.t1i, k)
		delete(c.values, k)
		c.b1i[k] = c.b1.Store(k)
		return nil
	}
	if e, ok := c.t2i[k]; ok {
		c.t2.Delete(e)
		delete(c.t2i, k)
		delete(c.values, k)
		c.b2i[k] = c.b2.Store(k)
		return nil
	}
	return ErrMiss
}

// Contains reports whether k has a stored value, without counting as a
// get. Ghost-list keys carry no value, so only T1 and T2 count.
func (c *ARC[K, V]) Contains(k K) bool {
	if _, ok := c.t1i[k]; ok {
		return true
	}
	_, ok := c.t2i[k]
	return ok
}

// Len returns |T1|+|T2|.
func (c *ARC[K, V]) Len() int { return c.t1.Len + c.t2.Len }

// Keys returns the keys with stored values, T1 then T2.
func (c *ARC[K, V]) Keys() []K {
	keys := make([]K, 0, c.Len())
	c.t1.Range(func(e *llist.Entry[K]) bool { keys = append(keys, e.Value); return true })
	c.t2.Range(func(e *llist.Entry[K]) bool { keys = append(keys, e.Value); return true })
	return keys
}

// P returns the current learned target size of T1.
func (c *ARC[K, V]) P() int { return c.p }

// Clear empties all four lists and resets p, without resetting the
// get/set/del/hit counters; use ResetStats for that.
func (c *ARC[K, V]) Clear() {
	c.p = 0
	c.t1, c.t2, c.b1, c.b2 = llist.List[K]{}, llist.List[K]{}, llist.List[K]{}, llist.List[K]{}
	c.resetIndices()
	c.values = make(map[K]V, c.size)
}

// ResetStats zeroes the get/set/del/hit counters without affecting cache
// contents.
func (c *ARC[K, V]) ResetStats() {
	c.getCount, c.setCount, c.delCount = 0, 0, 0
	c.hitCount, c.mhitCount = 0, 0
}

func (c *ARC[K, V]) GetCount() uint64  { return c.getCount }
func (c *ARC[K, V]) SetCount() uint64  { return c.setCount }
func (c *ARC[K, V]) DelCount() uint64  { return c.delCount }
func (c *ARC[K, V]) HitCount() uint64  { return c.hitCount }
func (c *ARC[K, V]) MHitCount() uint64 { return c.mhitCount }

func (c *ARC[K, V]) HitRate() float64 {
	if c.getCount == 0 {
		return math.NaN()
	}
	return float64(c.hitCount) / float64(c.getCount)
}

func (c *ARC[K, V]) MHitRate() float64 {
	if c.getCount == 0 {
		return math.NaN()
	}
	return float64(c.mhitCount) / float64(c.getCount)
}

func (c *ARC[K, V]) String() string {
	return fmt.Sprintf("ARCCache(size=%d): gets=%d hit=%.3f mhit=%.3f p=%d b1=%d t1=%d t2=%d b2=%d",
		c.size, c.getCount, c.HitRate(), c.MHitRate(), c.p, c.b1.Len, c.t1.Len, c.t2.Len, c.b2.Len)
}
