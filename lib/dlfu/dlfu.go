// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package dlfu implements a Decaying Least-Frequently-Used admission and
// eviction engine: a two-tier cache (a primary partition holding values,
// plus a shadow partition holding score-only metadata for keys evicted or
// not yet admitted) over indexed priority queues, with O(1)-amortised
// exponential count decay. T=0 degenerates to plain LRU and T=+Inf to
// plain LFU; an adaptive variant (adlfu.go) drives T with a PID
// controller.
package dlfu

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"

	"git.lukeshu.com/dlfu-cache/lib/ipq"
)

// ErrMiss is returned by Get/Delete for a key with no stored value.
var ErrMiss = errors.New("dlfu: key not present")

// ErrInvalidConfig is returned by NewDLFU/NewADLFU for a non-positive size,
// negative msize, or NaN/negative T.
var ErrInvalidConfig = errors.New("dlfu: invalid configuration")

// ErrEmpty re-exports ipq.ErrEmpty, returned internally by PeekMin/PopMin on
// an empty queue; exposed so callers never need to import lib/ipq directly.
var ErrEmpty = ipq.ErrEmpty

// cRenormThreshold is the point past which C and every stored score are
// rescaled back down, bounding C while leaving enough dynamic range that
// the rescale stays rare.
const cRenormThreshold = 1e100

// DLFU is a decaying-LFU cache engine over keys K with values V.
//
// Each entry's stored score is count*C, where count is the decayed access
// count the caller observes and C is a monotone-growing scale factor.
// Every access grows C by the multiplier M, so every untouched score
// shrinks relative to C without being visited; scores are converted back
// to counts (score/C) only on read.
//
// A DLFU is not safe for concurrent use.
type DLFU[K constraints.Ordered, V any] struct {
	size, msize     int
	admissionFilter bool

	// T is the decay time constant, in units of full-cache accesses: an
	// untouched entry's count decays by e^-1 over T*size accesses. C and
	// M are the scale factor and its per-access multiplier.
	T, M, C float64

	cqueue, mqueue ipq.Queue[K]
	newQueue       func() ipq.Queue[K]
	values         map[K]V

	countSum, countSum2   float64
	mcountSum, mcountSum2 float64

	getCount, setCount, delCount uint64
	hitCount, mhitCount          uint64

	logger *logrus.Logger

	// tune, if non-nil, is called once per Get (after the key's score
	// has been updated but before the C decay step) with the key's
	// freshly-observed count; ADLFU hooks this to retune T/M.
	tune func(count float64)
}

// NewDLFU constructs a DLFU cache engine with primary capacity size, shadow
// capacity msize, and decay time constant T (0 for LRU, +Inf for LFU,
// otherwise decaying DLFU).
func NewDLFU[K constraints.Ordered, V any](size, msize int, T float64, opts ...Option) (*DLFU[K, V], error) {
	if size <= 0 || msize < 0 || math.IsNaN(T) || T < 0 {
		return nil, fmt.Errorf("dlfu.NewDLFU(size=%d, msize=%d, T=%v): %w", size, msize, T, ErrInvalidConfig)
	}
	cfg := buildConfig(opts)

	c := &DLFU[K, V]{
		size: size, msize: msize, T: T,
		C:      1.0,
		values: make(map[K]V, size),
		logger: cfg.logger,
	}
	switch {
	case T == 0:
		// LRU: counts are pre-decayed to zero and the queues order by
		// recency; scores are only a "time of last touch" stamp.
		c.M = math.Inf(1)
		c.newQueue = func() ipq.Queue[K] { return ipq.NewLRUQueue[K]() }
	case math.IsInf(T, 1):
		// LFU: no decay at all.
		c.M = 1.0
		c.admissionFilter = cfg.admissionFilter
		c.newQueue = func() ipq.Queue[K] { return ipq.NewHeapQueue[K]() }
	default:
		c.M = (T*float64(size) + 1) / (T * float64(size))
		c.admissionFilter = cfg.admissionFilter
		c.newQueue = func() ipq.Queue[K] { return ipq.NewHeapQueue[K]() }
	}
	c.cqueue = c.newQueue()
	c.mqueue = c.newQueue()
	return c, nil
}

// decaying reports whether scores carry meaningful decayed counts (T != 0);
// in the T=0 LRU regime counts are pre-decayed to zero and the moment
// accumulators stay untouched.
func (c *DLFU[K, V]) decaying() bool { return c.T != 0 }

// Get returns the stored value for k, incrementing get_count. It fails with
// ErrMiss if k has no stored value, whether k is wholly absent or present
// only in the shadow partition; get_count and the relevant hit counters
// still increment on a miss, and a wholly-absent key is entered into the
// shadow partition so that its access history starts accumulating.
func (c *DLFU[K, V]) Get(k K) (V, error) {
	c.getCount++

	var (
		result V
		err    error
		count  float64
	)
	switch {
	case c.cqueue.Contains(k):
		c.hitCount++
		count = c.touch(c.cqueue, k, true)
		result = c.values[k]
	case c.mqueue.Contains(k):
		c.mhitCount++
		count = c.touch(c.mqueue, k, false)
		err = ErrMiss
	default:
		err = ErrMiss
		if c.insertShadow(k, c.C) {
			count = 1.0
		}
	}

	if c.tune != nil {
		c.tune(count)
	}
	c.decayStep()

	if err != nil {
		var zero V
		return zero, err
	}
	return result, nil
}

// touch records one access to a key already present in q, returning the
// key's new externally-observed count.
func (c *DLFU[K, V]) touch(q ipq.Queue[K], k K, primary bool) float64 {
	if !c.decaying() {
		// LRU: re-stamp with the current C; count stays zero.
		q.Set(k, c.C)
		return 0
	}
	old, _ := q.Get(k)
	newScore := old + c.C
	if primary {
		c.countSum += c.C
		c.countSum2 += newScore*newScore - old*old
	} else {
		c.mcountSum += c.C
		c.mcountSum2 += newScore*newScore - old*old
	}
	q.Set(k, newScore)
	return newScore / c.C
}

// Set stores v for k, incrementing set_count. A key already holding a value
// has its value overwritten with no change to its score. A key found only
// in the shadow partition is promoted to primary, carrying its accumulated
// score across; if primary is full this displaces the current primary
// minimum back into shadow. A wholly new key is admitted directly into
// primary with the score of a single fresh access, likewise displacing the
// primary minimum when full — unless the admission filter is enabled, in
// which case a new key colder than the current primary minimum is silently
// rejected instead of flushing a hotter entry.
func (c *DLFU[K, V]) Set(k K, v V) {
	c.setCount++
	switch {
	case c.cqueue.Contains(k):
		c.values[k] = v
	case c.mqueue.Contains(k):
		score := c.mqueue.Delete(k)
		if c.decaying() {
			c.mcountSum -= score
			c.mcountSum2 -= score * score
		}
		c.insertPrimary(k, score, false)
		c.values[k] = v
	default:
		if c.insertPrimary(k, c.C, c.admissionFilter) {
			c.values[k] = v
		}
	}
}

// insertPrimary inserts (k, score) into primary, displacing the current
// minimum into shadow if primary is full. When filter is true and primary
// is full, an entry scoring below the current minimum is rejected instead.
// Reports whether the entry was inserted.
func (c *DLFU[K, V]) insertPrimary(k K, score float64, filter bool) bool {
	if c.cqueue.Len() < c.size {
		c.cqueue.Set(k, score)
		if c.decaying() {
			c.countSum += score
			c.countSum2 += score * score
		}
		return true
	}
	if filter {
		if _, minScore, err := c.cqueue.PeekMin(); err == nil && score < minScore {
			return false
		}
	}
	oldKey, oldScore, err := c.cqueue.SwapMin(k, score)
	if err != nil {
		return false
	}
	if c.decaying() {
		c.countSum += score - oldScore
		c.countSum2 += score*score - oldScore*oldScore
	}
	delete(c.values, oldKey)
	c.insertShadow(oldKey, oldScore)
	return true
}

// Delete removes k's stored value, moving its decayed score into the shadow
// partition so that a re-appearance is still recognised. It fails with
// ErrMiss if k has no stored value; del_count still increments.
func (c *DLFU[K, V]) Delete(k K) error {
	c.delCount++
	if !c.cqueue.Contains(k) {
		return ErrMiss
	}
	score := c.cqueue.Delete(k)
	if c.decaying() {
		c.countSum -= score
		c.countSum2 -= score * score
	}
	delete(c.values, k)
	c.insertShadow(k, score)
	return nil
}

// insertShadow offers (k, score) to the shadow partition: inserted directly
// if there's room, else swapped in for the current shadow minimum, which is
// discarded. Reports whether the entry was inserted.
func (c *DLFU[K, V]) insertShadow(k K, score float64) bool {
	if c.msize == 0 {
		return false
	}
	if c.mqueue.Len() < c.msize {
		c.mqueue.Set(k, score)
		if c.decaying() {
			c.mcountSum += score
			c.mcountSum2 += score * score
		}
		return true
	}
	_, oldScore, err := c.mqueue.SwapMin(k, score)
	if err != nil {
		return false
	}
	if c.decaying() {
		c.mcountSum += score - oldScore
		c.mcountSum2 += score*score - oldScore*oldScore
	}
	return true
}

// decayStep applies the per-access decay: grow C by M, renormalising C and
// every stored score back down once C crosses cRenormThreshold. The
// renormalisation is the engine's sole O(n) operation and is amortised over
// the log_M(threshold) accesses it takes C to climb back up. In the LRU
// regime C is a plain access clock instead.
func (c *DLFU[K, V]) decayStep() {
	if !c.decaying() {
		c.C++
		return
	}
	c.C *= c.M
	if c.C <= cRenormThreshold {
		return
	}
	factor := 1.0 / c.C
	c.cqueue.Scale(factor)
	c.mqueue.Scale(factor)
	c.countSum *= factor
	c.countSum2 *= factor * factor
	c.mcountSum *= factor
	c.mcountSum2 *= factor * factor
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"C": c.C, "factor": factor}).Debug("dlfu: renormalising C")
	}
	c.C = 1.0
}

// Contains reports whether k has a stored value, without counting as a get.
func (c *DLFU[K, V]) Contains(k K) bool { return c.cqueue.Contains(k) }

// Len returns the number of entries with stored values.
func (c *DLFU[K, V]) Len() int { return c.cqueue.Len() }

// Keys returns the keys with stored values, in no particular order.
func (c *DLFU[K, V]) Keys() []K { return c.cqueue.Keys() }

// Count returns the externally-observed decayed access count for k, in
// either partition, without counting as a get. Absent keys (and every key,
// in the LRU regime) have count 0.
func (c *DLFU[K, V]) Count(k K) float64 {
	if !c.decaying() {
		return 0
	}
	if score, ok := c.cqueue.Get(k); ok {
		return score / c.C
	}
	if score, ok := c.mqueue.Get(k); ok {
		return score / c.C
	}
	return 0
}

// Clear empties the cache (primary and shadow) and resets the decay clock,
// without resetting the get/set/del/hit counters; use ResetStats for that.
func (c *DLFU[K, V]) Clear() {
	c.cqueue = c.newQueue()
	c.mqueue = c.newQueue()
	c.values = make(map[K]V, c.size)
	c.C = 1.0
	c.countSum, c.countSum2 = 0, 0
	c.mcountSum, c.mcountSum2 = 0, 0
}

// ResetStats zeroes the get/set/del/hit counters without affecting cache
// contents.
func (c *DLFU[K, V]) ResetStats() {
	c.getCount, c.setCount, c.delCount = 0, 0, 0
	c.hitCount, c.mhitCount = 0, 0
}

func (c *DLFU[K, V]) GetCount() uint64  { return c.getCount }
func (c *DLFU[K, V]) SetCount() uint64  { return c.setCount }
func (c *DLFU[K, V]) DelCount() uint64  { return c.delCount }
func (c *DLFU[K, V]) HitCount() uint64  { return c.hitCount }
func (c *DLFU[K, V]) MHitCount() uint64 { return c.mhitCount }

func (c *DLFU[K, V]) HitRate() float64 {
	if c.getCount == 0 {
		return math.NaN()
	}
	return float64(c.hitCount) / float64(c.getCount)
}

func (c *DLFU[K, V]) MHitRate() float64 {
	if c.getCount == 0 {
		return math.NaN()
	}
	return float64(c.mhitCount) / float64(c.getCount)
}

func (c *DLFU[K, V]) THitRate() float64 {
	if c.getCount == 0 {
		return math.NaN()
	}
	return float64(c.hitCount+c.mhitCount) / float64(c.getCount)
}

// CountMin is the smallest externally-observed count in primary, or 0 if
// primary isn't yet full.
func (c *DLFU[K, V]) CountMin() float64 {
	if !c.decaying() || c.cqueue.Len() < c.size {
		return 0
	}
	_, score, err := c.cqueue.PeekMin()
	if err != nil {
		return 0
	}
	return score / c.C
}

func (c *DLFU[K, V]) CountAvg() float64 {
	return c.countSum / (c.C * float64(c.size))
}

// CountVar computes sum2/n - avg^2 in a single pass over the accumulators;
// callers comparing variances should expect that exact formula's rounding.
func (c *DLFU[K, V]) CountVar() float64 {
	avg := c.CountAvg()
	return c.countSum2/(c.C*c.C*float64(c.size)) - avg*avg
}

func (c *DLFU[K, V]) CountDev() float64 {
	v := c.CountVar()
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}

// MCountMin, MCountAvg, MCountVar, and MCountDev are the shadow-partition
// counterparts of CountMin through CountDev.
func (c *DLFU[K, V]) MCountMin() float64 {
	if !c.decaying() || c.msize == 0 || c.mqueue.Len() < c.msize {
		return 0
	}
	_, score, err := c.mqueue.PeekMin()
	if err != nil {
		return 0
	}
	return score / c.C
}

func (c *DLFU[K, V]) MCountAvg() float64 {
	if c.msize == 0 {
		return math.NaN()
	}
	return c.mcountSum / (c.C * float64(c.msize))
}

func (c *DLFU[K, V]) MCountVar() float64 {
	if c.msize == 0 {
		return math.NaN()
	}
	avg := c.MCountAvg()
	return c.mcountSum2/(c.C*c.C*float64(c.msize)) - avg*avg
}

func (c *DLFU[K, V]) MCountDev() float64 {
	v := c.MCountVar()
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}

// TSize, TCountMin, TCountAvg, TCountVar, and TCountDev aggregate primary
// and shadow together.
func (c *DLFU[K, V]) TSize() int { return c.size + c.msize }

func (c *DLFU[K, V]) TCountMin() float64 {
	cFull := c.cqueue.Len() >= c.size
	mFull := c.msize > 0 && c.mqueue.Len() >= c.msize
	switch {
	case !cFull && !mFull:
		return 0
	case !cFull:
		return c.MCountMin()
	case !mFull:
		return c.CountMin()
	default:
		a, b := c.CountMin(), c.MCountMin()
		if a < b {
			return a
		}
		return b
	}
}

func (c *DLFU[K, V]) TCountAvg() float64 {
	n := c.TSize()
	if n == 0 {
		return math.NaN()
	}
	return (c.countSum + c.mcountSum) / (c.C * float64(n))
}

func (c *DLFU[K, V]) TCountVar() float64 {
	n := c.TSize()
	if n == 0 {
		return math.NaN()
	}
	avg := c.TCountAvg()
	return (c.countSum2+c.mcountSum2)/(c.C*c.C*float64(n)) - avg*avg
}

func (c *DLFU[K, V]) TCountDev() float64 {
	v := c.TCountVar()
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}

func (c *DLFU[K, V]) String() string {
	return fmt.Sprintf(
		"DLFUCache(size=%d, msize=%d, T=%g): gets=%d hit=%.3f avg=%.3f var=%.3f min=%.3f",
		c.size, c.msize, c.T, c.getCount, c.HitRate(), c.CountAvg(), c.CountVar(), c.CountMin())
}
