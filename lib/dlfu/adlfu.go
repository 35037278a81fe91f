// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package dlfu

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"

	"git.lukeshu.com/dlfu-cache/lib/pidctl"
)

// adlfuT0 is the nominal decay time constant: the controller's zero output
// maps to T=adlfuT0, and a fresh ADLFU starts there.
const adlfuT0 = 8.0

// adlfuKu is the Ziegler-Nichols ultimate gain for ADLFU's PID controller;
// the ultimate period is size/2, set at construction.
const adlfuKu = 1.0

// adlfuEpsilon keeps the relative-error denominator nonzero when both the
// observed count and the target are zero.
const adlfuEpsilon = 1e-9

// ADLFU is a DLFU engine whose decay time constant T is continuously
// retuned by a PID controller driven by the gap between a low-pass-filtered
// per-access count and a target blending the primary partition's plain and
// frequency-weighted mean counts.
type ADLFU[K constraints.Ordered, V any] struct {
	*DLFU[K, V]
	lpf *pidctl.LowPassFilter
	pid *pidctl.PIDController
}

// NewADLFU constructs an ADLFU cache starting at T=8.0, self-adjusting on
// every get.
func NewADLFU[K constraints.Ordered, V any](size, msize int, opts ...Option) (*ADLFU[K, V], error) {
	core, err := NewDLFU[K, V](size, msize, adlfuT0, opts...)
	if err != nil {
		return nil, err
	}
	a := &ADLFU[K, V]{
		DLFU: core,
		lpf:  pidctl.NewLowPassFilter(float64(size) / 8.0),
		pid:  pidctl.ZieglerNichols(adlfuKu, float64(size)/2.0, -1, -1),
	}
	core.tune = a.retune
	return a, nil
}

// retune is the embedded DLFU's per-Get hook. It computes the target count
// from the current primary-partition statistics, low-pass-filters the
// just-accessed key's count, feeds the PID controller the normalised error,
// and rebuilds T/M from the controller's output. Existing stored scores are
// left untouched: the new M only affects future accesses.
func (a *ADLFU[K, V]) retune(count float64) {
	mean := a.DLFU.CountAvg()
	// mean2 is the access-pattern-matched mean: each entry's count
	// weighted by how often it is accessed, i.e. sum(count^2)/sum(count).
	var mean2 float64
	if a.DLFU.countSum != 0 {
		mean2 = a.DLFU.countSum2 / (a.DLFU.countSum * a.DLFU.C)
	}
	target := 0.75*mean + 0.25*mean2

	filtered := a.lpf.Update(count, 1.0)
	errIn := (filtered - target) / (filtered + target + adlfuEpsilon)
	u := a.pid.Update(errIn, 1.0)

	// u=0 maps to the nominal T; the controller clamps u to [-1, 1], so
	// T stays within [T0/21, 21*T0], never reaching 0 or +Inf, and the
	// engine never leaves the decaying regime.
	T := adlfuT0 * (1.1 + u) / (1.1 - u)
	size := float64(a.DLFU.size)

	oldT := a.DLFU.T
	a.DLFU.T = T
	a.DLFU.M = (T*size + 1) / (T * size)

	if a.DLFU.logger != nil && math.Abs(T-oldT) > 1e-9 {
		a.DLFU.logger.WithFields(map[string]interface{}{
			"old_T": oldT, "new_T": T, "error": errIn, "u": u,
		}).Debug("adlfu: retuned decay time constant")
	}
}

func (a *ADLFU[K, V]) String() string {
	return fmt.Sprintf(
		"ADLFUCache(size=%d, msize=%d, T=%.3f): gets=%d hit=%.3f avg=%.3f var=%.3f min=%.3f",
		a.DLFU.size, a.DLFU.msize, a.DLFU.T, a.DLFU.getCount, a.DLFU.HitRate(), a.DLFU.CountAvg(), a.DLFU.CountVar(), a.DLFU.CountMin())
}
