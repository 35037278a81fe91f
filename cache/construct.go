// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package cache

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"

	"git.lukeshu.com/dlfu-cache/lib/arc"
	"git.lukeshu.com/dlfu-cache/lib/dlfu"
)

// DLFUCache is a Decaying-LFU cache: set T=0 for plain LRU, T=+Inf for
// plain LFU, or a finite T for decaying DLFU. It is a thin handle around
// lib/dlfu's engine; the full statistics surface (CountAvg, CountVar,
// TCountMin, ...) is available on the embedded engine.
type DLFUCache[K constraints.Ordered, V any] struct {
	*dlfu.DLFU[K, V]
}

// ADLFUCache is a DLFU cache whose decay time constant T is continuously
// retuned by a PID controller.
type ADLFUCache[K constraints.Ordered, V any] struct {
	*dlfu.ADLFU[K, V]
}

// ARCCache is an Adaptive Replacement Cache.
type ARCCache[K comparable, V any] struct {
	*arc.ARC[K, V]
}

type optConfig struct {
	logger          *logrus.Logger
	admissionFilter bool
}

// Option configures optional, rarely-set constructor knobs.
type Option func(*optConfig)

// WithLogger attaches a logger that receives Debug-level events for
// renormalisation, ADLFU retuning, and ARC target adjustment.
func WithLogger(l *logrus.Logger) Option {
	return func(c *optConfig) { c.logger = l }
}

// WithAdmissionFilter makes a DLFU/ADLFU cache's Set reject a brand-new key
// whose count is below the current primary minimum, so a burst of cold
// misses cannot flush hot entries. It has no effect on ARCCache or in the
// T=0 LRU regime.
func WithAdmissionFilter() Option {
	return func(c *optConfig) { c.admissionFilter = true }
}

func buildOptConfig(opts []Option) optConfig {
	var c optConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c optConfig) dlfuOpts() []dlfu.Option {
	var opts []dlfu.Option
	if c.logger != nil {
		opts = append(opts, dlfu.WithLogger(c.logger))
	}
	if c.admissionFilter {
		opts = append(opts, dlfu.WithAdmissionFilter())
	}
	return opts
}

func (c optConfig) arcOpts() []arc.Option {
	if c.logger == nil {
		return nil
	}
	return []arc.Option{arc.WithLogger(c.logger)}
}

// NewDLFUCache constructs a DLFU cache with primary capacity size, shadow
// capacity msize, and decay time constant T (0 for LRU, +Inf for LFU,
// otherwise decaying DLFU). Fails with ErrInvalidConfig for a non-positive
// size, negative msize, or NaN/negative T.
func NewDLFUCache[K constraints.Ordered, V any](size, msize int, T float64, opts ...Option) (DLFUCache[K, V], error) {
	cfg := buildOptConfig(opts)
	core, err := dlfu.NewDLFU[K, V](size, msize, T, cfg.dlfuOpts()...)
	return DLFUCache[K, V]{core}, err
}

// NewADLFUCache constructs an ADLFU cache with primary capacity size and
// shadow capacity msize, starting at T=8.0 and self-tuning thereafter.
func NewADLFUCache[K constraints.Ordered, V any](size, msize int, opts ...Option) (ADLFUCache[K, V], error) {
	cfg := buildOptConfig(opts)
	core, err := dlfu.NewADLFU[K, V](size, msize, cfg.dlfuOpts()...)
	return ADLFUCache[K, V]{core}, err
}

// NewARCCache constructs an Adaptive Replacement Cache with the given
// primary capacity.
func NewARCCache[K comparable, V any](size int, opts ...Option) (ARCCache[K, V], error) {
	cfg := buildOptConfig(opts)
	core, err := arc.New[K, V](size, cfg.arcOpts()...)
	return ARCCache[K, V]{core}, err
}
