// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package dlfu

import "github.com/sirupsen/logrus"

type config struct {
	logger          *logrus.Logger
	admissionFilter bool
}

// Option configures optional, rarely-set knobs on NewDLFU/NewADLFU; the
// required parameters (size, msize, T) stay positional.
type Option func(*config)

// WithLogger attaches a logger that receives Debug-level events for
// renormalisation (DLFU/ADLFU) and decay-constant retuning (ADLFU).
// If unset, no logging occurs.
func WithLogger(l *logrus.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithAdmissionFilter makes Set reject a brand-new key whose initial count
// is below the current primary minimum, instead of displacing the minimum
// into shadow. This keeps a burst of cold misses from flushing hot entries,
// at the cost of new keys having to earn their way in through the shadow
// partition first. It has no effect in the T=0 LRU regime, where admission
// is always by recency.
func WithAdmissionFilter() Option {
	return func(c *config) { c.admissionFilter = true }
}

func buildConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
