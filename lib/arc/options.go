// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package arc

import "github.com/sirupsen/logrus"

type config struct {
	logger *logrus.Logger
}

// Option configures optional, rarely-set knobs on New.
type Option func(*config)

// WithLogger attaches a logger that receives Debug-level events when the
// learned target p changes.
func WithLogger(l *logrus.Logger) Option {
	return func(c *config) { c.logger = l }
}

func buildConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
