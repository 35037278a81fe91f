// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package pidctl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowPassFilterConvergesToConstantInput(t *testing.T) {
	f := NewLowPassFilter(4.0)
	var out float64
	for i := 0; i < 200; i++ {
		out = f.Update(1.0, 1.0)
	}
	assert.InDelta(t, 1.0, out, 1e-6)
}

func TestLowPassFilterZeroTimeConstantTracksInstantly(t *testing.T) {
	f := NewLowPassFilter(0.0)
	out := f.Update(3.5, 1.0)
	assert.Equal(t, 3.5, out)
	out = f.Update(-2.0, 1.0)
	assert.Equal(t, -2.0, out)
}

func TestPIDControllerOutputClamped(t *testing.T) {
	c := New(100, 100, 100, 0, 0)
	for i := 0; i < 50; i++ {
		out := c.Update(1.0, 1.0)
		assert.LessOrEqual(t, out, c.OutputMax)
		assert.GreaterOrEqual(t, out, c.OutputMin)
	}
}

func TestPIDControllerZeroErrorHoldsOutput(t *testing.T) {
	c := New(1, 1, 1, 0, 0)
	initial := c.Output
	out := c.Update(0, 1.0)
	assert.Equal(t, initial, out)
}

func TestPIDControllerDriveErrorToZeroReducesOutput(t *testing.T) {
	c := StandardForm(0.5, 10, 0, -1, -1)
	first := c.Update(1.0, 1.0)
	second := c.Update(0.0, 1.0)
	assert.Less(t, second, first)
}

func TestStandardFormDefaultsLdLe(t *testing.T) {
	c := StandardForm(1.0, 8.0, 8.0, -1, -1)
	assert.InDelta(t, 1.0, c.Ld, 1e-9)
	assert.InDelta(t, 0.125, c.Le, 1e-9)
}

func TestZieglerNicholsDerivesStandardFormParameters(t *testing.T) {
	c := ZieglerNichols(5.0, 15.0, -1, -1)
	assert.InDelta(t, 3.0, c.Kp, 1e-9)      // 0.6*Ku
	assert.InDelta(t, 1.0/7.5, c.Ki, 1e-9)  // 1/Ti, Ti=Tu/2
	assert.InDelta(t, 15.0/8.0, c.Kd, 1e-9) // Td=Tu/8
}

func TestPIDControllerResetAvoidsDerivativeSpike(t *testing.T) {
	c := StandardForm(1, 4, 4, -1, -1)
	// A raw step input (no reset) produces a large one-shot derivative
	// term; Reset seeds the filtered error first to suppress it.
	stepped := New(c.Kp, c.Ki, c.Kd, c.Ld, c.Le)
	stepped.Update(0.1, 1.0)

	reset := New(c.Kp, c.Ki, c.Kd, c.Ld, c.Le)
	reset.Reset(0.1, 1.0)

	require.NotEqual(t, stepped.Output, reset.Output)
	assert.LessOrEqual(t, math.Abs(reset.Output), math.Abs(stepped.Output)+1e-9)
}

func TestPIDControllerStringContainsGains(t *testing.T) {
	c := New(1, 2, 3, 0, 0)
	s := c.String()
	assert.Contains(t, s, "PIDController")
	assert.Contains(t, s, "output=")
}
