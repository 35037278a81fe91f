// Copyright (C) 2023-2026  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package pidctl implements a standard-form PID controller with error and
// derivative low-pass filtering and anti-windup integral clamping, plus the
// standalone LowPassFilter it's built from.
package pidctl

import "fmt"

// LowPassFilter is a first-order low-pass filter with time constant T.
type LowPassFilter struct {
	T      float64
	Output float64
}

// NewLowPassFilter returns a LowPassFilter with time constant T and initial
// output seeded to 0.
func NewLowPassFilter(T float64) *LowPassFilter {
	return &LowPassFilter{T: T}
}

// Update filters value, having last been updated dt ago, and returns the new
// output.
func (f *LowPassFilter) Update(value, dt float64) float64 {
	f.Output = (value*dt + f.Output*f.T) / (f.T + dt)
	return f.Output
}

func (f *LowPassFilter) String() string {
	return fmt.Sprintf("LowPassFilter(T=%5.3f): output=%+6.3f", f.T, f.Output)
}

// PIDController is a standard-form PID controller:
//
//   - Standard form (Kp, Ti, Td) rather than parallel form (Kp, Ki, Kd) is
//     available via StandardForm, for more interpretable tuning.
//   - The update interval dt may vary per call.
//   - Output is range-limited to [OutputMin, OutputMax].
//   - The integrator is range-limited and preloaded at its midpoint to
//     reduce windup.
//   - The error input and the derivative term are each low-pass filtered,
//     which (for the derivative) also makes dt=0 safe.
//
// A PIDController is not safe for concurrent use.
type PIDController struct {
	Kp, Ki, Kd float64
	Ld, Le     float64

	OutputMin, OutputMax float64
	integMin, integMax   float64

	error  float64
	integ  float64
	deriv  float64
	Output float64
}

// New returns a parallel-form PIDController (gains Kp, Ki, Kd directly),
// with optional derivative (Ld) and error (Le) low-pass filter time
// constants. Output is range-limited to [-1, 1].
func New(Kp, Ki, Kd, Ld, Le float64) *PIDController {
	const outputMin, outputMax = -1.0, 1.0
	c := &PIDController{
		Kp: Kp, Ki: Ki, Kd: Kd, Ld: Ld, Le: Le,
		OutputMin: outputMin, OutputMax: outputMax,
		integMin: outputMin - 1.0*(outputMax-outputMin),
		integMax: outputMax + 1.0*(outputMax-outputMin),
	}
	c.integ = (outputMin + outputMax) / 2.0
	c.Output = c.integ
	return c
}

// StandardForm constructs a PIDController from the standard-form
// parameters: Kp is the proportional gain, Ti is the integral time (how far
// into the past the I term looks), and Td is the derivative time (how far
// into the future the D term looks). If Ld is negative, it defaults to
// Td/8; if Le is negative, it defaults to Ld/8.
func StandardForm(Kp, Ti, Td, Ld, Le float64) *PIDController {
	if Ld < 0 {
		Ld = Td / 8.0
	}
	if Le < 0 {
		Le = Ld / 8.0
	}
	return New(Kp, 1.0/Ti, Td, Ld, Le)
}

// ZieglerNichols constructs a PIDController using the classic
// Ziegler-Nichols closed-loop tuning method: Ku is the ultimate gain and Tu
// is the ultimate oscillation period, found by setting Ki=Kd=0 and
// increasing Kp until the system sustains oscillation. Ld/Le are as in
// StandardForm.
func ZieglerNichols(Ku, Tu, Ld, Le float64) *PIDController {
	return StandardForm(0.6*Ku, Tu/2.0, Tu/8.0, Ld, Le)
}

func limit(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Update feeds a new error sample (demand - measured output), having last
// been updated dt ago, and returns the new control output.
func (c *PIDController) Update(errIn, dt float64) float64 {
	err := c.Kp * errIn
	if c.Le != 0 {
		err = (dt*err + c.Le*c.error) / (dt + c.Le)
	}

	integ := c.Ki*dt*(err+c.error)/2.0 + c.integ
	integ = limit(integ, c.integMin, c.integMax)

	deriv := (c.Kd*(err-c.error) + c.Ld*c.deriv) / (dt + c.Ld)

	c.Output = limit(err+integ+deriv, c.OutputMin, c.OutputMax)
	c.error = err
	c.integ = integ
	c.deriv = deriv
	return c.Output
}

// Reset re-seeds the filtered error to Kp*errIn (skipping the Le low-pass
// filter for this one call) before updating, to avoid a derivative spike on
// a step change in the setpoint.
func (c *PIDController) Reset(errIn, dt float64) float64 {
	c.error = c.Kp * errIn
	return c.Update(errIn, dt)
}

func (c *PIDController) String() string {
	return fmt.Sprintf(
		"PIDController(Kp=%5.3f, Ki=%5.3f, Kd=%5.3f, Ld=%5.3f, Le=%5.3f): error=%+6.3f integ=%+6.3f deriv=%+6.3f output=%+6.3f",
		c.Kp, c.Ki, c.Kd, c.Ld, c.Le, c.error, c.integ, c.deriv, c.Output)
}
