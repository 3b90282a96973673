// Package newton implements the Newton-Raphson method over sampled signals.
// It solves implicit equations f(x, y) = 0 sample-wise for y, the way the
// nonlinear stages of a discretized circuit model require. It is a
// self-contained numerical utility and shares no types with the code
// generator packages.
package newton

import "math"

// Signal is a block of samples.
type Signal []float64

// RMS returns the root-mean-square of x, or 0 for an empty signal.
func RMS(x Signal) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// DB converts a linear amplitude to decibels.
func DB(x float64) float64 {
	return 20 * math.Log10(x)
}

// RMSDB returns the RMS level of x in decibels.
func RMSDB(x Signal) float64 {
	return DB(RMS(x))
}

// Equation evaluates a sample-wise function of the input signal x and the
// current guess y, returning one sample per input sample.
type Equation func(x, y Signal) Signal

// Solver iterates Newton-Raphson steps y -= f(x, y) / f'(x, y) until either
// the derivative or the step falls below Tol RMS, or MaxIter iterations have
// run. MaxIter <= 0 iterates until the tolerance alone is met; Tol <= 0
// defaults to 1e-6.
type Solver struct {
	Eval    Equation
	Deriv   Equation
	MaxIter int
	Tol     float64
}

// Solve returns the solution of Eval(x, y) = 0 for y, starting from initial.
// A nil initial starts from zero. x and initial are not modified.
func (s *Solver) Solve(x, initial Signal) Signal {
	tol := s.Tol
	if tol <= 0 {
		tol = 1e-6
	}

	guess := make(Signal, len(x))
	copy(guess, initial)

	for i := 0; s.MaxIter <= 0 || i < s.MaxIter; i++ {
		dy := s.Deriv(x, guess)
		if RMS(dy) < tol {
			break
		}
		f := s.Eval(x, guess)
		step := make(Signal, len(guess))
		for j := range step {
			step[j] = f[j] / dy[j]
		}
		if RMS(step) < tol {
			break
		}
		for j := range guess {
			guess[j] -= step[j]
		}
	}
	return guess
}
