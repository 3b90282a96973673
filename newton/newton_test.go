package newton

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRMS(t *testing.T) {
	assert.Equal(t, 0.0, RMS(nil))
	assert.Equal(t, 0.0, RMS(Signal{0, 0, 0}))
	assert.InDelta(t, 5.0, RMS(Signal{5, -5, 5, -5}), 1e-12)
	assert.InDelta(t, math.Sqrt(12.5), RMS(Signal{3, 4}), 1e-12)
}

func TestDB(t *testing.T) {
	assert.InDelta(t, 20.0, DB(10), 1e-12)
	assert.InDelta(t, 0.0, DB(1), 1e-12)
	assert.InDelta(t, -20.0, DB(0.1), 1e-12)
	assert.InDelta(t, 20.0, RMSDB(Signal{10, -10}), 1e-12)
}

// sqrtSolver solves y^2 - x = 0, whose positive root is sqrt(x).
func sqrtSolver(maxIter int) *Solver {
	return &Solver{
		Eval: func(x, y Signal) Signal {
			out := make(Signal, len(x))
			for i := range out {
				out[i] = y[i]*y[i] - x[i]
			}
			return out
		},
		Deriv: func(_, y Signal) Signal {
			out := make(Signal, len(y))
			for i := range out {
				out[i] = 2 * y[i]
			}
			return out
		},
		MaxIter: maxIter,
	}
}

func TestSolveSquareRoot(t *testing.T) {
	x := Signal{4, 9, 16}
	got := sqrtSolver(50).Solve(x, Signal{3, 3, 3})

	require.Len(t, got, len(x))
	for i, want := range []float64{2, 3, 4} {
		assert.InDelta(t, want, got[i], 1e-6, "sample %d", i)
	}
}

func TestSolveUnboundedIterations(t *testing.T) {
	got := sqrtSolver(0).Solve(Signal{2}, Signal{1})
	assert.InDelta(t, math.Sqrt2, got[0], 1e-6)
}

func TestSolveNilInitialStartsAtZero(t *testing.T) {
	// y - x = 0 converges from zero in one step; the quadratic would divide
	// by a zero derivative there.
	s := &Solver{
		Eval: func(x, y Signal) Signal {
			out := make(Signal, len(x))
			for i := range out {
				out[i] = y[i] - x[i]
			}
			return out
		},
		Deriv: func(x, _ Signal) Signal {
			out := make(Signal, len(x))
			for i := range out {
				out[i] = 1
			}
			return out
		},
		MaxIter: 10,
	}
	got := s.Solve(Signal{3, -2}, nil)
	assert.InDelta(t, 3.0, got[0], 1e-9)
	assert.InDelta(t, -2.0, got[1], 1e-9)
}

func TestSolveDoesNotMutateInputs(t *testing.T) {
	x := Signal{4}
	initial := Signal{1}
	sqrtSolver(50).Solve(x, initial)
	assert.Equal(t, Signal{4}, x)
	assert.Equal(t, Signal{1}, initial)
}

func TestSolveStopsWithinMaxIter(t *testing.T) {
	// One iteration from a poor guess must terminate even though the result
	// is still far from the root.
	got := sqrtSolver(1).Solve(Signal{100}, Signal{1})
	require.Len(t, got, 1)
	assert.False(t, math.IsNaN(got[0]))
}
