// Package rootfind implements scalar root-finding methods that record a
// full iteration trace.
//
// Every method shares one termination contract:
//   - success when the step error drops below tol;
//   - numerr.ErrMaxIterations once maxIter steps ran without converging. The
//     Result is still returned with the last estimate and the full trace;
//   - numerr.ErrNonFinite as soon as any evaluation yields NaN or Inf. The
//     failing step is not recorded.
//
// Errors raised inside the loop are wrapped in *numerr.IterationError.
package rootfind

import (
	"fmt"
	"math"

	"github.com/njchilds90/gonumerics/numerr"
	"github.com/njchilds90/gonumerics/trace"
)

// Func is a real function of one variable. NaN or Inf results signal an
// evaluation failure such as a domain error or a division by zero.
type Func func(x float64) float64

// Derivative is f' together with its textual form for display.
type Derivative struct {
	Func Func
	Text string
}

const (
	// DerivativeFloor is the smallest |f'(x)| Newton-Raphson divides by.
	DerivativeFloor = 1e-10

	// DenominatorFloor is the smallest |f(x_i) - f(x_{i-1})| the secant
	// method divides by.
	DenominatorFloor = 1e-10
)

// Method names, as reported in IterationError.
const (
	MethodBisection     = "bisection"
	MethodFalsePosition = "false position"
	MethodNewton        = "newton"
	MethodSecant        = "secant"
	MethodFixedPoint    = "fixed point"
)

// Result is the outcome of a root search.
type Result struct {
	Root      float64
	Converged bool
	Trace     []trace.Record

	// Derivative is the text of f', set by Newton only.
	Derivative string
}

// Iterations returns the number of recorded steps.
func (r *Result) Iterations() int {
	return len(r.Trace)
}

// BracketStep is a row of bisection or false position.
type BracketStep struct {
	Iteration int
	A, C, B   float64
	FC        float64
	Error     float64
}

func (s BracketStep) Iter() int    { return s.Iteration }
func (s BracketStep) Err() float64 { return s.Error }
func (s BracketStep) Columns() []trace.Column {
	return []trace.Column{{Name: "a", Value: s.A}, {Name: "c", Value: s.C}, {Name: "b", Value: s.B}, {Name: "fc", Value: s.FC}}
}

// NewtonStep is a row of Newton-Raphson.
type NewtonStep struct {
	Iteration int
	X, FX     float64
	DFX       float64
	Next      float64
	Error     float64
}

func (s NewtonStep) Iter() int    { return s.Iteration }
func (s NewtonStep) Err() float64 { return s.Error }
func (s NewtonStep) Columns() []trace.Column {
	return []trace.Column{{Name: "xn", Value: s.X}, {Name: "fxn", Value: s.FX}, {Name: "dfxn", Value: s.DFX}, {Name: "xn+1", Value: s.Next}}
}

// SecantStep is a row of the secant method.
type SecantStep struct {
	Iteration int
	Prev, X   float64
	FX        float64
	Next      float64
	Error     float64
}

func (s SecantStep) Iter() int    { return s.Iteration }
func (s SecantStep) Err() float64 { return s.Error }
func (s SecantStep) Columns() []trace.Column {
	return []trace.Column{{Name: "x_i-1", Value: s.Prev}, {Name: "x_i", Value: s.X}, {Name: "f(x_i)", Value: s.FX}, {Name: "x_i+1", Value: s.Next}}
}

// FixedPointStep is a row of fixed-point iteration.
type FixedPointStep struct {
	Iteration int
	X, GX     float64
	Error     float64
}

func (s FixedPointStep) Iter() int    { return s.Iteration }
func (s FixedPointStep) Err() float64 { return s.Error }
func (s FixedPointStep) Columns() []trace.Column {
	return []trace.Column{{Name: "x_n", Value: s.X}, {Name: "g(x_n)", Value: s.GX}}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validate(f Func, tol float64, maxIter int, points ...float64) error {
	if f == nil {
		return numerr.Invalid("function is nil")
	}
	if !finite(tol) || tol <= 0 {
		return numerr.Invalid("tolerance must be a positive finite number, got %v", tol)
	}
	if maxIter < 1 {
		return numerr.Invalid("maxIter must be at least 1, got %d", maxIter)
	}
	for _, p := range points {
		if !finite(p) {
			return numerr.Invalid("starting point %v is not finite", p)
		}
	}
	return nil
}

// eval calls f and rejects non-finite results.
func eval(method string, i int, f Func, x float64) (float64, error) {
	y := f(x)
	if !finite(y) {
		return y, numerr.At(method, i, fmt.Errorf("%w: f(%g) = %v", numerr.ErrNonFinite, x, y))
	}
	return y, nil
}

// step rejects a non-finite iterate computed from finite inputs, which
// happens when the update overflows.
func step(method string, i int, x float64) error {
	if !finite(x) {
		return numerr.At(method, i, fmt.Errorf("%w: next estimate is %v", numerr.ErrNonFinite, x))
	}
	return nil
}

// opposite reports whether u and v are nonzero with different signs. It
// stands in for u*v < 0 without the risk of the product underflowing.
func opposite(u, v float64) bool {
	return u != 0 && v != 0 && (u < 0) != (v < 0)
}

func exhausted(method string, maxIter int) error {
	return numerr.At(method, maxIter, numerr.ErrMaxIterations)
}
