// Package linsolve implements the stationary iterative solvers Jacobi,
// Gauss-Seidel and successive over-relaxation for A·x = b.
//
// No pivoting or row reordering is done. Convergence is only guaranteed
// for systems such as strictly diagonally dominant ones; anything else runs
// until maxIter is exhausted.
package linsolve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/njchilds90/gonumerics/numerr"
	"github.com/njchilds90/gonumerics/trace"
)

const (
	MethodJacobi      = "jacobi"
	MethodGaussSeidel = "gauss-seidel"
	MethodSOR         = "sor"
)

// Result is the outcome of an iterative solve.
type Result struct {
	Solution  []float64
	Converged bool
	Trace     []Step
}

// Records exposes the trace through the shared trace.Record view.
func (r *Result) Records() []trace.Record {
	out := make([]trace.Record, len(r.Trace))
	for i, s := range r.Trace {
		out[i] = s
	}
	return out
}

// Step is one sweep: the full estimate after the sweep and the infinity
// norm of its change.
type Step struct {
	Iteration int
	X         []float64
	Error     float64
}

func (s Step) Iter() int    { return s.Iteration }
func (s Step) Err() float64 { return s.Error }
func (s Step) Columns() []trace.Column {
	cols := make([]trace.Column, len(s.X))
	for i, v := range s.X {
		cols[i] = trace.Column{Name: fmt.Sprintf("x%d", i+1), Value: v}
	}
	return cols
}

type options struct {
	initial []float64
}

// Option configures a solve.
type Option func(o *options)

// WithInitialGuess starts the iteration from x0 instead of the zero vector.
func WithInitialGuess(x0 []float64) Option {
	return func(o *options) {
		o.initial = x0
	}
}

func optionNew(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// sweep computes the next estimate into next from cur.
type sweep func(a [][]float64, b, cur, next []float64)

// Jacobi updates every component from the previous iterate only.
func Jacobi(a [][]float64, b []float64, tol float64, maxIter int, opts ...Option) (*Result, error) {
	return solve(MethodJacobi, a, b, tol, maxIter, optionNew(opts...), jacobiSweep)
}

// GaussSeidel updates components in order, each one using the values
// already updated earlier in the same sweep.
func GaussSeidel(a [][]float64, b []float64, tol float64, maxIter int, opts ...Option) (*Result, error) {
	return solve(MethodGaussSeidel, a, b, tol, maxIter, optionNew(opts...), sorSweep(1))
}

// SOR blends each Gauss-Seidel component with the previous value:
// x'_k = (1-omega)*x_k + omega*x_gs_k. omega must be positive; the method is
// only expected to converge for omega in (0, 2), and omega = 1 is exactly
// Gauss-Seidel.
func SOR(a [][]float64, b []float64, omega, tol float64, maxIter int, opts ...Option) (*Result, error) {
	if math.IsNaN(omega) || math.IsInf(omega, 0) || omega <= 0 {
		return nil, numerr.Invalid("relaxation factor must be a positive finite number, got %v", omega)
	}
	return solve(MethodSOR, a, b, tol, maxIter, optionNew(opts...), sorSweep(omega))
}

func jacobiSweep(a [][]float64, b, cur, next []float64) {
	for k, row := range a {
		sum := floats.Dot(row[:k], cur[:k]) + floats.Dot(row[k+1:], cur[k+1:])
		next[k] = (b[k] - sum) / row[k]
	}
}

func sorSweep(omega float64) sweep {
	return func(a [][]float64, b, cur, next []float64) {
		copy(next, cur)
		for k, row := range a {
			// next[:k] already holds this sweep's values, next[k+1:] the previous ones.
			sum := floats.Dot(row[:k], next[:k]) + floats.Dot(row[k+1:], next[k+1:])
			gs := (b[k] - sum) / row[k]
			if omega == 1 {
				next[k] = gs
			} else {
				next[k] = (1-omega)*cur[k] + omega*gs
			}
		}
	}
}

func solve(method string, a [][]float64, b []float64, tol float64, maxIter int, o *options, next sweep) (*Result, error) {
	if err := validate(a, b, tol, maxIter); err != nil {
		return nil, err
	}
	n := len(b)

	cur := make([]float64, n)
	if o.initial != nil {
		if len(o.initial) != n {
			return nil, numerr.Invalid("initial guess has length %d, want %d", len(o.initial), n)
		}
		if !allFinite(o.initial) {
			return nil, numerr.Invalid("initial guess contains a non-finite value")
		}
		copy(cur, o.initial)
	}

	res := &Result{Solution: append([]float64(nil), cur...)}
	for i := 1; i <= maxIter; i++ {
		x := make([]float64, n)
		next(a, b, cur, x)
		if !allFinite(x) {
			return res, numerr.At(method, i, fmt.Errorf("%w: estimate diverged", numerr.ErrNonFinite))
		}

		e := floats.Distance(x, cur, math.Inf(1))
		res.Trace = append(res.Trace, Step{Iteration: i, X: x, Error: e})
		res.Solution = append(res.Solution[:0], x...)
		if e < tol {
			res.Converged = true
			return res, nil
		}
		cur = x
	}
	return res, numerr.At(method, maxIter, numerr.ErrMaxIterations)
}

func validate(a [][]float64, b []float64, tol float64, maxIter int) error {
	n := len(b)
	if n < 2 {
		return numerr.Invalid("system must have at least 2 unknowns, got %d", n)
	}
	if len(a) != n {
		return numerr.Invalid("matrix has %d rows, want %d", len(a), n)
	}
	for k, row := range a {
		if len(row) != n {
			return numerr.Invalid("matrix row %d has %d columns, want %d", k, len(row), n)
		}
		if !allFinite(row) {
			return numerr.Invalid("matrix row %d contains a non-finite value", k)
		}
	}
	if !allFinite(b) {
		return numerr.Invalid("right-hand side contains a non-finite value")
	}
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		return numerr.Invalid("tolerance must be a positive finite number, got %v", tol)
	}
	if maxIter < 1 {
		return numerr.Invalid("maxIter must be at least 1, got %d", maxIter)
	}
	for k := range a {
		if a[k][k] == 0 {
			return fmt.Errorf("%w: A[%d][%d]", numerr.ErrZeroPivot, k, k)
		}
	}
	return nil
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
