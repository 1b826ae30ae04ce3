package rootfind

import (
	"fmt"
	"math"

	"github.com/njchilds90/gonumerics/numerr"
)

// Newton runs Newton-Raphson from x0. The derivative is supplied by the
// caller; its Text is copied to Result.Derivative.
//
// A step with |f'(x)| < DerivativeFloor fails with numerr.ErrZeroDerivative
// unless f(x) is exactly zero, in which case x is already the root.
func Newton(f Func, df Derivative, x0, tol float64, maxIter int) (*Result, error) {
	if err := validate(f, tol, maxIter, x0); err != nil {
		return nil, err
	}
	if df.Func == nil {
		return nil, numerr.Invalid("derivative is nil")
	}

	res := &Result{Root: x0, Derivative: df.Text}
	x := x0
	for i := 1; i <= maxIter; i++ {
		fx, err := eval(MethodNewton, i, f, x)
		if err != nil {
			return res, err
		}
		dfx, err := eval(MethodNewton, i, df.Func, x)
		if err != nil {
			return res, err
		}

		next := x
		if fx != 0 {
			if math.Abs(dfx) < DerivativeFloor {
				return res, numerr.At(MethodNewton, i,
					fmt.Errorf("%w: f'(%g) = %g", numerr.ErrZeroDerivative, x, dfx))
			}
			next = x - fx/dfx
			if err := step(MethodNewton, i, next); err != nil {
				return res, err
			}
		}

		e := math.Abs(next - x)
		res.Trace = append(res.Trace, NewtonStep{Iteration: i, X: x, FX: fx, DFX: dfx, Next: next, Error: e})
		res.Root = next
		if e < tol {
			res.Converged = true
			return res, nil
		}
		x = next
	}
	return res, exhausted(MethodNewton, maxIter)
}

// Secant runs the secant method from x0, x1. f is evaluated once per step.
//
// A step with |f(x_i) - f(x_{i-1})| < DenominatorFloor fails with
// numerr.ErrStagnantDenominator unless f(x_i) is exactly zero.
func Secant(f Func, x0, x1, tol float64, maxIter int) (*Result, error) {
	if err := validate(f, tol, maxIter, x0, x1); err != nil {
		return nil, err
	}

	res := &Result{Root: x1}
	prev, x := x0, x1
	fprev, err := eval(MethodSecant, 0, f, prev)
	if err != nil {
		return nil, err
	}
	for i := 1; i <= maxIter; i++ {
		fx, err := eval(MethodSecant, i, f, x)
		if err != nil {
			return res, err
		}

		next := x
		if fx != 0 {
			den := fx - fprev
			if math.Abs(den) < DenominatorFloor {
				return res, numerr.At(MethodSecant, i,
					fmt.Errorf("%w: f(%g) - f(%g) = %g", numerr.ErrStagnantDenominator, x, prev, den))
			}
			next = x - fx*(x-prev)/den
			if err := step(MethodSecant, i, next); err != nil {
				return res, err
			}
		}

		e := math.Abs(next - x)
		res.Trace = append(res.Trace, SecantStep{Iteration: i, Prev: prev, X: x, FX: fx, Next: next, Error: e})
		res.Root = next
		if e < tol {
			res.Converged = true
			return res, nil
		}
		prev, fprev, x = x, fx, next
	}
	return res, exhausted(MethodSecant, maxIter)
}

// FixedPoint iterates x_{n+1} = g(x_n). Nothing checks that g is a
// contraction; maxIter is the only bound.
func FixedPoint(g Func, x0, tol float64, maxIter int) (*Result, error) {
	if err := validate(g, tol, maxIter, x0); err != nil {
		return nil, err
	}

	res := &Result{Root: x0}
	x := x0
	for i := 1; i <= maxIter; i++ {
		gx, err := eval(MethodFixedPoint, i, g, x)
		if err != nil {
			return res, err
		}

		e := math.Abs(gx - x)
		res.Trace = append(res.Trace, FixedPointStep{Iteration: i, X: x, GX: gx, Error: e})
		res.Root = gx
		if e < tol {
			res.Converged = true
			return res, nil
		}
		x = gx
	}
	return res, exhausted(MethodFixedPoint, maxIter)
}
