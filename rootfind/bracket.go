package rootfind

import (
	"fmt"
	"math"

	"github.com/njchilds90/gonumerics/numerr"
)

// Bisection halves the bracket [a, b] until the half-width drops below tol
// or f(c) is exactly zero. f(a) and f(b) must have opposite signs.
//
// Each row records the bracket before it is updated, so the width (b-a)
// halves from one row to the next and Error is the half-width |b-a|/2.
func Bisection(f Func, a, b, tol float64, maxIter int) (*Result, error) {
	a, b, fa, _, err := openBracket(MethodBisection, f, a, b, tol, maxIter)
	if err != nil {
		return nil, err
	}

	res := &Result{Root: a + (b-a)/2}
	for i := 1; i <= maxIter; i++ {
		c := a + (b-a)/2
		fc, err := eval(MethodBisection, i, f, c)
		if err != nil {
			return res, err
		}

		e := math.Abs(b-a) / 2
		res.Trace = append(res.Trace, BracketStep{Iteration: i, A: a, C: c, B: b, FC: fc, Error: e})
		res.Root = c
		if fc == 0 || e < tol {
			res.Converged = true
			return res, nil
		}

		if opposite(fa, fc) {
			b = c
		} else {
			a, fa = c, fc
		}
	}
	return res, exhausted(MethodBisection, maxIter)
}

// FalsePosition is regula falsi: c is where the chord through (a, f(a))
// and (b, f(b)) crosses zero. No anti-stagnation correction is applied, so
// on convex or concave f one endpoint stays fixed and c approaches the
// root from one side.
//
// Error is the distance between successive estimates, with a standing in
// for the estimate before the first step.
func FalsePosition(f Func, a, b, tol float64, maxIter int) (*Result, error) {
	a, b, fa, fb, err := openBracket(MethodFalsePosition, f, a, b, tol, maxIter)
	if err != nil {
		return nil, err
	}

	res := &Result{Root: a}
	prev := a
	for i := 1; i <= maxIter; i++ {
		c := b - fb*(b-a)/(fb-fa)
		if err := step(MethodFalsePosition, i, c); err != nil {
			return res, err
		}
		fc, err := eval(MethodFalsePosition, i, f, c)
		if err != nil {
			return res, err
		}

		e := math.Abs(c - prev)
		res.Trace = append(res.Trace, BracketStep{Iteration: i, A: a, C: c, B: b, FC: fc, Error: e})
		res.Root = c
		if fc == 0 || e < tol {
			res.Converged = true
			return res, nil
		}

		if opposite(fa, fc) {
			b, fb = c, fc
		} else {
			a, fa = c, fc
		}
		prev = c
	}
	return res, exhausted(MethodFalsePosition, maxIter)
}

// openBracket validates the inputs shared by the bracketing methods. It
// orders the endpoints so that lo < hi and returns f at both.
func openBracket(method string, f Func, a, b, tol float64, maxIter int) (lo, hi, flo, fhi float64, err error) {
	if err = validate(f, tol, maxIter, a, b); err != nil {
		return
	}
	if a == b {
		err = numerr.Invalid("bracket endpoints are equal (%g)", a)
		return
	}
	lo, hi = a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if flo, err = eval(method, 0, f, lo); err != nil {
		return
	}
	if fhi, err = eval(method, 0, f, hi); err != nil {
		return
	}
	if !opposite(flo, fhi) {
		err = fmt.Errorf("%w: f(%g) = %g and f(%g) = %g", numerr.ErrInvalidBracket, lo, flo, hi, fhi)
	}
	return
}
