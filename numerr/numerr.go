// Package numerr holds the error kinds shared by the numerics engine.
//
// Algorithms return these sentinels (possibly wrapped) and callers match
// them with errors.Is. Every message is prefixed with "numerics:" so the
// origin is obvious in logs.
package numerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBracket is returned by bracketing methods when f(a) and f(b)
	// do not have opposite signs.
	ErrInvalidBracket = errors.New("numerics: no sign change on bracket")

	// ErrZeroDerivative is returned by Newton-Raphson when |f'(x)| falls
	// below the derivative floor.
	ErrZeroDerivative = errors.New("numerics: derivative too close to zero")

	// ErrStagnantDenominator is returned by the secant method when
	// f(x_i) - f(x_{i-1}) underflows.
	ErrStagnantDenominator = errors.New("numerics: secant denominator too close to zero")

	// ErrZeroPivot is returned by the stationary solvers when a diagonal
	// entry of A is zero.
	ErrZeroPivot = errors.New("numerics: zero diagonal element")

	// ErrSingularSystem is returned when Gaussian elimination finds no
	// usable pivot.
	ErrSingularSystem = errors.New("numerics: singular system")

	// ErrDuplicateX is returned when two interpolation points share x.
	ErrDuplicateX = errors.New("numerics: duplicate x value")

	// ErrMaxIterations is not fatal: the result carrying the last estimate
	// and the full trace is returned alongside it.
	ErrMaxIterations = errors.New("numerics: maximum iterations exceeded")

	// ErrNonFinite is returned as soon as an evaluation produces NaN or Inf.
	ErrNonFinite = errors.New("numerics: non-finite value")

	// ErrUnsupportedExpression is returned when an expression cannot be
	// differentiated symbolically.
	ErrUnsupportedExpression = errors.New("numerics: unsupported expression")

	// ErrParse is returned for malformed expression text.
	ErrParse = errors.New("numerics: cannot parse expression")

	// ErrInvalidInput covers precondition violations: non-positive
	// tolerance, empty iteration budget, mismatched dimensions.
	ErrInvalidInput = errors.New("numerics: invalid input")

	// ErrUnknownTool is returned by the dispatcher for a tool name it does
	// not serve.
	ErrUnknownTool = errors.New("numerics: unknown tool")
)

// Kind names an error category for transport.
type Kind string

const (
	KindNone                  Kind = ""
	KindInvalidBracket        Kind = "InvalidBracket"
	KindZeroDerivative        Kind = "ZeroDerivative"
	KindStagnantDenominator   Kind = "StagnantDenominator"
	KindZeroPivot             Kind = "ZeroPivot"
	KindSingularSystem        Kind = "SingularSystem"
	KindDuplicateX            Kind = "DuplicateX"
	KindMaxIterationsExceeded Kind = "MaxIterationsExceeded"
	KindNonFiniteValue        Kind = "NonFiniteValue"
	KindUnsupportedExpression Kind = "UnsupportedExpression"
	KindParse                 Kind = "ParseError"
	KindInvalidInput          Kind = "InvalidInput"
	KindUnknownTool           Kind = "UnknownTool"
	KindInternal              Kind = "Internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidBracket, KindInvalidBracket},
	{ErrZeroDerivative, KindZeroDerivative},
	{ErrStagnantDenominator, KindStagnantDenominator},
	{ErrZeroPivot, KindZeroPivot},
	{ErrSingularSystem, KindSingularSystem},
	{ErrDuplicateX, KindDuplicateX},
	{ErrMaxIterations, KindMaxIterationsExceeded},
	{ErrNonFinite, KindNonFiniteValue},
	{ErrUnsupportedExpression, KindUnsupportedExpression},
	{ErrParse, KindParse},
	{ErrInvalidInput, KindInvalidInput},
	{ErrUnknownTool, KindUnknownTool},
}

// KindOf maps err to its kind. A nil error has KindNone; an error that
// wraps none of the sentinels is KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// IsFatal reports whether err means the computation produced nothing
// usable. Exhausting the iteration budget is the only non-fatal error.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrMaxIterations)
}

// Invalid wraps ErrInvalidInput with a formatted reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// IterationError attaches the method and iteration at which a loop stopped.
type IterationError struct {
	Method    string
	Iteration int
	Err       error
}

func (e *IterationError) Error() string {
	return fmt.Sprintf("%s: iteration %d: %v", e.Method, e.Iteration, e.Err)
}

func (e *IterationError) Unwrap() error {
	return e.Err
}

// At is shorthand for building an IterationError.
func At(method string, iteration int, err error) error {
	return &IterationError{Method: method, Iteration: iteration, Err: err}
}
