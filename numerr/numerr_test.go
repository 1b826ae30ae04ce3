package numerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gonumerics/numerr"
)

func TestKindOf(t *testing.T) {
	cases := map[error]numerr.Kind{
		nil:                             numerr.KindNone,
		numerr.ErrInvalidBracket:        numerr.KindInvalidBracket,
		numerr.ErrZeroDerivative:        numerr.KindZeroDerivative,
		numerr.ErrStagnantDenominator:   numerr.KindStagnantDenominator,
		numerr.ErrZeroPivot:             numerr.KindZeroPivot,
		numerr.ErrSingularSystem:        numerr.KindSingularSystem,
		numerr.ErrDuplicateX:            numerr.KindDuplicateX,
		numerr.ErrMaxIterations:         numerr.KindMaxIterationsExceeded,
		numerr.ErrNonFinite:             numerr.KindNonFiniteValue,
		numerr.ErrUnsupportedExpression: numerr.KindUnsupportedExpression,
		numerr.ErrParse:                 numerr.KindParse,
		numerr.ErrInvalidInput:          numerr.KindInvalidInput,
		numerr.ErrUnknownTool:           numerr.KindUnknownTool,
		errors.New("disk on fire"):      numerr.KindInternal,
	}
	for err, want := range cases {
		assert.Equal(t, want, numerr.KindOf(err), "%v", err)
		if err != nil {
			wrapped := fmt.Errorf("outer: %w", numerr.At("bisection", 3, err))
			assert.Equal(t, want, numerr.KindOf(wrapped), "wrapped %v", err)
		}
	}
}

func TestIsFatal(t *testing.T) {
	assert.False(t, numerr.IsFatal(nil))
	assert.False(t, numerr.IsFatal(numerr.At("newton", 50, numerr.ErrMaxIterations)))
	assert.True(t, numerr.IsFatal(numerr.At("newton", 2, numerr.ErrZeroDerivative)))
	assert.True(t, numerr.IsFatal(numerr.Invalid("tol must be positive")))
}

func TestIterationError(t *testing.T) {
	err := fmt.Errorf("solve: %w", numerr.At("jacobi", 7, numerr.ErrNonFinite))

	var ie *numerr.IterationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "jacobi", ie.Method)
	assert.Equal(t, 7, ie.Iteration)
	assert.ErrorIs(t, err, numerr.ErrNonFinite)
	assert.Equal(t, "solve: jacobi: iteration 7: numerics: non-finite value", err.Error())
}

func TestInvalid(t *testing.T) {
	err := numerr.Invalid("need at least %d points, got %d", 2, 1)
	assert.ErrorIs(t, err, numerr.ErrInvalidInput)
	assert.Equal(t, "numerics: invalid input: need at least 2 points, got 1", err.Error())
}
