package numerics_test

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	numerics "github.com/njchilds90/gonumerics"
	"github.com/njchilds90/gonumerics/numerr"
)

func TestParse_Precedence(t *testing.T) {
	cases := map[string]string{
		"x^3 - x - 2":    "x^3 - x - 2",
		"2^3^2":          "512",
		"-x^2":           "-x^2",
		"2**-1":          "0.5",
		"(x + 1)*2 - 2":  "2*(x + 1) - 2",
		"log(x)":         "ln(x)",
		"1.5e2*x":        "150*x",
		"x/2":            "0.5*x",
		"+x - -x":        "2*x",
		"sqrt(x)^2":      "x",
		"1/3 + x":        "x + 1/3",
		"  cos( x )  ":   "cos(x)",
		"exp(ln(x))":     "x",
		"2*pi":           "2*pi",
		"e^x":            "e^x",
		"x*x*x":          "x^3",
		"(x - 1)/(x+1)":  "1/(x + 1)*(x - 1)",
		"x^(1/2)":        "x^(0.5)",
		"x^-2":           "x^(-2)",
		"sin(x)^2":       "sin(x)^2",
		"abs(-3) + x":    "x + 3",
		"floor(x) - 1.0": "floor(x) - 1",
	}
	for in, want := range cases {
		e, err := numerics.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, e.String(), in)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"y + 1",
		"2x",
		"sin x",
		"(x + 1",
		"x + 1)",
		"x $ 2",
		"1/0",
		"1/(x - x)",
		"0^-1",
		"x +",
		"foo(x)",
		"1.2.3",
		"1e5000*x",
		"x + 2.5E-99999",
	} {
		_, err := numerics.Parse(in)
		assert.ErrorIs(t, err, numerr.ErrParse, in)
		assert.Equal(t, numerr.KindParse, numerr.KindOf(err), in)
	}
}

func TestParse_Roundtrip(t *testing.T) {
	for _, in := range []string{
		"x^3 - x - 2",
		"exp(-x) - x",
		"x*sin(x) - 1/3",
		"(x - 1)^(-2) + tan(x)/x",
		"2^x - 3*x",
		"sqrt(x + 2) - ln(x)",
	} {
		e, err := numerics.Parse(in)
		require.NoError(t, err, in)
		again, err := numerics.Parse(e.String())
		require.NoError(t, err, e.String())

		f, g := numerics.Compile(e), numerics.Compile(again)
		for _, x := range []float64{0.3, 1.7, 2.5} {
			assert.InDelta(t, f(x), g(x), 1e-12, "%s at %v", in, x)
		}
	}
}

func TestCompile_Values(t *testing.T) {
	f, err := numerics.ParseFunc("x^3 - x - 2")
	require.NoError(t, err)
	assert.InDelta(t, -0.125, f(1.5), 1e-15)

	f, err = numerics.ParseFunc("sin(x)^2 + cos(x)^2")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, f(0.7), 1e-15)

	f, err = numerics.ParseFunc("pi + e")
	require.NoError(t, err)
	assert.InDelta(t, math.Pi+math.E, f(123), 1e-15)

	f, err = numerics.ParseFunc("exp(-x) - x")
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-0.5)-0.5, f(0.5), 1e-15)
}

func TestCompile_DomainErrorsAreNonFinite(t *testing.T) {
	f, err := numerics.ParseFunc("ln(x)")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(f(-1)))

	f, err = numerics.ParseFunc("1/x")
	require.NoError(t, err)
	assert.True(t, math.IsInf(f(0), 1))

	f, err = numerics.ParseFunc("sqrt(x)")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(f(-4)))
}

func TestDifferentiate(t *testing.T) {
	d, err := numerics.Differentiate("x^3 - x - 2")
	require.NoError(t, err)
	assert.Equal(t, "3*x^2 - 1", d.Text)
	assert.Equal(t, 11.0, d.Func(2))

	d, err = numerics.Differentiate("exp(-x) - x")
	require.NoError(t, err)
	assert.Equal(t, "-exp(-x) - 1", d.Text)

	d, err = numerics.Differentiate("cos(x) - x")
	require.NoError(t, err)
	assert.Equal(t, "-sin(x) - 1", d.Text)
}

func TestDifferentiate_TextMatchesFunc(t *testing.T) {
	for _, in := range []string{
		"x*sin(x)",
		"sqrt(x) + ln(x)",
		"x^x",
		"tan(x)/x",
		"atan(x^2) - asin(x/2)",
		"cosh(x)*tanh(x) - 2^x",
	} {
		d, err := numerics.Differentiate(in)
		require.NoError(t, err, in)

		back, err := numerics.ParseFunc(d.Text)
		require.NoError(t, err, d.Text)

		f, err := numerics.ParseFunc(in)
		require.NoError(t, err)
		for _, x := range []float64{0.4, 0.9, 1.3} {
			assert.InDelta(t, d.Func(x), back(x), 1e-9, "%s at %v", d.Text, x)

			// central difference as an independent check
			h := 1e-6
			fd := (f(x+h) - f(x-h)) / (2 * h)
			assert.InDelta(t, fd, d.Func(x), 1e-5, "%s at %v", in, x)
		}
	}
}

func TestDifferentiate_Unsupported(t *testing.T) {
	for _, in := range []string{"abs(x)", "floor(x) + x", "ceil(x^2)"} {
		_, err := numerics.Differentiate(in)
		assert.ErrorIs(t, err, numerr.ErrUnsupportedExpression, in)
	}

	// a constant argument has a zero derivative and no unknown rule
	d, err := numerics.Differentiate("abs(-2)*x")
	require.NoError(t, err)
	assert.Equal(t, "2", d.Text)
}

func TestSample(t *testing.T) {
	f, err := numerics.ParseFunc("x^2")
	require.NoError(t, err)

	pts := numerics.Sample(f, 1, 5, 0.2)
	require.Len(t, pts, 51)
	assert.Equal(t, -4.0, pts[0].X)
	assert.Equal(t, 6.0, pts[50].X)
	assert.InDelta(t, 16.0, pts[0].Y, 1e-12)

	g, err := numerics.ParseFunc("ln(x)")
	require.NoError(t, err)
	for _, p := range numerics.Sample(g, 0, 5, 0.2) {
		assert.Greater(t, p.X, 0.0)
	}

	assert.Nil(t, numerics.Sample(f, 0, 5, 0))
	assert.Nil(t, numerics.Sample(f, math.NaN(), 5, 0.2))
}

func TestParse_LongChainsAreFast(t *testing.T) {
	var poly, mixed strings.Builder
	for k := 1; k <= 2000; k++ {
		if k > 1 {
			poly.WriteString(" + ")
			mixed.WriteString(" + ")
		}
		fmt.Fprintf(&poly, "x^%d", k)
		fmt.Fprintf(&mixed, "x^%d*sin(x*%d)", k, k)
	}

	start := time.Now()
	e, err := numerics.Parse(poly.String())
	require.NoError(t, err)
	assert.InDelta(t, 2000.0, numerics.Compile(e)(1), 1e-9)

	d, err := numerics.Differentiate(poly.String())
	require.NoError(t, err)
	assert.InDelta(t, 2001000.0, d.Func(1), 1e-6)

	m, err := numerics.Parse(mixed.String())
	require.NoError(t, err)
	assert.Equal(t, 0.0, numerics.Compile(m)(0))

	assert.Less(t, time.Since(start), time.Second)
}

func TestParse_DeepNestingIsFast(t *testing.T) {
	horner := "x"
	for i := 0; i < 300; i++ {
		horner = "(" + horner + ")*x + 1"
	}

	start := time.Now()
	f, err := numerics.ParseFunc(horner)
	require.NoError(t, err)
	assert.Equal(t, 301.0, f(1))
	assert.Less(t, time.Since(start), time.Second)
}
