package numerics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/njchilds90/gonumerics/numerr"
	"github.com/njchilds90/gonumerics/rootfind"
)

// Compile turns e into a float64 function of x. Domain errors (ln of a
// negative number, division by zero) come out as NaN or Inf, never as a
// panic.
func Compile(e Expr) func(float64) float64 {
	switch v := e.(type) {
	case *Num:
		c := v.Float64()
		return func(float64) float64 { return c }
	case *Sym:
		if c, ok := constants[v.name]; ok {
			return func(float64) float64 { return c }
		}
		return func(x float64) float64 { return x }
	case *Add:
		terms := make([]func(float64) float64, len(v.terms))
		for i, t := range v.terms {
			terms[i] = Compile(t)
		}
		return func(x float64) float64 {
			s := 0.0
			for _, t := range terms {
				s += t(x)
			}
			return s
		}
	case *Mul:
		factors := make([]func(float64) float64, len(v.factors))
		for i, f := range v.factors {
			factors[i] = Compile(f)
		}
		return func(x float64) float64 {
			p := 1.0
			for _, f := range factors {
				p *= f(x)
			}
			return p
		}
	case *Pow:
		base := Compile(v.base)
		if en, ok := v.exp.(*Num); ok {
			k := en.Float64()
			if k == -1 {
				return func(x float64) float64 { return 1 / base(x) }
			}
			return func(x float64) float64 { return math.Pow(base(x), k) }
		}
		exp := Compile(v.exp)
		return func(x float64) float64 { return math.Pow(base(x), exp(x)) }
	case *Func:
		arg := Compile(v.arg)
		fn, ok := funcFloat[v.name]
		if !ok {
			return func(float64) float64 { return math.NaN() }
		}
		return func(x float64) float64 { return fn(arg(x)) }
	}
	return func(float64) float64 { return math.NaN() }
}

// ParseFunc parses text and compiles it.
func ParseFunc(text string) (func(float64) float64, error) {
	e, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return Compile(e), nil
}

// Differentiate parses text and returns its derivative in x, as text and
// as a compiled function.
func Differentiate(text string) (rootfind.Derivative, error) {
	e, err := Parse(text)
	if err != nil {
		return rootfind.Derivative{}, err
	}
	return derive(e)
}

func derive(e Expr) (rootfind.Derivative, error) {
	d := Diff(e, Variable)
	if hasUnknownDerivative(d) {
		return rootfind.Derivative{}, fmt.Errorf("%w: no derivative rule for %s", numerr.ErrUnsupportedExpression, e)
	}
	return rootfind.Derivative{Func: Compile(d), Text: d.String()}, nil
}

// PlotPoint is one sample of a function.
type PlotPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sample evaluates f at evenly spaced points covering
// [center-halfWidth, center+halfWidth], about step apart, endpoints
// included. Non-finite samples are dropped. It returns nil when step is not
// positive or any argument is not finite.
func Sample(f func(float64) float64, center, halfWidth, step float64) []PlotPoint {
	if !(step > 0) || halfWidth < 0 || math.IsInf(step, 0) ||
		math.IsNaN(center) || math.IsInf(center, 0) || math.IsNaN(halfWidth) || math.IsInf(halfWidth, 0) {
		return nil
	}
	n := int(math.Round(2*halfWidth/step)) + 1
	if n < 2 {
		n = 2
	}
	xs := floats.Span(make([]float64, n), center-halfWidth, center+halfWidth)

	out := make([]PlotPoint, 0, n)
	for _, x := range xs {
		y := f(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		out = append(out, PlotPoint{X: x, Y: y})
	}
	return out
}
