// Package interp builds interpolating polynomials and linear splines from a
// set of points with distinct x values.
//
// Vandermonde, Lagrange and NewtonDivided all return the same polynomial in
// ascending-coefficient form; they differ in how it is constructed.
package interp

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/njchilds90/gonumerics/numerr"
)

// Point is an interpolation node.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polynomial holds coefficients in ascending degree: Coefficients[k]
// multiplies x^k.
type Polynomial struct {
	Coefficients []float64
}

// Degree is len(Coefficients)-1; trailing zero coefficients still count.
func (p Polynomial) Degree() int {
	return len(p.Coefficients) - 1
}

// Eval evaluates the polynomial at x with Horner's rule.
func (p Polynomial) Eval(x float64) float64 {
	y := 0.0
	for k := len(p.Coefficients) - 1; k >= 0; k-- {
		y = y*x + p.Coefficients[k]
	}
	return y
}

// String renders the polynomial in descending degree with four decimals,
// e.g. "P(x) = -1.5000*x^2 + 3.5000*x + 1.0000". Zero terms are omitted.
func (p Polynomial) String() string {
	var terms []string
	for k := len(p.Coefficients) - 1; k >= 0; k-- {
		c := p.Coefficients[k]
		if c == 0 {
			continue
		}
		switch k {
		case 0:
			terms = append(terms, fixed4(c))
		case 1:
			terms = append(terms, fixed4(c)+"*x")
		default:
			terms = append(terms, fmt.Sprintf("%s*x^%d", fixed4(c), k))
		}
	}
	return "P(x) = " + joinSigned(terms)
}

// PolyResult is a constructed polynomial plus its rendered text.
type PolyResult struct {
	Polynomial
	Text string

	// DividedDifferences is the top row of the divided-difference table,
	// set by NewtonDivided only.
	DividedDifferences []float64
}

// newPolyResult fails with numerr.ErrNonFinite when the expansion
// overflowed, which happens for finite but huge x values.
func newPolyResult(coeffs []float64) (*PolyResult, error) {
	for k, c := range coeffs {
		if !finite(c) {
			return nil, fmt.Errorf("%w: coefficient of x^%d is %v", numerr.ErrNonFinite, k, c)
		}
	}
	p := Polynomial{Coefficients: coeffs}
	return &PolyResult{Polynomial: p, Text: p.String()}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// fixed4 formats v with four decimals, dropping the sign of a value that
// rounds to zero.
func fixed4(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	if s == "-0.0000" {
		return "0.0000"
	}
	return s
}

// joinSigned joins terms with " + ", folding a leading minus of any term
// after the first into " - ".
func joinSigned(terms []string) string {
	if len(terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	sb.WriteString(terms[0])
	for _, t := range terms[1:] {
		if strings.HasPrefix(t, "-") {
			sb.WriteString(" - ")
			sb.WriteString(t[1:])
		} else {
			sb.WriteString(" + ")
			sb.WriteString(t)
		}
	}
	return sb.String()
}

// validate checks the preconditions shared by every method and returns the
// points sorted by x. The input slice is left untouched.
func validate(points []Point) ([]Point, error) {
	if len(points) < 2 {
		return nil, numerr.Invalid("need at least 2 points, got %d", len(points))
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return nil, numerr.Invalid("point %d is not finite", i)
		}
	}
	sorted := append([]Point(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].X == sorted[i-1].X {
			return nil, fmt.Errorf("%w: x = %g", numerr.ErrDuplicateX, sorted[i].X)
		}
	}
	return sorted, nil
}

func split(points []Point) (xs, ys []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	return
}
