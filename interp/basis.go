package interp

import (
	"fmt"

	"github.com/njchilds90/gonumerics/numerr"
)

// Lagrange sums y_i·L_i(x), L_i(x) = Π_{j≠i} (x-x_j)/(x_i-x_j), expanding
// each basis polynomial numerically into ascending coefficients.
func Lagrange(points []Point) (*PolyResult, error) {
	if _, err := validate(points); err != nil {
		return nil, err
	}
	xs, ys := split(points)

	n := len(xs)
	coeffs := make([]float64, n)
	for i := range xs {
		basis := []float64{1}
		denom := 1.0
		for j := range xs {
			if j == i {
				continue
			}
			basis = mulLinear(basis, xs[j])
			denom *= xs[i] - xs[j]
		}
		w := ys[i] / denom
		for k, c := range basis {
			coeffs[k] += w * c
		}
	}
	return newPolyResult(coeffs)
}

// NewtonDivided builds the divided-difference table and expands the Newton
// form c_0 + c_1(x-x_0) + c_2(x-x_0)(x-x_1) + ... into ascending
// coefficients.
func NewtonDivided(points []Point) (*PolyResult, error) {
	if _, err := validate(points); err != nil {
		return nil, err
	}
	xs, ys := split(points)

	dd := DividedDifferences(xs, ys)
	n := len(dd)

	// Horner in coefficient space: P = c_{n-1}; P = P*(x - x_k) + c_k.
	p := []float64{dd[n-1]}
	for k := n - 2; k >= 0; k-- {
		p = mulLinear(p, xs[k])
		p[0] += dd[k]
	}

	for k, c := range dd {
		if !finite(c) {
			return nil, fmt.Errorf("%w: divided difference %d is %v", numerr.ErrNonFinite, k, c)
		}
	}
	res, err := newPolyResult(p)
	if err != nil {
		return nil, err
	}
	res.DividedDifferences = dd
	return res, nil
}

// DividedDifferences returns f[x_0], f[x_0,x_1], ..., f[x_0..x_{n-1}]. The
// x values must be distinct; callers outside this package should go
// through NewtonDivided, which checks that.
func DividedDifferences(xs, ys []float64) []float64 {
	n := len(xs)
	col := append([]float64(nil), ys...)
	top := make([]float64, n)
	top[0] = col[0]
	for j := 1; j < n; j++ {
		for i := 0; i < n-j; i++ {
			col[i] = (col[i+1] - col[i]) / (xs[i+j] - xs[i])
		}
		top[j] = col[0]
	}
	return top
}

// mulLinear returns p(x)·(x - r).
func mulLinear(p []float64, r float64) []float64 {
	out := make([]float64, len(p)+1)
	for k, c := range p {
		out[k+1] += c
		out[k] -= r * c
	}
	return out
}
