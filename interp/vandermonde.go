package interp

import (
	"fmt"
	"math"

	"github.com/njchilds90/gonumerics/numerr"
)

// singularRatio scales the largest matrix entry into the smallest pivot
// elimination accepts.
const singularRatio = 1e-13

// Vandermonde solves V·c = y with V[i][j] = x_i^j by Gaussian elimination
// with partial pivoting.
func Vandermonde(points []Point) (*PolyResult, error) {
	if _, err := validate(points); err != nil {
		return nil, err
	}
	xs, ys := split(points)

	n := len(xs)
	v := make([][]float64, n)
	for i, x := range xs {
		v[i] = make([]float64, n)
		p := 1.0
		for j := range v[i] {
			if !finite(p) {
				return nil, fmt.Errorf("%w: x = %g raised to %d overflows", numerr.ErrNonFinite, x, j)
			}
			v[i][j] = p
			p *= x
		}
	}

	c, err := gaussSolve(v, ys)
	if err != nil {
		return nil, err
	}
	return newPolyResult(c)
}

// gaussSolve solves a·x = b in place on copies of its inputs.
func gaussSolve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	m := make([][]float64, n)
	scale := 0.0
	for i := range a {
		m[i] = append(append(make([]float64, 0, n+1), a[i]...), b[i])
		for _, v := range a[i] {
			scale = math.Max(scale, math.Abs(v))
		}
	}
	floor := singularRatio * scale

	for k := 0; k < n; k++ {
		p := k
		for r := k + 1; r < n; r++ {
			if math.Abs(m[r][k]) > math.Abs(m[p][k]) {
				p = r
			}
		}
		if math.Abs(m[p][k]) <= floor {
			return nil, fmt.Errorf("%w: no usable pivot in column %d", numerr.ErrSingularSystem, k)
		}
		m[k], m[p] = m[p], m[k]

		for r := k + 1; r < n; r++ {
			f := m[r][k] / m[k][k]
			if f == 0 {
				continue
			}
			for j := k; j <= n; j++ {
				m[r][j] -= f * m[k][j]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		s := m[i][n]
		for j := i + 1; j < n; j++ {
			s -= m[i][j] * x[j]
		}
		x[i] = s / m[i][i]
	}
	return x, nil
}
