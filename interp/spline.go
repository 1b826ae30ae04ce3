package interp

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/njchilds90/gonumerics/numerr"
)

// Segment is the line through two consecutive points.
type Segment struct {
	Index  int
	X0, Y0 float64
	X1, Y1 float64
	Slope  float64
}

// Eval evaluates y0 + slope·(x - x0). Eval(X0) is exactly Y0.
func (s Segment) Eval(x float64) float64 {
	return s.Y0 + s.Slope*(x-s.X0)
}

// Intercept is the value of the line at x = 0.
func (s Segment) Intercept() float64 {
	return s.Y0 - s.Slope*s.X0
}

// String renders e.g. "S_0(x) = 2.0000*x + 1.0000, x in [0, 1]".
func (s Segment) String() string {
	line := joinSigned([]string{fixed4(s.Slope) + "*x", fixed4(s.Intercept())})
	return fmt.Sprintf("S_%d(x) = %s, x in [%s, %s]", s.Index, line,
		strconv.FormatFloat(s.X0, 'g', -1, 64), strconv.FormatFloat(s.X1, 'g', -1, 64))
}

// SplineResult is a piecewise linear interpolant ordered by increasing x.
type SplineResult struct {
	Segments []Segment
}

// Texts returns the rendered segments.
func (r *SplineResult) Texts() []string {
	out := make([]string, len(r.Segments))
	for i, s := range r.Segments {
		out[i] = s.String()
	}
	return out
}

// Eval evaluates the spline at x. Outside the node range the first or last
// segment is extended.
func (r *SplineResult) Eval(x float64) float64 {
	i := sort.Search(len(r.Segments), func(i int) bool { return r.Segments[i].X1 >= x })
	if i == len(r.Segments) {
		i--
	}
	return r.Segments[i].Eval(x)
}

// LinearSpline connects the points, sorted by x, with straight segments.
func LinearSpline(points []Point) (*SplineResult, error) {
	sorted, err := validate(points)
	if err != nil {
		return nil, err
	}

	res := &SplineResult{Segments: make([]Segment, 0, len(sorted)-1)}
	for i := 0; i+1 < len(sorted); i++ {
		p, q := sorted[i], sorted[i+1]
		s := Segment{
			Index: i,
			X0:    p.X,
			Y0:    p.Y,
			X1:    q.X,
			Y1:    q.Y,
			Slope: (q.Y - p.Y) / (q.X - p.X),
		}
		if !finite(s.Slope) || !finite(s.Intercept()) {
			return nil, fmt.Errorf("%w: segment %d overflows", numerr.ErrNonFinite, i)
		}
		res.Segments = append(res.Segments, s)
	}
	return res, nil
}
