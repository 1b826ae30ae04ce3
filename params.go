package numerics

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/njchilds90/gonumerics/interp"
	"github.com/njchilds90/gonumerics/numerr"
)

// params reads request fields. Numbers may arrive as JSON numbers or as
// text; anything that is not a finite number is rejected.
type params map[string]any

func (p params) has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

func (p params) float(key string) (float64, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, numerr.Invalid("missing param: %s", key)
	}
	f, err := number(v)
	if err != nil {
		return 0, numerr.Invalid("param %s: %v", key, err)
	}
	return f, nil
}

func (p params) floatOr(key string, def float64) (float64, error) {
	if !p.has(key) {
		return def, nil
	}
	return p.float(key)
}

func (p params) int(key string) (int, error) {
	f, err := p.float(key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, numerr.Invalid("param %s must be an integer, got %v", key, f)
	}
	return int(f), nil
}

func (p params) string(key string) (string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", numerr.Invalid("missing param: %s", key)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", numerr.Invalid("param %s must be a string", key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", numerr.Invalid("param %s is empty", key)
	}
	return s, nil
}

func (p params) vector(key string) ([]float64, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, numerr.Invalid("missing param: %s", key)
	}
	if fs, ok := v.([]float64); ok {
		return fs, nil
	}
	raw, err := cast.ToSliceE(v)
	if err != nil {
		return nil, numerr.Invalid("param %s must be an array", key)
	}
	out := make([]float64, len(raw))
	for i, r := range raw {
		if out[i], err = number(r); err != nil {
			return nil, numerr.Invalid("param %s[%d]: %v", key, i, err)
		}
	}
	return out, nil
}

func (p params) matrix(key string) ([][]float64, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, numerr.Invalid("missing param: %s", key)
	}
	if m, ok := v.([][]float64); ok {
		return m, nil
	}
	rows, err := cast.ToSliceE(v)
	if err != nil {
		return nil, numerr.Invalid("param %s must be an array of rows", key)
	}
	out := make([][]float64, len(rows))
	for i, r := range rows {
		row, err := params{"row": r}.vector("row")
		if err != nil {
			return nil, numerr.Invalid("param %s row %d must be an array of numbers", key, i)
		}
		out[i] = row
	}
	return out, nil
}

// points accepts [{"x": 0, "y": 1}, ...] as well as [[0, 1], ...].
func (p params) points(key string) ([]interp.Point, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, numerr.Invalid("missing param: %s", key)
	}
	if pts, ok := v.([]interp.Point); ok {
		return pts, nil
	}
	raw, err := cast.ToSliceE(v)
	if err != nil {
		return nil, numerr.Invalid("param %s must be an array of points", key)
	}
	out := make([]interp.Point, len(raw))
	for i, r := range raw {
		var pt params
		if m, err := cast.ToStringMapE(r); err == nil {
			pt = m
		} else if pair, err := cast.ToSliceE(r); err == nil && len(pair) == 2 {
			pt = params{"x": pair[0], "y": pair[1]}
		} else {
			return nil, numerr.Invalid("param %s[%d] must be a point", key, i)
		}
		if out[i].X, err = number(pt["x"]); err != nil {
			return nil, numerr.Invalid("param %s[%d].x: %v", key, i, err)
		}
		if out[i].Y, err = number(pt["y"]); err != nil {
			return nil, numerr.Invalid("param %s[%d].y: %v", key, i, err)
		}
	}
	return out, nil
}

// number coerces v to a finite float64. Booleans are refused even though
// cast would turn them into 0 or 1.
func number(v any) (float64, error) {
	if v == nil {
		return 0, errors.New("missing value")
	}
	if _, ok := v.(bool); ok {
		return 0, errors.New("boolean is not a number")
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("%v is not a number", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v is not finite", v)
	}
	return f, nil
}
