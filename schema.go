package numerics

import "encoding/json"

// MethodSpec returns the JSON schema of every tool HandleToolCall serves.
func MethodSpec() string {
	rootProps := func(extra map[string]string) map[string]string {
		props := map[string]string{"fnString": "string", "tol": "number", "maxIter": "integer"}
		for k, v := range extra {
			props[k] = v
		}
		return props
	}
	systemProps := map[string]string{"A": "array", "b": "array", "x0": "array", "tol": "number", "maxIter": "integer"}
	pointProps := map[string]string{"puntos": "array"}

	tools := []map[string]any{
		ts("biseccion", "Bisection on [a, b]. f(a) and f(b) must differ in sign",
			[]string{"fnString", "a", "b", "tol", "maxIter"}, rootProps(map[string]string{"a": "number", "b": "number"})),
		ts("regla_falsa", "False position (regula falsi) on [a, b]",
			[]string{"fnString", "a", "b", "tol", "maxIter"}, rootProps(map[string]string{"a": "number", "b": "number"})),
		ts("newton", "Newton-Raphson from x0 with the symbolic derivative",
			[]string{"fnString", "x0", "tol", "maxIter"}, rootProps(map[string]string{"x0": "number"})),
		ts("secante", "Secant method from x0, x1",
			[]string{"fnString", "x0", "x1", "tol", "maxIter"}, rootProps(map[string]string{"x0": "number", "x1": "number"})),
		ts("punto_fijo", "Fixed-point iteration x = g(x)",
			[]string{"gString", "x0", "tol", "maxIter"}, map[string]string{"gString": "string", "x0": "number", "tol": "number", "maxIter": "integer"}),
		ts("jacobi", "Jacobi iteration for A·x = b. Optional x0",
			[]string{"A", "b", "tol", "maxIter"}, systemProps),
		ts("gauss_seidel", "Gauss-Seidel iteration for A·x = b. Optional x0",
			[]string{"A", "b", "tol", "maxIter"}, systemProps),
		ts("sor", "Successive over-relaxation with factor omega in (0, 2)",
			[]string{"A", "b", "tol", "maxIter", "omega"}, withProp(systemProps, "omega", "number")),
		ts("vandermonde", "Interpolating polynomial by solving the Vandermonde system",
			[]string{"puntos"}, pointProps),
		ts("lagrange", "Interpolating polynomial in Lagrange form, expanded",
			[]string{"puntos"}, pointProps),
		ts("newton_interp", "Interpolating polynomial from Newton divided differences",
			[]string{"puntos"}, pointProps),
		ts("spline_lineal", "Piecewise linear spline through the points",
			[]string{"puntos"}, pointProps),
		ts("muestreo", "Samples of f for plotting. Optional center, halfWidth, step",
			[]string{"fnString"}, map[string]string{"fnString": "string", "center": "number", "halfWidth": "number", "step": "number"}),
	}
	doc := map[string]any{"tools": tools}
	b, _ := json.MarshalIndent(doc, "", "  ")
	return string(b)
}

func withProp(props map[string]string, key, typ string) map[string]string {
	out := make(map[string]string, len(props)+1)
	for k, v := range props {
		out[k] = v
	}
	out[key] = typ
	return out
}

func ts(name, description string, required []string, props map[string]string) map[string]any {
	properties := map[string]any{}
	for k, typ := range props {
		properties[k] = map[string]any{"type": typ}
	}
	return map[string]any{
		"name":        name,
		"description": description,
		"inputSchema": map[string]any{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
