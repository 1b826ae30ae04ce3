package numerics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/njchilds90/gonumerics/interp"
	"github.com/njchilds90/gonumerics/linsolve"
	"github.com/njchilds90/gonumerics/numerr"
	"github.com/njchilds90/gonumerics/rootfind"
	"github.com/njchilds90/gonumerics/trace"
)

// ============================================================
// Tool interface
// ============================================================

type ToolRequest struct {
	Tool   string         `json:"tool"`
	Params map[string]any `json:"params"`
}

// ToolResponse carries either a result, an error, or both: a run that
// exhausted its iteration budget still reports its last estimate and table.
type ToolResponse struct {
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// Sampling defaults for the muestreo tool, matching the plot window drawn
// around a root.
const (
	DefaultSampleHalfWidth = 5.0
	DefaultSampleStep      = 0.2
	maxSamples             = 10001
)

// Engine validates method-shaped requests and dispatches them to the
// numerical packages. It is safe for concurrent use.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	// compiled expressions keyed by role-prefixed text, see compile.
	exprs *cache.Cache
}

type compiled struct {
	expr Expr
	fn   func(float64) float64
}

// NewEngine builds an engine. Limits that are zero or out of range take
// their DefaultConfig values. A zero CacheTTL keeps compiled expressions
// forever; a nil logger means slog.Default().
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withLimits()
	return &Engine{
		cfg:    cfg,
		logger: logger,
		exprs:  cache.New(cfg.CacheTTL, cfg.CacheTTL),
	}
}

type toolFunc func(e *Engine, p params) (map[string]any, error)

var tools = map[string]toolFunc{
	"biseccion":     (*Engine).bisection,
	"regla_falsa":   (*Engine).falsePosition,
	"newton":        (*Engine).newton,
	"secante":       (*Engine).secant,
	"punto_fijo":    (*Engine).fixedPoint,
	"jacobi":        (*Engine).jacobi,
	"gauss_seidel":  (*Engine).gaussSeidel,
	"sor":           (*Engine).sor,
	"vandermonde":   (*Engine).vandermonde,
	"lagrange":      (*Engine).lagrange,
	"newton_interp": (*Engine).newtonInterp,
	"spline_lineal": (*Engine).linearSpline,
	"muestreo":      (*Engine).sample,
}

// Tools lists the served tool names in sorted order.
func Tools() []string {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HandleToolCall runs one request. It never panics on user input.
func (e *Engine) HandleToolCall(ctx context.Context, req ToolRequest) ToolResponse {
	start := time.Now()

	fn, ok := tools[req.Tool]
	if !ok {
		return failure(fmt.Errorf("%w: %q", numerr.ErrUnknownTool, req.Tool), nil)
	}
	if err := ctx.Err(); err != nil {
		return failure(err, nil)
	}

	result, err := fn(e, params(req.Params))

	iterations := 0
	if rows, ok := result["tabla"].([]trace.Row); ok {
		iterations = len(rows)
	}
	e.logger.Debug("tool call",
		"tool", req.Tool,
		"duration", time.Since(start),
		"iterations", iterations,
		"kind", string(numerr.KindOf(err)))

	if err != nil {
		return failure(err, result)
	}
	return ToolResponse{Result: result}
}

func failure(err error, partial map[string]any) ToolResponse {
	resp := ToolResponse{Error: err.Error(), Kind: string(numerr.KindOf(err))}
	if len(partial) > 0 {
		resp.Result = partial
	}
	return resp
}

// ============================================================
// Shared request handling
// ============================================================

// compile parses text once per TTL. The key carries the role so that
// function and derivative entries never collide.
func (e *Engine) compile(text string) (*compiled, error) {
	if c, ok := e.exprs.Get("f:" + text); ok {
		return c.(*compiled), nil
	}
	expr, err := Parse(text)
	if err != nil {
		return nil, err
	}
	c := &compiled{expr: expr, fn: Compile(expr)}
	e.exprs.SetDefault("f:"+text, c)
	return c, nil
}

func (e *Engine) derivative(text string, c *compiled) (rootfind.Derivative, error) {
	if d, ok := e.exprs.Get("d:" + text); ok {
		return d.(rootfind.Derivative), nil
	}
	d, err := derive(c.expr)
	if err != nil {
		return d, err
	}
	e.exprs.SetDefault("d:"+text, d)
	return d, nil
}

func (e *Engine) function(p params, key string) (string, *compiled, error) {
	text, err := p.string(key)
	if err != nil {
		return "", nil, err
	}
	if len(text) > e.cfg.MaxExpressionLength {
		return "", nil, numerr.Invalid("param %s is longer than %d bytes", key, e.cfg.MaxExpressionLength)
	}
	c, err := e.compile(text)
	return text, c, err
}

// budget reads tol and maxIter. maxIter above the configured cap is
// clamped rather than refused.
func (e *Engine) budget(p params) (float64, int, error) {
	tol, err := p.float("tol")
	if err != nil {
		return 0, 0, err
	}
	if tol <= 0 {
		return 0, 0, numerr.Invalid("tol must be positive, got %v", tol)
	}
	maxIter, err := p.int("maxIter")
	if err != nil {
		return 0, 0, err
	}
	if maxIter < 1 {
		return 0, 0, numerr.Invalid("maxIter must be at least 1, got %d", maxIter)
	}
	if maxIter > e.cfg.MaxIterations {
		e.logger.Warn("maxIter clamped", "requested", maxIter, "limit", e.cfg.MaxIterations)
		maxIter = e.cfg.MaxIterations
	}
	return tol, maxIter, nil
}

// ============================================================
// Root finding
// ============================================================

func rootResult(res *rootfind.Result, err error) (map[string]any, error) {
	if res == nil {
		return nil, err
	}
	out := map[string]any{"tabla": trace.Table(res.Trace, FormatNum)}
	if !numerr.IsFatal(err) {
		out["raiz"] = res.Root
	}
	if res.Derivative != "" {
		out["derivada"] = res.Derivative
	}
	return out, err
}

func (e *Engine) bracket(p params, method func(rootfind.Func, float64, float64, float64, int) (*rootfind.Result, error)) (map[string]any, error) {
	_, f, err := e.function(p, "fnString")
	if err != nil {
		return nil, err
	}
	a, err := p.float("a")
	if err != nil {
		return nil, err
	}
	b, err := p.float("b")
	if err != nil {
		return nil, err
	}
	tol, maxIter, err := e.budget(p)
	if err != nil {
		return nil, err
	}
	return rootResult(method(f.fn, a, b, tol, maxIter))
}

func (e *Engine) bisection(p params) (map[string]any, error) {
	return e.bracket(p, rootfind.Bisection)
}

func (e *Engine) falsePosition(p params) (map[string]any, error) {
	return e.bracket(p, rootfind.FalsePosition)
}

func (e *Engine) newton(p params) (map[string]any, error) {
	text, f, err := e.function(p, "fnString")
	if err != nil {
		return nil, err
	}
	x0, err := p.float("x0")
	if err != nil {
		return nil, err
	}
	tol, maxIter, err := e.budget(p)
	if err != nil {
		return nil, err
	}
	df, err := e.derivative(text, f)
	if err != nil {
		return nil, err
	}
	return rootResult(rootfind.Newton(f.fn, df, x0, tol, maxIter))
}

func (e *Engine) secant(p params) (map[string]any, error) {
	_, f, err := e.function(p, "fnString")
	if err != nil {
		return nil, err
	}
	x0, err := p.float("x0")
	if err != nil {
		return nil, err
	}
	x1, err := p.float("x1")
	if err != nil {
		return nil, err
	}
	tol, maxIter, err := e.budget(p)
	if err != nil {
		return nil, err
	}
	return rootResult(rootfind.Secant(f.fn, x0, x1, tol, maxIter))
}

func (e *Engine) fixedPoint(p params) (map[string]any, error) {
	_, g, err := e.function(p, "gString")
	if err != nil {
		return nil, err
	}
	x0, err := p.float("x0")
	if err != nil {
		return nil, err
	}
	tol, maxIter, err := e.budget(p)
	if err != nil {
		return nil, err
	}
	return rootResult(rootfind.FixedPoint(g.fn, x0, tol, maxIter))
}

// ============================================================
// Linear systems
// ============================================================

func (e *Engine) system(p params) ([][]float64, []float64, error) {
	a, err := p.matrix("A")
	if err != nil {
		return nil, nil, err
	}
	b, err := p.vector("b")
	if err != nil {
		return nil, nil, err
	}
	if n := len(b); n < 2 || n > e.cfg.MaxMatrixSize {
		return nil, nil, numerr.Invalid("system size must be between 2 and %d, got %d", e.cfg.MaxMatrixSize, n)
	}
	return a, b, nil
}

func solveResult(res *linsolve.Result, err error) (map[string]any, error) {
	if res == nil {
		return nil, err
	}
	out := map[string]any{"tabla": trace.Table(res.Trace, FormatNum)}
	if !numerr.IsFatal(err) {
		out["solucion"] = res.Solution
	}
	return out, err
}

func (e *Engine) stationary(p params, method func([][]float64, []float64, float64, int, ...linsolve.Option) (*linsolve.Result, error)) (map[string]any, error) {
	a, b, err := e.system(p)
	if err != nil {
		return nil, err
	}
	tol, maxIter, err := e.budget(p)
	if err != nil {
		return nil, err
	}
	opts, err := initialGuess(p)
	if err != nil {
		return nil, err
	}
	return solveResult(method(a, b, tol, maxIter, opts...))
}

func initialGuess(p params) ([]linsolve.Option, error) {
	if !p.has("x0") {
		return nil, nil
	}
	x0, err := p.vector("x0")
	if err != nil {
		return nil, err
	}
	return []linsolve.Option{linsolve.WithInitialGuess(x0)}, nil
}

func (e *Engine) jacobi(p params) (map[string]any, error) {
	return e.stationary(p, linsolve.Jacobi)
}

func (e *Engine) gaussSeidel(p params) (map[string]any, error) {
	return e.stationary(p, linsolve.GaussSeidel)
}

func (e *Engine) sor(p params) (map[string]any, error) {
	omega, err := p.float("omega")
	if err != nil {
		return nil, err
	}
	if omega >= 2 {
		e.logger.Warn("relaxation factor outside (0, 2), SOR will likely diverge", "omega", omega)
	}
	return e.stationary(p, func(a [][]float64, b []float64, tol float64, maxIter int, opts ...linsolve.Option) (*linsolve.Result, error) {
		return linsolve.SOR(a, b, omega, tol, maxIter, opts...)
	})
}

// ============================================================
// Interpolation
// ============================================================

func (e *Engine) nodes(p params) ([]interp.Point, error) {
	pts, err := p.points("puntos")
	if err != nil {
		return nil, err
	}
	if n := len(pts); n < 2 || n > e.cfg.MaxPoints {
		return nil, numerr.Invalid("number of points must be between 2 and %d, got %d", e.cfg.MaxPoints, n)
	}
	return pts, nil
}

func (e *Engine) polynomial(p params, method func([]interp.Point) (*interp.PolyResult, error)) (map[string]any, error) {
	pts, err := e.nodes(p)
	if err != nil {
		return nil, err
	}
	res, err := method(pts)
	if err != nil {
		return nil, err
	}
	out := map[string]any{
		"polinomioStr": res.Text,
		"coeficientes": res.Coefficients,
	}
	if res.DividedDifferences != nil {
		out["diferencias"] = res.DividedDifferences
	}
	return out, nil
}

func (e *Engine) vandermonde(p params) (map[string]any, error) {
	return e.polynomial(p, interp.Vandermonde)
}

func (e *Engine) lagrange(p params) (map[string]any, error) {
	return e.polynomial(p, interp.Lagrange)
}

func (e *Engine) newtonInterp(p params) (map[string]any, error) {
	return e.polynomial(p, interp.NewtonDivided)
}

func (e *Engine) linearSpline(p params) (map[string]any, error) {
	pts, err := e.nodes(p)
	if err != nil {
		return nil, err
	}
	res, err := interp.LinearSpline(pts)
	if err != nil {
		return nil, err
	}
	return map[string]any{"splines": res.Texts()}, nil
}

// ============================================================
// Plot sampling
// ============================================================

func (e *Engine) sample(p params) (map[string]any, error) {
	_, f, err := e.function(p, "fnString")
	if err != nil {
		return nil, err
	}
	center, err := p.floatOr("center", 0)
	if err != nil {
		return nil, err
	}
	halfWidth, err := p.floatOr("halfWidth", DefaultSampleHalfWidth)
	if err != nil {
		return nil, err
	}
	step, err := p.floatOr("step", DefaultSampleStep)
	if err != nil {
		return nil, err
	}
	if step <= 0 || halfWidth < 0 {
		return nil, numerr.Invalid("step must be positive and halfWidth non-negative")
	}
	if n := 2*halfWidth/step + 1; n > maxSamples || math.IsInf(n, 0) {
		return nil, numerr.Invalid("too many samples requested, at most %d", maxSamples)
	}
	return map[string]any{"puntos": Sample(f.fn, center, halfWidth, step)}, nil
}

// IsUnknownTool reports whether resp rejected the tool name.
func IsUnknownTool(resp ToolResponse) bool {
	return resp.Kind == string(numerr.KindUnknownTool)
}
