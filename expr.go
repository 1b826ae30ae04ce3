// Package numerics is the expression and dispatch layer of the numerics
// engine.
//
// It provides:
//   - a small symbolic kernel (exact rationals, symbols, sums, products,
//     powers, elementary functions) with symbolic differentiation;
//   - a parser from text to that kernel and a float64 compiler from the
//     kernel to plain Go functions;
//   - Engine, which dispatches method-shaped requests to the rootfind,
//     linsolve and interp packages and renders their traces as tables.
//
// The algorithms themselves live in the subpackages and never see text.
package numerics

import (
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a node of the symbolic kernel. Values are immutable and are
// built only through the constructors, so the children of a node are
// always simplified and Simplify normalizes the top level only.
type Expr interface {
	Simplify() Expr
	String() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
}

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("numerics: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}
func NFloat(f float64) *Num { return &Num{val: new(big.Rat).SetFloat64(f)} }

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

// String prints integers as integers, terminating decimals with up to 12
// digits as decimals, small fractions as p/q, and anything else as the
// nearest float64.
func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	if s, ok := decimalString(n.val, 12); ok {
		return s
	}
	if n.val.Denom().IsInt64() && n.val.Denom().Int64() <= 1_000_000 && n.val.Num().IsInt64() {
		return n.val.RatString()
	}
	return strconv.FormatFloat(n.Float64(), 'g', -1, 64)
}

func decimalString(r *big.Rat, maxDigits int) (string, bool) {
	scaled := new(big.Rat).Set(r)
	ten := big.NewRat(10, 1)
	for d := 1; d <= maxDigits; d++ {
		scaled.Mul(scaled, ten)
		if scaled.IsInt() {
			return r.FloatString(d), true
		}
	}
	return "", false
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("numerics: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// ============================================================
// Sym: symbolic variable or named constant
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) String() string { return s.name }
func (s *Sym) Eval() (*Num, bool) {
	if v, ok := constants[s.name]; ok {
		return NFloat(v), true
	}
	return nil, false
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// constants are the symbols with a fixed value.
var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds numbers and combines terms that
// differ only by a numeric coefficient. Term order is stable: combined
// terms keep the position of their first occurrence, the constant goes
// last.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		if inner, ok := t.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, t)
		}
	}

	numAccum := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], coeff)
	}

	result := []Expr{}
	for _, key := range order {
		coeff := coeffs[key]
		switch {
		case coeff.IsZero():
		case coeff.IsOne():
			result = append(result, rests[key])
		default:
			result = append(result, MulOf(coeff, rests[key]))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		s := t.String()
		switch {
		case i == 0:
			sb.WriteString(s)
		case strings.HasPrefix(s, "-"):
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		default:
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

// extractCoefficient splits c*rest into (c, rest); anything else is (1, e).
func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds numbers into a leading
// coefficient and merges powers of a common base (x*x^2 becomes x^3).
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		if inner, ok := f.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, f)
		}
	}

	coeff := N(1)
	bases := map[string]Expr{}
	exps := map[string][]Expr{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		if _, seen := bases[key]; !seen {
			order = append(order, key)
			bases[key] = base
		}
		exps[key] = append(exps[key], exp)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := []Expr{}
	for _, key := range order {
		var merged Expr
		if len(exps[key]) == 1 {
			merged = PowOf(bases[key], exps[key][0])
		} else {
			merged = PowOf(bases[key], AddOf(exps[key]...))
		}
		if v, ok := merged.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		others = append(others, merged)
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	for i := range ks {
		others[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

// String writes a leading -1 as a bare minus and parenthesizes sums.
func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	factors := m.factors
	prefix := ""
	if n, ok := factors[0].(*Num); ok && n.IsNegOne() && len(factors) > 1 {
		prefix = "-"
		factors = factors[1:]
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		_, isAdd := f.(*Add)
		if isAdd {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return prefix + strings.Join(parts, "*")
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		if len(others) == 0 {
			terms[i] = dfi
		} else {
			terms[i] = MulOf(append([]Expr{dfi}, others...)...)
		}
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base, exp := p.base, p.exp

	if en, ok := exp.(*Num); ok && en.IsZero() {
		return N(1)
	}
	if en, ok := exp.(*Num); ok && en.IsOne() {
		return base
	}

	// Handle 0^exp carefully.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if en, ok2 := exp.(*Num); ok2 {
			// 0^0 is indeterminate; 0^negative is division by zero.
			if en.IsZero() || en.IsNegative() {
				return &Pow{base: base, exp: exp}
			}
		}
		return N(0)
	}

	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if bn, ok := base.(*Num); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() && en.val.Num().IsInt64() {
			e := en.val.Num().Int64()
			if e >= -20 && e <= 20 && bitLen(bn)*abs64(e) <= maxFoldBits {
				result := N(1)
				for i := int64(0); i < abs64(e); i++ {
					result = numMul(result, bn)
				}
				if e < 0 {
					// base == 0 was handled above.
					return numRecip(result)
				}
				return result
			}
		}
	}
	// (b^m)^n = b^(m*n) only holds for integer n.
	if inner, ok := base.(*Pow); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() {
			return PowOf(inner.base, MulOf(inner.exp, exp))
		}
	}
	return &Pow{base: base, exp: exp}
}

// maxFoldBits caps the size of an exactly folded power; larger powers of
// numbers stay symbolic.
const maxFoldBits = 4096

func bitLen(n *Num) int64 {
	return int64(n.val.Num().BitLen() + n.val.Denom().BitLen())
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// String writes x^-1 as 1/x and parenthesizes compound bases and
// non-integer or negative exponents.
func (p *Pow) String() string {
	baseStr := p.base.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	case *Num:
		if !b.IsInteger() || b.IsNegative() {
			baseStr = "(" + baseStr + ")"
		}
	}
	expStr := p.exp.String()
	if en, ok := p.exp.(*Num); ok {
		if en.IsNegOne() {
			return "1/" + baseStr
		}
		if en.IsInteger() && !en.IsNegative() {
			return baseStr + "^" + expStr
		}
	} else if _, ok := p.exp.(*Sym); ok {
		return baseStr + "^" + expStr
	}
	return baseStr + "^(" + expStr + ")"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if _, expIsNum := p.exp.(*Num); expIsNum {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	if isConstant(p.base) {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if ok1 && ok2 {
		pf := math.Pow(b.Float64(), e.Float64())
		if math.IsNaN(pf) || math.IsInf(pf, 0) {
			return nil, false
		}
		return NFloat(pf), true
	}
	return nil, false
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

// isConstant reports whether e has no free symbols other than the named
// constants.
func isConstant(e Expr) bool {
	for name := range FreeSymbols(e) {
		if _, ok := constants[name]; !ok {
			return false
		}
	}
	return true
}

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr   { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr   { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr   { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr   { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr    { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr  { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr   { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr  { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr  { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr  { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr  { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr  { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr  { return funcOf("tanh", arg).Simplify() }
func FloorOf(arg Expr) Expr { return funcOf("floor", arg).Simplify() }
func CeilOf(arg Expr) Expr  { return funcOf("ceil", arg).Simplify() }

// funcBuilders maps the function names the parser accepts to their
// constructors. log is the natural logarithm.
var funcBuilders = map[string]func(Expr) Expr{
	"sin":   SinOf,
	"cos":   CosOf,
	"tan":   TanOf,
	"exp":   ExpOf,
	"ln":    LnOf,
	"log":   LnOf,
	"sqrt":  SqrtOf,
	"abs":   AbsOf,
	"asin":  AsinOf,
	"acos":  AcosOf,
	"atan":  AtanOf,
	"sinh":  SinhOf,
	"cosh":  CoshOf,
	"tanh":  TanhOf,
	"floor": FloorOf,
	"ceil":  CeilOf,
}

// funcFloat are the float64 implementations used by Eval and the compiler.
var funcFloat = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"exp":   math.Exp,
	"ln":    math.Log,
	"abs":   math.Abs,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"floor": math.Floor,
	"ceil":  math.Ceil,
}

// Simplify applies sin(0)=0, cos(0)=1, exp(0)=1, ln(1)=0, ln(e)=1,
// ln(exp(u))=u, exp(ln(u))=u and |c|=c for rationals. Other numeric
// arguments stay symbolic so that derivative texts read cos(2), not a
// 17-digit decimal.
func (f *Func) Simplify() Expr {
	arg := f.arg
	if n, ok := arg.(*Num); ok {
		switch {
		case (f.name == "sin" || f.name == "tan" || f.name == "asin" || f.name == "atan" ||
			f.name == "sinh" || f.name == "tanh") && n.IsZero():
			return N(0)
		case (f.name == "cos" || f.name == "cosh" || f.name == "exp") && n.IsZero():
			return N(1)
		case f.name == "ln" && n.IsOne():
			return N(0)
		case f.name == "abs":
			return &Num{val: new(big.Rat).Abs(n.val)}
		case (f.name == "floor" || f.name == "ceil") && n.IsInteger():
			return n
		}
	}
	switch f.name {
	case "ln":
		if s, ok := arg.(*Sym); ok && s.name == "e" {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

// Diff applies the chain rule. Functions without a derivative rule (abs,
// floor, ceil) yield D[name](arg), which Differentiate rejects.
func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	default:
		if isNumEqual(du, 0) {
			return N(0)
		}
		return MulOf(funcOf("D["+f.name+"]", f.arg), du)
	}
	return MulOf(outer, du).Simplify()
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	fn, ok := funcFloat[f.name]
	if !ok {
		return nil, false
	}
	v := fn(n.Float64())
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return NFloat(v), true
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.Equal(N(v))
}

// ============================================================
// Helpers
// ============================================================

func String(e Expr) string { return e.String() }

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

// FreeSymbols returns the names of all symbols in e, constants included.
func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// hasUnknownDerivative reports whether e contains a D[...] placeholder.
func hasUnknownDerivative(e Expr) bool {
	switch v := e.(type) {
	case *Add:
		for _, t := range v.terms {
			if hasUnknownDerivative(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if hasUnknownDerivative(f) {
				return true
			}
		}
	case *Pow:
		return hasUnknownDerivative(v.base) || hasUnknownDerivative(v.exp)
	case *Func:
		return strings.HasPrefix(v.name, "D[") || hasUnknownDerivative(v.arg)
	}
	return false
}
