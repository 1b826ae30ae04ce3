package numerics_test

import (
	"math"
	"strings"
	"testing"

	numerics "github.com/njchilds90/gonumerics"
)

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := numerics.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := numerics.F(1, 3)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_TerminatingDecimal(t *testing.T) {
	n := numerics.F(-3, 4)
	if n.String() != "-0.75" {
		t.Errorf("want -0.75, got %s", n.String())
	}
}

func TestNum_Diff_IsZero(t *testing.T) {
	result := numerics.N(5).Diff("x")
	if numerics.String(result) != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", numerics.String(result))
	}
}

func TestNum_Eval(t *testing.T) {
	n, ok := numerics.N(7).Eval()
	if !ok || n.String() != "7" {
		t.Errorf("Num.Eval() should succeed with same value")
	}
}

// ============================================================
// Sym tests
// ============================================================

func TestSym_String(t *testing.T) {
	x := numerics.S("x")
	if x.String() != "x" {
		t.Errorf("want x, got %s", x.String())
	}
}

func TestSym_Sub_Match(t *testing.T) {
	x := numerics.S("x")
	result := x.Sub("x", numerics.N(3))
	if numerics.String(result) != "3" {
		t.Errorf("want 3, got %s", numerics.String(result))
	}
}

func TestSym_Diff_Self(t *testing.T) {
	result := numerics.S("x").Diff("x")
	if numerics.String(result) != "1" {
		t.Errorf("d/dx(x) should be 1, got %s", numerics.String(result))
	}
}

func TestSym_Constant_Eval(t *testing.T) {
	v, ok := numerics.S("pi").Eval()
	if !ok || v.Float64() < 3.14159 || v.Float64() > 3.1416 {
		t.Errorf("pi should evaluate to 3.14159..., ok=%v", ok)
	}
	if _, ok := numerics.S("x").Eval(); ok {
		t.Error("x should not evaluate")
	}
}

// ============================================================
// Add tests
// ============================================================

func TestAdd_Simple(t *testing.T) {
	expr := numerics.AddOf(numerics.S("x"), numerics.N(3))
	if numerics.String(expr) != "x + 3" {
		t.Errorf("want 'x + 3', got %s", numerics.String(expr))
	}
}

func TestAdd_CollapseToZero(t *testing.T) {
	expr := numerics.AddOf(numerics.N(1), numerics.N(-1))
	if numerics.String(expr) != "0" {
		t.Errorf("want 0, got %s", numerics.String(expr))
	}
}

func TestAdd_LikeTerms(t *testing.T) {
	expr := numerics.AddOf(numerics.S("x"), numerics.S("x"))
	if numerics.String(expr) != "2*x" {
		t.Errorf("want '2*x', got %s", numerics.String(expr))
	}
}

func TestAdd_LikeTermsCancel(t *testing.T) {
	x := numerics.S("x")
	expr := numerics.AddOf(x, numerics.N(2), numerics.MulOf(numerics.N(-1), x))
	if numerics.String(expr) != "2" {
		t.Errorf("x + 2 - x should be 2, got %s", numerics.String(expr))
	}
}

func TestAdd_SignFolding(t *testing.T) {
	x := numerics.S("x")
	expr := numerics.AddOf(numerics.PowOf(x, numerics.N(3)), numerics.MulOf(numerics.N(-1), x), numerics.N(-2))
	if numerics.String(expr) != "x^3 - x - 2" {
		t.Errorf("want 'x^3 - x - 2', got %s", numerics.String(expr))
	}
}

func TestAdd_Diff(t *testing.T) {
	// d/dx(x^2 + 3x + 1) = 2x + 3
	x := numerics.S("x")
	expr := numerics.AddOf(numerics.PowOf(x, numerics.N(2)), numerics.MulOf(numerics.N(3), x), numerics.N(1))
	d := numerics.Diff(expr, "x")
	if numerics.String(d) != "2*x + 3" {
		t.Errorf("d/dx(x^2+3x+1) should be 2*x + 3, got %s", numerics.String(d))
	}
}

func TestAdd_SingleTerm(t *testing.T) {
	expr := numerics.AddOf(numerics.N(5))
	if numerics.String(expr) != "5" {
		t.Errorf("single-term Add should unwrap, got %s", numerics.String(expr))
	}
}

// ============================================================
// Mul tests
// ============================================================

func TestMul_Simple(t *testing.T) {
	expr := numerics.MulOf(numerics.N(3), numerics.S("x"))
	if numerics.String(expr) != "3*x" {
		t.Errorf("want '3*x', got %s", numerics.String(expr))
	}
}

func TestMul_ZeroCollapse(t *testing.T) {
	expr := numerics.MulOf(numerics.N(0), numerics.S("x"))
	if numerics.String(expr) != "0" {
		t.Errorf("0*x should be 0, got %s", numerics.String(expr))
	}
}

func TestMul_OneElide(t *testing.T) {
	expr := numerics.MulOf(numerics.N(1), numerics.S("x"))
	if numerics.String(expr) != "x" {
		t.Errorf("1*x should be x, got %s", numerics.String(expr))
	}
}

func TestMul_NegativeOne(t *testing.T) {
	expr := numerics.MulOf(numerics.N(-1), numerics.SinOf(numerics.S("x")))
	if numerics.String(expr) != "-sin(x)" {
		t.Errorf("want -sin(x), got %s", numerics.String(expr))
	}
}

func TestMul_MergePowers(t *testing.T) {
	x := numerics.S("x")
	expr := numerics.MulOf(x, numerics.PowOf(x, numerics.N(2)))
	if numerics.String(expr) != "x^3" {
		t.Errorf("x*x^2 should be x^3, got %s", numerics.String(expr))
	}
	if numerics.String(numerics.MulOf(x, numerics.PowOf(x, numerics.N(-1)))) != "1" {
		t.Error("x*x^-1 should be 1")
	}
}

func TestMul_ProductRule(t *testing.T) {
	// d/dx(x * sin(x)) = cos(x)*x + sin(x)
	x := numerics.S("x")
	d := numerics.Diff(numerics.MulOf(x, numerics.SinOf(x)), "x")
	if numerics.String(d) != "cos(x)*x + sin(x)" {
		t.Errorf("want cos(x)*x + sin(x), got %s", numerics.String(d))
	}
}

// ============================================================
// Pow tests
// ============================================================

func TestPow_Simple(t *testing.T) {
	expr := numerics.PowOf(numerics.S("x"), numerics.N(2))
	if numerics.String(expr) != "x^2" {
		t.Errorf("want x^2, got %s", numerics.String(expr))
	}
}

func TestPow_ZeroExp(t *testing.T) {
	expr := numerics.PowOf(numerics.S("x"), numerics.N(0))
	if numerics.String(expr) != "1" {
		t.Errorf("x^0 should be 1, got %s", numerics.String(expr))
	}
}

func TestPow_NumericEval(t *testing.T) {
	expr := numerics.PowOf(numerics.N(2), numerics.N(3))
	if numerics.String(expr) != "8" {
		t.Errorf("2^3 should be 8, got %s", numerics.String(expr))
	}
}

func TestPow_HugeIntegerExponent_NotFolded(t *testing.T) {
	expr, err := numerics.Parse("2^18446744073709551617")
	if err != nil {
		t.Fatal(err)
	}
	if _, isNum := expr.(*numerics.Num); isNum {
		t.Fatalf("2^(2^64+1) must stay symbolic, got %s", numerics.String(expr))
	}
	if got := numerics.Compile(expr)(0); !math.IsInf(got, 1) {
		t.Errorf("2^(2^64+1) should evaluate to +Inf, got %v", got)
	}

	expr, err = numerics.Parse("2^-18446744073709551617")
	if err != nil {
		t.Fatal(err)
	}
	if got := numerics.Compile(expr)(0); got != 0 {
		t.Errorf("2^-(2^64+1) should evaluate to 0, got %v", got)
	}
}

func TestPow_LargeFold_StaysSymbolic(t *testing.T) {
	expr, err := numerics.Parse("(((((2^20)^20)^20)^20)^20)^20")
	if err != nil {
		t.Fatal(err)
	}
	if _, isNum := expr.(*numerics.Num); isNum {
		t.Fatalf("tower of powers should not be folded exactly")
	}
	if got := numerics.Compile(expr)(0); !math.IsInf(got, 1) {
		t.Errorf("want +Inf, got %v", got)
	}

	small, _ := numerics.Parse("(2^20)^20")
	if want := "2582249878086908589655919172003011874329705792829223512830659356540647622016841194629645353280137831435903171972747493376"; numerics.String(small) != want {
		t.Errorf("(2^20)^20 should fold exactly, got %s", numerics.String(small))
	}
}

func TestPow_Reciprocal(t *testing.T) {
	expr := numerics.PowOf(numerics.S("x"), numerics.N(-1))
	if numerics.String(expr) != "1/x" {
		t.Errorf("want 1/x, got %s", numerics.String(expr))
	}
}

func TestPow_FractionalExponent(t *testing.T) {
	expr := numerics.SqrtOf(numerics.S("x"))
	if numerics.String(expr) != "x^(0.5)" {
		t.Errorf("want x^(0.5), got %s", numerics.String(expr))
	}
}

func TestPow_Diff_PowerRule(t *testing.T) {
	// d/dx(x^3) = 3*x^2
	d := numerics.Diff(numerics.PowOf(numerics.S("x"), numerics.N(3)), "x")
	if numerics.String(d) != "3*x^2" {
		t.Errorf("d/dx(x^3) should be 3*x^2, got %s", numerics.String(d))
	}
}

func TestPow_Diff_ConstantBase(t *testing.T) {
	// d/dx(e^x) = e^x
	d := numerics.Diff(numerics.PowOf(numerics.S("e"), numerics.S("x")), "x")
	if numerics.String(d) != "e^x" {
		t.Errorf("d/dx(e^x) should be e^x, got %s", numerics.String(d))
	}
}

// ============================================================
// Func tests
// ============================================================

func TestFunc_Sin_String(t *testing.T) {
	expr := numerics.SinOf(numerics.S("x"))
	if numerics.String(expr) != "sin(x)" {
		t.Errorf("want sin(x), got %s", numerics.String(expr))
	}
}

func TestFunc_Sin_Diff(t *testing.T) {
	d := numerics.Diff(numerics.SinOf(numerics.S("x")), "x")
	if numerics.String(d) != "cos(x)" {
		t.Errorf("d/dx(sin(x)) should be cos(x), got %s", numerics.String(d))
	}
}

func TestFunc_Cos_Diff(t *testing.T) {
	d := numerics.Diff(numerics.CosOf(numerics.S("x")), "x")
	if numerics.String(d) != "-sin(x)" {
		t.Errorf("d/dx(cos(x)) should be -sin(x), got %s", numerics.String(d))
	}
}

func TestFunc_Exp_Diff(t *testing.T) {
	d := numerics.Diff(numerics.ExpOf(numerics.S("x")), "x")
	if numerics.String(d) != "exp(x)" {
		t.Errorf("d/dx(exp(x)) should be exp(x), got %s", numerics.String(d))
	}
}

func TestFunc_Ln_Diff(t *testing.T) {
	d := numerics.Diff(numerics.LnOf(numerics.S("x")), "x")
	if numerics.String(d) != "1/x" {
		t.Errorf("d/dx(ln(x)) should be 1/x, got %s", numerics.String(d))
	}
}

func TestFunc_ChainRule(t *testing.T) {
	// d/dx(sin(x^2)) = 2*x*cos(x^2), factors sorted by text
	x := numerics.S("x")
	d := numerics.Diff(numerics.SinOf(numerics.PowOf(x, numerics.N(2))), "x")
	if numerics.String(d) != "2*cos(x^2)*x" {
		t.Errorf("want 2*cos(x^2)*x, got %s", numerics.String(d))
	}
}

func TestFunc_Abs_NoRule(t *testing.T) {
	d := numerics.Diff(numerics.AbsOf(numerics.S("x")), "x")
	if !strings.HasPrefix(numerics.String(d), "D[abs]") {
		t.Errorf("d/dx(abs(x)) should be left unevaluated, got %s", numerics.String(d))
	}
}

func TestFunc_Numeric_Identity(t *testing.T) {
	expr := numerics.SinOf(numerics.N(0))
	if numerics.String(expr) != "0" {
		t.Errorf("sin(0) should evaluate to 0, got %s", numerics.String(expr))
	}
	if numerics.String(numerics.CosOf(numerics.N(2))) != "cos(2)" {
		t.Error("cos(2) should stay symbolic")
	}
}

// ============================================================
// FreeSymbols tests
// ============================================================

func TestFreeSymbols(t *testing.T) {
	expr := numerics.AddOf(numerics.S("x"), numerics.MulOf(numerics.S("pi"), numerics.N(2)))
	syms := numerics.FreeSymbols(expr)
	if _, ok := syms["x"]; !ok {
		t.Error("expected x in free symbols")
	}
	if _, ok := syms["pi"]; !ok {
		t.Error("expected pi in free symbols")
	}
	if len(syms) != 2 {
		t.Errorf("expected 2 free symbols, got %d", len(syms))
	}
}

func TestFreeSymbols_Constant(t *testing.T) {
	syms := numerics.FreeSymbols(numerics.N(5))
	if len(syms) != 0 {
		t.Errorf("constant should have no free symbols, got %d", len(syms))
	}
}

// ============================================================
// Equal tests
// ============================================================

func TestEqual_NumTrue(t *testing.T) {
	if !numerics.N(3).Equal(numerics.F(6, 2)) {
		t.Error("N(3) should equal 6/2")
	}
}

func TestEqual_CrossType(t *testing.T) {
	if numerics.N(1).Equal(numerics.S("x")) {
		t.Error("N(1) should not equal S(x)")
	}
}

// ============================================================
// Determinism test
// ============================================================

func TestDeterminism(t *testing.T) {
	x := numerics.S("x")
	build := func() string {
		return numerics.String(numerics.MulOf(numerics.ExpOf(x), x, numerics.SinOf(x), numerics.N(2)))
	}
	expected := build()
	for i := 0; i < 10; i++ {
		if got := build(); got != expected {
			t.Errorf("non-deterministic output on iteration %d: %s != %s", i, got, expected)
		}
	}
}
