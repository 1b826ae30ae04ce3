package numerics

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/njchilds90/gonumerics/numerr"
)

// Variable is the only free symbol an expression may use.
const Variable = "x"

// Parse reads an expression in x.
//
// Grammar, loosest binding first:
//
//	sum     = product { ("+" | "-") product }
//	product = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ ("^" | "**") unary ]
//	primary = number | "x" | "pi" | "e" | name "(" sum ")" | "(" sum ")"
//
// Powers are right-associative and bind tighter than unary minus, so -x^2
// is -(x^2) and 2^-1 is 0.5. Numbers are read as exact rationals.
func Parse(text string) (Expr, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	if len(toks) == 1 {
		return nil, fmt.Errorf("%w: empty expression", numerr.ErrParse)
	}
	p := &parser{toks: toks}
	e, err := p.sum()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t)
	}
	return e, nil
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func lex(text string) ([]token, error) {
	var toks []token
	rs := []rune(text)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(rs) && (unicode.IsDigit(rs[i]) || rs[i] == '.') {
				i++
			}
			// An exponent needs a digit; a bare "2e" is left for the parser
			// to reject.
			if i < len(rs) && (rs[i] == 'e' || rs[i] == 'E') {
				j := i + 1
				if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
					j++
				}
				if j < len(rs) && unicode.IsDigit(rs[j]) {
					for j < len(rs) && unicode.IsDigit(rs[j]) {
						j++
					}
					i = j
				}
			}
			toks = append(toks, token{kind: tokNum, text: string(rs[start:i]), pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(rs) && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(rs[start:i]), pos: start})
		case r == '*' && i+1 < len(rs) && rs[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "^", pos: i})
			i += 2
		case strings.ContainsRune("+-*/^", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", numerr.ErrParse, r, i)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(rs)}), nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func (p *parser) unexpected(t token) error {
	if t.kind == tokEOF {
		return fmt.Errorf("%w: unexpected end of expression", numerr.ErrParse)
	}
	return fmt.Errorf("%w: unexpected %q at offset %d", numerr.ErrParse, t.text, t.pos)
}

// sum and product gather a whole chain before building the node, so each
// operator chain is simplified once.
func (p *parser) sum() (Expr, error) {
	first, err := p.product()
	if err != nil {
		return nil, err
	}
	terms := []Expr{first}
	for p.isOp("+", "-") {
		op := p.next().text
		right, err := p.product()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			right = MulOf(N(-1), right)
		}
		terms = append(terms, right)
	}
	if len(terms) == 1 {
		return first, nil
	}
	return AddOf(terms...), nil
}

func (p *parser) product() (Expr, error) {
	first, err := p.unary()
	if err != nil {
		return nil, err
	}
	factors := []Expr{first}
	for p.isOp("*", "/") {
		op := p.next().text
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == "/" {
			if n, ok := right.(*Num); ok && n.IsZero() {
				return nil, fmt.Errorf("%w: division by zero", numerr.ErrParse)
			}
			right = PowOf(right, N(-1))
		}
		factors = append(factors, right)
	}
	if len(factors) == 1 {
		return first, nil
	}
	return MulOf(factors...), nil
}

func (p *parser) unary() (Expr, error) {
	if p.isOp("+", "-") {
		op := p.next().text
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			return MulOf(N(-1), operand), nil
		}
		return operand, nil
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if en, ok := exp.(*Num); ok && en.IsNegative() {
			return nil, fmt.Errorf("%w: 0 raised to %s", numerr.ErrParse, en)
		}
	}
	return PowOf(base, exp), nil
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		if exponentTooLarge(t.text) {
			return nil, fmt.Errorf("%w: number %q out of range at offset %d", numerr.ErrParse, t.text, t.pos)
		}
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, fmt.Errorf("%w: malformed number %q at offset %d", numerr.ErrParse, t.text, t.pos)
		}
		return &Num{val: r}, nil
	case tokLParen:
		e, err := p.sum()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, p.unexpected(c)
		}
		return e, nil
	case tokIdent:
		if build, ok := funcBuilders[t.text]; ok {
			if p.peek().kind != tokLParen {
				return nil, fmt.Errorf("%w: function %s needs an argument at offset %d", numerr.ErrParse, t.text, t.pos)
			}
			p.next()
			arg, err := p.sum()
			if err != nil {
				return nil, err
			}
			if c := p.next(); c.kind != tokRParen {
				return nil, p.unexpected(c)
			}
			return build(arg), nil
		}
		if _, ok := constants[t.text]; ok || t.text == Variable {
			return S(t.text), nil
		}
		return nil, fmt.Errorf("%w: unknown name %q at offset %d", numerr.ErrParse, t.text, t.pos)
	}
	return nil, p.unexpected(t)
}

// maxLiteralExponent bounds the decimal exponent of a number literal.
// Anything beyond it is zero or infinite as a float64 anyway.
const maxLiteralExponent = 1000

func exponentTooLarge(lit string) bool {
	i := strings.IndexAny(lit, "eE")
	if i < 0 {
		return false
	}
	digits := strings.TrimLeft(lit[i+1:], "+-")
	digits = strings.TrimLeft(digits, "0")
	if len(digits) > 4 {
		return true
	}
	n, err := strconv.Atoi("0" + digits)
	return err != nil || n > maxLiteralExponent
}
