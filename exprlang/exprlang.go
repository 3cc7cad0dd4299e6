// Package exprlang evaluates the material UV scroll expressions carried
// in manifest x_expression/y_expression fields. The only free variable
// is the time t in seconds.
package exprlang

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	TOKEN_NUMBER = iota
	TOKEN_IDENT
	TOKEN_OPERATOR
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_COMMA
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`[0-9]*\.?[0-9]+`), getToken(TOKEN_NUMBER))
	lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), getToken(TOKEN_IDENT))
	lexer.Add([]byte(`[\+\-\*/]`), getToken(TOKEN_OPERATOR))
	lexer.Add([]byte(`\(`), getToken(TOKEN_LPAREN))
	lexer.Add([]byte(`\)`), getToken(TOKEN_RPAREN))
	lexer.Add([]byte(`,`), getToken(TOKEN_COMMA))
	lexer.Add([]byte(`\s+`), skip)
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

type Expr interface {
	Eval(t float64) float64
}

type numberExpr float64

func (n numberExpr) Eval(t float64) float64 { return float64(n) }

type timeExpr struct{}

func (timeExpr) Eval(t float64) float64 { return t }

type negateExpr struct {
	arg Expr
}

func (n *negateExpr) Eval(t float64) float64 { return -n.arg.Eval(t) }

type binaryExpr struct {
	op   byte
	l, r Expr
}

func (b *binaryExpr) Eval(t float64) float64 {
	l, r := b.l.Eval(t), b.r.Eval(t)
	switch b.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	}
	return l / r
}

type callExpr struct {
	fn   func(args []float64) float64
	args []Expr
}

func (c *callExpr) Eval(t float64) float64 {
	args := make([]float64, len(c.args))
	for i, a := range c.args {
		args[i] = a.Eval(t)
	}
	return c.fn(args)
}

type function struct {
	arity int
	fn    func(args []float64) float64
}

func lookupFunction(name string) *function {
	switch name {
	case "sin":
		return &function{1, func(a []float64) float64 { return math.Sin(a[0]) }}
	case "cos":
		return &function{1, func(a []float64) float64 { return math.Cos(a[0]) }}
	case "tan":
		return &function{1, func(a []float64) float64 { return math.Tan(a[0]) }}
	case "abs":
		return &function{1, func(a []float64) float64 { return math.Abs(a[0]) }}
	case "sqrt":
		return &function{1, func(a []float64) float64 { return math.Sqrt(a[0]) }}
	case "floor":
		return &function{1, func(a []float64) float64 { return math.Floor(a[0]) }}
	case "ceil":
		return &function{1, func(a []float64) float64 { return math.Ceil(a[0]) }}
	case "fract":
		return &function{1, func(a []float64) float64 { return a[0] - math.Floor(a[0]) }}
	case "min":
		return &function{2, func(a []float64) float64 { return math.Min(a[0], a[1]) }}
	case "max":
		return &function{2, func(a []float64) float64 { return math.Max(a[0], a[1]) }}
	case "pow":
		return &function{2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }}
	}
	return nil
}

type parser struct {
	tokens []*lexmachine.Token
	pos    int
}

// Compile parses an expression once so it can be evaluated every frame
// without touching the lexer again.
func Compile(text string) (Expr, error) {
	scanner, err := lexer.Scanner([]byte(text))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create lexer scanner")
	}

	tokens := make([]*lexmachine.Token, 0, 16)
	for tok, err, eos := scanner.Next(); !eos; tok, err, eos = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse token")
		}
		tokens = append(tokens, tok.(*lexmachine.Token))
	}
	if len(tokens) == 0 {
		return nil, errors.Errorf("Empty expression")
	}

	p := &parser{tokens: tokens}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		tok := p.tokens[p.pos]
		return nil, errors.Errorf("Unexpected %q at column %v", tok.Lexeme, tok.StartColumn)
	}
	return e, nil
}

func (p *parser) peek() *lexmachine.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return nil
}

func (p *parser) next() *lexmachine.Token {
	tok := p.peek()
	if tok != nil {
		p.pos++
	}
	return tok
}

func (p *parser) parseSum() (Expr, error) {
	l, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok == nil || tok.Type != TOKEN_OPERATOR {
			return l, nil
		}
		op := tok.Lexeme[0]
		if op != '+' && op != '-' {
			return l, nil
		}
		p.next()
		r, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		l = &binaryExpr{op: op, l: l, r: r}
	}
}

func (p *parser) parseProduct() (Expr, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok == nil || tok.Type != TOKEN_OPERATOR {
			return l, nil
		}
		op := tok.Lexeme[0]
		if op != '*' && op != '/' {
			return l, nil
		}
		p.next()
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = &binaryExpr{op: op, l: l, r: r}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	tok := p.peek()
	if tok != nil && tok.Type == TOKEN_OPERATOR && tok.Lexeme[0] == '-' {
		p.next()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &negateExpr{arg: arg}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (Expr, error) {
	tok := p.next()
	if tok == nil {
		return nil, errors.Errorf("Unexpected end of expression")
	}

	switch tok.Type {
	case TOKEN_NUMBER:
		v, err := strconv.ParseFloat(string(tok.Lexeme), 64)
		if err != nil {
			return nil, errors.Errorf("Unknown number format %q", tok.Lexeme)
		}
		return numberExpr(v), nil
	case TOKEN_IDENT:
		name := string(tok.Lexeme)
		if name == "t" {
			return timeExpr{}, nil
		}
		if name == "pi" {
			return numberExpr(math.Pi), nil
		}
		fn := lookupFunction(name)
		if fn == nil {
			return nil, errors.Errorf("Unknown identifier %q at column %v", name, tok.StartColumn)
		}
		return p.parseCall(name, fn)
	case TOKEN_LPAREN:
		e, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing == nil || closing.Type != TOKEN_RPAREN {
			return nil, errors.Errorf("Missing closing parenthesis")
		}
		return e, nil
	}
	return nil, errors.Errorf("Unexpected %q at column %v", tok.Lexeme, tok.StartColumn)
}

func (p *parser) parseCall(name string, fn *function) (Expr, error) {
	if tok := p.next(); tok == nil || tok.Type != TOKEN_LPAREN {
		return nil, errors.Errorf("Expected '(' after %q", name)
	}

	args := make([]Expr, 0, fn.arity)
	for {
		arg, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		tok := p.next()
		if tok == nil {
			return nil, errors.Errorf("Unterminated call to %q", name)
		}
		if tok.Type == TOKEN_RPAREN {
			break
		}
		if tok.Type != TOKEN_COMMA {
			return nil, errors.Errorf("Unexpected %q in call to %q", tok.Lexeme, name)
		}
	}

	if len(args) != fn.arity {
		return nil, errors.Errorf("%q takes %v arguments, got %v", name, fn.arity, len(args))
	}
	return &callExpr{fn: fn.fn, args: args}, nil
}
