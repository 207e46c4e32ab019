package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Eval evaluates an arithmetic expression over numeric literals and the
// operators + - * / %, with standard precedence and left associativity.
// It is a constrained tokenizer plus precedence-climbing parser, never a
// general-purpose evaluator. Division follows float64 semantics, so
// dividing by zero yields an infinity or NaN rather than an error.
func Eval(expr string) (float64, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	p := &parser{tokens: toks}
	result, err := p.parseExpr(0)
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.tokens) {
		return 0, fmt.Errorf("unexpected token %q", p.tokens[p.pos].text)
	}
	return result, nil
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOperator
)

type token struct {
	kind  tokenKind
	text  string
	value float64
}

func tokenize(expr string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(expr) {
		ch := expr[i]
		switch {
		case ch == ' ':
			i++
		case strings.ContainsRune(operators, rune(ch)):
			toks = append(toks, token{kind: tokOperator, text: string(ch)})
			i++
		case ch >= '0' && ch <= '9' || ch == '.':
			start := i
			seenDot := false
			for i < len(expr) {
				c := expr[i]
				if c == '.' {
					if seenDot {
						return nil, fmt.Errorf("malformed number at %d", start)
					}
					seenDot = true
				} else if c < '0' || c > '9' {
					break
				}
				i++
			}
			text := expr[start:i]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed number %q", text)
			}
			toks = append(toks, token{kind: tokNumber, text: text, value: v})
		default:
			return nil, fmt.Errorf("unexpected character %q", ch)
		}
	}
	if len(toks) == 0 {
		return nil, errors.New("empty expression")
	}
	return toks, nil
}

type parser struct {
	tokens []token
	pos    int
}

func precedence(op string) int {
	switch op {
	case "+", "-":
		return 1
	case "*", "/", "%":
		return 2
	}
	return 0
}

// parseExpr implements precedence climbing: it consumes operators whose
// precedence is at least minPrec, recursing with a higher floor for the
// right-hand side to get left associativity.
func (p *parser) parseExpr(minPrec int) (float64, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		if tok.kind != tokOperator {
			return 0, fmt.Errorf("expected operator, got %q", tok.text)
		}
		prec := precedence(tok.text)
		if prec < minPrec {
			break
		}
		p.pos++
		rhs, err := p.parseExpr(prec + 1)
		if err != nil {
			return 0, err
		}
		lhs = apply(tok.text, lhs, rhs)
	}
	return lhs, nil
}

func (p *parser) parseUnary() (float64, error) {
	if p.pos >= len(p.tokens) {
		return 0, errors.New("unexpected end of expression")
	}
	tok := p.tokens[p.pos]
	if tok.kind == tokOperator {
		if tok.text != "-" {
			return 0, fmt.Errorf("unexpected operator %q", tok.text)
		}
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	p.pos++
	return tok.value, nil
}

func apply(op string, a, b float64) float64 {
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b
	case "%":
		return math.Mod(a, b)
	}
	return math.NaN()
}
