package rpn

import (
	"math/big"
	"strings"
	"unicode"
)

// Program returns the trace as a list of tokens, one per entry, in the order
// entered. Numbers are formatted as by String. The result can be stored and
// later passed to SetProgram.
func (e *Engine) Program() []string {
	r := make([]string, len(e.trace))
	for i, op := range e.trace {
		r[i] = op.Symbol()
	}
	return r
}

// History returns the program as a single space-separated line.
func (e *Engine) History() string {
	return strings.Join(e.Program(), " ")
}

// SetProgram replaces the trace with the one described by a list of tokens
// and evaluates it. Each token is interpreted as the first of the following
// that matches:
//
// 	1.	The symbol of an operator in the engine's table.
// 	2.	A decimal number, which is parsed to the engine's precision.
// 	3.	A variable name: a letter or underscore followed by any number of
// 		letters, digits, and underscores.
//
// Tokens that match none of these are skipped and returned. Since variable
// names come last, a variable named like an operator or a number, such as
// "sin" or "inf", is imported as that operator or number.
func (e *Engine) SetProgram(tokens []string) (skipped []string) {
	trace := make([]Op, 0, len(tokens))
	for _, tok := range tokens {
		if op, ok := e.ops[tok]; ok {
			trace = append(trace, op)
			continue
		}
		if x, ok := e.parsenum(tok); ok {
			trace = append(trace, operand(x))
			continue
		}
		if isIdent(tok) {
			trace = append(trace, variable(tok))
			continue
		}
		skipped = append(skipped, tok)
	}
	e.trace = trace
	e.Eval()
	return skipped
}

// parsenum parses a decimal number to the engine's precision.
func (e *Engine) parsenum(s string) (*big.Float, bool) {
	if s == "" {
		return nil, false
	}
	x, _, err := big.ParseFloat(s, 10, e.prec, big.ToNearestEven)
	if err != nil {
		return nil, false
	}
	return x, true
}

// isIdent returns whether s is a valid variable name.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
