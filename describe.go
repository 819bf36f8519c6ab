package rpn

import (
	"math/big"
	"strings"
)

// String describes the trace in infix notation. Each complete expression in
// the trace is described separately, in the order entered, separated by
// commas. Missing operands are written as "?".
func (e *Engine) String() string {
	var parts []string
	for end := len(e.trace); end > 0; {
		var s string
		s, end, _ = e.describe(end)
		parts = append(parts, s)
	}
	// Expressions were found newest first.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ", ")
}

// describe describes the subexpression that ends just before the trace index
// end. It returns the text, the index at which the subexpression starts, and
// the precedence of the subexpression's outermost operator.
func (e *Engine) describe(end int) (string, int, int) {
	if end <= 0 {
		return "?", 0, maxPrec
	}
	op := &e.trace[end-1]
	rest := end - 1
	switch op.kind {
	case opNum, opConst, opVar:
		return op.Symbol(), rest, op.Precedence()
	case opUnary:
		x, rest, p := e.describe(rest)
		if p < maxPrec {
			x = "(" + x + ")"
		}
		return op.sym + x, rest, op.Precedence()
	case opBinary:
		prec := op.Precedence()
		x, rest, p := e.describe(rest)
		// The later operand is on the right, so it needs parentheses at
		// equal precedence: 5 − (3 − 2).
		if p <= prec {
			x = "(" + x + ")"
		}
		y, rest, q := e.describe(rest)
		if q < prec {
			y = "(" + y + ")"
		}
		return y + " " + op.sym + " " + x, rest, prec
	default:
		panic("rpn: invalid trace entry " + op.String())
	}
}

// fmtnum formats a number in the shortest form that parses back to the same
// value at the same precision.
func fmtnum(x *big.Float) string {
	return x.Text('g', -1)
}
