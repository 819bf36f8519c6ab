package rpn

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Op is an entry in a calculator's trace. Operators in the engine's table are
// also Ops; applying one appends a copy of it to the trace.
type Op struct {
	kind opKind
	sym  string
	prec int

	num *big.Float

	f0 func(out *big.Float) *big.Float
	f1 func(out, x *big.Float) *big.Float
	f2 func(out, x, y *big.Float) *big.Float

	check1 func(x *big.Float) string
	check2 func(x, y *big.Float) string
}

type opKind int8

const (
	opNone opKind = iota

	opNum    // push num
	opConst  // push f0()
	opUnary  // f1 of one operand
	opBinary // f2 of two operands
	opVar    // push lookup(sym)
)

func (k opKind) String() string {
	switch k {
	case opNone:
		return "None"
	case opNum:
		return "Num"
	case opConst:
		return "Const"
	case opUnary:
		return "Unary"
	case opBinary:
		return "Binary"
	case opVar:
		return "Var"
	default:
		return "opKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// maxPrec is the precedence of everything that is not a binary operator.
const maxPrec = math.MaxInt32

// Nullary creates an operator of no operands, generally a constant. f must
// set out to its result; its return value is ignored.
func Nullary(sym string, f func(out *big.Float) *big.Float) Op {
	return Op{kind: opConst, sym: sym, f0: f}
}

// Unary creates an operator of one operand. f must set out to its result; its
// return value is ignored. If check is not nil, it is called on the operand
// before f, and a non-empty result is reported as a *DomainError instead of
// calling f.
//
// If f panics with big.ErrNaN, the panic is also reported as a *DomainError.
func Unary(sym string, f func(out, x *big.Float) *big.Float, check func(x *big.Float) string) Op {
	return Op{kind: opUnary, sym: sym, f1: f, check1: check}
}

// Binary creates an operator of two operands with the given precedence.
// Higher precedence binds tighter. f receives the operand entered later as x
// and the operand entered earlier as y, so that "5 3 −" computes y - x. check
// behaves as for Unary.
func Binary(sym string, prec int, f func(out, x, y *big.Float) *big.Float, check func(x, y *big.Float) string) Op {
	if prec <= 0 || prec >= maxPrec {
		panic("rpn: invalid precedence for " + sym)
	}
	return Op{kind: opBinary, sym: sym, prec: prec, f2: f, check2: check}
}

// Symbol returns the text of the op as it appears in a program.
func (op Op) Symbol() string {
	if op.kind == opNum {
		return fmtnum(op.num)
	}
	return op.sym
}

// Precedence returns the binding strength of the op. Only binary operators
// have a precedence less than the maximum.
func (op Op) Precedence() int {
	if op.kind == opBinary {
		return op.prec
	}
	return maxPrec
}

func (op Op) String() string {
	return op.kind.String() + ":" + op.Symbol()
}

func operand(x *big.Float) Op {
	return Op{kind: opNum, num: x}
}

func variable(name string) Op {
	return Op{kind: opVar, sym: name}
}

// Symbols used by the default operator table.
const (
	Mul  = "×"
	Div  = "÷"
	Add  = "+"
	Sub  = "−"
	Sqrt = "√"
	Sin  = "sin"
	Cos  = "cos"
	Neg  = "±"
	Pi   = "π"
)

func defaultOps() []Op {
	return []Op{
		Binary(Mul, 2, (*big.Float).Mul, nil),
		Binary(Div, 2, func(out, x, y *big.Float) *big.Float {
			return out.Quo(y, x)
		}, func(divisor, _ *big.Float) string {
			if divisor.Sign() == 0 {
				return "division by zero"
			}
			return ""
		}),
		Binary(Add, 1, (*big.Float).Add, nil),
		Binary(Sub, 1, func(out, x, y *big.Float) *big.Float {
			return out.Sub(y, x)
		}, nil),
		Unary(Sqrt, (*big.Float).Sqrt, func(x *big.Float) string {
			if x.Sign() < 0 {
				return "square root of negative number"
			}
			return ""
		}),
		Unary(Sin, viaFloat64(math.Sin), nil),
		Unary(Cos, viaFloat64(math.Cos), nil),
		Unary(Neg, (*big.Float).Neg, nil),
		Nullary(Pi, bigfloat.Pi),
	}
}

// Extended returns operators beyond the default set: exp, ln, and ^. They are
// not in an engine's table unless added with the Ops option.
func Extended() []Op {
	return []Op{
		Unary("exp", exp, nil),
		Unary("ln", bigfloat.Log, func(x *big.Float) string {
			if x.Sign() <= 0 {
				return "logarithm of non-positive number"
			}
			return ""
		}),
		Binary("^", 3, func(out, x, y *big.Float) *big.Float {
			return pow(out, y, x)
		}, func(_, base *big.Float) string {
			// TODO: allow negative base with integer exponent
			if base.Sign() < 0 {
				return "negative base"
			}
			return ""
		}),
	}
}

// Beyond these, e**x is not representable as a big.Float.
var (
	expMax = float64(big.MaxExp) * math.Ln2
	expMin = float64(big.MinExp) * math.Ln2
)

// exp sets out to e**x. bigfloat.Exp reduces large arguments by halving them
// repeatedly, which takes far too long, so reduce by powers of two first:
// e**x = 2**k * e**(x - k ln 2).
func exp(out, x *big.Float) *big.Float {
	switch {
	case x.IsInf() && x.Sign() > 0:
		return out.SetInf(false)
	case x.IsInf():
		return out.SetFloat64(0)
	case x.Sign() == 0:
		return out.SetFloat64(1)
	}
	f, _ := x.Float64()
	if f > expMax {
		return out.SetInf(false)
	}
	if f < expMin {
		return out.SetFloat64(0)
	}
	// k can have up to 32 bits, all of which cancel in x - k ln 2.
	prec := out.Prec() + 96
	ln2 := bigfloat.Log(new(big.Float).SetPrec(prec), big.NewFloat(2))
	k, _ := new(big.Float).SetPrec(prec).Quo(x, ln2).Int64()
	r := new(big.Float).SetPrec(prec).SetInt64(k)
	r.Sub(x, r.Mul(r, ln2))
	bigfloat.Exp(r, r)
	return out.Set(r.SetMantExp(r, int(k)))
}

// pow sets out to base**x for a non-negative base. bigfloat.Pow leaves out
// untouched for its special cases, so they are handled here.
func pow(out, base, x *big.Float) *big.Float {
	switch {
	case x.Sign() == 0, base.Cmp(big.NewFloat(1)) == 0:
		return out.SetFloat64(1)
	case base.Sign() == 0 && x.Sign() > 0:
		return out.SetFloat64(0)
	case base.Sign() == 0:
		return out.SetInf(false)
	}
	// Now ln base is nonzero, so x ln base is never ∞ × 0.
	prec := out.Prec() + 64
	t := bigfloat.Log(new(big.Float).SetPrec(prec), base)
	t.Mul(t, x)
	return exp(out, t)
}

// viaFloat64 adapts a float64 function to big.Float. The result has at most
// float64 precision. math/big and bigfloat have no trigonometry.
func viaFloat64(f func(float64) float64) func(out, x *big.Float) *big.Float {
	return func(out, x *big.Float) *big.Float {
		v, _ := x.Float64()
		return out.SetFloat64(f(v))
	}
}

// call applies the op to its operands. Panics with big.ErrNaN or
// bigfloat.ErrNaN become errors.
func (op *Op) call(prec uint, x, y *big.Float) (r *big.Float, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		switch nan := p.(type) {
		case big.ErrNaN:
			r, err = nil, &DomainError{Op: op.sym, Msg: nan.Error()}
		case bigfloat.ErrNaN:
			r, err = nil, &DomainError{Op: op.sym, Msg: nan.Error()}
		default:
			panic(p)
		}
	}()
	r = new(big.Float).SetPrec(prec)
	switch op.kind {
	case opConst:
		op.f0(r)
	case opUnary:
		if op.check1 != nil {
			if msg := op.check1(x); msg != "" {
				return nil, &DomainError{Op: op.sym, Msg: msg}
			}
		}
		op.f1(r, x)
	case opBinary:
		if op.check2 != nil {
			if msg := op.check2(x, y); msg != "" {
				return nil, &DomainError{Op: op.sym, Msg: msg}
			}
		}
		op.f2(r, x, y)
	default:
		panic("rpn: call on " + op.String())
	}
	return r, nil
}
