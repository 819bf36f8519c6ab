package rpn

import (
	"math/big"
	"sort"
)

// Engine is a reverse Polish calculator. It is not safe to use an Engine
// concurrently.
//
// Evaluation recurses once per trace entry, so extremely long traces are
// limited by the goroutine stack.
type Engine struct {
	ops   map[string]Op
	trace []Op
	names map[string]*big.Float
	prec  uint
	err   error
}

// Option is an option used when creating an engine.
type Option interface {
	engineOption()
}

type (
	varopt struct {
		name string
		val  *big.Float
	}
	varsopt map[string]*big.Float
	precopt uint
	opsopt  []Op
)

func (varopt) engineOption()  {}
func (varsopt) engineOption() {}
func (precopt) engineOption() {}
func (opsopt) engineOption()  {}

// SetVar sets the value of a variable in the engine.
func SetVar(name string, val *big.Float) Option {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the engine.
func SetVars(vars map[string]*big.Float) Option {
	return varsopt(vars)
}

// Prec sets the precision of calculations.
func Prec(prec uint) Option {
	return precopt(prec)
}

// Ops adds operators to the engine's operator table. An operator with the
// same symbol as an existing one replaces it.
func Ops(ops ...Op) Option {
	return opsopt(ops)
}

// New creates a new engine with an empty trace. If no precision is given, the
// default is 64.
func New(opts ...Option) *Engine {
	e := Engine{
		ops:   make(map[string]Op),
		names: make(map[string]*big.Float),
		prec:  64,
	}
	for _, op := range defaultOps() {
		e.ops[op.sym] = op
	}
	// Apply the last precision first so that variables get it.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			e.prec = uint(p)
			break
		}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			e.names[opt.name] = new(big.Float).SetPrec(e.prec).Set(opt.val)
		case varsopt:
			for k, v := range opt {
				e.names[k] = new(big.Float).SetPrec(e.prec).Set(v)
			}
		case opsopt:
			for _, op := range opt {
				if op.kind != opConst && op.kind != opUnary && op.kind != opBinary {
					panic("rpn: " + op.String() + " is not an operator")
				}
				e.ops[op.sym] = op
			}
		case precopt:
			// Already done. Do nothing.
		default:
			panic("rpn: unknown option type")
		}
	}
	return &e
}

// Push appends a number to the trace and returns the new result.
func (e *Engine) Push(x *big.Float) *big.Float {
	e.trace = append(e.trace, operand(new(big.Float).SetPrec(e.prec).Set(x)))
	return e.Eval()
}

// PushVar appends a reference to a variable to the trace and returns the new
// result. The variable need not have a value yet.
func (e *Engine) PushVar(name string) *big.Float {
	e.trace = append(e.trace, variable(name))
	return e.Eval()
}

// Pop removes the last entry from the trace, if there is one, and returns the
// new result.
func (e *Engine) Pop() *big.Float {
	if len(e.trace) > 0 {
		e.trace[len(e.trace)-1] = Op{}
		e.trace = e.trace[:len(e.trace)-1]
	}
	return e.Eval()
}

// Apply appends the operator with the given symbol to the trace and returns
// the new result. If there is no such operator, the trace is unchanged, but
// the result is still recomputed.
func (e *Engine) Apply(symbol string) *big.Float {
	if op, ok := e.ops[symbol]; ok {
		e.trace = append(e.trace, op)
	}
	return e.Eval()
}

// Eval evaluates the trace and returns the result. If an error occurs, e.g. a
// missing variable definition or an operand outside an operator's domain, then
// the result is nil and e.Err returns the error. An empty trace evaluates to
// nil with no error.
func (e *Engine) Eval() *big.Float {
	e.err = nil
	r, _, err := e.eval(len(e.trace))
	if err == nil && r == nil && len(e.trace) > 0 {
		err = &OperandsError{Op: e.trace[len(e.trace)-1].sym}
	}
	e.err = err
	if err != nil {
		return nil
	}
	return r
}

// EvalErr evaluates the trace and returns the result along with the reason
// there is no result, if any.
func (e *Engine) EvalErr() (*big.Float, error) {
	r := e.Eval()
	return r, e.err
}

// Err returns the error from the most recent evaluation, if any.
func (e *Engine) Err() error {
	return e.err
}

// Len returns the number of entries in the trace.
func (e *Engine) Len() int {
	return len(e.trace)
}

// Prec returns the precision to which values are computed in the engine.
func (e *Engine) Prec() uint {
	return e.prec
}

// Set sets the value of a variable. Returns e for chaining. Set does not
// evaluate the trace again.
func (e *Engine) Set(name string, value *big.Float) *Engine {
	e.names[name] = new(big.Float).SetPrec(e.prec).Set(value)
	return e
}

// Unset removes the value of a variable. Returns e for chaining.
func (e *Engine) Unset(name string) *Engine {
	delete(e.names, name)
	return e
}

// Lookup returns a copy of the value of a variable. If the variable has no
// value, then the result is nil.
func (e *Engine) Lookup(name string) *big.Float {
	v := e.names[name]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Vars returns the names of all variables with values, sorted.
func (e *Engine) Vars() []string {
	r := make([]string, 0, len(e.names))
	for k := range e.names {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Known returns whether symbol names an operator in the engine's table.
func (e *Engine) Known(symbol string) bool {
	_, ok := e.ops[symbol]
	return ok
}

// Symbols returns the symbols of all operators in the engine's table, sorted.
func (e *Engine) Symbols() []string {
	r := make([]string, 0, len(e.ops))
	for k := range e.ops {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// eval evaluates the subexpression that ends just before the trace index end.
// It returns the value, the index at which the subexpression starts, and the
// first error encountered. A nil value with a nil error means the trace ran
// out of operands.
func (e *Engine) eval(end int) (*big.Float, int, error) {
	if end <= 0 {
		return nil, 0, nil
	}
	op := &e.trace[end-1]
	rest := end - 1
	switch op.kind {
	case opNum:
		return new(big.Float).Copy(op.num), rest, nil
	case opConst:
		r, err := op.call(e.prec, nil, nil)
		return r, rest, err
	case opVar:
		v := e.names[op.sym]
		if v == nil {
			return nil, rest, &NameError{Name: op.sym}
		}
		return new(big.Float).Copy(v), rest, nil
	case opUnary:
		x, rest, err := e.eval(rest)
		if x == nil {
			return nil, rest, err
		}
		r, err := op.call(e.prec, x, nil)
		return r, rest, err
	case opBinary:
		x, rest, err := e.eval(rest)
		if x == nil {
			return nil, rest, err
		}
		y, rest, err := e.eval(rest)
		if y == nil {
			return nil, rest, err
		}
		r, err := op.call(e.prec, x, y)
		return r, rest, err
	default:
		panic("rpn: invalid trace entry " + op.String())
	}
}
