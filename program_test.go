package rpn_test

import (
	"math"
	"math/big"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/zephyrtronium/rpn"
)

func TestProgramRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   []entry
	}{
		{"empty", nil},
		{"nums", []entry{n(1), n(-2.5), n(1e-7), n(math.Inf(-1))}},
		{"ops", []entry{n(5), n(3), o(rpn.Add), n(2), o(rpn.Mul), o(rpn.Pi), o(rpn.Div)}},
		{"all", []entry{n(2), o(rpn.Sqrt), o(rpn.Sin), o(rpn.Cos), o(rpn.Neg), n(1), o(rpn.Sub)}},
		{"incomplete", []entry{o(rpn.Add), n(3)}},
		{"thirds", []entry{n(1), n(3), o(rpn.Div), n(3), o(rpn.Mul)}},
		{"vars", []entry{v("x"), v("_y2"), o(rpn.Mul), v("π2")}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := rpn.New(rpn.SetVar("x", big.NewFloat(3)))
			run(a, c.in)
			p := a.Program()
			b := rpn.New(rpn.SetVar("x", big.NewFloat(3)))
			if skipped := b.SetProgram(p); len(skipped) != 0 {
				t.Errorf("skipped tokens %q", skipped)
			}
			if q := b.Program(); !reflect.DeepEqual(p, q) {
				t.Errorf("programs differ:\n\twant %q\n\tgot  %q", p, q)
			}
			if a.Len() != b.Len() {
				t.Errorf("trace lengths differ: want %d, got %d", a.Len(), b.Len())
			}
			if a.String() != b.String() {
				t.Errorf("descriptions differ: want %q, got %q", a.String(), b.String())
			}
			ra, ea := a.EvalErr()
			rb, eb := b.EvalErr()
			if (ra == nil) != (rb == nil) || ra != nil && ra.Cmp(rb) != 0 {
				t.Errorf("results differ: want %v, got %v", ra, rb)
			}
			if (ea == nil) != (eb == nil) || ea != nil && ea.Error() != eb.Error() {
				t.Errorf("errors differ: want %v, got %v", ea, eb)
			}
		})
	}
}

func TestProgramExact(t *testing.T) {
	// A value that has no short decimal form still round-trips exactly.
	a := rpn.New(rpn.Prec(100))
	third := new(big.Float).SetPrec(100).Quo(big.NewFloat(1), big.NewFloat(3))
	a.Push(third)
	b := rpn.New(rpn.Prec(100))
	b.SetProgram(a.Program())
	if r := b.Eval(); r == nil || r.Cmp(third) != 0 {
		t.Errorf("1/3 changed: want %v, got %v\n%s", third, r, spew.Sdump(a.Program(), b.Program()))
	}
}

func TestSetProgram(t *testing.T) {
	cases := []struct {
		name    string
		tokens  []string
		history string
		skipped []string
	}{
		{"empty", nil, "", nil},
		{"nums", []string{"1", "2.50", "-3e2", "+Inf"}, "1 2.5 -300 +Inf", nil},
		{"ops", []string{"4", "√", "π", "×"}, "4 √ π ×", nil},
		{"vars", []string{"x", "y", "+"}, "x y +", nil},
		{"junk", []string{"1", "$", "2", "1a", "", "*", "+"}, "1 2 +", []string{"$", "1a", "", "*"}},
		{"ascii-minus", []string{"5", "3", "-"}, "5 3", []string{"-"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := rpn.New()
			skipped := e.SetProgram(c.tokens)
			if !reflect.DeepEqual(skipped, c.skipped) {
				t.Errorf("wrong skipped tokens:\n\twant %q\n\tgot  %q", c.skipped, skipped)
			}
			if got := e.History(); got != c.history {
				t.Errorf("wrong history:\n\twant %q\n\tgot  %q\n%s", c.history, got, spew.Sdump(e.Program()))
			}
		})
	}
}

func TestSetProgramReplaces(t *testing.T) {
	e := rpn.New()
	run(e, []entry{n(7), n(8), o(rpn.Add)})
	e.SetProgram([]string{"6", "2", "÷"})
	r := e.Eval()
	if e.Len() != 3 {
		t.Errorf("trace has %d entries, want 3", e.Len())
	}
	if r == nil {
		t.Fatalf("nil result with error %v", e.Err())
	}
	if f, _ := r.Float64(); f != 3 {
		t.Errorf("wrong result: want 3, got %g", r)
	}
}

func TestSetProgramEvaluates(t *testing.T) {
	e := rpn.New()
	e.SetProgram([]string{"1", "0", "÷"})
	if _, ok := e.Err().(*rpn.DomainError); !ok {
		t.Errorf("error after SetProgram was %#v, not DomainError", e.Err())
	}
}

func TestProgramNameCollisions(t *testing.T) {
	// Import tries operators and numbers before variables.
	a := rpn.New()
	run(a, []entry{v("sin"), v("inf"), v("x")})
	b := rpn.New()
	if skipped := b.SetProgram(a.Program()); len(skipped) != 0 {
		t.Errorf("skipped tokens %q", skipped)
	}
	if got, want := b.String(), "sin?, +Inf, x"; got != want {
		t.Errorf("wrong description: want %q, got %q\n%s", want, got, spew.Sdump(b.Program()))
	}
}
