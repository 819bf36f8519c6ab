package main

import (
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func testSession(t *testing.T) (*session, *strings.Builder) {
	t.Helper()
	var b strings.Builder
	c := defaultConfig()
	c.History = ""
	return newSession(c, &b), &b
}

func TestExec(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
		out   string
	}{
		{"add", []string{"5 3 +"}, "5 + 3\n= 8\n"},
		{"ascii", []string{"5 3 - 2 *"}, "(5 − 3) × 2\n= 4\n"},
		{"negative", []string{"-4 2 -", "3 1-×"}, "-4 − 2\n= -6\n(-4 − 2) × (3 − 1)\n= -12\n"},
		{"separate-lines", []string{"5", "3 +"}, "5\n= 5\n5 + 3\n= 8\n"},
		{"no-spaces", []string{"6 2÷1+"}, "6 ÷ 2 + 1\n= 4\n"},
		{"div-zero", []string{"1 0 ÷"}, "1 ÷ 0\nerror: ÷: division by zero\n"},
		{"undef", []string{"x 1 +"}, "x + 1\nerror: undefined variable: \"x\"\n"},
		{"store", []string{"x 1 +", "4 >x"}, "x + 1\nerror: undefined variable: \"x\"\nx + 1, 4\n= 4\n"},
		{"store-none", []string{"√ >y", ":vars"}, "√?\nerror: not enough operands for √\n"},
		{"undo", []string{"5 3 + undo"}, "5, 3\n= 3\n"},
		{"clear", []string{"5 3 + clear"}, ""},
		{"vars", []string{"2 >a 3 >b", ":vars"}, "2, 3\n= 3\na = 2\nb = 3\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, b := testSession(t)
			for _, line := range c.lines {
				quit, err := s.exec(line)
				if err != nil {
					t.Errorf("%q: %v", line, err)
				}
				if quit {
					t.Errorf("%q quit", line)
				}
			}
			if got := b.String(); got != c.out {
				t.Errorf("wrong output:\n\twant %q\n\tgot  %q", c.out, got)
			}
		})
	}
}

func TestExecErrors(t *testing.T) {
	cases := []struct {
		name string
		line string
		len  int
	}{
		{"lex", "1 2 $ +", 2},
		{"bad-number", "1 2e", 1},
		{"no-command", ":", 0},
		{"unknown-command", ":frob", 0},
		{"save-usage", ":save", 0},
		{"unknown-op", "2 3 ^ 4", 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, _ := testSession(t)
			_, err := s.exec(c.line)
			if err == nil {
				t.Errorf("%q gave no error", c.line)
			}
			if s.e.Len() != c.len {
				t.Errorf("%q left %d entries, want %d", c.line, s.e.Len(), c.len)
			}
		})
	}
	s, _ := testSession(t)
	_, err := s.exec("1 $")
	var lerr *LexError
	if !errors.As(err, &lerr) {
		t.Fatalf("%#v is not *LexError", err)
	}
	if lerr.Col != 3 || lerr.Text != "$" {
		t.Errorf("error at column %d on %q, want 3 on \"$\"", lerr.Col, lerr.Text)
	}
}

func TestQuit(t *testing.T) {
	s, _ := testSession(t)
	for _, line := range []string{":q", ":quit", "  :quit  "} {
		quit, err := s.exec(line)
		if err != nil || !quit {
			t.Errorf("%q gave %v, %v", line, quit, err)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	name := filepath.Join(t.TempDir(), "session.toml")
	s, _ := testSession(t)
	for _, line := range []string{"2 >r", "r r × π ×", "1 3 ÷"} {
		if _, err := s.exec(line); err != nil {
			t.Fatalf("%q: %v", line, err)
		}
	}
	if _, err := s.exec(":save " + name); err != nil {
		t.Fatal(err)
	}
	want := s.e.Program()

	u, b := testSession(t)
	if _, err := u.exec(":load " + name); err != nil {
		t.Fatal(err)
	}
	if got := u.e.Program(); !reflect.DeepEqual(got, want) {
		t.Errorf("wrong program:\n\twant %q\n\tgot  %q", want, got)
	}
	if r := u.e.Lookup("r"); r == nil || r.Cmp(big.NewFloat(2)) != 0 {
		t.Errorf("wrong r: %v", r)
	}
	if got, want := u.e.String(), s.e.String(); got != want {
		t.Errorf("wrong description: want %q, got %q", want, got)
	}
	if !strings.HasPrefix(b.String(), "2, r × r × π, 1 ÷ 3\n") {
		t.Errorf("load printed %q", b.String())
	}
	if ra, rb := s.e.Eval(), u.e.Eval(); ra.Cmp(rb) != 0 {
		t.Errorf("results differ: want %v, got %v", ra, rb)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("program = [\"1\"]\n[vars]\nx = \"one\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := testSession(t)
	s.exec("7")
	for _, name := range []string{filepath.Join(dir, "missing.toml"), bad} {
		if err := s.load(name); err == nil {
			t.Errorf("loading %s gave no error", name)
		}
		if s.e.Len() != 1 {
			t.Errorf("failed load of %s changed the trace", name)
		}
	}
}

func TestComplete(t *testing.T) {
	s, _ := testSession(t)
	s.exec("1 >total")
	cases := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"s", []string{"sin", "sqrt"}},
		{"1 2 c", []string{"1 2 clear", "1 2 cos"}},
		{"to", []string{"total"}},
		{"un", []string{"undo"}},
	}
	for _, c := range cases {
		if got := s.complete(c.line); !reflect.DeepEqual(got, c.want) {
			t.Errorf("completing %q: want %q, got %q", c.line, c.want, got)
		}
	}
}
