package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/zephyrtronium/rpn"
)

// aliases maps ASCII spellings to operator symbols.
var aliases = map[string]string{
	"*":    rpn.Mul,
	"/":    rpn.Div,
	"-":    rpn.Sub,
	"sqrt": rpn.Sqrt,
	"neg":  rpn.Neg,
	"pi":   rpn.Pi,
}

// words are commands that can appear among tokens.
var words = []string{"undo", "clear"}

const helpText = `Enter numbers, operators, and variables in reverse Polish order.
  5 3 + 2 ×       (5 + 3) × 2
  -4              a negative number; 5 4 - or 5 4- subtracts
  x               push the variable x
  >x              store the current result in x
  undo            remove the last entry
  clear           start over
Operators: × ÷ + − √ sin cos ± π, or * / + - sqrt sin cos neg pi.
Commands:
  :save FILE      save the program and variables
  :load FILE      load a saved session
  :vars           list variables
  :quit           exit`

// session is an interactive calculator session.
type session struct {
	e    *rpn.Engine
	conf config
	out  io.Writer
}

func newSession(conf config, out io.Writer) *session {
	return &session{e: conf.engine(), conf: conf, out: out}
}

// exec runs one line of input and prints the resulting state. It returns true
// if the session should end.
func (s *session) exec(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, ":") {
		return s.command(strings.Fields(line[1:]))
	}
	err := s.tokens(line)
	s.show()
	return false, err
}

func (s *session) command(f []string) (bool, error) {
	if len(f) == 0 {
		return false, errors.New("missing command")
	}
	switch f[0] {
	case "q", "quit":
		return true, nil
	case "h", "help":
		fmt.Fprintln(s.out, helpText)
	case "vars":
		for _, k := range s.e.Vars() {
			fmt.Fprintf(s.out, "%s = "+s.conf.Format+"\n", k, s.e.Lookup(k))
		}
	case "save":
		if len(f) != 2 {
			return false, errors.New("usage: :save FILE")
		}
		return false, s.save(f[1])
	case "load":
		if len(f) != 2 {
			return false, errors.New("usage: :load FILE")
		}
		if err := s.load(f[1]); err != nil {
			return false, err
		}
		s.show()
	default:
		return false, fmt.Errorf("unknown command %q", f[0])
	}
	return false, nil
}

// tokens runs the tokens of a line in order, stopping at the first invalid
// one.
func (s *session) tokens(line string) error {
	l := lex(strings.NewReader(line))
	for {
		tok, err := l.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch tok.kind {
		case tokenNum:
			x, _, err := big.ParseFloat(tok.text, 10, s.e.Prec(), big.ToNearestEven)
			if err != nil {
				return fmt.Errorf("column %d: %w", tok.pos, err)
			}
			s.e.Push(x)
		case tokenOp:
			// Operator runes can't name variables.
			if !s.e.Known(canon(tok.text)) {
				return fmt.Errorf("column %d: unknown operator %q", tok.pos, tok.text)
			}
			s.word(tok.text)
		case tokenIdent:
			s.word(tok.text)
		case tokenStore:
			// Only store a value if there is one.
			if r := s.e.Eval(); r != nil {
				s.e.Set(tok.text, r)
				s.e.Eval()
			}
		default:
			panic("rpn: unexpected token " + tok.String())
		}
	}
}

// canon returns the operator symbol for an alias, or w itself.
func canon(w string) string {
	if a, ok := aliases[w]; ok {
		return a
	}
	return w
}

func (s *session) word(w string) {
	w = canon(w)
	switch {
	case w == "undo":
		s.e.Pop()
	case w == "clear":
		s.e = s.conf.engine()
	case s.e.Known(w):
		s.e.Apply(w)
	default:
		s.e.PushVar(w)
	}
}

// show prints the description of the trace and its result.
func (s *session) show() {
	if s.e.Len() == 0 {
		return
	}
	fmt.Fprintln(s.out, s.e)
	r, err := s.e.EvalErr()
	if err != nil {
		fmt.Fprintln(s.out, "error:", err)
		return
	}
	fmt.Fprintf(s.out, "= "+s.conf.Format+"\n", r)
}

// complete completes the last word of a line for the line editor.
func (s *session) complete(line string) []string {
	i := strings.LastIndexAny(line, " \t") + 1
	head, last := line[:i], line[i:]
	var cands []string
	cands = append(cands, s.e.Symbols()...)
	cands = append(cands, words...)
	cands = append(cands, s.e.Vars()...)
	for k := range aliases {
		cands = append(cands, k)
	}
	sort.Strings(cands)
	var r []string
	for _, c := range cands {
		if last != "" && strings.HasPrefix(c, last) {
			r = append(r, head+c)
		}
	}
	return r
}

// savedSession is the contents of a session file.
type savedSession struct {
	Program []string          `toml:"program"`
	Vars    map[string]string `toml:"vars"`
}

func (s *session) save(name string) error {
	v := savedSession{Program: s.e.Program(), Vars: make(map[string]string)}
	for _, k := range s.e.Vars() {
		v.Vars[k] = s.e.Lookup(k).Text('g', -1)
	}
	var b bytes.Buffer
	if err := toml.NewEncoder(&b).Encode(v); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	if err := os.WriteFile(name, b.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// load replaces the session's engine with a saved one. Variables from the
// configuration are kept unless the file sets them.
func (s *session) load(name string) error {
	var v savedSession
	if _, err := toml.DecodeFile(name, &v); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	e := s.conf.engine()
	for k, t := range v.Vars {
		x, _, err := big.ParseFloat(t, 10, e.Prec(), big.ToNearestEven)
		if err != nil {
			return fmt.Errorf("load %s: variable %s: %w", name, k, err)
		}
		e.Set(k, x)
	}
	if skipped := e.SetProgram(v.Program); len(skipped) != 0 {
		log.Printf("load %s: skipped tokens %q", name, skipped)
	}
	s.e = e
	return nil
}
