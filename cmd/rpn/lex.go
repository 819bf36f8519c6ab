package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenNum is a decimal number.
	tokenNum
	// tokenIdent is a variable, operator, or command name.
	tokenIdent
	// tokenOp is a single-rune operator.
	tokenOp
	// tokenStore is a variable name following >, meaning store the result.
	tokenStore
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenNum:
		return "Num"
	case tokenIdent:
		return "Ident"
	case tokenOp:
		return "Op"
	case tokenStore:
		return "Store"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// operators contains the runes which are tokens on their own. Operator names
// made of letters, like sin, are identifiers.
const operators = "+-*/^×÷−√±π"

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// peek returns the next rune without consuming it, or -1 at the end of the
// input.
func (l *lexer) peek() rune {
	r, err := l.readRune()
	if err != nil {
		return -1
	}
	l.unreadRune()
	return r
}

// accept consumes the next rune into the token if it is one of valid.
func (l *lexer) accept(valid string) bool {
	r := l.peek()
	if r < 0 || !strings.ContainsRune(valid, r) {
		return false
	}
	l.readRune()
	l.buf.WriteRune(r)
	return true
}

// acceptRun consumes runes in valid and returns how many there were.
func (l *lexer) acceptRun(valid string) int {
	n := 0
	for l.accept(valid) {
		n++
	}
	return n
}

// next scans the next token from the input. At the end of the input, the
// result is an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	// A minus sign begins a negative number only at the start of a word, so
	// that 5 -3 is two numbers but 5 3-3 subtracts before pushing 3.
	spaced := l.rune == 1
	for {
		r, err := l.readRune()
		if err != nil {
			return lexToken{}, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.pos++
			spaced = true
			continue
		case r == '-' && spaced && (isDigit(l.peek()) || l.peek() == '.'):
			l.buf.WriteRune(r)
			return l.number(tok)
		case strings.ContainsRune(operators, r):
			// Check operators first: π is a letter.
			tok.text = string(r)
			tok.kind = tokenOp
			return tok, nil
		case isDigit(r), r == '.':
			l.unreadRune()
			return l.number(tok)
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenIdent
			return tok, nil
		case r == '>', r == '→':
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			if l.buf.Len() == 0 {
				l.buf.WriteRune(r)
				return tok, l.fail("store needs a variable name")
			}
			tok.text = l.buf.String()
			tok.kind = tokenStore
			return tok, nil
		default:
			l.buf.WriteRune(r)
			return tok, l.fail("unexpected character")
		}
	}
}

func (l *lexer) number(tok lexToken) (lexToken, error) {
	if err := l.scanNum(); err != nil {
		return tok, err
	}
	tok.text = l.buf.String()
	tok.kind = tokenNum
	return tok, nil
}

const digits = "0123456789"

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// scanNum scans digits with at most one point, then an optional exponent.
// The number must be followed by a space, an operator, a store, or the end of
// the line.
func (l *lexer) scanNum() error {
	n := l.acceptRun(digits)
	if l.accept(".") {
		n += l.acceptRun(digits)
	}
	if n == 0 {
		return l.fail("number has no digits")
	}
	if l.accept("eE") {
		l.accept("+-")
		if l.acceptRun(digits) == 0 {
			return l.fail("exponent has no digits")
		}
	}
	switch r := l.peek(); {
	case r < 0, unicode.IsSpace(r), strings.ContainsRune(operators+">→", r):
		return nil
	default:
		l.readRune()
		l.buf.WriteRune(r)
		return l.fail("malformed number")
	}
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch {
		case strings.ContainsRune(operators, r):
			l.unreadRune()
			return nil
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

// fail reports the token scanned so far as invalid.
func (l *lexer) fail(msg string) error {
	return &LexError{Col: l.rune - 1, Text: l.buf.String(), Msg: msg}
}

// LexError is an invalid token in a line of input.
type LexError struct {
	// Col is the column, counting runes from 1, of the rune that made the
	// token invalid.
	Col int
	// Text is the token up to and including that rune.
	Text string
	// Msg describes the problem.
	Msg string
}

func (err *LexError) Error() string {
	return fmt.Sprintf("column %d: %s: %q", err.Col, err.Msg, err.Text)
}
