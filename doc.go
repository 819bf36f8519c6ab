// Package rpn implements the engine of an arbitrary-precision reverse Polish
// calculator.
//
// An Engine records everything entered into it as a trace: numbers, variable
// references, and operators, in the order they were entered. "5 3 −" is a
// trace of three entries which evaluates to 2. Every change to the trace
// evaluates it again, so the caller always has the current result, or the
// reason there isn't one.
//
// The trace can also be described in conventional infix notation, with
// parentheses only where precedence needs them, and exported to or imported
// from a flat list of tokens for storage.
//
package rpn
