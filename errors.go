package rpn

import "strconv"

// DomainError is an error returned when an operator is applied to operands
// outside its domain, e.g. division by zero or the square root of a negative
// number.
type DomainError struct {
	// Op is the symbol of the operator.
	Op string
	// Msg describes the problem.
	Msg string
}

func (err *DomainError) Error() string {
	return err.Op + ": " + err.Msg
}

// NameError is an error from a lookup for a variable that has no value in the
// engine.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// OperandsError is an error indicating that the trace does not contain enough
// operands for its operators.
type OperandsError struct {
	// Op is the symbol of the outermost operator that could not be evaluated,
	// i.e. the last entry in the trace.
	Op string
}

func (err *OperandsError) Error() string {
	if err.Op == "" {
		return "not enough operands"
	}
	return "not enough operands for " + err.Op
}
