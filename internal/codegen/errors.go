package codegen

import (
	"fmt"

	"github.com/iley/minic/internal/lexer"
)

type CapacityExceededError struct {
	Name string
	Max  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("cannot register variable %q: limit of %d variables reached", e.Name, e.Max)
}

type DuplicateVariableError struct {
	Name string
}

func (e *DuplicateVariableError) Error() string {
	return fmt.Sprintf("variable %q is already registered", e.Name)
}

// ReservedNameError rejects a variable whose name the assembler would read as a
// register, directive or instruction.
type ReservedNameError struct {
	Name string
}

func (e *ReservedNameError) Error() string {
	return fmt.Sprintf("variable name %q is reserved by the assembler", e.Name)
}

type UndefinedVariableError struct {
	Name string
	Loc  lexer.Location
}

func (e *UndefinedVariableError) Error() string {
	return withLocation(e.Loc, fmt.Sprintf("variable %q is not registered", e.Name))
}

type UnsupportedOperatorError struct {
	Operator string
	Loc      lexer.Location
}

func (e *UnsupportedOperatorError) Error() string {
	return withLocation(e.Loc, fmt.Sprintf("unsupported operator %q", e.Operator))
}

// OutputUnavailableError wraps a failure to open, write or close the output sink.
type OutputUnavailableError struct {
	Sink string
	Err  error
}

func (e *OutputUnavailableError) Error() string {
	return fmt.Sprintf("output %s unavailable: %v", e.Sink, e.Err)
}

func (e *OutputUnavailableError) Unwrap() error {
	return e.Err
}

// Hand-built trees carry no positions, so the zero location is omitted.
func withLocation(loc lexer.Location, msg string) string {
	if loc.Line == 0 {
		return msg
	}
	return fmt.Sprintf("%s: %s", loc, msg)
}
