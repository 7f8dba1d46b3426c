/*
Package pegen is a parsing expression grammar (PEG) generator producing Go source code.

Consists of subpackages:
  - cmd/pegen: console utility converting grammar document to Go source file containing parser functions;
  - grammar: defines grammar tree (rules and expressions) consumed by compiler;
  - langdef: converts grammar document (YAML or JSON) to grammar tree;
  - source: grammar document source with line and column mapping used in error messages;
  - compiler: converts grammar tree to Go source file;
  - codegen: Go code builder used by compiler;
  - support: runtime functions copied to every generated file.

Typical usage is:

1. Describe grammar as a YAML document. Actions and return types are written in Go.

2. Convert grammar document to Go source using either pegen utility
or langdef and compiler subpackages.

3. Call generated functions: parse_<rule>(input, pos) for any rule,
or <Rule>(input) for exported rules. Exported functions require the whole input to match
and return errors containing line number.

Generated parsers perform plain backtracking, there is no memoization,
left-recursive rules recurse infinitely.
*/
package pegen

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	LangDefErrors = 1   // used by langdef
	CodegenErrors = 101 // used by codegen
	CompileErrors = 201 // used by compiler
)

// Error is the error type used by pegen subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if line != 0 && col != 0 {
		if name == "" {
			msg += fmt.Sprintf(" at line %d col %d", line, col)
		} else {
			msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
		}
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
