// Package diag defines the error types raised by the pipeline stages.
// Each stage reports the first error it hits and stops.
package diag

import "fmt"

type (
	// LexError is an unrecognized byte in the source text.
	LexError struct {
		Msg  string
		Line int
		Col  int
	}

	// ParseError is an unexpected or missing token.
	ParseError struct {
		Msg  string
		Line int
		Col  int
	}

	// SemaError is a name or type rule violation.
	SemaError struct {
		Msg  string
		Line int
		Col  int
	}

	// RuntimeError is a fault during execution. Line and Col are zero
	// when the fault has no single source position.
	RuntimeError struct {
		Msg  string
		Line int
		Col  int
	}
)

func (e LexError) Error() string     { return render("lex error", e.Msg, e.Line, e.Col) }
func (e ParseError) Error() string   { return render("parse error", e.Msg, e.Line, e.Col) }
func (e SemaError) Error() string    { return render("sema error", e.Msg, e.Line, e.Col) }
func (e RuntimeError) Error() string { return render("runtime error", e.Msg, e.Line, e.Col) }

func (e LexError) Pos() (line, col int)     { return e.Line, e.Col }
func (e ParseError) Pos() (line, col int)   { return e.Line, e.Col }
func (e SemaError) Pos() (line, col int)    { return e.Line, e.Col }
func (e RuntimeError) Pos() (line, col int) { return e.Line, e.Col }

func render(stage, msg string, line, col int) string {
	if line == 0 {
		return fmt.Sprintf("%s: %s", stage, msg)
	}

	return fmt.Sprintf("%s: %s at %d:%d", stage, msg, line, col)
}
