package quark

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies front end failures so callers can decide whether to
// resynchronize or abort.
type ErrorKind int

const (
	LexicalError ErrorKind = iota + 1
	SyntaxError
	SemanticError
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "lexical"
	case SyntaxError:
		return "syntax"
	case SemanticError:
		return "semantic"
	default:
		return "unknown"
	}
}

// Error is a positioned front end failure.
type Error struct {
	Kind   ErrorKind
	Pos    Position
	Msg    string
	source string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s error at %d:%d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Msg)
	if frame := e.Frame(); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

// Frame renders the source line under the error with a caret, or "" when
// the source is unknown.
func (e *Error) Frame() string {
	return formatCodeFrame(e.source, e.Pos)
}

// WithSource returns a copy of e that renders a code frame from source.
func (e *Error) WithSource(source string) *Error {
	clone := *e
	clone.source = source
	return &clone
}

func newError(kind ErrorKind, pos Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func errorKind(err error) ErrorKind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return 0
}

func IsLexical(err error) bool  { return errorKind(err) == LexicalError }
func IsSyntax(err error) bool   { return errorKind(err) == SyntaxError }
func IsSemantic(err error) bool { return errorKind(err) == SemanticError }

// ErrorList collects the errors reported by one compilation.
type ErrorList []error

func (l ErrorList) Error() string {
	parts := make([]string, len(l))
	for i, err := range l {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n")
}

func (l ErrorList) Unwrap() []error {
	return l
}
