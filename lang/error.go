package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Class groups errors by the pipeline stage that raised them.
// A Class is itself an error so that callers can test membership with
// errors.Is(err, lang.ClassParse).
type Class int

const (
	ClassInternal Class = iota
	ClassLexical
	ClassParse
	ClassEvaluation
	ClassIO
)

func (c Class) Error() string {
	switch c {
	case ClassLexical:
		return "lexical error"
	case ClassParse:
		return "parse error"
	case ClassEvaluation:
		return "evaluation error"
	case ClassIO:
		return "I/O error"
	default:
		return "internal error"
	}
}

// Predefined errors (sentinel values).
var (
	ErrUnterminatedLiteral = newError(ClassLexical, "unterminated literal")
	ErrUnterminatedString  = newError(ClassLexical, "unterminated string")

	ErrEndOfFile          = newError(ClassParse, "unexpected end of input")
	ErrMissingCondition   = newError(ClassParse, "missing condition")
	ErrExpectedExpression = newError(ClassParse, "expected expression")
	ErrMissingEnd         = newError(ClassParse, "missing %END")
	ErrMissingColon       = newError(ClassParse, `missing terminating ":"`)
	ErrMissingCase        = newError(ClassParse, "%SWITCH must have at least one %CASE or a %DEFAULT")
	ErrEmptyDefault       = newError(ClassParse, "%DEFAULT has an empty body")
	ErrDuplicateDefault   = newError(ClassParse, "duplicate %DEFAULT")
	ErrStrayToken         = newError(ClassParse, "stray token")
	ErrUnexpectedToken    = newError(ClassParse, "unexpected token")
	ErrMaxDepthExceeded   = newError(ClassParse, "maximum nesting depth exceeded")

	ErrMissingOperand    = newError(ClassEvaluation, "missing operand")
	ErrUnknownOperator   = newError(ClassEvaluation, "unknown operator")
	ErrInvalidArity      = newError(ClassEvaluation, "invalid operator arity")
	ErrBadBooleanLiteral = newError(ClassEvaluation, "literal does not decay to a boolean")
	ErrEmptyLiteral      = newError(ClassEvaluation, "empty literal")
	ErrOperatorFailed    = newError(ClassEvaluation, "operator failed")

	ErrUnexpectedNode = newError(ClassInternal, "unexpected node")

	ErrReadInput   = newError(ClassIO, "failed to read input")
	ErrWriteOutput = newError(ClassIO, "failed to write output")
)

// Error is a located, structured preprocessing error.
// It implements both error and slog.LogValuer.
type Error struct {
	base   *Error
	err    error
	msg    string
	detail string
	file   string
	attrs  []slog.Attr
	loc    Location
	class  Class
}

func newError(class Class, msg string) *Error {
	return &Error{class: class, msg: msg}
}

// WrapError converts err into an *Error. An *Error anywhere in the chain
// is returned as is.
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{class: ClassInternal, err: err}
}

// derive returns a copy of e that still matches e's sentinel.
func (e *Error) derive() *Error {
	c := *e
	if c.base == nil {
		c.base = e
	}

	c.attrs = slices.Clip(e.attrs)

	return &c
}

// Error renders "[file:]line:col: message[: detail][: cause]".
func (e *Error) Error() string {
	var sb strings.Builder

	if e.file != "" {
		sb.WriteString(e.file)
		sb.WriteByte(':')
	}

	if e.loc.IsValid() {
		sb.WriteString(e.loc.String())
		sb.WriteString(": ")
	} else if e.file != "" {
		sb.WriteByte(' ')
	}

	part := make([]string, 0, 3)

	for _, s := range []string{e.msg, e.detail} {
		if s != "" {
			part = append(part, s)
		}
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	sb.WriteString(strings.Join(part, ": "))

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is matches the sentinel e was derived from, or its [Class].
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Class:
		return e.class == t
	case *Error:
		return t == e || (e.base != nil && t == e.base)
	}

	return false
}

// Class returns the pipeline stage that raised e.
func (e *Error) Class() Class { return e.class }

// Location returns where e occurred, if known.
func (e *Error) Location() (Location, bool) { return e.loc, e.loc.IsValid() }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)
	attrs = append(attrs, slog.String("error", e.msg))

	if e.detail != "" {
		attrs = append(attrs, slog.String("detail", e.detail))
	}

	if e.file != "" {
		attrs = append(attrs, slog.String("file", e.file))
	}

	if e.loc.IsValid() {
		attrs = append(attrs, slog.String("location", e.loc.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap records err as the cause.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// With adds attributes for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = append(c.attrs, attrs...)

	return c
}

// At records the location of the error.
func (e *Error) At(loc Location) *Error {
	c := e.derive()
	c.loc = loc

	return c
}

// Describe sets a human-readable detail rendered after the message.
func (e *Error) Describe(format string, args ...any) *Error {
	c := e.derive()
	c.detail = fmt.Sprintf(format, args...)

	return c
}

// inFile prefixes the location with a file name, unless one is set.
func (e *Error) inFile(name string) *Error {
	if name == "" || e.file != "" {
		return e
	}

	c := e.derive()
	c.file = name

	return c
}

// located attaches the file name to any *Error in err's chain.
func located(err error, file string) error {
	var e *Error
	if file == "" || !errors.As(err, &e) {
		return err
	}

	return e.inFile(file)
}
