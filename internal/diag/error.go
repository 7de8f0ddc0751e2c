package diag

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal front-end error.
type Kind string

const (
	SyntaxError       Kind = "SyntaxError"
	NameError         Kind = "NameError"
	TypeError         Kind = "TypeError"
	LogicalError      Kind = "LogicalError"
	ValueNotUsedError Kind = "ValueNotUsedError"
)

func (k Kind) code() Code {
	switch k {
	case SyntaxError:
		return CodeSyntax
	case NameError:
		return CodeName
	case TypeError:
		return CodeType
	case LogicalError:
		return CodeLogical
	case ValueNotUsedError:
		return CodeValueNotUsed
	default:
		return Code(k)
	}
}

// Related is a secondary location attached to an Error.
type Related struct {
	Span  Span
	Label string
}

// Error is the single error a parse returns. The first one raised aborts the
// parse; there is never more than one.
type Error struct {
	Kind    Kind
	Message string
	Span    Span
	Related []Related
}

// Errorf builds an Error at span.
func Errorf(kind Kind, span Span, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Span.Filename != "" {
		return fmt.Sprintf("%s:%d: %s: %s", e.Span.Filename, e.Span.Line, e.Kind, e.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Span.Line, e.Kind, e.Message)
}

// Line returns the offending source line.
func (e *Error) Line() int { return e.Span.Line }

// WithRelated returns e with an extra secondary location.
func (e *Error) WithRelated(span Span, label string) *Error {
	e.Related = append(e.Related, Related{Span: span, Label: label})
	return e
}

// ToDiagnostic converts e for rendering by a Formatter.
func (e *Error) ToDiagnostic() Diagnostic {
	d := Diagnostic{
		Stage:    StageParser,
		Severity: SeverityError,
		Code:     e.Kind.code(),
		Message:  e.Message,
		Span:     e.Span,
	}
	if e.Span.IsValid() {
		d = d.WithPrimarySpan(e.Span, "")
	}
	for _, r := range e.Related {
		if r.Span.IsValid() {
			d = d.WithSecondarySpan(r.Span, r.Label)
		}
	}
	return d
}

// KindOf returns the Kind of err when it wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
