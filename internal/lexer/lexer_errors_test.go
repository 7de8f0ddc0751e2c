package lexer

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/malphas-lang/gofront/internal/diag"
)

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		tokType TokenType
		literal string
		kind    LexerErrorKind
		message string
	}{
		{"unterminated string", `"hello`, ILLEGAL, `"hello`, ErrUnterminatedString, "unterminated string literal"},
		{"newline in string", "\"ab\nc\"", ILLEGAL, `"ab`, ErrUnterminatedString, "unterminated string literal"},
		{"unterminated raw string", "`abc", ILLEGAL, "`abc", ErrUnterminatedString, "unterminated raw string literal"},
		{"bad escape", `"\q"`, ILLEGAL, `"\q"`, ErrMalformedLiteral, `invalid escape in string literal "\q"`},
		{"unterminated rune", "'a", ILLEGAL, "'a", ErrUnterminatedRune, "rune literal not terminated"},
		{"long rune", "'ab'", ILLEGAL, "'ab'", ErrMalformedLiteral, "invalid rune literal 'ab'"},
		{"empty exponent", "1e+", ILLEGAL, "1e+", ErrMalformedLiteral, "exponent has no digits"},
		{"illegal rune", "@", ILLEGAL, "@", ErrIllegalRune, `illegal character "@"`},
		{"unterminated block comment", "/* abc", EOF, "", ErrUnterminatedBlockComment, "unterminated block comment"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := New(tc.input)
			tok := l.NextToken()
			be.Equal(t, tok.Type, tc.tokType)
			be.Equal(t, tok.Literal, tc.literal)

			be.Equal(t, len(l.Errors), 1)
			err := l.Errors[0]
			be.Equal(t, err.Kind, tc.kind)
			be.Equal(t, err.Message, tc.message)
			be.Equal(t, err.Span.Line, 1)
			be.Equal(t, err.Span.Column, 1)
			be.Equal(t, err.Span.Start, 0)
		})
	}
}

func TestLexerError_ToDiagnostic(t *testing.T) {
	err := LexerError{
		Kind:    ErrIllegalRune,
		Message: `illegal character "@"`,
		Span:    Span{Filename: "x.go", Line: 2, Column: 5, Start: 4, End: 5},
	}

	d := err.ToDiagnostic()
	be.Equal(t, d.Stage, diag.StageLexer)
	be.Equal(t, d.Severity, diag.SeverityError)
	be.Equal(t, d.Code, diag.CodeLexerIllegalRune)
	be.Equal(t, d.Message, err.Message)
	be.Equal(t, d.Span, diag.Span{Filename: "x.go", Line: 2, Column: 5, Start: 4, End: 5})
}
