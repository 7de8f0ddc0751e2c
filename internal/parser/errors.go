package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/malphas-lang/gofront/internal/diag"
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/symtab"
)

func (p *Parser) diagSpan(span lexer.Span) diag.Span {
	if span.Filename == "" {
		span.Filename = p.filename
	}
	return diag.Span(span)
}

func (p *Parser) errorf(kind diag.Kind, span lexer.Span, format string, args ...any) *diag.Error {
	return diag.Errorf(kind, p.diagSpan(span), format, args...)
}

func (p *Parser) syntaxErrorf(span lexer.Span, format string, args ...any) *diag.Error {
	return p.errorf(diag.SyntaxError, span, format, args...)
}

func (p *Parser) nameErrorf(span lexer.Span, format string, args ...any) *diag.Error {
	return p.errorf(diag.NameError, span, format, args...)
}

func (p *Parser) typeErrorf(span lexer.Span, format string, args ...any) *diag.Error {
	return p.errorf(diag.TypeError, span, format, args...)
}

func (p *Parser) logicalErrorf(span lexer.Span, format string, args ...any) *diag.Error {
	return p.errorf(diag.LogicalError, span, format, args...)
}

// typeError wraps an error from the type system.
func (p *Parser) typeError(span lexer.Span, err error) *diag.Error {
	return p.errorf(diag.TypeError, span, "%s", err.Error())
}

// symbolError maps a symbol table failure onto the error taxonomy.
func (p *Parser) symbolError(span lexer.Span, err error) *diag.Error {
	switch {
	case errors.Is(err, symtab.ErrRedeclared), errors.Is(err, symtab.ErrNotFound), errors.Is(err, symtab.ErrTypeNotFound):
		return p.errorf(diag.NameError, span, "%s", err.Error())
	}
	return p.errorf(diag.TypeError, span, "%s", err.Error())
}

// unexpected reports a token that does not fit the grammar. Illegal tokens
// carry the lexer's own message.
func (p *Parser) unexpected(tok lexer.Token, want, context string) *diag.Error {
	if tok.Type == lexer.ILLEGAL {
		if msg := p.lexerMessage(tok); msg != "" {
			return p.syntaxErrorf(tok.Span, "%s", msg)
		}
		return p.syntaxErrorf(tok.Span, "illegal token %q", tok.Literal)
	}
	msg := "unexpected " + describeToken(tok)
	if context != "" {
		msg += " " + context
	}
	if want != "" {
		msg += ", expected " + want
	}
	return p.syntaxErrorf(tok.Span, "%s", msg)
}

func (p *Parser) lexerMessage(tok lexer.Token) string {
	if p.lx == nil {
		return ""
	}
	for _, e := range p.lx.Errors {
		if e.Span.Start == tok.Span.Start {
			return e.Message
		}
	}
	return ""
}

func describeToken(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "EOF"
	case lexer.SEMICOLON:
		if tok.Literal == "\n" {
			return "newline"
		}
		return "semicolon"
	case lexer.IDENT:
		return "name " + tok.Literal
	case lexer.INT, lexer.FLOAT, lexer.IMAG, lexer.RUNE, lexer.STRING:
		return "literal " + tok.Literal
	}
	return describeType(tok.Type)
}

func describeType(tt lexer.TokenType) string {
	s := string(tt)
	if lexer.LookupIdent(strings.ToLower(s)) == tt {
		return "keyword " + strings.ToLower(s)
	}
	switch tt {
	case lexer.IDENT:
		return "name"
	case lexer.STRING:
		return "string literal"
	}
	return fmt.Sprintf("%q", s)
}
