package lexer

import (
	"testing"

	"github.com/nalgeon/be"
)

type want struct {
	typ     TokenType
	literal string
}

func expectTokens(t *testing.T, input string, tests []want) {
	t.Helper()
	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.typ || tok.Literal != tt.literal {
			t.Fatalf("tests[%d] - expected %s %q, got %s %q", i, tt.typ, tt.literal, tok.Type, tok.Literal)
		}
	}
	be.Equal(t, len(l.Errors), 0)
}

func TestNextToken_Basic(t *testing.T) {
	expectTokens(t, `x := 10`, []want{
		{IDENT, "x"},
		{DEFINE, ":="},
		{INT, "10"},
		{SEMICOLON, "\n"},
		{EOF, ""},
	})
}

func TestNextToken_Operators(t *testing.T) {
	input := `+ - * / % & | ^ << >> &^ += -= *= /= %= &= |= ^= <<= >>= &^= && || <- == < > = ! != <= >= := ... . , ; : ( [ {`
	expectTokens(t, input, []want{
		{ADD, "+"}, {SUB, "-"}, {MUL, "*"}, {QUO, "/"}, {REM, "%"},
		{AND, "&"}, {OR, "|"}, {XOR, "^"}, {SHL, "<<"}, {SHR, ">>"}, {AND_NOT, "&^"},
		{ADD_ASSIGN, "+="}, {SUB_ASSIGN, "-="}, {MUL_ASSIGN, "*="}, {QUO_ASSIGN, "/="},
		{REM_ASSIGN, "%="}, {AND_ASSIGN, "&="}, {OR_ASSIGN, "|="}, {XOR_ASSIGN, "^="},
		{SHL_ASSIGN, "<<="}, {SHR_ASSIGN, ">>="}, {AND_NOT_ASSIGN, "&^="},
		{LAND, "&&"}, {LOR, "||"}, {ARROW, "<-"}, {EQL, "=="}, {LSS, "<"}, {GTR, ">"},
		{ASSIGN, "="}, {NOT, "!"}, {NEQ, "!="}, {LEQ, "<="}, {GEQ, ">="}, {DEFINE, ":="},
		{ELLIPSIS, "..."}, {PERIOD, "."}, {COMMA, ","}, {SEMICOLON, ";"}, {COLON, ":"},
		{LPAREN, "("}, {LBRACK, "["}, {LBRACE, "{"},
		{EOF, ""},
	})
}

func TestNextToken_Keywords(t *testing.T) {
	for word, typ := range keywords {
		t.Run(word, func(t *testing.T) {
			tok := New(word).NextToken()
			be.Equal(t, tok.Type, typ)
			be.Equal(t, tok.Literal, word)
		})
	}
	be.Equal(t, LookupIdent("goto_"), IDENT)
}

func TestNextToken_Identifiers(t *testing.T) {
	expectTokens(t, "_ x1 café π", []want{
		{IDENT, "_"},
		{IDENT, "x1"},
		{IDENT, "café"},
		{IDENT, "π"},
		{SEMICOLON, "\n"},
		{EOF, ""},
	})
}

func TestNextToken_Literals(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
		value string
	}{
		{"42", INT, "42"},
		{"0x1F", INT, "0x1F"},
		{"0b101", INT, "0b101"},
		{"0o17", INT, "0o17"},
		{"1_000", INT, "1_000"},
		{"3.14", FLOAT, "3.14"},
		{".5", FLOAT, ".5"},
		{"1e9", FLOAT, "1e9"},
		{"2.5e-3", FLOAT, "2.5e-3"},
		{"2i", IMAG, "2i"},
		{"'a'", RUNE, "a"},
		{`'\n'`, RUNE, "\n"},
		{`"hi\tthere"`, STRING, "hi\tthere"},
		{`""`, STRING, ""},
		{"`raw\\n`", STRING, `raw\n`},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			l := New(tc.input)
			tok := l.NextToken()
			be.Equal(t, tok.Type, tc.typ)
			be.Equal(t, tok.Literal, tc.input)
			be.Equal(t, tok.Value, tc.value)
			be.Equal(t, len(l.Errors), 0)
		})
	}
}

func TestSemicolonInsertion(t *testing.T) {
	input := "x++\nreturn\nbreak\n}\nfoo(\n1,\n)\nL:\n"
	expectTokens(t, input, []want{
		{IDENT, "x"}, {INC, "++"}, {SEMICOLON, "\n"},
		{RETURN, "return"}, {SEMICOLON, "\n"},
		{BREAK, "break"}, {SEMICOLON, "\n"},
		{RBRACE, "}"}, {SEMICOLON, "\n"},
		{IDENT, "foo"}, {LPAREN, "("},
		{INT, "1"}, {COMMA, ","},
		{RPAREN, ")"}, {SEMICOLON, "\n"},
		{IDENT, "L"}, {COLON, ":"},
		{EOF, ""},
	})
}

func TestNextToken_Comments(t *testing.T) {
	input := "x // trailing\ny /* spans\nlines */ z /* inline */ w\n// last"
	expectTokens(t, input, []want{
		{IDENT, "x"}, {SEMICOLON, "\n"},
		{IDENT, "y"}, {SEMICOLON, "\n"},
		{IDENT, "z"}, {IDENT, "w"}, {SEMICOLON, "\n"},
		{EOF, ""},
	})
}

func TestNextToken_DivisionVsComment(t *testing.T) {
	expectTokens(t, "a / b /= c", []want{
		{IDENT, "a"}, {QUO, "/"}, {IDENT, "b"}, {QUO_ASSIGN, "/="}, {IDENT, "c"},
		{SEMICOLON, "\n"}, {EOF, ""},
	})
}

func TestTokenSpans(t *testing.T) {
	l := New("package main\nvar x")
	l.SetFilename("a.go")

	pkg := l.NextToken()
	be.Equal(t, pkg.Span, Span{Filename: "a.go", Line: 1, Column: 1, Start: 0, End: 7})

	name := l.NextToken()
	be.Equal(t, name.Span.Column, 9)

	semi := l.NextToken()
	be.Equal(t, semi.Type, SEMICOLON)
	be.Equal(t, semi.Line(), 1)
	be.Equal(t, semi.Span.Column, 13)

	kw := l.NextToken()
	be.Equal(t, kw.Type, VAR)
	be.Equal(t, kw.Span, Span{Filename: "a.go", Line: 2, Column: 1, Start: 13, End: 16})
}

func TestManyComments(t *testing.T) {
	var input string
	for range 4096 {
		input += "// comment\n"
	}
	input += "x = 42"

	toks := Tokenize(New(input))
	be.Equal(t, len(toks), 5)
	be.Equal(t, toks[0].Line(), 4097)
}

func TestSliceSource(t *testing.T) {
	src := NewSliceSource([]Token{
		{Type: IDENT, Literal: "x", Span: Span{Line: 3, Column: 2}},
	})
	toks := Tokenize(src)
	be.Equal(t, len(toks), 2)
	be.Equal(t, toks[1].Type, EOF)
	be.Equal(t, toks[1].Line(), 3)
	// exhausted sources keep answering EOF
	be.Equal(t, src.NextToken().Type, EOF)
}

func TestAssignOps(t *testing.T) {
	be.True(t, ASSIGN.IsAssignOp())
	be.True(t, SHL_ASSIGN.IsAssignOp())
	be.True(t, !DEFINE.IsAssignOp())
	be.Equal(t, AND_NOT_ASSIGN.BinaryOp(), AND_NOT)
	be.Equal(t, ADD_ASSIGN.BinaryOp(), ADD)
	be.Equal(t, ASSIGN.BinaryOp(), TokenType(""))
}
