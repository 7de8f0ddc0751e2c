package lexer

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/malphas-lang/gofront/internal/diag"
)

type LexerErrorKind int

const (
	ErrUnterminatedString LexerErrorKind = iota
	ErrUnterminatedBlockComment
	ErrUnterminatedRune
	ErrIllegalRune
	ErrMalformedLiteral
)

type LexerError struct {
	Kind    LexerErrorKind
	Message string
	Span    Span
}

func (k LexerErrorKind) diagnosticCode() diag.Code {
	switch k {
	case ErrUnterminatedString:
		return diag.CodeLexerUnterminatedString
	case ErrUnterminatedBlockComment:
		return diag.CodeLexerUnterminatedBlockComment
	case ErrUnterminatedRune:
		return diag.CodeLexerUnterminatedRune
	case ErrIllegalRune:
		return diag.CodeLexerIllegalRune
	case ErrMalformedLiteral:
		return diag.CodeLexerMalformedLiteral
	default:
		return diag.Code("LEXER_UNKNOWN_ERROR")
	}
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexerError) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageLexer,
		Severity: diag.SeverityError,
		Code:     e.Kind.diagnosticCode(),
		Message:  e.Message,
		Span: diag.Span{
			Filename: e.Span.Filename,
			Line:     e.Span.Line,
			Column:   e.Span.Column,
			Start:    e.Span.Start,
			End:      e.Span.End,
		},
	}
}

// Lexer turns source text into tokens. It inserts semicolons after the final
// token of a line following the same rule as Go: when the line ends with an
// identifier, a literal, one of the keywords break, continue, fallthrough or
// return, or one of ++ -- ) ] }.
type Lexer struct {
	input    []rune
	pos      int  // index of the current rune
	ch       rune // current rune (0 = EOF)
	line     int  // current line number (1-based)
	column   int  // current column number (1-based)
	filename string

	// insertSemi is set when a newline or EOF must produce a SEMICOLON.
	insertSemi bool

	Errors []LexerError
}

func (l *Lexer) addError(kind LexerErrorKind, msg string, span Span) {
	l.Errors = append(l.Errors, LexerError{
		Kind:    kind,
		Message: msg,
		Span:    span,
	})
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  []rune(input),
		pos:    -1, // start before first rune
		line:   1,
		column: 0, // will be 1 after first read()
	}
	l.read()
	return l
}

// SetFilename attributes all emitted spans to name.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// read advances the lexer to the next character. line/column always reflect
// the position of the character at pos.
func (l *Lexer) read() {
	l.pos++
	prevPos := l.pos - 1
	inputLen := len(l.input)

	if l.pos >= inputLen {
		if prevPos >= 0 && prevPos < inputLen {
			if l.input[prevPos] == '\n' {
				l.line++
				l.column = 1
			} else {
				l.column++
			}
		} else if prevPos < 0 {
			l.column = 1
		}
		l.pos = inputLen
		l.ch = 0
		return
	}

	l.ch = l.input[l.pos]

	if prevPos >= 0 && l.input[prevPos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peek returns the next character without advancing
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) spanStart() Span {
	return Span{Filename: l.filename, Line: l.line, Column: l.column, Start: l.pos}
}

func (l *Lexer) makeToken(tokType TokenType, start Span, literal, value string) Token {
	start.End = l.pos
	switch tokType {
	case IDENT, INT, FLOAT, IMAG, RUNE, STRING, BREAK, CONTINUE, FALLTHROUGH, RETURN, INC, DEC, RPAREN, RBRACK, RBRACE:
		l.insertSemi = true
	default:
		l.insertSemi = false
	}
	return Token{
		Type:    tokType,
		Literal: literal,
		Value:   value,
		Span:    start,
	}
}

// autoSemicolon produces the implicit semicolon that terminates a line.
func (l *Lexer) autoSemicolon(at Span) Token {
	l.insertSemi = false
	at.End = at.Start
	return Token{Type: SEMICOLON, Literal: "\n", Value: "\n", Span: at}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || (l.ch == '\n' && !l.insertSemi) {
			l.read()
		}

		start := l.spanStart()

		switch l.ch {
		case 0:
			if l.insertSemi {
				return l.autoSemicolon(start)
			}
			return l.makeToken(EOF, start, "", "")

		case '\n':
			l.read()
			return l.autoSemicolon(start)

		case '/':
			switch l.peek() {
			case '/':
				if l.insertSemi {
					// The comment runs to the end of the line, which ends the statement.
					return l.autoSemicolon(start)
				}
				l.skipLineComment()
				continue
			case '*':
				hadNewline := l.skipBlockComment(start)
				if hadNewline && l.insertSemi {
					return l.autoSemicolon(start)
				}
				continue
			}
			return l.operator(start, QUO, "=", QUO_ASSIGN)

		case '"':
			return l.readString(start)

		case '`':
			return l.readRawString(start)

		case '\'':
			return l.readRune(start)

		case '.':
			if isDigit(l.peek()) {
				return l.readNumber(start)
			}
			if l.peek() == '.' && l.pos+2 < len(l.input) && l.input[l.pos+2] == '.' {
				l.read()
				l.read()
				l.read()
				return l.makeToken(ELLIPSIS, start, "...", "...")
			}
			l.read()
			return l.makeToken(PERIOD, start, ".", ".")

		case '+':
			if l.peek() == '+' {
				return l.twoChar(start, INC)
			}
			return l.operator(start, ADD, "=", ADD_ASSIGN)
		case '-':
			if l.peek() == '-' {
				return l.twoChar(start, DEC)
			}
			return l.operator(start, SUB, "=", SUB_ASSIGN)
		case '*':
			return l.operator(start, MUL, "=", MUL_ASSIGN)
		case '%':
			return l.operator(start, REM, "=", REM_ASSIGN)
		case '^':
			return l.operator(start, XOR, "=", XOR_ASSIGN)
		case '=':
			return l.operator(start, ASSIGN, "=", EQL)
		case '!':
			return l.operator(start, NOT, "=", NEQ)
		case ':':
			return l.operator(start, COLON, "=", DEFINE)

		case '&':
			switch l.peek() {
			case '&':
				return l.twoChar(start, LAND)
			case '^':
				l.read()
				return l.operator(start, AND_NOT, "=", AND_NOT_ASSIGN)
			}
			return l.operator(start, AND, "=", AND_ASSIGN)

		case '|':
			if l.peek() == '|' {
				return l.twoChar(start, LOR)
			}
			return l.operator(start, OR, "=", OR_ASSIGN)

		case '<':
			switch l.peek() {
			case '<':
				l.read()
				return l.operator(start, SHL, "=", SHL_ASSIGN)
			case '-':
				return l.twoChar(start, ARROW)
			}
			return l.operator(start, LSS, "=", LEQ)

		case '>':
			if l.peek() == '>' {
				l.read()
				return l.operator(start, SHR, "=", SHR_ASSIGN)
			}
			return l.operator(start, GTR, "=", GEQ)

		case '(':
			return l.single(start, LPAREN)
		case ')':
			return l.single(start, RPAREN)
		case '[':
			return l.single(start, LBRACK)
		case ']':
			return l.single(start, RBRACK)
		case '{':
			return l.single(start, LBRACE)
		case '}':
			return l.single(start, RBRACE)
		case ',':
			return l.single(start, COMMA)
		case ';':
			return l.single(start, SEMICOLON)

		default:
			if isLetter(l.ch) {
				literal := l.readIdentifier()
				return l.makeToken(LookupIdent(literal), start, literal, literal)
			}
			if isDigit(l.ch) {
				return l.readNumber(start)
			}
			raw := string(l.ch)
			l.read()
			tok := l.makeToken(ILLEGAL, start, raw, raw)
			l.addError(ErrIllegalRune, "illegal character "+strconv.Quote(raw), tok.Span)
			return tok
		}
	}
}

func (l *Lexer) single(start Span, tt TokenType) Token {
	l.read()
	return l.makeToken(tt, start, string(tt), string(tt))
}

func (l *Lexer) twoChar(start Span, tt TokenType) Token {
	l.read()
	l.read()
	return l.makeToken(tt, start, string(tt), string(tt))
}

// operator consumes the current operator rune and, when the next rune is
// suffix, the suffix as well, yielding long instead of short.
func (l *Lexer) operator(start Span, short TokenType, suffix string, long TokenType) Token {
	l.read()
	if string(l.ch) == suffix {
		l.read()
		return l.makeToken(long, start, string(long), string(long))
	}
	return l.makeToken(short, start, string(short), string(short))
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.read()
	}
}

// skipBlockComment consumes a /* */ comment and reports whether it spanned a
// newline.
func (l *Lexer) skipBlockComment(start Span) bool {
	l.read() // consume '/'
	l.read() // consume '*'
	hadNewline := false
	for {
		if l.ch == 0 {
			start.End = l.pos
			l.addError(ErrUnterminatedBlockComment, "unterminated block comment", start)
			return hadNewline
		}
		if l.ch == '*' && l.peek() == '/' {
			l.read()
			l.read()
			return hadNewline
		}
		if l.ch == '\n' {
			hadNewline = true
		}
		l.read()
	}
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.read()
	}
	return string(l.input[start:l.pos])
}

// readNumber reads an integer, floating-point or imaginary literal. Prefixes
// 0x, 0o and 0b and digit separators are accepted; validation of the digits is
// left to constant evaluation.
func (l *Lexer) readNumber(start Span) Token {
	tokType := INT

	if l.ch == '0' && strings.ContainsRune("xXoObB", l.peek()) {
		l.read()
		l.read()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.read()
		}
	} else {
		for isDigit(l.ch) || l.ch == '_' {
			l.read()
		}
		if l.ch == '.' {
			tokType = FLOAT
			l.read()
			for isDigit(l.ch) || l.ch == '_' {
				l.read()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			tokType = FLOAT
			l.read()
			if l.ch == '+' || l.ch == '-' {
				l.read()
			}
			if !isDigit(l.ch) {
				literal := string(l.input[start.Start:l.pos])
				tok := l.makeToken(ILLEGAL, start, literal, literal)
				l.addError(ErrMalformedLiteral, "exponent has no digits", tok.Span)
				return tok
			}
			for isDigit(l.ch) || l.ch == '_' {
				l.read()
			}
		}
	}

	if l.ch == 'i' {
		tokType = IMAG
		l.read()
	}

	literal := string(l.input[start.Start:l.pos])
	return l.makeToken(tokType, start, literal, literal)
}

// readString reads an interpreted string literal. Value holds the decoded text.
func (l *Lexer) readString(start Span) Token {
	l.read() // opening quote
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			literal := string(l.input[start.Start:l.pos])
			tok := l.makeToken(ILLEGAL, start, literal, literal)
			l.addError(ErrUnterminatedString, "unterminated string literal", tok.Span)
			return tok
		}
		if l.ch == '\\' {
			l.read()
		}
		l.read()
	}
	l.read() // closing quote

	literal := string(l.input[start.Start:l.pos])
	value, err := strconv.Unquote(literal)
	if err != nil {
		tok := l.makeToken(ILLEGAL, start, literal, literal)
		l.addError(ErrMalformedLiteral, "invalid escape in string literal "+literal, tok.Span)
		return tok
	}
	return l.makeToken(STRING, start, literal, value)
}

func (l *Lexer) readRawString(start Span) Token {
	l.read() // opening backquote
	for l.ch != '`' {
		if l.ch == 0 {
			literal := string(l.input[start.Start:l.pos])
			tok := l.makeToken(ILLEGAL, start, literal, literal)
			l.addError(ErrUnterminatedString, "unterminated raw string literal", tok.Span)
			return tok
		}
		l.read()
	}
	l.read()

	literal := string(l.input[start.Start:l.pos])
	value := strings.ReplaceAll(literal[1:len(literal)-1], "\r", "")
	return l.makeToken(STRING, start, literal, value)
}

// readRune reads a rune literal. Value holds the decoded rune.
func (l *Lexer) readRune(start Span) Token {
	l.read() // opening quote
	for l.ch != '\'' {
		if l.ch == 0 || l.ch == '\n' {
			literal := string(l.input[start.Start:l.pos])
			tok := l.makeToken(ILLEGAL, start, literal, literal)
			l.addError(ErrUnterminatedRune, "rune literal not terminated", tok.Span)
			return tok
		}
		if l.ch == '\\' {
			l.read()
		}
		l.read()
	}
	l.read()

	literal := string(l.input[start.Start:l.pos])
	value, err := strconv.Unquote(literal)
	if err != nil || len([]rune(value)) != 1 {
		tok := l.makeToken(ILLEGAL, start, literal, literal)
		l.addError(ErrMalformedLiteral, "invalid rune literal "+literal, tok.Span)
		return tok
	}
	return l.makeToken(RUNE, start, literal, value)
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isDigit(ch rune) bool {
	// Numeric literals are restricted to ASCII digits.
	return ch >= '0' && ch <= '9'
}

// isHexDigit checks if a rune is a hexadecimal digit
func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'f') ||
		(ch >= 'A' && ch <= 'F')
}

// SliceSource replays a fixed token sequence. Once the slice is exhausted it
// keeps returning EOF positioned after the last token.
type SliceSource struct {
	toks []Token
	pos  int
}

// NewSliceSource wraps toks as a Source.
func NewSliceSource(toks []Token) *SliceSource {
	return &SliceSource{toks: toks}
}

// NextToken implements Source.
func (s *SliceSource) NextToken() Token {
	if s.pos < len(s.toks) {
		tok := s.toks[s.pos]
		s.pos++
		return tok
	}
	var span Span
	if len(s.toks) > 0 {
		span = s.toks[len(s.toks)-1].Span
	}
	return Token{Type: EOF, Span: span}
}

// Tokenize drains src up to and including EOF.
func Tokenize(src Source) []Token {
	var toks []Token
	for {
		tok := src.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}
