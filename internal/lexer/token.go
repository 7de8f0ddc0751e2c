package lexer

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune or original string
	End      int    // exclusive end index
}

// Token represents a lexical token. Literal is the exact source text; Value is
// the decoded value for string and rune literals and equals Literal otherwise.
type Token struct {
	Type    TokenType
	Literal string
	Value   string
	Span    Span
}

// Line returns the 1-based source line of the token.
func (t Token) Line() int { return t.Span.Line }

// Source is a pull-based token stream. It must keep returning an EOF token once
// the input is exhausted.
type Source interface {
	NextToken() Token
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT  TokenType = "IDENT"  // add, foobar, x, y, ...
	INT    TokenType = "INT"    // 1343456, 0x1f, 0b101
	FLOAT  TokenType = "FLOAT"  // 3.14, 1e9
	IMAG   TokenType = "IMAG"   // 2i, 1.5i
	RUNE   TokenType = "RUNE"   // 'a'
	STRING TokenType = "STRING" // "hello", `raw`

	// Operators
	ADD     TokenType = "+"
	SUB     TokenType = "-"
	MUL     TokenType = "*"
	QUO     TokenType = "/"
	REM     TokenType = "%"
	AND     TokenType = "&"
	OR      TokenType = "|"
	XOR     TokenType = "^"
	SHL     TokenType = "<<"
	SHR     TokenType = ">>"
	AND_NOT TokenType = "&^"

	ADD_ASSIGN     TokenType = "+="
	SUB_ASSIGN     TokenType = "-="
	MUL_ASSIGN     TokenType = "*="
	QUO_ASSIGN     TokenType = "/="
	REM_ASSIGN     TokenType = "%="
	AND_ASSIGN     TokenType = "&="
	OR_ASSIGN      TokenType = "|="
	XOR_ASSIGN     TokenType = "^="
	SHL_ASSIGN     TokenType = "<<="
	SHR_ASSIGN     TokenType = ">>="
	AND_NOT_ASSIGN TokenType = "&^="

	LAND     TokenType = "&&"
	LOR      TokenType = "||"
	ARROW    TokenType = "<-"
	INC      TokenType = "++"
	DEC      TokenType = "--"
	EQL      TokenType = "=="
	LSS      TokenType = "<"
	GTR      TokenType = ">"
	ASSIGN   TokenType = "="
	NOT      TokenType = "!"
	NEQ      TokenType = "!="
	LEQ      TokenType = "<="
	GEQ      TokenType = ">="
	DEFINE   TokenType = ":="
	ELLIPSIS TokenType = "..."

	// Delimiters
	LPAREN    TokenType = "("
	LBRACK    TokenType = "["
	LBRACE    TokenType = "{"
	COMMA     TokenType = ","
	PERIOD    TokenType = "."
	RPAREN    TokenType = ")"
	RBRACK    TokenType = "]"
	RBRACE    TokenType = "}"
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"

	// Keywords
	BREAK       TokenType = "BREAK"
	CASE        TokenType = "CASE"
	CHAN        TokenType = "CHAN"
	CONST       TokenType = "CONST"
	CONTINUE    TokenType = "CONTINUE"
	DEFAULT     TokenType = "DEFAULT"
	DEFER       TokenType = "DEFER"
	ELSE        TokenType = "ELSE"
	FALLTHROUGH TokenType = "FALLTHROUGH"
	FOR         TokenType = "FOR"
	FUNC        TokenType = "FUNC"
	GO          TokenType = "GO"
	GOTO        TokenType = "GOTO"
	IF          TokenType = "IF"
	IMPORT      TokenType = "IMPORT"
	INTERFACE   TokenType = "INTERFACE"
	MAP         TokenType = "MAP"
	PACKAGE     TokenType = "PACKAGE"
	RANGE       TokenType = "RANGE"
	RETURN      TokenType = "RETURN"
	SELECT      TokenType = "SELECT"
	STRUCT      TokenType = "STRUCT"
	SWITCH      TokenType = "SWITCH"
	TYPE        TokenType = "TYPE"
	VAR         TokenType = "VAR"
)

var keywords = map[string]TokenType{
	"break":       BREAK,
	"case":        CASE,
	"chan":        CHAN,
	"const":       CONST,
	"continue":    CONTINUE,
	"default":     DEFAULT,
	"defer":       DEFER,
	"else":        ELSE,
	"fallthrough": FALLTHROUGH,
	"for":         FOR,
	"func":        FUNC,
	"go":          GO,
	"goto":        GOTO,
	"if":          IF,
	"import":      IMPORT,
	"interface":   INTERFACE,
	"map":         MAP,
	"package":     PACKAGE,
	"range":       RANGE,
	"return":      RETURN,
	"select":      SELECT,
	"struct":      STRUCT,
	"switch":      SWITCH,
	"type":        TYPE,
	"var":         VAR,
}

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsAssignOp reports whether tt is "=" or a compound assignment operator.
func (tt TokenType) IsAssignOp() bool {
	switch tt {
	case ASSIGN, ADD_ASSIGN, SUB_ASSIGN, MUL_ASSIGN, QUO_ASSIGN, REM_ASSIGN,
		AND_ASSIGN, OR_ASSIGN, XOR_ASSIGN, SHL_ASSIGN, SHR_ASSIGN, AND_NOT_ASSIGN:
		return true
	default:
		return false
	}
}

// BinaryOp returns the binary operator underlying a compound assignment, e.g.
// "+" for "+=". It returns "" for any other token.
func (tt TokenType) BinaryOp() TokenType {
	switch tt {
	case ADD_ASSIGN:
		return ADD
	case SUB_ASSIGN:
		return SUB
	case MUL_ASSIGN:
		return MUL
	case QUO_ASSIGN:
		return QUO
	case REM_ASSIGN:
		return REM
	case AND_ASSIGN:
		return AND
	case OR_ASSIGN:
		return OR
	case XOR_ASSIGN:
		return XOR
	case SHL_ASSIGN:
		return SHL
	case SHR_ASSIGN:
		return SHR
	case AND_NOT_ASSIGN:
		return AND_NOT
	default:
		return ""
	}
}
