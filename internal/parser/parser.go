// Package parser turns a token stream into a fully typed AST in a single pass.
//
// Every completed production runs its semantic action immediately: names are
// resolved against the session's scope chain, types are computed and checked,
// constants are folded and goto/label legality is tracked as the tree is
// built. The first error aborts the parse.
package parser

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/malphas-lang/gofront/internal/ast"
	"github.com/malphas-lang/gofront/internal/labels"
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/symtab"
)

type Option func(*options)

type options struct {
	filename string
	logger   *slog.Logger
	trace    bool
}

// WithFilename configures the parser to attribute all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithLogger sets the logger used for session and trace output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTrace logs every reduction at debug level.
func WithTrace(on bool) Option {
	return func(o *options) {
		o.trace = on
	}
}

// Result is a successful parse: the root node, one label table per function
// body and the id of the session that produced them.
type Result struct {
	File       *ast.File
	Labels     []*labels.Table
	Session    uuid.UUID
	Reductions int
}

// Parser is a single-use recursive descent parser. Each parse function starts
// on the first token of its production and returns with curTok on the first
// token after it.
type Parser struct {
	src     lexer.Source
	lx      *lexer.Lexer // nil when reading from an arbitrary Source
	curTok  lexer.Token
	peekTok lexer.Token
	prevTok lexer.Token
	ahead   []lexer.Token

	filename string
	logger   *slog.Logger
	trace    bool

	sess    *symtab.Session
	imports map[string]string

	fn      *funcState
	tables  []*labels.Table
	exprLev int // < 0 inside control clause headers

	reductions int
	used       bool
}

// funcState is the per-function part of the parser.
type funcState struct {
	name         string
	labels       *labels.Table
	namedResults bool
	targets      []branchTarget
	pendingLabel string
	clauseBlock  *symtab.Block // statement list of the innermost case clause
	lits         int
}

// branchTarget is an enclosing for or switch that break and continue may name.
type branchTarget struct {
	label  string
	isLoop bool
}

// New returns a parser reading Go source text.
func New(input string, opts ...Option) *Parser {
	lx := lexer.New(input)
	p := NewFromSource(lx, opts...)
	p.lx = lx
	if p.filename != "" {
		lx.SetFilename(p.filename)
	}
	return p
}

// NewFromSource returns a parser pulling tokens from src.
func NewFromSource(src lexer.Source, opts ...Option) *Parser {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Parser{
		src:      src,
		filename: cfg.filename,
		trace:    cfg.trace,
		imports:  make(map[string]string),
	}
	p.sess = symtab.New(logger)
	p.logger = p.sess.Logger()
	return p
}

// ParseFile parses input and returns the typed tree or the first error.
func ParseFile(input string, opts ...Option) (*Result, error) {
	return New(input, opts...).Parse()
}

// Session exposes the symbol table after a parse.
func (p *Parser) Session() *symtab.Session { return p.sess }

// Parse consumes the whole token stream.
func (p *Parser) Parse() (*Result, error) {
	if p.used {
		return nil, errors.New("parser: Parse called twice")
	}
	p.used = true

	// Seed curTok/peekTok.
	p.nextToken()
	p.nextToken()

	p.logger.Debug("parse start", "file", p.filename)
	file, err := p.parseSourceFile()
	if err != nil {
		p.logger.Debug("parse failed", "error", err)
		return nil, err
	}
	p.logger.Debug("parse done", "decls", len(file.Decls), "reductions", p.reductions)

	return &Result{
		File:       file,
		Labels:     p.tables,
		Session:    p.sess.ID,
		Reductions: p.reductions,
	}, nil
}

// nextToken advances the token window by one.
func (p *Parser) nextToken() {
	p.prevTok = p.curTok
	p.curTok = p.peekTok
	if len(p.ahead) > 0 {
		p.peekTok = p.ahead[0]
		p.ahead = p.ahead[1:]
		return
	}
	p.peekTok = p.src.NextToken()
}

// peekAt returns the token n positions after curTok without consuming it.
func (p *Parser) peekAt(n int) lexer.Token {
	switch n {
	case 0:
		return p.curTok
	case 1:
		return p.peekTok
	}
	for len(p.ahead) < n-1 {
		p.ahead = append(p.ahead, p.src.NextToken())
	}
	return p.ahead[n-2]
}

// expect consumes a token of type tt or fails with a syntax error.
func (p *Parser) expect(tt lexer.TokenType, context string) (lexer.Token, error) {
	tok := p.curTok
	if tok.Type != tt {
		return tok, p.unexpected(tok, describeType(tt), context)
	}
	p.nextToken()
	return tok, nil
}

// got consumes the current token when it has type tt.
func (p *Parser) got(tt lexer.TokenType) bool {
	if p.curTok.Type == tt {
		p.nextToken()
		return true
	}
	return false
}

// expectSemi consumes a statement terminator. A closing ')' or '}' ends the
// statement as well.
func (p *Parser) expectSemi(context string) error {
	switch p.curTok.Type {
	case lexer.SEMICOLON:
		p.nextToken()
		return nil
	case lexer.RPAREN, lexer.RBRACE, lexer.EOF:
		return nil
	}
	return p.unexpected(p.curTok, "newline or ';'", context)
}

// span covers everything from start to the last consumed token.
func (p *Parser) span(start lexer.Span) lexer.Span {
	return mergeSpan(start, p.prevTok.Span)
}
