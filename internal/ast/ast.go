package ast

import (
	"go/constant"

	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/types"
)

// Node represents any AST node with an associated source span and the
// semantic attributes filled in when the node was reduced.
type Node interface {
	Span() lexer.Span
	Attr() *Attrs
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl represents a top-level declaration.
type Decl interface {
	Node
	declNode()
}

// TypeExpr represents a type annotation expression.
type TypeExpr interface {
	Node
	typeNode()
}

// Spec is one entry of a grouped declaration.
type Spec interface {
	Node
	specNode()
}

// Attrs are the semantic attributes every node carries. Statement nodes leave
// DataType nil.
type Attrs struct {
	DataType    types.Type
	Label       string // source text or operator symbol
	Const       bool
	Untyped     bool           // constant without an explicit type
	Value       constant.Value // set when Const
	Addressable bool
}

type node struct {
	Attrs
	span lexer.Span
}

// Span returns the node span.
func (n *node) Span() lexer.Span { return n.span }

// SetSpan updates the node span.
func (n *node) SetSpan(span lexer.Span) { n.span = span }

// Attr returns the node's semantic attributes.
func (n *node) Attr() *Attrs { return &n.Attrs }

func newNode(label string, span lexer.Span) node {
	return node{Attrs: Attrs{Label: label}, span: span}
}

// File represents a parsed compilation unit.
type File struct {
	node
	Package *Ident
	Imports []*ImportSpec
	Decls   []Decl
}

// NewFile constructs a file node with the provided span.
func NewFile(pkg *Ident, imports []*ImportSpec, decls []Decl, span lexer.Span) *File {
	return &File{
		node:    newNode("file", span),
		Package: pkg,
		Imports: imports,
		Decls:   decls,
	}
}

// ImportSpec represents one import. Name is nil when no alias is given.
type ImportSpec struct {
	node
	Name *Ident
	Path string
}

// NewImportSpec constructs an import node.
func NewImportSpec(name *Ident, path string, span lexer.Span) *ImportSpec {
	return &ImportSpec{node: newNode(path, span), Name: name, Path: path}
}

// LocalName returns the name the import binds in the file.
func (s *ImportSpec) LocalName() string {
	if s.Name != nil {
		return s.Name.Name
	}
	path := s.Path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

func (*ImportSpec) specNode() {}

// GenDecl is a const, var or type declaration, single or grouped.
type GenDecl struct {
	node
	Tok   lexer.TokenType // CONST, VAR or TYPE
	Specs []Spec
}

// NewGenDecl constructs a declaration container.
func NewGenDecl(tok lexer.TokenType, specs []Spec, span lexer.Span) *GenDecl {
	return &GenDecl{node: newNode(string(tok), span), Tok: tok, Specs: specs}
}

func (*GenDecl) declNode() {}

// ValueSpec is one line of a const or var declaration.
type ValueSpec struct {
	node
	Names  []*Ident
	Type   TypeExpr // nil when inferred
	Values []Expr
}

// NewValueSpec constructs a value spec.
func NewValueSpec(names []*Ident, typ TypeExpr, values []Expr, span lexer.Span) *ValueSpec {
	return &ValueSpec{node: newNode("", span), Names: names, Type: typ, Values: values}
}

func (*ValueSpec) specNode() {}

// TypeSpec declares a local type name. Alias is set for `type T = X`.
type TypeSpec struct {
	node
	Name  *Ident
	Alias bool
	Type  TypeExpr
}

// NewTypeSpec constructs a type spec.
func NewTypeSpec(name *Ident, alias bool, typ TypeExpr, span lexer.Span) *TypeSpec {
	return &TypeSpec{node: newNode(name.Name, span), Name: name, Alias: alias, Type: typ}
}

func (*TypeSpec) specNode() {}

// FuncDecl represents a function declaration.
type FuncDecl struct {
	node
	Name *Ident
	Type *FuncType
	Body *BlockStmt
}

// NewFuncDecl constructs a function declaration node.
func NewFuncDecl(name *Ident, typ *FuncType, body *BlockStmt, span lexer.Span) *FuncDecl {
	return &FuncDecl{node: newNode(name.Name, span), Name: name, Type: typ, Body: body}
}

func (*FuncDecl) declNode() {}
