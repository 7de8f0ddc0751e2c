package ast

import (
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/types"
)

// Ident represents an identifier.
type Ident struct {
	node
	Name string
}

// NewIdent constructs an identifier node.
func NewIdent(name string, span lexer.Span) *Ident {
	return &Ident{node: newNode(name, span), Name: name}
}

func (*Ident) exprNode() {}

// BasicLit is an int, float, imaginary, rune or string literal.
type BasicLit struct {
	node
	Kind lexer.TokenType
	Raw  string
}

// NewBasicLit constructs a literal node.
func NewBasicLit(kind lexer.TokenType, raw string, span lexer.Span) *BasicLit {
	return &BasicLit{node: newNode(raw, span), Kind: kind, Raw: raw}
}

func (*BasicLit) exprNode() {}

// CompositeLit is T{...}. Type is nil for elided element literals.
type CompositeLit struct {
	node
	Type TypeExpr
	Elts []Expr
}

// NewCompositeLit constructs a composite literal node.
func NewCompositeLit(typ TypeExpr, elts []Expr, span lexer.Span) *CompositeLit {
	return &CompositeLit{node: newNode("{}", span), Type: typ, Elts: elts}
}

func (*CompositeLit) exprNode() {}

// KeyValueExpr is a keyed element of a composite literal.
type KeyValueExpr struct {
	node
	Key   Expr
	Value Expr
}

// NewKeyValueExpr constructs a keyed element.
func NewKeyValueExpr(key, value Expr, span lexer.Span) *KeyValueExpr {
	return &KeyValueExpr{node: newNode(":", span), Key: key, Value: value}
}

func (*KeyValueExpr) exprNode() {}

// FuncLit is an anonymous function.
type FuncLit struct {
	node
	Type *FuncType
	Body *BlockStmt
}

// NewFuncLit constructs a function literal node.
func NewFuncLit(typ *FuncType, body *BlockStmt, span lexer.Span) *FuncLit {
	return &FuncLit{node: newNode("func", span), Type: typ, Body: body}
}

func (*FuncLit) exprNode() {}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	node
	X Expr
}

// NewParenExpr constructs a parenthesized expression.
func NewParenExpr(x Expr, span lexer.Span) *ParenExpr {
	return &ParenExpr{node: newNode("()", span), X: x}
}

func (*ParenExpr) exprNode() {}

// BinaryExpr represents x op y.
type BinaryExpr struct {
	node
	Op string
	X  Expr
	Y  Expr
}

// NewBinaryExpr constructs a binary expression node.
func NewBinaryExpr(op string, x, y Expr, span lexer.Span) *BinaryExpr {
	return &BinaryExpr{node: newNode(op, span), Op: op, X: x, Y: y}
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr represents op x.
type UnaryExpr struct {
	node
	Op string
	X  Expr
}

// NewUnaryExpr constructs a unary expression node.
func NewUnaryExpr(op string, x Expr, span lexer.Span) *UnaryExpr {
	return &UnaryExpr{node: newNode(op, span), Op: op, X: x}
}

func (*UnaryExpr) exprNode() {}

// CallKind distinguishes what a call expression invokes.
type CallKind int

const (
	CallFunc       CallKind = iota // declared function or function value
	CallBuiltin                    // len, append, make, ...
	CallConversion                 // T(x)
	CallExternal                   // pkg.F(...) on an imported package
)

// CallExpr represents a call, builtin call or conversion. Results holds every
// result type of a multi-valued call; DataType is the first of them.
type CallExpr struct {
	node
	Fun      Expr
	Args     []Expr
	Ellipsis bool
	Kind     CallKind
	Results  []types.Type
}

// NewCallExpr constructs a call expression node.
func NewCallExpr(fun Expr, args []Expr, ellipsis bool, span lexer.Span) *CallExpr {
	return &CallExpr{node: newNode("call", span), Fun: fun, Args: args, Ellipsis: ellipsis}
}

func (*CallExpr) exprNode() {}

// IndexExpr represents x[index].
type IndexExpr struct {
	node
	X     Expr
	Index Expr
}

// NewIndexExpr constructs an index expression node.
func NewIndexExpr(x, index Expr, span lexer.Span) *IndexExpr {
	return &IndexExpr{node: newNode("[]", span), X: x, Index: index}
}

func (*IndexExpr) exprNode() {}

// SliceExpr represents x[low:high] or x[low:high:max].
type SliceExpr struct {
	node
	X      Expr
	Low    Expr
	High   Expr
	Max    Expr
	Slice3 bool
}

// NewSliceExpr constructs a slice expression node.
func NewSliceExpr(x, low, high, max Expr, slice3 bool, span lexer.Span) *SliceExpr {
	return &SliceExpr{node: newNode("[:]", span), X: x, Low: low, High: high, Max: max, Slice3: slice3}
}

func (*SliceExpr) exprNode() {}

// SelectorExpr represents x.sel.
type SelectorExpr struct {
	node
	X   Expr
	Sel *Ident
}

// NewSelectorExpr constructs a selector expression node.
func NewSelectorExpr(x Expr, sel *Ident, span lexer.Span) *SelectorExpr {
	return &SelectorExpr{node: newNode(sel.Name, span), X: x, Sel: sel}
}

func (*SelectorExpr) exprNode() {}

// TypeOperand wraps a type used in expression position: the callee of a
// conversion and the first argument of make and new.
type TypeOperand struct {
	node
	Type TypeExpr
}

// NewTypeOperand constructs a type operand.
func NewTypeOperand(typ TypeExpr, span lexer.Span) *TypeOperand {
	return &TypeOperand{node: newNode("type", span), Type: typ}
}

func (*TypeOperand) exprNode() {}
