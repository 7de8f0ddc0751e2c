package ast

import (
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/types"
)

// Type expressions carry the resolved descriptor in DataType.

// NamedType references a builtin or declared type by name. Pkg is set for
// qualified names such as time.Duration.
type NamedType struct {
	node
	Pkg  *Ident
	Name *Ident
}

// NewNamedType constructs a named type node.
func NewNamedType(pkg, name *Ident, span lexer.Span) *NamedType {
	label := name.Name
	if pkg != nil {
		label = pkg.Name + "." + label
	}
	return &NamedType{node: newNode(label, span), Pkg: pkg, Name: name}
}

func (*NamedType) typeNode() {}

// PointerType represents *T.
type PointerType struct {
	node
	Elem TypeExpr
}

// NewPointerType constructs a pointer type node.
func NewPointerType(elem TypeExpr, span lexer.Span) *PointerType {
	return &PointerType{node: newNode("*", span), Elem: elem}
}

func (*PointerType) typeNode() {}

// ArrayType represents [Len]Elem.
type ArrayType struct {
	node
	Len  Expr
	Elem TypeExpr
}

// NewArrayType constructs an array type node.
func NewArrayType(length Expr, elem TypeExpr, span lexer.Span) *ArrayType {
	return &ArrayType{node: newNode("[N]", span), Len: length, Elem: elem}
}

func (*ArrayType) typeNode() {}

// SliceType represents []Elem.
type SliceType struct {
	node
	Elem TypeExpr
}

// NewSliceType constructs a slice type node.
func NewSliceType(elem TypeExpr, span lexer.Span) *SliceType {
	return &SliceType{node: newNode("[]", span), Elem: elem}
}

func (*SliceType) typeNode() {}

// MapType represents map[Key]Value.
type MapType struct {
	node
	Key   TypeExpr
	Value TypeExpr
}

// NewMapType constructs a map type node.
func NewMapType(key, value TypeExpr, span lexer.Span) *MapType {
	return &MapType{node: newNode("map", span), Key: key, Value: value}
}

func (*MapType) typeNode() {}

// FieldDecl is one line of a struct type. Names is empty for an embedded
// field.
type FieldDecl struct {
	node
	Names []*Ident
	Type  TypeExpr
	Tag   string
}

// NewFieldDecl constructs a struct field node.
func NewFieldDecl(names []*Ident, typ TypeExpr, tag string, span lexer.Span) *FieldDecl {
	return &FieldDecl{node: newNode("field", span), Names: names, Type: typ, Tag: tag}
}

// StructType represents struct{...}.
type StructType struct {
	node
	Fields []*FieldDecl
}

// NewStructType constructs a struct type node.
func NewStructType(fields []*FieldDecl, span lexer.Span) *StructType {
	return &StructType{node: newNode("struct", span), Fields: fields}
}

func (*StructType) typeNode() {}

// Param is one group of a parameter or result list, such as `a, b int`.
// Names is empty for unnamed entries.
type Param struct {
	node
	Names    []*Ident
	Type     TypeExpr
	Variadic bool
}

// NewParam constructs a parameter group node.
func NewParam(names []*Ident, typ TypeExpr, variadic bool, span lexer.Span) *Param {
	label := ""
	if len(names) > 0 {
		label = names[0].Name
	}
	return &Param{node: newNode(label, span), Names: names, Type: typ, Variadic: variadic}
}

// Count returns the number of values the group contributes to a signature.
func (p *Param) Count() int {
	if len(p.Names) == 0 {
		return 1
	}
	return len(p.Names)
}

// FuncType represents func(params) results.
type FuncType struct {
	node
	Params  []*Param
	Results []*Param
}

// NewFuncType constructs a function type node.
func NewFuncType(params, results []*Param, span lexer.Span) *FuncType {
	return &FuncType{node: newNode("func", span), Params: params, Results: results}
}

func (*FuncType) typeNode() {}

// FuncSig returns the resolved signature, or nil before resolution.
func (f *FuncType) FuncSig() *types.Func {
	sig, _ := f.DataType.(*types.Func)
	return sig
}
