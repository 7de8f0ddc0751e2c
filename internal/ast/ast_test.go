package ast_test

import (
	"bytes"
	"go/constant"
	"testing"

	"github.com/nalgeon/be"

	"github.com/malphas-lang/gofront/internal/ast"
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/types"
)

func at(line int) lexer.Span { return lexer.Span{Line: line, Column: 1} }

func intLit(raw string, v int64, line int) *ast.BasicLit {
	lit := ast.NewBasicLit(lexer.INT, raw, at(line))
	lit.DataType = types.Int
	lit.Const = true
	lit.Value = constant.MakeInt64(v)
	return lit
}

// sampleFile is `package main; const x = 1 + 2`.
func sampleFile() *ast.File {
	sum := ast.NewBinaryExpr("+", intLit("1", 1, 3), intLit("2", 2, 3), at(3))
	sum.DataType = types.Int
	sum.Const = true
	sum.Value = constant.MakeInt64(3)

	name := ast.NewIdent("x", at(3))
	name.DataType = types.Int
	spec := ast.NewValueSpec([]*ast.Ident{name}, nil, []ast.Expr{sum}, at(3))
	decl := ast.NewGenDecl(lexer.CONST, []ast.Spec{spec}, at(3))
	return ast.NewFile(ast.NewIdent("main", at(1)), nil, []ast.Decl{decl}, at(1))
}

func TestWalkOrder(t *testing.T) {
	var labels []string
	ast.Walk(sampleFile(), func(n ast.Node) bool {
		labels = append(labels, n.Attr().Label)
		return true
	})
	be.Equal(t, labels, []string{"file", "main", "CONST", "", "x", "+", "1", "2"})
}

func TestWalkPrune(t *testing.T) {
	count := 0
	ast.Walk(sampleFile(), func(n ast.Node) bool {
		count++
		_, isSpec := n.(*ast.ValueSpec)
		return !isSpec
	})
	// file, package name, decl, spec
	be.Equal(t, count, 4)
}

func TestChildrenSkipsNil(t *testing.T) {
	var body *ast.BlockStmt
	fs := ast.NewForStmt(nil, nil, nil, body, at(1))
	be.Equal(t, len(ast.Children(fs)), 0)

	ret := ast.NewReturnStmt(nil, at(2))
	blk := ast.NewBlockStmt([]ast.Stmt{ret}, at(2))
	fs = ast.NewForStmt(nil, nil, nil, blk, at(1))
	be.Equal(t, len(ast.Children(fs)), 1)
}

func TestImportLocalName(t *testing.T) {
	be.Equal(t, ast.NewImportSpec(nil, "net/http", at(1)).LocalName(), "http")
	be.Equal(t, ast.NewImportSpec(nil, "fmt", at(1)).LocalName(), "fmt")
	alias := ast.NewImportSpec(ast.NewIdent("str", at(1)), "strings", at(1))
	be.Equal(t, alias.LocalName(), "str")
}

func TestOutlined(t *testing.T) {
	o := ast.Outlined(sampleFile())
	be.Equal(t, o.Node, "File")
	be.Equal(t, len(o.Children), 2)

	spec := o.Children[1].Children[0]
	be.Equal(t, spec.Node, "ValueSpec")
	sum := spec.Children[1]
	be.Equal(t, sum.Node, "BinaryExpr")
	be.Equal(t, sum.Label, "+")
	be.Equal(t, sum.Type, "int")
	be.Equal(t, sum.Value, "3")
	be.Equal(t, sum.Line, 3)
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	be.Err(t, ast.Fprint(&buf, sampleFile()), nil)
	want := `File file (line 1)
  Ident main (line 1)
  GenDecl CONST (line 3)
    ValueSpec (line 3)
      Ident x : int (line 3)
      BinaryExpr + : int = 3 (line 3)
        BasicLit 1 : int = 1 (line 3)
        BasicLit 2 : int = 2 (line 3)
`
	be.Equal(t, buf.String(), want)
}

func TestCaseClauseDefault(t *testing.T) {
	be.True(t, ast.NewCaseClause(nil, nil, at(1)).IsDefault())
	be.True(t, !ast.NewCaseClause([]ast.Expr{intLit("1", 1, 1)}, nil, at(1)).IsDefault())
}
