package parser

import (
	"github.com/malphas-lang/gofront/internal/ast"
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/types"
)

// mergeSpan assumes start.End <= end.End and returns a span covering both.
func mergeSpan(start, end lexer.Span) lexer.Span {
	span := start

	if end.End > span.End {
		span.End = end.End
	}

	return span
}

// unparen strips any number of enclosing parentheses.
func unparen(x ast.Expr) ast.Expr {
	for {
		p, ok := x.(*ast.ParenExpr)
		if !ok {
			return x
		}
		x = p.X
	}
}

func operand(x ast.Expr) types.Operand {
	a := x.Attr()
	return types.Operand{Type: a.DataType, Const: a.Const, Addressable: a.Addressable}
}

func typeString(t types.Type) string {
	if t == nil {
		return "no value"
	}
	return t.String()
}

// describe renders an expression for error messages.
func describe(x ast.Expr) string {
	switch n := unparen(x).(type) {
	case *ast.Ident:
		return n.Name
	case *ast.BasicLit:
		return n.Raw
	case *ast.SelectorExpr:
		return describe(n.X) + "." + n.Sel.Name
	case *ast.CallExpr:
		return describe(n.Fun) + "(...)"
	case *ast.IndexExpr:
		return describe(n.X) + "[...]"
	case *ast.BinaryExpr:
		return describe(n.X) + " " + n.Op + " " + describe(n.Y)
	case *ast.UnaryExpr:
		return n.Op + describe(n.X)
	case *ast.TypeOperand:
		return typeString(n.DataType)
	}
	return x.Attr().Label
}

func isBlank(x ast.Expr) bool {
	id, ok := unparen(x).(*ast.Ident)
	return ok && id.Name == "_"
}

// isTypeStart reports whether tt can begin a type in a parameter list or
// result position.
func isTypeStart(tt lexer.TokenType) bool {
	switch tt {
	case lexer.IDENT, lexer.MUL, lexer.LBRACK, lexer.MAP, lexer.STRUCT, lexer.FUNC, lexer.LPAREN,
		lexer.CHAN, lexer.INTERFACE:
		return true
	default:
		return false
	}
}

// defaultType is the type a constant literal takes when nothing else decides.
func defaultType(kind lexer.TokenType) types.Type {
	switch kind {
	case lexer.INT:
		return types.Int
	case lexer.FLOAT:
		return types.Float64
	case lexer.IMAG:
		return types.Complex128
	case lexer.RUNE:
		return types.Rune
	default:
		return types.String
	}
}

func literalKind(kind lexer.TokenType) string {
	switch kind {
	case lexer.RUNE:
		return "CHAR"
	default:
		return string(kind)
	}
}
