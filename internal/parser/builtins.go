package parser

import (
	"go/constant"

	"github.com/malphas-lang/gofront/internal/ast"
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/types"
)

type builtinInfo struct {
	nargs    int  // minimum number of arguments
	variadic bool // accepts more than nargs
	typeArg  bool // first argument is a type
	discard  bool // the result may not be discarded
}

var builtinFuncs = map[string]builtinInfo{
	"append":  {nargs: 1, variadic: true, discard: true},
	"cap":     {nargs: 1, discard: true},
	"copy":    {nargs: 2},
	"delete":  {nargs: 2},
	"len":     {nargs: 1, discard: true},
	"make":    {nargs: 1, variadic: true, typeArg: true, discard: true},
	"new":     {nargs: 1, typeArg: true, discard: true},
	"panic":   {nargs: 1},
	"print":   {variadic: true},
	"println": {variadic: true},
}

// parseBuiltinCall parses a call of a predeclared function. Builtins are
// never values, so the name must be followed by an argument list.
func (p *Parser) parseBuiltinCall() (ast.Expr, error) {
	tok := p.curTok
	p.nextToken()
	name := tok.Literal
	info := builtinFuncs[name]
	fun := ast.NewIdent(name, tok.Span)

	if p.curTok.Type != lexer.LPAREN {
		return nil, p.typeErrorf(tok.Span, "%s (built-in function) must be called", name)
	}

	var (
		args     []ast.Expr
		ellipsis bool
		err      error
	)
	if info.typeArg {
		p.nextToken() // '('
		if p.curTok.Type == lexer.RPAREN {
			return nil, p.typeErrorf(p.span(tok.Span), "not enough arguments for %s() (expected %d, found 0)", name, info.nargs)
		}
		p.exprLev++
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		top := ast.NewTypeOperand(typ, typ.Span())
		top.DataType = typ.Attr().DataType
		args = append(args, top)
		for p.got(lexer.COMMA) && p.curTok.Type != lexer.RPAREN {
			x, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, x)
		}
		p.exprLev--
		if _, err := p.expect(lexer.RPAREN, "in argument list; possibly missing comma or )"); err != nil {
			return nil, err
		}
	} else if args, ellipsis, err = p.parseCallArgs(); err != nil {
		return nil, err
	}

	call := ast.NewCallExpr(fun, args, ellipsis, p.span(tok.Span))
	call.Kind = ast.CallBuiltin
	if err := p.checkBuiltin(name, info, call); err != nil {
		return nil, err
	}
	if call.DataType != nil {
		call.Results = []types.Type{call.DataType}
	}
	p.reduce("Arguments", call)
	return call, nil
}

func (p *Parser) checkBuiltin(name string, info builtinInfo, call *ast.CallExpr) error {
	args := call.Args
	switch {
	case len(args) < info.nargs:
		return p.typeErrorf(call.Span(), "not enough arguments for %s (expected %d, found %d)", describe(call), info.nargs, len(args))
	case !info.variadic && len(args) > info.nargs:
		return p.typeErrorf(call.Span(), "too many arguments for %s (expected %d, found %d)", describe(call), info.nargs, len(args))
	case call.Ellipsis && name != "append":
		return p.typeErrorf(call.Span(), "invalid use of ... with built-in %s", name)
	}
	for i, a := range args {
		if i == 0 && info.typeArg {
			continue
		}
		if err := p.value(a); err != nil {
			return err
		}
	}

	switch name {
	case "len", "cap":
		return p.lenCap(name, call)
	case "append":
		return p.appendCall(call)
	case "make":
		return p.makeCall(call)
	case "new":
		call.DataType = types.NewPointer(args[0].Attr().DataType)
	case "delete":
		m, ok := args[0].Attr().DataType.(*types.Map)
		if !ok {
			return p.typeErrorf(args[0].Span(), "invalid argument: %s (%s of type %s) is not a map", describe(args[0]), kindWord(args[0]), args[0].Attr().DataType)
		}
		if _, err := p.assignTo(args[1], m.Key, false, "argument to delete"); err != nil {
			return err
		}
	case "copy":
		dst, ok := args[0].Attr().DataType.(*types.Slice)
		if !ok {
			return p.typeErrorf(args[0].Span(), "invalid argument: copy expects slice arguments; found %s (%s of type %s)", describe(args[0]), kindWord(args[0]), args[0].Attr().DataType)
		}
		src := args[1].Attr().DataType
		byteStr := types.IsString(src) && types.Identical(dst.Elem(), types.Uint8)
		if s, ok := src.(*types.Slice); !byteStr && (!ok || !types.Identical(s.Elem(), dst.Elem())) {
			return p.typeErrorf(call.Span(), "invalid argument: arguments to copy %s (%s of type %s) and %s (%s of type %s) have different element types",
				describe(args[0]), kindWord(args[0]), dst, describe(args[1]), kindWord(args[1]), src)
		}
		call.DataType = types.Int
	}
	return nil
}

func (p *Parser) lenCap(name string, call *ast.CallExpr) error {
	x := call.Args[0]
	xa := x.Attr()
	t := xa.DataType
	if ptr, ok := t.(*types.Pointer); ok && ptr.Level == 1 {
		if arr, ok := ptr.Base.(*types.Array); ok {
			t = arr
		}
	}
	call.DataType = types.Int

	switch tt := t.(type) {
	case *types.Array:
		call.Const = true
		call.Value = constant.MakeInt64(tt.Len())
		return nil
	case *types.Slice:
		return nil
	case *types.Map:
		if name == "len" {
			return nil
		}
	default:
		if name == "len" && types.IsString(t) {
			if xa.Const {
				call.Const = true
				call.Value = constant.MakeInt64(int64(len(constant.StringVal(xa.Value))))
			}
			return nil
		}
	}
	return p.typeErrorf(x.Span(), "invalid argument: %s (%s of type %s) for built-in %s", describe(x), kindWord(x), typeString(xa.DataType), name)
}

func (p *Parser) appendCall(call *ast.CallExpr) error {
	args := call.Args
	s, ok := args[0].Attr().DataType.(*types.Slice)
	if !ok {
		return p.typeErrorf(args[0].Span(), "invalid argument: %s (%s of type %s) is not a slice", describe(args[0]), kindWord(args[0]), typeString(args[0].Attr().DataType))
	}
	call.DataType = s

	if call.Ellipsis {
		if len(args) != 2 {
			return p.typeErrorf(call.Span(), "can only use ... with final argument in list")
		}
		tail := args[1].Attr().DataType
		if types.IsString(tail) && types.Identical(s.Elem(), types.Uint8) {
			return nil
		}
		if !types.Identical(tail, s) {
			return p.typeErrorf(args[1].Span(), "cannot use %s (%s of type %s) as %s value in argument to append", describe(args[1]), kindWord(args[1]), typeString(tail), s)
		}
		return nil
	}
	for _, a := range args[1:] {
		if _, err := p.assignTo(a, s.Elem(), false, "argument to append"); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) makeCall(call *ast.CallExpr) error {
	args := call.Args
	t := args[0].Attr().DataType
	var maxArgs int
	switch t.(type) {
	case *types.Slice:
		if len(args) < 2 {
			return p.typeErrorf(call.Span(), "invalid operation: %s expects 2 or 3 arguments; found %d", describe(call), len(args))
		}
		maxArgs = 3
	case *types.Map:
		maxArgs = 2
	default:
		return p.typeErrorf(args[0].Span(), "invalid argument: cannot make %s; type must be slice or map", typeString(t))
	}
	if len(args) > maxArgs {
		return p.typeErrorf(call.Span(), "invalid operation: %s expects %d or %d arguments; found %d", describe(call), maxArgs-1, maxArgs, len(args))
	}

	var sizes []int64
	for _, a := range args[1:] {
		aa := a.Attr()
		if !types.IsBasicInteger(aa.DataType) {
			return p.typeErrorf(a.Span(), "cannot convert %s (%s of type %s) to type int", describe(a), kindWord(a), typeString(aa.DataType))
		}
		if aa.Const {
			n, ok := types.IntValue(aa.Value)
			if !ok || n < 0 {
				return p.typeErrorf(a.Span(), "invalid argument: index %s (constant of type %s) must not be negative", describe(a), aa.DataType)
			}
			sizes = append(sizes, n)
		}
	}
	if len(sizes) == 2 && sizes[0] > sizes[1] {
		return p.typeErrorf(call.Span(), "invalid argument: length and capacity swapped")
	}
	call.DataType = t
	return nil
}
