package parser

import (
	"fmt"
	"go/constant"
	"strings"

	"github.com/malphas-lang/gofront/internal/ast"
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/types"
)

var binaryPrec = map[lexer.TokenType]int{
	lexer.LOR:     1,
	lexer.LAND:    2,
	lexer.EQL:     3,
	lexer.NEQ:     3,
	lexer.LSS:     3,
	lexer.LEQ:     3,
	lexer.GTR:     3,
	lexer.GEQ:     3,
	lexer.ADD:     4,
	lexer.SUB:     4,
	lexer.OR:      4,
	lexer.XOR:     4,
	lexer.MUL:     5,
	lexer.QUO:     5,
	lexer.REM:     5,
	lexer.SHL:     5,
	lexer.SHR:     5,
	lexer.AND:     5,
	lexer.AND_NOT: 5,
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseBinaryExpr(1)
}

// parseExprList parses a comma separated expression list. The elements are
// typed but not yet checked for single values.
func (p *Parser) parseExprList() ([]ast.Expr, error) {
	var list []ast.Expr
	for {
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, x)
		if !p.got(lexer.COMMA) {
			return list, nil
		}
	}
}

func (p *Parser) parseBinaryExpr(prec1 int) (ast.Expr, error) {
	x, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := binaryPrec[p.curTok.Type]
		if !ok || prec < prec1 {
			return x, nil
		}
		op := string(p.curTok.Type)
		p.nextToken()
		y, err := p.parseBinaryExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		if x, err = p.binary(op, x, y); err != nil {
			return nil, err
		}
	}
}

// binary types x op y and folds it when both operands are constant.
func (p *Parser) binary(op string, x, y ast.Expr) (ast.Expr, error) {
	span := mergeSpan(x.Span(), y.Span())
	if err := p.value(x); err != nil {
		return nil, err
	}
	if err := p.value(y); err != nil {
		return nil, err
	}
	xa, ya := x.Attr(), y.Attr()
	t, err := types.FinalType(op, operand(x), operand(y))
	if err != nil {
		return nil, p.typeErrorf(span, "%s (%s)", err.Error(), describe(x)+" "+op+" "+describe(y))
	}

	isShift := op == "<<" || op == ">>"
	if isShift && ya.Const && constant.Sign(ya.Value) < 0 {
		return nil, p.typeErrorf(y.Span(), "invalid shift count %s (must be non-negative)", describe(y))
	}
	if !isShift && !types.IsComparison(op) {
		for _, side := range []ast.Expr{x, y} {
			if err := p.representable(side, t); err != nil {
				return nil, err
			}
		}
	}

	be := ast.NewBinaryExpr(op, x, y, span)
	be.DataType = t
	if xa.Const && ya.Const {
		v, err := types.Operate(op, xa.Value, ya.Value, t)
		if err != nil {
			return nil, p.typeErrorf(span, "%s", err.Error())
		}
		be.Const = true
		be.Untyped = xa.Untyped && (isShift || ya.Untyped)
		be.Value = v
	}
	p.reduce("Expr", be)
	return be, nil
}

// representable checks a constant operand that adopts the type t of the
// other operand.
func (p *Parser) representable(x ast.Expr, t types.Type) error {
	a := x.Attr()
	if !a.Const || a.Value == nil || types.KindOf(a.DataType) != types.KindOf(t) {
		return nil
	}
	if _, err := types.Represent(a.Value, t); err != nil {
		return p.typeErrorf(x.Span(), "cannot use %s (untyped constant) as %s value: %s", describe(x), t, err.Error())
	}
	return nil
}

func (p *Parser) parseUnaryExpr() (ast.Expr, error) {
	switch p.curTok.Type {
	case lexer.ADD, lexer.SUB, lexer.NOT, lexer.XOR, lexer.MUL, lexer.AND:
		start := p.curTok.Span
		op := string(p.curTok.Type)
		p.nextToken()
		x, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return p.unary(op, x, p.span(start))
	case lexer.ARROW:
		return nil, p.syntaxErrorf(p.curTok.Span, "channel receive is not supported")
	}
	return p.parsePrimaryExpr()
}

func (p *Parser) unary(op string, x ast.Expr, span lexer.Span) (ast.Expr, error) {
	if err := p.value(x); err != nil {
		return nil, err
	}
	xa := x.Attr()
	ue := ast.NewUnaryExpr(op, x, span)

	if op == "&" {
		switch inner := unparen(x).(type) {
		case *ast.CompositeLit:
			ue.DataType = types.NewPointer(xa.DataType)
			p.reduce("UnaryExpr", ue)
			return ue, nil
		case *ast.IndexExpr:
			if _, isMap := inner.X.Attr().DataType.(*types.Map); isMap {
				return nil, p.typeErrorf(span, "invalid operation: cannot take address of %s (map index expression of type %s)", describe(x), xa.DataType)
			}
		}
	}

	t, err := types.UnaryType(op, operand(x))
	if err != nil {
		return nil, p.typeErrorf(span, "%s", err.Error())
	}
	ue.DataType = t
	switch op {
	case "*":
		ue.Addressable = true
	case "&":
	default:
		if xa.Const {
			v, err := types.OperateUnary(op, xa.Value, t)
			if err != nil {
				return nil, p.typeErrorf(span, "%s", err.Error())
			}
			ue.Const = true
			ue.Untyped = xa.Untyped
			ue.Value = v
		}
	}
	p.reduce("UnaryExpr", ue)
	return ue, nil
}

func (p *Parser) parsePrimaryExpr() (ast.Expr, error) {
	x, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	for {
		switch p.curTok.Type {
		case lexer.PERIOD:
			x, err = p.parseSelector(x)
		case lexer.LBRACK:
			x, err = p.parseIndexOrSlice(x)
		case lexer.LPAREN:
			x, err = p.parseCall(x)
		default:
			return x, nil
		}
		if err != nil {
			return nil, err
		}
		p.reduce("PrimaryExpr", x)
	}
}

func (p *Parser) parseOperand() (ast.Expr, error) {
	switch p.curTok.Type {
	case lexer.INT, lexer.FLOAT, lexer.IMAG, lexer.RUNE, lexer.STRING:
		return p.parseBasicLit()
	case lexer.IDENT:
		return p.parseIdentOperand()
	case lexer.LPAREN:
		start := p.curTok.Span
		p.nextToken()
		p.exprLev++
		x, err := p.parseExpr()
		p.exprLev--
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "in parenthesized expression"); err != nil {
			return nil, err
		}
		pe := ast.NewParenExpr(x, p.span(start))
		*pe.Attr() = *x.Attr()
		pe.Label = "()"
		p.reduce("Operand", pe)
		return pe, nil
	case lexer.FUNC:
		return p.parseFuncLit()
	case lexer.LBRACK, lexer.MAP, lexer.STRUCT:
		typ, err := p.parseTypeLit(true)
		if err != nil {
			return nil, err
		}
		return p.typeInExpr(typ)
	}
	return nil, p.unexpected(p.curTok, "expression", "")
}

// parseIdentOperand resolves an identifier in expression position. Values
// shadow functions, which shadow builtins and type names.
func (p *Parser) parseIdentOperand() (ast.Expr, error) {
	tok := p.curTok
	name := tok.Literal

	if name == "_" {
		p.nextToken()
		id := ast.NewIdent(name, tok.Span)
		id.Addressable = true
		return id, nil
	}
	if e, err := p.sess.Get(name); err == nil {
		p.nextToken()
		id := ast.NewIdent(name, tok.Span)
		id.DataType = e.Type
		id.Const = e.Const
		id.Untyped = e.Untyped
		id.Value = e.Val
		id.Addressable = !e.Const
		p.reduce("Operand", id)
		return id, nil
	}
	if sig, ok := p.sess.LookupFunction(name); ok {
		p.nextToken()
		id := ast.NewIdent(name, tok.Span)
		id.DataType = sig
		p.reduce("Operand", id)
		return id, nil
	}
	if _, ok := p.imports[name]; ok {
		return p.parseQualified()
	}
	if _, ok := builtinFuncs[name]; ok {
		return p.parseBuiltinCall()
	}
	if p.isTypeName(name) {
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		return p.typeInExpr(typ)
	}
	return nil, p.nameErrorf(tok.Span, "undefined: %s", name)
}

// typeInExpr continues after a type in expression position: a composite
// literal or a conversion. A bare type name may not open a composite literal
// inside a control clause header.
func (p *Parser) typeInExpr(typ ast.TypeExpr) (ast.Expr, error) {
	switch p.curTok.Type {
	case lexer.LBRACE:
		if _, bare := typ.(*ast.NamedType); !bare || p.exprLev >= 0 {
			return p.parseCompositeLit(typ, typ.Attr().DataType, typ.Span())
		}
	case lexer.LPAREN:
		return p.parseConversion(typ)
	}
	if at, ok := typ.(*ast.ArrayType); ok && at.Len == nil {
		return nil, p.syntaxErrorf(typ.Span(), "invalid use of [...] array (outside a composite literal)")
	}
	return nil, p.typeErrorf(typ.Span(), "%s (type) is not an expression", typeString(typ.Attr().DataType))
}

// parseQualified parses pkg.Name on an imported package. Imported members are
// untyped; they may be called for effect but not used as values.
func (p *Parser) parseQualified() (ast.Expr, error) {
	tok := p.curTok
	p.nextToken()
	pkg := ast.NewIdent(tok.Literal, tok.Span)
	pkg.Label = p.imports[tok.Literal]
	if _, err := p.expect(lexer.PERIOD, "after package name "+tok.Literal); err != nil {
		return nil, err
	}
	selTok, err := p.expect(lexer.IDENT, "in selector")
	if err != nil {
		return nil, err
	}
	sel := ast.NewSelectorExpr(pkg, ast.NewIdent(selTok.Literal, selTok.Span), p.span(tok.Span))
	p.reduce("Selector", sel)
	if p.curTok.Type != lexer.LPAREN {
		return sel, nil
	}

	args, ellipsis, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	for _, a := range args {
		if err := p.value(a); err != nil {
			return nil, err
		}
	}
	call := ast.NewCallExpr(sel, args, ellipsis, p.span(tok.Span))
	call.Kind = ast.CallExternal
	p.reduce("PrimaryExpr", call)
	return call, nil
}

func (p *Parser) parseSelector(x ast.Expr) (ast.Expr, error) {
	p.nextToken() // '.'
	selTok, err := p.expect(lexer.IDENT, "in selector")
	if err != nil {
		return nil, err
	}
	if err := p.value(x); err != nil {
		return nil, err
	}
	span := p.span(x.Span())
	sel := ast.NewIdent(selTok.Literal, selTok.Span)

	xt := x.Attr().DataType
	viaPtr := false
	if ptr, ok := xt.(*types.Pointer); ok && ptr.Level == 1 {
		xt = ptr.Base
		viaPtr = true
	}
	st, ok := xt.(*types.Struct)
	if !ok {
		return nil, p.typeErrorf(span, "%s.%s undefined (type %s has no field or method %s)", describe(x), sel.Name, x.Attr().DataType, sel.Name)
	}
	f, throughPtr, ok := lookupField(st, sel.Name)
	if !ok {
		return nil, p.typeErrorf(span, "%s.%s undefined (type %s has no field or method %s)", describe(x), sel.Name, x.Attr().DataType, sel.Name)
	}
	sel.DataType = f.Type

	se := ast.NewSelectorExpr(x, sel, span)
	se.DataType = f.Type
	se.Addressable = x.Attr().Addressable || viaPtr || throughPtr
	p.reduce("Selector", se)
	return se, nil
}

// lookupField finds name among the fields of st, then among the fields
// promoted from embedded structs, shallowest first. throughPtr is set when
// the path crosses an embedded pointer.
func lookupField(st *types.Struct, name string) (f types.Field, throughPtr, ok bool) {
	if f, ok := st.Field(name); ok {
		return f, false, true
	}
	for _, emb := range st.Fields {
		if !emb.Embedded {
			continue
		}
		t := emb.Type
		ptr := false
		if pt, isPtr := t.(*types.Pointer); isPtr && pt.Level == 1 {
			t = pt.Base
			ptr = true
		}
		inner, isStruct := t.(*types.Struct)
		if !isStruct {
			continue
		}
		if f, viaPtr, ok := lookupField(inner, name); ok {
			return f, ptr || viaPtr, true
		}
	}
	return types.Field{}, false, false
}

func (p *Parser) parseIndexOrSlice(x ast.Expr) (ast.Expr, error) {
	p.nextToken() // '['
	p.exprLev++

	var (
		idx     [3]ast.Expr
		ncolons int
		err     error
	)
	if p.curTok.Type != lexer.COLON {
		if idx[0], err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	for p.curTok.Type == lexer.COLON && ncolons < 2 {
		ncolons++
		p.nextToken()
		if p.curTok.Type != lexer.COLON && p.curTok.Type != lexer.RBRACK {
			if idx[ncolons], err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
	}
	p.exprLev--
	if _, err := p.expect(lexer.RBRACK, "in index expression"); err != nil {
		return nil, err
	}
	span := p.span(x.Span())

	if ncolons == 0 {
		if idx[0] == nil {
			return nil, p.syntaxErrorf(span, "expected operand")
		}
		return p.index(x, idx[0], span)
	}
	slice3 := ncolons == 2
	if slice3 {
		if idx[1] == nil {
			return nil, p.syntaxErrorf(span, "middle index required in 3-index slice")
		}
		if idx[2] == nil {
			return nil, p.syntaxErrorf(span, "final index required in 3-index slice")
		}
	}
	return p.slice(x, idx[0], idx[1], idx[2], slice3, span)
}

func (p *Parser) index(x, i ast.Expr, span lexer.Span) (ast.Expr, error) {
	if err := p.value(x); err != nil {
		return nil, err
	}
	if err := p.value(i); err != nil {
		return nil, err
	}
	xa := x.Attr()
	ie := ast.NewIndexExpr(x, i, span)

	t := xa.DataType
	addressable := xa.Addressable
	if ptr, ok := t.(*types.Pointer); ok && ptr.Level == 1 {
		if arr, ok := ptr.Base.(*types.Array); ok {
			t = arr
			addressable = true
		}
	}

	switch tt := t.(type) {
	case *types.Array:
		if err := p.checkIndex(i, tt.Len(), false); err != nil {
			return nil, err
		}
		ie.DataType = tt.Elem()
		ie.Addressable = addressable
	case *types.Slice:
		if err := p.checkIndex(i, -1, false); err != nil {
			return nil, err
		}
		ie.DataType = tt.Elem()
		ie.Addressable = true
	case *types.Map:
		if _, err := p.assignTo(i, tt.Key, false, "map index"); err != nil {
			return nil, err
		}
		ie.DataType = tt.Value
		ie.Addressable = true
	default:
		if !types.IsString(t) {
			return nil, p.typeErrorf(span, "invalid operation: cannot index %s (%s of type %s)", describe(x), kindWord(x), typeString(xa.DataType))
		}
		length := int64(-1)
		if xa.Const {
			length = int64(len(constant.StringVal(xa.Value)))
		}
		if err := p.checkIndex(i, length, false); err != nil {
			return nil, err
		}
		ie.DataType = types.Uint8
	}
	p.reduce("Index", ie)
	return ie, nil
}

// checkIndex validates an index or slice bound against length. Slice bounds
// may equal the length. A negative length means unknown.
func (p *Parser) checkIndex(i ast.Expr, length int64, bound bool) error {
	a := i.Attr()
	if !types.IsBasicInteger(a.DataType) {
		return p.typeErrorf(i.Span(), "invalid argument: index %s (%s of type %s) must be integer", describe(i), kindWord(i), typeString(a.DataType))
	}
	if !a.Const {
		return nil
	}
	n, ok := types.IntValue(a.Value)
	if !ok || n < 0 {
		return p.typeErrorf(i.Span(), "invalid argument: index %s (constant of type %s) must not be negative", describe(i), a.DataType)
	}
	if length >= 0 && (n > length || n == length && !bound) {
		return p.typeErrorf(i.Span(), "invalid argument: index %d out of bounds [0:%d]", n, length+boolInt(bound))
	}
	return nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (p *Parser) slice(x, lo, hi, max ast.Expr, slice3 bool, span lexer.Span) (ast.Expr, error) {
	if err := p.value(x); err != nil {
		return nil, err
	}
	xa := x.Attr()
	se := ast.NewSliceExpr(x, lo, hi, max, slice3, span)

	length := int64(-1)
	switch tt := xa.DataType.(type) {
	case *types.Array:
		if !xa.Addressable {
			return nil, p.typeErrorf(span, "invalid operation: %s (slice of unaddressable value)", describe(x))
		}
		length = tt.Len()
		se.DataType = types.NewSlice(tt.Elem())
	case *types.Pointer:
		arr, ok := tt.Elem().(*types.Array)
		if !ok || tt.Level != 1 {
			return nil, p.typeErrorf(span, "cannot slice %s (%s of type %s)", describe(x), kindWord(x), tt)
		}
		length = arr.Len()
		se.DataType = types.NewSlice(arr.Elem())
	case *types.Slice:
		se.DataType = tt
	default:
		if !types.IsString(xa.DataType) {
			return nil, p.typeErrorf(span, "cannot slice %s (%s of type %s)", describe(x), kindWord(x), typeString(xa.DataType))
		}
		if slice3 {
			return nil, p.typeErrorf(span, "invalid operation: 3-index slice of string")
		}
		if xa.Const {
			length = int64(len(constant.StringVal(xa.Value)))
		}
		se.DataType = xa.DataType
	}

	var prev int64 = -1
	for _, b := range []ast.Expr{lo, hi, max} {
		if b == nil {
			continue
		}
		if err := p.value(b); err != nil {
			return nil, err
		}
		if err := p.checkIndex(b, length, true); err != nil {
			return nil, err
		}
		if n, ok := types.IntValue(b.Attr().Value); ok && b.Attr().Const {
			if n < prev {
				return nil, p.typeErrorf(b.Span(), "invalid slice indices: %d < %d", n, prev)
			}
			prev = n
		}
	}
	p.reduce("Slice", se)
	return se, nil
}

// parseCallArgs parses a parenthesized argument list.
func (p *Parser) parseCallArgs() ([]ast.Expr, bool, error) {
	if _, err := p.expect(lexer.LPAREN, "in argument list"); err != nil {
		return nil, false, err
	}
	p.exprLev++
	var (
		args     []ast.Expr
		ellipsis bool
	)
	for p.curTok.Type != lexer.RPAREN && p.curTok.Type != lexer.EOF {
		x, err := p.parseExpr()
		if err != nil {
			return nil, false, err
		}
		args = append(args, x)
		if p.curTok.Type == lexer.ELLIPSIS {
			ellipsis = true
			p.nextToken()
		}
		if !p.got(lexer.COMMA) {
			break
		}
	}
	p.exprLev--
	if _, err := p.expect(lexer.RPAREN, "in argument list; possibly missing comma or )"); err != nil {
		return nil, false, err
	}
	return args, ellipsis, nil
}

func (p *Parser) parseCall(fun ast.Expr) (ast.Expr, error) {
	if sel, ok := fun.(*ast.SelectorExpr); ok && sel.Attr().DataType == nil {
		return nil, p.typeErrorf(fun.Span(), "invalid operation: cannot call %s", describe(fun))
	}
	if err := p.value(fun); err != nil {
		return nil, err
	}
	sig, ok := fun.Attr().DataType.(*types.Func)
	if !ok {
		return nil, p.typeErrorf(fun.Span(), "invalid operation: cannot call non-function %s (%s of type %s)", describe(fun), kindWord(fun), typeString(fun.Attr().DataType))
	}
	args, ellipsis, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	call := ast.NewCallExpr(fun, args, ellipsis, p.span(fun.Span()))
	if err := p.checkArgs(call, sig); err != nil {
		return nil, err
	}
	call.Kind = ast.CallFunc
	call.Results = sig.Results
	if len(sig.Results) > 0 {
		call.DataType = sig.Results[0]
	}
	p.reduce("Arguments", call)
	return call, nil
}

// checkArgs matches call arguments against a signature. A single
// multi-valued call may supply every argument.
func (p *Parser) checkArgs(call *ast.CallExpr, sig *types.Func) error {
	name := describe(call.Fun)
	args := call.Args

	if len(args) == 1 {
		if inner, ok := unparen(args[0]).(*ast.CallExpr); ok && len(inner.Results) > 1 {
			if call.Ellipsis {
				return p.typeErrorf(call.Span(), "cannot use ... with multi-valued %s", describe(inner))
			}
			have := inner.Results
			if !sig.Variadic && len(have) != len(sig.Params) || sig.Variadic && len(have) < len(sig.Params)-1 {
				return p.argCountError(call, sig, have)
			}
			for i, t := range have {
				want := paramAt(sig, i)
				if !types.Castable(want, t) {
					return p.typeErrorf(args[0].Span(), "cannot use %s (value of type %s) as %s value in argument to %s", describe(inner), t, want, name)
				}
			}
			return nil
		}
	}

	have := make([]types.Type, len(args))
	for i, a := range args {
		if err := p.value(a); err != nil {
			return err
		}
		have[i] = a.Attr().DataType
	}

	if call.Ellipsis {
		if !sig.Variadic {
			return p.typeErrorf(call.Span(), "have (...) use of ... in call to non-variadic %s", name)
		}
		if len(args) != len(sig.Params) {
			return p.argCountError(call, sig, have)
		}
		for i, a := range args {
			if _, err := p.assignTo(a, sig.Params[i], false, "argument to "+name); err != nil {
				return err
			}
		}
		return nil
	}

	if sig.Variadic {
		if len(args) < len(sig.Params)-1 {
			return p.argCountError(call, sig, have)
		}
	} else if len(args) != len(sig.Params) {
		return p.argCountError(call, sig, have)
	}
	for i, a := range args {
		if _, err := p.assignTo(a, paramAt(sig, i), false, "argument to "+name); err != nil {
			return err
		}
	}
	return nil
}

// paramAt returns the type the i'th argument must have, unpacking the
// variadic tail.
func paramAt(sig *types.Func, i int) types.Type {
	n := len(sig.Params)
	if sig.Variadic && i >= n-1 {
		return sig.Params[n-1].(*types.Slice).Elem()
	}
	return sig.Params[i]
}

func (p *Parser) argCountError(call *ast.CallExpr, sig *types.Func, have []types.Type) error {
	word := "not enough"
	if len(have) > len(sig.Params) && !sig.Variadic {
		word = "too many"
	}
	return p.typeErrorf(call.Span(), "%s arguments in call to %s\n\thave (%s)\n\twant %s",
		word, describe(call.Fun), joinTypes(have), strings.TrimPrefix(sig.String(), "func"))
}

func (p *Parser) parseConversion(typ ast.TypeExpr) (ast.Expr, error) {
	t := typ.Attr().DataType
	top := ast.NewTypeOperand(typ, typ.Span())
	top.DataType = t

	args, ellipsis, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	span := p.span(typ.Span())
	if ellipsis {
		return nil, p.typeErrorf(span, "invalid use of ... in conversion to %s", t)
	}
	switch {
	case len(args) == 0:
		return nil, p.typeErrorf(span, "missing argument in conversion to %s", t)
	case len(args) > 1:
		return nil, p.typeErrorf(span, "too many arguments in conversion to %s", t)
	}
	x := args[0]
	if err := p.value(x); err != nil {
		return nil, err
	}
	xa := x.Attr()
	if !types.Convertible(t, xa.DataType) {
		return nil, p.typeErrorf(span, "cannot convert %s (%s of type %s) to type %s", describe(x), kindWord(x), xa.DataType, t)
	}

	call := ast.NewCallExpr(top, args, false, span)
	call.Kind = ast.CallConversion
	call.DataType = t
	call.Results = []types.Type{t}
	if xa.Const && types.KindOf(t) != types.KindInvalid {
		v, err := types.Convert(xa.Value, t)
		if err != nil {
			return nil, p.typeErrorf(span, "cannot convert %s (constant of type %s) to type %s: %s", describe(x), xa.DataType, t, err.Error())
		}
		call.Const = true
		call.Value = v
	}
	p.reduce("Conversion", call)
	return call, nil
}

func (p *Parser) parseFuncLit() (ast.Expr, error) {
	start := p.curTok.Span
	p.nextToken() // 'func'
	ftype, err := p.parseSignature(start)
	if err != nil {
		return nil, err
	}
	if p.curTok.Type != lexer.LBRACE {
		return p.typeInExpr(ftype)
	}

	outer := "glob"
	if p.fn != nil {
		p.fn.lits++
		outer = fmt.Sprintf("%s.func%d", p.fn.name, p.fn.lits)
	}
	body, err := p.parseFuncBody(outer, ftype)
	if err != nil {
		return nil, err
	}
	fl := ast.NewFuncLit(ftype, body, p.span(start))
	fl.DataType = ftype.DataType
	p.reduce("FunctionLit", fl)
	return fl, nil
}

// value checks that x denotes exactly one value.
func (p *Parser) value(x ast.Expr) error {
	switch n := unparen(x).(type) {
	case *ast.Ident:
		if n.Name == "_" && n.DataType == nil {
			return p.typeErrorf(x.Span(), "cannot use _ as value")
		}
	case *ast.CallExpr:
		if len(n.Results) > 1 {
			return p.typeErrorf(x.Span(), "multiple-value %s (value of type (%s)) in single-value context", describe(n), joinTypes(n.Results))
		}
	case *ast.SelectorExpr:
		if n.DataType == nil {
			return p.typeErrorf(x.Span(), "%s is not supported as a value (member of imported package %s)", describe(n), n.X.Attr().Label)
		}
	case *ast.TypeOperand:
		return p.typeErrorf(x.Span(), "%s (type) is not an expression", typeString(n.DataType))
	}
	if x.Attr().DataType == nil {
		return p.typeErrorf(x.Span(), "%s (no value) used as value", describe(x))
	}
	return nil
}

// assignTo checks that x may be stored in a location of type t and returns
// its constant value converted to t. exact demands identical types unless x
// is an untyped constant, which only has to be representable in t.
func (p *Parser) assignTo(x ast.Expr, t types.Type, exact bool, context string) (constant.Value, error) {
	if err := p.value(x); err != nil {
		return nil, err
	}
	a := x.Attr()
	ok := types.Identical(t, a.DataType)
	switch {
	case ok:
	case a.Const && a.Untyped:
		ok = types.IsBasicNumeric(t) && types.IsBasicNumeric(a.DataType) || types.Castable(t, a.DataType)
	case !exact:
		ok = types.Castable(t, a.DataType)
	}
	if !ok {
		return nil, p.typeErrorf(x.Span(), "cannot use %s (%s of type %s) as %s value in %s", describe(x), kindWord(x), a.DataType, t, context)
	}
	if !a.Const || a.Value == nil || types.KindOf(t) == types.KindInvalid {
		return a.Value, nil
	}
	v, err := types.Convert(a.Value, t)
	if err != nil {
		return nil, p.typeErrorf(x.Span(), "cannot use %s (constant of type %s) as %s value in %s (%s)", describe(x), a.DataType, t, context, err.Error())
	}
	return v, nil
}

func kindWord(x ast.Expr) string {
	a := x.Attr()
	switch {
	case a.Const:
		return "constant"
	case a.Addressable:
		if _, ok := unparen(x).(*ast.Ident); ok {
			return "variable"
		}
	}
	return "value"
}

func joinTypes(ts []types.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = typeString(t)
	}
	return strings.Join(parts, ", ")
}
