package parser

import (
	"github.com/malphas-lang/gofront/internal/ast"
	"github.com/malphas-lang/gofront/internal/labels"
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/symtab"
	"github.com/malphas-lang/gofront/internal/types"
)

// paramItem is one comma separated entry of a parameter list before the
// list is known to be named or unnamed. bare holds a lone identifier whose
// role is decided once the whole list has been read.
type paramItem struct {
	name     *ast.Ident
	typ      ast.TypeExpr
	bare     *lexer.Token
	variadic bool
	span     lexer.Span
}

// parseSignature parses Parameters [Result] and resolves the signature. start
// is the span of the introducing 'func' keyword.
func (p *Parser) parseSignature(start lexer.Span) (*ast.FuncType, error) {
	params, err := p.parseParameters(false)
	if err != nil {
		return nil, err
	}

	var results []*ast.Param
	switch {
	case p.curTok.Type == lexer.LPAREN:
		if results, err = p.parseParameters(true); err != nil {
			return nil, err
		}
	case p.curTok.Type != lexer.LBRACE && isTypeStart(p.curTok.Type):
		rstart := p.curTok.Span
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		res := ast.NewParam(nil, typ, false, p.span(rstart))
		res.DataType = typ.Attr().DataType
		results = []*ast.Param{res}
	}

	ftype := ast.NewFuncType(params, results, p.span(start))
	sig := &types.Func{}
	for _, prm := range params {
		for range prm.Count() {
			sig.Params = append(sig.Params, prm.DataType)
		}
		if prm.Variadic {
			sig.Variadic = true
		}
	}
	for _, res := range results {
		for range res.Count() {
			sig.Results = append(sig.Results, res.DataType)
		}
	}
	ftype.DataType = sig
	p.reduce("Signature", ftype)
	return ftype, nil
}

// parseParameters parses a parenthesized parameter or result list and groups
// `a, b T` entries the way Go does.
func (p *Parser) parseParameters(results bool) ([]*ast.Param, error) {
	context := "in parameter list"
	if results {
		context = "in result list"
	}
	if _, err := p.expect(lexer.LPAREN, context); err != nil {
		return nil, err
	}

	var items []paramItem
	named := false
	for p.curTok.Type != lexer.RPAREN && p.curTok.Type != lexer.EOF {
		item, err := p.parseParamItem()
		if err != nil {
			return nil, err
		}
		if item.name != nil {
			named = true
		}
		items = append(items, item)
		if !p.got(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.RPAREN, context); err != nil {
		return nil, err
	}

	var params []*ast.Param
	if named {
		var pending []*ast.Ident
		for _, item := range items {
			switch {
			case item.bare != nil:
				pending = append(pending, ast.NewIdent(item.bare.Literal, item.bare.Span))
			case item.name == nil:
				return nil, p.syntaxErrorf(item.span, "mixed named and unnamed parameters")
			default:
				names := append(pending, item.name)
				pending = nil
				prm := ast.NewParam(names, item.typ, item.variadic, mergeSpan(names[0].Span(), item.span))
				params = append(params, prm)
			}
		}
		if len(pending) > 0 {
			return nil, p.syntaxErrorf(pending[len(pending)-1].Span(), "mixed named and unnamed parameters")
		}
	} else {
		for _, item := range items {
			typ := item.typ
			if item.bare != nil {
				nt, err := p.resolveBareType(item.bare)
				if err != nil {
					return nil, err
				}
				typ = nt
			}
			params = append(params, ast.NewParam(nil, typ, item.variadic, item.span))
		}
	}

	for i, prm := range params {
		if prm.Variadic && (results || i != len(params)-1 || len(prm.Names) > 1) {
			return nil, p.syntaxErrorf(prm.Span(), "can only use ... with final parameter in list")
		}
		t := prm.Type.Attr().DataType
		if prm.Variadic {
			t = types.NewSlice(t)
		}
		prm.DataType = t
		for _, name := range prm.Names {
			name.DataType = t
		}
		p.reduce("ParameterDecl", prm)
	}
	return params, nil
}

func (p *Parser) parseParamItem() (paramItem, error) {
	start := p.curTok.Span
	if p.curTok.Type == lexer.IDENT {
		switch p.peekTok.Type {
		case lexer.COMMA, lexer.RPAREN:
			tok := p.curTok
			p.nextToken()
			return paramItem{bare: &tok, span: tok.Span}, nil
		case lexer.PERIOD:
		default:
			tok := p.curTok
			p.nextToken()
			name := ast.NewIdent(tok.Literal, tok.Span)
			variadic := p.got(lexer.ELLIPSIS)
			typ, err := p.parseType()
			if err != nil {
				return paramItem{}, err
			}
			return paramItem{name: name, typ: typ, variadic: variadic, span: p.span(start)}, nil
		}
	}
	variadic := p.got(lexer.ELLIPSIS)
	typ, err := p.parseType()
	if err != nil {
		return paramItem{}, err
	}
	return paramItem{typ: typ, variadic: variadic, span: p.span(start)}, nil
}

func (p *Parser) resolveBareType(tok *lexer.Token) (*ast.NamedType, error) {
	name := ast.NewIdent(tok.Literal, tok.Span)
	t, err := p.lookupType(name)
	if err != nil {
		return nil, err
	}
	nt := ast.NewNamedType(nil, name, tok.Span)
	nt.DataType = t
	name.DataType = t
	p.reduce("TypeName", nt)
	return nt, nil
}

// parseFuncBody parses the body of a function declaration or literal in a
// fresh scope holding the parameters and named results. Each body gets its
// own label table and control-flow context.
func (p *Parser) parseFuncBody(name string, ftype *ast.FuncType) (*ast.BlockStmt, error) {
	sig := ftype.FuncSig()
	prevCtx := p.sess.EnterFunc(sig.Results)
	prevFn := p.fn

	table := labels.NewTable(name, p.filename)
	p.tables = append(p.tables, table)
	p.fn = &funcState{name: name, labels: table}

	p.sess.EnterScope()
	p.sess.EnterBlock()

	line := ftype.Span().Line
	for _, prm := range ftype.Params {
		for _, id := range prm.Names {
			if err := p.sess.Add(id.Name, &symtab.Entry{Type: prm.DataType, IsArg: true, Line: line}); err != nil {
				return nil, p.symbolError(id.Span(), err)
			}
		}
	}
	for _, res := range ftype.Results {
		if len(res.Names) > 0 {
			p.fn.namedResults = true
		}
		for _, id := range res.Names {
			if err := p.sess.Add(id.Name, &symtab.Entry{Type: res.DataType, Line: line}); err != nil {
				return nil, p.symbolError(id.Span(), err)
			}
		}
	}

	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}

	p.sess.ExitBlock()
	if err := p.sess.ExitScope(); err != nil {
		return nil, p.logicalErrorf(body.Span(), "%s", err.Error())
	}
	p.fn = prevFn
	p.sess.LeaveFunc(prevCtx)
	return body, nil
}
