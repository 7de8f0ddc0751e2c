package parser

import (
	"github.com/malphas-lang/gofront/internal/ast"
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/types"
)

func (p *Parser) parseBasicLit() (*ast.BasicLit, error) {
	tok := p.curTok
	p.nextToken()

	v, err := types.Literal(literalKind(tok.Type), tok.Literal)
	if err != nil {
		return nil, p.syntaxErrorf(tok.Span, "%s", err.Error())
	}
	t := defaultType(tok.Type)
	if v, err = types.Represent(v, t); err != nil {
		return nil, p.typeErrorf(tok.Span, "cannot use %s (untyped %s constant) as %s value: %s", tok.Literal, literalKind(tok.Type), t, err.Error())
	}

	lit := ast.NewBasicLit(tok.Type, tok.Literal, tok.Span)
	lit.DataType = t
	lit.Const = true
	lit.Untyped = true
	lit.Value = v
	p.reduce("BasicLit", lit)
	return lit, nil
}

// parseCompositeLit parses the braced element list of a literal of type t.
// typ is nil for elided element literals such as the inner braces of
// [][]int{{1}, {2}}.
func (p *Parser) parseCompositeLit(typ ast.TypeExpr, t types.Type, start lexer.Span) (*ast.CompositeLit, error) {
	if _, err := p.expect(lexer.LBRACE, "in composite literal"); err != nil {
		return nil, err
	}
	outer := p.exprLev
	p.exprLev = 0

	var (
		elts []ast.Expr
		err  error
	)
	autoLen := false
	if at, ok := typ.(*ast.ArrayType); ok && at.Len == nil {
		autoLen = true
		t = types.NewArray(at.Elem.Attr().DataType, -1)
	}

	switch tt := t.(type) {
	case *types.Struct:
		elts, err = p.parseStructElts(tt)
	case *types.Array:
		var n int64
		elts, n, err = p.parseIndexedElts(tt.Elem(), tt.Len(), autoLen)
		if err == nil && autoLen {
			t = types.NewArray(tt.Elem(), n)
			typ.Attr().DataType = t
			p.reduce("ArrayType", typ)
		}
	case *types.Slice:
		elts, _, err = p.parseIndexedElts(tt.Elem(), -1, false)
	case *types.Map:
		elts, err = p.parseMapElts(tt)
	default:
		return nil, p.typeErrorf(start, "invalid composite literal type %s", typeString(t))
	}
	if err != nil {
		return nil, err
	}

	p.exprLev = outer
	if _, err := p.expect(lexer.RBRACE, "in composite literal; possibly missing comma or }"); err != nil {
		return nil, err
	}
	cl := ast.NewCompositeLit(typ, elts, p.span(start))
	cl.DataType = t
	p.reduce("CompositeLit", cl)
	return cl, nil
}

// parseElementValue parses an element, which may be an elided composite
// literal of type t.
func (p *Parser) parseElementValue(t types.Type) (ast.Expr, error) {
	if p.curTok.Type == lexer.LBRACE {
		return p.parseCompositeLit(nil, t, p.curTok.Span)
	}
	return p.parseExpr()
}

// eltsDone consumes the separator after an element and reports whether the
// list ended.
func (p *Parser) eltsDone() bool {
	if p.got(lexer.COMMA) {
		return p.curTok.Type == lexer.RBRACE
	}
	return true
}

func (p *Parser) parseStructElts(st *types.Struct) ([]ast.Expr, error) {
	var elts []ast.Expr
	if p.curTok.Type == lexer.RBRACE {
		return nil, nil
	}

	keyed := p.curTok.Type == lexer.IDENT && p.peekTok.Type == lexer.COLON
	if keyed {
		seen := make(map[string]bool)
		for {
			if p.curTok.Type != lexer.IDENT || p.peekTok.Type != lexer.COLON {
				return nil, p.syntaxErrorf(p.curTok.Span, "mixture of field:value and value elements in struct literal")
			}
			keyTok := p.curTok
			p.nextToken()
			p.nextToken() // ':'
			f, ok := st.Field(keyTok.Literal)
			if !ok || keyTok.Literal == "_" {
				return nil, p.typeErrorf(keyTok.Span, "unknown field %s in struct literal of type %s", keyTok.Literal, st)
			}
			if seen[f.Name] {
				return nil, p.typeErrorf(keyTok.Span, "duplicate field name %s in struct literal", f.Name)
			}
			seen[f.Name] = true
			key := ast.NewIdent(keyTok.Literal, keyTok.Span)
			key.DataType = f.Type

			v, err := p.parseElementValue(f.Type)
			if err != nil {
				return nil, err
			}
			if _, err := p.assignTo(v, f.Type, false, "struct literal"); err != nil {
				return nil, err
			}
			kv := ast.NewKeyValueExpr(key, v, mergeSpan(key.Span(), v.Span()))
			kv.DataType = f.Type
			p.reduce("KeyedElement", kv)
			elts = append(elts, kv)
			if p.eltsDone() {
				return elts, nil
			}
		}
	}

	for {
		if p.curTok.Type == lexer.IDENT && p.peekTok.Type == lexer.COLON {
			return nil, p.syntaxErrorf(p.curTok.Span, "mixture of field:value and value elements in struct literal")
		}
		i := len(elts)
		if i >= len(st.Fields) {
			return nil, p.typeErrorf(p.curTok.Span, "too many values in struct literal of type %s", st)
		}
		f := st.Fields[i]
		v, err := p.parseElementValue(f.Type)
		if err != nil {
			return nil, err
		}
		if _, err := p.assignTo(v, f.Type, false, "struct literal"); err != nil {
			return nil, err
		}
		p.reduce("KeyedElement", v)
		elts = append(elts, v)
		if p.eltsDone() {
			break
		}
	}
	if len(elts) < len(st.Fields) {
		return nil, p.typeErrorf(p.curTok.Span, "too few values in struct literal of type %s", st)
	}
	return elts, nil
}

// parseIndexedElts parses array or slice elements. length is negative for
// slices and for [...] arrays; the returned count is the literal's length.
func (p *Parser) parseIndexedElts(elem types.Type, length int64, autoLen bool) ([]ast.Expr, int64, error) {
	var (
		elts []ast.Expr
		next int64
		max  int64
		seen = make(map[int64]bool)
	)
	if autoLen {
		length = -1
	}
	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		var (
			key ast.Expr
			v   ast.Expr
			err error
		)
		if p.curTok.Type == lexer.LBRACE {
			v, err = p.parseElementValue(elem)
		} else {
			v, err = p.parseExpr()
			if err == nil && p.got(lexer.COLON) {
				key = v
				v, err = p.parseElementValue(elem)
			}
		}
		if err != nil {
			return nil, 0, err
		}

		if key != nil {
			if err := p.value(key); err != nil {
				return nil, 0, err
			}
			ka := key.Attr()
			n, ok := types.IntValue(ka.Value)
			if !ka.Const || !types.IsBasicInteger(ka.DataType) || !ok {
				return nil, 0, p.typeErrorf(key.Span(), "index %s must be integer constant", describe(key))
			}
			if n < 0 {
				return nil, 0, p.typeErrorf(key.Span(), "index %s must be non-negative integer constant", describe(key))
			}
			next = n
		}
		if length >= 0 && next >= length {
			return nil, 0, p.typeErrorf(v.Span(), "index %d out of bounds [0:%d]", next, length)
		}
		if seen[next] {
			return nil, 0, p.typeErrorf(v.Span(), "duplicate index %d in array or slice literal", next)
		}
		seen[next] = true

		if _, err := p.assignTo(v, elem, false, "array or slice literal"); err != nil {
			return nil, 0, err
		}
		elt := v
		if key != nil {
			kv := ast.NewKeyValueExpr(key, v, mergeSpan(key.Span(), v.Span()))
			kv.DataType = elem
			elt = kv
		}
		p.reduce("KeyedElement", elt)
		elts = append(elts, elt)

		next++
		if next > max {
			max = next
		}
		if p.eltsDone() {
			break
		}
	}
	return elts, max, nil
}

func (p *Parser) parseMapElts(mt *types.Map) ([]ast.Expr, error) {
	var elts []ast.Expr
	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		key, err := p.parseElementValue(mt.Key)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON, "in map literal; missing key"); err != nil {
			return nil, err
		}
		v, err := p.parseElementValue(mt.Value)
		if err != nil {
			return nil, err
		}
		if _, err := p.assignTo(key, mt.Key, false, "map literal"); err != nil {
			return nil, err
		}
		if _, err := p.assignTo(v, mt.Value, false, "map literal"); err != nil {
			return nil, err
		}
		kv := ast.NewKeyValueExpr(key, v, mergeSpan(key.Span(), v.Span()))
		kv.DataType = mt.Value
		p.reduce("KeyedElement", kv)
		elts = append(elts, kv)
		if p.eltsDone() {
			break
		}
	}
	return elts, nil
}
