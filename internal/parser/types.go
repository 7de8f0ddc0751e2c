package parser

import (
	"errors"

	"github.com/malphas-lang/gofront/internal/ast"
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/symtab"
	"github.com/malphas-lang/gofront/internal/types"
)

// parseType parses a type expression and resolves it to a descriptor stored
// in the node's DataType.
func (p *Parser) parseType() (ast.TypeExpr, error) {
	return p.parseTypeLit(false)
}

// parseTypeLit is parseType with `[...]T` allowed, as in composite literal
// types. The array length is then left for the literal to fill in.
func (p *Parser) parseTypeLit(ellipsisOK bool) (ast.TypeExpr, error) {
	switch p.curTok.Type {
	case lexer.IDENT:
		return p.parseTypeName()
	case lexer.MUL:
		return p.parsePointerType()
	case lexer.LBRACK:
		return p.parseArrayOrSliceType(ellipsisOK)
	case lexer.MAP:
		return p.parseMapType()
	case lexer.STRUCT:
		return p.parseStructType()
	case lexer.FUNC:
		start := p.curTok.Span
		p.nextToken()
		ftype, err := p.parseSignature(start)
		if err != nil {
			return nil, err
		}
		p.reduce("FunctionType", ftype)
		return ftype, nil
	case lexer.LPAREN:
		p.nextToken()
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "in parenthesized type"); err != nil {
			return nil, err
		}
		return typ, nil
	case lexer.CHAN, lexer.INTERFACE:
		return nil, p.syntaxErrorf(p.curTok.Span, "%s types are not supported", p.curTok.Literal)
	}
	return nil, p.unexpected(p.curTok, "type", "")
}

func (p *Parser) parseTypeName() (*ast.NamedType, error) {
	start := p.curTok.Span
	tok := p.curTok
	p.nextToken()
	name := ast.NewIdent(tok.Literal, tok.Span)

	if _, isPkg := p.imports[tok.Literal]; isPkg && p.curTok.Type == lexer.PERIOD {
		p.nextToken()
		selTok, err := p.expect(lexer.IDENT, "in qualified type")
		if err != nil {
			return nil, err
		}
		return nil, p.typeErrorf(p.span(start), "qualified type %s.%s is not supported", tok.Literal, selTok.Literal)
	}

	t, err := p.lookupType(name)
	if err != nil {
		return nil, err
	}
	nt := ast.NewNamedType(nil, name, p.span(start))
	nt.DataType = t
	name.DataType = t
	p.reduce("TypeName", nt)
	return nt, nil
}

// lookupType resolves a type name through the session.
func (p *Parser) lookupType(name *ast.Ident) (types.Type, error) {
	if name.Name == "_" {
		return nil, p.nameErrorf(name.Span(), "cannot use _ as value or type")
	}
	t, err := p.sess.FindType(name.Name)
	if err != nil {
		if errors.Is(err, symtab.ErrTypeNotFound) {
			if _, verr := p.sess.Get(name.Name); verr == nil {
				return nil, p.typeErrorf(name.Span(), "%s is not a type", name.Name)
			}
			if _, ok := p.sess.LookupFunction(name.Name); ok {
				return nil, p.typeErrorf(name.Span(), "%s is not a type", name.Name)
			}
			return nil, p.nameErrorf(name.Span(), "undefined: %s", name.Name)
		}
		return nil, p.symbolError(name.Span(), err)
	}
	return t, nil
}

// isTypeName reports whether name currently denotes a type rather than a
// value. A variable anywhere in the scope chain shadows a type.
func (p *Parser) isTypeName(name string) bool {
	if name == "_" || p.sess.GetScope(name) >= 0 {
		return false
	}
	if _, ok := p.sess.LookupFunction(name); ok {
		return false
	}
	_, err := p.sess.FindType(name)
	return err == nil
}

func (p *Parser) parsePointerType() (*ast.PointerType, error) {
	start := p.curTok.Span
	p.nextToken() // '*'
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	pt := ast.NewPointerType(elem, p.span(start))
	pt.DataType = types.NewPointer(elem.Attr().DataType)
	p.reduce("PointerType", pt)
	return pt, nil
}

func (p *Parser) parseArrayOrSliceType(ellipsisOK bool) (ast.TypeExpr, error) {
	start := p.curTok.Span
	p.nextToken() // '['

	if p.got(lexer.RBRACK) {
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		st := ast.NewSliceType(elem, p.span(start))
		st.DataType = types.NewSlice(elem.Attr().DataType)
		p.reduce("SliceType", st)
		return st, nil
	}

	if p.curTok.Type == lexer.ELLIPSIS {
		if !ellipsisOK {
			return nil, p.syntaxErrorf(p.curTok.Span, "invalid use of [...] array (outside a composite literal)")
		}
		p.nextToken()
		if _, err := p.expect(lexer.RBRACK, "in array type"); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		// DataType is set by the composite literal once the length is known.
		return ast.NewArrayType(nil, elem, p.span(start)), nil
	}

	p.exprLev++
	length, err := p.parseExpr()
	p.exprLev--
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACK, "in array type"); err != nil {
		return nil, err
	}
	n, err := p.arrayLength(length)
	if err != nil {
		return nil, err
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	at := ast.NewArrayType(length, elem, p.span(start))
	at.DataType = types.NewArray(elem.Attr().DataType, n)
	p.reduce("ArrayType", at)
	return at, nil
}

// arrayLength checks that x is a constant non-negative integer.
func (p *Parser) arrayLength(x ast.Expr) (int64, error) {
	if err := p.value(x); err != nil {
		return 0, err
	}
	a := x.Attr()
	if !a.Const {
		return 0, p.typeErrorf(x.Span(), "array length %s (variable of type %s) must be constant", describe(x), typeString(a.DataType))
	}
	if !types.IsBasicInteger(a.DataType) {
		return 0, p.typeErrorf(x.Span(), "array length %s (value of type %s) must be integer", describe(x), typeString(a.DataType))
	}
	n, ok := types.IntValue(a.Value)
	if !ok || n < 0 {
		return 0, p.typeErrorf(x.Span(), "invalid array length %s", describe(x))
	}
	return n, nil
}

func (p *Parser) parseMapType() (*ast.MapType, error) {
	start := p.curTok.Span
	p.nextToken() // 'map'
	if _, err := p.expect(lexer.LBRACK, "in map type"); err != nil {
		return nil, err
	}
	key, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACK, "in map type"); err != nil {
		return nil, err
	}
	value, err := p.parseType()
	if err != nil {
		return nil, err
	}
	mt := ast.NewMapType(key, value, p.span(start))
	m, err := types.NewMap(key.Attr().DataType, value.Attr().DataType)
	if err != nil {
		return nil, p.typeError(key.Span(), err)
	}
	mt.DataType = m
	p.reduce("MapType", mt)
	return mt, nil
}

func (p *Parser) parseStructType() (*ast.StructType, error) {
	start := p.curTok.Span
	p.nextToken() // 'struct'
	if _, err := p.expect(lexer.LBRACE, "in struct type"); err != nil {
		return nil, err
	}

	var (
		decls  []*ast.FieldDecl
		fields []types.Field
		seen   = make(map[string]lexer.Span)
	)
	for p.curTok.Type != lexer.RBRACE && p.curTok.Type != lexer.EOF {
		fd, err := p.parseFieldDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, fd)

		t := fd.Type.Attr().DataType
		add := func(name string, span lexer.Span, embedded bool) error {
			if name == "_" {
				fields = append(fields, types.Field{Name: name, Type: t, Tag: fd.Tag})
				return nil
			}
			if prev, dup := seen[name]; dup {
				return p.nameErrorf(span, "%s redeclared (previous declaration at line %d)", name, prev.Line)
			}
			seen[name] = span
			fields = append(fields, types.Field{Name: name, Type: t, Embedded: embedded, Tag: fd.Tag})
			return nil
		}
		if len(fd.Names) == 0 {
			if err := add(embeddedName(fd.Type), fd.Span(), true); err != nil {
				return nil, err
			}
		}
		for _, name := range fd.Names {
			name.DataType = t
			if err := add(name.Name, name.Span(), false); err != nil {
				return nil, err
			}
		}

		if err := p.expectSemi("in struct type"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RBRACE, "in struct type"); err != nil {
		return nil, err
	}

	st := ast.NewStructType(decls, p.span(start))
	st.DataType = &types.Struct{Fields: fields}
	p.reduce("StructType", st)
	return st, nil
}

func (p *Parser) parseFieldDecl() (*ast.FieldDecl, error) {
	start := p.curTok.Span

	embedded := p.curTok.Type == lexer.MUL
	if p.curTok.Type == lexer.IDENT {
		switch p.peekTok.Type {
		case lexer.SEMICOLON, lexer.RBRACE, lexer.STRING, lexer.PERIOD:
			embedded = true
		}
	}

	var (
		names []*ast.Ident
		typ   ast.TypeExpr
		err   error
	)
	if embedded {
		if typ, err = p.parseType(); err != nil {
			return nil, err
		}
		if embeddedName(typ) == "" {
			return nil, p.syntaxErrorf(typ.Span(), "embedded field type must be a type name or a pointer to one")
		}
	} else {
		if names, err = p.parseIdentList("in struct field"); err != nil {
			return nil, err
		}
		if typ, err = p.parseType(); err != nil {
			return nil, err
		}
	}

	var tag string
	if p.curTok.Type == lexer.STRING {
		tag = p.curTok.Value
		p.nextToken()
	}
	fd := ast.NewFieldDecl(names, typ, tag, p.span(start))
	fd.DataType = typ.Attr().DataType
	p.reduce("FieldDecl", fd)
	return fd, nil
}

// embeddedName returns the field name an embedded T or *T introduces.
func embeddedName(typ ast.TypeExpr) string {
	switch t := typ.(type) {
	case *ast.NamedType:
		return t.Name.Name
	case *ast.PointerType:
		if nt, ok := t.Elem.(*ast.NamedType); ok {
			return nt.Name.Name
		}
	}
	return ""
}

// declareType registers a type spec in the current scope. Definitions and
// aliases behave the same: both resolve to the target's descriptor.
func (p *Parser) declareType(spec *ast.TypeSpec) error {
	t := spec.Type.Attr().DataType
	if err := p.sess.AddType(spec.Name.Name, t); err != nil {
		return p.symbolError(spec.Name.Span(), err)
	}
	resolved, err := p.sess.FindType(spec.Name.Name)
	if err != nil && spec.Name.Name != "_" {
		return p.symbolError(spec.Name.Span(), err)
	}
	if resolved == nil {
		resolved = t
	}
	spec.Name.DataType = resolved
	spec.DataType = resolved
	p.logger.Debug("declare type", "name", spec.Name.Name, "type", resolved.String(), "alias", spec.Alias)
	return nil
}
