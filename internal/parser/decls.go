package parser

import (
	"strconv"

	"github.com/malphas-lang/gofront/internal/ast"
	"github.com/malphas-lang/gofront/internal/lexer"
)

// parseSourceFile parses the package clause, imports and top-level
// declarations, then checks that every goto found its label.
func (p *Parser) parseSourceFile() (*ast.File, error) {
	start := p.curTok.Span

	if _, err := p.expect(lexer.PACKAGE, "at start of file"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT, "in package clause")
	if err != nil {
		return nil, err
	}
	if nameTok.Literal == "_" {
		return nil, p.syntaxErrorf(nameTok.Span, "invalid package name _")
	}
	pkg := ast.NewIdent(nameTok.Literal, nameTok.Span)
	p.reduce("PackageClause", pkg)
	if err := p.expectSemi("after package clause"); err != nil {
		return nil, err
	}

	var imports []*ast.ImportSpec
	for p.curTok.Type == lexer.IMPORT {
		specs, err := p.parseImportDecl()
		if err != nil {
			return nil, err
		}
		imports = append(imports, specs...)
		if err := p.expectSemi("after import declaration"); err != nil {
			return nil, err
		}
	}

	var decls []ast.Decl
	for p.curTok.Type != lexer.EOF {
		decl, err := p.parseTopLevelDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
		if p.curTok.Type != lexer.EOF {
			if _, err := p.expect(lexer.SEMICOLON, "after top level declaration"); err != nil {
				return nil, err
			}
		}
	}

	for _, tab := range p.tables {
		if err := tab.Finish(); err != nil {
			return nil, err
		}
	}

	file := ast.NewFile(pkg, imports, decls, p.span(start))
	p.reduce("SourceFile", file)
	return file, nil
}

func (p *Parser) parseImportDecl() ([]*ast.ImportSpec, error) {
	p.nextToken() // 'import'
	if !p.got(lexer.LPAREN) {
		spec, err := p.parseImportSpec()
		if err != nil {
			return nil, err
		}
		return []*ast.ImportSpec{spec}, nil
	}
	var specs []*ast.ImportSpec
	for p.curTok.Type != lexer.RPAREN && p.curTok.Type != lexer.EOF {
		spec, err := p.parseImportSpec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
		if err := p.expectSemi("in import list"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RPAREN, "in import list"); err != nil {
		return nil, err
	}
	return specs, nil
}

func (p *Parser) parseImportSpec() (*ast.ImportSpec, error) {
	start := p.curTok.Span
	var name *ast.Ident
	switch p.curTok.Type {
	case lexer.IDENT:
		name = ast.NewIdent(p.curTok.Literal, p.curTok.Span)
		p.nextToken()
	case lexer.PERIOD:
		name = ast.NewIdent(".", p.curTok.Span)
		p.nextToken()
	}
	pathTok, err := p.expect(lexer.STRING, "in import")
	if err != nil {
		return nil, err
	}
	path := pathTok.Value
	if path == "" {
		return nil, p.syntaxErrorf(pathTok.Span, "invalid import path %s", pathTok.Literal)
	}
	spec := ast.NewImportSpec(name, path, p.span(start))

	local := spec.LocalName()
	switch local {
	case "_", ".":
	default:
		if prev, ok := p.imports[local]; ok {
			return nil, p.nameErrorf(spec.Span(), "%s redeclared in this block (imported as %s)", local, strconv.Quote(prev))
		}
		p.imports[local] = path
	}
	p.reduce("ImportSpec", spec)
	return spec, nil
}

func (p *Parser) parseTopLevelDecl() (ast.Decl, error) {
	switch p.curTok.Type {
	case lexer.CONST, lexer.VAR, lexer.TYPE:
		return p.parseGenDecl()
	case lexer.FUNC:
		return p.parseFuncDecl()
	case lexer.IMPORT:
		return nil, p.syntaxErrorf(p.curTok.Span, "imports must appear before other declarations")
	}
	return nil, p.unexpected(p.curTok, "", "outside function body: non-declaration statement")
}

// parseGenDecl parses a const, var or type declaration, single or grouped.
func (p *Parser) parseGenDecl() (*ast.GenDecl, error) {
	start := p.curTok.Span
	tok := p.curTok.Type
	p.nextToken()

	var specs []ast.Spec
	parseSpec := func() error {
		var (
			spec ast.Spec
			err  error
		)
		switch tok {
		case lexer.CONST:
			spec, err = p.parseConstSpec()
		case lexer.VAR:
			spec, err = p.parseVarSpec()
		default:
			spec, err = p.parseTypeSpec()
		}
		if err != nil {
			return err
		}
		specs = append(specs, spec)
		return nil
	}

	if p.got(lexer.LPAREN) {
		for p.curTok.Type != lexer.RPAREN && p.curTok.Type != lexer.EOF {
			if err := parseSpec(); err != nil {
				return nil, err
			}
			if err := p.expectSemi("in declaration list"); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.RPAREN, "in declaration list"); err != nil {
			return nil, err
		}
	} else if err := parseSpec(); err != nil {
		return nil, err
	}

	decl := ast.NewGenDecl(tok, specs, p.span(start))
	switch tok {
	case lexer.CONST:
		p.reduce("ConstDecl", decl)
	case lexer.VAR:
		p.reduce("VarDecl", decl)
	default:
		p.reduce("TypeDecl", decl)
	}
	return decl, nil
}

// parseIdentList parses a comma separated list of new names.
func (p *Parser) parseIdentList(context string) ([]*ast.Ident, error) {
	var names []*ast.Ident
	for {
		tok, err := p.expect(lexer.IDENT, context)
		if err != nil {
			return nil, err
		}
		names = append(names, ast.NewIdent(tok.Literal, tok.Span))
		if !p.got(lexer.COMMA) {
			return names, nil
		}
	}
}

func (p *Parser) parseConstSpec() (*ast.ValueSpec, error) {
	start := p.curTok.Span
	names, err := p.parseIdentList("in const declaration")
	if err != nil {
		return nil, err
	}
	var typ ast.TypeExpr
	if p.curTok.Type != lexer.ASSIGN {
		if typ, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if p.curTok.Type != lexer.ASSIGN {
		return nil, p.syntaxErrorf(p.curTok.Span, "missing init expr for const declaration")
	}
	p.nextToken()
	values, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	spec := ast.NewValueSpec(names, typ, values, p.span(start))
	if err := p.declareValues(spec, true); err != nil {
		return nil, err
	}
	p.reduce("ConstSpec", spec)
	return spec, nil
}

func (p *Parser) parseVarSpec() (*ast.ValueSpec, error) {
	start := p.curTok.Span
	names, err := p.parseIdentList("in var declaration")
	if err != nil {
		return nil, err
	}
	var typ ast.TypeExpr
	if p.curTok.Type != lexer.ASSIGN {
		if typ, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	var values []ast.Expr
	if p.got(lexer.ASSIGN) {
		if values, err = p.parseExprList(); err != nil {
			return nil, err
		}
	}
	spec := ast.NewValueSpec(names, typ, values, p.span(start))
	if err := p.declareValues(spec, false); err != nil {
		return nil, err
	}
	p.reduce("VarSpec", spec)
	return spec, nil
}

func (p *Parser) parseTypeSpec() (*ast.TypeSpec, error) {
	start := p.curTok.Span
	nameTok, err := p.expect(lexer.IDENT, "in type declaration")
	if err != nil {
		return nil, err
	}
	name := ast.NewIdent(nameTok.Literal, nameTok.Span)
	alias := p.got(lexer.ASSIGN)
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	spec := ast.NewTypeSpec(name, alias, typ, p.span(start))
	if err := p.declareType(spec); err != nil {
		return nil, err
	}
	if alias {
		p.reduce("AliasDecl", spec)
	} else {
		p.reduce("TypeDef", spec)
	}
	return spec, nil
}

// parseFuncDecl registers the signature before the body so the function may
// call itself.
func (p *Parser) parseFuncDecl() (*ast.FuncDecl, error) {
	start := p.curTok.Span
	p.nextToken() // 'func'

	if p.curTok.Type == lexer.LPAREN {
		return nil, p.syntaxErrorf(p.curTok.Span, "method declarations are not supported")
	}
	nameTok, err := p.expect(lexer.IDENT, "in function declaration")
	if err != nil {
		return nil, err
	}
	name := ast.NewIdent(nameTok.Literal, nameTok.Span)

	ftype, err := p.parseSignature(start)
	if err != nil {
		return nil, err
	}
	sig := ftype.FuncSig()
	name.DataType = sig
	if name.Name != "_" {
		if err := p.sess.AddFunction(name.Name, sig); err != nil {
			return nil, p.symbolError(name.Span(), err)
		}
	}

	var body *ast.BlockStmt
	if p.curTok.Type == lexer.LBRACE {
		if body, err = p.parseFuncBody(name.Name, ftype); err != nil {
			return nil, err
		}
	}

	decl := ast.NewFuncDecl(name, ftype, body, p.span(start))
	decl.DataType = sig
	p.reduce("FuncDecl", decl)
	return decl, nil
}
