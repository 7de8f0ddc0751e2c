package parser

import (
	"go/constant"

	"github.com/malphas-lang/gofront/internal/ast"
	"github.com/malphas-lang/gofront/internal/diag"
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/symtab"
	"github.com/malphas-lang/gofront/internal/types"
)

// stmtMode says where a simple statement appears.
type stmtMode int

const (
	basicStmt stmtMode = iota
	rangeOK            // for clause header; a range clause may follow
	postStmt           // post statement of a three-clause for
)

func (p *Parser) parseBlockStmt() (*ast.BlockStmt, error) {
	start := p.curTok.Span
	if _, err := p.expect(lexer.LBRACE, "at start of block"); err != nil {
		return nil, err
	}
	p.sess.EnterBlock()
	stmts, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	p.sess.ExitBlock()
	if _, err := p.expect(lexer.RBRACE, "at end of block"); err != nil {
		return nil, err
	}
	block := ast.NewBlockStmt(stmts, p.span(start))
	p.reduce("Block", block)
	return block, nil
}

// parseStmtList parses statements up to the closing brace or the next case
// clause. Bare semicolons are dropped from the list.
func (p *Parser) parseStmtList() ([]ast.Stmt, error) {
	var list []ast.Stmt
	for {
		switch p.curTok.Type {
		case lexer.RBRACE, lexer.CASE, lexer.DEFAULT, lexer.EOF:
			return list, nil
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if _, empty := s.(*ast.EmptyStmt); !empty {
			list = append(list, s)
		}
		switch p.curTok.Type {
		case lexer.SEMICOLON:
			p.nextToken()
		case lexer.RBRACE, lexer.CASE, lexer.DEFAULT:
		default:
			return nil, p.unexpected(p.curTok, "", "at end of statement")
		}
	}
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.curTok.Type {
	case lexer.CONST, lexer.VAR, lexer.TYPE:
		start := p.curTok.Span
		decl, err := p.parseGenDecl()
		if err != nil {
			return nil, err
		}
		ds := ast.NewDeclStmt(decl, p.span(start))
		p.reduce("DeclStmt", ds)
		return ds, nil
	case lexer.IDENT:
		if p.peekTok.Type == lexer.COLON {
			return p.parseLabeledStmt()
		}
	case lexer.LBRACE:
		return p.parseBlockStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.SWITCH:
		return p.parseSwitchStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.GOTO, lexer.BREAK, lexer.CONTINUE, lexer.FALLTHROUGH:
		return p.parseBranchStmt()
	case lexer.SEMICOLON, lexer.RBRACE:
		es := ast.NewEmptyStmt(p.curTok.Span)
		p.reduce("EmptyStmt", es)
		return es, nil
	case lexer.GO, lexer.DEFER, lexer.SELECT:
		return nil, p.syntaxErrorf(p.curTok.Span, "%s statements are not supported", p.curTok.Literal)
	}

	s, err := p.parseSimpleStmt(basicStmt)
	if err != nil {
		return nil, err
	}
	if err := p.checkUsed(s); err != nil {
		return nil, err
	}
	return s, nil
}

// parseSimpleStmt parses an expression statement, assignment, short variable
// declaration or inc/dec statement. With rangeOK it may also return the
// *ast.RangeStmt header of a range loop.
func (p *Parser) parseSimpleStmt(mode stmtMode) (ast.Stmt, error) {
	start := p.curTok.Span
	if p.isShortVarDecl() {
		if mode == postStmt {
			return nil, p.logicalErrorf(start, "cannot declare in post statement of for loop")
		}
		return p.shortVarDecl(mode)
	}

	lhs, err := p.parseExprList()
	if err != nil {
		return nil, err
	}

	switch tt := p.curTok.Type; {
	case tt.IsAssignOp():
		op := tt
		p.nextToken()
		if mode == rangeOK && op == lexer.ASSIGN && p.curTok.Type == lexer.RANGE {
			return p.parseRangeClause(lhs, false, start)
		}
		rhs, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return p.assignment(lhs, op, rhs, p.span(start))
	case tt == lexer.INC || tt == lexer.DEC:
		if len(lhs) > 1 {
			return nil, p.unexpected(p.curTok, ":= or = or comma", "")
		}
		p.nextToken()
		return p.incDec(lhs[0], string(tt), p.span(start))
	case tt == lexer.DEFINE:
		for _, x := range lhs {
			if _, ok := x.(*ast.Ident); !ok {
				return nil, p.syntaxErrorf(x.Span(), "non-name %s on left side of :=", describe(x))
			}
		}
		return nil, p.syntaxErrorf(p.curTok.Span, "unexpected :=")
	}

	if len(lhs) > 1 {
		return nil, p.unexpected(p.curTok, ":= or = or comma", "")
	}
	es := ast.NewExprStmt(lhs[0], p.span(start))
	p.reduce("ExpressionStmt", es)
	return es, nil
}

// isShortVarDecl looks ahead for IDENT {, IDENT} :=.
func (p *Parser) isShortVarDecl() bool {
	for i := 0; ; i += 2 {
		if p.peekAt(i).Type != lexer.IDENT {
			return false
		}
		switch p.peekAt(i + 1).Type {
		case lexer.DEFINE:
			return true
		case lexer.COMMA:
		default:
			return false
		}
	}
}

func (p *Parser) shortVarDecl(mode stmtMode) (ast.Stmt, error) {
	start := p.curTok.Span
	names, err := p.parseIdentList("in short variable declaration")
	if err != nil {
		return nil, err
	}
	defTok := p.curTok
	p.nextToken() // ':='

	lhs := make([]ast.Expr, len(names))
	for i, id := range names {
		lhs[i] = id
	}
	if mode == rangeOK && p.curTok.Type == lexer.RANGE {
		return p.parseRangeClause(lhs, true, start)
	}

	values, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	if allBlank(names) {
		return nil, p.nameErrorf(defTok.Span, "no new variables on left side of :=")
	}
	if err := p.bind(names, nil, values, false); err != nil {
		return nil, err
	}
	as := ast.NewAssignStmt(lhs, ":=", values, p.span(start))
	p.reduce("ShortVarDecl", as)
	return as, nil
}

func allBlank(names []*ast.Ident) bool {
	for _, id := range names {
		if id.Name != "_" {
			return false
		}
	}
	return true
}

func (p *Parser) declareValues(spec *ast.ValueSpec, isConst bool) error {
	if err := p.bind(spec.Names, spec.Type, spec.Values, isConst); err != nil {
		return err
	}
	spec.DataType = spec.Names[0].DataType
	spec.Const = isConst
	return nil
}

// bind types the values of a declaration and adds names to the current
// scope. An explicit type accepts castable values. The values are checked
// before any name is bound, so `x := x` sees the outer x.
func (p *Parser) bind(names []*ast.Ident, typ ast.TypeExpr, values []ast.Expr, isConst bool) error {
	var explicit types.Type
	if typ != nil {
		explicit = typ.Attr().DataType
	}

	declare := func(id *ast.Ident, t types.Type, val constant.Value, untyped bool) error {
		id.DataType = t
		id.Const = isConst
		id.Addressable = !isConst
		entry := &symtab.Entry{Type: t, Const: isConst, Line: id.Span().Line}
		if isConst {
			id.Value = val
			id.Untyped = untyped
			entry.Val = val
			entry.Untyped = untyped
		}
		if err := p.sess.Add(id.Name, entry); err != nil {
			return p.symbolError(id.Span(), err)
		}
		return nil
	}

	if len(values) == 1 && len(names) > 1 {
		if call, ok := unparen(values[0]).(*ast.CallExpr); ok && len(call.Results) > 1 {
			if isConst {
				return p.typeErrorf(call.Span(), "%s (value of type (%s)) is not constant", describe(call), joinTypes(call.Results))
			}
			if len(call.Results) != len(names) {
				return p.logicalErrorf(call.Span(), "assignment mismatch: %d variables but %s returns %d values", len(names), describe(call), len(call.Results))
			}
			for i, id := range names {
				t := call.Results[i]
				if explicit != nil {
					if !types.Castable(explicit, t) {
						return p.typeErrorf(call.Span(), "cannot use %s value of type %s as %s value in assignment", describe(call), t, explicit)
					}
					t = explicit
				}
				if err := declare(id, t, nil, false); err != nil {
					return err
				}
			}
			return nil
		}
	}

	if len(values) == 0 {
		for _, id := range names {
			if err := declare(id, explicit, nil, false); err != nil {
				return err
			}
		}
		return nil
	}
	if len(values) != len(names) {
		return p.logicalErrorf(values[0].Span(), "assignment mismatch: %d variables but %d values", len(names), len(values))
	}

	for i, id := range names {
		v := values[i]
		if err := p.value(v); err != nil {
			return err
		}
		va := v.Attr()
		if isConst && !va.Const {
			return p.typeErrorf(v.Span(), "%s (%s of type %s) is not constant", describe(v), kindWord(v), typeString(va.DataType))
		}
		t := explicit
		if t == nil {
			t = va.DataType
		}
		val, err := p.assignTo(v, t, false, "variable declaration")
		if err != nil {
			return err
		}
		if err := declare(id, t, val, explicit == nil && va.Untyped); err != nil {
			return err
		}
	}
	return nil
}

// checkTarget reports whether x may appear on the left of an assignment.
func (p *Parser) checkTarget(x ast.Expr) error {
	if isBlank(x) {
		return nil
	}
	if err := p.value(x); err != nil {
		return err
	}
	a := x.Attr()
	switch {
	case a.Const:
		return p.logicalErrorf(x.Span(), "cannot assign to %s (constant of type %s)", describe(x), a.DataType)
	case !a.Addressable:
		return p.logicalErrorf(x.Span(), "cannot assign to %s (neither addressable nor a map index expression)", describe(x))
	}
	return nil
}

func (p *Parser) assignment(lhs []ast.Expr, op lexer.TokenType, rhs []ast.Expr, span lexer.Span) (ast.Stmt, error) {
	for _, x := range lhs {
		if err := p.checkTarget(x); err != nil {
			return nil, err
		}
	}
	as := ast.NewAssignStmt(lhs, string(op), rhs, span)

	if op != lexer.ASSIGN {
		if len(lhs) > 1 || len(rhs) > 1 {
			return nil, p.syntaxErrorf(span, "assignment operation %s requires single-valued expressions", op)
		}
		x, y := lhs[0], rhs[0]
		if isBlank(x) {
			return nil, p.typeErrorf(x.Span(), "cannot use _ as value")
		}
		if err := p.value(y); err != nil {
			return nil, err
		}
		bop := string(op.BinaryOp())
		t, err := types.FinalType(bop, operand(x), operand(y))
		if err != nil {
			return nil, p.typeErrorf(span, "%s (%s %s %s)", err.Error(), describe(x), op, describe(y))
		}
		xt := x.Attr().DataType
		if !types.Identical(t, xt) {
			return nil, p.typeErrorf(span, "invalid operation: %s %s %s (mismatched types %s and %s)", describe(x), op, describe(y), xt, y.Attr().DataType)
		}
		ya := y.Attr()
		if ya.Const && (bop == "/" || bop == "%") && constant.Sign(ya.Value) == 0 {
			return nil, p.typeErrorf(y.Span(), "invalid operation: division by zero")
		}
		if bop != "<<" && bop != ">>" {
			if err := p.representable(y, xt); err != nil {
				return nil, err
			}
		}
		p.reduce("Assignment", as)
		return as, nil
	}

	if len(rhs) == 1 && len(lhs) > 1 {
		if call, ok := unparen(rhs[0]).(*ast.CallExpr); ok && len(call.Results) > 1 {
			if len(call.Results) != len(lhs) {
				return nil, p.logicalErrorf(span, "assignment mismatch: %d variables but %s returns %d values", len(lhs), describe(call), len(call.Results))
			}
			for i, x := range lhs {
				if isBlank(x) {
					continue
				}
				if want := x.Attr().DataType; !types.Identical(want, call.Results[i]) {
					return nil, p.typeErrorf(call.Span(), "cannot use %s value of type %s as %s value in assignment", describe(call), call.Results[i], want)
				}
			}
			p.reduce("Assignment", as)
			return as, nil
		}
	}
	if len(lhs) != len(rhs) {
		return nil, p.logicalErrorf(span, "assignment mismatch: %d variables but %d values", len(lhs), len(rhs))
	}
	for i, x := range lhs {
		if isBlank(x) {
			if err := p.value(rhs[i]); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := p.assignTo(rhs[i], x.Attr().DataType, true, "assignment"); err != nil {
			return nil, err
		}
	}
	p.reduce("Assignment", as)
	return as, nil
}

func (p *Parser) incDec(x ast.Expr, op string, span lexer.Span) (ast.Stmt, error) {
	if isBlank(x) {
		return nil, p.typeErrorf(x.Span(), "cannot use _ as value")
	}
	if err := p.checkTarget(x); err != nil {
		return nil, err
	}
	if t := x.Attr().DataType; !types.IsBasicNumeric(t) {
		return nil, p.typeErrorf(span, "invalid operation: %s%s (non-numeric type %s)", describe(x), op, t)
	}
	s := ast.NewIncDecStmt(x, op, span)
	p.reduce("IncDecStmt", s)
	return s, nil
}

func (p *Parser) parseReturnStmt() (ast.Stmt, error) {
	start := p.curTok.Span
	p.nextToken() // 'return'
	results, inFunc := p.sess.ReturnType()
	if !inFunc {
		return nil, p.logicalErrorf(start, "return statement outside function body")
	}

	var xs []ast.Expr
	if p.curTok.Type != lexer.SEMICOLON && p.curTok.Type != lexer.RBRACE {
		var err error
		if xs, err = p.parseExprList(); err != nil {
			return nil, err
		}
	}
	rs := ast.NewReturnStmt(xs, p.span(start))
	if err := p.checkReturn(rs, results); err != nil {
		return nil, err
	}
	p.reduce("ReturnStmt", rs)
	return rs, nil
}

func (p *Parser) checkReturn(rs *ast.ReturnStmt, want []types.Type) error {
	xs := rs.Results
	if len(xs) == 0 {
		if len(want) == 0 || p.fn.namedResults {
			return nil
		}
		return p.typeErrorf(rs.Span(), "not enough return values\n\thave ()\n\twant (%s)", joinTypes(want))
	}

	var have []types.Type
	if call, ok := unparen(xs[0]).(*ast.CallExpr); ok && len(xs) == 1 && len(call.Results) > 1 {
		have = call.Results
		if len(have) == len(want) {
			for i, t := range have {
				if !types.Identical(want[i], t) {
					return p.typeErrorf(call.Span(), "cannot use %s value of type %s as %s value in return statement", describe(call), t, want[i])
				}
			}
			return nil
		}
	} else {
		for _, x := range xs {
			have = append(have, x.Attr().DataType)
		}
	}
	if len(have) != len(want) {
		word := "not enough"
		if len(have) > len(want) {
			word = "too many"
		}
		return p.typeErrorf(rs.Span(), "%s return values\n\thave (%s)\n\twant (%s)", word, joinTypes(have), joinTypes(want))
	}
	for i, x := range xs {
		if _, err := p.assignTo(x, want[i], true, "return statement"); err != nil {
			return err
		}
	}
	return nil
}

// checkUsed rejects expression statements whose value is dropped. Only calls
// of functions and of the builtins without a pure result may stand alone.
func (p *Parser) checkUsed(s ast.Stmt) error {
	es, ok := s.(*ast.ExprStmt)
	if !ok {
		return nil
	}
	x := es.X
	if call, ok := unparen(x).(*ast.CallExpr); ok {
		switch call.Kind {
		case ast.CallConversion:
		case ast.CallBuiltin:
			if !builtinFuncs[call.Fun.(*ast.Ident).Name].discard {
				return nil
			}
		default:
			return nil
		}
	} else if err := p.value(x); err != nil {
		return err
	}
	return p.errorf(diag.ValueNotUsedError, es.Span(), "%s (%s of type %s) is not used", describe(x), kindWord(x), typeString(x.Attr().DataType))
}
