package parser

import (
	"github.com/malphas-lang/gofront/internal/ast"
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/symtab"
	"github.com/malphas-lang/gofront/internal/types"
)

// snapshot captures the parser position for the label table.
func (p *Parser) snapshot(span lexer.Span) symtab.Snapshot {
	at := p.sess.Snapshot(span.Line)
	at.Column = span.Column
	return at
}

func (p *Parser) parseLabeledStmt() (ast.Stmt, error) {
	tok := p.curTok
	p.nextToken()
	p.nextToken() // ':'
	name := ast.NewIdent(tok.Literal, tok.Span)

	if err := p.fn.labels.Declare(name.Name, p.snapshot(tok.Span), p.sess); err != nil {
		return nil, err
	}

	var (
		stmt ast.Stmt
		err  error
	)
	switch p.curTok.Type {
	case lexer.RBRACE:
		es := ast.NewEmptyStmt(p.curTok.Span)
		p.reduce("EmptyStmt", es)
		stmt = es
	case lexer.FOR, lexer.SWITCH:
		p.fn.pendingLabel = name.Name
		stmt, err = p.parseStmt()
	default:
		stmt, err = p.parseStmt()
	}
	if err != nil {
		return nil, err
	}

	ls := ast.NewLabeledStmt(name, stmt, p.span(tok.Span))
	p.reduce("LabeledStmt", ls)
	return ls, nil
}

func (p *Parser) parseBranchStmt() (ast.Stmt, error) {
	tok := p.curTok
	p.nextToken()

	var target *ast.Ident
	if tok.Type != lexer.FALLTHROUGH && p.curTok.Type == lexer.IDENT {
		target = ast.NewIdent(p.curTok.Literal, p.curTok.Span)
		p.nextToken()
	}
	bs := ast.NewBranchStmt(tok.Type, target, p.span(tok.Span))
	fn := p.fn

	switch tok.Type {
	case lexer.GOTO:
		if target == nil {
			return nil, p.unexpected(p.curTok, "name", "after goto")
		}
		if err := fn.labels.Goto(target.Name, p.snapshot(tok.Span)); err != nil {
			return nil, err
		}
		p.reduce("GotoStmt", bs)

	case lexer.BREAK:
		if target != nil {
			if !fn.hasTarget(target.Name, false) {
				return nil, p.logicalErrorf(target.Span(), "invalid break label %s", target.Name)
			}
		} else if p.sess.ForDepth()+p.sess.SwitchDepth() == 0 {
			return nil, p.logicalErrorf(tok.Span, "break is not in a loop, switch, or select")
		}
		p.reduce("BreakStmt", bs)

	case lexer.CONTINUE:
		if target != nil {
			if !fn.hasTarget(target.Name, true) {
				return nil, p.logicalErrorf(target.Span(), "invalid continue label %s", target.Name)
			}
		} else if p.sess.ForDepth() == 0 {
			return nil, p.logicalErrorf(tok.Span, "continue is not in a loop")
		}
		p.reduce("ContinueStmt", bs)

	case lexer.FALLTHROUGH:
		if fn.clauseBlock == nil || fn.clauseBlock != p.sess.Block() {
			return nil, p.logicalErrorf(tok.Span, "fallthrough statement out of place")
		}
		p.reduce("FallthroughStmt", bs)
	}
	return bs, nil
}

// hasTarget reports whether an enclosing for (or switch, unless loopOnly)
// carries the label.
func (f *funcState) hasTarget(label string, loopOnly bool) bool {
	for i := len(f.targets) - 1; i >= 0; i-- {
		t := f.targets[i]
		if t.label == label && (t.isLoop || !loopOnly) {
			return true
		}
	}
	return false
}

func (f *funcState) pushTarget(isLoop bool) {
	f.targets = append(f.targets, branchTarget{label: f.pendingLabel, isLoop: isLoop})
	f.pendingLabel = ""
}

func (f *funcState) popTarget() {
	f.targets = f.targets[:len(f.targets)-1]
}

// condition checks the statement in a condition position of an if or for.
func (p *Parser) condition(s ast.Stmt, what string) (ast.Expr, error) {
	es, ok := s.(*ast.ExprStmt)
	if !ok {
		return nil, p.syntaxErrorf(s.Span(), "cannot use %s as value", s.Attr().Label)
	}
	x := es.X
	if err := p.value(x); err != nil {
		return nil, err
	}
	if !types.IsBoolean(x.Attr().DataType) {
		return nil, p.typeErrorf(x.Span(), "non-boolean condition in %s statement", what)
	}
	return x, nil
}

// parseHeader parses `[init;] x` of an if or switch. x is nil when the
// header stops at '{'.
func (p *Parser) parseHeader() (init ast.Stmt, x ast.Stmt, err error) {
	outer := p.exprLev
	p.exprLev = -1
	defer func() { p.exprLev = outer }()

	if p.curTok.Type == lexer.LBRACE {
		return nil, nil, nil
	}
	var s ast.Stmt
	if p.curTok.Type != lexer.SEMICOLON {
		if s, err = p.parseSimpleStmt(basicStmt); err != nil {
			return nil, nil, err
		}
	}
	if !p.got(lexer.SEMICOLON) {
		return nil, s, nil
	}
	init = s
	if init != nil {
		if err := p.checkUsed(init); err != nil {
			return nil, nil, err
		}
	}
	if p.curTok.Type == lexer.LBRACE {
		return init, nil, nil
	}
	if x, err = p.parseSimpleStmt(basicStmt); err != nil {
		return nil, nil, err
	}
	return init, x, nil
}

// parseIfStmt parses an if statement. The header and both branches share one
// block frame so declarations in the init statement stay local to it.
func (p *Parser) parseIfStmt() (*ast.IfStmt, error) {
	start := p.curTok.Span
	p.nextToken() // 'if'
	p.sess.EnterBlock()

	init, condStmt, err := p.parseHeader()
	if err != nil {
		return nil, err
	}
	if condStmt == nil {
		return nil, p.syntaxErrorf(p.curTok.Span, "missing condition in if statement")
	}
	cond, err := p.condition(condStmt, "if")
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	var els ast.Stmt
	if p.got(lexer.ELSE) {
		switch p.curTok.Type {
		case lexer.IF:
			els, err = p.parseIfStmt()
		case lexer.LBRACE:
			els, err = p.parseBlockStmt()
		default:
			return nil, p.syntaxErrorf(p.curTok.Span, "else must be followed by if or statement block")
		}
		if err != nil {
			return nil, err
		}
	}
	p.sess.ExitBlock()

	is := ast.NewIfStmt(init, cond, then, els, p.span(start))
	p.reduce("IfStmt", is)
	return is, nil
}

// parseForStmt parses every for form. The loop opens a scope of its own for
// variables declared in its header.
func (p *Parser) parseForStmt() (ast.Stmt, error) {
	start := p.curTok.Span
	p.nextToken() // 'for'
	p.sess.EnterScope()
	p.sess.EnterBlock()

	var (
		init, post ast.Stmt
		cond       ast.Expr
		rng        *ast.RangeStmt
		err        error
	)
	outer := p.exprLev
	p.exprLev = -1
	switch p.curTok.Type {
	case lexer.LBRACE:
	case lexer.RANGE:
		rng, err = p.parseRangeClause(nil, false, p.curTok.Span)
	default:
		rng, init, cond, post, err = p.parseForHeader()
	}
	p.exprLev = outer
	if err != nil {
		return nil, err
	}

	p.sess.EnterFor()
	p.fn.pushTarget(true)
	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	p.fn.popTarget()
	p.sess.ExitFor()

	p.sess.ExitBlock()
	if err := p.sess.ExitScope(); err != nil {
		return nil, p.logicalErrorf(body.Span(), "%s", err.Error())
	}

	var s ast.Stmt
	if rng != nil {
		rng.Body = body
		rng.SetSpan(p.span(start))
		s = rng
	} else {
		s = ast.NewForStmt(init, cond, post, body, p.span(start))
	}
	p.reduce("ForStmt", s)
	return s, nil
}

func (p *Parser) parseForHeader() (rng *ast.RangeStmt, init ast.Stmt, cond ast.Expr, post ast.Stmt, err error) {
	var s ast.Stmt
	if p.curTok.Type != lexer.SEMICOLON {
		if s, err = p.parseSimpleStmt(rangeOK); err != nil {
			return
		}
	}
	if r, ok := s.(*ast.RangeStmt); ok {
		return r, nil, nil, nil, nil
	}
	if p.curTok.Type != lexer.SEMICOLON {
		cond, err = p.condition(s, "for")
		return
	}

	clauseStart := p.curTok.Span
	if s != nil {
		clauseStart = s.Span()
	}
	p.nextToken() // ';'
	init = s
	if init != nil {
		if err = p.checkUsed(init); err != nil {
			return
		}
	}
	if p.curTok.Type != lexer.SEMICOLON {
		var cs ast.Stmt
		if cs, err = p.parseSimpleStmt(basicStmt); err != nil {
			return
		}
		if cond, err = p.condition(cs, "for"); err != nil {
			return
		}
	}
	if _, err = p.expect(lexer.SEMICOLON, "in for clause"); err != nil {
		return
	}
	if p.curTok.Type != lexer.LBRACE {
		if post, err = p.parseSimpleStmt(postStmt); err != nil {
			return
		}
		if err = p.checkUsed(post); err != nil {
			return
		}
	}
	clause := ast.NewForStmt(init, cond, post, nil, p.span(clauseStart))
	p.reduce("ForClause", clause)
	return
}

// parseRangeClause parses `range x` after the iteration variables. define
// reports whether they were introduced with :=.
func (p *Parser) parseRangeClause(lhs []ast.Expr, define bool, start lexer.Span) (*ast.RangeStmt, error) {
	rangeTok := p.curTok
	p.nextToken() // 'range'
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.value(x); err != nil {
		return nil, err
	}
	keyT, valT, oneVar, err := p.rangeTypes(x)
	if err != nil {
		return nil, err
	}

	switch {
	case len(lhs) > 2:
		return nil, p.syntaxErrorf(lhs[2].Span(), "range clause permits at most two iteration variables")
	case len(lhs) == 2 && oneVar:
		return nil, p.typeErrorf(lhs[1].Span(), "range over %s permits only one iteration variable", describe(x))
	}
	want := []types.Type{keyT, valT}

	if define {
		names := make([]*ast.Ident, len(lhs))
		for i, e := range lhs {
			names[i] = e.(*ast.Ident)
		}
		if allBlank(names) {
			return nil, p.nameErrorf(rangeTok.Span, "no new variables on left side of :=")
		}
		for i, id := range names {
			id.DataType = want[i]
			id.Addressable = true
			if err := p.sess.Add(id.Name, &symtab.Entry{Type: want[i], Line: id.Span().Line}); err != nil {
				return nil, p.symbolError(id.Span(), err)
			}
		}
	} else {
		for i, e := range lhs {
			if err := p.checkTarget(e); err != nil {
				return nil, err
			}
			if isBlank(e) {
				continue
			}
			if t := e.Attr().DataType; !types.Identical(t, want[i]) {
				return nil, p.typeErrorf(e.Span(), "cannot use %s (value of type %s) as %s value in range", describe(e), want[i], t)
			}
		}
	}

	var key, value ast.Expr
	if len(lhs) > 0 {
		key = lhs[0]
	}
	if len(lhs) > 1 {
		value = lhs[1]
	}
	rs := ast.NewRangeStmt(key, value, define, x, nil, p.span(start))
	p.reduce("RangeClause", rs)
	return rs, nil
}

// rangeTypes returns the iteration variable types for ranging over x.
func (p *Parser) rangeTypes(x ast.Expr) (key, value types.Type, oneVar bool, err error) {
	t := x.Attr().DataType
	if ptr, ok := t.(*types.Pointer); ok && ptr.Level == 1 {
		if arr, ok := ptr.Base.(*types.Array); ok {
			t = arr
		}
	}
	switch tt := t.(type) {
	case *types.Array:
		return types.Int, tt.Elem(), false, nil
	case *types.Slice:
		return types.Int, tt.Elem(), false, nil
	case *types.Map:
		return tt.Key, tt.Value, false, nil
	}
	switch {
	case types.IsString(t):
		return types.Int, types.Rune, false, nil
	case types.IsBasicInteger(t):
		return t, nil, true, nil
	}
	return nil, nil, false, p.typeErrorf(x.Span(), "cannot range over %s (%s of type %s)", describe(x), kindWord(x), typeString(t))
}

func (p *Parser) parseSwitchStmt() (ast.Stmt, error) {
	start := p.curTok.Span
	p.nextToken() // 'switch'
	p.sess.EnterBlock()

	init, tagStmt, err := p.parseHeader()
	if err != nil {
		return nil, err
	}
	var tag ast.Expr
	if tagStmt != nil {
		es, ok := tagStmt.(*ast.ExprStmt)
		if !ok {
			return nil, p.syntaxErrorf(tagStmt.Span(), "switch expression must be an expression, found %s", tagStmt.Attr().Label)
		}
		tag = es.X
		if err := p.value(tag); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.LBRACE, "in switch statement"); err != nil {
		return nil, err
	}
	p.sess.EnterSwitch()
	p.fn.pushTarget(false)

	var (
		clauses    []*ast.CaseClause
		defaultPos *lexer.Span
	)
	for p.curTok.Type == lexer.CASE || p.curTok.Type == lexer.DEFAULT {
		if p.curTok.Type == lexer.DEFAULT {
			if defaultPos != nil {
				return nil, p.logicalErrorf(p.curTok.Span, "multiple defaults in switch (first at line %d)", defaultPos.Line)
			}
			pos := p.curTok.Span
			defaultPos = &pos
		}
		cc, err := p.parseCaseClause(tag)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, cc)
	}
	if _, err := p.expect(lexer.RBRACE, "in switch statement; expected case or default"); err != nil {
		return nil, err
	}
	p.fn.popTarget()
	p.sess.ExitSwitch()
	p.sess.ExitBlock()

	if n := len(clauses); n > 0 {
		if ft := trailingFallthrough(clauses[n-1]); ft != nil {
			return nil, p.logicalErrorf(ft.Span(), "cannot fallthrough final case in switch")
		}
	}

	ss := ast.NewSwitchStmt(init, tag, clauses, p.span(start))
	p.reduce("ExprSwitchStmt", ss)
	return ss, nil
}

func (p *Parser) parseCaseClause(tag ast.Expr) (*ast.CaseClause, error) {
	start := p.curTok.Span
	var list []ast.Expr
	if !p.got(lexer.DEFAULT) {
		p.nextToken() // 'case'
		var err error
		if list, err = p.parseExprList(); err != nil {
			return nil, err
		}
		for _, x := range list {
			if err := p.caseValue(tag, x); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(lexer.COLON, "in case clause"); err != nil {
		return nil, err
	}

	blk := p.sess.EnterBlock()
	outer := p.fn.clauseBlock
	p.fn.clauseBlock = blk
	body, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	p.fn.clauseBlock = outer
	p.sess.ExitBlock()

	for _, s := range body[:max(len(body)-1, 0)] {
		if bs, ok := s.(*ast.BranchStmt); ok && bs.Tok == lexer.FALLTHROUGH {
			return nil, p.logicalErrorf(bs.Span(), "fallthrough statement out of place")
		}
	}

	cc := ast.NewCaseClause(list, body, p.span(start))
	p.reduce("ExprCaseClause", cc)
	return cc, nil
}

func (p *Parser) caseValue(tag, x ast.Expr) error {
	if err := p.value(x); err != nil {
		return err
	}
	if tag == nil {
		if !types.IsBoolean(x.Attr().DataType) {
			return p.typeErrorf(x.Span(), "invalid case %s in switch (mismatched types %s and bool)", describe(x), typeString(x.Attr().DataType))
		}
		return nil
	}
	if _, err := types.FinalType("==", operand(tag), operand(x)); err != nil {
		return p.typeErrorf(x.Span(), "invalid case %s in switch on %s (%s)", describe(x), describe(tag), err.Error())
	}
	return nil
}

func trailingFallthrough(cc *ast.CaseClause) *ast.BranchStmt {
	if len(cc.Body) == 0 {
		return nil
	}
	if bs, ok := cc.Body[len(cc.Body)-1].(*ast.BranchStmt); ok && bs.Tok == lexer.FALLTHROUGH {
		return bs
	}
	return nil
}
