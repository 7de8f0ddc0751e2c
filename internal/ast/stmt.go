package ast

import "github.com/malphas-lang/gofront/internal/lexer"

// BlockStmt is a braced statement list.
type BlockStmt struct {
	node
	Stmts []Stmt
}

// NewBlockStmt constructs a block node.
func NewBlockStmt(stmts []Stmt, span lexer.Span) *BlockStmt {
	return &BlockStmt{node: newNode("{}", span), Stmts: stmts}
}

func (*BlockStmt) stmtNode() {}

// IfStmt represents if [init;] cond {then} [else ...]. Else is a *BlockStmt
// or an *IfStmt.
type IfStmt struct {
	node
	Init Stmt
	Cond Expr
	Then *BlockStmt
	Else Stmt
}

// NewIfStmt constructs an if statement node.
func NewIfStmt(init Stmt, cond Expr, then *BlockStmt, els Stmt, span lexer.Span) *IfStmt {
	return &IfStmt{node: newNode("if", span), Init: init, Cond: cond, Then: then, Else: els}
}

func (*IfStmt) stmtNode() {}

// ForStmt represents a three-clause or condition-only for loop.
type ForStmt struct {
	node
	Init Stmt
	Cond Expr
	Post Stmt
	Body *BlockStmt
}

// NewForStmt constructs a for statement node.
func NewForStmt(init Stmt, cond Expr, post Stmt, body *BlockStmt, span lexer.Span) *ForStmt {
	return &ForStmt{node: newNode("for", span), Init: init, Cond: cond, Post: post, Body: body}
}

func (*ForStmt) stmtNode() {}

// RangeStmt represents for key, value := range x.
type RangeStmt struct {
	node
	Key    Expr
	Value  Expr
	Define bool
	X      Expr
	Body   *BlockStmt
}

// NewRangeStmt constructs a range loop node.
func NewRangeStmt(key, value Expr, define bool, x Expr, body *BlockStmt, span lexer.Span) *RangeStmt {
	return &RangeStmt{node: newNode("range", span), Key: key, Value: value, Define: define, X: x, Body: body}
}

func (*RangeStmt) stmtNode() {}

// SwitchStmt represents an expression switch. Tag is nil for `switch {`.
type SwitchStmt struct {
	node
	Init    Stmt
	Tag     Expr
	Clauses []*CaseClause
}

// NewSwitchStmt constructs a switch statement node.
func NewSwitchStmt(init Stmt, tag Expr, clauses []*CaseClause, span lexer.Span) *SwitchStmt {
	return &SwitchStmt{node: newNode("switch", span), Init: init, Tag: tag, Clauses: clauses}
}

func (*SwitchStmt) stmtNode() {}

// CaseClause is one case or default arm. List is nil for default.
type CaseClause struct {
	node
	List []Expr
	Body []Stmt
}

// NewCaseClause constructs a case clause node.
func NewCaseClause(list []Expr, body []Stmt, span lexer.Span) *CaseClause {
	label := "case"
	if list == nil {
		label = "default"
	}
	return &CaseClause{node: newNode(label, span), List: list, Body: body}
}

// IsDefault reports whether c is the default clause.
func (c *CaseClause) IsDefault() bool { return c.List == nil }

func (*CaseClause) stmtNode() {}

// LabeledStmt represents L: stmt.
type LabeledStmt struct {
	node
	Name *Ident
	Stmt Stmt
}

// NewLabeledStmt constructs a labeled statement node.
func NewLabeledStmt(name *Ident, stmt Stmt, span lexer.Span) *LabeledStmt {
	return &LabeledStmt{node: newNode(name.Name, span), Name: name, Stmt: stmt}
}

func (*LabeledStmt) stmtNode() {}

// BranchStmt is goto, break, continue or fallthrough. Target is nil when no
// label is given.
type BranchStmt struct {
	node
	Tok    lexer.TokenType
	Target *Ident
}

// NewBranchStmt constructs a branch statement node.
func NewBranchStmt(tok lexer.TokenType, target *Ident, span lexer.Span) *BranchStmt {
	return &BranchStmt{node: newNode(string(tok), span), Tok: tok, Target: target}
}

func (*BranchStmt) stmtNode() {}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	node
	Results []Expr
}

// NewReturnStmt constructs a return statement node.
func NewReturnStmt(results []Expr, span lexer.Span) *ReturnStmt {
	return &ReturnStmt{node: newNode("return", span), Results: results}
}

func (*ReturnStmt) stmtNode() {}

// AssignStmt covers =, := and the op= forms.
type AssignStmt struct {
	node
	Lhs []Expr
	Op  string
	Rhs []Expr
}

// NewAssignStmt constructs an assignment node.
func NewAssignStmt(lhs []Expr, op string, rhs []Expr, span lexer.Span) *AssignStmt {
	return &AssignStmt{node: newNode(op, span), Lhs: lhs, Op: op, Rhs: rhs}
}

// IsDefine reports whether s is a short variable declaration.
func (s *AssignStmt) IsDefine() bool { return s.Op == ":=" }

func (*AssignStmt) stmtNode() {}

// IncDecStmt represents x++ or x--.
type IncDecStmt struct {
	node
	X  Expr
	Op string
}

// NewIncDecStmt constructs an increment or decrement node.
func NewIncDecStmt(x Expr, op string, span lexer.Span) *IncDecStmt {
	return &IncDecStmt{node: newNode(op, span), X: x, Op: op}
}

func (*IncDecStmt) stmtNode() {}

// ExprStmt represents an expression statement.
type ExprStmt struct {
	node
	X Expr
}

// NewExprStmt constructs an expression statement.
func NewExprStmt(x Expr, span lexer.Span) *ExprStmt {
	return &ExprStmt{node: newNode("", span), X: x}
}

func (*ExprStmt) stmtNode() {}

// DeclStmt wraps a declaration inside a function body.
type DeclStmt struct {
	node
	Decl *GenDecl
}

// NewDeclStmt constructs a declaration statement.
func NewDeclStmt(decl *GenDecl, span lexer.Span) *DeclStmt {
	return &DeclStmt{node: newNode("", span), Decl: decl}
}

func (*DeclStmt) stmtNode() {}

// EmptyStmt is a lone semicolon.
type EmptyStmt struct {
	node
}

// NewEmptyStmt constructs an empty statement.
func NewEmptyStmt(span lexer.Span) *EmptyStmt {
	return &EmptyStmt{node: newNode(";", span)}
}

func (*EmptyStmt) stmtNode() {}
