package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/malphas-lang/gofront/internal/ast"
)

// Production is one grammar rule the parser reduces by. Alternatives lists
// the right-hand sides it accepts.
type Production struct {
	Name         string   `yaml:"name"`
	Alternatives []string `yaml:"alternatives"`
}

var productions = []Production{
	{"SourceFile", []string{"PackageClause ';' { ImportDecl ';' } { TopLevelDecl ';' }"}},
	{"PackageClause", []string{"'package' IDENT"}},
	{"ImportDecl", []string{"'import' ImportSpec", "'import' '(' { ImportSpec ';' } ')'"}},
	{"ImportSpec", []string{"[ '.' | '_' | IDENT ] STRING"}},
	{"TopLevelDecl", []string{"Decl", "FuncDecl"}},
	{"ConstDecl", []string{"'const' ConstSpec", "'const' '(' { ConstSpec ';' } ')'"}},
	{"ConstSpec", []string{"IdentifierList [ Type ] '=' ExpressionList"}},
	{"VarDecl", []string{"'var' VarSpec", "'var' '(' { VarSpec ';' } ')'"}},
	{"VarSpec", []string{"IdentifierList Type [ '=' ExpressionList ]", "IdentifierList '=' ExpressionList"}},
	{"TypeDecl", []string{"'type' TypeSpec", "'type' '(' { TypeSpec ';' } ')'"}},
	{"AliasDecl", []string{"IDENT '=' Type"}},
	{"TypeDef", []string{"IDENT Type"}},
	{"FuncDecl", []string{"'func' FunctionName Signature [ FunctionBody ]"}},
	{"FunctionLit", []string{"'func' Signature FunctionBody"}},
	{"Signature", []string{"Parameters [ Result ]"}},
	{"Parameters", []string{"'(' [ ParameterList [ ',' ] ] ')'"}},
	{"ParameterDecl", []string{"[ IdentifierList ] [ '...' ] Type"}},
	{"Result", []string{"Parameters", "Type"}},
	{"Type", []string{"TypeName", "TypeLit", "'(' Type ')'"}},
	{"TypeName", []string{"IDENT", "IDENT '.' IDENT"}},
	{"PointerType", []string{"'*' Type"}},
	{"ArrayType", []string{"'[' ArrayLength ']' Type", "'[' '...' ']' Type"}},
	{"SliceType", []string{"'[' ']' Type"}},
	{"MapType", []string{"'map' '[' Type ']' Type"}},
	{"StructType", []string{"'struct' '{' { FieldDecl ';' } '}'"}},
	{"FieldDecl", []string{"IdentifierList Type [ Tag ]", "EmbeddedField [ Tag ]"}},
	{"FunctionType", []string{"'func' Signature"}},
	{"Expr", []string{"UnaryExpr", "Expr binary_op Expr"}},
	{"UnaryExpr", []string{"PrimaryExpr", "unary_op UnaryExpr"}},
	{"PrimaryExpr", []string{"Operand", "Conversion", "PrimaryExpr Selector", "PrimaryExpr Index", "PrimaryExpr Slice", "PrimaryExpr Arguments"}},
	{"Operand", []string{"Literal", "IDENT", "'(' Expr ')'"}},
	{"BasicLit", []string{"INT", "FLOAT", "IMAG", "RUNE", "STRING"}},
	{"CompositeLit", []string{"LiteralType LiteralValue"}},
	{"LiteralValue", []string{"'{' [ ElementList [ ',' ] ] '}'"}},
	{"KeyedElement", []string{"[ Key ':' ] Element"}},
	{"Selector", []string{"'.' IDENT"}},
	{"Index", []string{"'[' Expr ']'"}},
	{"Slice", []string{"'[' [ Expr ] ':' [ Expr ] ']'", "'[' [ Expr ] ':' Expr ':' Expr ']'"}},
	{"Arguments", []string{"'(' [ ExpressionList [ '...' ] [ ',' ] ] ')'", "'(' Type [ ',' ExpressionList ] ')'"}},
	{"Conversion", []string{"Type '(' Expr [ ',' ] ')'"}},
	{"Block", []string{"'{' StatementList '}'"}},
	{"LabeledStmt", []string{"IDENT ':' Statement"}},
	{"ExpressionStmt", []string{"Expr"}},
	{"IncDecStmt", []string{"Expr '++'", "Expr '--'"}},
	{"Assignment", []string{"ExpressionList assign_op ExpressionList"}},
	{"ShortVarDecl", []string{"IdentifierList ':=' ExpressionList"}},
	{"EmptyStmt", []string{""}},
	{"GotoStmt", []string{"'goto' IDENT"}},
	{"ReturnStmt", []string{"'return' [ ExpressionList ]"}},
	{"BreakStmt", []string{"'break' [ IDENT ]"}},
	{"ContinueStmt", []string{"'continue' [ IDENT ]"}},
	{"FallthroughStmt", []string{"'fallthrough'"}},
	{"IfStmt", []string{"'if' [ SimpleStmt ';' ] Expr Block [ 'else' ( IfStmt | Block ) ]"}},
	{"ExprSwitchStmt", []string{"'switch' [ SimpleStmt ';' ] [ Expr ] '{' { ExprCaseClause } '}'"}},
	{"ExprCaseClause", []string{"'case' ExpressionList ':' StatementList", "'default' ':' StatementList"}},
	{"ForStmt", []string{"'for' [ Condition ] Block", "'for' ForClause Block", "'for' RangeClause Block"}},
	{"ForClause", []string{"[ InitStmt ] ';' [ Condition ] ';' [ PostStmt ]"}},
	{"RangeClause", []string{"[ ExpressionList '=' | IdentifierList ':=' ] 'range' Expr"}},
	{"DeclStmt", []string{"ConstDecl", "VarDecl", "TypeDecl"}},
}

var productionIndex = func() map[string]int {
	m := make(map[string]int, len(productions))
	for i, prod := range productions {
		m[prod.Name] = i
	}
	return m
}()

// Productions returns a copy of the grammar the parser reduces by.
func Productions() []Production {
	out := make([]Production, len(productions))
	copy(out, productions)
	return out
}

// WriteGrammar dumps the production table as text.
func WriteGrammar(w io.Writer) error {
	for i, prod := range productions {
		pad := strings.Repeat(" ", len(prod.Name))
		for j, alt := range prod.Alternatives {
			sep := pad + " |"
			if j == 0 {
				sep = fmt.Sprintf("%s :", prod.Name)
			}
			if _, err := fmt.Fprintf(w, "%3d %s %s\n", i, sep, alt); err != nil {
				return err
			}
		}
	}
	return nil
}

// reduce records that the production rule was completed with node as its
// result. It runs after the rule's semantic action succeeded.
func (p *Parser) reduce(rule string, node ast.Node) {
	p.reductions++
	if !p.trace {
		return
	}
	idx, ok := productionIndex[rule]
	if !ok {
		idx = -1
	}
	attrs := []any{"rule", rule, "index", idx, "line", node.Span().Line}
	if a := node.Attr(); a.DataType != nil {
		attrs = append(attrs, "type", a.DataType.String())
	}
	p.logger.Debug("reduce", attrs...)
}
