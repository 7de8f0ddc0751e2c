package ast

import "reflect"

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, fn)
	}
}

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil && !isNil(c) {
			out = append(out, c)
		}
	}
	switch n := n.(type) {
	case *File:
		add(n.Package)
		for _, imp := range n.Imports {
			add(imp)
		}
		for _, decl := range n.Decls {
			add(decl)
		}

	case *ImportSpec:
		add(n.Name)

	case *GenDecl:
		for _, spec := range n.Specs {
			add(spec)
		}

	case *ValueSpec:
		for _, name := range n.Names {
			add(name)
		}
		add(n.Type)
		for _, v := range n.Values {
			add(v)
		}

	case *TypeSpec:
		add(n.Name)
		add(n.Type)

	case *FuncDecl:
		add(n.Name)
		add(n.Type)
		add(n.Body)

	case *CompositeLit:
		add(n.Type)
		for _, e := range n.Elts {
			add(e)
		}

	case *KeyValueExpr:
		add(n.Key)
		add(n.Value)

	case *FuncLit:
		add(n.Type)
		add(n.Body)

	case *ParenExpr:
		add(n.X)

	case *BinaryExpr:
		add(n.X)
		add(n.Y)

	case *UnaryExpr:
		add(n.X)

	case *CallExpr:
		add(n.Fun)
		for _, a := range n.Args {
			add(a)
		}

	case *IndexExpr:
		add(n.X)
		add(n.Index)

	case *SliceExpr:
		add(n.X)
		add(n.Low)
		add(n.High)
		add(n.Max)

	case *SelectorExpr:
		add(n.X)
		add(n.Sel)

	case *TypeOperand:
		add(n.Type)

	case *BlockStmt:
		for _, s := range n.Stmts {
			add(s)
		}

	case *IfStmt:
		add(n.Init)
		add(n.Cond)
		add(n.Then)
		add(n.Else)

	case *ForStmt:
		add(n.Init)
		add(n.Cond)
		add(n.Post)
		add(n.Body)

	case *RangeStmt:
		add(n.Key)
		add(n.Value)
		add(n.X)
		add(n.Body)

	case *SwitchStmt:
		add(n.Init)
		add(n.Tag)
		for _, c := range n.Clauses {
			add(c)
		}

	case *CaseClause:
		for _, e := range n.List {
			add(e)
		}
		for _, s := range n.Body {
			add(s)
		}

	case *LabeledStmt:
		add(n.Name)
		add(n.Stmt)

	case *BranchStmt:
		add(n.Target)

	case *ReturnStmt:
		for _, r := range n.Results {
			add(r)
		}

	case *AssignStmt:
		for _, l := range n.Lhs {
			add(l)
		}
		for _, r := range n.Rhs {
			add(r)
		}

	case *IncDecStmt:
		add(n.X)

	case *ExprStmt:
		add(n.X)

	case *DeclStmt:
		add(n.Decl)

	case *NamedType:
		add(n.Pkg)
		add(n.Name)

	case *PointerType:
		add(n.Elem)

	case *ArrayType:
		add(n.Len)
		add(n.Elem)

	case *SliceType:
		add(n.Elem)

	case *MapType:
		add(n.Key)
		add(n.Value)

	case *StructType:
		for _, f := range n.Fields {
			add(f)
		}

	case *FieldDecl:
		for _, name := range n.Names {
			add(name)
		}
		add(n.Type)

	case *FuncType:
		for _, p := range n.Params {
			add(p)
		}
		for _, r := range n.Results {
			add(r)
		}

	case *Param:
		for _, name := range n.Names {
			add(name)
		}
		add(n.Type)
	}
	return out
}

// isNil catches typed nil pointers stored in interface fields.
func isNil(n Node) bool {
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
