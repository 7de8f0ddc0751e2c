package symtab_test

import (
	"go/constant"
	"testing"

	"github.com/malphas-lang/gofront/internal/symtab"
	"github.com/malphas-lang/gofront/internal/types"
	"github.com/nalgeon/be"
)

func TestNewSession(t *testing.T) {
	s := symtab.New(nil)
	be.Equal(t, s.Current().ID, 0)
	be.Equal(t, s.Current().Parent, -1)
	be.True(t, s.ID.String() != "")

	other := symtab.New(nil)
	be.True(t, s.ID != other.ID)
}

func TestAddAndGet(t *testing.T) {
	s := symtab.New(nil)
	err := s.Add("x", &symtab.Entry{Type: types.Int, Const: true, Val: constant.MakeInt64(5)})
	be.Err(t, err, nil)

	e, err := s.Get("x")
	be.Err(t, err, nil)
	be.Equal(t, e.Type.String(), "int")
	be.True(t, e.Const)
	be.Equal(t, e.Val.String(), "5")

	_, err = s.Get("y")
	be.Err(t, err, symtab.ErrNotFound)
}

func TestRedeclaration(t *testing.T) {
	s := symtab.New(nil)
	be.Err(t, s.Add("x", &symtab.Entry{Type: types.Int}), nil)

	err := s.Add("x", &symtab.Entry{Type: types.Float64})
	be.Err(t, err, symtab.ErrRedeclared)
	be.Err(t, err, "x redeclared in this block")

	be.Err(t, s.Add("_", &symtab.Entry{Type: types.Int}), nil)
	be.Err(t, s.Add("_", &symtab.Entry{Type: types.Int}), nil)
}

func TestShadowing(t *testing.T) {
	s := symtab.New(nil)
	be.Err(t, s.Add("x", &symtab.Entry{Type: types.Int}), nil)

	inner := s.EnterScope()
	be.Equal(t, inner.Parent, 0)
	be.Err(t, s.Add("x", &symtab.Entry{Type: types.String}), nil)

	e, err := s.Get("x")
	be.Err(t, err, nil)
	be.Equal(t, e.Type.String(), "string")
	be.Equal(t, s.GetScope("x"), inner.ID)

	be.Err(t, s.ExitScope(), nil)
	e, err = s.Get("x")
	be.Err(t, err, nil)
	be.Equal(t, e.Type.String(), "int")
	be.Equal(t, s.GetScope("x"), 0)
	be.Equal(t, s.GetScope("nope"), -1)

	be.Err(t, s.ExitScope(), "package scope")
}

func TestUniverse(t *testing.T) {
	s := symtab.New(nil)
	e, err := s.Get("true")
	be.Err(t, err, nil)
	be.True(t, e.Const)
	be.Equal(t, e.Type.String(), "bool")

	// true can be shadowed
	be.Err(t, s.Add("true", &symtab.Entry{Type: types.Int}), nil)
	e, err = s.Get("true")
	be.Err(t, err, nil)
	be.Equal(t, e.Type.String(), "int")
}

func TestFindType(t *testing.T) {
	s := symtab.New(nil)
	point := &types.Struct{Fields: []types.Field{{Name: "X", Type: types.Int}}}
	be.Err(t, s.AddType("Point", point), nil)
	be.Err(t, s.AddType("P2", &types.Basic{Name: "Point"}), nil)
	be.Err(t, s.AddType("Celsius", &types.Basic{Name: "float64"}), nil)

	got, err := s.FindType("P2")
	be.Err(t, err, nil)
	be.Equal(t, got.String(), "struct{X int}")

	got, err = s.FindType("Celsius")
	be.Err(t, err, nil)
	be.Equal(t, got.String(), "float64")

	got, err = s.FindType("rune")
	be.Err(t, err, nil)
	be.Equal(t, got.String(), "rune")

	_, err = s.FindType("Missing")
	be.Err(t, err, symtab.ErrTypeNotFound)

	be.Err(t, s.AddType("Point", types.Int), symtab.ErrRedeclared)
	be.Err(t, s.Add("Point", &symtab.Entry{Type: types.Int}), symtab.ErrRedeclared)
}

func TestFindTypeCycle(t *testing.T) {
	s := symtab.New(nil)
	be.Err(t, s.AddType("A", &types.Basic{Name: "B"}), nil)
	be.Err(t, s.AddType("B", &types.Basic{Name: "A"}), nil)
	_, err := s.FindType("A")
	be.Err(t, err, "invalid recursive type")
}

func TestFunctions(t *testing.T) {
	s := symtab.New(nil)
	sig := &types.Func{Params: []types.Type{types.Int}, Results: []types.Type{types.Int, types.Bool}}
	be.Err(t, s.AddFunction("f", sig), nil)

	got, ok := s.LookupFunction("f")
	be.True(t, ok)
	be.Equal(t, got.String(), "func(int) (int, bool)")

	be.Err(t, s.AddFunction("f", sig), "function f redeclared")
	be.Err(t, s.Add("f", &symtab.Entry{Type: types.Int}), "already declared as a function")

	be.Err(t, s.Add("g", &symtab.Entry{Type: types.Int}), nil)
	be.Err(t, s.AddFunction("g", sig), "already declared as a variable")
}

func TestFuncContext(t *testing.T) {
	s := symtab.New(nil)
	_, ok := s.ReturnType()
	be.True(t, !ok)

	outer := s.EnterFunc([]types.Type{types.Int})
	s.EnterFor()
	be.Equal(t, s.ForDepth(), 1)

	lit := s.EnterFunc(nil)
	be.Equal(t, s.ForDepth(), 0)
	res, ok := s.ReturnType()
	be.True(t, ok)
	be.Equal(t, len(res), 0)
	s.LeaveFunc(lit)

	be.Equal(t, s.ForDepth(), 1)
	s.ExitFor()
	s.EnterSwitch()
	be.Equal(t, s.SwitchDepth(), 1)
	s.ExitSwitch()
	s.LeaveFunc(outer)

	_, ok = s.ReturnType()
	be.True(t, !ok)
}

func TestBlocksAndDecls(t *testing.T) {
	s := symtab.New(nil)
	root := s.Block()
	start := s.Snapshot(1)

	outer := s.EnterBlock()
	be.Err(t, s.Add("a", &symtab.Entry{Type: types.Int, Line: 2}), nil)
	inner := s.EnterBlock()
	be.Err(t, s.Add("b", &symtab.Entry{Type: types.Int, Line: 3}), nil)
	s.ExitBlock()
	be.Err(t, s.Add("_", &symtab.Entry{Type: types.Int, Line: 4}), nil)
	be.Err(t, s.Add("c", &symtab.Entry{Type: types.Int, Const: true, Line: 4}), nil)
	end := s.Snapshot(5)
	s.ExitBlock()

	be.True(t, root.Encloses(inner))
	be.True(t, outer.Encloses(inner))
	be.True(t, outer.Encloses(outer))
	be.True(t, !inner.Encloses(outer))
	be.Equal(t, s.Block(), root)
	be.Equal(t, end.Block, outer)

	decls := s.DeclsBetween(start.Seq, end.Seq)
	be.Equal(t, len(decls), 2)
	be.Equal(t, decls[0].Name, "a")
	be.Equal(t, decls[0].Block, outer)
	be.Equal(t, decls[1].Name, "b")
	be.Equal(t, decls[1].Line, 3)

	be.Equal(t, len(s.DeclsBetween(end.Seq, end.Seq)), 0)
}
