package labels_test

import (
	"errors"
	"testing"

	"github.com/malphas-lang/gofront/internal/diag"
	"github.com/malphas-lang/gofront/internal/labels"
	"github.com/malphas-lang/gofront/internal/symtab"
	"github.com/malphas-lang/gofront/internal/types"
	"github.com/nalgeon/be"
)

func declare(t *testing.T, s *symtab.Session, name string, line int) {
	t.Helper()
	be.Err(t, s.Add(name, &symtab.Entry{Type: types.Int, Line: line}), nil)
}

func logical(t *testing.T, err error, substr string) *diag.Error {
	t.Helper()
	be.Err(t, err, substr)
	var de *diag.Error
	be.True(t, errors.As(err, &de))
	be.Equal(t, de.Kind, diag.LogicalError)
	return de
}

func TestForwardGotoSameBlock(t *testing.T) {
	s := symtab.New(nil)
	tab := labels.NewTable("main", "")

	be.Err(t, tab.Goto("L", s.Snapshot(1)), nil)
	be.Err(t, tab.Goto("L", s.Snapshot(2)), nil)
	l, ok := tab.Lookup("L")
	be.True(t, ok)
	be.True(t, l.Expecting)
	be.Equal(t, len(l.PrevGotos), 2)

	be.Err(t, tab.Declare("L", s.Snapshot(3), s), nil)
	be.True(t, !l.Expecting)
	be.Equal(t, l.Line(), 3)
	be.Err(t, tab.Finish(), nil)
}

func TestForwardGotoToShallowerLabel(t *testing.T) {
	s := symtab.New(nil)
	tab := labels.NewTable("main", "")

	s.EnterBlock()
	be.Err(t, tab.Goto("L", s.Snapshot(2)), nil)
	s.ExitBlock()
	be.Err(t, tab.Declare("L", s.Snapshot(4), s), nil)
}

func TestForwardGotoIntoBlock(t *testing.T) {
	s := symtab.New(nil)
	tab := labels.NewTable("main", "")

	be.Err(t, tab.Goto("L", s.Snapshot(1)), nil)
	s.EnterBlock()
	err := tab.Declare("L", s.Snapshot(2), s)
	de := logical(t, err, "jumps into block")
	be.Equal(t, de.Line(), 1)
	be.Equal(t, len(de.Related), 1)
	be.Equal(t, de.Related[0].Span.Line, 2)
}

func TestForwardGotoSkipsDeclaration(t *testing.T) {
	s := symtab.New(nil)
	tab := labels.NewTable("main", "")

	be.Err(t, tab.Goto("L", s.Snapshot(1)), nil)
	declare(t, s, "x", 2)
	err := tab.Declare("L", s.Snapshot(3), s)
	logical(t, err, "jumps over declaration of x at line 2")
}

func TestForwardGotoSkipsNestedDeclaration(t *testing.T) {
	s := symtab.New(nil)
	tab := labels.NewTable("main", "")

	be.Err(t, tab.Goto("L", s.Snapshot(1)), nil)
	s.EnterBlock()
	declare(t, s, "x", 3)
	s.ExitBlock()
	be.Err(t, tab.Declare("L", s.Snapshot(5), s), nil)
}

func TestBackwardGoto(t *testing.T) {
	s := symtab.New(nil)
	tab := labels.NewTable("main", "")

	be.Err(t, tab.Declare("L", s.Snapshot(1), s), nil)
	declare(t, s, "x", 2)
	s.EnterBlock()
	be.Err(t, tab.Goto("L", s.Snapshot(3)), nil)
	s.ExitBlock()
}

func TestBackwardGotoIntoBlock(t *testing.T) {
	s := symtab.New(nil)
	tab := labels.NewTable("main", "")

	s.EnterBlock()
	be.Err(t, tab.Declare("L", s.Snapshot(2), s), nil)
	s.ExitBlock()
	err := tab.Goto("L", s.Snapshot(4))
	logical(t, err, "goto L at line 4 jumps into block (label at line 2)")
}

func TestDuplicateLabel(t *testing.T) {
	s := symtab.New(nil)
	tab := labels.NewTable("main", "")

	be.Err(t, tab.Declare("L", s.Snapshot(1), s), nil)
	err := tab.Declare("L", s.Snapshot(5), s)
	de := logical(t, err, "label L already defined at line 1")
	be.Equal(t, de.Line(), 5)
}

func TestDuplicateLabelAfterGoto(t *testing.T) {
	s := symtab.New(nil)
	tab := labels.NewTable("main", "")

	be.Err(t, tab.Goto("L", s.Snapshot(1)), nil)
	be.Err(t, tab.Declare("L", s.Snapshot(2), s), nil)
	logical(t, tab.Declare("L", s.Snapshot(3), s), "already defined")
}

func TestDanglingGoto(t *testing.T) {
	s := symtab.New(nil)
	tab := labels.NewTable("main", "prog.go")

	be.Err(t, tab.Declare("Done", s.Snapshot(1), s), nil)
	be.Err(t, tab.Goto("Missing", s.Snapshot(7)), nil)
	de := logical(t, tab.Finish(), "label Missing not defined")
	be.Equal(t, de.Span.Filename, "prog.go")
	be.Equal(t, de.Line(), 7)

	names := []string{}
	for _, l := range tab.Labels() {
		names = append(names, l.Name)
	}
	be.Equal(t, names, []string{"Done", "Missing"})
}
