// Package labels validates goto statements against the labels they name.
//
// Labels may be referenced before they are declared, so every label moves
// through a small state machine: a goto seen first creates a pending entry,
// further gotos append to it, and the label statement resolves it after
// checking every recorded goto. Gotos that arrive after the label are checked
// immediately. Whatever is still pending when the file ends is an error.
package labels

import (
	"errors"
	"fmt"

	"github.com/malphas-lang/gofront/internal/diag"
	"github.com/malphas-lang/gofront/internal/symtab"
)

// Decls reports the variable declarations made between two snapshot
// sequence numbers. *symtab.Session implements it.
type Decls interface {
	DeclsBetween(from, to int) []symtab.Decl
}

// Label is the state of one label name within a function.
type Label struct {
	Name      string
	Expecting bool
	Snapshot  symtab.Snapshot   // label position once resolved, else the first goto
	PrevGotos []symtab.Snapshot // forward gotos waiting for the label
}

// Line returns the line of the label statement, or of the first goto while the
// label is still pending.
func (l *Label) Line() int { return l.Snapshot.Line }

// Table holds the labels of one function body.
type Table struct {
	Func     string
	filename string
	labels   map[string]*Label
	order    []string
}

// NewTable creates the label table for the function fn.
func NewTable(fn, filename string) *Table {
	return &Table{
		Func:     fn,
		filename: filename,
		labels:   make(map[string]*Label),
	}
}

func (t *Table) span(at symtab.Snapshot) diag.Span {
	return diag.Span{Filename: t.filename, Line: at.Line, Column: at.Column}
}

// Lookup returns the entry for name.
func (t *Table) Lookup(name string) (*Label, bool) {
	l, ok := t.labels[name]
	return l, ok
}

// Labels returns the entries in the order they were first mentioned.
func (t *Table) Labels() []*Label {
	out := make([]*Label, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.labels[name])
	}
	return out
}

// Goto records a goto to name at the position at.
func (t *Table) Goto(name string, at symtab.Snapshot) error {
	l, ok := t.labels[name]
	if !ok {
		t.labels[name] = &Label{
			Name:      name,
			Expecting: true,
			Snapshot:  at,
			PrevGotos: []symtab.Snapshot{at},
		}
		t.order = append(t.order, name)
		return nil
	}
	if l.Expecting {
		l.PrevGotos = append(l.PrevGotos, at)
		return nil
	}
	return t.check(name, l.Snapshot, at, nil)
}

// Declare resolves the label statement name at the position at, validating
// every goto that referenced it earlier.
func (t *Table) Declare(name string, at symtab.Snapshot, decls Decls) error {
	l, ok := t.labels[name]
	if !ok {
		t.labels[name] = &Label{Name: name, Snapshot: at}
		t.order = append(t.order, name)
		return nil
	}
	if !l.Expecting {
		return diag.Errorf(diag.LogicalError, t.span(at),
			"label %s already defined at line %d", name, l.Snapshot.Line).
			WithRelated(t.span(l.Snapshot), "previous definition")
	}
	for _, g := range l.PrevGotos {
		if err := t.check(name, at, g, decls); err != nil {
			return err
		}
	}
	l.Expecting = false
	l.Snapshot = at
	l.PrevGotos = nil
	return nil
}

// Finish reports the first label that was jumped to but never declared.
func (t *Table) Finish() error {
	for _, name := range t.order {
		l := t.labels[name]
		if l.Expecting {
			return diag.Errorf(diag.LogicalError, t.span(l.Snapshot),
				"label %s not defined", name)
		}
	}
	return nil
}

// check validates a goto at g against the label at label. When decls is
// non-nil the jump is forward and may not skip a variable declaration that is
// still in scope at the label.
func (t *Table) check(name string, label, g symtab.Snapshot, decls Decls) error {
	if err := IsValidGoto(label, g, decls); err != nil {
		return diag.Errorf(diag.LogicalError, t.span(g),
			"goto %s at line %d %s (label at line %d)", name, g.Line, err.Error(), label.Line).
			WithRelated(t.span(label), "label "+name)
	}
	return nil
}

// IsValidGoto reports why a jump from g to label is illegal, or nil. A goto
// may not enter a block it is not already in. With decls set, the jump may
// also not skip a declaration made in a block that encloses the label.
func IsValidGoto(label, g symtab.Snapshot, decls Decls) error {
	if label.Block != nil && !label.Block.Encloses(g.Block) {
		return errors.New("jumps into block")
	}
	if decls == nil {
		return nil
	}
	for _, d := range decls.DeclsBetween(g.Seq, label.Seq) {
		if d.Block.Encloses(label.Block) {
			return fmt.Errorf("jumps over declaration of %s at line %d", d.Name, d.Line)
		}
	}
	return nil
}
