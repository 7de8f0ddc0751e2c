// Package symtab holds the per-parse symbol table: the scope tree, the
// function table and the control-flow context every reduction consults.
package symtab

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/malphas-lang/gofront/internal/types"
)

var (
	ErrRedeclared   = errors.New("redeclared")
	ErrNotFound     = errors.New("undefined")
	ErrTypeNotFound = errors.New("undefined type")
)

// FuncContext is the part of the session that belongs to the innermost
// function body. Function literals save and restore it.
type FuncContext struct {
	InFunc      bool
	Results     []types.Type
	ForDepth    int
	SwitchDepth int
}

// Session is the symbol table owned by one parse.
type Session struct {
	ID uuid.UUID

	scopes  []*Scope
	current *Scope
	funcs   map[string]*types.Func

	block     *Block
	nextBlock int
	decls     []Decl

	fn FuncContext

	logger *slog.Logger
}

// New creates a session whose current scope is the package scope.
func New(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{
		ID:    uuid.New(),
		funcs: make(map[string]*types.Func),
		block: &Block{},
	}
	s.logger = logger.With("session", s.ID.String())
	s.current = newScope(0, -1)
	s.scopes = append(s.scopes, s.current)
	s.nextBlock = 1
	return s
}

// Logger returns the session-scoped logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// Current returns the current scope.
func (s *Session) Current() *Scope { return s.current }

// Scope returns the scope with the given id.
func (s *Session) Scope(id int) *Scope {
	if id < 0 || id >= len(s.scopes) {
		return nil
	}
	return s.scopes[id]
}

// EnterScope pushes a new scope whose parent is the current one.
func (s *Session) EnterScope() *Scope {
	sc := newScope(len(s.scopes), s.current.ID)
	s.scopes = append(s.scopes, sc)
	s.current = sc
	s.logger.Debug("enter scope", "scope", sc.ID, "parent", sc.Parent)
	return sc
}

// ExitScope pops the current scope.
func (s *Session) ExitScope() error {
	if s.current.Parent < 0 {
		return errors.New("exit from package scope")
	}
	s.logger.Debug("exit scope", "scope", s.current.ID)
	s.current = s.scopes[s.current.Parent]
	return nil
}

func (s *Session) parent(sc *Scope) *Scope {
	if sc.Parent < 0 {
		return nil
	}
	return s.scopes[sc.Parent]
}

// Add binds name in the current scope. The blank identifier is never bound.
// Shadowing an outer binding is allowed. Only variables are recorded for
// goto validation.
func (s *Session) Add(name string, e *Entry) error {
	if name == "_" {
		return nil
	}
	if _, ok := s.current.entries[name]; ok {
		return fmt.Errorf("%w: %s redeclared in this block", ErrRedeclared, name)
	}
	if _, ok := s.current.typeDefs[name]; ok {
		return fmt.Errorf("%w: %s redeclared in this block (already a type)", ErrRedeclared, name)
	}
	if _, ok := s.funcs[name]; ok {
		return fmt.Errorf("%w: %s already declared as a function", ErrRedeclared, name)
	}
	s.current.entries[name] = e
	if !e.Const {
		s.decls = append(s.decls, Decl{Name: name, Block: s.block, Seq: len(s.decls) + 1, Line: e.Line})
	}
	return nil
}

// Get returns the nearest binding of name.
func (s *Session) Get(name string) (*Entry, error) {
	for sc := s.current; sc != nil; sc = s.parent(sc) {
		if e, ok := sc.entries[name]; ok {
			return e, nil
		}
	}
	if e, ok := universe[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// GetScope returns the id of the scope holding the nearest binding of name,
// or -1.
func (s *Session) GetScope(name string) int {
	for sc := s.current; sc != nil; sc = s.parent(sc) {
		if _, ok := sc.entries[name]; ok {
			return sc.ID
		}
	}
	return -1
}

// AddType registers a local type name in the current scope. Named targets
// should be stored as Basic links; FindType resolves them.
func (s *Session) AddType(name string, t types.Type) error {
	if name == "_" {
		return nil
	}
	if _, ok := s.current.typeDefs[name]; ok {
		return fmt.Errorf("%w: type %s redeclared in this block", ErrRedeclared, name)
	}
	if _, ok := s.current.entries[name]; ok {
		return fmt.Errorf("%w: %s redeclared in this block", ErrRedeclared, name)
	}
	if _, ok := s.funcs[name]; ok {
		return fmt.Errorf("%w: %s already declared as a function", ErrRedeclared, name)
	}
	s.current.typeDefs[name] = t
	return nil
}

func (s *Session) lookupType(name string) (types.Type, bool) {
	for sc := s.current; sc != nil; sc = s.parent(sc) {
		if t, ok := sc.typeDefs[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// FindType resolves name to its canonical descriptor, following chains of
// named types until a builtin or structural type is reached.
func (s *Session) FindType(name string) (types.Type, error) {
	seen := make(map[string]bool)
	for {
		t, ok := s.lookupType(name)
		if !ok {
			if types.IsBuiltin(name) {
				return &types.Basic{Name: name}, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
		}
		b, isLink := t.(*types.Basic)
		if !isLink {
			return t, nil
		}
		if seen[name] {
			return nil, fmt.Errorf("invalid recursive type %s", name)
		}
		seen[name] = true
		if _, local := s.lookupType(b.Name); !local {
			if types.IsBuiltin(b.Name) {
				return b, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, b.Name)
		}
		name = b.Name
	}
}

// AddFunction registers a function signature in the global function table.
func (s *Session) AddFunction(name string, sig *types.Func) error {
	if _, ok := s.funcs[name]; ok {
		return fmt.Errorf("%w: function %s redeclared", ErrRedeclared, name)
	}
	if s.GetScope(name) >= 0 {
		return fmt.Errorf("%w: %s already declared as a variable", ErrRedeclared, name)
	}
	if _, ok := s.lookupType(name); ok {
		return fmt.Errorf("%w: %s already declared as a type", ErrRedeclared, name)
	}
	s.funcs[name] = sig
	return nil
}

// LookupFunction returns the signature of a declared function.
func (s *Session) LookupFunction(name string) (*types.Func, bool) {
	f, ok := s.funcs[name]
	return f, ok
}

// EnterFunc starts a function body with the given results and returns the
// enclosing context for LeaveFunc.
func (s *Session) EnterFunc(results []types.Type) FuncContext {
	prev := s.fn
	s.fn = FuncContext{InFunc: true, Results: results}
	return prev
}

// LeaveFunc restores the context saved by EnterFunc.
func (s *Session) LeaveFunc(prev FuncContext) { s.fn = prev }

// ReturnType returns the active function's results and whether a function
// body is being parsed.
func (s *Session) ReturnType() ([]types.Type, bool) { return s.fn.Results, s.fn.InFunc }

// ForDepth is the number of enclosing for bodies in the current function.
func (s *Session) ForDepth() int { return s.fn.ForDepth }

// SwitchDepth is the number of enclosing switch statements in the current
// function.
func (s *Session) SwitchDepth() int { return s.fn.SwitchDepth }

func (s *Session) EnterFor()    { s.fn.ForDepth++ }
func (s *Session) ExitFor()     { s.fn.ForDepth-- }
func (s *Session) EnterSwitch() { s.fn.SwitchDepth++ }
func (s *Session) ExitSwitch()  { s.fn.SwitchDepth-- }

// EnterBlock pushes a block frame. Plain blocks push frames without opening
// a symbol scope.
func (s *Session) EnterBlock() *Block {
	s.block = &Block{ID: s.nextBlock, Parent: s.block, Depth: s.block.Depth + 1}
	s.nextBlock++
	return s.block
}

// ExitBlock pops the current block frame.
func (s *Session) ExitBlock() {
	if s.block.Parent != nil {
		s.block = s.block.Parent
	}
}

// Block returns the current block frame.
func (s *Session) Block() *Block { return s.block }

// Snapshot captures the current position for goto validation.
func (s *Session) Snapshot(line int) Snapshot {
	return Snapshot{Block: s.block, Scope: s.current.ID, Seq: len(s.decls), Line: line}
}

// DeclsBetween returns the declarations recorded after position from and up
// to and including position to.
func (s *Session) DeclsBetween(from, to int) []Decl {
	lo := sort.Search(len(s.decls), func(i int) bool { return s.decls[i].Seq > from })
	hi := sort.Search(len(s.decls), func(i int) bool { return s.decls[i].Seq > to })
	if lo >= hi {
		return nil
	}
	return s.decls[lo:hi]
}
