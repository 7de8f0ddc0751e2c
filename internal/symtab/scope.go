package symtab

import (
	"go/constant"

	"github.com/malphas-lang/gofront/internal/types"
)

// Entry is the binding of one identifier.
type Entry struct {
	Type    types.Type
	Const   bool
	Untyped bool           // constant declared without a type
	Val     constant.Value // set when Const and the value folded
	IsArg   bool
	Line    int
}

// Scope maps identifiers and local type names to their definitions. Scopes
// form a tree rooted at the package scope (id 0).
type Scope struct {
	ID     int
	Parent int // -1 for the package scope

	entries  map[string]*Entry
	typeDefs map[string]types.Type
}

func newScope(id, parent int) *Scope {
	return &Scope{
		ID:       id,
		Parent:   parent,
		entries:  make(map[string]*Entry),
		typeDefs: make(map[string]types.Type),
	}
}

// Lookup returns the entry bound to name in this scope only.
func (s *Scope) Lookup(name string) (*Entry, bool) {
	e, ok := s.entries[name]
	return e, ok
}

// Len returns the number of identifiers bound in s.
func (s *Scope) Len() int { return len(s.entries) }

// universe holds the predeclared constants. It sits outside the scope tree so
// user code may shadow them anywhere.
var universe = map[string]*Entry{
	"true":  {Type: types.Bool, Const: true, Untyped: true, Val: constant.MakeBool(true)},
	"false": {Type: types.Bool, Const: true, Untyped: true, Val: constant.MakeBool(false)},
}
