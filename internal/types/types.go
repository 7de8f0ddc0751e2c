package types

import (
	"fmt"
	"strings"
)

// Type is a type descriptor. The set of implementations is closed: Basic,
// Pointer, Array, Slice, Map, Struct and Func.
type Type interface {
	String() string
	// IsType is a marker method to ensure type safety.
	IsType()
}

// Basic is a builtin scalar type identified by name.
type Basic struct {
	Name string
}

func (b *Basic) String() string { return b.Name }
func (b *Basic) IsType()        {}

// Pointer is Level levels of indirection to Base. Base is never a Pointer.
type Pointer struct {
	Base  Type
	Level int
}

func (p *Pointer) String() string { return strings.Repeat("*", p.Level) + p.Base.String() }
func (p *Pointer) IsType()        {}

// Elem returns the type obtained by dereferencing p once.
func (p *Pointer) Elem() Type {
	if p.Level > 1 {
		return &Pointer{Base: p.Base, Level: p.Level - 1}
	}
	return p.Base
}

// Array is Level nested fixed-length arrays of Base. Lens holds one length per
// level, outermost first. Base is never an Array.
type Array struct {
	Base  Type
	Level int
	Lens  []int64
}

func (a *Array) String() string {
	var sb strings.Builder
	for _, n := range a.Lens {
		fmt.Fprintf(&sb, "[%d]", n)
	}
	sb.WriteString(a.Base.String())
	return sb.String()
}
func (a *Array) IsType() {}

// Len returns the length of the outermost array.
func (a *Array) Len() int64 { return a.Lens[0] }

// Elem returns the element type of the outermost array.
func (a *Array) Elem() Type {
	if a.Level > 1 {
		return &Array{Base: a.Base, Level: a.Level - 1, Lens: a.Lens[1:]}
	}
	return a.Base
}

// Slice is Level nested slices of Base. Base is never a Slice.
type Slice struct {
	Base  Type
	Level int
}

func (s *Slice) String() string { return strings.Repeat("[]", s.Level) + s.Base.String() }
func (s *Slice) IsType()        {}

// Elem returns the element type of the outermost slice.
func (s *Slice) Elem() Type {
	if s.Level > 1 {
		return &Slice{Base: s.Base, Level: s.Level - 1}
	}
	return s.Base
}

// Map is a map from Key to Value.
type Map struct {
	Key   Type
	Value Type
}

func (m *Map) String() string { return "map[" + m.Key.String() + "]" + m.Value.String() }
func (m *Map) IsType()        {}

// Field is a struct member. Embedded fields are named after their type.
type Field struct {
	Name     string
	Type     Type
	Embedded bool
	Tag      string
}

// Struct is a struct type with ordered fields.
type Struct struct {
	Fields []Field
}

func (s *Struct) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		if f.Embedded {
			parts[i] = f.Type.String()
			continue
		}
		parts[i] = f.Name + " " + f.Type.String()
	}
	return "struct{" + strings.Join(parts, "; ") + "}"
}
func (s *Struct) IsType() {}

// Field looks up a field by name.
func (s *Struct) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Func is a function signature. When Variadic is set the last parameter is a
// slice that collects the trailing arguments.
type Func struct {
	Params   []Type
	Results  []Type
	Variadic bool
}

func (f *Func) String() string {
	var sb strings.Builder
	sb.WriteString("func(")
	params := joinTypes(f.Params)
	if last, ok := f.variadicParam(); ok {
		params = joinTypes(f.Params[:len(f.Params)-1])
		if params != "" {
			params += ", "
		}
		params += "..." + last.Elem().String()
	}
	sb.WriteString(params)
	sb.WriteString(")")
	switch len(f.Results) {
	case 0:
	case 1:
		sb.WriteString(" " + f.Results[0].String())
	default:
		sb.WriteString(" (" + joinTypes(f.Results) + ")")
	}
	return sb.String()
}
func (f *Func) IsType() {}

func (f *Func) variadicParam() (*Slice, bool) {
	if !f.Variadic || len(f.Params) == 0 {
		return nil, false
	}
	s, ok := f.Params[len(f.Params)-1].(*Slice)
	return s, ok
}

func joinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// NewPointer returns a pointer to base, folding into an existing Pointer level.
func NewPointer(base Type) *Pointer {
	if p, ok := base.(*Pointer); ok {
		return &Pointer{Base: p.Base, Level: p.Level + 1}
	}
	return &Pointer{Base: base, Level: 1}
}

// NewSlice returns a slice of elem, folding into an existing Slice level.
func NewSlice(elem Type) *Slice {
	if s, ok := elem.(*Slice); ok {
		return &Slice{Base: s.Base, Level: s.Level + 1}
	}
	return &Slice{Base: elem, Level: 1}
}

// NewArray returns an n-element array of elem, folding into an existing Array
// level.
func NewArray(elem Type, n int64) *Array {
	if a, ok := elem.(*Array); ok {
		lens := append([]int64{n}, a.Lens...)
		return &Array{Base: a.Base, Level: a.Level + 1, Lens: lens}
	}
	return &Array{Base: elem, Level: 1, Lens: []int64{n}}
}

// NewMap returns map[key]value. Map, Func, Slice and Array keys are rejected.
func NewMap(key, value Type) (*Map, error) {
	switch key.(type) {
	case *Map, *Func, *Slice, *Array:
		return nil, fmt.Errorf("invalid map key type %s", key)
	}
	return &Map{Key: key, Value: value}, nil
}

// Identical reports whether a and b describe the same type.
func Identical(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Basic:
		y, ok := b.(*Basic)
		return ok && canonicalName(x.Name) == canonicalName(y.Name)
	case *Pointer:
		y, ok := b.(*Pointer)
		return ok && x.Level == y.Level && Identical(x.Base, y.Base)
	case *Slice:
		y, ok := b.(*Slice)
		return ok && x.Level == y.Level && Identical(x.Base, y.Base)
	case *Array:
		y, ok := b.(*Array)
		if !ok || x.Level != y.Level || !Identical(x.Base, y.Base) {
			return false
		}
		for i := range x.Lens {
			if x.Lens[i] != y.Lens[i] {
				return false
			}
		}
		return true
	case *Map:
		y, ok := b.(*Map)
		return ok && Identical(x.Key, y.Key) && Identical(x.Value, y.Value)
	case *Struct:
		y, ok := b.(*Struct)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			fx, fy := x.Fields[i], y.Fields[i]
			if fx.Name != fy.Name || fx.Embedded != fy.Embedded || !Identical(fx.Type, fy.Type) {
				return false
			}
		}
		return true
	case *Func:
		y, ok := b.(*Func)
		return ok && x.Variadic == y.Variadic && identicalLists(x.Params, y.Params) && identicalLists(x.Results, y.Results)
	}
	return false
}

func identicalLists(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Identical(a[i], b[i]) {
			return false
		}
	}
	return true
}
