package types

// BasicKind groups builtin names into operator classes.
type BasicKind int

const (
	KindInvalid BasicKind = iota
	KindBool
	KindString
	KindInteger
	KindFloat
	KindComplex
)

type basicInfo struct {
	kind     BasicKind
	bits     int // 0 for non-numeric
	unsigned bool
}

var builtins = map[string]basicInfo{
	"bool":       {kind: KindBool},
	"string":     {kind: KindString},
	"int":        {kind: KindInteger, bits: 64},
	"int8":       {kind: KindInteger, bits: 8},
	"int16":      {kind: KindInteger, bits: 16},
	"int32":      {kind: KindInteger, bits: 32},
	"int64":      {kind: KindInteger, bits: 64},
	"uint":       {kind: KindInteger, bits: 64, unsigned: true},
	"uint8":      {kind: KindInteger, bits: 8, unsigned: true},
	"uint16":     {kind: KindInteger, bits: 16, unsigned: true},
	"uint32":     {kind: KindInteger, bits: 32, unsigned: true},
	"uint64":     {kind: KindInteger, bits: 64, unsigned: true},
	"uintptr":    {kind: KindInteger, bits: 64, unsigned: true},
	"byte":       {kind: KindInteger, bits: 8, unsigned: true},
	"rune":       {kind: KindInteger, bits: 32},
	"float32":    {kind: KindFloat, bits: 32},
	"float64":    {kind: KindFloat, bits: 64},
	"complex64":  {kind: KindComplex, bits: 64},
	"complex128": {kind: KindComplex, bits: 128},
}

// Common basic instances.
var (
	Bool       = &Basic{Name: "bool"}
	String     = &Basic{Name: "string"}
	Int        = &Basic{Name: "int"}
	Uint8      = &Basic{Name: "uint8"}
	Rune       = &Basic{Name: "rune"}
	Float64    = &Basic{Name: "float64"}
	Complex128 = &Basic{Name: "complex128"}
)

// IsBuiltin reports whether name is a predeclared basic type name.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// canonicalName maps the byte and rune aliases onto uint8 and int32.
func canonicalName(name string) string {
	switch name {
	case "byte":
		return "uint8"
	case "rune":
		return "int32"
	}
	return name
}

// KindOf classifies t. Non-basic types are KindInvalid.
func KindOf(t Type) BasicKind {
	b, ok := t.(*Basic)
	if !ok {
		return KindInvalid
	}
	return builtins[b.Name].kind
}

// IsBasicInteger reports whether t is one of the builtin integer types.
func IsBasicInteger(t Type) bool { return KindOf(t) == KindInteger }

// IsBasicNumeric reports whether t is an integer, float or complex type.
func IsBasicNumeric(t Type) bool {
	switch KindOf(t) {
	case KindInteger, KindFloat, KindComplex:
		return true
	}
	return false
}

// IsBoolean reports whether t is bool.
func IsBoolean(t Type) bool { return KindOf(t) == KindBool }

// IsString reports whether t is string.
func IsString(t Type) bool { return KindOf(t) == KindString }

// IsUnsigned reports whether t is an unsigned integer type.
func IsUnsigned(t Type) bool {
	b, ok := t.(*Basic)
	return ok && builtins[b.Name].unsigned
}

// bitSize returns the width of a numeric basic type, or 0.
func bitSize(t Type) int {
	b, ok := t.(*Basic)
	if !ok {
		return 0
	}
	return builtins[b.Name].bits
}

// rank orders the numeric families: int < float64 < complex128.
func rank(t Type) int {
	switch KindOf(t) {
	case KindInteger:
		return 0
	case KindFloat:
		return 1
	case KindComplex:
		return 2
	}
	return -1
}

// IsOrdered reports whether values of t support < <= > >=.
func IsOrdered(t Type) bool {
	switch KindOf(t) {
	case KindInteger, KindFloat, KindString:
		return true
	}
	return false
}

// IsComparable reports whether values of t support == and !=.
func IsComparable(t Type) bool {
	switch x := t.(type) {
	case *Basic, *Pointer:
		return true
	case *Array:
		return IsComparable(x.Base)
	case *Struct:
		for _, f := range x.Fields {
			if !IsComparable(f.Type) {
				return false
			}
		}
		return true
	}
	return false
}
