package types

import "fmt"

// Operand is an expression's type together with the facts the operator rules
// depend on.
type Operand struct {
	Type        Type
	Const       bool
	Addressable bool
}

// Castable reports whether a value of type source may be used where target is
// expected. Identical types are always castable; numeric types widen along
// int < float64 < complex128, and within one family only to a type at least
// as wide with the same signedness; composite types must be structurally
// identical.
func Castable(target, source Type) bool {
	if target == nil || source == nil {
		return false
	}
	if Identical(target, source) {
		return true
	}
	if !IsBasicNumeric(target) || !IsBasicNumeric(source) {
		return false
	}
	if rs, rt := rank(source), rank(target); rs != rt {
		return rs < rt
	}
	return bitSize(source) <= bitSize(target) && IsUnsigned(source) == IsUnsigned(target)
}

// Convertible reports whether an explicit conversion T(x) is permitted.
func Convertible(target, source Type) bool {
	if Castable(target, source) || Castable(source, target) {
		return true
	}
	if IsBasicNumeric(target) && IsBasicNumeric(source) {
		return true
	}
	if IsString(target) && IsBasicInteger(source) {
		return true
	}
	if IsString(target) && isByteOrRuneSlice(source) || IsString(source) && isByteOrRuneSlice(target) {
		return true
	}
	return false
}

func isByteOrRuneSlice(t Type) bool {
	s, ok := t.(*Slice)
	if !ok || s.Level != 1 {
		return false
	}
	b, ok := s.Base.(*Basic)
	if !ok {
		return false
	}
	name := canonicalName(b.Name)
	return name == "uint8" || name == "int32"
}

type opClass int

const (
	classUnknown opClass = iota
	classArith
	classRemainder
	classBitwise
	classShift
	classLogical
	classEquality
	classOrder
)

func binaryClass(op string) opClass {
	switch op {
	case "+", "-", "*", "/":
		return classArith
	case "%":
		return classRemainder
	case "&", "|", "^", "&^":
		return classBitwise
	case "<<", ">>":
		return classShift
	case "&&", "||":
		return classLogical
	case "==", "!=":
		return classEquality
	case "<", "<=", ">", ">=":
		return classOrder
	}
	return classUnknown
}

// IsComparison reports whether op yields a bool from two operands.
func IsComparison(op string) bool {
	switch binaryClass(op) {
	case classLogical, classEquality, classOrder:
		return true
	}
	return false
}

func mismatched(op string, x, y Type) error {
	return fmt.Errorf("invalid operation: operator %s on mismatched types %s and %s", op, x, y)
}

func notDefined(op string, t Type) error {
	return fmt.Errorf("invalid operation: operator %s not defined on operand of type %s", op, t)
}

// CheckBinOp verifies that both operand types belong to the class op requires.
func CheckBinOp(op string, x, y Type) error {
	if x == nil || y == nil {
		return fmt.Errorf("invalid operation: operand of %s has no value", op)
	}
	switch binaryClass(op) {
	case classArith:
		if IsString(x) && IsString(y) {
			if op == "+" {
				return nil
			}
			return notDefined(op, x)
		}
		if IsString(x) || IsString(y) {
			return mismatched(op, x, y)
		}
		if !IsBasicNumeric(x) {
			return notDefined(op, x)
		}
		if !IsBasicNumeric(y) {
			return notDefined(op, y)
		}
	case classRemainder, classBitwise, classShift:
		if !IsBasicInteger(x) {
			return notDefined(op, x)
		}
		if !IsBasicInteger(y) {
			return notDefined(op, y)
		}
	case classLogical:
		if !IsBoolean(x) {
			return notDefined(op, x)
		}
		if !IsBoolean(y) {
			return notDefined(op, y)
		}
	case classEquality:
		if !IsComparable(x) {
			return notDefined(op, x)
		}
		if !IsComparable(y) {
			return notDefined(op, y)
		}
	case classOrder:
		if !IsOrdered(x) {
			return notDefined(op, x)
		}
		if !IsOrdered(y) {
			return notDefined(op, y)
		}
	default:
		return fmt.Errorf("unknown binary operator %s", op)
	}
	return nil
}

// dominant picks the result type of a mixed-type operation. Numeric operands
// promote to the wider family; within one family a constant operand adopts the
// type of the other operand.
func dominant(x, y Operand) (Type, bool) {
	if Identical(x.Type, y.Type) {
		return x.Type, true
	}
	if !IsBasicNumeric(x.Type) || !IsBasicNumeric(y.Type) {
		return nil, false
	}
	rx, ry := rank(x.Type), rank(y.Type)
	switch {
	case rx > ry:
		return x.Type, true
	case ry > rx:
		return y.Type, true
	case y.Const:
		return x.Type, true
	case x.Const:
		return y.Type, true
	}
	return nil, false
}

// FinalType returns the type of x op y. Comparisons yield bool, shifts yield
// the left operand's type and everything else yields the dominant operand
// type.
func FinalType(op string, x, y Operand) (Type, error) {
	if err := CheckBinOp(op, x.Type, y.Type); err != nil {
		return nil, err
	}
	switch binaryClass(op) {
	case classShift:
		return x.Type, nil
	case classLogical:
		return Bool, nil
	case classEquality, classOrder:
		if _, ok := dominant(x, y); !ok {
			return nil, mismatched(op, x.Type, y.Type)
		}
		return Bool, nil
	}
	t, ok := dominant(x, y)
	if !ok {
		return nil, mismatched(op, x.Type, y.Type)
	}
	return t, nil
}

// CheckUnOp verifies that the operand type belongs to the class op requires.
// Address-of is checked by UnaryType since it depends on addressability.
func CheckUnOp(op string, t Type) error {
	if t == nil {
		return fmt.Errorf("invalid operation: operand of %s has no value", op)
	}
	switch op {
	case "!":
		if !IsBoolean(t) {
			return notDefined(op, t)
		}
	case "+", "-":
		if !IsBasicNumeric(t) {
			return notDefined(op, t)
		}
	case "^":
		if !IsBasicInteger(t) {
			return notDefined(op, t)
		}
	case "*":
		if _, ok := t.(*Pointer); !ok {
			return fmt.Errorf("invalid operation: cannot indirect non-pointer type %s", t)
		}
	case "&":
	default:
		return fmt.Errorf("unknown unary operator %s", op)
	}
	return nil
}

// UnaryType returns the type of op x.
func UnaryType(op string, x Operand) (Type, error) {
	if err := CheckUnOp(op, x.Type); err != nil {
		return nil, err
	}
	switch op {
	case "*":
		return x.Type.(*Pointer).Elem(), nil
	case "&":
		if !x.Addressable {
			return nil, fmt.Errorf("invalid operation: cannot take address of non-addressable operand of type %s", x.Type)
		}
		return NewPointer(x.Type), nil
	}
	return x.Type, nil
}
