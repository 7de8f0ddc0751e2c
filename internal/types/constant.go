package types

import (
	"fmt"
	"go/constant"
	"go/token"
	"math"
)

// maxShift bounds constant shift counts.
const maxShift = 1023

var binaryTokens = map[string]token.Token{
	"+":  token.ADD,
	"-":  token.SUB,
	"*":  token.MUL,
	"/":  token.QUO,
	"%":  token.REM,
	"&":  token.AND,
	"|":  token.OR,
	"^":  token.XOR,
	"&^": token.AND_NOT,
	"<<": token.SHL,
	">>": token.SHR,
	"&&": token.LAND,
	"||": token.LOR,
	"==": token.EQL,
	"!=": token.NEQ,
	"<":  token.LSS,
	"<=": token.LEQ,
	">":  token.GTR,
	">=": token.GEQ,
}

var unaryTokens = map[string]token.Token{
	"+": token.ADD,
	"-": token.SUB,
	"^": token.XOR,
	"!": token.NOT,
}

// Literal converts the source text of a basic literal to a constant value.
// kind is one of "INT", "FLOAT", "IMAG", "CHAR" or "STRING".
func Literal(kind, text string) (constant.Value, error) {
	var tok token.Token
	switch kind {
	case "INT":
		tok = token.INT
	case "FLOAT":
		tok = token.FLOAT
	case "IMAG":
		tok = token.IMAG
	case "CHAR":
		tok = token.CHAR
	case "STRING":
		tok = token.STRING
	default:
		return nil, fmt.Errorf("unknown literal kind %s", kind)
	}
	v := constant.MakeFromLiteral(text, tok, 0)
	if v.Kind() == constant.Unknown {
		return nil, fmt.Errorf("malformed %s literal %s", kind, text)
	}
	return v, nil
}

// BoolValue returns the constant value of b.
func BoolValue(b bool) constant.Value { return constant.MakeBool(b) }

// Operate folds x op y. result is the type FinalType computed for the
// expression; the folded value is converted to it and checked for overflow.
func Operate(op string, x, y constant.Value, result Type) (constant.Value, error) {
	tok, ok := binaryTokens[op]
	if !ok {
		return nil, fmt.Errorf("unknown binary operator %s", op)
	}
	switch tok {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		x, y = match(x, y)
		return constant.MakeBool(constant.Compare(x, tok, y)), nil
	case token.LAND:
		return constant.MakeBool(constant.BoolVal(x) && constant.BoolVal(y)), nil
	case token.LOR:
		return constant.MakeBool(constant.BoolVal(x) || constant.BoolVal(y)), nil
	case token.SHL, token.SHR:
		s, exact := constant.Uint64Val(constant.ToInt(y))
		if !exact || constant.Sign(y) < 0 {
			return nil, fmt.Errorf("invalid shift count %s", y)
		}
		if s > maxShift {
			return nil, fmt.Errorf("invalid shift count %s (shift count too large)", y)
		}
		return Represent(constant.Shift(toKind(x, result), tok, uint(s)), result)
	}
	x, y = toKind(x, result), toKind(y, result)
	if tok == token.QUO || tok == token.REM {
		if constant.Sign(y) == 0 {
			return nil, fmt.Errorf("invalid operation: division by zero")
		}
		if IsBasicInteger(result) && tok == token.QUO {
			// integer division truncates
			tok = token.QUO_ASSIGN
		}
	}
	return Represent(constant.BinaryOp(x, tok, y), result)
}

// OperateUnary folds op x for a value of type t.
func OperateUnary(op string, x constant.Value, t Type) (constant.Value, error) {
	tok, ok := unaryTokens[op]
	if !ok {
		return nil, fmt.Errorf("cannot fold unary operator %s", op)
	}
	var prec uint
	if tok == token.XOR && IsUnsigned(t) {
		prec = uint(bitSize(t))
	}
	return Represent(constant.UnaryOp(tok, toKind(x, t), prec), t)
}

// Convert converts x to a value of type t, as a conversion T(x) does.
func Convert(x constant.Value, t Type) (constant.Value, error) {
	if IsString(t) && x.Kind() == constant.Int {
		r, ok := constant.Int64Val(x)
		if !ok {
			r = 0xFFFD
		}
		return constant.MakeString(string(rune(r))), nil
	}
	return Represent(toKind(x, t), t)
}

// Represent checks that x fits in t.
func Represent(x constant.Value, t Type) (constant.Value, error) {
	if x.Kind() == constant.Unknown {
		return nil, fmt.Errorf("constant %s cannot be represented by %s", x.ExactString(), t)
	}
	switch KindOf(t) {
	case KindInteger:
		if x.Kind() != constant.Int {
			return nil, fmt.Errorf("constant %s truncated to integer type %s", x, t)
		}
		if !fitsInt(x, t) {
			return nil, fmt.Errorf("constant %s overflows %s", x, t)
		}
	case KindFloat:
		if x.Kind() != constant.Int && x.Kind() != constant.Float {
			return nil, fmt.Errorf("constant %s cannot be represented by %s", x, t)
		}
		if !fitsFloat(x, bitSize(t)) {
			return nil, fmt.Errorf("constant %s overflows %s", x, t)
		}
	case KindComplex:
		if x.Kind() == constant.Complex {
			half := bitSize(t) / 2
			if !fitsFloat(constant.Real(x), half) || !fitsFloat(constant.Imag(x), half) {
				return nil, fmt.Errorf("constant %s overflows %s", x, t)
			}
		}
	}
	return x, nil
}

// fitsFloat reports whether x rounds to a finite float of the given width.
func fitsFloat(x constant.Value, bits int) bool {
	if bits == 32 {
		f, _ := constant.Float32Val(x)
		return !math.IsInf(float64(f), 0)
	}
	f, _ := constant.Float64Val(x)
	return !math.IsInf(f, 0)
}

func fitsInt(x constant.Value, t Type) bool {
	bits := bitSize(t)
	if IsUnsigned(t) {
		if constant.Sign(x) < 0 {
			return false
		}
		v, ok := constant.Uint64Val(x)
		return ok && (bits == 64 || v < 1<<uint(bits))
	}
	v, ok := constant.Int64Val(x)
	if !ok {
		return false
	}
	if bits == 64 {
		return true
	}
	limit := int64(1) << uint(bits-1)
	return v >= -limit && v < limit
}

// toKind moves x into the numeric representation of t.
func toKind(x constant.Value, t Type) constant.Value {
	switch KindOf(t) {
	case KindInteger:
		return constant.ToInt(x)
	case KindFloat:
		return constant.ToFloat(x)
	case KindComplex:
		return constant.ToComplex(x)
	}
	return x
}

// match brings two numeric values to the same representation for comparison.
func match(x, y constant.Value) (constant.Value, constant.Value) {
	if x.Kind() == y.Kind() {
		return x, y
	}
	switch {
	case x.Kind() == constant.Complex || y.Kind() == constant.Complex:
		return constant.ToComplex(x), constant.ToComplex(y)
	case x.Kind() == constant.Float || y.Kind() == constant.Float:
		return constant.ToFloat(x), constant.ToFloat(y)
	}
	return x, y
}

// IntValue returns x as an int64 when it is an exact integer.
func IntValue(x constant.Value) (int64, bool) {
	if x == nil {
		return 0, false
	}
	i := constant.ToInt(x)
	if i.Kind() != constant.Int {
		return 0, false
	}
	return constant.Int64Val(i)
}
