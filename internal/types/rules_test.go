package types_test

import (
	"testing"

	"github.com/malphas-lang/gofront/internal/types"
	"github.com/nalgeon/be"
)

func basic(name string) types.Type { return &types.Basic{Name: name} }

func TestCastable(t *testing.T) {
	tests := []struct {
		name           string
		target, source types.Type
		want           bool
	}{
		{"identical", types.Int, types.Int, true},
		{"int to float", types.Float64, types.Int, true},
		{"float to int", types.Int, types.Float64, false},
		{"float to complex", types.Complex128, types.Float64, true},
		{"int to complex", types.Complex128, basic("int8"), true},
		{"int8 to int64", basic("int64"), basic("int8"), true},
		{"int64 to int8", basic("int8"), basic("int64"), false},
		{"uint8 to int16", basic("int16"), types.Uint8, false},
		{"float32 to float64", types.Float64, basic("float32"), true},
		{"float64 to float32", basic("float32"), types.Float64, false},
		{"complex128 to complex64", basic("complex64"), types.Complex128, false},
		{"string to int", types.Int, types.String, false},
		{"byte is uint8", basic("byte"), types.Uint8, true},
		{"slices", types.NewSlice(types.Int), types.NewSlice(types.Int), true},
		{"slice elem differs", types.NewSlice(types.Int), types.NewSlice(types.String), false},
		{"array lengths", types.NewArray(types.Int, 3), types.NewArray(types.Int, 4), false},
		{"pointer levels", types.NewPointer(types.NewPointer(types.Int)), types.NewPointer(types.Int), false},
		{"nil", types.Int, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, types.Castable(tt.target, tt.source), tt.want)
		})
	}
}

func TestConvertible(t *testing.T) {
	be.True(t, types.Convertible(types.Int, types.Float64))
	be.True(t, types.Convertible(types.String, types.Rune))
	be.True(t, types.Convertible(types.String, types.NewSlice(basic("byte"))))
	be.True(t, types.Convertible(types.NewSlice(types.Rune), types.String))
	be.True(t, !types.Convertible(types.Bool, types.Int))
	be.True(t, !types.Convertible(types.NewSlice(types.Int), types.String))
}

func TestFinalType(t *testing.T) {
	tests := []struct {
		name string
		op   string
		x, y types.Operand
		want string
		err  string
	}{
		{name: "int add", op: "+", x: types.Operand{Type: types.Int}, y: types.Operand{Type: types.Int}, want: "int"},
		{name: "promote float", op: "*", x: types.Operand{Type: types.Int}, y: types.Operand{Type: types.Float64}, want: "float64"},
		{name: "promote complex", op: "-", x: types.Operand{Type: types.Complex128}, y: types.Operand{Type: types.Float64}, want: "complex128"},
		{name: "string concat", op: "+", x: types.Operand{Type: types.String}, y: types.Operand{Type: types.String}, want: "string"},
		{name: "string minus", op: "-", x: types.Operand{Type: types.String}, y: types.Operand{Type: types.String}, err: "not defined"},
		{name: "int plus string", op: "+", x: types.Operand{Type: types.Int, Const: true}, y: types.Operand{Type: types.String, Const: true}, err: "mismatched types int and string"},
		{name: "const adopts", op: "+", x: types.Operand{Type: basic("int8")}, y: types.Operand{Type: types.Int, Const: true}, want: "int8"},
		{name: "const adopts left", op: "+", x: types.Operand{Type: types.Int, Const: true}, y: types.Operand{Type: basic("uint")}, want: "uint"},
		{name: "same rank vars", op: "+", x: types.Operand{Type: basic("int8")}, y: types.Operand{Type: types.Int}, err: "mismatched"},
		{name: "remainder float", op: "%", x: types.Operand{Type: types.Float64}, y: types.Operand{Type: types.Float64}, err: "not defined"},
		{name: "bitwise", op: "&^", x: types.Operand{Type: types.Int}, y: types.Operand{Type: types.Int}, want: "int"},
		{name: "shift keeps left", op: "<<", x: types.Operand{Type: basic("uint8")}, y: types.Operand{Type: types.Int}, want: "uint8"},
		{name: "less", op: "<", x: types.Operand{Type: types.Int}, y: types.Operand{Type: types.Float64}, want: "bool"},
		{name: "less bool", op: "<", x: types.Operand{Type: types.Bool}, y: types.Operand{Type: types.Bool}, err: "not defined"},
		{name: "equal strings", op: "==", x: types.Operand{Type: types.String}, y: types.Operand{Type: types.String}, want: "bool"},
		{name: "equal mixed", op: "==", x: types.Operand{Type: types.String}, y: types.Operand{Type: types.Int}, err: "mismatched"},
		{name: "equal slices", op: "==", x: types.Operand{Type: types.NewSlice(types.Int)}, y: types.Operand{Type: types.NewSlice(types.Int)}, err: "not defined"},
		{name: "and", op: "&&", x: types.Operand{Type: types.Bool}, y: types.Operand{Type: types.Bool}, want: "bool"},
		{name: "and int", op: "||", x: types.Operand{Type: types.Int}, y: types.Operand{Type: types.Bool}, err: "not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.FinalType(tt.op, tt.x, tt.y)
			if tt.err != "" {
				be.Err(t, err, tt.err)
				return
			}
			be.Err(t, err, nil)
			be.Equal(t, got.String(), tt.want)
		})
	}
}

func TestUnaryType(t *testing.T) {
	ptr := types.NewPointer(types.NewPointer(types.Int))

	got, err := types.UnaryType("*", types.Operand{Type: ptr})
	be.Err(t, err, nil)
	be.Equal(t, got.String(), "*int")

	got, err = types.UnaryType("&", types.Operand{Type: ptr, Addressable: true})
	be.Err(t, err, nil)
	be.Equal(t, got.String(), "***int")

	_, err = types.UnaryType("&", types.Operand{Type: types.Int})
	be.Err(t, err, "non-addressable")

	_, err = types.UnaryType("*", types.Operand{Type: types.Int})
	be.Err(t, err, "non-pointer")

	_, err = types.UnaryType("!", types.Operand{Type: types.Int})
	be.Err(t, err, "not defined")

	_, err = types.UnaryType("^", types.Operand{Type: types.Float64})
	be.Err(t, err, "not defined")

	got, err = types.UnaryType("-", types.Operand{Type: types.Float64})
	be.Err(t, err, nil)
	be.Equal(t, got.String(), "float64")
}

func TestNewMapRejectsKeys(t *testing.T) {
	_, err := types.NewMap(types.NewSlice(types.Int), types.Int)
	be.Err(t, err, "invalid map key type []int")

	_, err = types.NewMap(&types.Func{}, types.Int)
	be.Err(t, err, "invalid map key")

	m, err := types.NewMap(types.String, types.NewSlice(types.Int))
	be.Err(t, err, nil)
	be.Equal(t, m.String(), "map[string][]int")
}

func TestLevelsFold(t *testing.T) {
	a := types.NewArray(types.NewArray(types.Int, 4), 3)
	be.Equal(t, a.Level, 2)
	be.Equal(t, a.String(), "[3][4]int")
	be.Equal(t, a.Elem().String(), "[4]int")

	s := types.NewSlice(types.NewSlice(types.String))
	be.Equal(t, s.Level, 2)
	be.Equal(t, s.Elem().String(), "[]string")

	p := types.NewPointer(types.NewPointer(types.Int))
	be.Equal(t, p.Level, 2)
	be.Equal(t, p.Elem().String(), "*int")
}

func TestStructField(t *testing.T) {
	st := &types.Struct{Fields: []types.Field{
		{Name: "X", Type: types.Int},
		{Name: "Name", Type: types.String},
	}}
	f, ok := st.Field("Name")
	be.True(t, ok)
	be.Equal(t, f.Type.String(), "string")
	_, ok = st.Field("Y")
	be.True(t, !ok)
	be.Equal(t, st.String(), "struct{X int; Name string}")
	be.True(t, types.IsComparable(st))
}
