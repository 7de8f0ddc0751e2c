package types_test

import (
	"go/constant"
	"testing"

	"github.com/malphas-lang/gofront/internal/types"
	"github.com/nalgeon/be"
)

func lit(t *testing.T, kind, text string) constant.Value {
	t.Helper()
	v, err := types.Literal(kind, text)
	be.Err(t, err, nil)
	return v
}

func TestLiteral(t *testing.T) {
	be.Equal(t, lit(t, "INT", "0x1F").String(), "31")
	be.Equal(t, lit(t, "INT", "0b101").String(), "5")
	f, _ := constant.Float64Val(lit(t, "FLOAT", "1.5e2"))
	be.Equal(t, f, 150.0)
	be.Equal(t, lit(t, "CHAR", "'a'").String(), "97")
	be.Equal(t, constant.StringVal(lit(t, "STRING", `"a\tb"`)), "a\tb")
	be.Equal(t, lit(t, "IMAG", "2i").Kind(), constant.Complex)

	_, err := types.Literal("INT", "0x")
	be.Err(t, err, "malformed")
}

func TestOperate(t *testing.T) {
	tests := []struct {
		name   string
		op     string
		x, y   constant.Value
		result types.Type
		want   string
		err    string
	}{
		{"add", "+", constant.MakeInt64(2), constant.MakeInt64(3), types.Int, "5", ""},
		{"int division truncates", "/", constant.MakeInt64(7), constant.MakeInt64(2), types.Int, "3", ""},
		{"float division", "/", constant.MakeInt64(7), constant.MakeInt64(2), types.Float64, "3.5", ""},
		{"remainder", "%", constant.MakeInt64(7), constant.MakeInt64(3), types.Int, "1", ""},
		{"division by zero", "/", constant.MakeInt64(1), constant.MakeInt64(0), types.Int, "", "division by zero"},
		{"shift", "<<", constant.MakeInt64(1), constant.MakeInt64(4), types.Int, "16", ""},
		{"negative shift", ">>", constant.MakeInt64(1), constant.MakeInt64(-1), types.Int, "", "invalid shift count"},
		{"huge shift", "<<", constant.MakeInt64(1), constant.MakeInt64(4000000000), types.Int, "", "shift count too large"},
		{"wide shift", "<<", constant.MakeInt64(0), constant.MakeInt64(1023), types.Int, "0", ""},
		{"overflow", "*", constant.MakeInt64(100), constant.MakeInt64(3), &types.Basic{Name: "int8"}, "", "overflows"},
		{"and not", "&^", constant.MakeInt64(7), constant.MakeInt64(2), types.Int, "5", ""},
		{"less", "<", constant.MakeInt64(1), constant.MakeFloat64(1.5), types.Bool, "true", ""},
		{"concat", "+", constant.MakeString("a"), constant.MakeString("b"), types.String, `"ab"`, ""},
		{"or", "||", constant.MakeBool(false), constant.MakeBool(true), types.Bool, "true", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.Operate(tt.op, tt.x, tt.y, tt.result)
			if tt.err != "" {
				be.Err(t, err, tt.err)
				return
			}
			be.Err(t, err, nil)
			be.Equal(t, got.String(), tt.want)
		})
	}
}

func TestOperateUnary(t *testing.T) {
	v, err := types.OperateUnary("-", constant.MakeInt64(5), types.Int)
	be.Err(t, err, nil)
	be.Equal(t, v.String(), "-5")

	v, err = types.OperateUnary("^", constant.MakeInt64(0), types.Uint8)
	be.Err(t, err, nil)
	be.Equal(t, v.String(), "255")

	v, err = types.OperateUnary("!", constant.MakeBool(true), types.Bool)
	be.Err(t, err, nil)
	be.Equal(t, v.String(), "false")

	_, err = types.OperateUnary("&", constant.MakeInt64(1), types.Int)
	be.Err(t, err, "cannot fold")
}

func TestConvert(t *testing.T) {
	v, err := types.Convert(constant.MakeInt64(65), types.String)
	be.Err(t, err, nil)
	be.Equal(t, constant.StringVal(v), "A")

	v, err = types.Convert(constant.MakeInt64(3), types.Float64)
	be.Err(t, err, nil)
	be.Equal(t, v.Kind(), constant.Float)

	_, err = types.Convert(constant.MakeFloat64(2.5), types.Int)
	be.Err(t, err, "cannot be represented")

	_, err = types.Convert(constant.MakeInt64(300), types.Uint8)
	be.Err(t, err, "overflows")

	float32T := &types.Basic{Name: "float32"}
	_, err = types.Convert(constant.MakeFloat64(1e300), float32T)
	be.Err(t, err, "overflows float32")

	v, err = types.Convert(constant.MakeFloat64(1e300), types.Float64)
	be.Err(t, err, nil)
	be.Equal(t, v.Kind(), constant.Float)

	_, err = types.Represent(lit(t, "FLOAT", "1e400"), types.Float64)
	be.Err(t, err, "overflows float64")
}

func TestIntValue(t *testing.T) {
	n, ok := types.IntValue(constant.MakeInt64(5))
	be.True(t, ok)
	be.Equal(t, n, int64(5))

	_, ok = types.IntValue(constant.MakeString("x"))
	be.True(t, !ok)

	_, ok = types.IntValue(nil)
	be.True(t, !ok)
}
