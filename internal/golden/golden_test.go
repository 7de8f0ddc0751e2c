package golden_test

import (
	"testing"

	"github.com/malphas-lang/gofront/internal/golden"
	"github.com/nalgeon/be"
)

const doc = "# Notes\n" +
	"\n" +
	"Text before the first case is ignored.\n" +
	"\n" +
	"## Case: ok program\n" +
	"\n" +
	"```go\n" +
	"package main\n" +
	"var x = 1\n" +
	"```\n" +
	"\n" +
	"```ok\n" +
	"```\n" +
	"\n" +
	"```types\n" +
	"x int\n" +
	"s []int\n" +
	"```\n" +
	"\n" +
	"## Case: bad program\n" +
	"\n" +
	"```go\n" +
	"package main\n" +
	"var x = y\n" +
	"```\n" +
	"\n" +
	"```error\n" +
	"NameError: undefined: y\n" +
	"line 2\n" +
	"```\n"

func TestExtract(t *testing.T) {
	cases, err := golden.Extract([]byte(doc))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	ok := cases[0]
	be.Equal(t, ok.Name, "ok program")
	be.Equal(t, ok.Source, "package main\nvar x = 1\n")
	be.True(t, ok.OK)
	be.True(t, ok.Error == nil)
	be.Equal(t, ok.Types, []golden.WantType{{Name: "x", Type: "int"}, {Name: "s", Type: "[]int"}})

	bad := cases[1]
	be.Equal(t, bad.Name, "bad program")
	be.True(t, !bad.OK)
	be.Equal(t, *bad.Error, golden.WantError{Kind: "NameError", Substr: "undefined: y", Line: 2})
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "fence outside case",
			doc:  "```go\npackage main\n```\n",
			want: "fence outside of a case",
		},
		{
			name: "missing program",
			doc:  "## Case: empty\n\n```ok\n```\n",
			want: "has no go fence",
		},
		{
			name: "no expectation",
			doc:  "## Case: bare\n\n```go\npackage main\n```\n",
			want: "exactly one of the ok and error fences",
		},
		{
			name: "both expectations",
			doc:  "## Case: both\n\n```go\npackage main\n```\n\n```ok\n```\n\n```error\nTypeError: x\n```\n",
			want: "exactly one of the ok and error fences",
		},
		{
			name: "unknown fence",
			doc:  "## Case: odd\n\n```go\npackage main\n```\n\n```sexpr\n(x)\n```\n",
			want: "unknown fence",
		},
		{
			name: "malformed error",
			doc:  "## Case: odd\n\n```go\npackage main\n```\n\n```error\nno colon here\n```\n",
			want: "must read",
		},
		{
			name: "two programs",
			doc:  "## Case: twice\n\n```go\npackage a\n```\n\n```go\npackage b\n```\n",
			want: "more than one program",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := golden.Extract([]byte(tc.doc))
			be.Err(t, err, tc.want)
		})
	}
}
