package parser_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/malphas-lang/gofront/internal/ast"
	"github.com/malphas-lang/gofront/internal/diag"
	"github.com/malphas-lang/gofront/internal/golden"
	"github.com/malphas-lang/gofront/internal/lexer"
	"github.com/malphas-lang/gofront/internal/parser"
)

// TestGolden runs every case of every document under testdata.
func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.md"))
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		data, err := os.ReadFile(file)
		be.Err(t, err, nil)
		cases, err := golden.Extract(data)
		be.Err(t, err, nil)

		name := strings.TrimSuffix(filepath.Base(file), ".md")
		t.Run(name, func(t *testing.T) {
			for _, tc := range cases {
				t.Run(tc.Name, func(t *testing.T) {
					runCase(t, tc)
				})
			}
		})
	}
}

func runCase(t *testing.T, tc golden.Case) {
	t.Helper()
	res, err := parser.ParseFile(tc.Source)

	if tc.Error != nil {
		var de *diag.Error
		if !errors.As(err, &de) {
			t.Fatalf("want %s containing %q, got %v", tc.Error.Kind, tc.Error.Substr, err)
		}
		be.Equal(t, string(de.Kind), tc.Error.Kind)
		if !strings.Contains(de.Message, tc.Error.Substr) {
			t.Fatalf("message %q does not contain %q", de.Message, tc.Error.Substr)
		}
		if tc.Error.Line != 0 {
			be.Equal(t, de.Line(), tc.Error.Line)
		}
		return
	}

	be.Err(t, err, nil)
	seen := identTypes(res.File)
	for _, want := range tc.Types {
		if !slices.Contains(seen[want.Name], want.Type) {
			t.Errorf("identifier %s: want type %s, have %v", want.Name, want.Type, seen[want.Name])
		}
	}
}

// identTypes collects the types attached to every identifier, by name.
func identTypes(file *ast.File) map[string][]string {
	out := make(map[string][]string)
	ast.Walk(file, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok && id.DataType != nil {
			out[id.Name] = append(out[id.Name], id.DataType.String())
		}
		return true
	})
	return out
}

func mustParse(t *testing.T, src string, opts ...parser.Option) (*parser.Parser, *parser.Result) {
	t.Helper()
	p := parser.New(src, opts...)
	res, err := p.Parse()
	be.Err(t, err, nil)
	return p, res
}

func TestSourceOrder(t *testing.T) {
	const src = `package shapes

import (
	"fmt"
	m "math"
)

const Pi = 3
var radius = 2
type Circle struct{ R int }
func Area() int { return Pi * radius * radius }
`
	_, res := mustParse(t, src)
	file := res.File

	be.Equal(t, file.Package.Name, "shapes")
	be.Equal(t, len(file.Imports), 2)
	be.Equal(t, file.Imports[0].Path, "fmt")
	be.Equal(t, file.Imports[1].LocalName(), "m")

	var kinds []string
	for _, d := range file.Decls {
		switch d := d.(type) {
		case *ast.GenDecl:
			kinds = append(kinds, string(d.Tok))
		case *ast.FuncDecl:
			kinds = append(kinds, "func "+d.Name.Name)
		}
	}
	be.Equal(t, kinds, []string{"CONST", "VAR", "TYPE", "func Area"})
}

func TestConstantEntry(t *testing.T) {
	p, _ := mustParse(t, "package main\n\nconst x int = 5\nconst y = x * 3 + 1\n")

	e, err := p.Session().Get("x")
	be.Err(t, err, nil)
	be.Equal(t, e.Type.String(), "int")
	be.True(t, e.Const)
	be.Equal(t, e.Val.String(), "5")

	e, err = p.Session().Get("y")
	be.Err(t, err, nil)
	be.Equal(t, e.Val.String(), "16")
}

func TestBinaryFolding(t *testing.T) {
	_, res := mustParse(t, "package main\n\nvar s = \"a\" + \"b\"\n")
	spec := res.File.Decls[0].(*ast.GenDecl).Specs[0].(*ast.ValueSpec)

	x := spec.Values[0]
	be.True(t, x.Attr().Const)
	be.Equal(t, x.Attr().DataType.String(), "string")
	be.Equal(t, x.Attr().Value.String(), `"ab"`)
	// the variable itself is not constant
	be.True(t, !spec.Names[0].Const)
}

func TestLabelTables(t *testing.T) {
	const src = `package main

func f() {
	goto end
end:
}

func g() {
	h := func() {
	loop:
		goto loop
	}
	h()
}
`
	_, res := mustParse(t, src)
	be.Equal(t, len(res.Labels), 3)
	be.Equal(t, res.Labels[0].Func, "f")
	be.Equal(t, res.Labels[1].Func, "g")
	be.Equal(t, res.Labels[2].Func, "g.func1")

	l, ok := res.Labels[0].Lookup("end")
	be.True(t, ok)
	be.True(t, !l.Expecting)
	be.Equal(t, l.Line(), 5)

	l, ok = res.Labels[2].Lookup("loop")
	be.True(t, ok)
	be.Equal(t, l.Line(), 10)
}

func TestTraceLogsReductions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, res := mustParse(t, "package main\n\nfunc f() {\n\tx := 1\n\t_ = x\n}\n",
		parser.WithLogger(logger), parser.WithTrace(true))

	out := buf.String()
	be.True(t, res.Reductions > 0)
	be.True(t, strings.Contains(out, "rule=ShortVarDecl"))
	be.True(t, strings.Contains(out, "rule=FuncDecl"))
	be.True(t, strings.Contains(out, "session="+res.Session.String()))
}

func TestNoTraceByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mustParse(t, "package main\n", parser.WithLogger(logger))
	be.True(t, !strings.Contains(buf.String(), "rule="))
}

func TestErrorCarriesFilename(t *testing.T) {
	_, err := parser.ParseFile("package main\n\nvar x = y\n", parser.WithFilename("bad.go"))

	var de *diag.Error
	be.True(t, errors.As(err, &de))
	be.Equal(t, de.Span.Filename, "bad.go")
	be.Equal(t, err.Error(), "bad.go:3: NameError: undefined: y")
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing package", "var x = 1\n", "unexpected keyword var at start of file"},
		{"blank package", "package _\n", "invalid package name _"},
		{"late import", "package main\nvar x = 1\nimport \"fmt\"\n", "imports must appear before other declarations"},
		{"statement at top level", "package main\nx := 1\n", "outside function body"},
		{"method", "package main\nfunc (t T) M() {}\n", "method declarations are not supported"},
		{"unterminated string", "package main\nvar s = \"abc\n", "string"},
		{"missing const value", "package main\nconst c int\n", "missing init expr for const declaration"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parser.ParseFile(tc.src)
			kind, ok := diag.KindOf(err)
			be.True(t, ok)
			be.Equal(t, kind, diag.SyntaxError)
			be.Err(t, err, tc.want)
		})
	}
}

func TestParseTwice(t *testing.T) {
	p := parser.New("package main\n")
	_, err := p.Parse()
	be.Err(t, err, nil)
	_, err = p.Parse()
	be.Err(t, err, "Parse called twice")
}

func TestNewFromSource(t *testing.T) {
	lx := lexer.New("package main\n\nvar n = 2\n")
	res, err := parser.NewFromSource(lx).Parse()
	be.Err(t, err, nil)
	be.Equal(t, len(res.File.Decls), 1)
}

func TestProductions(t *testing.T) {
	prods := parser.Productions()
	be.Equal(t, prods[0].Name, "SourceFile")

	var buf bytes.Buffer
	be.Err(t, parser.WriteGrammar(&buf), nil)
	out := buf.String()
	be.True(t, strings.Contains(out, "SourceFile :"))
	be.True(t, strings.Contains(out, "'goto' IDENT"))

	// the copy is independent of the table
	prods[0].Name = "changed"
	be.Equal(t, parser.Productions()[0].Name, "SourceFile")
}
