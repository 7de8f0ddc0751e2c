package diag_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/malphas-lang/gofront/internal/diag"
)

const src = "package main\n\nvar x = y\n"

func undefinedY() *diag.Error {
	return diag.Errorf(diag.NameError, diag.Span{Filename: "bad.go", Line: 3, Column: 9, Start: 22, End: 23}, "undefined: %s", "y")
}

func TestErrorString(t *testing.T) {
	be.Equal(t, undefinedY().Error(), "bad.go:3: NameError: undefined: y")

	e := diag.Errorf(diag.TypeError, diag.Span{Line: 7, Column: 2}, "mismatched types")
	be.Equal(t, e.Error(), "line 7: TypeError: mismatched types")
	be.Equal(t, e.Line(), 7)
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("check: %w", diag.Errorf(diag.LogicalError, diag.Span{}, "label L not defined"))
	kind, ok := diag.KindOf(wrapped)
	be.True(t, ok)
	be.Equal(t, kind, diag.LogicalError)

	_, ok = diag.KindOf(fmt.Errorf("plain"))
	be.True(t, !ok)
}

func TestToDiagnostic(t *testing.T) {
	tests := []struct {
		kind diag.Kind
		code diag.Code
	}{
		{diag.SyntaxError, diag.CodeSyntax},
		{diag.NameError, diag.CodeName},
		{diag.TypeError, diag.CodeType},
		{diag.LogicalError, diag.CodeLogical},
		{diag.ValueNotUsedError, diag.CodeValueNotUsed},
	}
	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			d := diag.Errorf(tc.kind, diag.Span{Line: 1, Column: 1}, "m").ToDiagnostic()
			be.Equal(t, d.Code, tc.code)
			be.Equal(t, d.Stage, diag.StageParser)
			be.Equal(t, d.Severity, diag.SeverityError)
			be.Equal(t, len(d.LabeledSpans), 1)
		})
	}

	// spans without a position are not labelled
	d := diag.Errorf(diag.NameError, diag.Span{}, "m").
		WithRelated(diag.Span{}, "nowhere").
		ToDiagnostic()
	be.Equal(t, len(d.LabeledSpans), 0)
}

func TestFormatterSnippet(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf, diag.WithContextLines(1))
	f.AddSource("bad.go", src)
	f.Format(undefinedY().ToDiagnostic())

	out := buf.String()
	be.True(t, strings.HasPrefix(out, "error[NAME]: undefined: y\n"))
	be.True(t, strings.Contains(out, "  --> bad.go:3:9\n"))
	be.True(t, strings.Contains(out, "  3 | var x = y\n    |"+strings.Repeat(" ", 9)+"^\n"))
	// one line of context on each side
	be.True(t, strings.Contains(out, "  2 | "))
	be.True(t, !strings.Contains(out, "package main"))
}

func TestFormatterRelated(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf, diag.WithContextLines(0))
	f.AddSource("bad.go", src)

	e := undefinedY().WithRelated(diag.Span{Filename: "bad.go", Line: 1, Column: 1, Start: 0, End: 7}, "declared here")
	f.Format(e.ToDiagnostic())

	out := buf.String()
	be.True(t, strings.Contains(out, "~~~~~~~ declared here"))
	be.True(t, strings.Contains(out, "^"))
}

func TestFormatterWithoutSource(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	f.Format(diag.Errorf(diag.TypeError, diag.Span{Line: 3, Column: 9}, "mismatched types").ToDiagnostic())
	be.Equal(t, buf.String(), "error[TYPE]: mismatched types\n  --> 3:9\n")

	buf.Reset()
	d := diag.Errorf(diag.SyntaxError, diag.Span{}, "unexpected EOF").ToDiagnostic().
		WithNote("file is empty").
		WithHelp("add a package clause")
	f.Format(d)
	be.Equal(t, buf.String(), "error[SYNTAX]: unexpected EOF\n  = note: file is empty\nhelp: add a package clause\n")
}
