// Package golden extracts front end test cases from Markdown documents.
//
// A case starts at a heading of the form "Case: name" and holds one `go`
// fence with the program, then either an empty `ok` fence or an `error` fence
// reading "Kind: message substring", optionally followed by "line N". Any
// number of `types` fences may list "name type" pairs that must appear on
// identifiers of the typed tree.
package golden

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence languages understood inside a case.
const (
	FenceProgram = "go"
	FenceOK      = "ok"
	FenceError   = "error"
	FenceTypes   = "types"
)

// WantError is the error a case expects.
type WantError struct {
	Kind   string
	Substr string
	Line   int // 0 when any line is accepted
}

// WantType says that some identifier named Name has type Type.
type WantType struct {
	Name string
	Type string
}

// Case is one golden program.
type Case struct {
	Name   string
	Line   int // line of the heading in the document
	Source string
	OK     bool
	Error  *WantError
	Types  []WantType
}

// Extract parses a Markdown document and returns its cases in order.
func Extract(markdown []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var (
		cases []Case
		cur   *Case
	)
	flush := func() error {
		if cur == nil {
			return nil
		}
		if err := validate(cur); err != nil {
			return err
		}
		cases = append(cases, *cur)
		cur = nil
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			title := nodeText(n, markdown)
			if !strings.HasPrefix(title, "Case: ") {
				return ast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			cur = &Case{Name: strings.TrimPrefix(title, "Case: "), Line: lineOf(n, markdown)}

		case *ast.FencedCodeBlock:
			lang := string(n.Language(markdown))
			line := lineOf(n, markdown)
			if cur == nil {
				if lang != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a case", line, lang)
				}
				return ast.WalkContinue, nil
			}
			if err := cur.add(lang, fenceContent(n, markdown), line); err != nil {
				return ast.WalkStop, err
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("golden: %w", err)
	}
	if err := flush(); err != nil {
		return nil, fmt.Errorf("golden: %w", err)
	}
	return cases, nil
}

func (c *Case) add(lang, content string, line int) error {
	switch lang {
	case FenceProgram:
		if c.Source != "" {
			return fmt.Errorf("line %d: case %q has more than one program", line, c.Name)
		}
		c.Source = content
	case FenceOK:
		c.OK = true
	case FenceError:
		want, err := parseWantError(content)
		if err != nil {
			return fmt.Errorf("line %d: case %q: %w", line, c.Name, err)
		}
		c.Error = want
	case FenceTypes:
		for _, l := range strings.Split(strings.TrimSpace(content), "\n") {
			name, typ, ok := strings.Cut(strings.TrimSpace(l), " ")
			if !ok {
				return fmt.Errorf("line %d: case %q: malformed types entry %q", line, c.Name, l)
			}
			c.Types = append(c.Types, WantType{Name: name, Type: strings.TrimSpace(typ)})
		}
	default:
		return fmt.Errorf("line %d: unknown fence %q in case %q", line, lang, c.Name)
	}
	return nil
}

func parseWantError(content string) (*WantError, error) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	kind, msg, ok := strings.Cut(lines[0], ":")
	if !ok {
		return nil, fmt.Errorf("error fence must read \"Kind: message\", got %q", lines[0])
	}
	want := &WantError{Kind: strings.TrimSpace(kind), Substr: strings.TrimSpace(msg)}
	if len(lines) > 1 {
		n, found := strings.CutPrefix(strings.TrimSpace(lines[1]), "line ")
		if !found {
			return nil, fmt.Errorf("unexpected error fence line %q", lines[1])
		}
		line, err := strconv.Atoi(n)
		if err != nil {
			return nil, fmt.Errorf("bad line number: %w", err)
		}
		want.Line = line
	}
	return want, nil
}

func validate(c *Case) error {
	if c.Source == "" {
		return fmt.Errorf("case %q has no go fence", c.Name)
	}
	if c.OK == (c.Error != nil) {
		return fmt.Errorf("case %q needs exactly one of the ok and error fences", c.Name)
	}
	return nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf returns the 1-based document line where node starts.
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:start], []byte("\n")) + 1
}
