package ast

import (
	"fmt"
	"io"
	"strings"
)

// Outline is a serializable view of a typed tree.
type Outline struct {
	Node     string     `yaml:"node"`
	Label    string     `yaml:"label,omitempty"`
	Type     string     `yaml:"type,omitempty"`
	Value    string     `yaml:"value,omitempty"`
	Line     int        `yaml:"line"`
	Children []*Outline `yaml:"children,omitempty"`
}

// Outlined builds the outline of n and everything below it.
func Outlined(n Node) *Outline {
	a := n.Attr()
	o := &Outline{
		Node:  strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast."),
		Label: a.Label,
		Line:  n.Span().Line,
	}
	if a.DataType != nil {
		o.Type = a.DataType.String()
	}
	if a.Const && a.Value != nil {
		o.Value = a.Value.ExactString()
	}
	for _, c := range Children(n) {
		o.Children = append(o.Children, Outlined(c))
	}
	return o
}

// Fprint writes the tree below n, one node per line, indented by depth.
func Fprint(w io.Writer, n Node) error {
	return fprint(w, Outlined(n), 0)
}

func fprint(w io.Writer, o *Outline, depth int) error {
	line := fmt.Sprintf("%s%s", strings.Repeat("  ", depth), o.Node)
	if o.Label != "" {
		line += " " + o.Label
	}
	if o.Type != "" {
		line += " : " + o.Type
	}
	if o.Value != "" {
		line += " = " + o.Value
	}
	if _, err := fmt.Fprintf(w, "%s (line %d)\n", line, o.Line); err != nil {
		return err
	}
	for _, c := range o.Children {
		if err := fprint(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
