package diag

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	gutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Formatter renders diagnostics with source code snippets.
type Formatter struct {
	out          io.Writer
	color        bool
	contextLines int
	sourceCache  map[string]string // Cache of source files by filename
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithColor enables lipgloss styling of headers and gutters.
func WithColor(enabled bool) FormatterOption {
	return func(f *Formatter) { f.color = enabled }
}

// WithContextLines sets how many source lines are shown around a span.
func WithContextLines(n int) FormatterOption {
	return func(f *Formatter) {
		if n >= 0 {
			f.contextLines = n
		}
	}
}

// NewFormatter creates a new diagnostic formatter writing to out.
func NewFormatter(out io.Writer, opts ...FormatterOption) *Formatter {
	if out == nil {
		out = os.Stderr
	}
	f := &Formatter{
		out:          out,
		contextLines: 2,
		sourceCache:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddSource registers in-memory source text for filename.
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// LoadSource loads source code for a file (cached).
func (f *Formatter) LoadSource(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// Format writes a diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	if len(spans) == 0 {
		f.formatSimple(d)
		return
	}

	spansByFile := make(map[string][]LabeledSpan)
	var files []string
	for _, span := range spans {
		filename := span.Span.Filename
		if filename == "" {
			filename = "<unknown>"
		}
		if _, seen := spansByFile[filename]; !seen {
			files = append(files, filename)
		}
		spansByFile[filename] = append(spansByFile[filename], span)
	}

	f.printHeader(d)

	for _, filename := range files {
		src, err := f.LoadSource(filename)
		if err != nil || src == "" {
			fmt.Fprintf(f.out, "  --> %s\n", spansByFile[filename][0].Span.String())
			continue
		}
		f.printFileSpans(src, spansByFile[filename])
	}

	f.printHelp(d)
}

// collectSpans collects all spans from the diagnostic, prioritizing LabeledSpans.
func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return d.LabeledSpans
	}
	if d.Span.IsValid() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

func (f *Formatter) style(s lipgloss.Style, text string) string {
	if !f.color {
		return text
	}
	return s.Render(text)
}

// printHeader prints the error header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = string(SeverityError)
	}

	head := severity
	if d.Code != "" {
		head = fmt.Sprintf("%s[%s]", severity, d.Code)
	}

	switch d.Severity {
	case SeverityWarning:
		head = f.style(warningStyle, head)
	case SeverityNote:
		head = f.style(noteStyle, head)
	default:
		head = f.style(errorStyle, head)
	}

	fmt.Fprintf(f.out, "%s: %s\n", head, d.Message)
}

// printFileSpans prints source code with underlines for spans in a file.
func (f *Formatter) printFileSpans(src string, spans []LabeledSpan) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Span.Line != spans[j].Span.Line {
			return spans[i].Span.Line < spans[j].Span.Line
		}
		return spans[i].Span.Column < spans[j].Span.Column
	})

	spansByLine := make(map[int][]LabeledSpan)
	lines := strings.Split(src, "\n")
	maxLine := len(lines)

	for _, span := range spans {
		line := span.Span.Line
		if line > 0 && line <= maxLine {
			spansByLine[line] = append(spansByLine[line], span)
		}
	}

	lineNumbers := make([]int, 0, len(spansByLine))
	for line := range spansByLine {
		lineNumbers = append(lineNumbers, line)
	}
	sort.Ints(lineNumbers)

	if len(lineNumbers) == 0 {
		return
	}

	contextStart := max(1, lineNumbers[0]-f.contextLines)
	contextEnd := min(maxLine, lineNumbers[len(lineNumbers)-1]+f.contextLines)

	lineNumWidth := len(fmt.Sprintf("%d", contextEnd))
	gutter := f.style(gutterStyle, strings.Repeat(" ", lineNumWidth)+" |")

	fmt.Fprintf(f.out, "  --> %s\n", spans[0].Span.String())
	fmt.Fprintf(f.out, "  %s\n", gutter)

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		lineContent := lines[lineNum-1]
		number := f.style(gutterStyle, fmt.Sprintf("%*d |", lineNumWidth, lineNum))
		fmt.Fprintf(f.out, "  %s %s\n", number, lineContent)

		if lineSpans := spansByLine[lineNum]; len(lineSpans) > 0 {
			f.printUnderlines(gutter, lineContent, lineSpans)
		}
	}

	fmt.Fprintf(f.out, "  %s\n", gutter)
}

// printUnderlines prints ^ under primary spans and ~ under secondary ones.
func (f *Formatter) printUnderlines(gutter string, lineContent string, spans []LabeledSpan) {
	width := len(lineContent)
	for _, span := range spans {
		if end := span.Span.Column; end > width {
			width = end
		}
	}
	underline := []byte(strings.Repeat(" ", width))

	mark := func(span Span, ch byte) {
		start := max(0, span.Column-1)
		end := min(len(underline), span.Column-1+max(1, span.End-span.Start))
		for i := start; i < end; i++ {
			if underline[i] == ' ' {
				underline[i] = ch
			}
		}
	}
	for _, span := range spans {
		if span.Style == "primary" {
			mark(span.Span, '^')
		}
	}
	for _, span := range spans {
		if span.Style == "secondary" {
			mark(span.Span, '~')
		}
	}

	var labels []string
	for _, span := range spans {
		if span.Label != "" {
			labels = append(labels, span.Label)
		}
	}

	line := strings.TrimRight(string(underline), " ")
	if len(labels) > 0 {
		line += " " + strings.Join(labels, "; ")
	}
	fmt.Fprintf(f.out, "  %s %s\n", gutter, line)
}

// printHelp prints notes and help text.
func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.out, "help: %s\n", d.Help)
	}
}

// formatSimple formats a diagnostic without source code (fallback).
func (f *Formatter) formatSimple(d Diagnostic) {
	f.printHeader(d)
	if d.Span.IsValid() {
		fmt.Fprintf(f.out, "  --> %s\n", d.Span.String())
	}
	f.printHelp(d)
}
