package diag

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Formatter formats diagnostics in a Rust-style format with source code snippets.
type Formatter struct {
	out          io.Writer
	sourceCache  map[string]string // Cache of source files by filename
	contextLines int
}

// FormatterOption customizes a Formatter.
type FormatterOption func(*Formatter)

// WithContextLines sets how many source lines are shown around each span.
func WithContextLines(n int) FormatterOption {
	return func(f *Formatter) {
		if n >= 0 {
			f.contextLines = n
		}
	}
}

// NewFormatter creates a new diagnostic formatter writing to out.
func NewFormatter(out io.Writer, opts ...FormatterOption) *Formatter {
	f := &Formatter{
		out:          out,
		sourceCache:  make(map[string]string),
		contextLines: 2,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddSource registers in-memory source text for filename so it does not
// have to be read from disk.
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

// LoadSource loads source code for a file (cached).
func (f *Formatter) LoadSource(filename string) (string, error) {
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	if filename == "" {
		return "", nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, nil
}

// Format writes one diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	if len(spans) == 0 {
		f.formatSimple(d)
		return
	}

	// Group spans by file, preserving first-seen order.
	var files []string
	spansByFile := make(map[string][]LabeledSpan)
	for _, span := range spans {
		filename := span.Span.Filename
		if _, seen := spansByFile[filename]; !seen {
			files = append(files, filename)
		}
		spansByFile[filename] = append(spansByFile[filename], span)
	}

	f.printHeader(d)

	for _, filename := range files {
		src, err := f.LoadSource(filename)
		if err != nil || src == "" {
			fmt.Fprintf(f.out, "  --> %s\n", d.Span.String())
			continue
		}
		f.printFileSpans(filename, src, spansByFile[filename])
	}

	f.printHelp(d)
}

// FormatAll writes every diagnostic separated by blank lines.
func (f *Formatter) FormatAll(diags []Diagnostic) {
	for i, d := range diags {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.Format(d)
	}
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

// printHeader prints the error header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = "error"
	}

	if d.Code != "" {
		fmt.Fprintf(f.out, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.out, "%s: %s\n", severity, d.Message)
	}
}

// printFileSpans prints source code with underlines for spans in a file.
func (f *Formatter) printFileSpans(filename string, src string, spans []LabeledSpan) {
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
	gutter := strings.Repeat(" ", lineNumWidth)

	location := filename
	if location == "" {
		location = "<input>"
	}
	first := spans[0].Span
	fmt.Fprintf(f.out, "  --> %s:%d:%d\n", location, first.Line, first.Column)
	fmt.Fprintf(f.out, "   %s |\n", gutter)

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		lineContent := strings.TrimRight(lines[lineNum-1], "\r")

		fmt.Fprintf(f.out, " %*d | %s\n", lineNumWidth+2, lineNum, lineContent)

		if lineSpans := spansByLine[lineNum]; len(lineSpans) > 0 {
			f.printUnderlines(gutter, lineContent, lineSpans)
		}
	}

	fmt.Fprintf(f.out, "   %s |\n", gutter)
}

// printUnderlines prints underlines (^ primary, ~ secondary) for spans on a line.
func (f *Formatter) printUnderlines(gutter string, lineContent string, spans []LabeledSpan) {
	width := len([]rune(lineContent))
	underline := []rune(strings.Repeat(" ", width+1))

	mark := func(span Span, r rune, overwrite bool) {
		start := max(0, span.Column-1)
		end := min(len(underline), start+max(1, span.End-span.Start))
		for i := start; i < end; i++ {
			if overwrite || underline[i] == ' ' {
				underline[i] = r
			}
		}
	}

	for _, span := range spans {
		if span.Style != "secondary" {
			mark(span.Span, '^', true)
		}
	}
	for _, span := range spans {
		if span.Style == "secondary" {
			mark(span.Span, '~', false)
		}
	}

	fmt.Fprintf(f.out, "   %s | %s", gutter, strings.TrimRight(string(underline), " "))

	var secondaryLabels []string
	for _, span := range spans {
		if span.Label == "" {
			continue
		}
		if span.Style == "secondary" {
			secondaryLabels = append(secondaryLabels, span.Label)
		} else {
			fmt.Fprintf(f.out, " %s", span.Label)
		}
	}
	fmt.Fprintln(f.out)

	for _, label := range secondaryLabels {
		fmt.Fprintf(f.out, "   %s | %s\n", gutter, label)
	}
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
