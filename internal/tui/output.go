package tui

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
)

// Output writes command results. Styles are applied only when the writer
// is a terminal, so piped output and tests see plain text.
type Output struct {
	w     io.Writer
	color bool
	width int
}

// NewOutput wraps w.
func NewOutput(w io.Writer) *Output {
	o := &Output{w: w, width: 100}
	if f, ok := w.(*os.File); ok {
		o.color = isTerminal(f)
	}
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		o.width = cols
	}
	return o
}

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Width is the line width used for truncation and markdown wrapping.
func (o *Output) Width() int { return o.width }

// Writer returns the underlying writer.
func (o *Output) Writer() io.Writer { return o.w }

func (o *Output) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) Println(args ...any) {
	_, _ = fmt.Fprintln(o.w, args...)
}

func (o *Output) style(s lipgloss.Style, text string) string {
	if !o.color {
		return text
	}
	return s.Render(text)
}

func (o *Output) OK(text string) string    { return o.style(installedStyle, text) }
func (o *Output) Error(text string) string { return o.style(errorStyle, text) }
func (o *Output) Warn(text string) string  { return o.style(warningStyle, text) }
func (o *Output) Muted(text string) string { return o.style(mutedStyle, text) }
func (o *Output) Bold(text string) string  { return o.style(selectedItemStyle, text) }

// Section prints a section header line.
func (o *Output) Section(label string) {
	if o.color {
		o.Println(renderSectionHeader(label))
		return
	}
	o.Printf("%s:\n", label)
}

// Truncate shortens text to fit width cells, keeping room for indent.
func (o *Output) Truncate(text string, indent int) string {
	avail := o.width - indent
	if avail < 10 || ansi.StringWidth(text) <= avail {
		return text
	}
	return ansi.Truncate(text, avail, "…")
}
