package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"dollar/internal/diag"
	"dollar/internal/source"
)

type palette struct {
	err, warn, info, note *color.Color
	code, path, gutter    *color.Color
	caret                 *color.Color
}

func newPalette(on bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue, color.Bold),
		code:   mk(color.Bold),
		path:   mk(color.Faint),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgRed, color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждой диагностики:
//
//	<path>:<line>:<col>: <severity> <CODE>: <message>
//	   1 | строка исходника
//	     |     ^^
//
// затем заметки в том же формате, если включены ShowNotes.
// Диагностики без известного файла печатаются без позиции и контекста.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyOne(w, &d, fs, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) error {
	var sb strings.Builder
	sev := d.Severity.String()
	if fs != nil && fs.Get(d.Primary.File) != nil {
		start, _ := fs.Resolve(d.Primary)
		sb.WriteString(pal.path.Sprintf("%s:%d:%d:", formatPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col))
		sb.WriteByte(' ')
	}
	sb.WriteString(pal.severity(d.Severity).Sprint(sev))
	sb.WriteByte(' ')
	sb.WriteString(pal.code.Sprint(d.Code.ID()))
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	sb.WriteByte('\n')
	writeSnippet(&sb, fs, d.Primary, opts, pal, pal.caret)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			sb.WriteString(pal.note.Sprint("note"))
			if fs != nil && fs.Get(n.Span.File) != nil {
				start, _ := fs.Resolve(n.Span)
				fmt.Fprintf(&sb, ": %s: %s\n", pal.path.Sprintf("%s:%d:%d", formatPath(fs, n.Span.File, opts.PathMode), start.Line, start.Col), n.Msg)
				writeSnippet(&sb, fs, n.Span, opts, pal, pal.note)
			} else {
				fmt.Fprintf(&sb, ": %s\n", n.Msg)
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// writeSnippet prints the lines around span with a caret underline on the
// first line of the span. Multi-line spans are underlined to the end of
// their first line.
func writeSnippet(sb *strings.Builder, fs *source.FileSet, span source.Span, opts PrettyOpts, pal palette, caretColor *color.Color) {
	if fs == nil {
		return
	}
	file := fs.Get(span.File)
	if file == nil {
		return
	}
	start, end := fs.Resolve(span)
	tab := int(opts.TabWidth)
	if tab == 0 {
		tab = 4
	}

	first := start.Line
	if ctx := uint32(opts.Context); first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last := start.Line + uint32(opts.Context)
	lineCount, err := safecast.Conv[uint32](len(file.LineIdx) + 1)
	if err != nil {
		return
	}
	if last > lineCount {
		last = lineCount
	}
	width := len(strconv.FormatUint(uint64(last), 10))
	blank := strings.Repeat(" ", width)

	for ln := first; ln <= last; ln++ {
		text := file.GetLine(ln)
		fmt.Fprintf(sb, " %s %s %s\n", pal.gutter.Sprintf("%*d", width, ln), pal.gutter.Sprint("|"), expandTabs(text, tab))
		if ln != start.Line {
			continue
		}
		col := int(start.Col) - 1
		col = min(col, len(text))
		endCol := len(text)
		if end.Line == start.Line {
			endCol = min(int(end.Col)-1, len(text))
		}
		pad := runewidth.StringWidth(expandTabs(text[:col], tab))
		under := runewidth.StringWidth(expandTabs(text[col:max(col, endCol)], tab))
		under = max(under, 1)
		fmt.Fprintf(sb, " %s %s %s%s\n", blank, pal.gutter.Sprint("|"), strings.Repeat(" ", pad), caretColor.Sprint(strings.Repeat("^", under)))
	}
}

func expandTabs(s string, width int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := width - col%width
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}

// PrettyFileError prints a failure that is not tied to a position inside a
// loaded file, such as an unreadable path.
func PrettyFileError(w io.Writer, path string, code diag.Code, msg string, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	_, err := fmt.Fprintf(w, "%s %s %s: %s\n", pal.path.Sprint(path+":"), pal.err.Sprint("error"), pal.code.Sprint(code.ID()), msg)
	return err
}
