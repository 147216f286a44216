package diagnostics

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Render writes a human readable report for d, quoting the offending source
// line and underlining the token range. Colour is applied only when colored
// is set; callers decide based on the output stream.
func Render(w io.Writer, src string, d *DiagnosticError, colored bool) error {
	red := color.New(color.FgRed, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)
	bold := color.New(color.Bold)
	if !colored {
		red.DisableColor()
		blue.DisableColor()
		bold.DisableColor()
	}

	file := d.File
	if file == "" {
		file = "<input>"
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", red.Sprintf("error[%s]", d.Code), bold.Sprintf(": %s", d.Message)); err != nil {
		return err
	}

	lineText, lineStart, ok := sourceLine(src, d.Token.Offset)
	if !ok {
		_, err := fmt.Fprintf(w, "  %s %s\n", blue.Sprint("-->"), file)
		return err
	}

	gutter := fmt.Sprintf("%d", d.Token.Line)
	pad := strings.Repeat(" ", len(gutter))
	startCol := utf8.RuneCountInString(src[lineStart:d.Token.Offset])
	width := 1
	if d.Token.End > d.Token.Offset {
		end := d.Token.End
		if end > lineStart+len(lineText) {
			end = lineStart + len(lineText)
		}
		if n := utf8.RuneCountInString(src[d.Token.Offset:end]); n > 0 {
			width = n
		}
	}

	lines := []string{
		fmt.Sprintf("%s%s %s:%d:%d", pad, blue.Sprint("-->"), file, d.Token.Line, startCol+1),
		fmt.Sprintf("%s %s", pad, blue.Sprint("|")),
		fmt.Sprintf("%s %s %s", blue.Sprint(gutter), blue.Sprint("|"), lineText),
		fmt.Sprintf("%s %s %s%s", pad, blue.Sprint("|"), strings.Repeat(" ", startCol), red.Sprint(strings.Repeat("^", width))),
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// RenderAll renders every diagnostic separated by blank lines.
func RenderAll(w io.Writer, src string, diags []*DiagnosticError, colored bool) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := Render(w, src, d, colored); err != nil {
			return err
		}
	}
	return nil
}

func sourceLine(src string, offset int) (string, int, bool) {
	if offset < 0 || offset > len(src) {
		return "", 0, false
	}
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := strings.IndexByte(src[offset:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += offset
	}
	return strings.TrimRight(src[start:end], "\r"), start, true
}
