// Package edit composes and applies byte-range text replacements.
package edit

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/lines"
)

// ErrOverlap is returned when two edits touch the same bytes.
var ErrOverlap = errors.New("overlapping edits")

// Edit replaces the bytes of Span with New.
type Edit struct {
	Span ast.Span
	New  string
}

func (e Edit) String() string {
	return fmt.Sprintf("[%d,%d)=%q", e.Span.Start, e.Span.End, e.New)
}

// Replace builds an edit for span.
func Replace(span ast.Span, text string) Edit {
	return Edit{Span: span, New: text}
}

// Delete builds an edit removing span.
func Delete(span ast.Span) Edit {
	return Edit{Span: span}
}

// Compose orders edits by start offset, keeping the given order for equal
// starts, and checks that no two of them overlap. Two insertions at the
// same offset are allowed.
func Compose(edits ...Edit) ([]Edit, error) {
	out := make([]Edit, len(edits))
	copy(out, edits)
	for _, e := range out {
		if e.Span.Start < 0 || e.Span.Start > e.Span.End {
			return nil, fmt.Errorf("invalid edit span %s", e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start < out[j].Span.Start
	})
	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1], out[i]
		if cur.Span.Start < prev.Span.End {
			return nil, fmt.Errorf("%w: %s and %s", ErrOverlap, prev, cur)
		}
	}
	return out, nil
}

// Apply applies composed edits to content. Each edit's span refers to the
// original content; delta tracks how far earlier edits moved later text.
func Apply(content string, edits []Edit) (string, error) {
	sorted, err := Compose(edits...)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(content))
	result := content
	delta := 0
	for _, e := range sorted {
		if e.Span.End > len(content) {
			return "", fmt.Errorf("edit %s beyond end of content (%d bytes)", e, len(content))
		}
		start := e.Span.Start + delta
		end := e.Span.End + delta
		b.Reset()
		b.WriteString(result[:start])
		b.WriteString(e.New)
		b.WriteString(result[end:])
		result = b.String()
		delta += len(e.New) - e.Span.Len()
	}
	return result, nil
}

// ToTextEdits converts edits to protocol text edits using idx.
func ToTextEdits(idx *lines.Index, edits []Edit) ([]protocol.TextEdit, error) {
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		rng, err := idx.OffsetRange(e.Span.Start, e.Span.End)
		if err != nil {
			return nil, err
		}
		out = append(out, protocol.TextEdit{Range: rng, NewText: e.New})
	}
	return out, nil
}

// FromTextEdits converts protocol text edits back to byte edits.
func FromTextEdits(idx *lines.Index, edits []protocol.TextEdit) ([]Edit, error) {
	out := make([]Edit, 0, len(edits))
	for _, te := range edits {
		start, end, err := idx.RangeOffsets(te.Range)
		if err != nil {
			return nil, err
		}
		out = append(out, Edit{Span: ast.Span{Start: start, End: end}, New: te.NewText})
	}
	return out, nil
}

// ApplyTextEdits applies protocol edits to content.
func ApplyTextEdits(content string, edits []protocol.TextEdit) (string, error) {
	idx := lines.New(content)
	converted, err := FromTextEdits(idx, edits)
	if err != nil {
		return "", err
	}
	return Apply(content, converted)
}
