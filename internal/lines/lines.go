// Package lines converts between editor positions (zero-based line and
// UTF-16 column) and UTF-8 byte offsets of one document.
package lines

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ErrOutOfRange is wrapped by every conversion error.
var ErrOutOfRange = errors.New("position out of range")

// Index holds the byte offset of every line start. It is immutable.
type Index struct {
	content string
	starts  []int
}

func New(content string) *Index {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{content: content, starts: starts}
}

// LineCount returns the number of lines; an empty document has one.
func (x *Index) LineCount() int { return len(x.starts) }

// LineStart returns the byte offset of the first byte of line.
func (x *Index) LineStart(line int) (int, error) {
	if line < 0 || line >= len(x.starts) {
		return 0, fmt.Errorf("%w: line %d of %d", ErrOutOfRange, line, len(x.starts))
	}
	return x.starts[line], nil
}

// lineEnd is the offset of the line's \n, or the content length on the
// last line. A \r before the \n is addressable like any other character.
func (x *Index) lineEnd(line int) int {
	if line+1 < len(x.starts) {
		return x.starts[line+1] - 1
	}
	return len(x.content)
}

// ByteOffset converts a position to a byte offset. The column may address
// the end of the line but never the line terminator or anything past it.
func (x *Index) ByteOffset(line, col int) (int, error) {
	start, err := x.LineStart(line)
	if err != nil {
		return 0, err
	}
	if col < 0 {
		return 0, fmt.Errorf("%w: negative column %d", ErrOutOfRange, col)
	}
	end := x.lineEnd(line)
	offset, units := start, 0
	for units < col {
		if offset >= end {
			return 0, fmt.Errorf("%w: column %d beyond end of line %d", ErrOutOfRange, col, line)
		}
		r, size := utf8.DecodeRuneInString(x.content[offset:end])
		n := runeUnits(r, size)
		if units+n > col {
			return 0, fmt.Errorf("%w: column %d splits a character on line %d", ErrOutOfRange, col, line)
		}
		units += n
		offset += size
	}
	return offset, nil
}

// Position converts a byte offset into (line, UTF-16 column). offset may
// equal the content length.
func (x *Index) Position(offset int) (line, col int, err error) {
	if offset < 0 || offset > len(x.content) {
		return 0, 0, fmt.Errorf("%w: offset %d of %d", ErrOutOfRange, offset, len(x.content))
	}
	line = sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
	col, err = x.columnOn(line, offset)
	return line, col, err
}

// Column returns the UTF-16 column of offset on its own line.
func (x *Index) Column(offset int) (int, error) {
	_, col, err := x.Position(offset)
	return col, err
}

func (x *Index) columnOn(line, offset int) (int, error) {
	units := 0
	for i := x.starts[line]; i < offset; {
		r, size := utf8.DecodeRuneInString(x.content[i:])
		if i+size > offset {
			return 0, fmt.Errorf("%w: offset %d is inside a character", ErrOutOfRange, offset)
		}
		units += runeUnits(r, size)
		i += size
	}
	return units, nil
}

// runeUnits counts UTF-16 code units; an invalid byte counts as one.
func runeUnits(r rune, size int) int {
	if r == utf8.RuneError && size <= 1 {
		return 1
	}
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

// OffsetPosition converts an offset into a protocol position.
func (x *Index) OffsetPosition(offset int) (protocol.Position, error) {
	line, col, err := x.Position(offset)
	if err != nil {
		return protocol.Position{}, err
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}, nil
}

// OffsetRange converts a byte range into a protocol range.
func (x *Index) OffsetRange(start, end int) (protocol.Range, error) {
	s, err := x.OffsetPosition(start)
	if err != nil {
		return protocol.Range{}, err
	}
	e, err := x.OffsetPosition(end)
	if err != nil {
		return protocol.Range{}, err
	}
	return protocol.Range{Start: s, End: e}, nil
}

// PositionOffset converts a protocol position into a byte offset.
func (x *Index) PositionOffset(p protocol.Position) (int, error) {
	return x.ByteOffset(int(p.Line), int(p.Character))
}

// RangeOffsets converts a protocol range into a byte range.
func (x *Index) RangeOffsets(r protocol.Range) (start, end int, err error) {
	if start, err = x.PositionOffset(r.Start); err != nil {
		return 0, 0, err
	}
	if end, err = x.PositionOffset(r.End); err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, fmt.Errorf("%w: range end precedes start", ErrOutOfRange)
	}
	return start, end, nil
}

// Content returns the indexed text.
func (x *Index) Content() string { return x.content }
