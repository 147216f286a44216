package lines

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestByteOffsetASCII(t *testing.T) {
	idx := New("fn main() {\n  let x = 1\n}\n")

	off, err := idx.ByteOffset(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, off)

	off, err = idx.ByteOffset(1, 6)
	require.NoError(t, err)
	assert.Equal(t, 18, off)

	// end of line is addressable
	off, err = idx.ByteOffset(1, 11)
	require.NoError(t, err)
	assert.Equal(t, 23, off)

	// the empty last line
	off, err = idx.ByteOffset(3, 0)
	require.NoError(t, err)
	assert.Equal(t, 26, off)
	assert.Equal(t, 4, idx.LineCount())
}

func TestByteOffsetMultiByte(t *testing.T) {
	// "é" is 2 bytes / 1 unit, "😀" is 4 bytes / 2 units
	idx := New("let s = \"é😀x\"")

	off, err := idx.ByteOffset(0, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, off, "after é")

	off, err = idx.ByteOffset(0, 12)
	require.NoError(t, err)
	assert.Equal(t, 15, off, "after the surrogate pair")

	_, err = idx.ByteOffset(0, 11)
	assert.ErrorIs(t, err, ErrOutOfRange, "column inside a surrogate pair")
}

func TestByteOffsetErrors(t *testing.T) {
	idx := New("ab\ncd")

	tests := []struct {
		name      string
		line, col int
	}{
		{"negative line", -1, 0},
		{"line past end", 2, 0},
		{"negative column", 0, -1},
		{"column past line end", 0, 3},
		{"column past last line", 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := idx.ByteOffset(tt.line, tt.col)
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

func TestInvalidUTF8CountsAsOneUnit(t *testing.T) {
	idx := New("a\xffb")
	off, err := idx.ByteOffset(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, off)

	line, col, err := idx.Position(2)
	require.NoError(t, err)
	assert.Equal(t, 0, line)
	assert.Equal(t, 2, col)
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"\n\n",
		"fn main() {\r\n  x\r\n}",
		"let 名前 = \"😀😀\"\n  |> io.println",
		"a\xffb\nc",
	}
	for _, content := range inputs {
		idx := New(content)
		for off := 0; off <= len(content); off++ {
			if off < len(content) && !utf8.RuneStart(content[off]) {
				continue
			}
			line, col, err := idx.Position(off)
			require.NoError(t, err, "offset %d in %q", off, content)
			back, err := idx.ByteOffset(line, col)
			require.NoError(t, err, "offset %d in %q", off, content)
			assert.Equal(t, off, back, "offset %d in %q", off, content)
		}
	}
}

func TestPositionErrors(t *testing.T) {
	idx := New("é")
	_, _, err := idx.Position(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, _, err = idx.Position(3)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, _, err = idx.Position(1)
	assert.ErrorIs(t, err, ErrOutOfRange, "inside a multi-byte character")
}

func TestProtocolRanges(t *testing.T) {
	idx := New("let x = 1\nlet y = x")

	rng, err := idx.OffsetRange(14, 15)
	require.NoError(t, err)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 1, Character: 4},
		End:   protocol.Position{Line: 1, Character: 5},
	}, rng)

	start, end, err := idx.RangeOffsets(rng)
	require.NoError(t, err)
	assert.Equal(t, 14, start)
	assert.Equal(t, 15, end)

	_, _, err = idx.RangeOffsets(protocol.Range{
		Start: protocol.Position{Line: 1, Character: 5},
		End:   protocol.Position{Line: 1, Character: 4},
	})
	assert.ErrorIs(t, err, ErrOutOfRange)

	col, err := idx.Column(18)
	require.NoError(t, err)
	assert.Equal(t, 8, col)
}
