package scanner

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"dollar/internal/source"
)

// EOFRune is returned by Peek/Read once the cursor is past the end of input.
// It is not a valid Unicode code point, so a literal NUL in the input stays text.
const EOFRune rune = -1

// Cursor is a read position in a file. Off is a byte offset; Peek and
// Read work in whole UTF-8 characters.
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32 // exclusive upper bound for Off
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{
		File:  f,
		Off:   0,
		Limit: limit,
	}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// decode returns the character at off and its size in bytes; size is 0 past the end.
// Invalid UTF-8 decodes as utf8.RuneError of size 1.
func (c *Cursor) decode(off uint32) (rune, uint32) {
	if off >= c.Limit {
		return EOFRune, 0
	}
	b := c.File.Content[off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(c.File.Content[off:c.Limit])
	return r, uint32(sz) // #nosec G115 -- sz <= utf8.UTFMax
}

// Peek returns the current character without consuming it.
func (c *Cursor) Peek() rune {
	r, _ := c.decode(c.Off)
	return r
}

// PeekN returns the character n positions ahead of the cursor (PeekN(0) == Peek()).
func (c *Cursor) PeekN(n int) rune {
	off := c.Off
	for ; n > 0; n-- {
		_, sz := c.decode(off)
		if sz == 0 {
			return EOFRune
		}
		off += sz
	}
	r, _ := c.decode(off)
	return r
}

// Read returns the current character and advances past it. At the end it
// returns EOFRune and does not move.
func (c *Cursor) Read() rune {
	r, sz := c.decode(c.Off)
	c.Off += sz
	return r
}

// Mark это метка, чтобы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// BytesFrom returns the raw bytes consumed since the mark.
func (c *Cursor) BytesFrom(m Mark) []byte {
	return c.File.Content[uint32(m):c.Off]
}
