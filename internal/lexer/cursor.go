package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"squiggle/internal/source"
)

// Cursor is a byte position in a source text.
type Cursor struct {
	Content []byte
	Off     uint32
	Limit   uint32 // exclusive upper bound for Off
}

// NewCursor creates a cursor over content.
func NewCursor(content []byte) (Cursor, error) {
	limit, err := safecast.Conv[uint32](len(content))
	if err != nil {
		return Cursor{}, fmt.Errorf("source too large: %w", err)
	}
	return Cursor{Content: content, Limit: limit}, nil
}

// EOF reports whether the end of input is reached.
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Content[c.Off]
}

// Peek2 returns the current and the next byte.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.Content[c.Off], c.Content[c.Off+1], true
}

// Bump advances by one byte and returns it.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Content[c.Off]
	c.Off++
	return b
}

// Mark is a saved cursor position.
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom returns the span from m to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{Start: uint32(m), End: c.Off}
}

// Reset moves the cursor back to m.
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it equals b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}
