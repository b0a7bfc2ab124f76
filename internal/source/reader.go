package source

import (
	"bufio"
	"errors"
	"io"
)

// Char is a single character of source text, or EOF.
type Char rune

const EOF Char = -1

const tabWidth = 4

func (c Char) IsEOF() bool {
	return c == EOF
}

func (c Char) IsWhitespace() bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f':
		return true
	}

	return false
}

func (c Char) IsDigit() bool {
	return c >= '0' && c <= '9'
}

func (c Char) IsHexDigit() bool {
	return c.IsDigit() || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (c Char) IsLetter() bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (c Char) IsIdentifier() bool {
	return c.IsLetter() || c.IsDigit() || c == '_'
}

// Cursor is a 1-based line/column position in the source.
type Cursor struct {
	Line   int
	Column int
}

type char struct {
	value Char
	at    Cursor
}

// Reader hands out source characters one at a time. Line endings are
// normalized to '\n' and '#' comments are dropped up to, but not including,
// the line break that ends them. One trailing ' ' is produced before EOF so
// that the last lexeme is always followed by a separator.
type Reader struct {
	r *bufio.Reader

	pos  Cursor
	last Cursor

	peeked   *char
	inString bool
	padded   bool

	err error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:    bufio.NewReader(r),
		pos:  Cursor{Line: 1, Column: 1},
		last: Cursor{Line: 1, Column: 1},
	}
}

// Read returns the next character and advances past it.
func (r *Reader) Read() Char {
	var c char
	if r.peeked != nil {
		c = *r.peeked
		r.peeked = nil
	} else {
		c = r.next()
	}

	r.last = c.at
	return c.value
}

// Peek returns the next character without consuming it.
func (r *Reader) Peek() Char {
	if r.peeked == nil {
		c := r.next()
		r.peeked = &c
	}

	return r.peeked.value
}

// Cursor is the position of the character the next Read returns.
func (r *Reader) Cursor() Cursor {
	if r.peeked != nil {
		return r.peeked.at
	}

	return r.pos
}

// LastCursor is the position of the character the last Read returned.
func (r *Reader) LastCursor() Cursor {
	return r.last
}

// SetInString toggles string literal mode. Comments are not recognized
// while it is on.
func (r *Reader) SetInString(inString bool) {
	r.inString = inString
}

func (r *Reader) InString() bool {
	return r.inString
}

// Err returns the first read error other than io.EOF.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) next() char {
	for {
		at := r.pos

		ru, _, err := r.r.ReadRune()
		if err != nil {
			return r.end(at, err)
		}

		switch ru {
		case '\r':
			if following, _, err := r.r.ReadRune(); err == nil && following != '\n' {
				_ = r.r.UnreadRune()
			}
			fallthrough
		case '\n':
			r.pos.Line++
			r.pos.Column = 1
			return char{value: '\n', at: at}
		case '\t':
			r.pos.Column += tabWidth
			return char{value: '\t', at: at}
		case '#':
			if r.inString {
				r.pos.Column++
				return char{value: '#', at: at}
			}
			r.skipComment()
			continue
		}

		r.pos.Column++
		return char{value: Char(ru), at: at}
	}
}

func (r *Reader) skipComment() {
	for {
		ru, _, err := r.r.ReadRune()
		if err != nil {
			return
		}

		if ru == '\n' || ru == '\r' {
			_ = r.r.UnreadRune()
			return
		}

		r.pos.Column++
	}
}

func (r *Reader) end(at Cursor, err error) char {
	if !errors.Is(err, io.EOF) && r.err == nil {
		r.err = err
	}

	if !r.padded {
		r.padded = true
		return char{value: ' ', at: at}
	}

	return char{value: EOF, at: at}
}
