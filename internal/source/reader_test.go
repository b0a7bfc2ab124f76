package source

import (
	"errors"
	"strings"
	"testing"
)

func readAll(r *Reader) []Char {
	chars := make([]Char, 0)
	for {
		c := r.Read()
		chars = append(chars, c)
		if c.IsEOF() {
			return chars
		}
	}
}

func TestReaderLineEndings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lf", "a\nb", "a\nb "},
		{"crlf", "a\r\nb", "a\nb "},
		{"cr", "a\rb", "a\nb "},
		{"mixed", "a\r\n\rb\n", "a\n\nb\n "},
		{"empty", "", " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chars := readAll(NewReader(strings.NewReader(tt.input)))
			if last := chars[len(chars)-1]; last != EOF {
				t.Fatalf("last char = %q, want EOF", last)
			}

			var got strings.Builder
			for _, c := range chars[:len(chars)-1] {
				got.WriteRune(rune(c))
			}
			if got.String() != tt.want {
				t.Errorf("read %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestReaderSkipsComments(t *testing.T) {
	r := NewReader(strings.NewReader("a # comment ;\nb#tail"))

	var got strings.Builder
	for c := r.Read(); !c.IsEOF(); c = r.Read() {
		got.WriteRune(rune(c))
	}

	if got.String() != "a \nb " {
		t.Errorf("read %q, want %q", got.String(), "a \nb ")
	}
}

func TestReaderKeepsHashInString(t *testing.T) {
	r := NewReader(strings.NewReader(`"a#b"`))

	if c := r.Read(); c != '"' {
		t.Fatalf("first char = %q, want '\"'", c)
	}
	r.SetInString(true)
	for _, want := range []Char{'a', '#', 'b', '"'} {
		if c := r.Read(); c != want {
			t.Fatalf("read %q, want %q", c, want)
		}
	}
}

func TestReaderCursor(t *testing.T) {
	r := NewReader(strings.NewReader("ab\n\tc"))

	tests := []struct {
		expectedChar   Char
		expectedCursor Cursor
	}{
		{'a', Cursor{Line: 1, Column: 1}},
		{'b', Cursor{Line: 1, Column: 2}},
		{'\n', Cursor{Line: 1, Column: 3}},
		{'\t', Cursor{Line: 2, Column: 1}},
		{'c', Cursor{Line: 2, Column: 5}},
	}

	for i, tt := range tests {
		c := r.Read()
		if c != tt.expectedChar {
			t.Fatalf("tests[%d] - char wrong. expected=%q, got=%q", i, tt.expectedChar, c)
		}
		if r.LastCursor() != tt.expectedCursor {
			t.Fatalf("tests[%d] - cursor wrong. expected=%+v, got=%+v", i, tt.expectedCursor, r.LastCursor())
		}
	}
}

func TestReaderPeek(t *testing.T) {
	r := NewReader(strings.NewReader("=="))

	if c := r.Read(); c != '=' {
		t.Fatalf("Read() = %q, want '='", c)
	}
	if c := r.Peek(); c != '=' {
		t.Fatalf("Peek() = %q, want '='", c)
	}
	if got, want := r.Cursor(), (Cursor{Line: 1, Column: 2}); got != want {
		t.Fatalf("Cursor() = %+v, want %+v", got, want)
	}
	if c := r.Read(); c != '=' {
		t.Fatalf("Read() after Peek() = %q, want '='", c)
	}
	if got, want := r.LastCursor(), (Cursor{Line: 1, Column: 2}); got != want {
		t.Fatalf("LastCursor() = %+v, want %+v", got, want)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestReaderError(t *testing.T) {
	r := NewReader(failingReader{})

	readAll(r)
	if r.Err() == nil {
		t.Fatal("Err() = nil, want read error")
	}
}
