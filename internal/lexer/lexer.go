package lexer

import (
	"fmt"
	"strings"

	"github.com/kievzenit/rblang/internal/compiler_errors"
	"github.com/kievzenit/rblang/internal/source"
)

type LexerError struct {
	Message string

	Line   int
	Column int
}

func newReadError(err error, at source.Cursor) *LexerError {
	return &LexerError{
		Message: fmt.Sprintf("Line %d, failed to read source: %s", at.Line, err),
		Line:    at.Line,
		Column:  at.Column,
	}
}

func (e *LexerError) GetMessage() string {
	return e.Message
}

var symbols = map[source.Char]TokenKind{
	'+': PLUS,
	'-': MINUS,
	'*': ASTERISK,
	'/': SLASH,
	'%': PERCENT,
	'<': LT,
	'>': GT,
	'=': ASSIGN,
	'(': LPAREN,
	')': RPAREN,
	'[': LBRACKET,
	']': RBRACKET,
	'{': LBRACE,
	'}': RBRACE,
	';': SEMICOLON,
	':': COLON,
	',': COMMA,
}

// Lexer turns the characters of a source.Reader into tokens. It is not
// restartable: once EOF has been produced every further call returns EOF.
type Lexer struct {
	reader *source.Reader

	done     bool
	reported bool

	eh compiler_errors.ErrorHandler
}

func NewLexer(reader *source.Reader, eh compiler_errors.ErrorHandler) *Lexer {
	return &Lexer{
		reader: reader,
		eh:     eh,
	}
}

// Tokenize drains the lexer. The returned slice always ends with EOF.
func (l *Lexer) Tokenize() []Token {
	tokens := make([]Token, 0)

	for {
		token := l.NextToken()
		tokens = append(tokens, token)

		if token.Kind == EOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() Token {
	ch := l.skipWhitespace()
	at := l.reader.LastCursor()

	if ch.IsEOF() || l.done {
		return l.eof(at)
	}

	switch ch {
	case '=', '<', '>':
		if l.reader.Peek() == '=' {
			l.reader.Read()
			lexeme := string(ch) + "="
			return l.token(keywords[lexeme], lexeme, at)
		}
	case '"':
		return l.processStringLiteral(at)
	}

	if kind, ok := symbols[ch]; ok {
		return l.token(kind, string(ch), at)
	}

	var lexeme strings.Builder
	lexeme.WriteRune(rune(ch))
	for !isSeparator(l.reader.Peek()) {
		lexeme.WriteRune(rune(l.reader.Read()))
	}

	value := lexeme.String()
	return l.token(classify(value), value, at)
}

func (l *Lexer) token(kind TokenKind, value string, at source.Cursor) Token {
	return Token{
		Kind:  kind,
		Value: value,

		Line:   at.Line,
		Column: at.Column,
	}
}

func (l *Lexer) eof(at source.Cursor) Token {
	l.done = true

	if err := l.reader.Err(); err != nil && !l.reported {
		l.reported = true
		l.eh.AddError(newReadError(err, at))
	}

	return l.token(EOF, EOF.String(), at)
}

func (l *Lexer) skipWhitespace() source.Char {
	for {
		ch := l.reader.Read()
		if !ch.IsWhitespace() {
			return ch
		}
	}
}

// processStringLiteral reads up to the closing quote with separator
// detection off. The lexeme keeps both quotes. Hitting EOF first yields
// UNKNOWN without the reader's padding space.
func (l *Lexer) processStringLiteral(at source.Cursor) Token {
	var lexeme strings.Builder
	lexeme.WriteByte('"')

	l.reader.SetInString(true)
	defer l.reader.SetInString(false)

	for {
		ch := l.reader.Peek()
		if ch.IsEOF() {
			return l.token(UNKNOWN, strings.TrimSuffix(lexeme.String(), " "), at)
		}

		l.reader.Read()
		lexeme.WriteRune(rune(ch))
		if ch == '"' {
			return l.token(STRING, lexeme.String(), at)
		}
	}
}

func isSeparator(ch source.Char) bool {
	if ch.IsEOF() || ch.IsWhitespace() {
		return true
	}

	_, ok := symbols[ch]
	return ok
}

func classify(lexeme string) TokenKind {
	if kind, ok := keywords[lexeme]; ok {
		return kind
	}

	switch {
	case isIntegerLiteral(lexeme):
		return INT
	case isAttribute(lexeme):
		return ATTR
	case isStringLiteral(lexeme):
		return STRING
	case isIdentifier(lexeme):
		return IDENT
	case isFloatLiteral(lexeme):
		return FLOAT
	}

	return UNKNOWN
}

func isIntegerLiteral(lexeme string) bool {
	if hex, ok := strings.CutPrefix(lexeme, "0x"); ok {
		return hex != "" && allOf(hex, source.Char.IsHexDigit)
	}

	return lexeme != "" && allOf(lexeme, source.Char.IsDigit)
}

func isAttribute(lexeme string) bool {
	name, ok := strings.CutPrefix(lexeme, "@")
	return ok && name != "" && allOf(name, source.Char.IsIdentifier)
}

func isStringLiteral(lexeme string) bool {
	return len(lexeme) >= 2 &&
		lexeme[0] == '"' &&
		lexeme[len(lexeme)-1] == '"' &&
		!strings.Contains(lexeme[1:len(lexeme)-1], `"`)
}

func isIdentifier(lexeme string) bool {
	if lexeme == "" {
		return false
	}

	first := source.Char(lexeme[0])
	return (first.IsLetter() || first == '_') && allOf(lexeme, source.Char.IsIdentifier)
}

func isFloatLiteral(lexeme string) bool {
	whole, fraction, ok := strings.Cut(lexeme, ".")
	if !ok || fraction == "" {
		return false
	}

	return allOf(whole, source.Char.IsDigit) && allOf(fraction, source.Char.IsDigit)
}

func allOf(s string, pred func(source.Char) bool) bool {
	for _, r := range s {
		if !pred(source.Char(r)) {
			return false
		}
	}

	return true
}
