package parser

import (
	"fmt"
	"strings"

	"github.com/kievzenit/rblang/internal/lexer"
)

type SyntaxError interface {
	GetMessage() string
	GetLine() int
	GetColumn() int
}

type UnexpectedExpectedError struct {
	Unexpected *lexer.Token
	Expected   lexer.TokenKind

	Line   int
	Column int
}

func (e *UnexpectedExpectedError) GetMessage() string {
	return fmt.Sprintf(
		"Line %d, unexpected token: '%s', expected: '%s'",
		e.Line,
		e.Unexpected.Describe(),
		e.Expected,
	)
}

func (e *UnexpectedExpectedError) GetLine() int   { return e.Line }
func (e *UnexpectedExpectedError) GetColumn() int { return e.Column }

type UnexpectedExpectedManyError struct {
	Unexpected *lexer.Token
	Expected   []lexer.TokenKind

	Line   int
	Column int
}

func (e *UnexpectedExpectedManyError) GetMessage() string {
	expectedKinds := make([]string, len(e.Expected))
	for i, kind := range e.Expected {
		expectedKinds[i] = kind.String()
	}
	return fmt.Sprintf(
		"Line %d, unexpected token: '%s', expected one of: '%s'",
		e.Line,
		e.Unexpected.Describe(),
		strings.Join(expectedKinds, "', '"),
	)
}

func (e *UnexpectedExpectedManyError) GetLine() int   { return e.Line }
func (e *UnexpectedExpectedManyError) GetColumn() int { return e.Column }

type UnexpectedError struct {
	Unexpected *lexer.Token

	Line   int
	Column int
}

func (e *UnexpectedError) GetMessage() string {
	return fmt.Sprintf("Line %d, unexpected token: '%s'", e.Line, e.Unexpected.Describe())
}

func (e *UnexpectedError) GetLine() int   { return e.Line }
func (e *UnexpectedError) GetColumn() int { return e.Column }

type MalformedLiteralError struct {
	Literal *lexer.Token
	Reason  string

	Line   int
	Column int
}

func (e *MalformedLiteralError) GetMessage() string {
	return fmt.Sprintf(
		"Line %d, malformed %s literal '%s': %s",
		e.Line,
		strings.ToLower(e.Literal.Kind.String()),
		e.Literal.Value,
		e.Reason,
	)
}

func (e *MalformedLiteralError) GetLine() int   { return e.Line }
func (e *MalformedLiteralError) GetColumn() int { return e.Column }

// StructureError covers violations that are not about a single token, like
// a missing function body.
type StructureError struct {
	Message string

	Line   int
	Column int
}

func (e *StructureError) GetMessage() string {
	return fmt.Sprintf("Line %d, %s", e.Line, e.Message)
}

func (e *StructureError) GetLine() int   { return e.Line }
func (e *StructureError) GetColumn() int { return e.Column }
