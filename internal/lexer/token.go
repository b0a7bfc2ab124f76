package lexer

import (
	"fmt"
	"unicode/utf8"
)

type TokenKind int

const (
	EOF TokenKind = iota

	INT
	FLOAT
	STRING

	IDENT
	ATTR // @name

	I64
	F64
	STR
	VOID

	IF
	ELSE
	ELIF
	LOOP
	BREAK
	CONTINUE
	FUNC
	RETURN

	AND
	OR
	NOT
	ADDRESS_OF

	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	PERCENT  // %

	ASSIGN // =

	EQ  // ==
	LT  // <
	LEQ // <=
	GT  // >
	GEQ // >=

	LPAREN   // (
	LBRACKET // [
	LBRACE   // {

	RPAREN   // )
	RBRACKET // ]
	RBRACE   // }

	SEMICOLON // ;
	COLON     // :
	COMMA     // ,

	UNKNOWN
)

func (tk TokenKind) String() string {
	switch tk {
	case EOF:
		return "EOF"
	case INT:
		return "INT"
	case FLOAT:
		return "FLOAT"
	case STRING:
		return "STRING"
	case IDENT:
		return "IDENT"
	case ATTR:
		return "ATTR"
	case I64:
		return "I64"
	case F64:
		return "F64"
	case STR:
		return "STR"
	case VOID:
		return "VOID"
	case IF:
		return "IF"
	case ELSE:
		return "ELSE"
	case ELIF:
		return "ELIF"
	case LOOP:
		return "LOOP"
	case BREAK:
		return "BREAK"
	case CONTINUE:
		return "CONTINUE"
	case FUNC:
		return "FUNC"
	case RETURN:
		return "RETURN"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case NOT:
		return "NOT"
	case ADDRESS_OF:
		return "ADDRESS_OF"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case ASTERISK:
		return "ASTERISK"
	case SLASH:
		return "SLASH"
	case PERCENT:
		return "PERCENT"
	case ASSIGN:
		return "ASSIGN"
	case EQ:
		return "EQ"
	case LT:
		return "LT"
	case LEQ:
		return "LEQ"
	case GT:
		return "GT"
	case GEQ:
		return "GEQ"
	case LPAREN:
		return "LPAREN"
	case LBRACKET:
		return "LBRACKET"
	case LBRACE:
		return "LBRACE"
	case RPAREN:
		return "RPAREN"
	case RBRACKET:
		return "RBRACKET"
	case RBRACE:
		return "RBRACE"
	case SEMICOLON:
		return "SEMICOLON"
	case COLON:
		return "COLON"
	case COMMA:
		return "COMMA"
	case UNKNOWN:
		return "UNKNOWN"
	default:
		panic(fmt.Sprintf("TokenKind.String(): received illegal token kind: %d", tk))
	}
}

var keywords = map[string]TokenKind{
	"i64":        I64,
	"f64":        F64,
	"str":        STR,
	"void":       VOID,
	"if":         IF,
	"else":       ELSE,
	"elif":       ELIF,
	"loop":       LOOP,
	"break":      BREAK,
	"continue":   CONTINUE,
	"and":        AND,
	"or":         OR,
	"not":        NOT,
	"address_of": ADDRESS_OF,
	"<=":         LEQ,
	"==":         EQ,
	">=":         GEQ,
	"func":       FUNC,
	"return":     RETURN,
}

type Token struct {
	Kind  TokenKind
	Value string

	Line   int
	Column int
}

func (t *Token) String() string {
	return fmt.Sprintf(
		"Type: %s, Value: %s(%d), Line: %d, Col: %d",
		t.Kind,
		t.Value,
		utf8.RuneCountInString(t.Value),
		t.Line,
		t.Column,
	)
}

func (t *Token) hasActualValue() bool {
	switch t.Kind {
	case INT, FLOAT, STRING, IDENT, ATTR, UNKNOWN:
		return true
	}

	return false
}

// Describe is the short form used in diagnostics: "IDENT(fib)", "SEMICOLON".
func (t *Token) Describe() string {
	if !t.hasActualValue() {
		return t.Kind.String()
	}

	return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
}
