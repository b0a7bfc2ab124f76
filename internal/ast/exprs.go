package ast

import "github.com/kievzenit/rblang/internal/lexer"

type IntLiteral struct {
	StartToken *lexer.Token

	Value int64
}

type FloatLiteral struct {
	StartToken *lexer.Token

	Value float64
}

// StringLiteral holds the text between the quotes, escapes untouched.
type StringLiteral struct {
	StartToken *lexer.Token

	Value string
}

type Identifier struct {
	StartToken *lexer.Token

	Name string
}

type UnaryOp struct {
	StartToken *lexer.Token

	Op      lexer.TokenKind
	Operand Expr
}

type BinaryOp struct {
	StartToken *lexer.Token

	Op    lexer.TokenKind
	Left  Expr
	Right Expr
}

// FunctionCall with no arguments has a nil Args slice.
type FunctionCall struct {
	StartToken *lexer.Token

	Callee string
	Args   []Expr
}

func (i *IntLiteral) AstNode()                 {}
func (i *IntLiteral) StmtNode()                {}
func (i *IntLiteral) ExprNode()                {}
func (i *IntLiteral) FirstToken() *lexer.Token { return i.StartToken }

func (f *FloatLiteral) AstNode()                 {}
func (f *FloatLiteral) StmtNode()                {}
func (f *FloatLiteral) ExprNode()                {}
func (f *FloatLiteral) FirstToken() *lexer.Token { return f.StartToken }

func (s *StringLiteral) AstNode()                 {}
func (s *StringLiteral) StmtNode()                {}
func (s *StringLiteral) ExprNode()                {}
func (s *StringLiteral) FirstToken() *lexer.Token { return s.StartToken }

func (i *Identifier) AstNode()                 {}
func (i *Identifier) StmtNode()                {}
func (i *Identifier) ExprNode()                {}
func (i *Identifier) FirstToken() *lexer.Token { return i.StartToken }

func (u *UnaryOp) AstNode()                 {}
func (u *UnaryOp) StmtNode()                {}
func (u *UnaryOp) ExprNode()                {}
func (u *UnaryOp) FirstToken() *lexer.Token { return u.StartToken }

func (b *BinaryOp) AstNode()                 {}
func (b *BinaryOp) StmtNode()                {}
func (b *BinaryOp) ExprNode()                {}
func (b *BinaryOp) FirstToken() *lexer.Token { return b.StartToken }

func (f *FunctionCall) AstNode()                 {}
func (f *FunctionCall) StmtNode()                {}
func (f *FunctionCall) ExprNode()                {}
func (f *FunctionCall) FirstToken() *lexer.Token { return f.StartToken }
