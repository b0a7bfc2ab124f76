package ast

import "github.com/kievzenit/rblang/internal/lexer"

type AstNode interface {
	AstNode()
	FirstToken() *lexer.Token
}

// Stmt is anything that may appear in a CodeBlock.
type Stmt interface {
	AstNode
	StmtNode()
}

// Expr is a value producing node. Every expression is also a statement.
type Expr interface {
	Stmt
	ExprNode()
}

// Gap marks a statement the parser could not build. It keeps the position
// of the token where recovery started.
type Gap struct {
	StartToken *lexer.Token

	Message string
}

func (g *Gap) AstNode()                 {}
func (g *Gap) StmtNode()                {}
func (g *Gap) FirstToken() *lexer.Token { return g.StartToken }
