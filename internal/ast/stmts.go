package ast

import (
	"slices"

	"github.com/kievzenit/rblang/internal/lexer"
)

type VariableDefine struct {
	StartToken *lexer.Token

	Type string
	Name string
	Init Expr
}

type CodeBlock struct {
	StartToken *lexer.Token

	Stmts []Stmt
}

type IfElse struct {
	StartToken *lexer.Token

	Cond Expr
	If   *CodeBlock
	Else *CodeBlock
}

type Loop struct {
	StartToken *lexer.Token

	Cond Expr
	Body *CodeBlock
}

type Break struct {
	StartToken *lexer.Token
}

type Continue struct {
	StartToken *lexer.Token
}

type Return struct {
	StartToken *lexer.Token

	Value Expr
}

type FunctionParameter struct {
	Type string
	Name string
}

const ImportAttribute = "@import"

type FunctionPrototype struct {
	StartToken *lexer.Token

	Name       string
	ReturnType string
	Params     []FunctionParameter
	Attributes []string
}

// IsImported reports whether the function is provided from outside the unit
// and so has no body.
func (f *FunctionPrototype) IsImported() bool {
	return slices.Contains(f.Attributes, ImportAttribute)
}

// ParamTypes returns the parameter type names in declaration order.
func (f *FunctionPrototype) ParamTypes() []string {
	paramTypes := make([]string, len(f.Params))
	for i, param := range f.Params {
		paramTypes[i] = param.Type
	}
	return paramTypes
}

// FunctionDefine has a nil Body exactly when the prototype is imported.
type FunctionDefine struct {
	StartToken *lexer.Token

	Prototype *FunctionPrototype
	Body      *CodeBlock
}

func (v *VariableDefine) AstNode()                 {}
func (v *VariableDefine) StmtNode()                {}
func (v *VariableDefine) FirstToken() *lexer.Token { return v.StartToken }

func (c *CodeBlock) AstNode()                 {}
func (c *CodeBlock) StmtNode()                {}
func (c *CodeBlock) FirstToken() *lexer.Token { return c.StartToken }

func (i *IfElse) AstNode()                 {}
func (i *IfElse) StmtNode()                {}
func (i *IfElse) FirstToken() *lexer.Token { return i.StartToken }

func (l *Loop) AstNode()                 {}
func (l *Loop) StmtNode()                {}
func (l *Loop) FirstToken() *lexer.Token { return l.StartToken }

func (b *Break) AstNode()                 {}
func (b *Break) StmtNode()                {}
func (b *Break) FirstToken() *lexer.Token { return b.StartToken }

func (c *Continue) AstNode()                 {}
func (c *Continue) StmtNode()                {}
func (c *Continue) FirstToken() *lexer.Token { return c.StartToken }

func (r *Return) AstNode()                 {}
func (r *Return) StmtNode()                {}
func (r *Return) FirstToken() *lexer.Token { return r.StartToken }

func (f *FunctionPrototype) AstNode()                 {}
func (f *FunctionPrototype) FirstToken() *lexer.Token { return f.StartToken }

func (f *FunctionDefine) AstNode()                 {}
func (f *FunctionDefine) StmtNode()                {}
func (f *FunctionDefine) FirstToken() *lexer.Token { return f.StartToken }
