package ast

import "slices"

// Equal compares two trees structurally. Token positions are ignored.
func Equal(a, b AstNode) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch a := a.(type) {
	case *IntLiteral:
		b, ok := b.(*IntLiteral)
		return ok && a.Value == b.Value
	case *FloatLiteral:
		b, ok := b.(*FloatLiteral)
		return ok && a.Value == b.Value
	case *StringLiteral:
		b, ok := b.(*StringLiteral)
		return ok && a.Value == b.Value
	case *Identifier:
		b, ok := b.(*Identifier)
		return ok && a.Name == b.Name
	case *UnaryOp:
		b, ok := b.(*UnaryOp)
		return ok && a.Op == b.Op && equalExpr(a.Operand, b.Operand)
	case *BinaryOp:
		b, ok := b.(*BinaryOp)
		return ok && a.Op == b.Op && equalExpr(a.Left, b.Left) && equalExpr(a.Right, b.Right)
	case *FunctionCall:
		b, ok := b.(*FunctionCall)
		return ok && a.Callee == b.Callee && slices.EqualFunc(a.Args, b.Args, equalExpr)
	case *VariableDefine:
		b, ok := b.(*VariableDefine)
		return ok && a.Type == b.Type && a.Name == b.Name && equalExpr(a.Init, b.Init)
	case *CodeBlock:
		b, ok := b.(*CodeBlock)
		return ok && equalBlock(a, b)
	case *IfElse:
		b, ok := b.(*IfElse)
		return ok && equalExpr(a.Cond, b.Cond) && equalBlock(a.If, b.If) && equalBlock(a.Else, b.Else)
	case *Loop:
		b, ok := b.(*Loop)
		return ok && equalExpr(a.Cond, b.Cond) && equalBlock(a.Body, b.Body)
	case *Break:
		_, ok := b.(*Break)
		return ok
	case *Continue:
		_, ok := b.(*Continue)
		return ok
	case *Return:
		b, ok := b.(*Return)
		return ok && equalExpr(a.Value, b.Value)
	case *FunctionPrototype:
		b, ok := b.(*FunctionPrototype)
		return ok && equalPrototype(a, b)
	case *FunctionDefine:
		b, ok := b.(*FunctionDefine)
		return ok && equalPrototype(a.Prototype, b.Prototype) && equalBlock(a.Body, b.Body)
	case *Gap:
		_, ok := b.(*Gap)
		return ok
	default:
		panic("not implemented")
	}
}

func equalExpr(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(a, b)
}

func equalStmt(a, b Stmt) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(a, b)
}

func equalBlock(a, b *CodeBlock) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return slices.EqualFunc(a.Stmts, b.Stmts, equalStmt)
}

func equalPrototype(a, b *FunctionPrototype) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Name == b.Name &&
		a.ReturnType == b.ReturnType &&
		slices.Equal(a.Params, b.Params) &&
		slices.Equal(a.Attributes, b.Attributes)
}
