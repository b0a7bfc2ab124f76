package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kievzenit/rblang/internal/lexer"
)

var operatorSymbols = map[lexer.TokenKind]string{
	lexer.PLUS:       "+",
	lexer.MINUS:      "-",
	lexer.ASTERISK:   "*",
	lexer.SLASH:      "/",
	lexer.PERCENT:    "%",
	lexer.ASSIGN:     "=",
	lexer.EQ:         "==",
	lexer.LT:         "<",
	lexer.LEQ:        "<=",
	lexer.GT:         ">",
	lexer.GEQ:        ">=",
	lexer.AND:        "and",
	lexer.OR:         "or",
	lexer.NOT:        "not",
	lexer.ADDRESS_OF: "address_of",
}

func OperatorSymbol(op lexer.TokenKind) string {
	if symbol, ok := operatorSymbols[op]; ok {
		return symbol
	}
	return op.String()
}

// Print renders a node as a single line s-expression, e.g. "(+ a (* b c))".
func Print(node AstNode) string {
	var sb strings.Builder
	printNode(&sb, node)
	return sb.String()
}

func printNode(sb *strings.Builder, node AstNode) {
	switch n := node.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *IntLiteral:
		sb.WriteString(strconv.FormatInt(n.Value, 10))
	case *FloatLiteral:
		sb.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *StringLiteral:
		sb.WriteString(strconv.Quote(n.Value))
	case *Identifier:
		sb.WriteString(n.Name)
	case *UnaryOp:
		fmt.Fprintf(sb, "(%s ", OperatorSymbol(n.Op))
		printExpr(sb, n.Operand)
		sb.WriteByte(')')
	case *BinaryOp:
		fmt.Fprintf(sb, "(%s ", OperatorSymbol(n.Op))
		printExpr(sb, n.Left)
		sb.WriteByte(' ')
		printExpr(sb, n.Right)
		sb.WriteByte(')')
	case *FunctionCall:
		fmt.Fprintf(sb, "(call %s", n.Callee)
		for _, arg := range n.Args {
			sb.WriteByte(' ')
			printExpr(sb, arg)
		}
		sb.WriteByte(')')
	case *VariableDefine:
		fmt.Fprintf(sb, "(var %s %s", n.Type, n.Name)
		if n.Init != nil {
			sb.WriteByte(' ')
			printExpr(sb, n.Init)
		}
		sb.WriteByte(')')
	case *CodeBlock:
		printBlock(sb, n)
	case *IfElse:
		sb.WriteString("(if ")
		printExpr(sb, n.Cond)
		sb.WriteByte(' ')
		printBlock(sb, n.If)
		if n.Else != nil {
			sb.WriteByte(' ')
			printBlock(sb, n.Else)
		}
		sb.WriteByte(')')
	case *Loop:
		sb.WriteString("(loop ")
		printExpr(sb, n.Cond)
		sb.WriteByte(' ')
		printBlock(sb, n.Body)
		sb.WriteByte(')')
	case *Break:
		sb.WriteString("(break)")
	case *Continue:
		sb.WriteString("(continue)")
	case *Return:
		sb.WriteString("(return ")
		printExpr(sb, n.Value)
		sb.WriteByte(')')
	case *FunctionPrototype:
		printPrototype(sb, n)
	case *FunctionDefine:
		sb.WriteString("(func ")
		printPrototype(sb, n.Prototype)
		if n.Body != nil {
			sb.WriteByte(' ')
			printBlock(sb, n.Body)
		}
		sb.WriteByte(')')
	case *Gap:
		sb.WriteString("<gap>")
	default:
		panic("not implemented")
	}
}

func printExpr(sb *strings.Builder, expr Expr) {
	if expr == nil {
		sb.WriteString("<nil>")
		return
	}
	printNode(sb, expr)
}

func printBlock(sb *strings.Builder, block *CodeBlock) {
	if block == nil {
		sb.WriteString("<nil>")
		return
	}

	sb.WriteByte('{')
	for i, stmt := range block.Stmts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if stmt == nil {
			sb.WriteString("<nil>")
			continue
		}
		printNode(sb, stmt)
	}
	sb.WriteByte('}')
}

func printPrototype(sb *strings.Builder, proto *FunctionPrototype) {
	if proto == nil {
		sb.WriteString("<nil>")
		return
	}

	for _, attr := range proto.Attributes {
		sb.WriteString(attr)
		sb.WriteByte(' ')
	}
	fmt.Fprintf(sb, "%s %s(", proto.ReturnType, proto.Name)
	for i, param := range proto.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "%s %s", param.Type, param.Name)
	}
	sb.WriteByte(')')
}
