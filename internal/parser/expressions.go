package parser

import (
	"strconv"
	"strings"

	"github.com/kievzenit/rblang/internal/ast"
	"github.com/kievzenit/rblang/internal/lexer"
)

var operatorPrecedence = map[lexer.TokenKind]int{
	lexer.ASSIGN:     1,
	lexer.OR:         2,
	lexer.AND:        3,
	lexer.EQ:         4,
	lexer.LT:         5,
	lexer.LEQ:        5,
	lexer.GT:         5,
	lexer.GEQ:        5,
	lexer.PLUS:       6,
	lexer.MINUS:      6,
	lexer.ASTERISK:   7,
	lexer.SLASH:      7,
	lexer.PERCENT:    7,
	lexer.NOT:        8,
	lexer.ADDRESS_OF: 8,
}

// Precedence returns the binding strength of an operator, -1 for anything
// that is not one.
func Precedence(kind lexer.TokenKind) int {
	if precedence, ok := operatorPrecedence[kind]; ok {
		return precedence
	}
	return -1
}

func binaryPrecedence(kind lexer.TokenKind) int {
	if kind == lexer.NOT || kind == lexer.ADDRESS_OF {
		return -1
	}
	return Precedence(kind)
}

func (p *Parser) parseExpr() ast.Expr {
	lhs := p.parsePrimary()
	if lhs == nil {
		return nil
	}

	return p.parseExprRhs(0, lhs)
}

// parseExprRhs folds binary operators onto lhs while they bind at least as
// tightly as minPrecedence. Operators of equal precedence associate to the
// left, except '=' which associates to the right.
func (p *Parser) parseExprRhs(minPrecedence int, lhs ast.Expr) ast.Expr {
	for {
		op := p.curr
		precedence := binaryPrecedence(op.Kind)
		if precedence < 0 || precedence < minPrecedence {
			return lhs
		}
		p.read()

		rhs := p.parsePrimary()
		if rhs == nil {
			return nil
		}

		nextPrecedence := binaryPrecedence(p.curr.Kind)
		switch {
		case precedence < nextPrecedence:
			rhs = p.parseExprRhs(precedence+1, rhs)
		case op.Kind == lexer.ASSIGN && nextPrecedence == precedence:
			rhs = p.parseExprRhs(precedence, rhs)
		}
		if rhs == nil {
			return nil
		}

		lhs = &ast.BinaryOp{
			StartToken: lhs.FirstToken(),

			Op:    op.Kind,
			Left:  lhs,
			Right: rhs,
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.curr.Kind {
	case lexer.IDENT:
		return p.parseIdentifier()
	case lexer.INT:
		return exprOrNil(p.parseIntLiteral())
	case lexer.FLOAT:
		return exprOrNil(p.parseFloatLiteral())
	case lexer.STRING:
		return p.parseStringLiteral()
	case lexer.LPAREN:
		return p.parseParenExpr()
	case lexer.NOT, lexer.ADDRESS_OF:
		return exprOrNil(p.parseUnaryOp())
	}

	p.unexpected(p.curr)
	return nil
}

// parseIdentifier returns either a plain reference or, when a '(' follows,
// a call.
func (p *Parser) parseIdentifier() ast.Expr {
	startToken := p.curr
	p.read()

	if p.curr.Kind != lexer.LPAREN {
		return &ast.Identifier{
			StartToken: startToken,

			Name: startToken.Value,
		}
	}
	p.read()

	call := &ast.FunctionCall{
		StartToken: startToken,

		Callee: startToken.Value,
	}

	for p.curr.Kind != lexer.RPAREN {
		arg := p.parseExpr()
		if arg == nil {
			p.skipUntilRParen()
			return nil
		}
		call.Args = append(call.Args, arg)

		if !p.expectAny(p.skipUntilRParen, lexer.COMMA, lexer.RPAREN) {
			return nil
		}
		if p.curr.Kind == lexer.COMMA {
			p.read()
			if p.curr.Kind == lexer.RPAREN {
				p.unexpected(p.curr)
				p.skipUntilRParen()
				return nil
			}
		}
	}
	p.read()

	return call
}

func (p *Parser) parseParenExpr() ast.Expr {
	p.read()

	expr := p.parseExpr()
	if expr == nil {
		p.skipUntilRParen()
		return nil
	}

	if !p.expect(lexer.RPAREN, p.skipUntilRParen) {
		return nil
	}
	p.read()

	return expr
}

func (p *Parser) parseUnaryOp() *ast.UnaryOp {
	op := p.curr
	p.read()

	operand := p.parsePrimary()
	if operand == nil {
		return nil
	}

	return &ast.UnaryOp{
		StartToken: op,

		Op:      op.Kind,
		Operand: operand,
	}
}

func (p *Parser) parseIntLiteral() *ast.IntLiteral {
	token := p.curr
	p.read()

	var (
		value int64
		err   error
	)
	if hex, ok := strings.CutPrefix(token.Value, "0x"); ok {
		value, err = strconv.ParseInt(hex, 16, 64)
	} else {
		value, err = strconv.ParseInt(token.Value, 10, 64)
	}
	if err != nil {
		p.malformedLiteral(token, err)
		return nil
	}

	return &ast.IntLiteral{
		StartToken: token,

		Value: value,
	}
}

func (p *Parser) parseFloatLiteral() *ast.FloatLiteral {
	token := p.curr
	p.read()

	value, err := strconv.ParseFloat(token.Value, 64)
	if err != nil {
		p.malformedLiteral(token, err)
		return nil
	}

	return &ast.FloatLiteral{
		StartToken: token,

		Value: value,
	}
}

func (p *Parser) parseStringLiteral() *ast.StringLiteral {
	token := p.curr
	p.read()

	return &ast.StringLiteral{
		StartToken: token,

		Value: strings.TrimSuffix(strings.TrimPrefix(token.Value, `"`), `"`),
	}
}

func (p *Parser) malformedLiteral(token *lexer.Token, err error) {
	reason := err.Error()
	if numErr, ok := err.(*strconv.NumError); ok {
		reason = numErr.Err.Error()
	}

	p.addError(&MalformedLiteralError{
		Literal: token,
		Reason:  reason,

		Line:   token.Line,
		Column: token.Column,
	})
}

func exprOrNil[T interface {
	*E
	ast.Expr
}, E any](node T) ast.Expr {
	if node == nil {
		return nil
	}
	return node
}
