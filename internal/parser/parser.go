package parser

import (
	"slices"

	"github.com/kievzenit/rblang/internal/ast"
	"github.com/kievzenit/rblang/internal/compiler_errors"
	"github.com/kievzenit/rblang/internal/lexer"
)

// Parser builds the tree for one compilation unit. Syntax errors go to the
// error handler and the parser resynchronizes at the next ';', the matching
// '}' or ')', leaving an ast.Gap where the broken statement was.
type Parser struct {
	scanner lexer.TokenScanner
	eh      compiler_errors.ErrorHandler

	curr *lexer.Token

	hasError bool
}

func NewParser(scanner lexer.TokenScanner, eh compiler_errors.ErrorHandler) *Parser {
	return &Parser{
		scanner: scanner,
		eh:      eh,
		curr:    scanner.Read(),
	}
}

func (p *Parser) HasError() bool {
	return p.hasError
}

// Parse returns the root block. Tokens that cannot start a top level
// statement are skipped.
func (p *Parser) Parse() *ast.CodeBlock {
	root := &ast.CodeBlock{
		StartToken: p.curr,

		Stmts: make([]ast.Stmt, 0),
	}

	for p.curr.Kind != lexer.EOF {
		switch p.curr.Kind {
		case lexer.ATTR, lexer.FUNC, lexer.I64, lexer.F64, lexer.STR, lexer.IDENT:
			root.Stmts = append(root.Stmts, p.parseStmtOrGap(p.parseTopStmt))
		default:
			p.read()
		}
	}

	return root
}

func (p *Parser) parseTopStmt() ast.Stmt {
	switch p.curr.Kind {
	case lexer.ATTR:
		return stmtOrNil(p.parseAttributedFunction())
	case lexer.FUNC:
		return stmtOrNil(p.parseFunction(nil, nil))
	case lexer.I64, lexer.F64, lexer.STR:
		return stmtOrNil(p.parseVariableDefine())
	}

	return p.parseExprStmt()
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.curr.Kind {
	case lexer.I64, lexer.F64, lexer.STR:
		return stmtOrNil(p.parseVariableDefine())
	case lexer.IF:
		return stmtOrNil(p.parseIfElse())
	case lexer.LOOP:
		return stmtOrNil(p.parseLoop())
	case lexer.RETURN:
		return stmtOrNil(p.parseReturn())
	case lexer.BREAK:
		return stmtOrNil(p.parseBreak())
	case lexer.CONTINUE:
		return stmtOrNil(p.parseContinue())
	case lexer.LBRACE:
		return stmtOrNil(p.parseCodeBlock())
	case lexer.ATTR, lexer.FUNC:
		p.structureError(p.curr, "function definitions are only allowed at top level")
		if p.curr.Kind == lexer.ATTR {
			p.parseAttributedFunction()
		} else {
			p.parseFunction(nil, nil)
		}
		return nil
	}

	return p.parseExprStmt()
}

// parseStmtOrGap runs parse and replaces a failed statement with a Gap.
// It always consumes at least one token.
func (p *Parser) parseStmtOrGap(parse func() ast.Stmt) ast.Stmt {
	startToken := p.curr

	stmt := parse()
	if p.curr == startToken && p.curr.Kind != lexer.EOF {
		p.read()
	}

	if stmt == nil {
		return &ast.Gap{
			StartToken: startToken,

			Message: "malformed statement",
		}
	}

	return stmt
}

func (p *Parser) parseCodeBlock() *ast.CodeBlock {
	if !p.expect(lexer.LBRACE, p.skipBlock) {
		return nil
	}
	startToken := p.curr
	p.read()

	block := &ast.CodeBlock{
		StartToken: startToken,

		Stmts: make([]ast.Stmt, 0),
	}
	for p.curr.Kind != lexer.RBRACE && p.curr.Kind != lexer.EOF {
		block.Stmts = append(block.Stmts, p.parseStmtOrGap(p.parseStmt))
	}

	if p.expect(lexer.RBRACE, nil) {
		p.read()
	}

	return block
}

func (p *Parser) parseVariableDefine() *ast.VariableDefine {
	startToken := p.curr
	typeName := p.curr.Value
	p.read()

	if !p.expect(lexer.IDENT, p.skipLine) {
		return nil
	}
	name := p.curr.Value
	p.read()

	if !p.expectAny(p.skipLine, lexer.SEMICOLON, lexer.ASSIGN) {
		return nil
	}

	define := &ast.VariableDefine{
		StartToken: startToken,

		Type: typeName,
		Name: name,
	}

	if p.curr.Kind == lexer.SEMICOLON {
		p.read()
		return define
	}
	p.read()

	define.Init = p.parseExpr()
	if define.Init == nil {
		p.skipLine()
		return nil
	}

	if !p.expect(lexer.SEMICOLON, p.skipLine) {
		return nil
	}
	p.read()

	return define
}

func (p *Parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpr()
	if expr == nil {
		p.skipLine()
		return nil
	}

	if !p.expect(lexer.SEMICOLON, p.skipLine) {
		return nil
	}
	p.read()

	return expr
}

// parseIfElse handles "if" and, for chains, "elif". Both else forms are
// kept as an else block holding a single nested IfElse.
func (p *Parser) parseIfElse() *ast.IfElse {
	startToken := p.curr
	p.read()

	cond := p.parseExpr()
	if cond == nil {
		p.skipBlock()
		p.skipElse()
		return nil
	}

	if p.curr.Kind != lexer.LBRACE {
		p.unexpectedExpected(p.curr, lexer.LBRACE)
		p.skipBlock()
		p.skipElse()
		return nil
	}
	ifBlock := p.parseCodeBlock()

	ifElse := &ast.IfElse{
		StartToken: startToken,

		Cond: cond,
		If:   ifBlock,
	}

	switch p.curr.Kind {
	case lexer.ELIF:
		nested := p.parseIfElse()
		if nested == nil {
			return nil
		}
		ifElse.Else = wrapInBlock(nested)
	case lexer.ELSE:
		p.read()
		if p.curr.Kind == lexer.IF {
			nested := p.parseIfElse()
			if nested == nil {
				return nil
			}
			ifElse.Else = wrapInBlock(nested)
			break
		}

		ifElse.Else = p.parseCodeBlock()
		if ifElse.Else == nil {
			return nil
		}
	}

	return ifElse
}

func (p *Parser) skipElse() {
	if p.curr.Kind == lexer.ELSE || p.curr.Kind == lexer.ELIF {
		p.read()
		p.skipBlock()
		p.skipElse()
	}
}

func wrapInBlock(nested *ast.IfElse) *ast.CodeBlock {
	return &ast.CodeBlock{
		StartToken: nested.StartToken,

		Stmts: []ast.Stmt{nested},
	}
}

func (p *Parser) parseLoop() *ast.Loop {
	startToken := p.curr
	p.read()

	cond := p.parseExpr()
	if cond == nil {
		p.skipBlock()
		return nil
	}

	if p.curr.Kind != lexer.LBRACE {
		p.unexpectedExpected(p.curr, lexer.LBRACE)
		p.skipBlock()
		return nil
	}

	return &ast.Loop{
		StartToken: startToken,

		Cond: cond,
		Body: p.parseCodeBlock(),
	}
}

func (p *Parser) parseReturn() *ast.Return {
	startToken := p.curr
	p.read()

	value := p.parseExpr()
	if value == nil {
		p.skipLine()
		return nil
	}

	if !p.expect(lexer.SEMICOLON, p.skipLine) {
		return nil
	}
	p.read()

	return &ast.Return{
		StartToken: startToken,

		Value: value,
	}
}

func (p *Parser) parseBreak() *ast.Break {
	startToken := p.curr
	p.read()

	if !p.expect(lexer.SEMICOLON, p.skipLine) {
		return nil
	}
	p.read()

	return &ast.Break{
		StartToken: startToken,
	}
}

func (p *Parser) parseContinue() *ast.Continue {
	startToken := p.curr
	p.read()

	if !p.expect(lexer.SEMICOLON, p.skipLine) {
		return nil
	}
	p.read()

	return &ast.Continue{
		StartToken: startToken,
	}
}

func (p *Parser) parseAttributedFunction() *ast.FunctionDefine {
	startToken := p.curr

	attributes := make([]string, 0)
	for p.curr.Kind == lexer.ATTR {
		attributes = append(attributes, p.curr.Value)
		p.read()
	}

	if !p.expect(lexer.FUNC, p.skipLine) {
		return nil
	}

	return p.parseFunction(attributes, startToken)
}

func (p *Parser) parseFunction(attributes []string, startToken *lexer.Token) *ast.FunctionDefine {
	if startToken == nil {
		startToken = p.curr
	}

	prototype := p.parsePrototype(attributes)
	if prototype == nil {
		return nil
	}

	if prototype.IsImported() {
		switch p.curr.Kind {
		case lexer.SEMICOLON:
			p.read()
		case lexer.LBRACE:
			p.structureError(p.curr, "imported function '"+prototype.Name+"' cannot have a body")
			p.skipBlock()
			return nil
		default:
			p.unexpectedExpected(p.curr, lexer.SEMICOLON)
			p.skipLine()
			return nil
		}

		return &ast.FunctionDefine{
			StartToken: startToken,

			Prototype: prototype,
		}
	}

	switch p.curr.Kind {
	case lexer.LBRACE:
	case lexer.SEMICOLON:
		p.structureError(p.curr, "expected body of function '"+prototype.Name+"'")
		p.read()
		return nil
	default:
		p.unexpectedExpected(p.curr, lexer.LBRACE)
		p.skipBlock()
		return nil
	}

	return &ast.FunctionDefine{
		StartToken: startToken,

		Prototype: prototype,
		Body:      p.parseCodeBlock(),
	}
}

var parameterTypes = []lexer.TokenKind{lexer.I64, lexer.F64, lexer.STR}
var returnTypes = []lexer.TokenKind{lexer.I64, lexer.F64, lexer.STR, lexer.VOID}

func (p *Parser) parsePrototype(attributes []string) *ast.FunctionPrototype {
	prototype := &ast.FunctionPrototype{
		StartToken: p.curr,

		Attributes: attributes,
		Params:     make([]ast.FunctionParameter, 0),
	}

	resync := p.skipBlock
	if prototype.IsImported() {
		resync = p.skipLine
	}

	p.read()

	if !p.expectAny(resync, returnTypes...) {
		return nil
	}
	prototype.ReturnType = p.curr.Value
	p.read()

	if !p.expect(lexer.IDENT, resync) {
		return nil
	}
	prototype.Name = p.curr.Value
	p.read()

	if !p.expect(lexer.LPAREN, resync) {
		return nil
	}
	p.read()

	for p.curr.Kind != lexer.RPAREN {
		if !p.expectAny(resync, parameterTypes...) {
			return nil
		}
		paramType := p.curr.Value
		p.read()

		if !p.expect(lexer.IDENT, resync) {
			return nil
		}
		prototype.Params = append(prototype.Params, ast.FunctionParameter{
			Type: paramType,
			Name: p.curr.Value,
		})
		p.read()

		if !p.expectAny(resync, lexer.COMMA, lexer.RPAREN) {
			return nil
		}
		if p.curr.Kind == lexer.COMMA {
			p.read()
			if !p.expectAny(resync, parameterTypes...) {
				return nil
			}
		}
	}
	p.read()

	return prototype
}

func (p *Parser) read() *lexer.Token {
	p.curr = p.scanner.Read()
	return p.curr
}

// expect reports an error and runs resync when the current token is not of
// the given kind.
func (p *Parser) expect(kind lexer.TokenKind, resync func()) bool {
	if p.curr.Kind == kind {
		return true
	}

	p.unexpectedExpected(p.curr, kind)
	if resync != nil {
		resync()
	}

	return false
}

func (p *Parser) expectAny(resync func(), kinds ...lexer.TokenKind) bool {
	if p.isCurrAny(kinds...) {
		return true
	}

	p.addError(&UnexpectedExpectedManyError{
		Unexpected: p.curr,
		Expected:   kinds,

		Line:   p.curr.Line,
		Column: p.curr.Column,
	})
	if resync != nil {
		resync()
	}

	return false
}

func (p *Parser) isCurrAny(kinds ...lexer.TokenKind) bool {
	return slices.Contains(kinds, p.curr.Kind)
}

func (p *Parser) addError(err SyntaxError) {
	p.hasError = true
	p.eh.AddError(err)
}

func (p *Parser) unexpected(token *lexer.Token) {
	p.addError(&UnexpectedError{
		Unexpected: token,

		Line:   token.Line,
		Column: token.Column,
	})
}

func (p *Parser) unexpectedExpected(token *lexer.Token, expected lexer.TokenKind) {
	p.addError(&UnexpectedExpectedError{
		Unexpected: token,
		Expected:   expected,

		Line:   token.Line,
		Column: token.Column,
	})
}

func (p *Parser) structureError(token *lexer.Token, message string) {
	p.addError(&StructureError{
		Message: message,

		Line:   token.Line,
		Column: token.Column,
	})
}

// skipLine moves past the next ';'. It stops in front of a '}' so the
// enclosing block can still be closed.
func (p *Parser) skipLine() {
	for p.curr.Kind != lexer.EOF {
		switch p.curr.Kind {
		case lexer.SEMICOLON:
			p.read()
			return
		case lexer.RBRACE:
			return
		}
		p.read()
	}
}

// skipBlock moves past the '}' that closes the block the parser is in, or
// past the block that starts at the next '{'.
func (p *Parser) skipBlock() {
	depth := 0
	for p.curr.Kind != lexer.EOF {
		switch p.curr.Kind {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
			if depth <= 0 {
				p.read()
				return
			}
		}
		p.read()
	}
}

// skipUntilRParen moves past the ')' matching the innermost open '('. A
// ';', '}' or EOF ends the skip early.
func (p *Parser) skipUntilRParen() {
	depth := 0
	for p.curr.Kind != lexer.EOF {
		switch p.curr.Kind {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			if depth == 0 {
				p.read()
				return
			}
			depth--
		case lexer.SEMICOLON, lexer.RBRACE:
			return
		}
		p.read()
	}
}

// stmtOrNil keeps a nil node pointer from becoming a non-nil ast.Stmt.
func stmtOrNil[T interface {
	*E
	ast.Stmt
}, E any](node T) ast.Stmt {
	if node == nil {
		return nil
	}
	return node
}
