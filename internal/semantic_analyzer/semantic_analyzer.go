package semantic_analyzer

import (
	"github.com/kievzenit/rblang/internal/ast"
	"github.com/kievzenit/rblang/internal/compiler_errors"
	"github.com/kievzenit/rblang/internal/lexer"
	"github.com/kievzenit/rblang/internal/symbols"
	"github.com/kievzenit/rblang/internal/types"
)

type functionState struct {
	prototype  *ast.FunctionPrototype
	returnType types.Type
	sawReturn  bool
}

// SemanticAnalyzer walks a parsed unit, filling the Context and checking
// types, scopes, return paths and calls. The first violation stops it.
type SemanticAnalyzer struct {
	eh  compiler_errors.ErrorHandler
	ctx *symbols.Context

	function  *functionState
	loopDepth int

	resolutions map[*ast.FunctionCall]*ast.FunctionPrototype
}

func NewSemanticAnalyzer(ctx *symbols.Context, eh compiler_errors.ErrorHandler) *SemanticAnalyzer {
	return &SemanticAnalyzer{
		eh:  eh,
		ctx: ctx,

		resolutions: make(map[*ast.FunctionCall]*ast.FunctionPrototype),
	}
}

// Analyze checks the root block in the top level scope. The returned error,
// if any, is a *SemanticError and has also been handed to the error handler.
func (sa *SemanticAnalyzer) Analyze(root *ast.CodeBlock) error {
	for _, stmt := range root.Stmts {
		if _, err := sa.analyzeStmt(stmt); err != nil {
			sa.eh.AddError(err)
			return err
		}
	}

	return nil
}

func (sa *SemanticAnalyzer) Context() *symbols.Context {
	return sa.ctx
}

// Resolutions maps every checked call to the overload it resolved to.
func (sa *SemanticAnalyzer) Resolutions() map[*ast.FunctionCall]*ast.FunctionPrototype {
	return sa.resolutions
}

// analyzeStmt reports whether stmt is guaranteed to end in a return.
func (sa *SemanticAnalyzer) analyzeStmt(stmt ast.Stmt) (bool, *SemanticError) {
	switch s := stmt.(type) {
	case nil:
		return false, nil
	case *ast.VariableDefine:
		return false, sa.analyzeVariableDefine(s)
	case *ast.FunctionDefine:
		return false, sa.analyzeFunctionDefine(s)
	case *ast.CodeBlock:
		return sa.analyzeCodeBlock(s)
	case *ast.IfElse:
		return sa.analyzeIfElse(s)
	case *ast.Loop:
		return false, sa.analyzeLoop(s)
	case *ast.Break:
		return false, sa.analyzeLoopControl(s, "break")
	case *ast.Continue:
		return false, sa.analyzeLoopControl(s, "continue")
	case *ast.Return:
		return true, sa.analyzeReturn(s)
	case *ast.Gap:
		return false, newSemanticError(MalformedTree, s, "cannot check a malformed statement: %s", s.Message)
	case ast.Expr:
		_, err := sa.analyzeExpr(s)
		return false, err
	default:
		panic("not implemented")
	}
}

// analyzeCodeBlock checks the block in its own scope. A block terminates
// when any of its statements does.
func (sa *SemanticAnalyzer) analyzeCodeBlock(block *ast.CodeBlock) (bool, *SemanticError) {
	var (
		terminates  bool
		semanticErr *SemanticError
	)

	err := sa.ctx.WithScope(func() error {
		for _, stmt := range block.Stmts {
			stmtTerminates, err := sa.analyzeStmt(stmt)
			if err != nil {
				semanticErr = err
				return err
			}
			terminates = terminates || stmtTerminates
		}
		return nil
	})

	if semanticErr != nil {
		return false, semanticErr
	}
	if err != nil {
		return false, fromSymbolError(err, block)
	}

	return terminates, nil
}

func (sa *SemanticAnalyzer) analyzeVariableDefine(define *ast.VariableDefine) *SemanticError {
	declared, err := sa.ctx.LookupType(define.Type)
	if err != nil {
		return fromSymbolError(err, define)
	}
	if _, ok := declared.(*types.VoidType); ok {
		return newSemanticError(TypeMismatch, define, "variable '%s' cannot be void", define.Name)
	}

	if define.Init != nil {
		initType, semanticErr := sa.analyzeExpr(define.Init)
		if semanticErr != nil {
			return semanticErr
		}
		if !initType.SameAs(declared) {
			return newSemanticError(
				TypeMismatch,
				define.Init,
				"cannot initialize %s variable '%s' with a value of type %s",
				declared.Type(),
				define.Name,
				types.Name(initType),
			)
		}
	}

	if err := sa.ctx.AddVariable(define.Type, define.Name); err != nil {
		return fromSymbolError(err, define)
	}

	return nil
}

// analyzeFunctionDefine registers the prototype before the body is checked
// so the body can call the function itself.
func (sa *SemanticAnalyzer) analyzeFunctionDefine(define *ast.FunctionDefine) *SemanticError {
	prototype := define.Prototype

	returnType, err := sa.ctx.LookupType(prototype.ReturnType)
	if err != nil {
		return fromSymbolError(err, prototype)
	}

	for _, param := range prototype.Params {
		paramType, err := sa.ctx.LookupType(param.Type)
		if err != nil {
			return fromSymbolError(err, prototype)
		}
		if _, ok := paramType.(*types.VoidType); ok {
			return newSemanticError(TypeMismatch, prototype, "parameter '%s' of '%s' cannot be void", param.Name, prototype.Name)
		}
	}

	if err := sa.ctx.AddFunction(prototype); err != nil {
		return fromSymbolError(err, prototype)
	}

	if prototype.IsImported() {
		return nil
	}
	if define.Body == nil {
		return newSemanticError(MalformedTree, define, "function '%s' has no body", prototype.Name)
	}

	for _, param := range prototype.Params {
		sa.ctx.StageParameter(param)
	}

	outerFunction, outerLoopDepth := sa.function, sa.loopDepth
	sa.function = &functionState{
		prototype:  prototype,
		returnType: returnType,
	}
	sa.loopDepth = 0
	defer func() {
		sa.function, sa.loopDepth = outerFunction, outerLoopDepth
	}()

	terminates, semanticErr := sa.analyzeCodeBlock(define.Body)
	if semanticErr != nil {
		return semanticErr
	}

	if _, ok := returnType.(*types.VoidType); ok {
		return nil
	}
	if !sa.function.sawReturn {
		return newSemanticError(MissingReturn, define, "function '%s' must return %s", prototype.Name, returnType.Type())
	}
	if !terminates {
		return newSemanticError(NotAllPathsReturn, define, "not all paths of function '%s' return a value", prototype.Name)
	}

	return nil
}

// analyzeIfElse terminates only when both branches exist and terminate.
func (sa *SemanticAnalyzer) analyzeIfElse(ifElse *ast.IfElse) (bool, *SemanticError) {
	if err := sa.analyzeCondition(ifElse.Cond, "if"); err != nil {
		return false, err
	}

	ifTerminates, err := sa.analyzeCodeBlock(ifElse.If)
	if err != nil {
		return false, err
	}

	if ifElse.Else == nil {
		return false, nil
	}

	elseTerminates, err := sa.analyzeCodeBlock(ifElse.Else)
	if err != nil {
		return false, err
	}

	return ifTerminates && elseTerminates, nil
}

// analyzeLoop never terminates: the body may run zero times.
func (sa *SemanticAnalyzer) analyzeLoop(loop *ast.Loop) *SemanticError {
	if err := sa.analyzeCondition(loop.Cond, "loop"); err != nil {
		return err
	}

	sa.loopDepth++
	defer func() { sa.loopDepth-- }()

	_, err := sa.analyzeCodeBlock(loop.Body)
	return err
}

func (sa *SemanticAnalyzer) analyzeLoopControl(stmt ast.Stmt, keyword string) *SemanticError {
	if sa.loopDepth == 0 {
		return newSemanticError(ControlOutsideLoop, stmt, "'%s' outside of a loop", keyword)
	}
	return nil
}

func (sa *SemanticAnalyzer) analyzeReturn(ret *ast.Return) *SemanticError {
	if sa.function == nil {
		return newSemanticError(UnexpectedReturn, ret, "return outside of a function")
	}

	prototype := sa.function.prototype
	if _, ok := sa.function.returnType.(*types.VoidType); ok {
		return newSemanticError(UnexpectedReturn, ret, "function '%s' returns void and cannot return a value", prototype.Name)
	}

	if ret.Value == nil {
		return newSemanticError(TypeMismatch, ret, "function '%s' must return %s", prototype.Name, sa.function.returnType.Type())
	}

	valueType, err := sa.analyzeExpr(ret.Value)
	if err != nil {
		return err
	}
	if !valueType.SameAs(sa.function.returnType) {
		return newSemanticError(
			TypeMismatch,
			ret,
			"cannot return %s from function '%s' returning %s",
			types.Name(valueType),
			prototype.Name,
			sa.function.returnType.Type(),
		)
	}

	sa.function.sawReturn = true
	return nil
}

// analyzeCondition requires an i64 condition; there is no boolean type.
func (sa *SemanticAnalyzer) analyzeCondition(cond ast.Expr, keyword string) *SemanticError {
	condType, err := sa.analyzeExpr(cond)
	if err != nil {
		return err
	}

	if !condType.SameAs(sa.i64()) {
		return newSemanticError(TypeMismatch, cond, "%s condition must be i64, got %s", keyword, types.Name(condType))
	}

	return nil
}

func (sa *SemanticAnalyzer) analyzeExpr(expr ast.Expr) (types.Type, *SemanticError) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return sa.i64(), nil
	case *ast.FloatLiteral:
		return sa.builtin("f64"), nil
	case *ast.StringLiteral:
		return sa.builtin("str"), nil
	case *ast.Identifier:
		return sa.analyzeIdentifier(e)
	case *ast.UnaryOp:
		return sa.analyzeUnaryOp(e)
	case *ast.BinaryOp:
		return sa.analyzeBinaryOp(e)
	case *ast.FunctionCall:
		return sa.analyzeFunctionCall(e)
	default:
		panic("not implemented")
	}
}

func (sa *SemanticAnalyzer) analyzeIdentifier(ident *ast.Identifier) (types.Type, *SemanticError) {
	typeName, err := sa.ctx.VariableType(ident.Name)
	if err != nil {
		return nil, fromSymbolError(err, ident)
	}

	t, err := sa.ctx.LookupType(typeName)
	if err != nil {
		return nil, fromSymbolError(err, ident)
	}

	return t, nil
}

func (sa *SemanticAnalyzer) analyzeUnaryOp(unary *ast.UnaryOp) (types.Type, *SemanticError) {
	operandType, err := sa.analyzeExpr(unary.Operand)
	if err != nil {
		return nil, err
	}

	switch unary.Op {
	case lexer.NOT:
		if !operandType.SameAs(sa.i64()) {
			return nil, newSemanticError(TypeMismatch, unary, "operand of 'not' must be i64, got %s", types.Name(operandType))
		}
		return sa.i64(), nil
	case lexer.ADDRESS_OF:
		return nil, newSemanticError(Unimplemented, unary, "'address_of' is not implemented")
	}

	return nil, newSemanticError(MalformedTree, unary, "'%s' is not a unary operator", ast.OperatorSymbol(unary.Op))
}

func (sa *SemanticAnalyzer) analyzeBinaryOp(binary *ast.BinaryOp) (types.Type, *SemanticError) {
	if binary.Op == lexer.ASSIGN {
		return sa.analyzeAssignment(binary)
	}

	leftType, err := sa.analyzeExpr(binary.Left)
	if err != nil {
		return nil, err
	}
	rightType, err := sa.analyzeExpr(binary.Right)
	if err != nil {
		return nil, err
	}

	symbol := ast.OperatorSymbol(binary.Op)
	if _, ok := leftType.(*types.VoidType); ok {
		return nil, newSemanticError(TypeMismatch, binary, "operands of '%s' cannot be void", symbol)
	}
	if !leftType.SameAs(rightType) {
		return nil, newSemanticError(
			TypeMismatch,
			binary,
			"operands of '%s' have different types: %s and %s",
			symbol,
			leftType.Type(),
			types.Name(rightType),
		)
	}

	switch binary.Op {
	case lexer.AND, lexer.OR:
		if !leftType.SameAs(sa.i64()) {
			return nil, newSemanticError(TypeMismatch, binary, "operands of '%s' must be i64, got %s", symbol, leftType.Type())
		}
		return sa.i64(), nil
	case lexer.EQ, lexer.LT, lexer.LEQ, lexer.GT, lexer.GEQ:
		return sa.i64(), nil
	case lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.PERCENT:
		return leftType, nil
	}

	return nil, newSemanticError(MalformedTree, binary, "'%s' is not a binary operator", symbol)
}

func (sa *SemanticAnalyzer) analyzeAssignment(assign *ast.BinaryOp) (types.Type, *SemanticError) {
	target, ok := assign.Left.(*ast.Identifier)
	if !ok {
		return nil, newSemanticError(InvalidAssignment, assign, "left side of '=' must be a variable")
	}

	targetType, err := sa.analyzeIdentifier(target)
	if err != nil {
		return nil, err
	}
	valueType, err := sa.analyzeExpr(assign.Right)
	if err != nil {
		return nil, err
	}

	if !valueType.SameAs(targetType) {
		return nil, newSemanticError(
			TypeMismatch,
			assign,
			"cannot assign a value of type %s to %s variable '%s'",
			types.Name(valueType),
			targetType.Type(),
			target.Name,
		)
	}

	return targetType, nil
}

func (sa *SemanticAnalyzer) i64() types.Type {
	return sa.builtin("i64")
}

func (sa *SemanticAnalyzer) builtin(name string) types.Type {
	t, err := sa.ctx.LookupType(name)
	if err != nil {
		panic(err)
	}
	return t
}
