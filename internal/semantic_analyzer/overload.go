package semantic_analyzer

import (
	"github.com/kievzenit/rblang/internal/ast"
	"github.com/kievzenit/rblang/internal/types"
)

type candidate struct {
	prototype  *ast.FunctionPrototype
	paramTypes []types.Type
}

// analyzeFunctionCall checks the arguments left to right, then narrows the
// overload set of the callee: first by arity, then one argument position at
// a time by exact parameter type.
func (sa *SemanticAnalyzer) analyzeFunctionCall(call *ast.FunctionCall) (types.Type, *SemanticError) {
	overloads := sa.ctx.Functions(call.Callee)
	if len(overloads) == 0 {
		return nil, newSemanticError(UndefinedFunction, call, "undefined function '%s'", call.Callee)
	}

	argTypes := make([]types.Type, len(call.Args))
	for i, arg := range call.Args {
		argType, err := sa.analyzeExpr(arg)
		if err != nil {
			return nil, err
		}
		argTypes[i] = argType
	}

	candidates := make([]candidate, 0, len(overloads))
	for _, prototype := range overloads {
		if len(prototype.Params) != len(argTypes) {
			continue
		}

		c, err := sa.newCandidate(prototype)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return nil, newSemanticError(
			NoMatchingOverload,
			call,
			"no overload of '%s' takes %d argument(s)",
			call.Callee,
			len(argTypes),
		)
	}

	for i, argType := range argTypes {
		candidates = narrow(candidates, i, argType)
		if len(candidates) == 0 {
			return nil, newSemanticError(
				NoMatchingOverload,
				call,
				"no overload of '%s' accepts %s as argument %d",
				call.Callee,
				types.Name(argType),
				i+1,
			)
		}
	}

	// Unreachable while Context.AddFunction rejects identical signatures.
	if len(candidates) > 1 {
		return nil, newSemanticError(
			AmbiguousOverload,
			call,
			"call to '%s' is ambiguous between %d overloads",
			call.Callee,
			len(candidates),
		)
	}

	resolved := candidates[0].prototype
	sa.resolutions[call] = resolved

	returnType, err := sa.ctx.LookupType(resolved.ReturnType)
	if err != nil {
		return nil, fromSymbolError(err, call)
	}

	return returnType, nil
}

func (sa *SemanticAnalyzer) newCandidate(prototype *ast.FunctionPrototype) (candidate, *SemanticError) {
	paramTypes := make([]types.Type, len(prototype.Params))
	for i, param := range prototype.Params {
		paramType, err := sa.ctx.LookupType(param.Type)
		if err != nil {
			return candidate{}, fromSymbolError(err, prototype)
		}
		paramTypes[i] = paramType
	}

	return candidate{
		prototype:  prototype,
		paramTypes: paramTypes,
	}, nil
}

func narrow(candidates []candidate, position int, argType types.Type) []candidate {
	narrowed := candidates[:0]
	for _, c := range candidates {
		if c.paramTypes[position].SameAs(argType) {
			narrowed = append(narrowed, c)
		}
	}
	return narrowed
}
