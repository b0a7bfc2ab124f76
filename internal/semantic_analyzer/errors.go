package semantic_analyzer

import (
	"errors"
	"fmt"

	"github.com/kievzenit/rblang/internal/ast"
	"github.com/kievzenit/rblang/internal/symbols"
)

type ErrorKind int

const (
	UnknownType ErrorKind = iota
	UndefinedVariable
	UndefinedFunction
	TypeRedefinition
	VariableRedefinition
	FunctionRedefinition
	TypeMismatch
	InvalidAssignment
	UnexpectedReturn
	MissingReturn
	NotAllPathsReturn
	NoMatchingOverload
	AmbiguousOverload
	Unimplemented
	ControlOutsideLoop
	MalformedTree
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownType:
		return "UnknownType"
	case UndefinedVariable:
		return "UndefinedVariable"
	case UndefinedFunction:
		return "UndefinedFunction"
	case TypeRedefinition:
		return "TypeRedefinition"
	case VariableRedefinition:
		return "VariableRedefinition"
	case FunctionRedefinition:
		return "FunctionRedefinition"
	case TypeMismatch:
		return "TypeMismatch"
	case InvalidAssignment:
		return "InvalidAssignment"
	case UnexpectedReturn:
		return "UnexpectedReturn"
	case MissingReturn:
		return "MissingReturn"
	case NotAllPathsReturn:
		return "NotAllPathsReturn"
	case NoMatchingOverload:
		return "NoMatchingOverload"
	case AmbiguousOverload:
		return "AmbiguousOverload"
	case Unimplemented:
		return "Unimplemented"
	case ControlOutsideLoop:
		return "ControlOutsideLoop"
	case MalformedTree:
		return "MalformedTree"
	default:
		panic(fmt.Sprintf("ErrorKind.String(): received illegal error kind: %d", k))
	}
}

type SemanticError struct {
	Kind ErrorKind

	message string
	line    int
	column  int

	cause error
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("Line %d, %s", e.line, e.message)
}

func (e *SemanticError) GetMessage() string { return e.Error() }
func (e *SemanticError) GetLine() int       { return e.line }
func (e *SemanticError) GetColumn() int     { return e.column }
func (e *SemanticError) Unwrap() error      { return e.cause }

func newSemanticError(kind ErrorKind, node ast.AstNode, format string, args ...any) *SemanticError {
	err := &SemanticError{
		Kind:    kind,
		message: fmt.Sprintf(format, args...),
	}

	if node != nil {
		if token := node.FirstToken(); token != nil {
			err.line = token.Line
			err.column = token.Column
		}
	}

	return err
}

// fromSymbolError turns a Context failure into a positioned SemanticError,
// keeping the sentinel reachable through errors.Is.
func fromSymbolError(err error, node ast.AstNode) *SemanticError {
	kind := MalformedTree
	switch {
	case errors.Is(err, symbols.ErrUnknownType):
		kind = UnknownType
	case errors.Is(err, symbols.ErrUndefinedVariable):
		kind = UndefinedVariable
	case errors.Is(err, symbols.ErrVariableRedefined):
		kind = VariableRedefinition
	case errors.Is(err, symbols.ErrFunctionRedefined):
		kind = FunctionRedefinition
	case errors.Is(err, symbols.ErrTypeRedefined):
		kind = TypeRedefinition
	}

	semanticErr := newSemanticError(kind, node, "%s", err)
	semanticErr.cause = err
	return semanticErr
}

// KindOf returns the kind of the SemanticError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var semanticErr *SemanticError
	if errors.As(err, &semanticErr) {
		return semanticErr.Kind, true
	}
	return 0, false
}
