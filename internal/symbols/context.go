package symbols

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kievzenit/rblang/internal/ast"
	"github.com/kievzenit/rblang/internal/types"
)

var (
	ErrUnknownType       = errors.New("unknown type")
	ErrTypeRedefined     = errors.New("type redefinition")
	ErrVariableRedefined = errors.New("variable redefinition")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrFunctionRedefined = errors.New("function redefinition")
)

type scope struct {
	variables map[string]map[string]struct{}
	names     map[string]struct{}
}

func newScope() *scope {
	return &scope{
		variables: make(map[string]map[string]struct{}),
		names:     make(map[string]struct{}),
	}
}

func (s *scope) typeOf(name string) (string, bool) {
	if _, ok := s.names[name]; !ok {
		return "", false
	}

	for typeName, names := range s.variables {
		if _, ok := names[name]; ok {
			return typeName, true
		}
	}

	return "", false
}

// Context holds the symbols of one compilation unit: the type table, the
// stack of variable scopes and the function overload sets. The outermost
// scope lives as long as the Context.
type Context struct {
	types     map[string]types.Type
	scopes    []*scope
	functions map[string][]*ast.FunctionPrototype

	pending []ast.FunctionParameter
}

func NewContext() *Context {
	c := &Context{
		types:     make(map[string]types.Type),
		scopes:    []*scope{newScope()},
		functions: make(map[string][]*ast.FunctionPrototype),
	}
	c.defineBuiltInTypes()

	return c
}

func (c *Context) defineBuiltInTypes() {
	c.types["i64"] = &types.IntType{
		Signed: true,
		Bits:   64,
	}
	c.types["f64"] = &types.FloatType{
		Bits: 64,
	}
	c.types["str"] = &types.StringType{}
	c.types["void"] = &types.VoidType{}
}

func (c *Context) AddType(name string, t types.Type) error {
	if _, ok := c.types[name]; ok {
		return fmt.Errorf("%w: %s", ErrTypeRedefined, name)
	}

	c.types[name] = t
	return nil
}

func (c *Context) HasType(name string) bool {
	_, ok := c.types[name]
	return ok
}

func (c *Context) LookupType(name string) (types.Type, error) {
	t, ok := c.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}

	return t, nil
}

// Types returns a copy of the type table.
func (c *Context) Types() map[string]types.Type {
	return maps.Clone(c.types)
}

// PushScope opens a new innermost scope and moves every staged parameter
// into it. The scope is pushed even when a parameter is rejected, so a
// deferred PopScope always balances the call.
func (c *Context) PushScope() error {
	c.scopes = append(c.scopes, newScope())

	pending := c.pending
	c.pending = nil

	var errs []error
	for _, param := range pending {
		if err := c.AddVariable(param.Type, param.Name); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// PopScope drops the innermost scope. Popping the outermost scope is a bug
// in the caller and panics.
func (c *Context) PopScope() {
	if c.IsTopScope() {
		panic("symbols: cannot pop the top level scope")
	}

	c.scopes[len(c.scopes)-1] = nil
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// WithScope runs fn inside a fresh scope that is popped however fn returns.
func (c *Context) WithScope(fn func() error) error {
	err := c.PushScope()
	defer c.PopScope()

	if err != nil {
		return err
	}

	return fn()
}

func (c *Context) IsTopScope() bool {
	return len(c.scopes) == 1
}

func (c *Context) ScopeDepth() int {
	return len(c.scopes)
}

func (c *Context) current() *scope {
	return c.scopes[len(c.scopes)-1]
}

// AddVariable declares name in the innermost scope. Only that scope is
// checked for redefinition, so shadowing an outer name is allowed.
func (c *Context) AddVariable(typeName, name string) error {
	if !c.HasType(typeName) {
		return fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}

	s := c.current()
	if _, ok := s.names[name]; ok {
		return fmt.Errorf("%w: %s", ErrVariableRedefined, name)
	}

	names, ok := s.variables[typeName]
	if !ok {
		names = make(map[string]struct{})
		s.variables[typeName] = names
	}
	names[name] = struct{}{}
	s.names[name] = struct{}{}

	return nil
}

func (c *Context) HasVariable(name string) bool {
	_, err := c.VariableType(name)
	return err == nil
}

// VariableType resolves name from the innermost scope outwards.
func (c *Context) VariableType(name string) (string, error) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if typeName, ok := c.scopes[i].typeOf(name); ok {
			return typeName, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUndefinedVariable, name)
}

// StageParameter queues a parameter for the next PushScope.
func (c *Context) StageParameter(param ast.FunctionParameter) {
	c.pending = append(c.pending, param)
}

func (c *Context) PendingParameters() []ast.FunctionParameter {
	return slices.Clone(c.pending)
}

// AddFunction registers an overload. A prototype with the same name and the
// same parameter types as a registered one is rejected.
func (c *Context) AddFunction(proto *ast.FunctionPrototype) error {
	paramTypes := proto.ParamTypes()
	for _, registered := range c.functions[proto.Name] {
		if slices.Equal(registered.ParamTypes(), paramTypes) {
			return fmt.Errorf("%w: %s(%s)", ErrFunctionRedefined, proto.Name, strings.Join(paramTypes, ", "))
		}
	}

	c.functions[proto.Name] = append(c.functions[proto.Name], proto)
	return nil
}

func (c *Context) HasFunction(name string) bool {
	return len(c.functions[name]) > 0
}

// Functions returns the overload set for name in registration order.
func (c *Context) Functions(name string) []*ast.FunctionPrototype {
	return slices.Clone(c.functions[name])
}

func (c *Context) FunctionNames() []string {
	return slices.Sorted(maps.Keys(c.functions))
}
