package semantic_analyzer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kievzenit/rblang/internal/ast"
	"github.com/kievzenit/rblang/internal/compiler_errors"
	"github.com/kievzenit/rblang/internal/lexer"
	"github.com/kievzenit/rblang/internal/parser"
	"github.com/kievzenit/rblang/internal/source"
	"github.com/kievzenit/rblang/internal/symbols"
)

func parseFrom(t *testing.T, src string) *ast.CodeBlock {
	t.Helper()

	var out bytes.Buffer
	eh := compiler_errors.NewErrorHandler(&out)
	tokens := lexer.NewLexer(source.NewReader(strings.NewReader(src)), eh).Tokenize()
	p := parser.NewParser(lexer.NewTokenScanner(tokens), eh)
	root := p.Parse()
	if p.HasError() {
		eh.Report()
		t.Fatalf("Parse failed:\n%s", out.String())
	}

	return root
}

func checkerFrom(t *testing.T, src string) (*SemanticAnalyzer, error) {
	t.Helper()

	root := parseFrom(t, src)
	sa := NewSemanticAnalyzer(symbols.NewContext(), compiler_errors.NewErrorHandler(&bytes.Buffer{}))
	return sa, sa.Analyze(root)
}

const fibSource = `
func i64 fib(i64 n) {
	if (n == 1) {
		return 1;
	}
	return n * fib(n - 1);
}
fib(10);
`

func TestAnalyzeValid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"fib", fibSource},
		{
			name: "shadowing in nested block",
			src:  "func void f() { f64 x; { i64 x; x = 1; } x = 1.5; }",
		},
		{
			name: "shadowing a global",
			src:  "f64 x = 1.0;\nfunc void f() { i64 x = 2; }",
		},
		{
			name: "returns on every top level path",
			src:  "func i64 f(i64 a) { if a { return 1; } return 2; }",
		},
		{
			name: "returns in both branches",
			src:  "func i64 f(i64 a) { if a == 1 { return 1; } else { return 2; } }",
		},
		{
			name: "returns in every elif branch",
			src:  "func i64 f(i64 a) { if a == 1 { return 1; } elif a == 2 { return 2; } else { return 3; } }",
		},
		{
			name: "return in nested block",
			src:  "func str f() { { return \"x\"; } }",
		},
		{
			name: "overloads by arity",
			src:  "func i64 f(i64 a) { return a; }\nfunc i64 f(i64 a, i64 b) { return a + b; }\ni64 x = f(1) + f(1, 2);",
		},
		{
			name: "comparisons yield i64",
			src:  "f64 a = 1.0;\ni64 b = a < 2.0;\ni64 c = \"x\" == \"y\";",
		},
		{
			name: "logical operators",
			src:  "i64 a = 1;\ni64 b = not a and a or 0;",
		},
		{
			name: "chained assignment",
			src:  "i64 a;\ni64 b;\na = b = 3;",
		},
		{
			name: "loop with break and continue",
			src:  "func void f(i64 n) { loop n > 0 { n = n - 1; if n == 5 { continue; } if n == 2 { break; } } }",
		},
		{
			name: "void function call statement",
			src:  "@import func void WriteLine(str s);\nfunc void greet() { WriteLine(\"hi\"); }\ngreet();",
		},
		{
			name: "same parameter names in different functions",
			src:  "func i64 f(i64 a) { return a; }\nfunc i64 g(i64 a) { return a; }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sa, err := checkerFrom(t, tt.src)
			if err != nil {
				t.Fatalf("Analyze() = %v, want success", err)
			}
			if !sa.Context().IsTopScope() {
				t.Errorf("scope depth %d after Analyze, want 1", sa.Context().ScopeDepth())
			}
		})
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantKind ErrorKind
		wantLine int
	}{
		{
			name:     "redefinition in the same block",
			src:      "func void f() {\n\ti64 x;\n\ti64 x;\n}",
			wantKind: VariableRedefinition,
			wantLine: 3,
		},
		{
			name:     "global redefinition",
			src:      "i64 x;\nf64 x;",
			wantKind: VariableRedefinition,
			wantLine: 2,
		},
		{
			name:     "no return at all",
			src:      "func i64 f() {\n\ti64 x = 1;\n}",
			wantKind: MissingReturn,
			wantLine: 1,
		},
		{
			name:     "return only inside if",
			src:      "func i64 f(i64 a) { if a { return 1; } }",
			wantKind: NotAllPathsReturn,
			wantLine: 1,
		},
		{
			name:     "return only inside loop",
			src:      "func i64 f() { loop 1 { return 1; } }",
			wantKind: NotAllPathsReturn,
			wantLine: 1,
		},
		{
			name:     "return from void function",
			src:      "func void f() {\n\treturn 1;\n}",
			wantKind: UnexpectedReturn,
			wantLine: 2,
		},
		{
			name:     "wrong return type",
			src:      "func i64 f() { return 1.5; }",
			wantKind: TypeMismatch,
			wantLine: 1,
		},
		{
			name:     "initializer type",
			src:      "i64 x = 1.5;",
			wantKind: TypeMismatch,
			wantLine: 1,
		},
		{
			name:     "initializer refers to itself",
			src:      "i64 x = x;",
			wantKind: UndefinedVariable,
			wantLine: 1,
		},
		{
			name:     "undefined variable",
			src:      "func void f() {\n\tx = 1;\n}",
			wantKind: UndefinedVariable,
			wantLine: 2,
		},
		{
			name:     "undefined function",
			src:      "g(1);",
			wantKind: UndefinedFunction,
			wantLine: 1,
		},
		{
			name:     "float condition",
			src:      "func void f() { if 1.5 { } }",
			wantKind: TypeMismatch,
			wantLine: 1,
		},
		{
			name:     "string loop condition",
			src:      "func void f() { loop \"x\" { } }",
			wantKind: TypeMismatch,
			wantLine: 1,
		},
		{
			name:     "not on float",
			src:      "f64 y = 1.0;\ni64 x = not y;",
			wantKind: TypeMismatch,
			wantLine: 2,
		},
		{
			name:     "address_of",
			src:      "str s = \"a\";\ni64 x = not address_of s;",
			wantKind: Unimplemented,
			wantLine: 2,
		},
		{
			name:     "mixed operands",
			src:      "i64 x = 1 + 1.5;",
			wantKind: TypeMismatch,
			wantLine: 1,
		},
		{
			name:     "logical operator on strings",
			src:      "i64 x = \"a\" and \"b\";",
			wantKind: TypeMismatch,
			wantLine: 1,
		},
		{
			name:     "assignment to expression",
			src:      "i64 x;\nx + 1 = 2;",
			wantKind: InvalidAssignment,
			wantLine: 2,
		},
		{
			name:     "assignment type",
			src:      "str s;\ns = 1;",
			wantKind: TypeMismatch,
			wantLine: 2,
		},
		{
			name:     "break outside loop",
			src:      "func void f() { break; }",
			wantKind: ControlOutsideLoop,
			wantLine: 1,
		},
		{
			name:     "continue after the loop",
			src:      "func void f() { loop 1 { } continue; }",
			wantKind: ControlOutsideLoop,
			wantLine: 1,
		},
		{
			name:     "function redefinition",
			src:      "func void f(i64 a) { }\nfunc i64 f(i64 b) { return b; }",
			wantKind: FunctionRedefinition,
			wantLine: 2,
		},
		{
			name:     "duplicate parameters",
			src:      "func void f(i64 a, str a) { }",
			wantKind: VariableRedefinition,
			wantLine: 1,
		},
		{
			name:     "parameters are local to the body",
			src:      "func void f(i64 a) { }\ni64 b = a;",
			wantKind: UndefinedVariable,
			wantLine: 2,
		},
		{
			name:     "imported parameters are never declared",
			src:      "@import func void WriteLine(str s);\nstr t = s;",
			wantKind: UndefinedVariable,
			wantLine: 2,
		},
		{
			name:     "block locals do not leak",
			src:      "func void f() { { i64 inner; } inner = 1; }",
			wantKind: UndefinedVariable,
			wantLine: 1,
		},
		{
			name:     "void value",
			src:      "@import func void w();\ni64 x = w();",
			wantKind: TypeMismatch,
			wantLine: 2,
		},
		{
			name:     "wrong arity",
			src:      "@import func void f(i64 a);\n@import func void f(str s);\nf(\"s\", 1);",
			wantKind: NoMatchingOverload,
			wantLine: 3,
		},
		{
			name:     "no overload for argument type",
			src:      "@import func void f(i64 a);\nf(1.5);",
			wantKind: NoMatchingOverload,
			wantLine: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sa, err := checkerFrom(t, tt.src)
			if err == nil {
				t.Fatal("Analyze() = nil, want error")
			}

			var semanticErr *SemanticError
			if !errors.As(err, &semanticErr) {
				t.Fatalf("Analyze() error %T is not a *SemanticError", err)
			}
			if semanticErr.Kind != tt.wantKind {
				t.Errorf("error kind = %s (%v), want %s", semanticErr.Kind, err, tt.wantKind)
			}
			if semanticErr.GetLine() != tt.wantLine {
				t.Errorf("error line = %d (%v), want %d", semanticErr.GetLine(), err, tt.wantLine)
			}
			if !sa.Context().IsTopScope() {
				t.Errorf("scope depth %d after failed Analyze, want 1", sa.Context().ScopeDepth())
			}
		})
	}
}

func TestOverloadNarrowing(t *testing.T) {
	root := parseFrom(t, "@import func void f(i64 a);\n@import func void f(str s);\nf(10);\nf(\"s\");")
	sa := NewSemanticAnalyzer(symbols.NewContext(), compiler_errors.NewErrorHandler(&bytes.Buffer{}))
	if err := sa.Analyze(root); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	tests := []struct {
		stmt      int
		wantParam string
	}{
		{2, "i64"},
		{3, "str"},
	}

	for _, tt := range tests {
		call := root.Stmts[tt.stmt].(*ast.FunctionCall)
		resolved, ok := sa.Resolutions()[call]
		if !ok {
			t.Fatalf("call %s was not resolved", ast.Print(call))
		}
		if got := resolved.Params[0].Type; got != tt.wantParam {
			t.Errorf("%s resolved to f(%s), want f(%s)", ast.Print(call), got, tt.wantParam)
		}
	}
}

func TestRecursiveCallResolvesToItself(t *testing.T) {
	root := parseFrom(t, fibSource)
	sa := NewSemanticAnalyzer(symbols.NewContext(), compiler_errors.NewErrorHandler(&bytes.Buffer{}))
	if err := sa.Analyze(root); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	fib := root.Stmts[0].(*ast.FunctionDefine)
	ret := fib.Body.Stmts[1].(*ast.Return)
	inner := ret.Value.(*ast.BinaryOp).Right.(*ast.FunctionCall)
	outer := root.Stmts[1].(*ast.FunctionCall)

	for _, call := range []*ast.FunctionCall{inner, outer} {
		if got := sa.Resolutions()[call]; got != fib.Prototype {
			t.Errorf("%s resolved to %p, want fib prototype %p", ast.Print(call), got, fib.Prototype)
		}
	}
	if got := len(sa.Context().Functions("fib")); got != 1 {
		t.Errorf("fib has %d overloads, want 1", got)
	}
}

func TestImportRegistersPrototype(t *testing.T) {
	sa, err := checkerFrom(t, "@import func void WriteLine(str s);")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	overloads := sa.Context().Functions("WriteLine")
	if len(overloads) != 1 || !overloads[0].IsImported() {
		t.Fatalf("Functions(WriteLine) = %v, want one imported prototype", overloads)
	}
	if pending := sa.Context().PendingParameters(); len(pending) != 0 {
		t.Errorf("PendingParameters() = %v after import, want none", pending)
	}
}

func TestSymbolErrorsUnwrap(t *testing.T) {
	_, err := checkerFrom(t, "i64 x;\ni64 x;")
	if !errors.Is(err, symbols.ErrVariableRedefined) {
		t.Errorf("errors.Is(%v, ErrVariableRedefined) = false", err)
	}
	if kind, ok := KindOf(err); !ok || kind != VariableRedefinition {
		t.Errorf("KindOf(%v) = %s, %v", err, kind, ok)
	}
}

func TestUnknownType(t *testing.T) {
	root := &ast.CodeBlock{Stmts: []ast.Stmt{
		&ast.VariableDefine{Type: "bool", Name: "b"},
	}}

	err := NewSemanticAnalyzer(symbols.NewContext(), compiler_errors.NewErrorHandler(&bytes.Buffer{})).Analyze(root)
	if kind, _ := KindOf(err); kind != UnknownType {
		t.Errorf("Analyze() = %v, want UnknownType", err)
	}
	if !errors.Is(err, symbols.ErrUnknownType) {
		t.Errorf("errors.Is(%v, ErrUnknownType) = false", err)
	}
}

func TestTopLevelReturn(t *testing.T) {
	root := &ast.CodeBlock{Stmts: []ast.Stmt{
		&ast.Return{Value: &ast.IntLiteral{Value: 1}},
	}}

	err := NewSemanticAnalyzer(symbols.NewContext(), compiler_errors.NewErrorHandler(&bytes.Buffer{})).Analyze(root)
	if kind, _ := KindOf(err); kind != UnexpectedReturn {
		t.Errorf("Analyze() = %v, want UnexpectedReturn", err)
	}
}

func TestGapIsRejected(t *testing.T) {
	root := &ast.CodeBlock{Stmts: []ast.Stmt{&ast.Gap{Message: "malformed statement"}}}

	err := NewSemanticAnalyzer(symbols.NewContext(), compiler_errors.NewErrorHandler(&bytes.Buffer{})).Analyze(root)
	if kind, _ := KindOf(err); kind != MalformedTree {
		t.Errorf("Analyze() = %v, want MalformedTree", err)
	}
}

func TestFirstErrorIsReported(t *testing.T) {
	var out bytes.Buffer
	eh := compiler_errors.NewErrorHandler(&out)
	sa := NewSemanticAnalyzer(symbols.NewContext(), eh)

	err := sa.Analyze(parseFrom(t, "i64 a = 1.5;\ni64 b = c;"))
	if err == nil {
		t.Fatal("Analyze() = nil, want error")
	}

	if got := len(eh.Errors()); got != 1 {
		t.Fatalf("handler has %d errors, want 1", got)
	}
	eh.Report()
	want := "Build failed with errors:\nERROR: Line 1, cannot initialize i64 variable 'a' with a value of type f64\n"
	if out.String() != want {
		t.Errorf("Report() wrote %q, want %q", out.String(), want)
	}
}
