package driver

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/kievzenit/rblang/internal/ast"
	"github.com/kievzenit/rblang/internal/compiler_errors"
	"github.com/kievzenit/rblang/internal/lexer"
	"github.com/kievzenit/rblang/internal/parser"
	"github.com/kievzenit/rblang/internal/semantic_analyzer"
	"github.com/kievzenit/rblang/internal/source"
	"github.com/kievzenit/rblang/internal/symbols"
	"github.com/sanity-io/litter"
)

var ErrSyntax = errors.New("syntax errors")

var astDump = litter.Options{
	HidePrivateFields: true,
	FieldExclusions:   regexp.MustCompile(`^StartToken$`),
	Separator:         " ",
}

// Result is everything the front end hands to a code generator for one
// compilation unit. Root is set whenever parsing ran, even on failure.
type Result struct {
	Name        string
	Root        *ast.CodeBlock
	Context     *symbols.Context
	Resolutions map[*ast.FunctionCall]*ast.FunctionPrototype
}

// Pipeline runs the front end stages over a single unit. The zero value
// compiles without dumps.
type Pipeline struct {
	DumpTokens bool
	DumpAST    bool
	// Dumps go to Out; nil discards them.
	Out io.Writer
}

// Compile runs a default Pipeline.
func Compile(name string, r io.Reader, eh compiler_errors.ErrorHandler) (*Result, error) {
	return Pipeline{}.Compile(name, r, eh)
}

// Compile reads, parses and checks r. Checking is skipped when lexing or
// parsing reported anything.
func (p Pipeline) Compile(name string, r io.Reader, eh compiler_errors.ErrorHandler) (*Result, error) {
	out := p.Out
	if out == nil {
		out = io.Discard
	}

	tokens := lexer.NewLexer(source.NewReader(r), eh).Tokenize()
	if p.DumpTokens {
		for _, token := range tokens {
			fmt.Fprintln(out, token.String())
		}
	}

	ps := parser.NewParser(lexer.NewTokenScanner(tokens), eh)
	root := ps.Parse()
	if p.DumpAST {
		fmt.Fprintln(out, astDump.Sdump(root))
	}

	result := &Result{Name: name, Root: root}
	if ps.HasError() || eh.HasErrors() {
		return result, fmt.Errorf("%s: %w", name, ErrSyntax)
	}

	ctx := symbols.NewContext()
	analyzer := semantic_analyzer.NewSemanticAnalyzer(ctx, eh)
	if err := analyzer.Analyze(root); err != nil {
		return result, fmt.Errorf("%s: %w", name, err)
	}

	result.Context = ctx
	result.Resolutions = analyzer.Resolutions()
	return result, nil
}
