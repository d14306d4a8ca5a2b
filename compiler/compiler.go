package compiler

import (
	"context"
	"io"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/ast"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/cfg"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/interp"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/parse"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/sema"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/tac"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/token"
)

// Tokenize splits source text into tokens, the EOF sentinel last.
func Tokenize(ctx context.Context, text []byte) (toks []token.Token, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "tokenize", "size", len(text))
	defer tr.Finish("err", &err)

	return token.Tokenize(ctx, text)
}

// Parse tokenizes and parses source text.
func Parse(ctx context.Context, text []byte) (prog *ast.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse", "size", len(text))
	defer tr.Finish("err", &err)

	toks, err := token.Tokenize(ctx, text)
	if err != nil {
		return nil, err
	}

	return parse.Parse(ctx, toks)
}

// ParseFile reads and parses one source file.
func ParseFile(ctx context.Context, name string) (prog *ast.Program, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Parse(ctx, text)
}

// Analyze validates the tree. It must succeed before LowerTAC or Run
// is called on it.
func Analyze(ctx context.Context, prog *ast.Program) (info *sema.Info, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "analyze", "funcs", len(prog.Decls))
	defer tr.Finish("err", &err)

	return sema.Analyze(ctx, prog)
}

// LowerTAC lowers an analyzed tree to three address code.
func LowerTAC(ctx context.Context, prog *ast.Program) (p *tac.Program, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "lower tac", "funcs", len(prog.Decls))
	defer tr.Finish("err", &err)

	return tac.Lower(ctx, prog)
}

// BuildCFG builds one basic block graph per lowered function.
func BuildCFG(ctx context.Context, p *tac.Program) []*cfg.Graph {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "build cfg", "funcs", len(p.Funcs))
	defer tr.Finish()

	return cfg.BuildProgram(ctx, p)
}

// LowerFile reads, parses, analyzes and lowers one source file.
func LowerFile(ctx context.Context, name string) (p *tac.Program, err error) {
	prog, err := ParseFile(ctx, name)
	if err != nil {
		return nil, err
	}

	_, err = Analyze(ctx, prog)
	if err != nil {
		return nil, err
	}

	return LowerTAC(ctx, prog)
}

// Run executes an analyzed tree. Builtin output goes to out.
func Run(ctx context.Context, prog *ast.Program, out io.Writer) (code int, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "run")
	defer tr.Finish("code", &code, "err", &err)

	return interp.Run(ctx, prog, out)
}

// RunFile reads, parses, analyzes and runs one source file.
func RunFile(ctx context.Context, name string, out io.Writer) (code int, err error) {
	prog, err := ParseFile(ctx, name)
	if err != nil {
		return 0, err
	}

	_, err = Analyze(ctx, prog)
	if err != nil {
		return 0, err
	}

	return Run(ctx, prog, out)
}
