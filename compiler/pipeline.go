package compiler

import (
	"bytes"
	"context"

	"tlog.app/go/tlog"

	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/ast"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/cfg"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/interp"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/parse"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/sema"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/tac"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/token"
)

type (
	// Result collects everything the pipeline produced before its
	// first failing stage.
	Result struct {
		Tokens []token.Token
		Prog   *ast.Program
		Info   *sema.Info
		TAC    *tac.Program
		Graphs []*cfg.Graph

		Output   []byte
		ExitCode int

		// Stage names the failed stage when Err is set.
		Stage string
		Err   error
	}
)

// Pipeline runs every stage over src in order and stops at the first
// failure: tokenize, parse, analyze, lower, cfg, run. Lowering never
// starts before analysis passed. Program output is buffered into the
// result.
func Pipeline(ctx context.Context, src []byte) (r *Result) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "pipeline", "size", len(src))
	defer func() { tr.Finish("stage", r.Stage, "err", r.Err) }()

	r = &Result{}

	var err error

	r.Tokens, err = token.Tokenize(ctx, src)
	if err != nil {
		return r.fail("tokenize", err)
	}

	r.Prog, err = parse.Parse(ctx, r.Tokens)
	if err != nil {
		return r.fail("parse", err)
	}

	r.Info, err = sema.Analyze(ctx, r.Prog)
	if err != nil {
		return r.fail("analyze", err)
	}

	r.TAC, err = tac.Lower(ctx, r.Prog)
	if err != nil {
		return r.fail("lower", err)
	}

	r.Graphs = cfg.BuildProgram(ctx, r.TAC)

	var out bytes.Buffer

	r.ExitCode, err = interp.Run(ctx, r.Prog, &out)
	r.Output = out.Bytes()

	if err != nil {
		return r.fail("run", err)
	}

	return r
}

func (r *Result) fail(stage string, err error) *Result {
	r.Stage, r.Err = stage, err

	return r
}
