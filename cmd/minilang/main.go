package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/ManeeshwarMarpu/compiler-workbench/compiler"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/ast"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/format"
)

func main() {
	tokensCmd := &cli.Command{
		Name:   "tokens",
		Action: tokensAct,
		Args:   cli.Args{},
	}

	astCmd := &cli.Command{
		Name:   "ast",
		Action: astAct,
		Args:   cli.Args{},
	}

	dotCmd := &cli.Command{
		Name:   "dot",
		Action: dotAct,
		Args:   cli.Args{},
	}

	irCmd := &cli.Command{
		Name:   "ir",
		Action: irAct,
		Args:   cli.Args{},
	}

	cfgCmd := &cli.Command{
		Name:   "cfg",
		Action: cfgAct,
		Args:   cli.Args{},
	}

	fmtCmd := &cli.Command{
		Name:   "fmt",
		Action: fmtAct,
		Args:   cli.Args{},
	}

	runCmd := &cli.Command{
		Name:   "run",
		Action: runAct,
		Args:   cli.Args{},
	}

	checkCmd := &cli.Command{
		Name:   "check",
		Action: checkAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "minilang",
		Description: "minilang is a tool for inspecting and running minilang source code",
		Commands: []*cli.Command{
			tokensCmd,
			astCmd,
			dotCmd,
			fmtCmd,
			irCmd,
			cfgCmd,
			runCmd,
			checkCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func tokensAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		toks, err := compiler.Tokenize(ctx, text)
		if err != nil {
			return errors.Wrap(err, "tokenize %v", a)
		}

		for _, tk := range toks {
			fmt.Printf("%v\n", tk)
		}
	}

	return nil
}

func astAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		prog, err := compiler.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		fmt.Printf("%s", ast.Dump(prog))
	}

	return nil
}

func dotAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		prog, err := compiler.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		fmt.Printf("%s", ast.Dot(prog))
	}

	return nil
}

func fmtAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		prog, err := compiler.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b, err := format.Format(ctx, nil, prog)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s", b)
	}

	return nil
}

func irAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := compiler.LowerFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "lower %v", a)
		}

		fmt.Printf("%s", p.Render(nil))
	}

	return nil
}

func cfgAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		p, err := compiler.LowerFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "lower %v", a)
		}

		for i, g := range compiler.BuildCFG(ctx, p) {
			if i != 0 {
				fmt.Println()
			}

			fmt.Printf("%s", g.Render(nil))

			if dead := g.Unreachable(); len(dead) != 0 {
				warnFG.Println("unreachable:", strings.Join(dead, ", "))
			}
		}
	}

	return nil
}

func runAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	if len(c.Args) != 1 {
		return errors.New("expected one file")
	}

	a := c.Args[0]

	code, err := compiler.RunFile(ctx, a, os.Stdout)
	if err != nil {
		return errors.Wrap(err, "run %v", a)
	}

	// the interpreted program picks the process exit code
	os.Exit(code)

	return nil
}

func checkAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	failed := 0

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		r := compiler.Pipeline(ctx, text)
		if r.Err != nil {
			printError(a, text, r.Stage, r.Err)
			failed++

			continue
		}

		printOK(a, r.ExitCode)
	}

	if failed != 0 {
		return errors.New("%d of %d files failed", failed, len(c.Args))
	}

	return nil
}
