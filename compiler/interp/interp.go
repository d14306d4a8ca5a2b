// Package interp executes the analyzed tree directly. The lowering
// passes are not involved, their artifacts never feed execution.
package interp

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/ast"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/diag"
)

type (
	// Interp runs one program. Values are int64, bool or string.
	Interp struct {
		funcs map[string]*ast.FuncDecl
		out   io.Writer
	}

	// outcome threads return control flow through statement
	// execution: a returned value unwinds nested blocks and loops
	// untouched up to the enclosing call.
	outcome struct {
		returned bool
		value    any
	}
)

// New prepares prog for execution. print and println write to out.
func New(prog *ast.Program, out io.Writer) *Interp {
	funcs := make(map[string]*ast.FuncDecl, len(prog.Decls))

	for _, d := range prog.Decls {
		funcs[d.Name] = d
	}

	return &Interp{funcs: funcs, out: out}
}

// Run invokes main with no arguments and maps its value to a process
// exit code.
func Run(ctx context.Context, prog *ast.Program, out io.Writer) (code int, err error) {
	v, err := New(prog, out).Call(ctx, "main", nil)
	if err != nil {
		return 0, err
	}

	return ExitCode(v), nil
}

// ExitCode maps a program value to an exit code: an int as itself,
// a bool as 1 or 0, anything else as 0.
func ExitCode(v any) int {
	switch v := v.(type) {
	case int64:
		return int(v)
	case bool:
		if v {
			return 1
		}

		return 0
	}

	return 0
}

// Call invokes a builtin or a user function with already evaluated
// arguments.
func (it *Interp) Call(ctx context.Context, name string, args []any) (v any, err error) {
	if tr := tlog.SpanFromContext(ctx); tr.If("call") {
		tr.Printw("call", "func", name, "args", args)
	}

	switch name {
	case "print":
		return it.print(args, "")
	case "println":
		return it.print(args, "\n")
	}

	f, ok := it.funcs[name]
	if !ok {
		return nil, diag.RuntimeError{Msg: fmt.Sprintf("unknown function %v", name)}
	}

	// a fresh parentless frame: no closures, the callee never sees
	// the caller's scopes
	env := NewEnv(nil)

	// positional binding stops at the shorter of the two lists
	for i := 0; i < len(f.Params) && i < len(args); i++ {
		env.Declare(f.Params[i].Name, args[i])
	}

	o, err := it.execBlock(ctx, f.Body, env)
	if err != nil {
		return nil, err
	}

	if o.returned {
		return o.value, nil
	}

	return int64(0), nil
}

// execBlock runs the statements in one fresh child frame.
func (it *Interp) execBlock(ctx context.Context, b *ast.Block, env *Env) (o outcome, err error) {
	local := NewEnv(env)

	for _, st := range b.Stmts {
		o, err = it.execStmt(ctx, st, local)
		if err != nil || o.returned {
			return o, err
		}
	}

	return outcome{}, nil
}

func (it *Interp) execStmt(ctx context.Context, st ast.Stmt, env *Env) (o outcome, err error) {
	switch st := st.(type) {
	case *ast.VarDecl:
		var v any = int64(0)

		if st.Init != nil {
			v, err = it.eval(ctx, st.Init, env)
			if err != nil {
				return o, err
			}
		}

		// a declaration binds in its own block frame, it never
		// touches an outer binding of the same name
		env.Declare(st.Name, v)
	case *ast.Assign:
		v, err := it.eval(ctx, st.Value, env)
		if err != nil {
			return o, err
		}

		env.Set(st.Name, v)
	case *ast.IfStmt:
		c, err := it.eval(ctx, st.Cond, env)
		if err != nil {
			return o, err
		}

		if truth(c) {
			return it.execBlock(ctx, st.Then, env)
		}

		if st.Else != nil {
			return it.execBlock(ctx, st.Else, env)
		}
	case *ast.WhileStmt:
		for {
			c, err := it.eval(ctx, st.Cond, env)
			if err != nil {
				return o, err
			}

			if !truth(c) {
				break
			}

			o, err = it.execBlock(ctx, st.Body, env)
			if err != nil || o.returned {
				return o, err
			}
		}
	case *ast.ReturnStmt:
		var v any = int64(0)

		if st.Value != nil {
			v, err = it.eval(ctx, st.Value, env)
			if err != nil {
				return o, err
			}
		}

		return outcome{returned: true, value: v}, nil
	case *ast.ExprStmt:
		_, err = it.eval(ctx, st.X, env)

		return o, err
	case *ast.Block:
		return it.execBlock(ctx, st, env)
	}

	return o, nil
}

func (it *Interp) eval(ctx context.Context, e ast.Expr, env *Env) (v any, err error) {
	switch e := e.(type) {
	case *ast.Literal:
		return e.Value, nil
	case *ast.Var:
		v, ok := env.Get(e.Name)
		if !ok {
			return nil, errAt(e, "unbound identifier %v", e.Name)
		}

		return v, nil
	case *ast.UnOp:
		return it.evalUnOp(ctx, e, env)
	case *ast.BinOp:
		return it.evalBinOp(ctx, e, env)
	case *ast.Call:
		args := make([]any, len(e.Args))

		for i, a := range e.Args {
			args[i], err = it.eval(ctx, a, env)
			if err != nil {
				return nil, err
			}
		}

		return it.Call(ctx, e.Name, args)
	}

	return nil, errAt(e, "unknown expression %T", e)
}

func (it *Interp) evalUnOp(ctx context.Context, e *ast.UnOp, env *Env) (any, error) {
	v, err := it.eval(ctx, e.Operand, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "-":
		if i, ok := v.(int64); ok {
			return -i, nil
		}

		return nil, errAt(e, "unary - expects int")
	case "!":
		return !truth(v), nil
	}

	return nil, errAt(e, "unknown operator %v", e.Op)
}

func (it *Interp) evalBinOp(ctx context.Context, e *ast.BinOp, env *Env) (any, error) {
	l, err := it.eval(ctx, e.Left, env)
	if err != nil {
		return nil, err
	}

	// && and || short-circuit: the right side runs only when the
	// left one has not decided the result
	switch e.Op {
	case "&&":
		if !truth(l) {
			return false, nil
		}

		r, err := it.eval(ctx, e.Right, env)
		if err != nil {
			return nil, err
		}

		return truth(r), nil
	case "||":
		if truth(l) {
			return true, nil
		}

		r, err := it.eval(ctx, e.Right, env)
		if err != nil {
			return nil, err
		}

		return truth(r), nil
	}

	r, err := it.eval(ctx, e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "+", "-", "*", "/":
		return arith(e, l, r)
	case "<", ">", "<=", ">=":
		return order(e, l, r)
	case "==":
		return l == r, nil
	case "!=":
		return l != r, nil
	}

	return nil, errAt(e, "unknown operator %v", e.Op)
}

func arith(e *ast.BinOp, l, r any) (any, error) {
	a, aok := l.(int64)
	b, bok := r.(int64)

	if !aok || !bok {
		// + concatenates strings on directly built trees
		if as, ok := l.(string); ok && e.Op == "+" {
			if bs, ok := r.(string); ok {
				return as + bs, nil
			}
		}

		return nil, errAt(e, "arithmetic expects int")
	}

	switch e.Op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return nil, errAt(e, "division by zero")
		}

		return floorDiv(a, b), nil
	}

	return nil, errAt(e, "unknown operator %v", e.Op)
}

// floorDiv truncates toward negative infinity: -7/2 == -4.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return q
}

func order(e *ast.BinOp, l, r any) (any, error) {
	c, ok := compare(l, r)
	if !ok {
		return nil, errAt(e, "compare type mismatch")
	}

	switch e.Op {
	case "<":
		return c < 0, nil
	case ">":
		return c > 0, nil
	case "<=":
		return c <= 0, nil
	case ">=":
		return c >= 0, nil
	}

	return nil, errAt(e, "unknown operator %v", e.Op)
}

// compare orders two equal typed values: ints numerically, strings
// lexicographically, bools with false before true.
func compare(l, r any) (int, bool) {
	switch a := l.(type) {
	case int64:
		b, ok := r.(int64)
		if !ok {
			return 0, false
		}

		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		}

		return 0, true
	case string:
		b, ok := r.(string)
		if !ok {
			return 0, false
		}

		return strings.Compare(a, b), true
	case bool:
		b, ok := r.(bool)
		if !ok {
			return 0, false
		}

		switch {
		case !a && b:
			return -1, true
		case a && !b:
			return 1, true
		}

		return 0, true
	}

	return 0, false
}

// truth follows the usual coercions: bools as themselves, nonzero
// ints and nonempty strings are true.
func truth(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case string:
		return v != ""
	}

	return v != nil
}

func (it *Interp) print(args []any, term string) (any, error) {
	b := make([]byte, 0, 32)

	for i, a := range args {
		if i != 0 {
			b = append(b, ' ')
		}

		b = appendValue(b, a)
	}

	b = append(b, term...)

	_, err := it.out.Write(b)
	if err != nil {
		return nil, errors.Wrap(err, "write output")
	}

	return int64(0), nil
}

func appendValue(b []byte, v any) []byte {
	switch v := v.(type) {
	case int64:
		return strconv.AppendInt(b, v, 10)
	case bool:
		return strconv.AppendBool(b, v)
	case string:
		return append(b, v...)
	}

	return fmt.Appendf(b, "%v", v)
}

func errAt(n ast.Node, f string, args ...any) error {
	line, col := n.Position()

	return diag.RuntimeError{Msg: fmt.Sprintf(f, args...), Line: line, Col: col}
}
