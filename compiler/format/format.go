// Package format renders a syntax tree back to canonical source text:
// tab indent, one statement per line, minimal parentheses.
package format

import (
	"context"
	"fmt"
	"strconv"

	"tlog.app/go/errors"

	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/ast"
)

// prec mirrors the parser's binding powers. A child binop is wrapped in
// parens when it binds looser than its parent, or equally on the right
// side since every operator is left associative.
var prec = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, ">": 4, "<=": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6,
}

// Format appends x rendered as source text to b.
// x is a *ast.Program or a *ast.FuncDecl.
// Formatting a parsed tree and parsing the result reproduces the tree
// up to positions. Hand built trees may contain bare block statements,
// they render with braces but there is no statement syntax for them.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	switch x := x.(type) {
	case *ast.Program:
		return formatProgram(ctx, b, x)
	case *ast.FuncDecl:
		return formatFunc(ctx, b, x)
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatProgram(ctx context.Context, b []byte, x *ast.Program) (_ []byte, err error) {
	for i, f := range x.Decls {
		if i != 0 {
			b = append(b, '\n')
		}

		b, err = formatFunc(ctx, b, f)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", f.Name)
		}
	}

	return b, nil
}

func formatFunc(ctx context.Context, b []byte, x *ast.FuncDecl) (_ []byte, err error) {
	b = fmt.Appendf(b, "fn %s(", x.Name)

	for i, p := range x.Params {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = fmt.Appendf(b, "%s: %s", p.Name, p.Type)
	}

	b = fmt.Appendf(b, ") -> %s {\n", x.RetType)

	b, err = formatStmts(ctx, b, x.Body.Stmts, 1)
	if err != nil {
		return nil, err
	}

	return append(b, "}\n"...), nil
}

func formatStmts(ctx context.Context, b []byte, sts []ast.Stmt, d int) (_ []byte, err error) {
	for _, st := range sts {
		b, err = formatStmt(ctx, b, st, d)
		if err != nil {
			return nil, err
		}
	}

	return b, nil
}

func formatStmt(ctx context.Context, b []byte, st ast.Stmt, d int) (_ []byte, err error) {
	switch st := st.(type) {
	case *ast.VarDecl:
		b = app(b, d, "let %s: %s", st.Name, st.TypeName)

		if st.Init != nil {
			b = append(b, " = "...)

			b, err = formatExpr(ctx, b, st.Init)
			if err != nil {
				return nil, errors.Wrap(err, "init")
			}
		}

		return append(b, ";\n"...), nil
	case *ast.Assign:
		b = app(b, d, "%s = ", st.Name)

		b, err = formatExpr(ctx, b, st.Value)
		if err != nil {
			return nil, errors.Wrap(err, "rhs")
		}

		return append(b, ";\n"...), nil
	case *ast.IfStmt:
		b = app(b, d, "if (")

		b, err = formatExpr(ctx, b, st.Cond)
		if err != nil {
			return nil, errors.Wrap(err, "cond")
		}

		b = append(b, ") {\n"...)

		b, err = formatStmts(ctx, b, st.Then.Stmts, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "then block")
		}

		b = app(b, d, "}")

		if st.Else != nil {
			b = append(b, " else {\n"...)

			b, err = formatStmts(ctx, b, st.Else.Stmts, d+1)
			if err != nil {
				return nil, errors.Wrap(err, "else block")
			}

			b = app(b, d, "}")
		}

		return append(b, '\n'), nil
	case *ast.WhileStmt:
		b = app(b, d, "while (")

		b, err = formatExpr(ctx, b, st.Cond)
		if err != nil {
			return nil, errors.Wrap(err, "cond")
		}

		b = append(b, ") {\n"...)

		b, err = formatStmts(ctx, b, st.Body.Stmts, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "body")
		}

		b = app(b, d, "}")

		return append(b, '\n'), nil
	case *ast.ReturnStmt:
		if st.Value == nil {
			return app(b, d, "return;\n"), nil
		}

		b = app(b, d, "return ")

		b, err = formatExpr(ctx, b, st.Value)
		if err != nil {
			return nil, errors.Wrap(err, "value")
		}

		return append(b, ";\n"...), nil
	case *ast.ExprStmt:
		b = app(b, d, "")

		b, err = formatExpr(ctx, b, st.X)
		if err != nil {
			return nil, errors.Wrap(err, "expr")
		}

		return append(b, ";\n"...), nil
	case *ast.Block:
		b = app(b, d, "{\n")

		b, err = formatStmts(ctx, b, st.Stmts, d+1)
		if err != nil {
			return nil, err
		}

		return app(b, d, "}\n"), nil
	}

	return nil, errors.New("unsupported stmt: %T", st)
}

func formatExpr(ctx context.Context, b []byte, e ast.Expr) (_ []byte, err error) {
	switch e := e.(type) {
	case *ast.Literal:
		switch v := e.Value.(type) {
		case int64:
			return strconv.AppendInt(b, v, 10), nil
		case bool:
			return strconv.AppendBool(b, v), nil
		case string:
			return strconv.AppendQuote(b, v), nil
		default:
			return nil, errors.New("unsupported literal: %T", v)
		}
	case *ast.Var:
		return append(b, e.Name...), nil
	case *ast.UnOp:
		b = append(b, e.Op...)

		return formatOperand(ctx, b, e.Operand, maxPrec, false)
	case *ast.BinOp:
		b, err = formatOperand(ctx, b, e.Left, prec[e.Op], false)
		if err != nil {
			return nil, errors.Wrap(err, "lhs")
		}

		b = fmt.Appendf(b, " %s ", e.Op)

		b, err = formatOperand(ctx, b, e.Right, prec[e.Op], true)
		if err != nil {
			return nil, errors.Wrap(err, "rhs")
		}

		return b, nil
	case *ast.Call:
		b = append(b, e.Name...)
		b = append(b, '(')

		for i, a := range e.Args {
			if i != 0 {
				b = append(b, ", "...)
			}

			b, err = formatExpr(ctx, b, a)
			if err != nil {
				return nil, errors.Wrap(err, "arg %d", i)
			}
		}

		return append(b, ')'), nil
	}

	return nil, errors.New("unsupported expr: %T", e)
}

// maxPrec forces parens around any binop operand, unary operators bind
// tighter than every binary one.
const maxPrec = 100

func formatOperand(ctx context.Context, b []byte, e ast.Expr, parent int, right bool) (_ []byte, err error) {
	c, ok := e.(*ast.BinOp)
	wrap := ok && (prec[c.Op] < parent || right && prec[c.Op] == parent)

	if wrap {
		b = append(b, '(')
	}

	b, err = formatExpr(ctx, b, e)
	if err != nil {
		return nil, err
	}

	if wrap {
		b = append(b, ')')
	}

	return b, nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"
	b = append(b, tabs[:d]...)

	return fmt.Appendf(b, f, args...)
}
