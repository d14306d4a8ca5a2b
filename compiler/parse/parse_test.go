package parse

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/ast"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/diag"
)

func TestParseFunction(t *testing.T) {
	ctx := context.Background()

	prog, err := ParseSource(ctx, []byte("fn add(a: int, b: int) -> int { return a + b; }"))
	require.NoError(t, err)
	require.Len(t, prog.Decls, 1)

	f := prog.Decls[0]
	assert.Equal(t, "add", f.Name)
	assert.Equal(t, []ast.Param{{Name: "a", Type: "int"}, {Name: "b", Type: "int"}}, f.Params)
	assert.Equal(t, "int", f.RetType)
	require.Len(t, f.Body.Stmts, 1)

	line, col := f.Position()
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	_, ok := f.Body.Stmts[0].(*ast.ReturnStmt)
	assert.True(t, ok, "got %T", f.Body.Stmts[0])
}

func TestParsePrecedence(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 * 2 + 3", "(+ (* 1 2) 3)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"2 * 3 / 4", "(/ (* 2 3) 4)"},
		{"a || b && c", "(|| a (&& b c))"},
		{"1 < 2 == true", "(== (< 1 2) true)"},
		{"1 + 2 < 3 + 4", "(< (+ 1 2) (+ 3 4))"},
		{"-x * 3", "(* (- x) 3)"},
		{"- -1", "(- (- 1))"},
		{"!f(x) && y", "(&& (! (call f x)) y)"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"f(1, 2 + 3, g())", "(call f 1 (+ 2 3) (call g))"},
	} {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, sexpr(parseExpr(t, tc.in)))
		})
	}
}

func TestParseStatementLookahead(t *testing.T) {
	ctx := context.Background()

	prog, err := ParseSource(ctx, []byte("fn f() -> int { x = 1; x; f(x); return 0; }"))
	require.NoError(t, err)

	st := prog.Decls[0].Body.Stmts
	require.Len(t, st, 4)

	as, ok := st[0].(*ast.Assign)
	require.True(t, ok, "got %T", st[0])
	assert.Equal(t, "x", as.Name)

	es, ok := st[1].(*ast.ExprStmt)
	require.True(t, ok, "got %T", st[1])
	_, ok = es.X.(*ast.Var)
	assert.True(t, ok, "got %T", es.X)

	es, ok = st[2].(*ast.ExprStmt)
	require.True(t, ok, "got %T", st[2])
	_, ok = es.X.(*ast.Call)
	assert.True(t, ok, "got %T", es.X)
}

func TestParseVarDecl(t *testing.T) {
	ctx := context.Background()

	prog, err := ParseSource(ctx, []byte(`fn f() -> int { let x: int = 1; let b: bool; let s: string = "hi"; return x; }`))
	require.NoError(t, err)

	st := prog.Decls[0].Body.Stmts

	x := st[0].(*ast.VarDecl)
	assert.Equal(t, "x", x.Name)
	assert.Equal(t, "int", x.TypeName)
	require.NotNil(t, x.Init)

	b := st[1].(*ast.VarDecl)
	assert.Equal(t, "bool", b.TypeName)
	assert.Nil(t, b.Init)

	s := st[2].(*ast.VarDecl)
	assert.Equal(t, "string", s.TypeName)
	assert.Equal(t, "hi", s.Init.(*ast.Literal).Value)
}

func TestParseIfWhile(t *testing.T) {
	ctx := context.Background()

	prog, err := ParseSource(ctx, []byte(`
fn f(n: int) -> int {
	while (n > 0) {
		if (n == 3) {
			n = 0;
		} else {
			n = n - 1;
		}
	}
	return n;
}
`))
	require.NoError(t, err)

	w := prog.Decls[0].Body.Stmts[0].(*ast.WhileStmt)
	assert.Equal(t, "(> n 0)", sexpr(w.Cond))
	require.Len(t, w.Body.Stmts, 1)

	s := w.Body.Stmts[0].(*ast.IfStmt)
	assert.Equal(t, "(== n 3)", sexpr(s.Cond))
	require.NotNil(t, s.Else)
	assert.Len(t, s.Then.Stmts, 1)
	assert.Len(t, s.Else.Stmts, 1)
}

func TestParseReturnBare(t *testing.T) {
	ctx := context.Background()

	prog, err := ParseSource(ctx, []byte("fn f() -> int { return; }"))
	require.NoError(t, err)

	ret := prog.Decls[0].Body.Stmts[0].(*ast.ReturnStmt)
	assert.Nil(t, ret.Value)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		msg  string
		line int
		col  int
	}{
		{"missing semi", "fn f() -> int { return 0 }", "expected Semi, got RBrace", 1, 26},
		{"missing arrow", "fn f() int {}", "expected Arrow, got int", 1, 8},
		{"bad param type", "fn f(a: 1) -> int {}", "expected type", 1, 9},
		{"missing expr", "fn f() -> int { let x: int = ; }", "unexpected token Semi", 1, 30},
		{"top level junk", "let x: int = 1;", "expected fn, got let", 1, 1},
		{"number overflow", "fn f() -> int { return 99999999999999999999; }", "bad number 99999999999999999999", 1, 24},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			_, err := ParseSource(ctx, []byte(tc.src))

			var e diag.ParseError
			require.ErrorAs(t, err, &e)

			assert.Equal(t, tc.msg, e.Msg)
			assert.Equal(t, tc.line, e.Line)
			assert.Equal(t, tc.col, e.Col)
		})
	}
}

// parseExpr parses src as the return value of a wrapper function.
func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()

	prog, err := ParseSource(context.Background(), []byte("fn f() -> int { return "+src+"; }"))
	require.NoError(t, err)

	return prog.Decls[0].Body.Stmts[0].(*ast.ReturnStmt).Value
}

func sexpr(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Literal:
		return fmt.Sprintf("%v", e.Value)
	case *ast.Var:
		return e.Name
	case *ast.BinOp:
		return "(" + e.Op + " " + sexpr(e.Left) + " " + sexpr(e.Right) + ")"
	case *ast.UnOp:
		return "(" + e.Op + " " + sexpr(e.Operand) + ")"
	case *ast.Call:
		s := "(call " + e.Name

		for _, a := range e.Args {
			s += " " + sexpr(a)
		}

		return s + ")"
	default:
		return fmt.Sprintf("%T", e)
	}
}
