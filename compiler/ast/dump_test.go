package ast

import (
	"strings"
	"testing"
)

func TestDump(t *testing.T) {
	prog := &Program{Decls: []*FuncDecl{{
		Name:    "main",
		RetType: "int",
		Body: &Block{Stmts: []Stmt{
			&VarDecl{Name: "x", TypeName: "int", Init: &Literal{Value: int64(1)}},
			&ReturnStmt{Value: &BinOp{Op: "+", Left: &Var{Name: "x"}, Right: &Literal{Value: int64(2)}}},
		}},
	}}}

	want := strings.Join([]string{
		"└─Program",
		"  └─FuncDecl main() -> int (decls)",
		"    └─Block (body)",
		"      ├─VarDecl x: int (stmts)",
		"      │ └─Literal 1 (init)",
		"      └─ReturnStmt (stmts)",
		"        └─BinOp + (value)",
		"          ├─Var x (left)",
		"          └─Literal 2 (right)",
		"",
	}, "\n")

	if got := string(Dump(prog)); got != want {
		t.Errorf("got\n%s\nwanted\n%s", got, want)
	}
}

func TestDumpStringLiteral(t *testing.T) {
	got := string(Dump(&Literal{Value: "a\nb"}))
	want := "└─Literal \"a\\nb\"\n"

	if got != want {
		t.Errorf("got %q, wanted %q", got, want)
	}
}
