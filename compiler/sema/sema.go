// Package sema checks names and types over the syntax tree.
//
// Two passes: collect function signatures, then walk each body with a
// scope stack. The first rule violation aborts the walk.
package sema

import (
	"context"
	"fmt"

	"tlog.app/go/tlog"

	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/ast"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/diag"
)

type (
	// Sig is a function signature: ordered parameter types and the
	// declared return type.
	Sig struct {
		Params []string
		Ret    string
	}

	// Info is what analysis learns about a program.
	Info struct {
		Funcs map[string]Sig
	}

	checker struct {
		funcs  map[string]Sig
		scopes []map[string]string
	}
)

// Analyze validates prog and returns the collected signatures.
// It must succeed before the program is lowered or run.
func Analyze(ctx context.Context, prog *ast.Program) (info *Info, err error) {
	tr := tlog.SpanFromContext(ctx)

	c := &checker{
		funcs:  make(map[string]Sig),
		scopes: []map[string]string{{}},
	}

	for _, d := range prog.Decls {
		sig := Sig{Ret: d.RetType}

		for _, pm := range d.Params {
			sig.Params = append(sig.Params, pm.Type)
		}

		c.funcs[d.Name] = sig // the last declaration wins
	}

	if _, ok := c.funcs["main"]; !ok {
		return nil, diag.SemaError{Msg: "No entry point: fn main() -> int {...}"}
	}

	for _, d := range prog.Decls {
		err = c.checkFunc(d)
		if err != nil {
			return nil, err
		}

		tr.Printw("checked function", "name", d.Name)
	}

	return &Info{Funcs: c.funcs}, nil
}

// params live in their own scope, the body block pushes another,
// so a body level let may shadow a parameter
func (c *checker) checkFunc(f *ast.FuncDecl) (err error) {
	c.push()
	defer c.pop()

	for _, pm := range f.Params {
		err = c.declare(f, pm.Name, pm.Type)
		if err != nil {
			return err
		}
	}

	return c.checkBlock(f.Body)
}

func (c *checker) checkBlock(b *ast.Block) (err error) {
	c.push()
	defer c.pop()

	for _, st := range b.Stmts {
		err = c.checkStmt(st)
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *checker) checkStmt(st ast.Stmt) (err error) {
	switch st := st.(type) {
	case *ast.VarDecl:
		// the initializer is checked before the name is declared,
		// so `let x: int = x;` does not resolve to itself
		if st.Init != nil {
			t, err := c.checkExpr(st.Init)
			if err != nil {
				return err
			}

			if t != st.TypeName {
				return errAt(st, "Type mismatch for %v: %v != %v", st.Name, st.TypeName, t)
			}
		}

		return c.declare(st, st.Name, st.TypeName)
	case *ast.Assign:
		tvar, err := c.lookup(st, st.Name)
		if err != nil {
			return err
		}

		tval, err := c.checkExpr(st.Value)
		if err != nil {
			return err
		}

		if tvar != tval {
			return errAt(st, "Type mismatch in assignment to %v: %v != %v", st.Name, tvar, tval)
		}

		return nil
	case *ast.IfStmt:
		t, err := c.checkExpr(st.Cond)
		if err != nil {
			return err
		}

		if t != "bool" {
			return errAt(st.Cond, "if condition must be bool")
		}

		err = c.checkBlock(st.Then)
		if err != nil {
			return err
		}

		if st.Else != nil {
			return c.checkBlock(st.Else)
		}

		return nil
	case *ast.WhileStmt:
		t, err := c.checkExpr(st.Cond)
		if err != nil {
			return err
		}

		if t != "bool" {
			return errAt(st.Cond, "while condition must be bool")
		}

		return c.checkBlock(st.Body)
	case *ast.ReturnStmt:
		// the value is checked for its own faults but never compared
		// to the declared return type
		if st.Value != nil {
			_, err = c.checkExpr(st.Value)
		}

		return err
	case *ast.ExprStmt:
		_, err = c.checkExpr(st.X)

		return err
	case *ast.Block:
		return c.checkBlock(st)
	}

	return nil
}

func (c *checker) checkExpr(e ast.Expr) (typ string, err error) {
	switch e := e.(type) {
	case *ast.Literal:
		switch e.Value.(type) {
		case bool:
			return "bool", nil
		case int64:
			return "int", nil
		case string:
			return "string", nil
		}

		return "", errAt(e, "Unknown expression")
	case *ast.Var:
		return c.lookup(e, e.Name)
	case *ast.UnOp:
		t, err := c.checkExpr(e.Operand)
		if err != nil {
			return "", err
		}

		switch e.Op {
		case "!":
			if t != "bool" {
				return "", errAt(e, "! expects bool")
			}

			return "bool", nil
		case "-":
			if t != "int" {
				return "", errAt(e, "unary - expects int")
			}

			return "int", nil
		}

		return "", errAt(e, "Unknown expression")
	case *ast.BinOp:
		lt, err := c.checkExpr(e.Left)
		if err != nil {
			return "", err
		}

		rt, err := c.checkExpr(e.Right)
		if err != nil {
			return "", err
		}

		switch e.Op {
		case "+", "-", "*", "/":
			if lt != "int" || rt != "int" {
				return "", errAt(e, "arithmetic expects int")
			}

			return "int", nil
		case "<", ">", "<=", ">=", "==", "!=":
			// any pair of equal types compares
			if lt != rt {
				return "", errAt(e, "compare type mismatch")
			}

			return "bool", nil
		case "&&", "||":
			if lt != "bool" || rt != "bool" {
				return "", errAt(e, "logical expects bool")
			}

			return "bool", nil
		}

		return "", errAt(e, "Unknown expression")
	case *ast.Call:
		if e.Name == "print" || e.Name == "println" {
			for _, a := range e.Args {
				_, err = c.checkExpr(a)
				if err != nil {
					return "", err
				}
			}

			return "void", nil
		}

		// a user call types to int, its arguments are left unchecked
		// and the callee signature is not consulted
		return "int", nil
	}

	return "", errAt(e, "Unknown expression")
}

func (c *checker) push() {
	c.scopes = append(c.scopes, map[string]string{})
}

func (c *checker) pop() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// declare fails on a duplicate in the innermost scope only,
// shadowing an outer scope is allowed
func (c *checker) declare(n ast.Node, name, typ string) error {
	s := c.scopes[len(c.scopes)-1]

	if _, ok := s[name]; ok {
		return errAt(n, "Redeclaration of %v", name)
	}

	s[name] = typ

	return nil
}

func (c *checker) lookup(n ast.Node, name string) (string, error) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return t, nil
		}
	}

	return "", errAt(n, "Undefined identifier %v", name)
}

func errAt(n ast.Node, f string, args ...any) error {
	line, col := n.Position()

	return diag.SemaError{Msg: fmt.Sprintf(f, args...), Line: line, Col: col}
}
