package tac

import (
	"context"
	"fmt"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/ast"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/diag"
)

type (
	// builder owns the temp and label counters. One is created per
	// function, so numbering restarts in every function.
	builder struct {
		tempI  int
		labelI int

		code []Instr
	}
)

var binOps = map[string]Op{
	"+": Add, "-": Sub, "*": Mul, "/": Div,
	"<": Lt, ">": Gt, "<=": Le, ">=": Ge, "==": Eq, "!=": Ne,
	"&&": Land, "||": Lor,
}

// Lower translates an analyzed program into per function instruction
// lists, in declaration order. Lowering is purely syntax directed:
// every sub expression takes one fresh temp and one instruction.
// && and || lower to land and lor over both evaluated operands, only
// the interpreter short-circuits.
func Lower(ctx context.Context, prog *ast.Program) (p *Program, err error) {
	tr := tlog.SpanFromContext(ctx)

	p = &Program{}

	for _, d := range prog.Decls {
		b := &builder{}

		b.emitLabel("entry")

		err = b.block(d.Body)
		if err != nil {
			return nil, errors.Wrap(err, "func %v", d.Name)
		}

		p.Funcs = append(p.Funcs, Func{Name: d.Name, Code: b.code})

		tr.Printw("lowered function", "name", d.Name, "instrs", len(b.code))
	}

	return p, nil
}

func (b *builder) block(blk *ast.Block) (err error) {
	for _, st := range blk.Stmts {
		err = b.stmt(st)
		if err != nil {
			return err
		}
	}

	return nil
}

func (b *builder) stmt(st ast.Stmt) (err error) {
	switch st := st.(type) {
	case *ast.VarDecl:
		v := "0"

		if st.Init != nil {
			v, err = b.expr(st.Init)
			if err != nil {
				return err
			}
		}

		b.emit(Mov, st.Name, v)
	case *ast.Assign:
		v, err := b.expr(st.Value)
		if err != nil {
			return err
		}

		b.emit(Mov, st.Name, v)
	case *ast.IfStmt:
		cond, err := b.expr(st.Cond)
		if err != nil {
			return err
		}

		// one label counter serves all bases, so the three labels of
		// a statement carry consecutive numbers
		lthen := b.newL("then")
		lelse := b.newL("else")
		lend := b.newL("endif")

		b.emit(Cbr, "", cond, lthen, lelse)
		b.emitLabel(lthen)

		err = b.block(st.Then)
		if err != nil {
			return err
		}

		b.emit(Br, "", lend)
		b.emitLabel(lelse)

		if st.Else != nil {
			err = b.block(st.Else)
			if err != nil {
				return err
			}
		}

		b.emitLabel(lend)
	case *ast.WhileStmt:
		lcond := b.newL("while_cond")
		lbody := b.newL("while_body")
		lend := b.newL("while_end")

		b.emit(Br, "", lcond)
		b.emitLabel(lcond)

		cond, err := b.expr(st.Cond)
		if err != nil {
			return err
		}

		b.emit(Cbr, "", cond, lbody, lend)
		b.emitLabel(lbody)

		err = b.block(st.Body)
		if err != nil {
			return err
		}

		b.emit(Br, "", lcond)
		b.emitLabel(lend)
	case *ast.ReturnStmt:
		// a missing value lowers to the constant 0 whatever the
		// declared return type
		v := "0"

		if st.Value != nil {
			v, err = b.expr(st.Value)
			if err != nil {
				return err
			}
		}

		b.emit(Ret, "", v)
	case *ast.ExprStmt:
		_, err = b.expr(st.X)

		return err
	case *ast.Block:
		return b.block(st)
	}

	return nil
}

func (b *builder) expr(e ast.Expr) (dst string, err error) {
	switch e := e.(type) {
	case *ast.Literal:
		return b.emit(Const, b.newT(), litText(e.Value)), nil
	case *ast.Var:
		return b.emit(Mov, b.newT(), e.Name), nil
	case *ast.UnOp:
		v, err := b.expr(e.Operand)
		if err != nil {
			return "", err
		}

		op := Lnot
		if e.Op == "-" {
			op = Neg
		}

		return b.emit(op, b.newT(), v), nil
	case *ast.BinOp:
		l, err := b.expr(e.Left)
		if err != nil {
			return "", err
		}

		r, err := b.expr(e.Right)
		if err != nil {
			return "", err
		}

		op, ok := binOps[e.Op]
		if !ok {
			return "", diag.RuntimeError{Msg: fmt.Sprintf("unknown operator %v", e.Op)}
		}

		return b.emit(op, b.newT(), l, r), nil
	case *ast.Call:
		args := []string{e.Name}

		for _, a := range e.Args {
			v, err := b.expr(a)
			if err != nil {
				return "", err
			}

			args = append(args, v)
		}

		return b.emit(Call, b.newT(), args...), nil
	}

	return "", diag.RuntimeError{Msg: fmt.Sprintf("unknown expression %T", e)}
}

func (b *builder) newT() string {
	b.tempI++

	return fmt.Sprintf("t%d", b.tempI)
}

func (b *builder) newL(base string) string {
	b.labelI++

	return fmt.Sprintf("%s%d", base, b.labelI)
}

func (b *builder) emit(op Op, dst string, args ...string) string {
	b.code = append(b.code, Instr{Op: op, Dst: dst, Args: args})

	tlog.V("emit").Printw("emit", "op", op, "dst", dst, "args", args, "from", loc.Caller(1))

	return dst
}

func (b *builder) emitLabel(name string) {
	b.code = append(b.code, Instr{Op: Label, Label: name})
}

// litText renders a literal the way the language spells it: base 10
// ints, true and false, strings as their raw text.
func litText(v any) string {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	}

	return fmt.Sprint(v)
}
