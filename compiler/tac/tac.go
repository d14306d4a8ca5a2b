// Package tac defines the three address code, its lowering from the
// syntax tree and the committed text rendering.
package tac

import "fmt"

type (
	// Op names an instruction. Instructions are flat: at most one
	// result and a list of string operands, temps and immediates alike.
	Op string

	// Instr label is set for the Label pseudo op only.
	Instr struct {
		Op    Op
		Dst   string
		Args  []string
		Label string
	}

	// Func code keeps emission order. The first instruction is the
	// entry label.
	Func struct {
		Name string
		Code []Instr
	}

	// Program funcs keep declaration order.
	Program struct {
		Funcs []Func
	}
)

const (
	Const Op = "const"
	Mov   Op = "mov"
	Add   Op = "add"
	Sub   Op = "sub"
	Mul   Op = "mul"
	Div   Op = "div"
	Lt    Op = "lt"
	Gt    Op = "gt"
	Le    Op = "le"
	Ge    Op = "ge"
	Eq    Op = "eq"
	Ne    Op = "ne"
	Land  Op = "land"
	Lor   Op = "lor"
	Neg   Op = "neg"
	Lnot  Op = "lnot"
	Call  Op = "call"
	Br    Op = "br"
	Cbr   Op = "cbr"
	Ret   Op = "ret"
	Label Op = "label"
)

// Render appends the committed text form:
//
//	func NAME()
//	LABEL:
//	  dst = op arg, arg
//
// Functions are separated by a blank line.
func (p *Program) Render(b []byte) []byte {
	for i, f := range p.Funcs {
		if i != 0 {
			b = append(b, '\n')
		}

		b = f.Render(b)
	}

	return b
}

func (p *Program) String() string { return string(p.Render(nil)) }

func (f Func) Render(b []byte) []byte {
	b = fmt.Appendf(b, "func %s()\n", f.Name)

	for _, ins := range f.Code {
		b = ins.Append(b)
	}

	return b
}

// Append renders one instruction line with a trailing newline.
// A label pseudo op renders as the label line alone, dst is omitted
// when empty, args are comma separated.
func (ins Instr) Append(b []byte) []byte {
	if ins.Op == Label {
		return fmt.Appendf(b, "%s:\n", ins.Label)
	}

	b = append(b, "  "...)

	if ins.Dst != "" {
		b = fmt.Appendf(b, "%s = ", ins.Dst)
	}

	b = append(b, ins.Op...)

	for i, a := range ins.Args {
		if i == 0 {
			b = append(b, ' ')
		} else {
			b = append(b, ", "...)
		}

		b = append(b, a...)
	}

	return append(b, '\n')
}
