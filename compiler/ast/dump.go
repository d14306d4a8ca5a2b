package ast

import (
	"fmt"
	"strconv"
)

type (
	child struct {
		label string
		node  Node
	}
)

// Dump renders the tree in box-drawing ASCII form for inspection.
// The format is display-only, not committed to.
func Dump(n Node) []byte {
	return dump(nil, n, "", "", true)
}

func dump(b []byte, n Node, label, prefix string, last bool) []byte {
	branch := "├─"
	if last {
		branch = "└─"
	}

	b = append(b, prefix...)
	b = append(b, branch...)
	b = appendHead(b, n)

	if label != "" {
		b = fmt.Appendf(b, " (%s)", label)
	}

	b = append(b, '\n')

	sub := prefix + "│ "
	if last {
		sub = prefix + "  "
	}

	ch := children(n)

	for i, c := range ch {
		b = dump(b, c.node, c.label, sub, i == len(ch)-1)
	}

	return b
}

func appendHead(b []byte, n Node) []byte {
	switch n := n.(type) {
	case *Program:
		return append(b, "Program"...)
	case *FuncDecl:
		b = fmt.Appendf(b, "FuncDecl %s(", n.Name)

		for i, p := range n.Params {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = fmt.Appendf(b, "%s: %s", p.Name, p.Type)
		}

		return fmt.Appendf(b, ") -> %s", n.RetType)
	case *Block:
		return append(b, "Block"...)
	case *VarDecl:
		return fmt.Appendf(b, "VarDecl %s: %s", n.Name, n.TypeName)
	case *Assign:
		return fmt.Appendf(b, "Assign %s", n.Name)
	case *IfStmt:
		return append(b, "IfStmt"...)
	case *WhileStmt:
		return append(b, "WhileStmt"...)
	case *ReturnStmt:
		return append(b, "ReturnStmt"...)
	case *ExprStmt:
		return append(b, "ExprStmt"...)
	case *Literal:
		if s, ok := n.Value.(string); ok {
			b = append(b, "Literal "...)

			return strconv.AppendQuote(b, s)
		}

		return fmt.Appendf(b, "Literal %v", n.Value)
	case *Var:
		return fmt.Appendf(b, "Var %s", n.Name)
	case *BinOp:
		return fmt.Appendf(b, "BinOp %s", n.Op)
	case *UnOp:
		return fmt.Appendf(b, "UnOp %s", n.Op)
	case *Call:
		return fmt.Appendf(b, "Call %s", n.Name)
	default:
		return fmt.Appendf(b, "%T", n)
	}
}

func children(n Node) (ch []child) {
	add := func(label string, n Node) {
		ch = append(ch, child{label: label, node: n})
	}

	switch n := n.(type) {
	case *Program:
		for _, d := range n.Decls {
			add("decls", d)
		}
	case *FuncDecl:
		add("body", n.Body)
	case *Block:
		for _, s := range n.Stmts {
			add("stmts", s)
		}
	case *VarDecl:
		if n.Init != nil {
			add("init", n.Init)
		}
	case *Assign:
		add("value", n.Value)
	case *IfStmt:
		add("cond", n.Cond)
		add("then", n.Then)

		if n.Else != nil {
			add("else", n.Else)
		}
	case *WhileStmt:
		add("cond", n.Cond)
		add("body", n.Body)
	case *ReturnStmt:
		if n.Value != nil {
			add("value", n.Value)
		}
	case *ExprStmt:
		add("x", n.X)
	case *BinOp:
		add("left", n.Left)
		add("right", n.Right)
	case *UnOp:
		add("operand", n.Operand)
	case *Call:
		for _, a := range n.Args {
			add("args", a)
		}
	}

	return ch
}
