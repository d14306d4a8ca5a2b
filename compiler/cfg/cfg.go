// Package cfg partitions a function's instruction list into basic
// blocks with successor edges. The graph is diagnostic only, nothing
// downstream consumes it.
package cfg

import (
	"context"
	"fmt"

	"tlog.app/go/tlog"

	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/bitmap"
	"github.com/ManeeshwarMarpu/compiler-workbench/compiler/tac"
)

type (
	// Block instrs exclude the label pseudo op that opened the block.
	Block struct {
		Name   string
		Instrs []tac.Instr
		Succs  []string
	}

	// Graph keeps blocks in first appearance order.
	Graph struct {
		Name   string
		Blocks []*Block

		byName map[string]*Block
	}
)

// Build partitions one function's code into basic blocks. br, cbr and
// ret close a block, a label opens or reopens the block of that name,
// and any instruction arriving with no open block lands in "entry",
// so unreachable code after a mid block ret rejoins the entry block.
func Build(ctx context.Context, name string, code []tac.Instr) *Graph {
	g := &Graph{
		Name:   name,
		byName: make(map[string]*Block),
	}

	var cur *Block

	for _, ins := range code {
		if ins.Op == tac.Label {
			cur = g.ensure(ins.Label)
			continue
		}

		if cur == nil {
			cur = g.ensure("entry")
		}

		cur.Instrs = append(cur.Instrs, ins)

		switch ins.Op {
		case tac.Br:
			if len(ins.Args) != 0 {
				cur.Succs = append(cur.Succs, ins.Args[0])
			}

			cur = nil
		case tac.Cbr:
			// true target first, then false
			if len(ins.Args) >= 3 {
				cur.Succs = append(cur.Succs, ins.Args[1], ins.Args[2])
			}

			cur = nil
		case tac.Ret:
			cur = nil
		}
	}

	g.linkFallthrough(code)

	tlog.SpanFromContext(ctx).Printw("built graph", "func", name, "blocks", len(g.Blocks), "reachable", g.Reachable())

	return g
}

// BuildProgram builds one graph per function, in program order.
func BuildProgram(ctx context.Context, p *tac.Program) []*Graph {
	gs := make([]*Graph, len(p.Funcs))

	for i, f := range p.Funcs {
		gs[i] = Build(ctx, f.Name, f.Code)
	}

	return gs
}

// Block returns the named block, nil when absent.
func (g *Graph) Block(name string) *Block { return g.byName[name] }

// Reachable returns the set of block indexes reachable from the
// first block over successor edges.
func (g *Graph) Reachable() bitmap.Big {
	r := bitmap.MakeSize(len(g.Blocks))

	if len(g.Blocks) == 0 {
		return r
	}

	idx := make(map[string]int, len(g.Blocks))

	for i, b := range g.Blocks {
		idx[b.Name] = i
	}

	var walk func(i int)
	walk = func(i int) {
		if r.IsSet(i) {
			return
		}

		r.Set(i)

		for _, s := range g.Blocks[i].Succs {
			if j, ok := idx[s]; ok {
				walk(j)
			}
		}
	}

	walk(0)

	return r
}

// Unreachable lists blocks no successor path from the first block
// leads to, in graph order.
func (g *Graph) Unreachable() (names []string) {
	r := g.Reachable()

	for i, b := range g.Blocks {
		if !r.IsSet(i) {
			names = append(names, b.Name)
		}
	}

	return names
}

// ensure returns the named block, creating it on first use.
// Reopening a name continues the same block.
func (g *Graph) ensure(name string) *Block {
	b, ok := g.byName[name]
	if ok {
		return b
	}

	b = &Block{Name: name}

	g.byName[name] = b
	g.Blocks = append(g.Blocks, b)

	return b
}

// linkFallthrough appends the next label in emission order to every
// labeled block that is non empty and does not end in a terminator.
// Emission order, not reachability: the pass stays single scan.
// Empty blocks get no successors.
func (g *Graph) linkFallthrough(code []tac.Instr) {
	var labels []string

	for _, ins := range code {
		if ins.Op == tac.Label {
			labels = append(labels, ins.Label)
		}
	}

	for i, name := range labels {
		b, ok := g.byName[name]
		if !ok || len(b.Instrs) == 0 {
			continue
		}

		switch b.Instrs[len(b.Instrs)-1].Op {
		case tac.Br, tac.Cbr, tac.Ret:
			continue
		}

		if i+1 < len(labels) {
			b.Succs = append(b.Succs, labels[i+1])
		}
	}
}

// Render appends a block listing:
//
//	LABEL: -> succ, succ
//	  dst = op arg, arg
//
// Display only, the format is not committed to.
func (g *Graph) Render(b []byte) []byte {
	b = fmt.Appendf(b, "func %s()\n", g.Name)

	for _, blk := range g.Blocks {
		b = append(b, blk.Name...)
		b = append(b, ':')

		for i, s := range blk.Succs {
			if i == 0 {
				b = append(b, " -> "...)
			} else {
				b = append(b, ", "...)
			}

			b = append(b, s...)
		}

		b = append(b, '\n')

		for _, ins := range blk.Instrs {
			b = ins.Append(b)
		}
	}

	return b
}

func (g *Graph) String() string { return string(g.Render(nil)) }
