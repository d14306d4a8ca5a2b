package ast

import (
	"fmt"
	"strconv"
)

// Dot renders the tree as a Graphviz digraph for visual inspection,
// one box per node, edges labeled with the field they came from.
// Companion to Dump, equally uncommitted.
func Dot(n Node) []byte {
	b := []byte("digraph AST {\n\tnode [shape=box];\n")

	d := &dotter{}
	b, _ = d.node(b, n)

	return append(b, "}\n"...)
}

type dotter struct {
	seq int
}

func (d *dotter) node(b []byte, n Node) ([]byte, string) {
	d.seq++
	id := "n" + strconv.Itoa(d.seq)

	b = fmt.Appendf(b, "\t%s [label=%s];\n", id, strconv.Quote(string(appendHead(nil, n))))

	ch := children(n)

	// repeated field labels get their element index appended
	reps := make(map[string]int, len(ch))
	for _, c := range ch {
		reps[c.label]++
	}

	idx := make(map[string]int, len(ch))

	for _, c := range ch {
		label := c.label
		if reps[label] > 1 {
			label = fmt.Sprintf("%s[%d]", label, idx[c.label])
			idx[c.label]++
		}

		var cid string

		b, cid = d.node(b, c.node)

		b = fmt.Appendf(b, "\t%s -> %s [label=%s];\n", id, cid, strconv.Quote(label))
	}

	return b, id
}
