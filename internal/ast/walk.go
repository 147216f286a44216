package ast

// Children returns the direct statement and expression children of n in
// source order. Implicit pipeline arguments are skipped since they have no
// source text.
func Children(n Node) []Node {
	var out []Node
	add := func(e Expr) {
		if e != nil {
			out = append(out, e)
		}
	}
	switch n := n.(type) {
	case *Function:
		for _, s := range n.Body {
			out = append(out, s)
		}
	case *Assignment:
		add(n.Value)
	case *ExprStatement:
		add(n.Expr)
	case *Use:
		add(n.Call)
	case *FieldAccess:
		add(n.Record)
	case *Call:
		add(n.Fun)
		for _, a := range n.Args {
			if !a.Implicit {
				add(a.Value)
			}
		}
	case *BinOp:
		add(n.Left)
		add(n.Right)
	case *Negate:
		add(n.Value)
	case *List:
		for _, e := range n.Elements {
			add(e)
		}
		add(n.Tail)
	case *Tuple:
		for _, e := range n.Elems {
			add(e)
		}
	case *Block:
		for _, s := range n.Statements {
			out = append(out, s)
		}
	case *Pipeline:
		for _, a := range n.Assignments {
			add(a.Value)
		}
		add(n.Finally)
	case *Fn:
		for _, s := range n.Body {
			out = append(out, s)
		}
	case *Todo:
		add(n.Message)
	}
	return out
}

// Inspect traverses the tree rooted at n in depth-first source order. If f
// returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	inspect(n, f, 0)
}

func inspect(n Node, f func(Node) bool, depth int) {
	if n == nil || depth > MaxTraversalDepth || !f(n) {
		return
	}
	for _, c := range Children(n) {
		inspect(c, f, depth+1)
	}
}
