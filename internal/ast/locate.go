package ast

// MaxTraversalDepth bounds every recursive walk over the tree.
const MaxTraversalDepth = 1000

// FindEnclosingFunction returns the top-level function whose span contains
// offset, or nil.
func FindEnclosingFunction(m *Module, offset int) *Function {
	if m == nil {
		return nil
	}
	for _, fn := range m.Functions {
		if fn.Loc.Contains(offset) {
			return fn
		}
	}
	return nil
}

// FindPath returns every expression and statement containing offset, from
// the outermost statement of the enclosing function down to the innermost
// node. It is empty when offset lies outside any function body.
func FindPath(m *Module, offset int) []Node {
	fn := FindEnclosingFunction(m, offset)
	if fn == nil {
		return nil
	}
	var path []Node
	var current Node = fn
	for depth := 0; depth < MaxTraversalDepth; depth++ {
		child := childAt(current, offset)
		if child == nil {
			break
		}
		path = append(path, child)
		current = child
	}
	return path
}

// FindNode returns the innermost expression or statement containing offset.
func FindNode(m *Module, offset int) Node {
	path := FindPath(m, offset)
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}

// childAt picks the child of n containing offset. Siblings never overlap
// except through zero-width implicit nodes, which contain nothing, so the
// last match is also the only one.
func childAt(n Node, offset int) Node {
	var found Node
	for _, c := range Children(n) {
		if c.Location().Contains(offset) {
			found = c
		}
	}
	return found
}

// FindAssignment returns the let statement inside fn whose pattern is a
// single variable declared at decl. Nested blocks and function literals are
// searched too.
func FindAssignment(fn *Function, decl Span) *Assignment {
	if fn == nil {
		return nil
	}
	var found *Assignment
	Inspect(fn, func(n Node) bool {
		if found != nil {
			return false
		}
		if a, ok := n.(*Assignment); ok {
			if pv, ok := a.Pattern.(*PatternVar); ok && pv.Loc == decl {
				found = a
				return false
			}
		}
		return true
	})
	return found
}

// FindBinding returns the node that declared decl inside fn: a *PatternVar
// of a let or use statement, or a *Param of the function or of a nested
// function literal.
func FindBinding(fn *Function, decl Span) Node {
	if fn == nil {
		return nil
	}
	for _, p := range fn.Params {
		if p.Loc == decl {
			return p
		}
	}
	var found Node
	match := func(p Pattern) {
		for _, pv := range PatternVars(p) {
			if pv.Loc == decl {
				found = pv
			}
		}
	}
	Inspect(fn, func(n Node) bool {
		if found != nil {
			return false
		}
		switch n := n.(type) {
		case *Assignment:
			match(n.Pattern)
		case *Use:
			for _, p := range n.Patterns {
				match(p)
			}
		case *Fn:
			for _, p := range n.Params {
				if p.Loc == decl {
					found = p
				}
			}
		}
		return found == nil
	})
	return found
}
