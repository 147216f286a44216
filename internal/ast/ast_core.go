package ast

import (
	"github.com/funvibe/refactorls/internal/types"
)

// Span is a half-open byte range [Start, End) into one source document.
// Two nodes are the same node when their spans are equal.
type Span struct {
	Start int
	End   int
}

// Contains reports whether offset lies inside the span.
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset < s.End
}

// ContainsInclusive also accepts a cursor sitting right after the last byte.
func (s Span) ContainsInclusive(offset int) bool {
	return s.Start <= offset && offset <= s.End
}

// Covers reports whether o lies entirely within s.
func (s Span) Covers(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

func (s Span) Len() int { return s.End - s.Start }

func (s Span) IsEmpty() bool { return s.Start == s.End }

// Node is the base interface for all AST nodes.
type Node interface {
	Location() Span
}

// Expr is a typed expression.
type Expr interface {
	Node
	Type() types.Type
	exprNode()
}

// Statement is an element of a function or block body.
type Statement interface {
	Node
	stmtNode()
}

// Pattern is the left-hand side of a let or use binding.
type Pattern interface {
	Node
	patternNode()
}

// Module is the root of one source file.
type Module struct {
	Name      string
	File      string
	Imports   []*Import
	Functions []*Function
}

// Import brings a module into scope under Alias.
// import gleam/list [as l]
type Import struct {
	Loc   Span
	Path  string
	Alias string
}

func (i *Import) Location() Span { return i.Loc }

// Function is a top-level function definition.
// [pub] fn name(params) [-> Type] { body }
type Function struct {
	Loc              Span
	NameLoc          Span
	Name             string
	Public           bool
	Params           []*Param
	ReturnAnnotation TypeAnn
	Body             []Statement
	Typ              types.Type
}

func (f *Function) Location() Span { return f.Loc }

// Param is a function or function-literal parameter. Its Loc is the span of
// the bound name, which is what local Var references point at.
type Param struct {
	Loc        Span
	Label      string
	Name       string
	Annotation TypeAnn
	Typ        types.Type
}

func (p *Param) Location() Span { return p.Loc }

// Function looks up a top-level function by name.
func (m *Module) Function(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Import looks up an import by its alias.
func (m *Module) Import(alias string) *Import {
	for _, imp := range m.Imports {
		if imp.Alias == alias {
			return imp
		}
	}
	return nil
}

// ---- Statements ----

// Assignment binds a pattern.
// let pattern [: Type] = value
type Assignment struct {
	Loc        Span
	Pattern    Pattern
	Annotation TypeAnn
	Value      Expr
}

func (a *Assignment) Location() Span { return a.Loc }
func (a *Assignment) stmtNode()      {}

// ExprStatement is a bare expression in a body.
type ExprStatement struct {
	Expr Expr
}

func (s *ExprStatement) Location() Span { return s.Expr.Location() }
func (s *ExprStatement) stmtNode()      {}

// Use binds the callback parameters of Call for the rest of the block.
// use a, b <- call
type Use struct {
	Loc      Span
	Patterns []Pattern
	Call     Expr
}

func (u *Use) Location() Span { return u.Loc }
func (u *Use) stmtNode()      {}

// ---- Patterns ----

// PatternVar binds a single name.
type PatternVar struct {
	Loc  Span
	Name string
	Typ  types.Type
}

func (p *PatternVar) Location() Span { return p.Loc }
func (p *PatternVar) patternNode()   {}

// PatternDiscard matches anything without binding: _ or _name.
type PatternDiscard struct {
	Loc  Span
	Name string
}

func (p *PatternDiscard) Location() Span { return p.Loc }
func (p *PatternDiscard) patternNode()   {}

// PatternTuple destructures #(a, b).
type PatternTuple struct {
	Loc   Span
	Elems []Pattern
}

func (p *PatternTuple) Location() Span { return p.Loc }
func (p *PatternTuple) patternNode()   {}

// PatternList destructures [a, b, ..rest].
type PatternList struct {
	Loc      Span
	Elements []Pattern
	Tail     Pattern
}

func (p *PatternList) Location() Span { return p.Loc }
func (p *PatternList) patternNode()   {}

// PatternVars returns every variable bound by p in source order.
func PatternVars(p Pattern) []*PatternVar {
	var out []*PatternVar
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch p := p.(type) {
		case *PatternVar:
			out = append(out, p)
		case *PatternTuple:
			for _, e := range p.Elems {
				walk(e)
			}
		case *PatternList:
			for _, e := range p.Elements {
				walk(e)
			}
			if p.Tail != nil {
				walk(p.Tail)
			}
		}
	}
	walk(p)
	return out
}
