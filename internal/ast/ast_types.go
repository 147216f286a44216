package ast

// TypeAnn is a type annotation as written in source.
type TypeAnn interface {
	Node
	annNode()
}

// NamedAnn is a possibly applied, possibly qualified type name.
// Int, List(a), option.Option(Int)
type NamedAnn struct {
	Loc    Span
	Module string
	Name   string
	Args   []TypeAnn
}

func (a *NamedAnn) Location() Span { return a.Loc }
func (a *NamedAnn) annNode()       {}

// VarAnn is a lower-case generic type variable.
type VarAnn struct {
	Loc  Span
	Name string
}

func (a *VarAnn) Location() Span { return a.Loc }
func (a *VarAnn) annNode()       {}

// FnAnn is fn(a, b) -> c.
type FnAnn struct {
	Loc    Span
	Params []TypeAnn
	Return TypeAnn
}

func (a *FnAnn) Location() Span { return a.Loc }
func (a *FnAnn) annNode()       {}

// TupleAnn is #(a, b).
type TupleAnn struct {
	Loc   Span
	Elems []TypeAnn
}

func (a *TupleAnn) Location() Span { return a.Loc }
func (a *TupleAnn) annNode()       {}
