package ast

import (
	"github.com/funvibe/refactorls/internal/types"
)

// PipeVarName is the name given to the implicit placeholder that carries the
// value of the previous pipeline step.
const PipeVarName = "_pipe"

// RefKind classifies what a Var name resolved to.
type RefKind int

const (
	RefUnresolved RefKind = iota
	RefLocal
	RefModule
	RefImport
	RefConstructor
	RefPipe
)

func (k RefKind) String() string {
	switch k {
	case RefLocal:
		return "local"
	case RefModule:
		return "module"
	case RefImport:
		return "import"
	case RefConstructor:
		return "constructor"
	case RefPipe:
		return "pipe"
	default:
		return "unresolved"
	}
}

// VarRef is the resolution of a Var. For RefLocal, Decl is the span of the
// binding pattern or parameter that introduced the name.
type VarRef struct {
	Kind RefKind
	Decl Span
}

// Int literal. 42, 1_000
type Int struct {
	Loc    Span
	Typ    types.Type
	Lexeme string
}

func (e *Int) Location() Span   { return e.Loc }
func (e *Int) Type() types.Type { return orUnknown(e.Typ) }
func (e *Int) exprNode()        {}

// Float literal. 3.14
type Float struct {
	Loc    Span
	Typ    types.Type
	Lexeme string
}

func (e *Float) Location() Span   { return e.Loc }
func (e *Float) Type() types.Type { return orUnknown(e.Typ) }
func (e *Float) exprNode()        {}

// String literal. Lexeme is the exact source text including quotes.
type String struct {
	Loc    Span
	Typ    types.Type
	Lexeme string
}

func (e *String) Location() Span   { return e.Loc }
func (e *String) Type() types.Type { return orUnknown(e.Typ) }
func (e *String) exprNode()        {}

// Var is a reference to a named value: local, top-level function, import
// alias, constructor, or the implicit pipe placeholder.
type Var struct {
	Loc  Span
	Typ  types.Type
	Name string
	Ref  VarRef
}

func (e *Var) Location() Span   { return e.Loc }
func (e *Var) Type() types.Type { return orUnknown(e.Typ) }
func (e *Var) exprNode()        {}

// IsPipePlaceholder reports whether e is the value of the previous pipeline step.
func IsPipePlaceholder(e Expr) bool {
	v, ok := e.(*Var)
	return ok && v.Ref.Kind == RefPipe
}

// ModuleSelect is a member of an imported module.
// list.map
type ModuleSelect struct {
	Loc       Span
	Typ       types.Type
	Module    string
	ModuleLoc Span
	Label     string
}

func (e *ModuleSelect) Location() Span   { return e.Loc }
func (e *ModuleSelect) Type() types.Type { return orUnknown(e.Typ) }
func (e *ModuleSelect) exprNode()        {}

// FieldAccess selects a label from a record value.
// user.name
type FieldAccess struct {
	Loc    Span
	Typ    types.Type
	Record Expr
	Label  string
}

func (e *FieldAccess) Location() Span   { return e.Loc }
func (e *FieldAccess) Type() types.Type { return orUnknown(e.Typ) }
func (e *FieldAccess) exprNode()        {}

// CallArg is one argument of a call. Implicit arguments were inserted by
// pipeline desugaring and have no source text of their own.
type CallArg struct {
	Loc      Span
	Label    string
	Value    Expr
	Implicit bool
}

// Call is a function application.
// f(a, label: b)
type Call struct {
	Loc  Span
	Typ  types.Type
	Fun  Expr
	Args []*CallArg
}

func (e *Call) Location() Span   { return e.Loc }
func (e *Call) Type() types.Type { return orUnknown(e.Typ) }
func (e *Call) exprNode()        {}

// Bare reports a pipeline step written without parentheses (xs |> f), which
// desugars to a call whose span is exactly the callee's.
func (e *Call) Bare() bool {
	return e.Fun != nil && e.Loc == e.Fun.Location()
}

// BinOp is an infix operation.
// a + b, a <> b, a == b
type BinOp struct {
	Loc   Span
	Typ   types.Type
	Op    string
	Left  Expr
	Right Expr
}

func (e *BinOp) Location() Span   { return e.Loc }
func (e *BinOp) Type() types.Type { return orUnknown(e.Typ) }
func (e *BinOp) exprNode()        {}

// Negate is a prefix operation: -x or !x.
type Negate struct {
	Loc   Span
	Typ   types.Type
	Op    string
	Value Expr
}

func (e *Negate) Location() Span   { return e.Loc }
func (e *Negate) Type() types.Type { return orUnknown(e.Typ) }
func (e *Negate) exprNode()        {}

// List literal with optional tail.
// [1, 2, ..rest]
type List struct {
	Loc      Span
	Typ      types.Type
	Elements []Expr
	Tail     Expr
}

func (e *List) Location() Span   { return e.Loc }
func (e *List) Type() types.Type { return orUnknown(e.Typ) }
func (e *List) exprNode()        {}

// Tuple literal.
// #(1, "a")
type Tuple struct {
	Loc   Span
	Typ   types.Type
	Elems []Expr
}

func (e *Tuple) Location() Span   { return e.Loc }
func (e *Tuple) Type() types.Type { return orUnknown(e.Typ) }
func (e *Tuple) exprNode()        {}

// Block is a braced sequence of statements; its value is the last one.
// { let x = 1 x + 1 }
type Block struct {
	Loc        Span
	Typ        types.Type
	Statements []Statement
}

func (e *Block) Location() Span   { return e.Loc }
func (e *Block) Type() types.Type { return orUnknown(e.Typ) }
func (e *Block) exprNode()        {}

// PipeAssignment is one intermediate step of a pipeline; its value is bound
// to the placeholder read by the next step.
type PipeAssignment struct {
	Loc   Span
	Value Expr
}

// Pipeline is the desugared form of a |> f |> g(x).
// Assignments hold a and f(_pipe); Finally holds g(_pipe, x).
type Pipeline struct {
	Loc         Span
	Typ         types.Type
	Assignments []*PipeAssignment
	Finally     Expr
}

func (e *Pipeline) Location() Span   { return e.Loc }
func (e *Pipeline) Type() types.Type { return orUnknown(e.Typ) }
func (e *Pipeline) exprNode()        {}

// Steps returns every step value in source order, input first.
func (e *Pipeline) Steps() []Expr {
	out := make([]Expr, 0, len(e.Assignments)+1)
	for _, a := range e.Assignments {
		out = append(out, a.Value)
	}
	if e.Finally != nil {
		out = append(out, e.Finally)
	}
	return out
}

type FnKind int

const (
	// FnAnonymous is a literal fn(x) { ... }.
	FnAnonymous FnKind = iota
	// FnCapture is a partial application f(_, x); its body is a single call
	// whose hole argument references the only parameter.
	FnCapture
)

// Fn is a function value.
type Fn struct {
	Loc              Span
	Typ              types.Type
	Kind             FnKind
	Params           []*Param
	ReturnAnnotation TypeAnn
	Body             []Statement
}

func (e *Fn) Location() Span   { return e.Loc }
func (e *Fn) Type() types.Type { return orUnknown(e.Typ) }
func (e *Fn) exprNode()        {}

// Todo marks an unfinished expression.
type Todo struct {
	Loc     Span
	Typ     types.Type
	Message Expr
}

func (e *Todo) Location() Span   { return e.Loc }
func (e *Todo) Type() types.Type { return orUnknown(e.Typ) }
func (e *Todo) exprNode()        {}

func orUnknown(t types.Type) types.Type {
	if t == nil {
		return types.Unknown
	}
	return t
}

// CaptureVarName is the parameter of a function capture; the hole written
// as _ in f(_, x) reads it.
const CaptureVarName = "_capture"

// CaptureCall returns the call wrapped by a capture.
func (e *Fn) CaptureCall() (*Call, bool) {
	if e.Kind != FnCapture || len(e.Body) != 1 {
		return nil, false
	}
	s, ok := e.Body[0].(*ExprStatement)
	if !ok {
		return nil, false
	}
	c, ok := s.Expr.(*Call)
	return c, ok
}
