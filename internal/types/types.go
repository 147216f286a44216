package types

import (
	"strings"
)

// Type is the interface for all resolved types.
type Type interface {
	String() string
	typeNode()
}

// Con is a nullary type constructor (e.g. Int, String).
type Con struct {
	Name string
}

func (t Con) String() string { return t.Name }
func (Con) typeNode()        {}

// App is a constructor applied to arguments (e.g. List(Int)).
type App struct {
	Name string
	Args []Type
}

func (t App) String() string {
	return t.Name + "(" + join(t.Args) + ")"
}
func (App) typeNode() {}

// Func is a function type fn(a, b) -> c.
type Func struct {
	Params []Type
	Return Type
}

func (t Func) String() string {
	ret := "?"
	if t.Return != nil {
		ret = t.Return.String()
	}
	return "fn(" + join(t.Params) + ") -> " + ret
}
func (Func) typeNode() {}

// Tuple is #(a, b, ...).
type Tuple struct {
	Elems []Type
}

func (t Tuple) String() string { return "#(" + join(t.Elems) + ")" }
func (Tuple) typeNode()        {}

// Var is a type variable: either a generic parameter written by the user
// (a, b) or an unknown left by best-effort inference.
type Var struct {
	Name string
}

func (t Var) String() string { return t.Name }
func (Var) typeNode()        {}

var (
	Int     Type = Con{Name: "Int"}
	Float   Type = Con{Name: "Float"}
	String  Type = Con{Name: "String"}
	Bool    Type = Con{Name: "Bool"}
	Nil     Type = Con{Name: "Nil"}
	Unknown Type = Var{Name: "?"}
)

// ListOf returns List(elem).
func ListOf(elem Type) Type {
	return App{Name: "List", Args: []Type{elem}}
}

// ElemOf returns the element type of a List type, or Unknown.
func ElemOf(t Type) Type {
	if app, ok := t.(App); ok && app.Name == "List" && len(app.Args) == 1 {
		return app.Args[0]
	}
	return Unknown
}

// IsUnknown reports whether t carries no information.
func IsUnknown(t Type) bool {
	if t == nil {
		return true
	}
	v, ok := t.(Var)
	return ok && v.Name == "?"
}

// Equal compares types structurally.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case Con:
		y, ok := b.(Con)
		return ok && x.Name == y.Name
	case Var:
		y, ok := b.(Var)
		return ok && x.Name == y.Name
	case App:
		y, ok := b.(App)
		return ok && x.Name == y.Name && equalAll(x.Args, y.Args)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && equalAll(x.Elems, y.Elems)
	case Func:
		y, ok := b.(Func)
		return ok && equalAll(x.Params, y.Params) && Equal(x.Return, y.Return)
	case nil:
		return b == nil
	}
	return false
}

func equalAll(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func join(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		if t == nil {
			parts[i] = "?"
			continue
		}
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
