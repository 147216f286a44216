package refactor

import (
	"github.com/funvibe/refactorls/internal/ast"
)

// Role is the syntactic position a usage occupies in its parent.
type Role int

const (
	RoleValue     Role = iota // whole value of a statement
	RoleLeft                  // left operand of a binary operation
	RoleRight                 // right operand of a binary operation
	RoleCallee                // function position of a call
	RoleArgument              // call argument
	RoleRecord                // record of a field access
	RoleNegated               // operand of - or !
	RoleElement               // list or tuple element, list tail, todo message
	RolePipeInput             // first value of a pipeline
)

// Usage is one reference to a binding.
type Usage struct {
	Var *ast.Var
	// Parent is the expression directly containing Var, or nil when Var is
	// the whole value of a statement.
	Parent ast.Expr
	Role   Role
}

// FindUsages returns every reference to the binding declared at decl inside
// fn, in source order. References are matched by declaration span, so
// shadowing bindings of the same name are never confused.
func FindUsages(fn *ast.Function, decl ast.Span) []Usage {
	if fn == nil {
		return nil
	}
	var out []Usage
	for _, stmt := range fn.Body {
		usagesInStatement(stmt, decl, &out, 0)
	}
	return out
}

func usagesInStatement(stmt ast.Statement, decl ast.Span, out *[]Usage, depth int) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		usagesIn(s.Value, nil, RoleValue, decl, out, depth+1)
	case *ast.ExprStatement:
		usagesIn(s.Expr, nil, RoleValue, decl, out, depth+1)
	case *ast.Use:
		usagesIn(s.Call, nil, RoleValue, decl, out, depth+1)
	}
}

func usagesIn(e ast.Expr, parent ast.Expr, role Role, decl ast.Span, out *[]Usage, depth int) {
	if e == nil || depth > ast.MaxTraversalDepth {
		return
	}
	next := depth + 1
	switch e := e.(type) {
	case *ast.Var:
		if e.Ref.Kind == ast.RefLocal && e.Ref.Decl == decl {
			*out = append(*out, Usage{Var: e, Parent: parent, Role: role})
		}
	case *ast.FieldAccess:
		usagesIn(e.Record, e, RoleRecord, decl, out, next)
	case *ast.Call:
		usagesIn(e.Fun, e, RoleCallee, decl, out, next)
		for _, arg := range e.Args {
			if !arg.Implicit {
				usagesIn(arg.Value, e, RoleArgument, decl, out, next)
			}
		}
	case *ast.BinOp:
		usagesIn(e.Left, e, RoleLeft, decl, out, next)
		usagesIn(e.Right, e, RoleRight, decl, out, next)
	case *ast.Negate:
		usagesIn(e.Value, e, RoleNegated, decl, out, next)
	case *ast.List:
		for _, el := range e.Elements {
			usagesIn(el, e, RoleElement, decl, out, next)
		}
		usagesIn(e.Tail, e, RoleElement, decl, out, next)
	case *ast.Tuple:
		for _, el := range e.Elems {
			usagesIn(el, e, RoleElement, decl, out, next)
		}
	case *ast.Block:
		for _, s := range e.Statements {
			usagesInStatement(s, decl, out, next)
		}
	case *ast.Pipeline:
		for i, step := range e.Steps() {
			if i == 0 {
				usagesIn(step, e, RolePipeInput, decl, out, next)
				continue
			}
			// later steps are desugared calls
			usagesIn(step, e, RoleValue, decl, out, next)
		}
	case *ast.Fn:
		for _, s := range e.Body {
			usagesInStatement(s, decl, out, next)
		}
	case *ast.Todo:
		usagesIn(e.Message, e, RoleElement, decl, out, next)
	}
}
