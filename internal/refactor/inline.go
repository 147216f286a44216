package refactor

import (
	"fmt"
	"strings"

	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/edit"
	"github.com/funvibe/refactorls/internal/prettyprinter"
)

type InlineOptions struct {
	// RemoveDeclarationAlways substitutes every usage and deletes the let
	// even when invoked on one usage among several.
	RemoveDeclarationAlways bool
}

// InlineAtDeclaration replaces every usage of the variable bound by assign
// with its value and deletes the let.
func InlineAtDeclaration(src string, fn *ast.Function, assign *ast.Assignment) ([]edit.Edit, error) {
	pv, ok := assign.Pattern.(*ast.PatternVar)
	if !ok {
		return nil, fmt.Errorf("%w: only a let binding a single variable can be inlined", ErrNotInlinable)
	}
	usages := FindUsages(fn, pv.Loc)
	if len(usages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnused, pv.Name)
	}
	return inline(src, fn, assign, usages, true)
}

// InlineAtUsage replaces the usage v with the value of its let. The let is
// deleted when v is its only usage; otherwise it stays and only v changes.
func InlineAtUsage(src string, fn *ast.Function, v *ast.Var, opts InlineOptions) ([]edit.Edit, error) {
	if v.Ref.Kind != ast.RefLocal {
		return nil, fmt.Errorf("%w: %s is not a local variable", ErrNotInlinable, v.Name)
	}
	assign := ast.FindAssignment(fn, v.Ref.Decl)
	if assign == nil {
		what := "a parameter or pattern binding"
		if _, ok := ast.FindBinding(fn, v.Ref.Decl).(*ast.PatternVar); ok {
			what = "bound by a destructuring pattern or use"
		}
		return nil, fmt.Errorf("%w: %s is %s", ErrNotInlinable, v.Name, what)
	}
	usages := FindUsages(fn, v.Ref.Decl)
	if len(usages) == 1 || opts.RemoveDeclarationAlways {
		return inline(src, fn, assign, usages, true)
	}
	for _, u := range usages {
		if u.Var.Loc == v.Loc {
			return inline(src, fn, assign, []Usage{u}, false)
		}
	}
	return nil, fmt.Errorf("%w: %s is not a usage of its declaration", ErrNotInlinable, v.Name)
}

func inline(src string, fn *ast.Function, assign *ast.Assignment, usages []Usage, removeDecl bool) ([]edit.Edit, error) {
	if _, ok := prettyprinter.Render(assign.Value); !ok {
		return nil, fmt.Errorf("%w: bound value", ErrUnrenderable)
	}

	var removed *ast.Span
	if removeDecl {
		removed = &assign.Pattern.(*ast.PatternVar).Loc
	}
	refs := referencedNames(assign.Value)
	bindings := collectBindings(fn)

	var edits []edit.Edit
	if removeDecl {
		edits = append(edits, edit.Delete(deletionSpan(src, assign.Loc)))
	}
	for _, u := range usages {
		if name, ok := shadowed(refs, bindings, u.Var.Loc.Start, removed); ok {
			return nil, fmt.Errorf("%w: %s at offset %d", ErrShadowed, name, u.Var.Loc.Start)
		}
		prec, right := operandPosition(u)
		text, ok := prettyprinter.RenderOperand(assign.Value, prec, right)
		if !ok {
			return nil, fmt.Errorf("%w: bound value", ErrUnrenderable)
		}
		edits = append(edits, edit.Replace(u.Var.Loc, text))
	}
	return edit.Compose(edits...)
}

// operandPosition returns the precedence of the slot u occupies, so the
// substituted value is braced only where it would otherwise regroup.
func operandPosition(u Usage) (int, bool) {
	switch u.Role {
	case RoleLeft, RoleRight:
		if b, ok := u.Parent.(*ast.BinOp); ok {
			return prettyprinter.OperatorPrecedence(b.Op), u.Role == RoleRight
		}
	case RoleCallee, RoleRecord:
		return prettyprinter.CallPrecedence, false
	case RoleNegated:
		return prettyprinter.PrefixPrecedence, false
	case RolePipeInput:
		return prettyprinter.PipePrecedence, false
	}
	return 0, false
}

// deletionSpan widens the span of a statement to its whole lines when
// nothing else shares them; otherwise the blanks that follow it on the
// same line go too.
func deletionSpan(src string, loc ast.Span) ast.Span {
	lineStart := strings.LastIndexByte(src[:loc.Start], '\n') + 1
	lineEnd := len(src)
	if i := strings.IndexByte(src[loc.End:], '\n'); i >= 0 {
		lineEnd = loc.End + i
	}
	if isBlank(src[lineStart:loc.Start]) && isBlank(src[loc.End:lineEnd]) {
		if lineEnd < len(src) {
			lineEnd++
		}
		return ast.Span{Start: lineStart, End: lineEnd}
	}
	end := loc.End
	for end < lineEnd && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return ast.Span{Start: loc.Start, End: end}
}

func isBlank(s string) bool {
	return strings.Trim(s, " \t\r") == ""
}

// nameRef is a name the inlined value reads from outside itself.
type nameRef struct {
	local bool
	decl  ast.Span
}

func referencedNames(value ast.Expr) map[string]nameRef {
	refs := make(map[string]nameRef)
	inside := value.Location()
	ast.Inspect(value, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Var:
			switch n.Ref.Kind {
			case ast.RefLocal:
				if !inside.Covers(n.Ref.Decl) {
					refs[n.Name] = nameRef{local: true, decl: n.Ref.Decl}
				}
			case ast.RefModule, ast.RefImport:
				refs[n.Name] = nameRef{}
			}
		case *ast.ModuleSelect:
			refs[n.Module] = nameRef{}
		}
		return true
	})
	return refs
}

// binding is a local name together with the region where it is visible.
type binding struct {
	name  string
	decl  ast.Span
	scope ast.Span
}

func collectBindings(fn *ast.Function) []binding {
	var out []binding
	addParams := func(params []*ast.Param, scope ast.Span) {
		for _, p := range params {
			out = append(out, binding{name: p.Name, decl: p.Loc, scope: scope})
		}
	}
	addStmts := func(stmts []ast.Statement, end int) {
		for _, s := range stmts {
			var patterns []ast.Pattern
			switch s := s.(type) {
			case *ast.Assignment:
				patterns = []ast.Pattern{s.Pattern}
			case *ast.Use:
				patterns = s.Patterns
			}
			for _, p := range patterns {
				for _, pv := range ast.PatternVars(p) {
					out = append(out, binding{
						name:  pv.Name,
						decl:  pv.Loc,
						scope: ast.Span{Start: s.Location().End, End: end},
					})
				}
			}
		}
	}

	addParams(fn.Params, fn.Loc)
	addStmts(fn.Body, fn.Loc.End)
	ast.Inspect(fn, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Block:
			addStmts(n.Statements, n.Loc.End)
		case *ast.Fn:
			addParams(n.Params, n.Loc)
			addStmts(n.Body, n.Loc.End)
		}
		return true
	})
	return out
}

// shadowed reports a name read by the value that resolves differently at
// offset: a local declared after the one the value reads, or any local
// hiding a module-level name. The binding being removed is ignored.
func shadowed(refs map[string]nameRef, bindings []binding, offset int, removed *ast.Span) (string, bool) {
	for _, b := range bindings {
		if removed != nil && b.decl == *removed {
			continue
		}
		ref, ok := refs[b.name]
		if !ok || !b.scope.Contains(offset) {
			continue
		}
		if !ref.local || (b.decl != ref.decl && b.decl.Start > ref.decl.Start) {
			return b.name, true
		}
	}
	return "", false
}
