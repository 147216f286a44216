package analyzer

import (
	"fmt"

	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/diagnostics"
	"github.com/funvibe/refactorls/internal/symbols"
	"github.com/funvibe/refactorls/internal/types"
)

// analyzeExpr resolves e and sets its type. The returned expression
// replaces e in its parent: record access on an import alias becomes a
// ModuleSelect.
func (a *Analyzer) analyzeExpr(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.Int:
		e.Typ = types.Int
	case *ast.Float:
		e.Typ = types.Float
	case *ast.String:
		e.Typ = types.String
	case *ast.Var:
		a.resolveVar(e)
	case *ast.ModuleSelect:
		e.Typ = types.Unknown
	case *ast.FieldAccess:
		return a.analyzeFieldAccess(e)
	case *ast.Call:
		a.analyzeCall(e)
	case *ast.BinOp:
		e.Left = a.analyzeExpr(e.Left)
		e.Right = a.analyzeExpr(e.Right)
		e.Typ = binOpType(e.Op, e.Left.Type(), e.Right.Type())
	case *ast.Negate:
		e.Value = a.analyzeExpr(e.Value)
		if e.Op == "!" {
			e.Typ = types.Bool
		} else {
			e.Typ = e.Value.Type()
		}
	case *ast.List:
		elem := types.Unknown
		for i, el := range e.Elements {
			e.Elements[i] = a.analyzeExpr(el)
			if types.IsUnknown(elem) {
				elem = e.Elements[i].Type()
			}
		}
		if e.Tail != nil {
			e.Tail = a.analyzeExpr(e.Tail)
			if types.IsUnknown(elem) {
				elem = types.ElemOf(e.Tail.Type())
			}
		}
		e.Typ = types.ListOf(elem)
	case *ast.Tuple:
		elems := make([]types.Type, len(e.Elems))
		for i, el := range e.Elems {
			e.Elems[i] = a.analyzeExpr(el)
			elems[i] = e.Elems[i].Type()
		}
		e.Typ = types.Tuple{Elems: elems}
	case *ast.Block:
		a.pushScope(symbols.ScopeBlock)
		e.Typ = a.analyzeBody(e.Statements)
		a.popScope()
	case *ast.Pipeline:
		a.analyzePipeline(e)
	case *ast.Fn:
		a.analyzeFn(e)
	case *ast.Todo:
		if e.Message != nil {
			e.Message = a.analyzeExpr(e.Message)
		}
		e.Typ = types.Unknown
	}
	return e
}

func (a *Analyzer) resolveVar(v *ast.Var) {
	if v.Ref.Kind == ast.RefPipe {
		v.Typ = a.pipeType
		return
	}
	if isConstructorName(v.Name) {
		v.Ref = ast.VarRef{Kind: ast.RefConstructor}
		v.Typ = constructorType(v.Name)
		return
	}
	sym, ok := a.scope.Lookup(v.Name)
	if !ok {
		v.Ref = ast.VarRef{Kind: ast.RefUnresolved}
		v.Typ = types.Unknown
		a.errorAt(diagnostics.ErrA001, v.Loc, fmt.Sprintf("unknown variable %s", v.Name))
		return
	}
	v.Typ = sym.Type
	switch sym.Kind {
	case symbols.VariableSymbol:
		v.Ref = ast.VarRef{Kind: ast.RefLocal, Decl: sym.Decl}
	case symbols.FunctionSymbol:
		v.Ref = ast.VarRef{Kind: ast.RefModule, Decl: sym.Decl}
	case symbols.ModuleSymbol:
		v.Ref = ast.VarRef{Kind: ast.RefImport, Decl: sym.Decl}
	}
}

func (a *Analyzer) analyzeFieldAccess(e *ast.FieldAccess) ast.Expr {
	if rec, ok := e.Record.(*ast.Var); ok {
		sym, found := a.scope.Lookup(rec.Name)
		if found && sym.Kind == symbols.ModuleSymbol {
			return &ast.ModuleSelect{
				Loc:       e.Loc,
				Typ:       types.Unknown,
				Module:    rec.Name,
				ModuleLoc: rec.Loc,
				Label:     e.Label,
			}
		}
		if !found && !isConstructorName(rec.Name) {
			a.errorAt(diagnostics.ErrA002, rec.Loc, fmt.Sprintf("unknown module or variable %s", rec.Name))
			rec.Ref = ast.VarRef{Kind: ast.RefUnresolved}
			e.Typ = types.Unknown
			return e
		}
	}
	e.Record = a.analyzeExpr(e.Record)
	e.Typ = fieldType(e.Record.Type(), e.Label)
	return e
}

func (a *Analyzer) analyzeCall(c *ast.Call) {
	c.Fun = a.analyzeExpr(c.Fun)
	for _, arg := range c.Args {
		arg.Value = a.analyzeExpr(arg.Value)
	}
	c.Typ = types.Unknown
	if sig, ok := c.Fun.Type().(types.Func); ok && sig.Return != nil {
		c.Typ = sig.Return
	}
}

func (a *Analyzer) analyzePipeline(p *ast.Pipeline) {
	saved := a.pipeType
	defer func() { a.pipeType = saved }()

	a.pipeType = types.Unknown
	for _, step := range p.Assignments {
		step.Value = a.analyzeExpr(step.Value)
		a.pipeType = step.Value.Type()
	}
	p.Finally = a.analyzeExpr(p.Finally)
	p.Typ = p.Finally.Type()
}

func (a *Analyzer) analyzeFn(fn *ast.Fn) {
	saved := a.pipeType
	a.pipeType = types.Unknown
	a.pushScope(symbols.ScopeFunction)
	a.defineParams(fn.Params)
	ret := a.analyzeBody(fn.Body)
	a.popScope()
	a.pipeType = saved

	if fn.ReturnAnnotation != nil {
		ret = annotationType(fn.ReturnAnnotation)
	}
	params := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Typ
	}
	fn.Typ = types.Func{Params: params, Return: ret}
}

func binOpType(op string, left, right types.Type) types.Type {
	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return types.Bool
	case "<>":
		return types.String
	case "+", "-", "*", "/", "%":
		if types.Equal(left, right) && !types.IsUnknown(left) {
			return left
		}
		if types.IsUnknown(left) {
			return right
		}
		return left
	}
	return types.Unknown
}

// fieldType handles tuple indexing; record labels stay Unknown.
func fieldType(record types.Type, label string) types.Type {
	tuple, ok := record.(types.Tuple)
	if !ok {
		return types.Unknown
	}
	idx := 0
	for _, r := range label {
		if r < '0' || r > '9' {
			return types.Unknown
		}
		idx = idx*10 + int(r-'0')
	}
	if idx < len(tuple.Elems) {
		return tuple.Elems[idx]
	}
	return types.Unknown
}

func isConstructorName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
