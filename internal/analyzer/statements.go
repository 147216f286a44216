package analyzer

import (
	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/symbols"
	"github.com/funvibe/refactorls/internal/types"
)

// analyzeBody analyzes statements in the current scope and returns the
// type of the last one. Bindings become visible to the statements after
// them only.
func (a *Analyzer) analyzeBody(stmts []ast.Statement) types.Type {
	result := types.Nil
	for _, stmt := range stmts {
		result = a.analyzeStatement(stmt)
	}
	return result
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement) types.Type {
	switch s := stmt.(type) {
	case *ast.Assignment:
		s.Value = a.analyzeExpr(s.Value)
		t := s.Value.Type()
		if s.Annotation != nil {
			t = annotationType(s.Annotation)
		}
		a.bindPattern(s.Pattern, t)
		return t
	case *ast.Use:
		s.Call = a.analyzeExpr(s.Call)
		for _, p := range s.Patterns {
			a.bindPattern(p, types.Unknown)
		}
		return s.Call.Type()
	case *ast.ExprStatement:
		s.Expr = a.analyzeExpr(s.Expr)
		return s.Expr.Type()
	}
	return types.Unknown
}

// bindPattern defines the variables of p with types taken from t where
// the shapes agree.
func (a *Analyzer) bindPattern(p ast.Pattern, t types.Type) {
	switch p := p.(type) {
	case *ast.PatternVar:
		p.Typ = t
		a.scope.Define(&symbols.Symbol{
			Name: p.Name,
			Kind: symbols.VariableSymbol,
			Type: t,
			Decl: p.Loc,
		})
	case *ast.PatternTuple:
		tuple, ok := t.(types.Tuple)
		for i, e := range p.Elems {
			et := types.Unknown
			if ok && i < len(tuple.Elems) {
				et = tuple.Elems[i]
			}
			a.bindPattern(e, et)
		}
	case *ast.PatternList:
		elem := types.ElemOf(t)
		for _, e := range p.Elements {
			a.bindPattern(e, elem)
		}
		if p.Tail != nil {
			a.bindPattern(p.Tail, t)
		}
	}
}
