package analyzer

import (
	"fmt"

	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/diagnostics"
	"github.com/funvibe/refactorls/internal/symbols"
	"github.com/funvibe/refactorls/internal/types"
)

// Analyzer resolves every name in a module and assigns best-effort types.
// It mutates the tree it is given; the result is treated as immutable once
// the module is published in a snapshot.
type Analyzer struct {
	content string
	globals *symbols.Scope
	scope   *symbols.Scope
	// pipeType is the type of the value carried by the current pipe
	// placeholder.
	pipeType types.Type
	errors   []*diagnostics.DiagnosticError
}

// New creates an analyzer. content is only used to locate diagnostics.
func New(content string) *Analyzer {
	return &Analyzer{content: content}
}

// Analyze resolves m in place and returns the problems found.
func (a *Analyzer) Analyze(m *ast.Module) []*diagnostics.DiagnosticError {
	a.globals = symbols.NewScope(nil, symbols.ScopeGlobal)
	a.declareImports(m)
	a.declareFunctions(m)

	for _, fn := range m.Functions {
		a.analyzeFunction(fn)
	}
	return a.errors
}

func (a *Analyzer) declareImports(m *ast.Module) {
	for _, imp := range m.Imports {
		if prev, ok := a.globals.LookupLocal(imp.Alias); ok && prev.Kind == symbols.ModuleSymbol {
			a.errorAt(diagnostics.ErrA003, imp.Loc, fmt.Sprintf("module alias %s is imported twice", imp.Alias))
			continue
		}
		a.globals.Define(&symbols.Symbol{
			Name: imp.Alias,
			Kind: symbols.ModuleSymbol,
			Type: types.Unknown,
			Decl: imp.Loc,
		})
	}
}

func (a *Analyzer) declareFunctions(m *ast.Module) {
	for _, fn := range m.Functions {
		if prev, ok := a.globals.LookupLocal(fn.Name); ok && prev.Kind == symbols.FunctionSymbol {
			a.errorAt(diagnostics.ErrA003, fn.NameLoc, fmt.Sprintf("function %s is defined more than once", fn.Name))
			continue
		}
		fn.Typ = signature(fn.Params, fn.ReturnAnnotation)
		a.globals.Define(&symbols.Symbol{
			Name: fn.Name,
			Kind: symbols.FunctionSymbol,
			Type: fn.Typ,
			Decl: fn.NameLoc,
		})
	}
}

func (a *Analyzer) analyzeFunction(fn *ast.Function) {
	a.scope = symbols.NewScope(a.globals, symbols.ScopeFunction)
	a.defineParams(fn.Params)
	bodyType := a.analyzeBody(fn.Body)

	if sig, ok := fn.Typ.(types.Func); ok && fn.ReturnAnnotation == nil {
		sig.Return = bodyType
		fn.Typ = sig
	}
	a.scope = nil
}

func (a *Analyzer) defineParams(params []*ast.Param) {
	for _, p := range params {
		if p.Typ == nil {
			p.Typ = annotationType(p.Annotation)
		}
		if p.Name == "" || p.Name[0] == '_' && p.Name != ast.CaptureVarName {
			continue
		}
		a.scope.Define(&symbols.Symbol{
			Name: p.Name,
			Kind: symbols.VariableSymbol,
			Type: p.Typ,
			Decl: p.Loc,
		})
	}
}

func (a *Analyzer) pushScope(kind symbols.ScopeType) {
	a.scope = symbols.NewScope(a.scope, kind)
}

func (a *Analyzer) popScope() {
	a.scope = a.scope.Outer()
}

func (a *Analyzer) errorAt(code diagnostics.ErrorCode, loc ast.Span, msg string) {
	a.errors = append(a.errors, diagnostics.NewError(code, diagnostics.At(a.content, loc.Start, loc.End), msg))
}
