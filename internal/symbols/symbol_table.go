package symbols

import (
	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/types"
)

type SymbolKind int

type ScopeType int

const (
	ScopeGlobal ScopeType = iota // imports and top-level functions
	ScopeFunction
	ScopeBlock
)

const (
	VariableSymbol SymbolKind = iota // let, use, or parameter binding
	FunctionSymbol                   // top-level function
	ModuleSymbol                     // import alias
)

type Symbol struct {
	Name string
	Kind SymbolKind
	Type types.Type
	// Decl is the span of the declaring name; local references resolve to it.
	Decl ast.Span
}

// Scope is one level of the lexical scope chain.
type Scope struct {
	outer   *Scope
	kind    ScopeType
	symbols map[string]*Symbol
}

func NewScope(outer *Scope, kind ScopeType) *Scope {
	return &Scope{outer: outer, kind: kind, symbols: make(map[string]*Symbol)}
}

func (s *Scope) Outer() *Scope   { return s.outer }
func (s *Scope) Kind() ScopeType { return s.kind }

// Define binds sym in this scope, shadowing any outer binding of the same
// name. Redefining a name in the same scope replaces it.
func (s *Scope) Define(sym *Symbol) {
	s.symbols[sym.Name] = sym
}

// Lookup walks outward until name is found.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal only consults this scope.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// IsLocal reports whether sym is bound inside a function rather than at
// module level.
func (sym *Symbol) IsLocal() bool {
	return sym.Kind == VariableSymbol
}
