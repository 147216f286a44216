package analyzer

import (
	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/types"
)

// annotationType converts a written annotation; a missing one is Unknown.
func annotationType(ann ast.TypeAnn) types.Type {
	switch a := ann.(type) {
	case *ast.NamedAnn:
		if len(a.Args) == 0 {
			return types.Con{Name: a.Name}
		}
		args := make([]types.Type, len(a.Args))
		for i, arg := range a.Args {
			args[i] = annotationType(arg)
		}
		return types.App{Name: a.Name, Args: args}
	case *ast.VarAnn:
		return types.Var{Name: a.Name}
	case *ast.TupleAnn:
		elems := make([]types.Type, len(a.Elems))
		for i, e := range a.Elems {
			elems[i] = annotationType(e)
		}
		return types.Tuple{Elems: elems}
	case *ast.FnAnn:
		params := make([]types.Type, len(a.Params))
		for i, p := range a.Params {
			params[i] = annotationType(p)
		}
		return types.Func{Params: params, Return: annotationType(a.Return)}
	}
	return types.Unknown
}

// signature builds the function type from parameter and return annotations.
func signature(params []*ast.Param, ret ast.TypeAnn) types.Type {
	ps := make([]types.Type, len(params))
	for i, p := range params {
		ps[i] = annotationType(p.Annotation)
	}
	return types.Func{Params: ps, Return: annotationType(ret)}
}

// constructors are the value constructors known without declarations.
var constructors = map[string]types.Type{
	"True":  types.Bool,
	"False": types.Bool,
	"Nil":   types.Nil,
	"Ok":    types.Func{Params: []types.Type{types.Var{Name: "a"}}, Return: types.App{Name: "Result", Args: []types.Type{types.Var{Name: "a"}, types.Var{Name: "e"}}}},
	"Error": types.Func{Params: []types.Type{types.Var{Name: "e"}}, Return: types.App{Name: "Result", Args: []types.Type{types.Var{Name: "a"}, types.Var{Name: "e"}}}},
	"Some":  types.Func{Params: []types.Type{types.Var{Name: "a"}}, Return: types.App{Name: "Option", Args: []types.Type{types.Var{Name: "a"}}}},
	"None":  types.App{Name: "Option", Args: []types.Type{types.Var{Name: "a"}}},
}

func constructorType(name string) types.Type {
	if t, ok := constructors[name]; ok {
		return t
	}
	return types.Unknown
}
