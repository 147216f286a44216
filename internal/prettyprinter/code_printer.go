// Package prettyprinter renders expressions back to source text.
package prettyprinter

import (
	"bytes"

	"github.com/funvibe/refactorls/internal/ast"
)

// Operator precedence (higher = binds tighter). Matches the parser.
var operatorPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3,
	"!=": 3,
	"<":  4,
	">":  4,
	"<=": 4,
	">=": 4,
	"|>": 5,
	"+":  6,
	"-":  6,
	"<>": 6,
	"*":  7,
	"/":  7,
	"%":  7,
}

const (
	lowestPrec = 0
	prefixPrec = 8
	callPrec   = 9
	atomPrec   = 10
)

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return atomPrec
}

// Precedence reports how tightly e binds when placed inside a larger
// expression: binary operations and pipelines by operator, prefix
// operations below calls, everything else as an atom.
func Precedence(e ast.Expr) int {
	switch e := e.(type) {
	case *ast.BinOp:
		return getPrecedence(e.Op)
	case *ast.Pipeline:
		return getPrecedence("|>")
	case *ast.Negate:
		return prefixPrec
	}
	return atomPrec
}

type CodePrinter struct {
	buf    bytes.Buffer
	failed bool
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Render renders e as source text. It reports false when some part of e
// has no textual form: the implicit pipe placeholder on its own, anonymous
// function literals, and blocks containing more than one expression.
func Render(e ast.Expr) (string, bool) {
	p := NewCodePrinter()
	p.printExpr(e, lowestPrec, false)
	return p.Result()
}

// RenderCall renders call with its first skip arguments omitted, always
// with parentheses: f(a, b) with skip 1 is f(b).
func RenderCall(call *ast.Call, skip int) (string, bool) {
	p := NewCodePrinter()
	p.printCall(call, skip, false)
	return p.Result()
}

// Result returns the rendered text and whether it is complete.
func (p *CodePrinter) Result() (string, bool) {
	if p.failed {
		return "", false
	}
	return p.buf.String(), true
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) fail() {
	p.failed = true
}

// printExpr prints an expression, adding braces only if needed.
func (p *CodePrinter) printExpr(expr ast.Expr, parentPrec int, isRight bool) {
	if expr == nil || p.failed {
		p.fail()
		return
	}
	prec := Precedence(expr)
	needBraces := prec < parentPrec || (prec == parentPrec && isRight && prec < atomPrec)
	if needBraces {
		p.write("{ ")
	}

	switch e := expr.(type) {
	case *ast.Int:
		p.write(e.Lexeme)
	case *ast.Float:
		p.write(e.Lexeme)
	case *ast.String:
		p.write(e.Lexeme)
	case *ast.Var:
		p.printVar(e)
	case *ast.ModuleSelect:
		p.write(e.Module)
		p.write(".")
		p.write(e.Label)
	case *ast.FieldAccess:
		p.printExpr(e.Record, callPrec, false)
		p.write(".")
		p.write(e.Label)
	case *ast.Call:
		p.printCall(e, 0, false)
	case *ast.BinOp:
		p.printExpr(e.Left, prec, false)
		p.write(" " + e.Op + " ")
		p.printExpr(e.Right, prec, true)
	case *ast.Negate:
		p.write(e.Op)
		p.printExpr(e.Value, prefixPrec, false)
	case *ast.List:
		p.printList(e)
	case *ast.Tuple:
		p.write("#(")
		p.printExprs(e.Elems)
		p.write(")")
	case *ast.Block:
		p.printBlock(e)
	case *ast.Pipeline:
		p.printPipeline(e)
	case *ast.Fn:
		call, ok := e.CaptureCall()
		if !ok {
			p.fail()
			return
		}
		p.printCall(call, 0, false)
	case *ast.Todo:
		p.write("todo")
		if e.Message != nil {
			p.write(" as ")
			p.printExpr(e.Message, lowestPrec, false)
		}
	default:
		p.fail()
	}

	if needBraces {
		p.write(" }")
	}
}

func (p *CodePrinter) printVar(v *ast.Var) {
	switch {
	case v.Ref.Kind == ast.RefPipe:
		p.fail()
	case v.Name == ast.CaptureVarName:
		p.write("_")
	default:
		p.write(v.Name)
	}
}

// printCall writes fun(args). In a pipeline step the placeholder that was
// prepended by desugaring is dropped; one that fills a written hole is
// printed as _.
func (p *CodePrinter) printCall(call *ast.Call, skip int, step bool) {
	if step && call.Bare() {
		p.printExpr(call.Fun, callPrec, false)
		return
	}
	p.printExpr(call.Fun, callPrec, false)
	p.write("(")
	first := true
	for i, arg := range call.Args {
		if i < skip {
			continue
		}
		if step && arg.Implicit && i == 0 && arg.Label == "" && arg.Loc.Start == arg.Loc.End {
			continue
		}
		if !first {
			p.write(", ")
		}
		first = false
		if arg.Label != "" {
			p.write(arg.Label + ": ")
		}
		if step && arg.Implicit {
			p.write("_")
			continue
		}
		p.printExpr(arg.Value, lowestPrec, false)
	}
	p.write(")")
}

func (p *CodePrinter) printExprs(exprs []ast.Expr) {
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(e, lowestPrec, false)
	}
}

func (p *CodePrinter) printList(l *ast.List) {
	p.write("[")
	p.printExprs(l.Elements)
	if l.Tail != nil {
		if len(l.Elements) > 0 {
			p.write(", ")
		}
		p.write("..")
		p.printExpr(l.Tail, lowestPrec, false)
	}
	p.write("]")
}

// printBlock only handles a block that wraps a single expression.
func (p *CodePrinter) printBlock(b *ast.Block) {
	if len(b.Statements) != 1 {
		p.fail()
		return
	}
	s, ok := b.Statements[0].(*ast.ExprStatement)
	if !ok {
		p.fail()
		return
	}
	p.write("{ ")
	p.printExpr(s.Expr, lowestPrec, false)
	p.write(" }")
}

// printPipeline writes the pipeline on one line: a |> f(b) |> g.
func (p *CodePrinter) printPipeline(pl *ast.Pipeline) {
	steps := pl.Steps()
	if len(steps) == 0 {
		p.fail()
		return
	}
	prec := getPrecedence("|>")
	p.printExpr(steps[0], prec, false)
	for _, step := range steps[1:] {
		p.write(" |> ")
		if call, ok := step.(*ast.Call); ok {
			p.printCall(call, 0, true)
			continue
		}
		p.printExpr(step, prec, true)
	}
}

// Precedences of the positions an expression can be placed in.
const (
	PipePrecedence   = 5
	PrefixPrecedence = prefixPrec
	CallPrecedence   = callPrec
)

// OperatorPrecedence returns the binding strength of a binary operator.
func OperatorPrecedence(op string) int {
	return getPrecedence(op)
}

// RenderOperand renders e for a position of the given precedence, wrapping
// it in braces when it binds more loosely. isRight marks the right operand
// of a left-associative operator.
func RenderOperand(e ast.Expr, parentPrec int, isRight bool) (string, bool) {
	p := NewCodePrinter()
	p.printExpr(e, parentPrec, isRight)
	return p.Result()
}
