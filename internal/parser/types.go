package parser

import (
	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/diagnostics"
	"github.com/funvibe/refactorls/internal/token"
)

// parseTypeAnn parses a type annotation starting at curToken and leaves
// curToken on its last token.
func (p *Parser) parseTypeAnn() ast.TypeAnn {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.addError(diagnostics.ErrP005, p.curToken, "type annotation too deeply nested")
		p.abort()
		return nil
	}

	start := p.curToken.Offset
	switch p.curToken.Type {
	case token.UPNAME:
		return p.parseNamedAnn(start, "")
	case token.IDENT:
		if p.peekTokenIs(token.DOT) {
			module := p.curToken.Lexeme
			p.nextToken()
			if !p.expectPeek(token.UPNAME) {
				return nil
			}
			return p.parseNamedAnn(start, module)
		}
		return &ast.VarAnn{Loc: p.spanFrom(start), Name: p.curToken.Lexeme}
	case token.HASH_LPAREN:
		elems, ok := p.parseTypeAnnList()
		if !ok {
			return nil
		}
		return &ast.TupleAnn{Loc: p.spanFrom(start), Elems: elems}
	case token.FN:
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		params, ok := p.parseTypeAnnList()
		if !ok {
			return nil
		}
		if !p.expectPeek(token.ARROW) {
			return nil
		}
		p.nextToken()
		ret := p.parseTypeAnn()
		if ret == nil {
			return nil
		}
		return &ast.FnAnn{Loc: p.spanFrom(start), Params: params, Return: ret}
	default:
		p.addError(diagnostics.ErrP001, p.curToken, "expected a type, got "+describeToken(p.curToken))
		return nil
	}
}

// parseNamedAnn is entered with curToken on the type name.
func (p *Parser) parseNamedAnn(start int, module string) ast.TypeAnn {
	ann := &ast.NamedAnn{Module: module, Name: p.curToken.Lexeme}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args, ok := p.parseTypeAnnList()
		if !ok {
			return nil
		}
		ann.Args = args
	}
	ann.Loc = p.spanFrom(start)
	return ann
}

// parseTypeAnnList is entered on an opening paren and leaves curToken on the
// closing one.
func (p *Parser) parseTypeAnnList() ([]ast.TypeAnn, bool) {
	var out []ast.TypeAnn
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return out, true
	}
	for {
		p.nextToken()
		ann := p.parseTypeAnn()
		if ann == nil {
			return nil, false
		}
		out = append(out, ann)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RPAREN) {
				p.nextToken()
				return out, true
			}
			continue
		}
		if !p.expectPeek(token.RPAREN) {
			return nil, false
		}
		return out, true
	}
}
