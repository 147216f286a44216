package parser

import (
	"strings"

	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/diagnostics"
	"github.com/funvibe/refactorls/internal/token"
)

// ParseModule parses imports and function definitions until EOF.
func (p *Parser) ParseModule() *ast.Module {
	module := &ast.Module{}
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.IMPORT:
			if imp := p.parseImport(); imp != nil {
				module.Imports = append(module.Imports, imp)
			}
		case token.PUB, token.FN:
			if fn := p.parseFunction(); fn != nil {
				module.Functions = append(module.Functions, fn)
			}
		default:
			p.addError(diagnostics.ErrP004, p.curToken,
				"expected import or function definition, got "+describeToken(p.curToken))
			p.skipToTopLevel()
		}
		p.nextToken()
	}
	return module
}

// skipToTopLevel leaves curToken on the last token before the next
// import or function definition.
func (p *Parser) skipToTopLevel() {
	for !p.peekTokenIs(token.EOF) && !p.peekTokenIs(token.IMPORT) &&
		!p.peekTokenIs(token.PUB) && !p.peekTokenIs(token.FN) {
		p.nextToken()
	}
}

// import gleam/list [as l]
func (p *Parser) parseImport() *ast.Import {
	start := p.curToken.Offset
	if !p.expectPeek(token.IDENT) {
		p.skipToTopLevel()
		return nil
	}
	segments := []string{p.curToken.Lexeme}
	for p.peekTokenIs(token.SLASH) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			p.skipToTopLevel()
			return nil
		}
		segments = append(segments, p.curToken.Lexeme)
	}
	imp := &ast.Import{Path: strings.Join(segments, "/"), Alias: segments[len(segments)-1]}
	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			p.skipToTopLevel()
			return nil
		}
		imp.Alias = p.curToken.Lexeme
	}
	imp.Loc = p.spanFrom(start)
	return imp
}

// [pub] fn name(params) [-> Type] { body }
func (p *Parser) parseFunction() *ast.Function {
	start := p.curToken.Offset
	fn := &ast.Function{}
	if p.curTokenIs(token.PUB) {
		fn.Public = true
		if !p.expectPeek(token.FN) {
			p.skipToTopLevel()
			return nil
		}
	}
	if !p.expectPeek(token.IDENT) {
		p.skipToTopLevel()
		return nil
	}
	fn.Name = p.curToken.Lexeme
	fn.NameLoc = ast.Span{Start: p.curToken.Offset, End: p.curToken.End}

	if !p.expectPeek(token.LPAREN) {
		p.skipToTopLevel()
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		p.skipToTopLevel()
		return nil
	}
	fn.Params = params

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		fn.ReturnAnnotation = p.parseTypeAnn()
		if fn.ReturnAnnotation == nil {
			p.skipToTopLevel()
			return nil
		}
	}
	if !p.expectPeek(token.LBRACE) {
		p.skipToTopLevel()
		return nil
	}
	fn.Body = p.parseStatements()
	fn.Loc = p.spanFrom(start)
	return fn
}

// parseParams parses (a, label b: Type) with curToken on the opening paren
// and leaves curToken on the closing one.
func (p *Parser) parseParams() ([]*ast.Param, bool) {
	var params []*ast.Param
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}
	for {
		p.nextToken()
		param := &ast.Param{}
		if (p.curTokenIs(token.IDENT) || p.curTokenIs(token.DISCARD)) &&
			(p.peekTokenIs(token.IDENT) || p.peekTokenIs(token.DISCARD)) {
			param.Label = p.curToken.Lexeme
			p.nextToken()
		}
		if !p.curTokenIs(token.IDENT) && !p.curTokenIs(token.DISCARD) {
			p.addError(diagnostics.ErrP001, p.curToken, "expected a parameter name, got "+describeToken(p.curToken))
			return nil, false
		}
		param.Name = p.curToken.Lexeme
		param.Loc = ast.Span{Start: p.curToken.Offset, End: p.curToken.End}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			param.Annotation = p.parseTypeAnn()
			if param.Annotation == nil {
				return nil, false
			}
		}
		params = append(params, param)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RPAREN) {
				p.nextToken()
				return params, true
			}
			continue
		}
		if !p.expectPeek(token.RPAREN) {
			return nil, false
		}
		return params, true
	}
}

// parseStatements parses a braced body with curToken on '{' and leaves
// curToken on the matching '}'.
func (p *Parser) parseStatements() []ast.Statement {
	var stmts []ast.Statement
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.addError(diagnostics.ErrP001, p.curToken, "expected \"}\", got end of file")
			return stmts
		}
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		} else {
			p.skipToStatementBoundary()
		}
		p.nextToken()
	}
	return stmts
}

// skipToStatementBoundary leaves curToken just before the next statement
// start or closing brace.
func (p *Parser) skipToStatementBoundary() {
	for !p.peekTokenIs(token.EOF) && !p.peekTokenIs(token.LET) &&
		!p.peekTokenIs(token.USE) && !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
	}
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.USE:
		return p.parseUseStatement()
	default:
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		return &ast.ExprStatement{Expr: expr}
	}
}

// let pattern [: Type] = value
func (p *Parser) parseLetStatement() ast.Statement {
	start := p.curToken.Offset
	p.nextToken()
	pattern := p.parsePattern()
	if pattern == nil {
		return nil
	}
	stmt := &ast.Assignment{Pattern: pattern}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.Annotation = p.parseTypeAnn()
		if stmt.Annotation == nil {
			return nil
		}
	}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

// use a, b <- call
func (p *Parser) parseUseStatement() ast.Statement {
	start := p.curToken.Offset
	stmt := &ast.Use{}
	if !p.peekTokenIs(token.L_ARROW) {
		for {
			p.nextToken()
			pattern := p.parsePattern()
			if pattern == nil {
				return nil
			}
			stmt.Patterns = append(stmt.Patterns, pattern)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}
	if !p.expectPeek(token.L_ARROW) {
		return nil
	}
	p.nextToken()
	stmt.Call = p.parseExpression(LOWEST)
	if stmt.Call == nil {
		return nil
	}
	stmt.Loc = p.spanFrom(start)
	return stmt
}

func (p *Parser) parsePattern() ast.Pattern {
	tok := p.curToken
	loc := ast.Span{Start: tok.Offset, End: tok.End}
	switch tok.Type {
	case token.IDENT:
		return &ast.PatternVar{Loc: loc, Name: tok.Lexeme}
	case token.DISCARD:
		return &ast.PatternDiscard{Loc: loc, Name: tok.Lexeme}
	case token.HASH_LPAREN:
		elems, ok := p.parsePatternList(token.RPAREN)
		if !ok {
			return nil
		}
		return &ast.PatternTuple{Loc: p.spanFrom(tok.Offset), Elems: elems}
	case token.LBRACKET:
		return p.parseListPattern()
	default:
		p.addError(diagnostics.ErrP003, tok, "expected a pattern, got "+describeToken(tok))
		return nil
	}
}

func (p *Parser) parsePatternList(end token.TokenType) ([]ast.Pattern, bool) {
	var elems []ast.Pattern
	if p.peekTokenIs(end) {
		p.nextToken()
		return elems, true
	}
	for {
		p.nextToken()
		elem := p.parsePattern()
		if elem == nil {
			return nil, false
		}
		elems = append(elems, elem)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(end) {
				p.nextToken()
				return elems, true
			}
			continue
		}
		if !p.expectPeek(end) {
			return nil, false
		}
		return elems, true
	}
}

// [a, b, ..rest]
func (p *Parser) parseListPattern() ast.Pattern {
	start := p.curToken.Offset
	list := &ast.PatternList{}
	for !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		if p.curTokenIs(token.DOT_DOT) {
			if p.peekTokenIs(token.RBRACKET) {
				list.Tail = &ast.PatternDiscard{Loc: ast.Span{Start: p.curToken.End, End: p.curToken.End}}
			} else {
				p.nextToken()
				if list.Tail = p.parsePattern(); list.Tail == nil {
					return nil
				}
			}
			break
		}
		elem := p.parsePattern()
		if elem == nil {
			return nil
		}
		list.Elements = append(list.Elements, elem)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	list.Loc = p.spanFrom(start)
	return list
}
