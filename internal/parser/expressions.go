package parser

import (
	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/diagnostics"
	"github.com/funvibe/refactorls/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expr {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.addError(diagnostics.ErrP005, p.curToken,
			"expression too complex: recursion depth limit exceeded")
		p.abort()
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}
	return leftExp
}

func (p *Parser) curSpan() ast.Span {
	return ast.Span{Start: p.curToken.Offset, End: p.curToken.End}
}

func (p *Parser) parseInt() ast.Expr {
	return &ast.Int{Loc: p.curSpan(), Lexeme: p.curToken.Lexeme}
}

func (p *Parser) parseFloat() ast.Expr {
	return &ast.Float{Loc: p.curSpan(), Lexeme: p.curToken.Lexeme}
}

func (p *Parser) parseString() ast.Expr {
	return &ast.String{Loc: p.curSpan(), Lexeme: p.curToken.Lexeme}
}

func (p *Parser) parseIdentifier() ast.Expr {
	return &ast.Var{Loc: p.curSpan(), Name: p.curToken.Lexeme}
}

func (p *Parser) parseStrayDiscard() ast.Expr {
	p.addError(diagnostics.ErrP002, p.curToken,
		"discard "+p.curToken.Lexeme+" cannot be used as a value; only _ as a call argument creates a function capture")
	return nil
}

// -x, !x
func (p *Parser) parsePrefixExpression() ast.Expr {
	start := p.curToken.Offset
	op := p.curToken.Lexeme
	p.nextToken()
	value := p.parseExpression(PREFIX)
	if value == nil {
		return nil
	}
	return &ast.Negate{Loc: p.spanFrom(start), Op: op, Value: value}
}

func (p *Parser) parseInfixExpression(left ast.Expr) ast.Expr {
	op := p.curToken.Lexeme
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.BinOp{
		Loc:   ast.Span{Start: left.Location().Start, End: right.Location().End},
		Op:    op,
		Left:  left,
		Right: right,
	}
}

// { statements }
func (p *Parser) parseBlock() ast.Expr {
	start := p.curToken.Offset
	stmts := p.parseStatements()
	if !p.curTokenIs(token.RBRACE) {
		return nil
	}
	if len(stmts) == 0 {
		p.addError(diagnostics.ErrP001, p.curToken, "empty block: a block needs at least one expression")
	}
	return &ast.Block{Loc: p.spanFrom(start), Statements: stmts}
}

// [a, b, ..tail]
func (p *Parser) parseList() ast.Expr {
	start := p.curToken.Offset
	list := &ast.List{}
	for !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		if p.curTokenIs(token.DOT_DOT) {
			p.nextToken()
			if list.Tail = p.parseExpression(LOWEST); list.Tail == nil {
				return nil
			}
			break
		}
		elem := p.parseExpression(LOWEST)
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

// #(a, b)
func (p *Parser) parseTuple() ast.Expr {
	start := p.curToken.Offset
	elems, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	return &ast.Tuple{Loc: p.spanFrom(start), Elems: elems}
}

// parseExpressionList is entered on the opening delimiter and leaves
// curToken on end. A trailing comma is accepted.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expr, bool) {
	var list []ast.Expr
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}
	for {
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(end) {
				p.nextToken()
				return list, true
			}
			continue
		}
		if !p.expectPeek(end) {
			return nil, false
		}
		return list, true
	}
}

// fn(a, b) [-> Type] { body }
func (p *Parser) parseFnLiteral() ast.Expr {
	start := p.curToken.Offset
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	fn := &ast.Fn{Kind: ast.FnAnonymous, Params: params}
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		if fn.ReturnAnnotation = p.parseTypeAnn(); fn.ReturnAnnotation == nil {
			return nil
		}
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseStatements()
	if !p.curTokenIs(token.RBRACE) {
		return nil
	}
	fn.Loc = p.spanFrom(start)
	return fn
}

// todo [as message]
func (p *Parser) parseTodo() ast.Expr {
	start := p.curToken.Offset
	todo := &ast.Todo{}
	if p.peekTokenIs(token.AS) {
		p.nextToken()
		p.nextToken()
		if todo.Message = p.parseExpression(LOWEST); todo.Message == nil {
			return nil
		}
	}
	todo.Loc = p.spanFrom(start)
	return todo
}

// record.label, module.member, tuple.0
func (p *Parser) parseFieldAccess(left ast.Expr) ast.Expr {
	if !p.peekTokenIs(token.IDENT) && !p.peekTokenIs(token.UPNAME) && !p.peekTokenIs(token.INT) {
		p.peekError(token.IDENT)
		return nil
	}
	p.nextToken()
	return &ast.FieldAccess{
		Loc:    p.spanFrom(left.Location().Start),
		Record: left,
		Label:  p.curToken.Lexeme,
	}
}

// f(a, label: b). A single _ argument turns the call into a capture.
func (p *Parser) parseCallExpression(fun ast.Expr) ast.Expr {
	args, holes, ok := p.parseCallArguments()
	if !ok {
		return nil
	}
	call := &ast.Call{
		Loc:  p.spanFrom(fun.Location().Start),
		Fun:  fun,
		Args: args,
	}
	switch len(holes) {
	case 0:
		return call
	case 1:
		return makeCapture(call, holes[0])
	default:
		p.addError(diagnostics.ErrP001, p.curToken, "a function capture may contain only one _")
		return nil
	}
}

func (p *Parser) parseCallArguments() (args, holes []*ast.CallArg, ok bool) {
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args, nil, true
	}
	for {
		p.nextToken()
		start := p.curToken.Offset
		arg := &ast.CallArg{}
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
			arg.Label = p.curToken.Lexeme
			p.nextToken()
			p.nextToken()
		}
		if p.curTokenIs(token.DISCARD) && p.curToken.Lexeme == "_" &&
			(p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.RPAREN)) {
			arg.Loc = p.spanFrom(start)
			arg.Value = &ast.Var{Loc: p.curSpan(), Name: ast.CaptureVarName}
			holes = append(holes, arg)
		} else {
			if arg.Value = p.parseExpression(LOWEST); arg.Value == nil {
				return nil, nil, false
			}
			arg.Loc = p.spanFrom(start)
		}
		args = append(args, arg)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RPAREN) {
				p.nextToken()
				return args, holes, true
			}
			continue
		}
		if !p.expectPeek(token.RPAREN) {
			return nil, nil, false
		}
		return args, holes, true
	}
}
