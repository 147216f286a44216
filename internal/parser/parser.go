package parser

import (
	"fmt"

	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/diagnostics"
	"github.com/funvibe/refactorls/internal/pipeline"
	"github.com/funvibe/refactorls/internal/token"
)

// MaxRecursionDepth bounds nested expression parsing.
const MaxRecursionDepth = 500

const (
	_ int = iota
	LOWEST
	LOGIC_OR  // ||
	LOGIC_AND // &&
	EQUALS    // == !=
	COMPARE   // < > <= >=
	PIPE      // |>
	SUM       // + - <>
	PRODUCT   // * / %
	PREFIX    // -x !x
	CALL      // f(x) a.b
)

var precedences = map[token.TokenType]int{
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       COMPARE,
	token.GT:       COMPARE,
	token.LTE:      COMPARE,
	token.GTE:      COMPARE,
	token.PIPE_GT:  PIPE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.CONCAT:   SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   CALL,
	token.DOT:      CALL,
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

type Parser struct {
	ctx    *pipeline.PipelineContext
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	depth   int
	aborted bool

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

// New creates a parser over tokens; tokens must end with EOF. Errors are
// appended to ctx.
func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		end := len(ctx.Content)
		tokens = append(tokens, token.Token{Type: token.EOF, Offset: end, End: end})
	}
	p := &Parser{ctx: ctx, tokens: tokens, pos: -2}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.INT:         p.parseInt,
		token.FLOAT:       p.parseFloat,
		token.STRING:      p.parseString,
		token.IDENT:       p.parseIdentifier,
		token.UPNAME:      p.parseIdentifier,
		token.DISCARD:     p.parseStrayDiscard,
		token.MINUS:       p.parsePrefixExpression,
		token.BANG:        p.parsePrefixExpression,
		token.LBRACE:      p.parseBlock,
		token.LBRACKET:    p.parseList,
		token.HASH_LPAREN: p.parseTuple,
		token.FN:          p.parseFnLiteral,
		token.TODO:        p.parseTodo,
	}

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, t := range []token.TokenType{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LTE, token.GTE,
		token.AND, token.OR, token.CONCAT,
	} {
		p.infixParseFns[t] = p.parseInfixExpression
	}
	p.infixParseFns[token.PIPE_GT] = p.parsePipe
	p.infixParseFns[token.LPAREN] = p.parseCallExpression
	p.infixParseFns[token.DOT] = p.parseFieldAccess

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.pos++
	p.curToken = p.tokenAt(p.pos)
	p.peekToken = p.tokenAt(p.pos + 1)
}

func (p *Parser) tokenAt(i int) token.Token {
	if i < 0 {
		return token.Token{}
	}
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances when the next token has type t, otherwise records an
// error and stays put.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// spanFrom returns the span from start to the end of the current token.
func (p *Parser) spanFrom(start int) ast.Span {
	return ast.Span{Start: start, End: p.curToken.End}
}

func (p *Parser) addError(code diagnostics.ErrorCode, tok token.Token, msg string) {
	if p.aborted {
		return
	}
	p.ctx.AddError(diagnostics.NewError(code, tok, msg))
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError(diagnostics.ErrP001, p.peekToken,
		fmt.Sprintf("expected %s, got %s", describe(t), describeToken(p.peekToken)))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.addError(diagnostics.ErrP002, tok,
		fmt.Sprintf("unexpected %s, expected an expression", describeToken(tok)))
}

// abort stops parsing after an unrecoverable condition by jumping to EOF.
func (p *Parser) abort() {
	p.aborted = true
	p.pos = len(p.tokens) - 1
	p.curToken = p.tokens[p.pos]
	p.peekToken = p.curToken
}

func describe(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "a name"
	case token.UPNAME:
		return "a type or constructor name"
	case token.EOF:
		return "end of file"
	default:
		return fmt.Sprintf("%q", string(t))
	}
}

func describeToken(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of file"
	}
	return fmt.Sprintf("%q", tok.Lexeme)
}
