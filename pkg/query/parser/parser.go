// Package parser builds and validates the AST of report search filters.
package parser

import (
	"fmt"
	"strconv"

	"github.com/metadatax/mediainfobot/pkg/query/lexer"
)

type Error struct {
	message string
}

func NewParserError(format string, a ...any) *Error {
	return &Error{message: fmt.Sprintf(format, a...)}
}

func (e *Error) Error() string {
	return e.message
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

func Parse(tokens []lexer.Token) (*AndExpr, error) {
	parser := &parser{tokens: tokens}

	return parser.parse()
}

func (p *parser) currentToken() lexer.Token {
	return p.tokens[p.pos]
}

func (p *parser) currentTokenKind() lexer.TokenKind {
	return p.tokens[p.pos].Kind
}

func (p *parser) hasTokens() bool {
	return p.pos < len(p.tokens) && p.currentTokenKind() != lexer.EOF
}

func (p *parser) advance() lexer.Token {
	token := p.currentToken()
	p.pos++

	return token
}

func unquote(value string) string {
	return value[1 : len(value)-1]
}

func (p *parser) parseIdentifier() (Identifier, error) {
	if !p.hasTokens() || p.currentTokenKind() != lexer.Identifier {
		return Identifier{}, NewParserError("expected identifier, got %s", p.currentToken().Debug())
	}

	identToken := p.advance()

	if p.currentTokenKind() != lexer.Dot {
		return Identifier{Key: identToken.Value}, nil
	}

	p.advance() // Consume the DOT

	switch p.currentTokenKind() {
	case lexer.Identifier:
		return Identifier{Identifier: identToken.Value, Key: p.advance().Value}, nil
	case lexer.String:
		return Identifier{Identifier: identToken.Value, Key: unquote(p.advance().Value)}, nil
	default:
		return Identifier{}, NewParserError(
			"expected IDENTIFIER or STRING, got %s",
			p.currentToken().Debug(),
		)
	}
}

func (p *parser) parseOperator() (OperatorKind, error) {
	switch p.advance().Kind {
	case lexer.Equals:
		return Equals, nil
	case lexer.NotEquals:
		return NotEquals, nil
	case lexer.Less:
		return Less, nil
	case lexer.LessEquals:
		return LessEquals, nil
	case lexer.Greater:
		return Greater, nil
	case lexer.GreaterEquals:
		return GreaterEquals, nil
	case lexer.Like:
		return Like, nil
	case lexer.ILike:
		return ILike, nil
	default:
		p.pos--

		return -1, NewParserError("expected operator, got %s", p.currentToken().Debug())
	}
}

func (p *parser) parseValue() (Value, error) {
	switch p.currentTokenKind() {
	case lexer.Number:
		number, err := strconv.ParseFloat(p.advance().Value, 64)
		if err != nil {
			return nil, fmt.Errorf("number token could not be parsed to float: %w", err)
		}

		return NumberExpr{Value: number}, nil
	case lexer.String:
		return StringExpr{Value: unquote(p.advance().Value)}, nil
	default:
		return nil, NewParserError("expected NUMBER or STRING, got %s", p.currentToken().Debug())
	}
}

func (p *parser) parseInSetExpr(ident Identifier) (*CompareExpr, error) {
	if p.currentTokenKind() != lexer.OpenParen {
		return nil, NewParserError("expected '(', got %s", p.currentToken().Debug())
	}

	p.advance() // Consume the OPEN_PAREN

	set := make([]string, 0)
	for p.hasTokens() && p.currentTokenKind() != lexer.CloseParen {
		if p.currentTokenKind() != lexer.String {
			return nil, NewParserError("expected STRING, got %s", p.currentToken().Debug())
		}

		set = append(set, unquote(p.advance().Value))

		if p.currentTokenKind() == lexer.Comma {
			p.advance() // Consume the COMMA
		}
	}

	if p.currentTokenKind() != lexer.CloseParen {
		return nil, NewParserError("expected ')', got %s", p.currentToken().Debug())
	}

	p.advance() // Consume the CLOSE_PAREN

	return &CompareExpr{Left: ident, Operator: In, Right: StringListExpr{Values: set}}, nil
}

func (p *parser) parseExpression() (*CompareExpr, error) {
	ident, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}

	switch p.currentTokenKind() {
	case lexer.In:
		p.advance() // Consume the IN

		return p.parseInSetExpr(ident)
	case lexer.Not:
		p.advance() // Consume the NOT
		if p.currentTokenKind() != lexer.In {
			return nil, NewParserError("expected IN after NOT, got %s", p.currentToken().Debug())
		}

		p.advance() // Consume the IN

		expr, err := p.parseInSetExpr(ident)
		if err != nil {
			return nil, err
		}

		expr.Operator = NotIn

		return expr, nil
	default:
		operator, err := p.parseOperator()
		if err != nil {
			return nil, err
		}

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		return &CompareExpr{Left: ident, Operator: operator, Right: value}, nil
	}
}

func (p *parser) parse() (*AndExpr, error) {
	exprs := make([]*CompareExpr, 0)

	leftExpr, err := p.parseExpression()
	if err != nil {
		return nil, fmt.Errorf("error while parsing initial expression: %w", err)
	}

	exprs = append(exprs, leftExpr)

	for p.currentTokenKind() == lexer.And {
		p.advance() // Consume the AND

		rightExpr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, rightExpr)
	}

	if p.hasTokens() {
		return nil, NewParserError(
			"unexpected leftover token(s) after parsing: %s",
			p.currentToken().Debug(),
		)
	}

	return &AndExpr{Exprs: exprs}, nil
}
