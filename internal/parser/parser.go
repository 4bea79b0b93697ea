package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iley/minic/internal/ast"
	"github.com/iley/minic/internal/lexer"
)

// Program is a parsed source file. Declarations lists the names introduced by
// `let` in source order; the caller registers them with the code generator.
type Program struct {
	Declarations []string
	Body         *ast.Block
}

func (p *Program) String() string {
	return fmt.Sprintf("(program (let %s) %s)", strings.Join(p.Declarations, " "), p.Body.String())
}

type SyntaxError struct {
	Loc     lexer.Location
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}

type Parser struct {
	tokens []lexer.Token
	pos    int
	decls  []string
}

func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse builds a Program from a token stream ending with END.
// There is no error recovery: the first syntax error is returned.
func Parse(tokens []lexer.Token) (*Program, error) {
	return New(tokens).ParseProgram()
}

func ParseSource(src string) (*Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.END}
	}
	return p.tokens[p.pos]
}

func (p *Parser) consume() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind lexer.Kind, what string) (lexer.Token, error) {
	tok := p.consume()
	if tok.Kind != kind {
		return tok, errorf(tok, "expected %s, got %v", what, tok)
	}
	return tok, nil
}

func errorf(tok lexer.Token, format string, args ...any) *SyntaxError {
	return &SyntaxError{Loc: tok.Loc, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) ParseProgram() (*Program, error) {
	start := p.peek()
	statements := []ast.Node{}

	for !p.peek().Is(lexer.END) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	return &Program{
		Declarations: p.decls,
		Body:         &ast.Block{Loc: start.Loc, Statements: statements},
	}, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.LET:
		return p.parseLet()
	case lexer.IDENT:
		return p.parseAssignment()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.PRINT:
		return nil, errorf(tok, "print statements are not supported")
	}
	return nil, errorf(tok, "unknown statement: %v", tok)
}

func (p *Parser) parseLet() (ast.Node, error) {
	// consume 'let'
	p.consume()

	name, err := p.expect(lexer.IDENT, "variable name")
	if err != nil {
		return nil, err
	}
	p.decls = append(p.decls, name.Text)

	node, err := p.parseAssignmentRest(name)
	if err != nil {
		return nil, err
	}
	node.Declare = true
	return node, nil
}

func (p *Parser) parseAssignment() (ast.Node, error) {
	node, err := p.parseAssignmentRest(p.consume())
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) parseAssignmentRest(name lexer.Token) (*ast.Assignment, error) {
	if _, err := p.expect(lexer.EQUAL, "'='"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMICOLON, "';'"); err != nil {
		return nil, err
	}
	return &ast.Assignment{Loc: name.Loc, Target: name.Text, Value: value}, nil
}

func (p *Parser) parseCondition() (ast.Node, error) {
	if _, err := p.expect(lexer.LPAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	ifTok := p.consume()

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStatement{Loc: ifTok.Loc, Condition: cond, Then: then}
	if !p.peek().Is(lexer.ELSE) {
		return stmt, nil
	}
	p.consume()

	// else if chains nest as an if in the else branch
	if p.peek().Is(lexer.IF) {
		stmt.Else, err = p.parseIf()
	} else {
		stmt.Else, err = p.parseBlock()
	}
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	whileTok := p.consume()

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Loc: whileTok.Loc, Condition: cond, Body: body}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect(lexer.LBRACE, "'{'")
	if err != nil {
		return nil, err
	}

	statements := []ast.Node{}
	for {
		tok := p.peek()
		if tok.Is(lexer.RBRACE) {
			break
		}
		if tok.Is(lexer.END) {
			return nil, errorf(tok, "unexpected end of input, expected '}'")
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	// consume '}'
	p.consume()
	return &ast.Block{Loc: open.Loc, Statements: statements}, nil
}

// Precedence, lowest first: comparisons, then + and -, then * and /.

func (p *Parser) parseExpression() (ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	tok := p.peek()
	if tok.Is(lexer.LESS) || tok.Is(lexer.GREATER) {
		p.consume()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOperation{Loc: tok.Loc, Left: left, Operator: tok.Text, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if !tok.Is(lexer.PLUS) && !tok.Is(lexer.MINUS) {
			return left, nil
		}
		p.consume()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Loc: tok.Loc, Left: left, Operator: tok.Text, Right: right}
	}
}

func (p *Parser) parseTerm() (ast.Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if !tok.Is(lexer.STAR) && !tok.Is(lexer.SLASH) {
			return left, nil
		}
		p.consume()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOperation{Loc: tok.Loc, Left: left, Operator: tok.Text, Right: right}
	}
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.consume()
	switch tok.Kind {
	case lexer.NUMBER:
		value, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, errorf(tok, "integer literal %s is out of range", tok.Text)
		}
		return &ast.IntLiteral{Loc: tok.Loc, Value: value}, nil
	case lexer.IDENT:
		return &ast.VariableReference{Loc: tok.Loc, Name: tok.Text}, nil
	case lexer.LPAREN:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return nil, errorf(tok, "expected expression, got %v", tok)
}
