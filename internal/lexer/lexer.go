package lexer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type Kind int

// Token kinds
const (
	END Kind = iota
	LET
	IF
	ELSE
	WHILE
	PRINT
	IDENT
	NUMBER
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	EQUAL     // =
	LESS      // <
	GREATER   // >
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	SEMICOLON // ;
)

func (k Kind) String() string {
	switch k {
	case END:
		return "END"
	case LET:
		return "LET"
	case IF:
		return "IF"
	case ELSE:
		return "ELSE"
	case WHILE:
		return "WHILE"
	case PRINT:
		return "PRINT"
	case IDENT:
		return "IDENT"
	case NUMBER:
		return "NUMBER"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case STAR:
		return "STAR"
	case SLASH:
		return "SLASH"
	case EQUAL:
		return "EQUAL"
	case LESS:
		return "LESS"
	case GREATER:
		return "GREATER"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case SEMICOLON:
		return "SEMICOLON"
	default:
		return "UNKNOWN"
	}
}

var keywords = map[string]Kind{
	"let":   LET,
	"if":    IF,
	"else":  ELSE,
	"while": WHILE,
	"print": PRINT,
}

var singleCharTokens = map[rune]Kind{
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'=': EQUAL,
	'<': LESS,
	'>': GREATER,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	';': SEMICOLON,
}

type Location struct {
	Line   int
	Col    int
	Offset int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

type Token struct {
	Kind Kind
	Text string
	Loc  Location
}

func (t Token) String() string {
	if t.Text == "" {
		return fmt.Sprintf("<%s>", t.Kind)
	}
	return fmt.Sprintf("<%s %q>", t.Kind, t.Text)
}

func (t Token) Is(kind Kind) bool {
	return t.Kind == kind
}

// UnrecognizedSymbolError is returned when a character matches no token rule.
type UnrecognizedSymbolError struct {
	Char rune
	Loc  Location
}

func (e *UnrecognizedSymbolError) Error() string {
	return fmt.Sprintf("%s: unrecognized symbol %q", e.Loc, e.Char)
}

type Lexer struct {
	input     *bufio.Reader
	line      int
	col       int
	offset    int
	prevCol   int
	lastRune  rune
	lastSize  int
	hasUnread bool
}

func New(inputReader io.Reader) *Lexer {
	return &Lexer{
		input:   bufio.NewReader(inputReader),
		line:    1,
		col:     1,
		prevCol: 1,
	}
}

// Tokenize scans the whole source and returns its tokens terminated by a single END token.
// The first unrecognized character aborts the scan and no tokens are returned.
func Tokenize(src string) ([]Token, error) {
	l := New(strings.NewReader(src))
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == END {
			return tokens, nil
		}
	}
}

func (l *Lexer) location() Location {
	return Location{Line: l.line, Col: l.col, Offset: l.offset}
}

// readRune reads the next rune from the input
func (l *Lexer) readRune() (rune, error) {
	var r rune
	var size int

	if l.hasUnread {
		l.hasUnread = false
		r, size = l.lastRune, l.lastSize
	} else {
		var err error
		r, size, err = l.input.ReadRune()
		if err != nil {
			return 0, err
		}
	}

	l.prevCol = l.col
	l.lastRune = r
	l.lastSize = size
	l.offset += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r, nil
}

// unreadRune puts back the last read rune.
// Should be called at most once per readRune.
func (l *Lexer) unreadRune() {
	l.hasUnread = true
	if l.lastRune == '\n' {
		l.line--
	}
	l.col = l.prevCol
	l.offset -= l.lastSize
}

func (l *Lexer) skipSpace() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !isSpace(r) {
			l.unreadRune()
			return nil
		}
	}
}

// Next returns the next token from the input. After the input is exhausted it keeps returning END.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipSpace(); err != nil {
		return Token{Kind: END}, err
	}

	start := l.location()
	r, err := l.readRune()
	if err != nil {
		if err == io.EOF {
			return Token{Kind: END, Loc: start}, nil
		}
		return Token{Kind: END}, err
	}

	switch {
	case isLetter(r):
		l.unreadRune()
		return l.lexWord(start)
	case isDigit(r):
		l.unreadRune()
		return l.lexNumber(start)
	}

	if kind, ok := singleCharTokens[r]; ok {
		return Token{Kind: kind, Text: string(r), Loc: start}, nil
	}
	return Token{Kind: END}, &UnrecognizedSymbolError{Char: r, Loc: start}
}

// lexWord reads an identifier or keyword
func (l *Lexer) lexWord(start Location) (Token, error) {
	var sb strings.Builder

	for {
		r, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Token{}, err
		}
		if !isLetter(r) && !isDigit(r) {
			l.unreadRune()
			break
		}
		sb.WriteRune(r)
	}

	word := sb.String()
	if kind, ok := keywords[word]; ok {
		return Token{Kind: kind, Text: word, Loc: start}, nil
	}
	return Token{Kind: IDENT, Text: word, Loc: start}, nil
}

// lexNumber reads a run of decimal digits. The value is not interpreted here.
func (l *Lexer) lexNumber(start Location) (Token, error) {
	var sb strings.Builder

	for {
		r, err := l.readRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Token{}, err
		}
		if !isDigit(r) {
			l.unreadRune()
			break
		}
		sb.WriteRune(r)
	}

	return Token{Kind: NUMBER, Text: sb.String(), Loc: start}, nil
}

// Character classes follow the C locale: only ASCII counts.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
