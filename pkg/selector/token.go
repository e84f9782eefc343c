// Package selector implements the CSS-like node selector language used to
// bind rule visitors to AST nodes. A selector is compiled once into an
// immutable predicate; the lint engine extracts its candidate node types to
// bucket handlers without re-testing every selector against every node.
package selector

import "fmt"

// TokenType identifies the kind of a lexed token.
type TokenType int

const (
	TokenIdent TokenType = iota
	TokenStar
	TokenComma
	TokenChild      // ">"
	TokenDescendant // collapsed whitespace between compounds
	TokenLBracket
	TokenRBracket
	TokenEquals
	TokenNotEquals
	TokenString
	TokenEOF
)

// Token is a single lexed unit of a selector string.
type Token struct {
	Type     TokenType
	Value    string
	Position int
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%q", t.Type, t.Value)
}

// Lexer scans a selector string and produces tokens.
type Lexer struct {
	input    string
	position int
	tokens   []Token
}

// NewLexer returns a Lexer over the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize processes the entire input and returns the token list.
// Whitespace is significant between compounds (descendant combinator) but
// not around ">", "," or inside brackets; the lexer emits TokenDescendant
// for every whitespace run and the parser discards the insignificant ones.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.position < len(l.input) {
		startPos := l.position
		switch c := l.input[l.position]; {
		case c == '*':
			l.addToken(TokenStar, "*", startPos)
			l.position++
		case c == ',':
			l.addToken(TokenComma, ",", startPos)
			l.position++
		case c == '>':
			l.addToken(TokenChild, ">", startPos)
			l.position++
		case c == '[':
			l.addToken(TokenLBracket, "[", startPos)
			l.position++
		case c == ']':
			l.addToken(TokenRBracket, "]", startPos)
			l.position++
		case c == '=':
			l.addToken(TokenEquals, "=", startPos)
			l.position++
		case c == '!':
			if l.position+1 >= len(l.input) || l.input[l.position+1] != '=' {
				return nil, fmt.Errorf("unexpected %q at position %d", c, startPos)
			}
			l.addToken(TokenNotEquals, "!=", startPos)
			l.position += 2
		case c == '\'' || c == '"':
			if err := l.lexString(c, startPos); err != nil {
				return nil, err
			}
		case isSpace(c):
			l.lexWhitespace(startPos)
		case isIdentChar(c):
			l.lexIdent(startPos)
		default:
			return nil, fmt.Errorf("unexpected %q at position %d", c, startPos)
		}
	}

	l.addToken(TokenEOF, "", l.position)
	return l.tokens, nil
}

func (l *Lexer) addToken(tt TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{Type: tt, Value: value, Position: pos})
}

// lexString scans a quoted value, supporting backslash escapes for the quote
// character itself.
func (l *Lexer) lexString(quote byte, startPos int) error {
	l.position++
	var out []byte
	for l.position < len(l.input) {
		c := l.input[l.position]
		if c == '\\' && l.position+1 < len(l.input) {
			out = append(out, l.input[l.position+1])
			l.position += 2
			continue
		}
		if c == quote {
			l.position++
			l.addToken(TokenString, string(out), startPos)
			return nil
		}
		out = append(out, c)
		l.position++
	}
	return fmt.Errorf("unterminated string starting at position %d", startPos)
}

func (l *Lexer) lexWhitespace(startPos int) {
	for l.position < len(l.input) && isSpace(l.input[l.position]) {
		l.position++
	}
	l.addToken(TokenDescendant, " ", startPos)
}

func (l *Lexer) lexIdent(startPos int) {
	for l.position < len(l.input) && isIdentChar(l.input[l.position]) {
		l.position++
	}
	l.addToken(TokenIdent, l.input[startPos:l.position], startPos)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '.'
}
