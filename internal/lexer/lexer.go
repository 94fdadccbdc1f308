// Package lexer splits Ledger IR source text into tokens.
package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/deepnoodle-ai/lirc/internal/token"
)

// Error describes input the lexer could not tokenize.
type Error struct {
	Message  string
	Position token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Position.LineNumber(), e.Position.ColumnNumber())
}

// Lexer holds our object-state.
type Lexer struct {
	input     string
	position  int  // current character position
	readPos   int  // next character position
	ch        byte // current character
	line      int
	lineStart int
	file      string
}

// New creates a Lexer instance from the given string.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// SetFilename sets the filename recorded on token positions.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

// Filename returns the filename recorded on token positions.
func (l *Lexer) Filename() string {
	return l.file
}

// Position returns the position of the current character.
func (l *Lexer) Position() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.position - l.lineStart,
		File:      l.file,
	}
}

// GetLineText returns the text of the line containing pos.
func (l *Lexer) GetLineText(pos token.Position) string {
	start := pos.LineStart
	if start > len(l.input) {
		return ""
	}
	end := start
	for end < len(l.input) && l.input[end] != '\n' {
		end++
	}
	return l.input[start:end]
}

// Next reads and returns the next token. At end of input it returns an EOF
// token; on malformed input it returns an ILLEGAL token and an *Error.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespaceAndComments()
	start := l.Position()

	if l.ch == 0 && l.position >= len(l.input) {
		return l.newToken(token.EOF, "", start), nil
	}

	switch l.ch {
	case '(':
		return l.single(token.LPAREN, start), nil
	case ')':
		return l.single(token.RPAREN, start), nil
	case '{':
		return l.single(token.LBRACE, start), nil
	case '}':
		return l.single(token.RBRACE, start), nil
	case ',':
		return l.single(token.COMMA, start), nil
	case ';':
		return l.single(token.SEMICOLON, start), nil
	case ':':
		return l.single(token.COLON, start), nil
	case '.':
		return l.single(token.PERIOD, start), nil
	case '+':
		return l.single(token.PLUS, start), nil
	case '-':
		return l.single(token.MINUS, start), nil
	case '*':
		return l.single(token.ASTERISK, start), nil
	case '/':
		return l.single(token.SLASH, start), nil
	case '%':
		return l.single(token.MOD, start), nil
	case '=':
		return l.oneOrTwo('=', token.ASSIGN, token.EQ, start), nil
	case '!':
		return l.oneOrTwo('=', token.BANG, token.NOT_EQ, start), nil
	case '<':
		return l.oneOrTwo('=', token.LT, token.LT_EQUALS, start), nil
	case '>':
		return l.oneOrTwo('=', token.GT, token.GT_EQUALS, start), nil
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return l.newToken(token.AND, "&&", start), nil
		}
		return l.illegal(start, "unexpected character '&' (did you mean '&&'?)")
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return l.newToken(token.OR, "||", start), nil
		}
		return l.illegal(start, "unexpected character '|' (did you mean '||'?)")
	}

	if l.ch == 'h' && l.peekChar() == '"' {
		return l.readBytes(start)
	}
	if isLetter(l.ch) {
		ident := l.readIdentifier()
		return l.newToken(token.LookupIdentifier(ident), ident, start), nil
	}
	if isDigit(l.ch) {
		if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
			return l.readAddress(start)
		}
		return l.newToken(token.INT, l.readDigits(), start), nil
	}
	r, size := utf8.DecodeRuneInString(l.input[l.position:])
	if r == utf8.RuneError && size <= 1 {
		return l.illegal(start, fmt.Sprintf("invalid UTF-8 byte 0x%02x", l.ch))
	}
	return l.illegal(start, fmt.Sprintf("unexpected character %q", r))
}

// Tokens lexes the whole input. Lexing stops at the first error.
func (l *Lexer) Tokens() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.position = l.readPos
	l.readPos++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) newToken(typ token.Type, literal string, start token.Position) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.Position(),
	}
}

func (l *Lexer) single(typ token.Type, start token.Position) token.Token {
	literal := string(l.ch)
	l.readChar()
	return l.newToken(typ, literal, start)
}

func (l *Lexer) oneOrTwo(next byte, one, two token.Type, start token.Position) token.Token {
	first := l.ch
	if l.peekChar() == next {
		l.readChar()
		l.readChar()
		return l.newToken(two, string([]byte{first, next}), start)
	}
	l.readChar()
	return l.newToken(one, string(first), start)
}

// illegal consumes the current character, a whole rune when the input is
// valid UTF-8 there, and returns it as an ILLEGAL token.
func (l *Lexer) illegal(start token.Position, msg string) (token.Token, error) {
	var literal string
	if l.position < len(l.input) {
		_, size := utf8.DecodeRuneInString(l.input[l.position:])
		literal = l.input[l.position : l.position+size]
		for i := 1; i < size; i++ {
			l.readChar()
		}
	}
	l.readChar()
	tok := l.newToken(token.ILLEGAL, literal, start)
	return tok, &Error{Message: msg, Position: start}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == '\n':
			l.readChar()
			l.line++
			l.lineStart = l.position
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readDigits() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readAddress(start token.Position) (token.Token, error) {
	begin := l.position
	l.readChar() // 0
	l.readChar() // x
	digits := 0
	for isHexDigit(l.ch) {
		l.readChar()
		digits++
	}
	literal := l.input[begin:l.position]
	if digits == 0 {
		return l.newToken(token.ILLEGAL, literal, start),
			&Error{Message: fmt.Sprintf("invalid address literal %q", literal), Position: start}
	}
	return l.newToken(token.ADDRESS, literal, start), nil
}

func (l *Lexer) readBytes(start token.Position) (token.Token, error) {
	l.readChar() // h
	l.readChar() // opening quote
	begin := l.position
	var bad *Error
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			return l.newToken(token.ILLEGAL, l.input[begin:l.position], start),
				&Error{Message: "unterminated byte array literal", Position: start}
		}
		if !isHexDigit(l.ch) && bad == nil {
			bad = &Error{
				Message:  fmt.Sprintf("invalid hex digit %q in byte array literal", rune(l.ch)),
				Position: l.Position(),
			}
		}
		l.readChar()
	}
	literal := l.input[begin:l.position]
	l.readChar() // closing quote
	if bad != nil {
		return l.newToken(token.ILLEGAL, literal, start), bad
	}
	if len(literal)%2 == 1 {
		return l.newToken(token.ILLEGAL, literal, start),
			&Error{Message: "byte array literal has an odd number of hex digits", Position: start}
	}
	return l.newToken(token.BYTES, literal, start), nil
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
