// Package token defines language keywords and tokens used when lexing Ledger IR source.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	ADDRESS   Type = "ADDRESS"
	AND       Type = "&&"
	ASSIGN    Type = "="
	ASTERISK  Type = "*"
	BANG      Type = "!"
	BYTES     Type = "BYTES"
	COLON     Type = ":"
	COMMA     Type = ","
	EOF       Type = "EOF"
	EQ        Type = "=="
	GT        Type = ">"
	GT_EQUALS Type = ">="
	IDENT     Type = "IDENT"
	ILLEGAL   Type = "ILLEGAL"
	INT       Type = "INT"
	LBRACE    Type = "{"
	LPAREN    Type = "("
	LT        Type = "<"
	LT_EQUALS Type = "<="
	MINUS     Type = "-"
	MOD       Type = "%"
	NOT_EQ    Type = "!="
	OR        Type = "||"
	PERIOD    Type = "."
	PLUS      Type = "+"
	RBRACE    Type = "}"
	RPAREN    Type = ")"
	SEMICOLON Type = ";"
	SLASH     Type = "/"

	// Keywords
	ABORT     Type = "ABORT"
	AS        Type = "AS"
	ASSERT    Type = "ASSERT"
	ELSE      Type = "ELSE"
	FALSE     Type = "FALSE"
	FUN       Type = "FUN"
	IF        Type = "IF"
	IMPORT    Type = "IMPORT"
	LET       Type = "LET"
	MAIN      Type = "MAIN"
	MODULE    Type = "MODULE"
	NATIVE    Type = "NATIVE"
	PUBLIC    Type = "PUBLIC"
	RETURN    Type = "RETURN"
	TRUE      Type = "TRUE"
	TXNSENDER Type = "TXNSENDER"
	WHILE     Type = "WHILE"
)

// Reserved keywords
var keywords = map[string]Type{
	"abort":          ABORT,
	"as":             AS,
	"assert":         ASSERT,
	"else":           ELSE,
	"false":          FALSE,
	"fun":            FUN,
	"get_txn_sender": TXNSENDER,
	"if":             IF,
	"import":         IMPORT,
	"let":            LET,
	"main":           MAIN,
	"module":         MODULE,
	"native":         NATIVE,
	"public":         PUBLIC,
	"return":         RETURN,
	"true":           TRUE,
	"while":          WHILE,
}

// LookupIdentifier used to determinate whether identifier is keyword nor not
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether name is reserved.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}
