// Package ast defines the abstract syntax tree representation of Ledger IR code.
package ast

import "github.com/deepnoodle-ai/lirc/internal/token"

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node. Statements cause side effects but
// do not evaluate to a value.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// TypeKind enumerates the value types of the language.
type TypeKind int

const (
	InvalidType TypeKind = iota
	U64
	Bool
	Address
	ByteArray
)

var typeNames = map[TypeKind]string{
	U64:       "u64",
	Bool:      "bool",
	Address:   "address",
	ByteArray: "bytearray",
}

func (k TypeKind) String() string {
	if name, ok := typeNames[k]; ok {
		return name
	}
	return "<invalid>"
}

// LookupType returns the TypeKind with the given name, or InvalidType.
func LookupType(name string) TypeKind {
	for kind, n := range typeNames {
		if n == name {
			return kind
		}
	}
	return InvalidType
}

// Type is a type annotation in source.
type Type struct {
	Token token.Token
	Kind  TypeKind
}

func (t *Type) Pos() token.Position { return t.Token.StartPosition }
func (t *Type) End() token.Position { return t.Token.EndPosition }
func (t *Type) String() string      { return t.Kind.String() }
