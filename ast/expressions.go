package ast

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/lirc/internal/token"
	"github.com/deepnoodle-ai/lirc/types"
)

// Ident is an identifier.
type Ident struct {
	NamePos token.Position
	Name    string
}

// NewIdent creates an Ident from a token.
func NewIdent(tok token.Token) *Ident {
	return &Ident{NamePos: tok.StartPosition, Name: tok.Literal}
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }

func (x *Ident) End() token.Position {
	end := x.NamePos
	end.Char += len(x.Name)
	end.Column += len(x.Name)
	return end
}

func (x *Ident) String() string { return x.Name }

// Int is an unsigned 64-bit integer literal.
type Int struct {
	Token token.Token
	Value uint64
}

func (x *Int) exprNode() {}

func (x *Int) Pos() token.Position { return x.Token.StartPosition }
func (x *Int) End() token.Position { return x.Token.EndPosition }
func (x *Int) String() string      { return strconv.FormatUint(x.Value, 10) }

// BoolLit is true or false.
type BoolLit struct {
	Token token.Token
	Value bool
}

func (x *BoolLit) exprNode() {}

func (x *BoolLit) Pos() token.Position { return x.Token.StartPosition }
func (x *BoolLit) End() token.Position { return x.Token.EndPosition }
func (x *BoolLit) String() string      { return strconv.FormatBool(x.Value) }

// AddressLit is an account address literal such as 0x1.
type AddressLit struct {
	Token token.Token
	Value types.Address
}

func (x *AddressLit) exprNode() {}

func (x *AddressLit) Pos() token.Position { return x.Token.StartPosition }
func (x *AddressLit) End() token.Position { return x.Token.EndPosition }
func (x *AddressLit) String() string      { return x.Value.ShortString() }

// BytesLit is a byte array literal such as h"cafe".
type BytesLit struct {
	Token token.Token
	Value []byte
}

func (x *BytesLit) exprNode() {}

func (x *BytesLit) Pos() token.Position { return x.Token.StartPosition }
func (x *BytesLit) End() token.Position { return x.Token.EndPosition }
func (x *BytesLit) String() string      { return `h"` + hex.EncodeToString(x.Value) + `"` }

// Prefix is a unary operation such as !x.
type Prefix struct {
	Token token.Token
	Op    string
	X     Expr
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Position { return x.Token.StartPosition }
func (x *Prefix) End() token.Position { return x.X.End() }
func (x *Prefix) String() string      { return "(" + x.Op + x.X.String() + ")" }

// Infix is a binary operation such as x + y.
type Infix struct {
	X     Expr
	OpPos token.Position
	Op    string
	Y     Expr
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Position { return x.X.Pos() }
func (x *Infix) End() token.Position { return x.Y.End() }

func (x *Infix) String() string {
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

// Call invokes a function, either in the current module or through an
// imported module: Math.max(a, b).
type Call struct {
	Module *Ident // nil for calls within the current module
	Name   *Ident
	Args   []Expr
	Rparen token.Position
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position {
	if x.Module != nil {
		return x.Module.Pos()
	}
	return x.Name.Pos()
}

func (x *Call) End() token.Position { return x.Rparen }

// Callee returns the qualified function name as written.
func (x *Call) Callee() string {
	if x.Module != nil {
		return x.Module.Name + "." + x.Name.Name
	}
	return x.Name.Name
}

func (x *Call) String() string {
	args := make([]string, len(x.Args))
	for i, a := range x.Args {
		args[i] = a.String()
	}
	return x.Callee() + "(" + strings.Join(args, ", ") + ")"
}

// TxnSender evaluates to the address of the transaction sender.
type TxnSender struct {
	Token  token.Token
	Rparen token.Position
}

func (x *TxnSender) exprNode() {}

func (x *TxnSender) Pos() token.Position { return x.Token.StartPosition }
func (x *TxnSender) End() token.Position { return x.Rparen }
func (x *TxnSender) String() string      { return "get_txn_sender()" }

// BadExpr represents an expression containing syntax errors.
// It is used by the parser to continue parsing after an error,
// allowing subsequent errors to be detected without giving up.
type BadExpr struct {
	From token.Position // start of bad expression
	To   token.Position // end of bad expression
}

func (x *BadExpr) exprNode() {}

func (x *BadExpr) Pos() token.Position { return x.From }
func (x *BadExpr) End() token.Position { return x.To }
func (x *BadExpr) String() string      { return "<bad expression>" }
