package ast

import (
	"strings"

	"github.com/deepnoodle-ai/lirc/internal/token"
)

// Block is a brace-delimited list of statements.
type Block struct {
	Lbrace token.Position
	Stmts  []Stmt
	Rbrace token.Position
}

func (x *Block) stmtNode() {}

func (x *Block) Pos() token.Position { return x.Lbrace }
func (x *Block) End() token.Position { return x.Rbrace }

func (x *Block) String() string {
	var b strings.Builder
	b.WriteString("{ ")
	for _, s := range x.Stmts {
		b.WriteString(s.String())
		b.WriteString(" ")
	}
	b.WriteString("}")
	return b.String()
}

// Let declares a local variable with an optional initializer.
type Let struct {
	Token token.Token
	Name  *Ident
	Type  *Type
	Value Expr // may be nil
	Semi  token.Position
}

func (x *Let) stmtNode() {}

func (x *Let) Pos() token.Position { return x.Token.StartPosition }
func (x *Let) End() token.Position { return x.Semi }

func (x *Let) String() string {
	s := "let " + x.Name.Name + ": " + x.Type.String()
	if x.Value != nil {
		s += " = " + x.Value.String()
	}
	return s + ";"
}

// Assign stores a value into an existing local.
type Assign struct {
	Name  *Ident
	Value Expr
	Semi  token.Position
}

func (x *Assign) stmtNode() {}

func (x *Assign) Pos() token.Position { return x.Name.Pos() }
func (x *Assign) End() token.Position { return x.Semi }
func (x *Assign) String() string      { return x.Name.Name + " = " + x.Value.String() + ";" }

// Return exits the current function, with a value if it declares one.
type Return struct {
	Token token.Token
	Value Expr // may be nil
	Semi  token.Position
}

func (x *Return) stmtNode() {}

func (x *Return) Pos() token.Position { return x.Token.StartPosition }
func (x *Return) End() token.Position { return x.Semi }

func (x *Return) String() string {
	if x.Value == nil {
		return "return;"
	}
	return "return " + x.Value.String() + ";"
}

// If is a conditional. Alternative is nil, a *Block, or a nested *If.
type If struct {
	Token       token.Token
	Cond        Expr
	Consequence *Block
	Alternative Stmt
}

func (x *If) stmtNode() {}

func (x *If) Pos() token.Position { return x.Token.StartPosition }

func (x *If) End() token.Position {
	if x.Alternative != nil {
		return x.Alternative.End()
	}
	return x.Consequence.End()
}

func (x *If) String() string {
	s := "if (" + x.Cond.String() + ") " + x.Consequence.String()
	if x.Alternative != nil {
		s += " else " + x.Alternative.String()
	}
	return s
}

// While is a loop.
type While struct {
	Token token.Token
	Cond  Expr
	Body  *Block
}

func (x *While) stmtNode() {}

func (x *While) Pos() token.Position { return x.Token.StartPosition }
func (x *While) End() token.Position { return x.Body.End() }
func (x *While) String() string      { return "while (" + x.Cond.String() + ") " + x.Body.String() }

// Assert aborts with Code unless Cond holds.
type Assert struct {
	Token token.Token
	Cond  Expr
	Code  Expr
	Semi  token.Position
}

func (x *Assert) stmtNode() {}

func (x *Assert) Pos() token.Position { return x.Token.StartPosition }
func (x *Assert) End() token.Position { return x.Semi }

func (x *Assert) String() string {
	return "assert(" + x.Cond.String() + ", " + x.Code.String() + ");"
}

// Abort unconditionally aborts the transaction with Code.
type Abort struct {
	Token token.Token
	Code  Expr
	Semi  token.Position
}

func (x *Abort) stmtNode() {}

func (x *Abort) Pos() token.Position { return x.Token.StartPosition }
func (x *Abort) End() token.Position { return x.Semi }
func (x *Abort) String() string      { return "abort(" + x.Code.String() + ");" }

// ExprStmt is a call evaluated for its effect.
type ExprStmt struct {
	X    *Call
	Semi token.Position
}

func (x *ExprStmt) stmtNode() {}

func (x *ExprStmt) Pos() token.Position { return x.X.Pos() }
func (x *ExprStmt) End() token.Position { return x.Semi }
func (x *ExprStmt) String() string      { return x.X.String() + ";" }

// BadStmt represents a statement containing syntax errors.
// It is used by the parser to continue parsing after an error,
// allowing subsequent errors to be detected without giving up.
type BadStmt struct {
	From token.Position // start of bad statement
	To   token.Position // end of bad statement
}

func (x *BadStmt) stmtNode() {}

func (x *BadStmt) Pos() token.Position { return x.From }
func (x *BadStmt) End() token.Position { return x.To }
func (x *BadStmt) String() string      { return "<bad statement>" }
