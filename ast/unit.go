package ast

import (
	"strings"

	"github.com/deepnoodle-ai/lirc/internal/token"
	"github.com/deepnoodle-ai/lirc/types"
)

// Unit is one parsed source unit: any number of modules and at most one script.
type Unit struct {
	Modules []*Module
	Script  *Script // nil when the unit declares no script
	EOF     token.Position
}

func (u *Unit) Pos() token.Position {
	if len(u.Modules) > 0 {
		return u.Modules[0].Pos()
	}
	if u.Script != nil {
		return u.Script.Pos()
	}
	return u.EOF
}

func (u *Unit) End() token.Position { return u.EOF }

func (u *Unit) String() string {
	var parts []string
	for _, m := range u.Modules {
		parts = append(parts, m.String())
	}
	if u.Script != nil {
		parts = append(parts, u.Script.String())
	}
	return strings.Join(parts, "\n")
}

// Import brings a published module into scope: import 0x1.Math as M;
type Import struct {
	Token   token.Token // the "import" token
	Address types.Address
	Module  *Ident
	Alias   *Ident // nil when no "as" clause
	Semi    token.Position
}

// LocalName is the name the module is referred to by in the importing code.
func (i *Import) LocalName() string {
	if i.Alias != nil {
		return i.Alias.Name
	}
	return i.Module.Name
}

func (i *Import) Pos() token.Position { return i.Token.StartPosition }
func (i *Import) End() token.Position { return i.Semi }

func (i *Import) String() string {
	s := "import " + i.Address.ShortString() + "." + i.Module.Name
	if i.Alias != nil {
		s += " as " + i.Alias.Name
	}
	return s + ";"
}

// Module is a named collection of functions published under an address.
type Module struct {
	Token     token.Token // the "module" token
	Name      *Ident
	Imports   []*Import
	Functions []*Function
	Rbrace    token.Position
}

func (m *Module) Pos() token.Position { return m.Token.StartPosition }
func (m *Module) End() token.Position { return m.Rbrace }

func (m *Module) String() string {
	var b strings.Builder
	b.WriteString("module ")
	b.WriteString(m.Name.Name)
	b.WriteString(" {\n")
	for _, imp := range m.Imports {
		b.WriteString("    ")
		b.WriteString(imp.String())
		b.WriteString("\n")
	}
	for _, fn := range m.Functions {
		b.WriteString("    ")
		b.WriteString(fn.String())
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// Script is the transaction entry point: its top-level imports and main.
type Script struct {
	Imports []*Import
	Main    *Function
}

func (s *Script) Pos() token.Position {
	if len(s.Imports) > 0 {
		return s.Imports[0].Pos()
	}
	return s.Main.Pos()
}

func (s *Script) End() token.Position { return s.Main.End() }

func (s *Script) String() string {
	var b strings.Builder
	for _, imp := range s.Imports {
		b.WriteString(imp.String())
		b.WriteString("\n")
	}
	b.WriteString(s.Main.String())
	return b.String()
}

// Param is a named, typed function parameter.
type Param struct {
	Name *Ident
	Type *Type
}

func (p *Param) String() string { return p.Name.Name + ": " + p.Type.String() }

// Function is a function declaration. The script's main function is also
// represented as a Function named "main".
type Function struct {
	Token  token.Token // the first token of the declaration
	Public bool
	Native bool
	Name   *Ident
	Params []*Param
	Return *Type  // nil when the function returns nothing
	Body   *Block // nil for native functions
	Semi   token.Position
}

func (f *Function) Pos() token.Position { return f.Token.StartPosition }

func (f *Function) End() token.Position {
	if f.Body != nil {
		return f.Body.End()
	}
	return f.Semi
}

// Signature returns the declaration without its body.
func (f *Function) Signature() string {
	var b strings.Builder
	if f.Public {
		b.WriteString("public ")
	}
	if f.Native {
		b.WriteString("native ")
	}
	if f.Name.Name != "main" || f.Token.Type != token.MAIN {
		b.WriteString("fun ")
	}
	b.WriteString(f.Name.Name)
	b.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(")")
	if f.Return != nil {
		b.WriteString(": ")
		b.WriteString(f.Return.String())
	}
	return b.String()
}

func (f *Function) String() string {
	if f.Body == nil {
		return f.Signature() + ";"
	}
	return f.Signature() + " " + f.Body.String()
}
