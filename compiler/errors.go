package compiler

import (
	"fmt"

	"github.com/deepnoodle-ai/lirc/ast"
	"github.com/deepnoodle-ai/lirc/errors"
)

// errorAt creates a CompileError positioned at node. A nil node yields an
// error without a location.
func (c *Compiler) errorAt(node ast.Node, code errors.ErrorCode, symbol string, suggestions []errors.Suggestion, format string, args ...any) *errors.CompileError {
	err := &errors.CompileError{
		Code:        code,
		Message:     fmt.Sprintf(format, args...),
		Symbol:      symbol,
		Filename:    c.filename,
		Suggestions: suggestions,
	}
	if node == nil {
		return err
	}
	pos, end := node.Pos(), node.End()
	err.Line = pos.LineNumber()
	err.Column = pos.ColumnNumber()
	if end.Line == pos.Line && end.Char > pos.Char {
		err.EndColumn = end.ColumnNumber()
	}
	if pos.Line >= 0 && pos.Line < len(c.lines) {
		err.SourceLine = c.lines[pos.Line]
	}
	return err
}
