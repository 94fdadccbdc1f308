package errors

import (
	"fmt"
	"strings"
)

// CompileError is raised by the emitter: an unresolved symbol, a type
// mismatch, or a missing dependency.
type CompileError struct {
	Code        ErrorCode
	Message     string
	Symbol      string // the offending symbol or type, when there is one
	Filename    string
	Line        int
	Column      int
	EndColumn   int
	SourceLine  string
	Suggestions []Suggestion
	Note        string
	Cause       error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("compile error: ")
	b.WriteString(e.Message)
	if e.Filename != "" || e.Line > 0 {
		b.WriteString("\n\nlocation: ")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d", e.Line, e.Column)
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}
	return b.String()
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:      e.Code,
		Kind:      "compile error",
		Message:   e.Message,
		Filename:  e.Filename,
		Line:      e.Line,
		Column:    e.Column,
		EndColumn: e.EndColumn,
		Note:      e.Note,
	}
	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}

// ArityError is returned when a module compilation is requested on a source
// unit that does not contain exactly one module.
type ArityError struct {
	Expected int
	Found    int
	Filename string
}

func (e *ArityError) Error() string {
	if e.Expected == 1 {
		return fmt.Sprintf("arity error: expected exactly one module, found %d", e.Found)
	}
	return fmt.Sprintf("arity error: expected exactly %d modules, found %d", e.Expected, e.Found)
}

// ToFormatted converts to the FormattedError type for display.
func (e *ArityError) ToFormatted() *FormattedError {
	return &FormattedError{
		Code:     E3001,
		Kind:     "arity error",
		Message:  strings.TrimPrefix(e.Error(), "arity error: "),
		Filename: e.Filename,
	}
}

// SerializationError reports that an artifact produced by this module could
// not be encoded. It indicates a violated internal invariant, not bad input.
type SerializationError struct {
	Artifact string // e.g. "module 0x1.Math" or "script"
	Err      error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization error: %s: %v", e.Artifact, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// ToFormatted converts to the FormattedError type for display.
func (e *SerializationError) ToFormatted() *FormattedError {
	return &FormattedError{
		Code:    E4001,
		Kind:    "serialization error",
		Message: fmt.Sprintf("%s: %v", e.Artifact, e.Err),
		Note:    "this is an internal error; please report it",
	}
}
