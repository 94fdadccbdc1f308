package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// SyntaxError is a single problem found while parsing.
type SyntaxError struct {
	Code       ErrorCode
	Message    string
	Filename   string
	Line       int
	Column     int
	EndColumn  int
	SourceLine string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Line, e.Column)
}

// Location returns where the error occurred.
func (e *SyntaxError) Location() SourceLocation {
	return SourceLocation{
		Filename: e.Filename,
		Line:     e.Line,
		Column:   e.Column,
		Source:   e.SourceLine,
	}
}

// ToFormatted converts to the FormattedError type for display.
func (e *SyntaxError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:      e.Code,
		Kind:      "parse error",
		Message:   e.Message,
		Filename:  e.Filename,
		Line:      e.Line,
		Column:    e.Column,
		EndColumn: e.EndColumn,
	}
	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	return fe
}

// ParseError reports malformed source text. It aggregates every SyntaxError
// the parser found.
type ParseError struct {
	errs *multierror.Error
}

// NewParseError aggregates the given syntax errors. Nil entries are dropped.
func NewParseError(errs ...*SyntaxError) *ParseError {
	merr := &multierror.Error{ErrorFormat: formatSyntaxErrors}
	for _, err := range errs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return &ParseError{errs: merr}
}

func formatSyntaxErrors(errs []error) string {
	if len(errs) == 1 {
		return "parse error: " + errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("parse error: %d errors: %s", len(errs), strings.Join(msgs, "; "))
}

func (e *ParseError) Error() string {
	return e.errs.Error()
}

// Unwrap exposes the aggregated syntax errors to errors.Is and errors.As.
func (e *ParseError) Unwrap() error {
	return e.errs.ErrorOrNil()
}

// Count returns the number of syntax errors.
func (e *ParseError) Count() int {
	return e.errs.Len()
}

// SyntaxErrors returns the individual syntax errors in source order.
func (e *ParseError) SyntaxErrors() []*SyntaxError {
	var out []*SyntaxError
	for _, err := range e.errs.WrappedErrors() {
		var se *SyntaxError
		if stderrors.As(err, &se) {
			out = append(out, se)
		}
	}
	return out
}

// ToFormatted returns the first syntax error for display.
func (e *ParseError) ToFormatted() *FormattedError {
	errs := e.SyntaxErrors()
	if len(errs) == 0 {
		return &FormattedError{Kind: "parse error", Message: e.Error()}
	}
	return errs[0].ToFormatted()
}

// FormattedErrors returns every syntax error for display.
func (e *ParseError) FormattedErrors() []*FormattedError {
	var out []*FormattedError
	for _, err := range e.SyntaxErrors() {
		out = append(out, err.ToFormatted())
	}
	return out
}

// FriendlyErrorMessage returns a human-friendly error message for all errors.
func (e *ParseError) FriendlyErrorMessage() string {
	return NewFormatter(false).FormatMultiple(e.FormattedErrors())
}
