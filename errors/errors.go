// Package errors defines the error taxonomy of the compilation pipeline:
// parse, compile, arity and serialization errors, each carrying an
// ErrorCode and enough source context to render a friendly diagnostic.
package errors

import (
	stderrors "errors"
	"fmt"
)

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename string
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Source   string // The line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// ErrorKind classifies a pipeline error.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindParse
	KindCompile
	KindArity
	KindSerialization
)

func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindCompile:
		return "compile error"
	case KindArity:
		return "arity error"
	case KindSerialization:
		return "serialization error"
	default:
		return "error"
	}
}

// Kind reports which class of the taxonomy err belongs to, looking through
// wrapped errors.
func Kind(err error) ErrorKind {
	var (
		parseErr *ParseError
		compErr  *CompileError
		arityErr *ArityError
		serErr   *SerializationError
	)
	switch {
	case err == nil:
		return KindUnknown
	case stderrors.As(err, &parseErr):
		return KindParse
	case stderrors.As(err, &arityErr):
		return KindArity
	case stderrors.As(err, &compErr):
		return KindCompile
	case stderrors.As(err, &serErr):
		return KindSerialization
	}
	return KindUnknown
}

// IsInternal reports whether err signals a violated internal invariant
// rather than a problem with caller input.
func IsInternal(err error) bool {
	return Kind(err) == KindSerialization
}

// MultiFormattableError is implemented by errors that aggregate several
// diagnostics.
type MultiFormattableError interface {
	Error() string
	FormattedErrors() []*FormattedError
}

// Friendly renders err with the friendly formatter when it supports one.
func Friendly(err error, useColor bool) string {
	var multi MultiFormattableError
	if stderrors.As(err, &multi) {
		return NewFormatter(useColor).FormatMultiple(multi.FormattedErrors())
	}
	var fe FormattableError
	if stderrors.As(err, &fe) {
		return NewFormatter(useColor).Format(fe.ToFormatted())
	}
	return err.Error()
}
