package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourceLocation_String(t *testing.T) {
	require.Equal(t, "a.lir:3:4", SourceLocation{Filename: "a.lir", Line: 3, Column: 4}.String())
	require.Equal(t, "3:4", SourceLocation{Line: 3, Column: 4}.String())
	require.True(t, SourceLocation{}.IsZero())
}

func TestErrorCode_Category(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		category string
	}{
		{E1001, "parse"},
		{E2003, "compile"},
		{E3001, "arity"},
		{E4001, "serialization"},
		{ErrorCode("X"), "unknown"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.category, tt.code.Category(), tt.code)
	}
	require.Equal(t, "unresolved module", E2003.Description())
	require.Equal(t, "unknown error", ErrorCode("E9999").Description())
}

func TestParseErrorAggregates(t *testing.T) {
	err := NewParseError(
		&SyntaxError{Code: E1001, Message: "unexpected token ';'", Line: 1, Column: 5},
		nil,
		&SyntaxError{Code: E1005, Message: "unknown type \"u8\"", Line: 2, Column: 9},
	)
	require.Equal(t, 2, err.Count())
	require.Equal(t,
		`parse error: 2 errors: unexpected token ';' (line 1, column 5); unknown type "u8" (line 2, column 9)`,
		err.Error())

	var se *SyntaxError
	require.True(t, stderrors.As(err, &se))
	require.Equal(t, E1001, se.Code)
	require.Len(t, err.FormattedErrors(), 2)
	require.Contains(t, err.FriendlyErrorMessage(), "found 2 errors")
}

func TestParseErrorSingle(t *testing.T) {
	err := NewParseError(&SyntaxError{Message: "expected ';'", Line: 4, Column: 1})
	require.Equal(t, "parse error: expected ';' (line 4, column 1)", err.Error())
}

func TestArityError(t *testing.T) {
	err := &ArityError{Expected: 1, Found: 2}
	require.Equal(t, "arity error: expected exactly one module, found 2", err.Error())
	require.Equal(t, E3001, err.ToFormatted().Code)
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		kind ErrorKind
	}{
		{nil, KindUnknown},
		{fmt.Errorf("plain"), KindUnknown},
		{NewParseError(&SyntaxError{Message: "x"}), KindParse},
		{&CompileError{Message: "x"}, KindCompile},
		{fmt.Errorf("wrapped: %w", &CompileError{Message: "x"}), KindCompile},
		{&ArityError{Expected: 1}, KindArity},
		{&SerializationError{Artifact: "script", Err: fmt.Errorf("too big")}, KindSerialization},
	}
	for _, tt := range tests {
		require.Equal(t, tt.kind, Kind(tt.err))
	}
	require.True(t, IsInternal(&SerializationError{Artifact: "script", Err: fmt.Errorf("x")}))
	require.Equal(t, "arity error", KindArity.String())
}

func TestCompileErrorMessage(t *testing.T) {
	err := &CompileError{
		Code:     E2003,
		Message:  `unresolved module "0x0.Math"`,
		Symbol:   "0x0.Math",
		Filename: "m.lir",
		Line:     2,
		Column:   5,
	}
	require.Equal(t,
		"compile error: unresolved module \"0x0.Math\"\n\nlocation: m.lir:2:5 (line 2, column 5)",
		err.Error())
}

func TestSuggestSimilar(t *testing.T) {
	got := SuggestSimilar("balanse", []string{"balance", "transfer", "balance", "sender"})
	require.Equal(t, []Suggestion{{Value: "balance", Distance: 1}}, got)

	require.Nil(t, SuggestSimilar("", []string{"x"}))
	require.Empty(t, SuggestSimilar("abc", []string{"xyz"}))
	require.Equal(t, "did you mean one of: 'a', 'b'?",
		FormatSuggestions([]Suggestion{{Value: "a"}, {Value: "b"}}))
}

func TestEditDistance(t *testing.T) {
	require.Equal(t, 0, editDistance("max", "max"))
	require.Equal(t, 3, editDistance("kitten", "sitting"))
	require.Equal(t, 4, editDistance("", "math"))
}

func TestFormatter_Format(t *testing.T) {
	fe := (&CompileError{
		Code:        E2002,
		Message:     `undefined function "mx"`,
		Filename:    "s.lir",
		Line:        3,
		Column:      5,
		EndColumn:   7,
		SourceLine:  "    mx(1, 2);",
		Suggestions: []Suggestion{{Value: "max"}},
	}).ToFormatted()
	out := NewFormatter(false).Format(fe)
	expected := strings.Join([]string{
		`compile error[E2002]: undefined function "mx"`,
		`  --> s.lir:3:5`,
		`   |`,
		` 3 |     mx(1, 2);`,
		`   |     ^^`,
		`   = hint: did you mean 'max'?`,
		``,
	}, "\n")
	require.Equal(t, expected, out)
}

func TestFormatter_FormatWithColor(t *testing.T) {
	fe := &FormattedError{Kind: "compile error", Message: "boom"}
	require.Contains(t, NewFormatter(true).Format(fe), "\x1b[")
	require.NotContains(t, NewFormatter(false).Format(fe), "\x1b[")
}

func TestFriendly(t *testing.T) {
	require.Equal(t, "plain", Friendly(fmt.Errorf("plain"), false))
	out := Friendly(&ArityError{Expected: 1, Found: 0}, false)
	require.Equal(t, "arity error[E3001]: expected exactly one module, found 0\n", out)
}
