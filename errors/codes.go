package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Parse errors
//   - E2xxx: Compile errors
//   - E3xxx: Arity errors
//   - E4xxx: Serialization errors
type ErrorCode string

const (
	// Parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Illegal character or literal
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Missing expression
	E1005 ErrorCode = "E1005" // Unknown type
	E1006 ErrorCode = "E1006" // Expected identifier
	E1007 ErrorCode = "E1007" // Unclosed delimiter
	E1008 ErrorCode = "E1008" // Invalid number literal
	E1009 ErrorCode = "E1009" // Duplicate script

	// Compile errors (E2xxx)
	E2001 ErrorCode = "E2001" // Undefined variable
	E2002 ErrorCode = "E2002" // Undefined function
	E2003 ErrorCode = "E2003" // Unresolved module
	E2004 ErrorCode = "E2004" // Type mismatch
	E2005 ErrorCode = "E2005" // Wrong argument count
	E2006 ErrorCode = "E2006" // Duplicate definition
	E2007 ErrorCode = "E2007" // Missing return
	E2008 ErrorCode = "E2008" // Invalid native declaration
	E2009 ErrorCode = "E2009" // Missing script
	E2010 ErrorCode = "E2010" // Dependency failed verification
	E2011 ErrorCode = "E2011" // Function not public
	E2012 ErrorCode = "E2012" // Too many definitions

	// Arity errors (E3xxx)
	E3001 ErrorCode = "E3001" // Wrong module count

	// Serialization errors (E4xxx)
	E4001 ErrorCode = "E4001" // Artifact exceeds format limits
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "illegal character",
	E1003: "invalid syntax",
	E1004: "missing expression",
	E1005: "unknown type",
	E1006: "expected identifier",
	E1007: "unclosed delimiter",
	E1008: "invalid number literal",
	E1009: "duplicate script",

	E2001: "undefined variable",
	E2002: "undefined function",
	E2003: "unresolved module",
	E2004: "type mismatch",
	E2005: "wrong argument count",
	E2006: "duplicate definition",
	E2007: "missing return",
	E2008: "invalid native declaration",
	E2009: "missing script",
	E2010: "dependency failed verification",
	E2011: "function not public",
	E2012: "too many definitions",

	E3001: "wrong module count",

	E4001: "artifact exceeds format limits",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '2':
		return "compile"
	case '3':
		return "arity"
	case '4':
		return "serialization"
	default:
		return "unknown"
	}
}
