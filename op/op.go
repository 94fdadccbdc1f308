// Package op defines opcodes emitted by the Ledger IR compiler and checked by
// the bytecode verifier.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint8

const (
	Invalid Code = 0

	// Execution
	Call  Code = 3
	Ret   Code = 4
	Abort Code = 5

	// Branch
	Branch  Code = 10
	BrTrue  Code = 11
	BrFalse Code = 12

	// Load
	LdU64        Code = 20
	LdTrue       Code = 21
	LdFalse      Code = 22
	LdAddr       Code = 23
	LdBytes      Code = 24
	CopyLoc      Code = 25
	GetTxnSender Code = 26

	// Store
	StLoc Code = 30

	// Arithmetic
	Add Code = 40
	Sub Code = 41
	Mul Code = 42
	Div Code = 43
	Mod Code = 44

	// Comparison
	Lt  Code = 50
	Gt  Code = 51
	Le  Code = 52
	Ge  Code = 53
	Eq  Code = 54
	Neq Code = 55

	// Logical
	And Code = 60
	Or  Code = 61
	Not Code = 62

	// Stack
	Pop Code = 70
)

// Variadic marks a stack effect that depends on the operand, as for Call and
// Ret whose effects come from a function signature.
const Variadic = -1

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
	Pops         int
	Pushes       int
}

// IsBranch reports whether the operand of this opcode is a code offset.
func (i Info) IsBranch() bool {
	return i.Code == Branch || i.Code == BrTrue || i.Code == BrFalse
}

// IsTerminal reports whether control never falls through this opcode.
func (i Info) IsTerminal() bool {
	return i.Code == Ret || i.Code == Abort || i.Code == Branch
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op     Code
		name   string
		count  int
		pops   int
		pushes int
	}
	ops := []opInfo{
		{Abort, "ABORT", 0, 1, 0},
		{Add, "ADD", 0, 2, 1},
		{And, "AND", 0, 2, 1},
		{Branch, "BRANCH", 1, 0, 0},
		{BrFalse, "BR_FALSE", 1, 1, 0},
		{BrTrue, "BR_TRUE", 1, 1, 0},
		{Call, "CALL", 1, Variadic, Variadic},
		{CopyLoc, "COPY_LOC", 1, 0, 1},
		{Div, "DIV", 0, 2, 1},
		{Eq, "EQ", 0, 2, 1},
		{Ge, "GE", 0, 2, 1},
		{GetTxnSender, "GET_TXN_SENDER", 0, 0, 1},
		{Gt, "GT", 0, 2, 1},
		{LdAddr, "LD_ADDR", 1, 0, 1},
		{LdBytes, "LD_BYTES", 1, 0, 1},
		{LdFalse, "LD_FALSE", 0, 0, 1},
		{LdTrue, "LD_TRUE", 0, 0, 1},
		{LdU64, "LD_U64", 1, 0, 1},
		{Le, "LE", 0, 2, 1},
		{Lt, "LT", 0, 2, 1},
		{Mod, "MOD", 0, 2, 1},
		{Mul, "MUL", 0, 2, 1},
		{Neq, "NEQ", 0, 2, 1},
		{Not, "NOT", 0, 1, 1},
		{Or, "OR", 0, 2, 1},
		{Pop, "POP", 0, 1, 0},
		{Ret, "RET", 0, Variadic, 0},
		{StLoc, "ST_LOC", 1, 1, 0},
		{Sub, "SUB", 0, 2, 1},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
			Pops:         o.pops,
			Pushes:       o.pushes,
		}
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes yield
// an Info with an empty Name.
func GetInfo(op Code) Info {
	return infos[op]
}

// Valid reports whether op is a defined opcode.
func Valid(op Code) bool {
	return infos[op].Name != ""
}

func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "INVALID"
}

var binaryOps = map[string]Code{
	"+":  Add,
	"-":  Sub,
	"*":  Mul,
	"/":  Div,
	"%":  Mod,
	"<":  Lt,
	">":  Gt,
	"<=": Le,
	">=": Ge,
	"==": Eq,
	"!=": Neq,
	"&&": And,
	"||": Or,
}

// BinaryOperator returns the opcode implementing the given infix operator.
func BinaryOperator(operator string) (Code, bool) {
	code, ok := binaryOps[operator]
	return code, ok
}

// IsArithmetic reports whether op takes two u64 operands and yields a u64.
func IsArithmetic(op Code) bool {
	return op >= Add && op <= Mod
}

// IsOrdering reports whether op compares two u64 operands.
func IsOrdering(op Code) bool {
	return op >= Lt && op <= Ge
}
