package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(CopyLoc)
	require.Equal(t, "COPY_LOC", info.Name)
	require.Equal(t, 1, info.OperandCount)
	require.Equal(t, CopyLoc, info.Code)
	require.Equal(t, 0, info.Pops)
	require.Equal(t, 1, info.Pushes)
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code     Code
		name     string
		operands int
	}{
		{Call, "CALL", 1},
		{Ret, "RET", 0},
		{Abort, "ABORT", 0},
		{Branch, "BRANCH", 1},
		{BrTrue, "BR_TRUE", 1},
		{BrFalse, "BR_FALSE", 1},
		{LdU64, "LD_U64", 1},
		{LdTrue, "LD_TRUE", 0},
		{LdFalse, "LD_FALSE", 0},
		{LdAddr, "LD_ADDR", 1},
		{LdBytes, "LD_BYTES", 1},
		{CopyLoc, "COPY_LOC", 1},
		{GetTxnSender, "GET_TXN_SENDER", 0},
		{StLoc, "ST_LOC", 1},
		{Add, "ADD", 0},
		{Sub, "SUB", 0},
		{Mul, "MUL", 0},
		{Div, "DIV", 0},
		{Mod, "MOD", 0},
		{Lt, "LT", 0},
		{Gt, "GT", 0},
		{Le, "LE", 0},
		{Ge, "GE", 0},
		{Eq, "EQ", 0},
		{Neq, "NEQ", 0},
		{And, "AND", 0},
		{Or, "OR", 0},
		{Not, "NOT", 0},
		{Pop, "POP", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.code, info.Code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.operands, info.OperandCount)
			require.True(t, Valid(tt.code))
			require.Equal(t, tt.name, tt.code.String())
		})
	}
}

func TestInvalidOpcode(t *testing.T) {
	require.False(t, Valid(Invalid))
	require.False(t, Valid(Code(200)))
	require.Equal(t, "INVALID", Code(200).String())
}

func TestBinaryOperator(t *testing.T) {
	code, ok := BinaryOperator("<=")
	require.True(t, ok)
	require.Equal(t, Le, code)
	require.True(t, IsOrdering(code))
	require.False(t, IsArithmetic(code))

	code, ok = BinaryOperator("%")
	require.True(t, ok)
	require.True(t, IsArithmetic(code))

	_, ok = BinaryOperator("**")
	require.False(t, ok)
}

func TestBranchAndTerminal(t *testing.T) {
	require.True(t, GetInfo(BrFalse).IsBranch())
	require.False(t, GetInfo(BrFalse).IsTerminal())
	require.True(t, GetInfo(Branch).IsTerminal())
	require.True(t, GetInfo(Abort).IsTerminal())
	require.False(t, GetInfo(Add).IsBranch())
}
