package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTransactionPayloadPreservesOrder(t *testing.T) {
	modules := [][]byte{{3}, {1}, {2}}
	args := []TransactionArgument{
		U64Argument(7),
		AddressArgument(MustParseAddress("0xa")),
		BoolArgument(true),
	}
	p := NewTransactionPayload([]byte{9, 9}, modules, args)

	require.Equal(t, []byte{9, 9}, p.Script())
	require.Equal(t, modules, p.Modules())
	require.Equal(t, 3, p.ModuleCount())
	require.Equal(t, args, p.Args())

	// Mutating the inputs must not reach the payload.
	modules[0][0] = 42
	require.Equal(t, byte(3), p.Modules()[0][0])
}

func TestPayloadSerializeDeterministic(t *testing.T) {
	build := func() *TransactionPayload {
		return NewTransactionPayload(
			[]byte("script"),
			[][]byte{[]byte("a"), []byte("bb")},
			[]TransactionArgument{
				U64Argument(1),
				BytesArgument([]byte{0xde, 0xad}),
				StringArgument("hello"),
			},
		)
	}
	first := build().Serialize()
	second := build().Serialize()
	require.Equal(t, first, second)

	decoded, err := DeserializePayload(first)
	require.Nil(t, err)
	require.Equal(t, []byte("script"), decoded.Script())
	require.Equal(t, [][]byte{[]byte("a"), []byte("bb")}, decoded.Modules())
	require.Len(t, decoded.Args(), 3)
	require.True(t, decoded.Args()[1].Equal(BytesArgument([]byte{0xde, 0xad})))
}

func TestDeserializePayloadRejectsTrailingBytes(t *testing.T) {
	data := NewTransactionPayload(nil, nil, nil).Serialize()
	_, err := DeserializePayload(append(data, 0))
	require.NotNil(t, err)
}

func TestParseArgument(t *testing.T) {
	arg, err := ParseArgument(ArgU64, "42")
	require.Nil(t, err)
	require.Equal(t, uint64(42), arg.U64())
	require.Equal(t, "{U64: 42}", arg.String())

	arg, err = ParseArgument(ArgBytes, "cafe")
	require.Nil(t, err)
	require.Equal(t, []byte{0xca, 0xfe}, arg.Bytes())

	_, err = ParseArgument(ArgBool, "maybe")
	require.NotNil(t, err)

	kind, err := ParseArgumentKind("address")
	require.Nil(t, err)
	require.Equal(t, ArgAddress, kind)
}
