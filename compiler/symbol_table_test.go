package compiler

import (
	"testing"

	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/stretchr/testify/require"
)

func TestSymbolTable(t *testing.T) {
	root := NewSymbolTable(MaxLocals)
	a, err := root.InsertVariable("a", bytecode.U64)
	require.Nil(t, err)
	require.Equal(t, uint16(0), a.Index())
	require.Equal(t, "a", a.Name())
	require.Equal(t, bytecode.U64, a.Type())

	_, err = root.InsertVariable("a", bytecode.Bool)
	require.Error(t, err)

	block := root.NewBlock()
	require.Equal(t, root, block.Parent())
	inner, err := block.InsertVariable("a", bytecode.Bool)
	require.Nil(t, err)
	require.Equal(t, uint16(1), inner.Index())

	sym, ok := block.Resolve("a")
	require.True(t, ok)
	require.Equal(t, bytecode.Bool, sym.Type())

	sym, ok = root.Resolve("a")
	require.True(t, ok)
	require.Equal(t, bytecode.U64, sym.Type())

	_, err = block.InsertVariable("b", bytecode.Address)
	require.Nil(t, err)
	require.Equal(t, []string{"a", "b"}, block.AllNames())
	require.Equal(t, []string{"a"}, root.AllNames())

	_, ok = root.Resolve("b")
	require.False(t, ok)

	require.Equal(t, 3, root.Count())
	require.Equal(t, []bytecode.SignatureToken{bytecode.U64, bytecode.Bool, bytecode.Address}, root.Locals())
}

func TestSymbolTableLimit(t *testing.T) {
	root := NewSymbolTable(2)
	_, err := root.InsertVariable("a", bytecode.U64)
	require.Nil(t, err)
	_, err = root.NewBlock().InsertVariable("b", bytecode.U64)
	require.Nil(t, err)
	_, err = root.InsertVariable("c", bytecode.U64)
	require.Error(t, err)
	require.Contains(t, err.Error(), "too many locals")
}
