package stdlib

import (
	"sync"
	"testing"

	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/op"
	"github.com/stretchr/testify/require"
)

func TestModules(t *testing.T) {
	mods := Modules()
	require.Len(t, mods, 3)
	require.Equal(t, 3, Count())

	var names []string
	for _, m := range mods {
		require.Equal(t, Address, m.Address())
		names = append(names, m.Name())
	}
	require.Equal(t, []string{"Math", "Account", "Event"}, names)

	sig, public, ok := mods[0].LookupFunction("pow")
	require.True(t, ok)
	require.True(t, public)
	require.Equal(t, "(u64, u64): u64", sig.String())

	_, public, ok = mods[2].LookupFunction("write")
	require.True(t, ok)
	require.False(t, public)
}

func TestModulesReturnsCopy(t *testing.T) {
	first := Modules()
	first[0] = nil
	second := Modules()
	require.NotNil(t, second[0])
	require.Equal(t, "Math", second[0].Name())
}

func TestModulesShared(t *testing.T) {
	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for _, m := range Modules() {
				results[i] = append(results[i], m.ID().String())
			}
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.Equal(t, results[0], r)
	}
	require.Equal(t, []string{"0x0.Math", "0x0.Account", "0x0.Event"}, results[0])
}

func TestNativeFunctions(t *testing.T) {
	account := Modules()[1].Module()
	def, _, ok := account.LookupFunction("balance")
	require.True(t, ok)
	require.True(t, def.IsNative())

	def, _, ok = account.LookupFunction("sender")
	require.True(t, ok)
	require.False(t, def.IsNative())
	require.Equal(t, []bytecode.Instruction{
		{Op: op.GetTxnSender},
		{Op: op.Ret},
	}, def.Code)
}

func TestSource(t *testing.T) {
	src, ok := Source("Account")
	require.True(t, ok)
	require.Contains(t, src, "module Account")

	_, ok = Source("Nope")
	require.False(t, ok)
}
