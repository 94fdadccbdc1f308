package lirc

import (
	"testing"

	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/types"
	"github.com/stretchr/testify/require"
)

func TestSourceHelpers(t *testing.T) {
	blob, err := CompileScriptSource(ctx, minimalScript)
	require.Nil(t, err)
	kind, err := bytecode.PeekKind(blob)
	require.Nil(t, err)
	require.Equal(t, bytecode.KindScript, kind)

	blob, err = CompileModuleSource(ctx, twoAddr, coinModule)
	require.Nil(t, err)
	m, err := bytecode.DeserializeModule(blob)
	require.Nil(t, err)
	require.Equal(t, twoAddr, m.Address())

	payload, err := CompileProgramSource(ctx, twoAddr, coinModule+`
import 0x2.Coin;
main(n: u64) {
    let c: u64 = Coin.cap(n);
}`, types.U64Argument(5))
	require.Nil(t, err)
	require.Equal(t, 1, payload.ModuleCount())
	require.Len(t, payload.Args(), 1)

	decoded, err := types.DeserializePayload(payload.Serialize())
	require.Nil(t, err)
	require.Equal(t, payload.Script(), decoded.Script())
	require.Equal(t, payload.Modules(), decoded.Modules())
}

func TestSourceHelpersReturnErrors(t *testing.T) {
	_, err := CompileScriptSource(ctx, "main() { x = 1; }")
	require.Error(t, err)
	_, err = CompileModuleSource(ctx, twoAddr, minimalScript)
	require.Error(t, err)
}
