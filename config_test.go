package lirc

import (
	"sync"
	"testing"

	"github.com/deepnoodle-ai/lirc/stdlib"
	"github.com/deepnoodle-ai/lirc/types"
	"github.com/deepnoodle-ai/lirc/verifier"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig("main() {}")
	require.Equal(t, "main() {}", cfg.Source())
	require.Equal(t, types.ZeroAddress, cfg.Address())
	require.False(t, cfg.SkipBaseline())
	require.Equal(t, stdlib.Address, cfg.BaselineAddress())
	require.Equal(t, "", cfg.Filename())
	require.False(t, cfg.Consumed())
}

func TestConfigOptions(t *testing.T) {
	cfg := NewConfig("x",
		WithAddress(twoAddr),
		WithSkipBaseline(true),
		WithBaselineAddress(oneAddr),
		WithFilename("x.lir"),
		nil,
	)
	require.Equal(t, twoAddr, cfg.Address())
	require.True(t, cfg.SkipBaseline())
	require.Equal(t, oneAddr, cfg.BaselineAddress())
	require.Equal(t, "x.lir", cfg.Filename())
}

func TestConfigConsumedOnce(t *testing.T) {
	cfg := NewConfig(minimalScript)
	_, err := CompileProgram(ctx, cfg)
	require.Nil(t, err)
	require.True(t, cfg.Consumed())

	_, err = CompileProgram(ctx, cfg)
	require.ErrorIs(t, err, ErrConfigConsumed)
	_, err = CompileModule(ctx, cfg)
	require.ErrorIs(t, err, ErrConfigConsumed)
	_, err = CompileProgramWithDeps(ctx, cfg, nil)
	require.ErrorIs(t, err, ErrConfigConsumed)
	require.ErrorIs(t, cfg.SetExtraDeps(nil), ErrConfigConsumed)
}

func TestConfigConsumedByFailedCompile(t *testing.T) {
	cfg := NewConfig("main( {")
	_, err := CompileProgram(ctx, cfg)
	require.Error(t, err)
	_, err = CompileProgram(ctx, cfg)
	require.ErrorIs(t, err, ErrConfigConsumed)
}

func TestConfigConcurrentConsume(t *testing.T) {
	cfg := NewConfig(minimalScript)
	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = CompileProgram(ctx, cfg)
		}(i)
	}
	wg.Wait()
	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrConfigConsumed)
		}
	}
	require.Equal(t, 1, succeeded)
}

func TestSetExtraDepsReplaces(t *testing.T) {
	a := verifiedModule(t, oneAddr, "module A {}")
	b := verifiedModule(t, oneAddr, "module B {}")
	cfg := NewConfig(minimalScript, WithExtraDeps(a))
	require.Nil(t, cfg.SetExtraDeps([]*verifier.VerifiedModule{b}))

	result, err := CompileProgram(ctx, cfg)
	require.Nil(t, err)
	require.False(t, result.Deps.Contains(a))
	require.True(t, result.Deps.Contains(b))
}

func TestSetExtraDepsCopies(t *testing.T) {
	a := verifiedModule(t, oneAddr, "module A {}")
	b := verifiedModule(t, oneAddr, "module B {}")
	deps := []*verifier.VerifiedModule{a}
	cfg := NewConfig(minimalScript)
	require.Nil(t, cfg.SetExtraDeps(deps))
	deps[0] = b

	result, err := CompileProgram(ctx, cfg)
	require.Nil(t, err)
	require.True(t, result.Deps.Contains(a))
	require.False(t, result.Deps.Contains(b))
}
