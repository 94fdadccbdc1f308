package lirc

import (
	"context"

	"github.com/deepnoodle-ai/lirc/types"
)

// CompileScriptSource compiles src with default settings and returns the
// serialized script.
func CompileScriptSource(ctx context.Context, src string) ([]byte, error) {
	return CompileScriptBlob(ctx, NewConfig(src))
}

// CompileModuleSource compiles the single module of src under addr and
// returns its serialized form.
func CompileModuleSource(ctx context.Context, addr types.Address, src string) ([]byte, error) {
	return CompileModuleBlob(ctx, NewConfig(src, WithAddress(addr)))
}

// CompileProgramSource compiles src under addr and assembles a transaction
// payload with args.
func CompileProgramSource(ctx context.Context, addr types.Address, src string, args ...types.TransactionArgument) (*types.TransactionPayload, error) {
	return CompilePayload(ctx, NewConfig(src, WithAddress(addr)), args)
}
