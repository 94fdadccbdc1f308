package lirc

import (
	"context"

	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/types"
)

// BuildPayload serializes the script and modules of program and assembles
// them with args into a transaction payload. Modules keep their program
// order and args are passed through unchanged.
func BuildPayload(program *bytecode.CompiledProgram, args []types.TransactionArgument) (*types.TransactionPayload, error) {
	script, err := bytecode.SerializeScript(program.Script())
	if err != nil {
		return nil, err
	}
	modules, err := bytecode.SerializeModules(program.Modules())
	if err != nil {
		return nil, err
	}
	return types.NewTransactionPayload(script, modules, args), nil
}

// CompileScript compiles cfg as a program and returns only its script.
func CompileScript(ctx context.Context, cfg *Config) (*bytecode.CompiledScript, error) {
	result, err := CompileProgram(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return result.Program.Script(), nil
}

// CompileScriptBlob compiles cfg as a program and returns the serialized
// script.
func CompileScriptBlob(ctx context.Context, cfg *Config) ([]byte, error) {
	script, err := CompileScript(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return bytecode.SerializeScript(script)
}

// CompileModuleBlob compiles the single module of cfg and returns its
// serialized form.
func CompileModuleBlob(ctx context.Context, cfg *Config) ([]byte, error) {
	result, err := CompileModule(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return bytecode.SerializeModule(result.Module)
}

// CompilePayload compiles cfg as a program and assembles a transaction
// payload with args.
func CompilePayload(ctx context.Context, cfg *Config, args []types.TransactionArgument) (*types.TransactionPayload, error) {
	result, err := CompilePayloadAndDeps(ctx, cfg, args)
	if err != nil {
		return nil, err
	}
	return result.Payload, nil
}

// PayloadResult is a transaction payload together with the dependencies the
// program was linked against and the modules it publishes.
type PayloadResult struct {
	Payload *types.TransactionPayload
	Deps    DependencySet
	Modules []*bytecode.CompiledModule
}

// CompilePayloadAndDeps is CompilePayload that also returns the resolved
// dependencies and the compiled modules of the program.
func CompilePayloadAndDeps(ctx context.Context, cfg *Config, args []types.TransactionArgument) (*PayloadResult, error) {
	result, err := CompileProgram(ctx, cfg)
	if err != nil {
		return nil, err
	}
	payload, err := BuildPayload(result.Program, args)
	if err != nil {
		return nil, err
	}
	return &PayloadResult{
		Payload: payload,
		Deps:    result.Deps,
		Modules: result.Program.Modules(),
	}, nil
}

// CompilePayloadWithDeps compiles cfg with CompileProgramWithDeps and
// assembles a transaction payload with args.
func CompilePayloadWithDeps(ctx context.Context, cfg *Config, args []types.TransactionArgument, deps []*bytecode.CompiledModule) (*types.TransactionPayload, error) {
	result, err := CompileProgramWithDeps(ctx, cfg, deps)
	if err != nil {
		return nil, err
	}
	return BuildPayload(result.Program, args)
}
