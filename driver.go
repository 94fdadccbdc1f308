// Package lirc compiles Ledger IR source into bytecode artifacts.
//
// A compilation is described by a Config and run by one of the compile
// functions. Each run parses the source, resolves the dependency set and
// emits either a program (a script plus the modules declared next to it) or
// a single module. Results can be serialized into canonical bytes or
// assembled into a transaction payload.
//
//	cfg := lirc.NewConfig(src, lirc.WithAddress(addr))
//	result, err := lirc.CompileProgram(ctx, cfg)
package lirc

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/lirc/ast"
	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/compiler"
	"github.com/deepnoodle-ai/lirc/errors"
	"github.com/deepnoodle-ai/lirc/parser"
	"github.com/deepnoodle-ai/lirc/verifier"
	"github.com/rs/zerolog"
)

// Stage is a step of the compilation pipeline.
type Stage int

const (
	StageStart Stage = iota
	StageParsed
	StageDependenciesResolved
	StageEmitted
	StageSuccess
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageParsed:
		return "parsed"
	case StageDependenciesResolved:
		return "dependencies-resolved"
	case StageEmitted:
		return "emitted"
	case StageSuccess:
		return "success"
	case StageFailed:
		return "failed"
	}
	return "unknown"
}

// ProgramResult is a compiled program and the dependencies it was linked
// against.
type ProgramResult struct {
	Program *bytecode.CompiledProgram
	Deps    DependencySet
}

// ModuleResult is a compiled module and the dependencies it was linked
// against.
type ModuleResult struct {
	Module *bytecode.CompiledModule
	Deps   DependencySet
}

// pipeline tracks one compilation run.
type pipeline struct {
	req   *request
	log   zerolog.Logger
	stage Stage
}

func newPipeline(req *request, entry string) *pipeline {
	p := &pipeline{
		req: req,
		log: req.logger.With().Str("entry", entry).Str("address", req.address.ShortString()).Logger(),
	}
	p.advance(StageStart)
	return p
}

func (p *pipeline) advance(stage Stage) {
	p.stage = stage
	p.log.Debug().Stringer("stage", stage).Msg("pipeline stage")
}

func (p *pipeline) fail(err error) error {
	p.log.Debug().Err(err).Stringer("stage", p.stage).Stringer("kind", errors.Kind(err)).Msg("compilation failed")
	p.stage = StageFailed
	return err
}

// checkpoint fails the run if ctx is done.
func (p *pipeline) checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return p.fail(err)
	}
	return nil
}

func (p *pipeline) parse(ctx context.Context) (*ast.Unit, error) {
	var opts []parser.Option
	if p.req.filename != "" {
		opts = append(opts, parser.WithFilename(p.req.filename))
	}
	unit, err := parser.Parse(ctx, p.req.source, opts...)
	if err != nil {
		return nil, p.fail(err)
	}
	p.advance(StageParsed)
	return unit, nil
}

func (p *pipeline) resolve(ctx context.Context, policy Policy, extras []*verifier.VerifiedModule) (DependencySet, error) {
	if err := p.checkpoint(ctx); err != nil {
		return DependencySet{}, err
	}
	deps := Resolve(policy, extras, p.req.skipBaseline)
	p.log.Debug().Stringer("policy", policy).Int("deps", deps.Len()).Msg("dependencies resolved")
	p.advance(StageDependenciesResolved)
	return deps, nil
}

func (p *pipeline) compilerOpts() []compiler.Option {
	opts := []compiler.Option{compiler.WithSource(p.req.source)}
	if p.req.filename != "" {
		opts = append(opts, compiler.WithFilename(p.req.filename))
	}
	return opts
}

func (p *pipeline) emitProgram(ctx context.Context, unit *ast.Unit, deps DependencySet) (*ProgramResult, error) {
	if err := p.checkpoint(ctx); err != nil {
		return nil, err
	}
	program, err := compiler.CompileProgram(p.req.address, unit, deps.Modules(), p.compilerOpts()...)
	if err != nil {
		return nil, p.fail(err)
	}
	p.advance(StageEmitted)
	p.log.Debug().Int("modules", program.ModuleCount()).Msg("program emitted")
	p.advance(StageSuccess)
	return &ProgramResult{Program: program, Deps: deps}, nil
}

// CompileProgram compiles the script of cfg's source, together with any
// modules declared next to it, against the baseline plus the extra
// dependencies (PolicyDefault).
func CompileProgram(ctx context.Context, cfg *Config) (*ProgramResult, error) {
	req, err := cfg.consume()
	if err != nil {
		return nil, err
	}
	p := newPipeline(req, "program")
	unit, err := p.parse(ctx)
	if err != nil {
		return nil, err
	}
	deps, err := p.resolve(ctx, PolicyDefault, req.extraDeps)
	if err != nil {
		return nil, err
	}
	return p.emitProgram(ctx, unit, deps)
}

// CompileModule compiles the single module of cfg's source. A source unit
// that does not declare exactly one module yields an *errors.ArityError.
// A script in the same source is ignored.
func CompileModule(ctx context.Context, cfg *Config) (*ModuleResult, error) {
	req, err := cfg.consume()
	if err != nil {
		return nil, err
	}
	p := newPipeline(req, "module")
	unit, err := p.parse(ctx)
	if err != nil {
		return nil, err
	}
	if n := len(unit.Modules); n != 1 {
		return nil, p.fail(&errors.ArityError{Expected: 1, Found: n, Filename: req.filename})
	}
	deps, err := p.resolve(ctx, PolicyDefault, req.extraDeps)
	if err != nil {
		return nil, err
	}
	if err := p.checkpoint(ctx); err != nil {
		return nil, err
	}
	module, err := compiler.CompileModule(req.address, unit.Modules[0], deps.Modules(), p.compilerOpts()...)
	if err != nil {
		return nil, p.fail(err)
	}
	p.advance(StageEmitted)
	p.advance(StageSuccess)
	return &ModuleResult{Module: module, Deps: deps}, nil
}

// CompileProgramWithDeps compiles a program against modules compiled earlier
// in the same session. Once the source parses, each module in deps is
// verified and appended after the config's extra dependencies; the result is
// always merged with the baseline (PolicyForcedMerge), regardless of the
// skip flag.
func CompileProgramWithDeps(ctx context.Context, cfg *Config, deps []*bytecode.CompiledModule) (*ProgramResult, error) {
	req, err := cfg.consume()
	if err != nil {
		return nil, err
	}
	p := newPipeline(req, "program-with-deps")
	unit, err := p.parse(ctx)
	if err != nil {
		return nil, err
	}
	verified, err := verifyDeps(deps)
	if err != nil {
		return nil, p.fail(err)
	}
	extras := make([]*verifier.VerifiedModule, 0, len(req.extraDeps)+len(verified))
	extras = append(extras, req.extraDeps...)
	extras = append(extras, verified...)
	resolved, err := p.resolve(ctx, PolicyForcedMerge, extras)
	if err != nil {
		return nil, err
	}
	return p.emitProgram(ctx, unit, resolved)
}

func verifyDeps(deps []*bytecode.CompiledModule) ([]*verifier.VerifiedModule, error) {
	verified := make([]*verifier.VerifiedModule, 0, len(deps))
	for i, m := range deps {
		if m == nil {
			return nil, &errors.CompileError{
				Code:    errors.E2010,
				Message: fmt.Sprintf("dependency %d is nil", i),
			}
		}
		v, err := verifier.VerifyModule(m)
		if err != nil {
			return nil, &errors.CompileError{
				Code:    errors.E2010,
				Message: fmt.Sprintf("dependency %s failed verification", m.ID()),
				Symbol:  m.ID().String(),
				Note:    err.Error(),
				Cause:   err,
			}
		}
		verified = append(verified, v)
	}
	return verified, nil
}
