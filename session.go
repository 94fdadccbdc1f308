package lirc

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/types"
	"github.com/deepnoodle-ai/lirc/verifier"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
)

// Session compiles a sequence of modules and scripts in which later units
// may depend on modules compiled earlier in the same session. A Session is
// not safe for concurrent use.
type Session struct {
	id      uuid.UUID
	address types.Address
	opts    []Option
	log     zerolog.Logger
	modules []*bytecode.CompiledModule
	deps    []*verifier.VerifiedModule
}

// NewSession returns a session publishing modules under addr. The options
// are applied to every compilation in the session; WithAddress is
// overridden by addr.
func NewSession(addr types.Address, opts ...Option) *Session {
	id := uuid.Must(uuid.NewV4())
	o := collectOptions(opts...)
	return &Session{
		id:      id,
		address: addr,
		opts:    opts,
		log:     o.logger.With().Str("session", id.String()).Logger(),
	}
}

// ID returns the unique identifier of the session.
func (s *Session) ID() uuid.UUID { return s.id }

// Address returns the address modules are published under.
func (s *Session) Address() types.Address { return s.address }

// Modules returns the modules added so far, in order.
func (s *Session) Modules() []*bytecode.CompiledModule {
	out := make([]*bytecode.CompiledModule, len(s.modules))
	for i, m := range s.modules {
		out[i] = m.Clone()
	}
	return out
}

func (s *Session) config(src string) *Config {
	opts := append(append([]Option{}, s.opts...), WithAddress(s.address), WithLogger(s.log))
	return NewConfig(src, opts...)
}

// AddModule compiles the single module of src against the baseline and the
// modules already in the session, verifies it and adds it to the session.
func (s *Session) AddModule(ctx context.Context, src string) (*bytecode.CompiledModule, error) {
	cfg := s.config(src)
	if err := cfg.SetExtraDeps(s.deps); err != nil {
		return nil, err
	}
	result, err := CompileModule(ctx, cfg)
	if err != nil {
		return nil, err
	}
	verified, err := verifier.VerifyModule(result.Module)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", result.Module.ID(), err)
	}
	s.modules = append(s.modules, result.Module)
	s.deps = append(s.deps, verified)
	s.log.Debug().Str("module", result.Module.ID().String()).Int("count", len(s.modules)).Msg("module added")
	return result.Module, nil
}

// CompileScript compiles src as a program against the baseline and every
// module in the session and assembles a transaction payload with args.
func (s *Session) CompileScript(ctx context.Context, src string, args []types.TransactionArgument) (*types.TransactionPayload, error) {
	return CompilePayloadWithDeps(ctx, s.config(src), args, s.modules)
}
