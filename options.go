package lirc

import (
	"github.com/deepnoodle-ai/lirc/stdlib"
	"github.com/deepnoodle-ai/lirc/types"
	"github.com/deepnoodle-ai/lirc/verifier"
	"github.com/rs/zerolog"
)

// Option configures a compilation request.
type Option func(*options)

type options struct {
	address         types.Address
	skipBaseline    bool
	extraDeps       []*verifier.VerifiedModule
	baselineAddress types.Address
	filename        string
	logger          zerolog.Logger
}

func collectOptions(opts ...Option) *options {
	o := &options{
		baselineAddress: stdlib.Address,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithAddress sets the sender address. Modules in the source are published
// under this address. The default is the zero address.
func WithAddress(addr types.Address) Option {
	return func(o *options) {
		o.address = addr
	}
}

// WithSkipBaseline excludes the baseline modules from dependency resolution
// by CompileProgram and CompileModule.
func WithSkipBaseline(skip bool) Option {
	return func(o *options) {
		o.skipBaseline = skip
	}
}

// WithExtraDeps sets the extra dependencies, replacing any set earlier.
func WithExtraDeps(deps ...*verifier.VerifiedModule) Option {
	return func(o *options) {
		o.extraDeps = append([]*verifier.VerifiedModule(nil), deps...)
	}
}

// WithBaselineAddress records the address the caller expects the baseline
// modules at. Resolution always uses the modules of the stdlib package.
func WithBaselineAddress(addr types.Address) Option {
	return func(o *options) {
		o.baselineAddress = addr
	}
}

// WithFilename sets the filename used in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithLogger sets the logger that receives pipeline stage transitions at
// debug level. By default nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
