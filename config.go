package lirc

import (
	stderrors "errors"
	"sync"
	"sync/atomic"

	"github.com/deepnoodle-ai/lirc/types"
	"github.com/deepnoodle-ai/lirc/verifier"
	"github.com/rs/zerolog"
)

// ErrConfigConsumed is returned when a Config is passed to a second
// compilation, or modified after its compilation started.
var ErrConfigConsumed = stderrors.New("lirc: config already consumed")

// Config describes one compilation request. A Config is consumed by the
// first compile function it is passed to; later calls fail with
// ErrConfigConsumed without compiling.
type Config struct {
	source          string
	address         types.Address
	skipBaseline    bool
	baselineAddress types.Address
	filename        string
	logger          zerolog.Logger

	mu        sync.Mutex
	extraDeps []*verifier.VerifiedModule
	consumed  atomic.Bool
}

// NewConfig returns a request to compile source.
func NewConfig(source string, opts ...Option) *Config {
	o := collectOptions(opts...)
	return &Config{
		source:          source,
		address:         o.address,
		skipBaseline:    o.skipBaseline,
		baselineAddress: o.baselineAddress,
		filename:        o.filename,
		logger:          o.logger,
		extraDeps:       o.extraDeps,
	}
}

// Source returns the source text to compile.
func (c *Config) Source() string { return c.source }

// Address returns the sender address.
func (c *Config) Address() types.Address { return c.address }

// SkipBaseline reports whether the baseline modules are excluded by the
// default resolution policy.
func (c *Config) SkipBaseline() bool { return c.skipBaseline }

// BaselineAddress returns the recorded baseline address hint.
func (c *Config) BaselineAddress() types.Address { return c.baselineAddress }

// Filename returns the filename used in error messages.
func (c *Config) Filename() string { return c.filename }

// Consumed reports whether the config was already passed to a compile
// function.
func (c *Config) Consumed() bool { return c.consumed.Load() }

// SetExtraDeps replaces the extra dependencies wholesale.
func (c *Config) SetExtraDeps(deps []*verifier.VerifiedModule) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.consumed.Load() {
		return ErrConfigConsumed
	}
	c.extraDeps = append([]*verifier.VerifiedModule(nil), deps...)
	return nil
}

// request is the state a compile function takes over from a Config.
type request struct {
	source       string
	address      types.Address
	skipBaseline bool
	filename     string
	logger       zerolog.Logger
	extraDeps    []*verifier.VerifiedModule
}

// consume marks the config as used and moves its extra dependencies out.
func (c *Config) consume() (*request, error) {
	if c == nil {
		return nil, stderrors.New("lirc: nil config")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.consumed.CompareAndSwap(false, true) {
		return nil, ErrConfigConsumed
	}
	extras := c.extraDeps
	c.extraDeps = nil
	return &request{
		source:       c.source,
		address:      c.address,
		skipBaseline: c.skipBaseline,
		filename:     c.filename,
		logger:       c.logger,
		extraDeps:    extras,
	}, nil
}
