// Package stdlib provides the baseline modules available to every
// compilation unless it opts out. The modules are compiled from embedded
// Ledger IR source and verified on first use, then shared read-only.
package stdlib

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/deepnoodle-ai/lirc/compiler"
	"github.com/deepnoodle-ai/lirc/parser"
	"github.com/deepnoodle-ai/lirc/types"
	"github.com/deepnoodle-ai/lirc/verifier"
)

// Address is the address the baseline modules are published under.
var Address = types.ZeroAddress

//go:embed lir/*.lir
var sources embed.FS

// files lists the baseline sources in compilation order. Later modules may
// import earlier ones.
var files = []string{
	"lir/math.lir",
	"lir/account.lir",
	"lir/event.lir",
}

var (
	once    sync.Once
	modules []*verifier.VerifiedModule
)

// Modules returns the baseline modules in resolution order. The returned
// slice is a fresh copy; the modules themselves are immutable.
func Modules() []*verifier.VerifiedModule {
	once.Do(func() {
		var err error
		if modules, err = load(); err != nil {
			panic(fmt.Sprintf("stdlib: %v", err))
		}
	})
	out := make([]*verifier.VerifiedModule, len(modules))
	copy(out, modules)
	return out
}

// Count returns the number of baseline modules.
func Count() int {
	return len(Modules())
}

// Source returns the Ledger IR source of the named baseline module.
func Source(name string) (string, bool) {
	for _, file := range files {
		data, err := sources.ReadFile(file)
		if err != nil {
			continue
		}
		unit, err := parser.Parse(context.Background(), string(data))
		if err != nil {
			continue
		}
		for _, m := range unit.Modules {
			if m.Name.Name == name {
				return string(data), true
			}
		}
	}
	return "", false
}

func load() ([]*verifier.VerifiedModule, error) {
	var loaded []*verifier.VerifiedModule
	for _, file := range files {
		data, err := sources.ReadFile(file)
		if err != nil {
			return nil, err
		}
		src := string(data)
		unit, err := parser.Parse(context.Background(), src, parser.WithFilename(file))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		for _, m := range unit.Modules {
			compiled, err := compiler.CompileModule(Address, m, loaded,
				compiler.WithFilename(file), compiler.WithSource(src))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			verified, err := verifier.VerifyModule(compiled)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			loaded = append(loaded, verified)
		}
	}
	return loaded, nil
}
