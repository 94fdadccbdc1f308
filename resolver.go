package lirc

import (
	"github.com/deepnoodle-ai/lirc/stdlib"
	"github.com/deepnoodle-ai/lirc/types"
	"github.com/deepnoodle-ai/lirc/verifier"
)

// Policy selects how the baseline modules are merged with the extra
// dependencies of a request.
type Policy int

const (
	// PolicyDefault yields the baseline followed by the extras, or only the
	// extras when the baseline is skipped.
	PolicyDefault Policy = iota

	// PolicyForcedMerge always yields the baseline followed by the extras
	// and ignores the skip flag.
	PolicyForcedMerge
)

func (p Policy) String() string {
	switch p {
	case PolicyDefault:
		return "default"
	case PolicyForcedMerge:
		return "forced-merge"
	}
	return "unknown"
}

// DependencySet is an ordered list of verified modules. Lookups return the
// first module with a matching identity.
type DependencySet struct {
	modules []*verifier.VerifiedModule
}

// NewDependencySet returns a set holding a copy of modules.
func NewDependencySet(modules ...*verifier.VerifiedModule) DependencySet {
	return DependencySet{modules: append([]*verifier.VerifiedModule(nil), modules...)}
}

// Len returns the number of modules in the set.
func (s DependencySet) Len() int { return len(s.modules) }

// At returns the i-th module.
func (s DependencySet) At(i int) *verifier.VerifiedModule { return s.modules[i] }

// Modules returns a copy of the modules in resolution order.
func (s DependencySet) Modules() []*verifier.VerifiedModule {
	return append([]*verifier.VerifiedModule(nil), s.modules...)
}

// Lookup returns the first module published as name under addr.
func (s DependencySet) Lookup(addr types.Address, name string) (*verifier.VerifiedModule, bool) {
	for _, m := range s.modules {
		if m.Address() == addr && m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// Contains reports whether m is a member of the set.
func (s DependencySet) Contains(m *verifier.VerifiedModule) bool {
	for _, candidate := range s.modules {
		if candidate == m {
			return true
		}
	}
	return false
}

// Resolve builds the dependency set for the given policy. Baseline modules
// always precede the extras. The extras slice is not modified.
func Resolve(policy Policy, extras []*verifier.VerifiedModule, skipBaseline bool) DependencySet {
	if policy == PolicyDefault && skipBaseline {
		return NewDependencySet(extras...)
	}
	baseline := stdlib.Modules()
	merged := make([]*verifier.VerifiedModule, 0, len(baseline)+len(extras))
	merged = append(merged, baseline...)
	merged = append(merged, extras...)
	return DependencySet{modules: merged}
}

// ResolveDefault resolves with PolicyDefault.
func ResolveDefault(extras []*verifier.VerifiedModule, skipBaseline bool) DependencySet {
	return Resolve(PolicyDefault, extras, skipBaseline)
}

// ResolveForcedMerge resolves with PolicyForcedMerge.
func ResolveForcedMerge(extras []*verifier.VerifiedModule) DependencySet {
	return Resolve(PolicyForcedMerge, extras, false)
}
