// Package verifier checks compiled Ledger IR for structural and type safety
// before it may be used as a dependency or published.
package verifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/types"
	"github.com/hashicorp/go-multierror"
)

// VerifiedModule is a module that passed verification. It can only be
// obtained from VerifyModule.
type VerifiedModule struct {
	module *bytecode.CompiledModule
	id     bytecode.ModuleID
	funcs  map[string]exported
}

type exported struct {
	sig    bytecode.FunctionSignature
	public bool
}

// Module returns a deep copy of the verified module.
func (v *VerifiedModule) Module() *bytecode.CompiledModule {
	return v.module.Clone()
}

// ID returns the module's address and name.
func (v *VerifiedModule) ID() bytecode.ModuleID { return v.id }

// Address returns the address the module is published under.
func (v *VerifiedModule) Address() types.Address { return v.id.Address }

// Name returns the module name.
func (v *VerifiedModule) Name() string { return v.id.Name }

// LookupFunction returns the signature of the named function and whether it
// is public.
func (v *VerifiedModule) LookupFunction(name string) (sig bytecode.FunctionSignature, public bool, ok bool) {
	f, ok := v.funcs[name]
	if !ok {
		return bytecode.FunctionSignature{}, false, false
	}
	return f.sig.Clone(), f.public, true
}

// FunctionNames returns the names of the module's functions, sorted.
func (v *VerifiedModule) FunctionNames() []string {
	names := make([]string, 0, len(v.funcs))
	for name := range v.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (v *VerifiedModule) String() string {
	return v.id.String()
}

// Error is a single verification failure.
type Error struct {
	Artifact string // "module 0x1.Math" or "script"
	Function string // empty for table-level failures
	PC       int    // -1 when not tied to an instruction
	Message  string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Artifact)
	if e.Function != "" {
		b.WriteString(", function ")
		b.WriteString(e.Function)
	}
	if e.PC >= 0 {
		fmt.Fprintf(&b, ", pc %d", e.PC)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func formatErrors(errs []error) string {
	if len(errs) == 1 {
		return "verification failed: " + errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("verification failed: %d errors: %s", len(errs), strings.Join(msgs, "; "))
}

type checker struct {
	artifact string
	t        bytecode.Tables
	errs     *multierror.Error
}

func newChecker(artifact string, t bytecode.Tables) *checker {
	return &checker{
		artifact: artifact,
		t:        t,
		errs:     &multierror.Error{ErrorFormat: formatErrors},
	}
}

func (c *checker) fail(function string, pc int, format string, args ...any) {
	c.errs = multierror.Append(c.errs, &Error{
		Artifact: c.artifact,
		Function: function,
		PC:       pc,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *checker) count() int {
	return c.errs.Len()
}

// VerifyModule checks m and returns a VerifiedModule. Every violation found
// is reported in the returned error, which wraps one *Error per violation.
func VerifyModule(m *bytecode.CompiledModule) (*VerifiedModule, error) {
	if m == nil {
		return nil, fmt.Errorf("verification failed: nil module")
	}
	t := m.Tables()
	c := newChecker("module", t)
	if len(t.ModuleHandles) == 0 {
		c.fail("", -1, "missing self module handle")
		return nil, c.errs.ErrorOrNil()
	}
	c.artifact = "module " + m.ID().String()
	c.checkTables()
	if c.count() > 0 {
		return nil, c.errs.ErrorOrNil()
	}

	funcs := map[string]exported{}
	seenHandles := map[uint16]bool{}
	for i := 0; i < m.FunctionCount(); i++ {
		fn := m.FunctionAt(i)
		if int(fn.Handle) >= len(t.FunctionHandles) {
			c.fail(fmt.Sprintf("#%d", i), -1, "function handle %d out of range", fn.Handle)
			continue
		}
		h := t.FunctionHandles[fn.Handle]
		name := t.Identifiers[h.Name]
		if h.Module != 0 {
			c.fail(name, -1, "defined function must belong to the self module handle")
			continue
		}
		if seenHandles[fn.Handle] {
			c.fail(name, -1, "function handle %d defined twice", fn.Handle)
			continue
		}
		seenHandles[fn.Handle] = true
		if _, dup := funcs[name]; dup {
			c.fail(name, -1, "duplicate function name")
			continue
		}
		sig := t.Signatures[h.Signature]
		funcs[name] = exported{sig: sig, public: fn.IsPublic()}
		c.checkFunction(name, sig, fn)
	}
	if err := c.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &VerifiedModule{module: m.Clone(), id: m.ID(), funcs: funcs}, nil
}

// VerifyScript checks s. The script's main function must return nothing.
func VerifyScript(s *bytecode.CompiledScript) error {
	if s == nil {
		return fmt.Errorf("verification failed: nil script")
	}
	c := newChecker("script", s.Tables())
	c.checkTables()
	if c.count() > 0 {
		return c.errs.ErrorOrNil()
	}
	for _, p := range s.Parameters() {
		if !p.Valid() {
			c.fail("main", -1, "invalid parameter type %d", uint8(p))
		}
	}
	main := s.Main()
	if main.IsNative() {
		c.fail("main", -1, "main function cannot be native")
	}
	c.checkFunction("main", bytecode.FunctionSignature{Params: s.Parameters()}, main)
	return c.errs.ErrorOrNil()
}

// checkTables validates that every index in the handle tables is in range
// and every signature is well formed.
func (c *checker) checkTables() {
	t := c.t
	for i, h := range t.ModuleHandles {
		if int(h.Address) >= len(t.Addresses) {
			c.fail("", -1, "module handle %d: address index %d out of range", i, h.Address)
		}
		if int(h.Name) >= len(t.Identifiers) {
			c.fail("", -1, "module handle %d: name index %d out of range", i, h.Name)
		}
	}
	for i, h := range t.FunctionHandles {
		if int(h.Module) >= len(t.ModuleHandles) {
			c.fail("", -1, "function handle %d: module index %d out of range", i, h.Module)
		}
		if int(h.Name) >= len(t.Identifiers) {
			c.fail("", -1, "function handle %d: name index %d out of range", i, h.Name)
		}
		if int(h.Signature) >= len(t.Signatures) {
			c.fail("", -1, "function handle %d: signature index %d out of range", i, h.Signature)
		}
	}
	for i, s := range t.Signatures {
		if len(s.Returns) > 1 {
			c.fail("", -1, "signature %d: at most one return type allowed", i)
		}
		for _, tok := range append(append([]bytecode.SignatureToken{}, s.Params...), s.Returns...) {
			if !tok.Valid() {
				c.fail("", -1, "signature %d: invalid type %d", i, uint8(tok))
			}
		}
	}
}

func (c *checker) checkFunction(name string, sig bytecode.FunctionSignature, fn bytecode.FunctionDef) {
	if len(fn.Locals) < len(sig.Params) {
		c.fail(name, -1, "%d locals cannot hold %d parameters", len(fn.Locals), len(sig.Params))
		return
	}
	for i, p := range sig.Params {
		if fn.Locals[i] != p {
			c.fail(name, -1, "local %d has type %s, parameter has type %s", i, fn.Locals[i], p)
			return
		}
	}
	for i, l := range fn.Locals {
		if !l.Valid() {
			c.fail(name, -1, "local %d has invalid type %d", i, uint8(l))
			return
		}
	}
	if fn.IsNative() {
		if len(fn.Code) > 0 {
			c.fail(name, -1, "native function has a body")
		}
		return
	}
	if len(fn.Code) == 0 {
		c.fail(name, -1, "function has no code")
		return
	}
	c.checkCode(name, sig, fn)
}
