package verifier

import (
	"github.com/deepnoodle-ai/lirc/bytecode"
	"github.com/deepnoodle-ai/lirc/op"
)

type stack []bytecode.SignatureToken

func (s stack) equal(o stack) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// checkCode abstractly interprets a function body, tracking the type of each
// stack slot along every path. The first violation in a function stops the
// check for that function.
func (c *checker) checkCode(name string, sig bytecode.FunctionSignature, fn bytecode.FunctionDef) {
	code := fn.Code
	states := make([]stack, len(code))
	visited := make([]bool, len(code))
	worklist := []int{0}
	states[0] = stack{}
	visited[0] = true

	// flow records the entry stack of a successor, reporting a mismatch with
	// a previously recorded stack.
	flow := func(from, to int, st stack) bool {
		if to >= len(code) {
			c.fail(name, from, "control flows past the end of the function")
			return false
		}
		if visited[to] {
			if !states[to].equal(st) {
				c.fail(name, from, "inconsistent stack at pc %d: %v vs %v", to, states[to], st)
				return false
			}
			return true
		}
		visited[to] = true
		states[to] = append(stack{}, st...)
		worklist = append(worklist, to)
		return true
	}

	for len(worklist) > 0 {
		pc := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		st := append(stack{}, states[pc]...)
		ins := code[pc]
		info := op.GetInfo(ins.Op)
		if info.Name == "" {
			c.fail(name, pc, "unknown opcode %d", uint8(ins.Op))
			return
		}

		pop := func(want ...bytecode.SignatureToken) bool {
			if len(st) < len(want) {
				c.fail(name, pc, "%s: stack underflow", ins.Op)
				return false
			}
			base := len(st) - len(want)
			for i, w := range want {
				if st[base+i] != w {
					c.fail(name, pc, "%s: expected %s on the stack, found %s", ins.Op, w, st[base+i])
					return false
				}
			}
			st = st[:base]
			return true
		}
		local := func() (bytecode.SignatureToken, bool) {
			if ins.Arg >= uint64(len(fn.Locals)) {
				c.fail(name, pc, "%s: local index %d out of range", ins.Op, ins.Arg)
				return 0, false
			}
			return fn.Locals[ins.Arg], true
		}

		switch {
		case op.IsArithmetic(ins.Op):
			if !pop(bytecode.U64, bytecode.U64) {
				return
			}
			st = append(st, bytecode.U64)
		case op.IsOrdering(ins.Op):
			if !pop(bytecode.U64, bytecode.U64) {
				return
			}
			st = append(st, bytecode.Bool)
		}

		switch ins.Op {
		case op.Add, op.Sub, op.Mul, op.Div, op.Mod, op.Lt, op.Gt, op.Le, op.Ge:
			// handled above
		case op.Eq, op.Neq:
			if len(st) < 2 {
				c.fail(name, pc, "%s: stack underflow", ins.Op)
				return
			}
			if st[len(st)-1] != st[len(st)-2] {
				c.fail(name, pc, "%s: cannot compare %s with %s", ins.Op, st[len(st)-2], st[len(st)-1])
				return
			}
			st = append(st[:len(st)-2], bytecode.Bool)
		case op.And, op.Or:
			if !pop(bytecode.Bool, bytecode.Bool) {
				return
			}
			st = append(st, bytecode.Bool)
		case op.Not:
			if !pop(bytecode.Bool) {
				return
			}
			st = append(st, bytecode.Bool)
		case op.LdU64:
			st = append(st, bytecode.U64)
		case op.LdTrue, op.LdFalse:
			st = append(st, bytecode.Bool)
		case op.LdAddr:
			if ins.Arg >= uint64(len(c.t.Addresses)) {
				c.fail(name, pc, "%s: address index %d out of range", ins.Op, ins.Arg)
				return
			}
			st = append(st, bytecode.Address)
		case op.LdBytes:
			if ins.Arg >= uint64(len(c.t.ByteArrays)) {
				c.fail(name, pc, "%s: byte array index %d out of range", ins.Op, ins.Arg)
				return
			}
			st = append(st, bytecode.ByteArray)
		case op.GetTxnSender:
			st = append(st, bytecode.Address)
		case op.CopyLoc:
			t, ok := local()
			if !ok {
				return
			}
			st = append(st, t)
		case op.StLoc:
			t, ok := local()
			if !ok || !pop(t) {
				return
			}
		case op.Pop:
			if len(st) == 0 {
				c.fail(name, pc, "%s: stack underflow", ins.Op)
				return
			}
			st = st[:len(st)-1]
		case op.Call:
			if ins.Arg >= uint64(len(c.t.FunctionHandles)) {
				c.fail(name, pc, "%s: function handle %d out of range", ins.Op, ins.Arg)
				return
			}
			callee := c.t.Signatures[c.t.FunctionHandles[ins.Arg].Signature]
			if !pop(callee.Params...) {
				return
			}
			st = append(st, callee.Returns...)
		case op.Ret:
			if !stack(sig.Returns).equal(st) {
				c.fail(name, pc, "%s: stack %v does not match return types %v", ins.Op, st, sig.Returns)
				return
			}
			continue
		case op.Abort:
			if !pop(bytecode.U64) {
				return
			}
			continue
		case op.Branch, op.BrTrue, op.BrFalse:
			if ins.Arg >= uint64(len(code)) {
				c.fail(name, pc, "%s: branch target %d out of range", ins.Op, ins.Arg)
				return
			}
			if ins.Op != op.Branch && !pop(bytecode.Bool) {
				return
			}
			if !flow(pc, int(ins.Arg), st) {
				return
			}
			if ins.Op == op.Branch {
				continue
			}
		default:
			c.fail(name, pc, "unsupported opcode %s", ins.Op)
			return
		}

		if !flow(pc, pc+1, st) {
			return
		}
	}
}
