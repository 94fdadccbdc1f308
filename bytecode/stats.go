package bytecode

// Stats contains statistics about a compiled artifact.
// This is useful for auditing artifacts before publishing them.
type Stats struct {
	// InstructionCount is the total number of bytecode instructions.
	InstructionCount int

	// FunctionCount is the number of function definitions, including a
	// script's main function.
	FunctionCount int

	// NativeCount is the number of native function declarations.
	NativeCount int

	// ImportCount is the number of module handles other than a module's own.
	ImportCount int

	// PoolEntries is the combined size of the identifier, address and byte
	// array pools.
	PoolEntries int
}

func (t *tables) poolEntries() int {
	return len(t.identifiers) + len(t.addresses) + len(t.byteArrays)
}

// Stats returns statistics about the module.
func (m *CompiledModule) Stats() Stats {
	s := Stats{
		FunctionCount: len(m.functions),
		PoolEntries:   m.poolEntries(),
	}
	if n := len(m.moduleHandles); n > 0 {
		s.ImportCount = n - 1
	}
	for _, fn := range m.functions {
		s.InstructionCount += len(fn.Code)
		if fn.IsNative() {
			s.NativeCount++
		}
	}
	return s
}

// Stats returns statistics about the script.
func (sc *CompiledScript) Stats() Stats {
	return Stats{
		InstructionCount: len(sc.main.Code),
		FunctionCount:    1,
		ImportCount:      len(sc.moduleHandles),
		PoolEntries:      sc.poolEntries(),
	}
}

// Stats returns combined statistics for the script and its modules.
func (p *CompiledProgram) Stats() Stats {
	total := p.script.Stats()
	for _, m := range p.modules {
		s := m.Stats()
		total.InstructionCount += s.InstructionCount
		total.FunctionCount += s.FunctionCount
		total.NativeCount += s.NativeCount
		total.ImportCount += s.ImportCount
		total.PoolEntries += s.PoolEntries
	}
	return total
}
