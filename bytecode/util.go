package bytecode

import "github.com/deepnoodle-ai/lirc/types"

func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

func copyAddresses(src []types.Address) []types.Address {
	if src == nil {
		return nil
	}
	dst := make([]types.Address, len(src))
	copy(dst, src)
	return dst
}

func copyByteArrays(src [][]byte) [][]byte {
	if src == nil {
		return nil
	}
	dst := make([][]byte, len(src))
	for i, b := range src {
		dst[i] = copyBytes(b)
	}
	return dst
}

func copyBytes(src []byte) []byte {
	if src == nil {
		return nil
	}
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}

func copyTokens(src []SignatureToken) []SignatureToken {
	if src == nil {
		return nil
	}
	dst := make([]SignatureToken, len(src))
	copy(dst, src)
	return dst
}

func copyInstructions(src []Instruction) []Instruction {
	if src == nil {
		return nil
	}
	dst := make([]Instruction, len(src))
	copy(dst, src)
	return dst
}

func copySignatures(src []FunctionSignature) []FunctionSignature {
	if src == nil {
		return nil
	}
	dst := make([]FunctionSignature, len(src))
	for i, s := range src {
		dst[i] = s.Clone()
	}
	return dst
}

func copyModuleHandles(src []ModuleHandle) []ModuleHandle {
	if src == nil {
		return nil
	}
	dst := make([]ModuleHandle, len(src))
	copy(dst, src)
	return dst
}

func copyFunctionHandles(src []FunctionHandle) []FunctionHandle {
	if src == nil {
		return nil
	}
	dst := make([]FunctionHandle, len(src))
	copy(dst, src)
	return dst
}

func copyFunctions(src []FunctionDef) []FunctionDef {
	if src == nil {
		return nil
	}
	dst := make([]FunctionDef, len(src))
	for i, f := range src {
		dst[i] = f.clone()
	}
	return dst
}
