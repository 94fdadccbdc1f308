// Package bytecode provides immutable representations of compiled Ledger IR.
//
// This package defines the output of compilation: pure data structures that
// represent compiled modules and scripts, together with their canonical binary
// encoding. These types are created once by the compiler and may be shared
// safely across goroutines.
//
// # Key Types
//
//   - [CompiledModule]: a module published under an account address
//   - [CompiledScript]: a transaction script with a single main function
//   - [CompiledProgram]: a script plus the modules declared alongside it
//   - [FunctionDef]: a function body with its locals and instructions
//
// # Immutability Guarantees
//
// Constructors copy their input and accessors return copies, so a compiled
// artifact never changes after construction. Index-based access is used for
// all tables:
//
//	m.IdentifierAt(i)
//	m.FunctionHandleAt(j)
//	m.FunctionAt(k)
//
// # Binary Format
//
// [SerializeModule] and [SerializeScript] produce the canonical encoding: the
// magic bytes A1 1C EB 0B, a format version byte, an artifact kind byte and
// then each table in a fixed order. Lengths are ULEB128 encoded and fixed-width
// integers are little-endian. Table sizes and table indices must fit in a
// uint16; larger artifacts fail with an *errors.SerializationError. The
// encoding is a pure function of the artifact.
package bytecode
