package ssa

import "github.com/glow-lang/glow/internal/symbol"

// InstrID identifies an instruction within its owning function; it is
// not the instruction's position in its block's Instrs slice.
type InstrID int

// Callee identifies what a call/call_indirect/enter/enter_indirect
// instruction invokes: either a statically known function (by module
// function index, per the Module (SSA) invariant) or an indirect
// value carrying a closure.
type Callee struct {
	Static   *FuncIndex // non-nil for a direct call
	Indirect ValueID    // used when Static == nil
}

// FuncIndex is a stable reference to a declared function within a
// Module.
type FuncIndex struct {
	Index int
}

// Edge is a branch target plus the block-parameter argument values
// passed to it.
type Edge struct {
	Target BlockID
	Args   []ValueID
}

// SwitchArm is one arm of a switch terminator: a constant value to
// match the scrutinee against, and the edge to take when it matches.
type SwitchArm struct {
	Value int64
	Edge  Edge
}

// Instr is one instruction in a block. Not every field is meaningful
// for every Op; see the constructor methods on Builder for the
// well-formed combinations. This loose-struct shape mirrors the
// style of a stack/tree IR node carrying a big sum-type payload, the
// same shape the teacher's own instruction representation uses
// (std/compiler/ir.go's Opcode-tagged node), adapted here to carry
// SSA operands/results instead of a stack discipline.
type Instr struct {
	ID      InstrID
	Op      Opcode
	Args    []ValueID
	Results []ValueID

	// Constant payload, valid for OpConst*.
	AtomSym  symbol.Symbol
	IntImm   int64
	FloatImm float64
	BigImm   string // decimal string, to avoid importing math/big here
	BinImm   []byte

	// Memory-op / cast immediates.
	Index    int
	Typ      Type

	// Call/enter payload.
	Callee Callee

	// Control-flow payload.
	Targets []Edge      // br/br_if/br_unless/cond_br: 1 or 2 edges
	Switch  []SwitchArm // switch: N value arms
	Default *Edge       // switch: fallthrough edge

	// bs_match / bs_match_skip / bs_push payload.
	BitSize int
}
