package ssa

// ValueID identifies an SSA value within its owning Function.
type ValueID int

// Value is a definition site: either a block parameter or the result
// of an instruction. Every Value is defined exactly once (spec §3,
// Function (SSA) invariant).
type Value struct {
	ID   ValueID
	Typ  Type
	// DefBlock/DefInstr locate the definition: DefInstr is -1 for a
	// block parameter, in which case DefBlock/ParamIndex locate it.
	DefBlock   BlockID
	DefInstr   InstrID
	ParamIndex int
}
