package ssa

// Function is one SSA function: its declared Signature, a block
// graph, and a value graph (spec §3, Function (SSA)).
type Function struct {
	Sig        Signature
	Visibility Visibility
	Entry      BlockID

	blocks      []*Block
	values      []Value
	nextInstrID InstrID

	// vars is the current source-level variable -> Value binding,
	// scoped to whatever block is "current" during construction; the
	// lowering pass manages its own lexical scoping on top of this by
	// saving/restoring snapshots around nested scopes.
	vars map[string]ValueID
}

// NewFunction allocates an empty function with no blocks yet.
func NewFunction(sig Signature, vis Visibility) *Function {
	return &Function{
		Sig:        sig,
		Visibility: vis,
		vars:       make(map[string]ValueID),
	}
}

func (f *Function) Block(id BlockID) *Block {
	return f.blocks[id]
}

func (f *Function) Blocks() []*Block {
	return f.blocks
}

func (f *Function) Value(id ValueID) *Value {
	return &f.values[id]
}

func (f *Function) NumBlocks() int { return len(f.blocks) }

func (f *Function) newValue(typ Type, defBlock BlockID, defInstr InstrID, paramIdx int) ValueID {
	id := ValueID(len(f.values))
	f.values = append(f.values, Value{ID: id, Typ: typ, DefBlock: defBlock, DefInstr: defInstr, ParamIndex: paramIdx})
	return id
}

// ValueType returns the refined type of value v.
func (f *Function) ValueType(v ValueID) Type {
	return f.values[v].Typ
}

// SetValueType refines the type recorded for v (used after a
// successful type test narrows what generated code can assume).
func (f *Function) SetValueType(v ValueID, t Type) {
	f.values[v].Typ = t
}

// DefineVar binds name to value within the current construction
// scope.
func (f *Function) DefineVar(name string, v ValueID) {
	f.vars[name] = v
}

// Var looks up name's current binding, and false if unbound.
func (f *Function) Var(name string) (ValueID, bool) {
	v, ok := f.vars[name]
	return v, ok
}

// SetVarType is a convenience that refines, in place, the type
// recorded for name's current value without introducing a cast
// instruction; used when the lowering pass learns a variable's refined type from
// context (e.g. after a Select type test) without needing the value
// itself to change identity.
func (f *Function) SetVarType(name string, t Type) {
	if v, ok := f.vars[name]; ok {
		f.SetValueType(v, t)
	}
}
