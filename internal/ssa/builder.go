package ssa

import "github.com/glow-lang/glow/internal/symbol"

// Builder is a cursor over a Function under construction: it tracks
// the current block and appends instructions/params to it, mirroring
// the create_block/switch_to_block/ins() API named in spec §4.2.
type Builder struct {
	Fn      *Function
	current BlockID
	hasCur  bool
}

// NewBuilder starts construction of fn.
func NewBuilder(fn *Function) *Builder {
	return &Builder{Fn: fn}
}

// CreateBlock appends a new, empty block and returns its ID. The
// first block created becomes the function's entry block.
func (b *Builder) CreateBlock() BlockID {
	id := BlockID(len(b.Fn.blocks))
	b.Fn.blocks = append(b.Fn.blocks, &Block{ID: id})
	if id == 0 {
		b.Fn.Entry = id
	}
	return id
}

// SwitchToBlock moves the cursor to block id; subsequent Ins() calls
// append there.
func (b *Builder) SwitchToBlock(id BlockID) {
	b.current = id
	b.hasCur = true
}

// CurrentBlock returns the block the cursor currently appends to.
func (b *Builder) CurrentBlock() BlockID {
	if !b.hasCur {
		panic("ssa: no current block")
	}
	return b.current
}

// IsCurrentBlockTerminated reports whether the cursor's block already
// ends in a terminator, meaning no further instructions may be
// appended to it.
func (b *Builder) IsCurrentBlockTerminated() bool {
	return b.Fn.Block(b.CurrentBlock()).IsTerminated()
}

// IsBlockEmpty reports whether id has no instructions at all.
func (b *Builder) IsBlockEmpty(id BlockID) bool {
	return b.Fn.Block(id).IsEmpty()
}

// AppendBlockParam adds a parameter of type t to block id and returns
// the Value that represents it. Block params are the only join
// mechanism in this IR (spec §3): every value flowing into a block
// from more than one predecessor must arrive as a param, never as a
// phi node bolted onto an existing value.
func (b *Builder) AppendBlockParam(id BlockID, t Type) ValueID {
	blk := b.Fn.Block(id)
	paramIdx := len(blk.Params)
	v := b.Fn.newValue(t, id, -1, paramIdx)
	blk.Params = append(blk.Params, v)
	return v
}

// DefineVar binds name in the function's current variable scope.
func (b *Builder) DefineVar(name string, v ValueID) { b.Fn.DefineVar(name, v) }

// Var resolves name's current binding.
func (b *Builder) Var(name string) (ValueID, bool) { return b.Fn.Var(name) }

// ValueType returns v's refined type.
func (b *Builder) ValueType(v ValueID) Type { return b.Fn.ValueType(v) }

// SetValueType refines v's recorded type.
func (b *Builder) SetValueType(v ValueID, t Type) { b.Fn.SetValueType(v, t) }

// SetVarType refines the type of name's current binding.
func (b *Builder) SetVarType(name string, t Type) { b.Fn.SetVarType(name, t) }

// RemoveBlock deletes block id outright, e.g. a Match result block
// nothing branches to; callers must not hold onto Edges targeting a
// removed block.
func (b *Builder) RemoveBlock(id BlockID) {
	b.Fn.blocks[id] = nil
}

// InstrResults returns the result values produced by instruction id in
// block blk.
func (b *Builder) InstrResults(blk BlockID, id InstrID) []ValueID {
	for _, ins := range b.Fn.Block(blk).Instrs {
		if ins.ID == id {
			return ins.Results
		}
	}
	return nil
}

// appendEdgePred records blk as a predecessor of every edge's target,
// keeping Block.Preds current as terminators are emitted.
func (b *Builder) appendEdgePred(from BlockID, edges ...Edge) {
	for _, e := range edges {
		target := b.Fn.Block(e.Target)
		target.Preds = append(target.Preds, from)
	}
}

// append adds instr to the current block and returns its index within
// that block's Instrs slice (not its global InstrID, which is only an
// opaque identity tag).
func (b *Builder) append(instr Instr) int {
	cur := b.Fn.Block(b.CurrentBlock())
	if cur.IsTerminated() {
		panic("ssa: block already terminated")
	}
	instr.ID = b.Fn.nextInstrID
	b.Fn.nextInstrID++
	cur.Instrs = append(cur.Instrs, instr)
	return len(cur.Instrs) - 1
}

func (b *Builder) result(t Type, localIdx int) ValueID {
	cur := b.Fn.Block(b.current)
	return b.Fn.newValue(t, b.CurrentBlock(), cur.Instrs[localIdx].ID, -1)
}

// --- Constants ---

func (b *Builder) ConstAtom(sym symbol.Symbol) ValueID {
	id := b.append(Instr{Op: OpConstAtom, AtomSym: sym})
	v := b.result(Type{Kind: TypeAtomT}, id)
	b.Fn.Block(b.current).Instrs[id].Results = []ValueID{v}
	return v
}

func (b *Builder) ConstInt(n int64) ValueID {
	id := b.append(Instr{Op: OpConstInt, IntImm: n})
	v := b.result(Type{Kind: TypeIntT}, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) ConstBigInt(decimal string) ValueID {
	id := b.append(Instr{Op: OpConstBigInt, BigImm: decimal})
	v := b.result(Type{Kind: TypeIntT}, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) ConstFloat(f float64) ValueID {
	id := b.append(Instr{Op: OpConstFloat, FloatImm: f})
	v := b.result(Type{Kind: TypeFloatT}, id)
	b.setResults(id, v)
	return v
}

// ConstBool materializes a machine boolean flag (I1), as distinct from
// the term-level 'true'/'false' atoms a guard expression evaluates to.
func (b *Builder) ConstBool(v bool) ValueID {
	imm := int64(0)
	if v {
		imm = 1
	}
	id := b.append(Instr{Op: OpConstInt, IntImm: imm})
	r := b.result(I1, id)
	b.setResults(id, r)
	return r
}

func (b *Builder) ConstNil() ValueID {
	id := b.append(Instr{Op: OpConstNil})
	v := b.result(Type{Kind: TypeNilT}, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) ConstBitstring(data []byte) ValueID {
	id := b.append(Instr{Op: OpConstBitstring, BinImm: data})
	v := b.result(Type{Kind: TypeBinaryT}, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) Cons(head, tail ValueID) ValueID {
	id := b.append(Instr{Op: OpConstCons, Args: []ValueID{head, tail}})
	v := b.result(Type{Kind: TypeConsT}, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) TupleImm(elems ...ValueID) ValueID {
	id := b.append(Instr{Op: OpConstTupleImm, Args: elems})
	v := b.result(Type{Kind: TypeTupleT}, id)
	b.setResults(id, v)
	return v
}

// --- Comparisons ---

func (b *Builder) EqExact(lhs, rhs ValueID) ValueID {
	id := b.append(Instr{Op: OpEqExact, Args: []ValueID{lhs, rhs}})
	v := b.result(I1, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) EqExactImm(lhs ValueID, immIdx int) ValueID {
	id := b.append(Instr{Op: OpEqExactImm, Args: []ValueID{lhs}, Index: immIdx})
	v := b.result(I1, id)
	b.setResults(id, v)
	return v
}

// --- Memory ops ---

func (b *Builder) GetElementImm(tuple ValueID, index int, t Type) ValueID {
	id := b.append(Instr{Op: OpGetElementImm, Args: []ValueID{tuple}, Index: index})
	v := b.result(t, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) SetElementMut(tuple, index, value ValueID) {
	b.append(Instr{Op: OpSetElementMut, Args: []ValueID{tuple, index, value}})
}

func (b *Builder) SetElementMutImm(tuple ValueID, index int, value ValueID) {
	b.append(Instr{Op: OpSetElementMutImm, Args: []ValueID{tuple, value}, Index: index})
}

func (b *Builder) Head(cons ValueID) ValueID {
	id := b.append(Instr{Op: OpHead, Args: []ValueID{cons}})
	v := b.result(Any, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) Tail(cons ValueID) ValueID {
	id := b.append(Instr{Op: OpTail, Args: []ValueID{cons}})
	v := b.result(Any, id)
	b.setResults(id, v)
	return v
}

// TupleSize is fallible: is_err is set when the argument is not a
// tuple at all, distinct from the arity switch that follows a
// successful size fetch (spec §4.3.4, the Tuple Select class).
func (b *Builder) TupleSize(tuple ValueID) (isErr, size ValueID) {
	id := b.append(Instr{Op: OpTupleSize, Args: []ValueID{tuple}})
	isErr = b.result(I1, id)
	size = b.result(Type{Kind: TypeIntT}, id)
	b.setResults(id, isErr, size)
	return
}

// --- Casts and type tests ---

func (b *Builder) Cast(v ValueID, t Type) ValueID {
	id := b.append(Instr{Op: OpCast, Args: []ValueID{v}, Typ: t})
	r := b.result(t, id)
	b.setResults(id, r)
	return r
}

func (b *Builder) IsType(v ValueID, t Type) ValueID {
	id := b.append(Instr{Op: OpIsType, Args: []ValueID{v}, Typ: t})
	r := b.result(I1, id)
	b.setResults(id, r)
	return r
}

// --- Terminators ---

func (b *Builder) Br(target BlockID, args ...ValueID) {
	e := Edge{Target: target, Args: args}
	b.append(Instr{Op: OpBr, Targets: []Edge{e}})
	b.appendEdgePred(b.current, e)
}

func (b *Builder) BrIf(cond ValueID, thenTarget BlockID, thenArgs []ValueID, elseTarget BlockID, elseArgs []ValueID) {
	te := Edge{Target: thenTarget, Args: thenArgs}
	ee := Edge{Target: elseTarget, Args: elseArgs}
	b.append(Instr{Op: OpBrIf, Args: []ValueID{cond}, Targets: []Edge{te, ee}})
	b.appendEdgePred(b.current, te, ee)
}

func (b *Builder) BrUnless(cond ValueID, thenTarget BlockID, thenArgs []ValueID, elseTarget BlockID, elseArgs []ValueID) {
	te := Edge{Target: thenTarget, Args: thenArgs}
	ee := Edge{Target: elseTarget, Args: elseArgs}
	b.append(Instr{Op: OpBrUnless, Args: []ValueID{cond}, Targets: []Edge{te, ee}})
	b.appendEdgePred(b.current, te, ee)
}

func (b *Builder) CondBr(cond ValueID, thenTarget BlockID, elseTarget BlockID) {
	te := Edge{Target: thenTarget}
	ee := Edge{Target: elseTarget}
	b.append(Instr{Op: OpCondBr, Args: []ValueID{cond}, Targets: []Edge{te, ee}})
	b.appendEdgePred(b.current, te, ee)
}

func (b *Builder) Switch(scrutinee ValueID, arms []SwitchArm, dflt Edge) {
	b.append(Instr{Op: OpSwitch, Args: []ValueID{scrutinee}, Switch: arms, Default: &dflt})
	edges := make([]Edge, 0, len(arms)+1)
	for _, a := range arms {
		edges = append(edges, a.Edge)
	}
	edges = append(edges, dflt)
	b.appendEdgePred(b.current, edges...)
}

func (b *Builder) Ret(values ...ValueID) {
	b.append(Instr{Op: OpRet, Args: values})
}

// RetOk and RetErr emit the {is_err, value} paired-return convention
// every Erlang-convention function uses instead of unwinding (spec
// §4.1's fail-context design): RetOk's is_err is implicitly false,
// RetErr's is implicitly true.
func (b *Builder) RetOk(value ValueID) {
	b.append(Instr{Op: OpRetOk, Args: []ValueID{value}})
}

func (b *Builder) RetErr(exc ValueID) {
	b.append(Instr{Op: OpRetErr, Args: []ValueID{exc}})
}

// --- Calls ---

func (b *Builder) Call(callee FuncIndex, args []ValueID, results []Type) []ValueID {
	id := b.append(Instr{Op: OpCall, Args: args, Callee: Callee{Static: &callee}})
	return b.multiResult(id, results)
}

func (b *Builder) CallIndirect(closure ValueID, args []ValueID, results []Type) []ValueID {
	allArgs := append([]ValueID{closure}, args...)
	id := b.append(Instr{Op: OpCallIndirect, Args: allArgs, Callee: Callee{Indirect: closure}})
	return b.multiResult(id, results)
}

// Enter is a tail call: it terminates the block, transferring control
// without returning to the current frame.
func (b *Builder) Enter(callee FuncIndex, args []ValueID) {
	b.append(Instr{Op: OpEnter, Args: args, Callee: Callee{Static: &callee}})
}

func (b *Builder) EnterIndirect(closure ValueID, args []ValueID) {
	allArgs := append([]ValueID{closure}, args...)
	b.append(Instr{Op: OpEnterIndirect, Args: allArgs, Callee: Callee{Indirect: closure}})
}

// --- Closures ---

func (b *Builder) MakeFun(callee FuncIndex, env []ValueID) ValueID {
	id := b.append(Instr{Op: OpMakeFun, Args: env, Callee: Callee{Static: &callee}})
	v := b.result(Type{Kind: TypeFun}, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) UnpackEnv(closure ValueID, index int) ValueID {
	id := b.append(Instr{Op: OpUnpackEnv, Args: []ValueID{closure}, Index: index})
	v := b.result(Any, id)
	b.setResults(id, v)
	return v
}

// --- Binary/bitstring matching and construction ---

func (b *Builder) BsStartMatch(bin ValueID) ValueID {
	id := b.append(Instr{Op: OpBsStartMatch, Args: []ValueID{bin}})
	v := b.result(Type{Kind: TypeMatchContextT}, id)
	b.setResults(id, v)
	return v
}

// BsMatch consumes bitSize bits from the match context and returns
// {is_err, newCtx, value}: a context with insufficient bits left sets
// is_err instead of trapping, so the caller can branch to the next
// clause's fail continuation (§4.3.4).
func (b *Builder) BsMatch(ctx ValueID, bitSize int, resultType Type) (isErr, newCtx, value ValueID) {
	id := b.append(Instr{Op: OpBsMatch, Args: []ValueID{ctx}, BitSize: bitSize})
	results := b.multiResult(id, []Type{I1, {Kind: TypeMatchContextT}, resultType})
	return results[0], results[1], results[2]
}

// BsMatchSkip is BsMatch without an extracted value, for segments whose
// value the clause discards.
func (b *Builder) BsMatchSkip(ctx ValueID, bitSize int) (isErr, newCtx ValueID) {
	id := b.append(Instr{Op: OpBsMatchSkip, Args: []ValueID{ctx}, BitSize: bitSize})
	results := b.multiResult(id, []Type{I1, {Kind: TypeMatchContextT}})
	return results[0], results[1]
}

func (b *Builder) BsTestTailImm(ctx ValueID, bitSize int) ValueID {
	id := b.append(Instr{Op: OpBsTestTailImm, Args: []ValueID{ctx}, BitSize: bitSize})
	v := b.result(I1, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) BsInitWritable() ValueID {
	id := b.append(Instr{Op: OpBsInitWritable})
	v := b.result(Type{Kind: TypeBinaryT}, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) BsPush(builder, value ValueID, bitSize int) ValueID {
	id := b.append(Instr{Op: OpBsPush, Args: []ValueID{builder, value}, BitSize: bitSize})
	v := b.result(Type{Kind: TypeBinaryT}, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) BsCloseWritable(builder ValueID) ValueID {
	id := b.append(Instr{Op: OpBsCloseWritable, Args: []ValueID{builder}})
	v := b.result(Type{Kind: TypeBinaryT}, id)
	b.setResults(id, v)
	return v
}

// --- Exception inspection ---

func (b *Builder) ExceptionClass(exc ValueID) ValueID {
	id := b.append(Instr{Op: OpExceptionClass, Args: []ValueID{exc}})
	v := b.result(Type{Kind: TypeAtomT}, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) ExceptionReason(exc ValueID) ValueID {
	id := b.append(Instr{Op: OpExceptionReason, Args: []ValueID{exc}})
	v := b.result(Any, id)
	b.setResults(id, v)
	return v
}

func (b *Builder) ExceptionTrace(exc ValueID) ValueID {
	id := b.append(Instr{Op: OpExceptionTrace, Args: []ValueID{exc}})
	v := b.result(Any, id)
	b.setResults(id, v)
	return v
}

// MakeException builds an opaque exception value from a class atom
// and a reason term, used by the match_fail primop (§4.3.6) to
// materialize function_clause/case_clause/general errors before
// routing them to the current fail context.
func (b *Builder) MakeException(class, reason ValueID) ValueID {
	id := b.append(Instr{Op: OpMakeException, Args: []ValueID{class, reason}})
	v := b.result(ExceptionT, id)
	b.setResults(id, v)
	return v
}

// --- Maps ---

func (b *Builder) MapPut(m, k, v ValueID) ValueID {
	id := b.append(Instr{Op: OpMapPut, Args: []ValueID{m, k, v}})
	r := b.result(Type{Kind: TypeMapT}, id)
	b.setResults(id, r)
	return r
}

func (b *Builder) MapPutMut(m, k, v ValueID) ValueID {
	id := b.append(Instr{Op: OpMapPutMut, Args: []ValueID{m, k, v}})
	r := b.result(Type{Kind: TypeMapT}, id)
	b.setResults(id, r)
	return r
}

// MapUpdate returns {is_err, value}: is_err is set when the key is
// absent (update requires a pre-existing key, unlike put).
func (b *Builder) MapUpdate(m, k, v ValueID) (isErr, result ValueID) {
	id := b.append(Instr{Op: OpMapUpdate, Args: []ValueID{m, k, v}})
	isErr = b.result(I1, id)
	result = b.result(Type{Kind: TypeMapT}, id)
	b.setResults(id, isErr, result)
	return
}

func (b *Builder) MapUpdateMut(m, k, v ValueID) (isErr, result ValueID) {
	id := b.append(Instr{Op: OpMapUpdateMut, Args: []ValueID{m, k, v}})
	isErr = b.result(I1, id)
	result = b.result(Type{Kind: TypeMapT}, id)
	b.setResults(id, isErr, result)
	return
}

func (b *Builder) MapGet(m, k ValueID) (isErr, value ValueID) {
	id := b.append(Instr{Op: OpMapGet, Args: []ValueID{m, k}})
	isErr = b.result(I1, id)
	value = b.result(Any, id)
	b.setResults(id, isErr, value)
	return
}

func (b *Builder) MapIsKey(m, k ValueID) ValueID {
	id := b.append(Instr{Op: OpMapIsKey, Args: []ValueID{m, k}})
	v := b.result(I1, id)
	b.setResults(id, v)
	return v
}

// --- No-result primops ---

func (b *Builder) RemoveMessage() { b.append(Instr{Op: OpRemoveMessage}) }
func (b *Builder) RecvNext()      { b.append(Instr{Op: OpRecvNext}) }

// RecvPeekMessage returns {available?, message-or-NONE} (spec
// §4.3.6).
func (b *Builder) RecvPeekMessage() (available, message ValueID) {
	id := b.append(Instr{Op: OpRecvPeekMessage})
	available = b.result(I1, id)
	message = b.result(Any, id)
	b.setResults(id, available, message)
	return
}

// RecvWaitTimeout suspends the process until either a message arrives
// or timeout (milliseconds, or -1 for infinity) elapses; it returns
// whether the wait timed out.
// RecvWaitTimeout returns {is_err, expired?}: is_err is set only for a
// malformed timeout value (spec §4.3.6, §8's recv_wait_timeout open
// question — a non-integer, non-infinity timeout raises
// timeout_value).
func (b *Builder) RecvWaitTimeout(timeout ValueID) (isErr, expired ValueID) {
	id := b.append(Instr{Op: OpRecvWaitTimeout, Args: []ValueID{timeout}})
	isErr = b.result(I1, id)
	expired = b.result(I1, id)
	b.setResults(id, isErr, expired)
	return
}

func (b *Builder) BuildStacktrace() ValueID {
	id := b.append(Instr{Op: OpBuildStacktrace})
	v := b.result(Any, id)
	b.setResults(id, v)
	return v
}

// NifStart marks the entry of a NIF-convention function body for
// downstream code generation; it carries no operands or results.
func (b *Builder) NifStart() { b.append(Instr{Op: OpNifStart}) }

func (b *Builder) setResults(id int, values ...ValueID) {
	b.Fn.Block(b.current).Instrs[id].Results = values
}

func (b *Builder) multiResult(id int, types []Type) []ValueID {
	values := make([]ValueID, len(types))
	for i, t := range types {
		values[i] = b.result(t, id)
	}
	b.setResults(id, values...)
	return values
}

// PruneUnreachableBlocks removes every block unreachable from the
// entry block. Idempotent: a second call on an already-pruned
// function finds nothing new to remove (spec §8).
func (b *Builder) PruneUnreachableBlocks() {
	reachable := make(map[BlockID]bool)
	var walk func(id BlockID)
	walk = func(id BlockID) {
		if reachable[id] {
			return
		}
		blk := b.Fn.blocks[id]
		if blk == nil {
			return
		}
		reachable[id] = true
		term, ok := blk.Terminator()
		if !ok {
			return
		}
		for _, e := range term.Targets {
			walk(e.Target)
		}
		for _, a := range term.Switch {
			walk(a.Edge.Target)
		}
		if term.Default != nil {
			walk(term.Default.Target)
		}
	}
	walk(b.Fn.Entry)
	for id, blk := range b.Fn.blocks {
		if blk == nil {
			continue
		}
		if !reachable[BlockID(id)] {
			b.Fn.blocks[id] = nil
		}
	}
}
