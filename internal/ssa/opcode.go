package ssa

// Opcode enumerates every SSA instruction kind named in spec §4.2.
type Opcode uint8

const (
	// Constants
	OpConstAtom Opcode = iota
	OpConstInt
	OpConstBigInt
	OpConstFloat
	OpConstNil
	OpConstCons
	OpConstTupleImm
	OpConstBitstring

	// Arithmetic and comparison
	OpEqExact
	OpEqExactImm

	// Memory ops
	OpGetElementImm
	OpSetElementMut
	OpSetElementMutImm
	OpHead
	OpTail

	// Casts and type tests
	OpCast
	OpIsType

	// Control flow (terminators)
	OpBr
	OpBrIf
	OpBrUnless
	OpCondBr
	OpSwitch
	OpRet
	OpRetErr
	OpRetOk

	// Calls
	OpCall
	OpCallIndirect
	OpEnter
	OpEnterIndirect

	// Closures
	OpMakeFun
	OpUnpackEnv

	// Binary/bitstring matching and construction
	OpBsStartMatch
	OpBsMatch
	OpBsMatchSkip
	OpBsPush
	OpBsTestTailImm
	OpBsInitWritable
	OpBsCloseWritable

	// Exception inspection / construction
	OpExceptionClass
	OpExceptionReason
	OpExceptionTrace
	OpMakeException

	// Map operations (support for the Put/Select lowering of §4.3.4, §4.3.9)
	OpMapPut
	OpMapPutMut
	OpMapUpdate
	OpMapUpdateMut
	OpMapGet
	OpMapIsKey

	// Tuple shape test
	OpTupleSize

	// Receive, stacktrace and NIF-marker primops
	OpRemoveMessage
	OpRecvNext
	OpRecvPeekMessage
	OpRecvWaitTimeout
	OpBuildStacktrace
	OpNifStart
)

func (op Opcode) String() string {
	switch op {
	case OpConstAtom:
		return "const_atom"
	case OpConstInt:
		return "const_int"
	case OpConstBigInt:
		return "const_bigint"
	case OpConstFloat:
		return "const_float"
	case OpConstNil:
		return "const_nil"
	case OpConstCons:
		return "cons"
	case OpConstTupleImm:
		return "tuple_imm"
	case OpConstBitstring:
		return "const_bitstring"
	case OpEqExact:
		return "eq_exact"
	case OpEqExactImm:
		return "eq_exact_imm"
	case OpGetElementImm:
		return "get_element_imm"
	case OpSetElementMut:
		return "set_element_mut"
	case OpSetElementMutImm:
		return "set_element_mut_imm"
	case OpHead:
		return "head"
	case OpTail:
		return "tail"
	case OpCast:
		return "cast"
	case OpIsType:
		return "is_type"
	case OpBr:
		return "br"
	case OpBrIf:
		return "br_if"
	case OpBrUnless:
		return "br_unless"
	case OpCondBr:
		return "cond_br"
	case OpSwitch:
		return "switch"
	case OpRet:
		return "ret"
	case OpRetErr:
		return "ret_err"
	case OpRetOk:
		return "ret_ok"
	case OpCall:
		return "call"
	case OpCallIndirect:
		return "call_indirect"
	case OpEnter:
		return "enter"
	case OpEnterIndirect:
		return "enter_indirect"
	case OpMakeFun:
		return "make_fun"
	case OpUnpackEnv:
		return "unpack_env"
	case OpBsStartMatch:
		return "bs_start_match"
	case OpBsMatch:
		return "bs_match"
	case OpBsMatchSkip:
		return "bs_match_skip"
	case OpBsPush:
		return "bs_push"
	case OpBsTestTailImm:
		return "bs_test_tail_imm"
	case OpBsInitWritable:
		return "bs_init_writable"
	case OpBsCloseWritable:
		return "bs_close_writable"
	case OpExceptionClass:
		return "exception_class"
	case OpExceptionReason:
		return "exception_reason"
	case OpExceptionTrace:
		return "exception_trace"
	case OpMakeException:
		return "make_exception"
	case OpMapPut:
		return "map_put"
	case OpMapPutMut:
		return "map_put_mut"
	case OpMapUpdate:
		return "map_update"
	case OpMapUpdateMut:
		return "map_update_mut"
	case OpMapGet:
		return "map_get"
	case OpMapIsKey:
		return "map_is_key"
	case OpTupleSize:
		return "tuple_size"
	case OpRemoveMessage:
		return "remove_message"
	case OpRecvNext:
		return "recv_next"
	case OpRecvPeekMessage:
		return "recv_peek_message"
	case OpRecvWaitTimeout:
		return "recv_wait_timeout"
	case OpBuildStacktrace:
		return "build_stacktrace"
	case OpNifStart:
		return "nif_start"
	default:
		return "unknown_op"
	}
}

// IsTerminator reports whether op ends a block.
func (op Opcode) IsTerminator() bool {
	switch op {
	case OpBr, OpBrIf, OpBrUnless, OpCondBr, OpSwitch, OpRet, OpRetErr, OpRetOk, OpEnter, OpEnterIndirect:
		return true
	default:
		return false
	}
}
