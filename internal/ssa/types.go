// Package ssa implements the mutable SSA construction API (spec C3):
// blocks, block parameters, instructions, value/variable binding, and
// control-flow edges, consumed by the Kernel→SSA lowering pass
// (internal/lower) and produced for the external codegen backend.
package ssa

// Type is the refined value type a Value or signature slot carries.
// "Any" is the default term type every value starts as; narrower
// types are assigned by set_value_type/cast as the lowering pass
// proves more about a value (e.g. after a successful type test).
type Type struct {
	Kind TypeKind
	// Fun is populated when Kind == TypeFun, describing the callee
	// signature a closure-typed value is known to match (used by the
	// make_fun+direct-call optimization of §4.3.5).
	Fun *Signature
}

// TypeKind enumerates the refined value-type lattice.
type TypeKind uint8

const (
	TypeAny TypeKind = iota
	TypeBool
	TypeAtomT
	TypeIntT
	TypeFloatT
	TypeTupleT
	TypeConsT
	TypeNilT
	TypeMapT
	TypeBinaryT
	TypeMatchContextT
	TypeFun
	TypeException
)

// Any is the unrefined term type.
var Any = Type{Kind: TypeAny}

// I1 is the boolean/flag type used for is_err results, guard tests,
// and switch/cond_br conditions.
var I1 = Type{Kind: TypeBool}

// ExceptionT is the type of a caught exception value bound in a
// landing pad or catch handler.
var ExceptionT = Type{Kind: TypeException}

// Visibility flags a function declaration's calling surface.
type Visibility uint8

const (
	VisDefault Visibility = 0
	VisPublic  Visibility = 1 << iota
	VisNif
	VisClosure
)

func (v Visibility) Has(flag Visibility) bool { return v&flag != 0 }

// CallConv names the calling convention a Signature uses. The core
// only ever emits "erlang", but the field exists so a NIF's extra
// closure-env argument can be declared without overloading arity.
type CallConv uint8

const (
	ConvErlang CallConv = iota
	ConvNif
)

// Signature is a function's declared shape: module/name/arity is
// identity, Params/Results describe the calling convention's SSA-level
// contract — every Erlang-convention function returns {is_err, value}
// (Params has no explicit is_err slot; it's implicit in Results being
// length 2 unless the function is declared "safe").
type Signature struct {
	Module   string
	Name     string
	Arity    int
	Params   []Type
	Results  []Type
	Conv     CallConv
}
