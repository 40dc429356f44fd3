package term

import "github.com/glow-lang/glow/internal/symbol"

// FuncRef identifies a callable SSA function by its stable module
// index, matching "callees refer to functions by their index, not by
// name" (spec §3, Module (SSA) invariant).
type FuncRef struct {
	ModuleIndex   int
	FunctionIndex int
}

// Closure is a function pointer plus captured environment.
type Closure struct {
	Module   symbol.Symbol
	Name     symbol.Symbol
	Arity    uint8
	Entry    FuncRef
	Env      []Term
	IsLocal  bool // true when the compiler proved the callee is a local function (enables the make_fun+apply shortcut of §4.3.5)
}

func (*Closure) Kind() Kind     { return KindClosure }
func (*Closure) String() string { return "closure" }

// NewClosure allocates a closure capturing env.
func NewClosure(module, name symbol.Symbol, arity uint8, entry FuncRef, env []Term) *Closure {
	return &Closure{Module: module, Name: name, Arity: arity, Entry: entry, Env: env}
}

// UnpackEnv returns the idx-th captured environment value
// (unpack_env).
func (c *Closure) UnpackEnv(idx int) Term {
	return c.Env[idx]
}
