// Package kernel defines the Kernel IR: the pattern-matching,
// exception-oriented functional representation that internal/lower
// translates into internal/ssa form (spec §4.3).
package kernel

import (
	"github.com/glow-lang/glow/internal/diag"
	"github.com/glow-lang/glow/internal/symbol"
)

// Module is a named sequence of Kernel functions, the unit the module
// pass (§4.3.1) consumes.
type Module struct {
	Name      string
	Functions []*Function
}

// Function is one Kernel-level function: its parameter vector and a
// single body expression. Clause dispatch has already been compiled
// into the body's match tree by the time it reaches this IR.
type Function struct {
	Name     string
	Arity    int
	Exported bool
	Nif      bool
	Params   []string // source variable names bound to entry params
	Body     Expr
	Span     diag.Span
}

// Expr is a Kernel-IR expression node. The concrete forms are listed
// in spec §4.3.3; Expr is a closed sum type over them.
type Expr interface {
	isExpr()
}

// Var references a previously bound Kernel variable.
type Var struct {
	Name string
	Span diag.Span
}

// Literal constant forms.
type (
	LitAtom struct {
		Sym  symbol.Symbol
		Span diag.Span
	}
	LitInt struct {
		Value int64
		Span  diag.Span
	}
	LitBigInt struct {
		Decimal string
		Span    diag.Span
	}
	LitFloat struct {
		Value float64
		Span  diag.Span
	}
	LitNil struct {
		Span diag.Span
	}
	LitBinary struct {
		Data []byte
		Span diag.Span
	}
)

// Seq evaluates A for effect, then B for value.
type Seq struct {
	A, B Expr
}

// Match runs a match tree and binds its result; Ret names the result
// variables the match tree's leaves return through Break.
type Match struct {
	Body MatchTree
	Ret  []string
	Span diag.Span
}

// If is a two-armed conditional; Ret names the block-parameter result
// variables shared by both arms.
type If struct {
	Cond Expr
	Then Expr
	Else Expr
	Ret  []string
	Span diag.Span
}

// LetRecGoto introduces a local, possibly-recursive label: First runs
// first, and a Goto label inside it jumps into Then with the Goto's
// arguments bound to Vars; a Break in First or Then leaves to the
// construct's result.
type LetRecGoto struct {
	Label string
	Vars  []string
	First Expr
	Then  Expr
	Ret   []string
	Span  diag.Span
}

// Goto jumps to a LetRecGoto label with the given argument values.
type Goto struct {
	Label string
	Args  []Expr
	Span  diag.Span
}

// Return yields exactly one value from the current function.
type Return struct {
	Value Expr
	Span  diag.Span
}

// Break yields args to the innermost enclosing brk target (a Match's
// result block or a Try's final block).
type Break struct {
	Args []Expr
	Span diag.Span
}

// CallKind distinguishes the call forms dispatched in §4.3.5.
type CallKind int

const (
	CallLocal CallKind = iota
	CallRemoteStatic
	CallRemoteDynamic // (M, F, Args) — rewritten to apply/3
	CallIndirect
	CallLocalClosure // make_fun(local, env...) + call
)

// Call is an ordinary (non-tail) call.
type Call struct {
	Kind         CallKind
	Module       Expr // set for CallRemoteStatic/CallRemoteDynamic
	Function     string
	FunctionExpr Expr // set for CallRemoteDynamic, in place of Function
	Arity        int
	Callee       Expr // set for CallIndirect/CallLocalClosure
	Args         []Expr
	Env          []Expr // closure environment, for CallLocalClosure
	Span         diag.Span
}

// Enter is the tail-call form of Call; only legal in Uncaught fail
// context (spec §4.3.5).
type Enter struct {
	Kind         CallKind
	Module       Expr
	Function     string
	FunctionExpr Expr
	Arity        int
	Callee       Expr
	Args         []Expr
	Env          []Expr
	Span         diag.Span
}

// BifClass distinguishes the three Bif dispatch classes of §4.3.6.
type BifClass int

const (
	BifSafe BifClass = iota
	BifFallible
	BifPrimop
)

// Bif is a built-in/primitive operation invocation.
type Bif struct {
	Class BifClass
	Name  string // e.g. "erlang:is_integer/1", or a primop name
	Args  []Expr
	Ret   []string // result variable names; len determines arity (0,1,2)
	Span  diag.Span
}

// PutKind enumerates the constructor kinds of §4.3.9.
type PutKind int

const (
	PutCons PutKind = iota
	PutTuple
	PutBinary
	PutMapAssoc
	PutMapExact
)

// BinarySegment is one segment of a Put-binary construction.
type BinarySegment struct {
	Value   Expr
	SizeBit int
	Signed  bool
}

// MapPair is one key/value pair of a Put-map construction.
type MapPair struct {
	Key, Value Expr
}

// Put constructs a compound term.
type Put struct {
	Kind     PutKind
	Elements []Expr          // PutCons (2: head,tail), PutTuple
	Segments []BinarySegment // PutBinary
	Base     Expr            // PutMapAssoc/PutMapExact: the map being extended/updated
	Pairs    []MapPair       // PutMapAssoc/PutMapExact
	Span     diag.Span
}

// Try is a try/of/catch expression (§4.3.7).
type Try struct {
	Arg     Expr
	Vars    []string
	Body    Expr
	EVars   []string
	Handler Expr
	Ret     []string
	Span    diag.Span
}

// TryEnter is the tail variant of Try: no final block, the body's
// Return/Break exits the function directly.
type TryEnter struct {
	Arg     Expr
	Vars    []string
	Body    Expr
	EVars   []string
	Handler Expr
	Span    diag.Span
}

// Catch demultiplexes a caught exception's class into a plain result
// value (§4.3.8).
type Catch struct {
	Expr Expr
	Span diag.Span
}

func (Var) isExpr()        {}
func (LitAtom) isExpr()    {}
func (LitInt) isExpr()     {}
func (LitBigInt) isExpr()  {}
func (LitFloat) isExpr()   {}
func (LitNil) isExpr()     {}
func (LitBinary) isExpr()  {}
func (Seq) isExpr()        {}
func (Match) isExpr()      {}
func (If) isExpr()         {}
func (LetRecGoto) isExpr() {}
func (Goto) isExpr()       {}
func (Return) isExpr()     {}
func (Break) isExpr()      {}
func (Call) isExpr()       {}
func (Enter) isExpr()      {}
func (Bif) isExpr()        {}
func (Put) isExpr()        {}
func (Try) isExpr()        {}
func (TryEnter) isExpr()   {}
func (Catch) isExpr()      {}
