package ssa

// Decl is a function declaration: signature and visibility, present
// before the body is lowered so forward references resolve (spec
// §4.3.1, "Declare every function first").
type Decl struct {
	Sig        Signature
	Visibility Visibility
	// Body is nil until the module pass lowers this function's
	// definition; declarations strictly precede definitions.
	Body *Function
}

// Module is a named, indexed set of function declarations, later
// populated with bodies (spec §3, Module (SSA)).
type Module struct {
	Name  string
	decls []*Decl
	index map[string]int // "Name/Arity" -> index, for declaration lookup
}

// NewModule creates an empty module named name.
func NewModule(name string) *Module {
	return &Module{Name: name, index: make(map[string]int)}
}

// Declare registers a new function declaration and returns its stable
// index. Declaring the same (name, arity) twice panics: each
// function's index must be stable, and the module pass is expected to
// declare each Kernel function exactly once.
func (m *Module) Declare(sig Signature, vis Visibility) FuncIndex {
	key := declKey(sig.Name, sig.Arity)
	if _, exists := m.index[key]; exists {
		panic("ssa: duplicate function declaration " + key)
	}
	idx := len(m.decls)
	m.decls = append(m.decls, &Decl{Sig: sig, Visibility: vis})
	m.index[key] = idx
	return FuncIndex{Index: idx}
}

// Lookup resolves a (name, arity) pair to its declaration index.
func (m *Module) Lookup(name string, arity int) (FuncIndex, bool) {
	idx, ok := m.index[declKey(name, arity)]
	return FuncIndex{Index: idx}, ok
}

// Decl returns the declaration at idx.
func (m *Module) Decl(idx FuncIndex) *Decl {
	return m.decls[idx.Index]
}

// Decls returns every declaration in stable declaration order.
func (m *Module) Decls() []*Decl {
	return m.decls
}

// Define attaches body as the definition for the function declared at
// idx. Declarations must precede definitions, but definition order
// among already-declared functions is unconstrained (spec §4.3.1.2:
// "detach definitions during lowering and reattach them once
// complete").
func (m *Module) Define(idx FuncIndex, body *Function) {
	m.decls[idx.Index].Body = body
}

func declKey(name string, arity int) string {
	return name + "/" + itoa(arity)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
