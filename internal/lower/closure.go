package lower

import "github.com/glow-lang/glow/internal/kernel"

// closureTargets walks every function body in kmod and collects the
// (name, arity) pairs referenced as a make_fun/CallLocalClosure
// callee, so LowerModule's declare pass can tag those declarations
// ssa.VisClosure (§3's four visibility flags, §4.3.1 "distinct
// closure kind") instead of leaving it unused.
func closureTargets(kmod *kernel.Module) map[string]map[int]bool {
	targets := make(map[string]map[int]bool)
	mark := func(name string, arity int) {
		if targets[name] == nil {
			targets[name] = make(map[int]bool)
		}
		targets[name][arity] = true
	}

	var walkExpr func(kernel.Expr)
	var walkTree func(kernel.MatchTree)

	walkCallLike := func(kind kernel.CallKind, callee, mod, fnExpr kernel.Expr, args, env []kernel.Expr) {
		if kind == kernel.CallLocalClosure {
			if v, ok := callee.(kernel.Var); ok {
				mark(v.Name, len(env))
			}
		} else {
			walkExpr(callee)
		}
		walkExpr(mod)
		walkExpr(fnExpr)
		for _, a := range args {
			walkExpr(a)
		}
		for _, e := range env {
			walkExpr(e)
		}
	}

	walkExpr = func(e kernel.Expr) {
		if e == nil {
			return
		}
		switch n := e.(type) {
		case kernel.Seq:
			walkExpr(n.A)
			walkExpr(n.B)
		case kernel.Match:
			walkTree(n.Body)
		case kernel.If:
			walkExpr(n.Cond)
			walkExpr(n.Then)
			walkExpr(n.Else)
		case kernel.LetRecGoto:
			walkExpr(n.First)
			walkExpr(n.Then)
		case kernel.Goto:
			for _, a := range n.Args {
				walkExpr(a)
			}
		case kernel.Return:
			walkExpr(n.Value)
		case kernel.Break:
			for _, a := range n.Args {
				walkExpr(a)
			}
		case kernel.Call:
			walkCallLike(n.Kind, n.Callee, n.Module, n.FunctionExpr, n.Args, n.Env)
		case kernel.Enter:
			walkCallLike(n.Kind, n.Callee, n.Module, n.FunctionExpr, n.Args, n.Env)
		case kernel.Bif:
			if n.Name == "make_fun" && len(n.Args) > 0 {
				if v, ok := n.Args[0].(kernel.Var); ok {
					mark(v.Name, len(n.Args)-1)
				}
				for _, a := range n.Args[1:] {
					walkExpr(a)
				}
				return
			}
			for _, a := range n.Args {
				walkExpr(a)
			}
		case kernel.Put:
			for _, el := range n.Elements {
				walkExpr(el)
			}
			for _, seg := range n.Segments {
				walkExpr(seg.Value)
			}
			walkExpr(n.Base)
			for _, p := range n.Pairs {
				walkExpr(p.Key)
				walkExpr(p.Value)
			}
		case kernel.Try:
			walkExpr(n.Arg)
			walkExpr(n.Body)
			walkExpr(n.Handler)
		case kernel.TryEnter:
			walkExpr(n.Arg)
			walkExpr(n.Body)
			walkExpr(n.Handler)
		case kernel.Catch:
			walkExpr(n.Expr)
		}
	}

	walkTree = func(t kernel.MatchTree) {
		if t == nil {
			return
		}
		switch n := t.(type) {
		case kernel.Alt:
			walkTree(n.First)
			walkTree(n.Then)
		case kernel.GuardNode:
			walkExpr(n.Cond)
			walkTree(n.Body)
		case kernel.Leaf:
			walkExpr(n.Body)
		case kernel.Select:
			for _, c := range n.Clauses {
				walkTree(c.Body)
			}
		}
	}

	for _, kfn := range kmod.Functions {
		walkExpr(kfn.Body)
	}
	return targets
}
