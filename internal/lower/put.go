package lower

import (
	"github.com/glow-lang/glow/internal/diag"
	"github.com/glow-lang/glow/internal/kernel"
	"github.com/glow-lang/glow/internal/ssa"
)

// lowerPut lowers a constructor expression per its kind (§4.3.9).
func (fl *funcLowerer) lowerPut(n kernel.Put) ssa.ValueID {
	switch n.Kind {
	case kernel.PutCons:
		if len(n.Elements) != 2 {
			fl.lw.abort(diag.MalformedPrimop, n.Span, "cons put requires exactly 2 elements")
		}
		vals := fl.lowerExprs(n.Elements)
		if fl.b.IsCurrentBlockTerminated() {
			return 0
		}
		return fl.b.Cons(vals[0], vals[1])

	case kernel.PutTuple:
		vals := fl.lowerExprs(n.Elements)
		if fl.b.IsCurrentBlockTerminated() {
			return 0
		}
		tuple := fl.b.TupleImm(placeholderUndef(fl.b, len(vals))...)
		for i, v := range vals {
			fl.b.SetElementMutImm(tuple, i, v)
		}
		return tuple

	case kernel.PutBinary:
		return fl.lowerPutBinary(n)

	case kernel.PutMapAssoc:
		return fl.lowerPutMap(n, false)

	case kernel.PutMapExact:
		return fl.lowerPutMap(n, true)

	default:
		fl.lw.abort(diag.MalformedPrimop, n.Span, "unknown put kind")
		return 0
	}
}

// placeholderUndef reserves n tuple slots so tuple_imm can allocate
// storage before the element values are known; every slot is then
// overwritten by SetElementMutImm in construction order (spec §4.3.9:
// "tuple → tuple_imm + element-wise set_element_mut").
func placeholderUndef(b *ssa.Builder, n int) []ssa.ValueID {
	slots := make([]ssa.ValueID, n)
	undef := b.ConstNil()
	for i := range slots {
		slots[i] = undef
	}
	return slots
}

func (fl *funcLowerer) lowerPutBinary(n kernel.Put) ssa.ValueID {
	builder := fl.b.BsInitWritable()
	for _, seg := range n.Segments {
		val := fl.lowerExpr(seg.Value)
		if fl.b.IsCurrentBlockTerminated() {
			return 0
		}
		builder = fl.b.BsPush(builder, val, seg.SizeBit)
	}
	return fl.b.BsCloseWritable(builder)
}

func (fl *funcLowerer) lowerPutMap(n kernel.Put, exact bool) ssa.ValueID {
	base := fl.lowerExpr(n.Base)
	if fl.b.IsCurrentBlockTerminated() {
		return 0
	}

	m := base
	for i, pair := range n.Pairs {
		key := fl.lowerExpr(pair.Key)
		if fl.b.IsCurrentBlockTerminated() {
			return 0
		}
		value := fl.lowerExpr(pair.Value)
		if fl.b.IsCurrentBlockTerminated() {
			return 0
		}

		if !exact {
			if i == 0 {
				m = fl.b.MapPut(m, key, value)
			} else {
				m = fl.b.MapPutMut(m, key, value)
			}
			continue
		}

		var isErr ssa.ValueID
		if i == 0 {
			isErr, m = fl.b.MapUpdate(m, key, value)
		} else {
			isErr, m = fl.b.MapUpdateMut(m, key, value)
		}
		fc := fl.failContext()
		okBlk := fl.b.CreateBlock()
		fl.b.BrIf(isErr, fc.block, []ssa.ValueID{m}, okBlk, nil)
		fl.b.SwitchToBlock(okBlk)
	}
	return m
}
