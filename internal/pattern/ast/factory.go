package ast

// Factory interns leaf PriceBarRef nodes so that patterns sharing the same
// (kind, offset) reference share representation. A Factory is not safe for
// concurrent use; the parser driver owns one per parse.
type Factory struct {
	refs map[refKey]*PriceBarRef
}

type refKey struct {
	kind   RefKind
	offset int
}

func NewFactory() *Factory {
	return &Factory{refs: make(map[refKey]*PriceBarRef)}
}

// Ref returns the interned PriceBarRef for (kind, offset), creating it on
// first use.
func (f *Factory) Ref(kind RefKind, offset int) *PriceBarRef {
	key := refKey{kind: kind, offset: offset}
	if r, ok := f.refs[key]; ok {
		return r
	}
	r := &PriceBarRef{Kind: kind, Offset: offset}
	f.refs[key] = r
	return r
}

// GreaterThan builds a comparison node from two interned references.
func (f *Factory) GreaterThan(lhs, rhs *PriceBarRef) *GreaterThan {
	return &GreaterThan{LHS: lhs, RHS: rhs}
}

// And attaches rhs as the right child of a growing left-leaning spine: if
// lhs is nil, rhs becomes the whole expression.
func (f *Factory) And(lhs Expr, rhs Expr) Expr {
	if lhs == nil {
		return rhs
	}
	return &And{LHS: lhs, RHS: rhs}
}

// Pattern assembles a complete pattern from its parsed parts.
func (f *Factory) Pattern(desc Descriptor, cond Expr, entry Entry, target ProfitTarget, stop StopLoss, vol VolatilityAttr, port PortfolioAttr) *Pattern {
	return &Pattern{
		Descriptor:     desc,
		Condition:      cond,
		EntryStmt:      entry,
		Target:         target,
		Stop:           stop,
		VolatilityAttr: vol,
		PortfolioAttr:  port,
	}
}
