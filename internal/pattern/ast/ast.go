// Package ast defines the immutable abstract syntax tree for a PAL pattern
// file: price-bar references, boolean conditions, entry/target/stop
// statements, and the descriptor/attribute metadata that accompanies each
// pattern. Nodes are built exclusively through the factory in this package
// so that leaf PriceBarRef values are interned and structurally equal
// patterns share representation.
package ast

import "fmt"

// RefKind identifies which OHLC-derived quantity a PriceBarRef reads.
type RefKind int

const (
	Open RefKind = iota
	High
	Low
	Close
	Volume
	ROC1
	IBS1
	IBS2
	IBS3
	Meander
	VChartLow
	VChartHigh
)

func (k RefKind) String() string {
	switch k {
	case Open:
		return "OPEN"
	case High:
		return "HIGH"
	case Low:
		return "LOW"
	case Close:
		return "CLOSE"
	case Volume:
		return "VOLUME"
	case ROC1:
		return "ROC1"
	case IBS1:
		return "IBS1"
	case IBS2:
		return "IBS2"
	case IBS3:
		return "IBS3"
	case Meander:
		return "MEANDER"
	case VChartLow:
		return "VCHARTLOW"
	case VChartHigh:
		return "VCHARTHIGH"
	default:
		return fmt.Sprintf("RefKind(%d)", int(k))
	}
}

// Side is a trade direction.
type Side int

const (
	Long Side = iota
	Short
)

func (s Side) String() string {
	if s == Long {
		return "LONG"
	}
	return "SHORT"
}

// VolatilityAttr tags a pattern's volatility regime, if any.
type VolatilityAttr int

const (
	VolNone VolatilityAttr = iota
	VolLow
	VolNormal
	VolHigh
	VolVeryHigh
)

// PortfolioAttr tags a pattern's portfolio-filter affinity, if any.
type PortfolioAttr int

const (
	PortNone PortfolioAttr = iota
	PortLongFilter
	PortShortFilter
)

// PriceBarRef reads one OHLC-derived quantity at a fixed offset (in bars)
// before the current bar. Leaves are interned by the factory below, so two
// PriceBarRefs built through the same factory with equal (kind, offset) are
// the same pointer.
type PriceBarRef struct {
	Kind   RefKind
	Offset int
}

// Expr is any boolean condition node: GreaterThan or And.
type Expr interface {
	isExpr()
	Equal(other Expr) bool
}

// GreaterThan compares two price-bar references.
type GreaterThan struct {
	LHS, RHS *PriceBarRef
}

func (*GreaterThan) isExpr() {}

func (g *GreaterThan) Equal(other Expr) bool {
	o, ok := other.(*GreaterThan)
	if !ok {
		return false
	}
	return *g.LHS == *o.LHS && *g.RHS == *o.RHS
}

// And is a left-leaning conjunction by construction convention: the parser
// always attaches new conditions as the right child of a growing left spine.
type And struct {
	LHS, RHS Expr
}

func (*And) isExpr() {}

func (a *And) Equal(other Expr) bool {
	o, ok := other.(*And)
	if !ok {
		return false
	}
	return a.LHS.Equal(o.LHS) && a.RHS.Equal(o.RHS)
}

// Entry is always "next bar on the open" in the current grammar, but carries
// an explicit Timing field so the contract is visible at the type level.
type Timing int

const (
	NextBarOnOpen Timing = iota
)

type Entry struct {
	Side   Side
	Timing Timing
}

// ProfitTarget and StopLoss hold a signed percentage offset from the entry
// price; Pct's sign encodes the "+"/"-" token from the source grammar.
type ProfitTarget struct {
	Side Side
	Pct  float64
}

type StopLoss struct {
	Side Side
	Pct  float64
}

// Descriptor is provenance metadata only; it never participates in
// evaluation.
type Descriptor struct {
	File      string
	Index     int
	IndexDate int
	PLPercent float64
	PSPercent float64
	Trades    int
	CL        int
}

// Pattern is the root node: one tradeable rule.
type Pattern struct {
	Descriptor      Descriptor
	Condition       Expr
	EntryStmt       Entry
	Target          ProfitTarget
	Stop            StopLoss
	VolatilityAttr  VolatilityAttr
	PortfolioAttr   PortfolioAttr
}

// Equal is structural equality over the whole pattern, used by downstream
// diff tooling; Descriptor participates since it is part of pattern
// identity in PAL's file format.
func (p *Pattern) Equal(other *Pattern) bool {
	if other == nil {
		return false
	}
	return p.Descriptor == other.Descriptor &&
		p.Condition.Equal(other.Condition) &&
		p.EntryStmt == other.EntryStmt &&
		p.Target == other.Target &&
		p.Stop == other.Stop &&
		p.VolatilityAttr == other.VolatilityAttr &&
		p.PortfolioAttr == other.PortfolioAttr
}
