// Package parser implements a hand-written recursive-descent parser for the
// PAL pattern intermediate representation (spec §4.I): one or more
// descriptor-delimited pattern records, each a condition tree over
// price-bar references followed by an entry/target/stop statement.
package parser

import (
	"strconv"
	"strings"

	"github.com/aristath/palsetup/internal/palerrors"
	"github.com/aristath/palsetup/internal/pattern/ast"
)

// Parser consumes a token stream and builds Pattern nodes through an
// interning Factory, recovering from syntax errors at the next "{" so a
// single malformed record does not abort the whole file.
type Parser struct {
	tokens  []Token
	pos     int
	factory *ast.Factory
	errors  []*palerrors.ParseError
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens, factory: ast.NewFactory()}
}

// Parse returns every pattern successfully parsed and every syntax error
// encountered; a non-empty error slice does not mean patterns is empty, and
// vice versa.
func (p *Parser) Parse() ([]*ast.Pattern, []*palerrors.ParseError) {
	var patterns []*ast.Pattern
	for !p.atEOF() {
		pat, err := p.parsePattern()
		if err != nil {
			p.errors = append(p.errors, err)
			p.recover()
			continue
		}
		if pat != nil {
			patterns = append(patterns, pat)
		}
	}
	return patterns, p.errors
}

func (p *Parser) cur() Token  { return p.tokens[p.pos] }
func (p *Parser) atEOF() bool { return p.cur().Type == TokenEOF }

func (p *Parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) errAt(tok Token, expected ...string) *palerrors.ParseError {
	found := tok.Value
	if tok.Type == TokenEOF {
		found = "<eof>"
	}
	return &palerrors.ParseError{Line: tok.Line, Column: tok.Col, Expected: expected, Found: found}
}

// recover discards tokens until the next "{" (start of the next descriptor)
// or end of input.
func (p *Parser) recover() {
	for !p.atEOF() && p.cur().Type != TokenLBrace {
		p.advance()
	}
}

// expectWord consumes a word token whose uppercase value equals kw.
func (p *Parser) expectWord(kw string) (Token, *palerrors.ParseError) {
	t := p.cur()
	if t.Type != TokenWord || upper(t.Value) != kw {
		return t, p.errAt(t, kw)
	}
	p.advance()
	return t, nil
}

func (p *Parser) expectType(typ TokenType, label string) (Token, *palerrors.ParseError) {
	t := p.cur()
	if t.Type != typ {
		return t, p.errAt(t, label)
	}
	p.advance()
	return t, nil
}

func (p *Parser) parsePattern() (*ast.Pattern, *palerrors.ParseError) {
	desc, err := p.parseDescriptor()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectWord("IF"); err != nil {
		return nil, err
	}

	vol, err := p.parseVolAttr()
	if err != nil {
		return nil, err
	}
	port, err := p.parsePortAttr()
	if err != nil {
		return nil, err
	}
	cond, err := p.parseConds()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectWord("THEN"); err != nil {
		return nil, err
	}
	entry, err := p.parseEntry()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectWord("WITH"); err != nil {
		return nil, err
	}
	target, err := p.parseProfit(entry.Side)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectWord("AND"); err != nil {
		return nil, err
	}
	stop, err := p.parseStop(entry.Side)
	if err != nil {
		return nil, err
	}

	return p.factory.Pattern(desc, cond, entry, target, stop, vol, port), nil
}

// parseDescriptor parses "{" FILE:x INDEX:n "INDEX" DATE:n PL:n% PS:n% TRADES:n CL:n "}".
func (p *Parser) parseDescriptor() (ast.Descriptor, *palerrors.ParseError) {
	var d ast.Descriptor
	if _, err := p.expectType(TokenLBrace, "{"); err != nil {
		return d, err
	}

	file, err := p.labeledValue("FILE:")
	if err != nil {
		return d, err
	}
	d.File = file

	indexStr, err := p.labeledValue("INDEX:")
	if err != nil {
		return d, err
	}
	idx, convErr := strconv.Atoi(indexStr)
	if convErr != nil {
		return d, p.errAt(p.cur(), "integer INDEX")
	}
	d.Index = idx

	if _, err := p.expectWord("INDEX"); err != nil {
		return d, err
	}
	dateStr, err := p.labeledValue("DATE:")
	if err != nil {
		return d, err
	}
	dateVal, convErr := strconv.Atoi(dateStr)
	if convErr != nil {
		return d, p.errAt(p.cur(), "integer INDEX DATE")
	}
	d.IndexDate = dateVal

	pl, err := p.labeledPercent("PL:")
	if err != nil {
		return d, err
	}
	d.PLPercent = pl

	ps, err := p.labeledPercent("PS:")
	if err != nil {
		return d, err
	}
	d.PSPercent = ps

	tradesStr, err := p.labeledValue("TRADES:")
	if err != nil {
		return d, err
	}
	trades, convErr := strconv.Atoi(tradesStr)
	if convErr != nil {
		return d, p.errAt(p.cur(), "integer TRADES")
	}
	d.Trades = trades

	clStr, err := p.labeledValue("CL:")
	if err != nil {
		return d, err
	}
	cl, convErr := strconv.Atoi(clStr)
	if convErr != nil {
		return d, p.errAt(p.cur(), "integer CL")
	}
	d.CL = cl

	if _, err := p.expectType(TokenRBrace, "}"); err != nil {
		return d, err
	}
	return d, nil
}

// labeledValue consumes one word token required to start with label
// (case-insensitive) and returns the remainder.
func (p *Parser) labeledValue(label string) (string, *palerrors.ParseError) {
	t := p.cur()
	if t.Type != TokenWord || len(t.Value) < len(label) || !strings.EqualFold(t.Value[:len(label)], label) {
		return "", p.errAt(t, label+"<value>")
	}
	p.advance()
	return t.Value[len(label):], nil
}

// labeledPercent consumes a label-prefixed numeric word followed by a "%"
// token.
func (p *Parser) labeledPercent(label string) (float64, *palerrors.ParseError) {
	numStr, err := p.labeledValue(label)
	if err != nil {
		return 0, err
	}
	val, convErr := strconv.ParseFloat(numStr, 64)
	if convErr != nil {
		return 0, p.errAt(p.cur(), label+"<number>")
	}
	if _, err := p.expectType(TokenPercent, "%"); err != nil {
		return 0, err
	}
	return val, nil
}

// volAttrValue resolves either spelling the grammar's informal usage
// allows: the canonical "HIGH_VOL" token or the bare "HIGH" shorthand seen
// in hand-written pattern files.
func volAttrValue(value string) (ast.VolatilityAttr, bool) {
	switch value {
	case "LOW_VOL", "LOW":
		return ast.VolLow, true
	case "NORMAL_VOL", "NORMAL":
		return ast.VolNormal, true
	case "HIGH_VOL", "HIGH":
		return ast.VolHigh, true
	case "VERY_HIGH_VOL", "VERY_HIGH":
		return ast.VolVeryHigh, true
	default:
		return ast.VolNone, false
	}
}

func (p *Parser) parseVolAttr() (ast.VolatilityAttr, *palerrors.ParseError) {
	t := p.cur()
	if t.Type != TokenWord || !strings.HasPrefix(upper(t.Value), "VOLATILITY:") {
		return ast.VolNone, nil
	}
	p.advance()

	// The label and its value may be glued ("VOLATILITY:HIGH_VOL") or
	// separated by whitespace ("VOLATILITY: HIGH"); handle both.
	attached := upper(t.Value)[len("VOLATILITY:"):]
	if attached != "" {
		if attr, ok := volAttrValue(attached); ok {
			return attr, nil
		}
		return ast.VolNone, p.errAt(t, "LOW_VOL", "NORMAL_VOL", "HIGH_VOL", "VERY_HIGH_VOL")
	}

	valueTok, err := p.expectType(TokenWord, "LOW_VOL|NORMAL_VOL|HIGH_VOL|VERY_HIGH_VOL")
	if err != nil {
		return ast.VolNone, err
	}
	attr, ok := volAttrValue(upper(valueTok.Value))
	if !ok {
		return ast.VolNone, p.errAt(valueTok, "LOW_VOL", "NORMAL_VOL", "HIGH_VOL", "VERY_HIGH_VOL")
	}
	return attr, nil
}

func portAttrValue(value string) (ast.PortfolioAttr, bool) {
	switch value {
	case "PORT_LONG_FILTER", "LONG_FILTER":
		return ast.PortLongFilter, true
	case "PORT_SHORT_FILTER", "SHORT_FILTER":
		return ast.PortShortFilter, true
	default:
		return ast.PortNone, false
	}
}

// parsePortAttr accepts the label glued to its value ("PORTFOLIO:PORT_LONG_FILTER")
// or separated by whitespace ("PORTFOLIO: PORT_LONG_FILTER"), mirroring parseVolAttr.
func (p *Parser) parsePortAttr() (ast.PortfolioAttr, *palerrors.ParseError) {
	t := p.cur()
	if t.Type != TokenWord || !strings.HasPrefix(upper(t.Value), "PORTFOLIO:") {
		return ast.PortNone, nil
	}
	p.advance()

	attached := upper(t.Value)[len("PORTFOLIO:"):]
	if attached != "" {
		if attr, ok := portAttrValue(attached); ok {
			return attr, nil
		}
		return ast.PortNone, p.errAt(t, "PORT_LONG_FILTER", "PORT_SHORT_FILTER")
	}

	valueTok, err := p.expectType(TokenWord, "PORT_LONG_FILTER|PORT_SHORT_FILTER")
	if err != nil {
		return ast.PortNone, err
	}
	attr, ok := portAttrValue(upper(valueTok.Value))
	if !ok {
		return ast.PortNone, p.errAt(valueTok, "PORT_LONG_FILTER", "PORT_SHORT_FILTER")
	}
	return attr, nil
}

func (p *Parser) parseConds() (ast.Expr, *palerrors.ParseError) {
	var expr ast.Expr
	cmp, err := p.parseOhlcCmp()
	if err != nil {
		return nil, err
	}
	expr = p.factory.And(nil, cmp)

	for {
		t := p.cur()
		if t.Type != TokenWord || upper(t.Value) != "AND" {
			break
		}
		// Lookahead: "AND" also introduces the stopstmt clause at the
		// pattern level, so only consume it here if a condition follows.
		save := p.pos
		p.advance()
		next, err := p.parseOhlcCmp()
		if err != nil {
			p.pos = save
			break
		}
		expr = p.factory.And(expr, next)
	}
	return expr, nil
}

func (p *Parser) parseOhlcCmp() (*ast.GreaterThan, *palerrors.ParseError) {
	lhs, err := p.parseOhlcRef()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectType(TokenGreater, ">"); err != nil {
		return nil, err
	}
	rhs, err := p.parseOhlcRef()
	if err != nil {
		return nil, err
	}
	return p.factory.GreaterThan(lhs, rhs), nil
}

var refKinds = map[string]ast.RefKind{
	"OPEN":       ast.Open,
	"HIGH":       ast.High,
	"LOW":        ast.Low,
	"CLOSE":      ast.Close,
	"VOLUME":     ast.Volume,
	"ROC1":       ast.ROC1,
	"IBS1":       ast.IBS1,
	"IBS2":       ast.IBS2,
	"IBS3":       ast.IBS3,
	"MEANDER":    ast.Meander,
	"VCHARTLOW":  ast.VChartLow,
	"VCHARTHIGH": ast.VChartHigh,
}

func (p *Parser) parseOhlcRef() (*ast.PriceBarRef, *palerrors.ParseError) {
	t := p.cur()
	if t.Type != TokenWord {
		return nil, p.errAt(t, "OHLC reference")
	}
	kind, ok := refKinds[upper(t.Value)]
	if !ok {
		return nil, p.errAt(t, "OHLC reference")
	}
	p.advance()

	if _, err := p.expectWord("OF"); err != nil {
		return nil, err
	}
	offsetTok, err := p.expectType(TokenWord, "integer offset")
	if err != nil {
		return nil, err
	}
	offset, convErr := strconv.Atoi(offsetTok.Value)
	if convErr != nil || offset < 0 {
		return nil, p.errAt(offsetTok, "non-negative integer offset")
	}
	if _, err := p.expectWord("BARS"); err != nil {
		return nil, err
	}
	if _, err := p.expectWord("AGO"); err != nil {
		return nil, err
	}
	return p.factory.Ref(kind, offset), nil
}

func (p *Parser) parseEntry() (ast.Entry, *palerrors.ParseError) {
	t := p.cur()
	var side ast.Side
	switch {
	case t.Type == TokenWord && upper(t.Value) == "BUY":
		side = ast.Long
	case t.Type == TokenWord && upper(t.Value) == "SELL":
		side = ast.Short
	default:
		return ast.Entry{}, p.errAt(t, "BUY", "SELL")
	}
	p.advance()

	for _, kw := range []string{"NEXT", "BAR", "ON", "THE", "OPEN"} {
		if _, err := p.expectWord(kw); err != nil {
			return ast.Entry{}, err
		}
	}
	return ast.Entry{Side: side, Timing: ast.NextBarOnOpen}, nil
}

func (p *Parser) parseSignedPercent() (float64, *palerrors.ParseError) {
	sign := 1.0
	switch p.cur().Type {
	case TokenPlus:
		p.advance()
	case TokenMinus:
		sign = -1
		p.advance()
	default:
		return 0, p.errAt(p.cur(), "+", "-")
	}
	numTok, err := p.expectType(TokenWord, "number")
	if err != nil {
		return 0, err
	}
	val, convErr := strconv.ParseFloat(numTok.Value, 64)
	if convErr != nil {
		return 0, p.errAt(numTok, "number")
	}
	if _, err := p.expectType(TokenPercent, "%"); err != nil {
		return 0, err
	}
	return sign * val, nil
}

func (p *Parser) parseProfit(side ast.Side) (ast.ProfitTarget, *palerrors.ParseError) {
	for _, kw := range []string{"PROFIT", "TARGET", "AT", "ENTRY", "PRICE"} {
		if _, err := p.expectWord(kw); err != nil {
			return ast.ProfitTarget{}, err
		}
	}
	pct, err := p.parseSignedPercent()
	if err != nil {
		return ast.ProfitTarget{}, err
	}
	return ast.ProfitTarget{Side: side, Pct: pct}, nil
}

func (p *Parser) parseStop(side ast.Side) (ast.StopLoss, *palerrors.ParseError) {
	for _, kw := range []string{"STOP", "LOSS", "AT", "ENTRY", "PRICE"} {
		if _, err := p.expectWord(kw); err != nil {
			return ast.StopLoss{}, err
		}
	}
	pct, err := p.parseSignedPercent()
	if err != nil {
		return ast.StopLoss{}, err
	}
	return ast.StopLoss{Side: side, Pct: pct}, nil
}

// ParseString is the package-level entry point: tokenizes and parses a
// complete pattern IR file in one call.
func ParseString(source string) ([]*ast.Pattern, []*palerrors.ParseError) {
	tokens := NewLexer(source).Lex()
	return NewParser(tokens).Parse()
}
