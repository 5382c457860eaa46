// Package ledger holds the simulator's cash balance and share positions.
package ledger

import (
	"fmt"
	"sort"

	"github.com/rustyeddy/papertrade/broker"
	"github.com/shopspring/decimal"
)

// Position is a long holding in one symbol. A zero quantity position is
// treated as absent.
type Position struct {
	Quantity    int64           `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// Cost is the position's total cost basis.
func (p Position) Cost() decimal.Decimal {
	return p.AverageCost.Mul(decimal.NewFromInt(p.Quantity))
}

// Ledger is cash plus positions keyed by symbol. It never holds negative
// cash or a negative quantity after a committed Apply.
type Ledger struct {
	Cash      decimal.Decimal     `json:"cash"`
	Positions map[string]Position `json:"positions"`
}

func New(initialCash decimal.Decimal) *Ledger {
	return &Ledger{
		Cash:      initialCash,
		Positions: make(map[string]Position),
	}
}

// Position returns the holding for symbol, or the zero position.
func (l Ledger) Position(symbol string) Position {
	p, ok := l.Positions[symbol]
	if !ok || p.Quantity <= 0 {
		return Position{}
	}
	return p
}

// Symbols lists held symbols in sorted order.
func (l Ledger) Symbols() []string {
	out := make([]string, 0, len(l.Positions))
	for sym, p := range l.Positions {
		if p.Quantity > 0 {
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a deep copy safe to hand to readers.
func (l Ledger) Snapshot() Ledger {
	cp := Ledger{
		Cash:      l.Cash,
		Positions: make(map[string]Position, len(l.Positions)),
	}
	for sym, p := range l.Positions {
		cp.Positions[sym] = p
	}
	return cp
}

// Apply commits a fill. The fill is checked before anything is written, so
// a refused fill leaves the ledger untouched.
func (l *Ledger) Apply(f broker.Fill) error {
	cash := l.Cash.Add(f.CashDelta)
	if cash.IsNegative() {
		return fmt.Errorf("apply fill: cash would go negative (%s)", cash.StringFixed(2))
	}
	if f.NewQuantity < 0 {
		return fmt.Errorf("apply fill: %s quantity would go negative (%d)", f.Symbol, f.NewQuantity)
	}

	l.Cash = cash
	if f.NewQuantity == 0 {
		delete(l.Positions, f.Symbol)
		return nil
	}
	l.Positions[f.Symbol] = Position{
		Quantity:    f.NewQuantity,
		AverageCost: f.NewAverageCost,
	}
	return nil
}

// Reset clears all positions and sets cash. Only used on session restart.
func (l *Ledger) Reset(initialCash decimal.Decimal) {
	l.Cash = initialCash
	l.Positions = make(map[string]Position)
}
