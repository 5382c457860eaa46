package market

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrUnknownSymbol = errors.New("unknown symbol")

var (
	// DefaultJitter is the symmetric per-tick move range (+/-2%).
	DefaultJitter = decimal.RequireFromString("0.02")
	// DefaultFloor keeps prices from collapsing to zero.
	DefaultFloor = decimal.NewFromInt(1)
)

// pricePlaces is the quote precision prices are rounded to after a tick.
const pricePlaces = 4

// Market holds the watchlist and its current prices. Tick is the only
// mutator of price state.
type Market struct {
	mu     sync.RWMutex
	order  []string
	instr  map[string]Instrument
	jitter decimal.Decimal
	floor  decimal.Decimal
}

// New builds a market from the given instruments. Symbols must be unique and
// prices strictly positive. A zero jitter or floor selects the default.
func New(instruments []Instrument, jitter, floor decimal.Decimal) (*Market, error) {
	if jitter.IsZero() {
		jitter = DefaultJitter
	}
	if floor.IsZero() {
		floor = DefaultFloor
	}
	if jitter.IsNegative() {
		return nil, fmt.Errorf("jitter must not be negative: %s", jitter)
	}
	if !floor.IsPositive() {
		return nil, fmt.Errorf("price floor must be positive: %s", floor)
	}

	m := &Market{
		instr:  make(map[string]Instrument, len(instruments)),
		jitter: jitter,
		floor:  floor,
	}
	for _, in := range instruments {
		if in.Symbol == "" {
			return nil, errors.New("instrument symbol is required")
		}
		if _, dup := m.instr[in.Symbol]; dup {
			return nil, fmt.Errorf("duplicate instrument %q", in.Symbol)
		}
		if !in.Last.IsPositive() {
			return nil, fmt.Errorf("instrument %q: price must be positive", in.Symbol)
		}
		if !in.Previous.IsPositive() {
			in.Previous = in.Last
		}
		m.order = append(m.order, in.Symbol)
		m.instr[in.Symbol] = in
	}
	return m, nil
}

// Price returns the last price for symbol.
func (m *Market) Price(symbol string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	in, ok := m.instr[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
	}
	return in.Last, nil
}

// Prices returns a symbol to last price map.
func (m *Market) Prices() map[string]decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]decimal.Decimal, len(m.instr))
	for sym, in := range m.instr {
		out[sym] = in.Last
	}
	return out
}

// Instruments returns a snapshot of the watchlist in its original order.
func (m *Market) Instruments() []Instrument {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Instrument, 0, len(m.order))
	for _, sym := range m.order {
		out = append(out, m.instr[sym])
	}
	return out
}

// Filter returns the instruments whose symbol or name contains q,
// ignoring case. An empty query matches everything.
func (m *Market) Filter(q string) []Instrument {
	q = strings.ToLower(strings.TrimSpace(q))
	all := m.Instruments()
	if q == "" {
		return all
	}
	out := all[:0]
	for _, in := range all {
		if strings.Contains(strings.ToLower(in.Symbol), q) ||
			strings.Contains(strings.ToLower(in.Name), q) {
			out = append(out, in)
		}
	}
	return out
}

// Tick advances every price by one step: previous takes the last price and
// last moves by a delta drawn from src, never dropping below the floor.
func (m *Market) Tick(src RandomSource) {
	m.mu.Lock()
	defer m.mu.Unlock()

	one := decimal.NewFromInt(1)
	for _, sym := range m.order {
		in := m.instr[sym]
		in.Previous = in.Last
		next := in.Last.Mul(one.Add(src.Delta(m.jitter))).Round(pricePlaces)
		in.Last = decimal.Max(m.floor, next)
		m.instr[sym] = in
	}
}
