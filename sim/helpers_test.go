package sim

import (
	"context"
	"testing"
	"time"

	"github.com/rustyeddy/papertrade/broker"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/ledger"
	"github.com/rustyeddy/papertrade/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type testJournal struct {
	trades []journal.TradeRecord
	equity []journal.EquitySnapshot
	closed bool
}

func (j *testJournal) RecordTrade(rec journal.TradeRecord) error {
	j.trades = append(j.trades, rec)
	return nil
}

func (j *testJournal) RecordEquity(rec journal.EquitySnapshot) error {
	j.equity = append(j.equity, rec)
	return nil
}

func (j *testJournal) Close() error {
	j.closed = true
	return nil
}

type testListener struct {
	snaps []Snapshot
}

func (l *testListener) OnUpdate(s Snapshot) { l.snaps = append(l.snaps, s) }

var t0 = time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

// newSession builds an always open session with a fixed clock. The market
// jitter is 100% so moveBy can reach any price in one tick.
func newSession(t *testing.T, cash string, prices map[string]string) (*Session, *testJournal) {
	t.Helper()

	var instr []market.Instrument
	for sym, p := range prices {
		instr = append(instr, market.NewInstrument(sym, sym+" Inc.", d(p)))
	}
	m, err := market.New(instr, d("1"), decimal.Zero)
	require.NoError(t, err)

	j := &testJournal{}
	s, err := NewSession(m, d(cash), Options{
		Now:     func() time.Time { return t0 },
		Random:  market.NewFixedDeltas(decimal.Zero),
		Journal: j,
	})
	require.NoError(t, err)
	return s, j
}

func limitOrder(sym string, side broker.Side, qty int64, limit string) broker.OrderRequest {
	return broker.OrderRequest{Symbol: sym, Side: side, Kind: broker.Limit, Quantity: qty, LimitPrice: d(limit)}
}

func marketOrder(sym string, side broker.Side, qty int64) broker.OrderRequest {
	return broker.OrderRequest{Symbol: sym, Side: side, Kind: broker.Market, Quantity: qty}
}

func submit(t *testing.T, s *Session, req broker.OrderRequest) journal.TradeRecord {
	t.Helper()
	rec, err := s.Submit(context.Background(), req)
	require.NoError(t, err)
	return rec
}

func snapshotWith(cash string, pos map[string]ledger.Position) ledger.Ledger {
	l := ledger.New(d(cash))
	for sym, p := range pos {
		l.Positions[sym] = p
	}
	return l.Snapshot()
}

// moveBy ticks the market once with every price moved by delta.
func moveBy(t *testing.T, s *Session, delta string) {
	t.Helper()
	s.random = market.NewFixedDeltas(d(delta))
	require.NoError(t, s.Tick(context.Background()))
}
