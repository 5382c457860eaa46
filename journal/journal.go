// journal/journal.go
package journal

import (
	"time"

	"github.com/rustyeddy/papertrade/broker"
	"github.com/shopspring/decimal"
)

// TradeRecord is one executed fill. Records are immutable once appended.
type TradeRecord struct {
	ID         string          `json:"id"`
	Time       time.Time       `json:"time"`
	Symbol     string          `json:"symbol"`
	Side       broker.Side     `json:"side"`
	Kind       broker.Kind     `json:"kind"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Fees       decimal.Decimal `json:"fees"`
	RealizedPL decimal.Decimal `json:"realized_pl"`
}

// EquitySnapshot is the ledger marked to market at a point in time.
type EquitySnapshot struct {
	Time      time.Time       `json:"time"`
	Cash      decimal.Decimal `json:"cash"`
	Positions decimal.Decimal `json:"positions_value"`
	Total     decimal.Decimal `json:"total_value"`
}

// Journal is a write-only export sink. Sessions never read it back.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error     { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
