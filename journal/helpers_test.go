package journal

import (
	"time"

	"github.com/rustyeddy/papertrade/broker"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleTrade(id string, at time.Time, pl string) TradeRecord {
	return TradeRecord{
		ID:         id,
		Time:       at,
		Symbol:     "AAPL",
		Side:       broker.Sell,
		Kind:       broker.Market,
		Quantity:   5,
		Price:      d("159.84"),
		Fees:       d("10"),
		RealizedPL: d(pl),
	}
}
