// market/instruments.go
package market

import "github.com/shopspring/decimal"

// Instrument is a tradable symbol on the watchlist. Previous holds the
// price from before the most recent tick so a one-tick delta can be shown.
type Instrument struct {
	Symbol   string          `json:"symbol" yaml:"symbol"`
	Name     string          `json:"name" yaml:"name"`
	Last     decimal.Decimal `json:"last"`
	Previous decimal.Decimal `json:"previous"`
}

// Change is the one-tick price move.
func (i Instrument) Change() decimal.Decimal {
	return i.Last.Sub(i.Previous)
}

// ChangePct is the one-tick move as a percentage of the previous price.
func (i Instrument) ChangePct() decimal.Decimal {
	if i.Previous.IsZero() {
		return decimal.Zero
	}
	return i.Change().Div(i.Previous).Mul(decimal.NewFromInt(100))
}

// NewInstrument returns an instrument whose previous price equals its last.
func NewInstrument(symbol, name string, price decimal.Decimal) Instrument {
	return Instrument{
		Symbol:   symbol,
		Name:     name,
		Last:     price,
		Previous: price,
	}
}

// DefaultWatchlist is the stock universe a fresh simulator starts with.
func DefaultWatchlist() []Instrument {
	return []Instrument{
		NewInstrument("AAPL", "Apple Inc.", decimal.NewFromInt(180)),
		NewInstrument("GOOG", "Alphabet Inc.", decimal.NewFromInt(135)),
		NewInstrument("TSLA", "Tesla Inc.", decimal.NewFromInt(220)),
		NewInstrument("AMZN", "Amazon.com Inc.", decimal.NewFromInt(150)),
		NewInstrument("MSFT", "Microsoft Corp.", decimal.NewFromInt(310)),
	}
}
