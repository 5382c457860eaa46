package ledger

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Holding is a position marked to a price.
type Holding struct {
	Symbol       string          `json:"symbol"`
	Quantity     int64           `json:"quantity"`
	AverageCost  decimal.Decimal `json:"average_cost"`
	Last         decimal.Decimal `json:"last"`
	Value        decimal.Decimal `json:"value"`
	Unrealized   decimal.Decimal `json:"unrealized_pl"`
	UnrealizedPc decimal.Decimal `json:"unrealized_pl_pct"`
}

// Valuation is the ledger marked to market.
type Valuation struct {
	Cash       decimal.Decimal `json:"cash"`
	Holdings   []Holding       `json:"holdings"`
	Positions  decimal.Decimal `json:"positions_value"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// Mark values a position at price. When price is missing (zero) the
// average cost is used instead.
func Mark(symbol string, p Position, price decimal.Decimal) Holding {
	if !price.IsPositive() {
		price = p.AverageCost
	}
	qty := decimal.NewFromInt(p.Quantity)
	value := price.Mul(qty)
	cost := p.Cost()
	pl := value.Sub(cost)
	pct := decimal.Zero
	if cost.IsPositive() {
		pct = pl.Div(cost).Mul(hundred)
	}
	return Holding{
		Symbol:       symbol,
		Quantity:     p.Quantity,
		AverageCost:  p.AverageCost,
		Last:         price,
		Value:        value,
		Unrealized:   pl,
		UnrealizedPc: pct,
	}
}

// Value marks every held position using prices.
func (l Ledger) Value(prices map[string]decimal.Decimal) Valuation {
	v := Valuation{Cash: l.Cash, Positions: decimal.Zero}
	for _, sym := range l.Symbols() {
		h := Mark(sym, l.Positions[sym], prices[sym])
		v.Holdings = append(v.Holdings, h)
		v.Positions = v.Positions.Add(h.Value)
	}
	v.TotalValue = v.Cash.Add(v.Positions)
	return v
}
