package sim

import (
	"github.com/rustyeddy/papertrade/ledger"
	"github.com/shopspring/decimal"
)

// RealizedPL is the profit of selling qty shares of pos at price, net of
// fees, measured against the position's average cost.
func RealizedPL(pos ledger.Position, price decimal.Decimal, qty int64, fees decimal.Decimal) decimal.Decimal {
	q := decimal.NewFromInt(qty)
	return price.Mul(q).Sub(fees).Sub(pos.AverageCost.Mul(q))
}

// UnrealizedPL is the mark-to-market profit of the whole position.
func UnrealizedPL(pos ledger.Position, mark decimal.Decimal) decimal.Decimal {
	return mark.Sub(pos.AverageCost).Mul(decimal.NewFromInt(pos.Quantity))
}
