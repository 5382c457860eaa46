package sim

import (
	"github.com/rustyeddy/papertrade/broker"
	"github.com/shopspring/decimal"
)

// Estimate previews the cash an order would need: quantity at the expected
// price plus commission. Market orders assume buy-side slippage; limit
// orders use the limit when one is set. It does not check the ledger.
func (s *Session) Estimate(req broker.OrderRequest) (decimal.Decimal, error) {
	price, err := s.market.Price(req.Symbol)
	if err != nil {
		return decimal.Zero, broker.Reject(broker.ReasonUnknownSymbol, req, "")
	}
	if req.Quantity <= 0 {
		return decimal.Zero, broker.Reject(broker.ReasonInvalidQuantity, req, "")
	}
	return EstimateCost(req, price, s.costs), nil
}

func EstimateCost(req broker.OrderRequest, price decimal.Decimal, costs Costs) decimal.Decimal {
	switch {
	case req.Kind == broker.Limit && req.LimitPrice.IsPositive():
		price = req.LimitPrice
	case req.Kind == broker.Market:
		price = price.Mul(decimal.NewFromInt(1).Add(costs.Slippage))
	}
	return price.Mul(decimal.NewFromInt(req.Quantity)).Add(costs.Commission)
}
