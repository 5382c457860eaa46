package sim

import (
	"fmt"

	"github.com/rustyeddy/papertrade/broker"
	"github.com/rustyeddy/papertrade/ledger"
	"github.com/shopspring/decimal"
)

// Costs are the frictions applied to every fill.
type Costs struct {
	// Commission is charged once per trade regardless of size.
	Commission decimal.Decimal
	// Slippage is the fraction market orders are moved against the trader.
	Slippage decimal.Decimal
}

func DefaultCosts() Costs {
	return Costs{
		Commission: decimal.NewFromInt(10),
		Slippage:   decimal.RequireFromString("0.001"),
	}
}

func (c Costs) Validate() error {
	if c.Commission.IsNegative() {
		return fmt.Errorf("commission must not be negative: %s", c.Commission)
	}
	if c.Slippage.IsNegative() || c.Slippage.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("slippage must be in [0, 1): %s", c.Slippage)
	}
	return nil
}

// Execute decides whether req fills against the quoted price and the ledger
// snapshot. It never mutates anything: on success the returned Fill holds
// the cash and position deltas for the caller to commit.
//
// Limit orders are tested against the raw quote but always priced at the
// limit itself, and skip slippage.
func Execute(req broker.OrderRequest, open bool, price decimal.Decimal, snap ledger.Ledger, costs Costs) (broker.Fill, error) {
	if !open {
		return broker.Fill{}, broker.Reject(broker.ReasonMarketClosed, req, "")
	}
	if req.Quantity <= 0 {
		return broker.Fill{}, broker.Reject(broker.ReasonInvalidQuantity, req, fmt.Sprintf("got %d", req.Quantity))
	}
	if req.Kind == broker.Limit && !req.LimitPrice.IsPositive() {
		return broker.Fill{}, broker.Reject(broker.ReasonInvalidLimitPrice, req, "got "+req.LimitPrice.String())
	}

	one := decimal.NewFromInt(1)
	var execPrice decimal.Decimal
	switch req.Kind {
	case broker.Market:
		if req.Side == broker.Buy {
			execPrice = price.Mul(one.Add(costs.Slippage))
		} else {
			execPrice = price.Mul(one.Sub(costs.Slippage))
		}
	case broker.Limit:
		if req.Side == broker.Buy && price.GreaterThan(req.LimitPrice) {
			return broker.Fill{}, broker.Reject(broker.ReasonLimitNotReached, req,
				fmt.Sprintf("price %s above limit %s", price.StringFixed(2), req.LimitPrice.StringFixed(2)))
		}
		if req.Side == broker.Sell && price.LessThan(req.LimitPrice) {
			return broker.Fill{}, broker.Reject(broker.ReasonLimitNotReached, req,
				fmt.Sprintf("price %s below limit %s", price.StringFixed(2), req.LimitPrice.StringFixed(2)))
		}
		execPrice = req.LimitPrice
	default:
		return broker.Fill{}, fmt.Errorf("execute: unsupported order kind %q", req.Kind)
	}

	qty := decimal.NewFromInt(req.Quantity)
	gross := execPrice.Mul(qty)
	fees := costs.Commission
	pos := snap.Position(req.Symbol)

	fill := broker.Fill{
		Symbol:     req.Symbol,
		Side:       req.Side,
		Kind:       req.Kind,
		Quantity:   req.Quantity,
		Price:      execPrice,
		Gross:      gross,
		Fees:       fees,
		RealizedPL: decimal.Zero,
	}

	switch req.Side {
	case broker.Buy:
		total := gross.Add(fees)
		if total.GreaterThan(snap.Cash) {
			return broker.Fill{}, broker.Reject(broker.ReasonInsufficientCash, req,
				fmt.Sprintf("need %s, have %s", total.StringFixed(2), snap.Cash.StringFixed(2)))
		}
		newQty := pos.Quantity + req.Quantity
		// commission stays out of the cost basis
		basis := pos.Cost().Add(gross)
		fill.CashDelta = total.Neg()
		fill.NewQuantity = newQty
		fill.NewAverageCost = basis.Div(decimal.NewFromInt(newQty))
	case broker.Sell:
		if pos.Quantity < req.Quantity {
			return broker.Fill{}, broker.Reject(broker.ReasonInsufficientShares, req,
				fmt.Sprintf("hold %d", pos.Quantity))
		}
		total := gross.Sub(fees)
		// a sale too small to cover its commission must not overdraw cash
		if snap.Cash.Add(total).IsNegative() {
			return broker.Fill{}, broker.Reject(broker.ReasonInsufficientCash, req,
				fmt.Sprintf("proceeds %s do not cover fees, have %s", gross.StringFixed(2), snap.Cash.StringFixed(2)))
		}
		fill.CashDelta = total
		fill.NewQuantity = pos.Quantity - req.Quantity
		fill.NewAverageCost = pos.AverageCost
		fill.RealizedPL = RealizedPL(pos, execPrice, req.Quantity, fees)
	default:
		return broker.Fill{}, fmt.Errorf("execute: unsupported side %q", req.Side)
	}

	return fill, nil
}
