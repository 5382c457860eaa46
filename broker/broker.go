package broker

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("invalid side %q (want buy or sell)", s)
}

// Kind is the order type.
type Kind string

const (
	Market Kind = "market"
	Limit  Kind = "limit"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Market:
		return Market, nil
	case Limit:
		return Limit, nil
	}
	return "", fmt.Errorf("invalid order kind %q (want market or limit)", s)
}

// OrderRequest is what a host submits. LimitPrice is only read for limit
// orders.
type OrderRequest struct {
	Symbol     string          `json:"symbol"`
	Side       Side            `json:"side"`
	Kind       Kind            `json:"kind"`
	Quantity   int64           `json:"quantity"`
	LimitPrice decimal.Decimal `json:"limit_price"`
}

// Fill is an accepted execution decision. It carries the deltas the caller
// commits to the ledger: CashDelta is added to cash, and the position for
// Symbol becomes (NewQuantity, NewAverageCost).
type Fill struct {
	Symbol     string          `json:"symbol"`
	Side       Side            `json:"side"`
	Kind       Kind            `json:"kind"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Gross      decimal.Decimal `json:"gross"`
	Fees       decimal.Decimal `json:"fees"`
	RealizedPL decimal.Decimal `json:"realized_pl"`

	CashDelta      decimal.Decimal `json:"cash_delta"`
	NewQuantity    int64           `json:"new_quantity"`
	NewAverageCost decimal.Decimal `json:"new_average_cost"`
}
