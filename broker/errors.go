package broker

import (
	"errors"
	"fmt"
)

// Reason names why an order was rejected.
type Reason string

const (
	ReasonUnknownSymbol      Reason = "UnknownSymbol"
	ReasonMarketClosed       Reason = "MarketClosed"
	ReasonInvalidQuantity    Reason = "InvalidQuantity"
	ReasonInvalidLimitPrice  Reason = "InvalidLimitPrice"
	ReasonLimitNotReached    Reason = "LimitNotReached"
	ReasonInsufficientCash   Reason = "InsufficientCash"
	ReasonInsufficientShares Reason = "InsufficientShares"
)

var (
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrMarketClosed       = errors.New("market closed")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidLimitPrice  = errors.New("limit price must be positive")
	ErrLimitNotReached    = errors.New("limit not reached")
	ErrInsufficientCash   = errors.New("not enough cash after including commission")
	ErrInsufficientShares = errors.New("not enough shares to sell")
)

var sentinels = map[Reason]error{
	ReasonUnknownSymbol:      ErrUnknownSymbol,
	ReasonMarketClosed:       ErrMarketClosed,
	ReasonInvalidQuantity:    ErrInvalidQuantity,
	ReasonInvalidLimitPrice:  ErrInvalidLimitPrice,
	ReasonLimitNotReached:    ErrLimitNotReached,
	ReasonInsufficientCash:   ErrInsufficientCash,
	ReasonInsufficientShares: ErrInsufficientShares,
}

// Rejection is returned for every refused order. It is always recoverable
// and carries the request context a host needs to render a message.
type Rejection struct {
	Reason   Reason `json:"reason"`
	Symbol   string `json:"symbol"`
	Side     Side   `json:"side"`
	Kind     Kind   `json:"kind"`
	Quantity int64  `json:"quantity"`
	Detail   string `json:"detail,omitempty"`
}

func Reject(reason Reason, req OrderRequest, detail string) *Rejection {
	return &Rejection{
		Reason:   reason,
		Symbol:   req.Symbol,
		Side:     req.Side,
		Kind:     req.Kind,
		Quantity: req.Quantity,
		Detail:   detail,
	}
}

func (r *Rejection) Error() string {
	msg := fmt.Sprintf("%s %d %s rejected: %v", r.Side, r.Quantity, r.Symbol, r.Unwrap())
	if r.Detail != "" {
		msg += " (" + r.Detail + ")"
	}
	return msg
}

func (r *Rejection) Unwrap() error {
	if err, ok := sentinels[r.Reason]; ok {
		return err
	}
	return errors.New(string(r.Reason))
}

// AsRejection extracts a *Rejection from err.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
