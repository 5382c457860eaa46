package risk

import (
	"github.com/rustyeddy/papertrade/ledger"
	"github.com/shopspring/decimal"
)

// Weight is one holding's share of total capital.
type Weight struct {
	Symbol string          `json:"symbol"`
	Pct    decimal.Decimal `json:"pct"`
}

// Weights computes each holding's share of the valuation's total value.
// Returns nil when total value is not positive.
func Weights(v ledger.Valuation) []Weight {
	if !v.TotalValue.IsPositive() {
		return nil
	}
	out := make([]Weight, 0, len(v.Holdings))
	for _, h := range v.Holdings {
		out = append(out, Weight{Symbol: h.Symbol, Pct: h.Value.Div(v.TotalValue)})
	}
	return out
}

// Largest returns the heaviest weight. ok is false when there are none.
func Largest(ws []Weight) (w Weight, ok bool) {
	for _, x := range ws {
		if !ok || x.Pct.GreaterThan(w.Pct) {
			w, ok = x, true
		}
	}
	return w, ok
}
