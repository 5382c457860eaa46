package risk

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/papertrade/ledger"
	"github.com/shopspring/decimal"
)

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Decision is advisory only; it never blocks an order.
type Decision struct {
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations"`
	Largest    Weight      `json:"largest"`
	Tip        string      `json:"tip"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

const defaultTip = "Think in terms of risk per trade (for example, 0.5-1% of capital) instead of betting randomly sized quantities."

// Evaluate coaches the trader on the current portfolio. The tip reports the
// most pressing issue: concentration first, then a closed market, then
// overtrading.
func Evaluate(p Policy, v ledger.Valuation, marketOpen bool, trades int) Decision {
	d := Decision{Allowed: true}

	hundred := decimal.NewFromInt(100)
	largest, ok := Largest(Weights(v))
	if ok {
		d.Largest = largest
	}

	switch {
	case ok && largest.Pct.GreaterThan(p.MaxPositionPct):
		d.add("CONCENTRATION", fmt.Sprintf("%s is %s%% of capital, above %s%%",
			largest.Symbol, largest.Pct.Mul(hundred).StringFixed(0), p.MaxPositionPct.Mul(hundred).StringFixed(0)))
		d.Tip = fmt.Sprintf("Mode: %s. Your largest position (%s) is about %s%% of capital. Try keeping positions under %s%% in this mode.",
			strings.ToUpper(string(p.Mode)), largest.Symbol, largest.Pct.Mul(hundred).StringFixed(0), p.MaxPositionPct.Mul(hundred).StringFixed(0))
	case !marketOpen:
		d.Tip = "Market is closed. In real life you would queue limit orders or plan your entries for the next session."
	case trades >= p.ReviewAfterTrades:
		d.add("OVERTRADING", fmt.Sprintf("%d trades this session", trades))
		d.Tip = "You've taken several trades. Pause and review: were you following your mode (conservative/balanced/aggressive) or just clicking?"
	default:
		d.Tip = defaultTip
	}
	return d
}
