package risk

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode is the trader's chosen risk appetite.
type Mode string

const (
	Conservative Mode = "conservative"
	Balanced     Mode = "balanced"
	Aggressive   Mode = "aggressive"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Conservative:
		return Conservative, nil
	case Balanced, "":
		return Balanced, nil
	case Aggressive:
		return Aggressive, nil
	}
	return "", fmt.Errorf("invalid risk mode %q (want conservative, balanced or aggressive)", s)
}

// Policy holds the coaching thresholds.
type Policy struct {
	Mode Mode
	// MaxPositionPct is the largest share of total capital one position
	// should take.
	MaxPositionPct decimal.Decimal
	// ReviewAfterTrades triggers a "pause and review" tip.
	ReviewAfterTrades int
}

// PolicyFor returns the policy for mode; unknown modes get Balanced.
func PolicyFor(mode Mode) Policy {
	p := Policy{Mode: mode, ReviewAfterTrades: 10}
	switch mode {
	case Conservative:
		p.MaxPositionPct = decimal.RequireFromString("0.10")
	case Aggressive:
		p.MaxPositionPct = decimal.RequireFromString("0.30")
	default:
		p.Mode = Balanced
		p.MaxPositionPct = decimal.RequireFromString("0.15")
	}
	return p
}
