package journal

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Stats are derived from the full history on demand.
type Stats struct {
	Trades int `json:"trades"`
	Wins   int `json:"wins"`
	// WinRate is Wins/Trades; HasWinRate is false when there are no trades.
	WinRate    decimal.Decimal `json:"win_rate"`
	HasWinRate bool            `json:"has_win_rate"`
	Fees       decimal.Decimal `json:"fees"`
	RealizedPL decimal.Decimal `json:"realized_pl"`
}

// WinRateString renders the win rate as a whole percentage, or "-" when
// there is no data yet.
func (s Stats) WinRateString() string {
	if !s.HasWinRate {
		return "-"
	}
	return s.WinRate.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
}

// History is the append-only, chronological log of fills.
type History struct {
	mu      sync.RWMutex
	records []TradeRecord
}

func NewHistory() *History {
	return &History{}
}

// Record appends rec. It never fails.
func (h *History) Record(rec TradeRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
}

// Records returns a copy in insertion order.
func (h *History) Records() []TradeRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]TradeRecord, len(h.records))
	copy(out, h.records)
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// Stats recomputes the session counters from every record.
func (h *History) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := Stats{Fees: decimal.Zero, RealizedPL: decimal.Zero}
	for _, r := range h.records {
		s.Trades++
		if r.RealizedPL.IsPositive() {
			s.Wins++
		}
		s.Fees = s.Fees.Add(r.Fees)
		s.RealizedPL = s.RealizedPL.Add(r.RealizedPL)
	}
	if s.Trades > 0 {
		s.HasWinRate = true
		s.WinRate = decimal.NewFromInt(int64(s.Wins)).Div(decimal.NewFromInt(int64(s.Trades)))
	}
	return s
}

// Reset drops every record. Only used on session restart.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
}
