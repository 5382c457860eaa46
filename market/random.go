package market

import (
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"
)

// RandomSource supplies the per-instrument price move for a tick. Delta must
// return a value in [-jitter, +jitter].
type RandomSource interface {
	Delta(jitter decimal.Decimal) decimal.Decimal
}

// RandSource draws deltas uniformly from a seeded math/rand generator.
type RandSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewRandSource(seed int64) *RandSource {
	return &RandSource{r: rand.New(rand.NewSource(seed))}
}

func (s *RandSource) Delta(jitter decimal.Decimal) decimal.Decimal {
	s.mu.Lock()
	u := s.r.Float64()*2 - 1
	s.mu.Unlock()
	return decimal.NewFromFloat(u).Round(6).Mul(jitter)
}

// FixedDeltas replays a fixed sequence of deltas, cycling when exhausted.
// Deltas outside the jitter range are clamped.
type FixedDeltas struct {
	mu     sync.Mutex
	deltas []decimal.Decimal
	next   int
}

func NewFixedDeltas(deltas ...decimal.Decimal) *FixedDeltas {
	return &FixedDeltas{deltas: deltas}
}

func (f *FixedDeltas) Delta(jitter decimal.Decimal) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.deltas) == 0 {
		return decimal.Zero
	}
	d := f.deltas[f.next%len(f.deltas)]
	f.next++
	return decimal.Min(jitter, decimal.Max(jitter.Neg(), d))
}
