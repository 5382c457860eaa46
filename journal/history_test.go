package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_EmptyStats(t *testing.T) {
	t.Parallel()

	h := NewHistory()
	s := h.Stats()

	assert.Equal(t, 0, s.Trades)
	assert.Equal(t, 0, s.Wins)
	assert.False(t, s.HasWinRate)
	assert.Equal(t, "-", s.WinRateString())
	assert.True(t, s.Fees.IsZero())
}

func TestHistory_RecordKeepsOrderAndCountsWins(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	h := NewHistory()
	h.Record(sampleTrade("A", t0, "0"))
	h.Record(sampleTrade("B", t0.Add(time.Minute), "790"))
	h.Record(sampleTrade("C", t0.Add(2*time.Minute), "-12.5"))

	recs := h.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, "A", recs[0].ID)
	assert.Equal(t, "B", recs[1].ID)
	assert.Equal(t, "C", recs[2].ID)

	s := h.Stats()
	assert.Equal(t, 3, s.Trades)
	assert.Equal(t, 1, s.Wins)
	assert.True(t, s.HasWinRate)
	assert.Equal(t, "33%", s.WinRateString())
	assert.True(t, s.Fees.Equal(d("30")))
	assert.True(t, s.RealizedPL.Equal(d("777.5")))
}

func TestHistory_RecordsIsACopy(t *testing.T) {
	t.Parallel()

	h := NewHistory()
	h.Record(sampleTrade("A", time.Now(), "1"))

	recs := h.Records()
	recs[0].ID = "mutated"

	assert.Equal(t, "A", h.Records()[0].ID)
}

func TestHistory_Reset(t *testing.T) {
	t.Parallel()

	h := NewHistory()
	h.Record(sampleTrade("A", time.Now(), "1"))
	h.Reset()

	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 0, h.Stats().Trades)
}
