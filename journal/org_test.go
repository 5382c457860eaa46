package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	result := FormatTradeOrg(sampleTrade("01HXYZ123456", at, "790"))

	assert.Contains(t, result, "** SELL 5 AAPL (01HXYZ12)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":ID: 01HXYZ123456")
	assert.Contains(t, result, ":TIME: 2024-03-15T10:30:45Z")
	assert.Contains(t, result, ":KIND: market")
	assert.Contains(t, result, ":PRICE: 159.84")
	assert.Contains(t, result, ":FEES: 10.00")
	assert.Contains(t, result, ":REALIZED_PL: 790.00")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Thesis")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)
	out := FormatTradesOrg([]TradeRecord{
		sampleTrade("one", at, "1"),
		sampleTrade("two", at, "2"),
	})

	assert.Equal(t, 2, strings.Count(out, ":PROPERTIES:"))
	assert.Contains(t, out, "(one)")
	assert.Contains(t, out, "(two)")
	assert.Empty(t, FormatTradesOrg(nil))
}
