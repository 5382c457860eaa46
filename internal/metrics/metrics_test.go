package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCount(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.Submitted("buy", "market")
	m.Submitted("buy", "market")
	m.Filled("AAPL", "buy", decimal.NewFromInt(10))
	m.Rejected("InsufficientCash")
	m.Cash(decimal.RequireFromString("99989.82"))
	m.Tick()
	m.Reset()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.orders.WithLabelValues("buy", "market")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fills.WithLabelValues("AAPL", "buy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues("InsufficientCash")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.fees))
	assert.InDelta(t, 99989.82, testutil.ToFloat64(m.cash), 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resets))

	_, err = New(reg)
	assert.Error(t, err, "double registration")
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.Submitted("buy", "limit")
		m.Filled("AAPL", "buy", decimal.Zero)
		m.Rejected("MarketClosed")
		m.Cash(decimal.Zero)
		m.Tick()
		m.Reset()
	})
}
