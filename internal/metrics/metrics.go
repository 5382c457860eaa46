// Package metrics exposes simulator counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "papertrade"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	orders     *prometheus.CounterVec
	fills      *prometheus.CounterVec
	rejections *prometheus.CounterVec
	fees       prometheus.Counter
	cash       prometheus.Gauge
	ticks      prometheus.Counter
	resets     prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_submitted_total",
			Help:      "Orders submitted, by side and kind.",
		}, []string{"side", "kind"}),
		fills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_filled_total",
			Help:      "Orders filled, by symbol and side.",
		}, []string{"symbol", "side"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Orders rejected, by reason.",
		}, []string{"reason"}),
		fees: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fees_total",
			Help:      "Commission collected across all fills.",
		}),
		cash: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cash",
			Help:      "Current ledger cash balance.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "market_ticks_total",
			Help:      "Market price ticks applied.",
		}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_resets_total",
			Help:      "Session resets.",
		}),
	}

	for _, c := range []prometheus.Collector{m.orders, m.fills, m.rejections, m.fees, m.cash, m.ticks, m.resets} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Submitted(side, kind string) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(side, kind).Inc()
}

func (m *Metrics) Filled(symbol, side string, fees decimal.Decimal) {
	if m == nil {
		return
	}
	m.fills.WithLabelValues(symbol, side).Inc()
	m.fees.Add(fees.InexactFloat64())
}

func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) Cash(v decimal.Decimal) {
	if m == nil {
		return
	}
	m.cash.Set(v.InexactFloat64())
}

func (m *Metrics) Tick() {
	if m == nil {
		return
	}
	m.ticks.Inc()
}

func (m *Metrics) Reset() {
	if m == nil {
		return
	}
	m.resets.Inc()
}
