package cmd

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/internal/metrics"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/sim"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// runtime is everything a command needs to drive one session.
type runtime struct {
	session  *sim.Session
	journal  journal.Journal
	registry *prometheus.Registry
}

func (r *runtime) Close() error {
	return r.journal.Close()
}

func openJournal(c config.JournalConfig) (journal.Journal, error) {
	switch c.Type {
	case "", "none":
		return journal.Nop{}, nil
	case "csv":
		return journal.NewCSV(c.TradesFile, c.EquityFile)
	case "sqlite":
		return journal.NewSQLite(c.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type: %q", c.Type)
	}
}

func newRuntime(cfg *config.Config, log *zap.Logger) (*runtime, error) {
	mc := cfg.Market
	m, err := market.New(mc.Watchlist(), decimal.NewFromFloat(mc.Jitter), decimal.NewFromFloat(mc.Floor))
	if err != nil {
		return nil, fmt.Errorf("market: %w", err)
	}
	hours, err := mc.Hours()
	if err != nil {
		return nil, fmt.Errorf("market hours: %w", err)
	}

	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	met, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}

	s, err := sim.NewSession(m, decimal.NewFromFloat(cfg.Account.InitialCash), sim.Options{
		Costs: sim.Costs{
			Commission: decimal.NewFromFloat(mc.Commission),
			Slippage:   decimal.NewFromFloat(mc.Slippage),
		},
		Hours:   hours,
		Random:  market.NewRandSource(seed),
		Journal: j,
		Logger:  log,
		Metrics: met,
	})
	if err != nil {
		_ = j.Close()
		return nil, err
	}
	return &runtime{session: s, journal: j, registry: reg}, nil
}
