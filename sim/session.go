package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/papertrade/broker"
	"github.com/rustyeddy/papertrade/internal/id"
	"github.com/rustyeddy/papertrade/internal/metrics"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/ledger"
	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/risk"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Options configure a Session. Zero values select defaults: DefaultCosts,
// an always open market, time.Now, a time seeded random source, a Nop
// journal and a Nop logger.
type Options struct {
	Costs   Costs
	Hours   market.Hours
	Now     func() time.Time
	Random  market.RandomSource
	Journal journal.Journal
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Listener is notified after every committed change. It is called after the
// session lock is released, so it may call back into the session.
type Listener interface {
	OnUpdate(Snapshot)
}

// Event names what caused a Snapshot.
type Event string

const (
	EventFill  Event = "fill"
	EventTick  Event = "tick"
	EventReset Event = "reset"
)

// Snapshot is a read-only view of the whole session.
type Snapshot struct {
	Event       Event                `json:"event,omitempty"`
	Time        time.Time            `json:"time"`
	Open        bool                 `json:"open"`
	Instruments []market.Instrument  `json:"instruments"`
	Ledger      ledger.Ledger        `json:"ledger"`
	Stats       journal.Stats        `json:"stats"`
	Trade       *journal.TradeRecord `json:"trade,omitempty"`
}

// Session owns the market, ledger and history of one simulated trader. All
// mutating calls are serialised on one lock; rejected orders have no side
// effects.
type Session struct {
	mu       sync.Mutex
	market   *market.Market
	ledger   *ledger.Ledger
	history  *journal.History
	costs    Costs
	hours    market.Hours
	now      func() time.Time
	random   market.RandomSource
	journal  journal.Journal
	log      *zap.Logger
	metrics  *metrics.Metrics
	listener Listener
}

func NewSession(m *market.Market, initialCash decimal.Decimal, opts Options) (*Session, error) {
	if m == nil {
		return nil, errors.New("new session: market is required")
	}
	if !initialCash.IsPositive() {
		return nil, fmt.Errorf("new session: initial cash must be positive: %s", initialCash)
	}
	if opts.Costs == (Costs{}) {
		opts.Costs = DefaultCosts()
	}
	if err := opts.Costs.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	if opts.Hours == (market.Hours{}) {
		opts.Hours = market.AlwaysOpen
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Random == nil {
		opts.Random = market.NewRandSource(time.Now().UnixNano())
	}
	if opts.Journal == nil {
		opts.Journal = journal.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Session{
		market:  m,
		ledger:  ledger.New(initialCash),
		history: journal.NewHistory(),
		costs:   opts.Costs,
		hours:   opts.Hours,
		now:     opts.Now,
		random:  opts.Random,
		journal: opts.Journal,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
	s.metrics.Cash(initialCash)
	return s, nil
}

// SetListener sets an optional listener for committed changes.
func (s *Session) SetListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

func (s *Session) Costs() Costs { return s.costs }

func (s *Session) Hours() market.Hours { return s.hours }

// IsOpen reports whether the market is open on the session clock.
func (s *Session) IsOpen() bool {
	return s.hours.IsOpen(s.now())
}

func (s *Session) Instruments() []market.Instrument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.Instruments()
}

// Search filters the watchlist by symbol or name.
func (s *Session) Search(q string) []market.Instrument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.Filter(q)
}

func (s *Session) Ledger() ledger.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

// History returns every fill in chronological order.
func (s *Session) History() []journal.TradeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Records()
}

func (s *Session) Stats() journal.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Stats()
}

// Snapshot returns the full read-only session view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked("", nil)
}

func (s *Session) snapshotLocked(ev Event, trade *journal.TradeRecord) Snapshot {
	now := s.now()
	return Snapshot{
		Event:       ev,
		Time:        now,
		Open:        s.hours.IsOpen(now),
		Instruments: s.market.Instruments(),
		Ledger:      s.ledger.Snapshot(),
		Stats:       s.history.Stats(),
		Trade:       trade,
	}
}

// Portfolio marks the ledger to the current market.
func (s *Session) Portfolio() ledger.Valuation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Value(s.market.Prices())
}

// Coach evaluates the portfolio against the risk mode.
func (s *Session) Coach(mode risk.Mode) risk.Decision {
	s.mu.Lock()
	v := s.ledger.Value(s.market.Prices())
	open := s.hours.IsOpen(s.now())
	trades := s.history.Len()
	s.mu.Unlock()
	return risk.Evaluate(risk.PolicyFor(mode), v, open, trades)
}

// Submit validates req against the market and ledger and, on success,
// commits the fill and appends it to the history.
func (s *Session) Submit(ctx context.Context, req broker.OrderRequest) (journal.TradeRecord, error) {
	if err := ctx.Err(); err != nil {
		return journal.TradeRecord{}, err
	}

	s.mu.Lock()

	s.metrics.Submitted(string(req.Side), string(req.Kind))

	price, err := s.market.Price(req.Symbol)
	if err != nil {
		s.mu.Unlock()
		return journal.TradeRecord{}, s.rejected(broker.Reject(broker.ReasonUnknownSymbol, req, ""))
	}

	now := s.now()
	fill, err := Execute(req, s.hours.IsOpen(now), price, s.ledger.Snapshot(), s.costs)
	if err != nil {
		s.mu.Unlock()
		if rej, ok := broker.AsRejection(err); ok {
			return journal.TradeRecord{}, s.rejected(rej)
		}
		return journal.TradeRecord{}, fmt.Errorf("submit: %w", err)
	}

	if err := s.ledger.Apply(fill); err != nil {
		s.mu.Unlock()
		return journal.TradeRecord{}, fmt.Errorf("submit: %w", err)
	}

	rec := journal.TradeRecord{
		ID:         id.At(now),
		Time:       now,
		Symbol:     fill.Symbol,
		Side:       fill.Side,
		Kind:       fill.Kind,
		Quantity:   fill.Quantity,
		Price:      fill.Price,
		Fees:       fill.Fees,
		RealizedPL: fill.RealizedPL,
	}
	s.history.Record(rec)

	s.log.Info("order filled",
		zap.String("id", rec.ID),
		zap.String("symbol", rec.Symbol),
		zap.String("side", string(rec.Side)),
		zap.String("kind", string(rec.Kind)),
		zap.Int64("quantity", rec.Quantity),
		zap.String("price", rec.Price.StringFixed(4)),
		zap.String("realized_pl", rec.RealizedPL.StringFixed(2)),
		zap.String("cash", s.ledger.Cash.StringFixed(2)),
	)
	s.metrics.Filled(rec.Symbol, string(rec.Side), rec.Fees)
	s.metrics.Cash(s.ledger.Cash)

	// The fill is committed; a journal failure is logged, not returned.
	if err := s.journal.RecordTrade(rec); err != nil {
		s.log.Error("journal trade", zap.String("id", rec.ID), zap.Error(err))
	}
	s.recordEquityLocked(now)

	snap := s.snapshotLocked(EventFill, &rec)
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener.OnUpdate(snap)
	}
	return rec, nil
}

// Refuse records an order a host could not turn into a valid request, such
// as a fractional quantity or an unreadable limit price. The symbol and
// market hours are still checked first, in the same order Submit uses, so
// the caller gets the same reason Submit would have given.
func (s *Session) Refuse(rej *broker.Rejection) error {
	req := broker.OrderRequest{Symbol: rej.Symbol, Side: rej.Side, Kind: rej.Kind, Quantity: rej.Quantity}

	s.mu.Lock()
	s.metrics.Submitted(string(req.Side), string(req.Kind))
	_, err := s.market.Price(req.Symbol)
	open := s.hours.IsOpen(s.now())
	s.mu.Unlock()

	switch {
	case err != nil:
		rej = broker.Reject(broker.ReasonUnknownSymbol, req, "")
	case !open:
		rej = broker.Reject(broker.ReasonMarketClosed, req, "")
	case rej.Reason == broker.ReasonInvalidLimitPrice && req.Quantity <= 0:
		rej = broker.Reject(broker.ReasonInvalidQuantity, req, fmt.Sprintf("got %d", req.Quantity))
	}
	return s.rejected(rej)
}

func (s *Session) rejected(rej *broker.Rejection) error {
	s.log.Warn("order rejected",
		zap.String("reason", string(rej.Reason)),
		zap.String("symbol", rej.Symbol),
		zap.String("side", string(rej.Side)),
		zap.Int64("quantity", rej.Quantity),
		zap.String("detail", rej.Detail),
	)
	s.metrics.Rejected(string(rej.Reason))
	return rej
}

// Tick advances market prices by one step.
func (s *Session) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.market.Tick(s.random)
	s.metrics.Tick()
	now := s.now()
	s.recordEquityLocked(now)
	snap := s.snapshotLocked(EventTick, nil)
	listener := s.listener
	s.mu.Unlock()

	s.log.Debug("market tick", zap.Time("time", now))
	if listener != nil {
		listener.OnUpdate(snap)
	}
	return nil
}

// Reset reinitialises the ledger and history together.
func (s *Session) Reset(ctx context.Context, initialCash decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !initialCash.IsPositive() {
		return fmt.Errorf("reset: initial cash must be positive: %s", initialCash)
	}

	s.mu.Lock()
	s.ledger.Reset(initialCash)
	s.history.Reset()
	s.metrics.Reset()
	s.metrics.Cash(initialCash)
	snap := s.snapshotLocked(EventReset, nil)
	listener := s.listener
	s.mu.Unlock()

	s.log.Info("session reset", zap.String("cash", initialCash.StringFixed(2)))
	if listener != nil {
		listener.OnUpdate(snap)
	}
	return nil
}

func (s *Session) recordEquityLocked(now time.Time) {
	v := s.ledger.Value(s.market.Prices())
	err := s.journal.RecordEquity(journal.EquitySnapshot{
		Time:      now,
		Cash:      v.Cash,
		Positions: v.Positions,
		Total:     v.TotalValue,
	})
	if err != nil {
		s.log.Error("journal equity", zap.Error(err))
	}
}
