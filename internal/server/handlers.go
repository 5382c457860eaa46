package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rustyeddy/papertrade/broker"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/risk"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// orderBody is the wire form of an order. Numbers are kept raw so a
// fractional or malformed quantity becomes an InvalidQuantity rejection
// rather than a decode failure; handleOrder hands such rejections to the
// session so symbol and market checks still come first.
type orderBody struct {
	Symbol     string      `json:"symbol"`
	Side       string      `json:"side"`
	Kind       string      `json:"kind"`
	Quantity   json.Number `json:"quantity"`
	LimitPrice json.Number `json:"limit_price,omitempty"`
}

type badRequest struct{ error }

func (b orderBody) request() (broker.OrderRequest, error) {
	side, err := broker.ParseSide(b.Side)
	if err != nil {
		return broker.OrderRequest{}, badRequest{err}
	}
	kind := broker.Market
	if b.Kind != "" {
		if kind, err = broker.ParseKind(b.Kind); err != nil {
			return broker.OrderRequest{}, badRequest{err}
		}
	}
	req := broker.OrderRequest{Symbol: b.Symbol, Side: side, Kind: kind}

	qty, err := b.Quantity.Int64()
	if err != nil {
		return req, broker.Reject(broker.ReasonInvalidQuantity, req, fmt.Sprintf("not a whole number: %q", b.Quantity))
	}
	req.Quantity = qty

	if kind == broker.Limit {
		lp, err := decimal.NewFromString(b.LimitPrice.String())
		if err != nil {
			return req, broker.Reject(broker.ReasonInvalidLimitPrice, req, fmt.Sprintf("not a number: %q", b.LimitPrice))
		}
		req.LimitPrice = lp
	}
	return req, nil
}

func decodeOrder(r *http.Request) (broker.OrderRequest, error) {
	var body orderBody
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return broker.OrderRequest{}, badRequest{fmt.Errorf("decode order: %w", err)}
	}
	return body.request()
}

// writeOrderError maps rejections to 422 and malformed input to 400.
func (s *Server) writeOrderError(w http.ResponseWriter, err error) {
	if rej, ok := broker.AsRejection(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, struct {
			*broker.Rejection
			Error string `json:"error"`
		}{rej, rej.Error()})
		return
	}
	var br badRequest
	if errors.As(err, &br) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.log.Error("order failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, err)
}

func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Search(r.URL.Query().Get("q")))
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Ledger())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	recs := s.session.History()
	if r.URL.Query().Get("order") == "desc" {
		rev := make([]journal.TradeRecord, len(recs))
		for i, rec := range recs {
			rev[len(recs)-1-i] = rec
		}
		recs = rev
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Stats())
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	mode := s.mode
	if q := r.URL.Query().Get("mode"); q != "" {
		m, err := risk.ParseMode(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		mode = m
	}
	v := s.session.Portfolio()
	dec := s.session.Coach(mode)
	writeJSON(w, http.StatusOK, map[string]any{
		"open":            s.session.IsOpen(),
		"mode":            mode,
		"cash":            v.Cash,
		"holdings":        v.Holdings,
		"positions_value": v.Positions,
		"total_value":     v.TotalValue,
		"tip":             dec.Tip,
		"violations":      dec.Violations,
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	req, err := decodeOrder(r)
	if err != nil {
		if rej, ok := broker.AsRejection(err); ok {
			err = s.session.Refuse(rej)
		}
		s.writeOrderError(w, err)
		return
	}
	rec, err := s.session.Submit(r.Context(), req)
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeOrder(r)
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	total, err := s.session.Estimate(req)
	if err != nil {
		s.writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"estimated_cost": total})
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Tick(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Instruments())
}

type resetBody struct {
	InitialCash decimal.Decimal `json:"initial_cash"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var body resetBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode reset: %w", err))
		return
	}
	if err := s.session.Reset(r.Context(), body.InitialCash); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Ledger())
}
