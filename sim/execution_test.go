package sim

import (
	"errors"
	"testing"

	"github.com/rustyeddy/papertrade/broker"
	"github.com/rustyeddy/papertrade/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_Rejections(t *testing.T) {
	t.Parallel()

	costs := DefaultCosts()
	rich := snapshotWith("100000", map[string]ledger.Position{"AAPL": {Quantity: 5, AverageCost: d("100")}})

	tests := []struct {
		name  string
		req   broker.OrderRequest
		open  bool
		price string
		snap  ledger.Ledger
		want  error
	}{
		{"closed beats everything", marketOrder("AAPL", broker.Buy, 0), false, "100", rich, broker.ErrMarketClosed},
		{"zero quantity", marketOrder("AAPL", broker.Buy, 0), true, "100", rich, broker.ErrInvalidQuantity},
		{"negative quantity", marketOrder("AAPL", broker.Sell, -3), true, "100", rich, broker.ErrInvalidQuantity},
		{"zero limit", limitOrder("AAPL", broker.Buy, 1, "0"), true, "100", rich, broker.ErrInvalidLimitPrice},
		{"negative limit", limitOrder("AAPL", broker.Sell, 1, "-5"), true, "100", rich, broker.ErrInvalidLimitPrice},
		{"buy limit above", limitOrder("AAPL", broker.Buy, 1, "99"), true, "100", rich, broker.ErrLimitNotReached},
		{"sell limit below", limitOrder("AAPL", broker.Sell, 1, "101"), true, "100", rich, broker.ErrLimitNotReached},
		{"insufficient cash", marketOrder("AAPL", broker.Buy, 1), true, "95", snapshotWith("100", nil), broker.ErrInsufficientCash},
		{"insufficient shares", marketOrder("AAPL", broker.Sell, 6), true, "100", rich, broker.ErrInsufficientShares},
		{"no position", marketOrder("MSFT", broker.Sell, 1), true, "100", rich, broker.ErrInsufficientShares},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Execute(tt.req, tt.open, d(tt.price), tt.snap, costs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			rej, ok := broker.AsRejection(err)
			require.True(t, ok)
			assert.Equal(t, tt.req.Symbol, rej.Symbol)
			assert.Equal(t, tt.req.Side, rej.Side)
			assert.Equal(t, tt.req.Quantity, rej.Quantity)
		})
	}
}

func TestExecute_MarketSlippage(t *testing.T) {
	t.Parallel()

	costs := DefaultCosts()
	snap := snapshotWith("100000", map[string]ledger.Position{"AAPL": {Quantity: 10, AverageCost: d("150")}})

	buy, err := Execute(marketOrder("AAPL", broker.Buy, 10), true, d("100"), snap, costs)
	require.NoError(t, err)
	assert.True(t, buy.Price.Equal(d("100.1")), buy.Price.String())
	assert.True(t, buy.Gross.Equal(d("1001")))
	assert.True(t, buy.Fees.Equal(d("10")))
	assert.True(t, buy.CashDelta.Equal(d("-1011")))
	assert.True(t, buy.RealizedPL.IsZero())
	assert.Equal(t, int64(20), buy.NewQuantity)
	// (150*10 + 1001) / 20
	assert.True(t, buy.NewAverageCost.Equal(d("125.05")), buy.NewAverageCost.String())

	sell, err := Execute(marketOrder("AAPL", broker.Sell, 10), true, d("100"), snap, costs)
	require.NoError(t, err)
	assert.True(t, sell.Price.Equal(d("99.9")))
	assert.True(t, sell.CashDelta.Equal(d("989")))
	assert.Equal(t, int64(0), sell.NewQuantity)
	assert.True(t, sell.NewAverageCost.Equal(d("150")))
	// 999 - 10 - 1500
	assert.True(t, sell.RealizedPL.Equal(d("-511")))
}

func TestExecute_LimitFillsAtLimitNotMarket(t *testing.T) {
	t.Parallel()

	costs := DefaultCosts()
	snap := snapshotWith("100000", map[string]ledger.Position{"AAPL": {Quantity: 10, AverageCost: d("90")}})

	tests := []struct {
		name   string
		req    broker.OrderRequest
		price  string
		expect string
	}{
		{"buy at boundary", limitOrder("AAPL", broker.Buy, 1, "100"), "100", "100"},
		{"buy below limit still priced at limit", limitOrder("AAPL", broker.Buy, 1, "100"), "95", "100"},
		{"sell at boundary", limitOrder("AAPL", broker.Sell, 1, "100"), "100", "100"},
		{"sell above limit still priced at limit", limitOrder("AAPL", broker.Sell, 1, "100"), "104", "100"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fill, err := Execute(tt.req, true, d(tt.price), snap, costs)
			require.NoError(t, err)
			assert.True(t, fill.Price.Equal(d(tt.expect)), fill.Price.String())
		})
	}
}

func TestExecute_LimitBuyBoundary(t *testing.T) {
	t.Parallel()

	snap := snapshotWith("100000", nil)

	_, err := Execute(limitOrder("AAPL", broker.Buy, 1, "150"), true, d("150"), snap, DefaultCosts())
	assert.NoError(t, err)

	_, err = Execute(limitOrder("AAPL", broker.Buy, 1, "150"), true, d("151"), snap, DefaultCosts())
	assert.ErrorIs(t, err, broker.ErrLimitNotReached)
}

func TestExecute_SellPL(t *testing.T) {
	t.Parallel()

	snap := snapshotWith("0", map[string]ledger.Position{"AAPL": {Quantity: 20, AverageCost: d("150")}})
	costs := Costs{Commission: d("10"), Slippage: d("0")}

	fill, err := Execute(marketOrder("AAPL", broker.Sell, 5), true, d("160"), snap, costs)
	require.NoError(t, err)
	// 160*5 - 10 - 150*5
	assert.True(t, fill.RealizedPL.Equal(d("40")), fill.RealizedPL.String())
	assert.Equal(t, int64(15), fill.NewQuantity)
	assert.True(t, fill.NewAverageCost.Equal(d("150")))
	assert.True(t, fill.CashDelta.Equal(d("790")))
}

func TestExecute_SellCannotOverdrawCash(t *testing.T) {
	t.Parallel()

	pos := map[string]ledger.Position{"AAPL": {Quantity: 5, AverageCost: d("5")}}
	costs := Costs{Commission: d("10"), Slippage: d("0.001")}

	tests := []struct {
		name string
		cash string
		ok   bool
	}{
		{"no cash to pay fees", "0", false},
		{"cash just short of the shortfall", "5.004", false},
		{"cash covers the shortfall exactly", "5.005", true},
		{"plenty of cash", "1000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			// proceeds 5 * 0.999 = 4.995, minus 10 fees
			fill, err := Execute(marketOrder("AAPL", broker.Sell, 1), true, d("5"), snapshotWith(tt.cash, pos), costs)
			if !tt.ok {
				assert.ErrorIs(t, err, broker.ErrInsufficientCash)
				rej, isRej := broker.AsRejection(err)
				require.True(t, isRej)
				assert.Equal(t, broker.ReasonInsufficientCash, rej.Reason)
				return
			}
			require.NoError(t, err)
			assert.False(t, d(tt.cash).Add(fill.CashDelta).IsNegative())
		})
	}
}

func TestExecute_BuyUsesExactCash(t *testing.T) {
	t.Parallel()

	costs := Costs{Commission: d("10"), Slippage: d("0")}
	fill, err := Execute(marketOrder("AAPL", broker.Buy, 1), true, d("90"), snapshotWith("100", nil), costs)
	require.NoError(t, err)
	assert.True(t, fill.CashDelta.Equal(d("-100")))
}

func TestExecute_UnsupportedKind(t *testing.T) {
	t.Parallel()

	req := broker.OrderRequest{Symbol: "AAPL", Side: broker.Buy, Kind: "stop", Quantity: 1}
	_, err := Execute(req, true, d("100"), snapshotWith("1000", nil), DefaultCosts())
	require.Error(t, err)
	_, isRej := broker.AsRejection(err)
	assert.False(t, isRej)
}

func TestCostsValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultCosts().Validate())
	assert.Error(t, Costs{Commission: d("-1"), Slippage: d("0")}.Validate())
	assert.Error(t, Costs{Commission: d("0"), Slippage: d("1")}.Validate())
}

func TestPL(t *testing.T) {
	t.Parallel()

	pos := ledger.Position{Quantity: 20, AverageCost: d("150")}
	assert.True(t, RealizedPL(pos, d("160"), 5, d("10")).Equal(d("40")))
	assert.True(t, UnrealizedPL(pos, d("140")).Equal(d("-200")))
	assert.True(t, UnrealizedPL(ledger.Position{}, d("140")).IsZero())
}
