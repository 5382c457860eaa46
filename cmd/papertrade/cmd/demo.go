package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rustyeddy/papertrade/broker"
	"github.com/rustyeddy/papertrade/risk"
	"github.com/rustyeddy/papertrade/sim"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted trading session",
	Long: `Run a short scripted session to see how the simulator works.

The demo:
  1. Buys shares of the first watchlist symbol at market
  2. Lets the market tick a few times
  3. Places a limit sell for half the position at the current price
  4. Tries an order the account cannot afford
  5. Prints the ledger, session stats and a coaching tip

The market is forced open so the demo runs at any time of day.

Examples:
  papertrade demo
  papertrade demo --ticks 10 --qty 20`,
	RunE: runDemoCmd,
}

var (
	demoTicks int
	demoQty   int64
)

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().IntVar(&demoTicks, "ticks", 5, "number of market ticks between the buy and the sell")
	demoCmd.Flags().Int64Var(&demoQty, "qty", 10, "number of shares to buy")
}

func runDemoCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Market.AlwaysOpen = true

	rt, err := newRuntime(cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer rt.Close()

	mode, err := risk.ParseMode(cfg.Risk.Mode)
	if err != nil {
		return err
	}
	return runDemo(cmd.Context(), cmd.OutOrStdout(), rt.session, mode, demoTicks, demoQty)
}

func runDemo(ctx context.Context, w io.Writer, s *sim.Session, mode risk.Mode, ticks int, qty int64) error {
	instruments := s.Instruments()
	if len(instruments) == 0 {
		return fmt.Errorf("demo: empty watchlist")
	}
	sym := instruments[0].Symbol

	fmt.Fprintln(w, "=== Paper Trading Demo ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Starting cash: %s\n", s.Ledger().Cash.StringFixed(2))

	buy := broker.OrderRequest{Symbol: sym, Side: broker.Buy, Kind: broker.Market, Quantity: qty}
	est, err := s.Estimate(buy)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Estimated cost of %d %s: %s\n\n", qty, sym, est.StringFixed(2))

	rec, err := s.Submit(ctx, buy)
	if err != nil {
		return err
	}
	printTrade(w, "Bought", rec.Quantity, rec.Symbol, rec.Price, rec.Fees, rec.RealizedPL)

	fmt.Fprintf(w, "\nTicking the market %d times...\n", ticks)
	for i := 0; i < ticks; i++ {
		if err := s.Tick(ctx); err != nil {
			return err
		}
	}
	for _, in := range s.Instruments() {
		if in.Symbol == sym {
			fmt.Fprintf(w, "  %s now %s (%s%%)\n\n", sym, in.Last.StringFixed(2), in.ChangePct().StringFixed(2))
		}
	}

	if half := qty / 2; half > 0 {
		price := s.Portfolio().Holdings[0].Last
		sell := broker.OrderRequest{Symbol: sym, Side: broker.Sell, Kind: broker.Limit, Quantity: half, LimitPrice: price}
		rec, err := s.Submit(ctx, sell)
		if err != nil {
			return err
		}
		printTrade(w, "Sold", rec.Quantity, rec.Symbol, rec.Price, rec.Fees, rec.RealizedPL)
	}

	tooBig := broker.OrderRequest{Symbol: sym, Side: broker.Buy, Kind: broker.Market, Quantity: 1_000_000}
	if _, err := s.Submit(ctx, tooBig); err != nil {
		fmt.Fprintf(w, "\nRejected: %v\n", err)
	}

	v := s.Portfolio()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ledger:")
	fmt.Fprintf(w, "  Cash: %s\n", v.Cash.StringFixed(2))
	for _, h := range v.Holdings {
		fmt.Fprintf(w, "  %s: %d @ %s (last %s, unrealized %s)\n",
			h.Symbol, h.Quantity, h.AverageCost.StringFixed(2), h.Last.StringFixed(2), h.Unrealized.StringFixed(2))
	}
	fmt.Fprintf(w, "  Total value: %s\n", v.TotalValue.StringFixed(2))

	st := s.Stats()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Session stats:")
	fmt.Fprintf(w, "  Trades: %d  Win rate: %s\n", st.Trades, st.WinRateString())
	fmt.Fprintf(w, "  Fees: %s  Realized P/L: %s\n", st.Fees.StringFixed(2), st.RealizedPL.StringFixed(2))

	fmt.Fprintf(w, "\nTip (%s): %s\n", mode, s.Coach(mode).Tip)
	return nil
}

func printTrade(w io.Writer, verb string, qty int64, sym string, price, fees, pl decimal.Decimal) {
	fmt.Fprintf(w, "%s %d %s at %s (fees %s, realized P/L %s)\n",
		verb, qty, sym, price.StringFixed(2), fees.StringFixed(2), pl.StringFixed(2))
}
