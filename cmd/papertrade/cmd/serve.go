package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rustyeddy/papertrade/internal/server"
	"github.com/rustyeddy/papertrade/risk"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over HTTP and websocket",
	Long: `Start a simulated market that ticks on the configured interval and serve it.

Endpoints:
  GET  /instruments?q=   watchlist, optionally filtered
  GET  /ledger           cash and positions
  GET  /history          executed trades
  GET  /stats            trades, win rate, fees, realized P/L
  GET  /portfolio        valuation and a coaching tip
  POST /orders           submit a market or limit order
  POST /estimate         preview the cost of an order
  POST /tick             advance prices one step
  POST /reset            start over with fresh cash
  GET  /ws               snapshot stream
  GET  /metrics          Prometheus metrics

Example:
  papertrade serve --addr :8080`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	rt, err := newRuntime(cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	mode, err := risk.ParseMode(cfg.Risk.Mode)
	if err != nil {
		return err
	}
	every, err := cfg.Market.ParseTickInterval()
	if err != nil {
		return fmt.Errorf("tick interval: %w", err)
	}
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(rt.session, server.Options{Mode: mode, Logger: log, Gatherer: rt.registry})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.RunTicker(ctx, every); err != nil {
			log.Error("ticker stopped", zap.Error(err))
		}
	}()

	log.Info("papertrade started",
		zap.String("addr", addr),
		zap.Duration("tick", every),
		zap.String("hours", rt.session.Hours().String()),
		zap.String("mode", string(mode)))
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return err
	}
	log.Info("papertrade stopped")
	return nil
}
