package cmd

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/papertrade/broker"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command in process. These tests share the
// command tree and its flag variables, so they do not run in parallel.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cfgFile, logLevel = "", ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLIVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "papertrade version "+version)
}

func TestCLIConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pt.yaml")

	out, err := run(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = run(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "5 instruments")
	assert.Contains(t, out, "Risk mode: balanced")
}

func TestCLIDemo(t *testing.T) {
	out, err := run(t, "demo", "--ticks", "2", "--qty", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Bought 4 AAPL")
	assert.Contains(t, out, "Sold 2 AAPL")
	assert.Contains(t, out, "Tip (balanced)")
}

func TestCLIJournalQueries(t *testing.T) {
	db := filepath.Join(t.TempDir(), "pt.sqlite")
	j, err := journal.NewSQLite(db)
	require.NoError(t, err)

	now := time.Now()
	rec := journal.TradeRecord{
		ID:         "01J0000000000000000000TEST",
		Time:       now,
		Symbol:     "TSLA",
		Side:       broker.Sell,
		Kind:       broker.Market,
		Quantity:   3,
		Price:      decimal.RequireFromString("221.5"),
		Fees:       decimal.NewFromInt(10),
		RealizedPL: decimal.RequireFromString("-4.25"),
	}
	require.NoError(t, j.RecordTrade(rec))
	require.NoError(t, j.RecordEquity(journal.EquitySnapshot{
		Time:      now,
		Cash:      decimal.NewFromInt(99000),
		Positions: decimal.NewFromInt(664),
		Total:     decimal.NewFromInt(99664),
	}))
	require.NoError(t, j.Close())

	out, err := run(t, "journal", "trade", rec.ID, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "** SELL 3 TSLA")
	assert.Contains(t, out, ":REALIZED_PL: -4.25")

	out, err = run(t, "journal", "today", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "SELL 3 TSLA")

	out, err = run(t, "journal", "equity", now.Format("2006-01-02"), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "99664.00")

	_, err = run(t, "journal", "day", "not-a-date", "--db", db)
	assert.Error(t, err)
}
