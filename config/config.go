package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/papertrade/market"
	"github.com/rustyeddy/papertrade/risk"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the complete simulator configuration
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Market  MarketConfig  `json:"market" yaml:"market"`
	Risk    RiskConfig    `json:"risk" yaml:"risk"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// AccountConfig contains session initialization parameters
type AccountConfig struct {
	InitialCash float64 `json:"initial_cash" yaml:"initial_cash"`
	Currency    string  `json:"currency" yaml:"currency"`
}

// MarketConfig contains the watchlist and execution frictions
type MarketConfig struct {
	Commission   float64            `json:"commission" yaml:"commission"`
	Slippage     float64            `json:"slippage" yaml:"slippage"`
	Jitter       float64            `json:"jitter" yaml:"jitter"`
	Floor        float64            `json:"floor" yaml:"floor"`
	TickInterval string             `json:"tick_interval" yaml:"tick_interval"` // e.g. "2.5s"
	Open         string             `json:"open" yaml:"open"`                   // "HH:MM"
	Close        string             `json:"close" yaml:"close"`                 // "HH:MM"
	AlwaysOpen   bool               `json:"always_open,omitempty" yaml:"always_open,omitempty"`
	Seed         int64              `json:"seed,omitempty" yaml:"seed,omitempty"`
	Instruments  []InstrumentConfig `json:"instruments" yaml:"instruments"`
}

type InstrumentConfig struct {
	Symbol string  `json:"symbol" yaml:"symbol"`
	Name   string  `json:"name" yaml:"name"`
	Price  float64 `json:"price" yaml:"price"`
}

// RiskConfig selects the coaching mode
type RiskConfig struct {
	Mode string `json:"mode" yaml:"mode"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development,omitempty" yaml:"development,omitempty"`
}

// ParseTickInterval converts the tick interval string to time.Duration
func (m MarketConfig) ParseTickInterval() (time.Duration, error) {
	if m.TickInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(m.TickInterval)
}

// Hours returns the trading window.
func (m MarketConfig) Hours() (market.Hours, error) {
	if m.AlwaysOpen {
		return market.AlwaysOpen, nil
	}
	return market.ParseHours(m.Open, m.Close)
}

// Watchlist converts the configured instruments.
func (m MarketConfig) Watchlist() []market.Instrument {
	out := make([]market.Instrument, 0, len(m.Instruments))
	for _, in := range m.Instruments {
		out = append(out, market.NewInstrument(in.Symbol, in.Name, decimal.NewFromFloat(in.Price)))
	}
	return out
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.InitialCash <= 0 {
		return fmt.Errorf("account.initial_cash must be positive")
	}
	if c.Market.Commission < 0 {
		return fmt.Errorf("market.commission must not be negative")
	}
	if c.Market.Slippage < 0 || c.Market.Slippage >= 1 {
		return fmt.Errorf("market.slippage must be between 0 and 1")
	}
	if c.Market.Jitter <= 0 || c.Market.Jitter >= 1 {
		return fmt.Errorf("market.jitter must be between 0 and 1")
	}
	if c.Market.Floor <= 0 {
		return fmt.Errorf("market.floor must be positive")
	}
	if d, err := c.Market.ParseTickInterval(); err != nil {
		return fmt.Errorf("market.tick_interval: %w", err)
	} else if d < 0 {
		return fmt.Errorf("market.tick_interval must not be negative")
	}
	if _, err := c.Market.Hours(); err != nil {
		return fmt.Errorf("market hours: %w", err)
	}
	if len(c.Market.Instruments) == 0 {
		return fmt.Errorf("market.instruments must not be empty")
	}
	seen := map[string]bool{}
	for _, in := range c.Market.Instruments {
		if in.Symbol == "" {
			return fmt.Errorf("instrument symbol is required")
		}
		if seen[in.Symbol] {
			return fmt.Errorf("duplicate instrument: %s", in.Symbol)
		}
		seen[in.Symbol] = true
		if in.Price <= 0 {
			return fmt.Errorf("instrument %s: price must be positive", in.Symbol)
		}
	}
	if _, err := risk.ParseMode(c.Risk.Mode); err != nil {
		return err
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	var instruments []InstrumentConfig
	for _, in := range market.DefaultWatchlist() {
		instruments = append(instruments, InstrumentConfig{
			Symbol: in.Symbol,
			Name:   in.Name,
			Price:  in.Last.InexactFloat64(),
		})
	}
	return &Config{
		Account: AccountConfig{
			InitialCash: 100000,
			Currency:    "INR",
		},
		Market: MarketConfig{
			Commission:   10,
			Slippage:     0.001,
			Jitter:       0.02,
			Floor:        1,
			TickInterval: "2.5s",
			Open:         "09:30",
			Close:        "16:00",
			Instruments:  instruments,
		},
		Risk: RiskConfig{
			Mode: string(risk.Balanced),
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
