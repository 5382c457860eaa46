package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PAPERTRADE_"

// LoadEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config fields from PAPERTRADE_* variables.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup("INITIAL_CASH"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sINITIAL_CASH: %w", EnvPrefix, err)
		}
		c.Account.InitialCash = f
	}
	if v, ok := lookup("COMMISSION"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sCOMMISSION: %w", EnvPrefix, err)
		}
		c.Market.Commission = f
	}
	if v, ok := lookup("ALWAYS_OPEN"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sALWAYS_OPEN: %w", EnvPrefix, err)
		}
		c.Market.AlwaysOpen = b
	}
	if v, ok := lookup("TICK_INTERVAL"); ok {
		c.Market.TickInterval = v
	}
	if v, ok := lookup("RISK_MODE"); ok {
		c.Risk.Mode = v
	}
	if v, ok := lookup("ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("DB_PATH"); ok {
		c.Journal.Type = "sqlite"
		c.Journal.DBPath = v
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
