// Package config loads the simulator configuration from a YAML file, a .env
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/etnz/stocksim"
	"github.com/etnz/stocksim/logger"
)

// Environment variables overriding the configuration file.
const (
	EnvAPIKey     = "EODHD_API_KEY"
	EnvLedgerFile = "STOCKSIM_LEDGER_FILE"
	EnvLogLevel   = "STOCKSIM_LOG_LEVEL"
)

// Oracle providers.
const (
	ProviderEODHD  = "eodhd"
	ProviderStatic = "static"
)

// Config is the simulator configuration.
type Config struct {
	Currency    string          `yaml:"currency"`
	InitialCash decimal.Decimal `yaml:"initial_cash"`
	LedgerFile  string          `yaml:"ledger_file"`
	MetricsFile string          `yaml:"metrics_file"` // empty disables the metrics export
	Trace       bool            `yaml:"trace"`
	Log         logger.Config   `yaml:"log"`
	Oracle      Oracle          `yaml:"oracle"`
}

// Oracle selects and configures the price oracle.
type Oracle struct {
	Provider string                     `yaml:"provider"` // eodhd or static
	Timeout  time.Duration              `yaml:"timeout"`
	EODHD    EODHD                      `yaml:"eodhd"`
	Prices   map[string]decimal.Decimal `yaml:"prices"` // static provider table
}

// EODHD configures the EODHD client.
type EODHD struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Cache   bool   `yaml:"cache"` // cache daily history responses on disk
}

// Default returns a runnable configuration: a 10000 USD session priced by EODHD.
func Default() Config {
	return Config{
		Currency:    "USD",
		InitialCash: decimal.NewFromInt(10000),
		LedgerFile:  "session.jsonl",
		Log:         logger.DefaultConfig(),
		Oracle: Oracle{
			Provider: ProviderEODHD,
			Timeout:  stocksim.DefaultQuoteTimeout,
			EODHD: EODHD{
				BaseURL: "https://eodhd.com/api",
				Cache:   true,
			},
		},
	}
}

// Load reads the configuration at path over the defaults, then applies the
// environment overrides and validates the result.
//
// An empty path uses the defaults. Variables from a .env file in the working
// directory are loaded first, without overriding the ones already set.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIKey); v != "" {
		c.Oracle.EODHD.APIKey = v
	}
	if v := getenv(EnvLedgerFile); v != "" {
		c.LedgerFile = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Validate reports every problem found in the configuration.
func (c Config) Validate() error {
	var errs []error
	if len(c.Currency) != 3 {
		errs = append(errs, fmt.Errorf("currency must be a 3 letter ISO code, got %q", c.Currency))
	}
	if c.InitialCash.IsNegative() {
		errs = append(errs, fmt.Errorf("initial_cash must not be negative, got %v", c.InitialCash))
	}
	if c.LedgerFile == "" {
		errs = append(errs, errors.New("ledger_file is required"))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	if c.Oracle.Timeout < 0 {
		errs = append(errs, fmt.Errorf("oracle.timeout must not be negative, got %v", c.Oracle.Timeout))
	}
	switch c.Oracle.Provider {
	case ProviderEODHD:
		if c.Oracle.EODHD.BaseURL == "" {
			errs = append(errs, errors.New("oracle.eodhd.base_url is required"))
		}
		// the api key is checked on use: offline commands do not need it.
	case ProviderStatic:
		if _, err := c.StaticPrices(); err != nil {
			errs = append(errs, fmt.Errorf("oracle.prices: %w", err))
		}
	default:
		errs = append(errs, fmt.Errorf("oracle.provider must be %s or %s, got %q", ProviderEODHD, ProviderStatic, c.Oracle.Provider))
	}
	return errors.Join(errs...)
}

// InitialMoney returns the initial cash of a new session.
func (c Config) InitialMoney() stocksim.Money {
	return stocksim.M(c.InitialCash, c.Currency)
}

// StaticPrices converts the static price table into a validated oracle.
func (c Config) StaticPrices() (*stocksim.StaticOracle, error) {
	prices := make(map[string]stocksim.Money, len(c.Oracle.Prices))
	for ticker, price := range c.Oracle.Prices {
		prices[ticker] = stocksim.M(price, c.Currency)
	}
	return stocksim.NewStaticOracle(prices)
}
