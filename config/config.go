package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full bot configuration. File values come first, then
// environment variables overlay the credential and mode fields so
// secrets stay out of config files.
type Config struct {
	Credentials CredentialsConfig `json:"credentials" yaml:"credentials"`
	Account     AccountConfig     `json:"account" yaml:"account"`
	Trading     TradingConfig     `json:"trading" yaml:"trading"`
	Journal     JournalConfig     `json:"journal" yaml:"journal"`
	Log         LogConfig         `json:"log" yaml:"log"`
}

type CredentialsConfig struct {
	APIKey    string `json:"api_key" yaml:"api_key"`
	APISecret string `json:"api_secret" yaml:"api_secret"`
	AccountID string `json:"account_id" yaml:"account_id"`
}

type AccountConfig struct {
	Currency string `json:"currency" yaml:"currency"` // account currency, e.g. "EUR"
	// QuoteRate converts the account currency to the USD-quoted
	// instrument prices, for display and journaling only.
	QuoteRate float64 `json:"quote_rate" yaml:"quote_rate"`
}

type TradingConfig struct {
	Demo              bool    `json:"demo" yaml:"demo"`
	IntervalSec       int     `json:"interval_sec" yaml:"interval_sec"`
	ErrorCooldownSec  int     `json:"error_cooldown_sec" yaml:"error_cooldown_sec"`
	RiskPerTrade      float64 `json:"risk_per_trade" yaml:"risk_per_trade"`
	StopPct           float64 `json:"stop_pct" yaml:"stop_pct"`
	TargetPct         float64 `json:"target_pct" yaml:"target_pct"`
	MaxOpenTrades     int     `json:"max_open_trades" yaml:"max_open_trades"`
	CryptoLeverage    float64 `json:"crypto_leverage" yaml:"crypto_leverage"`
	CommodityLeverage float64 `json:"commodity_leverage" yaml:"commodity_leverage"`
	EnableCrypto      bool    `json:"enable_crypto" yaml:"enable_crypto"`
	EnableCommodities bool    `json:"enable_commodities" yaml:"enable_commodities"`
}

type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
}

type LogConfig struct {
	Debug    bool   `json:"debug" yaml:"debug"`
	JSONFile string `json:"json_file,omitempty" yaml:"json_file,omitempty"`
}

// Default returns a configuration suitable for demo trading.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency:  "EUR",
			QuoteRate: 1.08,
		},
		Trading: TradingConfig{
			Demo:              true,
			IntervalSec:       60,
			ErrorCooldownSec:  30,
			RiskPerTrade:      0.1,
			StopPct:           0.02,
			TargetPct:         0.04,
			MaxOpenTrades:     3,
			CryptoLeverage:    2,
			CommodityLeverage: 20,
			EnableCrypto:      true,
			EnableCommodities: true,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./capbot.sqlite",
		},
	}
}

// Load reads an optional config file (YAML or JSON), overlays the
// environment, and validates. path may be empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// Try YAML first, fall back to JSON
		if err := yaml.Unmarshal(data, cfg); err != nil {
			if jerr := json.Unmarshal(data, cfg); jerr != nil {
				return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays credential and mode settings from the environment.
// A .env file in the working directory is honored when present.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("CAPITAL_API_KEY"); v != "" {
		c.Credentials.APIKey = v
	}
	if v := os.Getenv("CAPITAL_API_SECRET"); v != "" {
		c.Credentials.APISecret = v
	}
	if v := os.Getenv("CAPITAL_ACCOUNT_ID"); v != "" {
		c.Credentials.AccountID = v
	}
	if v := os.Getenv("ACCOUNT_CURRENCY"); v != "" {
		c.Account.Currency = v
	}
	if v := os.Getenv("DEMO_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Trading.Demo = b
		}
	}
	if v := os.Getenv("CHECK_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Trading.IntervalSec = n
		}
	}
	if v := os.Getenv("RISK_PER_TRADE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Trading.RiskPerTrade = f
		}
	}
	if v := os.Getenv("CRYPTO_LEVERAGE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Trading.CryptoLeverage = f
		}
	}
	if v := os.Getenv("COMMODITY_LEVERAGE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Trading.CommodityLeverage = f
		}
	}
}

// Validate rejects configurations the engine must not trade with.
// Every error here is fatal at startup.
func (c *Config) Validate() error {
	if !c.Trading.Demo {
		if c.Credentials.APIKey == "" || c.Credentials.APISecret == "" {
			return fmt.Errorf("live mode requires CAPITAL_API_KEY and CAPITAL_API_SECRET")
		}
		if c.Credentials.AccountID == "" {
			return fmt.Errorf("live mode requires CAPITAL_ACCOUNT_ID")
		}
	}
	if c.Trading.RiskPerTrade <= 0 || c.Trading.RiskPerTrade > 1 {
		return fmt.Errorf("risk_per_trade must be in (0, 1], got %v", c.Trading.RiskPerTrade)
	}
	if c.Trading.IntervalSec <= 0 {
		return fmt.Errorf("interval_sec must be positive, got %d", c.Trading.IntervalSec)
	}
	if c.Trading.ErrorCooldownSec <= 0 {
		return fmt.Errorf("error_cooldown_sec must be positive, got %d", c.Trading.ErrorCooldownSec)
	}
	if c.Trading.MaxOpenTrades <= 0 {
		return fmt.Errorf("max_open_trades must be positive, got %d", c.Trading.MaxOpenTrades)
	}
	if c.Trading.CryptoLeverage <= 0 || c.Trading.CommodityLeverage <= 0 {
		return fmt.Errorf("leverage must be positive (crypto=%v, commodity=%v)",
			c.Trading.CryptoLeverage, c.Trading.CommodityLeverage)
	}
	if c.Trading.StopPct <= 0 || c.Trading.TargetPct <= 0 {
		return fmt.Errorf("stop_pct and target_pct must be positive")
	}
	if c.Account.QuoteRate <= 0 {
		return fmt.Errorf("quote_rate must be positive, got %v", c.Account.QuoteRate)
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal type sqlite requires db_path")
		}
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal type csv requires trades_file and equity_file")
		}
	case "none":
	default:
		return fmt.Errorf("unknown journal type %q", c.Journal.Type)
	}
	return nil
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.Trading.IntervalSec) * time.Second
}

func (c *Config) ErrorCooldown() time.Duration {
	return time.Duration(c.Trading.ErrorCooldownSec) * time.Second
}
