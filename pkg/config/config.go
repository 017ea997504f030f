package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from "10s"-style YAML
// strings. yaml.v3 only decodes integers into time.Duration directly.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int      `yaml:"port" default:"8080"`
		ReadTimeout     Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Cache struct {
		Type   string `yaml:"type" default:"memory"`
		Memory struct {
			MaxEntries      int      `yaml:"max_entries" default:"256"`
			CleanupInterval Duration `yaml:"cleanup_interval" default:"5m"`
		} `yaml:"memory"`
		Redis struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"macroboard"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Sources struct {
		Mock      bool     `yaml:"mock"`
		Synthetic bool     `yaml:"synthetic"`
		UserAgent string   `yaml:"user_agent" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"`
		Timeout   Duration `yaml:"timeout" default:"30s"`
		RateLimit struct {
			Capacity  float64 `yaml:"capacity" default:"4"`
			RefillPer float64 `yaml:"refill_per_second" default:"0.5"`
		} `yaml:"rate_limit"`
		WorldBankURL     string `yaml:"worldbank_url" default:"https://api.worldbank.org/v2"`
		CoinGeckoURL     string `yaml:"coingecko_url" default:"https://api.coingecko.com/api/v3"`
		GoldPriceURL     string `yaml:"goldprice_url" default:"https://data-asg.goldprice.org/dbXRates/USD"`
		CoinMetricsURL   string `yaml:"coinmetrics_url" default:"https://community-api.coinmetrics.io/v4"`
		AHRURL           string `yaml:"ahr_url" default:"https://www.caizi.fun/trade/data/ahr"`
		ProxyPrefix      string `yaml:"proxy_prefix" default:"https://r.jina.ai/"`
		FarsideURL       string `yaml:"farside_url" default:"https://farside.co.uk"`
		EthTreasuriesURL string `yaml:"eth_treasuries_url" default:"https://ethereumtreasuries.net"`
		SolTreasuriesURL string `yaml:"sol_treasuries_url" default:"https://www.coingecko.com/en/treasuries/solana"`
		MVRVStart        string `yaml:"mvrv_start" default:"2013-01-01"`
		TreasuryTop      int    `yaml:"treasury_top" default:"15"`
	} `yaml:"sources"`
	TTL struct {
		GlobalM2   Duration `yaml:"global_m2" default:"1h"`
		MarketCaps Duration `yaml:"market_caps" default:"30m"`
		MVRV       Duration `yaml:"mvrv" default:"30m"`
		AHR999     Duration `yaml:"ahr999" default:"30m"`
		ETFFlows   Duration `yaml:"etf_flows" default:"15m"`
		Treasuries Duration `yaml:"treasuries" default:"1h"`
	} `yaml:"ttl"`
	Refresh struct {
		Enabled bool `yaml:"enabled" default:"true"`
	} `yaml:"refresh"`
}

// Load reads a YAML configuration file, fills defaults, and validates it.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("MOCK_SOURCES"); v != "" {
		c.Sources.Mock = v == "1" || v == "true"
	}
	if v := os.Getenv("CACHE_TYPE"); v != "" {
		c.Cache.Type = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Cache.Type != "memory" && c.Cache.Type != "redis" {
		return fmt.Errorf("cache.type must be 'memory' or 'redis', got '%s'", c.Cache.Type)
	}
	if c.Sources.Mock && c.Sources.Synthetic {
		return fmt.Errorf("sources.mock and sources.synthetic are mutually exclusive")
	}
	if c.Sources.TreasuryTop <= 0 {
		return fmt.Errorf("sources.treasury_top must be positive")
	}
	if _, err := time.Parse("2006-01-02", c.Sources.MVRVStart); err != nil {
		return fmt.Errorf("sources.mvrv_start must be YYYY-MM-DD: %w", err)
	}
	for name, d := range map[string]Duration{
		"ttl.global_m2":   c.TTL.GlobalM2,
		"ttl.market_caps": c.TTL.MarketCaps,
		"ttl.mvrv":        c.TTL.MVRV,
		"ttl.ahr999":      c.TTL.AHR999,
		"ttl.etf_flows":   c.TTL.ETFFlows,
		"ttl.treasuries":  c.TTL.Treasuries,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
