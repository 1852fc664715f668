// Package config loads and validates the dashboard configuration from a YAML
// file, with API credentials supplied through the environment.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/oxequant/stockdash/internal/indicator"
	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so values like "5m" parse from YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "duration must be a string like 30s or 5m", err)
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid duration %q", raw)
	}

	*d = Duration(parsed)

	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Indicators holds the lookback parameters for the indicator engine.
type Indicators struct {
	SMAWindow  int `yaml:"sma_window" validate:"required,min=1"`
	RSIPeriod  int `yaml:"rsi_period" validate:"required,min=1"`
	MACDFast   int `yaml:"macd_fast" validate:"required,min=1"`
	MACDSlow   int `yaml:"macd_slow" validate:"required,min=1"`
	MACDSignal int `yaml:"macd_signal" validate:"required,min=1"`
}

// Params converts the configured values into engine parameters.
func (i Indicators) Params() indicator.Params {
	return indicator.Params{
		SMAWindow:  i.SMAWindow,
		RSIPeriod:  i.RSIPeriod,
		MACDFast:   i.MACDFast,
		MACDSlow:   i.MACDSlow,
		MACDSignal: i.MACDSignal,
	}
}

// Config is the dashboard configuration.
type Config struct {
	// Listen is the HTTP listen address of the API server.
	Listen string `yaml:"listen" validate:"required"`
	// Provider selects the market data provider.
	Provider string `yaml:"provider" validate:"required,oneof=yahoo polygon binance"`
	// Symbols are the tickers tracked by the dashboard.
	Symbols []string `yaml:"symbols" validate:"required,min=1,dive,required"`
	// Range is the default lookback window for fetches.
	Range types.Range `yaml:"range" validate:"required"`
	// Interval is the bar interval for fetched series.
	Interval types.Interval `yaml:"interval" validate:"required"`
	// RefreshSpec is the cron spec driving periodic refreshes,
	// e.g. "@every 30s". Empty disables the refresher.
	RefreshSpec string `yaml:"refresh_spec"`
	// CacheTTL bounds how long computed results are served from cache.
	CacheTTL Duration `yaml:"cache_ttl"`
	// StorePath is the DuckDB database file for downloaded history.
	// Empty disables the local store.
	StorePath string `yaml:"store_path"`

	Indicators Indicators `yaml:"indicators"`
}

// Secrets carries credentials read from the environment rather than the
// config file.
type Secrets struct {
	PolygonAPIKey string `envconfig:"POLYGON_API_KEY"`
}

// Default returns the configuration used when a field is omitted.
func Default() Config {
	return Config{
		Listen:      ":8080",
		Provider:    "yahoo",
		Symbols:     []string{"AAPL", "MSFT", "GOOGL"},
		Range:       types.Range1Month,
		Interval:    types.Interval1Day,
		RefreshSpec: "@every 30s",
		CacheTTL:    Duration(5 * time.Minute),
		StorePath:   "",
		Indicators: Indicators{
			SMAWindow:  20,
			RSIPeriod:  14,
			MACDFast:   12,
			MACDSlow:   26,
			MACDSignal: 9,
		},
	}
}

// Load reads, defaults, and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return Parse(data)
}

// Parse parses and validates a YAML configuration document. Omitted fields
// fall back to Default().
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks structural and cross-field constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if err := c.Range.Validate(); err != nil {
		return err
	}

	if err := c.Interval.Validate(); err != nil {
		return err
	}

	if c.Indicators.MACDFast >= c.Indicators.MACDSlow {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"macd_fast %d must be less than macd_slow %d", c.Indicators.MACDFast, c.Indicators.MACDSlow)
	}

	if c.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "cache_ttl must not be negative")
	}

	return nil
}

// LoadSecrets reads credentials from the environment. A .env file in the
// working directory is honored when present.
func LoadSecrets() (Secrets, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	var secrets Secrets
	if err := envconfig.Process("", &secrets); err != nil {
		return Secrets{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read environment", err)
	}

	return secrets, nil
}
