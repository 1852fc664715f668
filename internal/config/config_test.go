package config

import (
	"testing"
	"time"

	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestParseFull() {
	data := []byte(`
listen: ":9090"
provider: polygon
symbols: [AAPL, TSLA]
range: 3mo
interval: 1h
refresh_spec: "@every 1m"
cache_ttl: 2m
store_path: data/bars.duckdb
indicators:
  sma_window: 50
  rsi_period: 7
  macd_fast: 10
  macd_slow: 30
  macd_signal: 5
`)

	cfg, err := Parse(data)
	suite.NoError(err)
	suite.Equal(":9090", cfg.Listen)
	suite.Equal("polygon", cfg.Provider)
	suite.Equal([]string{"AAPL", "TSLA"}, cfg.Symbols)
	suite.Equal(types.Range3Month, cfg.Range)
	suite.Equal(types.Interval1Hour, cfg.Interval)
	suite.Equal(2*time.Minute, cfg.CacheTTL.Std())
	suite.Equal(50, cfg.Indicators.SMAWindow)
	suite.Equal(7, cfg.Indicators.RSIPeriod)
}

func (suite *ConfigTestSuite) TestParseDefaults() {
	cfg, err := Parse([]byte(`symbols: [NVDA]`))
	suite.NoError(err)
	suite.Equal(":8080", cfg.Listen)
	suite.Equal("yahoo", cfg.Provider)
	suite.Equal(types.Range1Month, cfg.Range)
	suite.Equal(types.Interval1Day, cfg.Interval)
	suite.Equal(5*time.Minute, cfg.CacheTTL.Std())
	suite.Equal(20, cfg.Indicators.SMAWindow)
	suite.Equal(14, cfg.Indicators.RSIPeriod)
}

func (suite *ConfigTestSuite) TestParseInvalidProvider() {
	_, err := Parse([]byte(`provider: bloomberg`))
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
}

func (suite *ConfigTestSuite) TestParseInvalidRange() {
	_, err := Parse([]byte(`range: 10y`))
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidRange, errors.GetCode(err))
}

func (suite *ConfigTestSuite) TestParseInvalidInterval() {
	_, err := Parse([]byte(`interval: 2d`))
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidInterval, errors.GetCode(err))
}

func (suite *ConfigTestSuite) TestParseMACDFastNotBelowSlow() {
	data := []byte(`
indicators:
  sma_window: 20
  rsi_period: 14
  macd_fast: 26
  macd_slow: 12
  macd_signal: 9
`)

	_, err := Parse(data)
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
}

func (suite *ConfigTestSuite) TestParseZeroWindowRejected() {
	data := []byte(`
indicators:
  sma_window: 0
  rsi_period: 14
  macd_fast: 12
  macd_slow: 26
  macd_signal: 9
`)

	_, err := Parse(data)
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestIndicatorsParams() {
	params := Default().Indicators.Params()
	suite.Equal(20, params.SMAWindow)
	suite.Equal(14, params.RSIPeriod)
	suite.Equal(12, params.MACDFast)
	suite.Equal(26, params.MACDSlow)
	suite.Equal(9, params.MACDSignal)
}

func (suite *ConfigTestSuite) TestLoadMissingFile() {
	_, err := Load("does/not/exist.yaml")
	suite.Error(err)
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
}
