package indicator

import (
	"github.com/oxequant/stockdash/internal/logger"
	"github.com/oxequant/stockdash/internal/types"
	"go.uber.org/zap"
)

// Params holds the lookback parameters for one full computation pass.
// It is passed explicitly to every call; there is no process-wide state.
type Params struct {
	SMAWindow  int `json:"sma_window"`
	RSIPeriod  int `json:"rsi_period"`
	MACDFast   int `json:"macd_fast"`
	MACDSlow   int `json:"macd_slow"`
	MACDSignal int `json:"macd_signal"`
}

// DefaultParams returns the conventional lookback parameters.
func DefaultParams() Params {
	return Params{
		SMAWindow:  20,
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
	}
}

// Report is the result of computing all configured indicators over one series.
// A failure in one indicator never suppresses the others: failed indicators
// are recorded in Errors while the successful series are still returned.
type Report struct {
	Symbol string                         `json:"symbol"`
	Params Params                         `json:"params"`
	Series []types.IndicatorSeries        `json:"series"`
	Errors map[types.IndicatorType]string `json:"errors,omitempty"`
}

// Engine computes the full indicator set for a price series.
type Engine struct {
	registry Registry
	logger   *logger.Logger
}

// NewEngine creates an engine backed by the default indicator registry.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		registry: NewDefaultRegistry(),
		logger:   log,
	}
}

// Registry exposes the engine's indicator registry.
func (e *Engine) Registry() Registry {
	return e.registry
}

// ComputeAll computes SMA, RSI, and MACD over the series with the given
// parameters. Malformed input is rejected up front since every indicator
// would fail on it; parameter and data errors are isolated per indicator.
func (e *Engine) ComputeAll(series types.PriceSeries, params Params) (*Report, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	report := &Report{
		Symbol: series.SymbolName(),
		Params: params,
		Series: nil,
		Errors: make(map[types.IndicatorType]string),
	}

	configs := map[types.IndicatorType][]any{
		types.IndicatorTypeSMA:  {params.SMAWindow},
		types.IndicatorTypeRSI:  {params.RSIPeriod},
		types.IndicatorTypeMACD: {params.MACDFast, params.MACDSlow, params.MACDSignal},
	}

	for _, name := range []types.IndicatorType{types.IndicatorTypeSMA, types.IndicatorTypeRSI, types.IndicatorTypeMACD} {
		result, err := e.computeOne(name, series, configs[name]...)
		if err != nil {
			e.logger.Warn("indicator computation failed",
				zap.String("indicator", string(name)),
				zap.String("symbol", report.Symbol),
				zap.Error(err))
			report.Errors[name] = err.Error()

			continue
		}

		report.Series = append(report.Series, result...)
	}

	if len(report.Errors) == 0 {
		report.Errors = nil
	}

	return report, nil
}

// ComputeOne computes a single named indicator with explicit parameters.
func (e *Engine) ComputeOne(name types.IndicatorType, series types.PriceSeries, params ...any) ([]types.IndicatorSeries, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	return e.computeOne(name, series, params...)
}

func (e *Engine) computeOne(name types.IndicatorType, series types.PriceSeries, params ...any) ([]types.IndicatorSeries, error) {
	ind, err := e.registry.Create(name)
	if err != nil {
		return nil, err
	}

	if err := ind.Config(params...); err != nil {
		return nil, err
	}

	return ind.Compute(series)
}
