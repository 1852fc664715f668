package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
)

// Series names for the three MACD outputs.
const (
	MACDLineName      = "macd"
	MACDSignalName    = "macd_signal"
	MACDHistogramName = "macd_histogram"
)

// MACD implements the Moving Average Convergence Divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() Indicator {
	return &MACD{
		fastPeriod:   12, // Default fast period
		slowPeriod:   26, // Default slow period
		signalPeriod: 9,  // Default signal period
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config configures the MACD indicator. Expected parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if len(params) != 3 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 3 parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int)")
	}

	fastPeriod, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for fastPeriod parameter, expected int")
	}

	if fastPeriod <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "fastPeriod must be a positive integer, got %d", fastPeriod)
	}

	slowPeriod, ok := params[1].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for slowPeriod parameter, expected int")
	}

	if slowPeriod <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "slowPeriod must be a positive integer, got %d", slowPeriod)
	}

	signalPeriod, ok := params[2].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for signalPeriod parameter, expected int")
	}

	if signalPeriod <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "signalPeriod must be a positive integer, got %d", signalPeriod)
	}

	if fastPeriod >= slowPeriod {
		return errors.Newf(errors.ErrCodeInvalidParameter, "fastPeriod %d must be less than slowPeriod %d", fastPeriod, slowPeriod)
	}

	m.fastPeriod = fastPeriod
	m.slowPeriod = slowPeriod
	m.signalPeriod = signalPeriod

	return nil
}

// Compute implements the Indicator interface. It returns three aligned series:
// the MACD line (fast EMA minus slow EMA), the signal line (EMA of the MACD
// line), and the histogram (MACD line minus signal line, exactly).
func (m *MACD) Compute(series types.PriceSeries) ([]types.IndicatorSeries, error) {
	if m.fastPeriod <= 0 || m.slowPeriod <= 0 || m.signalPeriod <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidPeriod, "all MACD periods must be positive integers")
	}

	if m.fastPeriod >= m.slowPeriod {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "fastPeriod %d must be less than slowPeriod %d", m.fastPeriod, m.slowPeriod)
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	closes := series.Closes()

	fastEMA := exponentialMovingAverage(closes, m.fastPeriod)
	slowEMA := exponentialMovingAverage(closes, m.slowPeriod)

	macdLine := make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine := exponentialMovingAverage(macdLine, m.signalPeriod)

	line := make([]types.IndicatorPoint, len(series))
	signal := make([]types.IndicatorPoint, len(series))
	histogram := make([]types.IndicatorPoint, len(series))

	for i, bar := range series {
		line[i] = types.IndicatorPoint{Time: bar.Time, Value: optional.Some(macdLine[i])}
		signal[i] = types.IndicatorPoint{Time: bar.Time, Value: optional.Some(signalLine[i])}
		histogram[i] = types.IndicatorPoint{Time: bar.Time, Value: optional.Some(macdLine[i] - signalLine[i])}
	}

	return []types.IndicatorSeries{
		{Name: MACDLineName, Type: types.IndicatorTypeMACD, Points: line},
		{Name: MACDSignalName, Type: types.IndicatorTypeMACD, Points: signal},
		{Name: MACDHistogramName, Type: types.IndicatorTypeMACD, Points: histogram},
	}, nil
}
