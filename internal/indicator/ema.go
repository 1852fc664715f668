package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
)

// EMA implements the Exponential Moving Average indicator.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &EMA{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: period (int).
func (e *EMA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	e.period = period

	return nil
}

// Compute implements the Indicator interface. Every point is defined because
// the recurrence is seeded with the first close.
func (e *EMA) Compute(series types.PriceSeries) ([]types.IndicatorSeries, error) {
	if e.period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", e.period)
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	values := exponentialMovingAverage(series.Closes(), e.period)

	points := make([]types.IndicatorPoint, len(series))
	for i, bar := range series {
		points[i] = types.IndicatorPoint{Time: bar.Time, Value: optional.Some(values[i])}
	}

	return []types.IndicatorSeries{
		{
			Name:   string(types.IndicatorTypeEMA),
			Type:   types.IndicatorTypeEMA,
			Points: points,
		},
	}, nil
}

// exponentialMovingAverage computes the EMA of values with the recurrence
// ema_0 = values_0, ema_i = values_i*alpha + ema_{i-1}*(1-alpha) where
// alpha = 2/(period+1). This matches the pandas ewm implementation with
// span=period and adjust=False.
func exponentialMovingAverage(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}

	alpha := 2.0 / float64(period+1)

	out := make([]float64, len(values))
	out[0] = values[0]

	for i := 1; i < len(values); i++ {
		out[i] = values[i]*alpha + out[i-1]*(1-alpha)
	}

	return out
}
