package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
)

// SMA implements the Simple Moving Average indicator.
type SMA struct {
	window int
}

// NewSMA creates a new SMA indicator with default configuration.
func NewSMA() Indicator {
	return &SMA{
		window: 20, // Default window
	}
}

// Name returns the name of the indicator.
func (s *SMA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// Config configures the SMA indicator. Expected parameters: window (int).
func (s *SMA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: window (int)")
	}

	window, ok := params[0].(int)
	if !ok {
		// Try to convert from float first
		windowFloat, ok := params[0].(float64)
		if !ok {
			return errors.New(errors.ErrCodeInvalidType, "invalid type for window parameter, expected int or float")
		}

		window = int(windowFloat)
	}

	if window <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "window must be a positive integer, got %d", window)
	}

	s.window = window

	return nil
}

// Compute implements the Indicator interface. The value at index i (i >= window-1)
// is the arithmetic mean of close over [i-window+1, i]; earlier points are
// undefined. A sliding running sum keeps the computation linear.
func (s *SMA) Compute(series types.PriceSeries) ([]types.IndicatorSeries, error) {
	if s.window <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "window must be a positive integer, got %d", s.window)
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	points := make([]types.IndicatorPoint, len(series))
	sum := 0.0

	for i, bar := range series {
		sum += bar.Close
		if i >= s.window {
			sum -= series[i-s.window].Close
		}

		value := optional.None[float64]()
		if i >= s.window-1 {
			value = optional.Some(sum / float64(s.window))
		}

		points[i] = types.IndicatorPoint{Time: bar.Time, Value: value}
	}

	return []types.IndicatorSeries{
		{
			Name:   string(types.IndicatorTypeSMA),
			Type:   types.IndicatorTypeSMA,
			Points: points,
		},
	}, nil
}
