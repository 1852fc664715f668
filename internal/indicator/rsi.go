package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
)

// RSI implements the Relative Strength Index indicator using Wilder's
// smoothing method: the first average gain/loss is the arithmetic mean of the
// first period deltas, then avg = (avg*(period-1) + new) / period.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
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

	r.period = period

	return nil
}

// Compute implements the Indicator interface. Values are undefined until
// period deltas are available, i.e. the first defined point is at bar index
// period. When the average loss is zero the RSI is defined as 100.
func (r *RSI) Compute(series types.PriceSeries) ([]types.IndicatorSeries, error) {
	if r.period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", r.period)
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	if len(series) <= r.period {
		return nil, errors.NewInsufficientDataErrorf(r.period+1, len(series), series.SymbolName(),
			"insufficient data for RSI: need at least %d bars, got %d", r.period+1, len(series))
	}

	closes := series.Closes()
	points := make([]types.IndicatorPoint, len(series))

	for i := range points {
		points[i] = types.IndicatorPoint{Time: series[i].Time, Value: optional.None[float64]()}
	}

	avgGain := 0.0
	avgLoss := 0.0

	// Seed the averages over the first period deltas.
	for i := 1; i <= r.period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss += -delta
		}
	}

	avgGain /= float64(r.period)
	avgLoss /= float64(r.period)
	points[r.period].Value = optional.Some(rsiValue(avgGain, avgLoss))

	// Subsequent averages use Wilder's smoothing.
	for i := r.period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]

		gain := 0.0
		loss := 0.0

		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}

		avgGain = (avgGain*float64(r.period-1) + gain) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + loss) / float64(r.period)
		points[i].Value = optional.Some(rsiValue(avgGain, avgLoss))
	}

	return []types.IndicatorSeries{
		{
			Name:   string(types.IndicatorTypeRSI),
			Type:   types.IndicatorTypeRSI,
			Points: points,
		},
	}, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100 // Perfect uptrend
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
