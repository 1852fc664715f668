package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// IndicatorType identifies a technical indicator.
type IndicatorType string

const (
	IndicatorTypeSMA  IndicatorType = "sma"
	IndicatorTypeEMA  IndicatorType = "ema"
	IndicatorTypeRSI  IndicatorType = "rsi"
	IndicatorTypeMACD IndicatorType = "macd"
)

// IndicatorPoint is a single indicator value aligned to an input bar.
// Value is None for leading points where insufficient history exists.
type IndicatorPoint struct {
	Time  time.Time                `json:"time"`
	Value optional.Option[float64] `json:"value"`
}

// IndicatorSeries is an ordered sequence of indicator points aligned to the
// timestamps of the input price series.
type IndicatorSeries struct {
	// Name distinguishes multiple outputs of one indicator,
	// e.g. "macd", "macd_signal", "macd_histogram".
	Name   string           `json:"name"`
	Type   IndicatorType    `json:"type"`
	Points []IndicatorPoint `json:"points"`
}

// DefinedFrom returns the index of the first defined point, or -1 when every
// point is undefined.
func (s IndicatorSeries) DefinedFrom() int {
	for i, p := range s.Points {
		if p.Value.IsSome() {
			return i
		}
	}

	return -1
}
