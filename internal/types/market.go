package types

import (
	"math"
	"time"

	"github.com/oxequant/stockdash/pkg/errors"
)

// PriceBar is a single OHLCV record for one trading period.
type PriceBar struct {
	Symbol string    `json:"symbol"`
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is an ordered sequence of price bars, sorted ascending by time
// with no duplicate timestamps. Indicator computations never mutate it.
type PriceSeries []PriceBar

// Validate checks the structural invariants of the series: strictly increasing
// timestamps, finite positive prices, non-negative volume, and
// low <= open,close <= high per bar.
func (s PriceSeries) Validate() error {
	for i, bar := range s {
		for _, price := range []float64{bar.Open, bar.High, bar.Low, bar.Close} {
			if math.IsNaN(price) || math.IsInf(price, 0) {
				return errors.Newf(errors.ErrCodeMalformedInput, "bar %d has a non-finite price", i)
			}

			if price <= 0 {
				return errors.Newf(errors.ErrCodeMalformedInput, "bar %d has a non-positive price %v", i, price)
			}
		}

		if bar.Volume < 0 {
			return errors.Newf(errors.ErrCodeMalformedInput, "bar %d has negative volume %v", i, bar.Volume)
		}

		if bar.Low > bar.High {
			return errors.Newf(errors.ErrCodeMalformedInput, "bar %d has low %v above high %v", i, bar.Low, bar.High)
		}

		if bar.Open < bar.Low || bar.Open > bar.High || bar.Close < bar.Low || bar.Close > bar.High {
			return errors.Newf(errors.ErrCodeMalformedInput, "bar %d has open/close outside the low/high range", i)
		}

		if i > 0 && !s[i-1].Time.Before(bar.Time) {
			return errors.Newf(errors.ErrCodeMalformedInput, "bar %d timestamp %s is not after bar %d timestamp %s",
				i, bar.Time.Format(time.RFC3339), i-1, s[i-1].Time.Format(time.RFC3339))
		}
	}

	return nil
}

// Closes returns the close prices of the series in order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, bar := range s {
		closes[i] = bar.Close
	}

	return closes
}

// SymbolName returns the symbol of the first bar, or an empty string for an empty series.
func (s PriceSeries) SymbolName() string {
	if len(s) == 0 {
		return ""
	}

	return s[0].Symbol
}
