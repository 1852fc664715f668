package indicator

import (
	"time"

	"github.com/oxequant/stockdash/internal/types"
)

// seriesFromCloses builds a valid daily price series from close prices.
// Open tracks the close, high/low bracket it by one unit.
func seriesFromCloses(symbol string, closes ...float64) types.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	series := make(types.PriceSeries, len(closes))
	for i, close := range closes {
		series[i] = types.PriceBar{
			Symbol: symbol,
			Time:   start.AddDate(0, 0, i),
			Open:   close,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: 1000,
		}
	}

	return series
}

// constantSeries builds a series where every close equals value.
func constantSeries(symbol string, value float64, length int) types.PriceSeries {
	closes := make([]float64, length)
	for i := range closes {
		closes[i] = value
	}

	return seriesFromCloses(symbol, closes...)
}
