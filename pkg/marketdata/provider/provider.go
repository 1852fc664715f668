// Package provider implements market data providers behind a common
// interface. Each provider fetches historical OHLCV bars and a headline
// quote for one symbol per call.
package provider

import (
	"context"
	"time"

	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderYahoo   ProviderType = "yahoo"
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// Config carries provider credentials.
type Config struct {
	// PolygonAPIKey is required for the polygon provider.
	PolygonAPIKey string
}

// Provider fetches market data for a single symbol.
type Provider interface {
	// FetchBars retrieves OHLCV bars for the symbol between start and end
	// at the given interval, ordered ascending by time.
	FetchBars(ctx context.Context, symbol string, start, end time.Time, interval types.Interval) (types.PriceSeries, error)
	// Quote retrieves a headline quote snapshot for the symbol.
	Quote(ctx context.Context, symbol string) (types.QuoteSummary, error)
}

// NewProvider creates a market data provider of the given type.
func NewProvider(providerType ProviderType, config Config) (Provider, error) {
	switch providerType {
	case ProviderYahoo:
		return NewYahooClient(), nil
	case ProviderPolygon:
		return NewPolygonClient(config.PolygonAPIKey)
	case ProviderBinance:
		return NewBinanceClient(), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

// quoteFromDailyHistory derives a quote snapshot from up to a year of daily
// bars, for providers without a dedicated quote endpoint.
func quoteFromDailyHistory(symbol string, series types.PriceSeries, now time.Time) (types.QuoteSummary, error) {
	if len(series) == 0 {
		return types.QuoteSummary{}, errors.Newf(errors.ErrCodeDataNotFound, "no history available for symbol %s", symbol)
	}

	last := series[len(series)-1]

	summary := types.QuoteSummary{
		Symbol:        symbol,
		Price:         last.Close,
		PreviousClose: last.Close,
		Open:          last.Open,
		DayHigh:       last.High,
		DayLow:        last.Low,
		Volume:        last.Volume,
		UpdatedAt:     now,
	}

	if len(series) > 1 {
		summary.PreviousClose = series[len(series)-2].Close
	}

	summary.FiftyTwoWeekHigh = series[0].High
	summary.FiftyTwoWeekLow = series[0].Low

	for _, bar := range series {
		if bar.High > summary.FiftyTwoWeekHigh {
			summary.FiftyTwoWeekHigh = bar.High
		}

		if bar.Low < summary.FiftyTwoWeekLow {
			summary.FiftyTwoWeekLow = bar.Low
		}
	}

	return summary, nil
}
