package provider

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
)

// PolygonClient fetches market data from Polygon.io.
type PolygonClient struct {
	client *polygon.Client
}

// NewPolygonClient creates a Polygon provider. An API key is required.
func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon provider requires an API key")
	}

	return &PolygonClient{
		client: polygon.New(apiKey),
	}, nil
}

// polygonSpan maps a bar interval to the aggregate multiplier and timespan.
func polygonSpan(interval types.Interval) (int, models.Timespan, error) {
	switch interval {
	case types.Interval1Min:
		return 1, models.Minute, nil
	case types.Interval5Min:
		return 5, models.Minute, nil
	case types.Interval15Min:
		return 15, models.Minute, nil
	case types.Interval30Min:
		return 30, models.Minute, nil
	case types.Interval1Hour:
		return 1, models.Hour, nil
	case types.Interval1Day:
		return 1, models.Day, nil
	case types.Interval1Week:
		return 1, models.Week, nil
	case types.Interval1Month:
		return 1, models.Month, nil
	default:
		return 0, "", errors.Newf(errors.ErrCodeInvalidInterval, "interval %s is not supported by the polygon provider", interval)
	}
}

// FetchBars implements Provider.
func (c *PolygonClient) FetchBars(ctx context.Context, symbol string, start, end time.Time, interval types.Interval) (types.PriceSeries, error) {
	multiplier, timespan, err := polygonSpan(interval)
	if err != nil {
		return nil, err
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(50000)

	iter := c.client.ListAggs(ctx, params)

	var series types.PriceSeries

	for iter.Next() {
		agg := iter.Item()
		series = append(series, types.PriceBar{
			Symbol: symbol,
			Time:   time.Time(agg.Timestamp).UTC(),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to fetch polygon aggregates for %s", symbol)
	}

	return series, nil
}

// Quote implements Provider. Polygon has no single quote endpoint on the
// aggregates API, so the snapshot is derived from a year of daily bars.
func (c *PolygonClient) Quote(ctx context.Context, symbol string) (types.QuoteSummary, error) {
	now := time.Now().UTC()

	series, err := c.FetchBars(ctx, symbol, now.AddDate(-1, 0, 0), now, types.Interval1Day)
	if err != nil {
		return types.QuoteSummary{}, err
	}

	return quoteFromDailyHistory(symbol, series, now)
}
