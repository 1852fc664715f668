package provider

import (
	"context"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
)

// YahooClient fetches market data from Yahoo Finance. No API key is needed.
type YahooClient struct{}

// NewYahooClient creates a Yahoo Finance provider.
func NewYahooClient() Provider {
	return &YahooClient{}
}

// yahooIntervals maps bar intervals to the chart API interval strings.
var yahooIntervals = map[types.Interval]datetime.Interval{
	types.Interval1Min:   datetime.Interval("1m"),
	types.Interval5Min:   datetime.Interval("5m"),
	types.Interval15Min:  datetime.Interval("15m"),
	types.Interval30Min:  datetime.Interval("30m"),
	types.Interval1Hour:  datetime.Interval("60m"),
	types.Interval1Day:   datetime.Interval("1d"),
	types.Interval1Week:  datetime.Interval("1wk"),
	types.Interval1Month: datetime.Interval("1mo"),
}

// FetchBars implements Provider. The underlying chart API does not accept a
// context; cancellation applies between iterations only.
func (c *YahooClient) FetchBars(ctx context.Context, symbol string, start, end time.Time, interval types.Interval) (types.PriceSeries, error) {
	chartInterval, ok := yahooIntervals[interval]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInvalidInterval, "interval %s is not supported by the yahoo provider", interval)
	}

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: chartInterval,
	}

	iter := chart.Get(params)

	var series types.PriceSeries

	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bar := iter.Bar()

		open, _ := bar.Open.Float64()
		high, _ := bar.High.Float64()
		low, _ := bar.Low.Float64()
		closePrice, _ := bar.Close.Float64()

		// The chart API pads gaps with empty bars; skip them.
		if closePrice == 0 {
			continue
		}

		series = append(series, types.PriceBar{
			Symbol: symbol,
			Time:   time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: float64(bar.Volume),
		})
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to fetch yahoo chart for %s", symbol)
	}

	return series, nil
}

// Quote implements Provider. Quotes are fetched through the equity endpoint
// because market cap is only reported there.
func (c *YahooClient) Quote(ctx context.Context, symbol string) (types.QuoteSummary, error) {
	if err := ctx.Err(); err != nil {
		return types.QuoteSummary{}, err
	}

	q, err := equity.Get(symbol)
	if err != nil {
		return types.QuoteSummary{}, errors.Wrapf(errors.ErrCodeQuoteFailed, err, "failed to fetch yahoo quote for %s", symbol)
	}

	if q == nil {
		return types.QuoteSummary{}, errors.Newf(errors.ErrCodeDataNotFound, "no quote available for symbol %s", symbol)
	}

	return quoteFromEquity(symbol, q), nil
}

// quoteFromEquity maps a Yahoo equity record onto a quote summary.
func quoteFromEquity(symbol string, q *finance.Equity) types.QuoteSummary {
	return types.QuoteSummary{
		Symbol:           symbol,
		ShortName:        q.ShortName,
		Price:            q.RegularMarketPrice,
		PreviousClose:    q.RegularMarketPreviousClose,
		Open:             q.RegularMarketOpen,
		DayHigh:          q.RegularMarketDayHigh,
		DayLow:           q.RegularMarketDayLow,
		FiftyTwoWeekHigh: q.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  q.FiftyTwoWeekLow,
		Volume:           float64(q.RegularMarketVolume),
		MarketCap:        float64(q.MarketCap),
		UpdatedAt:        time.Unix(int64(q.RegularMarketTime), 0).UTC(),
	}
}
