package provider

import (
	"context"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
)

// BinanceClient fetches market data from Binance. Public market data
// endpoints need no credentials.
type BinanceClient struct {
	client *binance.Client
}

// NewBinanceClient creates a Binance provider.
func NewBinanceClient() Provider {
	return &BinanceClient{
		client: binance.NewClient("", ""),
	}
}

// binanceIntervals maps bar intervals to the kline interval strings.
var binanceIntervals = map[types.Interval]string{
	types.Interval1Min:   "1m",
	types.Interval5Min:   "5m",
	types.Interval15Min:  "15m",
	types.Interval30Min:  "30m",
	types.Interval1Hour:  "1h",
	types.Interval1Day:   "1d",
	types.Interval1Week:  "1w",
	types.Interval1Month: "1M",
}

// FetchBars implements Provider.
func (c *BinanceClient) FetchBars(ctx context.Context, symbol string, start, end time.Time, interval types.Interval) (types.PriceSeries, error) {
	klineInterval, ok := binanceIntervals[interval]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInvalidInterval, "interval %s is not supported by the binance provider", interval)
	}

	klines, err := c.client.NewKlinesService().
		Symbol(symbol).
		Interval(klineInterval).
		StartTime(start.UnixMilli()).
		EndTime(end.UnixMilli()).
		Limit(1000).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to fetch binance klines for %s", symbol)
	}

	series := make(types.PriceSeries, 0, len(klines))

	for _, k := range klines {
		open, err := parsePrice(k.Open)
		if err != nil {
			return nil, err
		}

		high, err := parsePrice(k.High)
		if err != nil {
			return nil, err
		}

		low, err := parsePrice(k.Low)
		if err != nil {
			return nil, err
		}

		closePrice, err := parsePrice(k.Close)
		if err != nil {
			return nil, err
		}

		volume, err := parsePrice(k.Volume)
		if err != nil {
			return nil, err
		}

		series = append(series, types.PriceBar{
			Symbol: symbol,
			Time:   time.UnixMilli(k.OpenTime).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	return series, nil
}

// Quote implements Provider using the 24h ticker statistics endpoint.
func (c *BinanceClient) Quote(ctx context.Context, symbol string) (types.QuoteSummary, error) {
	stats, err := c.client.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		return types.QuoteSummary{}, errors.Wrapf(errors.ErrCodeQuoteFailed, err, "failed to fetch binance ticker stats for %s", symbol)
	}

	if len(stats) == 0 {
		return types.QuoteSummary{}, errors.Newf(errors.ErrCodeDataNotFound, "no ticker stats available for symbol %s", symbol)
	}

	s := stats[0]

	summary := types.QuoteSummary{
		Symbol:    symbol,
		UpdatedAt: time.Now().UTC(),
	}

	fields := []struct {
		raw string
		dst *float64
	}{
		{s.LastPrice, &summary.Price},
		{s.PrevClosePrice, &summary.PreviousClose},
		{s.OpenPrice, &summary.Open},
		{s.HighPrice, &summary.DayHigh},
		{s.LowPrice, &summary.DayLow},
		{s.Volume, &summary.Volume},
	}

	for _, f := range fields {
		value, err := parsePrice(f.raw)
		if err != nil {
			return types.QuoteSummary{}, err
		}

		*f.dst = value
	}

	return summary, nil
}

// parsePrice converts a decimal string from the Binance API to a float64.
func parsePrice(raw string) (float64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeParseFailed, err, "failed to parse price %q", raw)
	}

	value, _ := d.Float64()

	return value, nil
}
