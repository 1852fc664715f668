// Package marketdata is the client facade over the market data providers.
// It validates requests and normalizes the returned series so downstream
// indicator computations always see a well-formed input.
package marketdata

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
	"github.com/oxequant/stockdash/pkg/marketdata/provider"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `validate:"required,oneof=yahoo polygon binance"`
	PolygonAPIKey string                `validate:"required_if=ProviderType polygon"`
}

// FetchParams holds the parameters for a bar fetch request.
type FetchParams struct {
	Symbol   string         `validate:"required"`
	Start    time.Time      `validate:"required"`
	End      time.Time      `validate:"required,gtfield=Start"`
	Interval types.Interval `validate:"required"`
}

// Client is the market data client.
type Client struct {
	provider provider.Provider
	validate *validator.Validate
}

// NewClient creates a market data client with the given configuration.
func NewClient(config ClientConfig) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	p, err := provider.NewProvider(config.ProviderType, provider.Config{
		PolygonAPIKey: config.PolygonAPIKey,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		provider: p,
		validate: validate,
	}, nil
}

// NewClientWithProvider creates a client over an existing provider.
// Intended for tests and custom providers.
func NewClientWithProvider(p provider.Provider) *Client {
	return &Client{
		provider: p,
		validate: validator.New(),
	}
}

// FetchBars fetches bars per params and returns a normalized, validated series.
func (c *Client) FetchBars(ctx context.Context, params FetchParams) (types.PriceSeries, error) {
	if err := c.validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid fetch parameters", err)
	}

	if err := params.Interval.Validate(); err != nil {
		return nil, err
	}

	series, err := c.provider.FetchBars(ctx, params.Symbol, params.Start, params.End, params.Interval)
	if err != nil {
		return nil, err
	}

	series = normalize(series)
	if err := series.Validate(); err != nil {
		return nil, err
	}

	return series, nil
}

// Quote fetches a quote snapshot for the symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (types.QuoteSummary, error) {
	if symbol == "" {
		return types.QuoteSummary{}, errors.New(errors.ErrCodeInvalidParameter, "symbol is required")
	}

	return c.provider.Quote(ctx, symbol)
}

// normalize sorts the series ascending by time and drops duplicate
// timestamps, keeping the latest bar for each. Providers occasionally return
// an in-progress bar that duplicates the last completed one.
func normalize(series types.PriceSeries) types.PriceSeries {
	if len(series) == 0 {
		return series
	}

	sorted := make(types.PriceSeries, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	out := sorted[:1]
	for _, bar := range sorted[1:] {
		if bar.Time.Equal(out[len(out)-1].Time) {
			out[len(out)-1] = bar

			continue
		}

		out = append(out, bar)
	}

	return out
}
