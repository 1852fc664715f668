// Package refresh periodically refetches bars and quotes for the tracked
// symbols, recomputes indicators, primes the result cache, and pushes
// snapshots to connected WebSocket clients.
package refresh

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/oxequant/stockdash/internal/cache"
	"github.com/oxequant/stockdash/internal/indicator"
	"github.com/oxequant/stockdash/internal/logger"
	"github.com/oxequant/stockdash/internal/server"
	"github.com/oxequant/stockdash/internal/store"
	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
	"github.com/oxequant/stockdash/pkg/marketdata"
)

// Broadcaster delivers refresh snapshots to connected clients.
// *server.Server satisfies it.
type Broadcaster interface {
	Broadcast(message any)
}

// Config holds the refresher schedule and fetch defaults.
type Config struct {
	// Spec is the cron spec driving refreshes, e.g. "@every 30s".
	Spec     string
	Symbols  []string
	Range    types.Range
	Interval types.Interval
	Params   indicator.Params
}

// Refresher runs the periodic refresh loop.
type Refresher struct {
	config      Config
	market      server.MarketData
	engine      *indicator.Engine
	cache       *cache.TTLCache
	broadcaster Broadcaster
	store       store.Store
	logger      *logger.Logger
	cron        *cron.Cron
}

// NewRefresher creates a refresher. broadcaster may be nil when no client
// streaming is wanted.
func NewRefresher(config Config, market server.MarketData, engine *indicator.Engine, resultCache *cache.TTLCache, broadcaster Broadcaster, log *logger.Logger) *Refresher {
	return &Refresher{
		config:      config,
		market:      market,
		engine:      engine,
		cache:       resultCache,
		broadcaster: broadcaster,
		logger:      log,
		cron:        cron.New(),
	}
}

// SetStore persists refreshed bars into the local store.
func (r *Refresher) SetStore(barStore store.Store) {
	r.store = barStore
}

// Start registers the refresh job and starts the scheduler. The first refresh
// runs immediately so the dashboard has data before the first tick.
func (r *Refresher) Start(ctx context.Context) error {
	if _, err := r.cron.AddFunc(r.config.Spec, func() { r.RefreshAll(ctx) }); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid refresh spec %q", r.config.Spec)
	}

	go r.RefreshAll(ctx)

	r.cron.Start()
	r.logger.Info("refresher started",
		zap.String("spec", r.config.Spec),
		zap.Strings("symbols", r.config.Symbols))

	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("refresher stopped")
}

// RefreshAll refreshes every tracked symbol. A failure on one symbol never
// blocks the rest.
func (r *Refresher) RefreshAll(ctx context.Context) {
	for _, symbol := range r.config.Symbols {
		if ctx.Err() != nil {
			return
		}

		if err := r.refreshSymbol(ctx, symbol); err != nil {
			r.logger.Warn("symbol refresh failed",
				zap.String("symbol", symbol),
				zap.Error(err))
		}
	}
}

func (r *Refresher) refreshSymbol(ctx context.Context, symbol string) error {
	now := time.Now().UTC()

	series, err := r.market.FetchBars(ctx, marketdata.FetchParams{
		Symbol:   symbol,
		Start:    r.config.Range.Start(now),
		End:      now,
		Interval: r.config.Interval,
	})
	if err != nil {
		return err
	}

	report, err := r.engine.ComputeAll(series, r.config.Params)
	if err != nil {
		return err
	}

	report.Symbol = symbol

	snapshot := server.Snapshot{
		Type:      "snapshot",
		Symbol:    symbol,
		Report:    report,
		UpdatedAt: now,
	}

	// The quote is best-effort; a stale chart is still worth pushing.
	quote, err := r.market.Quote(ctx, symbol)
	if err != nil {
		r.logger.Warn("quote refresh failed",
			zap.String("symbol", symbol),
			zap.Error(err))
	} else {
		snapshot.Quote = &quote
		r.cache.Set(cache.Key("quote", symbol), quote)
	}

	r.cache.Set(cache.Key("bars", symbol, string(r.config.Range), string(r.config.Interval)), series)

	// Persisting is best-effort too; the in-memory path stays authoritative.
	if r.store != nil {
		if err := r.store.SaveBars(series); err != nil {
			r.logger.Warn("failed to persist refreshed bars",
				zap.String("symbol", symbol),
				zap.Error(err))
		}
	}

	if r.broadcaster != nil {
		r.broadcaster.Broadcast(snapshot)
	}

	r.logger.Debug("symbol refreshed",
		zap.String("symbol", symbol),
		zap.Int("bars", len(series)))

	return nil
}
