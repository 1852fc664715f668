package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/oxequant/stockdash/internal/cache"
	"github.com/oxequant/stockdash/internal/config"
	"github.com/oxequant/stockdash/internal/indicator"
	"github.com/oxequant/stockdash/internal/logger"
	"github.com/oxequant/stockdash/internal/refresh"
	"github.com/oxequant/stockdash/internal/server"
	"github.com/oxequant/stockdash/internal/store"
	"github.com/oxequant/stockdash/pkg/marketdata"
	"github.com/oxequant/stockdash/pkg/marketdata/provider"
)

const shutdownTimeout = 10 * time.Second

// serveAction wires the dashboard together and blocks until interrupted.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	if listen := cmd.String("listen"); listen != "" {
		cfg.Listen = listen
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		return err
	}

	log, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType:  provider.ProviderType(cfg.Provider),
		PolygonAPIKey: secrets.PolygonAPIKey,
	})
	if err != nil {
		return err
	}

	engine := indicator.NewEngine(log)
	resultCache := cache.New(cfg.CacheTTL.Std())

	srv := server.NewServer(server.Config{
		Symbols:  cfg.Symbols,
		Range:    cfg.Range,
		Interval: cfg.Interval,
		Params:   cfg.Indicators.Params(),
	}, client, engine, resultCache, log)

	var barStore store.Store
	if cfg.StorePath != "" {
		barStore, err = store.NewDuckDBStore(cfg.StorePath, log)
		if err != nil {
			return err
		}
		defer barStore.Close()

		srv.SetStore(barStore)
	}

	if err := srv.Start(cfg.Listen); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var refresher *refresh.Refresher
	if cfg.RefreshSpec != "" {
		refresher = refresh.NewRefresher(refresh.Config{
			Spec:     cfg.RefreshSpec,
			Symbols:  cfg.Symbols,
			Range:    cfg.Range,
			Interval: cfg.Interval,
			Params:   cfg.Indicators.Params(),
		}, client, engine, resultCache, srv, log)

		if barStore != nil {
			refresher.SetStore(barStore)
		}

		if err := refresher.Start(ctx); err != nil {
			return err
		}
	}

	log.Info("dashboard running",
		zap.String("listen", srv.Address()),
		zap.String("provider", cfg.Provider),
		zap.Strings("symbols", cfg.Symbols))

	<-ctx.Done()
	log.Info("shutting down")

	if refresher != nil {
		refresher.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()

		return &cfg, nil
	}

	return config.Load(path)
}

func main() {
	cmd := &cli.Command{
		Name:  "stockdash",
		Usage: "Serve the stock dashboard API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file. Defaults apply when omitted.",
			},
			&cli.StringFlag{
				Name:    "listen",
				Aliases: []string{"l"},
				Usage:   "HTTP listen address, overriding the config file",
			},
		},
		Action: serveAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
