package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/oxequant/stockdash/internal/config"
	"github.com/oxequant/stockdash/internal/logger"
	"github.com/oxequant/stockdash/internal/store"
	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/marketdata"
	"github.com/oxequant/stockdash/pkg/marketdata/provider"
)

// downloadAction fetches historical bars for each symbol and saves them into
// the local DuckDB store.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	symbols := cmd.StringSlice("symbol")
	start := cmd.Timestamp("start")
	end := cmd.Timestamp("end")
	interval := types.Interval(cmd.String("interval"))
	dataPath := cmd.String("data")

	if err := interval.Validate(); err != nil {
		return err
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		return err
	}

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		ProviderType:  provider.ProviderType(cmd.String("provider")),
		PolygonAPIKey: secrets.PolygonAPIKey,
	})
	if err != nil {
		return err
	}

	storeLog, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer storeLog.Sync()

	barStore, err := store.NewDuckDBStore(dataPath, storeLog)
	if err != nil {
		return err
	}
	defer barStore.Close()

	bar := progressbar.Default(int64(len(symbols)), "downloading")

	total := 0

	for _, symbol := range symbols {
		series, err := client.FetchBars(ctx, marketdata.FetchParams{
			Symbol:   symbol,
			Start:    start,
			End:      end,
			Interval: interval,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", symbol, err)
		}

		if err := barStore.SaveBars(series); err != nil {
			return fmt.Errorf("failed to save %s: %w", symbol, err)
		}

		total += len(series)
		bar.Add(1)
	}

	log.Printf("Saved %d bars across %d symbols to %s", total, len(symbols), dataPath)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "download",
		Usage: "Download historical bars into the local DuckDB store",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "symbol",
				Aliases:  []string{"s"},
				Usage:    "Ticker symbol to download. Repeat for multiple symbols.",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:     "start",
				Usage:    "Start date in `YYYY-MM-DD` format",
				Required: true,
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.TimestampFlag{
				Name:  "end",
				Usage: "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value: time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Bar interval (1m, 5m, 15m, 30m, 1h, 1d, 1wk, 1mo)",
				Value:   string(types.Interval1Day),
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider (%s, %s, %s)", provider.ProviderYahoo, provider.ProviderPolygon, provider.ProviderBinance),
				Value:   string(provider.ProviderYahoo),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the DuckDB database file",
				Value:   "stockdash.db",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
