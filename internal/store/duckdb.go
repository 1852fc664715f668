// Package store persists downloaded OHLCV history in a local DuckDB
// database so the dashboard can serve and recompute without refetching.
package store

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/oxequant/stockdash/internal/logger"
	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
)

// Store is the interface for bar persistence.
type Store interface {
	// SaveBars upserts bars keyed by (symbol, time).
	SaveBars(bars []types.PriceBar) error
	// ReadBars reads bars for a symbol ordered ascending by time, optionally
	// bounded by start and end (inclusive).
	ReadBars(symbol string, start, end optional.Option[time.Time]) (types.PriceSeries, error)
	// ReadLastBar reads the most recent bar for a symbol.
	ReadLastBar(symbol string) (types.PriceBar, error)
	// Count returns the number of stored bars for a symbol.
	Count(symbol string) (int, error)
	// Symbols lists the distinct symbols present in the store.
	Symbols() ([]string, error)
	// Close releases the underlying database.
	Close() error
}

// DuckDBStore implements Store on a DuckDB database file.
type DuckDBStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBStore opens (or creates) the DuckDB database at path. Use
// ":memory:" for an ephemeral store.
func NewDuckDBStore(path string, log *logger.Logger) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to open duckdb database at %s", path)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS bars (
			id TEXT,
			symbol TEXT,
			time TIMESTAMP,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE,
			PRIMARY KEY (symbol, time)
		)
	`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to create bars table", err)
	}

	return &DuckDBStore{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// SaveBars implements Store.
func (s *DuckDBStore) SaveBars(bars []types.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to begin transaction", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO bars (id, symbol, time, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to prepare insert", err)
	}
	defer stmt.Close()

	for _, bar := range bars {
		_, err := stmt.Exec(uuid.NewString(), bar.Symbol, bar.Time, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
		if err != nil {
			tx.Rollback()

			return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to insert bar for %s", bar.Symbol)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to commit bars", err)
	}

	s.logger.Debug("saved bars", zap.Int("count", len(bars)), zap.String("symbol", bars[0].Symbol))

	return nil
}

// ReadBars implements Store.
func (s *DuckDBStore) ReadBars(symbol string, start, end optional.Option[time.Time]) (types.PriceSeries, error) {
	query := s.sq.
		Select("symbol", "time", "open", "high", "low", "close", "volume").
		From("bars").
		Where(squirrel.Eq{"symbol": symbol}).
		OrderBy("time ASC")

	if start.IsSome() {
		query = query.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		query = query.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := s.db.Query(sqlText, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read bars for %s", symbol)
	}
	defer rows.Close()

	var series types.PriceSeries

	for rows.Next() {
		var bar types.PriceBar
		if err := rows.Scan(&bar.Symbol, &bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar", err)
		}

		bar.Time = bar.Time.UTC()
		series = append(series, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate bars", err)
	}

	return series, nil
}

// ReadLastBar implements Store.
func (s *DuckDBStore) ReadLastBar(symbol string) (types.PriceBar, error) {
	sqlText, args, err := s.sq.
		Select("symbol", "time", "open", "high", "low", "close", "volume").
		From("bars").
		Where(squirrel.Eq{"symbol": symbol}).
		OrderBy("time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return types.PriceBar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var bar types.PriceBar

	row := s.db.QueryRow(sqlText, args...)
	if err := row.Scan(&bar.Symbol, &bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.PriceBar{}, errors.Newf(errors.ErrCodeDataNotFound, "no bars stored for symbol %s", symbol)
		}

		return types.PriceBar{}, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read last bar for %s", symbol)
	}

	bar.Time = bar.Time.UTC()

	return bar, nil
}

// Count implements Store.
func (s *DuckDBStore) Count(symbol string) (int, error) {
	sqlText, args, err := s.sq.
		Select("COUNT(*)").
		From("bars").
		Where(squirrel.Eq{"symbol": symbol}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int
	if err := s.db.QueryRow(sqlText, args...).Scan(&count); err != nil {
		return 0, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to count bars for %s", symbol)
	}

	return count, nil
}

// Symbols implements Store.
func (s *DuckDBStore) Symbols() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT symbol FROM bars ORDER BY symbol`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to list symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate symbols", err)
	}

	return symbols, nil
}

// Close implements Store.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}
