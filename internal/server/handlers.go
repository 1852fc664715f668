package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/oxequant/stockdash/internal/cache"
	"github.com/oxequant/stockdash/internal/indicator"
	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
	"github.com/oxequant/stockdash/pkg/marketdata"
)

// barsResponse is the payload of GET /api/v1/bars/{symbol}.
type barsResponse struct {
	Symbol   string            `json:"symbol"`
	Range    types.Range       `json:"range"`
	Interval types.Interval    `json:"interval"`
	Bars     types.PriceSeries `json:"bars"`
}

// historyResponse is the payload of GET /api/v1/history/{symbol}. Total
// counts every stored bar for the symbol, ignoring the requested bounds;
// Latest is the timestamp of the newest stored bar.
type historyResponse struct {
	Symbol string            `json:"symbol"`
	Total  int               `json:"total"`
	Latest *time.Time        `json:"latest,omitempty"`
	Bars   types.PriceSeries `json:"bars"`
}

// errorResponse is the JSON body returned for every failed request.
type errorResponse struct {
	Error string           `json:"error"`
	Code  errors.ErrorCode `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSymbols(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"symbols": s.config.Symbols})
}

func (s *Server) handleBars(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	barRange, interval, err := s.rangeAndInterval(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	series, err := s.loadBars(r, symbol, barRange, interval)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, barsResponse{
		Symbol:   symbol,
		Range:    barRange,
		Interval: interval,
		Bars:     series,
	})
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	barRange, interval, err := s.rangeAndInterval(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	params, err := s.indicatorParams(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	series, err := s.loadBars(r, symbol, barRange, interval)
	if err != nil {
		s.writeError(w, err)

		return
	}

	report, err := s.engine.ComputeAll(series, params)
	if err != nil {
		s.writeError(w, err)

		return
	}

	// The provider tags bars with its own symbol spelling; the report should
	// echo what the caller asked for.
	report.Symbol = symbol

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	key := cache.Key("quote", symbol)
	if cached, ok := s.cache.Get(key); ok {
		s.writeJSON(w, http.StatusOK, cached.(types.QuoteSummary))

		return
	}

	quote, err := s.market.Quote(r.Context(), symbol)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.cache.Set(key, quote)
	s.writeJSON(w, http.StatusOK, quote)
}

// handleHistory serves bars previously downloaded into the local store.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeStoreClosed, "no local store configured"))

		return
	}

	symbol := mux.Vars(r)["symbol"]

	var start, end optional.Option[time.Time]

	if raw := r.URL.Query().Get("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.writeError(w, errors.Newf(errors.ErrCodeInvalidParameter, "start must be RFC3339, got %q", raw))

			return
		}

		start = optional.Some(t)
	}

	if raw := r.URL.Query().Get("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.writeError(w, errors.Newf(errors.ErrCodeInvalidParameter, "end must be RFC3339, got %q", raw))

			return
		}

		end = optional.Some(t)
	}

	series, err := s.store.ReadBars(symbol, start, end)
	if err != nil {
		s.writeError(w, err)

		return
	}

	total, err := s.store.Count(symbol)
	if err != nil {
		s.writeError(w, err)

		return
	}

	response := historyResponse{
		Symbol: symbol,
		Total:  total,
		Bars:   series,
	}

	last, err := s.store.ReadLastBar(symbol)
	switch {
	case err == nil:
		response.Latest = &last.Time
	case !errors.HasCode(err, errors.ErrCodeDataNotFound):
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, response)
}

// loadBars fetches the series for symbol, serving from cache when possible.
func (s *Server) loadBars(r *http.Request, symbol string, barRange types.Range, interval types.Interval) (types.PriceSeries, error) {
	key := cache.Key("bars", symbol, string(barRange), string(interval))
	if cached, ok := s.cache.Get(key); ok {
		return cached.(types.PriceSeries), nil
	}

	now := time.Now().UTC()

	series, err := s.market.FetchBars(r.Context(), marketdata.FetchParams{
		Symbol:   symbol,
		Start:    barRange.Start(now),
		End:      now,
		Interval: interval,
	})
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, series)

	return series, nil
}

// rangeAndInterval resolves the range and interval query parameters, falling
// back to the configured defaults.
func (s *Server) rangeAndInterval(r *http.Request) (types.Range, types.Interval, error) {
	barRange := s.config.Range
	if raw := r.URL.Query().Get("range"); raw != "" {
		barRange = types.Range(raw)
	}

	if err := barRange.Validate(); err != nil {
		return "", "", err
	}

	interval := s.config.Interval
	if raw := r.URL.Query().Get("interval"); raw != "" {
		interval = types.Interval(raw)
	}

	if err := interval.Validate(); err != nil {
		return "", "", err
	}

	return barRange, interval, nil
}

// indicatorParams resolves the lookback parameters, with query overrides on
// top of the configured defaults. Validation happens in the engine.
func (s *Server) indicatorParams(r *http.Request) (indicator.Params, error) {
	params := s.config.Params

	overrides := []struct {
		name string
		dst  *int
	}{
		{"sma_window", &params.SMAWindow},
		{"rsi_period", &params.RSIPeriod},
		{"macd_fast", &params.MACDFast},
		{"macd_slow", &params.MACDSlow},
		{"macd_signal", &params.MACDSignal},
	}

	for _, o := range overrides {
		raw := r.URL.Query().Get(o.name)
		if raw == "" {
			continue
		}

		value, err := strconv.Atoi(raw)
		if err != nil {
			return indicator.Params{}, errors.Newf(errors.ErrCodeInvalidParameter, "%s must be an integer, got %q", o.name, raw)
		}

		*o.dst = value
	}

	return params, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)

	s.writeJSON(w, statusFromCode(code), errorResponse{
		Error: err.Error(),
		Code:  code,
	})
}

// statusFromCode maps the error taxonomy onto HTTP statuses: validation
// errors are the caller's fault, upstream fetch failures are a bad gateway.
func statusFromCode(code errors.ErrorCode) int {
	switch {
	case code == errors.ErrCodeDataNotFound || code == errors.ErrCodeIndicatorNotFound:
		return http.StatusNotFound
	case code >= 100 && code < 200:
		return http.StatusBadRequest
	case code == errors.ErrCodeFetchFailed || code == errors.ErrCodeQuoteFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
