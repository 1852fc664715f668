package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/oxequant/stockdash/internal/cache"
	"github.com/oxequant/stockdash/internal/indicator"
	"github.com/oxequant/stockdash/internal/logger"
	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
	"github.com/oxequant/stockdash/pkg/marketdata"
)

// fakeMarket serves a fixed series and quote, counting fetches so tests can
// assert cache behavior.
type fakeMarket struct {
	series     types.PriceSeries
	quote      types.QuoteSummary
	err        error
	fetchCalls int
}

func (f *fakeMarket) FetchBars(_ context.Context, _ marketdata.FetchParams) (types.PriceSeries, error) {
	f.fetchCalls++

	return f.series, f.err
}

func (f *fakeMarket) Quote(_ context.Context, _ string) (types.QuoteSummary, error) {
	return f.quote, f.err
}

// fakeStore serves a fixed series for the history endpoint.
type fakeStore struct {
	series types.PriceSeries
}

func (f *fakeStore) SaveBars(_ []types.PriceBar) error { return nil }

func (f *fakeStore) ReadBars(_ string, _, _ optional.Option[time.Time]) (types.PriceSeries, error) {
	return f.series, nil
}

func (f *fakeStore) ReadLastBar(_ string) (types.PriceBar, error) {
	if len(f.series) == 0 {
		return types.PriceBar{}, errors.New(errors.ErrCodeDataNotFound, "empty store")
	}

	return f.series[len(f.series)-1], nil
}

func (f *fakeStore) Count(_ string) (int, error) { return len(f.series), nil }
func (f *fakeStore) Symbols() ([]string, error)  { return nil, nil }
func (f *fakeStore) Close() error                { return nil }

type ServerTestSuite struct {
	suite.Suite
	market *fakeMarket
	server *Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) SetupTest() {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	series := make(types.PriceSeries, 0, 40)
	for i := 0; i < 40; i++ {
		close := 100.0 + float64(i)
		series = append(series, types.PriceBar{
			Symbol: "AAPL",
			Time:   start.AddDate(0, 0, i),
			Open:   close,
			High:   close + 1,
			Low:    close - 1,
			Close:  close,
			Volume: 100,
		})
	}

	suite.market = &fakeMarket{
		series: series,
		quote:  types.QuoteSummary{Symbol: "AAPL", Price: 139},
	}

	log := logger.NewNopLogger()
	suite.server = NewServer(Config{
		Symbols:  []string{"AAPL", "MSFT"},
		Range:    types.Range3Month,
		Interval: types.Interval1Day,
		Params:   indicator.DefaultParams(),
	}, suite.market, indicator.NewEngine(log), cache.New(time.Minute), log)
}

func (suite *ServerTestSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	suite.server.Router().ServeHTTP(rec, req)

	return rec
}

func (suite *ServerTestSuite) TestHealth() {
	rec := suite.get("/healthz")
	suite.Equal(http.StatusOK, rec.Code)

	var body map[string]string
	suite.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Equal("ok", body["status"])
}

func (suite *ServerTestSuite) TestSymbols() {
	rec := suite.get("/api/v1/symbols")
	suite.Equal(http.StatusOK, rec.Code)

	var body map[string][]string
	suite.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Equal([]string{"AAPL", "MSFT"}, body["symbols"])
}

func (suite *ServerTestSuite) TestBars() {
	rec := suite.get("/api/v1/bars/AAPL?range=1mo&interval=1d")
	suite.Equal(http.StatusOK, rec.Code)

	var body barsResponse
	suite.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Equal("AAPL", body.Symbol)
	suite.Equal(types.Range1Month, body.Range)
	suite.Len(body.Bars, 40)
}

func (suite *ServerTestSuite) TestBarsServedFromCache() {
	suite.Equal(http.StatusOK, suite.get("/api/v1/bars/AAPL").Code)
	suite.Equal(http.StatusOK, suite.get("/api/v1/bars/AAPL").Code)
	suite.Equal(1, suite.market.fetchCalls)

	// A different range misses the cache.
	suite.Equal(http.StatusOK, suite.get("/api/v1/bars/AAPL?range=1y").Code)
	suite.Equal(2, suite.market.fetchCalls)
}

func (suite *ServerTestSuite) TestBarsInvalidRange() {
	rec := suite.get("/api/v1/bars/AAPL?range=99y")
	suite.Equal(http.StatusBadRequest, rec.Code)

	var body errorResponse
	suite.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Equal(errors.ErrCodeInvalidRange, body.Code)
}

func (suite *ServerTestSuite) TestBarsFetchFailure() {
	suite.market.err = errors.New(errors.ErrCodeFetchFailed, "upstream unavailable")

	rec := suite.get("/api/v1/bars/AAPL")
	suite.Equal(http.StatusBadGateway, rec.Code)
}

func (suite *ServerTestSuite) TestIndicators() {
	rec := suite.get("/api/v1/indicators/AAPL")
	suite.Equal(http.StatusOK, rec.Code)

	var report indicator.Report
	suite.NoError(json.Unmarshal(rec.Body.Bytes(), &report))
	suite.Equal("AAPL", report.Symbol)
	suite.Empty(report.Errors)

	names := make(map[string]bool)
	for _, s := range report.Series {
		names[s.Name] = true
	}

	suite.True(names["sma"])
	suite.True(names["rsi"])
	suite.True(names["macd"])
	suite.True(names["macd_signal"])
	suite.True(names["macd_histogram"])
}

func (suite *ServerTestSuite) TestIndicatorsParamOverrides() {
	rec := suite.get("/api/v1/indicators/AAPL?sma_window=5&rsi_period=7")
	suite.Equal(http.StatusOK, rec.Code)

	var report indicator.Report
	suite.NoError(json.Unmarshal(rec.Body.Bytes(), &report))
	suite.Equal(5, report.Params.SMAWindow)
	suite.Equal(7, report.Params.RSIPeriod)
	suite.Equal(12, report.Params.MACDFast)
}

func (suite *ServerTestSuite) TestIndicatorsBadParamIsolated() {
	// A bad RSI period fails only the RSI; SMA and MACD still compute.
	rec := suite.get("/api/v1/indicators/AAPL?rsi_period=0")
	suite.Equal(http.StatusOK, rec.Code)

	var report indicator.Report
	suite.NoError(json.Unmarshal(rec.Body.Bytes(), &report))
	suite.Contains(report.Errors, types.IndicatorTypeRSI)
	suite.NotEmpty(report.Series)
}

func (suite *ServerTestSuite) TestIndicatorsNonIntegerParam() {
	rec := suite.get("/api/v1/indicators/AAPL?sma_window=abc")
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *ServerTestSuite) TestQuote() {
	rec := suite.get("/api/v1/quote/AAPL")
	suite.Equal(http.StatusOK, rec.Code)

	var quote types.QuoteSummary
	suite.NoError(json.Unmarshal(rec.Body.Bytes(), &quote))
	suite.Equal(139.0, quote.Price)
}

func (suite *ServerTestSuite) TestHistoryWithoutStore() {
	rec := suite.get("/api/v1/history/AAPL")
	suite.Equal(http.StatusInternalServerError, rec.Code)
}

func (suite *ServerTestSuite) TestHistory() {
	suite.server.SetStore(&fakeStore{series: suite.market.series})

	rec := suite.get("/api/v1/history/AAPL")
	suite.Equal(http.StatusOK, rec.Code)

	var body historyResponse
	suite.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Equal("AAPL", body.Symbol)
	suite.Len(body.Bars, 40)
	suite.Equal(40, body.Total)
	suite.Require().NotNil(body.Latest)
	suite.True(body.Latest.Equal(suite.market.series[39].Time))
}

func (suite *ServerTestSuite) TestHistoryEmptyStore() {
	suite.server.SetStore(&fakeStore{})

	rec := suite.get("/api/v1/history/AAPL")
	suite.Equal(http.StatusOK, rec.Code)

	var body historyResponse
	suite.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Equal(0, body.Total)
	suite.Nil(body.Latest)
	suite.Empty(body.Bars)
}

func (suite *ServerTestSuite) TestHistoryRejectsBadTimestamp() {
	suite.server.SetStore(&fakeStore{})

	rec := suite.get("/api/v1/history/AAPL?start=yesterday")
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *ServerTestSuite) TestWebSocketBroadcast() {
	suite.Require().NoError(suite.server.Start(":0"))
	defer suite.server.Stop(context.Background())

	url := "ws://" + suite.server.Address() + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	suite.Require().NoError(err)
	defer conn.Close()

	// Give the server a moment to register the connection.
	suite.Eventually(func() bool {
		suite.server.wsMu.Lock()
		defer suite.server.wsMu.Unlock()

		return len(suite.server.wsConnections) == 1
	}, time.Second, 10*time.Millisecond)

	suite.server.Broadcast(Snapshot{
		Type:      "snapshot",
		Symbol:    "AAPL",
		UpdatedAt: time.Now().UTC(),
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	suite.Require().NoError(err)

	var snapshot Snapshot
	suite.NoError(json.Unmarshal(data, &snapshot))
	suite.Equal("snapshot", snapshot.Type)
	suite.Equal("AAPL", snapshot.Symbol)
}
