// Package server exposes the dashboard over HTTP: a JSON REST API for bars,
// indicators, and quotes, plus a WebSocket endpoint streaming refresh
// snapshots to connected dashboard clients.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/oxequant/stockdash/internal/cache"
	"github.com/oxequant/stockdash/internal/indicator"
	"github.com/oxequant/stockdash/internal/logger"
	"github.com/oxequant/stockdash/internal/store"
	"github.com/oxequant/stockdash/internal/types"
	"github.com/oxequant/stockdash/pkg/errors"
	"github.com/oxequant/stockdash/pkg/marketdata"
)

const writeWait = 10 * time.Second

// MarketData is the slice of the market data client the server needs.
type MarketData interface {
	FetchBars(ctx context.Context, params marketdata.FetchParams) (types.PriceSeries, error)
	Quote(ctx context.Context, symbol string) (types.QuoteSummary, error)
}

// Config holds the server defaults applied when a request omits a parameter.
type Config struct {
	Symbols  []string
	Range    types.Range
	Interval types.Interval
	Params   indicator.Params
}

// Snapshot is the message broadcast to WebSocket clients after each refresh.
type Snapshot struct {
	Type      string              `json:"type"`
	Symbol    string              `json:"symbol"`
	Quote     *types.QuoteSummary `json:"quote,omitempty"`
	Report    *indicator.Report   `json:"report,omitempty"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Server serves the dashboard API.
type Server struct {
	config Config
	market MarketData
	engine *indicator.Engine
	cache  *cache.TTLCache
	store  store.Store
	logger *logger.Logger

	httpServer *http.Server
	listener   net.Listener

	upgrader      websocket.Upgrader
	wsConnections map[*websocket.Conn]bool
	wsMu          sync.Mutex
}

// NewServer creates a dashboard API server.
func NewServer(config Config, market MarketData, engine *indicator.Engine, resultCache *cache.TTLCache, log *logger.Logger) *Server {
	return &Server{
		config: config,
		market: market,
		engine: engine,
		cache:  resultCache,
		logger: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		wsConnections: make(map[*websocket.Conn]bool),
	}
}

// SetStore enables the local history endpoint backed by the DuckDB store.
func (s *Server) SetStore(barStore store.Store) {
	s.store = barStore
}

// Router builds the HTTP routes. Exposed so tests can drive the handlers
// through httptest without a listener.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	router.HandleFunc("/api/v1/symbols", s.handleSymbols).Methods("GET")
	router.HandleFunc("/api/v1/bars/{symbol}", s.handleBars).Methods("GET")
	router.HandleFunc("/api/v1/indicators/{symbol}", s.handleIndicators).Methods("GET")
	router.HandleFunc("/api/v1/quote/{symbol}", s.handleQuote).Methods("GET")
	router.HandleFunc("/api/v1/history/{symbol}", s.handleHistory).Methods("GET")
	router.HandleFunc("/ws", s.handleWebSocket)

	return router
}

// Start listens on address and serves in the background. Use ":0" to bind a
// random free port.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeUnknown, err, "failed to listen on %s", address)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", zap.Error(err))
		}
	}()

	s.logger.Info("api server listening", zap.String("address", s.Address()))

	return nil
}

// Stop closes WebSocket connections and shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	s.wsMu.Lock()
	for conn := range s.wsConnections {
		conn.Close()
	}
	s.wsConnections = make(map[*websocket.Conn]bool)
	s.wsMu.Unlock()

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Address returns the bound listen address, or "" before Start.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// handleWebSocket upgrades the connection and tracks it until the client
// disconnects. Clients only receive; inbound messages are discarded.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))

		return
	}

	s.wsMu.Lock()
	s.wsConnections[conn] = true
	total := len(s.wsConnections)
	s.wsMu.Unlock()

	s.logger.Info("websocket client connected", zap.Int("total", total))

	defer func() {
		s.wsMu.Lock()
		delete(s.wsConnections, conn)
		s.wsMu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends the message as JSON to every connected WebSocket client.
// Clients that fail the write are dropped.
func (s *Server) Broadcast(message any) {
	data, err := json.Marshal(message)
	if err != nil {
		s.logger.Error("failed to marshal broadcast message", zap.Error(err))

		return
	}

	s.wsMu.Lock()
	defer s.wsMu.Unlock()

	for conn := range s.wsConnections {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.logger.Warn("dropping websocket client after failed write", zap.Error(err))
			conn.Close()
			delete(s.wsConnections, conn)
		}
	}
}
